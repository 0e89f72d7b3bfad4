package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/titan-online/registrar-api/internal/models"
)

type registrarConfigServiceMock struct {
	cfg *models.RegistrarConfig
	set []bool
}

func (m *registrarConfigServiceMock) Get(ctx context.Context) (*models.RegistrarConfig, error) {
	return m.cfg, nil
}

func (m *registrarConfigServiceMock) SetAutoEnrollment(ctx context.Context, enabled bool) error {
	m.set = append(m.set, enabled)
	return nil
}

func TestConfigHandlerGet(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewConfigHandler(&registrarConfigServiceMock{cfg: &models.RegistrarConfig{AutomaticEnrollment: true}})
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/freezeenrollment", nil)
	c.Request = req

	handler.Get(c)
	require.Equal(t, http.StatusOK, w.Code)
	env := decodeEnvelope(t, w)
	data := env.Data.(map[string]interface{})
	assert.Equal(t, true, data["automatic_enrollment"])
}

func TestConfigHandlerSetAutoEnrollment(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mock := &registrarConfigServiceMock{}
	handler := NewConfigHandler(mock)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPost, "/freezeenrollment/true", nil)
	c.Request = req
	c.Params = gin.Params{{Key: "flag", Value: "true"}}

	handler.SetAutoEnrollment(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []bool{true}, mock.set)
}

func TestConfigHandlerSetAutoEnrollmentBadFlag(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mock := &registrarConfigServiceMock{}
	handler := NewConfigHandler(mock)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPost, "/freezeenrollment/maybe", nil)
	c.Request = req
	c.Params = gin.Params{{Key: "flag", Value: "maybe"}}

	handler.SetAutoEnrollment(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, mock.set)
}
