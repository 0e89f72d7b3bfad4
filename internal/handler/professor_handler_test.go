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
	"github.com/titan-online/registrar-api/internal/service"
	appErrors "github.com/titan-online/registrar-api/pkg/errors"
)

type professorServiceMock struct {
	enrollments []models.Enrollment
	droplists   []models.DroplistEntry
	err         error
}

func (m *professorServiceMock) Enrollments(ctx context.Context, profID int64) ([]models.Enrollment, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.enrollments, nil
}

func (m *professorServiceMock) Droplists(ctx context.Context, profID int64) ([]models.DroplistEntry, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.droplists, nil
}

type dropServiceMock struct {
	result *service.DropResult
	err    error
	seen   [][3]int64
}

func (m *dropServiceMock) AdministrativeDrop(ctx context.Context, profID, sectionID, studentID int64) (*service.DropResult, error) {
	m.seen = append(m.seen, [3]int64{profID, sectionID, studentID})
	if m.err != nil {
		return nil, m.err
	}
	return m.result, nil
}

func TestProfessorHandlerEnrollments(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mock := &professorServiceMock{enrollments: []models.Enrollment{{SectionID: 7, StudentID: 42}}}
	handler := NewProfessorHandler(mock, &dropServiceMock{})
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/professors/5/enrollments", nil)
	c.Request = req
	c.Params = gin.Params{{Key: "prof_id", Value: "5"}}

	handler.Enrollments(c)
	require.Equal(t, http.StatusOK, w.Code)
	env := decodeEnvelope(t, w)
	data := env.Data.(map[string]interface{})
	assert.Len(t, data["enrollments"], 1)
}

func TestProfessorHandlerEnrollmentsUnknownProfessor(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewProfessorHandler(&professorServiceMock{err: appErrors.ErrProfessorNotFound}, &dropServiceMock{})
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/professors/99/enrollments", nil)
	c.Request = req
	c.Params = gin.Params{{Key: "prof_id", Value: "99"}}

	handler.Enrollments(c)
	require.Equal(t, http.StatusNotFound, w.Code)
	env := decodeEnvelope(t, w)
	require.NotNil(t, env.Error)
	assert.Equal(t, "PROFESSOR_NOT_FOUND", env.Error.Code)
}

func TestProfessorHandlerDrop(t *testing.T) {
	gin.SetMode(gin.TestMode)
	drops := &dropServiceMock{result: &service.DropResult{
		SectionID:   7,
		StudentID:   42,
		RemovedSeat: true,
		Promoted:    1,
	}}
	handler := NewProfessorHandler(&professorServiceMock{}, drops)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodDelete, "/professors/5/course_section/7/student/42/drop", nil)
	c.Request = req
	c.Params = gin.Params{
		{Key: "prof_id", Value: "5"},
		{Key: "section_id", Value: "7"},
		{Key: "student_id", Value: "42"},
	}

	handler.Drop(c)
	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, drops.seen, 1)
	assert.Equal(t, [3]int64{5, 7, 42}, drops.seen[0])

	env := decodeEnvelope(t, w)
	data := env.Data.(map[string]interface{})
	assert.Equal(t, true, data["removed_seat"])
	assert.Equal(t, float64(1), data["promoted"])
}

func TestProfessorHandlerDropBadParam(t *testing.T) {
	gin.SetMode(gin.TestMode)
	drops := &dropServiceMock{}
	handler := NewProfessorHandler(&professorServiceMock{}, drops)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodDelete, "/professors/5/course_section/x/student/42/drop", nil)
	c.Request = req
	c.Params = gin.Params{
		{Key: "prof_id", Value: "5"},
		{Key: "section_id", Value: "x"},
		{Key: "student_id", Value: "42"},
	}

	handler.Drop(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, drops.seen)
}
