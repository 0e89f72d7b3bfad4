package handler

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/titan-online/registrar-api/internal/models"
	"github.com/titan-online/registrar-api/internal/service"
	appErrors "github.com/titan-online/registrar-api/pkg/errors"
)

type catalogServiceMock struct {
	classes   []models.ClassRow
	course    *models.Course
	section   *models.Section
	patchErr  error
	deleteErr error
	createErr error
	patched   []int64
	deleted   []int64
}

func (m *catalogServiceMock) ListClasses(ctx context.Context) ([]models.ClassRow, error) {
	return m.classes, nil
}

func (m *catalogServiceMock) CreateCourse(ctx context.Context, req service.CreateCourseRequest) (*models.Course, error) {
	if m.createErr != nil {
		return nil, m.createErr
	}
	return m.course, nil
}

func (m *catalogServiceMock) CreateSection(ctx context.Context, req service.CreateSectionRequest) (*models.Section, error) {
	if m.createErr != nil {
		return nil, m.createErr
	}
	return m.section, nil
}

func (m *catalogServiceMock) PatchSection(ctx context.Context, id int64, req service.PatchSectionRequest) error {
	if m.patchErr != nil {
		return m.patchErr
	}
	m.patched = append(m.patched, id)
	return nil
}

func (m *catalogServiceMock) DeleteSection(ctx context.Context, id int64) error {
	if m.deleteErr != nil {
		return m.deleteErr
	}
	m.deleted = append(m.deleted, id)
	return nil
}

func TestCatalogHandlerListClasses(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mock := &catalogServiceMock{classes: []models.ClassRow{{
		Course:    models.Course{DepartmentCode: "CPSC", CourseNo: 449, Title: "Web Back-End Engineering"},
		SectionID: 7,
	}}}
	handler := NewCatalogHandler(mock)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/classes/", nil)
	c.Request = req

	handler.ListClasses(c)
	require.Equal(t, http.StatusOK, w.Code)
	env := decodeEnvelope(t, w)
	data := env.Data.(map[string]interface{})
	assert.Len(t, data["classes"], 1)
}

func TestCatalogHandlerCreateSectionSetsLocation(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mock := &catalogServiceMock{section: &models.Section{
		ID:              7,
		DeptCode:        "CPSC",
		CourseNum:       449,
		SectionNo:       1,
		Semester:        "FA",
		Year:            2026,
		CourseStartDate: time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC),
	}}
	handler := NewCatalogHandler(mock)
	w := httptest.NewRecorder()
	c := postJSON(t, w, "/sections/", service.CreateSectionRequest{
		DeptCode:        "CPSC",
		CourseNum:       449,
		SectionNo:       1,
		Semester:        "FA",
		Year:            2026,
		ProfID:          5,
		RoomNum:         101,
		CourseStartDate: "2026-08-24",
		EnrollmentStart: "2026-07-01",
		EnrollmentEnd:   "2026-08-31",
	})

	handler.CreateSection(c)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "/sections/7", w.Header().Get("Location"))
}

func TestCatalogHandlerCreateCourseConflict(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mock := &catalogServiceMock{createErr: appErrors.Clone(appErrors.ErrConflict, "course already exists")}
	handler := NewCatalogHandler(mock)
	w := httptest.NewRecorder()
	c := postJSON(t, w, "/courses/", service.CreateCourseRequest{
		DepartmentCode: "CPSC",
		CourseNo:       449,
		Title:          "Web Back-End Engineering",
	})

	handler.CreateCourse(c)
	require.Equal(t, http.StatusConflict, w.Code)
	env := decodeEnvelope(t, w)
	require.NotNil(t, env.Error)
	assert.Equal(t, "CONFLICT", env.Error.Code)
}

func TestCatalogHandlerPatchSection(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mock := &catalogServiceMock{}
	handler := NewCatalogHandler(mock)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPatch, "/sections/7", bytes.NewReader([]byte(`{"room_num":202}`)))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	c.Params = gin.Params{{Key: "id", Value: "7"}}

	handler.PatchSection(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []int64{7}, mock.patched)
}

func TestCatalogHandlerDeleteSection(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mock := &catalogServiceMock{}
	handler := NewCatalogHandler(mock)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodDelete, "/sections/7", nil)
	c.Request = req
	c.Params = gin.Params{{Key: "id", Value: "7"}}

	handler.DeleteSection(c)
	c.Writer.WriteHeaderNow()
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, []int64{7}, mock.deleted)
}
