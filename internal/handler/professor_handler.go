package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/titan-online/registrar-api/internal/models"
	"github.com/titan-online/registrar-api/internal/service"
	"github.com/titan-online/registrar-api/pkg/response"
)

type professorRosterService interface {
	Enrollments(ctx context.Context, profID int64) ([]models.Enrollment, error)
	Droplists(ctx context.Context, profID int64) ([]models.DroplistEntry, error)
}

type dropService interface {
	AdministrativeDrop(ctx context.Context, profID, sectionID, studentID int64) (*service.DropResult, error)
}

// ProfessorHandler exposes professor roster views and administrative drops.
type ProfessorHandler struct {
	professors professorRosterService
	drops      dropService
}

// NewProfessorHandler constructs ProfessorHandler.
func NewProfessorHandler(professors professorRosterService, drops dropService) *ProfessorHandler {
	return &ProfessorHandler{professors: professors, drops: drops}
}

// Enrollments godoc
// @Summary List enrollments across a professor's sections
// @Tags Professors
// @Produce json
// @Param prof_id path int true "Professor ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /professors/{prof_id}/enrollments [get]
func (h *ProfessorHandler) Enrollments(c *gin.Context) {
	profID, err := int64Param(c, "prof_id")
	if err != nil {
		response.Error(c, err)
		return
	}
	enrollments, err := h.professors.Enrollments(c.Request.Context(), profID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"enrollments": enrollments})
}

// Droplists godoc
// @Summary List drop audit entries across a professor's sections
// @Tags Professors
// @Produce json
// @Param prof_id path int true "Professor ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /professors/{prof_id}/droplists [get]
func (h *ProfessorHandler) Droplists(c *gin.Context) {
	profID, err := int64Param(c, "prof_id")
	if err != nil {
		response.Error(c, err)
		return
	}
	droplists, err := h.professors.Droplists(c.Request.Context(), profID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"droplists": droplists})
}

// Drop godoc
// @Summary Administratively drop a student from a section
// @Description Removes the student's enrollment and waitlist presence, records the drop, and backfills the seat when automatic enrollment is on.
// @Tags Professors
// @Produce json
// @Param prof_id path int true "Professor ID"
// @Param section_id path int true "Section ID"
// @Param student_id path int true "Student ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /professors/{prof_id}/course_section/{section_id}/student/{student_id}/drop [delete]
func (h *ProfessorHandler) Drop(c *gin.Context) {
	profID, err := int64Param(c, "prof_id")
	if err != nil {
		response.Error(c, err)
		return
	}
	sectionID, err := int64Param(c, "section_id")
	if err != nil {
		response.Error(c, err)
		return
	}
	studentID, err := int64Param(c, "student_id")
	if err != nil {
		response.Error(c, err)
		return
	}
	result, err := h.drops.AdministrativeDrop(c.Request.Context(), profID, sectionID, studentID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result)
}
