package handler

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	appErrors "github.com/titan-online/registrar-api/pkg/errors"
	"github.com/titan-online/registrar-api/pkg/response"
)

type waitlistService interface {
	Position(ctx context.Context, sectionID, studentID int64) (int, error)
	SectionWaitlist(ctx context.Context, sectionID int64) ([]int64, error)
	SelfDrop(ctx context.Context, sectionID, studentID int64) error
	ExportSectionWaitlist(ctx context.Context, sectionID int64, format string) ([]byte, string, error)
}

// WaitlistHandler exposes student and professor waitlist views.
type WaitlistHandler struct {
	waitlists waitlistService
}

// NewWaitlistHandler constructs WaitlistHandler.
func NewWaitlistHandler(waitlists waitlistService) *WaitlistHandler {
	return &WaitlistHandler{waitlists: waitlists}
}

type selfDropRequest struct {
	StudentID int64 `json:"student_id" binding:"required,gt=0"`
}

// Position godoc
// @Summary Get a student's waitlist position for a section
// @Tags Waitlist
// @Produce json
// @Param section_id path int true "Section ID"
// @Param student_id path int true "Student ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /student/waitlist/{section_id}/{student_id} [get]
func (h *WaitlistHandler) Position(c *gin.Context) {
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
	position, err := h.waitlists.Position(c.Request.Context(), sectionID, studentID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"position": position})
}

// SelfDrop godoc
// @Summary Remove oneself from a section's waitlist
// @Tags Waitlist
// @Accept json
// @Produce json
// @Param section_id path int true "Section ID"
// @Param payload body selfDropRequest true "Student identifier"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /student/waitlist/{section_id} [delete]
func (h *WaitlistHandler) SelfDrop(c *gin.Context) {
	sectionID, err := int64Param(c, "section_id")
	if err != nil {
		response.Error(c, err)
		return
	}
	var req selfDropRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	if err := h.waitlists.SelfDrop(c.Request.Context(), sectionID, req.StudentID); err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{
		"message": fmt.Sprintf("Student %d removed from waitlist for section_id %d", req.StudentID, sectionID),
	})
}

// SectionWaitlist godoc
// @Summary List a section's waitlist in promotion order
// @Tags Waitlist
// @Produce json
// @Param section_id path int true "Section ID"
// @Success 200 {object} response.Envelope
// @Router /professor/waitlist/{section_id} [get]
func (h *WaitlistHandler) SectionWaitlist(c *gin.Context) {
	sectionID, err := int64Param(c, "section_id")
	if err != nil {
		response.Error(c, err)
		return
	}
	students, err := h.waitlists.SectionWaitlist(c.Request.Context(), sectionID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"waitlist": students})
}

// Export godoc
// @Summary Export a section's waitlist as CSV or PDF
// @Tags Waitlist
// @Produce octet-stream
// @Param section_id path int true "Section ID"
// @Param format query string false "csv or pdf" default(csv)
// @Success 200 {file} binary
// @Router /professor/waitlist/{section_id}/export [get]
func (h *WaitlistHandler) Export(c *gin.Context) {
	sectionID, err := int64Param(c, "section_id")
	if err != nil {
		response.Error(c, err)
		return
	}
	format := strings.ToLower(c.DefaultQuery("format", "csv"))
	payload, contentType, err := h.waitlists.ExportSectionWaitlist(c.Request.Context(), sectionID, format)
	if err != nil {
		response.Error(c, err)
		return
	}
	filename := fmt.Sprintf("waitlist-section-%d.%s", sectionID, format)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, contentType, payload)
}
