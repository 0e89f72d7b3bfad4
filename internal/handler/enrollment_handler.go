package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/titan-online/registrar-api/internal/service"
	appErrors "github.com/titan-online/registrar-api/pkg/errors"
	"github.com/titan-online/registrar-api/pkg/response"
)

type admissionService interface {
	Admit(ctx context.Context, req service.EnrollRequest) (*service.AdmissionResult, error)
}

// EnrollmentHandler exposes the enrollment attempt endpoint.
type EnrollmentHandler struct {
	admissions admissionService
}

// NewEnrollmentHandler constructs EnrollmentHandler.
func NewEnrollmentHandler(admissions admissionService) *EnrollmentHandler {
	return &EnrollmentHandler{admissions: admissions}
}

// Create godoc
// @Summary Attempt to enroll a student in a section
// @Description Admits the student into the section if a seat is free, otherwise places them on the waitlist.
// @Tags Enrollments
// @Accept json
// @Produce json
// @Param payload body service.EnrollRequest true "Enrollment payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /enrollments/ [post]
func (h *EnrollmentHandler) Create(c *gin.Context) {
	var req service.EnrollRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	result, err := h.admissions.Admit(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, result)
}
