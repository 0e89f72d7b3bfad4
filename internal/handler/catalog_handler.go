package handler

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/titan-online/registrar-api/internal/models"
	"github.com/titan-online/registrar-api/internal/service"
	appErrors "github.com/titan-online/registrar-api/pkg/errors"
	"github.com/titan-online/registrar-api/pkg/response"
)

type catalogService interface {
	ListClasses(ctx context.Context) ([]models.ClassRow, error)
	CreateCourse(ctx context.Context, req service.CreateCourseRequest) (*models.Course, error)
	CreateSection(ctx context.Context, req service.CreateSectionRequest) (*models.Section, error)
	PatchSection(ctx context.Context, id int64, req service.PatchSectionRequest) error
	DeleteSection(ctx context.Context, id int64) error
}

// CatalogHandler exposes the class catalog and course/section maintenance.
type CatalogHandler struct {
	catalog catalogService
}

// NewCatalogHandler constructs CatalogHandler.
func NewCatalogHandler(catalog catalogService) *CatalogHandler {
	return &CatalogHandler{catalog: catalog}
}

// ListClasses godoc
// @Summary List all available classes
// @Tags Catalog
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /classes/ [get]
func (h *CatalogHandler) ListClasses(c *gin.Context) {
	classes, err := h.catalog.ListClasses(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"classes": classes})
}

// CreateCourse godoc
// @Summary Register a catalog course
// @Tags Catalog
// @Accept json
// @Produce json
// @Param payload body service.CreateCourseRequest true "Course payload"
// @Success 201 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /courses/ [post]
func (h *CatalogHandler) CreateCourse(c *gin.Context) {
	var req service.CreateCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	course, err := h.catalog.CreateCourse(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, course)
}

// CreateSection godoc
// @Summary Schedule a course section
// @Tags Catalog
// @Accept json
// @Produce json
// @Param payload body service.CreateSectionRequest true "Section payload"
// @Success 201 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /sections/ [post]
func (h *CatalogHandler) CreateSection(c *gin.Context) {
	var req service.CreateSectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	section, err := h.catalog.CreateSection(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Location", fmt.Sprintf("/sections/%d", section.ID))
	response.Created(c, section)
}

// PatchSection godoc
// @Summary Partially update a section
// @Tags Catalog
// @Accept json
// @Produce json
// @Param id path int true "Section ID"
// @Param payload body service.PatchSectionRequest true "Fields to update"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /sections/{id} [patch]
func (h *CatalogHandler) PatchSection(c *gin.Context) {
	id, err := int64Param(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	var req service.PatchSectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	if err := h.catalog.PatchSection(c.Request.Context(), id, req); err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"message": fmt.Sprintf("Section %d updated", id)})
}

// DeleteSection godoc
// @Summary Remove a section from the catalog
// @Tags Catalog
// @Produce json
// @Param id path int true "Section ID"
// @Success 204 "No Content"
// @Failure 404 {object} response.Envelope
// @Router /sections/{id} [delete]
func (h *CatalogHandler) DeleteSection(c *gin.Context) {
	id, err := int64Param(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	if err := h.catalog.DeleteSection(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
