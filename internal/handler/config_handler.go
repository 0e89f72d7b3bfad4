package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/titan-online/registrar-api/internal/models"
	appErrors "github.com/titan-online/registrar-api/pkg/errors"
	"github.com/titan-online/registrar-api/pkg/response"
)

type registrarConfigService interface {
	Get(ctx context.Context) (*models.RegistrarConfig, error)
	SetAutoEnrollment(ctx context.Context, enabled bool) error
}

// ConfigHandler exposes the global automatic enrollment toggle.
type ConfigHandler struct {
	config registrarConfigService
}

// NewConfigHandler constructs ConfigHandler.
func NewConfigHandler(config registrarConfigService) *ConfigHandler {
	return &ConfigHandler{config: config}
}

// Get godoc
// @Summary Get the registrar configuration
// @Tags Configuration
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /freezeenrollment [get]
func (h *ConfigHandler) Get(c *gin.Context) {
	cfg, err := h.config.Get(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, cfg)
}

// SetAutoEnrollment godoc
// @Summary Set the automatic enrollment flag
// @Description Enabling the flag triggers a promotion sweep over sections that still accept students.
// @Tags Configuration
// @Produce json
// @Param flag path bool true "Desired flag value"
// @Success 200 {object} response.Envelope
// @Router /freezeenrollment/{flag} [post]
func (h *ConfigHandler) SetAutoEnrollment(c *gin.Context) {
	flag, err := strconv.ParseBool(c.Param("flag"))
	if err != nil {
		response.Error(c, appErrors.New(appErrors.ErrValidation.Code, http.StatusBadRequest, "flag must be true or false"))
		return
	}
	if err := h.config.SetAutoEnrollment(c.Request.Context(), flag); err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"automatic_enrollment": flag})
}
