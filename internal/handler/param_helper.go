package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	appErrors "github.com/titan-online/registrar-api/pkg/errors"
)

// int64Param parses a numeric path parameter. The returned error is already
// typed for the response layer.
func int64Param(c *gin.Context, name string) (int64, error) {
	raw := c.Param(name)
	value, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || value <= 0 {
		return 0, appErrors.New(appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid "+name)
	}
	return value, nil
}
