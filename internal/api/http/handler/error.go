package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/studydeck/studydeck-server/internal/apierrors"
	"github.com/studydeck/studydeck-server/internal/logger"
	"github.com/studydeck/studydeck-server/internal/model"
)

// handleError maps service errors onto HTTP responses. Typed API errors keep
// their status and code; anything else becomes an opaque 500.
func handleError(c *gin.Context, log *logger.Logger, err error) {
	var apiErr *apierrors.APIError
	if errors.As(err, &apiErr) {
		c.JSON(apiErr.Status, gin.H{
			"error": apiErr.Message,
			"code":  apiErr.Code,
		})
		return
	}

	if errors.Is(err, model.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "not found",
			"code":  "not_found",
		})
		return
	}

	log.Error("handler: unexpected error",
		"path", c.Request.URL.Path,
		"error", err.Error())

	c.JSON(http.StatusInternalServerError, gin.H{
		"error": "internal server error",
		"code":  "internal_error",
	})
}
