package handlers

import (
	"errors"
	"net/http"
	"time"

	"task-tracker/internal/apperrors"
	"task-tracker/internal/dto"
	"task-tracker/internal/logger"

	"github.com/gin-gonic/gin"
)

const internalErrorMessage = "An internal server error occurred"

func respondError(c *gin.Context, err error) {
	_ = c.Error(err)
	log := logger.With("handlers")

	var appErr *apperrors.Error
	if !errors.As(err, &appErr) {
		log.Error().Err(err).Str("method", c.Request.Method).Str("path", c.FullPath()).Msg("request failed")
		c.AbortWithStatusJSON(http.StatusInternalServerError, dto.NewErrorResponse(http.StatusInternalServerError, internalErrorMessage))
		return
	}

	status := statusFor(appErr.Kind)
	log.Warn().Err(err).Int("status", status).Str("path", c.FullPath()).Msg("request rejected")

	if status == http.StatusBadRequest {
		c.AbortWithStatusJSON(status, dto.ValidationErrorResponse{
			Status:    status,
			Message:   appErr.Message,
			Timestamp: time.Now().UTC(),
			Errors:    appErr.Fields,
		})
		return
	}
	c.AbortWithStatusJSON(status, dto.NewErrorResponse(status, appErr.Message))
}

func statusFor(kind error) int {
	switch kind {
	case apperrors.ErrValidation:
		return http.StatusBadRequest
	case apperrors.ErrInvalidCredentials:
		return http.StatusUnauthorized
	case apperrors.ErrNotFound:
		return http.StatusNotFound
	case apperrors.ErrAlreadyExists:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
