package api

import (
	"errors"
	"murmur/feedback-api/apperror"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Every endpoint answers with the same envelope. Extra payload fields
// ride along via gin.H in the handlers themselves.

func respondOK(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{
		"success": true,
		"message": message,
	})
}

// respondErr maps a store error onto the envelope. Anything outside
// the apperror taxonomy is an internal error: logged with the request
// ID, reported without detail.
func respondErr(c *gin.Context, requestID string, err error) {
	var appErr *apperror.AppError
	if !errors.As(err, &appErr) {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success":   false,
			"message":   "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Unexpected error", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(statusOf(appErr), gin.H{
		"success":   false,
		"message":   appErr.Message,
		"requestID": requestID,
	})
}

func statusOf(err *apperror.AppError) int {
	switch {
	case errors.Is(err, apperror.ErrValidation),
		errors.Is(err, apperror.ErrConflict),
		errors.Is(err, apperror.ErrExpired),
		errors.Is(err, apperror.ErrInvalidCode):
		return http.StatusBadRequest
	case errors.Is(err, apperror.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperror.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, apperror.ErrUnauthorized):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}
