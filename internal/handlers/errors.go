package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"color-profile-backend/internal/middleware"
	"color-profile-backend/internal/models"
)

// respondError maps domain errors to responses. Guard violations are client
// errors and never retried; everything else is a server-side failure.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, models.ErrSessionNotFound):
		c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "session not found"})
	case errors.Is(err, models.ErrAnalysisNotFound):
		c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "analysis not found"})
	case errors.Is(err, models.ErrSessionExpired):
		c.JSON(http.StatusGone, models.ErrorResponse{Error: "SESSION_EXPIRED"})
	case errors.Is(err, models.ErrInvalidSessionState), errors.Is(err, models.ErrStatusConflict):
		c.JSON(http.StatusConflict, models.ErrorResponse{Error: "INVALID_SESSION_STATE"})
	default:
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "internal error",
			Message: err.Error(),
		})
	}
}

// ownerFromContext returns the authenticated user id, or nil for anonymous
// requests.
func ownerFromContext(c *gin.Context) *uuid.UUID {
	userIDStr, exists := c.Get(middleware.UserIDKey)
	if !exists {
		return nil
	}
	userID, err := uuid.Parse(userIDStr.(string))
	if err != nil {
		return nil
	}
	return &userID
}

// sessionIDParam parses the :session_id path parameter.
func sessionIDParam(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("session_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid session id"})
		return uuid.Nil, false
	}
	return id, true
}
