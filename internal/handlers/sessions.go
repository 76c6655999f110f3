package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"color-profile-backend/internal/models"
	"color-profile-backend/internal/session"
)

type SessionsHandler struct {
	sessions *session.Service
}

func NewSessionsHandler(sessions *session.Service) *SessionsHandler {
	return &SessionsHandler{sessions: sessions}
}

// CreateSession godoc
// @Summary     Start a new analysis session
// @Description Creates a session in pending_payment at payment-initiation time. Anonymous requests are allowed; an authenticated identity becomes the session owner.
// @Tags        sessions
// @Produce     json
// @Success     201 {object} models.SessionResponse
// @Failure     500 {object} models.ErrorResponse
// @Router      /sessions [post]
func (h *SessionsHandler) CreateSession(c *gin.Context) {
	sess, err := h.sessions.Start(ownerFromContext(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, models.SessionResponse{
		SessionID: sess.ID.String(),
		Status:    string(sess.Status),
		ExpiresAt: sess.ExpiresAt,
	})
}

// GetStatus godoc
// @Summary     Poll session status
// @Description Returns the session's current status, derived as expired once the expiry instant passes, and the analysis id when complete.
// @Tags        sessions
// @Produce     json
// @Param       session_id path string true "Session ID (UUID)"
// @Success     200 {object} models.StatusResponse
// @Failure     404 {object} models.ErrorResponse
// @Router      /sessions/{session_id}/status [get]
func (h *SessionsHandler) GetStatus(c *gin.Context) {
	id, ok := sessionIDParam(c)
	if !ok {
		return
	}

	sess, err := h.sessions.Session(id)
	if err != nil {
		respondError(c, err)
		return
	}

	resp := models.StatusResponse{
		SessionID: sess.ID.String(),
		Status:    string(sess.EffectiveStatus(time.Now())),
		ExpiresAt: sess.ExpiresAt,
		UpdatedAt: sess.UpdatedAt,
	}
	if sess.AnalysisID != nil {
		resp.AnalysisID = sess.AnalysisID.String()
	}
	c.JSON(http.StatusOK, resp)
}
