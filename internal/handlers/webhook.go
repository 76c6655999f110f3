package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"color-profile-backend/internal/config"
	"color-profile-backend/internal/models"
	"color-profile-backend/internal/session"
)

type WebhookHandler struct {
	config   *config.Config
	sessions *session.Service
}

func NewWebhookHandler(cfg *config.Config, sessions *session.Service) *WebhookHandler {
	return &WebhookHandler{
		config:   cfg,
		sessions: sessions,
	}
}

// PaymentWebhookEvent is the notification shape the payment provider sends.
type PaymentWebhookEvent struct {
	Event            string `json:"event"` // "payment.succeeded" or "payment.failed"
	SessionID        string `json:"session_id"`
	PaymentReference string `json:"payment_reference"`
}

// HandlePaymentWebhook godoc
// @Summary     Payment provider webhook
// @Description Applies a confirmed payment notification to the session. Duplicate notifications for the same outcome are no-op successes.
// @Tags        webhooks
// @Accept      json
// @Produce     json
// @Param       Authorization header string true "Shared webhook token"
// @Success     200 {object} map[string]string
// @Failure     400 {object} models.ErrorResponse
// @Failure     401 {object} models.ErrorResponse
// @Router      /webhooks/payment [post]
func (h *WebhookHandler) HandlePaymentWebhook(c *gin.Context) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		c.JSON(http.StatusUnauthorized, models.ErrorResponse{Error: "missing authorization token"})
		return
	}
	token := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
	if token != h.config.PaymentWebhookToken {
		c.JSON(http.StatusUnauthorized, models.ErrorResponse{Error: "invalid authorization token"})
		return
	}

	var event PaymentWebhookEvent
	if err := c.ShouldBindJSON(&event); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "failed to parse event",
			Message: err.Error(),
		})
		return
	}

	sessionID, err := uuid.Parse(event.SessionID)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid session id"})
		return
	}

	var succeeded bool
	switch event.Event {
	case "payment.succeeded":
		succeeded = true
	case "payment.failed":
		succeeded = false
	default:
		// Unknown events are acknowledged so the provider stops retrying.
		c.JSON(http.StatusOK, gin.H{"status": "ignored"})
		return
	}

	if err := h.sessions.RecordPayment(sessionID, succeeded, event.PaymentReference); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
