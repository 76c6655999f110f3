package handlers_test

import (
	"bytes"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"color-profile-backend/internal/config"
	"color-profile-backend/internal/handlers"
	"color-profile-backend/internal/models"
	"color-profile-backend/internal/session"
)

func webhookRouter(store *memoryStore) *gin.Engine {
	gin.SetMode(gin.TestMode)
	cfg := &config.Config{PaymentWebhookToken: "hook-secret"}
	svc := session.NewService(store, time.Hour)
	handler := handlers.NewWebhookHandler(cfg, svc)

	router := gin.New()
	router.POST("/webhooks/payment", handler.HandlePaymentWebhook)
	return router
}

func postWebhook(router *gin.Engine, token, body string) *httptest.ResponseRecorder {
	req, _ := http.NewRequest("POST", "/webhooks/payment", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func pendingSession(t *testing.T, store *memoryStore) uuid.UUID {
	t.Helper()
	sess, err := store.CreateSession(nil, time.Now().Add(time.Hour))
	require.NoError(t, err)
	return sess.ID
}

func TestHandlePaymentWebhook_MissingToken(t *testing.T) {
	router := webhookRouter(newMemoryStore())
	w := postWebhook(router, "", `{}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestHandlePaymentWebhook_WrongToken(t *testing.T) {
	router := webhookRouter(newMemoryStore())
	w := postWebhook(router, "wrong-secret", `{}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestHandlePaymentWebhook_PaymentSucceeded(t *testing.T) {
	store := newMemoryStore()
	router := webhookRouter(store)
	id := pendingSession(t, store)

	body := fmt.Sprintf(`{"event": "payment.succeeded", "session_id": %q, "payment_reference": "pay_123"}`, id)
	w := postWebhook(router, "hook-secret", body)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, models.StatusPaymentComplete, store.sessions[id].Status)
	require.NotNil(t, store.sessions[id].PaymentReference)
	assert.Equal(t, "pay_123", *store.sessions[id].PaymentReference)
}

func TestHandlePaymentWebhook_PaymentFailed(t *testing.T) {
	store := newMemoryStore()
	router := webhookRouter(store)
	id := pendingSession(t, store)

	body := fmt.Sprintf(`{"event": "payment.failed", "session_id": %q, "payment_reference": "pay_123"}`, id)
	w := postWebhook(router, "hook-secret", body)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, models.StatusPaymentFailed, store.sessions[id].Status)
}

func TestHandlePaymentWebhook_DuplicateDelivery(t *testing.T) {
	store := newMemoryStore()
	router := webhookRouter(store)
	id := pendingSession(t, store)

	body := fmt.Sprintf(`{"event": "payment.succeeded", "session_id": %q, "payment_reference": "pay_123"}`, id)
	assert.Equal(t, http.StatusOK, postWebhook(router, "hook-secret", body).Code)
	assert.Equal(t, http.StatusOK, postWebhook(router, "hook-secret", body).Code)
	assert.Equal(t, models.StatusPaymentComplete, store.sessions[id].Status)
}

func TestHandlePaymentWebhook_ConflictingOutcome(t *testing.T) {
	store := newMemoryStore()
	router := webhookRouter(store)
	id := pendingSession(t, store)

	succeeded := fmt.Sprintf(`{"event": "payment.succeeded", "session_id": %q}`, id)
	failed := fmt.Sprintf(`{"event": "payment.failed", "session_id": %q}`, id)
	assert.Equal(t, http.StatusOK, postWebhook(router, "hook-secret", succeeded).Code)

	w := postWebhook(router, "hook-secret", failed)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "INVALID_SESSION_STATE")
}

func TestHandlePaymentWebhook_UnknownEventAcknowledged(t *testing.T) {
	store := newMemoryStore()
	router := webhookRouter(store)
	id := pendingSession(t, store)

	body := fmt.Sprintf(`{"event": "payment.refunded", "session_id": %q}`, id)
	w := postWebhook(router, "hook-secret", body)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "ignored")
	assert.Equal(t, models.StatusPendingPayment, store.sessions[id].Status)
}

func TestHandlePaymentWebhook_UnknownSession(t *testing.T) {
	router := webhookRouter(newMemoryStore())
	body := fmt.Sprintf(`{"event": "payment.succeeded", "session_id": %q}`, uuid.New())
	w := postWebhook(router, "hook-secret", body)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHandlePaymentWebhook_BadSessionID(t *testing.T) {
	router := webhookRouter(newMemoryStore())
	w := postWebhook(router, "hook-secret", `{"event": "payment.succeeded", "session_id": "not-a-uuid"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
