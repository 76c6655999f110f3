package models

import (
	"encoding/json"
	"time"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

type SessionResponse struct {
	SessionID string    `json:"session_id"`
	Status    string    `json:"status"`
	ExpiresAt time.Time `json:"expires_at"`
}

type StatusResponse struct {
	SessionID  string    `json:"session_id"`
	Status     string    `json:"status"`
	AnalysisID string    `json:"analysis_id,omitempty"`
	ExpiresAt  time.Time `json:"expires_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

type SelfieResponse struct {
	SessionID string `json:"session_id"`
	Outcome   string `json:"outcome"`
	Status    string `json:"status"`
}

type QuestionnaireResponse struct {
	SessionID string `json:"session_id"`
	Status    string `json:"status"`
}

type AnalyzeResponse struct {
	SessionID  string `json:"session_id"`
	Status     string `json:"status"`
	AnalysisID string `json:"analysis_id,omitempty"`
}

type AnalysisResponse struct {
	AnalysisID string          `json:"analysis_id"`
	Result     json.RawMessage `json:"result"`
	CreatedAt  time.Time       `json:"created_at"`
}

type HealthResponse struct {
	Status string `json:"status"`
}
