package models

import (
	"time"

	"github.com/golang/geo/r3"
	"github.com/google/uuid"
)

// SessionStatus enumerates the states a session row can actually hold.
// StatusExpired is derived from expires_at and never written to the database.
type SessionStatus string

const (
	StatusPendingPayment         SessionStatus = "pending_payment"
	StatusPaymentComplete        SessionStatus = "payment_complete"
	StatusPaymentFailed          SessionStatus = "payment_failed"
	StatusSelfieValidationFailed SessionStatus = "selfie_validation_failed"
	StatusAwaitingQuestionnaire  SessionStatus = "awaiting_questionnaire"
	StatusQuestionnaireComplete  SessionStatus = "questionnaire_complete"
	StatusAnalysisPending        SessionStatus = "analysis_pending"
	StatusAnalysisFailed         SessionStatus = "analysis_failed"
	StatusAnalysisComplete       SessionStatus = "analysis_complete"
	StatusExpired                SessionStatus = "expired"
)

// Landmark is one named facial reference point from face detection.
// Detection may omit the type or the position, so both are optional.
type Landmark struct {
	Type     string     `json:"type,omitempty"`
	Position *r3.Vector `json:"position,omitempty"`
}

// Questionnaire holds the fixed question set answered after the selfie step.
// HairColor is a hex color and is the only field the pipeline depends on.
type Questionnaire struct {
	HairColor         string   `json:"hair_color" binding:"required"`
	NaturalHairDepth  string   `json:"natural_hair_depth,omitempty"`
	EyeColorName      string   `json:"eye_color_name,omitempty"`
	SunReaction       string   `json:"sun_reaction,omitempty"`
	VeinColor         string   `json:"vein_color,omitempty"`
	JewelryPreference string   `json:"jewelry_preference,omitempty"`
	StyleGoals        []string `json:"style_goals,omitempty"`
	WantsMakeup       bool     `json:"wants_makeup,omitempty"`
}

// Session is one user's attempt at the payment -> selfie -> questionnaire ->
// analysis flow. Rows are never deleted; past ExpiresAt the session is inert.
type Session struct {
	ID               uuid.UUID      `json:"id"`
	OwnerID          *uuid.UUID     `json:"owner_id,omitempty"`
	Status           SessionStatus  `json:"status"`
	ExpiresAt        time.Time      `json:"expires_at"`
	PaymentReference *string        `json:"payment_reference,omitempty"`
	ImageLocation    *string        `json:"image_location,omitempty"`
	Landmarks        []Landmark     `json:"landmarks,omitempty"`
	Questionnaire    *Questionnaire `json:"questionnaire,omitempty"`
	AnalysisID       *uuid.UUID     `json:"analysis_id,omitempty"`
	ErrorMessage     *string        `json:"error_message,omitempty"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
}

// Expired reports whether the session is past its expiry instant.
func (s *Session) Expired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}

// EffectiveStatus is the status reported to clients: the stored status, or
// StatusExpired once expires_at has passed.
func (s *Session) EffectiveStatus(now time.Time) SessionStatus {
	if s.Expired(now) {
		return StatusExpired
	}
	return s.Status
}
