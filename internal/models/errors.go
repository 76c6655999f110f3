package models

import "errors"

// Guard violations surfaced to clients. Handlers map these to 4xx responses;
// they are never retried automatically.
var (
	ErrSessionNotFound     = errors.New("session not found")
	ErrSessionExpired      = errors.New("session expired")
	ErrInvalidSessionState = errors.New("invalid session state")
	ErrAnalysisNotFound    = errors.New("analysis not found")

	// ErrStatusConflict is returned by the store when a conditional status
	// update matched no row: the session changed under us.
	ErrStatusConflict = errors.New("session status changed concurrently")

	// ErrMissingAnalysisInputs is a data-integrity fault: a session reached
	// the analysis step without image, landmarks, or questionnaire answers.
	ErrMissingAnalysisInputs = errors.New("analysis inputs missing")
)
