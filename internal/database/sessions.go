package database

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"color-profile-backend/internal/models"
)

const sessionColumns = `id, owner_id, status, expires_at, payment_reference,
	image_location, landmarks, questionnaire, analysis_id, error_message,
	created_at, updated_at`

// CreateSession inserts a new session in pending_payment with the given
// expiry. ownerID is nil for anonymous purchases.
func (c *Client) CreateSession(ownerID *uuid.UUID, expiresAt time.Time) (*models.Session, error) {
	row := c.db.QueryRow(`
		INSERT INTO sessions (id, owner_id, status, expires_at)
		VALUES ($1, $2, $3, $4)
		RETURNING `+sessionColumns,
		uuid.New(), ownerID, models.StatusPendingPayment, expiresAt)

	session, err := scanSession(row)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	return session, nil
}

func (c *Client) GetSession(id uuid.UUID) (*models.Session, error) {
	row := c.db.QueryRow(`SELECT `+sessionColumns+` FROM sessions WHERE id = $1`, id)
	session, err := scanSession(row)
	if err == sql.ErrNoRows {
		return nil, models.ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	return session, nil
}

// RecordPaymentOutcome moves the session between payment states, storing the
// external payment reference. The update is conditional on the expected
// current status; a non-matching row yields ErrStatusConflict.
func (c *Client) RecordPaymentOutcome(id uuid.UUID, expected, next models.SessionStatus, reference string) error {
	result, err := c.db.Exec(`
		UPDATE sessions
		SET status = $1, payment_reference = $2, updated_at = NOW()
		WHERE id = $3 AND status = $4
	`, next, reference, id, expected)
	if err != nil {
		return fmt.Errorf("failed to record payment outcome: %w", err)
	}
	return requireRow(result)
}

// AttachSelfie stores the blob reference and detected landmarks and advances
// the session to awaiting_questionnaire, conditional on the expected status.
func (c *Client) AttachSelfie(id uuid.UUID, expected models.SessionStatus, imageLocation string, landmarks []models.Landmark) error {
	landmarksJSON, err := json.Marshal(landmarks)
	if err != nil {
		return fmt.Errorf("failed to marshal landmarks: %w", err)
	}

	result, err := c.db.Exec(`
		UPDATE sessions
		SET status = $1, image_location = $2, landmarks = $3, updated_at = NOW()
		WHERE id = $4 AND status = $5
	`, models.StatusAwaitingQuestionnaire, imageLocation, landmarksJSON, id, expected)
	if err != nil {
		return fmt.Errorf("failed to attach selfie: %w", err)
	}
	return requireRow(result)
}

// MarkSelfieRejected records a failed selfie validation. The session stays
// re-attemptable: a later upload is accepted from this status as well.
func (c *Client) MarkSelfieRejected(id uuid.UUID, expected models.SessionStatus) error {
	result, err := c.db.Exec(`
		UPDATE sessions
		SET status = $1, updated_at = NOW()
		WHERE id = $2 AND status = $3
	`, models.StatusSelfieValidationFailed, id, expected)
	if err != nil {
		return fmt.Errorf("failed to mark selfie rejected: %w", err)
	}
	return requireRow(result)
}

// AttachQuestionnaire stores the answers and advances to
// questionnaire_complete, conditional on the expected status.
func (c *Client) AttachQuestionnaire(id uuid.UUID, expected models.SessionStatus, answers models.Questionnaire) error {
	answersJSON, err := json.Marshal(answers)
	if err != nil {
		return fmt.Errorf("failed to marshal questionnaire: %w", err)
	}

	result, err := c.db.Exec(`
		UPDATE sessions
		SET status = $1, questionnaire = $2, updated_at = NOW()
		WHERE id = $3 AND status = $4
	`, models.StatusQuestionnaireComplete, answersJSON, id, expected)
	if err != nil {
		return fmt.Errorf("failed to attach questionnaire: %w", err)
	}
	return requireRow(result)
}

// ClaimAnalysis is the single-owner claim for a pipeline run: the conditional
// update from questionnaire_complete to analysis_pending. Exactly one of two
// concurrent starters can win; the loser gets ErrStatusConflict and re-reads.
func (c *Client) ClaimAnalysis(id uuid.UUID) error {
	result, err := c.db.Exec(`
		UPDATE sessions
		SET status = $1, error_message = NULL, updated_at = NOW()
		WHERE id = $2 AND status = $3
	`, models.StatusAnalysisPending, id, models.StatusQuestionnaireComplete)
	if err != nil {
		return fmt.Errorf("failed to claim analysis: %w", err)
	}
	return requireRow(result)
}

// CompleteAnalysis finalizes a successful run, storing the analysis id.
func (c *Client) CompleteAnalysis(id uuid.UUID, analysisID uuid.UUID) error {
	result, err := c.db.Exec(`
		UPDATE sessions
		SET status = $1, analysis_id = $2, updated_at = NOW()
		WHERE id = $3 AND status = $4
	`, models.StatusAnalysisComplete, analysisID, id, models.StatusAnalysisPending)
	if err != nil {
		return fmt.Errorf("failed to complete analysis: %w", err)
	}
	return requireRow(result)
}

// FailAnalysis records a pipeline failure after state entry.
func (c *Client) FailAnalysis(id uuid.UUID, message string) error {
	result, err := c.db.Exec(`
		UPDATE sessions
		SET status = $1, error_message = $2, updated_at = NOW()
		WHERE id = $3 AND status = $4
	`, models.StatusAnalysisFailed, message, id, models.StatusAnalysisPending)
	if err != nil {
		return fmt.Errorf("failed to record analysis failure: %w", err)
	}
	return requireRow(result)
}

func requireRow(result sql.Result) error {
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if n == 0 {
		return models.ErrStatusConflict
	}
	return nil
}

func scanSession(row *sql.Row) (*models.Session, error) {
	var s models.Session
	var paymentRef, imageLocation, errorMessage sql.NullString
	var landmarksJSON, questionnaireJSON []byte

	err := row.Scan(
		&s.ID, &s.OwnerID, &s.Status, &s.ExpiresAt, &paymentRef,
		&imageLocation, &landmarksJSON, &questionnaireJSON, &s.AnalysisID,
		&errorMessage, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if paymentRef.Valid {
		s.PaymentReference = &paymentRef.String
	}
	if imageLocation.Valid {
		s.ImageLocation = &imageLocation.String
	}
	if errorMessage.Valid {
		s.ErrorMessage = &errorMessage.String
	}
	if len(landmarksJSON) > 0 {
		if err := json.Unmarshal(landmarksJSON, &s.Landmarks); err != nil {
			return nil, fmt.Errorf("failed to unmarshal landmarks: %w", err)
		}
	}
	if len(questionnaireJSON) > 0 {
		var q models.Questionnaire
		if err := json.Unmarshal(questionnaireJSON, &q); err != nil {
			return nil, fmt.Errorf("failed to unmarshal questionnaire: %w", err)
		}
		s.Questionnaire = &q
	}
	return &s, nil
}
