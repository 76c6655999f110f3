package session

import (
	"time"

	"github.com/google/uuid"

	"color-profile-backend/internal/models"
)

// Store is the persistence surface the state machine needs. Every status
// write is a single-row conditional update guarded by the expected prior
// status; a lost race surfaces as models.ErrStatusConflict.
type Store interface {
	CreateSession(ownerID *uuid.UUID, expiresAt time.Time) (*models.Session, error)
	GetSession(id uuid.UUID) (*models.Session, error)
	RecordPaymentOutcome(id uuid.UUID, expected, next models.SessionStatus, reference string) error
	AttachSelfie(id uuid.UUID, expected models.SessionStatus, imageLocation string, landmarks []models.Landmark) error
	MarkSelfieRejected(id uuid.UUID, expected models.SessionStatus) error
	AttachQuestionnaire(id uuid.UUID, expected models.SessionStatus, answers models.Questionnaire) error
}

// Service owns the session lifecycle. Every operation checks expiry before
// anything else; no transition ever moves a session backward.
type Service struct {
	store Store
	ttl   time.Duration
	now   func() time.Time
}

func NewService(store Store, ttl time.Duration) *Service {
	return &Service{
		store: store,
		ttl:   ttl,
		now:   time.Now,
	}
}

// WithClock overrides the time source. Test hook.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Start creates a session in pending_payment. ownerID is nil for anonymous
// purchases; the owner is fixed at creation time and inherited by the
// analysis record.
func (s *Service) Start(ownerID *uuid.UUID) (*models.Session, error) {
	return s.store.CreateSession(ownerID, s.now().Add(s.ttl))
}

// Session loads a session for reads. Callers use EffectiveStatus for the
// client-facing status.
func (s *Service) Session(id uuid.UUID) (*models.Session, error) {
	return s.store.GetSession(id)
}

// RecordPayment applies a confirmed payment notification. A duplicate
// notification for the same outcome is a no-op success; any other status is
// rejected.
func (s *Service) RecordPayment(id uuid.UUID, succeeded bool, reference string) error {
	sess, err := s.guarded(id)
	if err != nil {
		return err
	}

	next := models.StatusPaymentComplete
	if !succeeded {
		next = models.StatusPaymentFailed
	}

	if sess.Status == next {
		return nil
	}
	if sess.Status != models.StatusPendingPayment {
		return models.ErrInvalidSessionState
	}
	return s.store.RecordPaymentOutcome(id, models.StatusPendingPayment, next, reference)
}

// GuardSelfie verifies a selfie upload is currently allowed and returns the
// session. Uploads are accepted from payment_complete and, because a failed
// validation must not trap the session, from selfie_validation_failed.
func (s *Service) GuardSelfie(id uuid.UUID) (*models.Session, error) {
	sess, err := s.guarded(id)
	if err != nil {
		return nil, err
	}
	if !selfieEligible(sess.Status) {
		return nil, models.ErrInvalidSessionState
	}
	return sess, nil
}

// AcceptSelfie stores the validated selfie's blob reference and landmarks
// and advances the session to awaiting_questionnaire.
func (s *Service) AcceptSelfie(id uuid.UUID, imageLocation string, landmarks []models.Landmark) error {
	sess, err := s.GuardSelfie(id)
	if err != nil {
		return err
	}
	return s.store.AttachSelfie(id, sess.Status, imageLocation, landmarks)
}

// RejectSelfie records a failed selfie validation. The uploaded blob is the
// caller's to delete; the session stays retryable.
func (s *Service) RejectSelfie(id uuid.UUID) error {
	sess, err := s.GuardSelfie(id)
	if err != nil {
		return err
	}
	if sess.Status == models.StatusSelfieValidationFailed {
		return nil
	}
	return s.store.MarkSelfieRejected(id, sess.Status)
}

// SubmitQuestionnaire stores the answers and advances to
// questionnaire_complete. Requires status exactly awaiting_questionnaire.
func (s *Service) SubmitQuestionnaire(id uuid.UUID, answers models.Questionnaire) error {
	sess, err := s.guarded(id)
	if err != nil {
		return err
	}
	if sess.Status != models.StatusAwaitingQuestionnaire {
		return models.ErrInvalidSessionState
	}
	return s.store.AttachQuestionnaire(id, models.StatusAwaitingQuestionnaire, answers)
}

// guarded loads the session and applies the expiry check every transition
// runs first.
func (s *Service) guarded(id uuid.UUID) (*models.Session, error) {
	sess, err := s.store.GetSession(id)
	if err != nil {
		return nil, err
	}
	if sess.Expired(s.now()) {
		return nil, models.ErrSessionExpired
	}
	return sess, nil
}

func selfieEligible(status models.SessionStatus) bool {
	return status == models.StatusPaymentComplete || status == models.StatusSelfieValidationFailed
}
