package handlers_test

import (
	"time"

	"github.com/google/uuid"

	"color-profile-backend/internal/models"
)

// memoryStore is an in-memory session.Store with the conditional-update
// semantics of the database layer.
type memoryStore struct {
	sessions map[uuid.UUID]*models.Session
}

func newMemoryStore() *memoryStore {
	return &memoryStore{sessions: make(map[uuid.UUID]*models.Session)}
}

func (m *memoryStore) CreateSession(ownerID *uuid.UUID, expiresAt time.Time) (*models.Session, error) {
	sess := &models.Session{
		ID:        uuid.New(),
		OwnerID:   ownerID,
		Status:    models.StatusPendingPayment,
		ExpiresAt: expiresAt,
	}
	m.sessions[sess.ID] = sess
	snapshot := *sess
	return &snapshot, nil
}

func (m *memoryStore) GetSession(id uuid.UUID) (*models.Session, error) {
	sess, ok := m.sessions[id]
	if !ok {
		return nil, models.ErrSessionNotFound
	}
	snapshot := *sess
	return &snapshot, nil
}

func (m *memoryStore) transition(id uuid.UUID, expected models.SessionStatus, mutate func(*models.Session)) error {
	sess, ok := m.sessions[id]
	if !ok || sess.Status != expected {
		return models.ErrStatusConflict
	}
	mutate(sess)
	return nil
}

func (m *memoryStore) RecordPaymentOutcome(id uuid.UUID, expected, next models.SessionStatus, reference string) error {
	return m.transition(id, expected, func(s *models.Session) {
		s.Status = next
		s.PaymentReference = &reference
	})
}

func (m *memoryStore) AttachSelfie(id uuid.UUID, expected models.SessionStatus, imageLocation string, landmarks []models.Landmark) error {
	return m.transition(id, expected, func(s *models.Session) {
		s.Status = models.StatusAwaitingQuestionnaire
		s.ImageLocation = &imageLocation
		s.Landmarks = landmarks
	})
}

func (m *memoryStore) MarkSelfieRejected(id uuid.UUID, expected models.SessionStatus) error {
	return m.transition(id, expected, func(s *models.Session) {
		s.Status = models.StatusSelfieValidationFailed
	})
}

func (m *memoryStore) AttachQuestionnaire(id uuid.UUID, expected models.SessionStatus, answers models.Questionnaire) error {
	return m.transition(id, expected, func(s *models.Session) {
		s.Status = models.StatusQuestionnaireComplete
		s.Questionnaire = &answers
	})
}
