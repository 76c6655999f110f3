package session_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"color-profile-backend/internal/models"
	"color-profile-backend/internal/session"
)

// fakeStore is an in-memory Store with the same conditional-update semantics
// as the database layer: a write whose expected status no longer matches
// returns models.ErrStatusConflict.
type fakeStore struct {
	sessions map[uuid.UUID]*models.Session
}

func newFakeStore() *fakeStore {
	return &fakeStore{sessions: make(map[uuid.UUID]*models.Session)}
}

func (f *fakeStore) CreateSession(ownerID *uuid.UUID, expiresAt time.Time) (*models.Session, error) {
	sess := &models.Session{
		ID:        uuid.New(),
		OwnerID:   ownerID,
		Status:    models.StatusPendingPayment,
		ExpiresAt: expiresAt,
	}
	f.sessions[sess.ID] = sess
	snapshot := *sess
	return &snapshot, nil
}

func (f *fakeStore) GetSession(id uuid.UUID) (*models.Session, error) {
	sess, ok := f.sessions[id]
	if !ok {
		return nil, models.ErrSessionNotFound
	}
	snapshot := *sess
	return &snapshot, nil
}

func (f *fakeStore) transition(id uuid.UUID, expected models.SessionStatus, mutate func(*models.Session)) error {
	sess, ok := f.sessions[id]
	if !ok || sess.Status != expected {
		return models.ErrStatusConflict
	}
	mutate(sess)
	return nil
}

func (f *fakeStore) RecordPaymentOutcome(id uuid.UUID, expected, next models.SessionStatus, reference string) error {
	return f.transition(id, expected, func(s *models.Session) {
		s.Status = next
		s.PaymentReference = &reference
	})
}

func (f *fakeStore) AttachSelfie(id uuid.UUID, expected models.SessionStatus, imageLocation string, landmarks []models.Landmark) error {
	return f.transition(id, expected, func(s *models.Session) {
		s.Status = models.StatusAwaitingQuestionnaire
		s.ImageLocation = &imageLocation
		s.Landmarks = landmarks
	})
}

func (f *fakeStore) MarkSelfieRejected(id uuid.UUID, expected models.SessionStatus) error {
	return f.transition(id, expected, func(s *models.Session) {
		s.Status = models.StatusSelfieValidationFailed
	})
}

func (f *fakeStore) AttachQuestionnaire(id uuid.UUID, expected models.SessionStatus, answers models.Questionnaire) error {
	return f.transition(id, expected, func(s *models.Session) {
		s.Status = models.StatusQuestionnaireComplete
		s.Questionnaire = &answers
	})
}

func (f *fakeStore) status(t *testing.T, id uuid.UUID) models.SessionStatus {
	t.Helper()
	sess, ok := f.sessions[id]
	require.True(t, ok)
	return sess.Status
}

var fixedNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func newTestService(store *fakeStore) *session.Service {
	return session.NewService(store, time.Hour).WithClock(func() time.Time { return fixedNow })
}

func startSession(t *testing.T, svc *session.Service) uuid.UUID {
	t.Helper()
	sess, err := svc.Start(nil)
	require.NoError(t, err)
	require.Equal(t, models.StatusPendingPayment, sess.Status)
	return sess.ID
}

func questionnaireAnswers() models.Questionnaire {
	return models.Questionnaire{HairColor: "#2c222b", EyeColorName: "brown"}
}

func TestStart_SetsExpiryFromTTL(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)

	sess, err := svc.Start(nil)
	require.NoError(t, err)
	assert.Equal(t, fixedNow.Add(time.Hour), sess.ExpiresAt)
	assert.Nil(t, sess.OwnerID)
}

func TestStart_KeepsOwner(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)
	owner := uuid.New()

	sess, err := svc.Start(&owner)
	require.NoError(t, err)
	require.NotNil(t, sess.OwnerID)
	assert.Equal(t, owner, *sess.OwnerID)
}

func TestRecordPayment_Success(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)
	id := startSession(t, svc)

	require.NoError(t, svc.RecordPayment(id, true, "pay_123"))
	assert.Equal(t, models.StatusPaymentComplete, store.status(t, id))
}

func TestRecordPayment_Failure(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)
	id := startSession(t, svc)

	require.NoError(t, svc.RecordPayment(id, false, "pay_123"))
	assert.Equal(t, models.StatusPaymentFailed, store.status(t, id))
}

func TestRecordPayment_DuplicateSameOutcomeIsNoOp(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)
	id := startSession(t, svc)

	require.NoError(t, svc.RecordPayment(id, true, "pay_123"))
	require.NoError(t, svc.RecordPayment(id, true, "pay_123"))
	assert.Equal(t, models.StatusPaymentComplete, store.status(t, id))
}

func TestRecordPayment_ConflictingOutcomeRejected(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)
	id := startSession(t, svc)

	require.NoError(t, svc.RecordPayment(id, true, "pay_123"))
	err := svc.RecordPayment(id, false, "pay_123")
	assert.ErrorIs(t, err, models.ErrInvalidSessionState)
	assert.Equal(t, models.StatusPaymentComplete, store.status(t, id))
}

func TestRecordPayment_UnknownSession(t *testing.T) {
	svc := newTestService(newFakeStore())
	err := svc.RecordPayment(uuid.New(), true, "pay_123")
	assert.ErrorIs(t, err, models.ErrSessionNotFound)
}

func TestGuardSelfie_EligibleStates(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)
	id := startSession(t, svc)
	require.NoError(t, svc.RecordPayment(id, true, "pay_123"))

	// First upload from payment_complete.
	sess, err := svc.GuardSelfie(id)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPaymentComplete, sess.Status)

	// Retry after a rejected validation.
	require.NoError(t, svc.RejectSelfie(id))
	sess, err = svc.GuardSelfie(id)
	require.NoError(t, err)
	assert.Equal(t, models.StatusSelfieValidationFailed, sess.Status)
}

func TestGuardSelfie_RejectsBeforePayment(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)
	id := startSession(t, svc)

	_, err := svc.GuardSelfie(id)
	assert.ErrorIs(t, err, models.ErrInvalidSessionState)
}

func TestAcceptSelfie_AdvancesToQuestionnaire(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)
	id := startSession(t, svc)
	require.NoError(t, svc.RecordPayment(id, true, "pay_123"))

	landmarks := []models.Landmark{{Type: "left_cheek"}}
	require.NoError(t, svc.AcceptSelfie(id, "sessions/abc/selfie.jpg", landmarks))

	sess, err := svc.Session(id)
	require.NoError(t, err)
	assert.Equal(t, models.StatusAwaitingQuestionnaire, sess.Status)
	require.NotNil(t, sess.ImageLocation)
	assert.Equal(t, "sessions/abc/selfie.jpg", *sess.ImageLocation)
	assert.Len(t, sess.Landmarks, 1)
}

func TestAcceptSelfie_AfterQuestionnaireRejected(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)
	id := startSession(t, svc)
	require.NoError(t, svc.RecordPayment(id, true, "pay_123"))
	require.NoError(t, svc.AcceptSelfie(id, "sessions/abc/selfie.jpg", nil))

	err := svc.AcceptSelfie(id, "sessions/abc/retry.jpg", nil)
	assert.ErrorIs(t, err, models.ErrInvalidSessionState)
	assert.Equal(t, models.StatusAwaitingQuestionnaire, store.status(t, id))
}

func TestRejectSelfie_RepeatIsNoOp(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)
	id := startSession(t, svc)
	require.NoError(t, svc.RecordPayment(id, true, "pay_123"))

	require.NoError(t, svc.RejectSelfie(id))
	require.NoError(t, svc.RejectSelfie(id))
	assert.Equal(t, models.StatusSelfieValidationFailed, store.status(t, id))
}

func TestSubmitQuestionnaire_Advances(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)
	id := startSession(t, svc)
	require.NoError(t, svc.RecordPayment(id, true, "pay_123"))
	require.NoError(t, svc.AcceptSelfie(id, "sessions/abc/selfie.jpg", nil))

	require.NoError(t, svc.SubmitQuestionnaire(id, questionnaireAnswers()))

	sess, err := svc.Session(id)
	require.NoError(t, err)
	assert.Equal(t, models.StatusQuestionnaireComplete, sess.Status)
	require.NotNil(t, sess.Questionnaire)
	assert.Equal(t, "#2c222b", sess.Questionnaire.HairColor)
}

func TestSubmitQuestionnaire_RequiresAwaitingQuestionnaire(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)
	id := startSession(t, svc)
	require.NoError(t, svc.RecordPayment(id, true, "pay_123"))

	err := svc.SubmitQuestionnaire(id, questionnaireAnswers())
	assert.ErrorIs(t, err, models.ErrInvalidSessionState)
	assert.Equal(t, models.StatusPaymentComplete, store.status(t, id))
}

func TestSubmitQuestionnaire_ResubmitRejected(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)
	id := startSession(t, svc)
	require.NoError(t, svc.RecordPayment(id, true, "pay_123"))
	require.NoError(t, svc.AcceptSelfie(id, "sessions/abc/selfie.jpg", nil))
	require.NoError(t, svc.SubmitQuestionnaire(id, questionnaireAnswers()))

	err := svc.SubmitQuestionnaire(id, questionnaireAnswers())
	assert.ErrorIs(t, err, models.ErrInvalidSessionState)
}

func TestExpiredSessionRejectsEveryTransition(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)
	id := startSession(t, svc)

	// Jump the clock past expiry; the stored rows are untouched.
	svc.WithClock(func() time.Time { return fixedNow.Add(2 * time.Hour) })

	assert.ErrorIs(t, svc.RecordPayment(id, true, "pay_123"), models.ErrSessionExpired)
	_, err := svc.GuardSelfie(id)
	assert.ErrorIs(t, err, models.ErrSessionExpired)
	assert.ErrorIs(t, svc.AcceptSelfie(id, "x", nil), models.ErrSessionExpired)
	assert.ErrorIs(t, svc.RejectSelfie(id), models.ErrSessionExpired)
	assert.ErrorIs(t, svc.SubmitQuestionnaire(id, questionnaireAnswers()), models.ErrSessionExpired)

	assert.Equal(t, models.StatusPendingPayment, store.status(t, id))
}

func TestEffectiveStatus_DerivesExpired(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)
	id := startSession(t, svc)

	sess, err := svc.Session(id)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPendingPayment, sess.EffectiveStatus(fixedNow))
	assert.Equal(t, models.StatusExpired, sess.EffectiveStatus(fixedNow.Add(2*time.Hour)))
}
