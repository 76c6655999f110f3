package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"color-profile-backend/internal/colorist"
	"color-profile-backend/internal/insight"
	"color-profile-backend/internal/models"
	"color-profile-backend/internal/realtime"
)

// SessionStore is the slice of the session store the orchestrator drives.
type SessionStore interface {
	GetSession(id uuid.UUID) (*models.Session, error)
	ClaimAnalysis(id uuid.UUID) error
	CompleteAnalysis(id uuid.UUID, analysisID uuid.UUID) error
	FailAnalysis(id uuid.UUID, message string) error
}

// AnalysisStore persists completed analyses. Insert-only.
type AnalysisStore interface {
	CreateAnalysis(ownerID *uuid.UUID, result, inputData json.RawMessage) (*models.Analysis, error)
}

// BlobStore fetches and deletes stored selfies.
type BlobStore interface {
	Download(path string) ([]byte, error)
	Delete(path string) error
}

// Analyzer is the opaque generative-analysis function.
type Analyzer interface {
	Analyze(request insight.AnalysisRequest) (*insight.AnalysisResult, error)
}

// Publisher emits ephemeral progress events for the UI.
type Publisher interface {
	PublishSessionEvent(sessionID uuid.UUID, event string, payload map[string]interface{}) error
}

// StartResult is what a start-analysis request returns. AnalysisID is set
// only when the session is (or just became) analysis_complete.
type StartResult struct {
	Status     models.SessionStatus
	AnalysisID *uuid.UUID
}

// Orchestrator drives one full pipeline run for a session: download the
// selfie, extract colors, compute contrast, call the generative analysis,
// persist the result, clean up the blob, and finalize session state.
type Orchestrator struct {
	sessions SessionStore
	analyses AnalysisStore
	blobs    BlobStore
	analyzer Analyzer
	events   Publisher
	now      func() time.Time
}

func NewOrchestrator(sessions SessionStore, analyses AnalysisStore, blobs BlobStore, analyzer Analyzer, events Publisher) *Orchestrator {
	return &Orchestrator{
		sessions: sessions,
		analyses: analyses,
		blobs:    blobs,
		analyzer: analyzer,
		events:   events,
		now:      time.Now,
	}
}

// WithClock overrides the time source. Test hook.
func (o *Orchestrator) WithClock(now func() time.Time) *Orchestrator {
	o.now = now
	return o
}

// Run starts (or short-circuits) the analysis pipeline for a session.
//
// A request arriving while the session is already analysis_pending or
// analysis_complete returns success immediately without re-entering the
// pipeline. The transition into analysis_pending is a conditional update, so
// of two near-simultaneous starters exactly one runs the pipeline; the loser
// re-reads and takes the idempotent path.
func (o *Orchestrator) Run(id uuid.UUID) (*StartResult, error) {
	sess, err := o.sessions.GetSession(id)
	if err != nil {
		return nil, err
	}
	if sess.Expired(o.now()) {
		return nil, models.ErrSessionExpired
	}

	if result, ok := shortcut(sess); ok {
		return result, nil
	}
	if sess.Status != models.StatusQuestionnaireComplete {
		return nil, models.ErrInvalidSessionState
	}

	// Transition-entry guard: image, landmarks, and answers must all be
	// present. A miss here is a data-integrity fault, not a user error.
	if sess.ImageLocation == nil || len(sess.Landmarks) == 0 || sess.Questionnaire == nil {
		return nil, models.ErrMissingAnalysisInputs
	}

	// Claim the run before any heavy work so a concurrent status check
	// observes analysis_pending, and so a crash mid-pipeline leaves an
	// inspectable state.
	if err := o.sessions.ClaimAnalysis(id); err != nil {
		if errors.Is(err, models.ErrStatusConflict) {
			current, readErr := o.sessions.GetSession(id)
			if readErr != nil {
				return nil, readErr
			}
			if result, ok := shortcut(current); ok {
				return result, nil
			}
			return nil, models.ErrInvalidSessionState
		}
		return nil, err
	}

	analysisID, err := o.pipeline(sess)
	if err != nil {
		o.fail(id, err)
		return nil, err
	}

	o.events.PublishSessionEvent(id, "analysis_completed",
		realtime.AnalysisCompletedPayload(id, *analysisID))

	return &StartResult{Status: models.StatusAnalysisComplete, AnalysisID: analysisID}, nil
}

func shortcut(sess *models.Session) (*StartResult, bool) {
	switch sess.Status {
	case models.StatusAnalysisPending:
		return &StartResult{Status: models.StatusAnalysisPending}, true
	case models.StatusAnalysisComplete:
		return &StartResult{Status: models.StatusAnalysisComplete, AnalysisID: sess.AnalysisID}, true
	}
	return nil, false
}

// pipeline runs steps 2-10 for a claimed session. Every step is fatal except
// the blob cleanup.
func (o *Orchestrator) pipeline(sess *models.Session) (*uuid.UUID, error) {
	id := sess.ID

	o.publishPhase(id, realtime.PhaseImageProcessing)
	imageData, err := o.blobs.Download(*sess.ImageLocation)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch selfie: %w", err)
	}

	o.publishPhase(id, realtime.PhaseFeatureExtraction)
	colors, err := colorist.ExtractColors(imageData, sess.Landmarks)
	if err != nil {
		return nil, err
	}

	hairHex := sess.Questionnaire.HairColor
	if colors.SkinHex == nil || colors.EyeHex == nil || hairHex == "" {
		return nil, fmt.Errorf("%w: skin, eye, and hair colors are all required", models.ErrMissingAnalysisInputs)
	}

	contrast, err := colorist.EvaluateContrast(*colors.SkinHex, *colors.EyeHex, hairHex)
	if err != nil {
		return nil, fmt.Errorf("failed to compute contrast: %w", err)
	}

	request := insight.AnalysisRequest{
		Colors:        *colors,
		Contrast:      *contrast,
		Questionnaire: *sess.Questionnaire,
	}

	o.publishPhase(id, realtime.PhaseInsightGeneration)
	result, err := o.analyzer.Analyze(request)
	if err != nil {
		return nil, fmt.Errorf("generative analysis failed: %w", err)
	}

	o.publishPhase(id, realtime.PhaseSaving)
	resultJSON, err := json.Marshal(result)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal analysis result: %w", err)
	}
	inputJSON, err := json.Marshal(request)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal analysis input: %w", err)
	}

	analysis, err := o.analyses.CreateAnalysis(sess.OwnerID, resultJSON, inputJSON)
	if err != nil {
		return nil, fmt.Errorf("failed to persist analysis: %w", err)
	}

	o.publishPhase(id, realtime.PhaseCleanup)
	if err := o.blobs.Delete(*sess.ImageLocation); err != nil {
		// The analysis already succeeded and was persisted; a leaked blob
		// is not worth failing the run over.
		log.Printf("failed to delete selfie blob for session %s: %v", id, err)
	}

	if err := o.sessions.CompleteAnalysis(id, analysis.ID); err != nil {
		return nil, fmt.Errorf("failed to finalize session: %w", err)
	}

	return &analysis.ID, nil
}

// fail records the pipeline failure. A failure to even record the failure is
// logged and swallowed.
func (o *Orchestrator) fail(id uuid.UUID, cause error) {
	if err := o.sessions.FailAnalysis(id, cause.Error()); err != nil {
		log.Printf("failed to mark session %s analysis_failed: %v", id, err)
	}
	o.events.PublishSessionEvent(id, "analysis_failed",
		realtime.AnalysisFailedPayload(id, cause.Error()))
}

func (o *Orchestrator) publishPhase(id uuid.UUID, phase string) {
	o.events.PublishSessionEvent(id, "analysis_progress", realtime.PhasePayload(id, phase))
}
