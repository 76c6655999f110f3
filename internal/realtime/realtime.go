package realtime

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/supabase-community/supabase-go"
)

// Pipeline phases published while an analysis run is in flight. These are
// ephemeral progress hints for the UI: the database only ever persists
// analysis_pending, analysis_complete, and analysis_failed.
const (
	PhaseImageProcessing   = "image_processing"
	PhaseFeatureExtraction = "feature_extraction"
	PhaseInsightGeneration = "insight_generation"
	PhaseSaving            = "saving"
	PhaseCleanup           = "cleanup"
)

type Client struct {
	client *supabase.Client
}

func NewClient(supabaseURL, publishableKey string) (*Client, error) {
	client, err := supabase.NewClient(supabaseURL, publishableKey, nil)
	if err != nil {
		return nil, err
	}
	return &Client{client: client}, nil
}

func (c *Client) PublishEvent(channel string, event string, payload map[string]interface{}) error {
	// The Supabase Go client has no direct Realtime publish; session row
	// updates already trigger Realtime. Explicit publishes are a no-op hook
	// until the REST publish endpoint is wired.
	return nil
}

func (c *Client) PublishSessionEvent(sessionID uuid.UUID, event string, payload map[string]interface{}) error {
	channel := fmt.Sprintf("session:%s", sessionID.String())
	return c.PublishEvent(channel, event, payload)
}

// Event payloads
func PhasePayload(sessionID uuid.UUID, phase string) map[string]interface{} {
	return map[string]interface{}{
		"session_id": sessionID.String(),
		"status":     "analysis_pending",
		"phase":      phase,
	}
}

func AnalysisCompletedPayload(sessionID, analysisID uuid.UUID) map[string]interface{} {
	return map[string]interface{}{
		"session_id":  sessionID.String(),
		"status":      "analysis_complete",
		"analysis_id": analysisID.String(),
	}
}

func AnalysisFailedPayload(sessionID uuid.UUID, errorMsg string) map[string]interface{} {
	return map[string]interface{}{
		"session_id": sessionID.String(),
		"status":     "analysis_failed",
		"error":      errorMsg,
	}
}
