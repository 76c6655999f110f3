package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Analysis is the persisted result of one successful pipeline run. The input
// snapshot is retained alongside the result for audit and debugging. Rows are
// insert-only; ownership may be reassigned in bulk when an anonymous identity
// is later linked to an account.
type Analysis struct {
	ID        uuid.UUID       `json:"id"`
	OwnerID   *uuid.UUID      `json:"owner_id,omitempty"`
	Result    json.RawMessage `json:"result"`
	InputData json.RawMessage `json:"input_data"`
	CreatedAt time.Time       `json:"created_at"`
}
