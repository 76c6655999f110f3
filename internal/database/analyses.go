package database

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"color-profile-backend/internal/models"
)

// CreateAnalysis inserts the immutable result of one successful pipeline run.
func (c *Client) CreateAnalysis(ownerID *uuid.UUID, result, inputData json.RawMessage) (*models.Analysis, error) {
	var a models.Analysis
	err := c.db.QueryRow(`
		INSERT INTO analyses (id, owner_id, result, input_data)
		VALUES ($1, $2, $3, $4)
		RETURNING id, owner_id, result, input_data, created_at
	`, uuid.New(), ownerID, []byte(result), []byte(inputData)).Scan(
		&a.ID, &a.OwnerID, (*[]byte)(&a.Result), (*[]byte)(&a.InputData), &a.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create analysis: %w", err)
	}
	return &a, nil
}

func (c *Client) GetAnalysis(id uuid.UUID) (*models.Analysis, error) {
	var a models.Analysis
	err := c.db.QueryRow(`
		SELECT id, owner_id, result, input_data, created_at
		FROM analyses
		WHERE id = $1
	`, id).Scan(&a.ID, &a.OwnerID, (*[]byte)(&a.Result), (*[]byte)(&a.InputData), &a.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, models.ErrAnalysisNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get analysis: %w", err)
	}
	return &a, nil
}
