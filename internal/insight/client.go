package insight

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"color-profile-backend/internal/colorist"
	"color-profile-backend/internal/models"
)

// AnalysisRequest is the structured input to the generative analysis: the
// extracted colors, the contrast profile, and the questionnaire answers. The
// same record is persisted alongside the result for audit.
type AnalysisRequest struct {
	Colors        colorist.ExtractedColors `json:"colors"`
	Contrast      colorist.ContrastProfile `json:"contrast"`
	Questionnaire models.Questionnaire     `json:"questionnaire"`
}

// AnalysisResult is the schema the generative analysis must satisfy.
type AnalysisResult struct {
	Season        string    `json:"season"`
	Undertone     string    `json:"undertone"`
	ContrastLevel string    `json:"contrast_level"`
	Palettes      []Palette `json:"palettes"`
	Guidance      string    `json:"guidance"`
	Makeup        *Makeup   `json:"makeup,omitempty"`
}

type Palette struct {
	Name   string   `json:"name"`
	Colors []string `json:"colors"`
}

type Makeup struct {
	Foundation string   `json:"foundation,omitempty"`
	LipColors  []string `json:"lip_colors,omitempty"`
	EyeShadows []string `json:"eye_shadows,omitempty"`
	Notes      string   `json:"notes,omitempty"`
}

// Validate checks the schema contract. Any violation makes the whole
// generative call count as failed.
func (r *AnalysisResult) Validate() error {
	if r.Season == "" {
		return fmt.Errorf("missing season")
	}
	if r.Undertone == "" {
		return fmt.Errorf("missing undertone")
	}
	if r.ContrastLevel == "" {
		return fmt.Errorf("missing contrast_level")
	}
	if len(r.Palettes) == 0 {
		return fmt.Errorf("missing palettes")
	}
	for _, p := range r.Palettes {
		if len(p.Colors) == 0 {
			return fmt.Errorf("palette %q has no colors", p.Name)
		}
	}
	if r.Guidance == "" {
		return fmt.Errorf("missing guidance")
	}
	return nil
}

type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 120 * time.Second,
		},
	}
}

// Analyze calls the generative analysis with the structured input. Transport
// failures and bad statuses are retried with backoff; a response that decodes
// but violates the schema is a hard failure and is not retried.
func (c *Client) Analyze(request AnalysisRequest) (*AnalysisResult, error) {
	jsonData, err := json.Marshal(request)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	var result AnalysisResult
	err = c.RetryWithBackoff(func() error {
		return c.analyzeOnce(jsonData, &result)
	}, 3)
	if err != nil {
		return nil, err
	}

	if err := result.Validate(); err != nil {
		return nil, fmt.Errorf("analysis result failed schema validation: %w", err)
	}

	return &result, nil
}

func (c *Client) analyzeOnce(jsonData []byte, out *AnalysisResult) error {
	url := strings.TrimSuffix(c.baseURL, "/") + "/analyze"
	req, err := http.NewRequest("POST", url, bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("x-api-key", c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("analysis failed: status %d, body: %s", resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// RetryWithBackoff executes a function with exponential backoff retry logic.
func (c *Client) RetryWithBackoff(fn func() error, maxRetries int) error {
	backoffs := []time.Duration{1 * time.Second, 2 * time.Second, 4 * time.Second}

	var lastErr error
	for i := 0; i < maxRetries; i++ {
		err := fn()
		if err == nil {
			return nil
		}

		lastErr = err
		if i < len(backoffs) {
			time.Sleep(backoffs[i])
		}
	}

	return fmt.Errorf("failed after %d retries: %w", maxRetries, lastErr)
}
