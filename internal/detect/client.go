package detect

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/golang/geo/r3"

	"color-profile-backend/internal/models"
)

// Validation verdicts. These are rejections of the selfie, not transport
// failures: the client may re-attempt with a better photo.
var (
	ErrNoFace        = errors.New("no face detected")
	ErrMultipleFaces = errors.New("multiple faces detected")
	ErrLowConfidence = errors.New("face detection confidence too low")
	ErrBlurry        = errors.New("image too blurry")
	ErrUnderexposed  = errors.New("image underexposed")
)

// IsValidationError reports whether err is a selfie-quality verdict rather
// than an upstream API failure.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrNoFace) ||
		errors.Is(err, ErrMultipleFaces) ||
		errors.Is(err, ErrLowConfidence) ||
		errors.Is(err, ErrBlurry) ||
		errors.Is(err, ErrUnderexposed)
}

const (
	minConfidence    = 0.8
	maxBlurScore     = 0.6
	minExposureScore = 0.35
)

type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

type detectResponse struct {
	FaceCount     int               `json:"face_count"`
	Confidence    float64           `json:"confidence"`
	BlurScore     float64           `json:"blur_score"`
	ExposureScore float64           `json:"exposure_score"`
	Landmarks     []landmarkPayload `json:"landmarks"`
}

type landmarkPayload struct {
	Type string   `json:"type"`
	X    *float64 `json:"x"`
	Y    *float64 `json:"y"`
	Z    *float64 `json:"z"`
}

func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Detect sends the image bytes to the face detection API and returns the
// landmark list, a validation verdict error, or an API error. Transport and
// 5xx failures are retried with backoff before giving up.
func (c *Client) Detect(imageData []byte) ([]models.Landmark, error) {
	var resp detectResponse
	err := c.RetryWithBackoff(func() error {
		return c.detectOnce(imageData, &resp)
	}, 3)
	if err != nil {
		return nil, err
	}

	switch {
	case resp.FaceCount == 0:
		return nil, ErrNoFace
	case resp.FaceCount > 1:
		return nil, ErrMultipleFaces
	case resp.Confidence < minConfidence:
		return nil, ErrLowConfidence
	case resp.BlurScore > maxBlurScore:
		return nil, ErrBlurry
	case resp.ExposureScore < minExposureScore:
		return nil, ErrUnderexposed
	}

	landmarks := make([]models.Landmark, 0, len(resp.Landmarks))
	for _, lm := range resp.Landmarks {
		landmark := models.Landmark{Type: lm.Type}
		if lm.X != nil || lm.Y != nil || lm.Z != nil {
			pos := r3.Vector{}
			if lm.X != nil {
				pos.X = *lm.X
			}
			if lm.Y != nil {
				pos.Y = *lm.Y
			}
			if lm.Z != nil {
				pos.Z = *lm.Z
			}
			landmark.Position = &pos
		}
		landmarks = append(landmarks, landmark)
	}
	return landmarks, nil
}

func (c *Client) detectOnce(imageData []byte, out *detectResponse) error {
	url := strings.TrimSuffix(c.baseURL, "/") + "/detect"
	req, err := http.NewRequest("POST", url, bytes.NewReader(imageData))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("x-api-key", c.apiKey)
	req.Header.Set("Content-Type", "application/octet-stream")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("face detection failed: status %d, body: %s", resp.StatusCode, string(body))
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
