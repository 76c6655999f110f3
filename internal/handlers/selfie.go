package handlers

import (
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"color-profile-backend/internal/detect"
	"color-profile-backend/internal/models"
	"color-profile-backend/internal/session"
)

const maxSelfieBytes = 10 << 20

// Detector is the opaque face detection function.
type Detector interface {
	Detect(imageData []byte) ([]models.Landmark, error)
}

// BlobUploader stores and deletes selfie blobs.
type BlobUploader interface {
	Upload(sessionID uuid.UUID, filename, contentType string, data []byte) (string, error)
	Delete(storagePath string) error
}

type SelfieHandler struct {
	sessions *session.Service
	detector Detector
	blobs    BlobUploader
}

func NewSelfieHandler(sessions *session.Service, detector Detector, blobs BlobUploader) *SelfieHandler {
	return &SelfieHandler{
		sessions: sessions,
		detector: detector,
		blobs:    blobs,
	}
}

// Submit godoc
// @Summary     Submit a selfie for validation
// @Description Stores the selfie, runs face detection, and advances the session when exactly one clear face is found. A failed validation deletes the blob and leaves the session retryable.
// @Tags        selfie
// @Accept      multipart/form-data
// @Produce     json
// @Param       session_id path string true "Session ID (UUID)"
// @Param       image formData file true "Selfie image (JPEG or PNG)"
// @Success     200 {object} models.SelfieResponse
// @Failure     400 {object} models.ErrorResponse
// @Failure     409 {object} models.ErrorResponse
// @Failure     422 {object} models.SelfieResponse
// @Router      /sessions/{session_id}/selfie [post]
func (h *SelfieHandler) Submit(c *gin.Context) {
	id, ok := sessionIDParam(c)
	if !ok {
		return
	}

	if _, err := h.sessions.GuardSelfie(id); err != nil {
		respondError(c, err)
		return
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "missing image",
			Message: err.Error(),
		})
		return
	}
	if fileHeader.Size > maxSelfieBytes {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "image too large"})
		return
	}

	contentType := fileHeader.Header.Get("Content-Type")
	if contentType != "image/jpeg" && contentType != "image/png" {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "unsupported image type"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "failed to read image",
			Message: err.Error(),
		})
		return
	}
	defer file.Close()

	imageData, err := io.ReadAll(file)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "failed to read image",
			Message: err.Error(),
		})
		return
	}

	filename := fmt.Sprintf("selfie_%s%s", time.Now().Format("20060102_150405"), extensionFor(contentType))
	storagePath, err := h.blobs.Upload(id, filename, contentType, imageData)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "failed to store image",
			Message: err.Error(),
		})
		return
	}

	landmarks, err := h.detector.Detect(imageData)
	if err != nil {
		// A rejected selfie never keeps its blob around.
		if delErr := h.blobs.Delete(storagePath); delErr != nil {
			log.Printf("failed to delete rejected selfie for session %s: %v", id, delErr)
		}

		if detect.IsValidationError(err) {
			if rejErr := h.sessions.RejectSelfie(id); rejErr != nil {
				respondError(c, rejErr)
				return
			}
			c.JSON(http.StatusUnprocessableEntity, models.SelfieResponse{
				SessionID: id.String(),
				Outcome:   validationOutcome(err),
				Status:    string(models.StatusSelfieValidationFailed),
			})
			return
		}

		c.JSON(http.StatusBadGateway, models.ErrorResponse{
			Error:   "face detection unavailable",
			Message: err.Error(),
		})
		return
	}

	if err := h.sessions.AcceptSelfie(id, storagePath, landmarks); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.SelfieResponse{
		SessionID: id.String(),
		Outcome:   "ok",
		Status:    string(models.StatusAwaitingQuestionnaire),
	})
}

func validationOutcome(err error) string {
	switch {
	case errors.Is(err, detect.ErrNoFace):
		return "no_face"
	case errors.Is(err, detect.ErrMultipleFaces):
		return "multiple_faces"
	case errors.Is(err, detect.ErrLowConfidence):
		return "low_confidence"
	case errors.Is(err, detect.ErrBlurry):
		return "blurry"
	case errors.Is(err, detect.ErrUnderexposed):
		return "underexposed"
	default:
		return "rejected"
	}
}

func extensionFor(contentType string) string {
	if contentType == "image/png" {
		return ".png"
	}
	return ".jpg"
}
