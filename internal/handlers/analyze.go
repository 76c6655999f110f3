package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"color-profile-backend/internal/models"
	"color-profile-backend/internal/services"
)

type AnalyzeHandler struct {
	orchestrator *services.Orchestrator
}

func NewAnalyzeHandler(orchestrator *services.Orchestrator) *AnalyzeHandler {
	return &AnalyzeHandler{orchestrator: orchestrator}
}

// Start godoc
// @Summary     Start the analysis pipeline
// @Description Runs the full pipeline for a questionnaire_complete session. Requests arriving while the run is pending or complete return success without re-entering the pipeline.
// @Tags        analysis
// @Produce     json
// @Param       session_id path string true "Session ID (UUID)"
// @Success     200 {object} models.AnalyzeResponse
// @Failure     404 {object} models.ErrorResponse
// @Failure     409 {object} models.ErrorResponse
// @Failure     500 {object} models.ErrorResponse
// @Router      /sessions/{session_id}/analyze [post]
func (h *AnalyzeHandler) Start(c *gin.Context) {
	id, ok := sessionIDParam(c)
	if !ok {
		return
	}

	result, err := h.orchestrator.Run(id)
	if err != nil {
		respondError(c, err)
		return
	}

	resp := models.AnalyzeResponse{
		SessionID: id.String(),
		Status:    string(result.Status),
	}
	if result.AnalysisID != nil {
		resp.AnalysisID = result.AnalysisID.String()
	}
	c.JSON(http.StatusOK, resp)
}
