package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"color-profile-backend/internal/models"
)

// AnalysisReader reads persisted analyses by id.
type AnalysisReader interface {
	GetAnalysis(id uuid.UUID) (*models.Analysis, error)
}

type AnalysesHandler struct {
	analyses AnalysisReader
}

func NewAnalysesHandler(analyses AnalysisReader) *AnalysesHandler {
	return &AnalysesHandler{analyses: analyses}
}

// Get godoc
// @Summary     Fetch a completed analysis
// @Description Returns the persisted color profile. Owned analyses require the owning identity; anonymous ones are readable by anyone holding the id.
// @Tags        analysis
// @Produce     json
// @Param       analysis_id path string true "Analysis ID (UUID)"
// @Success     200 {object} models.AnalysisResponse
// @Failure     403 {object} models.ErrorResponse
// @Failure     404 {object} models.ErrorResponse
// @Router      /analyses/{analysis_id} [get]
func (h *AnalysesHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("analysis_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid analysis id"})
		return
	}

	analysis, err := h.analyses.GetAnalysis(id)
	if err != nil {
		respondError(c, err)
		return
	}

	if analysis.OwnerID != nil {
		owner := ownerFromContext(c)
		if owner == nil || *owner != *analysis.OwnerID {
			c.JSON(http.StatusForbidden, models.ErrorResponse{Error: "not the analysis owner"})
			return
		}
	}

	c.JSON(http.StatusOK, models.AnalysisResponse{
		AnalysisID: analysis.ID.String(),
		Result:     analysis.Result,
		CreatedAt:  analysis.CreatedAt,
	})
}
