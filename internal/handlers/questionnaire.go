package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"color-profile-backend/internal/colorist"
	"color-profile-backend/internal/models"
	"color-profile-backend/internal/session"
)

type QuestionnaireHandler struct {
	sessions *session.Service
}

func NewQuestionnaireHandler(sessions *session.Service) *QuestionnaireHandler {
	return &QuestionnaireHandler{sessions: sessions}
}

// Submit godoc
// @Summary     Submit questionnaire answers
// @Description Stores the fixed question set's answers. Requires the session to be awaiting_questionnaire.
// @Tags        questionnaire
// @Accept      json
// @Produce     json
// @Param       session_id path string true "Session ID (UUID)"
// @Param       answers body models.Questionnaire true "Questionnaire answers"
// @Success     200 {object} models.QuestionnaireResponse
// @Failure     400 {object} models.ErrorResponse
// @Failure     409 {object} models.ErrorResponse
// @Router      /sessions/{session_id}/questionnaire [post]
func (h *QuestionnaireHandler) Submit(c *gin.Context) {
	id, ok := sessionIDParam(c)
	if !ok {
		return
	}

	var answers models.Questionnaire
	if err := c.ShouldBindJSON(&answers); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "invalid request body",
			Message: err.Error(),
		})
		return
	}

	// Hair color feeds the contrast computation, so it must parse now.
	if _, err := colorist.ParseHex(answers.HairColor); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "invalid hair color",
			Message: err.Error(),
		})
		return
	}

	if err := h.sessions.SubmitQuestionnaire(id, answers); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.QuestionnaireResponse{
		SessionID: id.String(),
		Status:    string(models.StatusQuestionnaireComplete),
	})
}
