package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/literasia/reading-service/internal/services"
	"github.com/literasia/reading-service/internal/utils"
)

type GradingHandler struct {
	BaseHandler
	gradingService services.GradingService
	validator      *utils.Validator
}

// GradeAnswerBody carries the grader's verdict. The grader ID comes from
// the auth context.
type GradeAnswerBody struct {
	Score    int     `json:"score" validate:"min=0"`
	Feedback *string `json:"feedback"`
}

func NewGradingHandler(
	gradingService services.GradingService,
	validator *utils.Validator,
	logger utils.Logger,
) *GradingHandler {
	return &GradingHandler{
		BaseHandler:    NewBaseHandler(logger),
		gradingService: gradingService,
		validator:      validator,
	}
}

// GradeAnswer grades a specific HOTS answer manually
// @Summary Grade answer
// @Description Records a manual grade and recomputes the student's progress
// @Tags grading
// @Accept json
// @Produce json
// @Param answer_id path uint true "Answer ID"
// @Param grade body GradeAnswerBody true "Grading data"
// @Success 200 {object} models.HOTSAnswer
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /grading/answers/{answer_id} [post]
func (h *GradingHandler) GradeAnswer(c *gin.Context) {
	answerID := h.parseIDParam(c, "answer_id")
	if answerID == 0 {
		return
	}

	h.LogRequest(c, "Grading answer", "answer_id", answerID)

	var body GradeAnswerBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	if err := h.validator.Validate(&body); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Validation failed",
			Details: err.Error(),
		})
		return
	}

	graderID, ok := h.requireUserID(c)
	if !ok {
		return
	}

	answer, err := h.gradingService.GradeAnswer(c.Request.Context(), answerID, &services.GradeAnswerRequest{
		Score:    body.Score,
		Feedback: body.Feedback,
		GraderID: graderID,
	})
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, answer)
}

// GetPendingAnswers lists the ungraded queue for a HOTS question
// @Summary Get pending answers
// @Tags grading
// @Produce json
// @Param question_id path uint true "HOTS question ID"
// @Success 200 {array} models.HOTSAnswer
// @Failure 404 {object} ErrorResponse
// @Router /grading/questions/{question_id}/pending [get]
func (h *GradingHandler) GetPendingAnswers(c *gin.Context) {
	questionID := h.parseIDParam(c, "question_id")
	if questionID == 0 {
		return
	}

	answers, err := h.gradingService.GetPendingAnswers(c.Request.Context(), questionID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, answers)
}

// GetAnswersByQuestion lists every answer for a HOTS question
// @Summary Get answers by question
// @Tags grading
// @Produce json
// @Param question_id path uint true "HOTS question ID"
// @Success 200 {array} models.HOTSAnswer
// @Failure 404 {object} ErrorResponse
// @Router /grading/questions/{question_id}/answers [get]
func (h *GradingHandler) GetAnswersByQuestion(c *gin.Context) {
	questionID := h.parseIDParam(c, "question_id")
	if questionID == 0 {
		return
	}

	answers, err := h.gradingService.GetAnswersByQuestion(c.Request.Context(), questionID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, answers)
}
