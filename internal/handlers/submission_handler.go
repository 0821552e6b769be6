package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/literasia/reading-service/internal/services"
	"github.com/literasia/reading-service/internal/utils"
)

type SubmissionHandler struct {
	BaseHandler
	submissionService services.SubmissionService
	validator         *utils.Validator
}

// SubmitAnswerBody is the wire shape for answer submission. The user ID
// comes from the auth context, never from the payload.
type SubmitAnswerBody struct {
	QuestionID uint   `json:"question_id" validate:"required"`
	AnswerText string `json:"answer_text" validate:"required"`
}

type SubmitHOTSAnswerBody struct {
	HOTSQuestionID uint   `json:"hots_question_id" validate:"required"`
	AnswerText     string `json:"answer_text" validate:"required"`
}

func NewSubmissionHandler(
	submissionService services.SubmissionService,
	validator *utils.Validator,
	logger utils.Logger,
) *SubmissionHandler {
	return &SubmissionHandler{
		BaseHandler:       NewBaseHandler(logger),
		submissionService: submissionService,
		validator:         validator,
	}
}

// SubmitAnswer submits an answer to a comprehension question
// @Summary Submit answer
// @Description Scores and stores an answer, returning the updated quiz stats
// @Tags submissions
// @Accept json
// @Produce json
// @Param answer body SubmitAnswerBody true "Answer data"
// @Success 200 {object} services.SubmitAnswerResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /submissions/answers [post]
func (h *SubmissionHandler) SubmitAnswer(c *gin.Context) {
	var body SubmitAnswerBody
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

	userID, ok := h.requireUserID(c)
	if !ok {
		return
	}

	h.LogRequest(c, "Submitting answer", "question_id", body.QuestionID)

	result, err := h.submissionService.SubmitAnswer(c.Request.Context(), &services.SubmitAnswerRequest{
		UserID:     userID,
		QuestionID: body.QuestionID,
		AnswerText: body.AnswerText,
	})
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// SubmitHOTSAnswer submits an open-ended answer for manual grading
// @Summary Submit HOTS answer
// @Tags submissions
// @Accept json
// @Produce json
// @Param answer body SubmitHOTSAnswerBody true "Answer data"
// @Success 200 {object} models.HOTSAnswer
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /submissions/hots-answers [post]
func (h *SubmissionHandler) SubmitHOTSAnswer(c *gin.Context) {
	var body SubmitHOTSAnswerBody
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

	userID, ok := h.requireUserID(c)
	if !ok {
		return
	}

	h.LogRequest(c, "Submitting HOTS answer", "hots_question_id", body.HOTSQuestionID)

	answer, err := h.submissionService.SubmitHOTSAnswer(c.Request.Context(), &services.SubmitHOTSAnswerRequest{
		UserID:         userID,
		HOTSQuestionID: body.HOTSQuestionID,
		AnswerText:     body.AnswerText,
	})
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, answer)
}
