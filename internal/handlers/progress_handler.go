package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/literasia/reading-service/internal/services"
	"github.com/literasia/reading-service/internal/utils"
)

type ProgressHandler struct {
	BaseHandler
	progressService services.ProgressService
	validator       *utils.Validator
}

func NewProgressHandler(
	progressService services.ProgressService,
	validator *utils.Validator,
	logger utils.Logger,
) *ProgressHandler {
	return &ProgressHandler{
		BaseHandler:     NewBaseHandler(logger),
		progressService: progressService,
		validator:       validator,
	}
}

// MarkTextAsRead flags a text as read for the calling user
// @Summary Mark text as read
// @Description Records that the user finished reading a text. Idempotent.
// @Tags progress
// @Produce json
// @Param text_id path uint true "Text ID"
// @Success 200 {object} SuccessResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /progress/texts/{text_id}/read [post]
func (h *ProgressHandler) MarkTextAsRead(c *gin.Context) {
	textID := h.parseIDParam(c, "text_id")
	if textID == 0 {
		return
	}

	userID, ok := h.requireUserID(c)
	if !ok {
		return
	}

	h.LogRequest(c, "Marking text as read", "text_id", textID)

	if err := h.progressService.MarkTextAsRead(c.Request.Context(), userID, textID); err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.RespondWithSuccess(c, http.StatusOK, "Text marked as read", gin.H{"text_id": textID})
}

// GetMyProgress returns all per-text progress rows for the calling user
// @Summary Get my progress
// @Tags progress
// @Produce json
// @Success 200 {array} models.Progress
// @Failure 401 {object} ErrorResponse
// @Router /progress [get]
func (h *ProgressHandler) GetMyProgress(c *gin.Context) {
	userID, ok := h.requireUserID(c)
	if !ok {
		return
	}

	progress, err := h.progressService.GetProgress(c.Request.Context(), userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, progress)
}

// GetTextProgress returns the calling user's progress for one text
// @Summary Get progress for text
// @Tags progress
// @Produce json
// @Param text_id path uint true "Text ID"
// @Success 200 {object} models.Progress
// @Failure 401 {object} ErrorResponse
// @Router /progress/texts/{text_id} [get]
func (h *ProgressHandler) GetTextProgress(c *gin.Context) {
	textID := h.parseIDParam(c, "text_id")
	if textID == 0 {
		return
	}

	userID, ok := h.requireUserID(c)
	if !ok {
		return
	}

	progress, err := h.progressService.GetProgressForText(c.Request.Context(), userID, textID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, progress)
}

// GetQuizStats returns quiz answer stats for one text
// @Summary Get quiz stats
// @Tags progress
// @Produce json
// @Param text_id path uint true "Text ID"
// @Success 200 {object} services.QuizStats
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /progress/texts/{text_id}/quiz-stats [get]
func (h *ProgressHandler) GetQuizStats(c *gin.Context) {
	textID := h.parseIDParam(c, "text_id")
	if textID == 0 {
		return
	}

	userID, ok := h.requireUserID(c)
	if !ok {
		return
	}

	stats, err := h.progressService.ComputeQuizStats(c.Request.Context(), userID, textID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}

// GetOverallProgress returns the user's completion percentage over all
// available texts
// @Summary Get overall progress
// @Tags progress
// @Produce json
// @Success 200 {object} SuccessResponse
// @Failure 401 {object} ErrorResponse
// @Router /progress/overall [get]
func (h *ProgressHandler) GetOverallProgress(c *gin.Context) {
	userID, ok := h.requireUserID(c)
	if !ok {
		return
	}

	percentage, err := h.progressService.ComputeOverallProgress(c.Request.Context(), userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"overall_progress": percentage})
}

// GetGenreProgress returns the user's reading coverage per genre
// @Summary Get genre progress
// @Tags progress
// @Produce json
// @Success 200 {array} services.GenreProgress
// @Failure 401 {object} ErrorResponse
// @Router /progress/genres [get]
func (h *ProgressHandler) GetGenreProgress(c *gin.Context) {
	userID, ok := h.requireUserID(c)
	if !ok {
		return
	}

	breakdown, err := h.progressService.ComputeGenreProgress(c.Request.Context(), userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, breakdown)
}
