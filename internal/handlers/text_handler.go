package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/literasia/reading-service/internal/models"
	"github.com/literasia/reading-service/internal/repositories"
	"github.com/literasia/reading-service/internal/services"
	"github.com/literasia/reading-service/internal/utils"
)

type TextHandler struct {
	BaseHandler
	textService services.TextService
	validator   *utils.Validator
}

func NewTextHandler(
	textService services.TextService,
	validator *utils.Validator,
	logger utils.Logger,
) *TextHandler {
	return &TextHandler{
		BaseHandler: NewBaseHandler(logger),
		textService: textService,
		validator:   validator,
	}
}

// CreateText creates a new reading text
// @Summary Create text
// @Description Creates a new reading text with optional genre structure
// @Tags texts
// @Accept json
// @Produce json
// @Param text body services.CreateTextRequest true "Text data"
// @Success 201 {object} models.Text
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Router /texts [post]
func (h *TextHandler) CreateText(c *gin.Context) {
	h.LogRequest(c, "Creating text")

	var req services.CreateTextRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	userID, ok := h.requireUserID(c)
	if !ok {
		return
	}

	text, err := h.textService.Create(c.Request.Context(), &req, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, text)
}

// GetText returns one text by ID
// @Summary Get text
// @Tags texts
// @Produce json
// @Param id path uint true "Text ID"
// @Success 200 {object} models.Text
// @Failure 404 {object} ErrorResponse
// @Router /texts/{id} [get]
func (h *TextHandler) GetText(c *gin.Context) {
	textID := h.parseIDParam(c, "id")
	if textID == 0 {
		return
	}

	text, err := h.textService.GetByID(c.Request.Context(), textID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, text)
}

// ListTexts lists texts with optional filters
// @Summary List texts
// @Tags texts
// @Produce json
// @Param genre query string false "Filter by genre"
// @Param include_archived query bool false "Include archived texts"
// @Param limit query int false "Page size"
// @Param offset query int false "Page offset"
// @Success 200 {object} SuccessResponse
// @Router /texts [get]
func (h *TextHandler) ListTexts(c *gin.Context) {
	filters := repositories.TextFilters{
		IncludeArchived: c.Query("include_archived") == "true",
		SortBy:          c.Query("sort_by"),
		SortOrder:       c.Query("sort_order"),
	}
	if genreStr := c.Query("genre"); genreStr != "" {
		genre := models.Genre(genreStr)
		if !genre.IsValid() {
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Message: "Invalid genre",
				Details: "unknown genre: " + genreStr,
			})
			return
		}
		filters.Genre = &genre
	}
	if creatorID := c.Query("created_by"); creatorID != "" {
		filters.CreatedBy = &creatorID
	}
	filters.Limit, _ = strconv.Atoi(c.DefaultQuery("limit", "20"))
	filters.Offset, _ = strconv.Atoi(c.DefaultQuery("offset", "0"))

	texts, total, err := h.textService.List(c.Request.Context(), filters)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"texts":  texts,
		"total":  total,
		"limit":  filters.Limit,
		"offset": filters.Offset,
	})
}

// UpdateText updates an existing text
// @Summary Update text
// @Tags texts
// @Accept json
// @Produce json
// @Param id path uint true "Text ID"
// @Param text body services.UpdateTextRequest true "Fields to update"
// @Success 200 {object} models.Text
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /texts/{id} [put]
func (h *TextHandler) UpdateText(c *gin.Context) {
	textID := h.parseIDParam(c, "id")
	if textID == 0 {
		return
	}

	h.LogRequest(c, "Updating text", "text_id", textID)

	var req services.UpdateTextRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	text, err := h.textService.Update(c.Request.Context(), textID, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, text)
}

// ArchiveText soft-deletes a text
// @Summary Archive text
// @Tags texts
// @Produce json
// @Param id path uint true "Text ID"
// @Success 200 {object} SuccessResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /texts/{id}/archive [post]
func (h *TextHandler) ArchiveText(c *gin.Context) {
	textID := h.parseIDParam(c, "id")
	if textID == 0 {
		return
	}

	h.LogRequest(c, "Archiving text", "text_id", textID)

	if err := h.textService.Archive(c.Request.Context(), textID); err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.RespondWithSuccess(c, http.StatusOK, "Text archived", gin.H{"text_id": textID})
}

// RestoreText brings an archived text back into circulation
// @Summary Restore text
// @Tags texts
// @Produce json
// @Param id path uint true "Text ID"
// @Success 200 {object} SuccessResponse
// @Failure 404 {object} ErrorResponse
// @Router /texts/{id}/restore [post]
func (h *TextHandler) RestoreText(c *gin.Context) {
	textID := h.parseIDParam(c, "id")
	if textID == 0 {
		return
	}

	h.LogRequest(c, "Restoring text", "text_id", textID)

	if err := h.textService.Restore(c.Request.Context(), textID); err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.RespondWithSuccess(c, http.StatusOK, "Text restored", gin.H{"text_id": textID})
}

// CreateQuestion attaches a comprehension question to a text
// @Summary Create question
// @Tags questions
// @Accept json
// @Produce json
// @Param question body services.CreateQuestionRequest true "Question data"
// @Success 201 {object} models.Question
// @Failure 400 {object} ErrorResponse
// @Router /questions [post]
func (h *TextHandler) CreateQuestion(c *gin.Context) {
	h.LogRequest(c, "Creating question")

	var req services.CreateQuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	userID, ok := h.requireUserID(c)
	if !ok {
		return
	}

	question, err := h.textService.CreateQuestion(c.Request.Context(), &req, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, question)
}

// UpdateQuestion updates a question
// @Summary Update question
// @Tags questions
// @Accept json
// @Produce json
// @Param id path uint true "Question ID"
// @Success 200 {object} models.Question
// @Failure 404 {object} ErrorResponse
// @Router /questions/{id} [put]
func (h *TextHandler) UpdateQuestion(c *gin.Context) {
	questionID := h.parseIDParam(c, "id")
	if questionID == 0 {
		return
	}

	var req services.UpdateQuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	question, err := h.textService.UpdateQuestion(c.Request.Context(), questionID, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, question)
}

// DeleteQuestion removes a question
// @Summary Delete question
// @Tags questions
// @Produce json
// @Param id path uint true "Question ID"
// @Success 200 {object} SuccessResponse
// @Failure 404 {object} ErrorResponse
// @Router /questions/{id} [delete]
func (h *TextHandler) DeleteQuestion(c *gin.Context) {
	questionID := h.parseIDParam(c, "id")
	if questionID == 0 {
		return
	}

	h.LogRequest(c, "Deleting question", "question_id", questionID)

	if err := h.textService.DeleteQuestion(c.Request.Context(), questionID); err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.RespondWithSuccess(c, http.StatusOK, "Question deleted", gin.H{"question_id": questionID})
}

// GetQuestionsByText lists all comprehension questions of a text
// @Summary Get questions by text
// @Tags questions
// @Produce json
// @Param id path uint true "Text ID"
// @Success 200 {array} models.Question
// @Failure 404 {object} ErrorResponse
// @Router /texts/{id}/questions [get]
func (h *TextHandler) GetQuestionsByText(c *gin.Context) {
	textID := h.parseIDParam(c, "id")
	if textID == 0 {
		return
	}

	questions, err := h.textService.GetQuestionsByText(c.Request.Context(), textID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, questions)
}

// CreateHOTSQuestion attaches a higher-order thinking question to a text
// @Summary Create HOTS question
// @Tags hots
// @Accept json
// @Produce json
// @Param question body services.CreateHOTSQuestionRequest true "HOTS question data"
// @Success 201 {object} models.HOTSQuestion
// @Failure 400 {object} ErrorResponse
// @Router /hots/questions [post]
func (h *TextHandler) CreateHOTSQuestion(c *gin.Context) {
	h.LogRequest(c, "Creating HOTS question")

	var req services.CreateHOTSQuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	userID, ok := h.requireUserID(c)
	if !ok {
		return
	}

	question, err := h.textService.CreateHOTSQuestion(c.Request.Context(), &req, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, question)
}

// GetHOTSQuestionsByText lists all HOTS questions of a text
// @Summary Get HOTS questions by text
// @Tags hots
// @Produce json
// @Param id path uint true "Text ID"
// @Success 200 {array} models.HOTSQuestion
// @Failure 404 {object} ErrorResponse
// @Router /texts/{id}/hots-questions [get]
func (h *TextHandler) GetHOTSQuestionsByText(c *gin.Context) {
	textID := h.parseIDParam(c, "id")
	if textID == 0 {
		return
	}

	questions, err := h.textService.GetHOTSQuestionsByText(c.Request.Context(), textID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, questions)
}
