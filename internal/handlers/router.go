package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/literasia/reading-service/internal/services"
	"github.com/literasia/reading-service/internal/utils"
)

type HandlerManager struct {
	textHandler       *TextHandler
	submissionHandler *SubmissionHandler
	progressHandler   *ProgressHandler
	gradingHandler    *GradingHandler
	analyticsHandler  *AnalyticsHandler
}

func NewHandlerManager(
	serviceManager services.ServiceManager,
	validator *utils.Validator,
	logger utils.Logger,
) *HandlerManager {
	return &HandlerManager{
		textHandler:       NewTextHandler(serviceManager.Text(), validator, logger),
		submissionHandler: NewSubmissionHandler(serviceManager.Submission(), validator, logger),
		progressHandler:   NewProgressHandler(serviceManager.Progress(), validator, logger),
		gradingHandler:    NewGradingHandler(serviceManager.Grading(), validator, logger),
		analyticsHandler:  NewAnalyticsHandler(serviceManager.Analytics(), serviceManager.Report(), validator, logger),
	}
}

// SetupRoutes sets up all API routes. The auth middleware guards
// everything under /api/v1; the health check stays open.
func (hm *HandlerManager) SetupRoutes(router *gin.Engine, authMiddleware gin.HandlerFunc) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": "reading-service",
		})
	})

	v1 := router.Group("/api/v1")
	if authMiddleware != nil {
		v1.Use(authMiddleware)
	}
	{
		// Text catalog routes
		texts := v1.Group("/texts")
		{
			texts.POST("", hm.textHandler.CreateText)
			texts.GET("", hm.textHandler.ListTexts)
			texts.GET("/:id", hm.textHandler.GetText)
			texts.PUT("/:id", hm.textHandler.UpdateText)
			texts.POST("/:id/archive", hm.textHandler.ArchiveText)
			texts.POST("/:id/restore", hm.textHandler.RestoreText)
			texts.GET("/:id/questions", hm.textHandler.GetQuestionsByText)
			texts.GET("/:id/hots-questions", hm.textHandler.GetHOTSQuestionsByText)
		}

		// Question routes
		questions := v1.Group("/questions")
		{
			questions.POST("", hm.textHandler.CreateQuestion)
			questions.PUT("/:id", hm.textHandler.UpdateQuestion)
			questions.DELETE("/:id", hm.textHandler.DeleteQuestion)
		}

		// HOTS question routes
		hots := v1.Group("/hots")
		{
			hots.POST("/questions", hm.textHandler.CreateHOTSQuestion)
		}

		// Submission routes
		submissions := v1.Group("/submissions")
		{
			submissions.POST("/answers", hm.submissionHandler.SubmitAnswer)
			submissions.POST("/hots-answers", hm.submissionHandler.SubmitHOTSAnswer)
		}

		// Progress routes
		progress := v1.Group("/progress")
		{
			progress.GET("", hm.progressHandler.GetMyProgress)
			progress.GET("/overall", hm.progressHandler.GetOverallProgress)
			progress.GET("/genres", hm.progressHandler.GetGenreProgress)
			progress.GET("/texts/:text_id", hm.progressHandler.GetTextProgress)
			progress.GET("/texts/:text_id/quiz-stats", hm.progressHandler.GetQuizStats)
			progress.POST("/texts/:text_id/read", hm.progressHandler.MarkTextAsRead)
		}

		// Grading routes
		grading := v1.Group("/grading")
		{
			grading.POST("/answers/:answer_id", hm.gradingHandler.GradeAnswer)
			grading.GET("/questions/:question_id/pending", hm.gradingHandler.GetPendingAnswers)
			grading.GET("/questions/:question_id/answers", hm.gradingHandler.GetAnswersByQuestion)
		}

		// Analytics routes
		analytics := v1.Group("/analytics")
		{
			analytics.GET("/hots", hm.analyticsHandler.GetMyHOTSStats)
			analytics.GET("/overview", hm.analyticsHandler.GetTeacherOverview)
			analytics.GET("/class-report", hm.analyticsHandler.GetClassReport)
			analytics.GET("/students/:student_id/overview", hm.analyticsHandler.GetStudentOverview)
			analytics.GET("/reports/progress", hm.analyticsHandler.ExportProgressReport)
		}
	}
}
