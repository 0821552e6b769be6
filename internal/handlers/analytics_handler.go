package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/literasia/reading-service/internal/services"
	"github.com/literasia/reading-service/internal/utils"
)

type AnalyticsHandler struct {
	BaseHandler
	analyticsService services.AnalyticsService
	reportService    services.ReportService
	validator        *utils.Validator
}

func NewAnalyticsHandler(
	analyticsService services.AnalyticsService,
	reportService services.ReportService,
	validator *utils.Validator,
	logger utils.Logger,
) *AnalyticsHandler {
	return &AnalyticsHandler{
		BaseHandler:      NewBaseHandler(logger),
		analyticsService: analyticsService,
		reportService:    reportService,
		validator:        validator,
	}
}

// GetMyHOTSStats returns HOTS completion stats for the calling user
// @Summary Get my HOTS stats
// @Tags analytics
// @Produce json
// @Success 200 {object} services.HOTSStats
// @Failure 401 {object} ErrorResponse
// @Router /analytics/hots [get]
func (h *AnalyticsHandler) GetMyHOTSStats(c *gin.Context) {
	userID, ok := h.requireUserID(c)
	if !ok {
		return
	}

	stats, err := h.analyticsService.GetHOTSStats(c.Request.Context(), userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}

// GetStudentOverview returns one student's activity summary
// @Summary Get student overview
// @Tags analytics
// @Produce json
// @Param student_id path string true "Student ID"
// @Success 200 {object} services.StudentOverview
// @Failure 404 {object} ErrorResponse
// @Router /analytics/students/{student_id}/overview [get]
func (h *AnalyticsHandler) GetStudentOverview(c *gin.Context) {
	studentID := ParseStringIDParam(c, "student_id")
	if studentID == "" {
		return
	}

	overview, err := h.analyticsService.GetStudentOverview(c.Request.Context(), studentID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, overview)
}

// GetTeacherOverview returns platform-wide counters for teachers
// @Summary Get teacher overview
// @Tags analytics
// @Produce json
// @Success 200 {object} services.TeacherOverview
// @Router /analytics/overview [get]
func (h *AnalyticsHandler) GetTeacherOverview(c *gin.Context) {
	overview, err := h.analyticsService.GetTeacherOverview(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, overview)
}

// GetClassReport returns the class-level report over a submission window
// @Summary Get class report
// @Tags analytics
// @Produce json
// @Param window_days query int false "Submission window in days (default 30)"
// @Success 200 {object} services.ClassReport
// @Failure 400 {object} ErrorResponse
// @Router /analytics/class-report [get]
func (h *AnalyticsHandler) GetClassReport(c *gin.Context) {
	windowDays, err := strconv.Atoi(c.DefaultQuery("window_days", "30"))
	if err != nil || windowDays < 1 || windowDays > 365 {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid window_days",
			Details: "must be an integer between 1 and 365",
		})
		return
	}

	report, err := h.analyticsService.GetClassReport(c.Request.Context(), windowDays)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, report)
}

// ExportProgressReport streams the progress workbook as an xlsx download
// @Summary Export progress report
// @Tags analytics
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success 200 {file} binary
// @Router /analytics/reports/progress [get]
func (h *AnalyticsHandler) ExportProgressReport(c *gin.Context) {
	h.LogRequest(c, "Exporting progress report")

	data, err := h.reportService.ExportProgressReport(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	filename := fmt.Sprintf("progress-report-%s.xlsx", time.Now().Format("2006-01-02"))
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}
