package services

import (
	"log/slog"

	"github.com/literasia/reading-service/internal/cache"
	"github.com/literasia/reading-service/internal/config"
	"github.com/literasia/reading-service/internal/events"
	"github.com/literasia/reading-service/internal/repositories"
	"github.com/literasia/reading-service/internal/utils"
)

// ServiceManager aggregates all services for dependency injection
type ServiceManager interface {
	Text() TextService
	Submission() SubmissionService
	Progress() ProgressService
	Grading() GradingService
	Analytics() AnalyticsService
	Report() ReportService
}

type serviceManager struct {
	text       TextService
	submission SubmissionService
	progress   ProgressService
	grading    GradingService
	analytics  AnalyticsService
	report     ReportService
}

// NewServiceManager wires every service against the shared repository,
// publisher, cache and validator.
func NewServiceManager(
	repo repositories.Repository,
	publisher events.EventPublisher,
	cacheManager cache.Cache,
	cfg *config.Config,
	logger *slog.Logger,
	validator *utils.Validator,
) ServiceManager {
	progress := NewProgressService(repo, publisher, logger, validator)
	return &serviceManager{
		text:       NewTextService(repo, logger, validator),
		submission: NewSubmissionService(repo, publisher, progress, cfg.ResubmitPolicy, logger, validator),
		progress:   progress,
		grading:    NewGradingService(repo, publisher, progress, logger, validator),
		analytics:  NewAnalyticsService(repo, cacheManager, logger, validator),
		report:     NewReportService(repo, logger, validator),
	}
}

func (sm *serviceManager) Text() TextService             { return sm.text }
func (sm *serviceManager) Submission() SubmissionService { return sm.submission }
func (sm *serviceManager) Progress() ProgressService     { return sm.progress }
func (sm *serviceManager) Grading() GradingService       { return sm.grading }
func (sm *serviceManager) Analytics() AnalyticsService   { return sm.analytics }
func (sm *serviceManager) Report() ReportService         { return sm.report }
