package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/literasia/reading-service/internal/events"
	"github.com/literasia/reading-service/internal/models"
	"github.com/literasia/reading-service/internal/repositories"
	"github.com/literasia/reading-service/internal/utils"
)

// GradingService is the manual grading workflow for open-ended HOTS
// answers.
type GradingService interface {
	GradeAnswer(ctx context.Context, answerID uint, req *GradeAnswerRequest) (*models.HOTSAnswer, error)
	GetPendingAnswers(ctx context.Context, hotsQuestionID uint) ([]*models.HOTSAnswer, error)
	GetAnswersByQuestion(ctx context.Context, hotsQuestionID uint) ([]*models.HOTSAnswer, error)
}

type GradeAnswerRequest struct {
	Score    int     `json:"score" validate:"min=0"`
	Feedback *string `json:"feedback"`
	GraderID string  `json:"grader_id" validate:"required"`
}

type gradingService struct {
	repo      repositories.Repository
	publisher events.EventPublisher
	progress  ProgressService
	logger    *slog.Logger
	validator *utils.Validator
	now       func() time.Time
}

func NewGradingService(repo repositories.Repository, publisher events.EventPublisher, progress ProgressService, logger *slog.Logger, validator *utils.Validator) GradingService {
	return &gradingService{
		repo:      repo,
		publisher: publisher,
		progress:  progress,
		logger:    logger,
		validator: validator,
		now:       time.Now,
	}
}

// GradeAnswer records a grader's verdict and cascades the HOTS progress
// recomputation for the affected user and text. Scores outside
// [0, question points] are rejected, not clamped; regrading an already
// graded answer simply overwrites the verdict.
func (s *gradingService) GradeAnswer(ctx context.Context, answerID uint, req *GradeAnswerRequest) (*models.HOTSAnswer, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	answer, err := s.repo.HOTSAnswer().GetByID(ctx, answerID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrAnswerNotFound
		}
		return nil, fmt.Errorf("get HOTS answer %d: %w", answerID, err)
	}

	question, err := s.repo.HOTSQuestion().GetByID(ctx, answer.HOTSQuestionID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrQuestionNotFound
		}
		return nil, fmt.Errorf("get HOTS question %d: %w", answer.HOTSQuestionID, err)
	}

	if req.Score < 0 || req.Score > question.Points {
		return nil, fmt.Errorf("%w: score %d, allowed 0-%d", ErrGradingInvalidScore, req.Score, question.Points)
	}

	if err := s.checkGraderRole(ctx, req.GraderID); err != nil {
		return nil, err
	}

	gradedAt := s.now()
	grade := repositories.AnswerGrade{
		Score:    req.Score,
		Feedback: req.Feedback,
		GraderID: req.GraderID,
		GradedAt: gradedAt,
	}
	if err := s.repo.HOTSAnswer().UpdateGrade(ctx, answerID, grade); err != nil {
		return nil, fmt.Errorf("update grade for answer %d: %w", answerID, err)
	}

	answer.Score = req.Score
	answer.Feedback = req.Feedback
	answer.GradedAt = &gradedAt
	graderID := req.GraderID
	answer.GradedBy = &graderID

	// The grade changes the student's aggregate immediately.
	if err := s.progress.RecomputeHOTSProgress(ctx, answer.UserID, question.TextID); err != nil {
		return nil, err
	}

	event := events.NewHOTSAnswerGradedEvent(answer.UserID, question.ID, answer.ID, req.Score, question.Points, req.GraderID)
	if err := s.publisher.PublishProgressEvent(ctx, event); err != nil {
		s.logger.Warn("Failed to publish answer graded event",
			"answer_id", answer.ID,
			"grader_id", req.GraderID,
			"error", err)
	}

	s.logger.Info("HOTS answer graded",
		"answer_id", answer.ID,
		"user_id", answer.UserID,
		"score", req.Score,
		"grader_id", req.GraderID)

	return answer, nil
}

// GetPendingAnswers returns the ungraded queue for one question, newest
// submission first.
func (s *gradingService) GetPendingAnswers(ctx context.Context, hotsQuestionID uint) ([]*models.HOTSAnswer, error) {
	if err := s.ensureQuestionExists(ctx, hotsQuestionID); err != nil {
		return nil, err
	}
	graded := false
	answers, err := s.repo.HOTSAnswer().GetByQuestion(ctx, hotsQuestionID, repositories.HOTSAnswerFilters{Graded: &graded})
	if err != nil {
		return nil, fmt.Errorf("get pending answers for question %d: %w", hotsQuestionID, err)
	}
	return answers, nil
}

// GetAnswersByQuestion returns every answer for a question, graded or not.
func (s *gradingService) GetAnswersByQuestion(ctx context.Context, hotsQuestionID uint) ([]*models.HOTSAnswer, error) {
	if err := s.ensureQuestionExists(ctx, hotsQuestionID); err != nil {
		return nil, err
	}
	answers, err := s.repo.HOTSAnswer().GetByQuestion(ctx, hotsQuestionID, repositories.HOTSAnswerFilters{})
	if err != nil {
		return nil, fmt.Errorf("get answers for question %d: %w", hotsQuestionID, err)
	}
	return answers, nil
}

func (s *gradingService) ensureQuestionExists(ctx context.Context, hotsQuestionID uint) error {
	_, err := s.repo.HOTSQuestion().GetByID(ctx, hotsQuestionID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrQuestionNotFound
		}
		return fmt.Errorf("get HOTS question %d: %w", hotsQuestionID, err)
	}
	return nil
}

// checkGraderRole refuses student accounts. Unknown grader IDs pass: user
// mirroring from the identity provider is eventually consistent and the
// gateway has already authenticated the caller.
func (s *gradingService) checkGraderRole(ctx context.Context, graderID string) error {
	grader, err := s.repo.User().GetByID(ctx, graderID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil
		}
		return fmt.Errorf("get grader %s: %w", graderID, err)
	}
	if grader.Role == models.RoleStudent {
		return ErrGradingPermissionDenied
	}
	return nil
}
