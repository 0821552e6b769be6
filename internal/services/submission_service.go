package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/literasia/reading-service/internal/config"
	"github.com/literasia/reading-service/internal/events"
	"github.com/literasia/reading-service/internal/models"
	"github.com/literasia/reading-service/internal/repositories"
	"github.com/literasia/reading-service/internal/utils"
)

// SubmissionService accepts student answers, scores the closed-form ones
// at submission time, and keeps the Progress aggregates in step.
type SubmissionService interface {
	SubmitAnswer(ctx context.Context, req *SubmitAnswerRequest) (*SubmitAnswerResponse, error)
	SubmitHOTSAnswer(ctx context.Context, req *SubmitHOTSAnswerRequest) (*models.HOTSAnswer, error)
}

type SubmitAnswerRequest struct {
	UserID     string `json:"user_id" validate:"required"`
	QuestionID uint   `json:"question_id" validate:"required"`
	AnswerText string `json:"answer_text" validate:"required"`
}

type SubmitAnswerResponse struct {
	Answer   *models.Answer `json:"answer"`
	Score    int            `json:"score"`
	MaxScore int            `json:"max_score"`
	Stats    *QuizStats     `json:"quiz_stats"`
}

type SubmitHOTSAnswerRequest struct {
	UserID         string `json:"user_id" validate:"required"`
	HOTSQuestionID uint   `json:"hots_question_id" validate:"required"`
	AnswerText     string `json:"answer_text" validate:"required"`
}

type submissionService struct {
	repo           repositories.Repository
	publisher      events.EventPublisher
	progress       ProgressService
	resubmitPolicy config.ResubmitPolicy
	logger         *slog.Logger
	validator      *utils.Validator
	now            func() time.Time
}

func NewSubmissionService(
	repo repositories.Repository,
	publisher events.EventPublisher,
	progress ProgressService,
	resubmitPolicy config.ResubmitPolicy,
	logger *slog.Logger,
	validator *utils.Validator,
) SubmissionService {
	return &submissionService{
		repo:           repo,
		publisher:      publisher,
		progress:       progress,
		resubmitPolicy: resubmitPolicy,
		logger:         logger,
		validator:      validator,
		now:            time.Now,
	}
}

// SubmitAnswer scores and stores a closed-form answer. Resubmission
// overwrites the previous row; the quiz progress for the text is
// recomputed before returning.
func (s *submissionService) SubmitAnswer(ctx context.Context, req *SubmitAnswerRequest) (*SubmitAnswerResponse, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.AnswerText) == "" {
		return nil, ErrAnswerBlank
	}

	question, err := s.repo.Question().GetByID(ctx, req.QuestionID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrQuestionNotFound
		}
		return nil, fmt.Errorf("get question %d: %w", req.QuestionID, err)
	}

	_, err = s.repo.Answer().GetByUserAndQuestion(ctx, req.UserID, req.QuestionID)
	resubmit := err == nil
	if err != nil && !repositories.IsNotFoundError(err) {
		return nil, fmt.Errorf("check existing answer: %w", err)
	}

	answer := &models.Answer{
		UserID:      req.UserID,
		QuestionID:  req.QuestionID,
		AnswerText:  req.AnswerText,
		Score:       scoreAnswer(question, req.AnswerText),
		SubmittedAt: s.now(),
	}
	if err := s.repo.Answer().Upsert(ctx, answer); err != nil {
		return nil, fmt.Errorf("upsert answer: %w", err)
	}

	// Eager recompute keeps the Progress row consistent with the facts
	// before the caller sees the response.
	if err := s.progress.RecomputeQuizProgress(ctx, req.UserID, question.TextID); err != nil {
		return nil, err
	}

	stats, err := s.progress.ComputeQuizStats(ctx, req.UserID, question.TextID)
	if err != nil {
		return nil, err
	}

	event := events.NewAnswerSubmittedEvent(req.UserID, question.ID, question.TextID, answer.Score, question.Points, resubmit)
	if err := s.publisher.PublishProgressEvent(ctx, event); err != nil {
		s.logger.Warn("Failed to publish answer submitted event",
			"user_id", req.UserID,
			"question_id", question.ID,
			"error", err)
	}

	s.logger.Info("Answer submitted",
		"user_id", req.UserID,
		"question_id", question.ID,
		"score", answer.Score,
		"resubmit", resubmit)

	return &SubmitAnswerResponse{
		Answer:   answer,
		Score:    answer.Score,
		MaxScore: question.Points,
		Stats:    stats,
	}, nil
}

// SubmitHOTSAnswer stores an open-ended answer for manual grading. A
// resubmission clears any existing grade under the reset policy, or is
// refused under the reject policy.
func (s *submissionService) SubmitHOTSAnswer(ctx context.Context, req *SubmitHOTSAnswerRequest) (*models.HOTSAnswer, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.AnswerText) == "" {
		return nil, ErrAnswerBlank
	}

	question, err := s.repo.HOTSQuestion().GetByID(ctx, req.HOTSQuestionID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrQuestionNotFound
		}
		return nil, fmt.Errorf("get HOTS question %d: %w", req.HOTSQuestionID, err)
	}

	existing, err := s.repo.HOTSAnswer().GetByUserAndQuestion(ctx, req.UserID, req.HOTSQuestionID)
	if err != nil && !repositories.IsNotFoundError(err) {
		return nil, fmt.Errorf("check existing HOTS answer: %w", err)
	}
	resubmit := existing != nil
	if resubmit && existing.IsGraded() && s.resubmitPolicy == config.ResubmitReject {
		return nil, ErrAnswerAlreadyGraded
	}

	// Score and grading metadata always reset: the new text has not been
	// graded, whatever the old one was.
	answer := &models.HOTSAnswer{
		UserID:         req.UserID,
		HOTSQuestionID: req.HOTSQuestionID,
		AnswerText:     req.AnswerText,
		Score:          0,
		SubmittedAt:    s.now(),
	}
	if err := s.repo.HOTSAnswer().Upsert(ctx, answer); err != nil {
		return nil, fmt.Errorf("upsert HOTS answer: %w", err)
	}

	if err := s.progress.RecomputeHOTSProgress(ctx, req.UserID, question.TextID); err != nil {
		return nil, err
	}

	event := events.NewHOTSAnswerSubmittedEvent(req.UserID, question.ID, question.TextID, resubmit)
	if err := s.publisher.PublishProgressEvent(ctx, event); err != nil {
		s.logger.Warn("Failed to publish HOTS answer submitted event",
			"user_id", req.UserID,
			"hots_question_id", question.ID,
			"error", err)
	}

	s.logger.Info("HOTS answer submitted",
		"user_id", req.UserID,
		"hots_question_id", question.ID,
		"resubmit", resubmit)

	return answer, nil
}

// scoreAnswer applies the scoring policy: multiple choice earns full
// points on a normalized exact match, essays earn fixed partial credit
// for a non-blank submission.
func scoreAnswer(question *models.Question, answerText string) int {
	switch question.Type {
	case models.QuestionMultipleChoice:
		if question.CorrectAnswer == nil {
			return 0
		}
		if normalizeAnswer(answerText) == normalizeAnswer(*question.CorrectAnswer) {
			return question.Points
		}
		return 0
	case models.QuestionEssay:
		return question.Points * 8 / 10
	default:
		return 0
	}
}

func normalizeAnswer(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
