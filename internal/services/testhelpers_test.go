package services

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/literasia/reading-service/internal/cache"
	"github.com/literasia/reading-service/internal/config"
	"github.com/literasia/reading-service/internal/events"
	"github.com/literasia/reading-service/internal/models"
	"github.com/literasia/reading-service/internal/repositories"
	"github.com/literasia/reading-service/internal/repositories/memory"
	"github.com/literasia/reading-service/internal/utils"
)

func testLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// fixture wires the service stack against the in-memory repository and a
// mock publisher.
type fixture struct {
	repo      repositories.Repository
	publisher *events.MockEventPublisher
	validator *utils.Validator
	logger    *slog.Logger
}

func newFixture() *fixture {
	logger := testLogger()
	return &fixture{
		repo:      memory.NewRepository(),
		publisher: events.NewMockEventPublisher(logger),
		validator: utils.NewValidator(),
		logger:    logger,
	}
}

func (f *fixture) progressService() *progressService {
	return NewProgressService(f.repo, f.publisher, f.logger, f.validator).(*progressService)
}

func (f *fixture) submissionService(policy config.ResubmitPolicy) *submissionService {
	progress := f.progressService()
	return NewSubmissionService(f.repo, f.publisher, progress, policy, f.logger, f.validator).(*submissionService)
}

func (f *fixture) gradingService() *gradingService {
	progress := f.progressService()
	return NewGradingService(f.repo, f.publisher, progress, f.logger, f.validator).(*gradingService)
}

func (f *fixture) analyticsService() *analyticsService {
	return NewAnalyticsService(f.repo, cache.NewNoopCache(), f.logger, f.validator).(*analyticsService)
}

func (f *fixture) seedUser(t *testing.T, id string, role models.UserRole) *models.User {
	t.Helper()
	user := &models.User{
		ID:       id,
		FullName: "User " + id,
		Email:    id + "@school.test",
		Role:     role,
		IsActive: true,
	}
	require.NoError(t, f.repo.User().Upsert(context.Background(), user))
	return user
}

func (f *fixture) seedText(t *testing.T, genre models.Genre) *models.Text {
	t.Helper()
	text := &models.Text{
		Title:     "Seeded " + string(genre) + " text",
		Genre:     genre,
		Content:   "Once upon a time.",
		CreatedBy: "teacher-1",
	}
	require.NoError(t, f.repo.Text().Create(context.Background(), text))
	return text
}

func (f *fixture) seedMCQuestion(t *testing.T, textID uint, correct string, points int) *models.Question {
	t.Helper()
	answer := correct
	question := &models.Question{
		TextID:        textID,
		Prompt:        "Pick the right option",
		Type:          models.QuestionMultipleChoice,
		Level:         models.CategoryLiteral,
		CorrectAnswer: &answer,
		Points:        points,
		CreatedBy:     "teacher-1",
	}
	require.NoError(t, question.SetOptions([]string{correct, "other"}))
	require.NoError(t, f.repo.Question().Create(context.Background(), question))
	return question
}

func (f *fixture) seedEssayQuestion(t *testing.T, textID uint, points int) *models.Question {
	t.Helper()
	question := &models.Question{
		TextID:    textID,
		Prompt:    "Explain in your own words",
		Type:      models.QuestionEssay,
		Level:     models.CategoryInferential,
		Points:    points,
		CreatedBy: "teacher-1",
	}
	require.NoError(t, f.repo.Question().Create(context.Background(), question))
	return question
}

func (f *fixture) seedHOTSQuestion(t *testing.T, textID uint, category models.HOTSCategory, difficulty models.DifficultyLevel, points int) *models.HOTSQuestion {
	t.Helper()
	question := &models.HOTSQuestion{
		TextID:     textID,
		Prompt:     "Analyze the argument",
		Category:   category,
		Difficulty: difficulty,
		Type:       models.HOTSCriticalAnalysis,
		Points:     points,
		CreatedBy:  "teacher-1",
	}
	require.NoError(t, f.repo.HOTSQuestion().Create(context.Background(), question))
	return question
}

func (f *fixture) seedAnswer(t *testing.T, userID string, questionID uint, score int, submittedAt time.Time) *models.Answer {
	t.Helper()
	answer := &models.Answer{
		UserID:      userID,
		QuestionID:  questionID,
		AnswerText:  "seeded answer",
		Score:       score,
		SubmittedAt: submittedAt,
	}
	require.NoError(t, f.repo.Answer().Upsert(context.Background(), answer))
	return answer
}

func (f *fixture) seedHOTSAnswer(t *testing.T, userID string, questionID uint, score int, submittedAt time.Time) *models.HOTSAnswer {
	t.Helper()
	answer := &models.HOTSAnswer{
		UserID:         userID,
		HOTSQuestionID: questionID,
		AnswerText:     "seeded HOTS answer",
		Score:          score,
		SubmittedAt:    submittedAt,
	}
	require.NoError(t, f.repo.HOTSAnswer().Upsert(context.Background(), answer))
	return answer
}

func stringPtr(s string) *string { return &s }
