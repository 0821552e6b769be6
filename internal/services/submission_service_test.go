package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/literasia/reading-service/internal/config"
	"github.com/literasia/reading-service/internal/events"
	"github.com/literasia/reading-service/internal/models"
	"github.com/literasia/reading-service/internal/repositories"
)

func TestScoreAnswer(t *testing.T) {
	correct := "Jakarta"
	mc := &models.Question{Type: models.QuestionMultipleChoice, CorrectAnswer: &correct, Points: 10}
	essay := &models.Question{Type: models.QuestionEssay, Points: 10}

	tests := []struct {
		name     string
		question *models.Question
		answer   string
		want     int
	}{
		{"exact match", mc, "Jakarta", 10},
		{"case insensitive match", mc, "jakarta", 10},
		{"surrounding whitespace ignored", mc, "  Jakarta  ", 10},
		{"wrong answer", mc, "Bandung", 0},
		{"missing correct answer", &models.Question{Type: models.QuestionMultipleChoice, Points: 10}, "Jakarta", 0},
		{"essay partial credit", essay, "A thoughtful response.", 8},
		{"essay odd points floors", &models.Question{Type: models.QuestionEssay, Points: 7}, "text", 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, scoreAnswer(tt.question, tt.answer))
		})
	}
}

func TestSubmitAnswer(t *testing.T) {
	ctx := context.Background()

	t.Run("unknown question", func(t *testing.T) {
		f := newFixture()
		svc := f.submissionService(config.ResubmitReset)

		_, err := svc.SubmitAnswer(ctx, &SubmitAnswerRequest{
			UserID:     "student-1",
			QuestionID: 999,
			AnswerText: "anything",
		})
		assert.ErrorIs(t, err, ErrQuestionNotFound)
	})

	t.Run("blank answer", func(t *testing.T) {
		f := newFixture()
		svc := f.submissionService(config.ResubmitReset)
		text := f.seedText(t, models.GenreNarrative)
		q := f.seedMCQuestion(t, text.ID, "a", 10)

		_, err := svc.SubmitAnswer(ctx, &SubmitAnswerRequest{
			UserID:     "student-1",
			QuestionID: q.ID,
			AnswerText: "   ",
		})
		assert.ErrorIs(t, err, ErrAnswerBlank)
	})

	t.Run("correct answer scores full points and updates progress", func(t *testing.T) {
		f := newFixture()
		svc := f.submissionService(config.ResubmitReset)
		text := f.seedText(t, models.GenreNarrative)
		q := f.seedMCQuestion(t, text.ID, "Jakarta", 10)

		resp, err := svc.SubmitAnswer(ctx, &SubmitAnswerRequest{
			UserID:     "student-1",
			QuestionID: q.ID,
			AnswerText: "jakarta",
		})
		require.NoError(t, err)
		assert.Equal(t, 10, resp.Score)
		assert.Equal(t, 10, resp.MaxScore)
		require.NotNil(t, resp.Stats)
		assert.Equal(t, 100, resp.Stats.Percentage)
		assert.True(t, resp.Stats.IsCompleted)

		row, err := f.repo.Progress().GetByUserAndText(ctx, "student-1", text.ID)
		require.NoError(t, err)
		assert.Equal(t, models.StatusCompleted, row.QuizStatus)
		assert.Equal(t, 100, row.ReadingScore)

		published := f.publisher.GetPublishedEvents()
		require.Len(t, published, 1)
		assert.Equal(t, events.EventAnswerSubmitted, published[0].Type)
	})

	t.Run("resubmission overwrites the previous row", func(t *testing.T) {
		f := newFixture()
		svc := f.submissionService(config.ResubmitReset)
		text := f.seedText(t, models.GenreNarrative)
		q := f.seedMCQuestion(t, text.ID, "Jakarta", 10)

		_, err := svc.SubmitAnswer(ctx, &SubmitAnswerRequest{
			UserID:     "student-1",
			QuestionID: q.ID,
			AnswerText: "Bandung",
		})
		require.NoError(t, err)

		resp, err := svc.SubmitAnswer(ctx, &SubmitAnswerRequest{
			UserID:     "student-1",
			QuestionID: q.ID,
			AnswerText: "Jakarta",
		})
		require.NoError(t, err)
		assert.Equal(t, 10, resp.Score)

		answers, err := f.repo.Answer().GetByUserAndQuestions(ctx, "student-1", []uint{q.ID})
		require.NoError(t, err)
		require.Len(t, answers, 1)
		assert.Equal(t, 10, answers[0].Score)

		row, err := f.repo.Progress().GetByUserAndText(ctx, "student-1", text.ID)
		require.NoError(t, err)
		assert.Equal(t, 100, row.ReadingScore)
	})

	t.Run("zero score answers still count as answered", func(t *testing.T) {
		f := newFixture()
		svc := f.submissionService(config.ResubmitReset)
		text := f.seedText(t, models.GenreExpository)
		q1 := f.seedMCQuestion(t, text.ID, "Jakarta", 10)
		q2 := f.seedMCQuestion(t, text.ID, "Surabaya", 10)
		essay := f.seedEssayQuestion(t, text.ID, 10)

		_, err := svc.SubmitAnswer(ctx, &SubmitAnswerRequest{
			UserID:     "student-1",
			QuestionID: q1.ID,
			AnswerText: "Jakarta",
		})
		require.NoError(t, err)

		resp, err := svc.SubmitAnswer(ctx, &SubmitAnswerRequest{
			UserID:     "student-1",
			QuestionID: q2.ID,
			AnswerText: "Bandung",
		})
		require.NoError(t, err)
		assert.Equal(t, 0, resp.Score)
		require.NotNil(t, resp.Stats)
		assert.Equal(t, 3, resp.Stats.TotalQuestions)
		assert.Equal(t, 2, resp.Stats.Answered)
		assert.Equal(t, 10, resp.Stats.TotalScore)
		assert.Equal(t, 33, resp.Stats.Percentage)
		assert.False(t, resp.Stats.IsCompleted)

		resp, err = svc.SubmitAnswer(ctx, &SubmitAnswerRequest{
			UserID:     "student-1",
			QuestionID: essay.ID,
			AnswerText: "Volcanoes build new land over time.",
		})
		require.NoError(t, err)
		assert.Equal(t, 8, resp.Score)
		assert.Equal(t, 3, resp.Stats.Answered)
		assert.Equal(t, 18, resp.Stats.TotalScore)
		assert.Equal(t, 60, resp.Stats.Percentage)
		assert.True(t, resp.Stats.IsCompleted)

		row, err := f.repo.Progress().GetByUserAndText(ctx, "student-1", text.ID)
		require.NoError(t, err)
		assert.Equal(t, models.StatusCompleted, row.QuizStatus)
		assert.Equal(t, 60, row.ReadingScore)
	})
}

func TestSubmitHOTSAnswer(t *testing.T) {
	ctx := context.Background()

	t.Run("stores ungraded answer and updates progress", func(t *testing.T) {
		f := newFixture()
		svc := f.submissionService(config.ResubmitReset)
		text := f.seedText(t, models.GenrePersuasive)
		q := f.seedHOTSQuestion(t, text.ID, models.HOTSAnalysis, models.DifficultyMedium, 10)

		answer, err := svc.SubmitHOTSAnswer(ctx, &SubmitHOTSAnswerRequest{
			UserID:         "student-1",
			HOTSQuestionID: q.ID,
			AnswerText:     "My analysis.",
		})
		require.NoError(t, err)
		assert.Equal(t, 0, answer.Score)
		assert.False(t, answer.IsGraded())

		row, err := f.repo.Progress().GetByUserAndText(ctx, "student-1", text.ID)
		require.NoError(t, err)
		assert.Equal(t, models.StatusCompleted, row.HOTSStatus)
		assert.Equal(t, 0, row.HOTSScore)

		published := f.publisher.GetPublishedEvents()
		require.Len(t, published, 1)
		assert.Equal(t, events.EventHOTSAnswerSubmitted, published[0].Type)
	})

	t.Run("reset policy clears an existing grade", func(t *testing.T) {
		f := newFixture()
		svc := f.submissionService(config.ResubmitReset)
		text := f.seedText(t, models.GenrePersuasive)
		q := f.seedHOTSQuestion(t, text.ID, models.HOTSAnalysis, models.DifficultyMedium, 10)

		seeded := f.seedHOTSAnswer(t, "student-1", q.ID, 0, time.Now())
		grade := repositories.AnswerGrade{Score: 9, Feedback: stringPtr("good"), GraderID: "teacher-1", GradedAt: time.Now()}
		require.NoError(t, f.repo.HOTSAnswer().UpdateGrade(ctx, seeded.ID, grade))

		answer, err := svc.SubmitHOTSAnswer(ctx, &SubmitHOTSAnswerRequest{
			UserID:         "student-1",
			HOTSQuestionID: q.ID,
			AnswerText:     "A revised analysis.",
		})
		require.NoError(t, err)
		assert.Equal(t, seeded.ID, answer.ID)
		assert.Equal(t, 0, answer.Score)
		assert.Nil(t, answer.GradedAt)
		assert.Nil(t, answer.GradedBy)
		assert.Nil(t, answer.Feedback)
	})

	t.Run("reject policy refuses resubmission after grading", func(t *testing.T) {
		f := newFixture()
		svc := f.submissionService(config.ResubmitReject)
		text := f.seedText(t, models.GenrePersuasive)
		q := f.seedHOTSQuestion(t, text.ID, models.HOTSAnalysis, models.DifficultyMedium, 10)

		seeded := f.seedHOTSAnswer(t, "student-1", q.ID, 0, time.Now())
		grade := repositories.AnswerGrade{Score: 9, GraderID: "teacher-1", GradedAt: time.Now()}
		require.NoError(t, f.repo.HOTSAnswer().UpdateGrade(ctx, seeded.ID, grade))

		_, err := svc.SubmitHOTSAnswer(ctx, &SubmitHOTSAnswerRequest{
			UserID:         "student-1",
			HOTSQuestionID: q.ID,
			AnswerText:     "A revised analysis.",
		})
		assert.ErrorIs(t, err, ErrAnswerAlreadyGraded)
	})

	t.Run("reject policy still allows resubmitting ungraded answers", func(t *testing.T) {
		f := newFixture()
		svc := f.submissionService(config.ResubmitReject)
		text := f.seedText(t, models.GenrePersuasive)
		q := f.seedHOTSQuestion(t, text.ID, models.HOTSAnalysis, models.DifficultyMedium, 10)
		f.seedHOTSAnswer(t, "student-1", q.ID, 0, time.Now())

		answer, err := svc.SubmitHOTSAnswer(ctx, &SubmitHOTSAnswerRequest{
			UserID:         "student-1",
			HOTSQuestionID: q.ID,
			AnswerText:     "A second draft.",
		})
		require.NoError(t, err)
		assert.Equal(t, "A second draft.", answer.AnswerText)
	})
}
