package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/literasia/reading-service/internal/events"
	"github.com/literasia/reading-service/internal/models"
)

func TestGradeAnswer(t *testing.T) {
	ctx := context.Background()

	t.Run("unknown answer", func(t *testing.T) {
		f := newFixture()
		svc := f.gradingService()

		_, err := svc.GradeAnswer(ctx, 999, &GradeAnswerRequest{Score: 5, GraderID: "teacher-1"})
		assert.ErrorIs(t, err, ErrAnswerNotFound)
	})

	t.Run("score above question points is rejected", func(t *testing.T) {
		f := newFixture()
		svc := f.gradingService()
		text := f.seedText(t, models.GenreExpository)
		q := f.seedHOTSQuestion(t, text.ID, models.HOTSCreation, models.DifficultyHard, 10)
		answer := f.seedHOTSAnswer(t, "student-1", q.ID, 0, time.Now())

		_, err := svc.GradeAnswer(ctx, answer.ID, &GradeAnswerRequest{Score: 11, GraderID: "teacher-1"})
		assert.ErrorIs(t, err, ErrGradingInvalidScore)
	})

	t.Run("student graders are refused", func(t *testing.T) {
		f := newFixture()
		svc := f.gradingService()
		f.seedUser(t, "student-2", models.RoleStudent)
		text := f.seedText(t, models.GenreExpository)
		q := f.seedHOTSQuestion(t, text.ID, models.HOTSCreation, models.DifficultyHard, 10)
		answer := f.seedHOTSAnswer(t, "student-1", q.ID, 0, time.Now())

		_, err := svc.GradeAnswer(ctx, answer.ID, &GradeAnswerRequest{Score: 5, GraderID: "student-2"})
		assert.ErrorIs(t, err, ErrGradingPermissionDenied)
	})

	t.Run("grade is stored and progress cascades", func(t *testing.T) {
		f := newFixture()
		svc := f.gradingService()
		f.seedUser(t, "teacher-1", models.RoleTeacher)
		text := f.seedText(t, models.GenreExpository)
		q := f.seedHOTSQuestion(t, text.ID, models.HOTSCreation, models.DifficultyHard, 10)
		seeded := f.seedHOTSAnswer(t, "student-1", q.ID, 0, time.Now())

		gradedAt := time.Date(2026, 4, 2, 9, 0, 0, 0, time.UTC)
		svc.now = func() time.Time { return gradedAt }

		answer, err := svc.GradeAnswer(ctx, seeded.ID, &GradeAnswerRequest{
			Score:    8,
			Feedback: stringPtr("Solid reasoning"),
			GraderID: "teacher-1",
		})
		require.NoError(t, err)
		assert.Equal(t, 8, answer.Score)
		require.NotNil(t, answer.GradedAt)
		assert.Equal(t, gradedAt, *answer.GradedAt)
		require.NotNil(t, answer.GradedBy)
		assert.Equal(t, "teacher-1", *answer.GradedBy)

		row, err := f.repo.Progress().GetByUserAndText(ctx, "student-1", text.ID)
		require.NoError(t, err)
		assert.Equal(t, models.StatusCompleted, row.HOTSStatus)
		assert.Equal(t, 80, row.HOTSScore)

		published := f.publisher.GetPublishedEvents()
		require.Len(t, published, 1)
		assert.Equal(t, events.EventHOTSAnswerGraded, published[0].Type)
	})

	t.Run("grader unknown to the mirror still passes", func(t *testing.T) {
		f := newFixture()
		svc := f.gradingService()
		text := f.seedText(t, models.GenreExpository)
		q := f.seedHOTSQuestion(t, text.ID, models.HOTSCreation, models.DifficultyHard, 10)
		answer := f.seedHOTSAnswer(t, "student-1", q.ID, 0, time.Now())

		_, err := svc.GradeAnswer(ctx, answer.ID, &GradeAnswerRequest{Score: 6, GraderID: "ghost-teacher"})
		assert.NoError(t, err)
	})

	t.Run("regrading overwrites the verdict", func(t *testing.T) {
		f := newFixture()
		svc := f.gradingService()
		f.seedUser(t, "teacher-1", models.RoleTeacher)
		text := f.seedText(t, models.GenreExpository)
		q := f.seedHOTSQuestion(t, text.ID, models.HOTSCreation, models.DifficultyHard, 10)
		seeded := f.seedHOTSAnswer(t, "student-1", q.ID, 0, time.Now())

		_, err := svc.GradeAnswer(ctx, seeded.ID, &GradeAnswerRequest{Score: 4, GraderID: "teacher-1"})
		require.NoError(t, err)

		answer, err := svc.GradeAnswer(ctx, seeded.ID, &GradeAnswerRequest{Score: 9, GraderID: "teacher-1"})
		require.NoError(t, err)
		assert.Equal(t, 9, answer.Score)

		row, err := f.repo.Progress().GetByUserAndText(ctx, "student-1", text.ID)
		require.NoError(t, err)
		assert.Equal(t, 90, row.HOTSScore)
	})
}

func TestGetPendingAnswers(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	svc := f.gradingService()
	f.seedUser(t, "teacher-1", models.RoleTeacher)
	text := f.seedText(t, models.GenreNarrative)
	q := f.seedHOTSQuestion(t, text.ID, models.HOTSEvaluation, models.DifficultyMedium, 10)

	base := time.Date(2026, 5, 1, 8, 0, 0, 0, time.UTC)
	older := f.seedHOTSAnswer(t, "student-1", q.ID, 0, base)
	newer := f.seedHOTSAnswer(t, "student-2", q.ID, 0, base.Add(time.Hour))
	graded := f.seedHOTSAnswer(t, "student-3", q.ID, 0, base.Add(2*time.Hour))

	_, err := svc.GradeAnswer(ctx, graded.ID, &GradeAnswerRequest{Score: 7, GraderID: "teacher-1"})
	require.NoError(t, err)

	t.Run("unknown question", func(t *testing.T) {
		_, err := svc.GetPendingAnswers(ctx, 999)
		assert.ErrorIs(t, err, ErrQuestionNotFound)
	})

	t.Run("only ungraded, newest first", func(t *testing.T) {
		pending, err := svc.GetPendingAnswers(ctx, q.ID)
		require.NoError(t, err)
		require.Len(t, pending, 2)
		assert.Equal(t, newer.ID, pending[0].ID)
		assert.Equal(t, older.ID, pending[1].ID)
	})

	t.Run("all answers includes graded", func(t *testing.T) {
		all, err := svc.GetAnswersByQuestion(ctx, q.ID)
		require.NoError(t, err)
		assert.Len(t, all, 3)
	})
}
