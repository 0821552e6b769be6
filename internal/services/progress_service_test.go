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

func TestActivityStatus(t *testing.T) {
	tests := []struct {
		name     string
		answered int
		total    int
		want     models.ActivityStatus
	}{
		{"no questions", 0, 0, models.StatusNotStarted},
		{"nothing answered", 0, 5, models.StatusNotStarted},
		{"partially answered", 3, 5, models.StatusInProgress},
		{"fully answered", 5, 5, models.StatusCompleted},
		{"more answers than questions", 6, 5, models.StatusCompleted},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, activityStatus(tt.answered, tt.total))
		})
	}
}

func TestClampPercent(t *testing.T) {
	tests := []struct {
		name  string
		part  int
		whole int
		want  int
	}{
		{"zero denominator", 5, 0, 0},
		{"negative denominator", 5, -1, 0},
		{"zero part", 0, 10, 0},
		{"rounds down", 1, 3, 33},
		{"rounds up", 2, 3, 67},
		{"exact", 10, 10, 100},
		{"clamped above 100", 15, 10, 100},
		{"clamped below 0", -3, 10, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, clampPercent(tt.part, tt.whole))
		})
	}
}

func TestComputeQuizStats(t *testing.T) {
	ctx := context.Background()

	t.Run("no questions yields empty stats", func(t *testing.T) {
		f := newFixture()
		svc := f.progressService()
		text := f.seedText(t, models.GenreNarrative)

		stats, err := svc.ComputeQuizStats(ctx, "student-1", text.ID)
		require.NoError(t, err)
		assert.Equal(t, &QuizStats{}, stats)
	})

	t.Run("partial answers", func(t *testing.T) {
		f := newFixture()
		svc := f.progressService()
		text := f.seedText(t, models.GenreNarrative)
		q1 := f.seedMCQuestion(t, text.ID, "a", 10)
		f.seedMCQuestion(t, text.ID, "b", 10)
		f.seedAnswer(t, "student-1", q1.ID, 10, time.Now())

		stats, err := svc.ComputeQuizStats(ctx, "student-1", text.ID)
		require.NoError(t, err)
		assert.Equal(t, 2, stats.TotalQuestions)
		assert.Equal(t, 1, stats.Answered)
		assert.Equal(t, 10, stats.TotalScore)
		assert.Equal(t, 20, stats.MaxScore)
		assert.Equal(t, 50, stats.Percentage)
		assert.False(t, stats.IsCompleted)
	})

	t.Run("all answered marks completed", func(t *testing.T) {
		f := newFixture()
		svc := f.progressService()
		text := f.seedText(t, models.GenreNarrative)
		q1 := f.seedMCQuestion(t, text.ID, "a", 10)
		q2 := f.seedEssayQuestion(t, text.ID, 10)
		f.seedAnswer(t, "student-1", q1.ID, 10, time.Now())
		f.seedAnswer(t, "student-1", q2.ID, 8, time.Now())

		stats, err := svc.ComputeQuizStats(ctx, "student-1", text.ID)
		require.NoError(t, err)
		assert.Equal(t, 2, stats.Answered)
		assert.Equal(t, 18, stats.TotalScore)
		assert.Equal(t, 90, stats.Percentage)
		assert.True(t, stats.IsCompleted)
	})

	t.Run("other students answers do not count", func(t *testing.T) {
		f := newFixture()
		svc := f.progressService()
		text := f.seedText(t, models.GenreNarrative)
		q1 := f.seedMCQuestion(t, text.ID, "a", 10)
		f.seedAnswer(t, "student-2", q1.ID, 10, time.Now())

		stats, err := svc.ComputeQuizStats(ctx, "student-1", text.ID)
		require.NoError(t, err)
		assert.Equal(t, 0, stats.Answered)
		assert.Equal(t, 0, stats.TotalScore)
	})
}

func TestRecomputeQuizProgress(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	svc := f.progressService()
	text := f.seedText(t, models.GenreExpository)
	q1 := f.seedMCQuestion(t, text.ID, "a", 10)
	f.seedMCQuestion(t, text.ID, "b", 10)
	f.seedAnswer(t, "student-1", q1.ID, 10, time.Now())

	require.NoError(t, svc.RecomputeQuizProgress(ctx, "student-1", text.ID))

	row, err := f.repo.Progress().GetByUserAndText(ctx, "student-1", text.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusInProgress, row.QuizStatus)
	assert.Equal(t, 50, row.ReadingScore)
	// HOTS fields stay at their defaults
	assert.Equal(t, models.StatusNotStarted, row.HOTSStatus)
	assert.Equal(t, 0, row.HOTSScore)
	assert.False(t, row.ReadStatus)
}

func TestRecomputeHOTSProgress(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	svc := f.progressService()
	text := f.seedText(t, models.GenrePersuasive)
	q1 := f.seedHOTSQuestion(t, text.ID, models.HOTSAnalysis, models.DifficultyEasy, 10)
	f.seedHOTSQuestion(t, text.ID, models.HOTSEvaluation, models.DifficultyHard, 10)
	f.seedHOTSAnswer(t, "student-1", q1.ID, 9, time.Now())

	require.NoError(t, svc.RecomputeHOTSProgress(ctx, "student-1", text.ID))

	row, err := f.repo.Progress().GetByUserAndText(ctx, "student-1", text.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusInProgress, row.HOTSStatus)
	assert.Equal(t, 45, row.HOTSScore)
	assert.Equal(t, models.StatusNotStarted, row.QuizStatus)
}

func TestMarkTextAsRead(t *testing.T) {
	ctx := context.Background()

	t.Run("unknown text", func(t *testing.T) {
		f := newFixture()
		svc := f.progressService()

		err := svc.MarkTextAsRead(ctx, "student-1", 999)
		assert.ErrorIs(t, err, ErrTextNotFound)
	})

	t.Run("archived text", func(t *testing.T) {
		f := newFixture()
		svc := f.progressService()
		text := f.seedText(t, models.GenreNarrative)
		require.NoError(t, f.repo.Text().SetArchived(ctx, text.ID, true))

		err := svc.MarkTextAsRead(ctx, "student-1", text.ID)
		assert.ErrorIs(t, err, ErrTextArchived)
	})

	t.Run("first read stores the flag and publishes", func(t *testing.T) {
		f := newFixture()
		svc := f.progressService()
		text := f.seedText(t, models.GenreNarrative)

		require.NoError(t, svc.MarkTextAsRead(ctx, "student-1", text.ID))

		row, err := f.repo.Progress().GetByUserAndText(ctx, "student-1", text.ID)
		require.NoError(t, err)
		assert.True(t, row.ReadStatus)

		published := f.publisher.GetPublishedEvents()
		require.Len(t, published, 1)
		assert.Equal(t, events.EventTextRead, published[0].Type)
	})

	t.Run("second read is a no-op", func(t *testing.T) {
		f := newFixture()
		svc := f.progressService()
		text := f.seedText(t, models.GenreNarrative)

		first := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
		svc.now = func() time.Time { return first }
		require.NoError(t, svc.MarkTextAsRead(ctx, "student-1", text.ID))

		svc.now = func() time.Time { return first.Add(48 * time.Hour) }
		require.NoError(t, svc.MarkTextAsRead(ctx, "student-1", text.ID))

		row, err := f.repo.Progress().GetByUserAndText(ctx, "student-1", text.ID)
		require.NoError(t, err)
		assert.Equal(t, first, row.LastAccessed)
		assert.Len(t, f.publisher.GetPublishedEvents(), 1)
	})
}

func TestComputeOverallProgress(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	svc := f.progressService()

	t.Run("no texts yields zero", func(t *testing.T) {
		pct, err := svc.ComputeOverallProgress(ctx, "student-1")
		require.NoError(t, err)
		assert.Equal(t, 0, pct)
	})

	t1 := f.seedText(t, models.GenreNarrative)
	t2 := f.seedText(t, models.GenreExpository)
	f.seedText(t, models.GenreDescriptive)
	require.NoError(t, svc.MarkTextAsRead(ctx, "student-1", t1.ID))
	require.NoError(t, svc.MarkTextAsRead(ctx, "student-1", t2.ID))

	t.Run("reads over available texts", func(t *testing.T) {
		pct, err := svc.ComputeOverallProgress(ctx, "student-1")
		require.NoError(t, err)
		assert.Equal(t, 67, pct)
	})

	t.Run("archived reads stop counting", func(t *testing.T) {
		require.NoError(t, f.repo.Text().SetArchived(ctx, t2.ID, true))

		pct, err := svc.ComputeOverallProgress(ctx, "student-1")
		require.NoError(t, err)
		// 1 read of the 2 remaining texts
		assert.Equal(t, 50, pct)

		require.NoError(t, f.repo.Text().SetArchived(ctx, t2.ID, false))
	})
}

func TestComputeGenreProgress(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	svc := f.progressService()

	t1 := f.seedText(t, models.GenreNarrative)
	f.seedText(t, models.GenreNarrative)
	f.seedText(t, models.GenreExpository)
	require.NoError(t, svc.MarkTextAsRead(ctx, "student-1", t1.ID))

	breakdown, err := svc.ComputeGenreProgress(ctx, "student-1")
	require.NoError(t, err)
	require.Len(t, breakdown, len(models.AllGenres()))

	byGenre := make(map[models.Genre]GenreProgress, len(breakdown))
	for _, gp := range breakdown {
		byGenre[gp.Genre] = gp
	}

	assert.Equal(t, GenreProgress{Genre: models.GenreNarrative, ReadTexts: 1, TotalTexts: 2, Percentage: 50}, byGenre[models.GenreNarrative])
	assert.Equal(t, GenreProgress{Genre: models.GenreExpository, ReadTexts: 0, TotalTexts: 1, Percentage: 0}, byGenre[models.GenreExpository])
	// Genres without texts report zero rather than failing
	assert.Equal(t, GenreProgress{Genre: models.GenreProcedural}, byGenre[models.GenreProcedural])
}

func TestGetProgressForText(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	svc := f.progressService()

	row, err := svc.GetProgressForText(ctx, "student-1", 42)
	require.NoError(t, err)
	assert.Equal(t, "student-1", row.UserID)
	assert.Equal(t, uint(42), row.TextID)
	assert.Equal(t, models.StatusNotStarted, row.QuizStatus)
	assert.Equal(t, models.StatusNotStarted, row.HOTSStatus)
	assert.False(t, row.ReadStatus)
}
