package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/literasia/reading-service/internal/models"
)

func TestClassAverageScore(t *testing.T) {
	tests := []struct {
		name   string
		scores []int
		want   float64
	}{
		{"empty", nil, 0},
		{"single", []int{7}, 7},
		{"rounded to one decimal", []int{7, 8, 8}, 7.7},
		{"exact mean", []int{6, 8}, 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			answers := make([]*models.Answer, len(tt.scores))
			for i, score := range tt.scores {
				answers[i] = &models.Answer{Score: score}
			}
			assert.Equal(t, tt.want, ClassAverageScore(answers))
		})
	}
}

func TestScoreDistribution(t *testing.T) {
	answers := []*models.Answer{
		{Score: 0}, {Score: 2},
		{Score: 3}, {Score: 4},
		{Score: 5}, {Score: 6},
		{Score: 7}, {Score: 8},
		{Score: 9}, {Score: 10},
		{Score: 15}, // above the top boundary still lands in the top bucket
	}

	buckets := ScoreDistribution(answers)
	require.Len(t, buckets, 5)
	assert.Equal(t, ScoreBucket{Range: "0-2", Count: 2}, buckets[0])
	assert.Equal(t, ScoreBucket{Range: "3-4", Count: 2}, buckets[1])
	assert.Equal(t, ScoreBucket{Range: "5-6", Count: 2}, buckets[2])
	assert.Equal(t, ScoreBucket{Range: "7-8", Count: 2}, buckets[3])
	assert.Equal(t, ScoreBucket{Range: "9-10", Count: 3}, buckets[4])
}

func TestScoreDistributionEmpty(t *testing.T) {
	buckets := ScoreDistribution(nil)
	require.Len(t, buckets, 5)
	for _, bucket := range buckets {
		assert.Equal(t, 0, bucket.Count)
	}
}

func TestGetHOTSStats(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	svc := f.analyticsService()

	text := f.seedText(t, models.GenreNarrative)
	q1 := f.seedHOTSQuestion(t, text.ID, models.HOTSAnalysis, models.DifficultyEasy, 10)
	q2 := f.seedHOTSQuestion(t, text.ID, models.HOTSAnalysis, models.DifficultyHard, 10)
	f.seedHOTSQuestion(t, text.ID, models.HOTSEvaluation, models.DifficultyMedium, 10)

	now := time.Now()
	f.seedHOTSAnswer(t, "student-1", q1.ID, 8, now)
	f.seedHOTSAnswer(t, "student-1", q2.ID, 5, now)

	stats, err := svc.GetHOTSStats(ctx, "student-1")
	require.NoError(t, err)

	assert.Equal(t, 3, stats.TotalQuestions)
	assert.Equal(t, 2, stats.Completed)
	assert.Equal(t, 6.5, stats.AverageScore)

	analysis := stats.ByCategory[models.HOTSAnalysis]
	assert.Equal(t, HOTSBucketStats{Completed: 2, Total: 2, AvgScore: 6.5}, analysis)
	evaluation := stats.ByCategory[models.HOTSEvaluation]
	assert.Equal(t, HOTSBucketStats{Completed: 0, Total: 1, AvgScore: 0}, evaluation)
	// Untouched slices are present with zero values
	assert.Contains(t, stats.ByCategory, models.HOTSCreation)

	easy := stats.ByDifficulty[models.DifficultyEasy]
	assert.Equal(t, HOTSBucketStats{Completed: 1, Total: 1, AvgScore: 8}, easy)
	hard := stats.ByDifficulty[models.DifficultyHard]
	assert.Equal(t, HOTSBucketStats{Completed: 1, Total: 1, AvgScore: 5}, hard)
}

func TestGetStudentOverview(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	svc := f.analyticsService()
	progress := f.progressService()

	t1 := f.seedText(t, models.GenreNarrative)
	f.seedText(t, models.GenreExpository)
	q1 := f.seedMCQuestion(t, t1.ID, "a", 10)
	hq := f.seedHOTSQuestion(t, t1.ID, models.HOTSAnalysis, models.DifficultyEasy, 10)

	require.NoError(t, progress.MarkTextAsRead(ctx, "student-1", t1.ID))
	f.seedAnswer(t, "student-1", q1.ID, 10, time.Now())
	f.seedHOTSAnswer(t, "student-1", hq.ID, 0, time.Now())

	overview, err := svc.GetStudentOverview(ctx, "student-1")
	require.NoError(t, err)
	assert.Equal(t, "student-1", overview.UserID)
	assert.Equal(t, 1, overview.TextsRead)
	assert.Equal(t, 1, overview.QuestionsAnswered)
	assert.Equal(t, 1, overview.HOTSCompleted)
	assert.Equal(t, 10.0, overview.AverageScore)
	assert.Equal(t, 50, overview.OverallProgress)
}

func TestGetTeacherOverview(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	svc := f.analyticsService()

	f.seedUser(t, "student-1", models.RoleStudent)
	f.seedUser(t, "student-2", models.RoleStudent)
	f.seedUser(t, "teacher-1", models.RoleTeacher)

	t1 := f.seedText(t, models.GenreNarrative)
	archived := f.seedText(t, models.GenreExpository)
	require.NoError(t, f.repo.Text().SetArchived(ctx, archived.ID, true))

	q1 := f.seedMCQuestion(t, t1.ID, "a", 10)
	f.seedAnswer(t, "student-1", q1.ID, 10, time.Now())
	f.seedAnswer(t, "student-2", q1.ID, 5, time.Now())

	overview, err := svc.GetTeacherOverview(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), overview.TotalTexts)
	assert.Equal(t, int64(1), overview.TotalQuestions)
	assert.Equal(t, int64(2), overview.TotalStudents)
	assert.Equal(t, 7.5, overview.AverageScore)
}

func TestGetClassReport(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	svc := f.analyticsService()

	now := time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	t1 := f.seedText(t, models.GenreNarrative)
	f.seedText(t, models.GenreNarrative)
	f.seedText(t, models.GenrePersuasive)
	q1 := f.seedMCQuestion(t, t1.ID, "a", 10)

	// One recent answer, one outside the 30 day window
	f.seedAnswer(t, "student-1", q1.ID, 9, now.AddDate(0, 0, -3))
	f.seedAnswer(t, "student-2", q1.ID, 2, now.AddDate(0, 0, -60))

	report, err := svc.GetClassReport(ctx, 30)
	require.NoError(t, err)
	assert.Equal(t, 30, report.WindowDays)
	assert.Equal(t, now, report.GeneratedAt)

	assert.Equal(t, 2, report.GenreDistribution[models.GenreNarrative])
	assert.Equal(t, 1, report.GenreDistribution[models.GenrePersuasive])
	assert.Equal(t, 0, report.GenreDistribution[models.GenreProcedural])

	// The stale answer is filtered out of the histogram
	total := 0
	for _, bucket := range report.ScoreDistribution {
		total += bucket.Count
	}
	assert.Equal(t, 1, total)
	assert.Equal(t, 1, report.ScoreDistribution[4].Count)

	t.Run("non-positive window falls back to 30 days", func(t *testing.T) {
		report, err := svc.GetClassReport(ctx, 0)
		require.NoError(t, err)
		assert.Equal(t, 30, report.WindowDays)
	})
}
