package services

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/literasia/reading-service/internal/cache"
	"github.com/literasia/reading-service/internal/models"
	"github.com/literasia/reading-service/internal/repositories"
	"github.com/literasia/reading-service/internal/utils"
)

// AnalyticsService rolls the raw answer and progress facts up into
// student, teacher and class views. Aggregations over missing data return
// zero values, never errors.
type AnalyticsService interface {
	GetHOTSStats(ctx context.Context, userID string) (*HOTSStats, error)
	GetStudentOverview(ctx context.Context, userID string) (*StudentOverview, error)
	GetTeacherOverview(ctx context.Context) (*TeacherOverview, error)
	GetClassReport(ctx context.Context, windowDays int) (*ClassReport, error)
}

const (
	teacherOverviewCacheKey = "analytics:teacher_overview"
	classReportCacheKeyFmt  = "analytics:class_report:%d"
	analyticsCacheTTL       = 5 * time.Minute
)

// ===== DATA STRUCTURES =====

// ScoreBucket is one bar of the class score histogram.
type ScoreBucket struct {
	Range string `json:"range"`
	Count int    `json:"count"`
}

// HOTSBucketStats aggregates one category or difficulty slice of a user's
// HOTS work.
type HOTSBucketStats struct {
	Completed int     `json:"completed"`
	Total     int     `json:"total"`
	AvgScore  float64 `json:"avg_score"`
}

type HOTSStats struct {
	TotalQuestions int                                        `json:"total_questions"`
	Completed      int                                        `json:"completed"`
	AverageScore   float64                                    `json:"average_score"`
	ByCategory     map[models.HOTSCategory]HOTSBucketStats    `json:"by_category"`
	ByDifficulty   map[models.DifficultyLevel]HOTSBucketStats `json:"by_difficulty"`
}

type StudentOverview struct {
	UserID            string  `json:"user_id"`
	TextsRead         int     `json:"texts_read"`
	QuestionsAnswered int     `json:"questions_answered"`
	HOTSCompleted     int     `json:"hots_completed"`
	AverageScore      float64 `json:"average_score"`
	OverallProgress   int     `json:"overall_progress"`
}

type TeacherOverview struct {
	TotalTexts     int64     `json:"total_texts"`
	TotalQuestions int64     `json:"total_questions"`
	TotalStudents  int64     `json:"total_students"`
	AverageScore   float64   `json:"average_score"`
	GeneratedAt    time.Time `json:"generated_at"`
}

type ClassReport struct {
	Overview          *TeacherOverview     `json:"overview"`
	GenreDistribution map[models.Genre]int `json:"genre_distribution"`
	ScoreDistribution []ScoreBucket        `json:"score_distribution"`
	WindowDays        int                  `json:"window_days"`
	GeneratedAt       time.Time            `json:"generated_at"`
}

type analyticsService struct {
	repo      repositories.Repository
	cache     cache.Cache
	logger    *slog.Logger
	validator *utils.Validator
	now       func() time.Time
}

func NewAnalyticsService(repo repositories.Repository, cacheManager cache.Cache, logger *slog.Logger, validator *utils.Validator) AnalyticsService {
	return &analyticsService{
		repo:      repo,
		cache:     cacheManager,
		logger:    logger,
		validator: validator,
		now:       time.Now,
	}
}

// ===== PURE PROJECTIONS =====

// ClassAverageScore is the mean answer score rounded to one decimal, 0
// for an empty slice.
func ClassAverageScore(answers []*models.Answer) float64 {
	if len(answers) == 0 {
		return 0
	}
	sum := 0
	for _, a := range answers {
		sum += a.Score
	}
	return round1(float64(sum) / float64(len(answers)))
}

// ScoreDistribution buckets answer scores into the five fixed histogram
// ranges. Scores above the top boundary land in the top bucket.
func ScoreDistribution(answers []*models.Answer) []ScoreBucket {
	buckets := []ScoreBucket{
		{Range: "0-2"},
		{Range: "3-4"},
		{Range: "5-6"},
		{Range: "7-8"},
		{Range: "9-10"},
	}
	for _, a := range answers {
		switch {
		case a.Score <= 2:
			buckets[0].Count++
		case a.Score <= 4:
			buckets[1].Count++
		case a.Score <= 6:
			buckets[2].Count++
		case a.Score <= 8:
			buckets[3].Count++
		default:
			buckets[4].Count++
		}
	}
	return buckets
}

// ===== SERVICE METHODS =====

// GetHOTSStats breaks the user's HOTS work down by category and
// difficulty. Average scores count submitted answers only.
func (s *analyticsService) GetHOTSStats(ctx context.Context, userID string) (*HOTSStats, error) {
	questions, err := s.repo.HOTSQuestion().ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list HOTS questions: %w", err)
	}

	answers, err := s.repo.HOTSAnswer().GetByUser(ctx, userID, repositories.HOTSAnswerFilters{})
	if err != nil {
		return nil, fmt.Errorf("get HOTS answers for user %s: %w", userID, err)
	}
	answerByQuestion := make(map[uint]*models.HOTSAnswer, len(answers))
	for _, a := range answers {
		answerByQuestion[a.HOTSQuestionID] = a
	}

	stats := &HOTSStats{
		TotalQuestions: len(questions),
		ByCategory:     make(map[models.HOTSCategory]HOTSBucketStats),
		ByDifficulty:   make(map[models.DifficultyLevel]HOTSBucketStats),
	}
	for _, category := range models.AllHOTSCategories() {
		stats.ByCategory[category] = HOTSBucketStats{}
	}
	for _, difficulty := range models.AllDifficultyLevels() {
		stats.ByDifficulty[difficulty] = HOTSBucketStats{}
	}

	categorySums := make(map[models.HOTSCategory]int)
	difficultySums := make(map[models.DifficultyLevel]int)
	totalSum := 0

	for _, q := range questions {
		byCategory := stats.ByCategory[q.Category]
		byCategory.Total++
		byDifficulty := stats.ByDifficulty[q.Difficulty]
		byDifficulty.Total++

		if a, ok := answerByQuestion[q.ID]; ok {
			stats.Completed++
			byCategory.Completed++
			byDifficulty.Completed++
			categorySums[q.Category] += a.Score
			difficultySums[q.Difficulty] += a.Score
			totalSum += a.Score
		}

		stats.ByCategory[q.Category] = byCategory
		stats.ByDifficulty[q.Difficulty] = byDifficulty
	}

	for category, bucket := range stats.ByCategory {
		if bucket.Completed > 0 {
			bucket.AvgScore = round1(float64(categorySums[category]) / float64(bucket.Completed))
			stats.ByCategory[category] = bucket
		}
	}
	for difficulty, bucket := range stats.ByDifficulty {
		if bucket.Completed > 0 {
			bucket.AvgScore = round1(float64(difficultySums[difficulty]) / float64(bucket.Completed))
			stats.ByDifficulty[difficulty] = bucket
		}
	}
	if stats.Completed > 0 {
		stats.AverageScore = round1(float64(totalSum) / float64(stats.Completed))
	}
	return stats, nil
}

func (s *analyticsService) GetStudentOverview(ctx context.Context, userID string) (*StudentOverview, error) {
	rows, err := s.repo.Progress().GetByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get progress for user %s: %w", userID, err)
	}
	textsRead := 0
	for _, row := range rows {
		if row.ReadStatus {
			textsRead++
		}
	}

	answers, err := s.repo.Answer().GetByUser(ctx, userID, repositories.AnswerFilters{})
	if err != nil {
		return nil, fmt.Errorf("get answers for user %s: %w", userID, err)
	}

	hotsAnswers, err := s.repo.HOTSAnswer().GetByUser(ctx, userID, repositories.HOTSAnswerFilters{})
	if err != nil {
		return nil, fmt.Errorf("get HOTS answers for user %s: %w", userID, err)
	}

	overall, err := s.overallProgress(ctx, rows)
	if err != nil {
		return nil, err
	}

	return &StudentOverview{
		UserID:            userID,
		TextsRead:         textsRead,
		QuestionsAnswered: len(answers),
		HOTSCompleted:     len(hotsAnswers),
		AverageScore:      ClassAverageScore(answers),
		OverallProgress:   overall,
	}, nil
}

// GetTeacherOverview aggregates catalog and cohort counts. The result is
// served from Redis for a short TTL; staleness is acceptable here.
func (s *analyticsService) GetTeacherOverview(ctx context.Context) (*TeacherOverview, error) {
	var cached TeacherOverview
	if err := s.cache.Get(ctx, teacherOverviewCacheKey, &cached); err == nil {
		return &cached, nil
	}

	overview, err := s.buildTeacherOverview(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(ctx, teacherOverviewCacheKey, overview, analyticsCacheTTL); err != nil {
		s.logger.Warn("Failed to cache teacher overview", "error", err)
	}
	return overview, nil
}

func (s *analyticsService) GetClassReport(ctx context.Context, windowDays int) (*ClassReport, error) {
	if windowDays <= 0 {
		windowDays = 30
	}

	cacheKey := fmt.Sprintf(classReportCacheKeyFmt, windowDays)
	var cached ClassReport
	if err := s.cache.Get(ctx, cacheKey, &cached); err == nil {
		return &cached, nil
	}

	overview, err := s.buildTeacherOverview(ctx)
	if err != nil {
		return nil, err
	}

	texts, err := s.repo.Text().ListAvailable(ctx)
	if err != nil {
		return nil, fmt.Errorf("list available texts: %w", err)
	}
	genreDistribution := make(map[models.Genre]int)
	for _, genre := range models.AllGenres() {
		genreDistribution[genre] = 0
	}
	for _, t := range texts {
		genreDistribution[t.Genre]++
	}

	since := s.now().AddDate(0, 0, -windowDays)
	answers, err := s.repo.Answer().ListAll(ctx, repositories.AnswerFilters{SubmittedAfter: &since})
	if err != nil {
		return nil, fmt.Errorf("list answers since %s: %w", since.Format(time.DateOnly), err)
	}

	report := &ClassReport{
		Overview:          overview,
		GenreDistribution: genreDistribution,
		ScoreDistribution: ScoreDistribution(answers),
		WindowDays:        windowDays,
		GeneratedAt:       s.now(),
	}

	if err := s.cache.Set(ctx, cacheKey, report, analyticsCacheTTL); err != nil {
		s.logger.Warn("Failed to cache class report", "error", err)
	}
	return report, nil
}

func (s *analyticsService) buildTeacherOverview(ctx context.Context) (*TeacherOverview, error) {
	totalTexts, err := s.repo.Text().CountAvailable(ctx)
	if err != nil {
		return nil, fmt.Errorf("count texts: %w", err)
	}
	totalQuestions, err := s.repo.Question().CountAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("count questions: %w", err)
	}
	totalStudents, err := s.repo.User().CountByRole(ctx, models.RoleStudent)
	if err != nil {
		return nil, fmt.Errorf("count students: %w", err)
	}
	answers, err := s.repo.Answer().ListAll(ctx, repositories.AnswerFilters{})
	if err != nil {
		return nil, fmt.Errorf("list answers: %w", err)
	}

	return &TeacherOverview{
		TotalTexts:     totalTexts,
		TotalQuestions: totalQuestions,
		TotalStudents:  totalStudents,
		AverageScore:   ClassAverageScore(answers),
		GeneratedAt:    s.now(),
	}, nil
}

// overallProgress mirrors ProgressService.ComputeOverallProgress but
// reuses already fetched progress rows.
func (s *analyticsService) overallProgress(ctx context.Context, rows []*models.Progress) (int, error) {
	texts, err := s.repo.Text().ListAvailable(ctx)
	if err != nil {
		return 0, fmt.Errorf("list available texts: %w", err)
	}
	if len(texts) == 0 {
		return 0, nil
	}
	available := make(map[uint]bool, len(texts))
	for _, t := range texts {
		available[t.ID] = true
	}
	read := 0
	for _, row := range rows {
		if row.ReadStatus && available[row.TextID] {
			read++
		}
	}
	return clampPercent(read, len(texts)), nil
}

func round1(x float64) float64 {
	return math.Round(x*10) / 10
}
