package services

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/literasia/reading-service/internal/events"
	"github.com/literasia/reading-service/internal/models"
	"github.com/literasia/reading-service/internal/repositories"
	"github.com/literasia/reading-service/internal/utils"
)

// ProgressService recomputes the derived Progress aggregates from the raw
// answer and text facts. Every computation is a fresh read; the Progress
// row is a cache and is always safe to rebuild.
type ProgressService interface {
	ComputeQuizStats(ctx context.Context, userID string, textID uint) (*QuizStats, error)
	RecomputeQuizProgress(ctx context.Context, userID string, textID uint) error
	RecomputeHOTSProgress(ctx context.Context, userID string, textID uint) error
	ComputeOverallProgress(ctx context.Context, userID string) (int, error)
	ComputeGenreProgress(ctx context.Context, userID string) ([]GenreProgress, error)
	MarkTextAsRead(ctx context.Context, userID string, textID uint) error
	GetProgress(ctx context.Context, userID string) ([]*models.Progress, error)
	GetProgressForText(ctx context.Context, userID string, textID uint) (*models.Progress, error)
}

// QuizStats is the projection of a user's closed-form answers for one text.
type QuizStats struct {
	TotalQuestions int  `json:"total_questions"`
	Answered       int  `json:"answered"`
	TotalScore     int  `json:"total_score"`
	MaxScore       int  `json:"max_score"`
	Percentage     int  `json:"percentage"`
	IsCompleted    bool `json:"is_completed"`
}

// GenreProgress is a user's read completion for one genre.
type GenreProgress struct {
	Genre      models.Genre `json:"genre"`
	ReadTexts  int          `json:"read_texts"`
	TotalTexts int          `json:"total_texts"`
	Percentage int          `json:"percentage"`
}

type progressService struct {
	repo      repositories.Repository
	publisher events.EventPublisher
	logger    *slog.Logger
	validator *utils.Validator
	now       func() time.Time
}

func NewProgressService(repo repositories.Repository, publisher events.EventPublisher, logger *slog.Logger, validator *utils.Validator) ProgressService {
	return &progressService{
		repo:      repo,
		publisher: publisher,
		logger:    logger,
		validator: validator,
		now:       time.Now,
	}
}

// ComputeQuizStats projects the user's answers for the text's questions.
// Answers are deduplicated by question id; the store's uniqueness
// constraint makes duplicates impossible, but the projection must not
// depend on it.
func (s *progressService) ComputeQuizStats(ctx context.Context, userID string, textID uint) (*QuizStats, error) {
	questions, err := s.repo.Question().GetByText(ctx, textID)
	if err != nil {
		return nil, fmt.Errorf("get questions for text %d: %w", textID, err)
	}

	stats := &QuizStats{TotalQuestions: len(questions)}
	if len(questions) == 0 {
		return stats, nil
	}

	questionIDs := make([]uint, 0, len(questions))
	for _, q := range questions {
		stats.MaxScore += q.Points
		questionIDs = append(questionIDs, q.ID)
	}

	answers, err := s.repo.Answer().GetByUserAndQuestions(ctx, userID, questionIDs)
	if err != nil {
		return nil, fmt.Errorf("get answers for user %s: %w", userID, err)
	}

	seen := make(map[uint]bool, len(answers))
	for _, a := range answers {
		if seen[a.QuestionID] {
			continue
		}
		seen[a.QuestionID] = true
		stats.TotalScore += a.Score
	}
	stats.Answered = len(seen)

	stats.Percentage = clampPercent(stats.TotalScore, stats.MaxScore)
	stats.IsCompleted = stats.Answered >= stats.TotalQuestions
	return stats, nil
}

// RecomputeQuizProgress writes the quiz projection back to the Progress
// row. Only quiz_status and reading_score are touched; read and HOTS
// fields keep their values.
func (s *progressService) RecomputeQuizProgress(ctx context.Context, userID string, textID uint) error {
	stats, err := s.ComputeQuizStats(ctx, userID, textID)
	if err != nil {
		return err
	}

	status := activityStatus(stats.Answered, stats.TotalQuestions)
	patch := repositories.ProgressPatch{
		QuizStatus:   &status,
		ReadingScore: &stats.Percentage,
	}
	if err := s.repo.Progress().Merge(ctx, userID, textID, patch, s.now()); err != nil {
		return fmt.Errorf("merge quiz progress for user %s text %d: %w", userID, textID, err)
	}

	s.logger.Debug("Recomputed quiz progress",
		"user_id", userID,
		"text_id", textID,
		"status", status,
		"score", stats.Percentage)
	return nil
}

// RecomputeHOTSProgress writes the HOTS projection back to the Progress
// row. Ungraded answers count toward completion with a score of zero; the
// percentage is clamped to 100 like the quiz path.
func (s *progressService) RecomputeHOTSProgress(ctx context.Context, userID string, textID uint) error {
	questions, err := s.repo.HOTSQuestion().GetByText(ctx, textID)
	if err != nil {
		return fmt.Errorf("get HOTS questions for text %d: %w", textID, err)
	}

	var (
		answered   int
		totalScore int
		maxScore   int
	)
	if len(questions) > 0 {
		questionIDs := make([]uint, 0, len(questions))
		for _, q := range questions {
			maxScore += q.Points
			questionIDs = append(questionIDs, q.ID)
		}

		answers, err := s.repo.HOTSAnswer().GetByUserAndQuestions(ctx, userID, questionIDs)
		if err != nil {
			return fmt.Errorf("get HOTS answers for user %s: %w", userID, err)
		}

		seen := make(map[uint]bool, len(answers))
		for _, a := range answers {
			if seen[a.HOTSQuestionID] {
				continue
			}
			seen[a.HOTSQuestionID] = true
			totalScore += a.Score
		}
		answered = len(seen)
	}

	status := activityStatus(answered, len(questions))
	score := clampPercent(totalScore, maxScore)
	patch := repositories.ProgressPatch{
		HOTSStatus: &status,
		HOTSScore:  &score,
	}
	if err := s.repo.Progress().Merge(ctx, userID, textID, patch, s.now()); err != nil {
		return fmt.Errorf("merge HOTS progress for user %s text %d: %w", userID, textID, err)
	}

	s.logger.Debug("Recomputed HOTS progress",
		"user_id", userID,
		"text_id", textID,
		"status", status,
		"score", score)
	return nil
}

// ComputeOverallProgress returns the percentage of currently available
// texts the user has read. Reads of since-archived texts do not count.
func (s *progressService) ComputeOverallProgress(ctx context.Context, userID string) (int, error) {
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

	rows, err := s.repo.Progress().GetByUser(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("get progress for user %s: %w", userID, err)
	}

	read := 0
	for _, row := range rows {
		if row.ReadStatus && available[row.TextID] {
			read++
		}
	}
	return clampPercent(read, len(texts)), nil
}

// ComputeGenreProgress returns per-genre read completion over available
// texts. Genres with no texts report zero, never a division error.
func (s *progressService) ComputeGenreProgress(ctx context.Context, userID string) ([]GenreProgress, error) {
	texts, err := s.repo.Text().ListAvailable(ctx)
	if err != nil {
		return nil, fmt.Errorf("list available texts: %w", err)
	}

	rows, err := s.repo.Progress().GetByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get progress for user %s: %w", userID, err)
	}
	readTexts := make(map[uint]bool, len(rows))
	for _, row := range rows {
		if row.ReadStatus {
			readTexts[row.TextID] = true
		}
	}

	totals := make(map[models.Genre]int)
	reads := make(map[models.Genre]int)
	for _, t := range texts {
		totals[t.Genre]++
		if readTexts[t.ID] {
			reads[t.Genre]++
		}
	}

	result := make([]GenreProgress, 0, len(models.AllGenres()))
	for _, genre := range models.AllGenres() {
		result = append(result, GenreProgress{
			Genre:      genre,
			ReadTexts:  reads[genre],
			TotalTexts: totals[genre],
			Percentage: clampPercent(reads[genre], totals[genre]),
		})
	}
	return result, nil
}

// MarkTextAsRead flags the text as read for the user. Already-read texts
// short-circuit without a write, so last_accessed is untouched.
func (s *progressService) MarkTextAsRead(ctx context.Context, userID string, textID uint) error {
	text, err := s.repo.Text().GetByID(ctx, textID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrTextNotFound
		}
		return fmt.Errorf("get text %d: %w", textID, err)
	}
	if text.IsArchived {
		return ErrTextArchived
	}

	existing, err := s.repo.Progress().GetByUserAndText(ctx, userID, textID)
	if err != nil && !repositories.IsNotFoundError(err) {
		return fmt.Errorf("get progress for user %s text %d: %w", userID, textID, err)
	}
	if existing != nil && existing.ReadStatus {
		return nil
	}

	read := true
	patch := repositories.ProgressPatch{ReadStatus: &read}
	if err := s.repo.Progress().Merge(ctx, userID, textID, patch, s.now()); err != nil {
		return fmt.Errorf("merge read status for user %s text %d: %w", userID, textID, err)
	}

	if err := s.publisher.PublishProgressEvent(ctx, events.NewTextReadEvent(userID, textID)); err != nil {
		// Event delivery is best-effort; the fact is already stored.
		s.logger.Warn("Failed to publish text read event",
			"user_id", userID,
			"text_id", textID,
			"error", err)
	}

	s.logger.Info("Text marked as read", "user_id", userID, "text_id", textID)
	return nil
}

func (s *progressService) GetProgress(ctx context.Context, userID string) ([]*models.Progress, error) {
	rows, err := s.repo.Progress().GetByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get progress for user %s: %w", userID, err)
	}
	return rows, nil
}

// GetProgressForText returns the Progress row, or a zero-valued row when
// the user has not touched the text yet.
func (s *progressService) GetProgressForText(ctx context.Context, userID string, textID uint) (*models.Progress, error) {
	row, err := s.repo.Progress().GetByUserAndText(ctx, userID, textID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return &models.Progress{
				UserID:     userID,
				TextID:     textID,
				QuizStatus: models.StatusNotStarted,
				HOTSStatus: models.StatusNotStarted,
			}, nil
		}
		return nil, fmt.Errorf("get progress for user %s text %d: %w", userID, textID, err)
	}
	return row, nil
}

// activityStatus derives the status enum from answered/total counts.
func activityStatus(answered, total int) models.ActivityStatus {
	switch {
	case total == 0 || answered == 0:
		return models.StatusNotStarted
	case answered >= total:
		return models.StatusCompleted
	default:
		return models.StatusInProgress
	}
}

// clampPercent rounds part/whole to a whole percentage, clamped to [0, 100].
// A zero denominator yields 0.
func clampPercent(part, whole int) int {
	if whole <= 0 {
		return 0
	}
	pct := int(math.Round(float64(part) / float64(whole) * 100))
	if pct > 100 {
		pct = 100
	}
	if pct < 0 {
		pct = 0
	}
	return pct
}
