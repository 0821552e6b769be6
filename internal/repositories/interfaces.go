package repositories

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/literasia/reading-service/internal/models"
)

// ErrNotFound is returned by non-GORM implementations for missing rows.
// Use IsNotFoundError instead of comparing directly.
var ErrNotFound = errors.New("record not found")

// IsNotFoundError reports whether err means "no such row", regardless of
// which implementation produced it.
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound) || errors.Is(err, gorm.ErrRecordNotFound)
}

// Repository is the aggregate fact-store interface. Services depend on this
// only; implementations live in the postgres and memory subpackages.
type Repository interface {
	Text() TextRepository
	Question() QuestionRepository
	Answer() AnswerRepository
	HOTSQuestion() HOTSQuestionRepository
	HOTSAnswer() HOTSAnswerRepository
	Progress() ProgressRepository
	User() UserRepository

	WithTransaction(ctx context.Context, fn func(Repository) error) error
	Ping(ctx context.Context) error
	Close() error
}

// ===== SHARED FILTER STRUCTS =====

type TextFilters struct {
	Genre           *models.Genre `json:"genre"`
	CreatedBy       *string       `json:"created_by"`
	IncludeArchived bool          `json:"include_archived"`
	Limit           int           `json:"limit"`
	Offset          int           `json:"offset"`
	SortBy          string        `json:"sort_by"`    // "created_at", "title", "genre"
	SortOrder       string        `json:"sort_order"` // "asc", "desc"
}

type AnswerFilters struct {
	QuestionIDs    []uint     `json:"question_ids"`
	SubmittedAfter *time.Time `json:"submitted_after"`
	Limit          int        `json:"limit"`
	Offset         int        `json:"offset"`
}

type HOTSAnswerFilters struct {
	Graded         *bool      `json:"graded"`
	QuestionIDs    []uint     `json:"question_ids"`
	SubmittedAfter *time.Time `json:"submitted_after"`
	Limit          int        `json:"limit"`
	Offset         int        `json:"offset"`
}

// ===== SHARED HELPER STRUCTS =====

// ProgressPatch is a partial update of a Progress row. Nil fields are left
// untouched by Merge; LastAccessed is always refreshed.
type ProgressPatch struct {
	ReadStatus   *bool                  `json:"read_status"`
	QuizStatus   *models.ActivityStatus `json:"quiz_status"`
	ReadingScore *int                   `json:"reading_score"`
	HOTSStatus   *models.ActivityStatus `json:"hots_status"`
	HOTSScore    *int                   `json:"hots_score"`
}

// AnswerGrade carries a grader's verdict for one HOTS answer.
type AnswerGrade struct {
	Score    int     `json:"score"`
	Feedback *string `json:"feedback"`
	GraderID string  `json:"grader_id"`
	GradedAt time.Time
}
