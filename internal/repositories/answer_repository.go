package repositories

import (
	"context"

	"github.com/literasia/reading-service/internal/models"
)

// AnswerRepository interface for closed-form answer facts
type AnswerRepository interface {
	// Upsert writes the answer keyed on (user_id, question_id); an existing
	// row is overwritten in place, preserving its primary key.
	Upsert(ctx context.Context, answer *models.Answer) error

	GetByUserAndQuestion(ctx context.Context, userID string, questionID uint) (*models.Answer, error)
	GetByUser(ctx context.Context, userID string, filters AnswerFilters) ([]*models.Answer, error)
	GetByUserAndQuestions(ctx context.Context, userID string, questionIDs []uint) ([]*models.Answer, error)
	ListAll(ctx context.Context, filters AnswerFilters) ([]*models.Answer, error)
	CountDistinctUsers(ctx context.Context) (int64, error)
}

// HOTSAnswerRepository interface for open-ended answer facts and grades
type HOTSAnswerRepository interface {
	// Upsert writes the answer keyed on (user_id, hots_question_id),
	// overwriting answer text, score and grading metadata in place.
	Upsert(ctx context.Context, answer *models.HOTSAnswer) error

	GetByID(ctx context.Context, id uint) (*models.HOTSAnswer, error)
	GetByUserAndQuestion(ctx context.Context, userID string, questionID uint) (*models.HOTSAnswer, error)
	GetByUser(ctx context.Context, userID string, filters HOTSAnswerFilters) ([]*models.HOTSAnswer, error)
	GetByUserAndQuestions(ctx context.Context, userID string, questionIDs []uint) ([]*models.HOTSAnswer, error)

	// GetByQuestion returns answers for one question ordered by submitted_at
	// descending (newest first), the grading queue order.
	GetByQuestion(ctx context.Context, questionID uint, filters HOTSAnswerFilters) ([]*models.HOTSAnswer, error)

	UpdateGrade(ctx context.Context, id uint, grade AnswerGrade) error
}
