package repositories

import (
	"context"

	"github.com/literasia/reading-service/internal/models"
)

// QuestionRepository interface for closed-form question operations
type QuestionRepository interface {
	Create(ctx context.Context, question *models.Question) error
	GetByID(ctx context.Context, id uint) (*models.Question, error)
	GetByText(ctx context.Context, textID uint) ([]*models.Question, error)
	Update(ctx context.Context, question *models.Question) error
	Delete(ctx context.Context, id uint) error
	CountAll(ctx context.Context) (int64, error)
}

// HOTSQuestionRepository interface for open-ended higher-order questions
type HOTSQuestionRepository interface {
	Create(ctx context.Context, question *models.HOTSQuestion) error
	GetByID(ctx context.Context, id uint) (*models.HOTSQuestion, error)
	GetByText(ctx context.Context, textID uint) ([]*models.HOTSQuestion, error)
	ListAll(ctx context.Context) ([]*models.HOTSQuestion, error)
	Update(ctx context.Context, question *models.HOTSQuestion) error
	Delete(ctx context.Context, id uint) error
	CountAll(ctx context.Context) (int64, error)
}
