package repositories

import (
	"context"

	"github.com/literasia/reading-service/internal/models"
)

// TextRepository interface for reading-text catalog operations
type TextRepository interface {
	Create(ctx context.Context, text *models.Text) error
	GetByID(ctx context.Context, id uint) (*models.Text, error)
	Update(ctx context.Context, text *models.Text) error
	List(ctx context.Context, filters TextFilters) ([]*models.Text, int64, error)

	// ListAvailable returns all non-archived texts. This is the denominator
	// set for overall and per-genre progress.
	ListAvailable(ctx context.Context) ([]*models.Text, error)

	SetArchived(ctx context.Context, id uint, archived bool) error
	ExistsByID(ctx context.Context, id uint) (bool, error)
	CountAvailable(ctx context.Context) (int64, error)
}
