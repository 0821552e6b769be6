package repositories

import (
	"context"
	"time"

	"github.com/literasia/reading-service/internal/models"
)

// ProgressRepository interface for the derived per-(user, text) aggregate
type ProgressRepository interface {
	GetByUserAndText(ctx context.Context, userID string, textID uint) (*models.Progress, error)
	GetByUser(ctx context.Context, userID string) ([]*models.Progress, error)
	ListAll(ctx context.Context) ([]*models.Progress, error)

	// Merge upserts the row keyed on (user_id, text_id), applying only the
	// non-nil fields of patch and refreshing last_accessed. Unset fields of
	// an existing row keep their values; a fresh row gets model defaults.
	Merge(ctx context.Context, userID string, textID uint, patch ProgressPatch, accessedAt time.Time) error
}
