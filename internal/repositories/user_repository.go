package repositories

import (
	"context"

	"github.com/literasia/reading-service/internal/models"
)

// UserRepository interface for user lookups. This service is not the owner
// of user data; accounts are mirrored from the identity provider.
type UserRepository interface {
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByIDs(ctx context.Context, ids []string) ([]*models.User, error)
	GetByRole(ctx context.Context, role models.UserRole, limit, offset int) ([]*models.User, error)
	ExistsByID(ctx context.Context, id string) (bool, error)
	CountByRole(ctx context.Context, role models.UserRole) (int64, error)
	Upsert(ctx context.Context, user *models.User) error
}
