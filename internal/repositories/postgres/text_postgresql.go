package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/literasia/reading-service/internal/models"
	"github.com/literasia/reading-service/internal/repositories"
)

type TextPostgreSQL struct {
	db *gorm.DB
}

func (t *TextPostgreSQL) Create(ctx context.Context, text *models.Text) error {
	return t.db.WithContext(ctx).Create(text).Error
}

func (t *TextPostgreSQL) GetByID(ctx context.Context, id uint) (*models.Text, error) {
	var text models.Text
	if err := t.db.WithContext(ctx).First(&text, id).Error; err != nil {
		return nil, err
	}
	return &text, nil
}

func (t *TextPostgreSQL) Update(ctx context.Context, text *models.Text) error {
	return t.db.WithContext(ctx).Save(text).Error
}

func (t *TextPostgreSQL) List(ctx context.Context, filters repositories.TextFilters) ([]*models.Text, int64, error) {
	query := t.db.WithContext(ctx).Model(&models.Text{})

	if !filters.IncludeArchived {
		query = query.Where("is_archived = ?", false)
	}
	if filters.Genre != nil {
		query = query.Where("genre = ?", *filters.Genre)
	}
	if filters.CreatedBy != nil {
		query = query.Where("created_by = ?", *filters.CreatedBy)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	sortBy := filters.SortBy
	switch sortBy {
	case "title", "genre", "created_at":
	default:
		sortBy = "created_at"
	}
	sortOrder := "desc"
	if filters.SortOrder == "asc" {
		sortOrder = "asc"
	}
	query = query.Order(fmt.Sprintf("%s %s", sortBy, sortOrder))

	if filters.Limit > 0 {
		query = query.Limit(filters.Limit)
	}
	if filters.Offset > 0 {
		query = query.Offset(filters.Offset)
	}

	var texts []*models.Text
	if err := query.Find(&texts).Error; err != nil {
		return nil, 0, err
	}
	return texts, total, nil
}

func (t *TextPostgreSQL) ListAvailable(ctx context.Context) ([]*models.Text, error) {
	var texts []*models.Text
	err := t.db.WithContext(ctx).
		Where("is_archived = ?", false).
		Order("created_at asc").
		Find(&texts).Error
	if err != nil {
		return nil, err
	}
	return texts, nil
}

func (t *TextPostgreSQL) SetArchived(ctx context.Context, id uint, archived bool) error {
	result := t.db.WithContext(ctx).
		Model(&models.Text{}).
		Where("id = ?", id).
		Update("is_archived", archived)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (t *TextPostgreSQL) ExistsByID(ctx context.Context, id uint) (bool, error) {
	var count int64
	err := t.db.WithContext(ctx).Model(&models.Text{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

func (t *TextPostgreSQL) CountAvailable(ctx context.Context) (int64, error) {
	var count int64
	err := t.db.WithContext(ctx).Model(&models.Text{}).Where("is_archived = ?", false).Count(&count).Error
	return count, err
}
