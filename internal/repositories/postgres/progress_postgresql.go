package postgres

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/literasia/reading-service/internal/models"
	"github.com/literasia/reading-service/internal/repositories"
)

type ProgressPostgreSQL struct {
	db *gorm.DB
}

func (p *ProgressPostgreSQL) GetByUserAndText(ctx context.Context, userID string, textID uint) (*models.Progress, error) {
	var progress models.Progress
	err := p.db.WithContext(ctx).
		Where("user_id = ? AND text_id = ?", userID, textID).
		First(&progress).Error
	if err != nil {
		return nil, err
	}
	return &progress, nil
}

func (p *ProgressPostgreSQL) GetByUser(ctx context.Context, userID string) ([]*models.Progress, error) {
	var rows []*models.Progress
	err := p.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("last_accessed desc").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (p *ProgressPostgreSQL) ListAll(ctx context.Context) ([]*models.Progress, error) {
	var rows []*models.Progress
	if err := p.db.WithContext(ctx).Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Merge upserts via ON CONFLICT on (user_id, text_id), assigning only the
// columns present in the patch so concurrent writers touching different
// fields do not clobber each other's columns.
func (p *ProgressPostgreSQL) Merge(ctx context.Context, userID string, textID uint, patch repositories.ProgressPatch, accessedAt time.Time) error {
	row := models.Progress{
		UserID:       userID,
		TextID:       textID,
		QuizStatus:   models.StatusNotStarted,
		HOTSStatus:   models.StatusNotStarted,
		LastAccessed: accessedAt,
	}

	assignments := map[string]interface{}{
		"last_accessed": accessedAt,
	}
	if patch.ReadStatus != nil {
		row.ReadStatus = *patch.ReadStatus
		assignments["read_status"] = *patch.ReadStatus
	}
	if patch.QuizStatus != nil {
		row.QuizStatus = *patch.QuizStatus
		assignments["quiz_status"] = *patch.QuizStatus
	}
	if patch.ReadingScore != nil {
		row.ReadingScore = *patch.ReadingScore
		assignments["reading_score"] = *patch.ReadingScore
	}
	if patch.HOTSStatus != nil {
		row.HOTSStatus = *patch.HOTSStatus
		assignments["hots_status"] = *patch.HOTSStatus
	}
	if patch.HOTSScore != nil {
		row.HOTSScore = *patch.HOTSScore
		assignments["hots_score"] = *patch.HOTSScore
	}

	return p.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "text_id"}},
		DoUpdates: clause.Assignments(assignments),
	}).Create(&row).Error
}
