package postgres

import (
	"context"

	"gorm.io/gorm"

	"github.com/literasia/reading-service/internal/models"
)

type QuestionPostgreSQL struct {
	db *gorm.DB
}

func (q *QuestionPostgreSQL) Create(ctx context.Context, question *models.Question) error {
	return q.db.WithContext(ctx).Create(question).Error
}

func (q *QuestionPostgreSQL) GetByID(ctx context.Context, id uint) (*models.Question, error) {
	var question models.Question
	if err := q.db.WithContext(ctx).First(&question, id).Error; err != nil {
		return nil, err
	}
	return &question, nil
}

func (q *QuestionPostgreSQL) GetByText(ctx context.Context, textID uint) ([]*models.Question, error) {
	var questions []*models.Question
	err := q.db.WithContext(ctx).
		Where("text_id = ?", textID).
		Order("id asc").
		Find(&questions).Error
	if err != nil {
		return nil, err
	}
	return questions, nil
}

func (q *QuestionPostgreSQL) Update(ctx context.Context, question *models.Question) error {
	return q.db.WithContext(ctx).Save(question).Error
}

func (q *QuestionPostgreSQL) Delete(ctx context.Context, id uint) error {
	result := q.db.WithContext(ctx).Delete(&models.Question{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (q *QuestionPostgreSQL) CountAll(ctx context.Context) (int64, error) {
	var count int64
	err := q.db.WithContext(ctx).Model(&models.Question{}).Count(&count).Error
	return count, err
}

type HOTSQuestionPostgreSQL struct {
	db *gorm.DB
}

func (q *HOTSQuestionPostgreSQL) Create(ctx context.Context, question *models.HOTSQuestion) error {
	return q.db.WithContext(ctx).Create(question).Error
}

func (q *HOTSQuestionPostgreSQL) GetByID(ctx context.Context, id uint) (*models.HOTSQuestion, error) {
	var question models.HOTSQuestion
	if err := q.db.WithContext(ctx).First(&question, id).Error; err != nil {
		return nil, err
	}
	return &question, nil
}

func (q *HOTSQuestionPostgreSQL) GetByText(ctx context.Context, textID uint) ([]*models.HOTSQuestion, error) {
	var questions []*models.HOTSQuestion
	err := q.db.WithContext(ctx).
		Where("text_id = ?", textID).
		Order("id asc").
		Find(&questions).Error
	if err != nil {
		return nil, err
	}
	return questions, nil
}

func (q *HOTSQuestionPostgreSQL) ListAll(ctx context.Context) ([]*models.HOTSQuestion, error) {
	var questions []*models.HOTSQuestion
	if err := q.db.WithContext(ctx).Order("id asc").Find(&questions).Error; err != nil {
		return nil, err
	}
	return questions, nil
}

func (q *HOTSQuestionPostgreSQL) Update(ctx context.Context, question *models.HOTSQuestion) error {
	return q.db.WithContext(ctx).Save(question).Error
}

func (q *HOTSQuestionPostgreSQL) Delete(ctx context.Context, id uint) error {
	result := q.db.WithContext(ctx).Delete(&models.HOTSQuestion{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (q *HOTSQuestionPostgreSQL) CountAll(ctx context.Context) (int64, error) {
	var count int64
	err := q.db.WithContext(ctx).Model(&models.HOTSQuestion{}).Count(&count).Error
	return count, err
}
