package postgres

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/literasia/reading-service/internal/models"
	"github.com/literasia/reading-service/internal/repositories"
)

type AnswerPostgreSQL struct {
	db *gorm.DB
}

func (a *AnswerPostgreSQL) Upsert(ctx context.Context, answer *models.Answer) error {
	return a.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "question_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"answer_text", "score", "submitted_at",
		}),
	}).Create(answer).Error
}

func (a *AnswerPostgreSQL) GetByUserAndQuestion(ctx context.Context, userID string, questionID uint) (*models.Answer, error) {
	var answer models.Answer
	err := a.db.WithContext(ctx).
		Where("user_id = ? AND question_id = ?", userID, questionID).
		First(&answer).Error
	if err != nil {
		return nil, err
	}
	return &answer, nil
}

func (a *AnswerPostgreSQL) GetByUser(ctx context.Context, userID string, filters repositories.AnswerFilters) ([]*models.Answer, error) {
	query := a.db.WithContext(ctx).Where("user_id = ?", userID)
	query = applyAnswerFilters(query, filters)

	var answers []*models.Answer
	if err := query.Order("submitted_at desc").Find(&answers).Error; err != nil {
		return nil, err
	}
	return answers, nil
}

func (a *AnswerPostgreSQL) GetByUserAndQuestions(ctx context.Context, userID string, questionIDs []uint) ([]*models.Answer, error) {
	if len(questionIDs) == 0 {
		return nil, nil
	}
	var answers []*models.Answer
	err := a.db.WithContext(ctx).
		Where("user_id = ? AND question_id IN ?", userID, questionIDs).
		Find(&answers).Error
	if err != nil {
		return nil, err
	}
	return answers, nil
}

func (a *AnswerPostgreSQL) ListAll(ctx context.Context, filters repositories.AnswerFilters) ([]*models.Answer, error) {
	query := applyAnswerFilters(a.db.WithContext(ctx), filters)

	var answers []*models.Answer
	if err := query.Order("submitted_at desc").Find(&answers).Error; err != nil {
		return nil, err
	}
	return answers, nil
}

func (a *AnswerPostgreSQL) CountDistinctUsers(ctx context.Context) (int64, error) {
	var count int64
	err := a.db.WithContext(ctx).
		Model(&models.Answer{}).
		Distinct("user_id").
		Count(&count).Error
	return count, err
}

func applyAnswerFilters(query *gorm.DB, filters repositories.AnswerFilters) *gorm.DB {
	if len(filters.QuestionIDs) > 0 {
		query = query.Where("question_id IN ?", filters.QuestionIDs)
	}
	if filters.SubmittedAfter != nil {
		query = query.Where("submitted_at >= ?", *filters.SubmittedAfter)
	}
	if filters.Limit > 0 {
		query = query.Limit(filters.Limit)
	}
	if filters.Offset > 0 {
		query = query.Offset(filters.Offset)
	}
	return query
}

type HOTSAnswerPostgreSQL struct {
	db *gorm.DB
}

func (a *HOTSAnswerPostgreSQL) Upsert(ctx context.Context, answer *models.HOTSAnswer) error {
	return a.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "hots_question_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"answer_text", "score", "feedback", "submitted_at", "graded_at", "graded_by",
		}),
	}).Create(answer).Error
}

func (a *HOTSAnswerPostgreSQL) GetByID(ctx context.Context, id uint) (*models.HOTSAnswer, error) {
	var answer models.HOTSAnswer
	if err := a.db.WithContext(ctx).First(&answer, id).Error; err != nil {
		return nil, err
	}
	return &answer, nil
}

func (a *HOTSAnswerPostgreSQL) GetByUserAndQuestion(ctx context.Context, userID string, questionID uint) (*models.HOTSAnswer, error) {
	var answer models.HOTSAnswer
	err := a.db.WithContext(ctx).
		Where("user_id = ? AND hots_question_id = ?", userID, questionID).
		First(&answer).Error
	if err != nil {
		return nil, err
	}
	return &answer, nil
}

func (a *HOTSAnswerPostgreSQL) GetByUser(ctx context.Context, userID string, filters repositories.HOTSAnswerFilters) ([]*models.HOTSAnswer, error) {
	query := a.db.WithContext(ctx).Where("user_id = ?", userID)
	query = applyHOTSAnswerFilters(query, filters)

	var answers []*models.HOTSAnswer
	if err := query.Order("submitted_at desc").Find(&answers).Error; err != nil {
		return nil, err
	}
	return answers, nil
}

func (a *HOTSAnswerPostgreSQL) GetByUserAndQuestions(ctx context.Context, userID string, questionIDs []uint) ([]*models.HOTSAnswer, error) {
	if len(questionIDs) == 0 {
		return nil, nil
	}
	var answers []*models.HOTSAnswer
	err := a.db.WithContext(ctx).
		Where("user_id = ? AND hots_question_id IN ?", userID, questionIDs).
		Find(&answers).Error
	if err != nil {
		return nil, err
	}
	return answers, nil
}

func (a *HOTSAnswerPostgreSQL) GetByQuestion(ctx context.Context, questionID uint, filters repositories.HOTSAnswerFilters) ([]*models.HOTSAnswer, error) {
	query := a.db.WithContext(ctx).Where("hots_question_id = ?", questionID)
	query = applyHOTSAnswerFilters(query, filters)

	var answers []*models.HOTSAnswer
	if err := query.Order("submitted_at desc").Find(&answers).Error; err != nil {
		return nil, err
	}
	return answers, nil
}

func (a *HOTSAnswerPostgreSQL) UpdateGrade(ctx context.Context, id uint, grade repositories.AnswerGrade) error {
	result := a.db.WithContext(ctx).
		Model(&models.HOTSAnswer{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"score":     grade.Score,
			"feedback":  grade.Feedback,
			"graded_by": grade.GraderID,
			"graded_at": grade.GradedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func applyHOTSAnswerFilters(query *gorm.DB, filters repositories.HOTSAnswerFilters) *gorm.DB {
	if filters.Graded != nil {
		if *filters.Graded {
			query = query.Where("graded_at IS NOT NULL")
		} else {
			query = query.Where("graded_at IS NULL")
		}
	}
	if len(filters.QuestionIDs) > 0 {
		query = query.Where("hots_question_id IN ?", filters.QuestionIDs)
	}
	if filters.SubmittedAfter != nil {
		query = query.Where("submitted_at >= ?", *filters.SubmittedAfter)
	}
	if filters.Limit > 0 {
		query = query.Limit(filters.Limit)
	}
	if filters.Offset > 0 {
		query = query.Offset(filters.Offset)
	}
	return query
}
