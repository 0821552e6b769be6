package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/literasia/reading-service/internal/models"
	"github.com/literasia/reading-service/internal/repositories"
	"github.com/literasia/reading-service/internal/utils"
)

// TextService manages the reading-text catalog and its attached
// questions. Deletion of texts is archive-only; answer and progress facts
// referencing a text always stay resolvable.
type TextService interface {
	Create(ctx context.Context, req *CreateTextRequest, creatorID string) (*models.Text, error)
	GetByID(ctx context.Context, id uint) (*models.Text, error)
	Update(ctx context.Context, id uint, req *UpdateTextRequest) (*models.Text, error)
	List(ctx context.Context, filters repositories.TextFilters) ([]*models.Text, int64, error)
	Archive(ctx context.Context, id uint) error
	Restore(ctx context.Context, id uint) error

	CreateQuestion(ctx context.Context, req *CreateQuestionRequest, creatorID string) (*models.Question, error)
	UpdateQuestion(ctx context.Context, id uint, req *UpdateQuestionRequest) (*models.Question, error)
	DeleteQuestion(ctx context.Context, id uint) error
	GetQuestionsByText(ctx context.Context, textID uint) ([]*models.Question, error)

	CreateHOTSQuestion(ctx context.Context, req *CreateHOTSQuestionRequest, creatorID string) (*models.HOTSQuestion, error)
	GetHOTSQuestionsByText(ctx context.Context, textID uint) ([]*models.HOTSQuestion, error)
}

type CreateTextRequest struct {
	Title            string                `json:"title" validate:"required,min=3,max=200"`
	Genre            models.Genre          `json:"genre" validate:"required,genre"`
	Content          string                `json:"content" validate:"required,min=1"`
	Structure        *models.TextStructure `json:"structure"`
	LanguageFeatures []string              `json:"language_features"`
	IllustrationURL  *string               `json:"illustration_url" validate:"omitempty,url,max=500"`
}

type UpdateTextRequest struct {
	Title            *string               `json:"title" validate:"omitempty,min=3,max=200"`
	Content          *string               `json:"content" validate:"omitempty,min=1"`
	Structure        *models.TextStructure `json:"structure"`
	LanguageFeatures []string              `json:"language_features"`
	IllustrationURL  *string               `json:"illustration_url" validate:"omitempty,url,max=500"`
}

type CreateQuestionRequest struct {
	TextID        uint                    `json:"text_id" validate:"required"`
	Prompt        string                  `json:"prompt" validate:"required,min=1"`
	Type          models.QuestionType     `json:"type" validate:"required,question_type"`
	Level         models.QuestionCategory `json:"level" validate:"required,question_category"`
	Options       []string                `json:"options"`
	CorrectAnswer *string                 `json:"correct_answer"`
	Points        int                     `json:"points" validate:"required,min=1,max=100"`
}

type UpdateQuestionRequest struct {
	Prompt        *string  `json:"prompt" validate:"omitempty,min=1"`
	Options       []string `json:"options"`
	CorrectAnswer *string  `json:"correct_answer"`
	Points        *int     `json:"points" validate:"omitempty,min=1,max=100"`
}

type CreateHOTSQuestionRequest struct {
	TextID        uint                     `json:"text_id" validate:"required"`
	Prompt        string                   `json:"prompt" validate:"required,min=1"`
	Category      models.HOTSCategory      `json:"category" validate:"required,hots_category"`
	Difficulty    models.DifficultyLevel   `json:"difficulty" validate:"required,difficulty_level"`
	Type          models.HOTSType          `json:"type" validate:"required,hots_type"`
	Points        int                      `json:"points" validate:"required,min=1,max=100"`
	EstimatedTime int                      `json:"estimated_time" validate:"min=0,max=480"`
	Instructions  string                   `json:"instructions"`
	Rubric        []models.RubricCriterion `json:"rubric"`
}

type textService struct {
	repo      repositories.Repository
	logger    *slog.Logger
	validator *utils.Validator
}

func NewTextService(repo repositories.Repository, logger *slog.Logger, validator *utils.Validator) TextService {
	return &textService{
		repo:      repo,
		logger:    logger,
		validator: validator,
	}
}

func (s *textService) Create(ctx context.Context, req *CreateTextRequest, creatorID string) (*models.Text, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	text := &models.Text{
		Title:           req.Title,
		Genre:           req.Genre,
		Content:         req.Content,
		IllustrationURL: req.IllustrationURL,
		CreatedBy:       creatorID,
	}
	if err := applyStructure(text, req.Structure); err != nil {
		return nil, err
	}
	if err := setLanguageFeatures(text, req.LanguageFeatures); err != nil {
		return nil, err
	}

	if err := s.repo.Text().Create(ctx, text); err != nil {
		return nil, fmt.Errorf("create text: %w", err)
	}

	s.logger.Info("Text created", "text_id", text.ID, "genre", text.Genre, "creator_id", creatorID)
	return text, nil
}

func (s *textService) GetByID(ctx context.Context, id uint) (*models.Text, error) {
	text, err := s.repo.Text().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrTextNotFound
		}
		return nil, fmt.Errorf("get text %d: %w", id, err)
	}
	return text, nil
}

func (s *textService) Update(ctx context.Context, id uint, req *UpdateTextRequest) (*models.Text, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	text, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		text.Title = *req.Title
	}
	if req.Content != nil {
		text.Content = *req.Content
	}
	if req.IllustrationURL != nil {
		text.IllustrationURL = req.IllustrationURL
	}
	if req.Structure != nil {
		if err := applyStructure(text, req.Structure); err != nil {
			return nil, err
		}
	}
	if req.LanguageFeatures != nil {
		if err := setLanguageFeatures(text, req.LanguageFeatures); err != nil {
			return nil, err
		}
	}

	if err := s.repo.Text().Update(ctx, text); err != nil {
		return nil, fmt.Errorf("update text %d: %w", id, err)
	}
	return text, nil
}

func (s *textService) List(ctx context.Context, filters repositories.TextFilters) ([]*models.Text, int64, error) {
	return s.repo.Text().List(ctx, filters)
}

// Archive soft-deletes the text: it disappears from listings and progress
// denominators, but its facts remain.
func (s *textService) Archive(ctx context.Context, id uint) error {
	text, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if text.IsArchived {
		return ErrTextArchived
	}
	if err := s.repo.Text().SetArchived(ctx, id, true); err != nil {
		return fmt.Errorf("archive text %d: %w", id, err)
	}
	s.logger.Info("Text archived", "text_id", id)
	return nil
}

func (s *textService) Restore(ctx context.Context, id uint) error {
	text, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !text.IsArchived {
		return ErrTextNotArchived
	}
	if err := s.repo.Text().SetArchived(ctx, id, false); err != nil {
		return fmt.Errorf("restore text %d: %w", id, err)
	}
	s.logger.Info("Text restored", "text_id", id)
	return nil
}

func (s *textService) CreateQuestion(ctx context.Context, req *CreateQuestionRequest, creatorID string) (*models.Question, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}
	if err := s.ensureTextExists(ctx, req.TextID); err != nil {
		return nil, err
	}
	if req.Type == models.QuestionMultipleChoice {
		if len(req.Options) < 2 {
			return nil, ErrQuestionMissingOptions
		}
		if req.CorrectAnswer == nil {
			return nil, ErrQuestionMissingAnswer
		}
	}

	question := &models.Question{
		TextID:        req.TextID,
		Prompt:        req.Prompt,
		Type:          req.Type,
		Level:         req.Level,
		CorrectAnswer: req.CorrectAnswer,
		Points:        req.Points,
		CreatedBy:     creatorID,
	}
	if err := question.SetOptions(req.Options); err != nil {
		return nil, err
	}

	if err := s.repo.Question().Create(ctx, question); err != nil {
		return nil, fmt.Errorf("create question: %w", err)
	}
	return question, nil
}

func (s *textService) UpdateQuestion(ctx context.Context, id uint, req *UpdateQuestionRequest) (*models.Question, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	question, err := s.repo.Question().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrQuestionNotFound
		}
		return nil, fmt.Errorf("get question %d: %w", id, err)
	}

	if req.Prompt != nil {
		question.Prompt = *req.Prompt
	}
	if req.Options != nil {
		if err := question.SetOptions(req.Options); err != nil {
			return nil, err
		}
	}
	if req.CorrectAnswer != nil {
		question.CorrectAnswer = req.CorrectAnswer
	}
	if req.Points != nil {
		question.Points = *req.Points
	}

	if err := s.repo.Question().Update(ctx, question); err != nil {
		return nil, fmt.Errorf("update question %d: %w", id, err)
	}
	return question, nil
}

func (s *textService) DeleteQuestion(ctx context.Context, id uint) error {
	if err := s.repo.Question().Delete(ctx, id); err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrQuestionNotFound
		}
		return fmt.Errorf("delete question %d: %w", id, err)
	}
	return nil
}

func (s *textService) GetQuestionsByText(ctx context.Context, textID uint) ([]*models.Question, error) {
	if err := s.ensureTextExists(ctx, textID); err != nil {
		return nil, err
	}
	return s.repo.Question().GetByText(ctx, textID)
}

func (s *textService) CreateHOTSQuestion(ctx context.Context, req *CreateHOTSQuestionRequest, creatorID string) (*models.HOTSQuestion, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}
	if err := s.ensureTextExists(ctx, req.TextID); err != nil {
		return nil, err
	}

	question := &models.HOTSQuestion{
		TextID:        req.TextID,
		Prompt:        req.Prompt,
		Category:      req.Category,
		Difficulty:    req.Difficulty,
		Type:          req.Type,
		Points:        req.Points,
		EstimatedTime: req.EstimatedTime,
		Instructions:  req.Instructions,
		CreatedBy:     creatorID,
	}
	if err := question.SetRubric(req.Rubric); err != nil {
		return nil, err
	}

	if err := s.repo.HOTSQuestion().Create(ctx, question); err != nil {
		return nil, fmt.Errorf("create HOTS question: %w", err)
	}
	return question, nil
}

func (s *textService) GetHOTSQuestionsByText(ctx context.Context, textID uint) ([]*models.HOTSQuestion, error) {
	if err := s.ensureTextExists(ctx, textID); err != nil {
		return nil, err
	}
	return s.repo.HOTSQuestion().GetByText(ctx, textID)
}

func (s *textService) ensureTextExists(ctx context.Context, textID uint) error {
	exists, err := s.repo.Text().ExistsByID(ctx, textID)
	if err != nil {
		return fmt.Errorf("check text %d: %w", textID, err)
	}
	if !exists {
		return ErrTextNotFound
	}
	return nil
}

// applyStructure enforces that the structure variant matches the text's
// genre before storing it.
func applyStructure(text *models.Text, structure *models.TextStructure) error {
	if structure == nil {
		return nil
	}
	if string(structure.Kind) != string(text.Genre) {
		return ErrTextStructureKind
	}
	return text.SetStructure(structure)
}

func setLanguageFeatures(text *models.Text, features []string) error {
	if features == nil {
		text.LanguageFeatures = nil
		return nil
	}
	raw, err := json.Marshal(features)
	if err != nil {
		return fmt.Errorf("encode language features: %w", err)
	}
	text.LanguageFeatures = raw
	return nil
}
