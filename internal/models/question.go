package models

import (
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/datatypes"
)

type QuestionCategory string

const (
	CategoryLiteral     QuestionCategory = "literal"
	CategoryInferential QuestionCategory = "inferential"
	CategoryHOTS        QuestionCategory = "hots"
)

type QuestionType string

const (
	QuestionMultipleChoice QuestionType = "multiple_choice"
	QuestionEssay          QuestionType = "essay"
)

// Question is a closed-form comprehension question attached to a text.
// Open-ended higher-order questions live in HOTSQuestion instead.
type Question struct {
	ID     uint             `json:"id" gorm:"primaryKey"`
	TextID uint             `json:"text_id" gorm:"not null;index"`
	Prompt string           `json:"prompt" gorm:"type:text;not null" validate:"required,min=1"`
	Type   QuestionType     `json:"type" gorm:"not null;size:20" validate:"required,question_type"`
	Level  QuestionCategory `json:"level" gorm:"not null;size:20;index" validate:"required,question_category"`

	// Options is a JSONB string array, populated for multiple choice only.
	Options datatypes.JSON `json:"options,omitempty" gorm:"type:jsonb"`

	// CorrectAnswer is nil for essay questions; they are scored by policy,
	// not by key matching.
	CorrectAnswer *string `json:"correct_answer,omitempty" gorm:"type:text"`

	Points    int    `json:"points" gorm:"not null;default:10" validate:"required,min=1,max=100"`
	CreatedBy string `json:"created_by" gorm:"not null;size:255"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Question) TableName() string {
	return "questions"
}

func (q *Question) DecodeOptions() ([]string, error) {
	if len(q.Options) == 0 {
		return nil, nil
	}
	var opts []string
	if err := json.Unmarshal(q.Options, &opts); err != nil {
		return nil, fmt.Errorf("decode question options: %w", err)
	}
	return opts, nil
}

func (q *Question) SetOptions(opts []string) error {
	if opts == nil {
		q.Options = nil
		return nil
	}
	raw, err := json.Marshal(opts)
	if err != nil {
		return fmt.Errorf("encode question options: %w", err)
	}
	q.Options = raw
	return nil
}
