package models

import (
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/datatypes"
)

type HOTSCategory string

const (
	HOTSAnalysis   HOTSCategory = "analysis"
	HOTSEvaluation HOTSCategory = "evaluation"
	HOTSCreation   HOTSCategory = "creation"
)

func AllHOTSCategories() []HOTSCategory {
	return []HOTSCategory{HOTSAnalysis, HOTSEvaluation, HOTSCreation}
}

type DifficultyLevel string

const (
	DifficultyEasy   DifficultyLevel = "easy"
	DifficultyMedium DifficultyLevel = "medium"
	DifficultyHard   DifficultyLevel = "hard"
)

func AllDifficultyLevels() []DifficultyLevel {
	return []DifficultyLevel{DifficultyEasy, DifficultyMedium, DifficultyHard}
}

type HOTSType string

const (
	HOTSCaseStudy        HOTSType = "case_study"
	HOTSCreativeWriting  HOTSType = "creative_writing"
	HOTSCriticalAnalysis HOTSType = "critical_analysis"
	HOTSProblemSolving   HOTSType = "problem_solving"
)

// RubricCriterion is one row of a HOTS question's grading rubric. The
// criterion max scores are advisory for graders; the awarded score is
// bounded by the question's Points, not by the rubric sum.
type RubricCriterion struct {
	Criterion   string `json:"criterion"`
	Description string `json:"description"`
	MaxScore    int    `json:"max_score"`
}

// HOTSQuestion is an open-ended higher-order-thinking task attached to a
// text. Responses require manual grading.
type HOTSQuestion struct {
	ID         uint            `json:"id" gorm:"primaryKey"`
	TextID     uint            `json:"text_id" gorm:"not null;index"`
	Prompt     string          `json:"prompt" gorm:"type:text;not null" validate:"required,min=1"`
	Category   HOTSCategory    `json:"category" gorm:"not null;size:20;index" validate:"required,hots_category"`
	Difficulty DifficultyLevel `json:"difficulty" gorm:"not null;size:10;index" validate:"required,difficulty_level"`
	Type       HOTSType        `json:"type" gorm:"not null;size:30" validate:"required,hots_type"`

	Points        int    `json:"points" gorm:"not null;default:10" validate:"required,min=1,max=100"`
	EstimatedTime int    `json:"estimated_time" gorm:"default:0" validate:"min=0,max=480"` // minutes
	Instructions  string `json:"instructions" gorm:"type:text"`

	// Rubric is a JSONB array of RubricCriterion.
	Rubric datatypes.JSON `json:"rubric,omitempty" gorm:"type:jsonb"`

	CreatedBy string `json:"created_by" gorm:"not null;size:255"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (HOTSQuestion) TableName() string {
	return "hots_questions"
}

func (q *HOTSQuestion) DecodeRubric() ([]RubricCriterion, error) {
	if len(q.Rubric) == 0 {
		return nil, nil
	}
	var rubric []RubricCriterion
	if err := json.Unmarshal(q.Rubric, &rubric); err != nil {
		return nil, fmt.Errorf("decode rubric: %w", err)
	}
	return rubric, nil
}

func (q *HOTSQuestion) SetRubric(rubric []RubricCriterion) error {
	if rubric == nil {
		q.Rubric = nil
		return nil
	}
	raw, err := json.Marshal(rubric)
	if err != nil {
		return fmt.Errorf("encode rubric: %w", err)
	}
	q.Rubric = raw
	return nil
}

// HOTSAnswer is a student's open-ended response. One row per
// (user, hots question). Score and feedback are set by a grader; until
// GradedAt is non-nil the answer is pending and its score is 0.
type HOTSAnswer struct {
	ID             uint   `json:"id" gorm:"primaryKey"`
	UserID         string `json:"user_id" gorm:"not null;size:255;uniqueIndex:idx_hots_answers_user_question"`
	HOTSQuestionID uint   `json:"hots_question_id" gorm:"not null;uniqueIndex:idx_hots_answers_user_question"`

	AnswerText string `json:"answer_text" gorm:"type:text;not null"`

	Score    int     `json:"score" gorm:"not null;default:0"`
	Feedback *string `json:"feedback,omitempty" gorm:"type:text"`

	SubmittedAt time.Time  `json:"submitted_at" gorm:"not null;index"`
	GradedAt    *time.Time `json:"graded_at,omitempty"`
	GradedBy    *string    `json:"graded_by,omitempty" gorm:"size:255"`
}

func (HOTSAnswer) TableName() string {
	return "hots_answers"
}

func (a *HOTSAnswer) IsGraded() bool {
	return a.GradedAt != nil
}
