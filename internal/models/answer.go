package models

import "time"

// Answer is a student's submission for a closed-form question. One row per
// (user, question); resubmission overwrites in place.
type Answer struct {
	ID         uint   `json:"id" gorm:"primaryKey"`
	UserID     string `json:"user_id" gorm:"not null;size:255;uniqueIndex:idx_answers_user_question"`
	QuestionID uint   `json:"question_id" gorm:"not null;uniqueIndex:idx_answers_user_question"`

	AnswerText string `json:"answer_text" gorm:"type:text;not null"`

	// Score is awarded at submission time by the scoring policy, on the
	// question's own points scale.
	Score int `json:"score" gorm:"not null;default:0"`

	SubmittedAt time.Time `json:"submitted_at" gorm:"not null;index"`
}

func (Answer) TableName() string {
	return "answers"
}
