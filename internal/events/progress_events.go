package events

import (
	"time"

	"github.com/ThreeDotsLabs/watermill"
)

// EventType represents the progress event kinds emitted by this service
type EventType string

const (
	// Submission events
	EventAnswerSubmitted     EventType = "answer.submitted"
	EventHOTSAnswerSubmitted EventType = "hots_answer.submitted"

	// Grading events
	EventHOTSAnswerGraded EventType = "hots_answer.graded"

	// Reading events
	EventTextRead EventType = "text.read"
)

// ProgressEvent is the base envelope for all events published by the
// reading service. Consumers (notification service, analytics warehouse)
// key off Type and decode Data accordingly.
type ProgressEvent struct {
	ID        string                 `json:"id"`
	Type      EventType              `json:"type"`
	Timestamp time.Time              `json:"timestamp"`
	Source    string                 `json:"source"`
	Version   string                 `json:"version"`
	Data      interface{}            `json:"data"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
}

// Event payloads

type AnswerSubmittedEvent struct {
	UserID     string `json:"user_id"`
	QuestionID uint   `json:"question_id"`
	TextID     uint   `json:"text_id"`
	Score      int    `json:"score"`
	MaxScore   int    `json:"max_score"`
	Resubmit   bool   `json:"resubmit"`
}

type HOTSAnswerSubmittedEvent struct {
	UserID         string `json:"user_id"`
	HOTSQuestionID uint   `json:"hots_question_id"`
	TextID         uint   `json:"text_id"`
	Resubmit       bool   `json:"resubmit"`
}

type HOTSAnswerGradedEvent struct {
	UserID         string `json:"user_id"`
	HOTSQuestionID uint   `json:"hots_question_id"`
	AnswerID       uint   `json:"answer_id"`
	Score          int    `json:"score"`
	MaxScore       int    `json:"max_score"`
	GraderID       string `json:"grader_id"`
}

type TextReadEvent struct {
	UserID string `json:"user_id"`
	TextID uint   `json:"text_id"`
}

// Event factory functions

func NewAnswerSubmittedEvent(userID string, questionID, textID uint, score, maxScore int, resubmit bool) *ProgressEvent {
	return newEvent(EventAnswerSubmitted, AnswerSubmittedEvent{
		UserID:     userID,
		QuestionID: questionID,
		TextID:     textID,
		Score:      score,
		MaxScore:   maxScore,
		Resubmit:   resubmit,
	})
}

func NewHOTSAnswerSubmittedEvent(userID string, hotsQuestionID, textID uint, resubmit bool) *ProgressEvent {
	return newEvent(EventHOTSAnswerSubmitted, HOTSAnswerSubmittedEvent{
		UserID:         userID,
		HOTSQuestionID: hotsQuestionID,
		TextID:         textID,
		Resubmit:       resubmit,
	})
}

func NewHOTSAnswerGradedEvent(userID string, hotsQuestionID, answerID uint, score, maxScore int, graderID string) *ProgressEvent {
	return newEvent(EventHOTSAnswerGraded, HOTSAnswerGradedEvent{
		UserID:         userID,
		HOTSQuestionID: hotsQuestionID,
		AnswerID:       answerID,
		Score:          score,
		MaxScore:       maxScore,
		GraderID:       graderID,
	})
}

func NewTextReadEvent(userID string, textID uint) *ProgressEvent {
	return newEvent(EventTextRead, TextReadEvent{
		UserID: userID,
		TextID: textID,
	})
}

func newEvent(eventType EventType, data interface{}) *ProgressEvent {
	return &ProgressEvent{
		ID:        watermill.NewUUID(),
		Type:      eventType,
		Timestamp: time.Now(),
		Source:    "reading-service",
		Version:   "1.0",
		Data:      data,
	}
}
