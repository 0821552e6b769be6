package models

import "time"

// ActivityStatus tracks a student's standing on one activity stream (quiz
// or HOTS) for a single text.
type ActivityStatus string

const (
	StatusNotStarted ActivityStatus = "not_started"
	StatusInProgress ActivityStatus = "in_progress"
	StatusCompleted  ActivityStatus = "completed"
)

// Progress is the per-(user, text) derived aggregate row. It is a cache of
// the fact tables, recomputed on write paths; readers must tolerate it
// being stale and it is always safe to rebuild.
type Progress struct {
	ID     uint   `json:"id" gorm:"primaryKey"`
	UserID string `json:"user_id" gorm:"not null;size:255;uniqueIndex:idx_progress_user_text"`
	TextID uint   `json:"text_id" gorm:"not null;uniqueIndex:idx_progress_user_text"`

	ReadStatus bool `json:"read_status" gorm:"not null;default:false"`

	QuizStatus ActivityStatus `json:"quiz_status" gorm:"not null;size:20;default:not_started"`
	HOTSStatus ActivityStatus `json:"hots_status" gorm:"not null;size:20;default:not_started"`

	// Percentage scores in [0, 100].
	ReadingScore int `json:"reading_score" gorm:"not null;default:0"`
	HOTSScore    int `json:"hots_score" gorm:"not null;default:0"`

	LastAccessed time.Time `json:"last_accessed" gorm:"not null"`
}

func (Progress) TableName() string {
	return "progress"
}
