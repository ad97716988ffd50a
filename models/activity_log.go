package models

import (
	"time"

	"gorm.io/gorm"
)

// ActivityLog actions.
const (
	ActionCreatedExam      = "CREATED_EXAM"
	ActionDeletedExam      = "DELETED_EXAM"
	ActionCreatedTopic     = "CREATED_TOPIC"
	ActionDeletedTopic     = "DELETED_TOPIC"
	ActionCompletedTopic   = "COMPLETED_TOPIC"
	ActionUncompletedTopic = "UNCOMPLETED_TOPIC"
)

// ActivityLog is an append-only audit record. The application only ever
// inserts and reads these rows.
type ActivityLog struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	Action    string         `json:"action" gorm:"not null"`
	Details   string         `json:"details" gorm:"not null"`
	ExamID    *uint          `json:"exam_id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}
