package models

import (
	"time"

	"gorm.io/gorm"
)

// StudySession is an immutable log entry of time spent on one topic.
type StudySession struct {
	ID              uint           `json:"id" gorm:"primaryKey"`
	ExamID          uint           `json:"exam_id" gorm:"not null;index"`
	TopicID         uint           `json:"topic_id" gorm:"not null;index"`
	DurationMinutes int            `json:"duration_minutes" gorm:"not null"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `json:"-" gorm:"index"`

	// Relationships
	Exam  Exam  `json:"exam,omitempty"`
	Topic Topic `json:"topic,omitempty"`
}
