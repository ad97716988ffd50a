package models

import (
	"time"

	"gorm.io/gorm"
)

// Topic status values. The cycle in the UI is
// Not Started -> In-progress -> Completed -> Not Started.
const (
	StatusNotStarted = "Not Started"
	StatusInProgress = "In-progress"
	StatusCompleted  = "Completed"
)

type Topic struct {
	ID               uint           `json:"id" gorm:"primaryKey"`
	ExamID           uint           `json:"exam_id" gorm:"not null;index"`
	Name             string         `json:"name" gorm:"not null"`
	Status           string         `json:"status" gorm:"not null;default:'Not Started'"` // Not Started, In-progress, Completed
	EstimatedMinutes int            `json:"estimated_minutes"`
	CompletedAt      *time.Time     `json:"completed_at"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
	DeletedAt        gorm.DeletedAt `json:"-" gorm:"index"`

	// Relationships
	Exam Exam `json:"exam,omitempty"`
}

// ValidStatus reports whether s is one of the three topic statuses.
func ValidStatus(s string) bool {
	return s == StatusNotStarted || s == StatusInProgress || s == StatusCompleted
}
