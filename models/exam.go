package models

import (
	"time"

	"gorm.io/gorm"
)

type Exam struct {
	ID             uint           `json:"id" gorm:"primaryKey"`
	Title          string         `json:"title" gorm:"not null"`
	Description    string         `json:"description"`
	ExamDate       time.Time      `json:"exam_date" gorm:"not null"`
	StudyStartDate *time.Time     `json:"study_start_date"`
	EndStudyDate   *time.Time     `json:"end_study_date"`
	IsAIGenerated  bool           `json:"is_ai_generated" gorm:"not null;default:false"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `json:"-" gorm:"index"`

	// Relationships
	Topics []Topic `json:"topics,omitempty" gorm:"foreignKey:ExamID"`
}
