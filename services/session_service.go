package services

import (
	"errors"

	"studyplanner/models"

	"gorm.io/gorm"
)

type SessionService struct {
	db *gorm.DB
}

func NewSessionService(db *gorm.DB) *SessionService {
	return &SessionService{db: db}
}

type LogSessionRequest struct {
	DurationMinutes int  `json:"duration_minutes" binding:"required,min=1"`
	ExamID          uint `json:"exam_id" binding:"required"`
	TopicID         uint `json:"topic_id" binding:"required"`
}

// LogSession records one immutable block of study time after checking that
// both referenced records exist.
func (s *SessionService) LogSession(req *LogSessionRequest) (*models.StudySession, error) {
	var exam models.Exam
	if err := s.db.First(&exam, req.ExamID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrExamNotFound
		}
		return nil, err
	}

	var topic models.Topic
	if err := s.db.First(&topic, req.TopicID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTopicNotFound
		}
		return nil, err
	}

	session := models.StudySession{
		DurationMinutes: req.DurationMinutes,
		ExamID:          req.ExamID,
		TopicID:         req.TopicID,
	}

	if err := s.db.Create(&session).Error; err != nil {
		return nil, err
	}

	return &session, nil
}

// GetSessions returns the 50 most recent sessions, newest first.
func (s *SessionService) GetSessions() ([]models.StudySession, error) {
	var sessions []models.StudySession
	err := s.db.Order("created_at DESC").Limit(50).Find(&sessions).Error
	return sessions, err
}
