package services

import (
	"log"

	"studyplanner/models"

	"gorm.io/gorm"
)

// ActivityService appends and reads the audit trail. Entries are never
// updated or deleted, the log only grows.
type ActivityService struct {
	db  *gorm.DB
	hub *Hub
}

func NewActivityService(db *gorm.DB) *ActivityService {
	return &ActivityService{db: db}
}

// SetHub attaches the websocket hub so recorded entries are pushed to
// connected activity-feed clients.
func (s *ActivityService) SetHub(hub *Hub) {
	s.hub = hub
}

// Record appends one activity entry. Failures are logged but not returned
// to the caller's client: an audit write must never fail the user action
// it describes.
func (s *ActivityService) Record(action, details string, examID *uint) {
	entry := models.ActivityLog{
		Action:  action,
		Details: details,
		ExamID:  examID,
	}

	if err := s.db.Create(&entry).Error; err != nil {
		log.Printf("Failed to record activity %s (%s): %v", action, details, err)
		return
	}

	if s.hub != nil {
		s.hub.BroadcastActivity(&entry)
	}
}

// Latest returns the newest entries, newest first.
func (s *ActivityService) Latest(limit int) ([]models.ActivityLog, error) {
	var activities []models.ActivityLog
	err := s.db.Order("created_at DESC").Limit(limit).Find(&activities).Error
	return activities, err
}
