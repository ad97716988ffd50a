package services

import (
	"errors"
	"time"

	"studyplanner/models"

	"gorm.io/gorm"
)

var ErrTopicNotFound = errors.New("topic not found")

type TopicService struct {
	db       *gorm.DB
	activity *ActivityService
}

func NewTopicService(db *gorm.DB, activity *ActivityService) *TopicService {
	return &TopicService{db: db, activity: activity}
}

type CreateTopicRequest struct {
	Name             string `json:"name" binding:"required"`
	ExamID           uint   `json:"exam_id" binding:"required"`
	EstimatedMinutes int    `json:"estimated_minutes"`
}

type UpdateTopicRequest struct {
	Name   string `json:"name"`
	Status string `json:"status"`
}

// TopicsWithCounts is the per-exam topic listing plus status tallies, the
// shape the client keeps in its cache.
type TopicsWithCounts struct {
	Topics []models.Topic `json:"topics"`
	Counts TopicCounts    `json:"counts"`
}

// CreateTopic inserts a topic after verifying its exam exists. The exam
// reference is checked here, not enforced by a database constraint.
func (s *TopicService) CreateTopic(req *CreateTopicRequest) (*models.Topic, error) {
	var exam models.Exam
	if err := s.db.First(&exam, req.ExamID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrExamNotFound
		}
		return nil, err
	}

	topic := models.Topic{
		Name:             req.Name,
		ExamID:           req.ExamID,
		Status:           models.StatusNotStarted,
		EstimatedMinutes: req.EstimatedMinutes,
	}

	if err := s.db.Create(&topic).Error; err != nil {
		return nil, err
	}

	s.activity.Record(models.ActionCreatedTopic, topic.Name, &topic.ExamID)

	return &topic, nil
}

// GetTopicsByExam returns the exam's topics oldest first, together with the
// per-status counts.
func (s *TopicService) GetTopicsByExam(examID uint) (*TopicsWithCounts, error) {
	var exam models.Exam
	if err := s.db.First(&exam, examID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrExamNotFound
		}
		return nil, err
	}

	var topics []models.Topic
	err := s.db.Where("exam_id = ?", examID).
		Order("created_at ASC").
		Find(&topics).Error
	if err != nil {
		return nil, err
	}

	var counts TopicCounts
	for _, t := range topics {
		switch t.Status {
		case models.StatusNotStarted:
			counts.NotStarted++
		case models.StatusInProgress:
			counts.InProgress++
		case models.StatusCompleted:
			counts.Completed++
		}
	}

	return &TopicsWithCounts{Topics: topics, Counts: counts}, nil
}

func (s *TopicService) GetTopicByID(topicID uint) (*models.Topic, error) {
	var topic models.Topic
	if err := s.db.First(&topic, topicID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTopicNotFound
		}
		return nil, err
	}
	return &topic, nil
}

// UpdateTopic applies a name and/or status change. A transition into
// Completed stamps CompletedAt and records COMPLETED_TOPIC; a transition out
// of Completed clears it and records UNCOMPLETED_TOPIC.
func (s *TopicService) UpdateTopic(topicID uint, req *UpdateTopicRequest) (*models.Topic, error) {
	var topic models.Topic
	if err := s.db.First(&topic, topicID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTopicNotFound
		}
		return nil, err
	}

	if req.Name != "" {
		topic.Name = req.Name
	}

	previousStatus := topic.Status
	if req.Status != "" && req.Status != previousStatus {
		if !models.ValidStatus(req.Status) {
			return nil, errors.New("invalid topic status: " + req.Status)
		}
		topic.Status = req.Status

		if req.Status == models.StatusCompleted {
			now := time.Now()
			topic.CompletedAt = &now
		} else if previousStatus == models.StatusCompleted {
			topic.CompletedAt = nil
		}
	}

	if err := s.db.Save(&topic).Error; err != nil {
		return nil, err
	}

	if req.Status != "" && req.Status != previousStatus {
		if req.Status == models.StatusCompleted {
			s.activity.Record(models.ActionCompletedTopic, topic.Name, &topic.ExamID)
		} else if previousStatus == models.StatusCompleted {
			s.activity.Record(models.ActionUncompletedTopic, topic.Name, &topic.ExamID)
		}
	}

	return &topic, nil
}

func (s *TopicService) DeleteTopic(topicID uint) error {
	var topic models.Topic
	if err := s.db.First(&topic, topicID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTopicNotFound
		}
		return err
	}

	if err := s.db.Delete(&topic).Error; err != nil {
		return err
	}

	s.activity.Record(models.ActionDeletedTopic, topic.Name, &topic.ExamID)

	return nil
}
