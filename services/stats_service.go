package services

import (
	"context"
	"fmt"
	"log"
	"math"
	"time"

	"studyplanner/models"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Baselines for the study-time alert heuristic. The per-topic estimate is
// used when a topic has no estimated_minutes; the daily budget is how many
// minutes of effective studying a day is assumed to hold.
const (
	defaultTopicMinutes = 60
	dailyStudyMinutes   = 120

	// Notified-topic sets expire with the client session.
	alertSetTTL = 2 * time.Hour
)

type StatsService struct {
	db    *gorm.DB
	redis *redis.Client
}

func NewStatsService(db *gorm.DB, redisClient *redis.Client) *StatsService {
	return &StatsService{db: db, redis: redisClient}
}

type DashboardStats struct {
	TotalStudyMinutes int `json:"total_study_minutes"`
}

type TopicTime struct {
	TopicID       uint `json:"topic_id"`
	ActualMinutes int  `json:"actual_minutes"`
}

// TopicAlert tells the client a topic needs to be started now to finish
// before its exam.
type TopicAlert struct {
	TopicID     uint    `json:"topic_id"`
	TopicName   string  `json:"topic_name"`
	ExamID      uint    `json:"exam_id"`
	ExamTitle   string  `json:"exam_title"`
	DaysLeft    int     `json:"days_left"`
	DaysNeeded  int     `json:"days_needed"`
	Coefficient float64 `json:"coefficient"`
	Message     string  `json:"message"`
}

// GetDashboardStats sums logged study time across all sessions.
func (s *StatsService) GetDashboardStats() (*DashboardStats, error) {
	var total int
	err := s.db.Model(&models.StudySession{}).
		Select("COALESCE(SUM(duration_minutes), 0)").
		Scan(&total).Error
	if err != nil {
		return nil, err
	}

	return &DashboardStats{TotalStudyMinutes: total}, nil
}

// GetTopicActualTime sums logged minutes for one topic. A topic with no
// sessions reports zero, it is not an error.
func (s *StatsService) GetTopicActualTime(topicID uint) (*TopicTime, error) {
	var topic models.Topic
	if err := s.db.First(&topic, topicID).Error; err != nil {
		return nil, ErrTopicNotFound
	}

	var actual int
	err := s.db.Model(&models.StudySession{}).
		Select("COALESCE(SUM(duration_minutes), 0)").
		Where("topic_id = ?", topicID).
		Scan(&actual).Error
	if err != nil {
		return nil, err
	}

	return &TopicTime{TopicID: topicID, ActualMinutes: actual}, nil
}

// TimeCoefficient estimates how much longer than planned this user takes per
// topic, from the ratio of logged time to the default per-topic budget.
// Clamped to [1.0, 3.0]; 1.0 when there is no history.
func (s *StatsService) TimeCoefficient() (float64, error) {
	var rows []struct {
		TopicID uint
		Actual  int
	}
	err := s.db.Model(&models.StudySession{}).
		Select("topic_id, SUM(duration_minutes) as actual").
		Group("topic_id").
		Scan(&rows).Error
	if err != nil {
		return 0, err
	}

	if len(rows) == 0 {
		return 1.0, nil
	}

	totalActual := 0
	for _, row := range rows {
		totalActual += row.Actual
	}
	if totalActual == 0 {
		return 1.0, nil
	}

	expected := len(rows) * defaultTopicMinutes
	coefficient := float64(totalActual) / float64(expected)

	return math.Max(1.0, math.Min(3.0, coefficient)), nil
}

// GetAlerts scans every unfinished topic and returns the ones the user
// should start now, given their time coefficient and the days left until
// the exam. Topics already flagged for this client session are skipped; the
// notified set lives in redis keyed by session so it disappears with the
// session instead of accumulating in process memory.
func (s *StatsService) GetAlerts(sessionID string) ([]TopicAlert, error) {
	coefficient, err := s.TimeCoefficient()
	if err != nil {
		return nil, err
	}

	var topics []models.Topic
	err = s.db.Preload("Exam").
		Where("status <> ?", models.StatusCompleted).
		Find(&topics).Error
	if err != nil {
		return nil, err
	}

	ctx := context.Background()
	key := alertSetKey(sessionID)
	now := time.Now()

	alerts := []TopicAlert{}
	for _, topic := range topics {
		if topic.Exam.ID == 0 {
			continue
		}

		estimated := topic.EstimatedMinutes
		if estimated == 0 {
			estimated = defaultTopicMinutes
		}

		daysLeft := calendarDaysUntil(now, topic.Exam.ExamDate)
		daysNeeded := int(math.Ceil(float64(estimated) * coefficient / dailyStudyMinutes))
		if daysNeeded < daysLeft {
			continue
		}

		notified, err := s.redis.SIsMember(ctx, key, topic.ID).Result()
		if err != nil && err != redis.Nil {
			log.Printf("Redis error checking alert set %s: %v", key, err)
		}
		if notified {
			continue
		}

		if err := s.redis.SAdd(ctx, key, topic.ID).Err(); err != nil {
			log.Printf("Redis error updating alert set %s: %v", key, err)
		}

		alerts = append(alerts, TopicAlert{
			TopicID:     topic.ID,
			TopicName:   topic.Name,
			ExamID:      topic.Exam.ID,
			ExamTitle:   topic.Exam.Title,
			DaysLeft:    daysLeft,
			DaysNeeded:  daysNeeded,
			Coefficient: coefficient,
			Message:     alertMessage(topic.Name, coefficient),
		})
	}

	if err := s.redis.Expire(ctx, key, alertSetTTL).Err(); err != nil {
		log.Printf("Redis error refreshing TTL on %s: %v", key, err)
	}

	return alerts, nil
}

// ClearAlerts drops the notified set for a client session.
func (s *StatsService) ClearAlerts(sessionID string) error {
	return s.redis.Del(context.Background(), alertSetKey(sessionID)).Err()
}

func alertSetKey(sessionID string) string {
	return "alerts:" + sessionID
}

func alertMessage(topicName string, coefficient float64) string {
	if coefficient > 1.3 {
		return fmt.Sprintf("Start studying %q now! Based on your history, you take %.1fx longer than estimated.", topicName, coefficient)
	}
	return fmt.Sprintf("Start studying %q now to ensure completion before the exam!", topicName)
}

// calendarDaysUntil counts whole calendar days from now to the deadline,
// never negative.
func calendarDaysUntil(now, deadline time.Time) int {
	nowDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	deadlineDay := time.Date(deadline.Year(), deadline.Month(), deadline.Day(), 0, 0, 0, 0, now.Location())
	days := int(deadlineDay.Sub(nowDay).Hours() / 24)
	if days < 0 {
		return 0
	}
	return days
}
