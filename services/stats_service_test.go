package services

import (
	"errors"
	"testing"
	"time"
)

func seedSession(t *testing.T, svc *SessionService, examID, topicID uint, minutes int) {
	t.Helper()
	_, err := svc.LogSession(&LogSessionRequest{
		DurationMinutes: minutes,
		ExamID:          examID,
		TopicID:         topicID,
	})
	if err != nil {
		t.Fatalf("LogSession failed: %v", err)
	}
}

func TestDashboardStats(t *testing.T) {
	db := newTestDB(t)
	activity := NewActivityService(db)
	examSvc := NewExamService(db, activity)
	topicSvc := NewTopicService(db, activity)
	sessionSvc := NewSessionService(db)
	statsSvc := NewStatsService(db, nil)

	stats, err := statsSvc.GetDashboardStats()
	if err != nil {
		t.Fatalf("GetDashboardStats failed: %v", err)
	}
	if stats.TotalStudyMinutes != 0 {
		t.Errorf("empty database total = %d, want 0", stats.TotalStudyMinutes)
	}

	exam := mustCreateExam(t, examSvc, "Stats", time.Now().AddDate(0, 1, 0))
	topic, err := topicSvc.CreateTopic(&CreateTopicRequest{Name: "T", ExamID: exam.ID})
	if err != nil {
		t.Fatalf("CreateTopic failed: %v", err)
	}

	seedSession(t, sessionSvc, exam.ID, topic.ID, 25)
	seedSession(t, sessionSvc, exam.ID, topic.ID, 35)

	stats, err = statsSvc.GetDashboardStats()
	if err != nil {
		t.Fatalf("GetDashboardStats failed: %v", err)
	}
	if stats.TotalStudyMinutes != 60 {
		t.Errorf("total = %d, want 60", stats.TotalStudyMinutes)
	}
}

func TestTopicActualTime(t *testing.T) {
	db := newTestDB(t)
	activity := NewActivityService(db)
	examSvc := NewExamService(db, activity)
	topicSvc := NewTopicService(db, activity)
	sessionSvc := NewSessionService(db)
	statsSvc := NewStatsService(db, nil)

	exam := mustCreateExam(t, examSvc, "Stats", time.Now().AddDate(0, 1, 0))
	tracked, err := topicSvc.CreateTopic(&CreateTopicRequest{Name: "Tracked", ExamID: exam.ID})
	if err != nil {
		t.Fatalf("CreateTopic failed: %v", err)
	}
	idle, err := topicSvc.CreateTopic(&CreateTopicRequest{Name: "Idle", ExamID: exam.ID})
	if err != nil {
		t.Fatalf("CreateTopic failed: %v", err)
	}

	seedSession(t, sessionSvc, exam.ID, tracked.ID, 40)
	seedSession(t, sessionSvc, exam.ID, tracked.ID, 20)

	result, err := statsSvc.GetTopicActualTime(tracked.ID)
	if err != nil {
		t.Fatalf("GetTopicActualTime failed: %v", err)
	}
	if result.ActualMinutes != 60 {
		t.Errorf("actual minutes = %d, want 60", result.ActualMinutes)
	}

	// A topic with no sessions reports zero, not an error.
	result, err = statsSvc.GetTopicActualTime(idle.ID)
	if err != nil {
		t.Fatalf("GetTopicActualTime for idle topic failed: %v", err)
	}
	if result.ActualMinutes != 0 {
		t.Errorf("idle topic minutes = %d, want 0", result.ActualMinutes)
	}

	if _, err := statsSvc.GetTopicActualTime(999); !errors.Is(err, ErrTopicNotFound) {
		t.Errorf("err = %v, want ErrTopicNotFound", err)
	}
}

func TestTimeCoefficient(t *testing.T) {
	db := newTestDB(t)
	activity := NewActivityService(db)
	examSvc := NewExamService(db, activity)
	topicSvc := NewTopicService(db, activity)
	sessionSvc := NewSessionService(db)
	statsSvc := NewStatsService(db, nil)

	// No history: neutral coefficient.
	coefficient, err := statsSvc.TimeCoefficient()
	if err != nil {
		t.Fatalf("TimeCoefficient failed: %v", err)
	}
	if coefficient != 1.0 {
		t.Errorf("coefficient with no history = %f, want 1.0", coefficient)
	}

	exam := mustCreateExam(t, examSvc, "Coefficients", time.Now().AddDate(0, 1, 0))
	topic, err := topicSvc.CreateTopic(&CreateTopicRequest{Name: "Slow", ExamID: exam.ID})
	if err != nil {
		t.Fatalf("CreateTopic failed: %v", err)
	}

	// 120 actual minutes against the 60-minute baseline: 2x.
	seedSession(t, sessionSvc, exam.ID, topic.ID, 120)

	coefficient, err = statsSvc.TimeCoefficient()
	if err != nil {
		t.Fatalf("TimeCoefficient failed: %v", err)
	}
	if coefficient != 2.0 {
		t.Errorf("coefficient = %f, want 2.0", coefficient)
	}

	// Extreme history is clamped at 3x.
	seedSession(t, sessionSvc, exam.ID, topic.ID, 600)

	coefficient, err = statsSvc.TimeCoefficient()
	if err != nil {
		t.Fatalf("TimeCoefficient failed: %v", err)
	}
	if coefficient != 3.0 {
		t.Errorf("clamped coefficient = %f, want 3.0", coefficient)
	}
}

func TestCalendarDaysUntil(t *testing.T) {
	now := time.Date(2026, 3, 1, 23, 30, 0, 0, time.UTC)

	tests := []struct {
		name     string
		deadline time.Time
		want     int
	}{
		{"later today", time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC), 0},
		{"tomorrow morning", time.Date(2026, 3, 2, 1, 0, 0, 0, time.UTC), 1},
		{"in a week", time.Date(2026, 3, 8, 12, 0, 0, 0, time.UTC), 7},
		{"already past", time.Date(2026, 2, 20, 0, 0, 0, 0, time.UTC), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := calendarDaysUntil(now, tt.deadline); got != tt.want {
				t.Errorf("calendarDaysUntil() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestLogSessionValidatesReferences(t *testing.T) {
	db := newTestDB(t)
	activity := NewActivityService(db)
	examSvc := NewExamService(db, activity)
	sessionSvc := NewSessionService(db)

	exam := mustCreateExam(t, examSvc, "Refs", time.Now().AddDate(0, 1, 0))

	_, err := sessionSvc.LogSession(&LogSessionRequest{DurationMinutes: 30, ExamID: 999, TopicID: 1})
	if !errors.Is(err, ErrExamNotFound) {
		t.Errorf("missing exam: err = %v, want ErrExamNotFound", err)
	}

	_, err = sessionSvc.LogSession(&LogSessionRequest{DurationMinutes: 30, ExamID: exam.ID, TopicID: 999})
	if !errors.Is(err, ErrTopicNotFound) {
		t.Errorf("missing topic: err = %v, want ErrTopicNotFound", err)
	}
}
