package services

import (
	"errors"
	"testing"
	"time"

	"studyplanner/models"
)

func TestCreateTopicRequiresExistingExam(t *testing.T) {
	db := newTestDB(t)
	topicSvc := NewTopicService(db, NewActivityService(db))

	_, err := topicSvc.CreateTopic(&CreateTopicRequest{Name: "Orphan", ExamID: 42})
	if !errors.Is(err, ErrExamNotFound) {
		t.Errorf("err = %v, want ErrExamNotFound", err)
	}
}

func TestTopicStatusToggleCycle(t *testing.T) {
	examSvc, topicSvc := newExamService(t)
	exam := mustCreateExam(t, examSvc, "Physics", time.Now().AddDate(0, 1, 0))

	topic, err := topicSvc.CreateTopic(&CreateTopicRequest{Name: "Kinematics", ExamID: exam.ID})
	if err != nil {
		t.Fatalf("CreateTopic failed: %v", err)
	}
	if topic.Status != models.StatusNotStarted {
		t.Fatalf("new topic status = %q, want %q", topic.Status, models.StatusNotStarted)
	}

	db := examSvc.db

	// Not Started -> In-progress: no completion activity.
	topic, err = topicSvc.UpdateTopic(topic.ID, &UpdateTopicRequest{Status: models.StatusInProgress})
	if err != nil {
		t.Fatalf("UpdateTopic to In-progress failed: %v", err)
	}
	if got := countActivities(t, db, models.ActionCompletedTopic); got != 0 {
		t.Errorf("COMPLETED_TOPIC entries = %d, want 0", got)
	}

	// In-progress -> Completed: stamps CompletedAt and logs exactly once.
	topic, err = topicSvc.UpdateTopic(topic.ID, &UpdateTopicRequest{Status: models.StatusCompleted})
	if err != nil {
		t.Fatalf("UpdateTopic to Completed failed: %v", err)
	}
	if topic.CompletedAt == nil {
		t.Error("CompletedAt not set on completion")
	}
	if got := countActivities(t, db, models.ActionCompletedTopic); got != 1 {
		t.Errorf("COMPLETED_TOPIC entries = %d, want 1", got)
	}

	// Completed -> Not Started: clears CompletedAt and logs the reversal.
	topic, err = topicSvc.UpdateTopic(topic.ID, &UpdateTopicRequest{Status: models.StatusNotStarted})
	if err != nil {
		t.Fatalf("UpdateTopic back to Not Started failed: %v", err)
	}
	if topic.CompletedAt != nil {
		t.Error("CompletedAt not cleared after uncompleting")
	}
	if got := countActivities(t, db, models.ActionUncompletedTopic); got != 1 {
		t.Errorf("UNCOMPLETED_TOPIC entries = %d, want 1", got)
	}
}

func TestUpdateTopicSameStatusNoActivity(t *testing.T) {
	examSvc, topicSvc := newExamService(t)
	exam := mustCreateExam(t, examSvc, "Physics", time.Now().AddDate(0, 1, 0))

	topic, err := topicSvc.CreateTopic(&CreateTopicRequest{Name: "Optics", ExamID: exam.ID})
	if err != nil {
		t.Fatalf("CreateTopic failed: %v", err)
	}
	if _, err := topicSvc.UpdateTopic(topic.ID, &UpdateTopicRequest{Status: models.StatusCompleted}); err != nil {
		t.Fatalf("UpdateTopic failed: %v", err)
	}

	// Re-sending the same status must not append another entry.
	if _, err := topicSvc.UpdateTopic(topic.ID, &UpdateTopicRequest{Status: models.StatusCompleted}); err != nil {
		t.Fatalf("repeat UpdateTopic failed: %v", err)
	}
	if got := countActivities(t, examSvc.db, models.ActionCompletedTopic); got != 1 {
		t.Errorf("COMPLETED_TOPIC entries = %d, want 1", got)
	}
}

func TestUpdateTopicRejectsUnknownStatus(t *testing.T) {
	examSvc, topicSvc := newExamService(t)
	exam := mustCreateExam(t, examSvc, "Physics", time.Now().AddDate(0, 1, 0))

	topic, err := topicSvc.CreateTopic(&CreateTopicRequest{Name: "Waves", ExamID: exam.ID})
	if err != nil {
		t.Fatalf("CreateTopic failed: %v", err)
	}

	if _, err := topicSvc.UpdateTopic(topic.ID, &UpdateTopicRequest{Status: "Done"}); err == nil {
		t.Error("expected error for invalid status, got nil")
	}
}

func TestGetTopicsByExamCounts(t *testing.T) {
	examSvc, topicSvc := newExamService(t)
	exam := mustCreateExam(t, examSvc, "Math", time.Now().AddDate(0, 1, 0))

	first, err := topicSvc.CreateTopic(&CreateTopicRequest{Name: "Algebra", ExamID: exam.ID})
	if err != nil {
		t.Fatalf("CreateTopic failed: %v", err)
	}
	if _, err := topicSvc.CreateTopic(&CreateTopicRequest{Name: "Calculus", ExamID: exam.ID}); err != nil {
		t.Fatalf("CreateTopic failed: %v", err)
	}
	if _, err := topicSvc.UpdateTopic(first.ID, &UpdateTopicRequest{Status: models.StatusCompleted}); err != nil {
		t.Fatalf("UpdateTopic failed: %v", err)
	}

	result, err := topicSvc.GetTopicsByExam(exam.ID)
	if err != nil {
		t.Fatalf("GetTopicsByExam failed: %v", err)
	}

	if len(result.Topics) != 2 {
		t.Fatalf("got %d topics, want 2", len(result.Topics))
	}
	if result.Topics[0].Name != "Algebra" {
		t.Errorf("topics not ordered oldest first: got %q", result.Topics[0].Name)
	}
	if result.Counts.Completed != 1 || result.Counts.NotStarted != 1 || result.Counts.InProgress != 0 {
		t.Errorf("counts = %+v, want 1 completed, 1 not started", result.Counts)
	}
}

func TestGetTopicsByExamMissingExam(t *testing.T) {
	db := newTestDB(t)
	topicSvc := NewTopicService(db, NewActivityService(db))

	if _, err := topicSvc.GetTopicsByExam(7); !errors.Is(err, ErrExamNotFound) {
		t.Errorf("err = %v, want ErrExamNotFound", err)
	}
}
