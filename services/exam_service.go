package services

import (
	"errors"
	"time"

	"studyplanner/models"

	"gorm.io/gorm"
)

var ErrExamNotFound = errors.New("exam not found")

type ExamService struct {
	db       *gorm.DB
	activity *ActivityService
}

func NewExamService(db *gorm.DB, activity *ActivityService) *ExamService {
	return &ExamService{db: db, activity: activity}
}

type CreateExamRequest struct {
	Title          string     `json:"title" binding:"required"`
	Description    string     `json:"description"`
	ExamDate       time.Time  `json:"exam_date" binding:"required"`
	StudyStartDate *time.Time `json:"study_start_date"`
	EndStudyDate   *time.Time `json:"end_study_date"`
}

type UpdateExamRequest struct {
	Title          string     `json:"title"`
	Description    string     `json:"description"`
	ExamDate       *time.Time `json:"exam_date"`
	StudyStartDate *time.Time `json:"study_start_date"`
	EndStudyDate   *time.Time `json:"end_study_date"`
}

// TopicCounts holds the per-status topic tally for one exam. The counts are
// always recomputed from topic rows, never stored.
type TopicCounts struct {
	NotStarted int `json:"not_started"`
	InProgress int `json:"in_progress"`
	Completed  int `json:"completed"`
}

func (c TopicCounts) total() int {
	return c.NotStarted + c.InProgress + c.Completed
}

// ExamWithStats is an exam plus its derived progress fields.
type ExamWithStats struct {
	models.Exam
	TotalTopics      int     `json:"total_topics"`
	CompletedTopics  int     `json:"completed_topics"`
	InProgressTopics int     `json:"in_progress_topics"`
	NotStartedTopics int     `json:"not_started_topics"`
	Progress         float64 `json:"progress"`
}

// ExamDetail is the single-exam response: the exam, its topics and the
// per-status counts.
type ExamDetail struct {
	models.Exam
	Counts TopicCounts `json:"counts"`
}

func (s *ExamService) CreateExam(req *CreateExamRequest) (*models.Exam, error) {
	exam := models.Exam{
		Title:          req.Title,
		Description:    req.Description,
		ExamDate:       req.ExamDate,
		StudyStartDate: req.StudyStartDate,
		EndStudyDate:   req.EndStudyDate,
		IsAIGenerated:  false,
	}

	if err := s.db.Create(&exam).Error; err != nil {
		return nil, err
	}

	s.activity.Record(models.ActionCreatedExam, exam.Title, &exam.ID)

	return &exam, nil
}

// GetAllExams returns every exam with its derived topic stats, sorted by
// exam date ascending. The counts come from a single grouped query over the
// topics table.
func (s *ExamService) GetAllExams() ([]ExamWithStats, error) {
	var exams []models.Exam
	if err := s.db.Order("exam_date ASC").Find(&exams).Error; err != nil {
		return nil, err
	}

	counts, err := s.countTopicsByStatus(0)
	if err != nil {
		return nil, err
	}

	result := make([]ExamWithStats, 0, len(exams))
	for _, exam := range exams {
		c := counts[exam.ID]
		result = append(result, ExamWithStats{
			Exam:             exam,
			TotalTopics:      c.total(),
			CompletedTopics:  c.Completed,
			InProgressTopics: c.InProgress,
			NotStartedTopics: c.NotStarted,
			Progress:         progressPercent(c),
		})
	}

	return result, nil
}

func (s *ExamService) GetExamByID(examID uint) (*ExamDetail, error) {
	var exam models.Exam
	err := s.db.Preload("Topics", func(db *gorm.DB) *gorm.DB {
		return db.Order("topics.created_at ASC")
	}).First(&exam, examID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrExamNotFound
		}
		return nil, err
	}

	counts, err := s.countTopicsByStatus(examID)
	if err != nil {
		return nil, err
	}

	return &ExamDetail{Exam: exam, Counts: counts[examID]}, nil
}

func (s *ExamService) UpdateExam(examID uint, req *UpdateExamRequest) (*models.Exam, error) {
	var exam models.Exam
	if err := s.db.First(&exam, examID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrExamNotFound
		}
		return nil, err
	}

	if req.Title != "" {
		exam.Title = req.Title
	}
	if req.Description != "" {
		exam.Description = req.Description
	}
	if req.ExamDate != nil {
		exam.ExamDate = *req.ExamDate
	}
	if req.StudyStartDate != nil {
		exam.StudyStartDate = req.StudyStartDate
	}
	if req.EndStudyDate != nil {
		exam.EndStudyDate = req.EndStudyDate
	}

	if err := s.db.Save(&exam).Error; err != nil {
		return nil, err
	}

	return &exam, nil
}

// DeleteExam removes the exam and all of its topics. The two deletes are
// sequential, not transactional: a crash in between leaves orphaned topics.
func (s *ExamService) DeleteExam(examID uint) error {
	var exam models.Exam
	if err := s.db.First(&exam, examID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrExamNotFound
		}
		return err
	}

	if err := s.db.Where("exam_id = ?", examID).Delete(&models.Topic{}).Error; err != nil {
		return err
	}

	if err := s.db.Delete(&exam).Error; err != nil {
		return err
	}

	s.activity.Record(models.ActionDeletedExam, exam.Title, &exam.ID)

	return nil
}

// countTopicsByStatus tallies topics grouped by exam and status. With
// examID == 0 it covers every exam, otherwise just the one.
func (s *ExamService) countTopicsByStatus(examID uint) (map[uint]TopicCounts, error) {
	var rows []struct {
		ExamID uint
		Status string
		Count  int
	}

	query := s.db.Model(&models.Topic{}).
		Select("exam_id, status, COUNT(*) as count").
		Group("exam_id, status")
	if examID != 0 {
		query = query.Where("exam_id = ?", examID)
	}
	if err := query.Scan(&rows).Error; err != nil {
		return nil, err
	}

	counts := make(map[uint]TopicCounts)
	for _, row := range rows {
		c := counts[row.ExamID]
		switch row.Status {
		case models.StatusNotStarted:
			c.NotStarted = row.Count
		case models.StatusInProgress:
			c.InProgress = row.Count
		case models.StatusCompleted:
			c.Completed = row.Count
		}
		counts[row.ExamID] = c
	}

	return counts, nil
}

// progressPercent is completed/total*100, with 0 for a topicless exam so we
// never divide by zero.
func progressPercent(c TopicCounts) float64 {
	total := c.total()
	if total == 0 {
		return 0
	}
	return float64(c.Completed) / float64(total) * 100
}
