package services

import (
	"errors"
	"time"

	"studyplanner/models"

	"gorm.io/gorm"
)

var ErrTaskNotFound = errors.New("task not found")

// Task status values.
const (
	TaskStatusTodo       = "todo"
	TaskStatusInProgress = "in-progress"
	TaskStatusDone       = "done"
)

type TaskService struct {
	db *gorm.DB
}

func NewTaskService(db *gorm.DB) *TaskService {
	return &TaskService{db: db}
}

type CreateTaskRequest struct {
	Title string `json:"title" binding:"required"`
}

type UpdateTaskRequest struct {
	Title  string `json:"title"`
	Status string `json:"status"`
}

func (s *TaskService) CreateTask(req *CreateTaskRequest) (*models.Task, error) {
	task := models.Task{
		Title:  req.Title,
		Status: TaskStatusTodo,
	}

	if err := s.db.Create(&task).Error; err != nil {
		return nil, err
	}

	return &task, nil
}

func (s *TaskService) GetAllTasks() ([]models.Task, error) {
	var tasks []models.Task
	err := s.db.Order("created_at DESC").Find(&tasks).Error
	return tasks, err
}

func (s *TaskService) UpdateTask(taskID uint, req *UpdateTaskRequest) (*models.Task, error) {
	var task models.Task
	if err := s.db.First(&task, taskID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, err
	}

	if req.Title != "" {
		task.Title = req.Title
	}

	if req.Status != "" && req.Status != task.Status {
		if req.Status != TaskStatusTodo && req.Status != TaskStatusInProgress && req.Status != TaskStatusDone {
			return nil, errors.New("invalid task status: " + req.Status)
		}
		task.Status = req.Status

		if req.Status == TaskStatusDone {
			now := time.Now()
			task.CompletedAt = &now
		} else {
			task.CompletedAt = nil
		}
	}

	if err := s.db.Save(&task).Error; err != nil {
		return nil, err
	}

	return &task, nil
}

func (s *TaskService) DeleteTask(taskID uint) error {
	var task models.Task
	if err := s.db.First(&task, taskID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTaskNotFound
		}
		return err
	}

	return s.db.Delete(&task).Error
}
