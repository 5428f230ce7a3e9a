package services

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/planora/todo-planner-api/internal/constants"
	"github.com/planora/todo-planner-api/internal/models"
	"github.com/planora/todo-planner-api/internal/repository"
)

var (
	ErrUnauthenticated     = errors.New("authentication required")
	ErrTitleRequired       = errors.New("title is required")
	ErrDescriptionRequired = errors.New("description is required")
	ErrInvalidStatus       = errors.New("status must be Pending, In Progress or Completed")
	ErrInvalidPriority     = errors.New("priority must be Low, Medium or High")
	ErrInvalidDate         = errors.New("date must be a valid calendar date (YYYY-MM-DD)")
	ErrInvalidMonth        = errors.New("month must be between 1 and 12")
	ErrInvalidYear         = fmt.Errorf("year must be between %d and %d", constants.MinYear, constants.MaxYear)
	ErrTaskNotFound        = errors.New("task not found")
	ErrNotTaskOwner        = errors.New("task belongs to a different user")
)

// TaskService is the task store gateway. Every operation takes the principal
// explicitly; an empty principal fails before any store access. Every
// mutating operation re-checks ownership against the stored record.
type TaskService struct {
	taskRepo repository.TaskRepository
}

// NewTaskService creates a new TaskService
func NewTaskService(taskRepo repository.TaskRepository) *TaskService {
	return &TaskService{taskRepo: taskRepo}
}

// TaskInput carries the caller-settable task fields.
type TaskInput struct {
	Title       string
	Description string
	Status      models.TaskStatus
	Priority    models.TaskPriority
	Date        string
}

func (in *TaskInput) validate() error {
	if in.Title == "" {
		return ErrTitleRequired
	}
	if in.Description == "" {
		return ErrDescriptionRequired
	}
	if in.Status == "" {
		in.Status = models.TaskStatusPending
	}
	if !in.Status.Valid() {
		return ErrInvalidStatus
	}
	if in.Priority == "" {
		in.Priority = models.TaskPriorityMedium
	}
	if !in.Priority.Valid() {
		return ErrInvalidPriority
	}
	return nil
}

// Create validates the input, derives month/year from the date, and persists
// the task with the principal as owner.
func (s *TaskService) Create(userID string, input TaskInput) (*models.Task, error) {
	if userID == "" {
		return nil, ErrUnauthenticated
	}
	if err := input.validate(); err != nil {
		return nil, err
	}

	task := &models.Task{
		Title:       input.Title,
		Description: input.Description,
		Status:      input.Status,
		Priority:    input.Priority,
		Date:        input.Date,
		UserID:      userID,
	}
	if err := task.DeriveMonthYear(); err != nil {
		return nil, ErrInvalidDate
	}

	if err := s.taskRepo.Create(task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	return task, nil
}

// ListAll returns every task owned by the principal, newest first.
func (s *TaskService) ListAll(userID string) ([]models.Task, error) {
	if userID == "" {
		return nil, ErrUnauthenticated
	}

	tasks, err := s.taskRepo.ListByUser(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, nil
}

// Get returns a single task owned by the principal.
func (s *TaskService) Get(userID, taskID string) (*models.Task, error) {
	if userID == "" {
		return nil, ErrUnauthenticated
	}
	return s.loadOwned(userID, taskID)
}

// Update rewrites the caller-settable fields of an owned task, re-derives
// month/year and refreshes the last-modified timestamp.
func (s *TaskService) Update(userID, taskID string, input TaskInput) (*models.Task, error) {
	if userID == "" {
		return nil, ErrUnauthenticated
	}

	task, err := s.loadOwned(userID, taskID)
	if err != nil {
		return nil, err
	}

	if err := input.validate(); err != nil {
		return nil, err
	}

	task.Title = input.Title
	task.Description = input.Description
	task.Status = input.Status
	task.Priority = input.Priority
	task.Date = input.Date
	if err := task.DeriveMonthYear(); err != nil {
		return nil, ErrInvalidDate
	}

	if err := s.taskRepo.Update(task); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	return task, nil
}

// Delete permanently removes an owned task. A repeated delete of the same id
// fails with ErrTaskNotFound.
func (s *TaskService) Delete(userID, taskID string) error {
	if userID == "" {
		return ErrUnauthenticated
	}

	if _, err := s.loadOwned(userID, taskID); err != nil {
		return err
	}

	if err := s.taskRepo.Delete(taskID); err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}

	return nil
}

// ListByMonth returns the principal's tasks whose derived month/year match,
// ordered by date descending. No matches is a success with an empty list.
func (s *TaskService) ListByMonth(userID string, month, year int) ([]models.Task, error) {
	if userID == "" {
		return nil, ErrUnauthenticated
	}
	if month < 1 || month > 12 {
		return nil, ErrInvalidMonth
	}
	if year < constants.MinYear || year > constants.MaxYear {
		return nil, ErrInvalidYear
	}

	tasks, err := s.taskRepo.ListByMonth(userID, month, year)
	if err != nil {
		return nil, fmt.Errorf("failed to filter tasks: %w", err)
	}
	return tasks, nil
}

// loadOwned fetches a task and verifies the principal owns it.
func (s *TaskService) loadOwned(userID, taskID string) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	if task.UserID != userID {
		return nil, ErrNotTaskOwner
	}

	return task, nil
}
