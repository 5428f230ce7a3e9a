package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/planora/todo-planner-api/internal/constants"
)

type TaskStatus string

const (
	TaskStatusPending    TaskStatus = "Pending"
	TaskStatusInProgress TaskStatus = "In Progress"
	TaskStatusCompleted  TaskStatus = "Completed"
)

// Valid reports whether the status is one of the three enumerated values.
func (s TaskStatus) Valid() bool {
	switch s {
	case TaskStatusPending, TaskStatusInProgress, TaskStatusCompleted:
		return true
	}
	return false
}

type TaskPriority string

const (
	TaskPriorityLow    TaskPriority = "Low"
	TaskPriorityMedium TaskPriority = "Medium"
	TaskPriorityHigh   TaskPriority = "High"
)

// Valid reports whether the priority is one of the three enumerated values.
func (p TaskPriority) Valid() bool {
	switch p {
	case TaskPriorityLow, TaskPriorityMedium, TaskPriorityHigh:
		return true
	}
	return false
}

// Task is a to-do item owned by exactly one user. Month and Year are derived
// from Date at every write and persisted so the month filter can run as an
// equality query against the composite (user_id, month, year) index.
// Deletion is permanent; there is no soft delete.
type Task struct {
	ID          string       `gorm:"type:varchar(36);primarykey" json:"id"`
	Title       string       `gorm:"type:varchar(255);not null" json:"title"`
	Description string       `gorm:"type:text;not null" json:"description"`
	Status      TaskStatus   `gorm:"type:varchar(20);not null;default:'Pending'" json:"status"`
	Priority    TaskPriority `gorm:"type:varchar(20);not null;default:'Medium'" json:"priority"`
	Date        string       `gorm:"type:varchar(10);not null" json:"date"`
	Month       int          `gorm:"not null;index:idx_tasks_user_month_year,priority:2" json:"month"`
	Year        int          `gorm:"not null;index:idx_tasks_user_month_year,priority:3" json:"year"`
	UserID      string       `gorm:"type:varchar(36);not null;index:idx_tasks_user_id;index:idx_tasks_user_month_year,priority:1" json:"user_id"`
	CreatedAt   time.Time    `gorm:"index:idx_tasks_created_at" json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

// BeforeCreate assigns an opaque identifier before the first insert.
func (t *Task) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	return nil
}

// DeriveMonthYear recomputes the persisted month/year columns from Date.
// It is the single place the derivation lives so create and update cannot
// disagree about it.
func (t *Task) DeriveMonthYear() error {
	month, year, err := ExtractMonthYear(t.Date)
	if err != nil {
		return err
	}
	t.Month = month
	t.Year = year
	return nil
}

// ExtractMonthYear parses an ISO 8601 calendar date and returns its month
// (1-12) and year.
func ExtractMonthYear(date string) (month, year int, err error) {
	parsed, err := time.Parse(constants.DateLayout, date)
	if err != nil {
		return 0, 0, err
	}
	return int(parsed.Month()), parsed.Year(), nil
}
