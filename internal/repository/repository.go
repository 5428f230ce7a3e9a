package repository

import (
	"github.com/planora/todo-planner-api/internal/models"
)

// ProfileRepository defines the interface for user profile data access
type ProfileRepository interface {
	// Create persists a new profile record
	Create(user *models.User) error

	// FindByID finds a profile by identity identifier
	FindByID(id string) (*models.User, error)
}

// TaskRepository defines the interface for task data access. Queries are
// limited to conjunctive equality filters plus a single descending sort,
// matching the document-store contract the gateways were written against.
type TaskRepository interface {
	// Create persists a new task
	Create(task *models.Task) error

	// FindByID finds a task by ID
	FindByID(id string) (*models.Task, error)

	// ListByUser returns every task owned by the user, newest first
	ListByUser(userID string) ([]models.Task, error)

	// ListByMonth returns the user's tasks whose derived month/year match,
	// ordered by date descending
	ListByMonth(userID string, month, year int) ([]models.Task, error)

	// Update persists changed task fields
	Update(task *models.Task) error

	// Delete permanently removes a task
	Delete(id string) error
}
