package repository

import (
	"gorm.io/gorm"

	"github.com/planora/todo-planner-api/internal/models"
)

// GormTaskRepository is a GORM implementation of TaskRepository
type GormTaskRepository struct {
	db *gorm.DB
}

// NewTaskRepository creates a new TaskRepository
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &GormTaskRepository{db: db}
}

// Create persists a new task
func (r *GormTaskRepository) Create(task *models.Task) error {
	return r.db.Create(task).Error
}

// FindByID finds a task by ID
func (r *GormTaskRepository) FindByID(id string) (*models.Task, error) {
	var task models.Task
	if err := r.db.Where("id = ?", id).First(&task).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

// ListByUser returns every task owned by the user, most recently created first
func (r *GormTaskRepository) ListByUser(userID string) ([]models.Task, error) {
	var tasks []models.Task
	err := r.db.
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&tasks).Error
	if err != nil {
		return nil, err
	}
	return tasks, nil
}

// ListByMonth returns the user's tasks for the given calendar month, ordered
// by date descending. Relies on the composite (user_id, month, year) index.
func (r *GormTaskRepository) ListByMonth(userID string, month, year int) ([]models.Task, error) {
	var tasks []models.Task
	err := r.db.
		Where("user_id = ? AND month = ? AND year = ?", userID, month, year).
		Order("date DESC").
		Find(&tasks).Error
	if err != nil {
		return nil, err
	}
	return tasks, nil
}

// Update persists changed task fields
func (r *GormTaskRepository) Update(task *models.Task) error {
	return r.db.Save(task).Error
}

// Delete permanently removes a task
func (r *GormTaskRepository) Delete(id string) error {
	return r.db.Where("id = ?", id).Delete(&models.Task{}).Error
}
