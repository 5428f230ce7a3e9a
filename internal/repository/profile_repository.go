package repository

import (
	"gorm.io/gorm"

	"github.com/planora/todo-planner-api/internal/models"
)

// GormProfileRepository is a GORM implementation of ProfileRepository
type GormProfileRepository struct {
	db *gorm.DB
}

// NewProfileRepository creates a new ProfileRepository
func NewProfileRepository(db *gorm.DB) ProfileRepository {
	return &GormProfileRepository{db: db}
}

// Create persists a new profile record
func (r *GormProfileRepository) Create(user *models.User) error {
	return r.db.Create(user).Error
}

// FindByID finds a profile by identity identifier
func (r *GormProfileRepository) FindByID(id string) (*models.User, error) {
	var user models.User
	if err := r.db.Where("id = ?", id).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}
