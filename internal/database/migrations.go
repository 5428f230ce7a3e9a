package database

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/planora/todo-planner-api/internal/models"
)

// AddIndexes ensures the query-critical indexes declared on the models exist.
// AutoMigrate creates them on a fresh schema; this pass covers databases
// migrated before the composite month/year index existed.
func AddIndexes(db *gorm.DB) error {
	indexes := []struct {
		model interface{}
		name  string
	}{
		// Owner scoping and newest-first listing
		{&models.Task{}, "idx_tasks_user_id"},
		{&models.Task{}, "idx_tasks_created_at"},

		// Month filter equality query
		{&models.Task{}, "idx_tasks_user_month_year"},
	}

	m := db.Migrator()
	for _, idx := range indexes {
		if m.HasIndex(idx.model, idx.name) {
			continue
		}
		if err := m.CreateIndex(idx.model, idx.name); err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.name, err)
		}
	}

	return nil
}
