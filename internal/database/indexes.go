package database

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/protrack/protrack-api/internal/models"
)

// AddIndexes creates the query-critical indexes that AutoMigrate does not
// derive from struct tags.
func AddIndexes(db *gorm.DB) error {
	indexes := []struct {
		model any
		name  string
		ddl   string
	}{
		{&models.TaskItem{}, "idx_tasks_project_id", "CREATE INDEX idx_tasks_project_id ON task_items (project_id)"},
		{&models.TaskItem{}, "idx_tasks_assigned_to_id", "CREATE INDEX idx_tasks_assigned_to_id ON task_items (assigned_to_id)"},
		{&models.TaskItem{}, "idx_tasks_status", "CREATE INDEX idx_tasks_status ON task_items (status)"},
		{&models.TaskItem{}, "idx_tasks_due_date", "CREATE INDEX idx_tasks_due_date ON task_items (due_date)"},
		{&models.TaskItem{}, "idx_tasks_created_at", "CREATE INDEX idx_tasks_created_at ON task_items (created_at)"},
		{&models.TaskHistory{}, "idx_task_histories_task_id", "CREATE INDEX idx_task_histories_task_id ON task_histories (task_id)"},
		{&models.Project{}, "idx_projects_manager_id", "CREATE INDEX idx_projects_manager_id ON projects (manager_id)"},
	}

	for _, idx := range indexes {
		if db.Migrator().HasIndex(idx.model, idx.name) {
			continue
		}
		if err := db.Exec(idx.ddl).Error; err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.name, err)
		}
	}

	return nil
}
