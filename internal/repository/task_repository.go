package repository

import (
	"time"

	"github.com/protrack/protrack-api/internal/models"
	"github.com/protrack/protrack-api/internal/policy"
	"gorm.io/gorm"
)

// GormTaskRepository is a GORM implementation of TaskRepository
type GormTaskRepository struct {
	db *gorm.DB
}

// NewTaskRepository creates a new TaskRepository
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &GormTaskRepository{db: db}
}

// Create creates a new task
func (r *GormTaskRepository) Create(task *models.TaskItem) error {
	return r.db.Create(task).Error
}

// FindByID finds a task by ID with optional preloading
func (r *GormTaskRepository) FindByID(id uint64, preload ...string) (*models.TaskItem, error) {
	var task models.TaskItem
	query := r.db

	for _, p := range preload {
		query = query.Preload(p)
	}

	if err := query.First(&task, id).Error; err != nil {
		return nil, err
	}

	return &task, nil
}

// applyTaskScope narrows a task query to what the scope may see. Manager
// scope resolves through the owning project.
func (r *GormTaskRepository) applyTaskScope(query *gorm.DB, scope policy.Scope) *gorm.DB {
	if scope.All {
		return query
	}
	if scope.ManagerID != nil {
		managedSubQuery := r.db.Model(&models.Project{}).
			Select("1").
			Where("projects.id = task_items.project_id").
			Where("projects.manager_id = ?", *scope.ManagerID)
		return query.Where("EXISTS (?)", managedSubQuery)
	}
	if scope.MemberID != nil {
		return query.Where("task_items.assigned_to_id = ?", *scope.MemberID)
	}
	return query.Where("1 = 0")
}

// List retrieves tasks visible in the filter's scope with pagination
func (r *GormTaskRepository) List(filter TaskFilter) ([]models.TaskItem, int64, error) {
	query := r.applyTaskScope(r.db.Model(&models.TaskItem{}), filter.Scope)

	if filter.ProjectID != nil {
		query = query.Where("task_items.project_id = ?", *filter.ProjectID)
	}
	if filter.Status != nil {
		query = query.Where("task_items.status = ?", *filter.Status)
	}
	if filter.AssignedToID != nil {
		query = query.Where("task_items.assigned_to_id = ?", *filter.AssignedToID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	listQuery := query.Order("task_items.created_at DESC")
	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		listQuery = listQuery.Offset(offset).Limit(filter.PageSize)
	}

	var tasks []models.TaskItem
	if err := listQuery.
		Preload("Project").
		Preload("AssignedTo").
		Preload("AssignedBy").
		Find(&tasks).Error; err != nil {
		return nil, 0, err
	}

	return tasks, total, nil
}

// Update updates a task
func (r *GormTaskRepository) Update(task *models.TaskItem) error {
	return r.db.Save(task).Error
}

// Delete removes a task and its history rows in one transaction
func (r *GormTaskRepository) Delete(id uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("task_id = ?", id).Delete(&models.TaskHistory{}).Error; err != nil {
			return err
		}

		return tx.Delete(&models.TaskItem{}, id).Error
	})
}

// AddHistory appends an audit row for a task mutation
func (r *GormTaskRepository) AddHistory(entry *models.TaskHistory) error {
	return r.db.Create(entry).Error
}

// ListRecent returns the most recently created tasks in scope
func (r *GormTaskRepository) ListRecent(scope policy.Scope, limit int) ([]models.TaskItem, error) {
	var tasks []models.TaskItem

	query := r.applyTaskScope(r.db.Model(&models.TaskItem{}), scope)

	err := query.
		Preload("Project").
		Preload("AssignedTo").
		Preload("AssignedBy").
		Order("task_items.created_at DESC").
		Limit(limit).
		Find(&tasks).Error
	if err != nil {
		return nil, err
	}

	return tasks, nil
}

// ListUpcoming returns non-terminal tasks due on or after from, soonest first
func (r *GormTaskRepository) ListUpcoming(scope policy.Scope, from time.Time, limit int) ([]models.TaskItem, error) {
	var tasks []models.TaskItem

	query := r.applyTaskScope(r.db.Model(&models.TaskItem{}), scope).
		Where("task_items.due_date IS NOT NULL AND task_items.due_date >= ?", from).
		Where("task_items.status NOT IN ?", []models.TaskStatus{
			models.TaskStatusCompleted,
			models.TaskStatusTested,
			models.TaskStatusClosed,
		})

	err := query.
		Preload("Project").
		Preload("AssignedTo").
		Preload("AssignedBy").
		Order("task_items.due_date ASC").
		Limit(limit).
		Find(&tasks).Error
	if err != nil {
		return nil, err
	}

	return tasks, nil
}
