package repository

import (
	"github.com/protrack/protrack-api/internal/models"
	"github.com/protrack/protrack-api/internal/policy"
	"gorm.io/gorm"
)

// GormProjectRepository is a GORM implementation of ProjectRepository
type GormProjectRepository struct {
	db *gorm.DB
}

// NewProjectRepository creates a new ProjectRepository
func NewProjectRepository(db *gorm.DB) ProjectRepository {
	return &GormProjectRepository{db: db}
}

// Create creates a new project
func (r *GormProjectRepository) Create(project *models.Project) error {
	return r.db.Create(project).Error
}

// FindByID finds a project by ID with optional preloading
func (r *GormProjectRepository) FindByID(id uint64, preload ...string) (*models.Project, error) {
	var project models.Project
	query := r.db

	for _, p := range preload {
		query = query.Preload(p)
	}

	if err := query.First(&project, id).Error; err != nil {
		return nil, err
	}

	return &project, nil
}

// applyProjectScope narrows a project query to what the scope may see.
func (r *GormProjectRepository) applyProjectScope(query *gorm.DB, scope policy.Scope) *gorm.DB {
	if scope.All {
		return query
	}
	if scope.ManagerID != nil {
		return query.Where("projects.manager_id = ?", *scope.ManagerID)
	}
	if scope.MemberID != nil {
		memberSubQuery := r.db.Model(&models.ProjectUser{}).
			Select("1").
			Where("project_users.project_id = projects.id").
			Where("project_users.user_id = ?", *scope.MemberID)
		return query.Where("EXISTS (?)", memberSubQuery)
	}
	// An empty scope sees nothing.
	return query.Where("1 = 0")
}

// List retrieves the projects visible in the scope, newest first
func (r *GormProjectRepository) List(scope policy.Scope) ([]models.Project, error) {
	var projects []models.Project

	query := r.applyProjectScope(r.db.Model(&models.Project{}), scope)

	err := query.
		Preload("Manager").
		Preload("Members").
		Preload("Members.User").
		Preload("Tasks").
		Order("projects.created_at DESC").
		Find(&projects).Error
	if err != nil {
		return nil, err
	}

	return projects, nil
}

// Update updates a project
func (r *GormProjectRepository) Update(project *models.Project) error {
	return r.db.Save(project).Error
}

// Delete removes a project together with its tasks, task history, and
// memberships in one transaction
func (r *GormProjectRepository) Delete(id uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		taskIDs := tx.Model(&models.TaskItem{}).
			Select("id").
			Where("project_id = ?", id)

		if err := tx.Where("task_id IN (?)", taskIDs).Delete(&models.TaskHistory{}).Error; err != nil {
			return err
		}

		if err := tx.Where("project_id = ?", id).Delete(&models.TaskItem{}).Error; err != nil {
			return err
		}

		if err := tx.Where("project_id = ?", id).Delete(&models.ProjectUser{}).Error; err != nil {
			return err
		}

		return tx.Delete(&models.Project{}, id).Error
	})
}

// ReplaceMembers atomically swaps the full membership set of a project
func (r *GormProjectRepository) ReplaceMembers(projectID uint64, members []models.ProjectUser) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("project_id = ?", projectID).Delete(&models.ProjectUser{}).Error; err != nil {
			return err
		}

		if len(members) == 0 {
			return nil
		}

		return tx.Create(&members).Error
	})
}

// ListMembers lists the memberships of a project with users preloaded
func (r *GormProjectRepository) ListMembers(projectID uint64) ([]models.ProjectUser, error) {
	var members []models.ProjectUser
	if err := r.db.Preload("User").
		Where("project_id = ?", projectID).
		Find(&members).Error; err != nil {
		return nil, err
	}
	return members, nil
}

// IsMember reports whether the user belongs to the project
func (r *GormProjectRepository) IsMember(projectID, userID uint64) (bool, error) {
	var count int64
	err := r.db.Model(&models.ProjectUser{}).
		Where("project_id = ? AND user_id = ?", projectID, userID).
		Count(&count).Error
	return count > 0, err
}

// CountDistinctMembers counts distinct member users across the projects
func (r *GormProjectRepository) CountDistinctMembers(projectIDs []uint64, activeOnly bool) (int64, error) {
	if len(projectIDs) == 0 {
		return 0, nil
	}

	query := r.db.Model(&models.ProjectUser{}).
		Where("project_users.project_id IN ?", projectIDs)

	if activeOnly {
		query = query.
			Joins("JOIN users ON users.id = project_users.user_id").
			Where("users.is_active = ?", true)
	}

	var count int64
	err := query.Distinct("project_users.user_id").Count(&count).Error
	return count, err
}
