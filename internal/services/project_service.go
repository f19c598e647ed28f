package services

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/protrack/protrack-api/internal/models"
	"github.com/protrack/protrack-api/internal/policy"
	"github.com/protrack/protrack-api/internal/repository"
)

var (
	ErrProjectNotFound = errors.New("project not found")
	ErrInvalidManager  = errors.New("manager must be an existing Manager or Admin user")
)

// ProjectService handles project lifecycle and membership.
type ProjectService struct {
	projectRepo repository.ProjectRepository
	userRepo    repository.UserRepository
}

// NewProjectService creates a new ProjectService.
func NewProjectService(projectRepo repository.ProjectRepository, userRepo repository.UserRepository) *ProjectService {
	return &ProjectService{
		projectRepo: projectRepo,
		userRepo:    userRepo,
	}
}

// CreateProjectInput represents input for creating a project.
type CreateProjectInput struct {
	Name        string
	Description string
	StartDate   *time.Time
	EndDate     *time.Time
	Status      models.ProjectStatus
	ManagerID   *uint64
}

// UpdateProjectInput represents input for updating a project. ManagerID is
// honored only for Admin actors.
type UpdateProjectInput struct {
	Name        string
	Description string
	StartDate   *time.Time
	EndDate     *time.Time
	Status      models.ProjectStatus
	ManagerID   *uint64
}

// ListProjects returns the projects the actor may see, newest first, with
// manager, members, and tasks loaded.
func (s *ProjectService) ListProjects(actor Actor) ([]models.Project, error) {
	projects, err := s.projectRepo.List(policy.ListScope(actor.ID, actor.Role))
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	return projects, nil
}

// GetProject returns one project if the actor's scope covers it.
func (s *ProjectService) GetProject(actor Actor, id uint64) (*models.Project, error) {
	project, err := s.projectRepo.FindByID(id, "Manager", "Members", "Members.User", "Tasks")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to find project: %w", err)
	}

	isMember := false
	for _, m := range project.Members {
		if m.UserID == actor.ID {
			isMember = true
			break
		}
	}

	if !policy.CanViewProject(actor.ID, actor.Role, project.ManagerID, isMember) {
		return nil, policy.ErrDenied
	}

	return project, nil
}

// CreateProject creates a project. A Manager actor always becomes the
// manager regardless of payload; only an Admin may pick someone else.
func (s *ProjectService) CreateProject(actor Actor, input CreateProjectInput) (*models.Project, error) {
	if !policy.CanCreateProject(actor.Role) {
		return nil, policy.ErrDenied
	}

	managerID := policy.ResolveProjectManager(actor.ID, actor.Role, input.ManagerID)
	if err := s.checkManager(managerID); err != nil {
		return nil, err
	}

	status := input.Status
	if status == "" {
		status = models.ProjectStatusActive
	}

	project := &models.Project{
		Name:        input.Name,
		Description: input.Description,
		StartDate:   input.StartDate,
		EndDate:     input.EndDate,
		Status:      status,
		ManagerID:   managerID,
	}

	if err := s.projectRepo.Create(project); err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}

	return s.projectRepo.FindByID(project.ID, "Manager")
}

// UpdateProject updates a project owned by the actor (or any project for an
// Admin). Manager reassignment is Admin-only.
func (s *ProjectService) UpdateProject(actor Actor, id uint64, input UpdateProjectInput) (*models.Project, error) {
	project, err := s.projectRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to find project: %w", err)
	}

	if err := policy.CheckModifyProject(actor.ID, actor.Role, project.ManagerID); err != nil {
		return nil, err
	}

	project.Name = input.Name
	project.Description = input.Description
	project.StartDate = input.StartDate
	project.EndDate = input.EndDate
	if input.Status != "" {
		project.Status = input.Status
	}

	if actor.Role == models.RoleAdmin && input.ManagerID != nil {
		if err := s.checkManager(*input.ManagerID); err != nil {
			return nil, err
		}
		project.ManagerID = *input.ManagerID
	}

	if err := s.projectRepo.Update(project); err != nil {
		return nil, fmt.Errorf("failed to update project: %w", err)
	}

	return s.projectRepo.FindByID(project.ID, "Manager")
}

// DeleteProject hard-deletes a project, cascading to its tasks, their
// history, and memberships.
func (s *ProjectService) DeleteProject(actor Actor, id uint64) error {
	project, err := s.projectRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProjectNotFound
		}
		return fmt.Errorf("failed to find project: %w", err)
	}

	if err := policy.CheckModifyProject(actor.ID, actor.Role, project.ManagerID); err != nil {
		return err
	}

	if err := s.projectRepo.Delete(id); err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}

	return nil
}

// AssignUsers replaces the entire membership set of a project. IDs that do
// not resolve to an existing role-User account are skipped silently.
func (s *ProjectService) AssignUsers(actor Actor, projectID uint64, userIDs []uint64) error {
	project, err := s.projectRepo.FindByID(projectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProjectNotFound
		}
		return fmt.Errorf("failed to find project: %w", err)
	}

	if err := policy.CheckModifyProject(actor.ID, actor.Role, project.ManagerID); err != nil {
		return err
	}

	users, err := s.userRepo.FindByIDs(uniqueUint64(userIDs))
	if err != nil {
		return fmt.Errorf("failed to resolve users: %w", err)
	}

	now := time.Now()
	members := make([]models.ProjectUser, 0, len(users))
	for _, user := range users {
		if user.Role != models.RoleUser {
			continue
		}
		members = append(members, models.ProjectUser{
			ProjectID:    projectID,
			UserID:       user.ID,
			AssignedDate: now,
		})
	}

	if err := s.projectRepo.ReplaceMembers(projectID, members); err != nil {
		return fmt.Errorf("failed to replace members: %w", err)
	}

	return nil
}

// GetProjectMembers lists the users assigned to a project. Only Admins and
// the owning Manager may see the roster.
func (s *ProjectService) GetProjectMembers(actor Actor, projectID uint64) ([]models.User, error) {
	project, err := s.projectRepo.FindByID(projectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to find project: %w", err)
	}

	if err := policy.CheckModifyProject(actor.ID, actor.Role, project.ManagerID); err != nil {
		return nil, err
	}

	members, err := s.projectRepo.ListMembers(projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}

	users := make([]models.User, 0, len(members))
	for _, m := range members {
		users = append(users, m.User)
	}
	return users, nil
}

func (s *ProjectService) checkManager(managerID uint64) error {
	manager, err := s.userRepo.FindByID(managerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrInvalidManager
		}
		return fmt.Errorf("failed to find manager: %w", err)
	}
	if manager.Role != models.RoleManager && manager.Role != models.RoleAdmin {
		return ErrInvalidManager
	}
	return nil
}

// uniqueUint64 removes duplicate values from a slice of uint64
func uniqueUint64(values []uint64) []uint64 {
	seen := make(map[uint64]struct{}, len(values))
	result := make([]uint64, 0, len(values))

	for _, v := range values {
		if _, exists := seen[v]; exists {
			continue
		}
		seen[v] = struct{}{}
		result = append(result, v)
	}

	return result
}
