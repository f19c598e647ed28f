package repository

import (
	"time"

	"github.com/protrack/protrack-api/internal/models"
	"github.com/protrack/protrack-api/internal/policy"
)

// UserFilter holds filtering options for listing users
type UserFilter struct {
	Role *models.Role
}

// TaskFilter holds filtering and pagination options for listing tasks
type TaskFilter struct {
	Scope        policy.Scope
	ProjectID    *uint64
	Status       *models.TaskStatus
	AssignedToID *uint64
	Page         int
	PageSize     int
}

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(user *models.User) error

	// FindByID finds a user by ID
	FindByID(id uint64) (*models.User, error)

	// FindActiveByUsername finds a non-deactivated user by username
	FindActiveByUsername(username string) (*models.User, error)

	// FindByIDs returns the users matching the given IDs
	FindByIDs(ids []uint64) ([]models.User, error)

	// List retrieves users, optionally filtered by role, ordered by name
	List(filter UserFilter) ([]models.User, error)

	// Update updates a user
	Update(user *models.User) error

	// UsernameExists reports whether any user other than excludeID holds the
	// username, including deactivated rows
	UsernameExists(username string, excludeID uint64) (bool, error)

	// EmailExists reports whether any user other than excludeID holds the
	// email, including deactivated rows
	EmailExists(email string, excludeID uint64) (bool, error)

	// CountByRoles counts users holding any of the given roles
	CountByRoles(roles []models.Role, activeOnly bool) (int64, error)
}

// ProjectRepository defines the interface for project data access
type ProjectRepository interface {
	// Create creates a new project
	Create(project *models.Project) error

	// FindByID finds a project by ID with optional preloading
	FindByID(id uint64, preload ...string) (*models.Project, error)

	// List retrieves the projects visible in the scope, newest first
	List(scope policy.Scope) ([]models.Project, error)

	// Update updates a project
	Update(project *models.Project) error

	// Delete removes a project together with its tasks, task history, and
	// memberships in one transaction
	Delete(id uint64) error

	// ReplaceMembers atomically swaps the full membership set of a project
	ReplaceMembers(projectID uint64, members []models.ProjectUser) error

	// ListMembers lists the memberships of a project with users preloaded
	ListMembers(projectID uint64) ([]models.ProjectUser, error)

	// IsMember reports whether the user belongs to the project
	IsMember(projectID, userID uint64) (bool, error)

	// CountDistinctMembers counts distinct member users across the projects
	CountDistinctMembers(projectIDs []uint64, activeOnly bool) (int64, error)
}

// TaskRepository defines the interface for task data access
type TaskRepository interface {
	// Create creates a new task
	Create(task *models.TaskItem) error

	// FindByID finds a task by ID with optional preloading
	FindByID(id uint64, preload ...string) (*models.TaskItem, error)

	// List retrieves tasks visible in the filter's scope with pagination
	List(filter TaskFilter) ([]models.TaskItem, int64, error)

	// Update updates a task
	Update(task *models.TaskItem) error

	// Delete removes a task and its history rows in one transaction
	Delete(id uint64) error

	// AddHistory appends an audit row for a task mutation
	AddHistory(entry *models.TaskHistory) error

	// ListRecent returns the most recently created tasks in scope
	ListRecent(scope policy.Scope, limit int) ([]models.TaskItem, error)

	// ListUpcoming returns non-terminal tasks due on or after from,
	// soonest first
	ListUpcoming(scope policy.Scope, from time.Time, limit int) ([]models.TaskItem, error)
}

// RefreshTokenRepository defines the interface for refresh-token data access
type RefreshTokenRepository interface {
	// Create persists a new refresh token row
	Create(token *models.RefreshToken) error

	// FindByToken finds a token by its opaque string with the user preloaded
	FindByToken(token string) (*models.RefreshToken, error)

	// Revoke marks a single token revoked
	Revoke(token *models.RefreshToken, now time.Time) error

	// Rotate revokes the old token and inserts its replacement atomically
	Rotate(old *models.RefreshToken, replacement *models.RefreshToken) error

	// RevokeAllForUser marks every unrevoked token of the user revoked
	RevokeAllForUser(userID uint64, now time.Time) error
}
