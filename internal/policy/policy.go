// Package policy centralizes every role-based authorization decision as a set
// of pure functions. Services consult these before touching the repository;
// nothing in this package reads state.
package policy

import (
	"errors"

	"github.com/protrack/protrack-api/internal/models"
)

var (
	// ErrDenied means the actor is authenticated but not allowed.
	ErrDenied = errors.New("access denied")
	// ErrSelfDelete means an actor tried to delete their own account.
	ErrSelfDelete = errors.New("cannot delete your own account")
	// ErrAdminTarget means the operation targeted an Admin account.
	ErrAdminTarget = errors.New("cannot delete Admin user")
	// ErrAdminCreation means the operation would create or promote an Admin.
	ErrAdminCreation = errors.New("cannot create another Admin user")
)

// CanManageUsers reports whether the actor may use the user-management
// surface at all.
func CanManageUsers(actor models.Role) bool {
	return actor == models.RoleAdmin || actor == models.RoleManager
}

// CanActOnUser reports whether the actor may see or mutate the target user.
// Managers are limited to targets with role User.
func CanActOnUser(actor, target models.Role) bool {
	if actor == models.RoleAdmin {
		return true
	}
	return actor == models.RoleManager && target == models.RoleUser
}

// CheckCreateUser validates the role an actor wants to give a new account.
// Creating an Admin is denied for everyone, including Admins.
func CheckCreateUser(actor, newRole models.Role) error {
	if !CanManageUsers(actor) {
		return ErrDenied
	}
	if newRole == models.RoleAdmin {
		return ErrAdminCreation
	}
	if actor == models.RoleManager && newRole != models.RoleUser {
		return ErrDenied
	}
	return nil
}

// CheckDeleteUser validates a (soft) user deletion. Self-deletion and Admin
// targets are rejected outright; Managers may only delete role-User accounts.
func CheckDeleteUser(actorID uint64, actor models.Role, targetID uint64, target models.Role) error {
	if !CanManageUsers(actor) {
		return ErrDenied
	}
	if actorID == targetID {
		return ErrSelfDelete
	}
	if actor == models.RoleManager && target != models.RoleUser {
		return ErrDenied
	}
	if target == models.RoleAdmin {
		return ErrAdminTarget
	}
	return nil
}

// CanCreateProject reports whether the actor may create projects. Who ends
// up managing the new project is decided by ResolveProjectManager.
func CanCreateProject(actor models.Role) bool {
	return actor == models.RoleAdmin || actor == models.RoleManager
}

// CanViewProject reports whether the actor may read a project. isMember is
// the actor's membership in the project's ProjectUsers set.
func CanViewProject(actorID uint64, actor models.Role, managerID uint64, isMember bool) bool {
	switch actor {
	case models.RoleAdmin:
		return true
	case models.RoleManager:
		return managerID == actorID
	default:
		return isMember
	}
}

// CheckModifyProject validates create/update/delete/assign-users on a
// project. Only Admin or the owning Manager qualify.
func CheckModifyProject(actorID uint64, actor models.Role, managerID uint64) error {
	if actor == models.RoleAdmin {
		return nil
	}
	if actor == models.RoleManager && managerID == actorID {
		return nil
	}
	return ErrDenied
}

// ResolveProjectManager decides the ManagerID for a new or reassigned
// project. A Manager is always forced to themselves regardless of payload;
// only an Admin may pick an arbitrary manager.
func ResolveProjectManager(actorID uint64, actor models.Role, requested *uint64) uint64 {
	if actor == models.RoleManager {
		return actorID
	}
	if requested != nil {
		return *requested
	}
	return actorID
}

// CheckModifyTask validates create/update/delete on a task within the
// project owned by managerID.
func CheckModifyTask(actorID uint64, actor models.Role, managerID uint64) error {
	if actor == models.RoleAdmin {
		return nil
	}
	if actor == models.RoleManager && managerID == actorID {
		return nil
	}
	return ErrDenied
}

// CheckUpdateTaskStatus validates the narrow status-update operation. The
// assigned User may move their own task; otherwise the task-modification
// rules apply.
func CheckUpdateTaskStatus(actorID uint64, actor models.Role, managerID uint64, assignedToID *uint64) error {
	if actor == models.RoleUser {
		if assignedToID != nil && *assignedToID == actorID {
			return nil
		}
		return ErrDenied
	}
	return CheckModifyTask(actorID, actor, managerID)
}

// CanViewTask reports whether the actor may read a task.
func CanViewTask(actorID uint64, actor models.Role, managerID uint64, assignedToID *uint64) bool {
	switch actor {
	case models.RoleAdmin:
		return true
	case models.RoleManager:
		return managerID == actorID
	default:
		return assignedToID != nil && *assignedToID == actorID
	}
}

// Scope narrows list queries to what a role may see. Exactly one of the
// fields is set for non-admin actors.
type Scope struct {
	All bool
	// ManagerID restricts to projects managed by this user (and their tasks).
	ManagerID *uint64
	// MemberID restricts projects to ones the user belongs to; for tasks it
	// restricts to tasks assigned to the user.
	MemberID *uint64
}

// ListScope returns the visibility scope for the actor, shared by project
// lists, task lists, and the dashboard.
func ListScope(actorID uint64, actor models.Role) Scope {
	switch actor {
	case models.RoleAdmin:
		return Scope{All: true}
	case models.RoleManager:
		id := actorID
		return Scope{ManagerID: &id}
	default:
		id := actorID
		return Scope{MemberID: &id}
	}
}
