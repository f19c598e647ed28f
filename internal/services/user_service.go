package services

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/protrack/protrack-api/internal/models"
	"github.com/protrack/protrack-api/internal/policy"
	"github.com/protrack/protrack-api/internal/repository"
)

var (
	ErrUserNotFound  = errors.New("user not found")
	ErrUsernameTaken = errors.New("username already exists")
	ErrEmailTaken    = errors.New("email already exists")
)

// UserService handles user management. Deletion is always a soft delete:
// the row stays and keeps its username/email reserved.
type UserService struct {
	userRepo repository.UserRepository
}

// NewUserService creates a new UserService.
func NewUserService(userRepo repository.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

// CreateUserInput represents input for creating a user.
type CreateUserInput struct {
	Username  string
	Email     string
	Password  string
	FirstName string
	LastName  string
	Role      models.Role
}

// UpdateUserInput represents input for updating a user. Password is applied
// only when non-empty; the role is never changed by an update.
type UpdateUserInput struct {
	Username  string
	Email     string
	Password  string
	FirstName string
	LastName  string
}

// ListUsers returns users visible to the actor. Managers only ever see
// role-User accounts; Admins may filter by role.
func (s *UserService) ListUsers(actor Actor, roleFilter *models.Role) ([]models.User, error) {
	if !policy.CanManageUsers(actor.Role) {
		return nil, policy.ErrDenied
	}

	filter := repository.UserFilter{}
	if actor.Role == models.RoleManager {
		role := models.RoleUser
		filter.Role = &role
	} else if roleFilter != nil {
		filter.Role = roleFilter
	}

	users, err := s.userRepo.List(filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// GetUser returns a single user if the actor's role may see them.
func (s *UserService) GetUser(actor Actor, id uint64) (*models.User, error) {
	if !policy.CanManageUsers(actor.Role) {
		return nil, policy.ErrDenied
	}

	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if !policy.CanActOnUser(actor.Role, user.Role) {
		return nil, policy.ErrDenied
	}

	return user, nil
}

// CreateUser creates an account. Username and email must be unique across
// every row, active or not.
func (s *UserService) CreateUser(actor Actor, input CreateUserInput) (*models.User, error) {
	if err := policy.CheckCreateUser(actor.Role, input.Role); err != nil {
		return nil, err
	}

	if err := s.checkUniqueness(input.Username, input.Email, 0); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	createdBy := actor.ID
	user := &models.User{
		Username:     input.Username,
		Email:        input.Email,
		PasswordHash: string(hash),
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		Role:         input.Role,
		IsActive:     true,
		CreatedBy:    &createdBy,
	}

	if err := s.userRepo.Create(user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

// UpdateUser updates profile fields and optionally the password.
func (s *UserService) UpdateUser(actor Actor, id uint64, input UpdateUserInput) (*models.User, error) {
	if !policy.CanManageUsers(actor.Role) {
		return nil, policy.ErrDenied
	}

	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if !policy.CanActOnUser(actor.Role, user.Role) {
		return nil, policy.ErrDenied
	}

	if err := s.checkUniqueness(input.Username, input.Email, user.ID); err != nil {
		return nil, err
	}

	user.Username = input.Username
	user.Email = input.Email
	user.FirstName = input.FirstName
	user.LastName = input.LastName

	if input.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		user.PasswordHash = string(hash)
	}

	if err := s.userRepo.Update(user); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	return user, nil
}

// DeleteUser deactivates an account. The row is never removed.
func (s *UserService) DeleteUser(actor Actor, id uint64) error {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to find user: %w", err)
	}

	if err := policy.CheckDeleteUser(actor.ID, actor.Role, user.ID, user.Role); err != nil {
		return err
	}

	user.IsActive = false

	if err := s.userRepo.Update(user); err != nil {
		return fmt.Errorf("failed to deactivate user: %w", err)
	}

	return nil
}

func (s *UserService) checkUniqueness(username, email string, excludeID uint64) error {
	taken, err := s.userRepo.UsernameExists(username, excludeID)
	if err != nil {
		return fmt.Errorf("failed to check username: %w", err)
	}
	if taken {
		return ErrUsernameTaken
	}

	taken, err = s.userRepo.EmailExists(email, excludeID)
	if err != nil {
		return fmt.Errorf("failed to check email: %w", err)
	}
	if taken {
		return ErrEmailTaken
	}

	return nil
}
