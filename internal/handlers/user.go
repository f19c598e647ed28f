package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/protrack/protrack-api/internal/dto"
	apierrors "github.com/protrack/protrack-api/internal/errors"
	"github.com/protrack/protrack-api/internal/middleware"
	"github.com/protrack/protrack-api/internal/models"
	"github.com/protrack/protrack-api/internal/policy"
	"github.com/protrack/protrack-api/internal/services"
)

type UserHandler struct {
	userService *services.UserService
	logger      *logrus.Logger
}

func NewUserHandler(userService *services.UserService, logger *logrus.Logger) *UserHandler {
	return &UserHandler{
		userService: userService,
		logger:      logger,
	}
}

// ListUsers returns the users visible to the current role. Admins may filter
// with ?role=, Managers always get role-User accounts only.
func (h *UserHandler) ListUsers(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	var roleFilter *models.Role
	if raw := c.Query("role"); raw != "" {
		role, ok := models.ParseRole(raw)
		if !ok {
			apierrors.BadRequest(c, "Invalid role filter")
			return
		}
		roleFilter = &role
	}

	users, err := h.userService.ListUsers(actor, roleFilter)
	if err != nil {
		h.respondUserError(c, err, "failed to list users")
		return
	}

	c.JSON(http.StatusOK, gin.H{"users": dto.ToUserDTOs(users)})
}

// GetUser returns a single user by ID
func (h *UserHandler) GetUser(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	id, err := parseID(c, "id")
	if err != nil {
		apierrors.BadRequest(c, "Invalid user ID")
		return
	}

	user, err := h.userService.GetUser(actor, id)
	if err != nil {
		h.respondUserError(c, err, "failed to get user")
		return
	}

	c.JSON(http.StatusOK, dto.ToUserDTO(*user))
}

// CreateUser creates a new account
func (h *UserHandler) CreateUser(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	var req dto.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	role, ok := models.ParseRole(req.Role)
	if !ok {
		apierrors.BadRequest(c, "Invalid role")
		return
	}

	user, err := h.userService.CreateUser(actor, services.CreateUserInput{
		Username:  req.Username,
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Role:      role,
	})
	if err != nil {
		h.respondUserError(c, err, "failed to create user")
		return
	}

	c.JSON(http.StatusCreated, dto.ToUserDTO(*user))
}

// UpdateUser updates profile fields and optionally the password. The role of
// an account never changes through this endpoint.
func (h *UserHandler) UpdateUser(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	id, err := parseID(c, "id")
	if err != nil {
		apierrors.BadRequest(c, "Invalid user ID")
		return
	}

	var req dto.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	user, err := h.userService.UpdateUser(actor, id, services.UpdateUserInput{
		Username:  req.Username,
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		h.respondUserError(c, err, "failed to update user")
		return
	}

	c.JSON(http.StatusOK, dto.ToUserDTO(*user))
}

// DeleteUser deactivates an account (soft delete)
func (h *UserHandler) DeleteUser(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	id, err := parseID(c, "id")
	if err != nil {
		apierrors.BadRequest(c, "Invalid user ID")
		return
	}

	if err := h.userService.DeleteUser(actor, id); err != nil {
		h.respondUserError(c, err, "failed to delete user")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "User deactivated successfully"})
}

func (h *UserHandler) respondUserError(c *gin.Context, err error, logMsg string) {
	switch {
	case errors.Is(err, policy.ErrDenied):
		apierrors.Forbidden(c, "")
	case errors.Is(err, policy.ErrSelfDelete):
		apierrors.InvalidOperation(c, "You cannot delete your own account")
	case errors.Is(err, policy.ErrAdminTarget):
		apierrors.InvalidOperation(c, "Admin accounts cannot be modified through this endpoint")
	case errors.Is(err, policy.ErrAdminCreation):
		apierrors.InvalidOperation(c, "Cannot create another Admin user")
	case errors.Is(err, services.ErrUserNotFound):
		apierrors.NotFound(c, "User not found")
	case errors.Is(err, services.ErrUsernameTaken):
		apierrors.Conflict(c, "Username already exists")
	case errors.Is(err, services.ErrEmailTaken):
		apierrors.Conflict(c, "Email already exists")
	default:
		h.logger.WithError(err).Error(logMsg)
		apierrors.InternalError(c, "")
	}
}

// parseID parses a numeric path parameter
func parseID(c *gin.Context, name string) (uint64, error) {
	return strconv.ParseUint(c.Param(name), 10, 64)
}
