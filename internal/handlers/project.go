package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/protrack/protrack-api/internal/dto"
	apierrors "github.com/protrack/protrack-api/internal/errors"
	"github.com/protrack/protrack-api/internal/middleware"
	"github.com/protrack/protrack-api/internal/models"
	"github.com/protrack/protrack-api/internal/policy"
	"github.com/protrack/protrack-api/internal/services"
)

type ProjectHandler struct {
	projectService *services.ProjectService
	logger         *logrus.Logger
}

func NewProjectHandler(projectService *services.ProjectService, logger *logrus.Logger) *ProjectHandler {
	return &ProjectHandler{
		projectService: projectService,
		logger:         logger,
	}
}

// ListProjects returns the projects within the actor's scope
func (h *ProjectHandler) ListProjects(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	projects, err := h.projectService.ListProjects(actor)
	if err != nil {
		h.respondProjectError(c, err, "failed to list projects")
		return
	}

	c.JSON(http.StatusOK, gin.H{"projects": dto.ToProjectDTOs(projects)})
}

// GetProject returns one project with manager, members, and task counts
func (h *ProjectHandler) GetProject(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	id, err := parseID(c, "id")
	if err != nil {
		apierrors.BadRequest(c, "Invalid project ID")
		return
	}

	project, err := h.projectService.GetProject(actor, id)
	if err != nil {
		h.respondProjectError(c, err, "failed to get project")
		return
	}

	c.JSON(http.StatusOK, dto.ToProjectDTO(*project))
}

// CreateProject creates a project. A Manager caller always becomes the
// manager; only an Admin may name someone else.
func (h *ProjectHandler) CreateProject(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	var req dto.CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	project, err := h.projectService.CreateProject(actor, services.CreateProjectInput{
		Name:        req.Name,
		Description: req.Description,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		Status:      models.ProjectStatus(req.Status),
		ManagerID:   req.ManagerID,
	})
	if err != nil {
		h.respondProjectError(c, err, "failed to create project")
		return
	}

	c.JSON(http.StatusCreated, dto.ToProjectDTO(*project))
}

// UpdateProject updates a project's fields. Manager reassignment is honored
// for Admin callers only.
func (h *ProjectHandler) UpdateProject(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	id, err := parseID(c, "id")
	if err != nil {
		apierrors.BadRequest(c, "Invalid project ID")
		return
	}

	var req dto.UpdateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	project, err := h.projectService.UpdateProject(actor, id, services.UpdateProjectInput{
		Name:        req.Name,
		Description: req.Description,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		Status:      models.ProjectStatus(req.Status),
		ManagerID:   req.ManagerID,
	})
	if err != nil {
		h.respondProjectError(c, err, "failed to update project")
		return
	}

	c.JSON(http.StatusOK, dto.ToProjectDTO(*project))
}

// DeleteProject removes a project together with its tasks, their history,
// and its memberships
func (h *ProjectHandler) DeleteProject(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	id, err := parseID(c, "id")
	if err != nil {
		apierrors.BadRequest(c, "Invalid project ID")
		return
	}

	if err := h.projectService.DeleteProject(actor, id); err != nil {
		h.respondProjectError(c, err, "failed to delete project")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Project deleted successfully"})
}

// AssignUsers replaces the full membership set of a project. An empty list
// clears the membership.
func (h *ProjectHandler) AssignUsers(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	id, err := parseID(c, "id")
	if err != nil {
		apierrors.BadRequest(c, "Invalid project ID")
		return
	}

	var req dto.AssignUsersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	if err := h.projectService.AssignUsers(actor, id, req.UserIDs); err != nil {
		h.respondProjectError(c, err, "failed to assign users")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Users assigned successfully"})
}

// GetProjectMembers lists the users assigned to a project
func (h *ProjectHandler) GetProjectMembers(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	id, err := parseID(c, "id")
	if err != nil {
		apierrors.BadRequest(c, "Invalid project ID")
		return
	}

	users, err := h.projectService.GetProjectMembers(actor, id)
	if err != nil {
		h.respondProjectError(c, err, "failed to list project members")
		return
	}

	c.JSON(http.StatusOK, gin.H{"users": dto.ToUserDTOs(users)})
}

func (h *ProjectHandler) respondProjectError(c *gin.Context, err error, logMsg string) {
	switch {
	case errors.Is(err, policy.ErrDenied):
		apierrors.Forbidden(c, "")
	case errors.Is(err, services.ErrProjectNotFound):
		apierrors.NotFound(c, "Project not found")
	case errors.Is(err, services.ErrInvalidManager):
		apierrors.BadRequest(c, "Manager must be an existing Manager or Admin user")
	default:
		h.logger.WithError(err).Error(logMsg)
		apierrors.InternalError(c, "")
	}
}
