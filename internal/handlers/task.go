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
	"github.com/protrack/protrack-api/internal/utils"
)

type TaskHandler struct {
	taskService *services.TaskService
	logger      *logrus.Logger
}

func NewTaskHandler(taskService *services.TaskService, logger *logrus.Logger) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
		logger:      logger,
	}
}

// ListTasks returns tasks within the actor's scope. Optional filters:
// project_id, status, assigned_to; paginated with page/limit.
func (h *TaskHandler) ListTasks(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	input := services.ListTasksInput{}

	if raw := c.Query("project_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			apierrors.BadRequest(c, "Invalid project_id")
			return
		}
		input.ProjectID = &id
	}
	if raw := c.Query("status"); raw != "" {
		if !models.ValidTaskStatus(raw) {
			apierrors.BadRequest(c, "Invalid status filter")
			return
		}
		status := models.TaskStatus(raw)
		input.Status = &status
	}
	if raw := c.Query("assigned_to"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			apierrors.BadRequest(c, "Invalid assigned_to")
			return
		}
		input.AssignedToID = &id
	}

	params := utils.GetPaginationParams(c)
	input.Page = params.Page
	input.PageSize = params.Limit

	tasks, total, err := h.taskService.ListTasks(actor, input)
	if err != nil {
		h.respondTaskError(c, err, "failed to list tasks")
		return
	}

	c.JSON(http.StatusOK, dto.TaskListResponse{
		Tasks: dto.ToTaskDTOs(tasks),
		Pagination: utils.PaginationResponse{
			Page:  params.Page,
			Limit: params.Limit,
			Total: total,
		},
	})
}

// GetTask returns one task with its full history
func (h *TaskHandler) GetTask(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	id, err := parseID(c, "id")
	if err != nil {
		apierrors.BadRequest(c, "Invalid task ID")
		return
	}

	task, err := h.taskService.GetTask(actor, id)
	if err != nil {
		h.respondTaskError(c, err, "failed to get task")
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

// CreateTask creates a task. The initial status is derived from the assignee
// server-side; a status in the payload is ignored by the request shape.
func (h *TaskHandler) CreateTask(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	var req dto.CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	task, err := h.taskService.CreateTask(actor, services.CreateTaskInput{
		Title:          req.Title,
		Description:    req.Description,
		ProjectID:      req.ProjectID,
		AssignedToID:   req.AssignedToID,
		Priority:       models.TaskPriority(req.Priority),
		EstimatedHours: req.EstimatedHours,
		StartDate:      req.StartDate,
		DueDate:        req.DueDate,
	})
	if err != nil {
		h.respondTaskError(c, err, "failed to create task")
		return
	}

	c.JSON(http.StatusCreated, dto.ToTaskDTO(*task))
}

// UpdateTask replaces the mutable fields of a task and records one history
// row per changed tracked field
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	id, err := parseID(c, "id")
	if err != nil {
		apierrors.BadRequest(c, "Invalid task ID")
		return
	}

	var req dto.UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	task, err := h.taskService.UpdateTask(actor, id, services.UpdateTaskInput{
		Title:          req.Title,
		Description:    req.Description,
		AssignedToID:   req.AssignedToID,
		Status:         models.TaskStatus(req.Status),
		Priority:       models.TaskPriority(req.Priority),
		EstimatedHours: req.EstimatedHours,
		StartDate:      req.StartDate,
		DueDate:        req.DueDate,
	})
	if err != nil {
		h.respondTaskError(c, err, "failed to update task")
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

// UpdateTaskStatus changes only the status (and optionally actual hours),
// recording a single Status history row with the optional comment
func (h *TaskHandler) UpdateTaskStatus(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	id, err := parseID(c, "id")
	if err != nil {
		apierrors.BadRequest(c, "Invalid task ID")
		return
	}

	var req dto.UpdateTaskStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	task, err := h.taskService.UpdateTaskStatus(actor, id, services.UpdateTaskStatusInput{
		Status:      models.TaskStatus(req.Status),
		ActualHours: req.ActualHours,
		Comment:     req.Comment,
	})
	if err != nil {
		h.respondTaskError(c, err, "failed to update task status")
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

// DeleteTask removes a task together with its history rows
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		return
	}

	id, err := parseID(c, "id")
	if err != nil {
		apierrors.BadRequest(c, "Invalid task ID")
		return
	}

	if err := h.taskService.DeleteTask(actor, id); err != nil {
		h.respondTaskError(c, err, "failed to delete task")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Task deleted successfully"})
}

func (h *TaskHandler) respondTaskError(c *gin.Context, err error, logMsg string) {
	switch {
	case errors.Is(err, policy.ErrDenied):
		apierrors.Forbidden(c, "")
	case errors.Is(err, services.ErrTaskNotFound):
		apierrors.NotFound(c, "Task not found")
	case errors.Is(err, services.ErrProjectNotFound):
		apierrors.NotFound(c, "Project not found")
	case errors.Is(err, services.ErrAssigneeNotFound):
		apierrors.NotFound(c, "Assigned user not found")
	case errors.Is(err, services.ErrAssigneeNotInProject):
		apierrors.InvalidOperation(c, "User is not assigned to this project")
	default:
		h.logger.WithError(err).Error(logMsg)
		apierrors.InternalError(c, "")
	}
}
