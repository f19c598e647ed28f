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
	ErrTaskNotFound         = errors.New("task not found")
	ErrAssigneeNotFound     = errors.New("assigned user not found")
	ErrAssigneeNotInProject = errors.New("user is not assigned to this project")
)

// unassignedSentinel is the audit-trail value used when a task has no
// assignee on either side of an AssignedTo change.
const unassignedSentinel = "Unassigned"

// TaskService enforces the access policy before every task mutation,
// maintains referential invariants, and emits the audit history.
type TaskService struct {
	taskRepo    repository.TaskRepository
	projectRepo repository.ProjectRepository
	userRepo    repository.UserRepository
}

// NewTaskService creates a new TaskService.
func NewTaskService(taskRepo repository.TaskRepository, projectRepo repository.ProjectRepository, userRepo repository.UserRepository) *TaskService {
	return &TaskService{
		taskRepo:    taskRepo,
		projectRepo: projectRepo,
		userRepo:    userRepo,
	}
}

// ListTasksInput represents filters for listing tasks.
type ListTasksInput struct {
	ProjectID    *uint64
	Status       *models.TaskStatus
	AssignedToID *uint64
	Page         int
	PageSize     int
}

// CreateTaskInput represents input for creating a task.
type CreateTaskInput struct {
	Title          string
	Description    string
	ProjectID      uint64
	AssignedToID   *uint64
	Priority       models.TaskPriority
	EstimatedHours *float64
	StartDate      *time.Time
	DueDate        *time.Time
}

// UpdateTaskInput represents the full-replace update payload.
type UpdateTaskInput struct {
	Title          string
	Description    string
	AssignedToID   *uint64
	Status         models.TaskStatus
	Priority       models.TaskPriority
	EstimatedHours *float64
	StartDate      *time.Time
	DueDate        *time.Time
}

// UpdateTaskStatusInput represents the narrow status-change payload.
type UpdateTaskStatusInput struct {
	Status      models.TaskStatus
	ActualHours *float64
	Comment     *string
}

// ListTasks returns the tasks visible to the actor: all of them for Admin,
// tasks in managed projects for Manager, own assigned tasks for User.
func (s *TaskService) ListTasks(actor Actor, input ListTasksInput) ([]models.TaskItem, int64, error) {
	filter := repository.TaskFilter{
		Scope:        policy.ListScope(actor.ID, actor.Role),
		ProjectID:    input.ProjectID,
		Status:       input.Status,
		AssignedToID: input.AssignedToID,
		Page:         input.Page,
		PageSize:     input.PageSize,
	}

	tasks, total, err := s.taskRepo.List(filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list tasks: %w", err)
	}

	return tasks, total, nil
}

// GetTask returns one task with its history if the actor may see it.
func (s *TaskService) GetTask(actor Actor, id uint64) (*models.TaskItem, error) {
	task, err := s.taskRepo.FindByID(id,
		"Project", "AssignedTo", "AssignedBy", "History", "History.ChangedBy")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	if !policy.CanViewTask(actor.ID, actor.Role, task.Project.ManagerID, task.AssignedToID) {
		return nil, policy.ErrDenied
	}

	return task, nil
}

// CreateTask creates a task inside an existing project. The initial status
// is derived from the assignee, never taken from the caller. One "Created"
// history row is recorded.
func (s *TaskService) CreateTask(actor Actor, input CreateTaskInput) (*models.TaskItem, error) {
	project, err := s.projectRepo.FindByID(input.ProjectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to find project: %w", err)
	}

	if err := policy.CheckModifyTask(actor.ID, actor.Role, project.ManagerID); err != nil {
		return nil, err
	}

	if input.AssignedToID != nil {
		if err := s.checkAssignee(input.ProjectID, *input.AssignedToID); err != nil {
			return nil, err
		}
	}

	status := models.TaskStatusNotAssigned
	if input.AssignedToID != nil {
		status = models.TaskStatusAssigned
	}

	priority := input.Priority
	if priority == "" {
		priority = models.TaskPriorityMedium
	}

	task := &models.TaskItem{
		Title:          input.Title,
		Description:    input.Description,
		ProjectID:      input.ProjectID,
		AssignedToID:   input.AssignedToID,
		AssignedByID:   actor.ID,
		Status:         status,
		Priority:       priority,
		EstimatedHours: input.EstimatedHours,
		ActualHours:    0,
		StartDate:      input.StartDate,
		DueDate:        input.DueDate,
	}

	if err := s.taskRepo.Create(task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	created := "Task created"
	if err := s.addHistory(task.ID, actor.ID, "Created", nil, &created, nil); err != nil {
		return nil, err
	}

	return s.taskRepo.FindByID(task.ID, "Project", "AssignedTo", "AssignedBy")
}

// UpdateTask replaces the mutable fields of a task. The tracked fields
// {Title, Status, Priority, AssignedTo} are diffed against the stored row
// before anything is applied; each changed one yields exactly one history
// row, unchanged ones yield none.
func (s *TaskService) UpdateTask(actor Actor, id uint64, input UpdateTaskInput) (*models.TaskItem, error) {
	task, err := s.taskRepo.FindByID(id, "Project")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	if err := policy.CheckModifyTask(actor.ID, actor.Role, task.Project.ManagerID); err != nil {
		return nil, err
	}

	if input.AssignedToID != nil && !equalID(task.AssignedToID, input.AssignedToID) {
		if err := s.checkAssignee(task.ProjectID, *input.AssignedToID); err != nil {
			return nil, err
		}
	}

	type change struct {
		field    string
		oldValue string
		newValue string
	}
	var changes []change

	if task.Title != input.Title {
		changes = append(changes, change{"Title", task.Title, input.Title})
	}
	if task.Status != input.Status {
		changes = append(changes, change{"Status", string(task.Status), string(input.Status)})
	}
	if task.Priority != input.Priority {
		changes = append(changes, change{"Priority", string(task.Priority), string(input.Priority)})
	}
	if !equalID(task.AssignedToID, input.AssignedToID) {
		oldName, err := s.assigneeName(task.AssignedToID)
		if err != nil {
			return nil, err
		}
		newName, err := s.assigneeName(input.AssignedToID)
		if err != nil {
			return nil, err
		}
		changes = append(changes, change{"AssignedTo", oldName, newName})
	}

	task.Title = input.Title
	task.Description = input.Description
	task.AssignedToID = input.AssignedToID
	task.Status = input.Status
	task.Priority = input.Priority
	task.EstimatedHours = input.EstimatedHours
	task.StartDate = input.StartDate
	task.DueDate = input.DueDate

	if input.Status.Terminal() {
		now := time.Now()
		task.CompletedDate = &now
	}

	if err := s.taskRepo.Update(task); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	for _, ch := range changes {
		oldValue, newValue := ch.oldValue, ch.newValue
		if err := s.addHistory(task.ID, actor.ID, ch.field, &oldValue, &newValue, nil); err != nil {
			return nil, err
		}
	}

	return s.taskRepo.FindByID(task.ID, "Project", "AssignedTo", "AssignedBy")
}

// UpdateTaskStatus is the narrow endpoint: it touches Status, optionally
// ActualHours, and the CompletedDate stamp. It always records exactly one
// Status history row, carrying the optional comment.
func (s *TaskService) UpdateTaskStatus(actor Actor, id uint64, input UpdateTaskStatusInput) (*models.TaskItem, error) {
	task, err := s.taskRepo.FindByID(id, "Project")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	if err := policy.CheckUpdateTaskStatus(actor.ID, actor.Role, task.Project.ManagerID, task.AssignedToID); err != nil {
		return nil, err
	}

	oldStatus := string(task.Status)
	task.Status = input.Status

	if input.ActualHours != nil {
		task.ActualHours = *input.ActualHours
	}

	if input.Status.Terminal() {
		now := time.Now()
		task.CompletedDate = &now
	}

	if err := s.taskRepo.Update(task); err != nil {
		return nil, fmt.Errorf("failed to update task status: %w", err)
	}

	newStatus := string(input.Status)
	if err := s.addHistory(task.ID, actor.ID, "Status", &oldStatus, &newStatus, input.Comment); err != nil {
		return nil, err
	}

	return s.taskRepo.FindByID(task.ID, "Project", "AssignedTo", "AssignedBy")
}

// DeleteTask hard-deletes a task together with its history rows.
func (s *TaskService) DeleteTask(actor Actor, id uint64) error {
	task, err := s.taskRepo.FindByID(id, "Project")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTaskNotFound
		}
		return fmt.Errorf("failed to find task: %w", err)
	}

	if err := policy.CheckModifyTask(actor.ID, actor.Role, task.Project.ManagerID); err != nil {
		return err
	}

	if err := s.taskRepo.Delete(id); err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}

	return nil
}

// checkAssignee verifies the assignee exists and is an active member of the
// project.
func (s *TaskService) checkAssignee(projectID, userID uint64) error {
	if _, err := s.userRepo.FindByID(userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAssigneeNotFound
		}
		return fmt.Errorf("failed to find assignee: %w", err)
	}

	isMember, err := s.projectRepo.IsMember(projectID, userID)
	if err != nil {
		return fmt.Errorf("failed to check membership: %w", err)
	}
	if !isMember {
		return ErrAssigneeNotInProject
	}

	return nil
}

// assigneeName resolves an assignee ID to a username for the audit trail.
func (s *TaskService) assigneeName(id *uint64) (string, error) {
	if id == nil {
		return unassignedSentinel, nil
	}
	user, err := s.userRepo.FindByID(*id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return unassignedSentinel, nil
		}
		return "", fmt.Errorf("failed to resolve assignee: %w", err)
	}
	return user.Username, nil
}

func (s *TaskService) addHistory(taskID, changedByID uint64, field string, oldValue, newValue, comment *string) error {
	entry := &models.TaskHistory{
		TaskID:      taskID,
		ChangedByID: changedByID,
		FieldName:   field,
		OldValue:    oldValue,
		NewValue:    newValue,
		Comment:     comment,
		ChangedAt:   time.Now(),
	}
	if err := s.taskRepo.AddHistory(entry); err != nil {
		return fmt.Errorf("failed to record task history: %w", err)
	}
	return nil
}

func equalID(a, b *uint64) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
