package dto

import (
	"time"

	"github.com/protrack/protrack-api/internal/models"
	"github.com/protrack/protrack-api/internal/utils"
)

// TaskDTO represents a task in API responses
type TaskDTO struct {
	ID             uint64              `json:"id"`
	Title          string              `json:"title"`
	Description    string              `json:"description"`
	ProjectID      uint64              `json:"project_id"`
	ProjectName    string              `json:"project_name,omitempty"`
	AssignedToID   *uint64             `json:"assigned_to_id"`
	AssignedTo     *UserDTO            `json:"assigned_to,omitempty"`
	AssignedByID   uint64              `json:"assigned_by_id"`
	AssignedBy     *UserDTO            `json:"assigned_by,omitempty"`
	Status         models.TaskStatus   `json:"status"`
	Priority       models.TaskPriority `json:"priority"`
	EstimatedHours *float64            `json:"estimated_hours"`
	ActualHours    float64             `json:"actual_hours"`
	StartDate      *time.Time          `json:"start_date"`
	DueDate        *time.Time          `json:"due_date"`
	CompletedDate  *time.Time          `json:"completed_date"`
	CreatedAt      time.Time           `json:"created_at"`
	UpdatedAt      time.Time           `json:"updated_at"`
	History        []TaskHistoryDTO    `json:"history,omitempty"`
}

// TaskHistoryDTO represents one audit entry in API responses
type TaskHistoryDTO struct {
	ID        uint64    `json:"id"`
	FieldName string    `json:"field_name"`
	OldValue  *string   `json:"old_value"`
	NewValue  *string   `json:"new_value"`
	Comment   *string   `json:"comment"`
	ChangedAt time.Time `json:"changed_at"`
	ChangedBy *UserDTO  `json:"changed_by,omitempty"`
}

// CreateTaskRequest is the payload for creating a task. The initial status
// is derived server-side and cannot be supplied.
type CreateTaskRequest struct {
	Title          string     `json:"title" binding:"required,max=300"`
	Description    string     `json:"description"`
	ProjectID      uint64     `json:"project_id" binding:"required"`
	AssignedToID   *uint64    `json:"assigned_to_id"`
	Priority       string     `json:"priority" binding:"omitempty,oneof=Low Medium High Critical"`
	EstimatedHours *float64   `json:"estimated_hours"`
	StartDate      *time.Time `json:"start_date"`
	DueDate        *time.Time `json:"due_date"`
}

// UpdateTaskRequest is the full-replace update payload
type UpdateTaskRequest struct {
	Title          string     `json:"title" binding:"required,max=300"`
	Description    string     `json:"description"`
	AssignedToID   *uint64    `json:"assigned_to_id"`
	Status         string     `json:"status" binding:"required,oneof=NotAssigned Assigned InProgress Completed Tested Closed"`
	Priority       string     `json:"priority" binding:"required,oneof=Low Medium High Critical"`
	EstimatedHours *float64   `json:"estimated_hours"`
	StartDate      *time.Time `json:"start_date"`
	DueDate        *time.Time `json:"due_date"`
}

// UpdateTaskStatusRequest is the narrow status-change payload
type UpdateTaskStatusRequest struct {
	Status      string   `json:"status" binding:"required,oneof=NotAssigned Assigned InProgress Completed Tested Closed"`
	ActualHours *float64 `json:"actual_hours"`
	Comment     *string  `json:"comment"`
}

// TaskListResponse is the paginated list envelope
type TaskListResponse struct {
	Tasks      []TaskDTO                `json:"tasks"`
	Pagination utils.PaginationResponse `json:"pagination"`
}

// ToTaskDTO converts a TaskItem model to TaskDTO
func ToTaskDTO(task models.TaskItem) TaskDTO {
	dto := TaskDTO{
		ID:             task.ID,
		Title:          task.Title,
		Description:    task.Description,
		ProjectID:      task.ProjectID,
		AssignedToID:   task.AssignedToID,
		AssignedByID:   task.AssignedByID,
		Status:         task.Status,
		Priority:       task.Priority,
		EstimatedHours: task.EstimatedHours,
		ActualHours:    task.ActualHours,
		StartDate:      task.StartDate,
		DueDate:        task.DueDate,
		CompletedDate:  task.CompletedDate,
		CreatedAt:      task.CreatedAt,
		UpdatedAt:      task.UpdatedAt,
	}

	// Include relations if preloaded
	if task.Project.ID != 0 {
		dto.ProjectName = task.Project.Name
	}
	if task.AssignedTo != nil && task.AssignedTo.ID != 0 {
		assignee := ToUserDTO(*task.AssignedTo)
		dto.AssignedTo = &assignee
	}
	if task.AssignedBy.ID != 0 {
		assigner := ToUserDTO(task.AssignedBy)
		dto.AssignedBy = &assigner
	}

	if len(task.History) > 0 {
		dto.History = make([]TaskHistoryDTO, len(task.History))
		for i, h := range task.History {
			dto.History[i] = ToTaskHistoryDTO(h)
		}
	}

	return dto
}

// ToTaskHistoryDTO converts a TaskHistory model
func ToTaskHistoryDTO(entry models.TaskHistory) TaskHistoryDTO {
	dto := TaskHistoryDTO{
		ID:        entry.ID,
		FieldName: entry.FieldName,
		OldValue:  entry.OldValue,
		NewValue:  entry.NewValue,
		Comment:   entry.Comment,
		ChangedAt: entry.ChangedAt,
	}
	if entry.ChangedBy.ID != 0 {
		changedBy := ToUserDTO(entry.ChangedBy)
		dto.ChangedBy = &changedBy
	}
	return dto
}

// ToTaskDTOs converts a slice of TaskItem models
func ToTaskDTOs(tasks []models.TaskItem) []TaskDTO {
	dtos := make([]TaskDTO, len(tasks))
	for i, t := range tasks {
		dtos[i] = ToTaskDTO(t)
	}
	return dtos
}
