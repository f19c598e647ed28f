package dto

import (
	"time"

	"github.com/protrack/protrack-api/internal/models"
)

// ProjectDTO represents a project in API responses
type ProjectDTO struct {
	ID                 uint64               `json:"id"`
	Name               string               `json:"name"`
	Description        string               `json:"description"`
	StartDate          *time.Time           `json:"start_date"`
	EndDate            *time.Time           `json:"end_date"`
	Status             models.ProjectStatus `json:"status"`
	ManagerID          uint64               `json:"manager_id"`
	Manager            *UserDTO             `json:"manager,omitempty"`
	AssignedUsers      []UserDTO            `json:"assigned_users"`
	TaskCount          int                  `json:"task_count"`
	CompletedTaskCount int                  `json:"completed_task_count"`
	CreatedAt          time.Time            `json:"created_at"`
}

// CreateProjectRequest is the payload for creating a project. ManagerID is
// honored for Admin callers only.
type CreateProjectRequest struct {
	Name        string     `json:"name" binding:"required,max=200"`
	Description string     `json:"description"`
	StartDate   *time.Time `json:"start_date"`
	EndDate     *time.Time `json:"end_date"`
	Status      string     `json:"status" binding:"omitempty,oneof=Active OnHold Completed Cancelled"`
	ManagerID   *uint64    `json:"manager_id"`
}

// UpdateProjectRequest is the payload for updating a project
type UpdateProjectRequest struct {
	Name        string     `json:"name" binding:"required,max=200"`
	Description string     `json:"description"`
	StartDate   *time.Time `json:"start_date"`
	EndDate     *time.Time `json:"end_date"`
	Status      string     `json:"status" binding:"omitempty,oneof=Active OnHold Completed Cancelled"`
	ManagerID   *uint64    `json:"manager_id"`
}

// AssignUsersRequest replaces the full membership set of a project
type AssignUsersRequest struct {
	UserIDs []uint64 `json:"user_ids"`
}

// ToProjectDTO converts a Project model to ProjectDTO
func ToProjectDTO(project models.Project) ProjectDTO {
	dto := ProjectDTO{
		ID:            project.ID,
		Name:          project.Name,
		Description:   project.Description,
		StartDate:     project.StartDate,
		EndDate:       project.EndDate,
		Status:        project.Status,
		ManagerID:     project.ManagerID,
		AssignedUsers: []UserDTO{},
		CreatedAt:     project.CreatedAt,
	}

	// Include manager if preloaded
	if project.Manager.ID != 0 {
		manager := ToUserDTO(project.Manager)
		dto.Manager = &manager
	}

	for _, member := range project.Members {
		if member.User.ID != 0 {
			dto.AssignedUsers = append(dto.AssignedUsers, ToUserDTO(member.User))
		}
	}

	dto.TaskCount = len(project.Tasks)
	for _, task := range project.Tasks {
		if task.Status.Terminal() {
			dto.CompletedTaskCount++
		}
	}

	return dto
}

// ToProjectDTOs converts a slice of Project models
func ToProjectDTOs(projects []models.Project) []ProjectDTO {
	dtos := make([]ProjectDTO, len(projects))
	for i, p := range projects {
		dtos[i] = ToProjectDTO(p)
	}
	return dtos
}
