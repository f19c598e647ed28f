package models

import "time"

type TaskStatus string

const (
	TaskStatusNotAssigned TaskStatus = "NotAssigned"
	TaskStatusAssigned    TaskStatus = "Assigned"
	TaskStatusInProgress  TaskStatus = "InProgress"
	TaskStatusCompleted   TaskStatus = "Completed"
	TaskStatusTested      TaskStatus = "Tested"
	TaskStatusClosed      TaskStatus = "Closed"
)

// Terminal reports whether the status ends the task workflow. Terminal
// statuses stamp CompletedDate and drop the task from overdue/upcoming sets.
func (s TaskStatus) Terminal() bool {
	return s == TaskStatusCompleted || s == TaskStatusTested || s == TaskStatusClosed
}

// ValidTaskStatus reports whether the raw string names a known status.
func ValidTaskStatus(s string) bool {
	switch TaskStatus(s) {
	case TaskStatusNotAssigned, TaskStatusAssigned, TaskStatusInProgress,
		TaskStatusCompleted, TaskStatusTested, TaskStatusClosed:
		return true
	}
	return false
}

type TaskPriority string

const (
	TaskPriorityLow      TaskPriority = "Low"
	TaskPriorityMedium   TaskPriority = "Medium"
	TaskPriorityHigh     TaskPriority = "High"
	TaskPriorityCritical TaskPriority = "Critical"
)

type TaskItem struct {
	ID             uint64       `gorm:"primarykey" json:"id"`
	Title          string       `gorm:"type:varchar(300);not null" json:"title"`
	Description    string       `gorm:"type:text" json:"description"`
	ProjectID      uint64       `gorm:"not null" json:"project_id"`
	AssignedToID   *uint64      `json:"assigned_to_id"`
	AssignedByID   uint64       `gorm:"not null" json:"assigned_by_id"`
	Status         TaskStatus   `gorm:"type:varchar(20);not null;default:'NotAssigned'" json:"status"`
	Priority       TaskPriority `gorm:"type:varchar(20);not null;default:'Medium'" json:"priority"`
	EstimatedHours *float64     `gorm:"type:decimal(10,2)" json:"estimated_hours"`
	ActualHours    float64      `gorm:"type:decimal(10,2);not null;default:0" json:"actual_hours"`
	StartDate      *time.Time   `json:"start_date"`
	DueDate        *time.Time   `json:"due_date"`
	CompletedDate  *time.Time   `json:"completed_date"`
	CreatedAt      time.Time    `json:"created_at"`
	UpdatedAt      time.Time    `json:"updated_at"`

	// Relations
	Project    Project       `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
	AssignedTo *User         `gorm:"foreignKey:AssignedToID" json:"assigned_to,omitempty"`
	AssignedBy User          `gorm:"foreignKey:AssignedByID" json:"assigned_by,omitempty"`
	History    []TaskHistory `gorm:"foreignKey:TaskID" json:"history,omitempty"`
}
