package models

import "time"

type ProjectStatus string

const (
	ProjectStatusActive    ProjectStatus = "Active"
	ProjectStatusOnHold    ProjectStatus = "OnHold"
	ProjectStatusCompleted ProjectStatus = "Completed"
	ProjectStatusCancelled ProjectStatus = "Cancelled"
)

type Project struct {
	ID          uint64        `gorm:"primarykey" json:"id"`
	Name        string        `gorm:"type:varchar(200);not null" json:"name"`
	Description string        `gorm:"type:text" json:"description"`
	StartDate   *time.Time    `json:"start_date"`
	EndDate     *time.Time    `json:"end_date"`
	Status      ProjectStatus `gorm:"type:varchar(20);not null;default:'Active'" json:"status"`
	ManagerID   uint64        `gorm:"not null" json:"manager_id"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`

	// Relations
	Manager User          `gorm:"foreignKey:ManagerID" json:"manager,omitempty"`
	Members []ProjectUser `gorm:"foreignKey:ProjectID" json:"members,omitempty"`
	Tasks   []TaskItem    `gorm:"foreignKey:ProjectID" json:"tasks,omitempty"`
}
