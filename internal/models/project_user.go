package models

import "time"

// ProjectUser links a role-User user to a project. Membership is unique per
// (project, user) pair.
type ProjectUser struct {
	ID           uint64    `gorm:"primarykey" json:"id"`
	ProjectID    uint64    `gorm:"not null;uniqueIndex:idx_project_user" json:"project_id"`
	UserID       uint64    `gorm:"not null;uniqueIndex:idx_project_user" json:"user_id"`
	AssignedDate time.Time `json:"assigned_date"`

	// Relations
	Project Project `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
	User    User    `gorm:"foreignKey:UserID" json:"user,omitempty"`
}
