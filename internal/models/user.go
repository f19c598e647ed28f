package models

import "time"

type Role string

const (
	RoleAdmin   Role = "Admin"
	RoleManager Role = "Manager"
	RoleUser    Role = "User"
)

// ParseRole converts a raw role string into a Role, reporting whether it
// names one of the three known tiers.
func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleAdmin, RoleManager, RoleUser:
		return Role(s), true
	}
	return "", false
}

type User struct {
	ID           uint64    `gorm:"primarykey" json:"id"`
	Username     string    `gorm:"type:varchar(100);uniqueIndex;not null" json:"username"`
	Email        string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"type:varchar(500);not null" json:"-"`
	FirstName    string    `gorm:"type:varchar(100);not null" json:"first_name"`
	LastName     string    `gorm:"type:varchar(100);not null" json:"last_name"`
	Role         Role      `gorm:"type:varchar(20);not null;default:'User'" json:"role"`
	IsActive     bool      `gorm:"not null;default:true" json:"is_active"`
	CreatedBy    *uint64   `json:"created_by,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	// Relations
	ManagedProjects []Project      `gorm:"foreignKey:ManagerID" json:"-"`
	Memberships     []ProjectUser  `gorm:"foreignKey:UserID" json:"-"`
	AssignedTasks   []TaskItem     `gorm:"foreignKey:AssignedToID" json:"-"`
	CreatedTasks    []TaskItem     `gorm:"foreignKey:AssignedByID" json:"-"`
	RefreshTokens   []RefreshToken `gorm:"foreignKey:UserID" json:"-"`
}
