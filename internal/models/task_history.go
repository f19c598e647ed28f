package models

import "time"

// TaskHistory is an append-only audit record. Rows are written once per
// changed field per mutation and never updated or deleted afterwards.
type TaskHistory struct {
	ID          uint64    `gorm:"primarykey" json:"id"`
	TaskID      uint64    `gorm:"not null" json:"task_id"`
	ChangedByID uint64    `gorm:"not null" json:"changed_by_id"`
	FieldName   string    `gorm:"type:varchar(100);not null" json:"field_name"`
	OldValue    *string   `gorm:"type:varchar(500)" json:"old_value"`
	NewValue    *string   `gorm:"type:varchar(500)" json:"new_value"`
	Comment     *string   `gorm:"type:text" json:"comment"`
	ChangedAt   time.Time `json:"changed_at"`

	// Relations
	Task      TaskItem `gorm:"foreignKey:TaskID" json:"task,omitempty"`
	ChangedBy User     `gorm:"foreignKey:ChangedByID" json:"changed_by,omitempty"`
}
