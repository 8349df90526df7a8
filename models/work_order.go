package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// WorkOrder is scheduled field work (pruning, removal, treatment) against a tree.
type WorkOrder struct {
	ID              string         `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	TreeID          string         `json:"tree_id" gorm:"type:uuid;not null;index"`
	InspectionID    *string        `json:"inspection_id" gorm:"type:uuid"`
	WorkType        string         `json:"work_type" gorm:"size:50;not null"`
	Priority        string         `json:"priority" gorm:"size:20;not null;default:'medium';index"`
	Status          string         `json:"status" gorm:"size:20;not null;default:'pending';index"`
	Description     *string        `json:"description" gorm:"type:text"`
	Specifications  datatypes.JSON `json:"specifications" gorm:"type:jsonb;default:'{}'"`
	AssignedTo      *string        `json:"assigned_to" gorm:"type:uuid;index"`
	ScheduledDate   *time.Time     `json:"scheduled_date" gorm:"type:date;index"`
	CompletedAt     *time.Time     `json:"completed_at"`
	EstimatedHours  *float64       `json:"estimated_hours" gorm:"type:decimal(5,2)"`
	ActualHours     *float64       `json:"actual_hours" gorm:"type:decimal(5,2)"`
	CompletionNotes *string        `json:"completion_notes" gorm:"type:text"`
	CreatedBy       string         `json:"created_by" gorm:"type:uuid;not null"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `json:"-" gorm:"index"`

	Tree       Tree        `json:"-" gorm:"foreignKey:TreeID;constraint:OnDelete:CASCADE"`
	Inspection *Inspection `json:"-" gorm:"foreignKey:InspectionID;constraint:OnDelete:SET NULL"`
	Logs       []WorkLog   `json:"logs,omitempty" gorm:"foreignKey:WorkOrderID;constraint:OnDelete:CASCADE"`
}

// WorkLog is an audit entry against a work order.
type WorkLog struct {
	ID          string         `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	WorkOrderID string         `json:"work_order_id" gorm:"type:uuid;not null;index"`
	LoggedBy    *string        `json:"logged_by" gorm:"type:uuid;index"`
	Action      string         `json:"action" gorm:"size:50;not null"` // status_change, note_added, photo_added, work_performed
	Description *string        `json:"description" gorm:"type:text"`
	OldValues   datatypes.JSON `json:"old_values" gorm:"type:jsonb;default:'{}'"`
	NewValues   datatypes.JSON `json:"new_values" gorm:"type:jsonb;default:'{}'"`
	HoursLogged *float64       `json:"hours_logged" gorm:"type:decimal(5,2)"`
	LoggedAt    time.Time      `json:"logged_at" gorm:"not null;default:now();index"`

	Logger *User `json:"-" gorm:"foreignKey:LoggedBy;constraint:OnDelete:SET NULL"`
}
