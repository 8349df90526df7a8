package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Inspection is a dated assessment of one tree.
type Inspection struct {
	ID                string         `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	TreeID            string         `json:"tree_id" gorm:"type:uuid;not null;index"`
	InspectorID       string         `json:"inspector_id" gorm:"type:uuid;not null;index"`
	InspectorName     *string        `json:"inspector_name" gorm:"size:255"`
	InspectorCompany  *string        `json:"inspector_company" gorm:"size:255"`
	InspectionType    string         `json:"inspection_type" gorm:"size:20;default:'routine';index;check:chk_inspections_type,inspection_type IN ('routine','emergency','post-storm','detailed','aerial')"`
	InspectionDate    time.Time      `json:"inspection_date" gorm:"type:date;not null;index"`
	Defects           datatypes.JSON `json:"defects" gorm:"type:jsonb"`
	RiskScore         int            `json:"risk_score" gorm:"default:0"`
	Notes             *string        `json:"notes" gorm:"type:text"`
	Recommendations   *string        `json:"recommendations" gorm:"type:text"`
	WeatherConditions datatypes.JSON `json:"weather_conditions" gorm:"type:jsonb"`
	Photos            datatypes.JSON `json:"photos" gorm:"type:jsonb"`
	Attachments       datatypes.JSON `json:"attachments" gorm:"type:jsonb"`
	Status            string         `json:"status" gorm:"size:20;default:'draft';index;check:chk_inspections_status,status IN ('draft','complete','reviewed')"`
	CreatedAt         time.Time      `json:"created_at"`
	UpdatedAt         time.Time      `json:"updated_at"`
	DeletedAt         gorm.DeletedAt `json:"-" gorm:"index"`

	Tree Tree `json:"-" gorm:"foreignKey:TreeID;constraint:OnDelete:CASCADE"`
}

// Defect is a structural or health finding recorded during an inspection.
type Defect struct {
	ID                string         `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	InspectionID      string         `json:"inspection_id" gorm:"type:uuid;not null;index"`
	TreeID            string         `json:"tree_id" gorm:"type:uuid;not null;index"`
	DefectType        string         `json:"defect_type" gorm:"size:50;not null;index"` // cavity, crack, deadwood, decay, lean, pest, disease
	Severity          string         `json:"severity" gorm:"size:20;not null;index"`    // minor .. critical
	LocationOnTree    *string        `json:"location_on_tree" gorm:"size:100"`
	Description       *string        `json:"description" gorm:"type:text"`
	SizeCm            *float64       `json:"size_cm"`
	HeightFromGroundM *int           `json:"height_from_ground_m"`
	Measurements      datatypes.JSON `json:"measurements" gorm:"type:jsonb;default:'{}'"`
	RequiresAction    bool           `json:"requires_action" gorm:"index"`
	RecommendedAction *string        `json:"recommended_action" gorm:"size:255"`
	CreatedAt         time.Time      `json:"created_at"`
	UpdatedAt         time.Time      `json:"updated_at"`

	Inspection Inspection `json:"-" gorm:"foreignKey:InspectionID;constraint:OnDelete:CASCADE"`
	Tree       Tree       `json:"-" gorm:"foreignKey:TreeID;constraint:OnDelete:CASCADE"`
}
