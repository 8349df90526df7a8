package models

import (
	"time"

	"gorm.io/datatypes"
)

// Media is a photo, video or document attached to any entity.
type Media struct {
	ID               string         `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	EntityType       string         `json:"entity_type" gorm:"size:50;not null;index:idx_media_entity,priority:1"` // tree, inspection, work_order, property
	EntityID         string         `json:"entity_id" gorm:"type:uuid;not null;index:idx_media_entity,priority:2"`
	MediaType        string         `json:"media_type" gorm:"size:20;not null;index"` // photo, video, document, report
	MimeType         *string        `json:"mime_type" gorm:"size:100"`
	OriginalFilename *string        `json:"original_filename" gorm:"size:255"`
	StoragePath      string         `json:"storage_path" gorm:"size:500;not null"`
	CdnURL           *string        `json:"cdn_url" gorm:"size:500"`
	FileSizeBytes    *int           `json:"file_size_bytes"`
	Location         GeoPoint       `json:"-" gorm:"type:geometry(Point,4326)"`
	Caption          *string        `json:"caption" gorm:"type:text"`
	Metadata         datatypes.JSON `json:"metadata" gorm:"type:jsonb;default:'{}'"`
	AIAnalysis       datatypes.JSON `json:"ai_analysis" gorm:"type:jsonb;default:'{}'"`
	UploadedBy       string         `json:"uploaded_by" gorm:"type:uuid;not null;index"`
	UploadedAt       time.Time      `json:"uploaded_at" gorm:"not null;default:now()"`
}

// TableName sets the table name for Media model
func (Media) TableName() string {
	return "media"
}

// All lists every model in dependency order for migration.
func All() []interface{} {
	return []interface{}{
		&User{},
		&Property{},
		&Zone{},
		&Tree{},
		&Inspection{},
		&Defect{},
		&WorkOrder{},
		&WorkLog{},
		&RiskAlert{},
		&Media{},
	}
}
