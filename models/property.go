package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Property is a managed site (council reserve, private block, strata) that owns trees and zones.
type Property struct {
	ID                string         `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	Name              string         `json:"name" gorm:"size:255;not null"`
	Address           *string        `json:"address" gorm:"size:500"`
	OwnerType         *string        `json:"owner_type" gorm:"size:50;index"` // council, private, commercial, strata
	OwnerName         *string        `json:"owner_name" gorm:"size:255"`
	OwnerContactEmail *string        `json:"owner_contact_email" gorm:"size:255"`
	OwnerContactPhone *string        `json:"owner_contact_phone" gorm:"size:50"`
	CouncilID         *string        `json:"council_id" gorm:"size:100;index"`
	Boundary          *string        `json:"-" gorm:"type:geometry(Polygon,4326)"`
	AreaSqm           *float64       `json:"area_sqm"`
	Metadata          datatypes.JSON `json:"metadata" gorm:"type:jsonb;default:'{}'"`
	Active            bool           `json:"active" gorm:"default:true;index"`
	CreatedAt         time.Time      `json:"created_at"`
	UpdatedAt         time.Time      `json:"updated_at"`
	DeletedAt         gorm.DeletedAt `json:"-" gorm:"index"`

	Zones []Zone `json:"zones,omitempty" gorm:"foreignKey:PropertyID;constraint:OnDelete:CASCADE"`
}

// Zone is a sub-area of a property with its own inspection priority.
type Zone struct {
	ID            string         `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	PropertyID    string         `json:"property_id" gorm:"type:uuid;not null;index"`
	Name          string         `json:"name" gorm:"size:255;not null"`
	ZoneType      *string        `json:"zone_type" gorm:"size:50;index"` // high_risk, playground, parking, building_adjacent, public_area
	Boundary      *string        `json:"-" gorm:"type:geometry(Polygon,4326)"`
	AreaSqm       *float64       `json:"area_sqm"`
	RiskFactors   datatypes.JSON `json:"risk_factors" gorm:"type:jsonb;default:'{}'"`
	PriorityLevel *int           `json:"priority_level" gorm:"index"` // 1-5
	Notes         *string        `json:"notes" gorm:"type:text"`
	Active        bool           `json:"active" gorm:"default:true"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
}
