package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Tree is a single inventoried tree. Latitude, Longitude and Distance are read-only
// projections computed by the query, never stored.
type Tree struct {
	ID            string         `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	Species       string         `json:"species" gorm:"size:255;not null;index"`
	CommonName    *string        `json:"common_name" gorm:"size:255"`
	Cultivar      *string        `json:"cultivar" gorm:"size:255"`
	HeightM       *float64       `json:"height_m"`
	DbhCm         *float64       `json:"dbh_cm"`
	CanopySpreadM *float64       `json:"canopy_spread_m"`
	HealthStatus  HealthStatus   `json:"health_status" gorm:"size:20;default:'good';index;check:chk_trees_health_status,health_status IN ('excellent','good','fair','poor','dead')"`
	RiskRating    int            `json:"risk_rating" gorm:"default:0;index"`
	Location      GeoPoint       `json:"-" gorm:"type:geography(Point,4326)"`
	Address       *string        `json:"address" gorm:"size:500"`
	QRCode        *string        `json:"qr_code" gorm:"size:100;uniqueIndex"`
	NFCTag        *string        `json:"nfc_tag" gorm:"size:100;uniqueIndex"`
	ReferenceID   *string        `json:"reference_id" gorm:"size:100"`
	Attributes    datatypes.JSON `json:"attributes" gorm:"type:jsonb"`
	PropertyID    *string        `json:"property_id" gorm:"type:uuid;index"`
	ZoneID        *string        `json:"zone_id" gorm:"type:uuid;index"`
	CreatedBy     *string        `json:"created_by" gorm:"type:uuid"`
	UpdatedBy     *string        `json:"updated_by" gorm:"type:uuid"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `json:"deleted_at" gorm:"index"`

	Latitude  *float64 `json:"latitude" gorm:"->;-:migration"`
	Longitude *float64 `json:"longitude" gorm:"->;-:migration"`
	Distance  *float64 `json:"distance,omitempty" gorm:"->;-:migration"`

	// Relations
	Property *Property `json:"-" gorm:"foreignKey:PropertyID;constraint:OnDelete:SET NULL"`
	Zone     *Zone     `json:"-" gorm:"foreignKey:ZoneID;constraint:OnDelete:SET NULL"`
	Creator  *User     `json:"-" gorm:"foreignKey:CreatedBy;constraint:OnDelete:SET NULL"`
	Updater  *User     `json:"-" gorm:"foreignKey:UpdatedBy;constraint:OnDelete:SET NULL"`
}

// TableName sets the table name for Tree model
func (Tree) TableName() string {
	return "trees"
}
