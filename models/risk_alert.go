package models

import (
	"time"

	"gorm.io/datatypes"
)

// RiskAlert flags a tree that needs attention. Alerts are resolved, never deleted.
type RiskAlert struct {
	ID                string         `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	TreeID            string         `json:"tree_id" gorm:"type:uuid;not null;index"`
	PropertyID        *string        `json:"property_id" gorm:"type:uuid;index"`
	AlertType         string         `json:"alert_type" gorm:"size:50;not null;index"` // weather, structural, health, inspection_due
	Severity          AlertSeverity  `json:"severity" gorm:"size:20;not null;index"`
	TriggerSource     *string        `json:"trigger_source" gorm:"size:100"` // weather_api, inspection, manual, scheduled
	WeatherConditions datatypes.JSON `json:"weather_conditions" gorm:"type:jsonb;default:'{}'"`
	RiskFactors       datatypes.JSON `json:"risk_factors" gorm:"type:jsonb;default:'{}'"`
	RiskScore         *int           `json:"risk_score"`
	Description       *string        `json:"description" gorm:"type:text"`
	RecommendedAction *string        `json:"recommended_action" gorm:"type:text"`
	ExclusionZone     *string        `json:"-" gorm:"type:geometry(Polygon,4326)"`
	ExclusionRadiusM  *float64       `json:"exclusion_radius_m"`
	Acknowledged      bool           `json:"acknowledged" gorm:"index:idx_risk_alerts_state,priority:1"`
	AcknowledgedBy    *string        `json:"acknowledged_by" gorm:"type:uuid"`
	AcknowledgedAt    *time.Time     `json:"acknowledged_at"`
	Resolved          bool           `json:"resolved" gorm:"index:idx_risk_alerts_state,priority:2"`
	ResolvedBy        *string        `json:"resolved_by" gorm:"type:uuid"`
	ResolvedAt        *time.Time     `json:"resolved_at"`
	ExpiresAt         *time.Time     `json:"expires_at"`
	CreatedAt         time.Time      `json:"created_at" gorm:"index"`
	UpdatedAt         time.Time      `json:"updated_at"`

	Tree         *Tree     `json:"-" gorm:"foreignKey:TreeID;constraint:OnDelete:CASCADE"`
	Property     *Property `json:"-" gorm:"foreignKey:PropertyID;constraint:OnDelete:SET NULL"`
	Acknowledger *User     `json:"-" gorm:"foreignKey:AcknowledgedBy;constraint:OnDelete:SET NULL"`
	Resolver     *User     `json:"-" gorm:"foreignKey:ResolvedBy;constraint:OnDelete:SET NULL"`
}

// SeverityForRating maps a 0-100 risk rating onto an alert severity.
func SeverityForRating(rating int) AlertSeverity {
	switch {
	case rating >= 90:
		return SeverityCritical
	case rating >= 80:
		return SeverityHigh
	case rating >= 50:
		return SeverityMedium
	default:
		return SeverityLow
	}
}
