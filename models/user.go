package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// User represents a user in the system
type User struct {
	ID                  string         `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	Email               string         `json:"email" gorm:"size:255;uniqueIndex;not null"`
	PasswordHash        string         `json:"-" gorm:"size:255"` // never serialized
	FirstName           string         `json:"first_name" gorm:"size:100;not null"`
	LastName            string         `json:"last_name" gorm:"size:100;not null"`
	Phone               *string        `json:"phone,omitempty" gorm:"size:50"`
	Role                Role           `json:"role" gorm:"size:50;not null;index"`
	CertificationLevel  *string        `json:"certification_level,omitempty" gorm:"size:50"`
	CertificationNumber *string        `json:"certification_number,omitempty" gorm:"size:100"`
	CertificationExpiry *time.Time     `json:"certification_expiry,omitempty" gorm:"type:date"`
	Company             *string        `json:"company,omitempty" gorm:"size:255"`
	CompanyID           *string        `json:"company_id,omitempty" gorm:"type:uuid;index"`
	AvatarURL           *string        `json:"avatar_url,omitempty" gorm:"size:500"`
	Permissions         datatypes.JSON `json:"permissions,omitempty" gorm:"type:jsonb;default:'{}'"`
	Preferences         datatypes.JSON `json:"preferences,omitempty" gorm:"type:jsonb;default:'{}'"`
	Active              bool           `json:"active" gorm:"default:true;index"`
	LastLoginAt         *time.Time     `json:"last_login_at,omitempty"`
	AuthProvider        *string        `json:"auth_provider,omitempty" gorm:"size:50"`
	AuthProviderID      *string        `json:"auth_provider_id,omitempty" gorm:"size:255;index"`
	CreatedAt           time.Time      `json:"created_at"`
	UpdatedAt           time.Time      `json:"updated_at"`
	DeletedAt           gorm.DeletedAt `json:"-" gorm:"index"`
}
