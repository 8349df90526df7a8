package dto

import (
	"time"

	"github.com/arboriq/arboriq-api/models"
	"github.com/golang-jwt/jwt/v5"
)

// TokenClaims represents our custom JWT claims
type TokenClaims struct {
	UserID    string  `json:"id"`
	Email     string  `json:"email"`
	Role      string  `json:"role"`
	CompanyID *string `json:"company_id,omitempty"`
	jwt.RegisteredClaims
}

// LoginRequest represents login credentials
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// RegisterRequest represents registration data
type RegisterRequest struct {
	Email     string  `json:"email" binding:"required,email"`
	Password  string  `json:"password" binding:"required,min=8"`
	FirstName string  `json:"first_name" binding:"required,min=2,max=100"`
	LastName  string  `json:"last_name" binding:"required,min=2,max=100"`
	Phone     *string `json:"phone" binding:"omitempty,max=50"`
	Role      string  `json:"role" binding:"omitempty,oneof=admin arborist council_manager viewer"`
	Company   *string `json:"company" binding:"omitempty,max=255"`
}

// ChangePasswordRequest is PUT /auth/password
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required,min=8"`
}

// UserSummary is the user block returned with a token
type UserSummary struct {
	ID        string      `json:"id"`
	Email     string      `json:"email"`
	FirstName string      `json:"first_name"`
	LastName  string      `json:"last_name"`
	Role      models.Role `json:"role"`
}

// UserProfile is GET /auth/me
type UserProfile struct {
	UserSummary
	Company            *string    `json:"company"`
	Phone              *string    `json:"phone"`
	CertificationLevel *string    `json:"certification_level"`
	LastLoginAt        *time.Time `json:"last_login_at"`
}

// AuthResponse represents the response after authentication
type AuthResponse struct {
	User      UserSummary `json:"user"`
	Token     string      `json:"token"`
	ExpiresAt time.Time   `json:"expiresAt"`
}

// NewUserSummary maps a user to its public summary
func NewUserSummary(u *models.User) UserSummary {
	return UserSummary{
		ID:        u.ID,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Role:      u.Role,
	}
}

// NewUserProfile maps a user to its profile
func NewUserProfile(u *models.User) UserProfile {
	return UserProfile{
		UserSummary:        NewUserSummary(u),
		Company:            u.Company,
		Phone:              u.Phone,
		CertificationLevel: u.CertificationLevel,
		LastLoginAt:        u.LastLoginAt,
	}
}
