package v1

import (
	"context"
	"net/http"

	"github.com/arboriq/arboriq-api/dto"
	"github.com/arboriq/arboriq-api/middleware"
	"github.com/gin-gonic/gin"
)

// AuthService is what AuthController needs from services.AuthService
type AuthService interface {
	Register(ctx context.Context, req dto.RegisterRequest) (*dto.AuthResponse, error)
	Login(ctx context.Context, req dto.LoginRequest) (*dto.AuthResponse, error)
	Me(ctx context.Context, userID string) (*dto.UserProfile, error)
	ChangePassword(ctx context.Context, userID string, req dto.ChangePasswordRequest) error
	Refresh(ctx context.Context, userID string) (*dto.AuthResponse, error)
}

// AuthController handles registration, login and the caller's own account
type AuthController struct {
	Options
	auth AuthService
}

// NewAuthController creates a new auth controller
func NewAuthController(auth AuthService, opts Options) *AuthController {
	return &AuthController{Options: opts, auth: auth}
}

// RegisterRoutes registers auth routes
func (ac *AuthController) RegisterRoutes(router *gin.RouterGroup, guards Guards) {
	router.POST("/register", guards.Throttle, middleware.ValidateJSON[dto.RegisterRequest](), ac.Register)
	router.POST("/login", guards.Throttle, middleware.ValidateJSON[dto.LoginRequest](), ac.Login)
	router.GET("/me", guards.Required, ac.GetCurrentUser)
	router.PUT("/password", guards.Required, middleware.ValidateJSON[dto.ChangePasswordRequest](), ac.ChangePassword)
	router.POST("/refresh", guards.Required, ac.Refresh)
}

// Register handles user registration
func (ac *AuthController) Register(c *gin.Context) {
	resp, err := ac.auth.Register(c.Request.Context(), middleware.Body[dto.RegisterRequest](c))
	if err != nil {
		ac.fail(c, err)
		return
	}
	ok(c, http.StatusCreated, resp)
}

// Login handles user authentication
func (ac *AuthController) Login(c *gin.Context) {
	resp, err := ac.auth.Login(c.Request.Context(), middleware.Body[dto.LoginRequest](c))
	if err != nil {
		ac.fail(c, err)
		return
	}
	ok(c, http.StatusOK, resp)
}

// GetCurrentUser returns the authenticated user's profile
func (ac *AuthController) GetCurrentUser(c *gin.Context) {
	profile, err := ac.auth.Me(c.Request.Context(), middleware.CurrentUserID(c))
	if err != nil {
		ac.fail(c, err)
		return
	}
	ok(c, http.StatusOK, profile)
}

// ChangePassword replaces the caller's password after checking the current one
func (ac *AuthController) ChangePassword(c *gin.Context) {
	req := middleware.Body[dto.ChangePasswordRequest](c)
	if err := ac.auth.ChangePassword(c.Request.Context(), middleware.CurrentUserID(c), req); err != nil {
		ac.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.MessageResponse{Success: true, Message: "Password updated successfully"})
}

// Refresh issues a fresh token
func (ac *AuthController) Refresh(c *gin.Context) {
	resp, err := ac.auth.Refresh(c.Request.Context(), middleware.CurrentUserID(c))
	if err != nil {
		ac.fail(c, err)
		return
	}
	ok(c, http.StatusOK, resp)
}
