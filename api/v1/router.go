package v1

import (
	"github.com/arboriq/arboriq-api/middleware"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Guards are the authentication stages shared by the route groups
type Guards struct {
	Required gin.HandlerFunc
	Optional gin.HandlerFunc
	Throttle gin.HandlerFunc
}

// NewGuards builds the guards around one authenticator
func NewGuards(auth middleware.Authenticator, log *zap.Logger, loginPerMinute int) Guards {
	return Guards{
		Required: middleware.AuthMiddleware(auth, log),
		Optional: middleware.OptionalAuth(auth, log),
		Throttle: middleware.NewRateLimiter(loginPerMinute).Middleware(),
	}
}

// Controllers are the handlers mounted under /api/v1
type Controllers struct {
	Health     *HealthController
	Auth       *AuthController
	Trees      *TreeController
	RiskAlerts *RiskAlertController
}

// RegisterHealth mounts the liveness probe outside the versioned prefix
func RegisterHealth(router gin.IRoutes, health *HealthController) {
	router.GET("/health", health.HealthCheck)
}

// RegisterRoutes registers all v1 API routes
func RegisterRoutes(router *gin.RouterGroup, guards Guards, c Controllers) {
	router.GET("", c.Health.Index)

	c.Auth.RegisterRoutes(router.Group("/auth"), guards)
	c.Trees.RegisterRoutes(router.Group("/trees"), guards)
	c.RiskAlerts.RegisterRoutes(router.Group("/risk-alerts"), guards)
}
