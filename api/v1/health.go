package v1

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// HealthController answers the liveness probe and the API index
type HealthController struct {
	environment string
	started     time.Time
	now         func() time.Time
}

// NewHealthController creates a new health controller
func NewHealthController(environment string) *HealthController {
	return &HealthController{environment: environment, started: time.Now(), now: time.Now}
}

// HealthCheck handles the health check endpoint
func (h *HealthController) HealthCheck(c *gin.Context) {
	now := h.now()
	c.JSON(http.StatusOK, gin.H{
		"status":      "healthy",
		"timestamp":   now.UTC().Format(time.RFC3339),
		"uptime":      now.Sub(h.started).Seconds(),
		"environment": h.environment,
	})
}

// Index lists the API entry points
func (h *HealthController) Index(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"name":    "ArborIQ API",
		"version": "1.0.0",
		"endpoints": gin.H{
			"trees":       "/api/v1/trees",
			"auth":        "/api/v1/auth",
			"risk_alerts": "/api/v1/risk-alerts",
			"health":      "/health",
		},
	})
}
