package v1

import (
	"context"
	"net/http"

	"github.com/arboriq/arboriq-api/dto"
	"github.com/arboriq/arboriq-api/middleware"
	"github.com/arboriq/arboriq-api/models"
	"github.com/gin-gonic/gin"
)

// RiskAlertService is what RiskAlertController needs from services.RiskAlertService
type RiskAlertService interface {
	List(ctx context.Context, query dto.RiskAlertQuery) ([]models.RiskAlert, error)
	Acknowledge(ctx context.Context, id, userID string) (*models.RiskAlert, error)
	Resolve(ctx context.Context, id, userID string) (*models.RiskAlert, error)
}

// RiskAlertController handles risk alert endpoints
type RiskAlertController struct {
	Options
	alerts RiskAlertService
}

// NewRiskAlertController creates a new risk alert controller
func NewRiskAlertController(alerts RiskAlertService, opts Options) *RiskAlertController {
	return &RiskAlertController{Options: opts, alerts: alerts}
}

// RegisterRoutes registers risk alert routes
func (rc *RiskAlertController) RegisterRoutes(router *gin.RouterGroup, guards Guards) {
	router.Use(guards.Required)
	router.GET("", middleware.ValidateQuery[dto.RiskAlertQuery](), rc.ListAlerts)

	editors := middleware.RequireRoles(models.Editors...)
	router.PUT("/:id/acknowledge", editors, middleware.ValidateUUID("id"), rc.Acknowledge)
	router.PUT("/:id/resolve", editors, middleware.ValidateUUID("id"), rc.Resolve)
}

// ListAlerts returns unresolved alerts, newest first
func (rc *RiskAlertController) ListAlerts(c *gin.Context) {
	alerts, err := rc.alerts.List(c.Request.Context(), middleware.Query[dto.RiskAlertQuery](c))
	if err != nil {
		rc.fail(c, err)
		return
	}
	if alerts == nil {
		alerts = []models.RiskAlert{}
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "count": len(alerts), "data": alerts})
}

// Acknowledge marks an alert as seen by the caller
func (rc *RiskAlertController) Acknowledge(c *gin.Context) {
	alert, err := rc.alerts.Acknowledge(c.Request.Context(), c.Param("id"), middleware.CurrentUserID(c))
	if err != nil {
		rc.fail(c, err)
		return
	}
	ok(c, http.StatusOK, alert)
}

// Resolve closes an alert
func (rc *RiskAlertController) Resolve(c *gin.Context) {
	alert, err := rc.alerts.Resolve(c.Request.Context(), c.Param("id"), middleware.CurrentUserID(c))
	if err != nil {
		rc.fail(c, err)
		return
	}
	ok(c, http.StatusOK, alert)
}
