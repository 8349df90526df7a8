package v1

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"time"

	"github.com/arboriq/arboriq-api/dto"
	"github.com/arboriq/arboriq-api/middleware"
	"github.com/arboriq/arboriq-api/models"
	"github.com/gin-gonic/gin"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// TreeService is what TreeController needs from services.TreeService
type TreeService interface {
	List(ctx context.Context, filter dto.TreeFilter) ([]models.Tree, error)
	Get(ctx context.Context, id string) (*models.Tree, error)
	Create(ctx context.Context, req dto.CreateTreeRequest, userID string) (*models.Tree, error)
	Update(ctx context.Context, id string, req dto.UpdateTreeRequest, userID string) (*models.Tree, error)
	SetLocation(ctx context.Context, id string, req dto.LocationRequest, userID string) (*models.Tree, error)
	Delete(ctx context.Context, id string) error
	Nearby(ctx context.Context, q dto.NearbyQuery) ([]models.Tree, error)
	HighRisk(ctx context.Context, minRating int) ([]models.Tree, error)
	InBounds(ctx context.Context, q dto.BoundsQuery) ([]models.Tree, error)
}

// TreeExporter writes the spreadsheet export
type TreeExporter interface {
	WriteTrees(ctx context.Context, w io.Writer, filter dto.TreeFilter) error
}

// TreeController handles tree-related API endpoints
type TreeController struct {
	Options
	trees    TreeService
	exporter TreeExporter
	now      func() time.Time
}

// NewTreeController creates a new tree controller
func NewTreeController(trees TreeService, exporter TreeExporter, opts Options) *TreeController {
	return &TreeController{Options: opts, trees: trees, exporter: exporter, now: time.Now}
}

// RegisterRoutes registers tree routes. Static paths go before /:id.
func (tc *TreeController) RegisterRoutes(router *gin.RouterGroup, guards Guards) {
	editors := middleware.RequireRoles(models.Editors...)

	router.GET("", guards.Optional, middleware.ValidateQuery[dto.TreeListQuery](), tc.ListTrees)
	router.GET("/nearby", guards.Optional, middleware.ValidateQuery[dto.NearbyQuery](), tc.NearbyTrees)
	router.GET("/high-risk", guards.Required, middleware.ValidateQuery[dto.HighRiskQuery](), tc.HighRiskTrees)
	router.GET("/bounds", guards.Optional, middleware.ValidateQuery[dto.BoundsQuery](), tc.TreesInBounds)
	router.GET("/export", guards.Required,
		middleware.RequireRoles(models.RoleAdmin, models.RoleCouncilManager),
		middleware.ValidateQuery[dto.TreeFilterQuery](), tc.ExportTrees)
	router.GET("/:id", guards.Optional, middleware.ValidateUUID("id"), tc.GetTree)

	router.POST("", guards.Required, editors, middleware.ValidateJSON[dto.CreateTreeRequest](), tc.CreateTree)
	router.PUT("/:id", guards.Required, editors, middleware.ValidateUUID("id"),
		middleware.ValidateJSON[dto.UpdateTreeRequest](), tc.UpdateTree)
	router.PUT("/:id/location", guards.Required, editors, middleware.ValidateUUID("id"),
		middleware.ValidateJSON[dto.LocationRequest](), tc.SetTreeLocation)
	router.DELETE("/:id", guards.Required, middleware.AdminMiddleware(), middleware.ValidateUUID("id"), tc.DeleteTree)
}

// ListTrees returns the non-deleted trees matching the filters
func (tc *TreeController) ListTrees(c *gin.Context) {
	q := middleware.Query[dto.TreeListQuery](c)
	trees, err := tc.trees.List(c.Request.Context(), q.Filter())
	if err != nil {
		tc.fail(c, err)
		return
	}
	tc.list(c, trees)
}

// NearbyTrees returns trees within the radius, nearest first
func (tc *TreeController) NearbyTrees(c *gin.Context) {
	trees, err := tc.trees.Nearby(c.Request.Context(), middleware.Query[dto.NearbyQuery](c))
	if err != nil {
		tc.fail(c, err)
		return
	}
	tc.list(c, trees)
}

// HighRiskTrees returns trees at or above min_rating
func (tc *TreeController) HighRiskTrees(c *gin.Context) {
	q := middleware.Query[dto.HighRiskQuery](c)
	trees, err := tc.trees.HighRisk(c.Request.Context(), q.MinRating)
	if err != nil {
		tc.fail(c, err)
		return
	}
	tc.list(c, trees)
}

// TreesInBounds returns trees inside the map viewport
func (tc *TreeController) TreesInBounds(c *gin.Context) {
	trees, err := tc.trees.InBounds(c.Request.Context(), middleware.Query[dto.BoundsQuery](c))
	if err != nil {
		tc.fail(c, err)
		return
	}
	tc.list(c, trees)
}

// GetTree returns a single tree
func (tc *TreeController) GetTree(c *gin.Context) {
	tree, err := tc.trees.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		tc.fail(c, err)
		return
	}
	ok(c, http.StatusOK, tree)
}

// CreateTree records a new tree owned by the caller
func (tc *TreeController) CreateTree(c *gin.Context) {
	req := middleware.Body[dto.CreateTreeRequest](c)
	tree, err := tc.trees.Create(c.Request.Context(), req, middleware.CurrentUserID(c))
	if err != nil {
		tc.fail(c, err)
		return
	}
	ok(c, http.StatusCreated, tree)
}

// UpdateTree applies a partial update
func (tc *TreeController) UpdateTree(c *gin.Context) {
	req := middleware.Body[dto.UpdateTreeRequest](c)
	tree, err := tc.trees.Update(c.Request.Context(), c.Param("id"), req, middleware.CurrentUserID(c))
	if err != nil {
		tc.fail(c, err)
		return
	}
	ok(c, http.StatusOK, tree)
}

// SetTreeLocation moves a tree
func (tc *TreeController) SetTreeLocation(c *gin.Context) {
	req := middleware.Body[dto.LocationRequest](c)
	tree, err := tc.trees.SetLocation(c.Request.Context(), c.Param("id"), req, middleware.CurrentUserID(c))
	if err != nil {
		tc.fail(c, err)
		return
	}
	ok(c, http.StatusOK, tree)
}

// DeleteTree soft-deletes a tree
func (tc *TreeController) DeleteTree(c *gin.Context) {
	if err := tc.trees.Delete(c.Request.Context(), c.Param("id")); err != nil {
		tc.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.MessageResponse{Success: true, Message: "Tree deleted successfully"})
}

// ExportTrees streams the filtered inventory as an xlsx attachment
func (tc *TreeController) ExportTrees(c *gin.Context) {
	q := middleware.Query[dto.TreeFilterQuery](c)

	// buffered so a failure can still be reported as JSON
	var buf bytes.Buffer
	if err := tc.exporter.WriteTrees(c.Request.Context(), &buf, q.Filter()); err != nil {
		tc.fail(c, err)
		return
	}

	c.Header("Content-Disposition", "attachment; filename="+dto.ExportFilename(tc.now()))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

func (tc *TreeController) list(c *gin.Context, trees []models.Tree) {
	if trees == nil {
		trees = []models.Tree{}
	}
	c.JSON(http.StatusOK, dto.TreeListResponse{Success: true, Count: len(trees), Data: trees})
}
