package repositories

import (
	"context"
	"time"

	"github.com/arboriq/arboriq-api/dto"
	"github.com/arboriq/arboriq-api/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// treeColumns projects the stored point into plain coordinates.
const treeColumns = "trees.*, ST_Y(trees.location::geometry) AS latitude, ST_X(trees.location::geometry) AS longitude"

// TreeRepository handles database operations for trees
type TreeRepository struct {
	db *gorm.DB
}

// NewTreeRepository creates a new tree repository instance
func NewTreeRepository(db *gorm.DB) *TreeRepository {
	return &TreeRepository{db: db}
}

// live is the only way reads reach the trees table. The model's soft-delete
// scope adds "deleted_at IS NULL" to every statement built from it.
// extra is appended to the select list with args bound to its placeholders.
func (r *TreeRepository) live(ctx context.Context, extra string, args ...interface{}) *gorm.DB {
	q := r.db.WithContext(ctx).Model(&models.Tree{})
	if extra == "" {
		return q.Select(treeColumns)
	}
	return q.Select(treeColumns+", "+extra, args...)
}

// List retrieves live trees matching every supplied filter, newest first
func (r *TreeRepository) List(ctx context.Context, filter dto.TreeFilter) ([]models.Tree, error) {
	q := applyTreeFilter(r.live(ctx, ""), filter).Order("trees.created_at DESC")
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		q = q.Offset(filter.Offset)
	}

	trees := []models.Tree{}
	if err := q.Find(&trees).Error; err != nil {
		return nil, err
	}
	return trees, nil
}

func applyTreeFilter(q *gorm.DB, filter dto.TreeFilter) *gorm.DB {
	if filter.PropertyID != nil {
		q = q.Where("trees.property_id = ?", *filter.PropertyID)
	}
	if filter.ZoneID != nil {
		q = q.Where("trees.zone_id = ?", *filter.ZoneID)
	}
	if filter.HealthStatus != nil {
		q = q.Where("trees.health_status = ?", *filter.HealthStatus)
	}
	if filter.MinRiskRating != nil {
		q = q.Where("trees.risk_rating >= ?", *filter.MinRiskRating)
	}
	return q
}

// FindByID retrieves a live tree by its ID
func (r *TreeRepository) FindByID(ctx context.Context, id string) (*models.Tree, error) {
	var tree models.Tree
	result := r.live(ctx, "").Where("trees.id = ?", id).Find(&tree)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return &tree, nil
}

// Create inserts a new tree and reads it back with its coordinates
func (r *TreeRepository) Create(ctx context.Context, tree *models.Tree) (*models.Tree, error) {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(tree).Error; err != nil {
		return nil, translateError(err)
	}
	return r.FindByID(ctx, tree.ID)
}

// Update applies column changes to a live tree and returns the updated row.
// updated_at is always refreshed.
func (r *TreeRepository) Update(ctx context.Context, id string, changes map[string]interface{}) (*models.Tree, error) {
	values := make(map[string]interface{}, len(changes)+1)
	for k, v := range changes {
		values[k] = v
	}
	values["updated_at"] = time.Now()

	result := r.db.WithContext(ctx).Model(&models.Tree{}).Where("id = ?", id).Updates(values)
	if result.Error != nil {
		return nil, translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return r.FindByID(ctx, id)
}

// SetLocation replaces the stored point of a live tree
func (r *TreeRepository) SetLocation(ctx context.Context, id string, lat, lng float64, updatedBy *string) (*models.Tree, error) {
	return r.Update(ctx, id, map[string]interface{}{
		"location":   models.PointExpr(lat, lng),
		"updated_by": updatedBy,
	})
}

// SoftDelete marks a live tree as deleted. It reports false when no live row matched,
// so deleting twice reports not found the second time.
func (r *TreeRepository) SoftDelete(ctx context.Context, id string) (bool, error) {
	now := time.Now()
	result := r.db.WithContext(ctx).Model(&models.Tree{}).Where("id = ?", id).Updates(map[string]interface{}{
		"deleted_at": now,
		"updated_at": now,
	})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// FindNearby retrieves live trees within radius meters of the point, closest first.
// Distances are geodesic (geography), in meters.
func (r *TreeRepository) FindNearby(ctx context.Context, lat, lng, radius float64) ([]models.Tree, error) {
	const point = "ST_SetSRID(ST_MakePoint(?, ?), 4326)::geography"

	trees := []models.Tree{}
	err := r.live(ctx, "ST_Distance(trees.location::geography, "+point+") AS distance", lng, lat).
		Where("ST_DWithin(trees.location::geography, "+point+", ?)", lng, lat, radius).
		Order("distance ASC").
		Find(&trees).Error
	if err != nil {
		return nil, err
	}
	return trees, nil
}

// FindHighRisk retrieves live trees rated at or above minRating, highest risk first
func (r *TreeRepository) FindHighRisk(ctx context.Context, minRating int) ([]models.Tree, error) {
	trees := []models.Tree{}
	err := r.live(ctx, "").
		Where("trees.risk_rating >= ?", minRating).
		Order("trees.risk_rating DESC").
		Find(&trees).Error
	if err != nil {
		return nil, err
	}
	return trees, nil
}

// FindInBounds retrieves live trees inside the lat/lng envelope
func (r *TreeRepository) FindInBounds(ctx context.Context, north, south, east, west float64) ([]models.Tree, error) {
	trees := []models.Tree{}
	err := r.live(ctx, "").
		Where("ST_Intersects(trees.location::geometry, ST_MakeEnvelope(?, ?, ?, ?, 4326))", west, south, east, north).
		Order("trees.risk_rating DESC").
		Find(&trees).Error
	if err != nil {
		return nil, err
	}
	return trees, nil
}
