package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/arboriq/arboriq-api/dto"
	"github.com/arboriq/arboriq-api/models"
	"github.com/arboriq/arboriq-api/repositories"
	"github.com/arboriq/arboriq-api/utils"
	"go.uber.org/zap"
	"gorm.io/datatypes"
)

// TreeStore is the persistence for trees. Implementations never return soft-deleted rows.
type TreeStore interface {
	List(ctx context.Context, filter dto.TreeFilter) ([]models.Tree, error)
	FindByID(ctx context.Context, id string) (*models.Tree, error)
	Create(ctx context.Context, tree *models.Tree) (*models.Tree, error)
	Update(ctx context.Context, id string, changes map[string]interface{}) (*models.Tree, error)
	SetLocation(ctx context.Context, id string, lat, lng float64, updatedBy *string) (*models.Tree, error)
	SoftDelete(ctx context.Context, id string) (bool, error)
	FindNearby(ctx context.Context, lat, lng, radius float64) ([]models.Tree, error)
	FindHighRisk(ctx context.Context, minRating int) ([]models.Tree, error)
	FindInBounds(ctx context.Context, north, south, east, west float64) ([]models.Tree, error)
}

// AlertEvaluator reacts to tree writes
type AlertEvaluator interface {
	Evaluate(ctx context.Context, tree *models.Tree)
}

// TreeService implements the tree use cases
type TreeService struct {
	store  TreeStore
	alerts AlertEvaluator
	log    *zap.Logger
}

// NewTreeService creates a new tree service instance. alerts may be nil.
func NewTreeService(store TreeStore, alerts AlertEvaluator, log *zap.Logger) *TreeService {
	return &TreeService{store: store, alerts: alerts, log: log}
}

// List returns live trees matching the filter
func (s *TreeService) List(ctx context.Context, filter dto.TreeFilter) ([]models.Tree, error) {
	return s.store.List(ctx, filter)
}

// Get returns a live tree
func (s *TreeService) Get(ctx context.Context, id string) (*models.Tree, error) {
	tree, err := s.store.FindByID(ctx, id)
	return tree, treeError(err)
}

// Create records a new tree for the given user
func (s *TreeService) Create(ctx context.Context, req dto.CreateTreeRequest, userID string) (*models.Tree, error) {
	attributes, err := encodeAttributes(req.Attributes)
	if err != nil {
		return nil, err
	}

	tree := &models.Tree{
		Species:       req.Species,
		CommonName:    req.CommonName,
		Cultivar:      req.Cultivar,
		HeightM:       req.HeightM,
		DbhCm:         req.DbhCm,
		CanopySpreadM: req.CanopySpreadM,
		Address:       req.Address,
		QRCode:        req.QRCode,
		NFCTag:        req.NFCTag,
		ReferenceID:   req.ReferenceID,
		Attributes:    attributes,
		PropertyID:    req.PropertyID,
		ZoneID:        req.ZoneID,
		CreatedBy:     utils.NonEmpty(userID),
	}
	if req.HealthStatus != nil {
		tree.HealthStatus = models.HealthStatus(*req.HealthStatus)
	}
	if req.RiskRating != nil {
		tree.RiskRating = *req.RiskRating
	}
	if req.Latitude != nil && req.Longitude != nil {
		tree.Location = models.NewGeoPoint(*req.Latitude, *req.Longitude)
	}

	created, err := s.store.Create(ctx, tree)
	if err != nil {
		return nil, treeError(err)
	}
	s.log.Info("Tree created", zap.String("tree_id", created.ID), zap.String("user_id", userID))

	s.evaluate(ctx, created)
	return created, nil
}

// Update applies a partial update. The location moves only when both coordinates are sent.
func (s *TreeService) Update(ctx context.Context, id string, req dto.UpdateTreeRequest, userID string) (*models.Tree, error) {
	changes, err := updateColumns(req)
	if err != nil {
		return nil, err
	}
	changes["updated_by"] = utils.NonEmpty(userID)

	updated, err := s.store.Update(ctx, id, changes)
	if err != nil {
		return nil, treeError(err)
	}

	if req.RiskRating != nil {
		s.evaluate(ctx, updated)
	}
	return updated, nil
}

// SetLocation moves a tree
func (s *TreeService) SetLocation(ctx context.Context, id string, req dto.LocationRequest, userID string) (*models.Tree, error) {
	tree, err := s.store.SetLocation(ctx, id, *req.Latitude, *req.Longitude, utils.NonEmpty(userID))
	return tree, treeError(err)
}

// Delete soft-deletes a tree. Deleting an already deleted tree is ErrTreeNotFound.
func (s *TreeService) Delete(ctx context.Context, id string) error {
	deleted, err := s.store.SoftDelete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrTreeNotFound
	}
	s.log.Info("Tree deleted", zap.String("tree_id", id))
	return nil
}

// Nearby returns trees within the query radius, closest first
func (s *TreeService) Nearby(ctx context.Context, q dto.NearbyQuery) ([]models.Tree, error) {
	return s.store.FindNearby(ctx, *q.Lat, *q.Lng, q.Radius)
}

// HighRisk returns trees at or above minRating, highest first
func (s *TreeService) HighRisk(ctx context.Context, minRating int) ([]models.Tree, error) {
	return s.store.FindHighRisk(ctx, minRating)
}

// InBounds returns trees inside the map viewport
func (s *TreeService) InBounds(ctx context.Context, q dto.BoundsQuery) ([]models.Tree, error) {
	return s.store.FindInBounds(ctx, *q.North, *q.South, *q.East, *q.West)
}

func (s *TreeService) evaluate(ctx context.Context, tree *models.Tree) {
	if s.alerts != nil {
		s.alerts.Evaluate(ctx, tree)
	}
}

func updateColumns(req dto.UpdateTreeRequest) (map[string]interface{}, error) {
	changes := map[string]interface{}{}
	set := func(column string, value interface{}, present bool) {
		if present {
			changes[column] = value
		}
	}

	set("species", req.Species, req.Species != nil)
	set("common_name", req.CommonName, req.CommonName != nil)
	set("cultivar", req.Cultivar, req.Cultivar != nil)
	set("height_m", req.HeightM, req.HeightM != nil)
	set("dbh_cm", req.DbhCm, req.DbhCm != nil)
	set("canopy_spread_m", req.CanopySpreadM, req.CanopySpreadM != nil)
	set("health_status", req.HealthStatus, req.HealthStatus != nil)
	set("risk_rating", req.RiskRating, req.RiskRating != nil)
	set("address", req.Address, req.Address != nil)
	set("qr_code", req.QRCode, req.QRCode != nil)
	set("nfc_tag", req.NFCTag, req.NFCTag != nil)
	set("reference_id", req.ReferenceID, req.ReferenceID != nil)
	set("property_id", req.PropertyID.Ptr(), req.PropertyID.Set)
	set("zone_id", req.ZoneID.Ptr(), req.ZoneID.Set)

	if req.Attributes != nil {
		attributes, err := encodeAttributes(req.Attributes)
		if err != nil {
			return nil, err
		}
		changes["attributes"] = attributes
	}
	if req.Latitude != nil && req.Longitude != nil {
		changes["location"] = models.PointExpr(*req.Latitude, *req.Longitude)
	}
	return changes, nil
}

func encodeAttributes(attributes map[string]interface{}) (datatypes.JSON, error) {
	if attributes == nil {
		return nil, nil
	}
	raw, err := json.Marshal(attributes)
	if err != nil {
		return nil, fmt.Errorf("failed to encode attributes: %w", err)
	}
	return datatypes.JSON(raw), nil
}

func treeError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repositories.ErrNotFound):
		return ErrTreeNotFound
	case errors.Is(err, repositories.ErrDuplicate):
		return fmt.Errorf("%w: %v", ErrTreeTagTaken, err)
	default:
		return err
	}
}
