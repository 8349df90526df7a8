package repositories

import (
	"context"
	"time"

	"github.com/arboriq/arboriq-api/dto"
	"github.com/arboriq/arboriq-api/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// RiskAlertRepository handles database operations for risk alerts
type RiskAlertRepository struct {
	db *gorm.DB
}

// NewRiskAlertRepository creates a new risk alert repository instance
func NewRiskAlertRepository(db *gorm.DB) *RiskAlertRepository {
	return &RiskAlertRepository{db: db}
}

// Create inserts a new alert
func (r *RiskAlertRepository) Create(ctx context.Context, alert *models.RiskAlert) error {
	return translateError(r.db.WithContext(ctx).Omit(clause.Associations).Create(alert).Error)
}

// HasOpen reports whether the tree already has an unresolved alert
func (r *RiskAlertRepository) HasOpen(ctx context.Context, treeID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.RiskAlert{}).
		Where("tree_id = ? AND resolved = ?", treeID, false).
		Count(&count).Error
	return count > 0, err
}

// ListOpen retrieves unresolved alerts, newest first
func (r *RiskAlertRepository) ListOpen(ctx context.Context, query dto.RiskAlertQuery) ([]models.RiskAlert, error) {
	q := r.db.WithContext(ctx).Where("resolved = ?", false)
	if query.Severity != nil {
		q = q.Where("severity = ?", *query.Severity)
	}
	if query.TreeID != nil {
		q = q.Where("tree_id = ?", *query.TreeID)
	}
	if query.Limit > 0 {
		q = q.Limit(query.Limit)
	}
	if query.Offset > 0 {
		q = q.Offset(query.Offset)
	}

	alerts := []models.RiskAlert{}
	if err := q.Order("created_at DESC").Find(&alerts).Error; err != nil {
		return nil, err
	}
	return alerts, nil
}

// FindByID retrieves an alert by its ID
func (r *RiskAlertRepository) FindByID(ctx context.Context, id string) (*models.RiskAlert, error) {
	var alert models.RiskAlert
	result := r.db.WithContext(ctx).Where("id = ?", id).Find(&alert)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return &alert, nil
}

// Acknowledge marks an alert as seen by a user
func (r *RiskAlertRepository) Acknowledge(ctx context.Context, id, userID string, at time.Time) (*models.RiskAlert, error) {
	return r.mark(ctx, id, map[string]interface{}{
		"acknowledged":    true,
		"acknowledged_by": userID,
		"acknowledged_at": at,
	})
}

// Resolve closes an alert
func (r *RiskAlertRepository) Resolve(ctx context.Context, id, userID string, at time.Time) (*models.RiskAlert, error) {
	return r.mark(ctx, id, map[string]interface{}{
		"resolved":    true,
		"resolved_by": userID,
		"resolved_at": at,
	})
}

func (r *RiskAlertRepository) mark(ctx context.Context, id string, values map[string]interface{}) (*models.RiskAlert, error) {
	result := r.db.WithContext(ctx).Model(&models.RiskAlert{}).Where("id = ?", id).Updates(values)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return r.FindByID(ctx, id)
}
