package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/arboriq/arboriq-api/dto"
	"github.com/arboriq/arboriq-api/models"
	"github.com/arboriq/arboriq-api/repositories"
	"go.uber.org/zap"
)

// RiskAlertStream is the Redis stream alert events are appended to
const RiskAlertStream = "arboriq:risk-alerts"

const (
	alertTypeStructural = "structural"
	triggerManual       = "manual"
)

// RiskAlertStore is the persistence for risk alerts
type RiskAlertStore interface {
	Create(ctx context.Context, alert *models.RiskAlert) error
	HasOpen(ctx context.Context, treeID string) (bool, error)
	ListOpen(ctx context.Context, query dto.RiskAlertQuery) ([]models.RiskAlert, error)
	Acknowledge(ctx context.Context, id, userID string, at time.Time) (*models.RiskAlert, error)
	Resolve(ctx context.Context, id, userID string, at time.Time) (*models.RiskAlert, error)
}

// Publisher appends an event to a stream
type Publisher interface {
	Publish(ctx context.Context, stream string, values map[string]interface{}) error
}

// RiskAlertService raises and manages alerts for trees rated above a threshold
type RiskAlertService struct {
	store     RiskAlertStore
	publisher Publisher
	threshold int
	log       *zap.Logger
	now       func() time.Time
}

// NewRiskAlertService creates a new risk alert service instance. publisher may be nil.
func NewRiskAlertService(store RiskAlertStore, publisher Publisher, threshold int, log *zap.Logger) *RiskAlertService {
	return &RiskAlertService{
		store:     store,
		publisher: publisher,
		threshold: threshold,
		log:       log,
		now:       time.Now,
	}
}

// Evaluate raises an alert when the tree reaches the threshold and has no open alert.
// Failures are logged; the caller's write has already succeeded.
func (s *RiskAlertService) Evaluate(ctx context.Context, tree *models.Tree) {
	if tree == nil || tree.RiskRating < s.threshold {
		return
	}
	log := s.log.With(zap.String("tree_id", tree.ID), zap.Int("risk_rating", tree.RiskRating))

	open, err := s.store.HasOpen(ctx, tree.ID)
	if err != nil {
		log.Error("Failed to check open risk alerts", zap.Error(err))
		return
	}
	if open {
		return
	}

	alert := newAlert(tree, s.threshold)
	if err := s.store.Create(ctx, alert); err != nil {
		log.Error("Failed to record risk alert", zap.Error(err))
		return
	}
	log.Info("Risk alert raised", zap.String("alert_id", alert.ID), zap.String("severity", string(alert.Severity)))

	if s.publisher == nil {
		return
	}
	err = s.publisher.Publish(ctx, RiskAlertStream, map[string]interface{}{
		"alert_id":   alert.ID,
		"tree_id":    tree.ID,
		"severity":   string(alert.Severity),
		"risk_score": strconv.Itoa(tree.RiskRating),
	})
	if err != nil {
		log.Warn("Failed to publish risk alert", zap.String("alert_id", alert.ID), zap.Error(err))
	}
}

func newAlert(tree *models.Tree, threshold int) *models.RiskAlert {
	severity := models.SeverityForRating(tree.RiskRating)
	if severity == models.SeverityLow {
		severity = models.SeverityMedium
	}

	score := tree.RiskRating
	trigger := triggerManual
	description := fmt.Sprintf("Risk rating %d reached the alert threshold of %d", tree.RiskRating, threshold)
	action := recommendedAction(severity)

	return &models.RiskAlert{
		TreeID:            tree.ID,
		PropertyID:        tree.PropertyID,
		AlertType:         alertTypeStructural,
		Severity:          severity,
		TriggerSource:     &trigger,
		RiskScore:         &score,
		Description:       &description,
		RecommendedAction: &action,
	}
}

func recommendedAction(severity models.AlertSeverity) string {
	switch severity {
	case models.SeverityCritical:
		return "Establish an exclusion zone and schedule emergency works"
	case models.SeverityHigh:
		return "Schedule a detailed inspection within 7 days"
	default:
		return "Review at the next routine inspection"
	}
}

// List returns unresolved alerts, newest first
func (s *RiskAlertService) List(ctx context.Context, query dto.RiskAlertQuery) ([]models.RiskAlert, error) {
	return s.store.ListOpen(ctx, query)
}

// Acknowledge records that a user has seen an alert
func (s *RiskAlertService) Acknowledge(ctx context.Context, id, userID string) (*models.RiskAlert, error) {
	alert, err := s.store.Acknowledge(ctx, id, userID, s.now())
	return alert, alertError(err)
}

// Resolve closes an alert
func (s *RiskAlertService) Resolve(ctx context.Context, id, userID string) (*models.RiskAlert, error) {
	alert, err := s.store.Resolve(ctx, id, userID, s.now())
	return alert, alertError(err)
}

func alertError(err error) error {
	if errors.Is(err, repositories.ErrNotFound) {
		return ErrRiskAlertNotFound
	}
	return err
}
