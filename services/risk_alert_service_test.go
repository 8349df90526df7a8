package services

import (
	"context"
	"errors"
	"testing"

	"github.com/arboriq/arboriq-api/dto"
	"github.com/arboriq/arboriq-api/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestRiskAlertService_Evaluate(t *testing.T) {
	cases := []struct {
		name     string
		rating   int
		raised   bool
		severity models.AlertSeverity
	}{
		{"below threshold", 69, false, ""},
		{"at threshold", 70, true, models.SeverityMedium},
		{"high", 80, true, models.SeverityHigh},
		{"critical", 90, true, models.SeverityCritical},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			store := &memAlerts{}
			pub := &memPublisher{}
			svc := NewRiskAlertService(store, pub, 70, zap.NewNop())

			svc.Evaluate(context.Background(), &models.Tree{ID: "tree-1", RiskRating: tc.rating})

			if !tc.raised {
				assert.Empty(t, store.alerts)
				assert.Empty(t, pub.events)
				return
			}
			require.Len(t, store.alerts, 1)
			alert := store.alerts[0]
			assert.Equal(t, tc.severity, alert.Severity)
			assert.Equal(t, "structural", alert.AlertType)
			assert.Equal(t, "manual", *alert.TriggerSource)
			assert.Equal(t, tc.rating, *alert.RiskScore)

			require.Len(t, pub.events, 1)
			assert.Equal(t, RiskAlertStream, pub.events[0]["_stream"])
			assert.Equal(t, alert.ID, pub.events[0]["alert_id"])
			assert.Equal(t, string(tc.severity), pub.events[0]["severity"])
		})
	}
}

func TestRiskAlertService_EvaluateSkipsOpenAlert(t *testing.T) {
	store := &memAlerts{}
	svc := NewRiskAlertService(store, nil, 70, zap.NewNop())
	tree := &models.Tree{ID: "tree-1", RiskRating: 95}

	svc.Evaluate(context.Background(), tree)
	svc.Evaluate(context.Background(), tree)
	assert.Len(t, store.alerts, 1)

	_, err := svc.Resolve(context.Background(), store.alerts[0].ID, "user-1")
	require.NoError(t, err)

	svc.Evaluate(context.Background(), tree)
	assert.Len(t, store.alerts, 2, "a resolved alert does not block a new one")
}

func TestRiskAlertService_FailuresAreSwallowed(t *testing.T) {
	t.Run("store", func(t *testing.T) {
		pub := &memPublisher{}
		svc := NewRiskAlertService(&memAlerts{createErr: errors.New("db down")}, pub, 70, zap.NewNop())

		assert.NotPanics(t, func() {
			svc.Evaluate(context.Background(), &models.Tree{ID: "tree-1", RiskRating: 99})
		})
		assert.Empty(t, pub.events)
	})

	t.Run("publisher", func(t *testing.T) {
		store := &memAlerts{}
		svc := NewRiskAlertService(store, &memPublisher{err: errors.New("redis down")}, 70, zap.NewNop())

		svc.Evaluate(context.Background(), &models.Tree{ID: "tree-1", RiskRating: 99})
		assert.Len(t, store.alerts, 1)
	})
}

func TestRiskAlertService_AcknowledgeAndList(t *testing.T) {
	store := &memAlerts{}
	svc := NewRiskAlertService(store, nil, 70, zap.NewNop())
	ctx := context.Background()
	svc.Evaluate(ctx, &models.Tree{ID: "tree-1", RiskRating: 85})

	alert, err := svc.Acknowledge(ctx, store.alerts[0].ID, "user-1")
	require.NoError(t, err)
	assert.True(t, alert.Acknowledged)
	assert.Equal(t, "user-1", *alert.AcknowledgedBy)

	open, err := svc.List(ctx, dto.RiskAlertQuery{Limit: 50})
	require.NoError(t, err)
	assert.Len(t, open, 1)

	_, err = svc.Resolve(ctx, "missing", "user-1")
	assert.ErrorIs(t, err, ErrRiskAlertNotFound)
}
