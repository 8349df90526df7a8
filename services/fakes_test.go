package services

import (
	"context"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/arboriq/arboriq-api/dto"
	"github.com/arboriq/arboriq-api/models"
	"github.com/arboriq/arboriq-api/repositories"
)

// memTrees is an in-memory TreeStore honouring soft delete.
type memTrees struct {
	mu      sync.Mutex
	rows    map[string]*models.Tree
	seq     int
	changes []map[string]interface{}
}

func newMemTrees() *memTrees {
	return &memTrees{rows: map[string]*models.Tree{}}
}

func (m *memTrees) live() []models.Tree {
	out := []models.Tree{}
	for _, t := range m.rows {
		if !t.DeletedAt.Valid {
			out = append(out, *t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (m *memTrees) List(_ context.Context, f dto.TreeFilter) ([]models.Tree, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.Tree{}
	for _, t := range m.live() {
		if f.MinRiskRating != nil && t.RiskRating < *f.MinRiskRating {
			continue
		}
		out = append(out, t)
	}
	return out, nil
}

func (m *memTrees) FindByID(_ context.Context, id string) (*models.Tree, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.rows[id]
	if !ok || t.DeletedAt.Valid {
		return nil, repositories.ErrNotFound
	}
	cp := *t
	return &cp, nil
}

func (m *memTrees) Create(ctx context.Context, tree *models.Tree) (*models.Tree, error) {
	m.mu.Lock()
	for _, t := range m.rows {
		if tree.QRCode != nil && t.QRCode != nil && *t.QRCode == *tree.QRCode {
			m.mu.Unlock()
			return nil, repositories.ErrDuplicate
		}
	}
	m.seq++
	tree.ID = "tree-" + strconv.Itoa(m.seq)
	if tree.Location.Valid {
		lat, lng := tree.Location.Lat, tree.Location.Lng
		tree.Latitude, tree.Longitude = &lat, &lng
	}
	cp := *tree
	m.rows[tree.ID] = &cp
	m.mu.Unlock()
	return m.FindByID(ctx, tree.ID)
}

func (m *memTrees) Update(ctx context.Context, id string, changes map[string]interface{}) (*models.Tree, error) {
	m.mu.Lock()
	m.changes = append(m.changes, changes)
	t, ok := m.rows[id]
	if !ok || t.DeletedAt.Valid {
		m.mu.Unlock()
		return nil, repositories.ErrNotFound
	}
	if v, ok := changes["risk_rating"].(*int); ok {
		t.RiskRating = *v
	}
	if v, ok := changes["species"].(*string); ok {
		t.Species = *v
	}
	t.UpdatedAt = time.Now()
	m.mu.Unlock()
	return m.FindByID(ctx, id)
}

func (m *memTrees) SetLocation(ctx context.Context, id string, lat, lng float64, updatedBy *string) (*models.Tree, error) {
	m.mu.Lock()
	if t, ok := m.rows[id]; ok && !t.DeletedAt.Valid {
		t.Location = models.NewGeoPoint(lat, lng)
		t.Latitude, t.Longitude = &lat, &lng
		t.UpdatedBy = updatedBy
	}
	m.mu.Unlock()
	return m.FindByID(ctx, id)
}

func (m *memTrees) SoftDelete(_ context.Context, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.rows[id]
	if !ok || t.DeletedAt.Valid {
		return false, nil
	}
	t.DeletedAt.Time, t.DeletedAt.Valid = time.Now(), true
	return true, nil
}

func (m *memTrees) FindNearby(_ context.Context, lat, lng, radius float64) ([]models.Tree, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.live(), nil
}

func (m *memTrees) FindHighRisk(_ context.Context, minRating int) ([]models.Tree, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.Tree{}
	for _, t := range m.live() {
		if t.RiskRating >= minRating {
			out = append(out, t)
		}
	}
	return out, nil
}

func (m *memTrees) FindInBounds(_ context.Context, north, south, east, west float64) ([]models.Tree, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.live(), nil
}

// recordingEvaluator captures evaluated trees.
type recordingEvaluator struct {
	trees []models.Tree
}

func (r *recordingEvaluator) Evaluate(_ context.Context, tree *models.Tree) {
	r.trees = append(r.trees, *tree)
}

// memAlerts is an in-memory RiskAlertStore.
type memAlerts struct {
	alerts    []*models.RiskAlert
	createErr error
}

func (m *memAlerts) Create(_ context.Context, alert *models.RiskAlert) error {
	if m.createErr != nil {
		return m.createErr
	}
	alert.ID = "alert-" + strconv.Itoa(len(m.alerts)+1)
	m.alerts = append(m.alerts, alert)
	return nil
}

func (m *memAlerts) HasOpen(_ context.Context, treeID string) (bool, error) {
	for _, a := range m.alerts {
		if a.TreeID == treeID && !a.Resolved {
			return true, nil
		}
	}
	return false, nil
}

func (m *memAlerts) ListOpen(_ context.Context, _ dto.RiskAlertQuery) ([]models.RiskAlert, error) {
	out := []models.RiskAlert{}
	for _, a := range m.alerts {
		if !a.Resolved {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (m *memAlerts) find(id string) *models.RiskAlert {
	for _, a := range m.alerts {
		if a.ID == id {
			return a
		}
	}
	return nil
}

func (m *memAlerts) Acknowledge(_ context.Context, id, userID string, at time.Time) (*models.RiskAlert, error) {
	a := m.find(id)
	if a == nil {
		return nil, repositories.ErrNotFound
	}
	a.Acknowledged, a.AcknowledgedBy, a.AcknowledgedAt = true, &userID, &at
	return a, nil
}

func (m *memAlerts) Resolve(_ context.Context, id, userID string, at time.Time) (*models.RiskAlert, error) {
	a := m.find(id)
	if a == nil {
		return nil, repositories.ErrNotFound
	}
	a.Resolved, a.ResolvedBy, a.ResolvedAt = true, &userID, &at
	return a, nil
}

// memPublisher records published events.
type memPublisher struct {
	events []map[string]interface{}
	err    error
}

func (p *memPublisher) Publish(_ context.Context, stream string, values map[string]interface{}) error {
	if p.err != nil {
		return p.err
	}
	values["_stream"] = stream
	p.events = append(p.events, values)
	return nil
}

// memUsers is an in-memory UserStore.
type memUsers struct {
	byID map[string]*models.User
	seq  int
}

func newMemUsers() *memUsers {
	return &memUsers{byID: map[string]*models.User{}}
}

func (m *memUsers) FindByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range m.byID {
		if u.Email == email && !u.DeletedAt.Valid {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (m *memUsers) FindActiveByID(_ context.Context, id string) (*models.User, error) {
	u, ok := m.byID[id]
	if !ok || !u.Active || u.DeletedAt.Valid {
		return nil, repositories.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *memUsers) Create(_ context.Context, user *models.User) error {
	for _, u := range m.byID {
		if u.Email == user.Email {
			return repositories.ErrDuplicate
		}
	}
	m.seq++
	user.ID = "user-" + strconv.Itoa(m.seq)
	cp := *user
	m.byID[user.ID] = &cp
	return nil
}

func (m *memUsers) UpdatePassword(_ context.Context, id, hash string) error {
	u, ok := m.byID[id]
	if !ok {
		return repositories.ErrNotFound
	}
	u.PasswordHash = hash
	return nil
}

func (m *memUsers) TouchLogin(_ context.Context, id string, at time.Time) error {
	if u, ok := m.byID[id]; ok {
		u.LastLoginAt = &at
	}
	return nil
}
