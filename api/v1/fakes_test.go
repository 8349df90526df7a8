package v1

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"time"

	"github.com/arboriq/arboriq-api/dto"
	"github.com/arboriq/arboriq-api/middleware"
	"github.com/arboriq/arboriq-api/models"
	"github.com/arboriq/arboriq-api/services"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

func init() {
	gin.SetMode(gin.TestMode)
}

var testUsers = map[string]*models.User{
	"admin-token":    {ID: "11111111-1111-4111-8111-111111111111", Role: models.RoleAdmin, Active: true},
	"arborist-token": {ID: "22222222-2222-4222-8222-222222222222", Role: models.RoleArborist, Active: true},
	"viewer-token":   {ID: "33333333-3333-4333-8333-333333333333", Role: models.RoleViewer, Active: true},
}

type tokenAuth struct{}

func (tokenAuth) Authenticate(_ context.Context, token string) (*models.User, error) {
	if u, ok := testUsers[token]; ok {
		return u, nil
	}
	return nil, services.ErrInvalidToken
}

// memTreeService keeps trees in a map and remembers the last call
type memTreeService struct {
	mu      sync.Mutex
	trees   map[string]*models.Tree
	deleted map[string]bool
	err     error

	lastFilter dto.TreeFilter
	lastUserID string
	calls      int
}

func newMemTreeService() *memTreeService {
	return &memTreeService{trees: map[string]*models.Tree{}, deleted: map[string]bool{}}
}

func (m *memTreeService) live() []models.Tree {
	out := []models.Tree{}
	for id, t := range m.trees {
		if !m.deleted[id] {
			out = append(out, *t)
		}
	}
	return out
}

func (m *memTreeService) List(_ context.Context, filter dto.TreeFilter) ([]models.Tree, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	m.lastFilter = filter
	if m.err != nil {
		return nil, m.err
	}
	return m.live(), nil
}

func (m *memTreeService) Get(_ context.Context, id string) (*models.Tree, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	t, ok := m.trees[id]
	if !ok || m.deleted[id] {
		return nil, services.ErrTreeNotFound
	}
	return t, nil
}

func (m *memTreeService) Create(_ context.Context, req dto.CreateTreeRequest, userID string) (*models.Tree, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	m.lastUserID = userID
	if m.err != nil {
		return nil, m.err
	}
	t := &models.Tree{
		ID:        uuid.NewString(),
		Species:   req.Species,
		HeightM:   req.HeightM,
		Latitude:  req.Latitude,
		Longitude: req.Longitude,
		CreatedBy: &userID,
		CreatedAt: time.Now(),
	}
	if req.RiskRating != nil {
		t.RiskRating = *req.RiskRating
	}
	m.trees[t.ID] = t
	return t, nil
}

func (m *memTreeService) Update(_ context.Context, id string, req dto.UpdateTreeRequest, userID string) (*models.Tree, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	m.lastUserID = userID
	t, ok := m.trees[id]
	if !ok || m.deleted[id] {
		return nil, services.ErrTreeNotFound
	}
	if req.RiskRating != nil {
		t.RiskRating = *req.RiskRating
	}
	t.UpdatedBy = &userID
	return t, nil
}

func (m *memTreeService) SetLocation(_ context.Context, id string, req dto.LocationRequest, userID string) (*models.Tree, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	t, ok := m.trees[id]
	if !ok || m.deleted[id] {
		return nil, services.ErrTreeNotFound
	}
	t.Latitude, t.Longitude = req.Latitude, req.Longitude
	t.UpdatedBy = &userID
	return t, nil
}

func (m *memTreeService) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if _, ok := m.trees[id]; !ok || m.deleted[id] {
		return services.ErrTreeNotFound
	}
	m.deleted[id] = true
	return nil
}

// Nearby treats every live tree at the exact query point as distance zero.
func (m *memTreeService) Nearby(_ context.Context, q dto.NearbyQuery) ([]models.Tree, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	out := []models.Tree{}
	for _, t := range m.live() {
		if t.Latitude != nil && t.Longitude != nil && *t.Latitude == *q.Lat && *t.Longitude == *q.Lng {
			zero := 0.0
			t.Distance = &zero
			out = append(out, t)
		}
	}
	return out, nil
}

func (m *memTreeService) HighRisk(_ context.Context, minRating int) ([]models.Tree, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	out := []models.Tree{}
	for _, t := range m.live() {
		if t.RiskRating >= minRating {
			out = append(out, t)
		}
	}
	return out, nil
}

func (m *memTreeService) InBounds(_ context.Context, q dto.BoundsQuery) ([]models.Tree, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	return m.live(), nil
}

// stubAuthService answers from fixed values
type stubAuthService struct {
	resp    *dto.AuthResponse
	profile *dto.UserProfile
	err     error
}

func (s stubAuthService) Register(context.Context, dto.RegisterRequest) (*dto.AuthResponse, error) {
	return s.resp, s.err
}

func (s stubAuthService) Login(context.Context, dto.LoginRequest) (*dto.AuthResponse, error) {
	return s.resp, s.err
}

func (s stubAuthService) Me(context.Context, string) (*dto.UserProfile, error) {
	return s.profile, s.err
}

func (s stubAuthService) ChangePassword(context.Context, string, dto.ChangePasswordRequest) error {
	return s.err
}

func (s stubAuthService) Refresh(context.Context, string) (*dto.AuthResponse, error) {
	return s.resp, s.err
}

// stubAlertService answers from fixed values
type stubAlertService struct {
	alerts []models.RiskAlert
	err    error
}

func (s stubAlertService) List(context.Context, dto.RiskAlertQuery) ([]models.RiskAlert, error) {
	return s.alerts, s.err
}

func (s stubAlertService) Acknowledge(_ context.Context, id, _ string) (*models.RiskAlert, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &models.RiskAlert{ID: id, Acknowledged: true}, nil
}

func (s stubAlertService) Resolve(_ context.Context, id, _ string) (*models.RiskAlert, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &models.RiskAlert{ID: id, Resolved: true}, nil
}

type testServer struct {
	trees      TreeService
	auth       AuthService
	alerts     RiskAlertService
	production bool
}

func (ts testServer) router() *gin.Engine {
	if ts.trees == nil {
		ts.trees = newMemTreeService()
	}
	if ts.auth == nil {
		ts.auth = stubAuthService{}
	}
	if ts.alerts == nil {
		ts.alerts = stubAlertService{}
	}

	log := zap.NewNop()
	opts := Options{Log: log, Production: ts.production}

	r := gin.New()
	r.Use(middleware.Recovery(log, ts.production))
	health := NewHealthController("test")
	RegisterHealth(r, health)
	RegisterRoutes(r.Group("/api/v1"), NewGuards(tokenAuth{}, log, 100), Controllers{
		Health:     health,
		Auth:       NewAuthController(ts.auth, opts),
		Trees:      NewTreeController(ts.trees, services.NewExportService(ts.trees), opts),
		RiskAlerts: NewRiskAlertController(ts.alerts, opts),
	})
	r.NoRoute(middleware.NotFound())
	return r
}

func do(r http.Handler, method, path, token, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}
