// Package client is a Go client for the ArborIQ REST API.
package client

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/arboriq/arboriq-api/dto"
	"github.com/arboriq/arboriq-api/models"
	"github.com/go-resty/resty/v2"
)

// DefaultTimeout bounds every request
const DefaultTimeout = 10 * time.Second

// APIError is a non-2xx answer from the API
type APIError struct {
	StatusCode int
	Message    string
	Details    []dto.ErrorDetail
}

func (e *APIError) Error() string {
	if len(e.Details) == 0 {
		return fmt.Sprintf("arboriq: %d %s", e.StatusCode, e.Message)
	}
	fields := make([]string, 0, len(e.Details))
	for _, d := range e.Details {
		fields = append(fields, d.Message)
	}
	return fmt.Sprintf("arboriq: %d %s: %s", e.StatusCode, e.Message, strings.Join(fields, "; "))
}

// Client talks to one API root such as http://localhost:3000/api/v1
type Client struct {
	http *resty.Client

	mu    sync.RWMutex
	token string
}

// Option configures a Client
type Option func(*Client)

// WithTimeout replaces DefaultTimeout
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.SetTimeout(d) }
}

// WithToken starts the client already signed in
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

// WithRetry retries transport failures count times
func WithRetry(count int, wait time.Duration) Option {
	return func(c *Client) {
		c.http.SetRetryCount(count).SetRetryWaitTime(wait)
	}
}

// New creates a client for baseURL
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		http: resty.New().
			SetBaseURL(strings.TrimRight(baseURL, "/")).
			SetTimeout(DefaultTimeout).
			SetHeader("Content-Type", "application/json").
			SetHeader("Accept", "application/json"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetToken replaces the bearer token; an empty token signs out
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

// Token returns the current bearer token
func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

type envelope[T any] struct {
	Success bool `json:"success"`
	Count   int  `json:"count"`
	Data    T    `json:"data"`
}

func (c *Client) do(ctx context.Context, method, path string, body interface{}, query map[string]string, out interface{}) error {
	req := c.http.R().SetContext(ctx).SetError(&dto.ErrorResponse{})
	if token := c.Token(); token != "" {
		req.SetAuthToken(token)
	}
	if body != nil {
		req.SetBody(body)
	}
	if len(query) > 0 {
		req.SetQueryParams(query)
	}
	if out != nil {
		req.SetResult(out)
	}

	resp, err := req.Execute(method, path)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	if !resp.IsError() {
		return nil
	}

	apiErr := &APIError{StatusCode: resp.StatusCode(), Message: http.StatusText(resp.StatusCode())}
	if e, ok := resp.Error().(*dto.ErrorResponse); ok && e.Error != "" {
		apiErr.Message = e.Error
		apiErr.Details = e.Details
	}
	if resp.StatusCode() == http.StatusUnauthorized {
		c.SetToken("")
	}
	return apiErr
}

// =============================================================================
// Auth
// =============================================================================

// Login signs in and keeps the token for later calls
func (c *Client) Login(ctx context.Context, email, password string) (*dto.AuthResponse, error) {
	return c.authenticate(ctx, "/auth/login", dto.LoginRequest{Email: email, Password: password})
}

// Register creates an account and keeps the token for later calls
func (c *Client) Register(ctx context.Context, req dto.RegisterRequest) (*dto.AuthResponse, error) {
	return c.authenticate(ctx, "/auth/register", req)
}

func (c *Client) authenticate(ctx context.Context, path string, body interface{}) (*dto.AuthResponse, error) {
	var out envelope[dto.AuthResponse]
	if err := c.do(ctx, http.MethodPost, path, body, nil, &out); err != nil {
		return nil, err
	}
	c.SetToken(out.Data.Token)
	return &out.Data, nil
}

// Me returns the signed-in user's profile
func (c *Client) Me(ctx context.Context) (*dto.UserProfile, error) {
	var out envelope[dto.UserProfile]
	if err := c.do(ctx, http.MethodGet, "/auth/me", nil, nil, &out); err != nil {
		return nil, err
	}
	return &out.Data, nil
}

// =============================================================================
// Trees
// =============================================================================

// TreeFilters narrows ListTrees. Zero values are not sent.
type TreeFilters struct {
	PropertyID    string
	ZoneID        string
	HealthStatus  string
	MinRiskRating *int
	Limit         int
	Offset        int
}

func (f TreeFilters) query() map[string]string {
	q := map[string]string{}
	set := func(key, value string) {
		if value != "" {
			q[key] = value
		}
	}
	set("property_id", f.PropertyID)
	set("zone_id", f.ZoneID)
	set("health_status", f.HealthStatus)
	if f.MinRiskRating != nil {
		q["risk_rating"] = strconv.Itoa(*f.MinRiskRating)
	}
	if f.Limit > 0 {
		q["limit"] = strconv.Itoa(f.Limit)
	}
	if f.Offset > 0 {
		q["offset"] = strconv.Itoa(f.Offset)
	}
	return q
}

// ListTrees returns live trees matching filters
func (c *Client) ListTrees(ctx context.Context, filters TreeFilters) ([]models.Tree, error) {
	return c.trees(ctx, "/trees", filters.query())
}

// GetTree returns one tree
func (c *Client) GetTree(ctx context.Context, id string) (*models.Tree, error) {
	return c.tree(ctx, http.MethodGet, "/trees/"+id, nil)
}

// CreateTree records a new tree
func (c *Client) CreateTree(ctx context.Context, req dto.CreateTreeRequest) (*models.Tree, error) {
	return c.tree(ctx, http.MethodPost, "/trees", req)
}

// UpdateTree sends a partial update; only the keys in changes are touched, and a nil value clears a field
func (c *Client) UpdateTree(ctx context.Context, id string, changes map[string]interface{}) (*models.Tree, error) {
	return c.tree(ctx, http.MethodPut, "/trees/"+id, changes)
}

// SetTreeLocation moves a tree
func (c *Client) SetTreeLocation(ctx context.Context, id string, lat, lng float64) (*models.Tree, error) {
	return c.tree(ctx, http.MethodPut, "/trees/"+id+"/location", dto.LocationRequest{Latitude: &lat, Longitude: &lng})
}

// DeleteTree soft-deletes a tree
func (c *Client) DeleteTree(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/trees/"+id, nil, nil, nil)
}

// NearbyTrees returns trees within radius meters, nearest first
func (c *Client) NearbyTrees(ctx context.Context, lat, lng, radius float64) ([]models.Tree, error) {
	q := map[string]string{"lat": formatFloat(lat), "lng": formatFloat(lng)}
	if radius > 0 {
		q["radius"] = formatFloat(radius)
	}
	return c.trees(ctx, "/trees/nearby", q)
}

// TreesInBounds returns trees inside a map viewport
func (c *Client) TreesInBounds(ctx context.Context, north, south, east, west float64) ([]models.Tree, error) {
	return c.trees(ctx, "/trees/bounds", map[string]string{
		"north": formatFloat(north),
		"south": formatFloat(south),
		"east":  formatFloat(east),
		"west":  formatFloat(west),
	})
}

// HighRiskTrees returns trees rated minRating or above
func (c *Client) HighRiskTrees(ctx context.Context, minRating int) ([]models.Tree, error) {
	return c.trees(ctx, "/trees/high-risk", map[string]string{"min_rating": strconv.Itoa(minRating)})
}

func (c *Client) trees(ctx context.Context, path string, query map[string]string) ([]models.Tree, error) {
	var out envelope[[]models.Tree]
	if err := c.do(ctx, http.MethodGet, path, nil, query, &out); err != nil {
		return nil, err
	}
	return out.Data, nil
}

func (c *Client) tree(ctx context.Context, method, path string, body interface{}) (*models.Tree, error) {
	var out envelope[models.Tree]
	if err := c.do(ctx, method, path, body, nil, &out); err != nil {
		return nil, err
	}
	return &out.Data, nil
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
