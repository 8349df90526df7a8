package dto

import "time"

// TreeFilter represents filter criteria for trees. Nil fields are not applied.
type TreeFilter struct {
	PropertyID    *string
	ZoneID        *string
	HealthStatus  *string
	MinRiskRating *int
	Limit         int
	Offset        int
}

// TreeFilterQuery holds the query parameters shared by list and export.
type TreeFilterQuery struct {
	PropertyID   *string `form:"property_id" binding:"omitempty,uuid"`
	ZoneID       *string `form:"zone_id" binding:"omitempty,uuid"`
	HealthStatus *string `form:"health_status" binding:"omitempty,oneof=excellent good fair poor dead"`
	RiskRating   *int    `form:"risk_rating" binding:"omitempty,gte=0,lte=100"`
}

// Filter converts the query into a repository filter without pagination.
func (q TreeFilterQuery) Filter() TreeFilter {
	return TreeFilter{
		PropertyID:    q.PropertyID,
		ZoneID:        q.ZoneID,
		HealthStatus:  q.HealthStatus,
		MinRiskRating: q.RiskRating,
	}
}

// TreeListQuery is GET /trees
type TreeListQuery struct {
	TreeFilterQuery
	Limit  int `form:"limit,default=50" binding:"gte=1,lte=100"`
	Offset int `form:"offset,default=0" binding:"gte=0"`
}

// Filter converts the query into a repository filter.
func (q TreeListQuery) Filter() TreeFilter {
	f := q.TreeFilterQuery.Filter()
	f.Limit = q.Limit
	f.Offset = q.Offset
	return f
}

// NearbyQuery is GET /trees/nearby
type NearbyQuery struct {
	Lat    *float64 `form:"lat" binding:"required,gte=-90,lte=90"`
	Lng    *float64 `form:"lng" binding:"required,gte=-180,lte=180"`
	Radius float64  `form:"radius,default=100" binding:"gte=1,lte=50000"`
}

// HighRiskQuery is GET /trees/high-risk
type HighRiskQuery struct {
	MinRating int `form:"min_rating,default=70" binding:"gte=0,lte=100"`
}

// BoundsQuery is GET /trees/bounds
type BoundsQuery struct {
	North *float64 `form:"north" binding:"required,gte=-90,lte=90,gtefield=South"`
	South *float64 `form:"south" binding:"required,gte=-90,lte=90"`
	East  *float64 `form:"east" binding:"required,gte=-180,lte=180"`
	West  *float64 `form:"west" binding:"required,gte=-180,lte=180"`
}

// CreateTreeRequest represents the request payload for creating a tree
type CreateTreeRequest struct {
	Species       string                 `json:"species" binding:"required,min=2,max=255"`
	CommonName    *string                `json:"common_name" binding:"omitempty,min=2,max=255"`
	Cultivar      *string                `json:"cultivar" binding:"omitempty,max=255"`
	Latitude      *float64               `json:"latitude" binding:"omitempty,gte=-90,lte=90"`
	Longitude     *float64               `json:"longitude" binding:"omitempty,gte=-180,lte=180"`
	HeightM       *float64               `json:"height_m" binding:"omitempty,gte=0,lte=200"`
	DbhCm         *float64               `json:"dbh_cm" binding:"omitempty,gte=0,lte=2000"`
	CanopySpreadM *float64               `json:"canopy_spread_m" binding:"omitempty,gte=0,lte=100"`
	HealthStatus  *string                `json:"health_status" binding:"omitempty,oneof=excellent good fair poor dead"`
	RiskRating    *int                   `json:"risk_rating" binding:"omitempty,gte=0,lte=100"`
	Address       *string                `json:"address" binding:"omitempty,max=500"`
	QRCode        *string                `json:"qr_code" binding:"omitempty,max=100"`
	NFCTag        *string                `json:"nfc_tag" binding:"omitempty,max=100"`
	ReferenceID   *string                `json:"reference_id" binding:"omitempty,max=100"`
	Attributes    map[string]interface{} `json:"attributes"`
	PropertyID    *string                `json:"property_id" binding:"omitempty,uuid"`
	ZoneID        *string                `json:"zone_id" binding:"omitempty,uuid"`
}

// UpdateTreeRequest represents a partial update. property_id and zone_id may be
// sent as null to detach the tree.
type UpdateTreeRequest struct {
	Species       *string                `json:"species" binding:"omitempty,min=2,max=255"`
	CommonName    *string                `json:"common_name" binding:"omitempty,min=2,max=255"`
	Cultivar      *string                `json:"cultivar" binding:"omitempty,max=255"`
	Latitude      *float64               `json:"latitude" binding:"omitempty,gte=-90,lte=90"`
	Longitude     *float64               `json:"longitude" binding:"omitempty,gte=-180,lte=180"`
	HeightM       *float64               `json:"height_m" binding:"omitempty,gte=0,lte=200"`
	DbhCm         *float64               `json:"dbh_cm" binding:"omitempty,gte=0,lte=2000"`
	CanopySpreadM *float64               `json:"canopy_spread_m" binding:"omitempty,gte=0,lte=100"`
	HealthStatus  *string                `json:"health_status" binding:"omitempty,oneof=excellent good fair poor dead"`
	RiskRating    *int                   `json:"risk_rating" binding:"omitempty,gte=0,lte=100"`
	Address       *string                `json:"address" binding:"omitempty,max=500"`
	QRCode        *string                `json:"qr_code" binding:"omitempty,max=100"`
	NFCTag        *string                `json:"nfc_tag" binding:"omitempty,max=100"`
	ReferenceID   *string                `json:"reference_id" binding:"omitempty,max=100"`
	Attributes    map[string]interface{} `json:"attributes"`
	PropertyID    NullString             `json:"property_id" binding:"omitempty,uuid"`
	ZoneID        NullString             `json:"zone_id" binding:"omitempty,uuid"`
}

// IsEmpty reports whether no field was supplied.
func (r UpdateTreeRequest) IsEmpty() bool {
	return r.Species == nil && r.CommonName == nil && r.Cultivar == nil &&
		r.Latitude == nil && r.Longitude == nil &&
		r.HeightM == nil && r.DbhCm == nil && r.CanopySpreadM == nil &&
		r.HealthStatus == nil && r.RiskRating == nil && r.Address == nil &&
		r.QRCode == nil && r.NFCTag == nil && r.ReferenceID == nil &&
		r.Attributes == nil && !r.PropertyID.Set && !r.ZoneID.Set
}

// LocationRequest is PUT /trees/:id/location
type LocationRequest struct {
	Latitude  *float64 `json:"latitude" binding:"required,gte=-90,lte=90"`
	Longitude *float64 `json:"longitude" binding:"required,gte=-180,lte=180"`
}

// TreeListResponse is the list envelope
type TreeListResponse struct {
	Success bool        `json:"success"`
	Count   int         `json:"count"`
	Data    interface{} `json:"data"`
}

// RiskAlertQuery is GET /risk-alerts
type RiskAlertQuery struct {
	Severity *string `form:"severity" binding:"omitempty,oneof=low medium high critical"`
	TreeID   *string `form:"tree_id" binding:"omitempty,uuid"`
	Limit    int     `form:"limit,default=50" binding:"gte=1,lte=100"`
	Offset   int     `form:"offset,default=0" binding:"gte=0"`
}

// ExportFilename names the spreadsheet for a given day.
func ExportFilename(day time.Time) string {
	return "trees-" + day.Format("2006-01-02") + ".xlsx"
}
