package validation

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/arboriq/arboriq-api/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func jsonRequest(body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func fields(details []dto.ErrorDetail) []string {
	out := make([]string, 0, len(details))
	for _, d := range details {
		out = append(out, d.Field)
	}
	return out
}

// =============================================================================
// BindJSON
// =============================================================================

func TestBindJSON_CreateTree(t *testing.T) {
	t.Run("valid body", func(t *testing.T) {
		var req dto.CreateTreeRequest
		details := BindJSON(jsonRequest(`{"species":"Eucalyptus regnans","height_m":25.5,"risk_rating":10,"latitude":-37.8136,"longitude":144.9631,"unknown":"dropped"}`), &req)

		require.Empty(t, details)
		assert.Equal(t, "Eucalyptus regnans", req.Species)
		require.NotNil(t, req.HeightM)
		assert.Equal(t, 25.5, *req.HeightM)
		require.NotNil(t, req.Latitude)
		assert.InDelta(t, -37.8136, *req.Latitude, 1e-9)
	})

	t.Run("negative height", func(t *testing.T) {
		var req dto.CreateTreeRequest
		details := BindJSON(jsonRequest(`{"species":"Quercus robur","height_m":-5}`), &req)

		require.Len(t, details, 1)
		assert.Equal(t, "height_m", details[0].Field)
		assert.Equal(t, `"height_m" must be greater than or equal to 0`, details[0].Message)
	})

	t.Run("collects every violation", func(t *testing.T) {
		var req dto.CreateTreeRequest
		details := BindJSON(jsonRequest(`{"height_m":500,"risk_rating":101,"health_status":"sick","latitude":95,"longitude":0}`), &req)

		assert.ElementsMatch(t, []string{"species", "height_m", "risk_rating", "health_status", "latitude"}, fields(details))
	})

	t.Run("enum message lists the values", func(t *testing.T) {
		var req dto.CreateTreeRequest
		details := BindJSON(jsonRequest(`{"species":"Acer","health_status":"sick"}`), &req)

		require.Len(t, details, 1)
		assert.Equal(t, `"health_status" must be one of [excellent, good, fair, poor, dead]`, details[0].Message)
	})

	t.Run("species too short", func(t *testing.T) {
		var req dto.CreateTreeRequest
		details := BindJSON(jsonRequest(`{"species":"A"}`), &req)

		require.Len(t, details, 1)
		assert.Equal(t, `"species" length must be at least 2 characters long`, details[0].Message)
	})

	t.Run("wrong type is reported by field", func(t *testing.T) {
		var req dto.CreateTreeRequest
		details := BindJSON(jsonRequest(`{"species":"Acer","height_m":"tall"}`), &req)

		require.Len(t, details, 1)
		assert.Equal(t, "height_m", details[0].Field)
		assert.Equal(t, `"height_m" must be a number`, details[0].Message)
	})

	t.Run("every wrong type is reported", func(t *testing.T) {
		var req dto.CreateTreeRequest
		details := BindJSON(jsonRequest(`{"species":"Oak","height_m":"tall","dbh_cm":"wide","risk_rating":"x"}`), &req)

		assert.Equal(t, []dto.ErrorDetail{
			{Field: "height_m", Message: `"height_m" must be a number`},
			{Field: "dbh_cm", Message: `"dbh_cm" must be a number`},
			{Field: "risk_rating", Message: `"risk_rating" must be an integer`},
		}, details)
		assert.Nil(t, req.HeightM)
	})

	t.Run("type errors and rule violations together", func(t *testing.T) {
		var req dto.CreateTreeRequest
		details := BindJSON(jsonRequest(`{"height_m":"tall","risk_rating":101}`), &req)

		assert.ElementsMatch(t, []string{"height_m", "species", "risk_rating"}, fields(details))
	})

	t.Run("numeric strings are converted", func(t *testing.T) {
		var req dto.CreateTreeRequest
		details := BindJSON(jsonRequest(`{"species":"Oak","height_m":"25.5","risk_rating":"10"}`), &req)

		require.Empty(t, details)
		require.NotNil(t, req.HeightM)
		assert.Equal(t, 25.5, *req.HeightM)
		require.NotNil(t, req.RiskRating)
		assert.Equal(t, 10, *req.RiskRating)
	})

	t.Run("converted strings still meet the range", func(t *testing.T) {
		var req dto.CreateTreeRequest
		details := BindJSON(jsonRequest(`{"species":"Oak","risk_rating":"150"}`), &req)

		require.Len(t, details, 1)
		assert.Equal(t, `"risk_rating" must be less than or equal to 100`, details[0].Message)
	})

	t.Run("fractional integer", func(t *testing.T) {
		var req dto.CreateTreeRequest
		details := BindJSON(jsonRequest(`{"species":"Oak","risk_rating":"10.5"}`), &req)

		require.Len(t, details, 1)
		assert.Equal(t, `"risk_rating" must be an integer`, details[0].Message)
	})

	t.Run("latitude without longitude", func(t *testing.T) {
		var req dto.CreateTreeRequest
		details := BindJSON(jsonRequest(`{"species":"Oak","latitude":-37.81}`), &req)

		require.Len(t, details, 1)
		assert.Equal(t, "longitude", details[0].Field)
		assert.Equal(t, `"longitude" is required when "latitude" is set`, details[0].Message)
	})

	t.Run("body that is not an object", func(t *testing.T) {
		var req dto.CreateTreeRequest
		details := BindJSON(jsonRequest(`["Oak"]`), &req)

		require.Len(t, details, 1)
		assert.Equal(t, "value", details[0].Field)
	})

	t.Run("malformed json", func(t *testing.T) {
		var req dto.CreateTreeRequest
		details := BindJSON(jsonRequest(`{"species":`), &req)

		require.Len(t, details, 1)
		assert.Equal(t, "body", details[0].Field)
	})

	t.Run("bad property uuid", func(t *testing.T) {
		var req dto.CreateTreeRequest
		details := BindJSON(jsonRequest(`{"species":"Acer","property_id":"not-a-uuid"}`), &req)

		require.Len(t, details, 1)
		assert.Equal(t, `"property_id" must be a valid UUID`, details[0].Message)
	})
}

func TestBindJSON_UpdateTree(t *testing.T) {
	t.Run("empty body", func(t *testing.T) {
		var req dto.UpdateTreeRequest
		details := BindJSON(jsonRequest(`{}`), &req)

		require.Len(t, details, 1)
		assert.Equal(t, "value", details[0].Field)
		assert.Equal(t, `"value" must have at least 1 key`, details[0].Message)
	})

	t.Run("missing body", func(t *testing.T) {
		var req dto.UpdateTreeRequest
		details := BindJSON(jsonRequest(""), &req)

		require.Len(t, details, 1)
		assert.Equal(t, "value", details[0].Field)
	})

	t.Run("only unknown keys", func(t *testing.T) {
		var req dto.UpdateTreeRequest
		details := BindJSON(jsonRequest(`{"colour":"green"}`), &req)

		require.Len(t, details, 1)
		assert.Equal(t, "value", details[0].Field)
	})

	t.Run("explicit null property clears it", func(t *testing.T) {
		var req dto.UpdateTreeRequest
		details := BindJSON(jsonRequest(`{"property_id":null}`), &req)

		require.Empty(t, details)
		assert.True(t, req.PropertyID.Set)
		assert.Nil(t, req.PropertyID.Ptr())
	})

	t.Run("nullable uuid is still validated", func(t *testing.T) {
		var req dto.UpdateTreeRequest
		details := BindJSON(jsonRequest(`{"zone_id":"zone-1"}`), &req)

		require.Len(t, details, 1)
		assert.Equal(t, "zone_id", details[0].Field)
	})

	t.Run("lone coordinate", func(t *testing.T) {
		var req dto.UpdateTreeRequest
		details := BindJSON(jsonRequest(`{"longitude":144.96}`), &req)

		require.Len(t, details, 1)
		assert.Equal(t, "latitude", details[0].Field)
	})

	t.Run("wrong type for nullable id", func(t *testing.T) {
		var req dto.UpdateTreeRequest
		details := BindJSON(jsonRequest(`{"zone_id":7,"risk_rating":"85"}`), &req)

		require.Len(t, details, 1)
		assert.Equal(t, `"zone_id" must be a string`, details[0].Message)
		assert.False(t, req.ZoneID.Set)
	})

	t.Run("partial update", func(t *testing.T) {
		var req dto.UpdateTreeRequest
		details := BindJSON(jsonRequest(`{"risk_rating":85}`), &req)

		require.Empty(t, details)
		require.NotNil(t, req.RiskRating)
		assert.Equal(t, 85, *req.RiskRating)
	})
}

// =============================================================================
// BindQuery
// =============================================================================

func queryRequest(rawQuery string) *http.Request {
	return httptest.NewRequest(http.MethodGet, "/?"+rawQuery, nil)
}

func TestBindQuery_Nearby(t *testing.T) {
	t.Run("radius defaults to 100", func(t *testing.T) {
		var q dto.NearbyQuery
		details := BindQuery(queryRequest("lat=-37.8136&lng=144.9631"), &q)

		require.Empty(t, details)
		require.NotNil(t, q.Lat)
		assert.InDelta(t, -37.8136, *q.Lat, 1e-9)
		assert.Equal(t, 100.0, q.Radius)
	})

	t.Run("lat out of range", func(t *testing.T) {
		var q dto.NearbyQuery
		details := BindQuery(queryRequest("lat=200&lng=0"), &q)

		require.Len(t, details, 1)
		assert.Equal(t, "lat", details[0].Field)
		assert.Equal(t, `"lat" must be less than or equal to 90`, details[0].Message)
	})

	t.Run("lat and lng required", func(t *testing.T) {
		var q dto.NearbyQuery
		details := BindQuery(queryRequest(""), &q)

		assert.ElementsMatch(t, []string{"lat", "lng"}, fields(details))
	})

	t.Run("non numeric lat", func(t *testing.T) {
		var q dto.NearbyQuery
		details := BindQuery(queryRequest("lat=north&lng=0"), &q)

		require.Len(t, details, 1)
		assert.Equal(t, `"lat" must be a number`, details[0].Message)
	})

	t.Run("bad number and missing field together", func(t *testing.T) {
		var q dto.NearbyQuery
		details := BindQuery(queryRequest("lat=abc"), &q)

		assert.Equal(t, []dto.ErrorDetail{
			{Field: "lat", Message: `"lat" must be a number`},
			{Field: "lng", Message: `"lng" is required`},
		}, details)
	})

	t.Run("bad number does not hide a range error", func(t *testing.T) {
		var q dto.NearbyQuery
		details := BindQuery(queryRequest("lat=abc&lng=500&radius=wide"), &q)

		assert.ElementsMatch(t, []string{"lat", "lng", "radius"}, fields(details))
	})

	t.Run("radius bounded", func(t *testing.T) {
		var q dto.NearbyQuery
		details := BindQuery(queryRequest("lat=0&lng=0&radius=60000"), &q)

		require.Len(t, details, 1)
		assert.Equal(t, "radius", details[0].Field)
	})
}

func TestBindQuery_List(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		var q dto.TreeListQuery
		require.Empty(t, BindQuery(queryRequest(""), &q))

		assert.Equal(t, 50, q.Limit)
		assert.Equal(t, 0, q.Offset)
		assert.Nil(t, q.RiskRating)
	})

	t.Run("filters are coerced", func(t *testing.T) {
		var q dto.TreeListQuery
		require.Empty(t, BindQuery(queryRequest("risk_rating=40&health_status=poor&limit=10&offset=20"), &q))

		f := q.Filter()
		require.NotNil(t, f.MinRiskRating)
		assert.Equal(t, 40, *f.MinRiskRating)
		require.NotNil(t, f.HealthStatus)
		assert.Equal(t, "poor", *f.HealthStatus)
		assert.Equal(t, 10, f.Limit)
		assert.Equal(t, 20, f.Offset)
	})

	t.Run("limit above 100", func(t *testing.T) {
		var q dto.TreeListQuery
		details := BindQuery(queryRequest("limit=500"), &q)

		require.Len(t, details, 1)
		assert.Equal(t, "limit", details[0].Field)
	})

	t.Run("non numeric risk rating in embedded filter", func(t *testing.T) {
		var q dto.TreeListQuery
		details := BindQuery(queryRequest("risk_rating=high"), &q)

		require.Len(t, details, 1)
		assert.Equal(t, "risk_rating", details[0].Field)
	})
}

func TestBindQuery_HighRiskDefault(t *testing.T) {
	var q dto.HighRiskQuery
	require.Empty(t, BindQuery(queryRequest(""), &q))
	assert.Equal(t, 70, q.MinRating)
}

func TestBindQuery_Bounds(t *testing.T) {
	var q dto.BoundsQuery
	details := BindQuery(queryRequest("north=-38&south=-37&east=145&west=144"), &q)

	require.Len(t, details, 1)
	assert.Equal(t, "north", details[0].Field)
}
