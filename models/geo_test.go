package models

import (
	"encoding/binary"
	"encoding/hex"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ewkbPointHex encodes a little-endian EWKB point with SRID 4326.
func ewkbPointHex(x, y float64) string {
	b := make([]byte, 25)
	b[0] = 1
	binary.LittleEndian.PutUint32(b[1:5], 0x20000001)
	binary.LittleEndian.PutUint32(b[5:9], SRID)
	binary.LittleEndian.PutUint64(b[9:17], math.Float64bits(x))
	binary.LittleEndian.PutUint64(b[17:25], math.Float64bits(y))
	return hex.EncodeToString(b)
}

func TestGeoPointScan(t *testing.T) {
	tests := []struct {
		name  string
		value interface{}
		want  GeoPoint
	}{
		{"nil", nil, GeoPoint{}},
		{"empty", "", GeoPoint{}},
		{"little endian with srid", "0101000020E6100000000000000000F03F0000000000000040", NewGeoPoint(2, 1)},
		{"big endian with srid", "0020000001000010E63FF00000000000004000000000000000", NewGeoPoint(2, 1)},
		{"plain wkb", []byte("0101000000000000000000F03F0000000000000040"), NewGeoPoint(2, 1)},
		{"melbourne", ewkbPointHex(144.9631, -37.8136), NewGeoPoint(-37.8136, 144.9631)},
		{"point empty", ewkbPointHex(math.NaN(), math.NaN()), GeoPoint{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var p GeoPoint
			require.NoError(t, p.Scan(tt.value))
			assert.Equal(t, tt.want.Valid, p.Valid)
			assert.InDelta(t, tt.want.Lat, p.Lat, 1e-9)
			assert.InDelta(t, tt.want.Lng, p.Lng, 1e-9)
		})
	}
}

func TestGeoPointScan_Rejects(t *testing.T) {
	var p GeoPoint

	// LINESTRING
	assert.Error(t, p.Scan("0102000020E6100000"+"02000000"+"000000000000F03F000000000000F03F000000000000F03F000000000000F03F"))
	assert.Error(t, p.Scan("0101000020E6100000"), "truncated")
	assert.Error(t, p.Scan(42))
	assert.False(t, p.Valid)
}

func TestGeoPointValue(t *testing.T) {
	v, err := NewGeoPoint(-37.8136, 144.9631).Value()
	require.NoError(t, err)
	assert.Equal(t, ewkbPointHex(144.9631, -37.8136), v)

	var back GeoPoint
	require.NoError(t, back.Scan(v))
	assert.True(t, back.Valid)
	assert.InDelta(t, -37.8136, back.Lat, 1e-9)
	assert.InDelta(t, 144.9631, back.Lng, 1e-9)

	v, err = GeoPoint{}.Value()
	require.NoError(t, err)
	assert.Nil(t, v)
}

func TestSeverityForRating(t *testing.T) {
	assert.Equal(t, SeverityCritical, SeverityForRating(95))
	assert.Equal(t, SeverityCritical, SeverityForRating(90))
	assert.Equal(t, SeverityHigh, SeverityForRating(80))
	assert.Equal(t, SeverityMedium, SeverityForRating(70))
}
