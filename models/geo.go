package models

import (
	"context"
	"database/sql/driver"
	"encoding/binary"
	"fmt"
	"math"

	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/ewkb"
	"github.com/twpayne/go-geom/encoding/ewkbhex"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SRID is the WGS-84 spatial reference used by every spatial column.
const SRID = 4326

// GeoPoint is a geography(Point, 4326) value. The zero value is SQL NULL.
type GeoPoint struct {
	Lat   float64
	Lng   float64
	Valid bool
}

// NewGeoPoint returns a valid point for the given coordinates.
func NewGeoPoint(lat, lng float64) GeoPoint {
	return GeoPoint{Lat: lat, Lng: lng, Valid: true}
}

// PointExpr renders a PostGIS point constructor. PostGIS takes (x, y), so longitude goes first.
func PointExpr(lat, lng float64) clause.Expr {
	return gorm.Expr("ST_SetSRID(ST_MakePoint(?, ?), 4326)", lng, lat)
}

// GormValue writes the point through ST_MakePoint.
func (p GeoPoint) GormValue(ctx context.Context, db *gorm.DB) clause.Expr {
	if !p.Valid {
		return clause.Expr{SQL: "NULL"}
	}
	return PointExpr(p.Lat, p.Lng)
}

// Value is used outside gorm's statement builder (raw queries, sqlmock args) and
// encodes the point as hex EWKB, which PostGIS accepts as text input.
func (p GeoPoint) Value() (driver.Value, error) {
	if !p.Valid {
		return nil, nil
	}
	pt := geom.NewPointFlat(geom.XY, []float64{p.Lng, p.Lat}).SetSRID(SRID)
	return ewkbhex.Encode(pt, binary.LittleEndian)
}

// Scan decodes the EWKB PostgreSQL returns for geography/geometry points,
// either hex text or raw bytes from the binary protocol.
func (p *GeoPoint) Scan(value interface{}) error {
	*p = GeoPoint{}
	var raw []byte
	switch v := value.(type) {
	case nil:
		return nil
	case string:
		raw = []byte(v)
	case []byte:
		raw = v
	default:
		return fmt.Errorf("geopoint: unsupported scan type %T", value)
	}
	if len(raw) == 0 {
		return nil
	}

	g, err := ewkbhex.Decode(string(raw))
	if err != nil {
		if g, err = ewkb.Unmarshal(raw); err != nil {
			return fmt.Errorf("geopoint: %w", err)
		}
	}
	pt, ok := g.(*geom.Point)
	if !ok {
		return fmt.Errorf("geopoint: geometry %T is not a point", g)
	}
	// POINT EMPTY is encoded as NaN coordinates
	if pt.Empty() || math.IsNaN(pt.X()) || math.IsNaN(pt.Y()) {
		return nil
	}

	*p = GeoPoint{Lat: pt.Y(), Lng: pt.X(), Valid: true}
	return nil
}

// GormDataType keeps AutoMigrate on the geography type when no explicit tag is set.
func (GeoPoint) GormDataType() string {
	return "geography(Point,4326)"
}
