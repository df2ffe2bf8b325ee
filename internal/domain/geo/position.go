package geo

import (
	"fmt"
	"math"

	"github.com/paulmach/orb"
)

// earthRadiusMeters is the mean Earth radius used for great-circle math.
const earthRadiusMeters = 6371000.0

// Position is an immutable geographic coordinate in float degrees.
type Position struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// FallbackPosition is used when device geolocation is unavailable or denied.
// It centers on the Guntur / Vijayawada service area.
var FallbackPosition = Position{Lat: 16.4575, Lng: 80.5354}

// NewPosition creates a Position from latitude and longitude degrees.
func NewPosition(lat, lng float64) Position {
	return Position{Lat: lat, Lng: lng}
}

// FromPoint converts an orb.Point (lng, lat order) to a Position.
func FromPoint(pt orb.Point) Position {
	return Position{Lat: pt.Lat(), Lng: pt.Lon()}
}

// Point converts the position to an orb.Point (lng, lat order).
func (p Position) Point() orb.Point {
	return orb.Point{p.Lng, p.Lat}
}

// String renders the position as raw coordinates to 4 decimal places,
// the fallback display when reverse geocoding fails.
func (p Position) String() string {
	return fmt.Sprintf("%.4f, %.4f", p.Lat, p.Lng)
}

// DistanceMeters returns the haversine great-circle distance between two
// positions in meters.
func DistanceMeters(a, b Position) float64 {
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLng := (b.Lng - a.Lng) * math.Pi / 180
	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	return earthRadiusMeters * 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}

// DistanceKm returns the haversine great-circle distance between two
// positions in kilometers.
func DistanceKm(a, b Position) float64 {
	return DistanceMeters(a, b) / 1000.0
}
