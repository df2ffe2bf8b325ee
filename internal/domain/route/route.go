package route

import (
	"fmt"
	"time"

	"github.com/SmartER-Emergency/service-navigation/internal/domain/geo"
)

// Step is a single turn instruction of a driving route.
type Step struct {
	Instruction     string  `json:"instruction"`
	DistanceMeters  float64 `json:"distance_meters"`
	DurationSeconds float64 `json:"duration_seconds"`
}

// Route is an immutable routable path between two positions.
type Route struct {
	Geometry        []geo.Position `json:"geometry"`
	Steps           []Step         `json:"steps"`
	DistanceMeters  float64        `json:"distance_meters"`
	DurationSeconds float64        `json:"duration_seconds"`
}

// CacheEntry is the single cached route slot. It is created on a successful
// fetch and overwritten by a newer fetch; there is no explicit eviction.
type CacheEntry struct {
	Key       string
	Route     *Route
	FetchedAt time.Time
}

// QuantizedKey identifies a route request by both endpoints rounded to
// 3 decimal places (~111 m). Two requests with the same key are treated as
// the same route.
func QuantizedKey(origin, destination geo.Position) string {
	return fmt.Sprintf("%.3f,%.3f-%.3f,%.3f",
		origin.Lat, origin.Lng, destination.Lat, destination.Lng)
}

// TurnSteps returns the steps shown and spoken during navigation.
// Zero-distance steps are cosmetic and excluded; the raw geometry keeps them.
func (r *Route) TurnSteps() []Step {
	steps := make([]Step, 0, len(r.Steps))
	for _, s := range r.Steps {
		if s.DistanceMeters > 0 {
			steps = append(steps, s)
		}
	}
	return steps
}

// Info is the consumer-facing view of a route: formatted totals plus the
// filtered turn list.
type Info struct {
	Distance           string  `json:"distance"`
	Duration           string  `json:"duration"`
	Steps              []Step  `json:"steps"`
	RawDistanceMeters  float64 `json:"raw_distance_meters"`
	RawDurationSeconds float64 `json:"raw_duration_seconds"`
}

// Info builds the formatted view of the route.
func (r *Route) Info() Info {
	return Info{
		Distance:           FormatDistance(r.DistanceMeters),
		Duration:           FormatDuration(r.DurationSeconds),
		Steps:              r.TurnSteps(),
		RawDistanceMeters:  r.DistanceMeters,
		RawDurationSeconds: r.DurationSeconds,
	}
}
