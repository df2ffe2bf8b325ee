package route

import (
	"testing"

	"github.com/SmartER-Emergency/service-navigation/internal/domain/geo"
	"github.com/stretchr/testify/assert"
)

func TestQuantizedKey_NearbyPositionsCollide(t *testing.T) {
	dest := geo.NewPosition(16.4605, 80.5380)

	// ~9 m apart at the 5th decimal: identical after 3-decimal rounding.
	a := QuantizedKey(geo.NewPosition(16.45711, 80.53542), dest)
	b := QuantizedKey(geo.NewPosition(16.45719, 80.53538), dest)
	assert.Equal(t, a, b)

	// A different destination produces a different key.
	c := QuantizedKey(geo.NewPosition(16.45711, 80.53542), geo.NewPosition(16.4540, 80.5310))
	assert.NotEqual(t, a, c)
}

func TestTurnSteps_ExcludesZeroDistance(t *testing.T) {
	r := &Route{
		Steps: []Step{
			{Instruction: "Head towards MG Road", DistanceMeters: 420, DurationSeconds: 60},
			{Instruction: "You have arrived at your destination", DistanceMeters: 0, DurationSeconds: 0},
			{Instruction: "Turn left onto MG Road", DistanceMeters: 130, DurationSeconds: 25},
		},
	}

	steps := r.TurnSteps()
	assert.Len(t, steps, 2)
	assert.Equal(t, "Head towards MG Road", steps[0].Instruction)
	assert.Equal(t, "Turn left onto MG Road", steps[1].Instruction)
}

func TestInfo_FormatsTotals(t *testing.T) {
	r := &Route{
		Steps:           []Step{{Instruction: "Head towards MG Road", DistanceMeters: 2345, DurationSeconds: 125}},
		DistanceMeters:  2345,
		DurationSeconds: 125,
	}

	info := r.Info()
	assert.Equal(t, "2.3 km", info.Distance)
	assert.Equal(t, "2 min", info.Duration)
	assert.Equal(t, 2345.0, info.RawDistanceMeters)
	assert.Equal(t, 125.0, info.RawDurationSeconds)
	assert.Len(t, info.Steps, 1)
}
