package hospital

import (
	"context"

	"github.com/SmartER-Emergency/service-navigation/internal/domain/geo"
)

// Specialty names used by the directory and the matcher.
const (
	SpecialtyCardiology      = "Cardiology"
	SpecialtyTrauma          = "Trauma"
	SpecialtyNeurology       = "Neurology"
	SpecialtyOrthopedics     = "Orthopedics"
	SpecialtyGeneralMedicine = "General Medicine"
	SpecialtyOphthalmology   = "Ophthalmology"
	SpecialtyDentistry       = "Dentistry"
	SpecialtyDermatology     = "Dermatology"
	SpecialtyENT             = "ENT"
	SpecialtyFirstAid        = "First Aid"
)

// ScoreLevel is the traffic-light banding of a hospital's base score.
type ScoreLevel string

const (
	ScoreLevelGreen  ScoreLevel = "green"
	ScoreLevelYellow ScoreLevel = "yellow"
	ScoreLevelRed    ScoreLevel = "red"
)

// Beds holds current bed availability.
type Beds struct {
	ICU     int `json:"icu"`
	General int `json:"general"`
}

// Hospital is read-only reference data about a care facility. The base
// score is externally supplied; distance and ETA are overlaid per query,
// never mutated in place.
type Hospital struct {
	ID                  string       `json:"id"`
	Name                string       `json:"name"`
	Position            geo.Position `json:"position"`
	Beds                Beds         `json:"beds"`
	SpecialistAvailable bool         `json:"specialist_available"`
	Specialties         []string     `json:"specialties"`
	Equipment           []string     `json:"equipment"`
	Rating              float64      `json:"rating"`
	Phone               string       `json:"phone"`
	Address             string       `json:"address"`
	BaseScore           int          `json:"base_score"`
	ScoreLevel          ScoreLevel   `json:"score_level"`
	StaticDistanceKm    float64      `json:"static_distance_km"`
	StaticEtaMinutes    int          `json:"static_eta_minutes"`
}

// HasSpecialty returns true if the hospital lists the given specialty.
func (h Hospital) HasSpecialty(specialty string) bool {
	for _, s := range h.Specialties {
		if s == specialty {
			return true
		}
	}
	return false
}

// Directory is the persistence contract for the hospital reference data.
type Directory interface {
	// FindAll returns every hospital in the directory.
	FindAll(ctx context.Context) ([]Hospital, error)

	// FindByID returns a single hospital.
	FindByID(ctx context.Context, id string) (*Hospital, error)

	// UpdateBeds replaces the current bed availability for a hospital.
	UpdateBeds(ctx context.Context, id string, beds Beds) error
}
