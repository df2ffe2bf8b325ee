package hospital

import (
	"math"
	"sort"
	"strings"

	"github.com/SmartER-Emergency/service-navigation/internal/domain/geo"
	"github.com/SmartER-Emergency/service-navigation/internal/domain/triage"
)

// maxRangeKm is the search radius for nearby hospitals.
const maxRangeKm = 25.0

// Travel is a per-hospital road distance and travel time from an external
// distance-matrix lookup.
type Travel struct {
	DistanceKm float64
	EtaMinutes int
}

// DistanceSource maps hospital IDs to externally measured travel values.
// Hospitals missing from the map fall back to great-circle distance and
// their static ETA.
type DistanceSource map[string]Travel

// Ranked is a hospital with per-query distance and ETA overlaid.
type Ranked struct {
	Hospital
	DistanceKm float64 `json:"distance_km"`
	EtaMinutes int     `json:"eta_minutes"`
}

// nicheSpecialties are not relevant to general emergency triage unless the
// condition specifically requires them.
var nicheSpecialties = map[string]bool{
	SpecialtyOphthalmology: true,
	SpecialtyDentistry:     true,
	SpecialtyDermatology:   true,
	SpecialtyENT:           true,
}

// specialtyRule maps condition keywords to required specialties. Rules are
// evaluated in order; the first rule with a keyword hit wins.
type specialtyRule struct {
	keywords    []string
	specialties []string
}

var specialtyRules = []specialtyRule{
	{[]string{"cardiac", "heart", "chest pain"}, []string{SpecialtyCardiology, SpecialtyTrauma}},
	{[]string{"stroke", "paralysis", "brain"}, []string{SpecialtyNeurology, SpecialtyTrauma}},
	{[]string{"trauma", "accident", "fracture", "bleeding"}, []string{SpecialtyTrauma, SpecialtyOrthopedics}},
	{[]string{"breathing", "respiratory", "asthma"}, []string{SpecialtyGeneralMedicine, SpecialtyTrauma}},
	{[]string{"poison", "overdose"}, []string{SpecialtyGeneralMedicine, SpecialtyTrauma}},
	{[]string{"pregnancy", "labor"}, []string{SpecialtyGeneralMedicine}},
	{[]string{"eye", "vision", "sight", "blind", "ophthal"}, []string{SpecialtyOphthalmology, SpecialtyGeneralMedicine}},
	{[]string{"dental", "tooth", "teeth"}, []string{SpecialtyDentistry, SpecialtyGeneralMedicine}},
	{[]string{"skin", "rash", "burn"}, []string{SpecialtyDermatology, SpecialtyGeneralMedicine}},
	{[]string{"ear", "hearing", "nose", "throat", "ent"}, []string{SpecialtyENT, SpecialtyGeneralMedicine}},
	{[]string{"unconscious", "not breathing"}, []string{SpecialtyTrauma, SpecialtyCardiology, SpecialtyNeurology}},
}

// RequiredSpecialties derives the specialties a condition calls for via
// ordered keyword matching. An empty result means no specialty filter.
func RequiredSpecialties(condition string) []string {
	lower := strings.ToLower(condition)
	for _, rule := range specialtyRules {
		for _, kw := range rule.keywords {
			if strings.Contains(lower, kw) {
				return rule.specialties
			}
		}
	}
	return nil
}

// Rank filters and orders hospitals for a condition and urgency. The
// pipeline is deterministic and side-effect free; every narrowing stage is
// fail-open: if a stage would empty the set, the wider set from the
// previous stage is kept instead. An empty input yields an empty result,
// which is a valid "no hospital found" outcome, not an error.
func Rank(condition string, urgency triage.Urgency, hospitals []Hospital, origin geo.Position, travel DistanceSource) []Ranked {
	ranked := make([]Ranked, 0, len(hospitals))
	for _, h := range hospitals {
		ranked = append(ranked, overlayTravel(h, origin, travel))
	}

	ranked = failOpen(ranked, func(r Ranked) bool {
		return r.DistanceKm <= maxRangeKm
	})

	required := RequiredSpecialties(condition)
	if len(required) > 0 {
		ranked = failOpen(ranked, func(r Ranked) bool {
			return hasAnySpecialty(r.Hospital, required)
		})
	}

	ranked = failOpen(ranked, func(r Ranked) bool {
		return !onlyNiche(r.Hospital, required)
	})

	if urgency == triage.UrgencyCritical {
		ranked = failOpen(ranked, func(r Ranked) bool {
			return r.Beds.ICU > 0
		})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].BaseScore > ranked[j].BaseScore
	})
	return ranked
}

// overlayTravel attaches distance and ETA: the matrix value when present,
// otherwise great-circle distance with the hospital's static ETA.
func overlayTravel(h Hospital, origin geo.Position, travel DistanceSource) Ranked {
	if t, ok := travel[h.ID]; ok {
		return Ranked{Hospital: h, DistanceKm: t.DistanceKm, EtaMinutes: t.EtaMinutes}
	}
	km := math.Round(geo.DistanceKm(origin, h.Position)*10) / 10
	return Ranked{Hospital: h, DistanceKm: km, EtaMinutes: h.StaticEtaMinutes}
}

// failOpen applies a narrowing predicate only if the result is non-empty.
func failOpen(in []Ranked, keep func(Ranked) bool) []Ranked {
	out := make([]Ranked, 0, len(in))
	for _, r := range in {
		if keep(r) {
			out = append(out, r)
		}
	}
	if len(out) == 0 {
		return in
	}
	return out
}

// onlyNiche reports whether a hospital's specialty set consists solely of
// niche specialties, none of which the condition requires.
func onlyNiche(h Hospital, required []string) bool {
	if len(h.Specialties) == 0 {
		return false
	}
	for _, s := range h.Specialties {
		if !nicheSpecialties[s] {
			return false
		}
		for _, req := range required {
			if s == req {
				return false
			}
		}
	}
	return true
}

func hasAnySpecialty(h Hospital, required []string) bool {
	for _, s := range required {
		if h.HasSpecialty(s) {
			return true
		}
	}
	return false
}
