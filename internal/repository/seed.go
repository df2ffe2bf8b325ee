package repository

import (
	"github.com/SmartER-Emergency/service-navigation/internal/domain/geo"
	"github.com/SmartER-Emergency/service-navigation/internal/domain/hospital"
)

// DefaultHospitals is the reference directory for the Guntur / Vijayawada
// coverage area, loaded on first start when the hospitals table is empty.
func DefaultHospitals() []hospital.Hospital {
	return []hospital.Hospital{
		{
			ID:                  "1",
			Name:                "NRI General Hospital",
			Position:            geo.Position{Lat: 16.4605, Lng: 80.5380},
			Beds:                hospital.Beds{ICU: 4, General: 12},
			SpecialistAvailable: true,
			Specialties:         []string{hospital.SpecialtyCardiology, hospital.SpecialtyTrauma, hospital.SpecialtyNeurology},
			Equipment:           []string{"Ventilator", "Cath Lab", "CT Scan", "MRI"},
			Rating:              4.5,
			Phone:               "+91-9876543210",
			Address:             "Mangalagiri Road, Guntur",
			BaseScore:           92,
			ScoreLevel:          hospital.ScoreLevelGreen,
			StaticDistanceKm:    0.4,
			StaticEtaMinutes:    2,
		},
		{
			ID:                  "2",
			Name:                "Kamineni Hospital",
			Position:            geo.Position{Lat: 16.4540, Lng: 80.5310},
			Beds:                hospital.Beds{ICU: 2, General: 8},
			SpecialistAvailable: true,
			Specialties:         []string{hospital.SpecialtyCardiology, hospital.SpecialtyOrthopedics},
			Equipment:           []string{"Ventilator", "Cath Lab", "X-Ray"},
			Rating:              4.2,
			Phone:               "+91-9876543211",
			Address:             "AT Agraharam, Guntur",
			BaseScore:           78,
			ScoreLevel:          hospital.ScoreLevelYellow,
			StaticDistanceKm:    0.7,
			StaticEtaMinutes:    3,
		},
		{
			ID:                  "3",
			Name:                "Sankar Foundation Eye Hospital",
			Position:            geo.Position{Lat: 16.4620, Lng: 80.5420},
			Beds:                hospital.Beds{ICU: 0, General: 3},
			SpecialistAvailable: false,
			Specialties:         []string{hospital.SpecialtyGeneralMedicine, hospital.SpecialtyOphthalmology},
			Equipment:           []string{"X-Ray", "ECG"},
			Rating:              3.8,
			Phone:               "+91-9876543212",
			Address:             "Lakshmipuram, Guntur",
			BaseScore:           45,
			ScoreLevel:          hospital.ScoreLevelRed,
			StaticDistanceKm:    0.9,
			StaticEtaMinutes:    4,
		},
		{
			ID:                  "4",
			Name:                "Government General Hospital",
			Position:            geo.Position{Lat: 16.4555, Lng: 80.5395},
			Beds:                hospital.Beds{ICU: 3, General: 15},
			SpecialistAvailable: true,
			Specialties:         []string{hospital.SpecialtyTrauma, hospital.SpecialtyNeurology, hospital.SpecialtyCardiology},
			Equipment:           []string{"Ventilator", "CT Scan", "Trauma Care"},
			Rating:              4.7,
			Phone:               "+91-9876543213",
			Address:             "Kanna Vari Thota, Guntur",
			BaseScore:           86,
			ScoreLevel:          hospital.ScoreLevelGreen,
			StaticDistanceKm:    0.5,
			StaticEtaMinutes:    2,
		},
		{
			ID:                  "5",
			Name:                "Life Line Super Specialty",
			Position:            geo.Position{Lat: 16.4585, Lng: 80.5365},
			Beds:                hospital.Beds{ICU: 1, General: 6},
			SpecialistAvailable: false,
			Specialties:         []string{hospital.SpecialtyGeneralMedicine, hospital.SpecialtyFirstAid},
			Equipment:           []string{"ECG", "Basic Life Support"},
			Rating:              3.5,
			Phone:               "+91-9876543214",
			Address:             "Brodipet, Guntur",
			BaseScore:           58,
			ScoreLevel:          hospital.ScoreLevelYellow,
			StaticDistanceKm:    0.3,
			StaticEtaMinutes:    1,
		},
	}
}
