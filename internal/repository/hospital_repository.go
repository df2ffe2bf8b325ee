package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/SmartER-Emergency/service-navigation/internal/domain/apperr"
	"github.com/SmartER-Emergency/service-navigation/internal/domain/geo"
	hospitalDomain "github.com/SmartER-Emergency/service-navigation/internal/domain/hospital"
)

// HospitalModel is the GORM model for the hospitals table.
type HospitalModel struct {
	ID                  string          `gorm:"primaryKey;size:64"`
	Name                string          `gorm:"not null;size:200"`
	Lat                 float64         `gorm:"not null"`
	Lng                 float64         `gorm:"not null"`
	IcuBeds             int             `gorm:"not null;default:0"`
	GeneralBeds         int             `gorm:"not null;default:0"`
	SpecialistAvailable bool            `gorm:"not null;default:false"`
	Specialties         json.RawMessage `gorm:"type:jsonb;not null"`
	Equipment           json.RawMessage `gorm:"type:jsonb;not null"`
	Rating              float64         `gorm:"not null;default:0"`
	Phone               string          `gorm:"size:32"`
	Address             string          `gorm:"size:500"`
	BaseScore           int             `gorm:"not null;default:0"`
	ScoreLevel          string          `gorm:"not null;size:10"`
	StaticDistanceKm    float64         `gorm:"not null;default:0"`
	StaticEtaMinutes    int             `gorm:"not null;default:0"`
	CreatedAt           time.Time       `gorm:"not null"`
	UpdatedAt           time.Time       `gorm:"not null"`
}

// TableName returns the table name for the GORM model.
func (HospitalModel) TableName() string {
	return "hospitals"
}

// GormHospitalRepository is the GORM-based implementation of
// hospital.Directory.
type GormHospitalRepository struct {
	db *gorm.DB
}

// NewGormHospitalRepository creates a new GormHospitalRepository.
func NewGormHospitalRepository(db *gorm.DB) *GormHospitalRepository {
	return &GormHospitalRepository{db: db}
}

// FindAll retrieves every hospital in the directory.
func (r *GormHospitalRepository) FindAll(ctx context.Context) ([]hospitalDomain.Hospital, error) {
	var models []HospitalModel
	if err := r.db.WithContext(ctx).Order("base_score DESC").Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to list hospitals: %w", err)
	}

	hospitals := make([]hospitalDomain.Hospital, len(models))
	for i, m := range models {
		h, err := toDomainHospital(&m)
		if err != nil {
			return nil, err
		}
		hospitals[i] = *h
	}
	return hospitals, nil
}

// FindByID retrieves a hospital by its identifier.
func (r *GormHospitalRepository) FindByID(ctx context.Context, id string) (*hospitalDomain.Hospital, error) {
	var model HospitalModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NewNotFoundError("Hospital", id)
		}
		return nil, fmt.Errorf("failed to find hospital by ID: %w", err)
	}
	return toDomainHospital(&model)
}

// UpdateBeds sets the current bed availability for a hospital.
func (r *GormHospitalRepository) UpdateBeds(ctx context.Context, id string, beds hospitalDomain.Beds) error {
	result := r.db.WithContext(ctx).
		Model(&HospitalModel{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"icu_beds":     beds.ICU,
			"general_beds": beds.General,
			"updated_at":   time.Now(),
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update hospital beds: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperr.NewNotFoundError("Hospital", id)
	}
	return nil
}

// Save inserts or replaces a hospital record.
func (r *GormHospitalRepository) Save(ctx context.Context, h hospitalDomain.Hospital) error {
	model, err := toHospitalModel(h)
	if err != nil {
		return fmt.Errorf("failed to convert hospital to model: %w", err)
	}
	if err := r.db.WithContext(ctx).Save(model).Error; err != nil {
		return fmt.Errorf("failed to save hospital: %w", err)
	}
	return nil
}

// Seed inserts hospitals that are not present yet. Existing rows keep their
// live bed counts.
func (r *GormHospitalRepository) Seed(ctx context.Context, hospitals []hospitalDomain.Hospital) error {
	for _, h := range hospitals {
		var count int64
		if err := r.db.WithContext(ctx).Model(&HospitalModel{}).Where("id = ?", h.ID).Count(&count).Error; err != nil {
			return fmt.Errorf("failed to check hospital %s: %w", h.ID, err)
		}
		if count > 0 {
			continue
		}
		if err := r.Save(ctx, h); err != nil {
			return err
		}
	}
	return nil
}

// --- Conversion Helpers ---

func toHospitalModel(h hospitalDomain.Hospital) (*HospitalModel, error) {
	specialtiesJSON, err := json.Marshal(h.Specialties)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal specialties: %w", err)
	}
	equipmentJSON, err := json.Marshal(h.Equipment)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal equipment: %w", err)
	}

	now := time.Now()
	return &HospitalModel{
		ID:                  h.ID,
		Name:                h.Name,
		Lat:                 h.Position.Lat,
		Lng:                 h.Position.Lng,
		IcuBeds:             h.Beds.ICU,
		GeneralBeds:         h.Beds.General,
		SpecialistAvailable: h.SpecialistAvailable,
		Specialties:         specialtiesJSON,
		Equipment:           equipmentJSON,
		Rating:              h.Rating,
		Phone:               h.Phone,
		Address:             h.Address,
		BaseScore:           h.BaseScore,
		ScoreLevel:          string(h.ScoreLevel),
		StaticDistanceKm:    h.StaticDistanceKm,
		StaticEtaMinutes:    h.StaticEtaMinutes,
		CreatedAt:           now,
		UpdatedAt:           now,
	}, nil
}

func toDomainHospital(m *HospitalModel) (*hospitalDomain.Hospital, error) {
	var specialties []string
	if err := json.Unmarshal(m.Specialties, &specialties); err != nil {
		return nil, fmt.Errorf("failed to unmarshal specialties: %w", err)
	}
	var equipment []string
	if err := json.Unmarshal(m.Equipment, &equipment); err != nil {
		return nil, fmt.Errorf("failed to unmarshal equipment: %w", err)
	}

	return &hospitalDomain.Hospital{
		ID:                  m.ID,
		Name:                m.Name,
		Position:            geo.Position{Lat: m.Lat, Lng: m.Lng},
		Beds:                hospitalDomain.Beds{ICU: m.IcuBeds, General: m.GeneralBeds},
		SpecialistAvailable: m.SpecialistAvailable,
		Specialties:         specialties,
		Equipment:           equipment,
		Rating:              m.Rating,
		Phone:               m.Phone,
		Address:             m.Address,
		BaseScore:           m.BaseScore,
		ScoreLevel:          hospitalDomain.ScoreLevel(m.ScoreLevel),
		StaticDistanceKm:    m.StaticDistanceKm,
		StaticEtaMinutes:    m.StaticEtaMinutes,
	}, nil
}
