package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/SmartER-Emergency/service-navigation/internal/domain/apperr"
	"github.com/SmartER-Emergency/service-navigation/internal/domain/geo"
	navDomain "github.com/SmartER-Emergency/service-navigation/internal/domain/navigation"
)

// SessionModel is the GORM model for the navigation_sessions table.
type SessionModel struct {
	ID             string    `gorm:"type:uuid;primaryKey"`
	DriverUnit     string    `gorm:"not null;size:32;index"`
	OriginLat      float64   `gorm:"not null"`
	OriginLng      float64   `gorm:"not null"`
	DestinationLat float64   `gorm:"not null"`
	DestinationLng float64   `gorm:"not null"`
	HospitalID     string    `gorm:"not null;size:64;index"`
	HospitalName   string    `gorm:"not null;size:200"`
	Status         string    `gorm:"not null;size:20;index"`
	Generation     uint64    `gorm:"not null;default:1"`
	CreatedAt      time.Time `gorm:"not null"`
	UpdatedAt      time.Time `gorm:"not null"`
}

// TableName returns the table name for the GORM model.
func (SessionModel) TableName() string {
	return "navigation_sessions"
}

// GormSessionRepository persists navigation sessions.
type GormSessionRepository struct {
	db *gorm.DB
}

// NewGormSessionRepository creates a new GormSessionRepository.
func NewGormSessionRepository(db *gorm.DB) *GormSessionRepository {
	return &GormSessionRepository{db: db}
}

// Save inserts a new session.
func (r *GormSessionRepository) Save(ctx context.Context, s *navDomain.Session) error {
	if err := r.db.WithContext(ctx).Create(toSessionModel(s)).Error; err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

// Update persists changes to an existing session.
func (r *GormSessionRepository) Update(ctx context.Context, s *navDomain.Session) error {
	model := toSessionModel(s)
	result := r.db.WithContext(ctx).
		Model(&SessionModel{}).
		Where("id = ?", model.ID).
		Updates(map[string]interface{}{
			"origin_lat":      model.OriginLat,
			"origin_lng":      model.OriginLng,
			"destination_lat": model.DestinationLat,
			"destination_lng": model.DestinationLng,
			"hospital_id":     model.HospitalID,
			"hospital_name":   model.HospitalName,
			"status":          model.Status,
			"generation":      model.Generation,
			"updated_at":      model.UpdatedAt,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update session: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperr.NewNotFoundError("Session", s.ID())
	}
	return nil
}

// FindByID retrieves a session by its identifier.
func (r *GormSessionRepository) FindByID(ctx context.Context, id string) (*navDomain.Session, error) {
	var model SessionModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NewNotFoundError("Session", id)
		}
		return nil, fmt.Errorf("failed to find session by ID: %w", err)
	}
	return toDomainSession(&model)
}

// FindActiveByDriver returns the driver's most recent non-terminal session,
// or a not-found error.
func (r *GormSessionRepository) FindActiveByDriver(ctx context.Context, driverUnit string) (*navDomain.Session, error) {
	var model SessionModel
	err := r.db.WithContext(ctx).
		Where("driver_unit = ? AND status NOT IN ?", driverUnit,
			[]string{string(navDomain.StatusCompleted), string(navDomain.StatusCancelled)}).
		Order("created_at DESC").
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NewNotFoundError("Session", driverUnit)
		}
		return nil, fmt.Errorf("failed to find active session: %w", err)
	}
	return toDomainSession(&model)
}

// --- Conversion Helpers ---

func toSessionModel(s *navDomain.Session) *SessionModel {
	return &SessionModel{
		ID:             s.ID(),
		DriverUnit:     s.DriverUnit(),
		OriginLat:      s.Origin().Lat,
		OriginLng:      s.Origin().Lng,
		DestinationLat: s.Destination().Lat,
		DestinationLng: s.Destination().Lng,
		HospitalID:     s.HospitalID(),
		HospitalName:   s.HospitalName(),
		Status:         string(s.Status()),
		Generation:     s.Generation(),
		CreatedAt:      s.CreatedAt(),
		UpdatedAt:      s.UpdatedAt(),
	}
}

func toDomainSession(m *SessionModel) (*navDomain.Session, error) {
	status, err := navDomain.ParseSessionStatus(m.Status)
	if err != nil {
		return nil, err
	}
	return navDomain.ReconstructSession(
		m.ID,
		m.DriverUnit,
		geo.Position{Lat: m.OriginLat, Lng: m.OriginLng},
		geo.Position{Lat: m.DestinationLat, Lng: m.DestinationLng},
		m.HospitalID,
		m.HospitalName,
		status,
		m.Generation,
		m.CreatedAt,
		m.UpdatedAt,
	), nil
}
