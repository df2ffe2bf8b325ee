package navigation

import (
	"time"

	"github.com/google/uuid"

	"github.com/SmartER-Emergency/service-navigation/internal/domain/apperr"
	"github.com/SmartER-Emergency/service-navigation/internal/domain/geo"
)

// Session is a driver's navigation run toward a hospital. The generation
// counter increments every time the destination changes so that late route
// responses for a previous destination can be recognized and discarded.
type Session struct {
	id          string
	driverUnit  string
	origin      geo.Position
	destination geo.Position
	hospitalID  string
	hospital    string
	status      SessionStatus
	generation  uint64
	createdAt   time.Time
	updatedAt   time.Time
}

// NewSession creates a session in the created state.
func NewSession(driverUnit string, origin, destination geo.Position, hospitalID, hospitalName string) (*Session, error) {
	if driverUnit == "" {
		return nil, apperr.NewValidationError("driver unit is required")
	}
	if hospitalID == "" {
		return nil, apperr.NewValidationError("hospital id is required")
	}
	now := time.Now()
	return &Session{
		id:          uuid.New().String(),
		driverUnit:  driverUnit,
		origin:      origin,
		destination: destination,
		hospitalID:  hospitalID,
		hospital:    hospitalName,
		status:      StatusCreated,
		generation:  1,
		createdAt:   now,
		updatedAt:   now,
	}, nil
}

// ReconstructSession rebuilds a session from persisted state.
func ReconstructSession(
	id, driverUnit string,
	origin, destination geo.Position,
	hospitalID, hospitalName string,
	status SessionStatus,
	generation uint64,
	createdAt, updatedAt time.Time,
) *Session {
	return &Session{
		id:          id,
		driverUnit:  driverUnit,
		origin:      origin,
		destination: destination,
		hospitalID:  hospitalID,
		hospital:    hospitalName,
		status:      status,
		generation:  generation,
		createdAt:   createdAt,
		updatedAt:   updatedAt,
	}
}

func (s *Session) ID() string                { return s.id }
func (s *Session) DriverUnit() string        { return s.driverUnit }
func (s *Session) Origin() geo.Position      { return s.origin }
func (s *Session) Destination() geo.Position { return s.destination }
func (s *Session) HospitalID() string        { return s.hospitalID }
func (s *Session) HospitalName() string      { return s.hospital }
func (s *Session) Status() SessionStatus     { return s.status }
func (s *Session) Generation() uint64        { return s.generation }
func (s *Session) CreatedAt() time.Time      { return s.createdAt }
func (s *Session) UpdatedAt() time.Time      { return s.updatedAt }

// Start moves the session into active navigation.
func (s *Session) Start() error {
	if err := s.status.validateTransition(StatusNavigating); err != nil {
		return err
	}
	s.status = StatusNavigating
	s.touch()
	return nil
}

// UpdatePosition records the driver's latest position. Positions on
// terminal sessions are rejected.
func (s *Session) UpdatePosition(pos geo.Position) error {
	if s.status.IsTerminal() {
		return apperr.NewValidationError("session is no longer active")
	}
	s.origin = pos
	s.touch()
	return nil
}

// ChangeDestination retargets the session at a new hospital and bumps the
// generation counter. Route responses carrying an older generation must be
// treated as stale.
func (s *Session) ChangeDestination(destination geo.Position, hospitalID, hospitalName string) error {
	if s.status.IsTerminal() {
		return apperr.NewValidationError("session is no longer active")
	}
	if hospitalID == "" {
		return apperr.NewValidationError("hospital id is required")
	}
	s.destination = destination
	s.hospitalID = hospitalID
	s.hospital = hospitalName
	s.generation++
	s.touch()
	return nil
}

// Arrive marks the destination reached.
func (s *Session) Arrive() error {
	if err := s.status.validateTransition(StatusArrived); err != nil {
		return err
	}
	s.status = StatusArrived
	s.touch()
	return nil
}

// Complete closes out an arrived session.
func (s *Session) Complete() error {
	if err := s.status.validateTransition(StatusCompleted); err != nil {
		return err
	}
	s.status = StatusCompleted
	s.touch()
	return nil
}

// Cancel aborts the session before arrival.
func (s *Session) Cancel() error {
	if err := s.status.validateTransition(StatusCancelled); err != nil {
		return err
	}
	s.status = StatusCancelled
	s.touch()
	return nil
}

func (s *Session) touch() {
	s.updatedAt = time.Now()
}
