package notification

import (
	"time"

	"github.com/google/uuid"

	"github.com/SmartER-Emergency/service-navigation/internal/domain/apperr"
	"github.com/SmartER-Emergency/service-navigation/internal/domain/triage"
)

// Source identifies where a hospital notification originated.
type Source string

const (
	SourceNavigation Source = "navigation"
	SourceEmergency  Source = "emergency"
)

// Notification is an incoming-patient alert delivered to a hospital's feed
// when an ambulance starts (or retargets) navigation toward it.
type Notification struct {
	ID           string         `json:"id"`
	HospitalID   string         `json:"hospitalId"`
	HospitalName string         `json:"hospitalName"`
	Condition    string         `json:"condition"`
	Urgency      triage.Urgency `json:"urgency"`
	DriverUnit   string         `json:"driverUnit"`
	ETA          string         `json:"eta"`
	Distance     string         `json:"distance"`
	Source       Source         `json:"source"`
	Timestamp    time.Time      `json:"timestamp"`
	Seen         bool           `json:"seen"`
}

// New builds a hospital notification with a fresh identity.
func New(hospitalID, hospitalName, condition string, urgency triage.Urgency, driverUnit, eta, distance string, source Source) (*Notification, error) {
	if hospitalID == "" {
		return nil, apperr.NewValidationError("hospital id is required")
	}
	if condition == "" {
		return nil, apperr.NewValidationError("condition is required")
	}
	return &Notification{
		ID:           uuid.New().String(),
		HospitalID:   hospitalID,
		HospitalName: hospitalName,
		Condition:    condition,
		Urgency:      urgency,
		DriverUnit:   driverUnit,
		ETA:          eta,
		Distance:     distance,
		Source:       source,
		Timestamp:    time.Now(),
	}, nil
}

// AmbulanceRequest is a citizen's dispatch request, queued for an available
// unit.
type AmbulanceRequest struct {
	ID        string         `json:"id"`
	Condition string         `json:"condition"`
	Urgency   triage.Urgency `json:"urgency"`
	Address   string         `json:"address"`
	Lat       float64        `json:"lat"`
	Lng       float64        `json:"lng"`
	Unit      string         `json:"unit"`
	CreatedAt time.Time      `json:"createdAt"`
}

// NewAmbulanceRequest creates a dispatch request with a unit already
// allocated by the caller.
func NewAmbulanceRequest(condition string, urgency triage.Urgency, address string, lat, lng float64, unit string) (*AmbulanceRequest, error) {
	if condition == "" {
		return nil, apperr.NewValidationError("condition is required")
	}
	if unit == "" {
		return nil, apperr.NewValidationError("unit is required")
	}
	return &AmbulanceRequest{
		ID:        uuid.New().String(),
		Condition: condition,
		Urgency:   urgency,
		Address:   address,
		Lat:       lat,
		Lng:       lng,
		Unit:      unit,
		CreatedAt: time.Now(),
	}, nil
}

// Channel fans hospital notifications out to subscribers and keeps a
// newest-first feed for polling consumers.
type Channel interface {
	// Publish delivers a notification to the feed and all subscribers.
	Publish(n *Notification) error

	// Feed returns notifications newest-first, optionally filtered to one
	// hospital. An empty hospitalID returns the whole feed.
	Feed(hospitalID string) []*Notification

	// Subscribe registers a callback for future notifications. The returned
	// function removes the subscription.
	Subscribe(fn func(*Notification)) (unsubscribe func())

	// MarkSeen flags a notification as acknowledged by hospital staff.
	MarkSeen(id string) error
}
