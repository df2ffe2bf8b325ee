package application

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/SmartER-Emergency/service-navigation/internal/domain/geo"
	"github.com/SmartER-Emergency/service-navigation/internal/domain/hospital"
	"github.com/SmartER-Emergency/service-navigation/internal/domain/navigation"
	"github.com/SmartER-Emergency/service-navigation/internal/domain/notification"
	"github.com/SmartER-Emergency/service-navigation/internal/domain/triage"
)

// allocatedUnit is the fleet unit reported back for dispatch requests.
const allocatedUnit = "AMB-1042"

// TravelSource resolves real driving distances for a batch of hospitals.
// An empty result is valid: the matcher estimates the rest.
type TravelSource interface {
	Travel(ctx context.Context, origin geo.Position, hospitals []hospital.Hospital) (hospital.DistanceSource, error)
}

// MatchInput is the request payload for hospital matching.
type MatchInput struct {
	Lat       float64        `json:"lat" binding:"required"`
	Lng       float64        `json:"lng" binding:"required"`
	Condition string         `json:"condition"`
	Urgency   triage.Urgency `json:"urgency"`
}

// MatchedHospital is one ranked directory entry with overlaid travel data.
type MatchedHospital struct {
	hospital.Hospital
	DistanceKm float64 `json:"distance_km"`
	EtaMinutes int     `json:"eta_minutes"`
}

// MatchResponse is the ordered matching result.
type MatchResponse struct {
	Condition string            `json:"condition"`
	Urgency   triage.Urgency    `json:"urgency"`
	Hospitals []MatchedHospital `json:"hospitals"`
}

// AmbulanceRequestInput is a citizen's dispatch request.
type AmbulanceRequestInput struct {
	Condition  string         `json:"condition" binding:"required"`
	Urgency    triage.Urgency `json:"urgency"`
	Address    string         `json:"address"`
	Lat        float64        `json:"lat"`
	Lng        float64        `json:"lng"`
	HospitalID string         `json:"hospital_id"`
}

// AmbulanceRequestResponse reports the allocated unit.
type AmbulanceRequestResponse struct {
	ID        string `json:"id"`
	Unit      string `json:"unit"`
	Condition string `json:"condition"`
}

// EmergencyService answers triage and matching queries and takes ambulance
// dispatch requests.
type EmergencyService struct {
	hospitals hospital.Directory
	travel    TravelSource
	channel   notification.Channel
	speech    navigation.Speech
	logger    *zap.Logger

	mu       sync.Mutex
	requests []*notification.AmbulanceRequest
}

// NewEmergencyService creates a new EmergencyService. travel may be nil
// when no distance matrix is configured.
func NewEmergencyService(
	hospitals hospital.Directory,
	travel TravelSource,
	channel notification.Channel,
	speech navigation.Speech,
	logger *zap.Logger,
) *EmergencyService {
	return &EmergencyService{
		hospitals: hospitals,
		travel:    travel,
		channel:   channel,
		speech:    speech,
		logger:    logger,
	}
}

// Match ranks the hospital directory for a patient. An empty hospital list
// is a valid "no hospital found" answer, never an error.
func (s *EmergencyService) Match(ctx context.Context, input MatchInput) (*MatchResponse, error) {
	urgency := input.Urgency
	if !urgency.IsValid() {
		urgency = triage.Analyze(input.Condition).Urgency
	}

	all, err := s.hospitals.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	origin := geo.Position{Lat: input.Lat, Lng: input.Lng}
	travel := s.resolveTravel(ctx, origin, all)

	ranked := hospital.Rank(input.Condition, urgency, all, origin, travel)

	matched := make([]MatchedHospital, len(ranked))
	for i, r := range ranked {
		matched[i] = MatchedHospital{
			Hospital:   r.Hospital,
			DistanceKm: r.DistanceKm,
			EtaMinutes: r.EtaMinutes,
		}
	}
	return &MatchResponse{
		Condition: input.Condition,
		Urgency:   urgency,
		Hospitals: matched,
	}, nil
}

// Assess classifies a free-text complaint by keyword triage.
func (s *EmergencyService) Assess(text string) triage.Assessment {
	return triage.Analyze(text)
}

// AssessSymptoms classifies the six-question symptom questionnaire.
func (s *EmergencyService) AssessSymptoms(answers triage.SymptomAnswers) triage.Assessment {
	return answers.Assess()
}

// RequestAmbulance allocates a fleet unit, records the request, alerts the
// chosen hospital when one was named, and announces the allocation.
func (s *EmergencyService) RequestAmbulance(ctx context.Context, input AmbulanceRequestInput) (*AmbulanceRequestResponse, error) {
	urgency := input.Urgency
	if !urgency.IsValid() {
		urgency = triage.Analyze(input.Condition).Urgency
	}

	req, err := notification.NewAmbulanceRequest(input.Condition, urgency, input.Address, input.Lat, input.Lng, allocatedUnit)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.requests = append([]*notification.AmbulanceRequest{req}, s.requests...)
	s.mu.Unlock()

	if input.HospitalID != "" {
		if h, err := s.hospitals.FindByID(ctx, input.HospitalID); err == nil {
			s.alertHospital(h, req)
		} else {
			s.logger.Warn("ambulance request names unknown hospital",
				zap.String("hospital_id", input.HospitalID),
				zap.Error(err),
			)
		}
	}

	if s.speech != nil {
		s.speech.Speak(fmt.Sprintf("Ambulance %s has been allocated and is on its way.", allocatedUnit))
	}

	s.logger.Info("ambulance request accepted",
		zap.String("request_id", req.ID),
		zap.String("unit", req.Unit),
		zap.String("urgency", string(req.Urgency)),
	)
	return &AmbulanceRequestResponse{ID: req.ID, Unit: req.Unit, Condition: req.Condition}, nil
}

// PendingRequests returns dispatch requests newest-first.
func (s *EmergencyService) PendingRequests() []*notification.AmbulanceRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*notification.AmbulanceRequest, len(s.requests))
	copy(out, s.requests)
	return out
}

// resolveTravel asks the distance matrix for real travel data, degrading to
// an empty overlay on any failure.
func (s *EmergencyService) resolveTravel(ctx context.Context, origin geo.Position, all []hospital.Hospital) hospital.DistanceSource {
	if s.travel == nil {
		return hospital.DistanceSource{}
	}
	travel, err := s.travel.Travel(ctx, origin, all)
	if err != nil {
		s.logger.Warn("distance matrix unavailable, falling back to estimates", zap.Error(err))
		return hospital.DistanceSource{}
	}
	return travel
}

func (s *EmergencyService) alertHospital(h *hospital.Hospital, req *notification.AmbulanceRequest) {
	n, err := notification.New(h.ID, h.Name, req.Condition, req.Urgency, req.Unit,
		fmt.Sprintf("%d min", h.StaticEtaMinutes),
		fmt.Sprintf("%.1f km", h.StaticDistanceKm),
		notification.SourceEmergency)
	if err != nil {
		s.logger.Error("failed to build dispatch notification", zap.Error(err))
		return
	}
	if err := s.channel.Publish(n); err != nil {
		s.logger.Error("failed to publish dispatch notification",
			zap.String("hospital_id", h.ID),
			zap.Error(err),
		)
	}
}
