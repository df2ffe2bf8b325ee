package application

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/SmartER-Emergency/service-navigation/internal/domain/apperr"
	"github.com/SmartER-Emergency/service-navigation/internal/domain/geo"
	"github.com/SmartER-Emergency/service-navigation/internal/domain/hospital"
	"github.com/SmartER-Emergency/service-navigation/internal/domain/navigation"
	"github.com/SmartER-Emergency/service-navigation/internal/domain/notification"
	"github.com/SmartER-Emergency/service-navigation/internal/domain/route"
	"github.com/SmartER-Emergency/service-navigation/internal/domain/triage"
)

const (
	defaultETAInterval  = 30 * time.Second
	arrivalRadiusMeters = 30.0
)

// SessionRepository is the persistence contract for navigation sessions.
type SessionRepository interface {
	Save(ctx context.Context, s *navigation.Session) error
	Update(ctx context.Context, s *navigation.Session) error
	FindByID(ctx context.Context, id string) (*navigation.Session, error)
}

// StartNavigationInput is the request payload for starting navigation.
type StartNavigationInput struct {
	DriverUnit string         `json:"driver_unit" binding:"required"`
	Lat        float64        `json:"lat" binding:"required"`
	Lng        float64        `json:"lng" binding:"required"`
	HospitalID string         `json:"hospital_id" binding:"required"`
	Condition  string         `json:"condition" binding:"required"`
	Urgency    triage.Urgency `json:"urgency"`
}

// SessionResponse is the API representation of a navigation session.
type SessionResponse struct {
	ID           string  `json:"id"`
	DriverUnit   string  `json:"driver_unit"`
	HospitalID   string  `json:"hospital_id"`
	HospitalName string  `json:"hospital_name"`
	Status       string  `json:"status"`
	Generation   uint64  `json:"generation"`
	VoiceEnabled bool    `json:"voice_enabled"`
	OriginLat    float64 `json:"origin_lat"`
	OriginLng    float64 `json:"origin_lng"`
	DestLat      float64 `json:"dest_lat"`
	DestLng      float64 `json:"dest_lng"`
}

// navigationRun is the live, in-memory side of a session: its position
// source, route engine, announcer, latest route and the ETA ticker.
type navigationRun struct {
	mu        sync.Mutex
	session   *navigation.Session
	condition string
	urgency   triage.Urgency
	engine    *RouteEngine
	announcer *navigation.Announcer
	source    *geo.ManualSource
	stopWatch func()
	current   *route.Route
	cancelETA context.CancelFunc
}

func (r *navigationRun) generation() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.session.Generation()
}

// NavigationService drives turn-by-turn sessions: it owns the per-session
// route engines, announcers and ETA tickers, persists lifecycle changes and
// notifies the target hospital.
type NavigationService struct {
	sessions  SessionRepository
	hospitals hospital.Directory
	fetcher   RouteFetcher
	channel   notification.Channel
	speech    navigation.Speech
	logger    *zap.Logger

	etaInterval time.Duration
	engineOpts  []RouteEngineOption

	mu   sync.RWMutex
	runs map[string]*navigationRun
}

// NavigationOption customizes service timing, mainly for tests.
type NavigationOption func(*NavigationService)

// WithETAInterval overrides the periodic ETA announcement interval.
func WithETAInterval(d time.Duration) NavigationOption {
	return func(s *NavigationService) { s.etaInterval = d }
}

// WithEngineOptions passes options through to every per-session route
// engine.
func WithEngineOptions(opts ...RouteEngineOption) NavigationOption {
	return func(s *NavigationService) { s.engineOpts = opts }
}

// NewNavigationService creates a new NavigationService.
func NewNavigationService(
	sessions SessionRepository,
	hospitals hospital.Directory,
	fetcher RouteFetcher,
	channel notification.Channel,
	speech navigation.Speech,
	logger *zap.Logger,
	opts ...NavigationOption,
) *NavigationService {
	s := &NavigationService{
		sessions:    sessions,
		hospitals:   hospitals,
		fetcher:     fetcher,
		channel:     channel,
		speech:      speech,
		logger:      logger,
		etaInterval: defaultETAInterval,
		runs:        make(map[string]*navigationRun),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start creates a session toward the chosen hospital, notifies the
// hospital, announces the departure and kicks off route acquisition.
func (s *NavigationService) Start(ctx context.Context, input StartNavigationInput) (*SessionResponse, error) {
	h, err := s.hospitals.FindByID(ctx, input.HospitalID)
	if err != nil {
		return nil, err
	}

	urgency := input.Urgency
	if !urgency.IsValid() {
		urgency = triage.Analyze(input.Condition).Urgency
	}

	origin := geo.Position{Lat: input.Lat, Lng: input.Lng}
	session, err := navigation.NewSession(input.DriverUnit, origin, h.Position, h.ID, h.Name)
	if err != nil {
		return nil, err
	}
	if err := session.Start(); err != nil {
		return nil, err
	}
	if err := s.sessions.Save(ctx, session); err != nil {
		return nil, err
	}

	run := &navigationRun{
		session:   session,
		condition: input.Condition,
		urgency:   urgency,
		announcer: navigation.NewAnnouncer(s.speech),
		source:    geo.NewManualSource(),
	}
	run.engine = NewRouteEngine(s.fetcher, run.generation, s.routeSink(run), s.logger, s.engineOpts...)
	run.source.Report(origin)
	run.stopWatch = run.source.Watch(func(pos geo.Position) {
		run.mu.Lock()
		if run.session.Status() != navigation.StatusNavigating {
			run.mu.Unlock()
			return
		}
		destination := run.session.Destination()
		generation := run.session.Generation()
		run.mu.Unlock()
		go run.engine.Request(context.Background(), pos, destination, generation)
	})

	etaCtx, cancel := context.WithCancel(context.Background())
	run.cancelETA = cancel

	s.mu.Lock()
	s.runs[session.ID()] = run
	s.mu.Unlock()

	s.notifyHospital(run, h, notification.SourceNavigation)
	run.announcer.Speak(fmt.Sprintf("Navigating to %s. Hospital has been notified.", h.Name))

	go run.engine.Request(context.Background(), origin, h.Position, session.Generation())
	go s.announceETALoop(etaCtx, run)

	s.logger.Info("navigation started",
		zap.String("session_id", session.ID()),
		zap.String("hospital_id", h.ID),
		zap.String("driver_unit", input.DriverUnit),
	)
	return toSessionResponse(session, run.announcer), nil
}

// UpdatePosition records a new device position, may trigger a throttled
// route refresh, and detects arrival.
func (s *NavigationService) UpdatePosition(ctx context.Context, sessionID string, lat, lng float64) (*SessionResponse, error) {
	run, err := s.run(sessionID)
	if err != nil {
		return nil, err
	}

	pos := geo.Position{Lat: lat, Lng: lng}

	run.mu.Lock()
	session := run.session
	if err := session.UpdatePosition(pos); err != nil {
		run.mu.Unlock()
		return nil, err
	}
	destination := session.Destination()
	arrived := geo.DistanceMeters(pos, destination) <= arrivalRadiusMeters &&
		session.Status() == navigation.StatusNavigating
	if arrived {
		if err := session.Arrive(); err != nil {
			run.mu.Unlock()
			return nil, err
		}
	}
	run.mu.Unlock()

	if err := s.sessions.Update(ctx, session); err != nil {
		return nil, err
	}

	if arrived {
		run.announcer.AnnounceArrival()
		if run.cancelETA != nil {
			run.cancelETA()
		}
	}
	run.source.Report(pos)
	return toSessionResponse(session, run.announcer), nil
}

// ChangeDestination retargets an active session at another hospital. The
// generation bump makes any in-flight route response stale.
func (s *NavigationService) ChangeDestination(ctx context.Context, sessionID, hospitalID string) (*SessionResponse, error) {
	run, err := s.run(sessionID)
	if err != nil {
		return nil, err
	}
	h, err := s.hospitals.FindByID(ctx, hospitalID)
	if err != nil {
		return nil, err
	}

	run.mu.Lock()
	session := run.session
	if err := session.ChangeDestination(h.Position, h.ID, h.Name); err != nil {
		run.mu.Unlock()
		return nil, err
	}
	generation := session.Generation()
	run.current = nil
	run.mu.Unlock()
	origin := run.source.Current()

	if err := s.sessions.Update(ctx, session); err != nil {
		return nil, err
	}

	run.announcer.Reset()
	run.engine.Invalidate()

	s.notifyHospital(run, h, notification.SourceNavigation)
	run.announcer.Speak(fmt.Sprintf("Hospital changed to %s. Notification sent.", h.Name))

	go run.engine.Request(context.Background(), origin, h.Position, generation)
	return toSessionResponse(session, run.announcer), nil
}

// ToggleVoice flips voice guidance for the session and returns the new
// state.
func (s *NavigationService) ToggleVoice(sessionID string) (bool, error) {
	run, err := s.run(sessionID)
	if err != nil {
		return false, err
	}
	return run.announcer.ToggleVoice(), nil
}

// CurrentRoute returns the formatted view of the session's active route,
// or nil when no route has been acquired yet.
func (s *NavigationService) CurrentRoute(sessionID string) (*route.Info, error) {
	run, err := s.run(sessionID)
	if err != nil {
		return nil, err
	}
	run.mu.Lock()
	defer run.mu.Unlock()
	if run.current == nil {
		return nil, nil
	}
	info := run.current.Info()
	return &info, nil
}

// Get returns the session's current state.
func (s *NavigationService) Get(ctx context.Context, sessionID string) (*SessionResponse, error) {
	run, err := s.run(sessionID)
	if err == nil {
		run.mu.Lock()
		defer run.mu.Unlock()
		return toSessionResponse(run.session, run.announcer), nil
	}
	session, repoErr := s.sessions.FindByID(ctx, sessionID)
	if repoErr != nil {
		return nil, repoErr
	}
	return toSessionResponse(session, nil), nil
}

// Stop ends navigation: the session is completed when it already arrived,
// cancelled otherwise, and all timers and speech are torn down.
func (s *NavigationService) Stop(ctx context.Context, sessionID string) error {
	run, err := s.run(sessionID)
	if err != nil {
		return err
	}

	run.mu.Lock()
	session := run.session
	switch session.Status() {
	case navigation.StatusArrived:
		err = session.Complete()
	case navigation.StatusCompleted, navigation.StatusCancelled:
		err = nil
	default:
		err = session.Cancel()
	}
	run.mu.Unlock()
	if err != nil {
		return err
	}
	if err := s.sessions.Update(ctx, session); err != nil {
		return err
	}

	if run.cancelETA != nil {
		run.cancelETA()
	}
	if run.stopWatch != nil {
		run.stopWatch()
	}
	run.engine.Close()
	run.announcer.Reset()

	s.mu.Lock()
	delete(s.runs, sessionID)
	s.mu.Unlock()

	s.logger.Info("navigation stopped",
		zap.String("session_id", sessionID),
		zap.String("status", string(session.Status())),
	)
	return nil
}

// routeSink stores each resolved route on the run and announces the first
// turn instruction.
func (s *NavigationService) routeSink(run *navigationRun) RouteSink {
	return func(r *route.Route, generation uint64) {
		run.mu.Lock()
		if r == nil || run.session.Generation() != generation {
			run.mu.Unlock()
			return
		}
		run.current = r
		run.mu.Unlock()

		run.announcer.AnnounceStep(r.TurnSteps(), 0)
	}
}

// announceETALoop speaks the remaining ETA and distance on a fixed
// interval while a route is held.
func (s *NavigationService) announceETALoop(ctx context.Context, run *navigationRun) {
	ticker := time.NewTicker(s.etaInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			run.mu.Lock()
			current := run.current
			run.mu.Unlock()
			if current == nil {
				continue
			}
			run.announcer.AnnounceETA(
				route.FormatDuration(current.DurationSeconds),
				route.FormatDistance(current.DistanceMeters),
			)
		}
	}
}

// notifyHospital publishes an incoming-patient alert. Publishing is best
// effort: a channel failure is logged, never surfaced to the driver.
func (s *NavigationService) notifyHospital(run *navigationRun, h *hospital.Hospital, source notification.Source) {
	run.mu.Lock()
	driverUnit := run.session.DriverUnit()
	condition := run.condition
	urgency := run.urgency
	current := run.current
	run.mu.Unlock()

	eta := fmt.Sprintf("%d min", h.StaticEtaMinutes)
	distance := fmt.Sprintf("%.1f km", h.StaticDistanceKm)
	if current != nil {
		eta = route.FormatDuration(current.DurationSeconds)
		distance = route.FormatDistance(current.DistanceMeters)
	}

	n, err := notification.New(h.ID, h.Name, condition, urgency, driverUnit, eta, distance, source)
	if err != nil {
		s.logger.Error("failed to build hospital notification", zap.Error(err))
		return
	}
	if err := s.channel.Publish(n); err != nil {
		s.logger.Error("failed to publish hospital notification",
			zap.String("hospital_id", h.ID),
			zap.Error(err),
		)
	}
}

func (s *NavigationService) run(sessionID string) (*navigationRun, error) {
	s.mu.RLock()
	run, ok := s.runs[sessionID]
	s.mu.RUnlock()
	if !ok {
		return nil, apperr.NewNotFoundError("Session", sessionID)
	}
	return run, nil
}

func toSessionResponse(session *navigation.Session, announcer *navigation.Announcer) *SessionResponse {
	voice := false
	if announcer != nil {
		voice = announcer.VoiceEnabled()
	}
	return &SessionResponse{
		ID:           session.ID(),
		DriverUnit:   session.DriverUnit(),
		HospitalID:   session.HospitalID(),
		HospitalName: session.HospitalName(),
		Status:       string(session.Status()),
		Generation:   session.Generation(),
		VoiceEnabled: voice,
		OriginLat:    session.Origin().Lat,
		OriginLng:    session.Origin().Lng,
		DestLat:      session.Destination().Lat,
		DestLng:      session.Destination().Lng,
	}
}
