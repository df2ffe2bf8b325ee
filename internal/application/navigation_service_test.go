package application

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/SmartER-Emergency/service-navigation/internal/domain/apperr"
	"github.com/SmartER-Emergency/service-navigation/internal/domain/geo"
	"github.com/SmartER-Emergency/service-navigation/internal/domain/hospital"
	"github.com/SmartER-Emergency/service-navigation/internal/domain/navigation"
	"github.com/SmartER-Emergency/service-navigation/internal/domain/triage"
	"github.com/SmartER-Emergency/service-navigation/internal/events"
)

type memorySessionRepo struct {
	mu       sync.Mutex
	sessions map[string]*navigation.Session
}

func newMemorySessionRepo() *memorySessionRepo {
	return &memorySessionRepo{sessions: make(map[string]*navigation.Session)}
}

func (r *memorySessionRepo) Save(_ context.Context, s *navigation.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[s.ID()] = s
	return nil
}

func (r *memorySessionRepo) Update(_ context.Context, s *navigation.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.sessions[s.ID()]; !ok {
		return apperr.NewNotFoundError("Session", s.ID())
	}
	r.sessions[s.ID()] = s
	return nil
}

func (r *memorySessionRepo) FindByID(_ context.Context, id string) (*navigation.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	if !ok {
		return nil, apperr.NewNotFoundError("Session", id)
	}
	return s, nil
}

type memoryDirectory struct {
	hospitals []hospital.Hospital
}

func (d *memoryDirectory) FindAll(_ context.Context) ([]hospital.Hospital, error) {
	return d.hospitals, nil
}

func (d *memoryDirectory) FindByID(_ context.Context, id string) (*hospital.Hospital, error) {
	for _, h := range d.hospitals {
		if h.ID == id {
			copied := h
			return &copied, nil
		}
	}
	return nil, apperr.NewNotFoundError("Hospital", id)
}

func (d *memoryDirectory) UpdateBeds(_ context.Context, id string, beds hospital.Beds) error {
	for i, h := range d.hospitals {
		if h.ID == id {
			d.hospitals[i].Beds = beds
			return nil
		}
	}
	return apperr.NewNotFoundError("Hospital", id)
}

type speechRecorder struct {
	mu     sync.Mutex
	spoken []string
}

func (r *speechRecorder) Speak(text string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.spoken = append(r.spoken, text)
}

func (r *speechRecorder) Cancel() {}

func (r *speechRecorder) utterances() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.spoken))
	copy(out, r.spoken)
	return out
}

func (r *speechRecorder) contains(substr string) bool {
	for _, s := range r.utterances() {
		if strings.Contains(s, substr) {
			return true
		}
	}
	return false
}

func testDirectory() *memoryDirectory {
	return &memoryDirectory{hospitals: []hospital.Hospital{
		{
			ID: "1", Name: "NRI General Hospital",
			Position:    geo.Position{Lat: 16.4605, Lng: 80.5380},
			Beds:        hospital.Beds{ICU: 4, General: 12},
			Specialties: []string{hospital.SpecialtyCardiology, hospital.SpecialtyTrauma},
			BaseScore:   92, ScoreLevel: hospital.ScoreLevelGreen,
			StaticDistanceKm: 0.4, StaticEtaMinutes: 2,
		},
		{
			ID: "4", Name: "Government General Hospital",
			Position:    geo.Position{Lat: 16.4555, Lng: 80.5395},
			Beds:        hospital.Beds{ICU: 3, General: 15},
			Specialties: []string{hospital.SpecialtyTrauma, hospital.SpecialtyNeurology},
			BaseScore:   86, ScoreLevel: hospital.ScoreLevelGreen,
			StaticDistanceKm: 0.5, StaticEtaMinutes: 2,
		},
	}}
}

type navFixture struct {
	service *NavigationService
	repo    *memorySessionRepo
	feed    *events.MemoryFeed
	speech  *speechRecorder
	fetcher *scriptedFetcher
}

func newNavFixture(t *testing.T, opts ...NavigationOption) *navFixture {
	t.Helper()
	f := &navFixture{
		repo:    newMemorySessionRepo(),
		feed:    events.NewMemoryFeed(),
		speech:  &speechRecorder{},
		fetcher: &scriptedFetcher{},
	}
	base := []NavigationOption{WithEngineOptions(WithSleep(func(time.Duration) {}))}
	f.service = NewNavigationService(f.repo, testDirectory(), f.fetcher, f.feed, f.speech,
		zap.NewNop(), append(base, opts...)...)
	return f
}

func startSession(t *testing.T, f *navFixture) *SessionResponse {
	t.Helper()
	resp, err := f.service.Start(context.Background(), StartNavigationInput{
		DriverUnit: "AMB-1042",
		Lat:        16.4575,
		Lng:        80.5354,
		HospitalID: "1",
		Condition:  "chest pain",
		Urgency:    triage.UrgencyCritical,
	})
	require.NoError(t, err)
	return resp
}

func TestNavigation_StartNotifiesAndAnnounces(t *testing.T) {
	f := newNavFixture(t)
	resp := startSession(t, f)
	defer f.service.Stop(context.Background(), resp.ID)

	assert.Equal(t, string(navigation.StatusNavigating), resp.Status)
	assert.Equal(t, uint64(1), resp.Generation)
	assert.True(t, resp.VoiceEnabled)

	feed := f.feed.Feed("1")
	require.Len(t, feed, 1)
	assert.Equal(t, "chest pain", feed[0].Condition)
	assert.Equal(t, triage.UrgencyCritical, feed[0].Urgency)
	assert.Equal(t, "AMB-1042", feed[0].DriverUnit)

	assert.True(t, f.speech.contains("Navigating to NRI General Hospital. Hospital has been notified."))

	require.Eventually(t, func() bool {
		info, err := f.service.CurrentRoute(resp.ID)
		return err == nil && info != nil
	}, time.Second, 5*time.Millisecond)
}

func TestNavigation_StartUnknownHospital(t *testing.T) {
	f := newNavFixture(t)
	_, err := f.service.Start(context.Background(), StartNavigationInput{
		DriverUnit: "AMB-1042", Lat: 16.45, Lng: 80.53, HospitalID: "missing", Condition: "x",
	})
	require.Error(t, err)
	assert.True(t, apperr.IsNotFound(err))
}

func TestNavigation_ArrivalDetection(t *testing.T) {
	f := newNavFixture(t)
	resp := startSession(t, f)
	defer f.service.Stop(context.Background(), resp.ID)

	// Position right on the hospital doorstep.
	updated, err := f.service.UpdatePosition(context.Background(), resp.ID, 16.4605, 80.5380)
	require.NoError(t, err)

	assert.Equal(t, string(navigation.StatusArrived), updated.Status)
	assert.True(t, f.speech.contains("You have arrived at your destination."))
}

func TestNavigation_ChangeDestinationBumpsGenerationAndNotifies(t *testing.T) {
	f := newNavFixture(t)
	resp := startSession(t, f)
	defer f.service.Stop(context.Background(), resp.ID)

	changed, err := f.service.ChangeDestination(context.Background(), resp.ID, "4")
	require.NoError(t, err)

	assert.Equal(t, uint64(2), changed.Generation)
	assert.Equal(t, "Government General Hospital", changed.HospitalName)
	assert.True(t, f.speech.contains("Hospital changed to Government General Hospital. Notification sent."))

	require.Len(t, f.feed.Feed("4"), 1)
}

func TestNavigation_ToggleVoice(t *testing.T) {
	f := newNavFixture(t)
	resp := startSession(t, f)
	defer f.service.Stop(context.Background(), resp.ID)

	enabled, err := f.service.ToggleVoice(resp.ID)
	require.NoError(t, err)
	assert.False(t, enabled)

	enabled, err = f.service.ToggleVoice(resp.ID)
	require.NoError(t, err)
	assert.True(t, enabled)
}

func TestNavigation_ETAAnnouncements(t *testing.T) {
	f := newNavFixture(t, WithETAInterval(20*time.Millisecond))
	resp := startSession(t, f)
	defer f.service.Stop(context.Background(), resp.ID)

	require.Eventually(t, func() bool {
		return f.speech.contains("Estimated arrival in")
	}, time.Second, 5*time.Millisecond)
}

func TestNavigation_StopCancelsSession(t *testing.T) {
	f := newNavFixture(t)
	resp := startSession(t, f)

	require.NoError(t, f.service.Stop(context.Background(), resp.ID))

	// The live run is gone; the persisted session remains readable.
	got, err := f.service.Get(context.Background(), resp.ID)
	require.NoError(t, err)
	assert.Equal(t, string(navigation.StatusCancelled), got.Status)

	_, err = f.service.UpdatePosition(context.Background(), resp.ID, 16.46, 80.54)
	require.Error(t, err)
	assert.True(t, apperr.IsNotFound(err))
}

func TestNavigation_PositionTriggersRouteRefresh(t *testing.T) {
	f := newNavFixture(t, WithEngineOptions(
		WithSleep(func(time.Duration) {}),
		WithThrottle(0),
	))
	resp := startSession(t, f)
	defer f.service.Stop(context.Background(), resp.ID)

	require.Eventually(t, func() bool {
		return f.fetcher.callCount() == 1
	}, time.Second, 5*time.Millisecond)

	// A position far from the cached origin quantizes to a new key.
	_, err := f.service.UpdatePosition(context.Background(), resp.ID, 16.4700, 80.5500)
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		return f.fetcher.callCount() == 2
	}, time.Second, 5*time.Millisecond)
}
