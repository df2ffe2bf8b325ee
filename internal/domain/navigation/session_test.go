package navigation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SmartER-Emergency/service-navigation/internal/domain/apperr"
	"github.com/SmartER-Emergency/service-navigation/internal/domain/geo"
)

func newTestSession(t *testing.T) *Session {
	t.Helper()
	s, err := NewSession("AMB-1042",
		geo.Position{Lat: 16.4575, Lng: 80.5354},
		geo.Position{Lat: 16.4419, Lng: 80.6226},
		"hosp-nri", "NRI General Hospital")
	require.NoError(t, err)
	return s
}

func TestNewSession_Defaults(t *testing.T) {
	s := newTestSession(t)

	assert.NotEmpty(t, s.ID())
	assert.Equal(t, StatusCreated, s.Status())
	assert.Equal(t, uint64(1), s.Generation())
	assert.Equal(t, "NRI General Hospital", s.HospitalName())
}

func TestNewSession_RequiresDriverAndHospital(t *testing.T) {
	_, err := NewSession("", geo.Position{}, geo.Position{}, "hosp-1", "A")
	require.Error(t, err)
	assert.True(t, apperr.IsValidation(err))

	_, err = NewSession("AMB-1", geo.Position{}, geo.Position{}, "", "A")
	require.Error(t, err)
	assert.True(t, apperr.IsValidation(err))
}

func TestSession_Lifecycle(t *testing.T) {
	s := newTestSession(t)

	require.NoError(t, s.Start())
	assert.Equal(t, StatusNavigating, s.Status())

	require.NoError(t, s.Arrive())
	require.NoError(t, s.Complete())
	assert.Equal(t, StatusCompleted, s.Status())
	assert.True(t, s.Status().IsTerminal())
}

func TestSession_InvalidTransitions(t *testing.T) {
	s := newTestSession(t)

	err := s.Arrive()
	require.Error(t, err)
	assert.True(t, apperr.IsInvalidState(err))

	require.NoError(t, s.Start())
	require.NoError(t, s.Cancel())
	assert.Error(t, s.Start())
	assert.Error(t, s.Complete())
}

func TestSession_ChangeDestinationBumpsGeneration(t *testing.T) {
	s := newTestSession(t)
	require.NoError(t, s.Start())

	err := s.ChangeDestination(geo.Position{Lat: 16.5062, Lng: 80.6480}, "hosp-ggh", "Government General Hospital")
	require.NoError(t, err)

	assert.Equal(t, uint64(2), s.Generation())
	assert.Equal(t, "hosp-ggh", s.HospitalID())
	assert.Equal(t, "Government General Hospital", s.HospitalName())
}

func TestSession_ChangeDestinationOnTerminalFails(t *testing.T) {
	s := newTestSession(t)
	require.NoError(t, s.Start())
	require.NoError(t, s.Cancel())

	err := s.ChangeDestination(geo.Position{}, "hosp-x", "X")
	require.Error(t, err)
	assert.Equal(t, uint64(1), s.Generation())
}

func TestSession_UpdatePosition(t *testing.T) {
	s := newTestSession(t)
	require.NoError(t, s.Start())

	next := geo.Position{Lat: 16.4600, Lng: 80.5400}
	require.NoError(t, s.UpdatePosition(next))
	assert.Equal(t, next, s.Origin())

	require.NoError(t, s.Cancel())
	assert.Error(t, s.UpdatePosition(geo.Position{}))
}

func TestStatus_CanTransitionTo(t *testing.T) {
	assert.True(t, StatusCreated.CanTransitionTo(StatusNavigating))
	assert.True(t, StatusCreated.CanTransitionTo(StatusCancelled))
	assert.False(t, StatusCreated.CanTransitionTo(StatusArrived))
	assert.False(t, StatusCompleted.CanTransitionTo(StatusNavigating))
	assert.False(t, SessionStatus("bogus").CanTransitionTo(StatusNavigating))
}
