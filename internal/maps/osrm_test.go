package maps

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SmartER-Emergency/service-navigation/internal/domain/geo"
)

const osrmRouteBody = `{
	"code": "Ok",
	"routes": [{
		"geometry": {"type": "LineString", "coordinates": [[80.5354, 16.4575], [80.6226, 16.4419]]},
		"distance": 12400,
		"duration": 1080,
		"legs": [{
			"steps": [
				{"maneuver": {"type": "depart", "modifier": ""}, "name": "Ring Road", "distance": 850, "duration": 120},
				{"maneuver": {"type": "turn", "modifier": "right"}, "name": "Hospital Road", "distance": 11550, "duration": 900},
				{"maneuver": {"type": "arrive", "modifier": ""}, "name": "", "distance": 0, "duration": 0}
			]
		}]
	}]
}`

func TestOSRMClient_FetchRoute(t *testing.T) {
	var gotPath, gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		w.Write([]byte(osrmRouteBody))
	}))
	defer srv.Close()

	client := NewOSRMClient(srv.URL)
	got, err := client.FetchRoute(context.Background(),
		geo.Position{Lat: 16.4575, Lng: 80.5354},
		geo.Position{Lat: 16.4419, Lng: 80.6226})
	require.NoError(t, err)
	require.NotNil(t, got)

	assert.Contains(t, gotPath, "/route/v1/driving/80.535400,16.457500;80.622600,16.441900")
	assert.Contains(t, gotQuery, "geometries=geojson")
	assert.Contains(t, gotQuery, "steps=true")

	assert.InDelta(t, 12400, got.DistanceMeters, 0.01)
	assert.InDelta(t, 1080, got.DurationSeconds, 0.01)
	require.Len(t, got.Geometry, 2)
	assert.InDelta(t, 16.4575, got.Geometry[0].Lat, 1e-9)
	assert.InDelta(t, 80.5354, got.Geometry[0].Lng, 1e-9)

	require.Len(t, got.Steps, 3)
	assert.Equal(t, "Head towards Ring Road", got.Steps[0].Instruction)
	assert.Equal(t, "Turn right onto Hospital Road", got.Steps[1].Instruction)
	assert.Equal(t, "You have arrived at your destination", got.Steps[2].Instruction)
}

func TestOSRMClient_RateLimited(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	client := NewOSRMClient(srv.URL)
	got, err := client.FetchRoute(context.Background(), geo.Position{}, geo.Position{})
	require.ErrorIs(t, err, ErrRateLimited)
	assert.Nil(t, got)
}

func TestOSRMClient_NoRouteFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"code": "NoRoute", "routes": []}`))
	}))
	defer srv.Close()

	client := NewOSRMClient(srv.URL)
	got, err := client.FetchRoute(context.Background(), geo.Position{}, geo.Position{})
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestOSRMClient_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewOSRMClient(srv.URL)
	_, err := client.FetchRoute(context.Background(), geo.Position{}, geo.Position{})
	assert.Error(t, err)
}
