package maps

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/SmartER-Emergency/service-navigation/internal/domain/geo"
	"github.com/SmartER-Emergency/service-navigation/internal/domain/route"
)

// ErrRateLimited signals that the routing provider rejected the request
// with HTTP 429. Callers may retry with backoff.
var ErrRateLimited = errors.New("routing provider rate limited")

const defaultOSRMBaseURL = "https://router.project-osrm.org"

// OSRMClient fetches driving routes from an OSRM-compatible server.
type OSRMClient struct {
	httpClient *http.Client
	baseURL    string
}

// NewOSRMClient creates a client against baseURL, or the public OSRM demo
// server when baseURL is empty.
func NewOSRMClient(baseURL string) *OSRMClient {
	if baseURL == "" {
		baseURL = defaultOSRMBaseURL
	}
	return &OSRMClient{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		baseURL:    baseURL,
	}
}

type osrmResponse struct {
	Code   string      `json:"code"`
	Routes []osrmRoute `json:"routes"`
}

type osrmRoute struct {
	Geometry json.RawMessage `json:"geometry"`
	Distance float64         `json:"distance"`
	Duration float64         `json:"duration"`
	Legs     []osrmLeg       `json:"legs"`
}

type osrmLeg struct {
	Steps []osrmStep `json:"steps"`
}

type osrmStep struct {
	Maneuver osrmManeuver `json:"maneuver"`
	Name     string       `json:"name"`
	Distance float64      `json:"distance"`
	Duration float64      `json:"duration"`
}

type osrmManeuver struct {
	Type     string `json:"type"`
	Modifier string `json:"modifier"`
}

// FetchRoute requests a driving route between origin and destination with
// full GeoJSON geometry and turn-by-turn steps. A reachable server that
// finds no route yields (nil, nil); HTTP 429 yields ErrRateLimited.
func (c *OSRMClient) FetchRoute(ctx context.Context, origin, destination geo.Position) (*route.Route, error) {
	url := fmt.Sprintf("%s/route/v1/driving/%f,%f;%f,%f?overview=full&geometries=geojson&steps=true",
		c.baseURL, origin.Lng, origin.Lat, destination.Lng, destination.Lat)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create OSRM request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call OSRM: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, ErrRateLimited
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("OSRM returned status %d", resp.StatusCode)
	}

	var body osrmResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("failed to decode OSRM response: %w", err)
	}

	if body.Code != "Ok" || len(body.Routes) == 0 {
		return nil, nil
	}

	return toDomainRoute(body.Routes[0])
}

func toDomainRoute(r osrmRoute) (*route.Route, error) {
	geom, err := geojson.UnmarshalGeometry(r.Geometry)
	if err != nil {
		return nil, fmt.Errorf("failed to decode route geometry: %w", err)
	}
	line, ok := geom.Geometry().(orb.LineString)
	if !ok {
		return nil, fmt.Errorf("unexpected route geometry type %s", geom.Type)
	}

	positions := make([]geo.Position, 0, len(line))
	for _, pt := range line {
		positions = append(positions, geo.FromPoint(pt))
	}

	var steps []route.Step
	for _, leg := range r.Legs {
		for _, s := range leg.Steps {
			steps = append(steps, route.Step{
				Instruction:     route.Instruction(s.Maneuver.Type, s.Maneuver.Modifier, s.Name),
				DistanceMeters:  s.Distance,
				DurationSeconds: s.Duration,
			})
		}
	}

	return &route.Route{
		Geometry:        positions,
		Steps:           steps,
		DistanceMeters:  r.Distance,
		DurationSeconds: r.Duration,
	}, nil
}
