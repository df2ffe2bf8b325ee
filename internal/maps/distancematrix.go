package maps

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/SmartER-Emergency/service-navigation/internal/domain/geo"
	"github.com/SmartER-Emergency/service-navigation/internal/domain/hospital"
)

const defaultDistanceMatrixBaseURL = "https://maps.googleapis.com/maps/api/distancematrix/json"

// DistanceMatrixClient fetches real driving distances and durations from the
// Google Distance Matrix API for a batch of destinations in one request.
type DistanceMatrixClient struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
}

// NewDistanceMatrixClient creates a client. An empty apiKey disables the
// client: Travel returns an empty map so callers fall back to estimates.
func NewDistanceMatrixClient(baseURL, apiKey string) *DistanceMatrixClient {
	if baseURL == "" {
		baseURL = defaultDistanceMatrixBaseURL
	}
	return &DistanceMatrixClient{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		baseURL:    baseURL,
		apiKey:     apiKey,
	}
}

// Enabled reports whether an API key is configured.
func (c *DistanceMatrixClient) Enabled() bool {
	return c.apiKey != ""
}

type matrixResponse struct {
	Status string      `json:"status"`
	Rows   []matrixRow `json:"rows"`
}

type matrixRow struct {
	Elements []matrixElement `json:"elements"`
}

type matrixElement struct {
	Status   string      `json:"status"`
	Distance matrixValue `json:"distance"`
	Duration matrixValue `json:"duration"`
}

type matrixValue struct {
	Value float64 `json:"value"`
}

// Travel resolves driving distance and duration from origin to each hospital
// in one batched call. Hospitals whose element does not come back OK are
// simply absent from the result; the ranking layer estimates those instead.
func (c *DistanceMatrixClient) Travel(ctx context.Context, origin geo.Position, hospitals []hospital.Hospital) (hospital.DistanceSource, error) {
	out := make(hospital.DistanceSource)
	if !c.Enabled() || len(hospitals) == 0 {
		return out, nil
	}

	destinations := make([]string, 0, len(hospitals))
	for _, h := range hospitals {
		destinations = append(destinations, fmt.Sprintf("%f,%f", h.Position.Lat, h.Position.Lng))
	}

	params := url.Values{}
	params.Set("origins", fmt.Sprintf("%f,%f", origin.Lat, origin.Lng))
	params.Set("destinations", strings.Join(destinations, "|"))
	params.Set("mode", "driving")
	params.Set("key", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create distance matrix request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call distance matrix: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("distance matrix returned status %d", resp.StatusCode)
	}

	var body matrixResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("failed to decode distance matrix response: %w", err)
	}
	if body.Status != "OK" || len(body.Rows) == 0 {
		return nil, fmt.Errorf("distance matrix returned status %q", body.Status)
	}

	for i, el := range body.Rows[0].Elements {
		if i >= len(hospitals) || el.Status != "OK" {
			continue
		}
		out[hospitals[i].ID] = hospital.Travel{
			DistanceKm: math.Round(el.Distance.Value/1000*10) / 10,
			EtaMinutes: int(math.Ceil(el.Duration.Value / 60)),
		}
	}
	return out, nil
}
