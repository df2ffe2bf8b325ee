package maps

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/SmartER-Emergency/service-navigation/internal/domain/geo"
)

const defaultNominatimBaseURL = "https://nominatim.openstreetmap.org"

// NominatimClient resolves coordinates to human-readable addresses.
type NominatimClient struct {
	httpClient *http.Client
	baseURL    string
	userAgent  string
}

// NewNominatimClient creates a reverse geocoder. Nominatim's usage policy
// requires an identifying User-Agent, so userAgent must be non-empty for
// the public instance.
func NewNominatimClient(baseURL, userAgent string) *NominatimClient {
	if baseURL == "" {
		baseURL = defaultNominatimBaseURL
	}
	return &NominatimClient{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		baseURL:    baseURL,
		userAgent:  userAgent,
	}
}

type nominatimResponse struct {
	DisplayName string `json:"display_name"`
}

// ReverseGeocode returns the display address for a position. Any failure
// degrades to the raw coordinates so callers always get a usable label.
func (c *NominatimClient) ReverseGeocode(ctx context.Context, pos geo.Position) string {
	params := url.Values{}
	params.Set("format", "json")
	params.Set("lat", fmt.Sprintf("%f", pos.Lat))
	params.Set("lon", fmt.Sprintf("%f", pos.Lng))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/reverse?"+params.Encode(), nil)
	if err != nil {
		return pos.String()
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return pos.String()
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return pos.String()
	}

	var body nominatimResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil || body.DisplayName == "" {
		return pos.String()
	}
	return body.DisplayName
}
