package handler

import (
	"context"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/SmartER-Emergency/service-navigation/internal/domain/geo"
	"github.com/SmartER-Emergency/service-navigation/pkg/response"
)

// ReverseGeocoder resolves a position to a display address, degrading to
// raw coordinates internally; it never fails.
type ReverseGeocoder interface {
	ReverseGeocode(ctx context.Context, pos geo.Position) string
}

// GeocodeHandler handles HTTP requests for reverse geocoding.
type GeocodeHandler struct {
	geocoder ReverseGeocoder
}

// NewGeocodeHandler creates a new GeocodeHandler.
func NewGeocodeHandler(geocoder ReverseGeocoder) *GeocodeHandler {
	return &GeocodeHandler{geocoder: geocoder}
}

// RegisterRoutes registers geocoding routes on the given router group.
func (h *GeocodeHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/api/v1/geocode/reverse", h.Reverse)
}

// Reverse handles GET /api/v1/geocode/reverse?lat=&lng=.
func (h *GeocodeHandler) Reverse(c *gin.Context) {
	lat, err := strconv.ParseFloat(c.Query("lat"), 64)
	if err != nil {
		response.BadRequest(c, "invalid lat")
		return
	}
	lng, err := strconv.ParseFloat(c.Query("lng"), 64)
	if err != nil {
		response.BadRequest(c, "invalid lng")
		return
	}

	address := h.geocoder.ReverseGeocode(c.Request.Context(), geo.Position{Lat: lat, Lng: lng})
	response.Success(c, gin.H{"address": address})
}
