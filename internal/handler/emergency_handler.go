package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/SmartER-Emergency/service-navigation/internal/application"
	"github.com/SmartER-Emergency/service-navigation/internal/domain/triage"
	"github.com/SmartER-Emergency/service-navigation/pkg/response"
)

// EmergencyHandler handles HTTP requests for triage, matching and
// ambulance dispatch.
type EmergencyHandler struct {
	service *application.EmergencyService
}

// NewEmergencyHandler creates a new EmergencyHandler.
func NewEmergencyHandler(service *application.EmergencyService) *EmergencyHandler {
	return &EmergencyHandler{service: service}
}

// RegisterRoutes registers emergency routes on the given router group.
func (h *EmergencyHandler) RegisterRoutes(r *gin.RouterGroup) {
	emergencies := r.Group("/api/v1/emergencies")
	{
		emergencies.POST("/match", h.Match)
		emergencies.POST("/assess", h.Assess)
		emergencies.POST("/symptoms", h.Symptoms)
	}

	ambulance := r.Group("/api/v1/ambulance")
	{
		ambulance.POST("/requests", h.RequestAmbulance)
		ambulance.GET("/requests", h.ListRequests)
	}
}

// Match handles POST /api/v1/emergencies/match.
func (h *EmergencyHandler) Match(c *gin.Context) {
	var req application.MatchInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.Match(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

type assessRequest struct {
	Text string `json:"text" binding:"required"`
}

// Assess handles POST /api/v1/emergencies/assess.
func (h *EmergencyHandler) Assess(c *gin.Context) {
	var req assessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	response.Success(c, h.service.Assess(req.Text))
}

// Symptoms handles POST /api/v1/emergencies/symptoms.
func (h *EmergencyHandler) Symptoms(c *gin.Context) {
	var req triage.SymptomAnswers
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	response.Success(c, h.service.AssessSymptoms(req))
}

// RequestAmbulance handles POST /api/v1/ambulance/requests.
func (h *EmergencyHandler) RequestAmbulance(c *gin.Context) {
	var req application.AmbulanceRequestInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.RequestAmbulance(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, result)
}

// ListRequests handles GET /api/v1/ambulance/requests.
func (h *EmergencyHandler) ListRequests(c *gin.Context) {
	response.Success(c, h.service.PendingRequests())
}
