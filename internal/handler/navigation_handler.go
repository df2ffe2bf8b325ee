package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/SmartER-Emergency/service-navigation/internal/application"
	"github.com/SmartER-Emergency/service-navigation/pkg/response"
)

// NavigationHandler handles HTTP requests for navigation sessions.
type NavigationHandler struct {
	service *application.NavigationService
}

// NewNavigationHandler creates a new NavigationHandler.
func NewNavigationHandler(service *application.NavigationService) *NavigationHandler {
	return &NavigationHandler{service: service}
}

// RegisterRoutes registers navigation routes on the given router group.
func (h *NavigationHandler) RegisterRoutes(r *gin.RouterGroup) {
	sessions := r.Group("/api/v1/navigation/sessions")
	{
		sessions.POST("", h.Start)
		sessions.GET("/:id", h.Get)
		sessions.POST("/:id/position", h.UpdatePosition)
		sessions.POST("/:id/destination", h.ChangeDestination)
		sessions.GET("/:id/route", h.Route)
		sessions.POST("/:id/voice", h.ToggleVoice)
		sessions.DELETE("/:id", h.Stop)
	}
}

// Start handles POST /api/v1/navigation/sessions.
func (h *NavigationHandler) Start(c *gin.Context) {
	var req application.StartNavigationInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.Start(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, result)
}

// Get handles GET /api/v1/navigation/sessions/:id.
func (h *NavigationHandler) Get(c *gin.Context) {
	result, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

type positionRequest struct {
	Lat float64 `json:"lat" binding:"required"`
	Lng float64 `json:"lng" binding:"required"`
}

// UpdatePosition handles POST /api/v1/navigation/sessions/:id/position.
func (h *NavigationHandler) UpdatePosition(c *gin.Context) {
	var req positionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.UpdatePosition(c.Request.Context(), c.Param("id"), req.Lat, req.Lng)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

type destinationRequest struct {
	HospitalID string `json:"hospital_id" binding:"required"`
}

// ChangeDestination handles POST /api/v1/navigation/sessions/:id/destination.
func (h *NavigationHandler) ChangeDestination(c *gin.Context) {
	var req destinationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.ChangeDestination(c.Request.Context(), c.Param("id"), req.HospitalID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// Route handles GET /api/v1/navigation/sessions/:id/route. A session with
// no acquired route returns a null payload, not an error.
func (h *NavigationHandler) Route(c *gin.Context) {
	info, err := h.service.CurrentRoute(c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, info)
}

// ToggleVoice handles POST /api/v1/navigation/sessions/:id/voice.
func (h *NavigationHandler) ToggleVoice(c *gin.Context) {
	enabled, err := h.service.ToggleVoice(c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"voice_enabled": enabled})
}

// Stop handles DELETE /api/v1/navigation/sessions/:id.
func (h *NavigationHandler) Stop(c *gin.Context) {
	if err := h.service.Stop(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
