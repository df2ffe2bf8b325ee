package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/SmartER-Emergency/service-navigation/internal/domain/hospital"
	"github.com/SmartER-Emergency/service-navigation/pkg/response"
)

// HospitalHandler handles HTTP requests for the hospital directory.
type HospitalHandler struct {
	directory hospital.Directory
}

// NewHospitalHandler creates a new HospitalHandler.
func NewHospitalHandler(directory hospital.Directory) *HospitalHandler {
	return &HospitalHandler{directory: directory}
}

// RegisterRoutes registers hospital routes on the given router group.
func (h *HospitalHandler) RegisterRoutes(r *gin.RouterGroup) {
	hospitals := r.Group("/api/v1/hospitals")
	{
		hospitals.GET("", h.List)
		hospitals.GET("/:id", h.Get)
		hospitals.PATCH("/:id/beds", h.UpdateBeds)
	}
}

// List handles GET /api/v1/hospitals.
func (h *HospitalHandler) List(c *gin.Context) {
	hospitals, err := h.directory.FindAll(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, hospitals)
}

// Get handles GET /api/v1/hospitals/:id.
func (h *HospitalHandler) Get(c *gin.Context) {
	result, err := h.directory.FindByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

type bedsRequest struct {
	ICU     int `json:"icu" binding:"min=0"`
	General int `json:"general" binding:"min=0"`
}

// UpdateBeds handles PATCH /api/v1/hospitals/:id/beds. Hospital staff keep
// live bed availability current through this endpoint.
func (h *HospitalHandler) UpdateBeds(c *gin.Context) {
	var req bedsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	beds := hospital.Beds{ICU: req.ICU, General: req.General}
	if err := h.directory.UpdateBeds(c.Request.Context(), c.Param("id"), beds); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"id": c.Param("id"), "beds": beds})
}
