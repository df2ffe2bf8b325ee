package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/SmartER-Emergency/service-navigation/internal/domain/notification"
	"github.com/SmartER-Emergency/service-navigation/pkg/response"
)

// NotificationHandler serves the hospital notification feed.
type NotificationHandler struct {
	channel notification.Channel
}

// NewNotificationHandler creates a new NotificationHandler.
func NewNotificationHandler(channel notification.Channel) *NotificationHandler {
	return &NotificationHandler{channel: channel}
}

// RegisterRoutes registers notification routes on the given router group.
func (h *NotificationHandler) RegisterRoutes(r *gin.RouterGroup) {
	notifications := r.Group("/api/v1/notifications")
	{
		notifications.GET("", h.List)
		notifications.POST("/:id/seen", h.MarkSeen)
	}
}

// List handles GET /api/v1/notifications. The feed is newest-first and may
// be filtered with ?hospital_id=.
func (h *NotificationHandler) List(c *gin.Context) {
	response.Success(c, h.channel.Feed(c.Query("hospital_id")))
}

// MarkSeen handles POST /api/v1/notifications/:id/seen.
func (h *NotificationHandler) MarkSeen(c *gin.Context) {
	if err := h.channel.MarkSeen(c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"id": c.Param("id"), "seen": true})
}
