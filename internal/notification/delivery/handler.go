package delivery

import (
	"errors"
	"net/http"

	"daystart-backend/internal/notification"
	"daystart-backend/pkg/sse"

	"github.com/gin-gonic/gin"
)

// NotificationHandler handles notification requests
type NotificationHandler struct {
	service    *notification.Service
	sseManager *sse.Manager
}

// NewNotificationHandler creates a new NotificationHandler
func NewNotificationHandler(service *notification.Service, sseManager *sse.Manager) *NotificationHandler {
	return &NotificationHandler{service: service, sseManager: sseManager}
}

// RegisterDeviceRequest registers a push device
type RegisterDeviceRequest struct {
	Token      string `json:"token" binding:"required"`
	DeviceInfo string `json:"device_info"`
}

// List returns the active notifications
// GET /api/notifications
func (h *NotificationHandler) List(c *gin.Context) {
	c.JSON(http.StatusOK, h.service.List())
}

// Dismiss removes a notification
// DELETE /api/notifications/:id
func (h *NotificationHandler) Dismiss(c *gin.Context) {
	if err := h.service.Dismiss(c.Param("id")); err != nil {
		writeNotificationError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// Stream opens a server-sent event stream of notifications
// GET /api/notifications/stream
func (h *NotificationHandler) Stream(c *gin.Context) {
	h.sseManager.ServeHTTP(c)
}

// RegisterDevice stores a push token
// POST /api/notifications/devices
func (h *NotificationHandler) RegisterDevice(c *gin.Context) {
	var req RegisterDeviceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.DeviceInfo == "" {
		req.DeviceInfo = c.GetHeader("User-Agent")
	}

	if err := h.service.RegisterDevice(req.Token, req.DeviceInfo); err != nil {
		writeNotificationError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// UnregisterDevice removes a push token
// DELETE /api/notifications/devices/:token
func (h *NotificationHandler) UnregisterDevice(c *gin.Context) {
	if err := h.service.UnregisterDevice(c.Param("token")); err != nil {
		writeNotificationError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func writeNotificationError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, notification.ErrNotificationNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, notification.ErrPushDisabled):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
