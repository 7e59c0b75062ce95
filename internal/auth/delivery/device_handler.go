package delivery

import (
	"errors"
	"net/http"

	"voice-journal/internal/auth/usecase"

	"github.com/gin-gonic/gin"
)

// DeviceHandler registers push devices for the authenticated user
type DeviceHandler struct {
	authUsecase usecase.AuthUsecase
}

func NewDeviceHandler(authUsecase usecase.AuthUsecase) *DeviceHandler {
	return &DeviceHandler{authUsecase: authUsecase}
}

type deviceRequest struct {
	Token      string `json:"token" binding:"required"`
	DeviceInfo string `json:"device_info"`
}

// RegisterDevice stores an FCM token for reminder pushes
// POST /api/devices
func (h *DeviceHandler) RegisterDevice(c *gin.Context) {
	var req deviceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.authUsecase.RegisterDevice(c.Request.Context(), UserID(c), req.Token, req.DeviceInfo); err != nil {
		writeDeviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Device registered"})
}

// UnregisterDevice removes an FCM token
// DELETE /api/devices
func (h *DeviceHandler) UnregisterDevice(c *gin.Context) {
	var req deviceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.authUsecase.UnregisterDevice(c.Request.Context(), req.Token); err != nil {
		writeDeviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Device unregistered"})
}

func writeDeviceError(c *gin.Context, err error) {
	if errors.Is(err, usecase.ErrEmptyToken) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}
