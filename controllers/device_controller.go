package controllers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/pricejoshua/wehavefoodathome-backend/models"
	"github.com/pricejoshua/wehavefoodathome-backend/services"
)

type DeviceRegistry interface {
	RegisterDevice(ctx context.Context, userID uuid.UUID, platform, token string) (*models.UserDevice, error)
	SetEnabled(ctx context.Context, userID uuid.UUID, enabled bool) (int64, error)
}

type DeviceController struct {
	Push DeviceRegistry
}

// constructor
func NewDeviceController(ps DeviceRegistry) *DeviceController {
	return &DeviceController{Push: ps}
}

// POST /devices
func (dc *DeviceController) Register(c *gin.Context) {
	uid, ok := requester(c)
	if !ok {
		return
	}

	var req services.RegisterDeviceReq
	if err := c.ShouldBindJSON(&req); err != nil || req.Token == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "platform and token are required"})
		return
	}

	dev, err := dc.Push.RegisterDevice(c.Request.Context(), uid, req.Platform, req.Token)
	if err != nil {
		if errors.Is(err, services.ErrUnknownPlatform) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		respondError(c, err, "Device")
		return
	}

	c.JSON(http.StatusOK, gin.H{"id": dev.ID, "platform": dev.Platform, "enabled": dev.Enabled})
}
