package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type toggleReq struct {
	Enabled *bool `json:"enabled"`
}

// POST /notifications/toggle
// Applies to every device the caller has registered.
func (dc *DeviceController) ToggleNotifications(c *gin.Context) {
	uid, ok := requester(c)
	if !ok {
		return
	}

	var req toggleReq
	if err := c.ShouldBindJSON(&req); err != nil || req.Enabled == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}

	n, err := dc.Push.SetEnabled(c.Request.Context(), uid, *req.Enabled)
	if err != nil {
		respondError(c, err, "Device")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "notifications updated",
		"enabled": *req.Enabled,
		"devices": n,
	})
}
