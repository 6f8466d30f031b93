package controllers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/pricejoshua/wehavefoodathome-backend/models"
	"github.com/pricejoshua/wehavefoodathome-backend/services"
)

const (
	defaultActivityLimit = 50
	maxActivityLimit     = 1000
	defaultSummaryDays   = 30
)

type FoodLogStore interface {
	Activity(ctx context.Context, houseID uuid.UUID, limit int, actionType string, requesterID uuid.UUID) ([]models.FoodLog, error)
	Summary(ctx context.Context, houseID uuid.UUID, days int, requesterID uuid.UUID) (*services.ActivitySummary, error)
}

type FoodLogController struct {
	Svc FoodLogStore
}

func NewFoodLogController(svc FoodLogStore) *FoodLogController {
	return &FoodLogController{Svc: svc}
}

// GET /food-logs?house_id=&limit=&action_type=
func (lc *FoodLogController) Activity(c *gin.Context) {
	uid, ok := requester(c)
	if !ok {
		return
	}
	houseID, ok := requiredUUIDQuery(c, "house_id")
	if !ok {
		return
	}
	limit := defaultActivityLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > maxActivityLimit {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be between 1 and 1000"})
			return
		}
		limit = n
	}

	actionType := c.Query("action_type")
	switch actionType {
	case "", models.ActionAdded, models.ActionUpdated, models.ActionRemoved:
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "action_type must be one of added, updated, removed"})
		return
	}

	out, err := lc.Svc.Activity(c.Request.Context(), houseID, limit, actionType, uid)
	if err != nil {
		respondError(c, err, "House")
		return
	}
	c.JSON(http.StatusOK, out)
}

// GET /food-logs/summary?house_id=&days=
func (lc *FoodLogController) Summary(c *gin.Context) {
	uid, ok := requester(c)
	if !ok {
		return
	}
	houseID, ok := requiredUUIDQuery(c, "house_id")
	if !ok {
		return
	}
	days := defaultSummaryDays
	if raw := c.Query("days"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "days must be a positive integer"})
			return
		}
		days = n
	}

	out, err := lc.Svc.Summary(c.Request.Context(), houseID, days, uid)
	if err != nil {
		respondError(c, err, "House")
		return
	}
	c.JSON(http.StatusOK, out)
}
