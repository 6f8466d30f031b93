package controllers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/pricejoshua/wehavefoodathome-backend/models"
	"github.com/pricejoshua/wehavefoodathome-backend/services"
)

type FoodTagStore interface {
	Tag(ctx context.Context, foodID uuid.UUID, userID *uuid.UUID, requesterID uuid.UUID) (*models.FoodTag, error)
	Untag(ctx context.Context, foodID uuid.UUID, userID *uuid.UUID, requesterID uuid.UUID) error
	BulkTag(ctx context.Context, foodIDs []uuid.UUID, userID *uuid.UUID, requesterID uuid.UUID) ([]models.FoodTag, error)
	ItemTags(ctx context.Context, foodID, requesterID uuid.UUID) (*services.ItemTags, error)
	Visible(ctx context.Context, houseID uuid.UUID, userID *uuid.UUID, requesterID uuid.UUID) ([]models.FoodItem, error)
}

type FoodTagController struct {
	Svc FoodTagStore
}

func NewFoodTagController(svc FoodTagStore) *FoodTagController {
	return &FoodTagController{Svc: svc}
}

// user_id is a string so "all" can be sent in place of null.
type tagReq struct {
	FoodID *uuid.UUID `json:"food_id"`
	UserID *string    `json:"user_id"`
}

type bulkTagReq struct {
	FoodIDs []uuid.UUID `json:"food_ids"`
	UserID  *string     `json:"user_id"`
}

func bindTag(c *gin.Context) (uuid.UUID, *uuid.UUID, bool) {
	var req tagReq
	if err := c.ShouldBindJSON(&req); err != nil || req.FoodID == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "food_id is required"})
		return uuid.Nil, nil, false
	}
	target, err := tagTarget(req.UserID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid UUID format for user_id"})
		return uuid.Nil, nil, false
	}
	return *req.FoodID, target, true
}

// POST /food-tags
func (tc *FoodTagController) Tag(c *gin.Context) {
	uid, ok := requester(c)
	if !ok {
		return
	}
	foodID, target, ok := bindTag(c)
	if !ok {
		return
	}
	tag, err := tc.Svc.Tag(c.Request.Context(), foodID, target, uid)
	if err != nil {
		respondError(c, err, "Tag")
		return
	}
	c.JSON(http.StatusCreated, tag)
}

// DELETE /food-tags
func (tc *FoodTagController) Untag(c *gin.Context) {
	uid, ok := requester(c)
	if !ok {
		return
	}
	foodID, target, ok := bindTag(c)
	if !ok {
		return
	}
	if err := tc.Svc.Untag(c.Request.Context(), foodID, target, uid); err != nil {
		respondError(c, err, "Tag")
		return
	}
	c.Status(http.StatusNoContent)
}

// POST /food-tags/bulk
func (tc *FoodTagController) BulkTag(c *gin.Context) {
	uid, ok := requester(c)
	if !ok {
		return
	}
	var req bulkTagReq
	if err := c.ShouldBindJSON(&req); err != nil || len(req.FoodIDs) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "food_ids must be a non-empty array"})
		return
	}
	target, err := tagTarget(req.UserID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid UUID format for user_id"})
		return
	}
	tags, err := tc.Svc.BulkTag(c.Request.Context(), req.FoodIDs, target, uid)
	if err != nil {
		respondError(c, err, "Tag")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"count": len(tags), "tags": tags})
}

// GET /food-tags?house_id=&user_id=
// An absent user_id means the caller; "all" lists only items open to everyone.
func (tc *FoodTagController) Visible(c *gin.Context) {
	uid, ok := requester(c)
	if !ok {
		return
	}
	houseID, ok := requiredUUIDQuery(c, "house_id")
	if !ok {
		return
	}

	target := &uid
	if raw, present := c.GetQuery("user_id"); present {
		t, err := tagTarget(&raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid UUID format for user_id"})
			return
		}
		target = t
	}

	out, err := tc.Svc.Visible(c.Request.Context(), houseID, target, uid)
	if err != nil {
		respondError(c, err, "House")
		return
	}
	c.JSON(http.StatusOK, out)
}
