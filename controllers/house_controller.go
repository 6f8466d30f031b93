package controllers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/pricejoshua/wehavefoodathome-backend/models"
	"github.com/pricejoshua/wehavefoodathome-backend/services"
)

type HouseStore interface {
	ListForUser(ctx context.Context, userID uuid.UUID) ([]models.HouseMember, error)
	Create(ctx context.Context, house *models.House, creatorID uuid.UUID) error
	Get(ctx context.Context, houseID, requesterID uuid.UUID) (*models.House, error)
	Update(ctx context.Context, houseID, requesterID uuid.UUID, in services.HouseUpdate) (*models.House, error)
	Delete(ctx context.Context, houseID, requesterID uuid.UUID) error
	Members(ctx context.Context, houseID, requesterID uuid.UUID) ([]models.HouseMember, error)
	AddMember(ctx context.Context, houseID, userID, requesterID uuid.UUID) (*models.HouseMember, error)
	RemoveMember(ctx context.Context, houseID, userID, requesterID uuid.UUID) error
}

type HouseController struct {
	Svc HouseStore
}

func NewHouseController(svc HouseStore) *HouseController {
	return &HouseController{Svc: svc}
}

type createHouseReq struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
}

type memberReq struct {
	HouseID *uuid.UUID `json:"house_id"`
	UserID  *uuid.UUID `json:"user_id"`
}

// GET /houses?user_id=
func (hc *HouseController) List(c *gin.Context) {
	uid, ok := requester(c)
	if !ok {
		return
	}
	if raw := c.Query("user_id"); raw != "" {
		other, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid UUID format for user_id"})
			return
		}
		if other != uid {
			c.JSON(http.StatusForbidden, gin.H{"error": "Access denied"})
			return
		}
	}

	out, err := hc.Svc.ListForUser(c.Request.Context(), uid)
	if err != nil {
		respondError(c, err, "House")
		return
	}
	c.JSON(http.StatusOK, out)
}

// POST /houses
func (hc *HouseController) Create(c *gin.Context) {
	uid, ok := requester(c)
	if !ok {
		return
	}
	var req createHouseReq
	if err := c.ShouldBindJSON(&req); err != nil || req.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name is required"})
		return
	}

	h := &models.House{Name: req.Name, Description: req.Description}
	if err := hc.Svc.Create(c.Request.Context(), h, uid); err != nil {
		respondError(c, err, "House")
		return
	}
	c.JSON(http.StatusCreated, h)
}

// GET /houses/:id
func (hc *HouseController) Get(c *gin.Context) {
	uid, ok := requester(c)
	if !ok {
		return
	}
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}
	h, err := hc.Svc.Get(c.Request.Context(), id, uid)
	if err != nil {
		respondError(c, err, "House")
		return
	}
	c.JSON(http.StatusOK, h)
}

// PUT /houses/:id
func (hc *HouseController) Update(c *gin.Context) {
	uid, ok := requester(c)
	if !ok {
		return
	}
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}
	var in services.HouseUpdate
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}
	h, err := hc.Svc.Update(c.Request.Context(), id, uid, in)
	if err != nil {
		respondError(c, err, "House")
		return
	}
	c.JSON(http.StatusOK, h)
}

// DELETE /houses/:id
func (hc *HouseController) Delete(c *gin.Context) {
	uid, ok := requester(c)
	if !ok {
		return
	}
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}
	if err := hc.Svc.Delete(c.Request.Context(), id, uid); err != nil {
		respondError(c, err, "House")
		return
	}
	c.Status(http.StatusNoContent)
}

// GET /houses/:id/members
func (hc *HouseController) Members(c *gin.Context) {
	uid, ok := requester(c)
	if !ok {
		return
	}
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}
	out, err := hc.Svc.Members(c.Request.Context(), id, uid)
	if err != nil {
		respondError(c, err, "House")
		return
	}
	c.JSON(http.StatusOK, out)
}

func bindMember(c *gin.Context) (memberReq, bool) {
	var req memberReq
	if err := c.ShouldBindJSON(&req); err != nil || req.HouseID == nil || req.UserID == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "house_id and user_id are required"})
		return req, false
	}
	return req, true
}

// POST /houses/members
func (hc *HouseController) AddMember(c *gin.Context) {
	uid, ok := requester(c)
	if !ok {
		return
	}
	req, ok := bindMember(c)
	if !ok {
		return
	}
	m, err := hc.Svc.AddMember(c.Request.Context(), *req.HouseID, *req.UserID, uid)
	if err != nil {
		respondError(c, err, "Member")
		return
	}
	c.JSON(http.StatusCreated, m)
}

// DELETE /houses/members
func (hc *HouseController) RemoveMember(c *gin.Context) {
	uid, ok := requester(c)
	if !ok {
		return
	}
	req, ok := bindMember(c)
	if !ok {
		return
	}
	if err := hc.Svc.RemoveMember(c.Request.Context(), *req.HouseID, *req.UserID, uid); err != nil {
		respondError(c, err, "Member")
		return
	}
	c.Status(http.StatusNoContent)
}
