package controllers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/pricejoshua/wehavefoodathome-backend/models"
	"github.com/pricejoshua/wehavefoodathome-backend/services"
)

type ProfileStore interface {
	Get(ctx context.Context, id uuid.UUID) (*models.Profile, error)
	ByUsername(ctx context.Context, username string) (*models.Profile, error)
	Search(ctx context.Context, query string) ([]models.Profile, error)
	Create(ctx context.Context, id uuid.UUID, in services.ProfileInput) (*models.Profile, error)
	Update(ctx context.Context, id uuid.UUID, in services.ProfileInput) (*models.Profile, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// ProfileController serves profiles. Reads are open to any signed-in user; writes
// only to the profile's owner.
type ProfileController struct {
	Svc ProfileStore
}

func NewProfileController(svc ProfileStore) *ProfileController {
	return &ProfileController{Svc: svc}
}

type createProfileReq struct {
	ID *uuid.UUID `json:"id"`
	services.ProfileInput
}

// GET /profiles/search?query=
func (pc *ProfileController) Search(c *gin.Context) {
	q := c.Query("query")
	if q == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "query is required"})
		return
	}
	out, err := pc.Svc.Search(c.Request.Context(), q)
	if err != nil {
		respondError(c, err, "Profile")
		return
	}
	c.JSON(http.StatusOK, out)
}

// GET /profiles/username/:username
func (pc *ProfileController) ByUsername(c *gin.Context) {
	p, err := pc.Svc.ByUsername(c.Request.Context(), c.Param("username"))
	if err != nil {
		respondError(c, err, "Profile")
		return
	}
	c.JSON(http.StatusOK, p)
}

// GET /profiles/:id
func (pc *ProfileController) Get(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}
	p, err := pc.Svc.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "Profile")
		return
	}
	c.JSON(http.StatusOK, p)
}

// POST /profiles
func (pc *ProfileController) Create(c *gin.Context) {
	uid, ok := requester(c)
	if !ok {
		return
	}
	var req createProfileReq
	if err := c.ShouldBindJSON(&req); err != nil || req.ID == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id is required"})
		return
	}
	if *req.ID != uid {
		c.JSON(http.StatusForbidden, gin.H{"error": "Access denied"})
		return
	}
	p, err := pc.Svc.Create(c.Request.Context(), *req.ID, req.ProfileInput)
	if err != nil {
		respondError(c, err, "Profile")
		return
	}
	c.JSON(http.StatusCreated, p)
}

// PUT /profiles/:id
func (pc *ProfileController) Update(c *gin.Context) {
	id, ok := pc.owned(c)
	if !ok {
		return
	}
	var in services.ProfileInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}
	p, err := pc.Svc.Update(c.Request.Context(), id, in)
	if err != nil {
		respondError(c, err, "Profile")
		return
	}
	c.JSON(http.StatusOK, p)
}

// DELETE /profiles/:id
func (pc *ProfileController) Delete(c *gin.Context) {
	id, ok := pc.owned(c)
	if !ok {
		return
	}
	if err := pc.Svc.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err, "Profile")
		return
	}
	c.Status(http.StatusNoContent)
}

func (pc *ProfileController) owned(c *gin.Context) (uuid.UUID, bool) {
	uid, ok := requester(c)
	if !ok {
		return uuid.Nil, false
	}
	id, ok := paramUUID(c, "id")
	if !ok {
		return uuid.Nil, false
	}
	if id != uid {
		c.JSON(http.StatusForbidden, gin.H{"error": "Access denied"})
		return uuid.Nil, false
	}
	return id, true
}
