package controllers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/pricejoshua/wehavefoodathome-backend/models"
	"github.com/pricejoshua/wehavefoodathome-backend/services"
)

type FoodItemStore interface {
	List(ctx context.Context, houseID, requesterID uuid.UUID) ([]models.FoodItem, error)
	Search(ctx context.Context, houseID uuid.UUID, query string, requesterID uuid.UUID) ([]models.FoodItem, error)
	Get(ctx context.Context, id, requesterID uuid.UUID) (*models.FoodItem, error)
	Create(ctx context.Context, in services.CreateFoodItemInput, requesterID uuid.UUID) (*models.FoodItem, error)
	Update(ctx context.Context, id uuid.UUID, in services.FoodItemUpdate, requesterID uuid.UUID) (*models.FoodItem, error)
	Delete(ctx context.Context, id, requesterID uuid.UUID) error
	History(ctx context.Context, id, requesterID uuid.UUID) ([]models.FoodLog, error)
}

type FoodItemController struct {
	Svc    FoodItemStore
	TagSvc FoodTagStore
}

func NewFoodItemController(svc FoodItemStore, tags FoodTagStore) *FoodItemController {
	return &FoodItemController{Svc: svc, TagSvc: tags}
}

// GET /food-items?house_id=
func (fc *FoodItemController) List(c *gin.Context) {
	uid, ok := requester(c)
	if !ok {
		return
	}
	houseID, ok := requiredUUIDQuery(c, "house_id")
	if !ok {
		return
	}
	out, err := fc.Svc.List(c.Request.Context(), houseID, uid)
	if err != nil {
		respondError(c, err, "House")
		return
	}
	c.JSON(http.StatusOK, out)
}

// GET /food-items/search?house_id=&query=
func (fc *FoodItemController) Search(c *gin.Context) {
	uid, ok := requester(c)
	if !ok {
		return
	}
	houseID, ok := requiredUUIDQuery(c, "house_id")
	if !ok {
		return
	}
	out, err := fc.Svc.Search(c.Request.Context(), houseID, c.Query("query"), uid)
	if err != nil {
		respondError(c, err, "House")
		return
	}
	c.JSON(http.StatusOK, out)
}

// GET /food-items/:id
func (fc *FoodItemController) Get(c *gin.Context) {
	uid, ok := requester(c)
	if !ok {
		return
	}
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}
	item, err := fc.Svc.Get(c.Request.Context(), id, uid)
	if err != nil {
		respondError(c, err, "Food item")
		return
	}
	c.JSON(http.StatusOK, item)
}

// POST /food-items
func (fc *FoodItemController) Create(c *gin.Context) {
	uid, ok := requester(c)
	if !ok {
		return
	}
	var in services.CreateFoodItemInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}
	if in.HouseID == uuid.Nil || in.ProductID == uuid.Nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "house_id and product_id are required"})
		return
	}
	item, err := fc.Svc.Create(c.Request.Context(), in, uid)
	if err != nil {
		respondError(c, err, "Food item")
		return
	}
	c.JSON(http.StatusCreated, item)
}

// PUT /food-items/:id
func (fc *FoodItemController) Update(c *gin.Context) {
	uid, ok := requester(c)
	if !ok {
		return
	}
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}
	var in services.FoodItemUpdate
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}
	item, err := fc.Svc.Update(c.Request.Context(), id, in, uid)
	if err != nil {
		respondError(c, err, "Food item")
		return
	}
	c.JSON(http.StatusOK, item)
}

// DELETE /food-items/:id
func (fc *FoodItemController) Delete(c *gin.Context) {
	uid, ok := requester(c)
	if !ok {
		return
	}
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}
	if err := fc.Svc.Delete(c.Request.Context(), id, uid); err != nil {
		respondError(c, err, "Food item")
		return
	}
	c.Status(http.StatusNoContent)
}

// GET /food-items/:id/history
func (fc *FoodItemController) History(c *gin.Context) {
	uid, ok := requester(c)
	if !ok {
		return
	}
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}
	out, err := fc.Svc.History(c.Request.Context(), id, uid)
	if err != nil {
		respondError(c, err, "Food item")
		return
	}
	c.JSON(http.StatusOK, out)
}

// GET /food-items/:id/tags
func (fc *FoodItemController) Tags(c *gin.Context) {
	uid, ok := requester(c)
	if !ok {
		return
	}
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}
	out, err := fc.TagSvc.ItemTags(c.Request.Context(), id, uid)
	if err != nil {
		respondError(c, err, "Food item")
		return
	}
	c.JSON(http.StatusOK, out)
}
