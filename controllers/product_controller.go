package controllers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/pricejoshua/wehavefoodathome-backend/models"
	"github.com/pricejoshua/wehavefoodathome-backend/services"
)

type ProductStore interface {
	List(ctx context.Context) ([]models.Product, error)
	Search(ctx context.Context, query string) ([]models.Product, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Product, error)
	Create(ctx context.Context, in services.ProductInput) (*models.Product, error)
	Update(ctx context.Context, id uuid.UUID, in services.ProductInput) (*models.Product, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Categories(ctx context.Context) ([]models.Category, error)
	ByBarcode(ctx context.Context, barcode string) (*services.BarcodeResult, error)
	Recognize(ctx context.Context, imageBase64 string) (*services.Recognition, error)
}

type ProductController struct {
	Svc ProductStore
}

func NewProductController(svc ProductStore) *ProductController {
	return &ProductController{Svc: svc}
}

// GET /products
func (pc *ProductController) List(c *gin.Context) {
	out, err := pc.Svc.List(c.Request.Context())
	if err != nil {
		respondError(c, err, "Product")
		return
	}
	c.JSON(http.StatusOK, out)
}

// GET /products/search?query=
func (pc *ProductController) Search(c *gin.Context) {
	q := strings.TrimSpace(c.Query("query"))
	if q == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "query is required"})
		return
	}
	out, err := pc.Svc.Search(c.Request.Context(), q)
	if err != nil {
		respondError(c, err, "Product")
		return
	}
	c.JSON(http.StatusOK, out)
}

// GET /products/:id
func (pc *ProductController) Get(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}
	p, err := pc.Svc.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "Product")
		return
	}
	c.JSON(http.StatusOK, p)
}

// POST /products
func (pc *ProductController) Create(c *gin.Context) {
	var in services.ProductInput
	if err := c.ShouldBindJSON(&in); err != nil || in.Name == nil || *in.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name is required"})
		return
	}
	p, err := pc.Svc.Create(c.Request.Context(), in)
	if err != nil {
		respondError(c, err, "Product")
		return
	}
	c.JSON(http.StatusCreated, p)
}

// PUT /products/:id
func (pc *ProductController) Update(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}
	var in services.ProductInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}
	p, err := pc.Svc.Update(c.Request.Context(), id, in)
	if err != nil {
		respondError(c, err, "Product")
		return
	}
	c.JSON(http.StatusOK, p)
}

// DELETE /products/:id
func (pc *ProductController) Delete(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}
	if err := pc.Svc.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err, "Product")
		return
	}
	c.Status(http.StatusNoContent)
}

// GET /products/barcode/:barcode
func (pc *ProductController) ByBarcode(c *gin.Context) {
	out, err := pc.Svc.ByBarcode(c.Request.Context(), c.Param("barcode"))
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found in database or Open Food Facts"})
			return
		}
		respondError(c, err, "Product")
		return
	}
	c.JSON(http.StatusOK, out)
}

// POST /products/recognize  { "image_base64": "data:…" }
func (pc *ProductController) Recognize(c *gin.Context) {
	var req struct {
		ImageBase64 string `json:"image_base64" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}
	out, err := pc.Svc.Recognize(c.Request.Context(), req.ImageBase64)
	if err != nil {
		if errors.Is(err, services.ErrInvalidImage) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, out)
}

// GET /categories
func (pc *ProductController) Categories(c *gin.Context) {
	out, err := pc.Svc.Categories(c.Request.Context())
	if err != nil {
		respondError(c, err, "Category")
		return
	}
	c.JSON(http.StatusOK, out)
}
