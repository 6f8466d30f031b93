package controllers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pricejoshua/wehavefoodathome-backend/services/receipts"
	"github.com/pricejoshua/wehavefoodathome-backend/utils"
)

const ReceiptProviderHeader = "X-Receipt-Provider"

type ReceiptParser interface {
	Parse(ctx context.Context, provider, imageURL, mimeType string) (*receipts.Receipt, string, error)
	Available() []string
	Default() (string, error)
}

type ObjectLinker interface {
	URL(ctx context.Context, key string) (string, error)
}

type ReceiptController struct {
	Svc   ReceiptParser
	Store ObjectLinker
}

func NewReceiptController(svc ReceiptParser, store ObjectLinker) *ReceiptController {
	return &ReceiptController{Svc: svc, Store: store}
}

type parseReceiptReq struct {
	Path     string `json:"path"`
	ImageURL string `json:"image_url"`
	MimeType string `json:"mime_type"`
	Provider string `json:"provider"`
}

// POST /receipts/parse
func (rc *ReceiptController) Parse(c *gin.Context) {
	var req parseReceiptReq
	if err := c.ShouldBindJSON(&req); err != nil || (req.Path == "" && req.ImageURL == "") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "path or image_url is required"})
		return
	}

	if req.Path != "" && !utils.IsReceiptKey(req.Path) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "path must reference an uploaded receipt"})
		return
	}
	if req.Path == "" && !utils.IsFetchableURL(req.ImageURL) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "image_url must be an http or https URL"})
		return
	}

	imageURL := req.ImageURL
	if req.Path != "" {
		u, err := rc.Store.URL(c.Request.Context(), req.Path)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		imageURL = u
	}
	if req.MimeType == "" {
		req.MimeType = "image/jpeg"
	}

	receipt, provider, err := rc.Svc.Parse(c.Request.Context(), req.Provider, imageURL, req.MimeType)
	if err != nil {
		switch {
		case errors.Is(err, receipts.ErrUnsupportedProvider), errors.Is(err, receipts.ErrMissingCredentials):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, receipts.ErrNoProvider):
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		}
		return
	}
	c.Header(ReceiptProviderHeader, provider)
	c.JSON(http.StatusOK, receipt)
}

// GET /receipts/providers
func (rc *ReceiptController) Providers(c *gin.Context) {
	out := gin.H{"available": rc.Svc.Available(), "default": nil}
	if def, err := rc.Svc.Default(); err == nil {
		out["default"] = def
	}
	c.JSON(http.StatusOK, out)
}
