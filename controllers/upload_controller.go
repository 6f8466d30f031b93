package controllers

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pricejoshua/wehavefoodathome-backend/logger"
	"github.com/pricejoshua/wehavefoodathome-backend/utils"
	"go.uber.org/zap"
)

const MaxUploadSize = 10 << 20

var allowedUploadTypes = map[string]bool{
	"image/jpeg":      true,
	"image/jpg":       true,
	"image/png":       true,
	"image/webp":      true,
	"application/pdf": true,
}

type ObjectUploader interface {
	Upload(ctx context.Context, key string, body io.Reader, contentType string) (string, error)
}

type UploadController struct {
	Store ObjectUploader
	now   func() time.Time
}

func NewUploadController(store ObjectUploader) *UploadController {
	return &UploadController{Store: store, now: time.Now}
}

// POST /upload  multipart field "image"
func (uc *UploadController) Upload(c *gin.Context) {
	fh, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file uploaded"})
		return
	}
	contentType := fh.Header.Get("Content-Type")
	if !allowedUploadTypes[contentType] {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid file type. Only JPEG, PNG, WebP, and PDF files are allowed"})
		return
	}
	if fh.Size > MaxUploadSize {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("File size exceeds maximum limit of %dMB", MaxUploadSize>>20)})
		return
	}

	f, err := fh.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "could not read upload"})
		return
	}
	defer f.Close()

	key := utils.ReceiptKey(uc.now())
	if _, err := uc.Store.Upload(c.Request.Context(), key, f, contentType); err != nil {
		logger.FromContext(c).Error("receipt upload failed", zap.String("key", key), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"path": key})
}
