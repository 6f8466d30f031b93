package middlewares

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/pricejoshua/wehavefoodathome-backend/utils"
)

func validationError(field, message string) gin.H {
	return gin.H{"error": "Validation failed", "details": []gin.H{{"field": field, "message": message}}}
}

// ValidateUUIDParam rejects requests whose path parameter is not a v4 UUID.
func ValidateUUIDParam(name string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if v := c.Param(name); v == "" || !utils.IsValidUUID(v) {
			c.AbortWithStatusJSON(http.StatusBadRequest, validationError(name, fmt.Sprintf("Invalid UUID format for %s", name)))
			return
		}
		c.Next()
	}
}

func ValidateBarcodeParam() gin.HandlerFunc {
	return func(c *gin.Context) {
		if v := c.Param("barcode"); !utils.IsValidBarcode(v) {
			c.AbortWithStatusJSON(http.StatusBadRequest, validationError("barcode", "Invalid barcode format. Must be 8-14 digits"))
			return
		}
		c.Next()
	}
}

// RequireQuery rejects requests missing any of the named query parameters.
func RequireQuery(names ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var missing []string
		for _, n := range names {
			if c.Query(n) == "" {
				missing = append(missing, n)
			}
		}
		if len(missing) > 0 {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Missing required query parameters: " + strings.Join(missing, ", ")})
			return
		}
		c.Next()
	}
}
