package middlewares

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestValidateUUIDParam(t *testing.T) {
	r := gin.New()
	r.GET("/houses/:houseId", ValidateUUIDParam("houseId"), func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/houses/"+uuid.NewString(), nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/houses/123", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid UUID format for houseId")
}

func TestValidateBarcodeParam(t *testing.T) {
	r := gin.New()
	r.GET("/barcode/:barcode", ValidateBarcodeParam(), func(c *gin.Context) { c.Status(http.StatusOK) })

	for code, want := range map[string]int{
		"12345678":        http.StatusOK,
		"3017620422003":   http.StatusOK,
		"1234567":         http.StatusBadRequest,
		"123456789012345": http.StatusBadRequest,
		"12345abc":        http.StatusBadRequest,
	} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/barcode/"+code, nil))
		assert.Equal(t, want, w.Code, code)
	}
}

func TestRequireQuery(t *testing.T) {
	r := gin.New()
	r.GET("/search", RequireQuery("house_id", "q"), func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/search?house_id=x&q=milk", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/search?q=milk", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Missing required query parameters: house_id")

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/search", nil))
	assert.Contains(t, w.Body.String(), "house_id, q")
}
