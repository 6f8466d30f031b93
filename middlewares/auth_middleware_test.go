package middlewares

import (
	"crypto/rand"
	"crypto/rsa"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func signedToken(t *testing.T, key *rsa.PrivateKey, method jwt.SigningMethod, sub string, exp time.Time) string {
	t.Helper()
	claims := Claims{
		Email: "sam@example.com",
		Role:  "authenticated",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   sub,
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	var signKey any = key
	if method == jwt.SigningMethodHS256 {
		signKey = []byte("shared-secret")
	}
	s, err := jwt.NewWithClaims(method, claims).SignedString(signKey)
	require.NoError(t, err)
	return s
}

func authRouter(v TokenVerifier) *gin.Engine {
	r := gin.New()
	r.GET("/me", AuthMiddleware(v), func(c *gin.Context) {
		id, ok := UserID(c)
		if !ok {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.JSON(http.StatusOK, gin.H{"id": id.String(), "email": c.GetString(ContextEmail)})
	})
	return r
}

func TestAuthMiddleware(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	verifier := NewKeyfuncVerifier(func(*jwt.Token) (any, error) { return &key.PublicKey, nil })
	r := authRouter(verifier)
	userID := uuid.New()

	tests := []struct {
		name   string
		header string
		status int
		body   string
	}{
		{"no header", "", http.StatusUnauthorized, "missing token"},
		{"not bearer", "Basic abc", http.StatusUnauthorized, "missing token"},
		{"garbage", "Bearer not-a-jwt", http.StatusUnauthorized, "invalid token"},
		{"expired", "Bearer " + signedToken(t, key, jwt.SigningMethodRS256, userID.String(), time.Now().Add(-time.Hour)), http.StatusUnauthorized, "invalid token"},
		{"wrong algorithm", "Bearer " + signedToken(t, key, jwt.SigningMethodHS256, userID.String(), time.Now().Add(time.Hour)), http.StatusUnauthorized, "invalid token"},
		{"subject not uuid", "Bearer " + signedToken(t, key, jwt.SigningMethodRS256, "service-role", time.Now().Add(time.Hour)), http.StatusUnauthorized, "invalid subject claim"},
		{"valid", "Bearer " + signedToken(t, key, jwt.SigningMethodRS256, userID.String(), time.Now().Add(time.Hour)), http.StatusOK, userID.String()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.status, w.Code)
			assert.Contains(t, w.Body.String(), tt.body)
		})
	}
}

func TestAuthMiddlewareRejectsOtherKey(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	other, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	verifier := NewKeyfuncVerifier(func(*jwt.Token) (any, error) { return &other.PublicKey, nil })
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+signedToken(t, key, jwt.SigningMethodRS256, uuid.NewString(), time.Now().Add(time.Hour)))
	w := httptest.NewRecorder()
	authRouter(verifier).ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestUserIDMissing(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	_, ok := UserID(c)
	assert.False(t, ok)
}
