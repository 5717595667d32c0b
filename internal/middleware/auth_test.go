package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shyamprakash123/sri-vijaya-lakshmi-agency-web-sub000/config"
	"github.com/shyamprakash123/sri-vijaya-lakshmi-agency-web-sub000/internal/models"
	"github.com/shyamprakash123/sri-vijaya-lakshmi-agency-web-sub000/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func authRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/me", Auth(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": c.GetUint("userID"), "role": c.GetString("role")})
	})
	r.GET("/admin", Auth(models.RoleAdmin), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	return r
}

func get(r *gin.Engine, path, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthRejectsMissingOrMalformedHeader(t *testing.T) {
	config.AppConfig = &config.Config{Server: config.ServerConfig{JWTSecret: "test-secret"}}
	r := authRouter()

	assert.Equal(t, http.StatusUnauthorized, get(r, "/me", "").Code)
	assert.Equal(t, http.StatusUnauthorized, get(r, "/me", "Basic abc").Code)
	assert.Equal(t, http.StatusUnauthorized, get(r, "/me", "Bearer ").Code)
	assert.Equal(t, http.StatusUnauthorized, get(r, "/me", "Bearer not-a-token").Code)
}

func TestAuthAcceptsValidTokenAndSetsContext(t *testing.T) {
	config.AppConfig = &config.Config{Server: config.ServerConfig{JWTSecret: "test-secret"}}
	r := authRouter()

	token, err := utils.GenerateToken(42, models.RoleCustomer)
	require.NoError(t, err)

	w := get(r, "/me", "Bearer "+token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"user_id":42`)
	assert.Contains(t, w.Body.String(), models.RoleCustomer)
}

func TestAuthRoleGate(t *testing.T) {
	config.AppConfig = &config.Config{Server: config.ServerConfig{JWTSecret: "test-secret"}}
	r := authRouter()

	customer, err := utils.GenerateToken(42, models.RoleCustomer)
	require.NoError(t, err)
	admin, err := utils.GenerateToken(1, models.RoleAdmin)
	require.NoError(t, err)

	assert.Equal(t, http.StatusForbidden, get(r, "/admin", "Bearer "+customer).Code)
	assert.Equal(t, http.StatusOK, get(r, "/admin", "Bearer "+admin).Code)
}

func TestAuthRejectsTokenSignedWithDifferentSecret(t *testing.T) {
	config.AppConfig = &config.Config{Server: config.ServerConfig{JWTSecret: "first-secret"}}
	token, err := utils.GenerateToken(42, models.RoleCustomer)
	require.NoError(t, err)

	config.AppConfig = &config.Config{Server: config.ServerConfig{JWTSecret: "rotated-secret"}}
	r := authRouter()
	assert.Equal(t, http.StatusUnauthorized, get(r, "/me", "Bearer "+token).Code)
}
