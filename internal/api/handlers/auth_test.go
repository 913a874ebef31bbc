package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"techstore/internal/api/middleware"
	"techstore/internal/config"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	return &config.Config{
		JWTSecret:     "test-secret",
		AdminPassword: "hunter2",
	}
}

func authRouter(cfg *config.Config) *gin.Engine {
	h := NewAuthHandler(cfg, testLogger())

	r := gin.New()
	r.POST("/api/admin/login", h.Login)

	authed := r.Group("/api/admin")
	authed.Use(middleware.RequireAdmin(cfg.JWTSecret, testLogger()))
	authed.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"pong": true})
	})
	return r
}

func TestLoginSuccess(t *testing.T) {
	r := authRouter(testConfig())

	w := doJSON(t, r, "POST", "/api/admin/login", gin.H{"password": "hunter2"})
	assertStatus(t, w, http.StatusOK)

	var resp struct {
		Success   bool   `json:"success"`
		Token     string `json:"token"`
		ExpiresIn string `json:"expiresIn"`
	}
	decode(t, w, &resp)
	assert.True(t, resp.Success)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, "24h", resp.ExpiresIn)
}

func TestLoginWrongPassword(t *testing.T) {
	r := authRouter(testConfig())

	w := doJSON(t, r, "POST", "/api/admin/login", gin.H{"password": "wrong"})
	assertStatus(t, w, http.StatusUnauthorized)

	w = doJSON(t, r, "POST", "/api/admin/login", gin.H{})
	assertStatus(t, w, http.StatusBadRequest)
}

func TestLoginTrimsWhitespace(t *testing.T) {
	r := authRouter(testConfig())

	w := doJSON(t, r, "POST", "/api/admin/login", gin.H{"password": "  hunter2  "})
	assertStatus(t, w, http.StatusOK)
}

func TestRequireAdminGuards(t *testing.T) {
	cfg := testConfig()
	r := authRouter(cfg)

	// No token.
	w := doJSON(t, r, "GET", "/api/admin/ping", nil)
	assertStatus(t, w, http.StatusUnauthorized)

	// Garbage token.
	req := httptest.NewRequest("GET", "/api/admin/ping", nil)
	req.Header.Set("Authorization", "Bearer not.a.token")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assertStatus(t, w, http.StatusUnauthorized)

	// Token signed with a different secret.
	otherToken, err := middleware.GenerateAdminToken("other-secret")
	require.NoError(t, err)
	req = httptest.NewRequest("GET", "/api/admin/ping", nil)
	req.Header.Set("Authorization", "Bearer "+otherToken)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assertStatus(t, w, http.StatusUnauthorized)

	// Valid token passes.
	token, err := middleware.GenerateAdminToken(cfg.JWTSecret)
	require.NoError(t, err)
	req = httptest.NewRequest("GET", "/api/admin/ping", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assertStatus(t, w, http.StatusOK)
}
