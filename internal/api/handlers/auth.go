package handlers

import (
	"net/http"
	"strings"

	"techstore/internal/api/middleware"
	"techstore/internal/config"
	"techstore/internal/logger"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	config *config.Config
	logger *logger.Logger
}

func NewAuthHandler(cfg *config.Config, logger *logger.Logger) *AuthHandler {
	return &AuthHandler{
		config: cfg,
		logger: logger,
	}
}

type loginRequest struct {
	Password string `json:"password"`
}

// Login validates the admin password and returns a signed token.
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Password is required"})
		return
	}

	if strings.TrimSpace(req.Password) != strings.TrimSpace(h.config.AdminPassword) {
		h.logger.Warn("Failed admin login attempt")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid password"})
		return
	}

	token, err := middleware.GenerateAdminToken(h.config.JWTSecret)
	if err != nil {
		h.logger.Error("Failed to sign admin token: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	h.logger.Info("Admin logged in successfully")
	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"token":     token,
		"expiresIn": "24h",
	})
}
