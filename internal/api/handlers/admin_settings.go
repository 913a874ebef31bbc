package handlers

import (
	"net/http"

	"techstore/internal/logger"
	"techstore/internal/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type AdminSettingsHandler struct {
	db     *gorm.DB
	logger *logger.Logger
}

func NewAdminSettingsHandler(db *gorm.DB, logger *logger.Logger) *AdminSettingsHandler {
	return &AdminSettingsHandler{db: db, logger: logger}
}

// Get returns all settings as a flat key/value map.
func (h *AdminSettingsHandler) Get(c *gin.Context) {
	var settings []models.SiteSetting
	if err := h.db.Find(&settings).Error; err != nil {
		h.logger.Error("Error fetching settings: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch settings"})
		return
	}

	out := make(map[string]string, len(settings))
	for _, s := range settings {
		out[s.Key] = s.Value
	}
	c.JSON(http.StatusOK, gin.H{"settings": out})
}

// Update upserts the provided keys, leaving all others untouched.
func (h *AdminSettingsHandler) Update(c *gin.Context) {
	var body map[string]string
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if len(body) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No settings provided"})
		return
	}

	err := h.db.Transaction(func(tx *gorm.DB) error {
		for key, value := range body {
			var existing models.SiteSetting
			err := tx.First(&existing, "key = ?", key).Error
			switch {
			case err == nil:
				if err := tx.Model(&existing).Update("value", value).Error; err != nil {
					return err
				}
			case err == gorm.ErrRecordNotFound:
				if err := tx.Create(&models.SiteSetting{Key: key, Value: value}).Error; err != nil {
					return err
				}
			default:
				return err
			}
		}
		return nil
	})
	if err != nil {
		h.logger.Error("Error updating settings: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update settings"})
		return
	}

	h.logger.Info("Admin updated %d setting(s)", len(body))
	c.JSON(http.StatusOK, gin.H{"success": true, "updated": len(body)})
}
