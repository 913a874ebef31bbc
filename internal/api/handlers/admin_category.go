package handlers

import (
	"net/http"
	"strconv"

	"techstore/internal/events"
	"techstore/internal/logger"
	"techstore/internal/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type AdminCategoryHandler struct {
	db     *gorm.DB
	bus    *events.Bus
	logger *logger.Logger
}

func NewAdminCategoryHandler(db *gorm.DB, bus *events.Bus, logger *logger.Logger) *AdminCategoryHandler {
	return &AdminCategoryHandler{db: db, bus: bus, logger: logger}
}

func (h *AdminCategoryHandler) List(c *gin.Context) {
	var categories []models.Category
	if err := h.db.Order("display_order ASC, name ASC").Find(&categories).Error; err != nil {
		h.logger.Error("Error fetching admin categories: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch categories"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"categories": categories, "total": len(categories)})
}

type categoryPayload struct {
	Name         *string `json:"name"`
	Slug         *string `json:"slug"`
	Description  *string `json:"description"`
	ParentID     *int64  `json:"parent_id"`
	ImageURL     *string `json:"image_url"`
	DisplayOrder *int    `json:"display_order"`
}

func (h *AdminCategoryHandler) Create(c *gin.Context) {
	var req categoryPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Name == nil || *req.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Category name is required"})
		return
	}

	category := models.Category{Name: *req.Name}
	if req.Slug != nil && *req.Slug != "" {
		category.Slug = *req.Slug
	} else {
		category.Slug = Slugify(*req.Name)
	}
	category.Description = req.Description
	category.ImageURL = req.ImageURL
	if req.DisplayOrder != nil {
		category.DisplayOrder = *req.DisplayOrder
	}

	if req.ParentID != nil {
		if err := h.ensureParent(*req.ParentID); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Parent category not found"})
			return
		}
		category.ParentID = req.ParentID
	}

	if err := h.db.Create(&category).Error; err != nil {
		h.logger.Error("Error creating category: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create category"})
		return
	}

	h.bus.Publish(events.CategoryChanged, category.ID)
	h.logger.Info("Admin created category: %s (ID: %d)", category.Name, category.ID)
	c.JSON(http.StatusCreated, category)
}

func (h *AdminCategoryHandler) Update(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid category id"})
		return
	}

	var req categoryPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var category models.Category
	if err := h.db.First(&category, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Category not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch category"})
		return
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Slug != nil {
		updates["slug"] = *req.Slug
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.ImageURL != nil {
		updates["image_url"] = *req.ImageURL
	}
	if req.DisplayOrder != nil {
		updates["display_order"] = *req.DisplayOrder
	}
	if req.ParentID != nil {
		if *req.ParentID == id {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Category cannot be its own parent"})
			return
		}
		if err := h.ensureParent(*req.ParentID); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Parent category not found"})
			return
		}
		updates["parent_id"] = *req.ParentID
	}
	if len(updates) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No fields to update"})
		return
	}

	if err := h.db.Model(&category).Updates(updates).Error; err != nil {
		h.logger.Error("Error updating category %d: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update category"})
		return
	}

	h.bus.Publish(events.CategoryChanged, id)
	h.logger.Info("Admin updated category ID: %d", id)
	c.JSON(http.StatusOK, category)
}

func (h *AdminCategoryHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid category id"})
		return
	}

	var category models.Category
	if err := h.db.First(&category, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Category not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch category"})
		return
	}

	// Children are promoted to roots, same as an orphaned remote parent.
	err = h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Category{}).Where("parent_id = ?", id).Update("parent_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(&category).Error
	})
	if err != nil {
		h.logger.Error("Error deleting category %d: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete category"})
		return
	}

	h.bus.Publish(events.CategoryChanged, id)
	h.logger.Info("Admin deleted category: %s (ID: %d)", category.Name, id)
	c.JSON(http.StatusOK, gin.H{"success": true, "deleted": gin.H{"id": category.ID, "name": category.Name}})
}

func (h *AdminCategoryHandler) ensureParent(parentID int64) error {
	var parent models.Category
	return h.db.Select("id").First(&parent, "id = ?", parentID).Error
}
