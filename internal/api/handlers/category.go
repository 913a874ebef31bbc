package handlers

import (
	"net/http"
	"strconv"

	"techstore/internal/cache"
	"techstore/internal/logger"
	"techstore/internal/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type CategoryHandler struct {
	db     *gorm.DB
	cache  *cache.Cache
	logger *logger.Logger
}

func NewCategoryHandler(db *gorm.DB, cache *cache.Cache, logger *logger.Logger) *CategoryHandler {
	return &CategoryHandler{
		db:     db,
		cache:  cache,
		logger: logger,
	}
}

// List returns root categories by default; ?parent_id filters children
// and ?all=true returns the flat list including subcategories.
func (h *CategoryHandler) List(c *gin.Context) {
	q := cache.CategoryQuery{}
	q.All = c.Query("all") == "true" || c.Query("all") == "1"
	if v := c.Query("parent_id"); v != "" {
		q.ParentID, _ = strconv.ParseInt(v, 10, 64)
	}

	if cached, ok := h.cache.Get(q); ok {
		c.JSON(http.StatusOK, cached)
		return
	}

	query := h.db.Model(&models.Category{})
	switch {
	case q.All:
		query = query.Order("parent_id ASC, display_order ASC, name ASC")
	case q.ParentID != 0:
		query = query.Where("parent_id = ?", q.ParentID).Order("display_order ASC, name ASC")
	default:
		query = query.Where("parent_id IS NULL").Order("display_order ASC, name ASC")
	}

	var categories []models.Category
	if err := query.Find(&categories).Error; err != nil {
		h.logger.Error("Error fetching categories: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch categories"})
		return
	}

	h.cache.Set(q, categories)
	c.JSON(http.StatusOK, categories)
}

// Get serves a category by local id or remote id.
func (h *CategoryHandler) Get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid category id"})
		return
	}

	var category models.Category
	if err := h.db.Where("id = ? OR woo_commerce_id = ?", id, id).First(&category).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Category not found"})
			return
		}
		h.logger.Error("Error fetching category %d: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch category"})
		return
	}

	c.JSON(http.StatusOK, category)
}

// Tree assembles the full category tree from the stored parent links.
func (h *CategoryHandler) Tree(c *gin.Context) {
	q := cache.CategoryQuery{Tree: true}
	if cached, ok := h.cache.Get(q); ok {
		c.JSON(http.StatusOK, cached)
		return
	}

	var categories []models.Category
	err := h.db.Order("parent_id ASC, display_order ASC, name ASC").Find(&categories).Error
	if err != nil {
		h.logger.Error("Error fetching category tree: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch category tree"})
		return
	}

	tree := buildTree(categories)
	h.cache.Set(q, tree)
	c.JSON(http.StatusOK, tree)
}

func buildTree(categories []models.Category) []*models.CategoryNode {
	nodes := make(map[int64]*models.CategoryNode, len(categories))
	for _, cat := range categories {
		nodes[cat.ID] = &models.CategoryNode{Category: cat, Children: []*models.CategoryNode{}}
	}

	roots := make([]*models.CategoryNode, 0)
	for _, cat := range categories {
		node := nodes[cat.ID]
		if cat.ParentID != nil {
			if parent, ok := nodes[*cat.ParentID]; ok {
				parent.Children = append(parent.Children, node)
				continue
			}
		}
		roots = append(roots, node)
	}
	return roots
}
