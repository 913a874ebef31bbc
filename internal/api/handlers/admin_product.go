package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"regexp"
	"strconv"
	"strings"

	"techstore/internal/cache"
	"techstore/internal/config"
	"techstore/internal/events"
	"techstore/internal/logger"
	"techstore/internal/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// AdminProductHandler owns the write path for products. Every mutation
// publishes ProductChanged so the read cache is invalidated before the
// response goes out.
type AdminProductHandler struct {
	db      *gorm.DB
	cache   *cache.Cache
	bus     *events.Bus
	config  *config.Config
	logger  *logger.Logger
	listing *ProductHandler
}

func NewAdminProductHandler(db *gorm.DB, c *cache.Cache, bus *events.Bus, cfg *config.Config, logger *logger.Logger) *AdminProductHandler {
	return &AdminProductHandler{
		db:      db,
		cache:   c,
		bus:     bus,
		config:  cfg,
		logger:  logger,
		listing: NewProductHandler(db, c, logger),
	}
}

// List shows all products regardless of status. Admin listings are not
// cached; the panel needs to see its own writes immediately.
func (h *AdminProductHandler) List(c *gin.Context) {
	q := parseProductQuery(c, true)

	resp, err := h.listing.query(q)
	if err != nil {
		h.logger.Error("Error fetching admin products: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch products"})
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *AdminProductHandler) Get(c *gin.Context) {
	var product models.Product
	if err := h.db.First(&product, "id = ?", c.Param("id")).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch product"})
		return
	}
	c.JSON(http.StatusOK, product)
}

func (h *AdminProductHandler) Create(c *gin.Context) {
	var product models.Product
	if err := c.ShouldBindJSON(&product); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if product.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Product name is required"})
		return
	}
	if product.Slug == "" {
		product.Slug = Slugify(product.Name)
	}
	if product.Type == "" {
		product.Type = "simple"
	}
	if product.Status == "" {
		product.Status = "publish"
	}
	if product.StockStatus == "" {
		product.StockStatus = "instock"
	}

	err := h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&product).Error; err != nil {
			return err
		}
		for _, ref := range product.Categories {
			link := models.ProductCategoryLink{ProductID: product.ID, CategoryWooID: ref.ID}
			if err := tx.Create(&link).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		h.logger.Error("Error creating product: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create product"})
		return
	}

	h.bus.Publish(events.ProductChanged, product.ID)
	h.logger.Info("Admin created product: %s (ID: %d)", product.Name, product.ID)
	c.JSON(http.StatusCreated, product)
}

// updatableFields is the whitelist for partial updates; only fields the
// request actually provides are written.
var updatableFields = map[string]bool{
	"name": true, "slug": true, "type": true, "status": true,
	"featured": true, "catalog_visibility": true, "description": true,
	"short_description": true, "sku": true, "price": true,
	"regular_price": true, "sale_price": true, "on_sale": true,
	"stock_status": true, "stock_quantity": true, "manage_stock": true,
	"weight": true, "permalink": true, "pc_component_category": true,
	"dimensions": true, "images": true, "attributes": true,
	"categories": true, "tags": true, "meta_data": true,
}

func (h *AdminProductHandler) Update(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product id"})
		return
	}

	raw, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read request body"})
		return
	}

	var body map[string]json.RawMessage
	if err := json.Unmarshal(raw, &body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON body"})
		return
	}

	// Only columns the request actually carries get written; everything
	// else on the record is left alone.
	fields := make([]string, 0, len(body))
	for key := range body {
		if updatableFields[key] {
			fields = append(fields, key)
		}
	}
	if len(fields) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No fields to update"})
		return
	}

	var product models.Product
	if err := h.db.First(&product, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch product"})
		return
	}

	var patch models.Product
	if err := json.Unmarshal(raw, &patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product payload"})
		return
	}

	err = h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&product).Select(fields).Updates(&patch).Error; err != nil {
			return err
		}
		if _, ok := body["categories"]; ok {
			if err := tx.Where("product_id = ?", id).Delete(&models.ProductCategoryLink{}).Error; err != nil {
				return err
			}
			for _, ref := range patch.Categories {
				link := models.ProductCategoryLink{ProductID: id, CategoryWooID: ref.ID}
				if err := tx.Create(&link).Error; err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		h.logger.Error("Error updating product %d: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update product"})
		return
	}

	if err := h.db.First(&product, "id = ?", id).Error; err == nil {
		h.bus.Publish(events.ProductChanged, id)
		h.logger.Info("Admin updated product ID: %d", id)
		c.JSON(http.StatusOK, product)
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reload product"})
}

func (h *AdminProductHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product id"})
		return
	}

	var product models.Product
	if err := h.db.First(&product, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch product"})
		return
	}

	err = h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("product_id = ?", id).Delete(&models.ProductCategoryLink{}).Error; err != nil {
			return err
		}
		return tx.Delete(&product).Error
	})
	if err != nil {
		h.logger.Error("Error deleting product %d: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete product"})
		return
	}

	h.bus.Publish(events.ProductChanged, id)
	h.logger.Info("Admin deleted product: %s (ID: %d)", product.Name, id)
	c.JSON(http.StatusOK, gin.H{"success": true, "deleted": gin.H{"id": product.ID, "name": product.Name}})
}

type bulkActionRequest struct {
	IDs    []int64 `json:"ids"`
	Action string  `json:"action"`
}

func (h *AdminProductHandler) BulkAction(c *gin.Context) {
	var req bulkActionRequest
	if err := c.ShouldBindJSON(&req); err != nil || len(req.IDs) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Product IDs required"})
		return
	}

	var affected int64
	var err error

	switch req.Action {
	case "delete":
		err = h.db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Where("product_id IN ?", req.IDs).Delete(&models.ProductCategoryLink{}).Error; err != nil {
				return err
			}
			res := tx.Where("id IN ?", req.IDs).Delete(&models.Product{})
			affected = res.RowsAffected
			return res.Error
		})
	case "publish", "draft":
		res := h.db.Model(&models.Product{}).Where("id IN ?", req.IDs).Update("status", req.Action)
		affected, err = res.RowsAffected, res.Error
	case "instock", "outofstock":
		res := h.db.Model(&models.Product{}).Where("id IN ?", req.IDs).Update("stock_status", req.Action)
		affected, err = res.RowsAffected, res.Error
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid action"})
		return
	}

	if err != nil {
		h.logger.Error("Error in bulk %s: %v", req.Action, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to perform bulk action"})
		return
	}

	h.bus.Publish(events.ProductChanged, 0)
	h.logger.Info("Admin bulk %s: %d products", req.Action, affected)
	c.JSON(http.StatusOK, gin.H{"success": true, "affected": affected})
}

// Stats backs the admin dashboard.
func (h *AdminProductHandler) Stats(c *gin.Context) {
	var total, published, outOfStock, featured, categories int64

	h.db.Model(&models.Product{}).Count(&total)
	h.db.Model(&models.Product{}).Where("status = ?", "publish").Count(&published)
	h.db.Model(&models.Product{}).Where("stock_status = ?", "outofstock").Count(&outOfStock)
	h.db.Model(&models.Product{}).Where("featured = ?", true).Count(&featured)
	h.db.Model(&models.Category{}).Count(&categories)

	c.JSON(http.StatusOK, gin.H{
		"totalProducts":     total,
		"publishedProducts": published,
		"outOfStock":        outOfStock,
		"inStock":           published - outOfStock,
		"featuredProducts":  featured,
		"totalCategories":   categories,
		"assetHostConfigured": h.config.AssetHostConfigured(),
	})
}

// UploadImage gates on asset-host configuration; the upload itself is
// handled by the external host integration.
func (h *AdminProductHandler) UploadImage(c *gin.Context) {
	if !h.config.AssetHostConfigured() {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error":   "Asset host not configured",
			"message": "Set ASSET_HOST_NAME, ASSET_HOST_KEY and ASSET_HOST_SECRET in environment variables",
		})
		return
	}

	c.JSON(http.StatusNotImplemented, gin.H{"error": "Image upload is handled by the asset host integration"})
}

var slugPattern = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify derives a URL slug from a display name, the same way the
// source site does.
func Slugify(name string) string {
	slug := slugPattern.ReplaceAllString(strings.ToLower(name), "-")
	return strings.Trim(slug, "-")
}
