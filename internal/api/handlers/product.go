package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"techstore/internal/cache"
	"techstore/internal/logger"
	"techstore/internal/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type ProductHandler struct {
	db     *gorm.DB
	cache  *cache.Cache
	logger *logger.Logger
}

func NewProductHandler(db *gorm.DB, cache *cache.Cache, logger *logger.Logger) *ProductHandler {
	return &ProductHandler{
		db:     db,
		cache:  cache,
		logger: logger,
	}
}

// ProductListResponse is the envelope shared by the public and admin
// product listings.
type ProductListResponse struct {
	Products   []models.Product `json:"products"`
	Pagination Pagination       `json:"pagination"`
}

type Pagination struct {
	Page       int   `json:"page"`
	PerPage    int   `json:"per_page"`
	Total      int64 `json:"total"`
	TotalPages int64 `json:"total_pages"`
}

// List serves the storefront product listing through the read cache.
func (h *ProductHandler) List(c *gin.Context) {
	q := parseProductQuery(c, false)

	if cached, ok := h.cache.Get(q); ok {
		c.JSON(http.StatusOK, cached)
		return
	}

	resp, err := h.query(q)
	if err != nil {
		h.logger.Error("Error fetching products: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch products"})
		return
	}

	// An empty result for a filtered query is not cached: it is more
	// likely a transient defect than a true empty state, so the next
	// request goes back to the store.
	if !q.Filtered() || resp.Pagination.Total > 0 {
		h.cache.Set(q, resp)
	}

	c.JSON(http.StatusOK, resp)
}

// Get serves a product by local id or remote id.
func (h *ProductHandler) Get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product id"})
		return
	}

	key := cache.ProductKey{ID: id}
	if cached, ok := h.cache.Get(key); ok {
		c.JSON(http.StatusOK, cached)
		return
	}

	var product models.Product
	if err := h.db.Where("id = ? OR woo_commerce_id = ?", id, id).First(&product).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			return
		}
		h.logger.Error("Error fetching product %d: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch product"})
		return
	}

	h.cache.Set(key, product)
	c.JSON(http.StatusOK, product)
}

// Search is the bounded free-text endpoint used by the storefront
// search box.
func (h *ProductHandler) Search(c *gin.Context) {
	q := c.Query("q")
	if q == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Search query is required"})
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if limit <= 0 || limit > 50 {
		limit = 50
	}

	var products []models.Product
	pattern := "%" + strings.ToLower(q) + "%"
	err := h.db.Where("status = ?", "publish").
		Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ? OR LOWER(short_description) LIKE ? OR LOWER(sku) LIKE ?",
			pattern, pattern, pattern, pattern).
		Order("updated_at DESC").
		Limit(limit).
		Find(&products).Error
	if err != nil {
		h.logger.Error("Error searching products: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to search products"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"products": products,
		"count":    len(products),
	})
}

func parseProductQuery(c *gin.Context, admin bool) cache.ProductQuery {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "20"))
	if perPage < 1 {
		perPage = 20
	}
	if perPage > 100 {
		perPage = 100
	}

	q := cache.ProductQuery{
		Page:      page,
		PerPage:   perPage,
		Search:    c.Query("search"),
		Component: c.Query("pc_category"),
		Featured:  c.Query("featured") == "true",
		InStock:   c.Query("in_stock") == "true",
		OrderBy:   c.DefaultQuery("orderby", "updated_at"),
		Order:     strings.ToLower(c.DefaultQuery("order", "desc")),
		AdminView: admin,
	}

	if v := c.Query("category"); v != "" {
		q.CategoryID, _ = strconv.ParseInt(v, 10, 64)
	}
	if v := c.Query("min_price"); v != "" {
		q.MinPrice, _ = strconv.ParseFloat(v, 64)
	}
	if v := c.Query("max_price"); v != "" {
		q.MaxPrice, _ = strconv.ParseFloat(v, 64)
	}
	if admin {
		q.Status = c.Query("status")
		q.StockState = c.Query("stock_status")
	}

	return q
}

// query builds and runs the filtered listing. Category scoping goes
// through the product_categories join table built during sync, not the
// jsonb categories array.
func (h *ProductHandler) query(q cache.ProductQuery) (*ProductListResponse, error) {
	query := h.db.Model(&models.Product{})

	if !q.AdminView {
		query = query.Where("products.status = ?", "publish")
	} else {
		if q.Status != "" {
			query = query.Where("products.status = ?", q.Status)
		}
		if q.StockState != "" {
			query = query.Where("products.stock_status = ?", q.StockState)
		}
	}

	if q.CategoryID != 0 {
		wooID := h.resolveCategoryRemoteID(q.CategoryID)
		query = query.
			Joins("JOIN product_categories ON product_categories.product_id = products.id").
			Where("product_categories.category_woo_id = ?", wooID)
	}

	if q.Component != "" {
		query = query.Where("pc_component_category = ?", q.Component)
	}
	if q.Featured {
		query = query.Where("featured = ?", true)
	}
	if q.InStock {
		query = query.Where("stock_status = ?", "instock")
	}
	if q.MinPrice > 0 {
		query = query.Where("price >= ?", q.MinPrice)
	}
	if q.MaxPrice > 0 {
		query = query.Where("price <= ?", q.MaxPrice)
	}
	if q.Search != "" {
		pattern := "%" + strings.ToLower(q.Search) + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(sku) LIKE ? OR LOWER(short_description) LIKE ?",
			pattern, pattern, pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	var products []models.Product
	offset := (q.Page - 1) * q.PerPage
	err := query.Order(orderClause(q.OrderBy, q.Order)).
		Offset(offset).Limit(q.PerPage).
		Find(&products).Error
	if err != nil {
		return nil, err
	}

	totalPages := total / int64(q.PerPage)
	if total%int64(q.PerPage) != 0 {
		totalPages++
	}

	return &ProductListResponse{
		Products: products,
		Pagination: Pagination{
			Page:       q.Page,
			PerPage:    q.PerPage,
			Total:      total,
			TotalPages: totalPages,
		},
	}, nil
}

// resolveCategoryRemoteID accepts either a local or a remote category id
// from the frontend and translates it to the remote id the join table
// is keyed by.
func (h *ProductHandler) resolveCategoryRemoteID(id int64) int64 {
	var category models.Category
	err := h.db.Where("id = ? OR woo_commerce_id = ?", id, id).First(&category).Error
	if err != nil {
		h.logger.Warn("Category not found for filter id %d, using it as a remote id", id)
		return id
	}
	if category.WooCommerceID != nil {
		return *category.WooCommerceID
	}
	return id
}

var sortColumns = map[string]string{
	"name":       "name",
	"price":      "price",
	"date":       "created_at",
	"created_at": "created_at",
	"updated_at": "updated_at",
	"featured":   "featured",
	"id":         "id",
}

func orderClause(orderBy, order string) string {
	if orderBy == "rand" || orderBy == "random" {
		return "RANDOM()"
	}
	col, ok := sortColumns[orderBy]
	if !ok {
		col = "updated_at"
	}
	dir := "DESC"
	if order == "asc" {
		dir = "ASC"
	}
	return col + " " + dir
}
