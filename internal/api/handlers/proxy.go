package handlers

import (
	"net/http"
	"strconv"

	"techstore/internal/logger"
	"techstore/internal/services/woocommerce"

	"github.com/gin-gonic/gin"
)

// ProxyHandler exposes the remote WooCommerce API directly, bypassing
// the local mirror. Used by the admin panel to inspect the source site.
type ProxyHandler struct {
	client *woocommerce.Client
	logger *logger.Logger
}

func NewProxyHandler(client *woocommerce.Client, logger *logger.Logger) *ProxyHandler {
	return &ProxyHandler{
		client: client,
		logger: logger,
	}
}

func (h *ProxyHandler) Products(c *gin.Context) {
	if !h.ensureConfigured(c) {
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "20"))
	filters := woocommerce.ProductFilters{
		Search:  c.Query("search"),
		OrderBy: c.Query("orderby"),
		Order:   c.Query("order"),
	}
	if v := c.Query("category"); v != "" {
		filters.Category, _ = strconv.ParseInt(v, 10, 64)
	}

	products, total, totalPages, err := h.client.FetchProducts(c.Request.Context(), page, perPage, filters)
	if err != nil {
		h.logger.Error("Error fetching from WooCommerce: %v", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to fetch from WooCommerce"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"products":    products,
		"total":       total,
		"total_pages": totalPages,
	})
}

func (h *ProxyHandler) Product(c *gin.Context) {
	if !h.ensureConfigured(c) {
		return
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product id"})
		return
	}

	product, err := h.client.FetchProduct(c.Request.Context(), id)
	if err != nil {
		h.logger.Error("Error fetching product %d from WooCommerce: %v", id, err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to fetch product from WooCommerce"})
		return
	}

	c.JSON(http.StatusOK, product)
}

func (h *ProxyHandler) Categories(c *gin.Context) {
	if !h.ensureConfigured(c) {
		return
	}

	categories, err := h.client.FetchCategories(c.Request.Context())
	if err != nil {
		h.logger.Error("Error fetching categories from WooCommerce: %v", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to fetch categories from WooCommerce"})
		return
	}

	c.JSON(http.StatusOK, categories)
}

func (h *ProxyHandler) ensureConfigured(c *gin.Context) bool {
	if h.client.IsConfigured() {
		return true
	}
	c.JSON(http.StatusServiceUnavailable, gin.H{"error": "WooCommerce credentials are not configured"})
	return false
}
