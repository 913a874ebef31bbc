package woocommerce

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"techstore/internal/logger"
)

const (
	defaultPerPage = 100
	// Hard cap on pagination, guards against a remote that keeps
	// reporting more pages.
	maxPages = 100
	// Fixed delay between pages to stay under the remote's rate limits.
	pageDelay = 200 * time.Millisecond
)

// Client wraps the WooCommerce REST API for one source site. All calls
// carry a per-request timeout; there are no retries at this layer, a
// failed page simply truncates the aggregate result.
type Client struct {
	baseURL        string
	consumerKey    string
	consumerSecret string
	httpClient     *http.Client
	logger         *logger.Logger
}

// ProductFilters narrows a product fetch. Zero values mean "no filter".
type ProductFilters struct {
	Category int64
	Search   string
	Status   string
	OrderBy  string
	Order    string
}

func NewClient(baseURL, consumerKey, consumerSecret string, logger *logger.Logger) *Client {
	return &Client{
		baseURL:        baseURL,
		consumerKey:    consumerKey,
		consumerSecret: consumerSecret,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: logger,
	}
}

// IsConfigured reports whether the credential pair is present. Callers
// degrade to "not configured" responses instead of failing hard.
func (c *Client) IsConfigured() bool {
	return c.consumerKey != "" && c.consumerSecret != ""
}

// FetchProducts fetches a single page of products. Total counts come
// from the X-WP-Total / X-WP-TotalPages response headers.
func (c *Client) FetchProducts(ctx context.Context, page, perPage int, filters ProductFilters) ([]Product, int, int, error) {
	if perPage <= 0 {
		perPage = defaultPerPage
	}
	if page <= 0 {
		page = 1
	}

	req, err := c.newRequest(ctx, "/products")
	if err != nil {
		return nil, 0, 0, err
	}

	q := req.URL.Query()
	q.Set("page", strconv.Itoa(page))
	q.Set("per_page", strconv.Itoa(perPage))
	q.Set("orderby", valueOr(filters.OrderBy, "date"))
	q.Set("order", valueOr(filters.Order, "desc"))
	q.Set("status", valueOr(filters.Status, "publish"))
	if filters.Category != 0 {
		q.Set("category", strconv.FormatInt(filters.Category, 10))
	}
	if filters.Search != "" {
		q.Set("search", filters.Search)
	}
	req.URL.RawQuery = q.Encode()

	var products []Product
	headers, err := c.do(req, &products)
	if err != nil {
		return nil, 0, 0, err
	}

	total, _ := strconv.Atoi(headers.Get("X-WP-Total"))
	totalPages, _ := strconv.Atoi(headers.Get("X-WP-TotalPages"))

	return products, total, totalPages, nil
}

// FetchAllProducts pages through the full product list. Pages are
// fetched sequentially on purpose; a mid-pagination failure aborts and
// returns whatever was accumulated so far as a partial result. Only a
// failure with nothing fetched at all surfaces as an error.
func (c *Client) FetchAllProducts(ctx context.Context, filters ProductFilters) ([]Product, error) {
	var all []Product

	page := 1
	for page <= maxPages {
		products, _, totalPages, err := c.FetchProducts(ctx, page, defaultPerPage, filters)
		if err != nil {
			if len(all) == 0 {
				return nil, err
			}
			c.logger.Error("Failed to fetch product page %d, returning %d items fetched so far: %v", page, len(all), err)
			return all, nil
		}

		all = append(all, products...)

		if len(products) < defaultPerPage || (totalPages > 0 && page >= totalPages) {
			break
		}
		page++

		select {
		case <-ctx.Done():
			return all, ctx.Err()
		case <-time.After(pageDelay):
		}
	}

	return all, nil
}

// FetchProduct fetches a single product by its remote id.
func (c *Client) FetchProduct(ctx context.Context, productID int64) (*Product, error) {
	req, err := c.newRequest(ctx, fmt.Sprintf("/products/%d", productID))
	if err != nil {
		return nil, err
	}

	var product Product
	if _, err := c.do(req, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

// FetchCategories pages through all product categories with the same
// discipline as FetchAllProducts.
func (c *Client) FetchCategories(ctx context.Context) ([]Category, error) {
	var all []Category

	page := 1
	for page <= maxPages {
		req, err := c.newRequest(ctx, "/products/categories")
		if err != nil {
			return all, err
		}
		q := req.URL.Query()
		q.Set("page", strconv.Itoa(page))
		q.Set("per_page", strconv.Itoa(defaultPerPage))
		req.URL.RawQuery = q.Encode()

		var categories []Category
		headers, err := c.do(req, &categories)
		if err != nil {
			if len(all) == 0 {
				return nil, err
			}
			c.logger.Error("Failed to fetch category page %d, returning %d items fetched so far: %v", page, len(all), err)
			return all, nil
		}

		all = append(all, categories...)

		totalPages, _ := strconv.Atoi(headers.Get("X-WP-TotalPages"))
		if len(categories) < defaultPerPage || (totalPages > 0 && page >= totalPages) {
			break
		}
		page++

		select {
		case <-ctx.Done():
			return all, ctx.Err()
		case <-time.After(pageDelay):
		}
	}

	return all, nil
}

func (c *Client) newRequest(ctx context.Context, path string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.SetBasicAuth(c.consumerKey, c.consumerSecret)
	req.Header.Set("Content-Type", "application/json")
	return req, nil
}

func (c *Client) do(req *http.Request, out interface{}) (http.Header, error) {
	c.logger.Debug("WooCommerce API request: GET %s", req.URL.Path)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("API request failed: %d - %s", resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return resp.Header, nil
}

func valueOr(v, fallback string) string {
	if v != "" {
		return v
	}
	return fallback
}
