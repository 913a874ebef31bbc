package cache

import (
	"fmt"
	"strings"
)

// ProductQuery is the structured descriptor for a product list query.
// Every parameter that changes the result set must appear in CacheKey.
type ProductQuery struct {
	Page       int
	PerPage    int
	CategoryID int64
	Search     string
	Component  string
	Featured   bool
	MinPrice   float64
	MaxPrice   float64
	InStock    bool
	OrderBy    string
	Order      string
	AdminView  bool
	Status     string
	StockState string
}

func (q ProductQuery) CacheKey() string {
	var b strings.Builder
	b.WriteString("products")
	if q.AdminView {
		b.WriteString(":admin")
	}
	fmt.Fprintf(&b, ":page=%d:per=%d:cat=%d:search=%s:comp=%s:feat=%t:min=%g:max=%g:stock=%t:status=%s:ss=%s:by=%s:dir=%s",
		q.Page, q.PerPage, q.CategoryID, q.Search, q.Component, q.Featured,
		q.MinPrice, q.MaxPrice, q.InStock, q.Status, q.StockState, q.OrderBy, q.Order)
	return b.String()
}

// Cacheable rejects non-deterministic orderings; a randomly sorted page
// cached once would pin one shuffle for the whole TTL.
func (q ProductQuery) Cacheable() bool {
	return q.OrderBy != "rand" && q.OrderBy != "random"
}

// Filtered reports whether the query narrows the catalog. An empty
// result for a filtered query is more likely a transient defect than a
// true empty state, so such results are not cached.
func (q ProductQuery) Filtered() bool {
	return q.CategoryID != 0 || q.Search != "" || q.Component != "" ||
		q.Featured || q.MinPrice > 0 || q.MaxPrice > 0 || q.InStock
}

// ProductKey addresses a single product detail response.
type ProductKey struct {
	ID int64
}

func (k ProductKey) CacheKey() string {
	return fmt.Sprintf("product:%d", k.ID)
}

func (k ProductKey) Cacheable() bool { return true }

// CategoryQuery addresses a category list (flat, by parent, or tree).
type CategoryQuery struct {
	ParentID int64
	All      bool
	Tree     bool
}

func (q CategoryQuery) CacheKey() string {
	return fmt.Sprintf("categories:parent=%d:all=%t:tree=%t", q.ParentID, q.All, q.Tree)
}

func (q CategoryQuery) Cacheable() bool { return true }
