package handlers

import (
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"techstore/internal/events"
	"techstore/internal/logger"
	"techstore/internal/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const (
	importStatusIdle      = "idle"
	importStatusRunning   = "running"
	importStatusCompleted = "completed"
	importStatusFailed    = "failed"
)

// importProgress tracks the single in-flight CSV import. One import at a
// time; a second upload while one runs is rejected with 409.
type importProgress struct {
	mu        sync.Mutex
	status    string
	total     int
	processed int
	imported  int
	skipped   int
	errors    []string
	startedAt time.Time
}

func (p *importProgress) tryStart(total int) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.status == importStatusRunning {
		return false
	}
	p.status = importStatusRunning
	p.total = total
	p.processed = 0
	p.imported = 0
	p.skipped = 0
	p.errors = nil
	p.startedAt = time.Now().UTC()
	return true
}

func (p *importProgress) step(imported bool, errMsg string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.processed++
	if errMsg != "" {
		p.errors = append(p.errors, errMsg)
	} else if imported {
		p.imported++
	} else {
		p.skipped++
	}
}

func (p *importProgress) finish(status string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.status = status
}

func (p *importProgress) snapshot() gin.H {
	p.mu.Lock()
	defer p.mu.Unlock()
	status := p.status
	if status == "" {
		status = importStatusIdle
	}
	out := gin.H{
		"status":    status,
		"total":     p.total,
		"processed": p.processed,
		"imported":  p.imported,
		"skipped":   p.skipped,
		"errors":    append([]string(nil), p.errors...),
	}
	if !p.startedAt.IsZero() {
		out["startedAt"] = p.startedAt
	}
	return out
}

// AdminImportHandler ingests WooCommerce product-export CSVs into the
// local catalog in the background.
type AdminImportHandler struct {
	db       *gorm.DB
	bus      *events.Bus
	logger   *logger.Logger
	progress importProgress
	siteID   *string
	siteName *string
}

func NewAdminImportHandler(db *gorm.DB, bus *events.Bus, logger *logger.Logger, siteID, siteName string) *AdminImportHandler {
	h := &AdminImportHandler{db: db, bus: bus, logger: logger}
	if siteID != "" {
		h.siteID = &siteID
	}
	if siteName != "" {
		h.siteName = &siteName
	}
	return h
}

// Upload accepts a multipart CSV, parses it fully up front so malformed
// files fail fast, then imports rows in the background.
func (h *AdminImportHandler) Upload(c *gin.Context) {
	file, header, err := c.Request.FormFile("csv")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "CSV file is required (field name: csv)"})
		return
	}
	defer file.Close()

	if !strings.HasSuffix(strings.ToLower(header.Filename), ".csv") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Only .csv files are accepted"})
		return
	}

	rows, err := parseProductCSV(file)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Invalid CSV: %v", err)})
		return
	}
	if len(rows) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "CSV contains no product rows"})
		return
	}

	if !h.progress.tryStart(len(rows)) {
		c.JSON(http.StatusConflict, gin.H{"error": "An import is already in progress"})
		return
	}

	h.logger.Info("CSV import started: %s (%d rows)", header.Filename, len(rows))
	go h.run(rows)

	c.JSON(http.StatusAccepted, gin.H{
		"message": "Import started",
		"total":   len(rows),
		"status":  importStatusRunning,
	})
}

func (h *AdminImportHandler) Status(c *gin.Context) {
	c.JSON(http.StatusOK, h.progress.snapshot())
}

func (h *AdminImportHandler) run(rows []csvProduct) {
	defer h.bus.Publish(events.ProductChanged, 0)

	for _, row := range rows {
		if err := h.importRow(row); err != nil {
			h.logger.Error("CSV import row %q failed: %v", row.Name, err)
			h.progress.step(false, fmt.Sprintf("%s: %v", row.Name, err))
			continue
		}
		h.progress.step(true, "")
	}

	h.progress.finish(importStatusCompleted)
	h.logger.Info("CSV import finished")
}

func (h *AdminImportHandler) importRow(row csvProduct) error {
	record := row.toModel()
	record.SiteID = h.siteID
	record.SiteName = h.siteName

	return h.db.Transaction(func(tx *gorm.DB) error {
		if record.WooCommerceID != nil {
			var existing models.Product
			err := tx.First(&existing, "woo_commerce_id = ?", *record.WooCommerceID).Error
			if err == nil {
				return tx.Model(&existing).Select(
					"name", "slug", "status", "featured", "description",
					"short_description", "sku", "price", "regular_price",
					"sale_price", "on_sale", "stock_status", "stock_quantity",
					"manage_stock", "weight", "images", "categories",
				).Updates(&record).Error
			}
			if err != gorm.ErrRecordNotFound {
				return err
			}
		}
		return tx.Create(&record).Error
	})
}

// csvProduct is one data row of a WooCommerce product export.
type csvProduct struct {
	WooID         *int64
	Name          string
	Slug          string
	SKU           string
	Status        string
	Featured      bool
	Description   string
	ShortDesc     string
	RegularPrice  *float64
	SalePrice     *float64
	StockStatus   string
	StockQuantity *int
	Weight        string
	Categories    []string
	Images        []string
}

func (r csvProduct) toModel() models.Product {
	p := models.Product{
		Name:        r.Name,
		Slug:        r.Slug,
		Type:        "simple",
		Status:      r.Status,
		Featured:    r.Featured,
		StockStatus: r.StockStatus,
	}
	if p.Slug == "" {
		p.Slug = Slugify(r.Name)
	}
	if p.Status == "" {
		p.Status = "publish"
	}
	if p.StockStatus == "" {
		p.StockStatus = "instock"
	}
	p.WooCommerceID = r.WooID
	if r.SKU != "" {
		p.SKU = &r.SKU
	}
	if r.Description != "" {
		p.Description = &r.Description
	}
	if r.ShortDesc != "" {
		p.ShortDescription = &r.ShortDesc
	}
	if r.Weight != "" {
		p.Weight = &r.Weight
	}
	p.RegularPrice = r.RegularPrice
	p.SalePrice = r.SalePrice
	if r.SalePrice != nil {
		p.Price = r.SalePrice
		p.OnSale = true
	} else {
		p.Price = r.RegularPrice
	}
	if r.StockQuantity != nil {
		p.StockQuantity = r.StockQuantity
		p.ManageStock = true
	}
	for _, name := range r.Categories {
		p.Categories = append(p.Categories, models.CategoryRef{Name: name, Slug: Slugify(name)})
	}
	for _, src := range r.Images {
		p.Images = append(p.Images, models.Image{Src: src, Name: r.Name})
	}
	return p
}

// parseProductCSV reads a WooCommerce export. Header names follow the
// export format ("ID", "Name", "Regular price", ...). Variation rows
// (non-empty Parent column) are skipped; only parent/simple products
// become catalog rows.
func parseProductCSV(r io.Reader) ([]csvProduct, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("missing header row: %w", err)
	}

	col := make(map[string]int, len(header))
	for i, name := range header {
		col[strings.ToLower(strings.TrimSpace(name))] = i
	}
	if _, ok := col["name"]; !ok {
		return nil, fmt.Errorf("header has no Name column")
	}

	field := func(record []string, name string) string {
		idx, ok := col[name]
		if !ok || idx >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[idx])
	}

	var rows []csvProduct
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		if field(record, "parent") != "" {
			continue // variation row
		}
		name := field(record, "name")
		if name == "" {
			continue
		}

		row := csvProduct{
			Name:        name,
			Slug:        field(record, "slug"),
			SKU:         field(record, "sku"),
			Description: field(record, "description"),
			ShortDesc:   field(record, "short description"),
			Weight:      field(record, "weight (kg)"),
		}
		if row.Weight == "" {
			row.Weight = field(record, "weight")
		}

		if v := field(record, "id"); v != "" {
			if id, err := strconv.ParseInt(v, 10, 64); err == nil && id > 0 {
				row.WooID = &id
			}
		}
		switch strings.ToLower(field(record, "published")) {
		case "1", "true", "yes", "":
			row.Status = "publish"
		default:
			row.Status = "draft"
		}
		switch strings.ToLower(field(record, "is featured?")) {
		case "1", "true", "yes":
			row.Featured = true
		}
		if v := field(record, "regular price"); v != "" {
			if f, err := strconv.ParseFloat(v, 64); err == nil {
				row.RegularPrice = &f
			}
		}
		if v := field(record, "sale price"); v != "" {
			if f, err := strconv.ParseFloat(v, 64); err == nil {
				row.SalePrice = &f
			}
		}
		switch strings.ToLower(field(record, "in stock?")) {
		case "0", "false", "no":
			row.StockStatus = "outofstock"
		default:
			row.StockStatus = "instock"
		}
		if v := field(record, "stock"); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				row.StockQuantity = &n
			}
		}
		if v := field(record, "categories"); v != "" {
			for _, part := range strings.Split(v, ",") {
				// "Components > CPUs" keeps only the leaf
				segments := strings.Split(part, ">")
				leaf := strings.TrimSpace(segments[len(segments)-1])
				if leaf != "" {
					row.Categories = append(row.Categories, leaf)
				}
			}
		}
		if v := field(record, "images"); v != "" {
			for _, part := range strings.Split(v, ",") {
				if src := strings.TrimSpace(part); src != "" {
					row.Images = append(row.Images, src)
				}
			}
		}

		rows = append(rows, row)
	}
	return rows, nil
}
