package sync

import (
	"strconv"

	"techstore/internal/logger"
	"techstore/internal/models"
	"techstore/internal/services/woocommerce"

	"gorm.io/gorm"
)

// ProductReconciler upserts remote products into the local store. Each
// item is processed independently so one bad record never blocks the
// batch, and the join table used by category filters is rebuilt as part
// of every upsert.
type ProductReconciler struct {
	db       *gorm.DB
	logger   *logger.Logger
	siteID   string
	siteName string
}

func NewProductReconciler(db *gorm.DB, logger *logger.Logger, siteID, siteName string) *ProductReconciler {
	return &ProductReconciler{
		db:       db,
		logger:   logger,
		siteID:   siteID,
		siteName: siteName,
	}
}

// Reconcile upserts the given products and returns the synced count plus
// per-item errors. Products absent from the input are never deleted;
// partial fetches and filtered remote queries stay safe.
func (r *ProductReconciler) Reconcile(products []woocommerce.Product) (int, []models.SyncError) {
	synced := 0
	var errs []models.SyncError

	for _, wc := range products {
		if err := r.upsert(wc); err != nil {
			r.logger.Error("Error syncing product %d (%s): %v", wc.ID, wc.Name, err)
			errs = append(errs, models.SyncError{Type: "product", RemoteID: wc.ID, Name: wc.Name, Error: err.Error()})
			continue
		}
		synced++
	}

	return synced, errs
}

// upsert inserts or fully overwrites the synced fields of one product,
// keyed by remote id. Admin edits to synced fields are overwritten on
// the next run; the remote is the source of truth for them.
func (r *ProductReconciler) upsert(wc woocommerce.Product) error {
	record := r.toModel(wc)

	return r.db.Transaction(func(tx *gorm.DB) error {
		var existing models.Product
		err := tx.Where("woo_commerce_id = ?", wc.ID).First(&existing).Error
		if err == gorm.ErrRecordNotFound {
			if err := tx.Create(&record).Error; err != nil {
				return err
			}
			return r.rebuildLinks(tx, record.ID, wc.Categories)
		}
		if err != nil {
			return err
		}

		record.ID = existing.ID
		record.CreatedAt = existing.CreatedAt
		if err := tx.Model(&existing).Select(syncedColumns).Updates(&record).Error; err != nil {
			return err
		}
		return r.rebuildLinks(tx, existing.ID, wc.Categories)
	})
}

// syncedColumns is the set of columns sync owns. Anything outside it
// (admin-only fields) survives a sync overwrite.
var syncedColumns = []string{
	"woo_commerce_id", "name", "slug", "permalink", "type", "status",
	"featured", "catalog_visibility", "description", "short_description",
	"sku", "price", "regular_price", "sale_price", "on_sale", "purchasable",
	"stock_status", "stock_quantity", "manage_stock", "weight", "dimensions",
	"images", "attributes", "categories", "tags", "meta_data",
	"pc_component_category", "site_id", "site_name", "synced_at",
}

func (r *ProductReconciler) toModel(wc woocommerce.Product) models.Product {
	now := nowUTC()

	record := models.Product{
		WooCommerceID:     &wc.ID,
		Name:              wc.Name,
		Slug:              wc.Slug,
		Type:              wc.Type,
		Status:            wc.Status,
		Featured:          wc.Featured,
		CatalogVisibility: wc.CatalogVisibility,
		Purchasable:       wc.Purchasable,
		StockStatus:       wc.StockStatus,
		StockQuantity:     wc.StockQuantity,
		ManageStock:       wc.ManageStock,
		Dimensions:        &models.Dimensions{Length: wc.Dimensions.Length, Width: wc.Dimensions.Width, Height: wc.Dimensions.Height},
		Images:            toImages(wc.Images),
		Attributes:        toAttributes(wc.Attributes),
		Categories:        toCategoryRefs(wc.Categories),
		Tags:              toTags(wc.Tags),
		MetaData:          toMetaEntries(wc.MetaData),
		SiteID:            &r.siteID,
		SiteName:          &r.siteName,
		SyncedAt:          &now,
	}

	if wc.Permalink != "" {
		record.Permalink = &wc.Permalink
	}
	if wc.Description != "" {
		record.Description = &wc.Description
	}
	if wc.ShortDescription != "" {
		record.ShortDescription = &wc.ShortDescription
	}
	if wc.SKU != "" {
		record.SKU = &wc.SKU
	}
	if wc.Weight != "" {
		record.Weight = &wc.Weight
	}

	record.Price = parsePrice(wc.Price)
	record.RegularPrice = parsePrice(wc.RegularPrice)
	record.SalePrice = parsePrice(wc.SalePrice)
	// Derived locally from sale price presence, independent of the
	// remote's on_sale flag, to stay consistent with price-range
	// filtering semantics.
	record.OnSale = record.SalePrice != nil

	if tag := classifyComponent(wc.Categories); tag != "" {
		record.ComponentCategory = &tag
	}

	return record
}

// rebuildLinks replaces the product's join rows with the current remote
// category assignment.
func (r *ProductReconciler) rebuildLinks(tx *gorm.DB, productID int64, categories []woocommerce.Category) error {
	if err := tx.Where("product_id = ?", productID).Delete(&models.ProductCategoryLink{}).Error; err != nil {
		return err
	}

	for _, cat := range categories {
		link := models.ProductCategoryLink{ProductID: productID, CategoryWooID: cat.ID}
		if err := tx.Create(&link).Error; err != nil {
			return err
		}
	}
	return nil
}

func parsePrice(s string) *float64 {
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &v
}

func toImages(in []woocommerce.Image) []models.Image {
	out := make([]models.Image, len(in))
	for i, img := range in {
		out[i] = models.Image{ID: img.ID, Src: img.Src, Name: img.Name, Alt: img.Alt}
	}
	return out
}

func toAttributes(in []woocommerce.Attribute) []models.Attribute {
	out := make([]models.Attribute, len(in))
	for i, attr := range in {
		out[i] = models.Attribute{ID: attr.ID, Name: attr.Name, Options: attr.Options, Visible: attr.Visible}
	}
	return out
}

func toCategoryRefs(in []woocommerce.Category) []models.CategoryRef {
	out := make([]models.CategoryRef, len(in))
	for i, cat := range in {
		out[i] = models.CategoryRef{ID: cat.ID, Name: cat.Name, Slug: cat.Slug}
	}
	return out
}

func toTags(in []woocommerce.Tag) []models.Tag {
	out := make([]models.Tag, len(in))
	for i, tag := range in {
		out[i] = models.Tag{ID: tag.ID, Name: tag.Name, Slug: tag.Slug}
	}
	return out
}

func toMetaEntries(in []woocommerce.MetaEntry) []models.MetaEntry {
	out := make([]models.MetaEntry, len(in))
	for i, m := range in {
		out[i] = models.MetaEntry{ID: m.ID, Key: m.Key, Value: m.Value}
	}
	return out
}
