package models

import (
	"time"
)

// Product mirrors one remote catalog item. Rows are created by sync or by
// the admin panel; woo_commerce_id is nullable for admin-created products
// and immutable once set (it is the sole upsert key for sync writes).
type Product struct {
	ID                int64       `json:"id" gorm:"primaryKey"`
	WooCommerceID     *int64      `json:"woo_commerce_id" gorm:"uniqueIndex"`
	Name              string      `json:"name" gorm:"not null"`
	Slug              string      `json:"slug" gorm:"not null;index"`
	Permalink         *string     `json:"permalink"`
	Type              string      `json:"type" gorm:"default:simple"`
	Status            string      `json:"status" gorm:"default:publish;index"`
	Featured          bool        `json:"featured" gorm:"default:false"`
	CatalogVisibility string      `json:"catalog_visibility" gorm:"default:visible"`
	Description       *string     `json:"description"`
	ShortDescription  *string     `json:"short_description"`
	SKU               *string     `json:"sku"`
	Price             *float64    `json:"price" gorm:"type:decimal(12,2);index"`
	RegularPrice      *float64    `json:"regular_price" gorm:"type:decimal(12,2)"`
	SalePrice         *float64    `json:"sale_price" gorm:"type:decimal(12,2)"`
	OnSale            bool        `json:"on_sale" gorm:"default:false"`
	Purchasable       bool        `json:"purchasable" gorm:"default:true"`
	StockStatus       string      `json:"stock_status" gorm:"default:instock;index"`
	StockQuantity     *int        `json:"stock_quantity"`
	ManageStock       bool        `json:"manage_stock" gorm:"default:false"`
	Weight            *string     `json:"weight"`
	Dimensions        *Dimensions `json:"dimensions" gorm:"serializer:json"`
	Images            []Image     `json:"images" gorm:"serializer:json"`
	Attributes        []Attribute `json:"attributes" gorm:"serializer:json"`
	Categories        []CategoryRef `json:"categories" gorm:"serializer:json"`
	Tags              []Tag       `json:"tags" gorm:"serializer:json"`
	MetaData          []MetaEntry `json:"meta_data" gorm:"serializer:json"`

	// Derived classification, a best-effort hint. The authoritative
	// category list is the Categories field above.
	ComponentCategory *string `json:"pc_component_category" gorm:"column:pc_component_category;index"`

	SiteID    *string    `json:"site_id"`
	SiteName  *string    `json:"site_name"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	SyncedAt  *time.Time `json:"synced_at"`
}

// ProductCategoryLink is the normalized join row (product local id ×
// category remote id) rebuilt on every product upsert. Category-scoped
// product queries go through this table instead of scanning the jsonb
// categories array.
type ProductCategoryLink struct {
	ProductID     int64 `json:"product_id" gorm:"primaryKey;autoIncrement:false"`
	CategoryWooID int64 `json:"category_woo_id" gorm:"primaryKey;autoIncrement:false;index"`
}

func (ProductCategoryLink) TableName() string {
	return "product_categories"
}

type Dimensions struct {
	Length string `json:"length"`
	Width  string `json:"width"`
	Height string `json:"height"`
}

type Image struct {
	ID   int64  `json:"id"`
	Src  string `json:"src"`
	Name string `json:"name"`
	Alt  string `json:"alt"`
}

type Attribute struct {
	ID      int64    `json:"id"`
	Name    string   `json:"name"`
	Options []string `json:"options"`
	Visible bool     `json:"visible"`
}

// CategoryRef is a remote category assignment as reported by the source
// site. The ID here is the remote (WooCommerce) category id.
type CategoryRef struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

type Tag struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

type MetaEntry struct {
	ID    int64       `json:"id"`
	Key   string      `json:"key"`
	Value interface{} `json:"value"`
}
