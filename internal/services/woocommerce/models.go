package woocommerce

// Wire types for the WooCommerce REST API (wc/v3). Prices arrive as
// strings and are normalized during reconciliation.

type Product struct {
	ID                int64       `json:"id"`
	Name              string      `json:"name"`
	Slug              string      `json:"slug"`
	Permalink         string      `json:"permalink"`
	Type              string      `json:"type"`
	Status            string      `json:"status"`
	Featured          bool        `json:"featured"`
	CatalogVisibility string      `json:"catalog_visibility"`
	Description       string      `json:"description"`
	ShortDescription  string      `json:"short_description"`
	SKU               string      `json:"sku"`
	Price             string      `json:"price"`
	RegularPrice      string      `json:"regular_price"`
	SalePrice         string      `json:"sale_price"`
	OnSale            bool        `json:"on_sale"`
	Purchasable       bool        `json:"purchasable"`
	StockStatus       string      `json:"stock_status"`
	StockQuantity     *int        `json:"stock_quantity"`
	ManageStock       bool        `json:"manage_stock"`
	Weight            string      `json:"weight"`
	Dimensions        Dimensions  `json:"dimensions"`
	Images            []Image     `json:"images"`
	Attributes        []Attribute `json:"attributes"`
	Categories        []Category  `json:"categories"`
	Tags              []Tag       `json:"tags"`
	MetaData          []MetaEntry `json:"meta_data"`
	DateCreated       string      `json:"date_created"`
	DateModified      string      `json:"date_modified"`
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

// Category is a product category term. Parent is the remote id of the
// parent term, 0 for roots. When embedded in a Product only ID, Name and
// Slug are populated.
type Category struct {
	ID          int64          `json:"id"`
	Name        string         `json:"name"`
	Slug        string         `json:"slug"`
	Description string         `json:"description"`
	Parent      int64          `json:"parent"`
	Count       int            `json:"count"`
	Image       *CategoryImage `json:"image"`
}

type CategoryImage struct {
	ID  int64  `json:"id"`
	Src string `json:"src"`
}
