package models

import (
	"time"
)

// Category is a local category row. ParentID always references a local
// category id (or is null); remote parent references are translated
// through the remote-to-local map during sync before they are stored.
type Category struct {
	ID            int64   `json:"id" gorm:"primaryKey"`
	WooCommerceID *int64  `json:"woo_commerce_id" gorm:"uniqueIndex"`
	Name          string  `json:"name" gorm:"not null"`
	Slug          string  `json:"slug" gorm:"not null;index"`
	Description   *string `json:"description"`
	ParentID      *int64  `json:"parent_id" gorm:"index"`
	ImageURL      *string `json:"image_url"`

	// Product count as reported by the remote, advisory only.
	Count int `json:"count" gorm:"default:0"`

	// Manual ordering for the storefront, editable only through admin.
	// Sync never touches it.
	DisplayOrder int `json:"display_order" gorm:"default:0"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CategoryNode is a category with its resolved children, used by the
// tree endpoint.
type CategoryNode struct {
	Category
	Children []*CategoryNode `json:"children"`
}
