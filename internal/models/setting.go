package models

import (
	"time"
)

// SiteSetting is a key/value pair managed from the admin panel
// (catalog URL, banner text and similar storefront knobs).
type SiteSetting struct {
	Key       string    `json:"key" gorm:"primaryKey"`
	Value     string    `json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (SiteSetting) TableName() string {
	return "site_settings"
}
