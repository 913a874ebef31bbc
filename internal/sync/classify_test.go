package sync

import (
	"testing"

	"techstore/internal/services/woocommerce"

	"github.com/stretchr/testify/assert"
)

func TestClassifyComponent(t *testing.T) {
	tests := []struct {
		name       string
		categories []woocommerce.Category
		want       string
	}{
		{
			name:       "cpu by slug",
			categories: []woocommerce.Category{{Slug: "cpus-processors", Name: "CPUs"}},
			want:       "cpu",
		},
		{
			name:       "gpu by name",
			categories: []woocommerce.Category{{Slug: "cards", Name: "Graphics Cards"}},
			want:       "gpu",
		},
		{
			name:       "storage via ssd keyword",
			categories: []woocommerce.Category{{Slug: "nvme-ssd", Name: "NVMe Drives"}},
			want:       "storage",
		},
		{
			name:       "psu with spaced keyword",
			categories: []woocommerce.Category{{Slug: "components", Name: "Power Supply Units"}},
			want:       "psu",
		},
		{
			name:       "case insensitive",
			categories: []woocommerce.Category{{Slug: "KEYBOARD-ACCESSORIES", Name: "KEYBOARDS"}},
			want:       "keyboard",
		},
		{
			name:       "no match",
			categories: []woocommerce.Category{{Slug: "gift-cards", Name: "Gift Cards"}},
			want:       "",
		},
		{
			name:       "empty categories",
			categories: nil,
			want:       "",
		},
		{
			name: "first matching category wins",
			categories: []woocommerce.Category{
				{Slug: "gaming", Name: "Gaming"},
				{Slug: "mice", Name: "Mouse"},
				{Slug: "keyboards", Name: "Keyboards"},
			},
			want: "mouse",
		},
		{
			name: "rule order decides within one category",
			// "ddr" (ram) appears before "cooler" in the rule list, so a
			// category naming both resolves to ram.
			categories: []woocommerce.Category{{Slug: "ddr5-cooler-bundles", Name: "Bundles"}},
			want:       "ram",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, classifyComponent(tt.categories))
		})
	}
}
