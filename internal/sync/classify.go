package sync

import (
	"strings"

	"techstore/internal/services/woocommerce"
)

// classifyRule maps remote category wording to a local component tag.
type classifyRule struct {
	tag      string
	keywords []string
}

// classifyRules is ordered; the first matching rule wins. Keywords are
// matched as substrings against the lower-cased slug and name of each
// remote category.
var classifyRules = []classifyRule{
	{"cpu", []string{"cpu", "processor"}},
	{"gpu", []string{"gpu", "graphics", "video-card", "video card"}},
	{"motherboard", []string{"motherboard", "mainboard"}},
	{"ram", []string{"ram", "memory", "ddr"}},
	{"storage", []string{"storage", "ssd", "hdd", "hard-drive", "hard drive"}},
	{"psu", []string{"psu", "power-supply", "power supply"}},
	{"case", []string{"case", "chassis", "tower"}},
	{"cooler", []string{"cooler", "cooling", "fan"}},
	{"mouse", []string{"mouse"}},
	{"keyboard", []string{"keyboard"}},
	{"headset", []string{"headset", "headphone"}},
}

// classifyComponent derives the local component tag from a product's
// remote categories. Categories are tested in the order the remote API
// returned them, so the ordering of remote category assignment affects
// the derived tag; that is intentional. Returns "" when nothing matches.
func classifyComponent(categories []woocommerce.Category) string {
	for _, cat := range categories {
		if tag := matchRule(cat.Slug, cat.Name); tag != "" {
			return tag
		}
	}
	return ""
}

func matchRule(slug, name string) string {
	slug = strings.ToLower(slug)
	name = strings.ToLower(name)

	for _, rule := range classifyRules {
		for _, kw := range rule.keywords {
			if strings.Contains(slug, kw) || strings.Contains(name, kw) {
				return rule.tag
			}
		}
	}
	return ""
}
