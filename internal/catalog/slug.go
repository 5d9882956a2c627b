package catalog

import (
	"regexp"
	"strings"
)

var slugStripRe = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify lowercases the name and collapses every non-alphanumeric run
// into a single hyphen, so "Beoplay A9 (2024)" becomes "beoplay-a9-2024".
func Slugify(name string) string {
	slug := strings.ToLower(strings.TrimSpace(name))
	slug = slugStripRe.ReplaceAllString(slug, "-")
	return strings.Trim(slug, "-")
}

// DefaultBrand falls back to the leading word of the product name when no
// brand was supplied. Applied at write time only.
func DefaultBrand(brand, name string) string {
	if trimmed := strings.TrimSpace(brand); trimmed != "" {
		return trimmed
	}
	fields := strings.Fields(name)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}
