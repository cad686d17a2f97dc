package domain

import (
	"regexp"
	"strings"
)

var (
	slugWhitespace = regexp.MustCompile(`\s+`)
	slugInvalid    = regexp.MustCompile(`[^a-z0-9-]+`)
	slugHyphens    = regexp.MustCompile(`-+`)
)

// Slugify derives the URL-safe key for a store name: lowercase, whitespace
// runs become a single hyphen, everything outside [a-z0-9-] is stripped,
// repeated hyphens collapse and leading/trailing hyphens are trimmed.
// Collision suffixes (-2, -3, …) are handled by the caller.
func Slugify(name string) string {
	slug := strings.ToLower(strings.TrimSpace(name))
	slug = slugWhitespace.ReplaceAllString(slug, "-")
	slug = slugInvalid.ReplaceAllString(slug, "")
	slug = slugHyphens.ReplaceAllString(slug, "-")
	return strings.Trim(slug, "-")
}
