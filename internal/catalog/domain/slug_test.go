package domain_test

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/townlist/townlist-services/api/internal/catalog/domain"
)

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

func TestSlugify_Basic(t *testing.T) {
	assert.Equal(t, "blue-moon-cafe", domain.Slugify("Blue Moon Cafe"))
}

func TestSlugify_WhitespaceRuns(t *testing.T) {
	assert.Equal(t, "blue-moon-cafe", domain.Slugify("  Blue   Moon\tCafe  "))
}

func TestSlugify_StripsPunctuation(t *testing.T) {
	assert.Equal(t, "petes-pie-shop", domain.Slugify("Pete's Pie Shop!"))
}

func TestSlugify_CollapsesHyphens(t *testing.T) {
	assert.Equal(t, "fish-chips", domain.Slugify("Fish -- & -- Chips"))
}

func TestSlugify_TrimsHyphens(t *testing.T) {
	assert.Equal(t, "corner-shop", domain.Slugify("- Corner Shop -"))
}

func TestSlugify_KeepsDigits(t *testing.T) {
	assert.Equal(t, "24-7-grocers", domain.Slugify("24/7 Grocers"))
}

func TestSlugify_EmptyForSymbolOnlyNames(t *testing.T) {
	assert.Equal(t, "", domain.Slugify("!!! ---"))
}

func TestSlugify_MatchesURLSafePattern(t *testing.T) {
	names := []string{
		"Blue Moon Cafe",
		"Pete's Pie Shop!",
		"  The   Copper Kettle ",
		"24/7 Grocers",
		"Fish -- & -- Chips",
	}
	for _, name := range names {
		slug := domain.Slugify(name)
		assert.Regexp(t, slugPattern, slug, "name %q", name)
	}
}
