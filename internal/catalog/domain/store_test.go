package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/townlist/townlist-services/api/internal/catalog/domain"
)

func TestNewGeoPoint_OK(t *testing.T) {
	point, err := domain.NewGeoPoint(-0.1, 51.5, " 12 Embankment Walk ")

	require.NoError(t, err)
	assert.Equal(t, "Point", point.Type)
	assert.Equal(t, [2]float64{-0.1, 51.5}, point.Coordinates)
	assert.Equal(t, "12 Embankment Walk", point.Address)
	assert.Equal(t, -0.1, point.Longitude())
	assert.Equal(t, 51.5, point.Latitude())
}

func TestNewGeoPoint_LongitudeOutOfRange(t *testing.T) {
	_, err := domain.NewGeoPoint(181, 0, "")
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestNewGeoPoint_LatitudeOutOfRange(t *testing.T) {
	_, err := domain.NewGeoPoint(0, -91, "")
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestNormalizeTags_DropsEmptyAndDuplicates(t *testing.T) {
	got := domain.NormalizeTags([]string{" cafe ", "", "wifi", "cafe", "  "})
	assert.Equal(t, []string{"cafe", "wifi"}, got)
}

func TestNormalizeTags_PreservesInsertionOrder(t *testing.T) {
	got := domain.NormalizeTags([]string{"zoo", "bakery", "art"})
	assert.Equal(t, []string{"zoo", "bakery", "art"}, got)
}

func TestNormalizeTags_EmptyInput(t *testing.T) {
	assert.Empty(t, domain.NormalizeTags(nil))
}

func TestAssertOwner_Author(t *testing.T) {
	store := domain.Store{Slug: "blue-moon-cafe", AuthorID: "owner-1"}
	assert.NoError(t, domain.AssertOwner(store, "owner-1"))
}

func TestAssertOwner_OtherUser(t *testing.T) {
	store := domain.Store{Slug: "blue-moon-cafe", AuthorID: "owner-1"}
	assert.ErrorIs(t, domain.AssertOwner(store, "owner-2"), domain.ErrForbidden)
}

func TestAssertOwner_EmptyActingUser(t *testing.T) {
	store := domain.Store{Slug: "blue-moon-cafe", AuthorID: "owner-1"}
	assert.ErrorIs(t, domain.AssertOwner(store, ""), domain.ErrForbidden)
}
