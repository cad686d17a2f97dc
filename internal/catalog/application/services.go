package application

import (
	"context"

	"github.com/townlist/townlist-services/api/internal/catalog/domain"
)

// StoreRepository is the persistence port for the store collection.
// Insert must report a slug uniqueness violation as domain.ErrSlugTaken so
// the service's collision retry loop can react; FindByID, FindBySlug and
// Update report missing records as domain.ErrNotFound.
type StoreRepository interface {
	Insert(ctx context.Context, store *domain.Store) error
	Update(ctx context.Context, id string, patch StorePatch) (*domain.Store, error)
	FindByID(ctx context.Context, id string) (*domain.Store, error)
	FindBySlug(ctx context.Context, slug string) (*domain.Store, error)
	// FindByTag returns the stores carrying the given tag; an empty tag
	// matches every store regardless of tags.
	FindByTag(ctx context.Context, tag string) ([]domain.Store, error)
	// SearchText ranks stores against the weighted name+description text
	// index and returns at most limit results, best match first.
	SearchText(ctx context.Context, query string, limit int) ([]domain.Store, error)
	// FindNear returns stores within maxDistanceMeters of the point,
	// nearest first, projected down to slug/name/description/location/photo.
	FindNear(ctx context.Context, lng, lat float64, maxDistanceMeters, limit int) ([]domain.Store, error)
	// TagCounts aggregates the distinct tags in use across the whole
	// catalog with the number of stores carrying each.
	TagCounts(ctx context.Context) ([]domain.TagCount, error)
}

// UserRepository is the persistence port for registered owners.
// Insert reports an email uniqueness violation as domain.ErrEmailTaken.
type UserRepository interface {
	Insert(ctx context.Context, user *domain.User) error
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
}

// PhotoIngestor validates, resizes and durably stores an uploaded photo,
// returning the generated filename to embed in the store record.
type PhotoIngestor interface {
	Ingest(ctx context.Context, data []byte, declaredMimeType string) (string, error)
}

// PhotoUpload carries the raw bytes of a photo part together with the
// client-declared content type.
type PhotoUpload struct {
	Data        []byte
	ContentType string
}

// CreateStoreCommand collects the validated input for a new listing.
type CreateStoreCommand struct {
	Name        string
	Description string
	Address     string
	Longitude   float64
	Latitude    float64
	Tags        []string
	Photo       *PhotoUpload
}

// UpdateStoreCommand carries the mutable fields of an edit. Slug and author
// are deliberately absent: they are immutable after creation.
type UpdateStoreCommand struct {
	Name        string
	Description string
	Address     string
	Longitude   float64
	Latitude    float64
	Tags        []string
	Photo       *PhotoUpload
}

// StorePatch is the set of fields the repository applies on update.
// Photo is only written when a new upload replaced it.
type StorePatch struct {
	Name        string
	Description string
	Location    domain.GeoPoint
	Tags        []string
	Photo       *string
}

// TagListing pairs the stores matching one tag filter with the catalog-wide
// tag counts. The counts are always global, even when Tag is set; the tag
// page renders the full facet list next to the filtered stores.
type TagListing struct {
	Tag    string
	Tags   []domain.TagCount
	Stores []domain.Store
}

// CatalogService is the aggregate root of the store catalog: owner-scoped
// writes plus the search, proximity and tag-facet reads.
type CatalogService interface {
	Create(ctx context.Context, cmd CreateStoreCommand, authorID string) (*domain.Store, error)
	Update(ctx context.Context, id, authorID string, cmd UpdateStoreCommand) (*domain.Store, error)
	FindBySlug(ctx context.Context, slug string) (*domain.Store, error)
	ListByTag(ctx context.Context, tag string) (*TagListing, error)
	SearchByText(ctx context.Context, query string, limit int) ([]domain.Store, error)
	FindNear(ctx context.Context, lng, lat float64, maxDistanceMeters, limit int) ([]domain.Store, error)
	ListTags(ctx context.Context) ([]domain.TagCount, error)
}
