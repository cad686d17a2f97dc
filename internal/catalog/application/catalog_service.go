package application

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/townlist/townlist-services/api/internal/catalog/domain"
)

const (
	// maxSlugAttempts bounds the collision retry loop so adversarial name
	// collisions cannot spin forever against the unique index.
	maxSlugAttempts = 10

	defaultSearchLimit  = 5
	defaultNearDistance = 10000
	defaultNearLimit    = 10
)

// catalogService implements CatalogService.
type catalogService struct {
	stores StoreRepository
	users  UserRepository
	photos PhotoIngestor
}

// NewCatalogService constructs the catalog aggregate over its ports.
func NewCatalogService(stores StoreRepository, users UserRepository, photos PhotoIngestor) CatalogService {
	return &catalogService{stores: stores, users: users, photos: photos}
}

// Create ingests the photo first (so a cancelled upload never leaves a store
// pointing at a missing file), then inserts under a derived slug, retrying
// with -2, -3, … suffixes on uniqueness violations from the store.
func (s *catalogService) Create(ctx context.Context, cmd CreateStoreCommand, authorID string) (*domain.Store, error) {
	name := strings.TrimSpace(cmd.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", domain.ErrValidation)
	}
	if strings.TrimSpace(authorID) == "" {
		return nil, fmt.Errorf("%w: author is required", domain.ErrValidation)
	}
	location, err := domain.NewGeoPoint(cmd.Longitude, cmd.Latitude, cmd.Address)
	if err != nil {
		return nil, err
	}
	base := domain.Slugify(name)
	if base == "" {
		return nil, fmt.Errorf("%w: name %q yields an empty slug", domain.ErrValidation, name)
	}

	photo := domain.PhotoPlaceholder
	if cmd.Photo != nil {
		photo, err = s.photos.Ingest(ctx, cmd.Photo.Data, cmd.Photo.ContentType)
		if err != nil {
			return nil, err
		}
	}

	now := time.Now().UTC()
	store := &domain.Store{
		Name:        name,
		Slug:        base,
		Description: strings.TrimSpace(cmd.Description),
		Tags:        domain.NormalizeTags(cmd.Tags),
		Location:    location,
		Photo:       photo,
		AuthorID:    authorID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	for attempt := 2; ; attempt++ {
		err := s.stores.Insert(ctx, store)
		if err == nil {
			return store, nil
		}
		if !errors.Is(err, domain.ErrSlugTaken) {
			return nil, fmt.Errorf("%w: %v", domain.ErrPersistence, err)
		}
		if attempt > maxSlugAttempts {
			return nil, fmt.Errorf("%w: slug %q still contested after %d attempts", domain.ErrPersistence, base, maxSlugAttempts)
		}
		store.Slug = fmt.Sprintf("%s-%d", base, attempt)
	}
}

// Update loads the record, checks ownership and applies only the mutable
// fields. The slug is never re-derived: an edited name keeps its URL.
func (s *catalogService) Update(ctx context.Context, id, authorID string, cmd UpdateStoreCommand) (*domain.Store, error) {
	existing, err := s.stores.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := domain.AssertOwner(*existing, authorID); err != nil {
		return nil, err
	}

	name := strings.TrimSpace(cmd.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", domain.ErrValidation)
	}
	location, err := domain.NewGeoPoint(cmd.Longitude, cmd.Latitude, cmd.Address)
	if err != nil {
		return nil, err
	}

	patch := StorePatch{
		Name:        name,
		Description: strings.TrimSpace(cmd.Description),
		Location:    location,
		Tags:        domain.NormalizeTags(cmd.Tags),
	}
	if cmd.Photo != nil {
		filename, err := s.photos.Ingest(ctx, cmd.Photo.Data, cmd.Photo.ContentType)
		if err != nil {
			return nil, err
		}
		patch.Photo = &filename
	}

	return s.stores.Update(ctx, id, patch)
}

// FindBySlug fetches one store and eagerly resolves its author for rendering.
// A dangling author reference leaves Author nil rather than failing the page.
func (s *catalogService) FindBySlug(ctx context.Context, slug string) (*domain.Store, error) {
	store, err := s.stores.FindBySlug(ctx, strings.TrimSpace(slug))
	if err != nil {
		return nil, err
	}
	author, err := s.users.FindByID(ctx, store.AuthorID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}
	store.Author = author
	return store, nil
}

// ListByTag fetches the filtered stores and the catalog-wide tag counts
// concurrently. The counts deliberately ignore the filter: the tag page
// shows the full facet list regardless of which tag is selected.
func (s *catalogService) ListByTag(ctx context.Context, tag string) (*TagListing, error) {
	tag = strings.TrimSpace(tag)

	var (
		tags   []domain.TagCount
		stores []domain.Store
	)
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		tags, err = s.stores.TagCounts(ctx)
		return err
	})
	g.Go(func() error {
		var err error
		stores, err = s.stores.FindByTag(ctx, tag)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &TagListing{Tag: tag, Tags: tags, Stores: stores}, nil
}

func (s *catalogService) SearchByText(ctx context.Context, query string, limit int) ([]domain.Store, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []domain.Store{}, nil
	}
	if limit <= 0 {
		limit = defaultSearchLimit
	}
	return s.stores.SearchText(ctx, query, limit)
}

func (s *catalogService) FindNear(ctx context.Context, lng, lat float64, maxDistanceMeters, limit int) ([]domain.Store, error) {
	if _, err := domain.NewGeoPoint(lng, lat, ""); err != nil {
		return nil, err
	}
	if maxDistanceMeters <= 0 {
		maxDistanceMeters = defaultNearDistance
	}
	if limit <= 0 {
		limit = defaultNearLimit
	}
	return s.stores.FindNear(ctx, lng, lat, maxDistanceMeters, limit)
}

func (s *catalogService) ListTags(ctx context.Context) ([]domain.TagCount, error) {
	return s.stores.TagCounts(ctx)
}
