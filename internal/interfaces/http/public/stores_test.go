package public_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/townlist/townlist-services/api/internal/catalog/application"
	"github.com/townlist/townlist-services/api/internal/catalog/domain"
	"github.com/townlist/townlist-services/api/internal/interfaces/http/common"
	"github.com/townlist/townlist-services/api/internal/interfaces/http/public"
)

type mockCatalog struct {
	create       func(ctx context.Context, cmd application.CreateStoreCommand, authorID string) (*domain.Store, error)
	update       func(ctx context.Context, id, authorID string, cmd application.UpdateStoreCommand) (*domain.Store, error)
	findBySlug   func(ctx context.Context, slug string) (*domain.Store, error)
	listByTag    func(ctx context.Context, tag string) (*application.TagListing, error)
	searchByText func(ctx context.Context, query string, limit int) ([]domain.Store, error)
	findNear     func(ctx context.Context, lng, lat float64, maxDistanceMeters, limit int) ([]domain.Store, error)
	listTags     func(ctx context.Context) ([]domain.TagCount, error)
}

var _ application.CatalogService = (*mockCatalog)(nil)

func (m *mockCatalog) Create(ctx context.Context, cmd application.CreateStoreCommand, authorID string) (*domain.Store, error) {
	return m.create(ctx, cmd, authorID)
}

func (m *mockCatalog) Update(ctx context.Context, id, authorID string, cmd application.UpdateStoreCommand) (*domain.Store, error) {
	return m.update(ctx, id, authorID, cmd)
}

func (m *mockCatalog) FindBySlug(ctx context.Context, slug string) (*domain.Store, error) {
	return m.findBySlug(ctx, slug)
}

func (m *mockCatalog) ListByTag(ctx context.Context, tag string) (*application.TagListing, error) {
	return m.listByTag(ctx, tag)
}

func (m *mockCatalog) SearchByText(ctx context.Context, query string, limit int) ([]domain.Store, error) {
	return m.searchByText(ctx, query, limit)
}

func (m *mockCatalog) FindNear(ctx context.Context, lng, lat float64, maxDistanceMeters, limit int) ([]domain.Store, error) {
	return m.findNear(ctx, lng, lat, maxDistanceMeters, limit)
}

func (m *mockCatalog) ListTags(ctx context.Context) ([]domain.TagCount, error) {
	return m.listTags(ctx)
}

func passthrough(next http.Handler) http.Handler { return next }

func newRouter(catalog application.CatalogService) http.Handler {
	router := chi.NewRouter()
	handler := public.NewHandler(public.Config{Logger: zerolog.Nop(), Catalog: catalog})
	handler.Register(router, passthrough)
	return router
}

func doGet(router http.Handler, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestStoreList_RendersTagListing(t *testing.T) {
	catalog := &mockCatalog{
		listByTag: func(_ context.Context, tag string) (*application.TagListing, error) {
			assert.Equal(t, "cafe", tag)
			return &application.TagListing{
				Tag:    tag,
				Tags:   []domain.TagCount{{Tag: "cafe", Count: 2}, {Tag: "music", Count: 1}},
				Stores: []domain.Store{{Slug: "blue-moon-cafe", Name: "Blue Moon Cafe", Photo: "store.png"}},
			}, nil
		},
	}
	router := newRouter(catalog)

	rec := doGet(router, "/stores?tag=cafe")

	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Tag    string `json:"tag"`
		Tags   []domain.TagCount
		Stores []struct {
			Slug string `json:"slug"`
		}
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "cafe", resp.Tag)
	assert.Len(t, resp.Tags, 2)
	require.Len(t, resp.Stores, 1)
	assert.Equal(t, "blue-moon-cafe", resp.Stores[0].Slug)
}

func TestStoreList_NoTagStillSucceeds(t *testing.T) {
	catalog := &mockCatalog{
		listByTag: func(_ context.Context, tag string) (*application.TagListing, error) {
			assert.Equal(t, "", tag)
			return &application.TagListing{Tags: []domain.TagCount{}, Stores: []domain.Store{}}, nil
		},
	}
	router := newRouter(catalog)

	rec := doGet(router, "/stores")

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestStoreDetail_IncludesAuthor(t *testing.T) {
	catalog := &mockCatalog{
		findBySlug: func(_ context.Context, slug string) (*domain.Store, error) {
			return &domain.Store{
				Slug:   slug,
				Name:   "Blue Moon Cafe",
				Photo:  "store.png",
				Author: &domain.User{ID: "owner-1", Name: "Demo Owner"},
			}, nil
		},
	}
	router := newRouter(catalog)

	rec := doGet(router, "/stores/blue-moon-cafe")

	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Slug   string `json:"slug"`
		Author *struct {
			ID   string `json:"id"`
			Name string `json:"name"`
		} `json:"author"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "blue-moon-cafe", resp.Slug)
	require.NotNil(t, resp.Author)
	assert.Equal(t, "Demo Owner", resp.Author.Name)
}

func TestStoreDetail_NotFound(t *testing.T) {
	catalog := &mockCatalog{
		findBySlug: func(context.Context, string) (*domain.Store, error) {
			return nil, domain.ErrNotFound
		},
	}
	router := newRouter(catalog)

	rec := doGet(router, "/stores/missing")

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestTagList_OK(t *testing.T) {
	catalog := &mockCatalog{
		listTags: func(context.Context) ([]domain.TagCount, error) {
			return []domain.TagCount{{Tag: "cafe", Count: 3}}, nil
		},
	}
	router := newRouter(catalog)

	rec := doGet(router, "/tags")

	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Tags []domain.TagCount `json:"tags"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Tags, 1)
	assert.Equal(t, "cafe", resp.Tags[0].Tag)
	assert.Equal(t, 3, resp.Tags[0].Count)
}

func TestSearch_RequiresQuery(t *testing.T) {
	router := newRouter(&mockCatalog{})

	rec := doGet(router, "/api/search")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSearch_PassesQueryAndLimit(t *testing.T) {
	catalog := &mockCatalog{
		searchByText: func(_ context.Context, query string, limit int) ([]domain.Store, error) {
			assert.Equal(t, "coffee", query)
			assert.Equal(t, 3, limit)
			return []domain.Store{{Slug: "blue-moon-cafe"}}, nil
		},
	}
	router := newRouter(catalog)

	rec := doGet(router, "/api/search?q=coffee&limit=3")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "blue-moon-cafe"))
}

func TestSearch_InvalidLimitFallsBackToServiceDefault(t *testing.T) {
	catalog := &mockCatalog{
		searchByText: func(_ context.Context, _ string, limit int) ([]domain.Store, error) {
			assert.Equal(t, 0, limit)
			return []domain.Store{}, nil
		},
	}
	router := newRouter(catalog)

	rec := doGet(router, "/api/search?q=coffee&limit=-4")

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestNear_RequiresCoordinates(t *testing.T) {
	router := newRouter(&mockCatalog{})

	rec := doGet(router, "/api/stores/near?lng=-0.12")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestNear_PassesParameters(t *testing.T) {
	catalog := &mockCatalog{
		findNear: func(_ context.Context, lng, lat float64, maxDistanceMeters, limit int) ([]domain.Store, error) {
			assert.Equal(t, -0.12, lng)
			assert.Equal(t, 51.5, lat)
			assert.Equal(t, 2500, maxDistanceMeters)
			assert.Equal(t, 4, limit)
			return []domain.Store{}, nil
		},
	}
	router := newRouter(catalog)

	rec := doGet(router, "/api/stores/near?lng=-0.12&lat=51.5&maxDistance=2500&limit=4")

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestNear_ValidationErrorUnprocessable(t *testing.T) {
	catalog := &mockCatalog{
		findNear: func(context.Context, float64, float64, int, int) ([]domain.Store, error) {
			return nil, domain.ErrValidation
		},
	}
	router := newRouter(catalog)

	rec := doGet(router, "/api/stores/near?lng=200&lat=51.5")

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestVerify_EchoesContextUser(t *testing.T) {
	router := chi.NewRouter()
	handler := public.NewHandler(public.Config{Logger: zerolog.Nop(), Catalog: &mockCatalog{}})
	handler.Register(router, func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := common.ContextWithUser(r.Context(), common.AuthenticatedUser{
				ID:    "owner-1",
				Name:  "Demo Owner",
				Email: "demo@townlist.dev",
			})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	})

	rec := doGet(router, "/auth/verify")

	require.Equal(t, http.StatusOK, rec.Code)
	var resp common.AuthenticatedUser
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "owner-1", resp.ID)
	assert.Equal(t, "demo@townlist.dev", resp.Email)
}
