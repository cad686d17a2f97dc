package public

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/townlist/townlist-services/api/internal/auth"
	"github.com/townlist/townlist-services/api/internal/catalog/application"
)

// Handler wires public HTTP endpoints to the catalog and auth services.
type Handler struct {
	logger  zerolog.Logger
	catalog application.CatalogService
	auth    *auth.Service
}

// Config defines dependencies required by Handler.
type Config struct {
	Logger  zerolog.Logger
	Catalog application.CatalogService
	Auth    *auth.Service
}

// NewHandler constructs a public HTTP handler set.
func NewHandler(cfg Config) *Handler {
	return &Handler{
		logger:  cfg.Logger,
		catalog: cfg.Catalog,
		auth:    cfg.Auth,
	}
}

// Register mounts all public routes onto the router.
func (h *Handler) Register(r chi.Router, authMiddleware func(http.Handler) http.Handler) {
	r.Get("/stores", h.storeListHandler())
	r.Get("/stores/{slug}", h.storeDetailHandler())
	r.Get("/tags", h.tagListHandler())
	r.Get("/api/search", h.searchHandler())
	r.Get("/api/stores/near", h.nearHandler())
	r.Post("/auth/register", h.registerHandler())
	r.Post("/auth/login", h.loginHandler())
	r.With(authMiddleware).Get("/auth/verify", h.verifyHandler())
}
