// Package owner exposes the authenticated mutation endpoints of the catalog.
// Every route runs behind the bearer middleware; the acting user's ID is
// taken from the request context, never from the payload.
package owner

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/townlist/townlist-services/api/internal/catalog/application"
)

// Handler wires owner HTTP endpoints to the catalog service.
type Handler struct {
	logger  zerolog.Logger
	catalog application.CatalogService
}

// Config defines dependencies required by Handler.
type Config struct {
	Logger  zerolog.Logger
	Catalog application.CatalogService
}

// NewHandler constructs an owner HTTP handler set.
func NewHandler(cfg Config) *Handler {
	return &Handler{logger: cfg.Logger, catalog: cfg.Catalog}
}

// Register mounts the mutation routes behind the auth middleware.
func (h *Handler) Register(r chi.Router, authMiddleware func(http.Handler) http.Handler) {
	r.With(authMiddleware).Post("/stores", h.storeCreateHandler())
	r.With(authMiddleware).Patch("/stores/{id}", h.storeUpdateHandler())
}
