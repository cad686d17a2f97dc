package public

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/townlist/townlist-services/api/internal/catalog/domain"
	"github.com/townlist/townlist-services/api/internal/interfaces/http/common"
)

const readTimeout = 5 * time.Second

func (h *Handler) storeListHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), readTimeout)
		defer cancel()

		tag := strings.TrimSpace(r.URL.Query().Get("tag"))

		listing, err := h.catalog.ListByTag(ctx, tag)
		if err != nil {
			h.logger.Error().Err(err).Str("tag", tag).Msg("store listing failed")
			common.WriteError(h.logger, w, http.StatusInternalServerError, "could not load stores")
			return
		}

		common.WriteJSON(h.logger, w, http.StatusOK, tagListingResponse{
			Tag:    listing.Tag,
			Tags:   listing.Tags,
			Stores: buildStoreResponses(listing.Stores),
		})
	}
}

func (h *Handler) storeDetailHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), readTimeout)
		defer cancel()

		slug := strings.TrimSpace(chi.URLParam(r, "slug"))
		if slug == "" {
			common.WriteError(h.logger, w, http.StatusBadRequest, "store slug is required")
			return
		}

		store, err := h.catalog.FindBySlug(ctx, slug)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				common.WriteError(h.logger, w, http.StatusNotFound, "store not found")
				return
			}
			h.logger.Error().Err(err).Str("slug", slug).Msg("store detail fetch failed")
			common.WriteError(h.logger, w, http.StatusInternalServerError, "could not load store")
			return
		}

		common.WriteJSON(h.logger, w, http.StatusOK, buildStoreResponse(*store))
	}
}

func (h *Handler) tagListHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), readTimeout)
		defer cancel()

		tags, err := h.catalog.ListTags(ctx)
		if err != nil {
			h.logger.Error().Err(err).Msg("tag aggregation failed")
			common.WriteError(h.logger, w, http.StatusInternalServerError, "could not load tags")
			return
		}

		common.WriteJSON(h.logger, w, http.StatusOK, map[string]any{"tags": tags})
	}
}

func (h *Handler) searchHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), readTimeout)
		defer cancel()

		query := strings.TrimSpace(r.URL.Query().Get("q"))
		if query == "" {
			common.WriteError(h.logger, w, http.StatusBadRequest, "query parameter q is required")
			return
		}
		limit, _ := common.ParsePositiveInt(r.URL.Query().Get("limit"), 0)

		stores, err := h.catalog.SearchByText(ctx, query, limit)
		if err != nil {
			h.logger.Error().Err(err).Str("query", query).Msg("text search failed")
			common.WriteError(h.logger, w, http.StatusInternalServerError, "search failed")
			return
		}

		common.WriteJSON(h.logger, w, http.StatusOK, buildStoreResponses(stores))
	}
}

func (h *Handler) nearHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), readTimeout)
		defer cancel()

		query := r.URL.Query()
		lng, okLng := common.ParseCoordinate(query.Get("lng"))
		lat, okLat := common.ParseCoordinate(query.Get("lat"))
		if !okLng || !okLat {
			common.WriteError(h.logger, w, http.StatusBadRequest, "lng and lat query parameters are required")
			return
		}
		maxDistance, _ := common.ParsePositiveInt(query.Get("maxDistance"), 0)
		limit, _ := common.ParsePositiveInt(query.Get("limit"), 0)

		stores, err := h.catalog.FindNear(ctx, lng, lat, maxDistance, limit)
		if err != nil {
			if errors.Is(err, domain.ErrValidation) {
				common.WriteError(h.logger, w, http.StatusUnprocessableEntity, err.Error())
				return
			}
			h.logger.Error().Err(err).Float64("lng", lng).Float64("lat", lat).Msg("proximity search failed")
			common.WriteError(h.logger, w, http.StatusInternalServerError, "proximity search failed")
			return
		}

		common.WriteJSON(h.logger, w, http.StatusOK, buildStoreResponses(stores))
	}
}
