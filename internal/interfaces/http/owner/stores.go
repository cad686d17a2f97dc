package owner

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/townlist/townlist-services/api/internal/catalog/application"
	"github.com/townlist/townlist-services/api/internal/interfaces/http/common"
)

const (
	// writeTimeout covers photo resize plus the content-area upload.
	writeTimeout = 30 * time.Second

	maxFormMemory = 10 << 20
	maxPhotoBytes = 10 << 20
)

func (h *Handler) storeCreateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), writeTimeout)
		defer cancel()

		user, ok := common.UserFromContext(r.Context())
		if !ok {
			common.WriteError(h.logger, w, http.StatusUnauthorized, "not authenticated")
			return
		}

		form, err := h.parseStoreForm(r)
		if err != nil {
			common.WriteError(h.logger, w, http.StatusBadRequest, err.Error())
			return
		}
		if err := form.Validate(); err != nil {
			common.WriteError(h.logger, w, http.StatusUnprocessableEntity, err.Error())
			return
		}

		cmd := application.CreateStoreCommand{
			Name:        form.Name,
			Description: form.Description,
			Address:     form.Address,
			Longitude:   form.Longitude,
			Latitude:    form.Latitude,
			Tags:        form.Tags,
		}
		if form.Photo != nil {
			cmd.Photo = &application.PhotoUpload{Data: form.Photo.Data, ContentType: form.Photo.ContentType}
		}

		store, err := h.catalog.Create(ctx, cmd, user.ID)
		if err != nil {
			status := common.StatusForError(err)
			if status == http.StatusInternalServerError {
				h.logger.Error().Err(err).Str("user", user.ID).Msg("store creation failed")
				common.WriteError(h.logger, w, status, "could not create store")
				return
			}
			common.WriteError(h.logger, w, status, err.Error())
			return
		}

		common.WriteJSON(h.logger, w, http.StatusCreated, buildStoreResponse(*store))
	}
}

func (h *Handler) storeUpdateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), writeTimeout)
		defer cancel()

		user, ok := common.UserFromContext(r.Context())
		if !ok {
			common.WriteError(h.logger, w, http.StatusUnauthorized, "not authenticated")
			return
		}

		id := strings.TrimSpace(chi.URLParam(r, "id"))
		if id == "" {
			common.WriteError(h.logger, w, http.StatusBadRequest, "store id is required")
			return
		}

		form, err := h.parseStoreForm(r)
		if err != nil {
			common.WriteError(h.logger, w, http.StatusBadRequest, err.Error())
			return
		}
		if err := form.Validate(); err != nil {
			common.WriteError(h.logger, w, http.StatusUnprocessableEntity, err.Error())
			return
		}

		cmd := application.UpdateStoreCommand{
			Name:        form.Name,
			Description: form.Description,
			Address:     form.Address,
			Longitude:   form.Longitude,
			Latitude:    form.Latitude,
			Tags:        form.Tags,
		}
		if form.Photo != nil {
			cmd.Photo = &application.PhotoUpload{Data: form.Photo.Data, ContentType: form.Photo.ContentType}
		}

		store, err := h.catalog.Update(ctx, id, user.ID, cmd)
		if err != nil {
			status := common.StatusForError(err)
			if status == http.StatusInternalServerError {
				h.logger.Error().Err(err).Str("user", user.ID).Str("store", id).Msg("store update failed")
				common.WriteError(h.logger, w, status, "could not update store")
				return
			}
			common.WriteError(h.logger, w, status, err.Error())
			return
		}

		common.WriteJSON(h.logger, w, http.StatusOK, buildStoreResponse(*store))
	}
}

// parseStoreForm reads the multipart form shared by create and update. The
// photo part is optional; its declared content type travels with the bytes
// so the pipeline can validate it.
func (h *Handler) parseStoreForm(r *http.Request) (*storeForm, error) {
	if err := r.ParseMultipartForm(maxFormMemory); err != nil {
		return nil, fmt.Errorf("invalid multipart form: %v", err)
	}

	lng, okLng := common.ParseCoordinate(r.FormValue("lng"))
	lat, okLat := common.ParseCoordinate(r.FormValue("lat"))
	if !okLng || !okLat {
		return nil, fmt.Errorf("lng and lat form values are required")
	}

	form := &storeForm{
		Name:        strings.TrimSpace(r.FormValue("name")),
		Description: strings.TrimSpace(r.FormValue("description")),
		Address:     strings.TrimSpace(r.FormValue("address")),
		Longitude:   lng,
		Latitude:    lat,
	}
	if r.MultipartForm != nil {
		form.Tags = common.SplitTags(r.MultipartForm.Value["tags"])
	}

	file, header, err := r.FormFile("photo")
	if err == http.ErrMissingFile {
		return form, nil
	}
	if err != nil {
		return nil, fmt.Errorf("invalid photo part: %v", err)
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxPhotoBytes+1))
	if err != nil {
		return nil, fmt.Errorf("could not read photo: %v", err)
	}
	if len(data) > maxPhotoBytes {
		return nil, fmt.Errorf("photo exceeds %dMB", maxPhotoBytes>>20)
	}

	form.Photo = &photoPart{
		Data:        data,
		ContentType: header.Header.Get("Content-Type"),
	}
	return form, nil
}
