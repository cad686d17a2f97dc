package common

import (
	"errors"
	"net/http"

	"github.com/townlist/townlist-services/api/internal/catalog/domain"
)

// StatusForError maps catalog domain errors to HTTP status codes.
// Forbidden is deliberately distinct from NotFound so owners get an
// actionable message instead of a 404.
func StatusForError(err error) int {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrInvalidMediaType):
		return http.StatusUnsupportedMediaType
	case errors.Is(err, domain.ErrDecode):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}
