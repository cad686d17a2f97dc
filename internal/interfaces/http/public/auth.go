package public

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"

	"github.com/townlist/townlist-services/api/internal/catalog/domain"
	"github.com/townlist/townlist-services/api/internal/interfaces/http/common"
)

const authTimeout = 10 * time.Second

type registerRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

func (r registerRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Name, validation.Required, validation.Length(1, 100)),
		validation.Field(&r.Password, validation.Required, validation.Length(8, 128)),
	)
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r loginRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Password, validation.Required),
	)
}

func (h *Handler) registerHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), authTimeout)
		defer cancel()

		var req registerRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			common.WriteError(h.logger, w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		if err := req.Validate(); err != nil {
			common.WriteError(h.logger, w, http.StatusUnprocessableEntity, err.Error())
			return
		}

		user, err := h.auth.Register(ctx, req.Email, req.Name, req.Password)
		if err != nil {
			if errors.Is(err, domain.ErrValidation) {
				common.WriteError(h.logger, w, http.StatusUnprocessableEntity, err.Error())
				return
			}
			h.logger.Error().Err(err).Msg("registration failed")
			common.WriteError(h.logger, w, http.StatusInternalServerError, "registration failed")
			return
		}

		token, err := h.auth.IssueToken(user)
		if err != nil {
			h.logger.Error().Err(err).Msg("token issuance failed")
			common.WriteError(h.logger, w, http.StatusInternalServerError, "registration failed")
			return
		}

		common.WriteJSON(h.logger, w, http.StatusCreated, authResponse{
			Token: token,
			User:  authorResponse{ID: user.ID, Name: user.Name},
		})
	}
}

func (h *Handler) loginHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), authTimeout)
		defer cancel()

		var req loginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			common.WriteError(h.logger, w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		if err := req.Validate(); err != nil {
			common.WriteError(h.logger, w, http.StatusUnprocessableEntity, err.Error())
			return
		}

		user, err := h.auth.Verify(ctx, req.Email, req.Password)
		if err != nil {
			if errors.Is(err, domain.ErrForbidden) {
				common.WriteError(h.logger, w, http.StatusUnauthorized, "invalid credentials")
				return
			}
			h.logger.Error().Err(err).Msg("login failed")
			common.WriteError(h.logger, w, http.StatusInternalServerError, "login failed")
			return
		}

		token, err := h.auth.IssueToken(user)
		if err != nil {
			h.logger.Error().Err(err).Msg("token issuance failed")
			common.WriteError(h.logger, w, http.StatusInternalServerError, "login failed")
			return
		}

		common.WriteJSON(h.logger, w, http.StatusOK, authResponse{
			Token: token,
			User:  authorResponse{ID: user.ID, Name: user.Name},
		})
	}
}

func (h *Handler) verifyHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := common.UserFromContext(r.Context())
		if !ok {
			common.WriteError(h.logger, w, http.StatusUnauthorized, "not authenticated")
			return
		}
		common.WriteJSON(h.logger, w, http.StatusOK, user)
	}
}
