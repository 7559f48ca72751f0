package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stockroomhq/stockroom/internal/analytics"
	"github.com/stockroomhq/stockroom/internal/auth"
	"github.com/stockroomhq/stockroom/internal/catalog"
	"github.com/stockroomhq/stockroom/internal/orders"
	"github.com/stockroomhq/stockroom/internal/store"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// writeServiceError maps service and store errors onto transport status
// codes. Not-found sentinels already collapse "absent" and "wrong tenant",
// so nothing here can leak cross-tenant existence. Unrecognized errors are
// logged server-side and surface as a generic 500.
func writeServiceError(r *http.Request, w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, store.ErrProductNotFound),
		errors.Is(err, store.ErrOrderNotFound),
		errors.Is(err, store.ErrOrganizationNotFound),
		errors.Is(err, store.ErrUserNotFound):
		writeError(w, http.StatusNotFound, "not found")

	case errors.Is(err, store.ErrOrganizationAlreadyExists),
		errors.Is(err, store.ErrEmailAlreadyExists):
		writeError(w, http.StatusConflict, err.Error())

	case errors.Is(err, orders.ErrInvalidQuantity),
		errors.Is(err, catalog.ErrNameRequired),
		errors.Is(err, catalog.ErrNegativePrice),
		errors.Is(err, catalog.ErrNegativeQuantity),
		errors.Is(err, analytics.ErrInvalidRange),
		errors.Is(err, auth.ErrEmailRequired),
		errors.Is(err, auth.ErrPasswordTooShort),
		errors.Is(err, auth.ErrOrganizationRequired):
		writeError(w, http.StatusBadRequest, err.Error())

	case errors.Is(err, auth.ErrInvalidCredentials),
		errors.Is(err, auth.ErrInvalidToken):
		writeError(w, http.StatusUnauthorized, "unauthorized")

	default:
		zerolog.Ctx(r.Context()).Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

// pathID parses the {id} path segment as a UUID.
func pathID(r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}
