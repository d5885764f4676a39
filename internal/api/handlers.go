package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"biblioruche/hive/internal/auth"
	"biblioruche/hive/internal/common"
	"biblioruche/hive/internal/constants"
	"biblioruche/hive/internal/services"
)

type Handlers struct {
	deps *Dependencies
}

// NewHandlers creates a new handlers instance with injected dependencies
func NewHandlers(deps *Dependencies) *Handlers {
	return &Handlers{
		deps: deps,
	}
}

// decodeJSON decodes a request body into dst, rejecting unknown fields
func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

// viewer extracts the optional claims from the request context
func viewer(r *http.Request) (userID string, isAdmin bool) {
	if claims := auth.GetUserClaims(r.Context()); claims != nil {
		return claims.UserID(), claims.IsAdmin()
	}
	return "", false
}

// respondServiceError maps service errors to HTTP statuses
func respondServiceError(w http.ResponseWriter, initTime time.Time, err error) {
	switch {
	case errors.Is(err, services.ErrNotFound):
		common.RespondError(w, initTime, err, constants.ErrMsgNotFound, http.StatusNotFound)
	case errors.Is(err, services.ErrInvalidInput):
		common.RespondError(w, initTime, err, "Requête invalide", http.StatusBadRequest)
	case errors.Is(err, services.ErrForbidden):
		common.RespondError(w, initTime, err, constants.ErrMsgForbidden, http.StatusForbidden)
	case errors.Is(err, services.ErrVoteClosed),
		errors.Is(err, services.ErrVoteExpired),
		errors.Is(err, services.ErrAlreadyRegistered),
		errors.Is(err, services.ErrNotRegistered),
		errors.Is(err, services.ErrNotReviewable),
		errors.Is(err, services.ErrSelfAdminToggle):
		common.RespondError(w, initTime, err, err.Error(), http.StatusConflict)
	case errors.Is(err, services.ErrLookupUnavailable):
		common.RespondError(w, initTime, err, constants.ErrMsgLookupUnavailable, http.StatusBadGateway)
	default:
		common.RespondError(w, initTime, err, "Erreur interne", http.StatusInternalServerError)
	}
}
