package api

import (
	"net/http"
	"time"

	"biblioruche/hive/internal/common"

	"github.com/go-chi/chi/v5"
)

// ListBadgesHandler handles GET /api/v1/badges
func (h *Handlers) ListBadgesHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		badges, err := h.deps.Services.Badges.Catalogue(r.Context())
		if err != nil {
			respondServiceError(w, initTime, err)
			return
		}

		common.RespondSuccess(w, initTime, "Badges récupérés", badges)
	}
}

// GetUserBadgesHandler handles GET /api/v1/users/{user_id}/badges
func (h *Handlers) GetUserBadgesHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		badges, err := h.deps.Services.Badges.ListForUser(r.Context(), chi.URLParam(r, "user_id"))
		if err != nil {
			respondServiceError(w, initTime, err)
			return
		}

		common.RespondSuccess(w, initTime, "Badges récupérés", badges)
	}
}
