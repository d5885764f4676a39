package api

import (
	"net/http"
	"time"

	"biblioruche/hive/internal/auth"
	"biblioruche/hive/internal/common"
	"biblioruche/hive/internal/models/dtos"

	"github.com/go-chi/chi/v5"
)

// GetUserProfileHandler handles GET /api/v1/users/{user_id}
func (h *Handlers) GetUserProfileHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		profile, err := h.deps.Services.Users.Profile(r.Context(), chi.URLParam(r, "user_id"))
		if err != nil {
			respondServiceError(w, initTime, err)
			return
		}

		common.RespondSuccess(w, initTime, "Profil récupéré", profile)
	}
}

// ListUsersHandler handles GET /api/v1/admin/users
func (h *Handlers) ListUsersHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		users, err := h.deps.Services.Users.ListAll(r.Context())
		if err != nil {
			respondServiceError(w, initTime, err)
			return
		}

		common.RespondSuccess(w, initTime, "Membres récupérés", users)
	}
}

type setAdminReq struct {
	IsAdmin bool `json:"is_admin"`
}

// SetAdminHandler handles PUT /api/v1/admin/users/{user_id}/admin
func (h *Handlers) SetAdminHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		claims := auth.GetUserClaims(r.Context())

		var req setAdminReq
		if err := decodeJSON(r, &req); err != nil {
			common.RespondError(w, initTime, err, "Corps de requête invalide", http.StatusBadRequest)
			return
		}

		if err := h.deps.Services.Users.SetAdmin(r.Context(), claims.UserID(), chi.URLParam(r, "user_id"), req.IsAdmin); err != nil {
			respondServiceError(w, initTime, err)
			return
		}

		common.RespondSuccess(w, initTime, "Droits mis à jour", nil)
	}
}

// GetUserReviewsHandler handles GET /api/v1/users/{user_id}/reviews
func (h *Handlers) GetUserReviewsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		targetID := chi.URLParam(r, "user_id")
		viewerID, isAdmin := viewer(r)

		reviews, err := h.deps.Services.Reviews.ListForUser(r.Context(), targetID)
		if err != nil {
			respondServiceError(w, initTime, err)
			return
		}

		// Hidden reviews only show up for their author and admins.
		if targetID != viewerID && !isAdmin {
			visible := make([]dtos.ReviewResponse, 0, len(reviews))
			for _, review := range reviews {
				if review.IsVisible {
					visible = append(visible, review)
				}
			}
			reviews = visible
		}

		common.RespondSuccess(w, initTime, "Avis récupérés", reviews)
	}
}
