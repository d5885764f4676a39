package api

import (
	"net/http"
	"time"

	"biblioruche/hive/internal/auth"
	"biblioruche/hive/internal/common"
	"biblioruche/hive/internal/models/dtos"

	"github.com/go-chi/chi/v5"
)

// SubmitReviewHandler handles POST /api/v1/proposals/{proposal_id}/reviews
func (h *Handlers) SubmitReviewHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		claims := auth.GetUserClaims(r.Context())

		var req dtos.ReviewSubmitReq
		if err := decodeJSON(r, &req); err != nil {
			common.RespondError(w, initTime, err, "Corps de requête invalide", http.StatusBadRequest)
			return
		}

		review, err := h.deps.Services.Reviews.Submit(r.Context(), claims.UserID(), chi.URLParam(r, "proposal_id"), &req)
		if err != nil {
			respondServiceError(w, initTime, err)
			return
		}

		common.RespondSuccess(w, initTime, "Avis enregistré", review, http.StatusCreated)
	}
}

// ListReviewsHandler handles GET /api/v1/proposals/{proposal_id}/reviews
func (h *Handlers) ListReviewsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		reviews, avg, err := h.deps.Services.Reviews.ListForProposal(r.Context(), chi.URLParam(r, "proposal_id"))
		if err != nil {
			respondServiceError(w, initTime, err)
			return
		}

		common.RespondSuccess(w, initTime, "Avis récupérés", map[string]any{
			"reviews":    reviews,
			"avg_rating": avg,
		})
	}
}

// ModerateReviewHandler handles PUT /api/v1/admin/reviews/{review_id}
func (h *Handlers) ModerateReviewHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		var req dtos.ReviewModerateReq
		if err := decodeJSON(r, &req); err != nil {
			common.RespondError(w, initTime, err, "Corps de requête invalide", http.StatusBadRequest)
			return
		}

		review, err := h.deps.Services.Reviews.Moderate(r.Context(), chi.URLParam(r, "review_id"), &req)
		if err != nil {
			respondServiceError(w, initTime, err)
			return
		}

		common.RespondSuccess(w, initTime, "Avis modéré", review)
	}
}
