package api

import (
	"net/http"
	"strconv"
	"time"

	"biblioruche/hive/internal/auth"
	"biblioruche/hive/internal/common"
	"biblioruche/hive/internal/constants"
	"biblioruche/hive/internal/models/dtos"

	"github.com/go-chi/chi/v5"
)

// SubmitProposalHandler handles POST /api/v1/proposals
func (h *Handlers) SubmitProposalHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		claims := auth.GetUserClaims(r.Context())

		var req dtos.ProposalSubmitReq
		if err := decodeJSON(r, &req); err != nil {
			common.RespondError(w, initTime, err, "Corps de requête invalide", http.StatusBadRequest)
			return
		}

		proposal, err := h.deps.Services.Proposals.Submit(r.Context(), claims.UserID(), &req)
		if err != nil {
			respondServiceError(w, initTime, err)
			return
		}

		common.RespondSuccess(w, initTime, "Proposition enregistrée", proposal, http.StatusCreated)
	}
}

// EditProposalHandler handles PUT /api/v1/proposals/{proposal_id}
func (h *Handlers) EditProposalHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		claims := auth.GetUserClaims(r.Context())

		var req dtos.ProposalEditReq
		if err := decodeJSON(r, &req); err != nil {
			common.RespondError(w, initTime, err, "Corps de requête invalide", http.StatusBadRequest)
			return
		}

		proposal, err := h.deps.Services.Proposals.Edit(r.Context(), claims.UserID(), claims.IsAdmin(), chi.URLParam(r, "proposal_id"), &req)
		if err != nil {
			respondServiceError(w, initTime, err)
			return
		}

		common.RespondSuccess(w, initTime, "Proposition mise à jour", proposal)
	}
}

// ListProposalsHandler handles GET /api/v1/proposals?kind=&status=&page=
func (h *Handlers) ListProposalsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		kind := constants.MediaKind(r.URL.Query().Get("kind"))
		status := r.URL.Query().Get("status")
		page := queryInt(r, "page", 1)
		perPage := queryInt(r, "per_page", 20)

		list, err := h.deps.Services.Proposals.List(r.Context(), kind, status, page, perPage)
		if err != nil {
			respondServiceError(w, initTime, err)
			return
		}

		common.RespondSuccess(w, initTime, "Propositions récupérées", list)
	}
}

// GetProposalHandler handles GET /api/v1/proposals/{proposal_id}
func (h *Handlers) GetProposalHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		proposal, err := h.deps.Services.Proposals.Get(r.Context(), chi.URLParam(r, "proposal_id"))
		if err != nil {
			respondServiceError(w, initTime, err)
			return
		}

		common.RespondSuccess(w, initTime, "Proposition récupérée", proposal)
	}
}

// ModerateProposalHandler handles POST /api/v1/admin/proposals/{proposal_id}/{action}
func (h *Handlers) ModerateProposalHandler(approve bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		proposal, err := h.deps.Services.Proposals.Moderate(r.Context(), chi.URLParam(r, "proposal_id"), approve)
		if err != nil {
			respondServiceError(w, initTime, err)
			return
		}

		message := "Proposition rejetée"
		if approve {
			message = "Proposition acceptée"
		}
		common.RespondSuccess(w, initTime, message, proposal)
	}
}

// BulkModerateProposalsHandler handles POST /api/v1/admin/proposals/bulk
func (h *Handlers) BulkModerateProposalsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		var req dtos.BulkProposalReq
		if err := decodeJSON(r, &req); err != nil {
			common.RespondError(w, initTime, err, "Corps de requête invalide", http.StatusBadRequest)
			return
		}

		result, err := h.deps.Services.Proposals.BulkModerate(r.Context(), &req)
		if err != nil {
			respondServiceError(w, initTime, err)
			return
		}

		common.RespondSuccess(w, initTime, "Traitement en masse terminé", result)
	}
}

func queryInt(r *http.Request, key string, fallback int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return fallback
	}
	return n
}
