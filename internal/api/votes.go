package api

import (
	"net/http"
	"time"

	"biblioruche/hive/internal/auth"
	"biblioruche/hive/internal/common"
	"biblioruche/hive/internal/constants"
	"biblioruche/hive/internal/logging"
	"biblioruche/hive/internal/models/dtos"

	"github.com/go-chi/chi/v5"
)

// CreateVotingSessionHandler handles POST /api/v1/admin/votes
func (h *Handlers) CreateVotingSessionHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		claims := auth.GetUserClaims(r.Context())

		var req dtos.VotingSessionCreateReq
		if err := decodeJSON(r, &req); err != nil {
			common.RespondError(w, initTime, err, "Corps de requête invalide", http.StatusBadRequest)
			return
		}

		session, err := h.deps.Services.Voting.CreateSession(r.Context(), claims.UserID(), &req)
		if err != nil {
			respondServiceError(w, initTime, err)
			return
		}

		common.RespondSuccess(w, initTime, "Vote créé", session, http.StatusCreated)
	}
}

// EditVotingSessionHandler handles PUT /api/v1/admin/votes/{session_id}
func (h *Handlers) EditVotingSessionHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		var req dtos.VotingSessionEditReq
		if err := decodeJSON(r, &req); err != nil {
			common.RespondError(w, initTime, err, "Corps de requête invalide", http.StatusBadRequest)
			return
		}

		session, err := h.deps.Services.Voting.EditSession(r.Context(), chi.URLParam(r, "session_id"), &req)
		if err != nil {
			respondServiceError(w, initTime, err)
			return
		}

		common.RespondSuccess(w, initTime, "Vote mis à jour", session)
	}
}

// CloseVotingSessionHandler handles POST /api/v1/admin/votes/{session_id}/close
func (h *Handlers) CloseVotingSessionHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		result, err := h.deps.Services.Voting.CloseSession(r.Context(), chi.URLParam(r, "session_id"))
		if err != nil {
			respondServiceError(w, initTime, err)
			return
		}

		common.RespondSuccess(w, initTime, "Vote clôturé", result)
	}
}

// GetVotingSessionHandler handles GET /api/v1/votes/{session_id}
func (h *Handlers) GetVotingSessionHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		viewerID, isAdmin := viewer(r)
		session, err := h.deps.Services.Voting.GetSession(r.Context(), chi.URLParam(r, "session_id"), viewerID, isAdmin)
		if err != nil {
			respondServiceError(w, initTime, err)
			return
		}

		common.RespondSuccess(w, initTime, "Vote récupéré", session)
	}
}

// ListVotingSessionsHandler handles GET /api/v1/votes?kind=&status=
func (h *Handlers) ListVotingSessionsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		kind := constants.MediaKind(r.URL.Query().Get("kind"))
		status := constants.VotingStatus(r.URL.Query().Get("status"))
		if status == "" {
			status = constants.VotingActive
		}

		viewerID, isAdmin := viewer(r)
		sessions, err := h.deps.Services.Voting.ListSessions(r.Context(), kind, status, viewerID, isAdmin)
		if err != nil {
			respondServiceError(w, initTime, err)
			return
		}

		common.RespondSuccess(w, initTime, "Votes récupérés", sessions)
	}
}

// SubmitBallotHandler handles POST /api/v1/votes/{session_id}/ballots
func (h *Handlers) SubmitBallotHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		claims := auth.GetUserClaims(r.Context())

		var req dtos.BallotSubmitReq
		if err := decodeJSON(r, &req); err != nil {
			common.RespondError(w, initTime, err, "Corps de requête invalide", http.StatusBadRequest)
			return
		}

		if err := h.deps.Services.Voting.SubmitBallot(r.Context(), claims.UserID(), chi.URLParam(r, "session_id"), req.OptionIDs); err != nil {
			respondServiceError(w, initTime, err)
			return
		}

		// Voting moves a badge counter. Never fail the vote for a badge problem.
		if _, err := h.deps.Services.Badges.EvaluateUser(r.Context(), claims.UserID()); err != nil {
			logging.Warn("Badge evaluation failed after vote", "user_id", claims.UserID(), "error", err)
		}

		common.RespondSuccess(w, initTime, "Bulletin enregistré", nil)
	}
}
