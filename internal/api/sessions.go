package api

import (
	"net/http"
	"time"

	"biblioruche/hive/internal/auth"
	"biblioruche/hive/internal/common"
	"biblioruche/hive/internal/constants"
	"biblioruche/hive/internal/models/dtos"

	"github.com/go-chi/chi/v5"
)

// CreateClubSessionHandler handles POST /api/v1/admin/sessions
func (h *Handlers) CreateClubSessionHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		claims := auth.GetUserClaims(r.Context())

		var req dtos.ClubSessionCreateReq
		if err := decodeJSON(r, &req); err != nil {
			common.RespondError(w, initTime, err, "Corps de requête invalide", http.StatusBadRequest)
			return
		}

		session, err := h.deps.Services.ClubSessions.Create(r.Context(), claims.UserID(), &req)
		if err != nil {
			respondServiceError(w, initTime, err)
			return
		}

		common.RespondSuccess(w, initTime, "Séance créée", session, http.StatusCreated)
	}
}

// EditClubSessionHandler handles PUT /api/v1/admin/sessions/{session_id}
func (h *Handlers) EditClubSessionHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		var req dtos.ClubSessionEditReq
		if err := decodeJSON(r, &req); err != nil {
			common.RespondError(w, initTime, err, "Corps de requête invalide", http.StatusBadRequest)
			return
		}

		session, err := h.deps.Services.ClubSessions.Edit(r.Context(), chi.URLParam(r, "session_id"), &req)
		if err != nil {
			respondServiceError(w, initTime, err)
			return
		}

		common.RespondSuccess(w, initTime, "Séance mise à jour", session)
	}
}

// ArchiveClubSessionHandler handles POST /api/v1/admin/sessions/{session_id}/archive
func (h *Handlers) ArchiveClubSessionHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		if err := h.deps.Services.ClubSessions.Archive(r.Context(), chi.URLParam(r, "session_id")); err != nil {
			respondServiceError(w, initTime, err)
			return
		}

		common.RespondSuccess(w, initTime, "Séance archivée", nil)
	}
}

// StartClubSessionHandler handles POST /api/v1/admin/sessions/{session_id}/start
func (h *Handlers) StartClubSessionHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		session, err := h.deps.Services.ClubSessions.Start(r.Context(), chi.URLParam(r, "session_id"))
		if err != nil {
			respondServiceError(w, initTime, err)
			return
		}

		common.RespondSuccess(w, initTime, "Séance démarrée", session)
	}
}

// CompleteClubSessionHandler handles POST /api/v1/admin/sessions/{session_id}/complete
func (h *Handlers) CompleteClubSessionHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		session, err := h.deps.Services.ClubSessions.Complete(r.Context(), chi.URLParam(r, "session_id"))
		if err != nil {
			respondServiceError(w, initTime, err)
			return
		}

		common.RespondSuccess(w, initTime, "Séance terminée", session)
	}
}

// DeleteClubSessionHandler handles DELETE /api/v1/admin/sessions/{session_id}
func (h *Handlers) DeleteClubSessionHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		if err := h.deps.Services.ClubSessions.Delete(r.Context(), chi.URLParam(r, "session_id")); err != nil {
			respondServiceError(w, initTime, err)
			return
		}

		common.RespondSuccess(w, initTime, "Séance supprimée", nil)
	}
}

// RefreshSessionStatusesHandler handles POST /api/v1/admin/sessions/refresh
func (h *Handlers) RefreshSessionStatusesHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		changed, err := h.deps.Services.ClubSessions.RefreshStatuses(r.Context())
		if err != nil {
			respondServiceError(w, initTime, err)
			return
		}

		common.RespondSuccess(w, initTime, "Statuts recalculés", map[string]int{"changed": changed})
	}
}

// GetClubSessionHandler handles GET /api/v1/sessions/{session_id}
func (h *Handlers) GetClubSessionHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		viewerID, _ := viewer(r)
		session, err := h.deps.Services.ClubSessions.Get(r.Context(), chi.URLParam(r, "session_id"), viewerID)
		if err != nil {
			respondServiceError(w, initTime, err)
			return
		}

		common.RespondSuccess(w, initTime, "Séance récupérée", session)
	}
}

// ListClubSessionsHandler handles GET /api/v1/sessions?kind=&status=
func (h *Handlers) ListClubSessionsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		kind := constants.MediaKind(r.URL.Query().Get("kind"))
		status := r.URL.Query().Get("status")

		viewerID, _ := viewer(r)
		sessions, err := h.deps.Services.ClubSessions.List(r.Context(), kind, status, viewerID)
		if err != nil {
			respondServiceError(w, initTime, err)
			return
		}

		common.RespondSuccess(w, initTime, "Séances récupérées", sessions)
	}
}

// RegisterParticipationHandler handles POST /api/v1/sessions/{session_id}/register
func (h *Handlers) RegisterParticipationHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		claims := auth.GetUserClaims(r.Context())

		if err := h.deps.Services.ClubSessions.Register(r.Context(), chi.URLParam(r, "session_id"), claims.UserID()); err != nil {
			respondServiceError(w, initTime, err)
			return
		}

		common.RespondSuccess(w, initTime, "Inscription enregistrée", nil)
	}
}

// UnregisterParticipationHandler handles DELETE /api/v1/sessions/{session_id}/register
func (h *Handlers) UnregisterParticipationHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		claims := auth.GetUserClaims(r.Context())

		if err := h.deps.Services.ClubSessions.Unregister(r.Context(), chi.URLParam(r, "session_id"), claims.UserID()); err != nil {
			respondServiceError(w, initTime, err)
			return
		}

		common.RespondSuccess(w, initTime, "Désinscription enregistrée", nil)
	}
}
