package api

import (
	"net/http"
	"time"

	"biblioruche/hive/internal/auth"
	"biblioruche/hive/internal/common"
	"biblioruche/hive/internal/constants"

	"github.com/go-chi/chi/v5"
)

// ListNotificationsHandler handles GET /api/v1/notifications
func (h *Handlers) ListNotificationsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		claims := auth.GetUserClaims(r.Context())
		limit := queryInt(r, "limit", 30)

		list, err := h.deps.Services.Notifications.ListForUser(r.Context(), claims.UserID(), limit)
		if err != nil {
			respondServiceError(w, initTime, err)
			return
		}

		common.RespondSuccess(w, initTime, "Notifications récupérées", list)
	}
}

// MarkNotificationReadHandler handles POST /api/v1/notifications/{notification_id}/read
func (h *Handlers) MarkNotificationReadHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		claims := auth.GetUserClaims(r.Context())

		updated, err := h.deps.Services.Notifications.MarkRead(r.Context(), claims.UserID(), chi.URLParam(r, "notification_id"))
		if err != nil {
			respondServiceError(w, initTime, err)
			return
		}
		if !updated {
			common.RespondError(w, initTime, nil, constants.ErrMsgNotFound, http.StatusNotFound)
			return
		}

		common.RespondSuccess(w, initTime, "Notification lue", nil)
	}
}

// MarkAllNotificationsReadHandler handles POST /api/v1/notifications/read-all
func (h *Handlers) MarkAllNotificationsReadHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		claims := auth.GetUserClaims(r.Context())

		count, err := h.deps.Services.Notifications.MarkAllRead(r.Context(), claims.UserID())
		if err != nil {
			respondServiceError(w, initTime, err)
			return
		}

		common.RespondSuccess(w, initTime, "Notifications lues", map[string]int64{"marked": count})
	}
}
