package api

import (
	"net/http"
	"time"

	"biblioruche/hive/internal/common"
)

// SiteStatsHandler handles GET /api/v1/stats
func (h *Handlers) SiteStatsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		stats, err := h.deps.Services.Stats.SiteStats(r.Context())
		if err != nil {
			respondServiceError(w, initTime, err)
			return
		}

		common.RespondSuccess(w, initTime, "Statistiques récupérées", stats)
	}
}
