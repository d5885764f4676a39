package api

import (
	"net/http"
	"time"

	"biblioruche/hive/internal/common"
)

// RunCleanupHandler handles POST /api/v1/admin/cleanup
func (h *Handlers) RunCleanupHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		report, err := h.deps.Services.Cleanup.Run(r.Context())
		if err != nil {
			respondServiceError(w, initTime, err)
			return
		}

		common.RespondSuccess(w, initTime, "Nettoyage effectué", report)
	}
}

// SeedBadgesHandler handles POST /api/v1/admin/badges/seed
func (h *Handlers) SeedBadgesHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		seeded, err := h.deps.Repo.Badge.SeedCatalogue(r.Context())
		if err != nil {
			respondServiceError(w, initTime, err)
			return
		}

		common.RespondSuccess(w, initTime, "Catalogue de badges initialisé", map[string]int{"seeded": seeded})
	}
}

// QueueStatusHandler handles GET /api/v1/admin/queue
func (h *Handlers) QueueStatusHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		length, err := h.deps.Services.RedisQueue.QueueLength(r.Context())
		if err != nil {
			respondServiceError(w, initTime, err)
			return
		}

		common.RespondSuccess(w, initTime, "État de la file récupéré", map[string]int64{"pending": length})
	}
}
