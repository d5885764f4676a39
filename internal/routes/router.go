package routes

import (
	"context"
	"net/http"
	"os"
	"time"

	"biblioruche/hive/internal/api"
	"biblioruche/hive/internal/db"
	"biblioruche/hive/internal/logging"
	"biblioruche/hive/internal/metrics"
	"biblioruche/hive/internal/middleware"
	"biblioruche/hive/internal/workers"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/google/uuid"
)

func RegisterRoutes(upSince time.Time) http.Handler {

	// initialize Chi router
	r := chi.NewRouter()

	// Initialize metrics registry
	metricsReg := metrics.NewMetricsRegistry()

	// global middleware
	r.Use(middleware.RequestIDMiddleware)
	r.Use(middleware.RateLimitMiddleware)
	r.Use(middleware.MetricsMiddleware(metricsReg))

	allowedOrigin := os.Getenv("FRONTEND_ORIGIN")
	if allowedOrigin == "" {
		allowedOrigin = "http://localhost:5173"
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{allowedOrigin},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true, // session cookie travels with requests
		MaxAge:           300,
	}))

	logging.Info("Router initialized with metrics and logging middleware")

	// Initialize dependencies using DI pattern
	deps, err := api.InitDependencies(metricsReg)
	if err != nil {
		panic("Failed to initialize dependencies: " + err.Error())
	}

	// Initialize handlers with dependencies
	handlers := api.NewHandlers(deps)

	// health check
	r.Get("/healthCheck", api.HealthCheckHandler(db.DB, deps.Redis, upSince))

	// Broadcast notifications fan out through Redis Streams consumers.
	worker := workers.NewNotificationWorker(uuid.New().String()[:8], deps.Services.RedisQueue, deps.Services.Notifications)
	go func() {
		if err := worker.Start(context.Background(), 2); err != nil {
			logging.Error("Notification workers stopped", "error", err)
		}
	}()

	RegisterAPIRoutes(r, handlers, deps)

	return r
}
