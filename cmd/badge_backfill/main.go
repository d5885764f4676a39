package main

import (
	"context"
	"log"
	"os"

	"biblioruche/hive/internal/common"
	"biblioruche/hive/internal/db"
	"biblioruche/hive/internal/db/repositories"
	"biblioruche/hive/internal/logging"
	"biblioruche/hive/internal/metrics"
	"biblioruche/hive/internal/services"
)

// Re-evaluates every badge rule for every user. Run it after adding a rule
// to the catalogue so long-time members pick up the new badge.
func main() {
	appEnv := os.Getenv("APP_ENV")
	if appEnv == "" {
		appEnv = "development"
	}
	if err := logging.Init(appEnv); err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer logging.Close()

	if err := db.InitPostgres(); err != nil {
		log.Fatalf("connect postgres (sqlx): %v", err)
	}
	if _, err := db.InitPostgresORM(db.DSNFromEnv()); err != nil {
		log.Fatalf("connect postgres (gorm): %v", err)
	}

	ctx := context.Background()
	metricsReg := metrics.NewMetricsRegistry()

	userRepo := repositories.NewUserRepository(db.PgDB)
	badgeRepo := repositories.NewBadgeRepository(db.PgDB)
	notifRepo := repositories.NewNotificationRepository(db.PgDB)
	statsRepo := repositories.NewStatsRepository(db.DB)

	seeded, err := badgeRepo.SeedCatalogue(ctx)
	if err != nil {
		log.Fatalf("seed badge catalogue: %v", err)
	}
	logging.Info("Badge catalogue ready", "new_badges", seeded)

	// No broadcast queue here: awards notify each user directly.
	notifSvc := services.NewNotificationService(notifRepo, userRepo, nil, metricsReg)
	statsSvc := services.NewStatsService(statsRepo, common.NewCacheService(300, 600), metricsReg)
	badgeSvc := services.NewBadgeService(badgeRepo, statsSvc, notifSvc, metricsReg)

	userIDs, err := userRepo.ListAllIDs(ctx)
	if err != nil {
		log.Fatalf("list users: %v", err)
	}

	failures := 0
	totalAwarded := 0
	for _, userID := range userIDs {
		awarded, err := badgeSvc.EvaluateUser(ctx, userID)
		if err != nil {
			failures++
			logging.Warn("Badge evaluation failed", "user_id", userID, "error", err)
			continue
		}
		for _, badge := range awarded {
			logging.Info("Badge awarded retroactively", "user_id", userID, "badge", badge.Name)
		}
		totalAwarded += len(awarded)
	}

	logging.Info("Badge backfill done", "users", len(userIDs), "awarded", totalAwarded, "failures", failures)
	if failures > 0 {
		os.Exit(1)
	}
}
