package services

import (
	"context"
	"testing"

	"biblioruche/hive/internal/db/repositories"
	"biblioruche/hive/internal/models/dtos"
	gormModels "biblioruche/hive/internal/models/gorm"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// Mock UserStatsProvider
type mockStatsProvider struct {
	userStatsFunc func(ctx context.Context, userID string) (*dtos.UserStats, error)
}

func (m *mockStatsProvider) UserStats(ctx context.Context, userID string) (*dtos.UserStats, error) {
	return m.userStatsFunc(ctx, userID)
}

// Mock BadgeNotifier
type mockNotifier struct {
	calls []string
}

func (m *mockNotifier) Notify(ctx context.Context, userID, nType, title, message string, link, icon *string) error {
	m.calls = append(m.calls, message)
	return nil
}

// Setup test database
func setupBadgeTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	if err := db.AutoMigrate(&gormModels.Badge{}, &gormModels.UserBadge{}); err != nil {
		t.Fatalf("Failed to migrate: %v", err)
	}

	return db
}

func seedBadges(t *testing.T, db *gorm.DB) {
	repo := repositories.NewBadgeRepository(db)
	if _, err := repo.SeedCatalogue(context.Background()); err != nil {
		t.Fatalf("Failed to seed badges: %v", err)
	}
}

func badgeNames(badges []gormModels.Badge) map[string]bool {
	names := make(map[string]bool, len(badges))
	for _, b := range badges {
		names[b.Name] = true
	}
	return names
}

func TestBadgeService_EvaluateUser_FirstReview(t *testing.T) {
	db := setupBadgeTestDB(t)
	seedBadges(t, db)

	stats := &mockStatsProvider{
		userStatsFunc: func(ctx context.Context, userID string) (*dtos.UserStats, error) {
			return &dtos.UserStats{TotalReviews: 1}, nil
		},
	}
	notifier := &mockNotifier{}
	service := NewBadgeService(repositories.NewBadgeRepository(db), stats, notifier, nil)

	awarded, err := service.EvaluateUser(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	names := badgeNames(awarded)
	if !names["Premier avis"] {
		t.Error("Expected Premier avis to be awarded")
	}
	if names["Critique actif"] {
		t.Error("Critique actif requires 10 reviews, got it at 1")
	}
	if len(notifier.calls) != len(awarded) {
		t.Errorf("Expected %d notifications, got %d", len(awarded), len(notifier.calls))
	}
}

func TestBadgeService_EvaluateUser_TenthReviewAwardsBoth(t *testing.T) {
	db := setupBadgeTestDB(t)
	seedBadges(t, db)

	stats := &mockStatsProvider{
		userStatsFunc: func(ctx context.Context, userID string) (*dtos.UserStats, error) {
			return &dtos.UserStats{TotalReviews: 10}, nil
		},
	}
	service := NewBadgeService(repositories.NewBadgeRepository(db), stats, nil, nil)

	awarded, err := service.EvaluateUser(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	names := badgeNames(awarded)
	if !names["Premier avis"] || !names["Critique actif"] {
		t.Errorf("Expected both review badges at 10 reviews, got %v", names)
	}
}

func TestBadgeService_EvaluateUser_Idempotent(t *testing.T) {
	db := setupBadgeTestDB(t)
	seedBadges(t, db)

	stats := &mockStatsProvider{
		userStatsFunc: func(ctx context.Context, userID string) (*dtos.UserStats, error) {
			return &dtos.UserStats{BookBallots: 5, TotalProposals: 1}, nil
		},
	}
	service := NewBadgeService(repositories.NewBadgeRepository(db), stats, nil, nil)

	first, err := service.EvaluateUser(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("First pass failed: %v", err)
	}
	if len(first) == 0 {
		t.Fatal("Expected awards on first pass")
	}

	second, err := service.EvaluateUser(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("Second pass failed: %v", err)
	}
	if len(second) != 0 {
		t.Errorf("Expected no new awards on second pass, got %d", len(second))
	}

	var total int64
	db.Model(&gormModels.UserBadge{}).Where("user_id = ?", "user-1").Count(&total)
	if total != int64(len(first)) {
		t.Errorf("Expected %d rows after two passes, got %d", len(first), total)
	}
}

func TestBadgeService_EvaluateUser_UnseededBadgeSkipped(t *testing.T) {
	// No seeding: every rule resolves to a missing definition and is skipped.
	db := setupBadgeTestDB(t)

	stats := &mockStatsProvider{
		userStatsFunc: func(ctx context.Context, userID string) (*dtos.UserStats, error) {
			return &dtos.UserStats{TotalReviews: 50, BookBallots: 50}, nil
		},
	}
	service := NewBadgeService(repositories.NewBadgeRepository(db), stats, nil, nil)

	awarded, err := service.EvaluateUser(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(awarded) != 0 {
		t.Errorf("Expected no awards without seeded definitions, got %d", len(awarded))
	}
}

func TestBadgeRepository_SeedCatalogue_Rerun(t *testing.T) {
	db := setupBadgeTestDB(t)
	repo := repositories.NewBadgeRepository(db)

	first, err := repo.SeedCatalogue(context.Background())
	if err != nil {
		t.Fatalf("First seed failed: %v", err)
	}
	if first == 0 {
		t.Fatal("Expected first seed to insert badges")
	}

	second, err := repo.SeedCatalogue(context.Background())
	if err != nil {
		t.Fatalf("Second seed failed: %v", err)
	}
	if second != 0 {
		t.Errorf("Expected second seed to insert nothing, got %d", second)
	}
}
