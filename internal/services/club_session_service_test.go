package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"biblioruche/hive/internal/constants"
	"biblioruche/hive/internal/db/repositories"
	gormModels "biblioruche/hive/internal/models/gorm"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type mockBadgeEvaluator struct {
	evaluateUserFunc func(ctx context.Context, userID string) ([]gormModels.Badge, error)
}

func (m *mockBadgeEvaluator) EvaluateUser(ctx context.Context, userID string) ([]gormModels.Badge, error) {
	return m.evaluateUserFunc(ctx, userID)
}

func setupClubTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	models := []interface{}{
		&gormModels.User{},
		&gormModels.Proposal{},
		&gormModels.ClubSession{},
		&gormModels.Participation{},
	}
	if err := db.AutoMigrate(models...); err != nil {
		t.Fatalf("Failed to migrate: %v", err)
	}

	return db
}

func day(offset int) time.Time {
	return time.Now().AddDate(0, 0, offset)
}

func TestStatusFor(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

	cases := []struct {
		name  string
		start time.Time
		end   time.Time
		want  constants.ClubSessionStatus
	}{
		{"before start", now.AddDate(0, 0, 2), now.AddDate(0, 0, 10), constants.SessionUpcoming},
		{"running", now.AddDate(0, 0, -2), now.AddDate(0, 0, 2), constants.SessionCurrent},
		{"after end", now.AddDate(0, 0, -10), now.AddDate(0, 0, -2), constants.SessionCompleted},
		{"starts today", now.Truncate(24 * time.Hour), now.AddDate(0, 0, 5), constants.SessionCurrent},
		{"ends today", now.AddDate(0, 0, -5), now, constants.SessionCurrent},
		{"single day", now, now, constants.SessionCurrent},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := StatusFor(tc.start, tc.end, now); got != tc.want {
				t.Errorf("StatusFor(%v, %v) = %s, want %s", tc.start, tc.end, got, tc.want)
			}
		})
	}
}

func createClubSession(t *testing.T, db *gorm.DB, id string, status constants.ClubSessionStatus, start, end time.Time) {
	proposal := gormModels.Proposal{
		ID:         "prop-" + id,
		Kind:       constants.KindBook,
		Title:      "Titre " + id,
		Author:     "Auteur",
		ProposedBy: "user-1",
		Status:     constants.ProposalInProgress,
	}
	if err := db.Create(&proposal).Error; err != nil {
		t.Fatalf("Failed to create proposal: %v", err)
	}

	session := gormModels.ClubSession{
		ID:         id,
		Kind:       constants.KindBook,
		ProposalID: proposal.ID,
		StartDate:  start,
		EndDate:    end,
		Status:     status,
		CreatedBy:  "admin-1",
	}
	if err := db.Create(&session).Error; err != nil {
		t.Fatalf("Failed to create session: %v", err)
	}
}

func TestClubSessionService_RefreshStatuses(t *testing.T) {
	db := setupClubTestDB(t)

	// Stored upcoming but the window already started: should move to current.
	createClubSession(t, db, "s-current", constants.SessionUpcoming, day(-1), day(3))
	// Stored current but the window ended: should complete.
	createClubSession(t, db, "s-done", constants.SessionCurrent, day(-10), day(-2))
	// Still in the future: unchanged.
	createClubSession(t, db, "s-later", constants.SessionUpcoming, day(5), day(10))

	sessionRepo := repositories.NewClubSessionRepository(db)
	proposalRepo := repositories.NewProposalRepository(db)
	service := NewClubSessionService(sessionRepo, proposalRepo, nil, nil)

	ctx := context.Background()
	changed, err := service.RefreshStatuses(ctx)
	if err != nil {
		t.Fatalf("Refresh failed: %v", err)
	}
	if changed != 2 {
		t.Errorf("Expected 2 sessions changed, got %d", changed)
	}

	check := func(id string, want constants.ClubSessionStatus) {
		session, err := sessionRepo.GetByID(ctx, id)
		if err != nil {
			t.Fatalf("Fetch failed: %v", err)
		}
		if session.Status != want {
			t.Errorf("Session %s: expected %s, got %s", id, want, session.Status)
		}
	}
	check("s-current", constants.SessionCurrent)
	check("s-done", constants.SessionCompleted)
	check("s-later", constants.SessionUpcoming)

	// Completion drags the proposal along.
	proposal, _ := proposalRepo.GetByID(ctx, "prop-s-done")
	if proposal.Status != constants.ProposalCompleted {
		t.Errorf("Expected completed proposal, got %s", proposal.Status)
	}
}

func TestClubSessionService_RefreshStatuses_TerminalIsSticky(t *testing.T) {
	db := setupClubTestDB(t)

	// Dates say "current" but the session was archived: must stay archived.
	createClubSession(t, db, "s-archived", constants.SessionArchived, day(-2), day(2))
	createClubSession(t, db, "s-completed", constants.SessionCompleted, day(-2), day(2))

	sessionRepo := repositories.NewClubSessionRepository(db)
	service := NewClubSessionService(sessionRepo, repositories.NewProposalRepository(db), nil, nil)

	ctx := context.Background()
	changed, err := service.RefreshStatuses(ctx)
	if err != nil {
		t.Fatalf("Refresh failed: %v", err)
	}
	if changed != 0 {
		t.Errorf("Expected no changes, got %d", changed)
	}

	session, _ := sessionRepo.GetByID(ctx, "s-archived")
	if session.Status != constants.SessionArchived {
		t.Errorf("Archived session was reverted to %s", session.Status)
	}
	session, _ = sessionRepo.GetByID(ctx, "s-completed")
	if session.Status != constants.SessionCompleted {
		t.Errorf("Completed session was reverted to %s", session.Status)
	}
}

func TestClubSessionService_RegisterAndUnregister(t *testing.T) {
	db := setupClubTestDB(t)
	createClubSession(t, db, "s-1", constants.SessionCurrent, day(-1), day(5))

	service := NewClubSessionService(repositories.NewClubSessionRepository(db), repositories.NewProposalRepository(db), nil, nil)
	ctx := context.Background()

	if err := service.Register(ctx, "s-1", "user-1"); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	if err := service.Register(ctx, "s-1", "user-1"); !errors.Is(err, ErrAlreadyRegistered) {
		t.Errorf("Expected ErrAlreadyRegistered, got %v", err)
	}

	if err := service.Unregister(ctx, "s-1", "user-1"); err != nil {
		t.Fatalf("Unregister failed: %v", err)
	}

	if err := service.Unregister(ctx, "s-1", "user-1"); !errors.Is(err, ErrNotRegistered) {
		t.Errorf("Expected ErrNotRegistered, got %v", err)
	}
}

func TestClubSessionService_Register_TerminalSessionRefused(t *testing.T) {
	db := setupClubTestDB(t)
	createClubSession(t, db, "s-done", constants.SessionCompleted, day(-10), day(-2))

	service := NewClubSessionService(repositories.NewClubSessionRepository(db), repositories.NewProposalRepository(db), nil, nil)

	if err := service.Register(context.Background(), "s-done", "user-1"); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput for a finished session, got %v", err)
	}
}

func TestClubSessionService_Delete(t *testing.T) {
	db := setupClubTestDB(t)
	createClubSession(t, db, "s-del", constants.SessionCurrent, day(-1), day(3))

	sessionRepo := repositories.NewClubSessionRepository(db)
	proposalRepo := repositories.NewProposalRepository(db)
	service := NewClubSessionService(sessionRepo, proposalRepo, nil, nil)

	ctx := context.Background()
	if err := service.Register(ctx, "s-del", "user-1"); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	if err := service.Delete(ctx, "s-del"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	session, err := sessionRepo.GetByID(ctx, "s-del")
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if session != nil {
		t.Error("Expected session to be gone")
	}

	var participations int64
	db.Model(&gormModels.Participation{}).Where("club_session_id = ?", "s-del").Count(&participations)
	if participations != 0 {
		t.Errorf("Expected participations removed, found %d", participations)
	}

	// An unfinished reading returns its proposal to the selected pool.
	proposal, err := proposalRepo.GetByID(ctx, "prop-s-del")
	if err != nil {
		t.Fatalf("Fetch proposal failed: %v", err)
	}
	if proposal.Status != constants.ProposalSelected {
		t.Errorf("Expected proposal back to selected, got %s", proposal.Status)
	}

	if err := service.Delete(ctx, "s-del"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound on second delete, got %v", err)
	}
}

func TestClubSessionService_StartAndComplete(t *testing.T) {
	db := setupClubTestDB(t)
	createClubSession(t, db, "s-manual", constants.SessionUpcoming, day(2), day(9))

	sessionRepo := repositories.NewClubSessionRepository(db)
	proposalRepo := repositories.NewProposalRepository(db)

	evaluated := []string{}
	badges := &mockBadgeEvaluator{
		evaluateUserFunc: func(ctx context.Context, userID string) ([]gormModels.Badge, error) {
			evaluated = append(evaluated, userID)
			return nil, nil
		},
	}
	service := NewClubSessionService(sessionRepo, proposalRepo, badges, nil)

	ctx := context.Background()

	// An admin can open the session before its start date.
	started, err := service.Start(ctx, "s-manual")
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if started.Status != constants.SessionCurrent {
		t.Errorf("Expected current after start, got %s", started.Status)
	}

	// Starting twice is refused.
	if _, err := service.Start(ctx, "s-manual"); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput on second start, got %v", err)
	}

	if err := service.Register(ctx, "s-manual", "user-1"); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	// An admin can close it before the end date.
	completed, err := service.Complete(ctx, "s-manual")
	if err != nil {
		t.Fatalf("Complete failed: %v", err)
	}
	if completed.Status != constants.SessionCompleted {
		t.Errorf("Expected completed, got %s", completed.Status)
	}

	proposal, err := proposalRepo.GetByID(ctx, "prop-s-manual")
	if err != nil {
		t.Fatalf("Fetch proposal failed: %v", err)
	}
	if proposal.Status != constants.ProposalCompleted {
		t.Errorf("Expected proposal completed, got %s", proposal.Status)
	}

	if len(evaluated) != 1 || evaluated[0] != "user-1" {
		t.Errorf("Expected badge evaluation for the participant, got %v", evaluated)
	}

	if _, err := service.Complete(ctx, "s-manual"); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput on completed session, got %v", err)
	}
}
