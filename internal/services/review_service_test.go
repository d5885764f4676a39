package services

import (
	"context"
	"errors"
	"testing"

	"biblioruche/hive/internal/constants"
	"biblioruche/hive/internal/db/repositories"
	"biblioruche/hive/internal/models/dtos"
	gormModels "biblioruche/hive/internal/models/gorm"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupReviewTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	models := []interface{}{
		&gormModels.User{},
		&gormModels.Proposal{},
		&gormModels.ClubSession{},
		&gormModels.Review{},
	}
	if err := db.AutoMigrate(models...); err != nil {
		t.Fatalf("Failed to migrate: %v", err)
	}

	return db
}

func newReviewService(db *gorm.DB) *ReviewService {
	return NewReviewService(
		repositories.NewReviewRepository(db),
		repositories.NewProposalRepository(db),
		repositories.NewClubSessionRepository(db),
		nil,
	)
}

func seedReviewableProposal(t *testing.T, db *gorm.DB, sessionStatus constants.ClubSessionStatus) {
	proposal := gormModels.Proposal{
		ID:         "prop-1",
		Kind:       constants.KindBook,
		Title:      "Livre",
		Author:     "Auteur",
		ProposedBy: "user-1",
		Status:     constants.ProposalCompleted,
	}
	if err := db.Create(&proposal).Error; err != nil {
		t.Fatalf("Failed to create proposal: %v", err)
	}

	session := gormModels.ClubSession{
		ID:         "session-1",
		Kind:       constants.KindBook,
		ProposalID: "prop-1",
		Status:     sessionStatus,
		CreatedBy:  "admin-1",
	}
	if err := db.Create(&session).Error; err != nil {
		t.Fatalf("Failed to create session: %v", err)
	}
}

func TestReviewService_Submit_RequiresCompletedSession(t *testing.T) {
	db := setupReviewTestDB(t)
	seedReviewableProposal(t, db, constants.SessionCurrent)

	service := newReviewService(db)

	_, err := service.Submit(context.Background(), "user-1", "prop-1", &dtos.ReviewSubmitReq{Rating: 4})
	if !errors.Is(err, ErrNotReviewable) {
		t.Errorf("Expected ErrNotReviewable while the session runs, got %v", err)
	}
}

func TestReviewService_Submit_RatingBounds(t *testing.T) {
	db := setupReviewTestDB(t)
	seedReviewableProposal(t, db, constants.SessionCompleted)

	service := newReviewService(db)
	ctx := context.Background()

	for _, rating := range []int{0, 6, -1} {
		if _, err := service.Submit(ctx, "user-1", "prop-1", &dtos.ReviewSubmitReq{Rating: rating}); !errors.Is(err, ErrInvalidInput) {
			t.Errorf("Rating %d: expected ErrInvalidInput, got %v", rating, err)
		}
	}

	if _, err := service.Submit(ctx, "user-1", "prop-1", &dtos.ReviewSubmitReq{Rating: 5}); err != nil {
		t.Errorf("Rating 5 should pass, got %v", err)
	}
}

func TestReviewService_Submit_EditReplacesAndResetsModeration(t *testing.T) {
	db := setupReviewTestDB(t)
	seedReviewableProposal(t, db, constants.SessionCompleted)

	service := newReviewService(db)
	ctx := context.Background()

	first, err := service.Submit(ctx, "user-1", "prop-1", &dtos.ReviewSubmitReq{Rating: 2})
	if err != nil {
		t.Fatalf("First submit failed: %v", err)
	}

	// A moderator hides it, then the author edits.
	if _, err := service.Moderate(ctx, first.ID, &dtos.ReviewModerateReq{IsVisible: false, IsModerated: true}); err != nil {
		t.Fatalf("Moderation failed: %v", err)
	}

	comment := "Finalement très bien"
	second, err := service.Submit(ctx, "user-1", "prop-1", &dtos.ReviewSubmitReq{Rating: 5, Comment: &comment})
	if err != nil {
		t.Fatalf("Edit failed: %v", err)
	}

	if second.ID != first.ID {
		t.Error("Expected edit to reuse the existing review row")
	}
	if second.Rating != 5 {
		t.Errorf("Expected rating 5, got %d", second.Rating)
	}
	if !second.IsVisible || second.IsModerated {
		t.Error("Expected edit to reset moderation flags")
	}

	var count int64
	db.Model(&gormModels.Review{}).Where("user_id = ? AND proposal_id = ?", "user-1", "prop-1").Count(&count)
	if count != 1 {
		t.Errorf("Expected one review per user and work, got %d", count)
	}
}

func TestReviewService_ListForProposal_HidesModerated(t *testing.T) {
	db := setupReviewTestDB(t)
	seedReviewableProposal(t, db, constants.SessionCompleted)

	service := newReviewService(db)
	ctx := context.Background()

	r1, _ := service.Submit(ctx, "user-1", "prop-1", &dtos.ReviewSubmitReq{Rating: 5})
	service.Submit(ctx, "user-2", "prop-1", &dtos.ReviewSubmitReq{Rating: 1})

	if _, err := service.Moderate(ctx, r1.ID, &dtos.ReviewModerateReq{IsVisible: false, IsModerated: true}); err != nil {
		t.Fatalf("Moderation failed: %v", err)
	}

	visible, avg, err := service.ListForProposal(ctx, "prop-1")
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(visible) != 1 {
		t.Fatalf("Expected 1 visible review, got %d", len(visible))
	}
	if visible[0].Rating != 1 {
		t.Errorf("Expected the remaining review, got rating %d", visible[0].Rating)
	}
	if avg != 1 {
		t.Errorf("Expected average over visible reviews only, got %f", avg)
	}

	// The author still sees their hidden review.
	own, err := service.ListForUser(ctx, "user-1")
	if err != nil {
		t.Fatalf("ListForUser failed: %v", err)
	}
	if len(own) != 1 || own[0].IsVisible {
		t.Error("Expected the author to see their hidden review")
	}
}
