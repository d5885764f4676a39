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

func setupProposalTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	if err := db.AutoMigrate(&gormModels.User{}, &gormModels.Proposal{}); err != nil {
		t.Fatalf("Failed to migrate: %v", err)
	}

	return db
}

func createProposal(t *testing.T, db *gorm.DB, id, proposedBy string, status constants.ProposalStatus) {
	proposal := gormModels.Proposal{
		ID:         id,
		Kind:       constants.KindBook,
		Title:      "Titre initial",
		Author:     "Auteur initial",
		ProposedBy: proposedBy,
		Status:     status,
	}
	if err := db.Create(&proposal).Error; err != nil {
		t.Fatalf("Failed to create proposal: %v", err)
	}
}

func strPtr(s string) *string { return &s }

func TestProposalService_Submit_AssignsID(t *testing.T) {
	db := setupProposalTestDB(t)

	proposalRepo := repositories.NewProposalRepository(db)
	service := NewProposalService(proposalRepo, nil, nil, nil, nil, nil)

	proposal, err := service.Submit(context.Background(), "user-1", &dtos.ProposalSubmitReq{
		Kind:   "book",
		Title:  "Les Furtifs",
		Author: "Alain Damasio",
	})
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	if proposal.ID == "" {
		t.Error("Expected a generated ID on creation")
	}
	if proposal.Status != constants.ProposalPending {
		t.Errorf("Expected pending status, got %s", proposal.Status)
	}
}

func TestProposalService_Edit_OwnerWhilePending(t *testing.T) {
	db := setupProposalTestDB(t)
	createProposal(t, db, "p-1", "user-1", constants.ProposalPending)

	proposalRepo := repositories.NewProposalRepository(db)
	service := NewProposalService(proposalRepo, nil, nil, nil, nil, nil)

	ctx := context.Background()
	edited, err := service.Edit(ctx, "user-1", false, "p-1", &dtos.ProposalEditReq{
		Title:  strPtr("Nouveau titre"),
		Author: strPtr("Nouvel auteur"),
	})
	if err != nil {
		t.Fatalf("Edit failed: %v", err)
	}
	if edited.Title != "Nouveau titre" || edited.Author != "Nouvel auteur" {
		t.Errorf("Fields were not updated: %q / %q", edited.Title, edited.Author)
	}

	stored, err := proposalRepo.GetByID(ctx, "p-1")
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if stored.Title != "Nouveau titre" {
		t.Errorf("Expected persisted title, got %q", stored.Title)
	}
}

func TestProposalService_Edit_OwnerAfterModerationRefused(t *testing.T) {
	db := setupProposalTestDB(t)
	createProposal(t, db, "p-1", "user-1", constants.ProposalApproved)

	service := NewProposalService(repositories.NewProposalRepository(db), nil, nil, nil, nil, nil)

	req := &dtos.ProposalEditReq{Title: strPtr("Titre corrigé")}
	if _, err := service.Edit(context.Background(), "user-1", false, "p-1", req); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput for a non-pending proposal, got %v", err)
	}
}

func TestProposalService_Edit_NonOwnerRefused(t *testing.T) {
	db := setupProposalTestDB(t)
	createProposal(t, db, "p-1", "user-1", constants.ProposalPending)

	service := NewProposalService(repositories.NewProposalRepository(db), nil, nil, nil, nil, nil)

	req := &dtos.ProposalEditReq{Title: strPtr("Titre volé")}
	if _, err := service.Edit(context.Background(), "user-2", false, "p-1", req); !errors.Is(err, ErrForbidden) {
		t.Errorf("Expected ErrForbidden for another member, got %v", err)
	}
}

func TestProposalService_Edit_AdminAnytime(t *testing.T) {
	db := setupProposalTestDB(t)
	createProposal(t, db, "p-1", "user-1", constants.ProposalApproved)

	proposalRepo := repositories.NewProposalRepository(db)
	service := NewProposalService(proposalRepo, nil, nil, nil, nil, nil)

	ctx := context.Background()
	edited, err := service.Edit(ctx, "admin-1", true, "p-1", &dtos.ProposalEditReq{Title: strPtr("Titre officiel")})
	if err != nil {
		t.Fatalf("Admin edit failed: %v", err)
	}
	if edited.Title != "Titre officiel" {
		t.Errorf("Expected updated title, got %q", edited.Title)
	}
	// Moderation state is untouched by an edit.
	if edited.Status != constants.ProposalApproved {
		t.Errorf("Expected status preserved, got %s", edited.Status)
	}
}

func TestProposalService_Edit_Validation(t *testing.T) {
	db := setupProposalTestDB(t)
	createProposal(t, db, "p-1", "user-1", constants.ProposalPending)

	service := NewProposalService(repositories.NewProposalRepository(db), nil, nil, nil, nil, nil)
	ctx := context.Background()

	empty := &dtos.ProposalEditReq{Title: strPtr("")}
	if _, err := service.Edit(ctx, "user-1", false, "p-1", empty); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput for an empty title, got %v", err)
	}

	req := &dtos.ProposalEditReq{Title: strPtr("Titre")}
	if _, err := service.Edit(ctx, "user-1", false, "p-missing", req); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}
