package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"biblioruche/hive/internal/constants"
	"biblioruche/hive/internal/db/repositories"
	"biblioruche/hive/internal/models/dtos"
	gormModels "biblioruche/hive/internal/models/gorm"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupVotingTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	models := []interface{}{
		&gormModels.User{},
		&gormModels.Proposal{},
		&gormModels.VotingSession{},
		&gormModels.VoteOption{},
		&gormModels.Ballot{},
	}
	if err := db.AutoMigrate(models...); err != nil {
		t.Fatalf("Failed to migrate: %v", err)
	}

	return db
}

func createApprovedProposal(t *testing.T, db *gorm.DB, id, title string) {
	proposal := gormModels.Proposal{
		ID:         id,
		Kind:       constants.KindBook,
		Title:      title,
		Author:     "Auteur Test",
		ProposedBy: "user-proposer",
		Status:     constants.ProposalApproved,
	}
	if err := db.Create(&proposal).Error; err != nil {
		t.Fatalf("Failed to create proposal: %v", err)
	}
}

func createActiveSession(t *testing.T, db *gorm.DB, proposalIDs []string) *gormModels.VotingSession {
	for i, id := range proposalIDs {
		createApprovedProposal(t, db, id, "Livre "+string(rune('A'+i)))
	}

	session := &gormModels.VotingSession{
		ID:        "session-1",
		Kind:      constants.KindBook,
		Title:     "Vote du mois",
		EndDate:   time.Now().Add(72 * time.Hour),
		Status:    constants.VotingActive,
		CreatedBy: "admin-1",
	}
	if err := db.Create(session).Error; err != nil {
		t.Fatalf("Failed to create session: %v", err)
	}

	for i, proposalID := range proposalIDs {
		option := gormModels.VoteOption{
			ID:              "option-" + string(rune('1'+i)),
			VotingSessionID: session.ID,
			ProposalID:      proposalID,
		}
		if err := db.Create(&option).Error; err != nil {
			t.Fatalf("Failed to create option: %v", err)
		}
	}

	return session
}

func TestVotingService_SubmitBallot_ReplacesPriorBallots(t *testing.T) {
	db := setupVotingTestDB(t)
	createActiveSession(t, db, []string{"prop-1", "prop-2", "prop-3"})

	votingRepo := repositories.NewVotingRepository(db)
	service := NewVotingService(votingRepo, repositories.NewProposalRepository(db), nil, nil)

	ctx := context.Background()
	if err := service.SubmitBallot(ctx, "user-1", "session-1", []string{"option-1", "option-2"}); err != nil {
		t.Fatalf("First submission failed: %v", err)
	}

	// Resubmission replaces the whole set, not appends.
	if err := service.SubmitBallot(ctx, "user-1", "session-1", []string{"option-3"}); err != nil {
		t.Fatalf("Resubmission failed: %v", err)
	}

	ballots, err := votingRepo.GetUserBallots(ctx, "user-1", "session-1")
	if err != nil {
		t.Fatalf("Failed to fetch ballots: %v", err)
	}
	if len(ballots) != 1 {
		t.Fatalf("Expected 1 ballot after resubmission, got %d", len(ballots))
	}
	if ballots[0].VoteOptionID != "option-3" {
		t.Errorf("Expected option-3, got %s", ballots[0].VoteOptionID)
	}
}

func TestVotingService_SubmitBallot_RejectsUnknownAndDuplicateOptions(t *testing.T) {
	db := setupVotingTestDB(t)
	createActiveSession(t, db, []string{"prop-1", "prop-2"})

	service := NewVotingService(repositories.NewVotingRepository(db), repositories.NewProposalRepository(db), nil, nil)
	ctx := context.Background()

	if err := service.SubmitBallot(ctx, "user-1", "session-1", []string{"option-99"}); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput for unknown option, got %v", err)
	}
	if err := service.SubmitBallot(ctx, "user-1", "session-1", []string{"option-1", "option-1"}); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput for duplicate option, got %v", err)
	}
	if err := service.SubmitBallot(ctx, "user-1", "session-1", nil); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput for empty set, got %v", err)
	}
}

func TestVotingService_SubmitBallot_ExpiredSession(t *testing.T) {
	db := setupVotingTestDB(t)
	createActiveSession(t, db, []string{"prop-1", "prop-2"})

	service := NewVotingService(repositories.NewVotingRepository(db), repositories.NewProposalRepository(db), nil, nil)
	service.now = func() time.Time { return time.Now().Add(100 * time.Hour) }

	err := service.SubmitBallot(context.Background(), "user-1", "session-1", []string{"option-1"})
	if !errors.Is(err, ErrVoteExpired) {
		t.Errorf("Expected ErrVoteExpired, got %v", err)
	}
}

func TestVotingService_CloseSession_SingleWinner(t *testing.T) {
	db := setupVotingTestDB(t)
	createActiveSession(t, db, []string{"prop-1", "prop-2", "prop-3"})

	votingRepo := repositories.NewVotingRepository(db)
	proposalRepo := repositories.NewProposalRepository(db)
	service := NewVotingService(votingRepo, proposalRepo, nil, nil)

	ctx := context.Background()
	service.SubmitBallot(ctx, "user-1", "session-1", []string{"option-1"})
	service.SubmitBallot(ctx, "user-2", "session-1", []string{"option-1", "option-2"})
	service.SubmitBallot(ctx, "user-3", "session-1", []string{"option-2"})
	service.SubmitBallot(ctx, "user-4", "session-1", []string{"option-1"})

	result, err := service.CloseSession(ctx, "session-1")
	if err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	if len(result.WinnerProposals) != 1 || result.WinnerProposals[0] != "prop-1" {
		t.Fatalf("Expected prop-1 as sole winner, got %v", result.WinnerProposals)
	}
	if result.WinnerProposalID == nil || *result.WinnerProposalID != "prop-1" {
		t.Error("Expected winner_proposal_id to be set for a single winner")
	}
	if result.MaxBallots != 3 {
		t.Errorf("Expected max 3 ballots, got %d", result.MaxBallots)
	}

	winner, _ := proposalRepo.GetByID(ctx, "prop-1")
	if winner.Status != constants.ProposalSelected {
		t.Errorf("Expected winner status selected, got %s", winner.Status)
	}
	loser, _ := proposalRepo.GetByID(ctx, "prop-3")
	if loser.Status != constants.ProposalApproved {
		t.Errorf("Expected loser status untouched, got %s", loser.Status)
	}

	session, _ := votingRepo.GetByID(ctx, "session-1")
	if session.Status != constants.VotingClosed {
		t.Errorf("Expected session closed, got %s", session.Status)
	}
}

func TestVotingService_CloseSession_TieSelectsAllWinners(t *testing.T) {
	db := setupVotingTestDB(t)
	createActiveSession(t, db, []string{"prop-1", "prop-2", "prop-3"})

	votingRepo := repositories.NewVotingRepository(db)
	proposalRepo := repositories.NewProposalRepository(db)
	service := NewVotingService(votingRepo, proposalRepo, nil, nil)

	ctx := context.Background()
	service.SubmitBallot(ctx, "user-1", "session-1", []string{"option-1"})
	service.SubmitBallot(ctx, "user-2", "session-1", []string{"option-2"})

	result, err := service.CloseSession(ctx, "session-1")
	if err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	if len(result.WinnerProposals) != 2 {
		t.Fatalf("Expected 2 tied winners, got %v", result.WinnerProposals)
	}
	if result.WinnerProposalID != nil {
		t.Error("Expected no single winner_proposal_id on a tie")
	}

	for _, id := range []string{"prop-1", "prop-2"} {
		proposal, _ := proposalRepo.GetByID(ctx, id)
		if proposal.Status != constants.ProposalSelected {
			t.Errorf("Expected %s selected, got %s", id, proposal.Status)
		}
	}
	untouched, _ := proposalRepo.GetByID(ctx, "prop-3")
	if untouched.Status != constants.ProposalApproved {
		t.Errorf("Expected prop-3 untouched, got %s", untouched.Status)
	}
}

func TestVotingService_CloseSession_ZeroBallots(t *testing.T) {
	db := setupVotingTestDB(t)
	createActiveSession(t, db, []string{"prop-1", "prop-2"})

	votingRepo := repositories.NewVotingRepository(db)
	proposalRepo := repositories.NewProposalRepository(db)
	service := NewVotingService(votingRepo, proposalRepo, nil, nil)

	ctx := context.Background()
	result, err := service.CloseSession(ctx, "session-1")
	if err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	if len(result.WinnerProposals) != 0 {
		t.Errorf("Expected no winners with zero ballots, got %v", result.WinnerProposals)
	}

	proposal, _ := proposalRepo.GetByID(ctx, "prop-1")
	if proposal.Status != constants.ProposalApproved {
		t.Errorf("Expected proposals untouched, got %s", proposal.Status)
	}

	session, _ := votingRepo.GetByID(ctx, "session-1")
	if session.Status != constants.VotingClosed {
		t.Errorf("Expected session still closed, got %s", session.Status)
	}
}

func TestVotingService_CloseSession_ClosedIsTerminal(t *testing.T) {
	db := setupVotingTestDB(t)
	createActiveSession(t, db, []string{"prop-1", "prop-2"})

	service := NewVotingService(repositories.NewVotingRepository(db), repositories.NewProposalRepository(db), nil, nil)

	ctx := context.Background()
	if _, err := service.CloseSession(ctx, "session-1"); err != nil {
		t.Fatalf("First close failed: %v", err)
	}

	if _, err := service.CloseSession(ctx, "session-1"); !errors.Is(err, ErrVoteClosed) {
		t.Errorf("Expected ErrVoteClosed on second close, got %v", err)
	}

	if err := service.SubmitBallot(ctx, "user-1", "session-1", []string{"option-1"}); !errors.Is(err, ErrVoteClosed) {
		t.Errorf("Expected ErrVoteClosed on ballot after close, got %v", err)
	}
}

func TestVotingService_CreateSession_SingleOption(t *testing.T) {
	db := setupVotingTestDB(t)
	createApprovedProposal(t, db, "prop-1", "Livre A")

	service := NewVotingService(repositories.NewVotingRepository(db), repositories.NewProposalRepository(db), nil, nil)

	// A one-option vote is a valid confirmation vote.
	session, err := service.CreateSession(context.Background(), "admin-1", &dtos.VotingSessionCreateReq{
		Kind:        "book",
		Title:       "Confirmer la lecture",
		EndDate:     time.Now().Add(96 * time.Hour).Format("2006-01-02"),
		ProposalIDs: []string{"prop-1"},
	})
	if err != nil {
		t.Fatalf("Single-option session should be accepted: %v", err)
	}

	fetched, err := repositories.NewVotingRepository(db).GetByID(context.Background(), session.ID)
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if len(fetched.Options) != 1 {
		t.Errorf("Expected 1 option, got %d", len(fetched.Options))
	}
}

func TestVotingService_CreateSession_Validation(t *testing.T) {
	db := setupVotingTestDB(t)
	createApprovedProposal(t, db, "prop-1", "Livre A")

	service := NewVotingService(repositories.NewVotingRepository(db), repositories.NewProposalRepository(db), nil, nil)
	ctx := context.Background()
	endDate := time.Now().Add(96 * time.Hour).Format("2006-01-02")

	cases := []struct {
		name        string
		kind        string
		title       string
		end         string
		proposalIDs []string
	}{
		{"bad kind", "album", "Vote", endDate, []string{"prop-1", "prop-2"}},
		{"no options", "book", "Vote", endDate, nil},
		{"past end date", "book", "Vote", "2020-01-01", []string{"prop-1", "prop-2"}},
		{"duplicate options", "book", "Vote", endDate, []string{"prop-1", "prop-1"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := service.CreateSession(ctx, "admin-1", &dtos.VotingSessionCreateReq{
				Kind:        tc.kind,
				Title:       tc.title,
				EndDate:     tc.end,
				ProposalIDs: tc.proposalIDs,
			})
			if err == nil {
				t.Error("Expected an error")
			}
		})
	}
}
