package repositories

import (
	"context"
	"fmt"
	"time"

	"biblioruche/hive/internal/constants"
	gormModels "biblioruche/hive/internal/models/gorm"

	"gorm.io/gorm"
)

// VotingRepository handles voting session, option and ballot operations
type VotingRepository struct {
	db *gorm.DB
}

// NewVotingRepository creates a new GORM-based voting repository
func NewVotingRepository(db *gorm.DB) *VotingRepository {
	return &VotingRepository{db: db}
}

// CreateSession inserts a session and its fixed option set in one transaction
func (r *VotingRepository) CreateSession(ctx context.Context, session *gormModels.VotingSession, proposalIDs []string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(session).Error; err != nil {
			return fmt.Errorf("failed to create voting session: %w", err)
		}

		for _, proposalID := range proposalIDs {
			option := gormModels.VoteOption{
				VotingSessionID: session.ID,
				ProposalID:      proposalID,
			}
			if err := tx.Create(&option).Error; err != nil {
				return fmt.Errorf("failed to create vote option: %w", err)
			}
		}

		return nil
	})
}

// GetByID retrieves a session with its options and their proposals
func (r *VotingRepository) GetByID(ctx context.Context, sessionID string) (*gormModels.VotingSession, error) {
	var session gormModels.VotingSession

	err := r.db.WithContext(ctx).
		Preload("Options").
		Preload("Options.Proposal").
		Where("id = ?", sessionID).
		First(&session).Error

	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch voting session: %w", err)
	}

	return &session, nil
}

// ListByStatus retrieves sessions of a kind in one status
func (r *VotingRepository) ListByStatus(ctx context.Context, kind constants.MediaKind, status constants.VotingStatus) ([]gormModels.VotingSession, error) {
	var sessions []gormModels.VotingSession

	order := "end_date ASC"
	if status == constants.VotingClosed {
		order = "end_date DESC"
	}

	err := r.db.WithContext(ctx).
		Where("kind = ? AND status = ?", kind, status).
		Order(order).
		Find(&sessions).Error

	if err != nil {
		return nil, fmt.Errorf("failed to fetch voting sessions: %w", err)
	}

	return sessions, nil
}

// Update persists changes on an existing session
func (r *VotingRepository) Update(ctx context.Context, session *gormModels.VotingSession) error {
	if err := r.db.WithContext(ctx).Save(session).Error; err != nil {
		return fmt.Errorf("failed to update voting session: %w", err)
	}
	return nil
}

// ReplaceBallots deletes the user's prior ballots for the session and inserts
// the new set in one transaction, so resubmission is atomic per request.
func (r *VotingRepository) ReplaceBallots(ctx context.Context, userID, sessionID string, optionIDs []string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Where("user_id = ? AND voting_session_id = ?", userID, sessionID).
			Delete(&gormModels.Ballot{}).Error; err != nil {
			return fmt.Errorf("failed to delete prior ballots: %w", err)
		}

		for _, optionID := range optionIDs {
			ballot := gormModels.Ballot{
				UserID:          userID,
				VotingSessionID: sessionID,
				VoteOptionID:    optionID,
			}
			if err := tx.Create(&ballot).Error; err != nil {
				return fmt.Errorf("failed to create ballot: %w", err)
			}
		}

		return nil
	})
}

// GetUserBallots retrieves all of a user's ballots for one session
func (r *VotingRepository) GetUserBallots(ctx context.Context, userID, sessionID string) ([]gormModels.Ballot, error) {
	var ballots []gormModels.Ballot

	err := r.db.WithContext(ctx).
		Where("user_id = ? AND voting_session_id = ?", userID, sessionID).
		Find(&ballots).Error

	if err != nil {
		return nil, fmt.Errorf("failed to fetch ballots: %w", err)
	}

	return ballots, nil
}

// CountBallotsByOption tallies every option of the session, including zeroes
func (r *VotingRepository) CountBallotsByOption(ctx context.Context, sessionID string) (map[string]int64, error) {
	var options []gormModels.VoteOption
	if err := r.db.WithContext(ctx).
		Where("voting_session_id = ?", sessionID).
		Find(&options).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch options: %w", err)
	}

	counts := make(map[string]int64, len(options))
	for _, option := range options {
		counts[option.ID] = 0
	}

	type tally struct {
		VoteOptionID string
		Count        int64
	}
	var tallies []tally
	err := r.db.WithContext(ctx).
		Model(&gormModels.Ballot{}).
		Select("vote_option_id, COUNT(*) AS count").
		Where("voting_session_id = ?", sessionID).
		Group("vote_option_id").
		Scan(&tallies).Error

	if err != nil {
		return nil, fmt.Errorf("failed to tally ballots: %w", err)
	}

	for _, t := range tallies {
		counts[t.VoteOptionID] = t.Count
	}

	return counts, nil
}

// ListVotersByOption retrieves the users who picked one option. Admin only.
func (r *VotingRepository) ListVotersByOption(ctx context.Context, optionID string) ([]gormModels.User, error) {
	var users []gormModels.User

	err := r.db.WithContext(ctx).
		Model(&gormModels.User{}).
		Joins("JOIN ballots ON ballots.user_id = users.id").
		Where("ballots.vote_option_id = ?", optionID).
		Find(&users).Error

	if err != nil {
		return nil, fmt.Errorf("failed to fetch voters: %w", err)
	}

	return users, nil
}

// DeleteClosedBefore hard-deletes closed sessions older than the cutoff along
// with their options and ballots. Returns (sessions, ballots) removed.
func (r *VotingRepository) DeleteClosedBefore(ctx context.Context, cutoff time.Time) (int64, int64, error) {
	var sessionsRemoved, ballotsRemoved int64

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var ids []string
		if err := tx.Model(&gormModels.VotingSession{}).
			Where("status = ? AND end_date < ?", constants.VotingClosed, cutoff).
			Pluck("id", &ids).Error; err != nil {
			return fmt.Errorf("failed to list closed sessions: %w", err)
		}
		if len(ids) == 0 {
			return nil
		}

		res := tx.Where("voting_session_id IN ?", ids).Delete(&gormModels.Ballot{})
		if res.Error != nil {
			return fmt.Errorf("failed to delete ballots: %w", res.Error)
		}
		ballotsRemoved = res.RowsAffected

		if err := tx.Where("voting_session_id IN ?", ids).Delete(&gormModels.VoteOption{}).Error; err != nil {
			return fmt.Errorf("failed to delete options: %w", err)
		}

		res = tx.Where("id IN ?", ids).Delete(&gormModels.VotingSession{})
		if res.Error != nil {
			return fmt.Errorf("failed to delete sessions: %w", res.Error)
		}
		sessionsRemoved = res.RowsAffected

		return nil
	})

	return sessionsRemoved, ballotsRemoved, err
}
