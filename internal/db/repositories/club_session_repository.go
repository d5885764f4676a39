package repositories

import (
	"context"
	"fmt"

	"biblioruche/hive/internal/constants"
	gormModels "biblioruche/hive/internal/models/gorm"

	"gorm.io/gorm"
)

// ClubSessionRepository handles club session and participation operations
type ClubSessionRepository struct {
	db *gorm.DB
}

// NewClubSessionRepository creates a new GORM-based club session repository
func NewClubSessionRepository(db *gorm.DB) *ClubSessionRepository {
	return &ClubSessionRepository{db: db}
}

// GetByID retrieves a session with its proposal and participants
func (r *ClubSessionRepository) GetByID(ctx context.Context, sessionID string) (*gormModels.ClubSession, error) {
	var session gormModels.ClubSession

	err := r.db.WithContext(ctx).
		Preload("Proposal").
		Preload("Participants").
		Preload("Participants.User").
		Where("id = ?", sessionID).
		First(&session).Error

	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch club session: %w", err)
	}

	return &session, nil
}

// Create inserts a new club session
func (r *ClubSessionRepository) Create(ctx context.Context, session *gormModels.ClubSession) error {
	if err := r.db.WithContext(ctx).Create(session).Error; err != nil {
		return fmt.Errorf("failed to create club session: %w", err)
	}
	return nil
}

// Update persists changes on an existing club session
func (r *ClubSessionRepository) Update(ctx context.Context, session *gormModels.ClubSession) error {
	if err := r.db.WithContext(ctx).Save(session).Error; err != nil {
		return fmt.Errorf("failed to update club session: %w", err)
	}
	return nil
}

// List retrieves sessions of a kind, optionally filtered by status, with
// proposals preloaded, most recent start first
func (r *ClubSessionRepository) List(ctx context.Context, kind constants.MediaKind, status string) ([]gormModels.ClubSession, error) {
	query := r.db.WithContext(ctx).
		Preload("Proposal").
		Where("kind = ?", kind)

	if status != "" && status != "all" {
		query = query.Where("status = ?", status)
	}

	var sessions []gormModels.ClubSession
	if err := query.Order("start_date DESC").Find(&sessions).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch club sessions: %w", err)
	}

	return sessions, nil
}

// ListNonTerminal retrieves every session still subject to status refresh.
// Completed and archived sessions are sticky and never revisited.
func (r *ClubSessionRepository) ListNonTerminal(ctx context.Context) ([]gormModels.ClubSession, error) {
	var sessions []gormModels.ClubSession

	err := r.db.WithContext(ctx).
		Where("status IN ?", []constants.ClubSessionStatus{
			constants.SessionUpcoming,
			constants.SessionCurrent,
		}).
		Find(&sessions).Error

	if err != nil {
		return nil, fmt.Errorf("failed to fetch club sessions: %w", err)
	}

	return sessions, nil
}

// HasCompletedSessionForProposal reports whether a completed or archived
// session exists for the proposal. Reviews require one.
func (r *ClubSessionRepository) HasCompletedSessionForProposal(ctx context.Context, proposalID string) (bool, error) {
	var count int64

	err := r.db.WithContext(ctx).
		Model(&gormModels.ClubSession{}).
		Where("proposal_id = ? AND status IN ?", proposalID, []constants.ClubSessionStatus{
			constants.SessionCompleted,
			constants.SessionArchived,
		}).
		Count(&count).Error

	if err != nil {
		return false, fmt.Errorf("failed to count completed sessions: %w", err)
	}

	return count > 0, nil
}

// Delete removes a session and its participations in one transaction
func (r *ClubSessionRepository) Delete(ctx context.Context, sessionID string) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("club_session_id = ?", sessionID).Delete(&gormModels.Participation{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", sessionID).Delete(&gormModels.ClubSession{}).Error
	})
	if err != nil {
		return fmt.Errorf("failed to delete club session: %w", err)
	}
	return nil
}

// AddParticipant registers a user on a session. Returns false if the user
// was already registered.
func (r *ClubSessionRepository) AddParticipant(ctx context.Context, sessionID, userID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&gormModels.Participation{}).
		Where("club_session_id = ? AND user_id = ?", sessionID, userID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check participation: %w", err)
	}
	if count > 0 {
		return false, nil
	}

	participation := gormModels.Participation{
		UserID:        userID,
		ClubSessionID: sessionID,
	}
	if err := r.db.WithContext(ctx).Create(&participation).Error; err != nil {
		return false, fmt.Errorf("failed to create participation: %w", err)
	}

	return true, nil
}

// RemoveParticipant drops a user's registration. Returns false if the user
// was not registered.
func (r *ClubSessionRepository) RemoveParticipant(ctx context.Context, sessionID, userID string) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("club_session_id = ? AND user_id = ?", sessionID, userID).
		Delete(&gormModels.Participation{})

	if result.Error != nil {
		return false, fmt.Errorf("failed to delete participation: %w", result.Error)
	}

	return result.RowsAffected > 0, nil
}

// IsParticipant reports whether a user is registered on a session
func (r *ClubSessionRepository) IsParticipant(ctx context.Context, sessionID, userID string) (bool, error) {
	var count int64

	err := r.db.WithContext(ctx).
		Model(&gormModels.Participation{}).
		Where("club_session_id = ? AND user_id = ?", sessionID, userID).
		Count(&count).Error

	if err != nil {
		return false, fmt.Errorf("failed to check participation: %w", err)
	}

	return count > 0, nil
}
