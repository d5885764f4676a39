package repositories

import (
	"context"
	"fmt"

	"biblioruche/hive/internal/constants"
	gormModels "biblioruche/hive/internal/models/gorm"

	"gorm.io/gorm"
)

// ProposalRepository handles proposal table operations using GORM
type ProposalRepository struct {
	db *gorm.DB
}

// NewProposalRepository creates a new GORM-based proposal repository
func NewProposalRepository(db *gorm.DB) *ProposalRepository {
	return &ProposalRepository{db: db}
}

// GetByID retrieves a proposal by its ID
func (r *ProposalRepository) GetByID(ctx context.Context, proposalID string) (*gormModels.Proposal, error) {
	var proposal gormModels.Proposal

	err := r.db.WithContext(ctx).
		Where("id = ?", proposalID).
		First(&proposal).Error

	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch proposal: %w", err)
	}

	return &proposal, nil
}

// Create inserts a new proposal
func (r *ProposalRepository) Create(ctx context.Context, proposal *gormModels.Proposal) error {
	if err := r.db.WithContext(ctx).Create(proposal).Error; err != nil {
		return fmt.Errorf("failed to create proposal: %w", err)
	}
	return nil
}

// Update persists changes on an existing proposal
func (r *ProposalRepository) Update(ctx context.Context, proposal *gormModels.Proposal) error {
	if err := r.db.WithContext(ctx).Save(proposal).Error; err != nil {
		return fmt.Errorf("failed to update proposal: %w", err)
	}
	return nil
}

// UpdateStatus flips a proposal's lifecycle status
func (r *ProposalRepository) UpdateStatus(ctx context.Context, proposalID string, status constants.ProposalStatus) error {
	result := r.db.WithContext(ctx).
		Model(&gormModels.Proposal{}).
		Where("id = ?", proposalID).
		Update("status", status)

	if result.Error != nil {
		return fmt.Errorf("failed to update proposal status: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("proposal not found with ID: %s", proposalID)
	}

	return nil
}

// List retrieves a page of proposals for a club, optionally filtered by status.
// Returns the page plus the total row count for the filter.
func (r *ProposalRepository) List(ctx context.Context, kind constants.MediaKind, status string, page, perPage int) ([]gormModels.Proposal, int64, error) {
	query := r.db.WithContext(ctx).
		Model(&gormModels.Proposal{}).
		Where("kind = ?", kind)

	if status != "" && status != "all" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count proposals: %w", err)
	}

	var proposals []gormModels.Proposal
	err := query.
		Order("created_at DESC").
		Offset((page - 1) * perPage).
		Limit(perPage).
		Find(&proposals).Error

	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch proposals: %w", err)
	}

	return proposals, total, nil
}

// ListByStatus retrieves all proposals of a kind in one status, newest first
func (r *ProposalRepository) ListByStatus(ctx context.Context, kind constants.MediaKind, status constants.ProposalStatus) ([]gormModels.Proposal, error) {
	var proposals []gormModels.Proposal

	err := r.db.WithContext(ctx).
		Where("kind = ? AND status = ?", kind, status).
		Order("created_at DESC").
		Find(&proposals).Error

	if err != nil {
		return nil, fmt.Errorf("failed to fetch proposals: %w", err)
	}

	return proposals, nil
}

// GetPendingByIDs loads the subset of the given proposals still pending.
// Bulk moderation only transitions pending items; the rest are skipped.
func (r *ProposalRepository) GetPendingByIDs(ctx context.Context, ids []string) ([]gormModels.Proposal, error) {
	var proposals []gormModels.Proposal

	err := r.db.WithContext(ctx).
		Where("id IN ? AND status = ?", ids, constants.ProposalPending).
		Find(&proposals).Error

	if err != nil {
		return nil, fmt.Errorf("failed to fetch proposals: %w", err)
	}

	return proposals, nil
}

// DeleteRejected hard-deletes rejected proposals. Only the retention cleanup
// uses hard deletes.
func (r *ProposalRepository) DeleteRejected(ctx context.Context) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("status = ?", constants.ProposalRejected).
		Delete(&gormModels.Proposal{})

	if result.Error != nil {
		return 0, fmt.Errorf("failed to delete rejected proposals: %w", result.Error)
	}

	return result.RowsAffected, nil
}
