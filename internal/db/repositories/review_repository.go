package repositories

import (
	"context"
	"fmt"

	gormModels "biblioruche/hive/internal/models/gorm"

	"gorm.io/gorm"
)

// ReviewRepository handles review table operations using GORM
type ReviewRepository struct {
	db *gorm.DB
}

// NewReviewRepository creates a new GORM-based review repository
func NewReviewRepository(db *gorm.DB) *ReviewRepository {
	return &ReviewRepository{db: db}
}

// GetByID retrieves a review by its ID
func (r *ReviewRepository) GetByID(ctx context.Context, reviewID string) (*gormModels.Review, error) {
	var review gormModels.Review

	err := r.db.WithContext(ctx).
		Preload("User").
		Where("id = ?", reviewID).
		First(&review).Error

	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch review: %w", err)
	}

	return &review, nil
}

// GetByUserAndProposal retrieves a user's review of one work, if any
func (r *ReviewRepository) GetByUserAndProposal(ctx context.Context, userID, proposalID string) (*gormModels.Review, error) {
	var review gormModels.Review

	err := r.db.WithContext(ctx).
		Where("user_id = ? AND proposal_id = ?", userID, proposalID).
		First(&review).Error

	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch review: %w", err)
	}

	return &review, nil
}

// Create inserts a new review
func (r *ReviewRepository) Create(ctx context.Context, review *gormModels.Review) error {
	if err := r.db.WithContext(ctx).Create(review).Error; err != nil {
		return fmt.Errorf("failed to create review: %w", err)
	}
	return nil
}

// Update persists changes on an existing review
func (r *ReviewRepository) Update(ctx context.Context, review *gormModels.Review) error {
	if err := r.db.WithContext(ctx).Save(review).Error; err != nil {
		return fmt.Errorf("failed to update review: %w", err)
	}
	return nil
}

// ListVisibleByProposal retrieves visible reviews of a work, newest first
func (r *ReviewRepository) ListVisibleByProposal(ctx context.Context, proposalID string) ([]gormModels.Review, error) {
	var reviews []gormModels.Review

	err := r.db.WithContext(ctx).
		Preload("User").
		Where("proposal_id = ? AND is_visible = ?", proposalID, true).
		Order("created_at DESC").
		Find(&reviews).Error

	if err != nil {
		return nil, fmt.Errorf("failed to fetch reviews: %w", err)
	}

	return reviews, nil
}

// ListByUser retrieves all of a user's reviews, hidden ones included, so the
// author can still see what moderation removed
func (r *ReviewRepository) ListByUser(ctx context.Context, userID string) ([]gormModels.Review, error) {
	var reviews []gormModels.Review

	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&reviews).Error

	if err != nil {
		return nil, fmt.Errorf("failed to fetch reviews: %w", err)
	}

	return reviews, nil
}

// AverageRatingByProposal computes the mean rating over visible reviews.
// Returns (0, 0) when no visible review exists.
func (r *ReviewRepository) AverageRatingByProposal(ctx context.Context, proposalID string) (float64, int64, error) {
	type aggregate struct {
		Avg   float64
		Count int64
	}
	var agg aggregate

	err := r.db.WithContext(ctx).
		Model(&gormModels.Review{}).
		Select("COALESCE(AVG(rating), 0) AS avg, COUNT(*) AS count").
		Where("proposal_id = ? AND is_visible = ?", proposalID, true).
		Scan(&agg).Error

	if err != nil {
		return 0, 0, fmt.Errorf("failed to aggregate ratings: %w", err)
	}

	return agg.Avg, agg.Count, nil
}
