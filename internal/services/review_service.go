package services

import (
	"context"
	"fmt"

	"biblioruche/hive/internal/common"
	"biblioruche/hive/internal/db/repositories"
	"biblioruche/hive/internal/logging"
	"biblioruche/hive/internal/models/dtos"
	gormModels "biblioruche/hive/internal/models/gorm"
)

// ReviewService handles ratings and comments. A work becomes reviewable once
// a completed session exists for it; one review per user and work, editable.
type ReviewService struct {
	reviewRepo   *repositories.ReviewRepository
	proposalRepo *repositories.ProposalRepository
	sessionRepo  *repositories.ClubSessionRepository
	badges       BadgeEvaluator
}

func NewReviewService(
	reviewRepo *repositories.ReviewRepository,
	proposalRepo *repositories.ProposalRepository,
	sessionRepo *repositories.ClubSessionRepository,
	badges BadgeEvaluator,
) *ReviewService {
	return &ReviewService{
		reviewRepo:   reviewRepo,
		proposalRepo: proposalRepo,
		sessionRepo:  sessionRepo,
		badges:       badges,
	}
}

// Submit creates the caller's review of a work, or updates it in place.
// An edit resets the moderation flag.
func (s *ReviewService) Submit(ctx context.Context, userID, proposalID string, req *dtos.ReviewSubmitReq) (*gormModels.Review, error) {
	if req.Rating < 1 || req.Rating > 5 {
		return nil, fmt.Errorf("%w: rating must be between 1 and 5", ErrInvalidInput)
	}

	proposal, err := s.proposalRepo.GetByID(ctx, proposalID)
	if err != nil {
		return nil, err
	}
	if proposal == nil {
		return nil, ErrNotFound
	}

	reviewable, err := s.sessionRepo.HasCompletedSessionForProposal(ctx, proposalID)
	if err != nil {
		return nil, err
	}
	if !reviewable {
		return nil, ErrNotReviewable
	}

	comment := common.SanitizeInputPtr(req.Comment)

	existing, err := s.reviewRepo.GetByUserAndProposal(ctx, userID, proposalID)
	if err != nil {
		return nil, err
	}

	if existing != nil {
		existing.Rating = req.Rating
		existing.Comment = comment
		existing.IsModerated = false
		existing.IsVisible = true
		if err := s.reviewRepo.Update(ctx, existing); err != nil {
			return nil, err
		}
		logging.Info("Review updated", "review_id", existing.ID, "user_id", userID)
		return existing, nil
	}

	review := &gormModels.Review{
		UserID:     userID,
		ProposalID: proposalID,
		Rating:     req.Rating,
		Comment:    comment,
	}
	if err := s.reviewRepo.Create(ctx, review); err != nil {
		return nil, err
	}
	logging.Info("Review created", "review_id", review.ID, "user_id", userID, "proposal_id", proposalID)

	if s.badges != nil {
		if _, err := s.badges.EvaluateUser(ctx, userID); err != nil {
			logging.Warn("Badge evaluation failed after review", "user_id", userID, "error", err)
		}
	}

	return review, nil
}

// Moderate sets visibility flags on a review. Admin action.
func (s *ReviewService) Moderate(ctx context.Context, reviewID string, req *dtos.ReviewModerateReq) (*gormModels.Review, error) {
	review, err := s.reviewRepo.GetByID(ctx, reviewID)
	if err != nil {
		return nil, err
	}
	if review == nil {
		return nil, ErrNotFound
	}

	review.IsVisible = req.IsVisible
	review.IsModerated = req.IsModerated
	if err := s.reviewRepo.Update(ctx, review); err != nil {
		return nil, err
	}

	logging.Info("Review moderated", "review_id", reviewID, "visible", req.IsVisible)
	return review, nil
}

// ListForProposal returns a work's visible reviews plus the rating aggregate
func (s *ReviewService) ListForProposal(ctx context.Context, proposalID string) ([]dtos.ReviewResponse, float64, error) {
	reviews, err := s.reviewRepo.ListVisibleByProposal(ctx, proposalID)
	if err != nil {
		return nil, 0, err
	}

	avg, _, err := s.reviewRepo.AverageRatingByProposal(ctx, proposalID)
	if err != nil {
		return nil, 0, err
	}

	out := make([]dtos.ReviewResponse, 0, len(reviews))
	for i := range reviews {
		out = append(out, toReviewResponse(&reviews[i]))
	}
	return out, avg, nil
}

// ListForUser returns every review the user wrote, hidden ones included
func (s *ReviewService) ListForUser(ctx context.Context, userID string) ([]dtos.ReviewResponse, error) {
	reviews, err := s.reviewRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	out := make([]dtos.ReviewResponse, 0, len(reviews))
	for i := range reviews {
		out = append(out, toReviewResponse(&reviews[i]))
	}
	return out, nil
}

func toReviewResponse(r *gormModels.Review) dtos.ReviewResponse {
	return dtos.ReviewResponse{
		ID:          r.ID,
		UserID:      r.UserID,
		Username:    r.User.Username,
		ProposalID:  r.ProposalID,
		Rating:      r.Rating,
		Comment:     r.Comment,
		IsVisible:   r.IsVisible,
		IsModerated: r.IsModerated,
		CreatedAt:   r.CreatedAt,
	}
}
