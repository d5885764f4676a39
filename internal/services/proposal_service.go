package services

import (
	"context"
	"fmt"

	"biblioruche/hive/internal/common"
	"biblioruche/hive/internal/constants"
	"biblioruche/hive/internal/db/repositories"
	"biblioruche/hive/internal/logging"
	"biblioruche/hive/internal/metrics"
	"biblioruche/hive/internal/models/dtos"
	gormModels "biblioruche/hive/internal/models/gorm"
)

// ProposalService handles proposal submission, listing and moderation for
// both clubs.
type ProposalService struct {
	proposalRepo *repositories.ProposalRepository
	reviewRepo   *repositories.ReviewRepository
	statsRepo    *repositories.StatsRepository
	badges       BadgeEvaluator
	notifier     BadgeNotifier
	metrics      *metrics.MetricsRegistry
}

func NewProposalService(
	proposalRepo *repositories.ProposalRepository,
	reviewRepo *repositories.ReviewRepository,
	statsRepo *repositories.StatsRepository,
	badges BadgeEvaluator,
	notifier BadgeNotifier,
	reg *metrics.MetricsRegistry,
) *ProposalService {
	return &ProposalService{
		proposalRepo: proposalRepo,
		reviewRepo:   reviewRepo,
		statsRepo:    statsRepo,
		badges:       badges,
		notifier:     notifier,
		metrics:      reg,
	}
}

// Submit records a new pending proposal from a member
func (s *ProposalService) Submit(ctx context.Context, userID string, req *dtos.ProposalSubmitReq) (*gormModels.Proposal, error) {
	kind := constants.MediaKind(req.Kind)
	if !kind.Valid() {
		return nil, fmt.Errorf("%w: kind must be book or film", ErrInvalidInput)
	}

	title := common.SanitizeInput(req.Title)
	author := common.SanitizeInput(req.Author)
	if title == "" || author == "" {
		return nil, fmt.Errorf("%w: title and author are required", ErrInvalidInput)
	}

	proposal := &gormModels.Proposal{
		Kind:        kind,
		Title:       title,
		Author:      author,
		Description: common.SanitizeInputPtr(req.Description),
		ISBN:        req.ISBN,
		Publisher:   common.SanitizeInputPtr(req.Publisher),
		PubYear:     req.PubYear,
		PagesCount:  req.PagesCount,
		Genre:       common.SanitizeInputPtr(req.Genre),
		Duration:    req.Duration,
		PosterURL:   req.PosterURL,
		ProposedBy:  userID,
		Status:      constants.ProposalPending,
	}

	if err := s.proposalRepo.Create(ctx, proposal); err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.ProposalsSubmittedTotal.WithLabelValues(kind.String()).Inc()
	}
	logging.Info("Proposal submitted", "proposal_id", proposal.ID, "kind", kind, "user_id", userID)

	if s.badges != nil {
		if _, err := s.badges.EvaluateUser(ctx, userID); err != nil {
			logging.Warn("Badge evaluation failed after proposal", "user_id", userID, "error", err)
		}
	}

	return proposal, nil
}

// Edit updates the details of a proposal. The proposer can fix their own
// submission while it is still pending; admins can edit at any point.
func (s *ProposalService) Edit(ctx context.Context, actorID string, isAdmin bool, proposalID string, req *dtos.ProposalEditReq) (*gormModels.Proposal, error) {
	proposal, err := s.proposalRepo.GetByID(ctx, proposalID)
	if err != nil {
		return nil, err
	}
	if proposal == nil {
		return nil, ErrNotFound
	}

	if !isAdmin {
		if proposal.ProposedBy != actorID {
			return nil, ErrForbidden
		}
		if proposal.Status != constants.ProposalPending {
			return nil, fmt.Errorf("%w: seule une proposition en attente peut être modifiée", ErrInvalidInput)
		}
	}

	if req.Title != nil {
		title := common.SanitizeInput(*req.Title)
		if title == "" {
			return nil, fmt.Errorf("%w: title cannot be empty", ErrInvalidInput)
		}
		proposal.Title = title
	}
	if req.Author != nil {
		author := common.SanitizeInput(*req.Author)
		if author == "" {
			return nil, fmt.Errorf("%w: author cannot be empty", ErrInvalidInput)
		}
		proposal.Author = author
	}
	if req.Description != nil {
		proposal.Description = common.SanitizeInputPtr(req.Description)
	}
	if req.ISBN != nil {
		proposal.ISBN = req.ISBN
	}
	if req.Publisher != nil {
		proposal.Publisher = common.SanitizeInputPtr(req.Publisher)
	}
	if req.PubYear != nil {
		proposal.PubYear = req.PubYear
	}
	if req.PagesCount != nil {
		proposal.PagesCount = req.PagesCount
	}
	if req.Genre != nil {
		proposal.Genre = common.SanitizeInputPtr(req.Genre)
	}
	if req.Duration != nil {
		proposal.Duration = req.Duration
	}
	if req.PosterURL != nil {
		proposal.PosterURL = req.PosterURL
	}

	if err := s.proposalRepo.Update(ctx, proposal); err != nil {
		return nil, err
	}

	logging.Info("Proposal edited", "proposal_id", proposalID, "user_id", actorID, "admin", isAdmin)
	return proposal, nil
}

// Get returns a proposal with its rating aggregate
func (s *ProposalService) Get(ctx context.Context, proposalID string) (*dtos.ProposalResponse, error) {
	proposal, err := s.proposalRepo.GetByID(ctx, proposalID)
	if err != nil {
		return nil, err
	}
	if proposal == nil {
		return nil, ErrNotFound
	}

	resp := toProposalResponse(proposal)
	avg, count, err := s.reviewRepo.AverageRatingByProposal(ctx, proposalID)
	if err != nil {
		return nil, err
	}
	resp.AvgRating = avg
	resp.ReviewCount = int(count)

	return &resp, nil
}

// List returns a filtered page plus the per-status counts for the kind
func (s *ProposalService) List(ctx context.Context, kind constants.MediaKind, status string, page, perPage int) (*dtos.ProposalListResponse, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("%w: kind must be book or film", ErrInvalidInput)
	}
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}

	proposals, total, err := s.proposalRepo.List(ctx, kind, status, page, perPage)
	if err != nil {
		return nil, err
	}

	counts, err := s.statsRepo.CountProposalsByStatus(ctx, kind)
	if err != nil {
		return nil, err
	}

	resp := &dtos.ProposalListResponse{
		Proposals: make([]dtos.ProposalResponse, 0, len(proposals)),
		Page:      page,
		PerPage:   perPage,
		Total:     total,
		Counts:    counts,
	}
	for i := range proposals {
		resp.Proposals = append(resp.Proposals, toProposalResponse(&proposals[i]))
	}

	return resp, nil
}

// Moderate approves or rejects one pending proposal. Approval notifies the
// proposer and re-evaluates their badges.
func (s *ProposalService) Moderate(ctx context.Context, proposalID string, approve bool) (*gormModels.Proposal, error) {
	proposal, err := s.proposalRepo.GetByID(ctx, proposalID)
	if err != nil {
		return nil, err
	}
	if proposal == nil {
		return nil, ErrNotFound
	}
	if proposal.Status != constants.ProposalPending {
		return nil, fmt.Errorf("%w: la proposition a déjà été traitée", ErrInvalidInput)
	}

	status := constants.ProposalRejected
	if approve {
		status = constants.ProposalApproved
	}
	if err := s.proposalRepo.UpdateStatus(ctx, proposalID, status); err != nil {
		return nil, err
	}
	proposal.Status = status

	logging.Info("Proposal moderated", "proposal_id", proposalID, "status", status)

	if approve {
		if s.notifier != nil {
			link := "/proposals/" + proposalID
			message := fmt.Sprintf("Votre proposition « %s » a été acceptée", proposal.Title)
			if err := s.notifier.Notify(ctx, proposal.ProposedBy, "proposal_approved", "Proposition acceptée", message, &link, nil); err != nil {
				logging.Warn("Approval notification failed", "proposal_id", proposalID, "error", err)
			}
		}
		if s.badges != nil {
			if _, err := s.badges.EvaluateUser(ctx, proposal.ProposedBy); err != nil {
				logging.Warn("Badge evaluation failed after approval", "user_id", proposal.ProposedBy, "error", err)
			}
		}
	}

	return proposal, nil
}

// BulkModerate applies approve or reject to a batch. Items no longer pending
// are counted as skipped, not errors.
func (s *ProposalService) BulkModerate(ctx context.Context, req *dtos.BulkProposalReq) (*dtos.BulkActionResponse, error) {
	if req.Action != "approve" && req.Action != "reject" {
		return nil, fmt.Errorf("%w: action must be approve or reject", ErrInvalidInput)
	}
	if len(req.ProposalIDs) == 0 {
		return nil, fmt.Errorf("%w: proposal_ids is empty", ErrInvalidInput)
	}

	pending, err := s.proposalRepo.GetPendingByIDs(ctx, req.ProposalIDs)
	if err != nil {
		return nil, err
	}

	result := &dtos.BulkActionResponse{Skipped: len(req.ProposalIDs) - len(pending)}
	for i := range pending {
		if _, err := s.Moderate(ctx, pending[i].ID, req.Action == "approve"); err != nil {
			result.Skipped++
			continue
		}
		result.Applied++
	}

	logging.Info("Bulk moderation done", "action", req.Action, "applied", result.Applied, "skipped", result.Skipped)
	return result, nil
}

func toProposalResponse(p *gormModels.Proposal) dtos.ProposalResponse {
	return dtos.ProposalResponse{
		ID:          p.ID,
		Kind:        p.Kind.String(),
		Title:       p.Title,
		Author:      p.Author,
		Description: p.Description,
		ISBN:        p.ISBN,
		Publisher:   p.Publisher,
		PubYear:     p.PubYear,
		PagesCount:  p.PagesCount,
		Genre:       p.Genre,
		Duration:    p.Duration,
		PosterURL:   p.PosterURL,
		Status:      p.Status.String(),
		ProposedBy:  p.ProposedBy,
		CreatedAt:   p.CreatedAt,
	}
}
