package services

import (
	"context"
	"fmt"
	"time"

	"biblioruche/hive/internal/common"
	"biblioruche/hive/internal/constants"
	"biblioruche/hive/internal/db/repositories"
	"biblioruche/hive/internal/logging"
	"biblioruche/hive/internal/metrics"
	"biblioruche/hive/internal/models/dtos"
	gormModels "biblioruche/hive/internal/models/gorm"
)

// Broadcaster enqueues a notification fan-out to all users.
type Broadcaster interface {
	Broadcast(ctx context.Context, item *common.BroadcastItem) error
}

// VotingService runs the whole voting lifecycle: session creation with a
// fixed option set, ballot replacement, tallying and the multi-winner close.
type VotingService struct {
	votingRepo   *repositories.VotingRepository
	proposalRepo *repositories.ProposalRepository
	broadcaster  Broadcaster
	metrics      *metrics.MetricsRegistry
	now          func() time.Time
}

func NewVotingService(
	votingRepo *repositories.VotingRepository,
	proposalRepo *repositories.ProposalRepository,
	broadcaster Broadcaster,
	reg *metrics.MetricsRegistry,
) *VotingService {
	return &VotingService{
		votingRepo:   votingRepo,
		proposalRepo: proposalRepo,
		broadcaster:  broadcaster,
		metrics:      reg,
		now:          time.Now,
	}
}

// CreateSession opens a vote over a fixed set of approved proposals. The
// option set cannot change afterwards.
func (s *VotingService) CreateSession(ctx context.Context, adminID string, req *dtos.VotingSessionCreateReq) (*gormModels.VotingSession, error) {
	kind := constants.MediaKind(req.Kind)
	if !kind.Valid() {
		return nil, fmt.Errorf("%w: kind must be book or film", ErrInvalidInput)
	}
	if req.Title == "" {
		return nil, fmt.Errorf("%w: title is required", ErrInvalidInput)
	}
	// A single option is allowed: a one-option vote acts as a confirmation.
	if len(req.ProposalIDs) < 1 {
		return nil, fmt.Errorf("%w: at least one proposal is required", ErrInvalidInput)
	}

	endDate, err := common.ParseDate(req.EndDate)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid end_date", ErrInvalidInput)
	}
	end := common.EndOfDay(endDate)
	if end.Before(s.now()) {
		return nil, fmt.Errorf("%w: end_date is in the past", ErrInvalidInput)
	}

	seen := make(map[string]bool, len(req.ProposalIDs))
	for _, id := range req.ProposalIDs {
		if seen[id] {
			return nil, fmt.Errorf("%w: duplicate proposal %s", ErrInvalidInput, id)
		}
		seen[id] = true

		proposal, err := s.proposalRepo.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if proposal == nil {
			return nil, fmt.Errorf("%w: proposal %s", ErrNotFound, id)
		}
		if proposal.Kind != kind {
			return nil, fmt.Errorf("%w: proposal %s is not a %s", ErrInvalidInput, id, kind)
		}
		if proposal.Status != constants.ProposalApproved {
			return nil, fmt.Errorf("%w: proposal %s is not approved", ErrInvalidInput, id)
		}
	}

	session := &gormModels.VotingSession{
		Kind:        kind,
		Title:       common.SanitizeInput(req.Title),
		Description: common.SanitizeInputPtr(req.Description),
		EndDate:     end,
		Status:      constants.VotingActive,
		CreatedBy:   adminID,
	}

	if err := s.votingRepo.CreateSession(ctx, session, req.ProposalIDs); err != nil {
		return nil, err
	}

	logging.Info("Voting session created", "session_id", session.ID, "kind", kind, "options", len(req.ProposalIDs))

	if s.broadcaster != nil {
		link := "/votes/" + session.ID
		if err := s.broadcaster.Broadcast(ctx, &common.BroadcastItem{
			Type:    "vote_opened",
			Title:   "Nouveau vote ouvert",
			Message: fmt.Sprintf("Le vote « %s » est ouvert jusqu'au %s", session.Title, end.Format("02/01/2006")),
			Link:    &link,
		}); err != nil {
			logging.Warn("Vote open broadcast failed", "error", err)
		}
	}

	return session, nil
}

// EditSession updates title, description or end date while the vote is
// still active. Closed sessions are immutable.
func (s *VotingService) EditSession(ctx context.Context, sessionID string, req *dtos.VotingSessionEditReq) (*gormModels.VotingSession, error) {
	session, err := s.votingRepo.GetByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, ErrNotFound
	}
	if session.Status != constants.VotingActive {
		return nil, ErrVoteClosed
	}

	if req.Title != nil && *req.Title != "" {
		session.Title = common.SanitizeInput(*req.Title)
	}
	if req.Description != nil {
		session.Description = common.SanitizeInputPtr(req.Description)
	}
	if req.EndDate != nil {
		endDate, err := common.ParseDate(*req.EndDate)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid end_date", ErrInvalidInput)
		}
		session.EndDate = common.EndOfDay(endDate)
	}

	if err := s.votingRepo.Update(ctx, session); err != nil {
		return nil, err
	}

	return session, nil
}

// SubmitBallot replaces the caller's whole ballot set for the session.
// Every submitted option must belong to the session; duplicates are
// rejected rather than silently collapsed.
func (s *VotingService) SubmitBallot(ctx context.Context, userID, sessionID string, optionIDs []string) error {
	session, err := s.votingRepo.GetByID(ctx, sessionID)
	if err != nil {
		return err
	}
	if session == nil {
		return ErrNotFound
	}
	if session.Status != constants.VotingActive {
		return ErrVoteClosed
	}
	if session.Expired(s.now()) {
		return ErrVoteExpired
	}
	if len(optionIDs) == 0 {
		return fmt.Errorf("%w: at least one option is required", ErrInvalidInput)
	}

	valid := make(map[string]bool, len(session.Options))
	for _, option := range session.Options {
		valid[option.ID] = true
	}

	seen := make(map[string]bool, len(optionIDs))
	for _, id := range optionIDs {
		if !valid[id] {
			return fmt.Errorf("%w: unknown option %s", ErrInvalidInput, id)
		}
		if seen[id] {
			return fmt.Errorf("%w: duplicate option %s", ErrInvalidInput, id)
		}
		seen[id] = true
	}

	if err := s.votingRepo.ReplaceBallots(ctx, userID, sessionID, optionIDs); err != nil {
		return err
	}

	if s.metrics != nil {
		s.metrics.BallotsCastTotal.WithLabelValues(session.Kind.String()).Add(float64(len(optionIDs)))
	}

	logging.Info("Ballots recorded", "session_id", sessionID, "user_id", userID, "count", len(optionIDs))
	return nil
}

// CloseSession tallies and closes an active vote. Every option tied at the
// maximum wins and its proposal moves to selected; with a single winner the
// session also records it. A vote with zero ballots closes without winners
// and without touching any proposal.
func (s *VotingService) CloseSession(ctx context.Context, sessionID string) (*dtos.CloseVoteResponse, error) {
	session, err := s.votingRepo.GetByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, ErrNotFound
	}
	if session.Status != constants.VotingActive {
		return nil, ErrVoteClosed
	}

	counts, err := s.votingRepo.CountBallotsByOption(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	var max int64
	for _, count := range counts {
		if count > max {
			max = count
		}
	}

	result := &dtos.CloseVoteResponse{SessionID: sessionID, MaxBallots: max}

	if max > 0 {
		optionProposal := make(map[string]string, len(session.Options))
		for _, option := range session.Options {
			optionProposal[option.ID] = option.ProposalID
		}

		for _, option := range session.Options {
			if counts[option.ID] != max {
				continue
			}
			proposalID := optionProposal[option.ID]
			if err := s.proposalRepo.UpdateStatus(ctx, proposalID, constants.ProposalSelected); err != nil {
				return nil, err
			}
			result.WinnerProposals = append(result.WinnerProposals, proposalID)
		}

		if len(result.WinnerProposals) == 1 {
			session.WinnerProposalID = &result.WinnerProposals[0]
			result.WinnerProposalID = session.WinnerProposalID
		}
	}

	session.Status = constants.VotingClosed
	if err := s.votingRepo.Update(ctx, session); err != nil {
		return nil, err
	}

	logging.Info("Voting session closed",
		"session_id", sessionID,
		"winners", len(result.WinnerProposals),
		"max_ballots", max,
	)

	if s.broadcaster != nil {
		link := "/votes/" + session.ID
		if err := s.broadcaster.Broadcast(ctx, &common.BroadcastItem{
			Type:    "vote_closed",
			Title:   "Résultats du vote",
			Message: fmt.Sprintf("Le vote « %s » est clos, les résultats sont disponibles", session.Title),
			Link:    &link,
		}); err != nil {
			logging.Warn("Vote close broadcast failed", "error", err)
		}
	}

	return result, nil
}

// GetSession assembles the public view of a vote. Tallies are only exposed
// once the vote is closed or expired, or to admins; each caller always sees
// their own picks.
func (s *VotingService) GetSession(ctx context.Context, sessionID, viewerID string, viewerIsAdmin bool) (*dtos.VotingSessionResponse, error) {
	session, err := s.votingRepo.GetByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, ErrNotFound
	}

	return s.buildResponse(ctx, session, viewerID, viewerIsAdmin)
}

// ListSessions returns a kind's sessions in one status as full responses
func (s *VotingService) ListSessions(ctx context.Context, kind constants.MediaKind, status constants.VotingStatus, viewerID string, viewerIsAdmin bool) ([]dtos.VotingSessionResponse, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("%w: kind must be book or film", ErrInvalidInput)
	}

	sessions, err := s.votingRepo.ListByStatus(ctx, kind, status)
	if err != nil {
		return nil, err
	}

	out := make([]dtos.VotingSessionResponse, 0, len(sessions))
	for i := range sessions {
		// Options are not preloaded by the list query; fetch each session.
		full, err := s.votingRepo.GetByID(ctx, sessions[i].ID)
		if err != nil {
			return nil, err
		}
		resp, err := s.buildResponse(ctx, full, viewerID, viewerIsAdmin)
		if err != nil {
			return nil, err
		}
		out = append(out, *resp)
	}

	return out, nil
}

func (s *VotingService) buildResponse(ctx context.Context, session *gormModels.VotingSession, viewerID string, viewerIsAdmin bool) (*dtos.VotingSessionResponse, error) {
	expired := session.Expired(s.now())
	showResults := viewerIsAdmin || session.Status == constants.VotingClosed || expired

	resp := &dtos.VotingSessionResponse{
		ID:               session.ID,
		Kind:             session.Kind.String(),
		Title:            session.Title,
		Description:      session.Description,
		StartDate:        session.StartDate,
		EndDate:          session.EndDate,
		Status:           session.Status.String(),
		Expired:          expired,
		WinnerProposalID: session.WinnerProposalID,
		ShowResults:      showResults,
	}

	var counts map[string]int64
	var total int64
	if showResults {
		var err error
		counts, err = s.votingRepo.CountBallotsByOption(ctx, session.ID)
		if err != nil {
			return nil, err
		}
		for _, c := range counts {
			total += c
		}
	}

	for _, option := range session.Options {
		item := dtos.VoteOptionResult{
			OptionID: option.ID,
			Proposal: option.ProposalID,
			Title:    option.Proposal.Title,
			Author:   option.Proposal.Author,
		}
		if showResults {
			item.Count = counts[option.ID]
			if total > 0 {
				item.Percentage = float64(item.Count) / float64(total) * 100
			}
			if viewerIsAdmin {
				voters, err := s.votingRepo.ListVotersByOption(ctx, option.ID)
				if err != nil {
					return nil, err
				}
				for _, voter := range voters {
					item.Voters = append(item.Voters, dtos.UserSummary{
						ID:          voter.ID,
						Username:    voter.Username,
						DisplayName: voter.DisplayName,
						AvatarURL:   voter.AvatarURL,
						IsAdmin:     voter.IsAdmin,
					})
				}
			}
		}
		resp.Options = append(resp.Options, item)
	}

	if viewerID != "" {
		ballots, err := s.votingRepo.GetUserBallots(ctx, viewerID, session.ID)
		if err != nil {
			return nil, err
		}
		for _, ballot := range ballots {
			resp.UserOptionIDs = append(resp.UserOptionIDs, ballot.VoteOptionID)
		}
	}

	return resp, nil
}
