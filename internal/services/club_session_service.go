package services

import (
	"context"
	"fmt"
	"time"

	"biblioruche/hive/internal/common"
	"biblioruche/hive/internal/constants"
	"biblioruche/hive/internal/db/repositories"
	"biblioruche/hive/internal/logging"
	"biblioruche/hive/internal/models/dtos"
	gormModels "biblioruche/hive/internal/models/gorm"
)

// BadgeEvaluator re-checks a user's badges after an activity counter moved.
type BadgeEvaluator interface {
	EvaluateUser(ctx context.Context, userID string) ([]gormModels.Badge, error)
}

// ClubSessionService schedules reading and viewing sessions and tracks
// participation. Session status is derived from the dates; completed and
// archived are sticky and never recomputed.
type ClubSessionService struct {
	sessionRepo  *repositories.ClubSessionRepository
	proposalRepo *repositories.ProposalRepository
	badges       BadgeEvaluator
	broadcaster  Broadcaster
	now          func() time.Time
}

func NewClubSessionService(
	sessionRepo *repositories.ClubSessionRepository,
	proposalRepo *repositories.ProposalRepository,
	badges BadgeEvaluator,
	broadcaster Broadcaster,
) *ClubSessionService {
	return &ClubSessionService{
		sessionRepo:  sessionRepo,
		proposalRepo: proposalRepo,
		badges:       badges,
		broadcaster:  broadcaster,
		now:          time.Now,
	}
}

// StatusFor derives a session's status from its dates. Pure: the caller
// decides whether the stored value may be overwritten.
func StatusFor(start, end, now time.Time) constants.ClubSessionStatus {
	startOfDay := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, start.Location())
	if now.Before(startOfDay) {
		return constants.SessionUpcoming
	}
	if now.After(common.EndOfDay(end)) {
		return constants.SessionCompleted
	}
	return constants.SessionCurrent
}

// Create schedules a session around an existing selected proposal or an
// inline one. The proposal moves to in_progress.
func (s *ClubSessionService) Create(ctx context.Context, adminID string, req *dtos.ClubSessionCreateReq) (*gormModels.ClubSession, error) {
	kind := constants.MediaKind(req.Kind)
	if !kind.Valid() {
		return nil, fmt.Errorf("%w: kind must be book or film", ErrInvalidInput)
	}

	start, err := common.ParseDate(req.StartDate)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid start_date", ErrInvalidInput)
	}
	end, err := common.ParseDate(req.EndDate)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid end_date", ErrInvalidInput)
	}
	if end.Before(start) {
		return nil, fmt.Errorf("%w: end_date before start_date", ErrInvalidInput)
	}

	var debrief *time.Time
	if req.DebriefDate != nil {
		d, err := common.ParseDate(*req.DebriefDate)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid debrief_date", ErrInvalidInput)
		}
		debrief = &d
	}

	var proposalID string
	switch {
	case req.ProposalID != nil:
		proposal, err := s.proposalRepo.GetByID(ctx, *req.ProposalID)
		if err != nil {
			return nil, err
		}
		if proposal == nil {
			return nil, ErrNotFound
		}
		if proposal.Kind != kind {
			return nil, fmt.Errorf("%w: proposal kind mismatch", ErrInvalidInput)
		}
		proposalID = proposal.ID
	case req.NewProposal != nil:
		// Admin shortcut: the inline proposal skips moderation.
		proposal := &gormModels.Proposal{
			Kind:        kind,
			Title:       common.SanitizeInput(req.NewProposal.Title),
			Author:      common.SanitizeInput(req.NewProposal.Author),
			Description: common.SanitizeInputPtr(req.NewProposal.Description),
			ISBN:        req.NewProposal.ISBN,
			Publisher:   common.SanitizeInputPtr(req.NewProposal.Publisher),
			PubYear:     req.NewProposal.PubYear,
			PagesCount:  req.NewProposal.PagesCount,
			Genre:       common.SanitizeInputPtr(req.NewProposal.Genre),
			Duration:    req.NewProposal.Duration,
			PosterURL:   req.NewProposal.PosterURL,
			ProposedBy:  adminID,
			Status:      constants.ProposalSelected,
		}
		if proposal.Title == "" || proposal.Author == "" {
			return nil, fmt.Errorf("%w: title and author are required", ErrInvalidInput)
		}
		if err := s.proposalRepo.Create(ctx, proposal); err != nil {
			return nil, err
		}
		proposalID = proposal.ID
	default:
		return nil, fmt.Errorf("%w: proposal_id or new_proposal is required", ErrInvalidInput)
	}

	session := &gormModels.ClubSession{
		Kind:        kind,
		ProposalID:  proposalID,
		StartDate:   start,
		EndDate:     end,
		DebriefDate: debrief,
		Status:      StatusFor(start, end, s.now()),
		Description: common.SanitizeInputPtr(req.Description),
		CreatedBy:   adminID,
	}

	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return nil, err
	}
	if err := s.proposalRepo.UpdateStatus(ctx, proposalID, constants.ProposalInProgress); err != nil {
		return nil, err
	}

	logging.Info("Club session created", "session_id", session.ID, "kind", kind, "proposal_id", proposalID)

	if s.broadcaster != nil {
		link := "/sessions/" + session.ID
		label := "lecture commune"
		if kind == constants.KindFilm {
			label = "séance de visionnage"
		}
		if err := s.broadcaster.Broadcast(ctx, &common.BroadcastItem{
			Type:    "session_created",
			Title:   "Nouvelle " + label,
			Message: fmt.Sprintf("Une %s démarre le %s", label, start.Format("02/01/2006")),
			Link:    &link,
		}); err != nil {
			logging.Warn("Session broadcast failed", "error", err)
		}
	}

	return session, nil
}

// Edit updates dates and description, then re-derives the status unless the
// session already reached a terminal state.
func (s *ClubSessionService) Edit(ctx context.Context, sessionID string, req *dtos.ClubSessionEditReq) (*gormModels.ClubSession, error) {
	session, err := s.sessionRepo.GetByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, ErrNotFound
	}

	if req.StartDate != nil {
		start, err := common.ParseDate(*req.StartDate)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid start_date", ErrInvalidInput)
		}
		session.StartDate = start
	}
	if req.EndDate != nil {
		end, err := common.ParseDate(*req.EndDate)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid end_date", ErrInvalidInput)
		}
		session.EndDate = end
	}
	if session.EndDate.Before(session.StartDate) {
		return nil, fmt.Errorf("%w: end_date before start_date", ErrInvalidInput)
	}
	if req.DebriefDate != nil {
		d, err := common.ParseDate(*req.DebriefDate)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid debrief_date", ErrInvalidInput)
		}
		session.DebriefDate = &d
	}
	if req.Description != nil {
		session.Description = common.SanitizeInputPtr(req.Description)
	}

	if !session.Status.Terminal() {
		session.Status = StatusFor(session.StartDate, session.EndDate, s.now())
	}

	if err := s.sessionRepo.Update(ctx, session); err != nil {
		return nil, err
	}

	return session, nil
}

// RefreshStatuses re-derives the status of every non-terminal session.
// Sessions crossing into completed drag their proposal along. Returns the
// number of sessions that changed.
func (s *ClubSessionService) RefreshStatuses(ctx context.Context) (int, error) {
	sessions, err := s.sessionRepo.ListNonTerminal(ctx)
	if err != nil {
		return 0, err
	}

	now := s.now()
	changed := 0
	for i := range sessions {
		session := &sessions[i]
		next := StatusFor(session.StartDate, session.EndDate, now)
		if next == session.Status {
			continue
		}

		session.Status = next
		if err := s.sessionRepo.Update(ctx, session); err != nil {
			return changed, err
		}
		changed++

		if next == constants.SessionCompleted {
			if err := s.proposalRepo.UpdateStatus(ctx, session.ProposalID, constants.ProposalCompleted); err != nil {
				logging.Warn("Proposal completion update failed", "proposal_id", session.ProposalID, "error", err)
			}
		}
	}

	if changed > 0 {
		logging.Info("Session statuses refreshed", "changed", changed)
	}
	return changed, nil
}

// Start forces an upcoming session to current without waiting for the start
// date. Admin action.
func (s *ClubSessionService) Start(ctx context.Context, sessionID string) (*gormModels.ClubSession, error) {
	session, err := s.sessionRepo.GetByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, ErrNotFound
	}
	if session.Status != constants.SessionUpcoming {
		return nil, fmt.Errorf("%w: seule une séance à venir peut être démarrée", ErrInvalidInput)
	}

	session.Status = constants.SessionCurrent
	if err := s.sessionRepo.Update(ctx, session); err != nil {
		return nil, err
	}

	logging.Info("Club session started", "session_id", sessionID)
	return session, nil
}

// Complete closes a session ahead of its end date. The proposal moves to
// completed and every participant's badges are re-evaluated.
func (s *ClubSessionService) Complete(ctx context.Context, sessionID string) (*gormModels.ClubSession, error) {
	session, err := s.sessionRepo.GetByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, ErrNotFound
	}
	if session.Status.Terminal() {
		return nil, fmt.Errorf("%w: la séance est déjà terminée", ErrInvalidInput)
	}

	session.Status = constants.SessionCompleted
	if err := s.sessionRepo.Update(ctx, session); err != nil {
		return nil, err
	}
	if err := s.proposalRepo.UpdateStatus(ctx, session.ProposalID, constants.ProposalCompleted); err != nil {
		return nil, err
	}

	if s.badges != nil {
		for _, participation := range session.Participants {
			if _, err := s.badges.EvaluateUser(ctx, participation.UserID); err != nil {
				logging.Warn("Badge evaluation failed after completion", "user_id", participation.UserID, "error", err)
			}
		}
	}

	logging.Info("Club session completed", "session_id", sessionID, "participants", len(session.Participants))
	return session, nil
}

// Archive moves a session and its proposal to the archive. Admin action.
func (s *ClubSessionService) Archive(ctx context.Context, sessionID string) error {
	session, err := s.sessionRepo.GetByID(ctx, sessionID)
	if err != nil {
		return err
	}
	if session == nil {
		return ErrNotFound
	}

	session.Status = constants.SessionArchived
	if err := s.sessionRepo.Update(ctx, session); err != nil {
		return err
	}

	return s.proposalRepo.UpdateStatus(ctx, session.ProposalID, constants.ProposalArchived)
}

// Delete removes a session and its participations. A proposal whose reading
// or viewing never finished goes back to the selected pool. Admin action.
func (s *ClubSessionService) Delete(ctx context.Context, sessionID string) error {
	session, err := s.sessionRepo.GetByID(ctx, sessionID)
	if err != nil {
		return err
	}
	if session == nil {
		return ErrNotFound
	}

	if err := s.sessionRepo.Delete(ctx, sessionID); err != nil {
		return err
	}

	if !session.Status.Terminal() {
		if err := s.proposalRepo.UpdateStatus(ctx, session.ProposalID, constants.ProposalSelected); err != nil {
			return err
		}
	}

	logging.Info("Club session deleted", "session_id", sessionID, "status", session.Status)
	return nil
}

// Register adds the caller to a session's participants and re-evaluates
// their badges.
func (s *ClubSessionService) Register(ctx context.Context, sessionID, userID string) error {
	session, err := s.sessionRepo.GetByID(ctx, sessionID)
	if err != nil {
		return err
	}
	if session == nil {
		return ErrNotFound
	}
	if session.Status.Terminal() {
		return fmt.Errorf("%w: la séance est terminée", ErrInvalidInput)
	}

	added, err := s.sessionRepo.AddParticipant(ctx, sessionID, userID)
	if err != nil {
		return err
	}
	if !added {
		return ErrAlreadyRegistered
	}

	if s.badges != nil {
		if _, err := s.badges.EvaluateUser(ctx, userID); err != nil {
			logging.Warn("Badge evaluation failed after registration", "user_id", userID, "error", err)
		}
	}

	return nil
}

// Unregister removes the caller from a session's participants
func (s *ClubSessionService) Unregister(ctx context.Context, sessionID, userID string) error {
	session, err := s.sessionRepo.GetByID(ctx, sessionID)
	if err != nil {
		return err
	}
	if session == nil {
		return ErrNotFound
	}

	removed, err := s.sessionRepo.RemoveParticipant(ctx, sessionID, userID)
	if err != nil {
		return err
	}
	if !removed {
		return ErrNotRegistered
	}

	return nil
}

// Get assembles the public view of a session, with the participant list
func (s *ClubSessionService) Get(ctx context.Context, sessionID, viewerID string) (*dtos.ClubSessionResponse, error) {
	session, err := s.sessionRepo.GetByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, ErrNotFound
	}

	resp := s.toResponse(session, viewerID, true)
	return &resp, nil
}

// List returns a kind's sessions, optionally filtered by status
func (s *ClubSessionService) List(ctx context.Context, kind constants.MediaKind, status, viewerID string) ([]dtos.ClubSessionResponse, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("%w: kind must be book or film", ErrInvalidInput)
	}

	sessions, err := s.sessionRepo.List(ctx, kind, status)
	if err != nil {
		return nil, err
	}

	out := make([]dtos.ClubSessionResponse, 0, len(sessions))
	for i := range sessions {
		out = append(out, s.toResponse(&sessions[i], viewerID, false))
	}
	return out, nil
}

func (s *ClubSessionService) toResponse(session *gormModels.ClubSession, viewerID string, withParticipants bool) dtos.ClubSessionResponse {
	resp := dtos.ClubSessionResponse{
		ID:          session.ID,
		Kind:        session.Kind.String(),
		StartDate:   session.StartDate,
		EndDate:     session.EndDate,
		DebriefDate: session.DebriefDate,
		Status:      session.Status.String(),
		Description: session.Description,
		Proposal: dtos.ProposalResponse{
			ID:          session.Proposal.ID,
			Kind:        session.Proposal.Kind.String(),
			Title:       session.Proposal.Title,
			Author:      session.Proposal.Author,
			Description: session.Proposal.Description,
			ISBN:        session.Proposal.ISBN,
			Publisher:   session.Proposal.Publisher,
			PubYear:     session.Proposal.PubYear,
			PagesCount:  session.Proposal.PagesCount,
			Genre:       session.Proposal.Genre,
			Duration:    session.Proposal.Duration,
			PosterURL:   session.Proposal.PosterURL,
			Status:      session.Proposal.Status.String(),
			ProposedBy:  session.Proposal.ProposedBy,
			CreatedAt:   session.Proposal.CreatedAt,
		},
		ParticipantCount: len(session.Participants),
	}

	for _, p := range session.Participants {
		if p.UserID == viewerID {
			resp.UserRegistered = true
		}
		if withParticipants {
			resp.Participants = append(resp.Participants, dtos.UserSummary{
				ID:          p.User.ID,
				Username:    p.User.Username,
				DisplayName: p.User.DisplayName,
				AvatarURL:   p.User.AvatarURL,
				IsAdmin:     p.User.IsAdmin,
			})
		}
	}

	return resp
}
