package services

import (
	"context"
	"time"

	"biblioruche/hive/internal/db/repositories"
	"biblioruche/hive/internal/logging"
)

const (
	closedVoteRetention   = 90 * 24 * time.Hour
	notificationRetention = 30 * 24 * time.Hour
)

// CleanupReport summarizes one retention pass.
type CleanupReport struct {
	VotingSessionsRemoved int64 `json:"voting_sessions_removed"`
	BallotsRemoved        int64 `json:"ballots_removed"`
	ProposalsRemoved      int64 `json:"proposals_removed"`
	NotificationsRemoved  int64 `json:"notifications_removed"`
}

// CleanupService applies the retention policy: closed votes after 90 days,
// rejected proposals, read notifications after 30 days. Admin-triggered.
type CleanupService struct {
	votingRepo   *repositories.VotingRepository
	proposalRepo *repositories.ProposalRepository
	notifRepo    *repositories.NotificationRepository
	now          func() time.Time
}

func NewCleanupService(
	votingRepo *repositories.VotingRepository,
	proposalRepo *repositories.ProposalRepository,
	notifRepo *repositories.NotificationRepository,
) *CleanupService {
	return &CleanupService{
		votingRepo:   votingRepo,
		proposalRepo: proposalRepo,
		notifRepo:    notifRepo,
		now:          time.Now,
	}
}

// Run executes every retention rule and reports what was removed
func (s *CleanupService) Run(ctx context.Context) (*CleanupReport, error) {
	report := &CleanupReport{}
	now := s.now()

	sessions, ballots, err := s.votingRepo.DeleteClosedBefore(ctx, now.Add(-closedVoteRetention))
	if err != nil {
		return nil, err
	}
	report.VotingSessionsRemoved = sessions
	report.BallotsRemoved = ballots

	proposals, err := s.proposalRepo.DeleteRejected(ctx)
	if err != nil {
		return nil, err
	}
	report.ProposalsRemoved = proposals

	notifications, err := s.notifRepo.DeleteReadBefore(ctx, now.Add(-notificationRetention))
	if err != nil {
		return nil, err
	}
	report.NotificationsRemoved = notifications

	logging.Info("Retention cleanup done",
		"voting_sessions", report.VotingSessionsRemoved,
		"ballots", report.BallotsRemoved,
		"proposals", report.ProposalsRemoved,
		"notifications", report.NotificationsRemoved,
	)

	return report, nil
}
