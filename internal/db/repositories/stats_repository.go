package repositories

import (
	"context"
	"fmt"

	"biblioruche/hive/internal/constants"

	"github.com/jmoiron/sqlx"
)

// StatsRepository runs the aggregate count queries behind the badge
// evaluator and the stats endpoints. Counts go through sqlx; everything
// row-oriented stays on GORM.
type StatsRepository struct {
	db *sqlx.DB
}

// NewStatsRepository creates a new sqlx-based stats repository
func NewStatsRepository(db *sqlx.DB) *StatsRepository {
	return &StatsRepository{db: db}
}

// CountParticipations counts a user's session registrations for one kind
func (r *StatsRepository) CountParticipations(ctx context.Context, userID string, kind constants.MediaKind) (int64, error) {
	var count int64
	if err := r.db.GetContext(ctx, &count, constants.CountParticipationsByKind, userID, kind); err != nil {
		return 0, fmt.Errorf("failed to count participations: %w", err)
	}
	return count, nil
}

// CountVisibleReviews counts a user's reviews still visible
func (r *StatsRepository) CountVisibleReviews(ctx context.Context, userID string) (int64, error) {
	var count int64
	if err := r.db.GetContext(ctx, &count, constants.CountVisibleReviews, userID); err != nil {
		return 0, fmt.Errorf("failed to count reviews: %w", err)
	}
	return count, nil
}

// CountBallots counts a user's ballots cast in sessions of one kind
func (r *StatsRepository) CountBallots(ctx context.Context, userID string, kind constants.MediaKind) (int64, error) {
	var count int64
	if err := r.db.GetContext(ctx, &count, constants.CountBallotsByKind, userID, kind); err != nil {
		return 0, fmt.Errorf("failed to count ballots: %w", err)
	}
	return count, nil
}

// CountProposals counts everything a user ever proposed, both kinds
func (r *StatsRepository) CountProposals(ctx context.Context, userID string) (int64, error) {
	var count int64
	if err := r.db.GetContext(ctx, &count, constants.CountProposals, userID); err != nil {
		return 0, fmt.Errorf("failed to count proposals: %w", err)
	}
	return count, nil
}

// CountAcceptedProposals counts a user's proposals of one kind that made it
// past moderation
func (r *StatsRepository) CountAcceptedProposals(ctx context.Context, userID string, kind constants.MediaKind) (int64, error) {
	var count int64
	if err := r.db.GetContext(ctx, &count, constants.CountAcceptedProposalsByKind, userID, kind); err != nil {
		return 0, fmt.Errorf("failed to count accepted proposals: %w", err)
	}
	return count, nil
}

// CountUsers returns the total registered user count
func (r *StatsRepository) CountUsers(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.GetContext(ctx, &count, constants.CountUsers); err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}
	return count, nil
}

type statusCount struct {
	Status string `db:"status"`
	Count  int64  `db:"count"`
}

// CountProposalsByStatus groups a kind's proposals by lifecycle status
func (r *StatsRepository) CountProposalsByStatus(ctx context.Context, kind constants.MediaKind) (map[string]int64, error) {
	var rows []statusCount
	if err := r.db.SelectContext(ctx, &rows, constants.CountProposalsByStatus, kind); err != nil {
		return nil, fmt.Errorf("failed to count proposals by status: %w", err)
	}

	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}

// CountSessionsByStatus groups a kind's club sessions by status
func (r *StatsRepository) CountSessionsByStatus(ctx context.Context, kind constants.MediaKind) (map[string]int64, error) {
	var rows []statusCount
	if err := r.db.SelectContext(ctx, &rows, constants.CountSessionsByStatus, kind); err != nil {
		return nil, fmt.Errorf("failed to count sessions by status: %w", err)
	}

	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}

// CountBadgesSeeded returns the badge catalogue size
func (r *StatsRepository) CountBadgesSeeded(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.GetContext(ctx, &count, constants.CountBadgesSeeded); err != nil {
		return 0, fmt.Errorf("failed to count badges: %w", err)
	}
	return count, nil
}

// CountBadgesAwarded returns the total number of awards across all users
func (r *StatsRepository) CountBadgesAwarded(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.GetContext(ctx, &count, constants.CountBadgesAwarded); err != nil {
		return 0, fmt.Errorf("failed to count awards: %w", err)
	}
	return count, nil
}
