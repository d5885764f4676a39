package services

import (
	"context"
	"fmt"

	"biblioruche/hive/internal/constants"
	"biblioruche/hive/internal/db/repositories"
	"biblioruche/hive/internal/logging"
	"biblioruche/hive/internal/metrics"
	"biblioruche/hive/internal/models/dtos"
	gormModels "biblioruche/hive/internal/models/gorm"
)

// UserStatsProvider yields the activity counters the badge rules compare
// thresholds against.
type UserStatsProvider interface {
	UserStats(ctx context.Context, userID string) (*dtos.UserStats, error)
}

// BadgeNotifier delivers the "badge earned" notification.
type BadgeNotifier interface {
	Notify(ctx context.Context, userID, nType, title, message string, link, icon *string) error
}

// BadgeService evaluates the badge rule catalogue against a user's activity
// and awards whatever is newly crossed. Awards are append-only and the
// evaluation is idempotent: re-running never duplicates or revokes.
type BadgeService struct {
	badgeRepo *repositories.BadgeRepository
	stats     UserStatsProvider
	notifier  BadgeNotifier
	metrics   *metrics.MetricsRegistry
}

func NewBadgeService(
	badgeRepo *repositories.BadgeRepository,
	stats UserStatsProvider,
	notifier BadgeNotifier,
	reg *metrics.MetricsRegistry,
) *BadgeService {
	return &BadgeService{
		badgeRepo: badgeRepo,
		stats:     stats,
		notifier:  notifier,
		metrics:   reg,
	}
}

// EvaluateUser checks every rule and returns the badges newly awarded.
// Badges whose definition was never seeded are skipped with a warning
// instead of failing the whole pass.
func (s *BadgeService) EvaluateUser(ctx context.Context, userID string) ([]gormModels.Badge, error) {
	stats, err := s.stats.UserStats(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("badge evaluation: %w", err)
	}

	var awarded []gormModels.Badge

	for _, rule := range constants.BadgeRules {
		if activityCount(stats, rule.Activity) < int64(rule.Threshold) {
			continue
		}

		badge, err := s.badgeRepo.GetByName(ctx, rule.Name)
		if err != nil {
			return awarded, fmt.Errorf("badge evaluation: %w", err)
		}
		if badge == nil {
			logging.Warn("Badge rule has no seeded definition", "badge", rule.Name)
			continue
		}

		has, err := s.badgeRepo.HasBadge(ctx, userID, badge.ID)
		if err != nil {
			return awarded, fmt.Errorf("badge evaluation: %w", err)
		}
		if has {
			continue
		}

		if err := s.badgeRepo.Award(ctx, userID, badge.ID); err != nil {
			return awarded, fmt.Errorf("badge evaluation: %w", err)
		}
		awarded = append(awarded, *badge)

		if s.metrics != nil {
			s.metrics.BadgesAwardedTotal.WithLabelValues(badge.Category.String()).Inc()
		}

		if s.notifier != nil {
			icon := badge.Icon
			message := fmt.Sprintf("Vous avez obtenu le badge « %s » : %s", badge.Name, badge.Description)
			if err := s.notifier.Notify(ctx, userID, "badge", "Nouveau badge !", message, nil, &icon); err != nil {
				logging.Warn("Badge notification failed", "badge", badge.Name, "error", err)
			}
		}

		logging.Info("Badge awarded", "user_id", userID, "badge", badge.Name)
	}

	return awarded, nil
}

// ListForUser returns a user's awards grouped by category
func (s *BadgeService) ListForUser(ctx context.Context, userID string) (map[string][]dtos.BadgeResponse, error) {
	awards, err := s.badgeRepo.ListForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	grouped := make(map[string][]dtos.BadgeResponse)
	for _, award := range awards {
		earned := award.EarnedAt
		grouped[award.Badge.Category.String()] = append(grouped[award.Badge.Category.String()], dtos.BadgeResponse{
			ID:          award.Badge.ID,
			Name:        award.Badge.Name,
			Description: award.Badge.Description,
			Icon:        award.Badge.Icon,
			Category:    award.Badge.Category.String(),
			Color:       award.Badge.Color,
			EarnedAt:    &earned,
		})
	}

	return grouped, nil
}

// Catalogue returns every badge definition
func (s *BadgeService) Catalogue(ctx context.Context) ([]dtos.BadgeResponse, error) {
	badges, err := s.badgeRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]dtos.BadgeResponse, 0, len(badges))
	for _, b := range badges {
		out = append(out, dtos.BadgeResponse{
			ID:          b.ID,
			Name:        b.Name,
			Description: b.Description,
			Icon:        b.Icon,
			Category:    b.Category.String(),
			Color:       b.Color,
		})
	}

	return out, nil
}

func activityCount(stats *dtos.UserStats, activity constants.BadgeActivity) int64 {
	switch activity {
	case constants.ActivityReadingParticipations:
		return stats.ReadingParticipations
	case constants.ActivityViewingParticipations:
		return stats.ViewingParticipations
	case constants.ActivityReviews:
		return stats.TotalReviews
	case constants.ActivityBookBallots:
		return stats.BookBallots
	case constants.ActivityFilmBallots:
		return stats.FilmBallots
	case constants.ActivityProposals:
		return stats.TotalProposals
	case constants.ActivityApprovedBookProposals:
		return stats.AcceptedBookProposals
	case constants.ActivityApprovedFilmProposals:
		return stats.AcceptedFilmProposals
	default:
		return 0
	}
}
