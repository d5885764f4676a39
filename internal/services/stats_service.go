package services

import (
	"context"
	"fmt"
	"time"

	"biblioruche/hive/internal/common"
	"biblioruche/hive/internal/constants"
	"biblioruche/hive/internal/db/repositories"
	"biblioruche/hive/internal/metrics"
	"biblioruche/hive/internal/models/dtos"
)

const siteStatsCacheKey = "stats:site"

// StatsService aggregates activity counters for profiles, the badge
// evaluator and the public stats page.
type StatsService struct {
	statsRepo *repositories.StatsRepository
	cache     common.CacheInterface
	metrics   *metrics.MetricsRegistry
}

func NewStatsService(statsRepo *repositories.StatsRepository, cache common.CacheInterface, reg *metrics.MetricsRegistry) *StatsService {
	return &StatsService{
		statsRepo: statsRepo,
		cache:     cache,
		metrics:   reg,
	}
}

// UserStats collects every per-user counter in one pass
func (s *StatsService) UserStats(ctx context.Context, userID string) (*dtos.UserStats, error) {
	stats := &dtos.UserStats{}

	var err error
	if stats.TotalProposals, err = s.statsRepo.CountProposals(ctx, userID); err != nil {
		return nil, fmt.Errorf("user stats: %w", err)
	}
	if stats.AcceptedBookProposals, err = s.statsRepo.CountAcceptedProposals(ctx, userID, constants.KindBook); err != nil {
		return nil, fmt.Errorf("user stats: %w", err)
	}
	if stats.AcceptedFilmProposals, err = s.statsRepo.CountAcceptedProposals(ctx, userID, constants.KindFilm); err != nil {
		return nil, fmt.Errorf("user stats: %w", err)
	}
	if stats.BookBallots, err = s.statsRepo.CountBallots(ctx, userID, constants.KindBook); err != nil {
		return nil, fmt.Errorf("user stats: %w", err)
	}
	if stats.FilmBallots, err = s.statsRepo.CountBallots(ctx, userID, constants.KindFilm); err != nil {
		return nil, fmt.Errorf("user stats: %w", err)
	}
	if stats.ReadingParticipations, err = s.statsRepo.CountParticipations(ctx, userID, constants.KindBook); err != nil {
		return nil, fmt.Errorf("user stats: %w", err)
	}
	if stats.ViewingParticipations, err = s.statsRepo.CountParticipations(ctx, userID, constants.KindFilm); err != nil {
		return nil, fmt.Errorf("user stats: %w", err)
	}
	if stats.TotalReviews, err = s.statsRepo.CountVisibleReviews(ctx, userID); err != nil {
		return nil, fmt.Errorf("user stats: %w", err)
	}

	return stats, nil
}

// SiteStats returns the public aggregate snapshot, cached for five minutes
func (s *StatsService) SiteStats(ctx context.Context) (*dtos.SiteStatsResponse, error) {
	if s.cache != nil {
		var cached dtos.SiteStatsResponse
		if s.cache.GetInto(siteStatsCacheKey, &cached) {
			if s.metrics != nil {
				s.metrics.CacheHitsTotal.WithLabelValues("stats").Inc()
			}
			return &cached, nil
		}
		if s.metrics != nil {
			s.metrics.CacheMissesTotal.WithLabelValues("stats").Inc()
		}
	}

	stats := &dtos.SiteStatsResponse{Badges: map[string]int64{}}

	var err error
	if stats.Users, err = s.statsRepo.CountUsers(ctx); err != nil {
		return nil, fmt.Errorf("site stats: %w", err)
	}
	if stats.Books, err = s.statsRepo.CountProposalsByStatus(ctx, constants.KindBook); err != nil {
		return nil, fmt.Errorf("site stats: %w", err)
	}
	if stats.Films, err = s.statsRepo.CountProposalsByStatus(ctx, constants.KindFilm); err != nil {
		return nil, fmt.Errorf("site stats: %w", err)
	}
	if stats.Readings, err = s.statsRepo.CountSessionsByStatus(ctx, constants.KindBook); err != nil {
		return nil, fmt.Errorf("site stats: %w", err)
	}
	if stats.Viewings, err = s.statsRepo.CountSessionsByStatus(ctx, constants.KindFilm); err != nil {
		return nil, fmt.Errorf("site stats: %w", err)
	}

	seeded, err := s.statsRepo.CountBadgesSeeded(ctx)
	if err != nil {
		return nil, fmt.Errorf("site stats: %w", err)
	}
	awarded, err := s.statsRepo.CountBadgesAwarded(ctx)
	if err != nil {
		return nil, fmt.Errorf("site stats: %w", err)
	}
	stats.Badges["catalogue"] = seeded
	stats.Badges["awarded"] = awarded

	if s.cache != nil {
		s.cache.Set(siteStatsCacheKey, stats, 5*time.Minute)
	}

	return stats, nil
}
