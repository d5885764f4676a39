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

// UserService handles account provisioning from Twitch identities, admin
// management and profile assembly.
type UserService struct {
	userRepo *repositories.UserRepository
	stats    UserStatsProvider
	badges   *BadgeService
	reviews  *ReviewService
	twitch   *common.TwitchService
}

func NewUserService(
	userRepo *repositories.UserRepository,
	stats UserStatsProvider,
	badges *BadgeService,
	reviews *ReviewService,
	twitch *common.TwitchService,
) *UserService {
	return &UserService{
		userRepo: userRepo,
		stats:    stats,
		badges:   badges,
		reviews:  reviews,
		twitch:   twitch,
	}
}

// GetOrCreateFromTwitch resolves the Twitch identity to a local account,
// creating or refreshing it. Matching falls back to the username for
// accounts that predate Twitch ID storage. The admin flag follows the
// configured username allowlist.
func (s *UserService) GetOrCreateFromTwitch(ctx context.Context, identity *common.TwitchUser) (*gormModels.User, error) {
	user, err := s.userRepo.GetByTwitchID(ctx, identity.ID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		user, err = s.userRepo.GetByUsername(ctx, identity.Login)
		if err != nil {
			return nil, err
		}
	}

	isAdmin := s.twitch != nil && s.twitch.IsAdminUsername(identity.Login)

	if user == nil {
		user = &gormModels.User{
			TwitchID:    identity.ID,
			Username:    identity.Login,
			DisplayName: identity.DisplayName,
			IsAdmin:     isAdmin,
		}
		if identity.Email != "" {
			user.Email = &identity.Email
		}
		if identity.AvatarURL != "" {
			user.AvatarURL = &identity.AvatarURL
		}
		if err := s.userRepo.Create(ctx, user); err != nil {
			return nil, err
		}
		logging.Info("User created", "user_id", user.ID, "username", user.Username, "admin", isAdmin)
		return user, nil
	}

	// Refresh on every login: Twitch is the source of truth for identity.
	user.TwitchID = identity.ID
	user.Username = identity.Login
	user.DisplayName = identity.DisplayName
	if identity.Email != "" {
		user.Email = &identity.Email
	}
	if identity.AvatarURL != "" {
		user.AvatarURL = &identity.AvatarURL
	}
	if isAdmin && !user.IsAdmin {
		user.IsAdmin = true
	}
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// SetAdmin grants or revokes admin rights. Admins cannot change their own.
func (s *UserService) SetAdmin(ctx context.Context, actorID, targetID string, isAdmin bool) error {
	if actorID == targetID {
		return ErrSelfAdminToggle
	}

	target, err := s.userRepo.GetByID(ctx, targetID)
	if err != nil {
		return err
	}
	if target == nil {
		return ErrNotFound
	}

	if err := s.userRepo.SetAdmin(ctx, targetID, isAdmin); err != nil {
		return err
	}

	logging.Info("Admin flag changed", "target", targetID, "admin", isAdmin, "actor", actorID)
	return nil
}

// ListAll returns every member. Admin only.
func (s *UserService) ListAll(ctx context.Context) ([]dtos.UserSummary, error) {
	users, err := s.userRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]dtos.UserSummary, 0, len(users))
	for i := range users {
		out = append(out, toUserSummary(&users[i]))
	}
	return out, nil
}

// Profile assembles a user's public page: identity, activity counters,
// badges grouped by category and their most recent reviews.
func (s *UserService) Profile(ctx context.Context, userID string) (*dtos.UserProfileResponse, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrNotFound
	}

	stats, err := s.stats.UserStats(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("profile: %w", err)
	}

	badges, err := s.badges.ListForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("profile: %w", err)
	}

	reviews, err := s.reviews.ListForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("profile: %w", err)
	}
	if len(reviews) > 5 {
		reviews = reviews[:5]
	}

	return &dtos.UserProfileResponse{
		User:             toUserSummary(user),
		Stats:            *stats,
		BadgesByCategory: badges,
		RecentReviews:    reviews,
	}, nil
}

func toUserSummary(u *gormModels.User) dtos.UserSummary {
	return dtos.UserSummary{
		ID:          u.ID,
		Username:    u.Username,
		DisplayName: u.DisplayName,
		AvatarURL:   u.AvatarURL,
		IsAdmin:     u.IsAdmin,
	}
}
