package repositories

import (
	"context"
	"fmt"

	"biblioruche/hive/internal/constants"
	gormModels "biblioruche/hive/internal/models/gorm"

	"gorm.io/gorm"
)

// BadgeRepository handles badge and award table operations using GORM
type BadgeRepository struct {
	db *gorm.DB
}

// NewBadgeRepository creates a new GORM-based badge repository
func NewBadgeRepository(db *gorm.DB) *BadgeRepository {
	return &BadgeRepository{db: db}
}

// SeedCatalogue inserts every known badge definition that is not already
// present. Existing rows are left untouched, so re-running is safe.
func (r *BadgeRepository) SeedCatalogue(ctx context.Context) (int, error) {
	seeded := 0

	for _, rule := range constants.BadgeRules {
		var count int64
		if err := r.db.WithContext(ctx).
			Model(&gormModels.Badge{}).
			Where("name = ?", rule.Name).
			Count(&count).Error; err != nil {
			return seeded, fmt.Errorf("failed to check badge %q: %w", rule.Name, err)
		}
		if count > 0 {
			continue
		}

		badge := gormModels.Badge{
			Name:        rule.Name,
			Description: rule.Description,
			Icon:        rule.Icon,
			Category:    rule.Category,
			Color:       rule.Color,
		}
		if err := r.db.WithContext(ctx).Create(&badge).Error; err != nil {
			return seeded, fmt.Errorf("failed to seed badge %q: %w", rule.Name, err)
		}
		seeded++
	}

	return seeded, nil
}

// GetByName retrieves a badge definition by name
func (r *BadgeRepository) GetByName(ctx context.Context, name string) (*gormModels.Badge, error) {
	var badge gormModels.Badge

	err := r.db.WithContext(ctx).
		Where("name = ?", name).
		First(&badge).Error

	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch badge: %w", err)
	}

	return &badge, nil
}

// ListAll retrieves the full badge catalogue
func (r *BadgeRepository) ListAll(ctx context.Context) ([]gormModels.Badge, error) {
	var badges []gormModels.Badge

	err := r.db.WithContext(ctx).
		Order("category, name").
		Find(&badges).Error

	if err != nil {
		return nil, fmt.Errorf("failed to fetch badges: %w", err)
	}

	return badges, nil
}

// HasBadge reports whether a user already holds a badge
func (r *BadgeRepository) HasBadge(ctx context.Context, userID, badgeID string) (bool, error) {
	var count int64

	err := r.db.WithContext(ctx).
		Model(&gormModels.UserBadge{}).
		Where("user_id = ? AND badge_id = ?", userID, badgeID).
		Count(&count).Error

	if err != nil {
		return false, fmt.Errorf("failed to check badge award: %w", err)
	}

	return count > 0, nil
}

// Award records a badge for a user
func (r *BadgeRepository) Award(ctx context.Context, userID, badgeID string) error {
	userBadge := gormModels.UserBadge{
		UserID:  userID,
		BadgeID: badgeID,
	}
	if err := r.db.WithContext(ctx).Create(&userBadge).Error; err != nil {
		return fmt.Errorf("failed to award badge: %w", err)
	}
	return nil
}

// ListForUser retrieves a user's awards with badge definitions, newest first
func (r *BadgeRepository) ListForUser(ctx context.Context, userID string) ([]gormModels.UserBadge, error) {
	var awards []gormModels.UserBadge

	err := r.db.WithContext(ctx).
		Preload("Badge").
		Where("user_id = ?", userID).
		Order("earned_at DESC").
		Find(&awards).Error

	if err != nil {
		return nil, fmt.Errorf("failed to fetch user badges: %w", err)
	}

	return awards, nil
}
