package repositories

import (
	"context"
	"fmt"

	gormModels "biblioruche/hive/internal/models/gorm"

	"gorm.io/gorm"
)

// UserRepository handles user table operations using GORM
type UserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new GORM-based user repository
func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// GetByID retrieves a user by its ID
func (r *UserRepository) GetByID(ctx context.Context, userID string) (*gormModels.User, error) {
	var user gormModels.User

	err := r.db.WithContext(ctx).
		Where("id = ?", userID).
		First(&user).Error

	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch user: %w", err)
	}

	return &user, nil
}

// GetByTwitchID retrieves a user by the identity provider's stable ID
func (r *UserRepository) GetByTwitchID(ctx context.Context, twitchID string) (*gormModels.User, error) {
	var user gormModels.User

	err := r.db.WithContext(ctx).
		Where("twitch_id = ?", twitchID).
		First(&user).Error

	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch user: %w", err)
	}

	return &user, nil
}

// GetByUsername retrieves a user by login name. Used as the fallback match
// for accounts created before the Twitch ID was recorded.
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*gormModels.User, error) {
	var user gormModels.User

	err := r.db.WithContext(ctx).
		Where("username = ?", username).
		First(&user).Error

	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch user: %w", err)
	}

	return &user, nil
}

// Create inserts a new user
func (r *UserRepository) Create(ctx context.Context, user *gormModels.User) error {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// Update persists changes on an existing user
func (r *UserRepository) Update(ctx context.Context, user *gormModels.User) error {
	if err := r.db.WithContext(ctx).Save(user).Error; err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	return nil
}

// ListAll retrieves all users, newest first
func (r *UserRepository) ListAll(ctx context.Context) ([]gormModels.User, error) {
	var users []gormModels.User

	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Find(&users).Error

	if err != nil {
		return nil, fmt.Errorf("failed to fetch users: %w", err)
	}

	return users, nil
}

// ListAllIDs returns every user ID. Used by the notification broadcast worker.
func (r *UserRepository) ListAllIDs(ctx context.Context) ([]string, error) {
	var ids []string

	err := r.db.WithContext(ctx).
		Model(&gormModels.User{}).
		Pluck("id", &ids).Error

	if err != nil {
		return nil, fmt.Errorf("failed to fetch user ids: %w", err)
	}

	return ids, nil
}

// SetAdmin flips the admin flag for a user
func (r *UserRepository) SetAdmin(ctx context.Context, userID string, isAdmin bool) error {
	result := r.db.WithContext(ctx).
		Model(&gormModels.User{}).
		Where("id = ?", userID).
		Update("is_admin", isAdmin)

	if result.Error != nil {
		return fmt.Errorf("failed to update admin flag: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("user not found with ID: %s", userID)
	}

	return nil
}
