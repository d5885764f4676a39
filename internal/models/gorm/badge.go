package gorm

import (
	"time"

	"biblioruche/hive/internal/constants"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Badge struct {
	ID          string                  `gorm:"column:id;primaryKey;type:uuid"`
	Name        string                  `gorm:"column:name;uniqueIndex"`
	Description string                  `gorm:"column:description"`
	Icon        string                  `gorm:"column:icon"`
	Category    constants.BadgeCategory `gorm:"column:category;index"`
	Color       string                  `gorm:"column:color;default:primary"`
}

// TableName specifies the table name for GORM
func (Badge) TableName() string {
	return "badges"
}

// BeforeCreate assigns a UUID so the ID works on any dialect
func (b *Badge) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.New().String()
	}
	return nil
}

// UserBadge records an award. Append-only: badges are never revoked.
type UserBadge struct {
	ID       string    `gorm:"column:id;primaryKey;type:uuid"`
	UserID   string    `gorm:"column:user_id;type:uuid;uniqueIndex:idx_user_badge"`
	BadgeID  string    `gorm:"column:badge_id;type:uuid;uniqueIndex:idx_user_badge"`
	EarnedAt time.Time `gorm:"column:earned_at;autoCreateTime"`

	// Relationships
	Badge Badge `gorm:"foreignKey:BadgeID"`
}

// TableName specifies the table name for GORM
func (UserBadge) TableName() string {
	return "user_badges"
}

func (ub *UserBadge) BeforeCreate(tx *gorm.DB) error {
	if ub.ID == "" {
		ub.ID = uuid.New().String()
	}
	return nil
}
