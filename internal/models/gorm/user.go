package gorm

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	ID          string    `gorm:"column:id;primaryKey;type:uuid"`
	TwitchID    string    `gorm:"column:twitch_id;uniqueIndex"`
	Username    string    `gorm:"column:username;uniqueIndex"`
	DisplayName string    `gorm:"column:display_name"`
	Email       *string   `gorm:"column:email"`
	AvatarURL   *string   `gorm:"column:avatar_url"`
	IsAdmin     bool      `gorm:"column:is_admin;default:false"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`

	// Relationships
	Proposals  []Proposal  `gorm:"foreignKey:ProposedBy"`
	UserBadges []UserBadge `gorm:"foreignKey:UserID"`
}

// TableName specifies the table name for GORM
func (User) TableName() string {
	return "users"
}

// BeforeCreate assigns a UUID so the ID works on any dialect
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	return nil
}
