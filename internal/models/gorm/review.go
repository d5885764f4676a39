package gorm

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Review struct {
	ID          string    `gorm:"column:id;primaryKey;type:uuid"`
	UserID      string    `gorm:"column:user_id;type:uuid;uniqueIndex:idx_review_user_proposal"`
	ProposalID  string    `gorm:"column:proposal_id;type:uuid;uniqueIndex:idx_review_user_proposal"`
	Rating      int       `gorm:"column:rating"`
	Comment     *string   `gorm:"column:comment"`
	IsModerated bool      `gorm:"column:is_moderated;default:false"`
	IsVisible   bool      `gorm:"column:is_visible;default:true"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime"`

	// Relationships
	User User `gorm:"foreignKey:UserID"`
}

// TableName specifies the table name for GORM
func (Review) TableName() string {
	return "reviews"
}

// BeforeCreate assigns a UUID so the ID works on any dialect
func (r *Review) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	return nil
}
