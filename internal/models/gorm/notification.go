package gorm

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Notification struct {
	ID        string     `gorm:"column:id;primaryKey;type:uuid"`
	UserID    string     `gorm:"column:user_id;type:uuid;index"`
	Type      string     `gorm:"column:type"`
	Title     string     `gorm:"column:title"`
	Message   string     `gorm:"column:message"`
	Link      *string    `gorm:"column:link"`
	Icon      *string    `gorm:"column:icon"`
	IsRead    bool       `gorm:"column:is_read;default:false;index"`
	CreatedAt time.Time  `gorm:"column:created_at;autoCreateTime"`
	ReadAt    *time.Time `gorm:"column:read_at"`
}

// TableName specifies the table name for GORM
func (Notification) TableName() string {
	return "notifications"
}

// BeforeCreate assigns a UUID so the ID works on any dialect
func (n *Notification) BeforeCreate(tx *gorm.DB) error {
	if n.ID == "" {
		n.ID = uuid.New().String()
	}
	return nil
}
