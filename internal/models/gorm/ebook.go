package gorm

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Ebook is an uploaded EPUB, optionally linked to a proposal. FileName is the
// generated on-disk name; OriginalName is kept for the download header.
type Ebook struct {
	ID            string    `gorm:"column:id;primaryKey;type:uuid"`
	ProposalID    *string   `gorm:"column:proposal_id;type:uuid"`
	Title         string    `gorm:"column:title"`
	Author        string    `gorm:"column:author"`
	Genre         *string   `gorm:"column:genre"`
	FileName      string    `gorm:"column:file_name;uniqueIndex"`
	OriginalName  string    `gorm:"column:original_name"`
	FileSize      int64     `gorm:"column:file_size"`
	CoverFileName *string   `gorm:"column:cover_file_name"`
	IsVisible     bool      `gorm:"column:is_visible;default:true"`
	DownloadCount int       `gorm:"column:download_count;default:0"`
	UploadedBy    string    `gorm:"column:uploaded_by;type:uuid"`
	CreatedAt     time.Time `gorm:"column:created_at;autoCreateTime"`
}

// TableName specifies the table name for GORM
func (Ebook) TableName() string {
	return "ebooks"
}

// BeforeCreate assigns a UUID so the ID works on any dialect
func (e *Ebook) BeforeCreate(tx *gorm.DB) error {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	return nil
}
