package gorm

import (
	"time"

	"biblioruche/hive/internal/constants"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Proposal is a candidate book or film. Kind selects which club it belongs
// to; the film-only columns stay NULL for books and vice versa.
type Proposal struct {
	ID          string                   `gorm:"column:id;primaryKey;type:uuid"`
	Kind        constants.MediaKind      `gorm:"column:kind;index"`
	Title       string                   `gorm:"column:title"`
	Author      string                   `gorm:"column:author"`
	Description *string                  `gorm:"column:description"`
	ISBN        *string                  `gorm:"column:isbn"`
	Publisher   *string                  `gorm:"column:publisher"`
	PubYear     *int                     `gorm:"column:publication_year"`
	PagesCount  *int                     `gorm:"column:pages_count"`
	Genre       *string                  `gorm:"column:genre"`
	Duration    *int                     `gorm:"column:duration_minutes"`
	PosterURL   *string                  `gorm:"column:poster_url"`
	ProposedBy  string                   `gorm:"column:proposed_by;type:uuid;index"`
	Status      constants.ProposalStatus `gorm:"column:status;default:pending;index"`
	CreatedAt   time.Time                `gorm:"column:created_at;autoCreateTime"`

	// Relationships
	Proposer User     `gorm:"foreignKey:ProposedBy"`
	Reviews  []Review `gorm:"foreignKey:ProposalID"`
}

// TableName specifies the table name for GORM
func (Proposal) TableName() string {
	return "proposals"
}

// BeforeCreate assigns a UUID so the ID works on any dialect
func (p *Proposal) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	return nil
}
