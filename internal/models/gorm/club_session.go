package gorm

import (
	"time"

	"biblioruche/hive/internal/constants"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ClubSession is a reading session (book club) or viewing session (cine club).
type ClubSession struct {
	ID          string                      `gorm:"column:id;primaryKey;type:uuid"`
	Kind        constants.MediaKind         `gorm:"column:kind;index"`
	ProposalID  string                      `gorm:"column:proposal_id;type:uuid;index"`
	StartDate   time.Time                   `gorm:"column:start_date"`
	EndDate     time.Time                   `gorm:"column:end_date"`
	DebriefDate *time.Time                  `gorm:"column:debrief_date"`
	Status      constants.ClubSessionStatus `gorm:"column:status;default:upcoming;index"`
	Description *string                     `gorm:"column:description"`
	CreatedBy   string                      `gorm:"column:created_by;type:uuid"`
	CreatedAt   time.Time                   `gorm:"column:created_at;autoCreateTime"`

	// Relationships
	Proposal     Proposal        `gorm:"foreignKey:ProposalID"`
	Participants []Participation `gorm:"foreignKey:ClubSessionID"`
}

// TableName specifies the table name for GORM
func (ClubSession) TableName() string {
	return "club_sessions"
}

// BeforeCreate assigns a UUID so the ID works on any dialect
func (s *ClubSession) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.New().String()
	}
	return nil
}

type Participation struct {
	ID            string    `gorm:"column:id;primaryKey;type:uuid"`
	UserID        string    `gorm:"column:user_id;type:uuid;uniqueIndex:idx_participation_user_session"`
	ClubSessionID string    `gorm:"column:club_session_id;type:uuid;uniqueIndex:idx_participation_user_session"`
	JoinedAt      time.Time `gorm:"column:joined_at;autoCreateTime"`

	// Relationships
	User User `gorm:"foreignKey:UserID"`
}

// TableName specifies the table name for GORM
func (Participation) TableName() string {
	return "participations"
}

func (p *Participation) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	return nil
}
