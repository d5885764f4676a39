package gorm

import (
	"time"

	"biblioruche/hive/internal/constants"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type VotingSession struct {
	ID               string                 `gorm:"column:id;primaryKey;type:uuid"`
	Kind             constants.MediaKind    `gorm:"column:kind;index"`
	Title            string                 `gorm:"column:title"`
	Description      *string                `gorm:"column:description"`
	StartDate        time.Time              `gorm:"column:start_date;autoCreateTime"`
	EndDate          time.Time              `gorm:"column:end_date"`
	Status           constants.VotingStatus `gorm:"column:status;default:active;index"`
	CreatedBy        string                 `gorm:"column:created_by;type:uuid"`
	WinnerProposalID *string                `gorm:"column:winner_proposal_id;type:uuid"`

	// Relationships
	Options []VoteOption `gorm:"foreignKey:VotingSessionID"`
	Ballots []Ballot     `gorm:"foreignKey:VotingSessionID"`
}

// TableName specifies the table name for GORM
func (VotingSession) TableName() string {
	return "voting_sessions"
}

// BeforeCreate assigns a UUID so the ID works on any dialect
func (s *VotingSession) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.New().String()
	}
	return nil
}

// Expired reports whether the end timestamp has passed. The stored status is
// only flipped on close, so expiry is always checked live.
func (s *VotingSession) Expired(now time.Time) bool {
	return now.After(s.EndDate)
}

type VoteOption struct {
	ID              string `gorm:"column:id;primaryKey;type:uuid"`
	VotingSessionID string `gorm:"column:voting_session_id;type:uuid;index"`
	ProposalID      string `gorm:"column:proposal_id;type:uuid"`

	// Relationships
	Proposal Proposal `gorm:"foreignKey:ProposalID"`
}

// TableName specifies the table name for GORM
func (VoteOption) TableName() string {
	return "vote_options"
}

func (o *VoteOption) BeforeCreate(tx *gorm.DB) error {
	if o.ID == "" {
		o.ID = uuid.New().String()
	}
	return nil
}

type Ballot struct {
	ID              string    `gorm:"column:id;primaryKey;type:uuid"`
	UserID          string    `gorm:"column:user_id;type:uuid;uniqueIndex:idx_ballot_user_option"`
	VotingSessionID string    `gorm:"column:voting_session_id;type:uuid;index"`
	VoteOptionID    string    `gorm:"column:vote_option_id;type:uuid;uniqueIndex:idx_ballot_user_option"`
	CreatedAt       time.Time `gorm:"column:created_at;autoCreateTime"`

	// Relationships
	User User `gorm:"foreignKey:UserID"`
}

// TableName specifies the table name for GORM
func (Ballot) TableName() string {
	return "ballots"
}

func (b *Ballot) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.New().String()
	}
	return nil
}
