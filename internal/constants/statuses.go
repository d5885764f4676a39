package constants

import (
	"database/sql/driver"
	"fmt"
)

// MediaKind distinguishes the book club from the cine club mirror.
type MediaKind string

const (
	KindBook MediaKind = "book"
	KindFilm MediaKind = "film"
)

func (k MediaKind) String() string { return string(k) }

func (k MediaKind) Valid() bool {
	return k == KindBook || k == KindFilm
}

// ProposalStatus mirrors the proposal lifecycle enum.
type ProposalStatus string

const (
	ProposalPending    ProposalStatus = "pending"
	ProposalApproved   ProposalStatus = "approved"
	ProposalSelected   ProposalStatus = "selected"
	ProposalInProgress ProposalStatus = "in_progress"
	ProposalCompleted  ProposalStatus = "completed"
	ProposalArchived   ProposalStatus = "archived"
	ProposalRejected   ProposalStatus = "rejected"
)

func (s ProposalStatus) String() string { return string(s) }

// VotingStatus is the voting session state. Closing is terminal.
type VotingStatus string

const (
	VotingActive VotingStatus = "active"
	VotingClosed VotingStatus = "closed"
)

func (s VotingStatus) String() string { return string(s) }

// ClubSessionStatus is the reading/viewing session state.
// Completed and archived are sticky: recalculation never reverts them.
type ClubSessionStatus string

const (
	SessionUpcoming  ClubSessionStatus = "upcoming"
	SessionCurrent   ClubSessionStatus = "current"
	SessionCompleted ClubSessionStatus = "completed"
	SessionArchived  ClubSessionStatus = "archived"
)

func (s ClubSessionStatus) String() string { return string(s) }

func (s ClubSessionStatus) Terminal() bool {
	return s == SessionCompleted || s == SessionArchived
}

/* ---------- DB adapters so sqlx (or database/sql) scans/values cleanly ---------- */

func (k *MediaKind) Scan(src interface{}) error {
	return scanEnum((*string)(k), src, "MediaKind")
}
func (k MediaKind) Value() (driver.Value, error) { return string(k), nil }

func (s *ProposalStatus) Scan(src interface{}) error {
	return scanEnum((*string)(s), src, "ProposalStatus")
}
func (s ProposalStatus) Value() (driver.Value, error) { return string(s), nil }

func (s *VotingStatus) Scan(src interface{}) error {
	return scanEnum((*string)(s), src, "VotingStatus")
}
func (s VotingStatus) Value() (driver.Value, error) { return string(s), nil }

func (s *ClubSessionStatus) Scan(src interface{}) error {
	return scanEnum((*string)(s), src, "ClubSessionStatus")
}
func (s ClubSessionStatus) Value() (driver.Value, error) { return string(s), nil }

func scanEnum(dst *string, src interface{}, name string) error {
	if src == nil {
		*dst = ""
		return nil
	}
	switch v := src.(type) {
	case string:
		*dst = v
	case []byte:
		*dst = string(v)
	default:
		return fmt.Errorf("%s: cannot scan type %T", name, src)
	}
	return nil
}
