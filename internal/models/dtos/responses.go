package dtos

import "time"

// UserSummary is the public shape of a user.
type UserSummary struct {
	ID          string  `json:"id"`
	Username    string  `json:"username"`
	DisplayName string  `json:"display_name"`
	AvatarURL   *string `json:"avatar_url,omitempty"`
	IsAdmin     bool    `json:"is_admin"`
}

// ProposalResponse is the public shape of a proposal.
type ProposalResponse struct {
	ID          string    `json:"id"`
	Kind        string    `json:"kind"`
	Title       string    `json:"title"`
	Author      string    `json:"author"`
	Description *string   `json:"description,omitempty"`
	ISBN        *string   `json:"isbn,omitempty"`
	Publisher   *string   `json:"publisher,omitempty"`
	PubYear     *int      `json:"publication_year,omitempty"`
	PagesCount  *int      `json:"pages_count,omitempty"`
	Genre       *string   `json:"genre,omitempty"`
	Duration    *int      `json:"duration_minutes,omitempty"`
	PosterURL   *string   `json:"poster_url,omitempty"`
	Status      string    `json:"status"`
	ProposedBy  string    `json:"proposed_by"`
	CreatedAt   time.Time `json:"created_at"`

	AvgRating   float64 `json:"avg_rating"`
	ReviewCount int     `json:"review_count"`
}

// ProposalListResponse is a filtered page of proposals plus per-status counts.
type ProposalListResponse struct {
	Proposals []ProposalResponse `json:"proposals"`
	Page      int                `json:"page"`
	PerPage   int                `json:"per_page"`
	Total     int64              `json:"total"`
	Counts    map[string]int64   `json:"counts"`
}

// VoteOptionResult carries the tally of one option after the results are
// visible. Voters is only populated for admins.
type VoteOptionResult struct {
	OptionID   string        `json:"option_id"`
	Proposal   string        `json:"proposal_id"`
	Title      string        `json:"title"`
	Author     string        `json:"author"`
	Count      int64         `json:"count"`
	Percentage float64       `json:"percentage"`
	Voters     []UserSummary `json:"voters,omitempty"`
}

// VotingSessionResponse is the public shape of a voting session.
type VotingSessionResponse struct {
	ID               string             `json:"id"`
	Kind             string             `json:"kind"`
	Title            string             `json:"title"`
	Description      *string            `json:"description,omitempty"`
	StartDate        time.Time          `json:"start_date"`
	EndDate          time.Time          `json:"end_date"`
	Status           string             `json:"status"`
	Expired          bool               `json:"expired"`
	WinnerProposalID *string            `json:"winner_proposal_id,omitempty"`
	Options          []VoteOptionResult `json:"options"`
	UserOptionIDs    []string           `json:"user_option_ids,omitempty"`
	ShowResults      bool               `json:"show_results"`
}

// CloseVoteResponse reports the outcome of closing a session.
type CloseVoteResponse struct {
	SessionID        string   `json:"session_id"`
	WinnerProposals  []string `json:"winner_proposal_ids"`
	WinnerProposalID *string  `json:"winner_proposal_id,omitempty"`
	MaxBallots       int64    `json:"max_ballots"`
}

// ClubSessionResponse is the public shape of a reading/viewing session.
type ClubSessionResponse struct {
	ID               string           `json:"id"`
	Kind             string           `json:"kind"`
	Proposal         ProposalResponse `json:"proposal"`
	StartDate        time.Time        `json:"start_date"`
	EndDate          time.Time        `json:"end_date"`
	DebriefDate      *time.Time       `json:"debrief_date,omitempty"`
	Status           string           `json:"status"`
	Description      *string          `json:"description,omitempty"`
	ParticipantCount int              `json:"participant_count"`
	Participants     []UserSummary    `json:"participants,omitempty"`
	UserRegistered   bool             `json:"user_registered"`
}

// ReviewResponse is the public shape of a review.
type ReviewResponse struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	Username    string    `json:"username"`
	ProposalID  string    `json:"proposal_id"`
	Rating      int       `json:"rating"`
	Comment     *string   `json:"comment,omitempty"`
	IsVisible   bool      `json:"is_visible"`
	IsModerated bool      `json:"is_moderated"`
	CreatedAt   time.Time `json:"created_at"`
}

// BadgeResponse is one badge, optionally with its award timestamp.
type BadgeResponse struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Icon        string     `json:"icon"`
	Category    string     `json:"category"`
	Color       string     `json:"color"`
	EarnedAt    *time.Time `json:"earned_at,omitempty"`
}

// UserStats are the activity counters shown on a profile and consumed by the
// badge evaluator.
type UserStats struct {
	TotalProposals        int64 `json:"total_proposals"`
	AcceptedBookProposals int64 `json:"accepted_book_proposals"`
	AcceptedFilmProposals int64 `json:"accepted_film_proposals"`
	BookBallots           int64 `json:"book_ballots"`
	FilmBallots           int64 `json:"film_ballots"`
	ReadingParticipations int64 `json:"reading_participations"`
	ViewingParticipations int64 `json:"viewing_participations"`
	TotalReviews          int64 `json:"total_reviews"`
}

// UserProfileResponse aggregates a user's public profile.
type UserProfileResponse struct {
	User             UserSummary                `json:"user"`
	Stats            UserStats                  `json:"stats"`
	BadgesByCategory map[string][]BadgeResponse `json:"badges_by_category"`
	RecentReviews    []ReviewResponse           `json:"recent_reviews"`
}

// NotificationResponse is one in-app notification.
type NotificationResponse struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Link      *string   `json:"link,omitempty"`
	Icon      *string   `json:"icon,omitempty"`
	IsRead    bool      `json:"is_read"`
	CreatedAt time.Time `json:"created_at"`
}

// NotificationListResponse is the polling payload.
type NotificationListResponse struct {
	UnreadCount   int64                  `json:"unread_count"`
	Notifications []NotificationResponse `json:"notifications"`
}

// BookSearchResult is one Open Library hit.
type BookSearchResult struct {
	Key      string   `json:"key"`
	Title    string   `json:"title"`
	Author   string   `json:"author"`
	Year     *int     `json:"year,omitempty"`
	ISBN     *string  `json:"isbn,omitempty"`
	Pages    *int     `json:"pages,omitempty"`
	CoverURL *string  `json:"cover_url,omitempty"`
	Subjects []string `json:"subjects,omitempty"`
}

// SiteStatsResponse is the public aggregate snapshot.
type SiteStatsResponse struct {
	Users    int64            `json:"users"`
	Books    map[string]int64 `json:"books"`
	Films    map[string]int64 `json:"films"`
	Readings map[string]int64 `json:"readings"`
	Viewings map[string]int64 `json:"viewings"`
	Badges   map[string]int64 `json:"badges"`
}

// BulkActionResponse reports per-item outcomes of a batch operation.
type BulkActionResponse struct {
	Applied int `json:"applied"`
	Skipped int `json:"skipped"`
}

// EbookResponse is the public shape of a library entry.
type EbookResponse struct {
	ID            string    `json:"id"`
	ProposalID    *string   `json:"proposal_id,omitempty"`
	Title         string    `json:"title"`
	Author        string    `json:"author"`
	Genre         *string   `json:"genre,omitempty"`
	FileSize      int64     `json:"file_size"`
	DownloadCount int       `json:"download_count"`
	CreatedAt     time.Time `json:"created_at"`
}
