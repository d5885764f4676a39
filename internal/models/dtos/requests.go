package dtos

// ProposalSubmitReq is the body for submitting a book or film proposal.
type ProposalSubmitReq struct {
	Kind        string  `json:"kind"`
	Title       string  `json:"title"`
	Author      string  `json:"author"`
	Description *string `json:"description,omitempty"`
	ISBN        *string `json:"isbn,omitempty"`
	Publisher   *string `json:"publisher,omitempty"`
	PubYear     *int    `json:"publication_year,omitempty"`
	PagesCount  *int    `json:"pages_count,omitempty"`
	Genre       *string `json:"genre,omitempty"`
	Duration    *int    `json:"duration_minutes,omitempty"`
	PosterURL   *string `json:"poster_url,omitempty"`
}

// ProposalEditReq updates the details of an existing proposal. Only the
// fields present in the body are changed.
type ProposalEditReq struct {
	Title       *string `json:"title,omitempty"`
	Author      *string `json:"author,omitempty"`
	Description *string `json:"description,omitempty"`
	ISBN        *string `json:"isbn,omitempty"`
	Publisher   *string `json:"publisher,omitempty"`
	PubYear     *int    `json:"publication_year,omitempty"`
	PagesCount  *int    `json:"pages_count,omitempty"`
	Genre       *string `json:"genre,omitempty"`
	Duration    *int    `json:"duration_minutes,omitempty"`
	PosterURL   *string `json:"poster_url,omitempty"`
}

// VotingSessionCreateReq creates a session with a fixed option set.
type VotingSessionCreateReq struct {
	Kind        string   `json:"kind"`
	Title       string   `json:"title"`
	Description *string  `json:"description,omitempty"`
	EndDate     string   `json:"end_date"` // YYYY-MM-DD, closed at 23:59:59
	ProposalIDs []string `json:"proposal_ids"`
}

// VotingSessionEditReq updates title, description or end date while active.
type VotingSessionEditReq struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	EndDate     *string `json:"end_date,omitempty"`
}

// BallotSubmitReq replaces the caller's entire ballot set for the session.
type BallotSubmitReq struct {
	OptionIDs []string `json:"option_ids"`
}

// ClubSessionCreateReq schedules a reading/viewing session. Either an
// existing selected proposal or an inline new one must be given.
type ClubSessionCreateReq struct {
	Kind        string             `json:"kind"`
	ProposalID  *string            `json:"proposal_id,omitempty"`
	NewProposal *ProposalSubmitReq `json:"new_proposal,omitempty"`
	StartDate   string             `json:"start_date"`
	EndDate     string             `json:"end_date"`
	DebriefDate *string            `json:"debrief_date,omitempty"`
	Description *string            `json:"description,omitempty"`
}

// ClubSessionEditReq updates dates and description.
type ClubSessionEditReq struct {
	StartDate   *string `json:"start_date,omitempty"`
	EndDate     *string `json:"end_date,omitempty"`
	DebriefDate *string `json:"debrief_date,omitempty"`
	Description *string `json:"description,omitempty"`
}

// ReviewSubmitReq creates or updates the caller's review for a proposal.
type ReviewSubmitReq struct {
	Rating  int     `json:"rating"`
	Comment *string `json:"comment,omitempty"`
}

// ReviewModerateReq sets moderation flags on a review.
type ReviewModerateReq struct {
	IsVisible   bool `json:"is_visible"`
	IsModerated bool `json:"is_moderated"`
}

// BulkProposalReq applies approve/reject to a batch of proposals.
type BulkProposalReq struct {
	Action      string   `json:"action"` // "approve" or "reject"
	ProposalIDs []string `json:"proposal_ids"`
}
