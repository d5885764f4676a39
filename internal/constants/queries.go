package constants

// Aggregate queries used by the badge evaluator and the stats endpoints.
// These run on the sqlx connection; row-oriented access goes through GORM.

const (
	CountParticipationsByKind = `
	SELECT COUNT(*) FROM participations p
	JOIN club_sessions cs ON cs.id = p.club_session_id
	WHERE p.user_id = $1 AND cs.kind = $2
	`

	CountVisibleReviews = `
	SELECT COUNT(*) FROM reviews WHERE user_id = $1 AND is_visible = true
	`

	CountBallotsByKind = `
	SELECT COUNT(*) FROM ballots b
	JOIN voting_sessions vs ON vs.id = b.voting_session_id
	WHERE b.user_id = $1 AND vs.kind = $2
	`

	CountProposals = `
	SELECT COUNT(*) FROM proposals WHERE proposed_by = $1
	`

	CountAcceptedProposalsByKind = `
	SELECT COUNT(*) FROM proposals
	WHERE proposed_by = $1 AND kind = $2 AND status NOT IN ('pending', 'rejected')
	`

	CountUsers = `
	SELECT COUNT(*) FROM users
	`

	CountProposalsByStatus = `
	SELECT status, COUNT(*) AS count FROM proposals WHERE kind = $1 GROUP BY status
	`

	CountSessionsByStatus = `
	SELECT status, COUNT(*) AS count FROM club_sessions WHERE kind = $1 GROUP BY status
	`

	CountBadgesSeeded = `
	SELECT COUNT(*) FROM badges
	`

	CountBadgesAwarded = `
	SELECT COUNT(*) FROM user_badges
	`
)
