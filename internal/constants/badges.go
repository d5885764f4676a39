package constants

// BadgeCategory groups badges on the profile page.
type BadgeCategory string

const (
	BadgeCatReading  BadgeCategory = "lecture"
	BadgeCatReview   BadgeCategory = "notation"
	BadgeCatVote     BadgeCategory = "vote"
	BadgeCatProposal BadgeCategory = "proposition"
	BadgeCatCineclub BadgeCategory = "cineclub"
)

func (c BadgeCategory) String() string { return string(c) }

// BadgeActivity is the counter a badge rule compares its threshold against.
type BadgeActivity string

const (
	ActivityReadingParticipations BadgeActivity = "reading_participations"
	ActivityViewingParticipations BadgeActivity = "viewing_participations"
	ActivityReviews               BadgeActivity = "reviews"
	ActivityBookBallots           BadgeActivity = "book_ballots"
	ActivityFilmBallots           BadgeActivity = "film_ballots"
	ActivityProposals             BadgeActivity = "proposals"
	ActivityApprovedBookProposals BadgeActivity = "approved_book_proposals"
	ActivityApprovedFilmProposals BadgeActivity = "approved_film_proposals"
)

// BadgeRule ties a seeded badge name to an activity threshold.
type BadgeRule struct {
	Name        string
	Description string
	Icon        string
	Category    BadgeCategory
	Color       string
	Activity    BadgeActivity
	Threshold   int
}

// BadgeRules is the full catalogue. Rules are independent: no badge conflicts
// with another, so evaluation order does not matter.
var BadgeRules = []BadgeRule{
	// Lecture
	{Name: "Premier pas", Description: "Première participation à une lecture commune", Icon: "fa-shoe-prints", Category: BadgeCatReading, Color: "success", Activity: ActivityReadingParticipations, Threshold: 1},
	{Name: "Lecteur régulier", Description: "5 participations à des lectures communes", Icon: "fa-book-reader", Category: BadgeCatReading, Color: "primary", Activity: ActivityReadingParticipations, Threshold: 5},
	{Name: "Lecteur assidu", Description: "10 participations à des lectures communes", Icon: "fa-glasses", Category: BadgeCatReading, Color: "warning", Activity: ActivityReadingParticipations, Threshold: 10},

	// Notation
	{Name: "Premier avis", Description: "Premier avis publié sur un livre", Icon: "fa-comment", Category: BadgeCatReview, Color: "success", Activity: ActivityReviews, Threshold: 1},
	{Name: "Critique actif", Description: "10 avis publiés", Icon: "fa-pen-fancy", Category: BadgeCatReview, Color: "warning", Activity: ActivityReviews, Threshold: 10},

	// Vote
	{Name: "Premier vote", Description: "Premier bulletin déposé", Icon: "fa-check-to-slot", Category: BadgeCatVote, Color: "success", Activity: ActivityBookBallots, Threshold: 1},
	{Name: "Voteur actif", Description: "5 bulletins déposés", Icon: "fa-square-poll-vertical", Category: BadgeCatVote, Color: "primary", Activity: ActivityBookBallots, Threshold: 5},

	// Proposition
	{Name: "Première proposition", Description: "Premier livre proposé au club", Icon: "fa-lightbulb", Category: BadgeCatProposal, Color: "success", Activity: ActivityProposals, Threshold: 1},
	{Name: "Proposeur", Description: "3 propositions de livres acceptées", Icon: "fa-book-medical", Category: BadgeCatProposal, Color: "primary", Activity: ActivityApprovedBookProposals, Threshold: 3},
	{Name: "Découvreur", Description: "5 propositions de livres acceptées", Icon: "fa-compass", Category: BadgeCatProposal, Color: "warning", Activity: ActivityApprovedBookProposals, Threshold: 5},

	// CinéClub
	{Name: "Premier Film", Description: "Première participation à une séance de visionnage", Icon: "fa-film", Category: BadgeCatCineclub, Color: "success", Activity: ActivityViewingParticipations, Threshold: 1},
	{Name: "Cinéphile", Description: "5 séances de visionnage", Icon: "fa-clapperboard", Category: BadgeCatCineclub, Color: "primary", Activity: ActivityViewingParticipations, Threshold: 5},
	{Name: "Cinéphile passionné", Description: "15 séances de visionnage", Icon: "fa-video", Category: BadgeCatCineclub, Color: "warning", Activity: ActivityViewingParticipations, Threshold: 15},
	{Name: "Voteur de films", Description: "Premier bulletin déposé pour un film", Icon: "fa-ticket", Category: BadgeCatCineclub, Color: "success", Activity: ActivityFilmBallots, Threshold: 1},
	{Name: "Critique de cinéma", Description: "10 bulletins déposés pour des films", Icon: "fa-star-half-stroke", Category: BadgeCatCineclub, Color: "primary", Activity: ActivityFilmBallots, Threshold: 10},
	{Name: "Réalisateur en herbe", Description: "Première proposition de film acceptée", Icon: "fa-camera", Category: BadgeCatCineclub, Color: "success", Activity: ActivityApprovedFilmProposals, Threshold: 1},
	{Name: "Programmateur", Description: "5 propositions de films acceptées", Icon: "fa-list-check", Category: BadgeCatCineclub, Color: "warning", Activity: ActivityApprovedFilmProposals, Threshold: 5},
}
