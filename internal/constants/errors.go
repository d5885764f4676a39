package constants

// User-facing error messages. Constraint violations surface as "already done"
// style messages rather than generic errors.

const (
	ErrMsgUnauthorized       = "Connexion requise"
	ErrMsgAdminOnly          = "Accès réservé aux administrateurs"
	ErrMsgNotFound           = "Ressource introuvable"
	ErrMsgVoteClosed         = "Ce vote n'est plus actif"
	ErrMsgVoteExpired        = "Ce vote a expiré"
	ErrMsgAlreadyVoted       = "Vous avez déjà voté pour cette session"
	ErrMsgAlreadyRegistered  = "Vous êtes déjà inscrit à cette séance"
	ErrMsgNotRegistered      = "Vous n'étiez pas inscrit à cette séance"
	ErrMsgAlreadyReviewed    = "Vous avez déjà publié un avis sur ce titre"
	ErrMsgNotReviewable      = "Ce titre ne peut pas encore être noté"
	ErrMsgSelfAdminToggle    = "Vous ne pouvez pas modifier vos propres droits d'administration"
	ErrMsgForbidden          = "Vous n'êtes pas autorisé à modifier cette ressource"
	ErrMsgLookupUnavailable  = "Service temporairement indisponible"
	ErrMsgInvalidUpload      = "Fichier invalide ou non autorisé"
	ErrMsgUploadTooLarge     = "Fichier trop volumineux"
	ErrMsgDownloadLinkUsed   = "Ce lien de téléchargement a déjà été utilisé"
)

// APIStatus values for the response envelope.
type APIStatus string

const (
	APIStatusOk    APIStatus = "ok"
	APIStatusError APIStatus = "error"
)
