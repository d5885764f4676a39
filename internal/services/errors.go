package services

import (
	"errors"

	"biblioruche/hive/internal/constants"
)

// Service-level errors carrying the user-facing message. Handlers match with
// errors.Is and pick the HTTP status.
var (
	ErrNotFound          = errors.New(constants.ErrMsgNotFound)
	ErrVoteClosed        = errors.New(constants.ErrMsgVoteClosed)
	ErrVoteExpired       = errors.New(constants.ErrMsgVoteExpired)
	ErrAlreadyRegistered = errors.New(constants.ErrMsgAlreadyRegistered)
	ErrNotRegistered     = errors.New(constants.ErrMsgNotRegistered)
	ErrNotReviewable     = errors.New(constants.ErrMsgNotReviewable)
	ErrSelfAdminToggle   = errors.New(constants.ErrMsgSelfAdminToggle)
	ErrForbidden         = errors.New(constants.ErrMsgForbidden)
	ErrLookupUnavailable = errors.New(constants.ErrMsgLookupUnavailable)
	ErrInvalidInput      = errors.New("Requête invalide")
)
