package services

import (
	"errors"
	"fmt"
)

// Kind classifies service failures; the HTTP layer maps each kind to a status code
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindUnauthorized
	KindForbidden
	KindNotFound
	KindConflict
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindUnauthorized:
		return "unauthorized"
	case KindForbidden:
		return "forbidden"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	default:
		return "internal"
	}
}

// Error carries a kind and a translatable message id
type Error struct {
	Kind      Kind
	MessageID string
	Err       error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.MessageID, e.Err)
	}
	return e.MessageID
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches another *Error of the same kind. A target without a message id
// matches every error of its kind, so errors.Is(err, ErrConflict) holds for
// any conflict.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok || t.Kind != e.Kind {
		return false
	}
	return t.MessageID == "" || t.MessageID == e.MessageID
}

// wrap attaches a cause to a sentinel
func wrap(sentinel *Error, cause error) *Error {
	return &Error{Kind: sentinel.Kind, MessageID: sentinel.MessageID, Err: cause}
}

// Invalid builds a validation error for a malformed request
func Invalid(cause error) *Error {
	return wrap(ErrInvalidRequest, cause)
}

// KindOf returns the kind of err, KindInternal when it is not a service error
func KindOf(err error) Kind {
	var serr *Error
	if errors.As(err, &serr) {
		return serr.Kind
	}
	return KindInternal
}

// Generic sentinels, one per kind
var (
	ErrValidation   = &Error{Kind: KindValidation}
	ErrUnauthorized = &Error{Kind: KindUnauthorized}
	ErrForbidden    = &Error{Kind: KindForbidden}
	ErrNotFound     = &Error{Kind: KindNotFound}
	ErrConflict     = &Error{Kind: KindConflict}
)

var (
	ErrInvalidRequest  = &Error{Kind: KindValidation, MessageID: "error.invalid_request"}
	ErrInvalidDates    = &Error{Kind: KindValidation, MessageID: "error.invalid_dates"}
	ErrInvalidCategory = &Error{Kind: KindValidation, MessageID: "error.invalid_category"}
	ErrInvalidStatus   = &Error{Kind: KindValidation, MessageID: "error.invalid_status"}
	ErrFileRequired    = &Error{Kind: KindValidation, MessageID: "error.file_required"}
	ErrFileTooLarge    = &Error{Kind: KindValidation, MessageID: "error.file_too_large"}

	ErrInvalidCredentials = &Error{Kind: KindUnauthorized, MessageID: "error.invalid_credentials"}
	ErrMissingToken       = &Error{Kind: KindUnauthorized, MessageID: "error.missing_token"}
	ErrSessionExpired     = &Error{Kind: KindUnauthorized, MessageID: "error.session_expired"}
	ErrUserNotFound       = &Error{Kind: KindUnauthorized, MessageID: "error.user_not_found"}

	ErrInvalidToken            = &Error{Kind: KindForbidden, MessageID: "error.invalid_token"}
	ErrPermissionDenied        = &Error{Kind: KindForbidden, MessageID: "error.forbidden"}
	ErrAdminRequired           = &Error{Kind: KindForbidden, MessageID: "error.admin_required"}
	ErrNotProfileOwner         = &Error{Kind: KindForbidden, MessageID: "error.not_profile_owner"}
	ErrOrganizationRequired    = &Error{Kind: KindForbidden, MessageID: "error.organization_required"}
	ErrNotOrganizationOwner    = &Error{Kind: KindForbidden, MessageID: "error.not_organization_owner"}
	ErrCompetitionClosed       = &Error{Kind: KindForbidden, MessageID: "error.competition_closed"}
	ErrNotParticipating        = &Error{Kind: KindForbidden, MessageID: "error.not_participating"}
	ErrParticipantDisqualified = &Error{Kind: KindForbidden, MessageID: "error.participant_disqualified"}
	ErrSubmissionClosed        = &Error{Kind: KindForbidden, MessageID: "error.submission_closed"}

	ErrProfileNotFound      = &Error{Kind: KindNotFound, MessageID: "error.user_not_found"}
	ErrCompetitionNotFound  = &Error{Kind: KindNotFound, MessageID: "error.competition_not_found"}
	ErrOrganizationNotFound = &Error{Kind: KindNotFound, MessageID: "error.organization_not_found"}
	ErrParticipantNotFound  = &Error{Kind: KindNotFound, MessageID: "error.participant_not_found"}
	ErrSubmissionNotFound   = &Error{Kind: KindNotFound, MessageID: "error.submission_not_found"}

	ErrEmailTaken         = &Error{Kind: KindConflict, MessageID: "error.email_taken"}
	ErrUsernameTaken      = &Error{Kind: KindConflict, MessageID: "error.username_taken"}
	ErrAlreadyJoined      = &Error{Kind: KindConflict, MessageID: "error.already_joined"}
	ErrCompetitionFull    = &Error{Kind: KindConflict, MessageID: "error.competition_full"}
	ErrOrganizationExists = &Error{Kind: KindConflict, MessageID: "error.organization_exists"}
)
