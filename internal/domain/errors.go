package domain

import (
	"errors"
	"net/http"
)

// HTTPError defines errors that can be mapped to HTTP status codes.
type HTTPError interface {
	error
	StatusCode() int
}

// Category sentinels - use with errors.Is() to match a whole class of
// failures without enumerating every specific error.
var (
	ErrValidation   = errors.New("validation failed")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
)

// categorized is a specific failure tied to one of the category sentinels.
// errors.Is matches both the value itself and its category.
type categorized struct {
	msg      string
	category error
}

func (e *categorized) Error() string { return e.msg }

// Is allows errors.Is() to match against the category sentinel
func (e *categorized) Is(target error) bool { return target == e.category }

// StatusCode implements the HTTPError interface
func (e *categorized) StatusCode() int {
	switch e.category {
	case ErrValidation:
		return http.StatusBadRequest
	case ErrUnauthorized:
		return http.StatusUnauthorized
	case ErrForbidden:
		return http.StatusForbidden
	case ErrNotFound:
		return http.StatusNotFound
	case ErrConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// Specific failures of the page lifecycle. Every precondition violation
// aborts the enclosing transaction; nothing here is retryable.
var (
	// Validation
	ErrInvalidDocument    = &categorized{"document body must start with a doctype and end with a closing html tag", ErrValidation}
	ErrInvalidOwnerConfig = &categorized{"owner set and threshold are invalid for the declared ownership type", ErrValidation}
	ErrNoFieldsChanged    = &categorized{"at least one of name, thumbnail, or html must be replaced", ErrValidation}
	ErrInsufficientFee    = &categorized{"payment is below the page update fee", ErrValidation}

	// Authorization
	ErrNotOwner        = &categorized{"caller is not an owner of this page", ErrForbidden}
	ErrNotSingleOwner  = &categorized{"caller is not the sole owner of this page", ErrForbidden}
	ErrOwnershipLocked = &categorized{"ownership can only be changed while the page is single-owner", ErrForbidden}

	// State
	ErrPageNotFound         = &categorized{"page not found", ErrNotFound}
	ErrRequestNotFound      = &categorized{"update request not found", ErrNotFound}
	ErrPageImmutable        = &categorized{"page is immutable", ErrConflict}
	ErrAlreadyExecuted      = &categorized{"update request has already been executed", ErrConflict}
	ErrAlreadyApproved      = &categorized{"caller has already approved this update request", ErrConflict}
	ErrWithdrawalNotAllowed = &categorized{"fee withdrawal is not available on permissionless pages", ErrConflict}
	ErrNotPermissionless    = &categorized{"treasury distribution is only available on permissionless pages", ErrConflict}
	ErrNoParticipants       = &categorized{"page has no recorded participants", ErrConflict}
)
