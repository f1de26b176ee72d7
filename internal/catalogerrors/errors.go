package catalogerrors

import "errors"

// Repository-level errors
var (
	ErrAuctionNotFound = errors.New("auction not found")
	ErrOfferNotFound   = errors.New("offer not found")
	ErrAuctionInUse    = errors.New("auction still has offers")
)

// request validation errors, reported by the REST API as error.<key>
var (
	ErrIDExists       = errors.New("a new entity cannot already have an ID")
	ErrIDNull         = errors.New("invalid id")
	ErrIDInvalid      = errors.New("invalid ID")
	ErrIDNotFound     = errors.New("entity not found")
	ErrUnknownAuction = errors.New("referenced auction does not exist")
)

// client-side errors
var (
	ErrBackendUnavailable = errors.New("backend unavailable")
	ErrServerFailure      = errors.New("backend failed to process the request")
	ErrRequestRejected    = errors.New("backend rejected the request")
	ErrNotFound           = errors.New("entity not found on backend")
	ErrInvalidID          = errors.New("invalid entity identifier")
	ErrInvalidForm        = errors.New("invalid form input")
	ErrDialogNotReady     = errors.New("delete dialog has no loaded entity")
	ErrInvalidTransition  = errors.New("invalid view state transition")
)
