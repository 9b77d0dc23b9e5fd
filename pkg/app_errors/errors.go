package apperrors

import "errors"

var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrInvalidSeatCount      = errors.New("seat count must be greater than zero")
	ErrAdjacentSeatsNotFound = errors.New("no block of adjacent seats found")
	ErrSelectionTooLarge     = errors.New("selection exceeds limit")
	ErrSeatNotFound          = errors.New("seat not found")
	ErrSeatUnavailable       = errors.New("seat not available")
	ErrInvalidSeatStatus     = errors.New("invalid seat status")
	ErrVenueNotFound         = errors.New("venue not found")
	ErrVenueNotLoaded        = errors.New("venue not loaded")
	ErrInvalidVenue          = errors.New("invalid venue")
	ErrSelectionConflict     = errors.New("selection changed concurrently")
	ErrInvalidTheme          = errors.New("invalid theme")
	ErrInternalServerError   = errors.New("internal server error")
)
