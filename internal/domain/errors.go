package domain

import "errors"

var (
	ErrNotFound        = errors.New("not found")
	ErrUnauthorized    = errors.New("unauthorized")
	ErrForbidden       = errors.New("forbidden")
	ErrConsentRequired = errors.New("consent required")
	ErrInvalidDonation = errors.New("invalid donation")
	ErrEmptyMessage    = errors.New("empty message")
	ErrUnknownOption   = errors.New("unknown poll option")
	ErrInvalidView     = errors.New("invalid view")
	ErrInvalidPost     = errors.New("invalid post")
)
