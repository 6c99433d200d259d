package repository

import "errors"

var (
	// ErrDuplicateKey reports a clinic_id that is already registered.
	ErrDuplicateKey = errors.New("duplicate key")
	// ErrUnavailable reports that the backing store could not be reached.
	ErrUnavailable = errors.New("store unavailable")
)
