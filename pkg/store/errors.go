package store

import "errors"

// Error taxonomy shared by the core packages. Callers match with errors.Is.
var (
	// ErrNotFound reports an unknown log id or category name.
	ErrNotFound = errors.New("not found")

	// ErrDuplicateEvent reports an external event id collision on append.
	ErrDuplicateEvent = errors.New("duplicate external event id")

	// ErrInvalidRange reports an imported event whose end is not after its
	// start.
	ErrInvalidRange = errors.New("event end is not after start")

	// ErrValidation reports a malformed write, e.g. a negative duration.
	ErrValidation = errors.New("validation failed")
)
