package scene

import "errors"

var (
	// ErrServiceNotFound is returned when a scoped lookup exhausts the
	// ancestor chain without a match. Wrapped errors carry the requested
	// type and the node the lookup started from.
	ErrServiceNotFound = errors.New("service not found")

	// ErrChildNotFound is returned by direct-child lookups.
	ErrChildNotFound = errors.New("child not found")
)
