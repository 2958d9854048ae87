package quiz

import "errors"

// Error taxonomy surfaced by the engine. Handlers map these onto HTTP statuses;
// nothing is retried internally.
var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidInput = errors.New("invalid input")
	ErrDependency   = errors.New("dependency unavailable")
)
