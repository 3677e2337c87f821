package router

import "errors"

var (
	// ErrInvalidPattern indicates a path template with malformed placeholder
	// syntax, e.g. a brace that is not a full "{name}" segment.
	ErrInvalidPattern = errors.New("invalid route path pattern")

	// ErrDuplicateParam indicates a path template that binds the same
	// parameter name more than once.
	ErrDuplicateParam = errors.New("duplicate parameter name")
)
