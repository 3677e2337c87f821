package binder

import "errors"

// Error variables classify binding failures; every returned error wraps one.
var (
	// ErrEmptyBody indicates the JSON stage ran against a request without a
	// body.
	ErrEmptyBody = errors.New("request has no body")

	// ErrUnsupportedMediaType indicates the body arrived under a non-JSON
	// Content-Type and was kept as a raw string by the adapter.
	ErrUnsupportedMediaType = errors.New("unsupported media type")

	// ErrFailedToParseJSON indicates the body is not valid JSON or does not
	// match the target struct.
	ErrFailedToParseJSON = errors.New("failed to parse JSON request body")

	// ErrFailedToParseQuery indicates a query parameter could not be
	// converted to its field type.
	ErrFailedToParseQuery = errors.New("failed to parse query parameters")

	// ErrFailedToParsePath indicates a path parameter could not be converted
	// to its field type.
	ErrFailedToParsePath = errors.New("failed to parse path parameters")

	// ErrValidation indicates the bound struct failed its validate tags.
	ErrValidation = errors.New("validation failed")
)
