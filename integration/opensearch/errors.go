package opensearch

import "errors"

var (
	// ErrFailedToCreateClient is returned when the underlying client cannot
	// be constructed from the provided configuration.
	ErrFailedToCreateClient = errors.New("failed to create opensearch client")
	// ErrConnectionFailed is returned when the cluster cannot be reached
	// during setup.
	ErrConnectionFailed = errors.New("failed to connect to opensearch")
	// ErrHealthcheckFailed is returned when a connectivity probe fails.
	ErrHealthcheckFailed = errors.New("opensearch healthcheck failed")
	// ErrRequestFailed is returned when the cluster rejects or fails an
	// operation.
	ErrRequestFailed = errors.New("opensearch request failed")
	// ErrDocumentNotFound is returned when a write targets a document that
	// does not exist.
	ErrDocumentNotFound = errors.New("document not found")
)
