package datasource

import "errors"

var (
	// ErrMissingClient is returned when a data source is constructed
	// without a search client.
	ErrMissingClient = errors.New("datasource: search client is required")

	// ErrMissingIndex is returned when a data source is constructed with
	// an empty index name.
	ErrMissingIndex = errors.New("datasource: index name is required")

	// ErrMissingTransformer is returned when a data source is constructed
	// without a record transformer.
	ErrMissingTransformer = errors.New("datasource: record transformer is required")

	// ErrTransform wraps record transformation failures on both the read
	// and write paths.
	ErrTransform = errors.New("datasource: record transformation failed")
)
