package regulatory

import "errors"

var (
	// ErrMissingTitle is returned when saving a document without a title.
	ErrMissingTitle = errors.New("regulatory: document title is required")

	// ErrInvalidDataType is returned when a document carries an unknown
	// data type.
	ErrInvalidDataType = errors.New("regulatory: invalid data type")

	// ErrInvalidJurisdiction is returned when a document carries an
	// unknown jurisdiction.
	ErrInvalidJurisdiction = errors.New("regulatory: invalid jurisdiction")
)
