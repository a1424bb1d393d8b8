package sink

import "errors"

var (
	// ErrHeaderMismatch indicates an existing output file has different columns.
	ErrHeaderMismatch = errors.New("output header does not match expected columns")

	// ErrMalformedRow indicates a row in an existing output file could not be parsed.
	ErrMalformedRow = errors.New("malformed output row")
)
