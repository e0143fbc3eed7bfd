package common

import "errors"

// Callers should use errors.Is to match these values.
var (
	// Lookup errors.
	ErrorNotFound = errors.New("not found")

	// Input errors: unknown enum values, formats and file kinds.
	ErrorUnsupported = errors.New("unsupported")
)
