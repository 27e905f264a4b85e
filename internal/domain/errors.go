package domain

import "errors"

// Per-file fatal error categories. Readers wrap these with file and variable
// context; whether a failed file skips or aborts the batch is the caller's
// policy, not a guarantee of this package.
var (
	// ErrNoData means the locator found no composite files in the requested
	// window.
	ErrNoData = errors.New("no composite files in window")

	// ErrMissingVariable means a required NetCDF variable is absent and the
	// file cannot be interpreted.
	ErrMissingVariable = errors.New("missing required variable")

	// ErrMissingGridMapping means the file carries no grid-mapping record and
	// cannot be placed on a map.
	ErrMissingGridMapping = errors.New("missing grid-mapping metadata")

	// ErrInvalidGridMapping means the grid-mapping attributes produced a
	// projection the projection engine refuses to parse.
	ErrInvalidGridMapping = errors.New("invalid grid-mapping metadata")

	// ErrShapeMismatch means variable and coordinate lengths disagree,
	// indicating a corrupt or incompatible file.
	ErrShapeMismatch = errors.New("variable/coordinate shape mismatch")
)
