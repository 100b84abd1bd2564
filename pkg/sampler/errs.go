package sampler

import "errors"

var (
	// ErrBadConfig indicates invalid constructor arguments (non-positive or
	// unparsable pid entries, unknown memory unit). Fatal at construction.
	ErrBadConfig = errors.New("sampler: invalid configuration")

	// ErrNotInitialized indicates Sample was called before Initialize
	// captured a baseline. Caller defect.
	ErrNotInitialized = errors.New("sampler: sample before initialize")

	// ErrEnumeration indicates the process list or system uptime could not
	// be read. Fatal for the whole capture.
	ErrEnumeration = errors.New("sampler: cannot enumerate processes")

	// ErrIntegrity indicates a cumulative counter decreased for a matched
	// process identity. Counters never legitimately go backwards; this
	// signals a kernel anomaly or corrupted baseline and is never clamped.
	ErrIntegrity = errors.New("sampler: counter went backwards")

	// ErrMissingField indicates a mandatory scheduling counter was absent
	// from a stored record at diff time. Engine bug, never swallowed.
	ErrMissingField = errors.New("sampler: counter missing from record")

	// ErrInvalidValue indicates a value that should be numeric was not.
	ErrInvalidValue = errors.New("sampler: non-numeric value")
)
