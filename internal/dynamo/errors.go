package dynamo

import "errors"

// Domain errors for chain construction, configuration and lookups.
var (
	// ErrInvalidState indicates a frame with NaN or Inf positions or masses.
	ErrInvalidState = errors.New("liquidchain: invalid state (NaN or Inf detected)")

	// ErrInvalidParams indicates solver parameters outside their valid range.
	ErrInvalidParams = errors.New("liquidchain: invalid chain parameters")

	// ErrInvalidConfig indicates a run configuration that cannot be executed.
	ErrInvalidConfig = errors.New("liquidchain: invalid configuration")

	// ErrUnknownAnchor indicates an anchor handle that no longer resolves.
	ErrUnknownAnchor = errors.New("liquidchain: unknown anchor")

	// ErrUnknownMotion indicates an unsupported anchor motion kind.
	ErrUnknownMotion = errors.New("liquidchain: unknown motion kind")

	// ErrUnknownPreset indicates a preset name that is not registered.
	ErrUnknownPreset = errors.New("liquidchain: unknown preset")
)
