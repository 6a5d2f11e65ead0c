package restore

import "errors"

var (
	// ErrNilSnapshot is returned when Restore is given no snapshot.
	ErrNilSnapshot = errors.New("snapshot cannot be nil")
	// ErrTargetNotFound means the named flowchart is not in the scene, or the
	// named object has no flowchart. Nothing is mutated.
	ErrTargetNotFound = errors.New("failed to find flowchart object specified in save data")
	// ErrMissingBlock is logged, never returned: a saved block no longer
	// exists in the live flowchart.
	ErrMissingBlock = errors.New("saved block is not in flowchart")
)
