package services

import "errors"

var (
	// ErrNoSnapshots is returned when Save is called without any flowchart.
	ErrNoSnapshots = errors.New("no flowchart snapshots to save")
	// ErrInvalidSnapshot wraps a snapshot that failed validation.
	ErrInvalidSnapshot = errors.New("invalid flowchart snapshot")
)
