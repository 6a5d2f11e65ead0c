package savepoint

import "errors"

var (
	// Save point validation errors
	ErrInvalidSavePointID = errors.New("invalid save point ID")
	ErrInvalidSlot        = errors.New("invalid save slot")
	ErrNilItems           = errors.New("save point items cannot be nil")
	ErrUntypedItem        = errors.New("save data item has no type")
	ErrSavePointNotFound  = errors.New("save point not found")

	// Filter validation errors
	ErrInvalidLimit     = errors.New("limit cannot be negative")
	ErrInvalidOffset    = errors.New("offset cannot be negative")
	ErrInvalidTimeRange = errors.New("invalid time range: since is after before")
)
