package savepoint

import (
	"context"
	"time"
)

// Saver persists save points.
type Saver interface {
	// Save persists a save point, replacing any with the same ID
	Save(ctx context.Context, sp *SavePoint) error

	// Load retrieves a save point by ID
	Load(ctx context.Context, id string) (*SavePoint, error)

	// List returns save points matching the filter, newest first
	List(ctx context.Context, filter Filter) ([]*SavePoint, error)

	// Delete removes a save point by ID
	Delete(ctx context.Context, id string) error
}

// Filter for save point queries
type Filter struct {
	Slot   string     `json:"slot,omitempty"`
	Limit  int        `json:"limit,omitempty"`
	Offset int        `json:"offset,omitempty"`
	Since  *time.Time `json:"since,omitempty"`
	Before *time.Time `json:"before,omitempty"`
}

// Validate ensures filter parameters are valid
func (f *Filter) Validate() error {
	if f.Limit < 0 {
		return ErrInvalidLimit
	}
	if f.Offset < 0 {
		return ErrInvalidOffset
	}
	if f.Since != nil && f.Before != nil && f.Since.After(*f.Before) {
		return ErrInvalidTimeRange
	}
	return nil
}

// Matches reports whether sp passes the slot and time criteria. Limit and
// offset are applied by the caller.
func (f *Filter) Matches(sp *SavePoint) bool {
	if f.Slot != "" && sp.Slot != f.Slot {
		return false
	}
	if f.Since != nil && sp.Timestamp.Before(*f.Since) {
		return false
	}
	if f.Before != nil && !sp.Timestamp.Before(*f.Before) {
		return false
	}
	return true
}
