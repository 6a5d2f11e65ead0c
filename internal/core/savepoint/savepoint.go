// Package savepoint provides the save point entity, a named slot holding the
// save data items captured at one moment, and the persistence contract for it.
package savepoint

import (
	"time"

	"github.com/flowgraph/flowsave/internal/core/savedata"
)

// CurrentVersion is written into new save points.
const CurrentVersion = "1.0"

// SavePoint is one saved game state: a group of typed items sharing a slot.
type SavePoint struct {
	ID                string          `json:"id" msgpack:"id"`
	Slot              string          `json:"slot" msgpack:"slot"`
	Description       string          `json:"description,omitempty" msgpack:"description,omitempty"`
	ProgressMarkerKey string          `json:"progressMarkerKey,omitempty" msgpack:"progressMarkerKey,omitempty"`
	Items             []savedata.Item `json:"items" msgpack:"items"`
	Timestamp         time.Time       `json:"timestamp" msgpack:"timestamp"`
	Version           string          `json:"version" msgpack:"version"`
}

// Validate ensures save point integrity
func (sp *SavePoint) Validate() error {
	if sp.ID == "" {
		return ErrInvalidSavePointID
	}
	if sp.Slot == "" {
		return ErrInvalidSlot
	}
	if sp.Items == nil {
		return ErrNilItems
	}
	for _, item := range sp.Items {
		if item.DataType == "" {
			return ErrUntypedItem
		}
	}
	return nil
}
