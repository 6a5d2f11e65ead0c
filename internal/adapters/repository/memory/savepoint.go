// Package memory provides an in-process savepoint.Saver.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/flowgraph/flowsave/internal/core/savepoint"
	"github.com/flowgraph/flowsave/pkg/serialization"
)

// Saver keeps serialized save points in a map. Stored data is copied through
// the serializer, so callers cannot mutate it after Save.
type Saver struct {
	mu         sync.RWMutex
	entries    map[string][]byte
	index      map[string]*savepoint.SavePoint
	serializer *serialization.Serializer
}

// NewSaver creates a saver; a nil serializer means MessagePack.
func NewSaver(serializer *serialization.Serializer) *Saver {
	if serializer == nil {
		serializer = serialization.DefaultSerializer()
	}
	return &Saver{
		entries:    make(map[string][]byte),
		index:      make(map[string]*savepoint.SavePoint),
		serializer: serializer,
	}
}

// Save implements savepoint.Saver.
func (s *Saver) Save(_ context.Context, sp *savepoint.SavePoint) error {
	if sp == nil {
		return savepoint.ErrInvalidSavePointID
	}
	if err := sp.Validate(); err != nil {
		return fmt.Errorf("save point validation failed: %w", err)
	}

	data, err := s.serializer.Serialize(sp)
	if err != nil {
		return fmt.Errorf("save point serialization failed: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[sp.ID] = data
	// Index carries only what List filters and sorts on.
	s.index[sp.ID] = &savepoint.SavePoint{ID: sp.ID, Slot: sp.Slot, Timestamp: sp.Timestamp}
	return nil
}

// Load implements savepoint.Saver.
func (s *Saver) Load(_ context.Context, id string) (*savepoint.SavePoint, error) {
	if id == "" {
		return nil, savepoint.ErrInvalidSavePointID
	}

	s.mu.RLock()
	data, ok := s.entries[id]
	s.mu.RUnlock()
	if !ok {
		return nil, savepoint.ErrSavePointNotFound
	}
	return s.decode(data)
}

// List implements savepoint.Saver.
func (s *Saver) List(_ context.Context, filter savepoint.Filter) ([]*savepoint.SavePoint, error) {
	if err := filter.Validate(); err != nil {
		return nil, fmt.Errorf("filter validation failed: %w", err)
	}

	s.mu.RLock()
	var matched []*savepoint.SavePoint
	for _, meta := range s.index {
		if filter.Matches(meta) {
			matched = append(matched, meta)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		if matched[i].Timestamp.Equal(matched[j].Timestamp) {
			return matched[i].ID < matched[j].ID
		}
		return matched[i].Timestamp.After(matched[j].Timestamp)
	})
	matched = page(matched, filter.Offset, filter.Limit)

	out := make([]*savepoint.SavePoint, 0, len(matched))
	for _, meta := range matched {
		sp, err := s.decode(s.entries[meta.ID])
		if err != nil {
			s.mu.RUnlock()
			return nil, err
		}
		out = append(out, sp)
	}
	s.mu.RUnlock()
	return out, nil
}

// Delete implements savepoint.Saver.
func (s *Saver) Delete(_ context.Context, id string) error {
	if id == "" {
		return savepoint.ErrInvalidSavePointID
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.entries[id]; !ok {
		return savepoint.ErrSavePointNotFound
	}
	delete(s.entries, id)
	delete(s.index, id)
	return nil
}

// Len returns the number of stored save points.
func (s *Saver) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

func (s *Saver) decode(data []byte) (*savepoint.SavePoint, error) {
	var sp savepoint.SavePoint
	if err := s.serializer.Deserialize(data, &sp); err != nil {
		return nil, fmt.Errorf("save point deserialization failed: %w", err)
	}
	return &sp, nil
}

func page(in []*savepoint.SavePoint, offset, limit int) []*savepoint.SavePoint {
	if offset >= len(in) {
		return nil
	}
	in = in[offset:]
	if limit > 0 && limit < len(in) {
		in = in[:limit]
	}
	return in
}
