package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/flowgraph/flowsave/internal/app/restore"
	"github.com/flowgraph/flowsave/internal/core/savedata"
	"github.com/flowgraph/flowsave/internal/core/savepoint"
	"github.com/flowgraph/flowsave/internal/core/scene"
	"github.com/flowgraph/flowsave/internal/core/snapshot"
	"github.com/flowgraph/flowsave/internal/infrastructure/metrics"
	"github.com/flowgraph/flowsave/pkg/validation"
)

// SaveService stores flowchart snapshots as save points and applies them
// back to a live scene.
type SaveService struct {
	saver    savepoint.Saver
	registry *savedata.Registry
	engine   *restore.Engine
	driver   string
	log      zerolog.Logger
	now      func() time.Time
}

// Option configures a SaveService.
type Option func(*SaveService)

// WithLogger sets the service logger.
func WithLogger(l zerolog.Logger) Option {
	return func(s *SaveService) { s.log = l }
}

// WithDriver names the store in metrics and logs.
func WithDriver(name string) Option {
	return func(s *SaveService) { s.driver = name }
}

// WithClock overrides time.Now for save point timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *SaveService) { s.now = now }
}

// NewSaveService creates a save service. A nil registry means
// savedata.DefaultRegistry().
func NewSaveService(saver savepoint.Saver, registry *savedata.Registry, engine *restore.Engine, opts ...Option) *SaveService {
	if registry == nil {
		registry = savedata.DefaultRegistry()
	}
	s := &SaveService{
		saver:    saver,
		registry: registry,
		engine:   engine,
		driver:   "unknown",
		log:      zerolog.Nop(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Save validates snaps, wraps each one as a save data item and stores them
// together under a new save point in slot. marker may be nil.
func (s *SaveService) Save(ctx context.Context, slot, description string, marker scene.ProgressMarker, snaps ...*snapshot.Flowchart) (*savepoint.SavePoint, error) {
	if len(snaps) == 0 {
		return nil, ErrNoSnapshots
	}

	items := make([]savedata.Item, 0, len(snaps))
	for _, snap := range snaps {
		if err := validation.ValidateSnapshot(snap); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidSnapshot, err)
		}
		item, err := savedata.CreateFrom(snap)
		if err != nil {
			return nil, fmt.Errorf("failed to encode flowchart %q: %w", snap.FlowchartName, err)
		}
		items = append(items, item)
	}

	sp := &savepoint.SavePoint{
		ID:          uuid.NewString(),
		Slot:        slot,
		Description: description,
		Items:       items,
		Timestamp:   s.now().UTC(),
		Version:     savepoint.CurrentVersion,
	}
	if marker != nil {
		sp.ProgressMarkerKey = marker.Key()
	}

	if err := s.saver.Save(ctx, sp); err != nil {
		return nil, fmt.Errorf("failed to save save point: %w", err)
	}
	metrics.IncSavePoints(s.driver)

	s.log.Info().
		Str("id", sp.ID).
		Str("slot", sp.Slot).
		Int("flowcharts", len(items)).
		Str("driver", s.driver).
		Msg("save point stored")
	return sp, nil
}
