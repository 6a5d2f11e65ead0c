package flowsave

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/flowgraph/flowsave/internal/adapters/repository/memory"
	"github.com/flowgraph/flowsave/internal/app/events"
	"github.com/flowgraph/flowsave/internal/app/restore"
	"github.com/flowgraph/flowsave/internal/app/services"
	"github.com/flowgraph/flowsave/internal/core/savedata"
	"github.com/flowgraph/flowsave/internal/core/savepoint"
	"github.com/flowgraph/flowsave/internal/core/scene"
	"github.com/flowgraph/flowsave/internal/core/snapshot"
)

// Re-export snapshot and scene types for convenience
type (
	Flowchart      = snapshot.Flowchart
	Variables      = snapshot.Variables
	BlockRecord    = snapshot.BlockRecord
	Color          = snapshot.Color
	Vector2        = snapshot.Vector2
	Vector3        = snapshot.Vector3
	Value          = snapshot.Value
	Var[T Value]   = snapshot.Var[T]
	SavePoint      = savepoint.SavePoint
	Filter         = savepoint.Filter
	Saver          = savepoint.Saver
	RestoreResult  = services.RestoreResult
	Report         = restore.Report
	Lookup         = scene.Lookup
	ProgressMarker = scene.ProgressMarker
	MarkerKey      = scene.MarkerKey
)

// NewVar builds a saved variable.
func NewVar[T Value](key string, value T) Var[T] {
	return snapshot.NewVar(key, value)
}

// Runtime wires a save point store, the default save data registry, a
// notification dispatcher and the restore engine around a scene lookup.
type Runtime struct {
	saver      savepoint.Saver
	dispatcher *events.Dispatcher
	engine     *restore.Engine
	service    *services.SaveService
}

type options struct {
	saver    savepoint.Saver
	driver   string
	registry *savedata.Registry
	log      zerolog.Logger
}

// Option configures a Runtime.
type Option func(*options)

// WithSaver replaces the in-memory store. driver names it in logs and metrics.
func WithSaver(s Saver, driver string) Option {
	return func(o *options) {
		o.saver = s
		o.driver = driver
	}
}

// WithLogger sets the logger shared by the engine and the save service.
func WithLogger(l zerolog.Logger) Option {
	return func(o *options) { o.log = l }
}

// WithRegistry replaces the default save data registry.
func WithRegistry(r *savedata.Registry) Option {
	return func(o *options) { o.registry = r }
}

// NewRuntime constructs a runtime for lookup. Without options it keeps save
// points in memory and logs nothing.
func NewRuntime(lookup Lookup, opts ...Option) *Runtime {
	o := &options{log: zerolog.Nop()}
	for _, opt := range opts {
		opt(o)
	}
	if o.saver == nil {
		o.saver = memory.NewSaver(nil)
		o.driver = "memory"
	}

	dispatcher := events.NewDispatcher()
	engine := restore.NewEngine(lookup, restore.WithNotifier(dispatcher), restore.WithLogger(o.log))
	service := services.NewSaveService(o.saver, o.registry, engine,
		services.WithDriver(o.driver),
		services.WithLogger(o.log),
	)

	return &Runtime{saver: o.saver, dispatcher: dispatcher, engine: engine, service: service}
}

// Save stores snaps together as one save point in slot. marker may be nil.
func (rt *Runtime) Save(ctx context.Context, slot, description string, marker ProgressMarker, snaps ...*Flowchart) (*SavePoint, error) {
	return rt.service.Save(ctx, slot, description, marker, snaps...)
}

// Restore applies save point id to the scene.
func (rt *Runtime) Restore(ctx context.Context, id string, marker ProgressMarker) (*RestoreResult, error) {
	return rt.service.Restore(ctx, id, marker)
}

// Load applies a single snapshot directly and reports whether its target
// flowchart was found.
func (rt *Runtime) Load(snap *Flowchart, marker ProgressMarker) bool {
	return rt.engine.Load(snap, marker)
}

// Subscribe registers fn for the save-data-loaded notification of markerKey
// and returns a function that removes it.
func (rt *Runtime) Subscribe(markerKey string, fn func(markerKey string)) func() {
	return rt.dispatcher.Subscribe(markerKey, fn)
}

// List returns stored save points matching filter, newest first.
func (rt *Runtime) List(ctx context.Context, filter Filter) ([]*SavePoint, error) {
	return rt.saver.List(ctx, filter)
}

// Delete removes a stored save point.
func (rt *Runtime) Delete(ctx context.Context, id string) error {
	return rt.saver.Delete(ctx, id)
}
