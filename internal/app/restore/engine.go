// Package restore applies a saved flowchart snapshot to a live flowchart:
// startup triggers are disarmed, variables written back, listeners notified,
// and the blocks that were running are resumed at their saved command.
package restore

import (
	"fmt"
	"reflect"

	"github.com/rs/zerolog"

	"github.com/flowgraph/flowsave/internal/core/scene"
	"github.com/flowgraph/flowsave/internal/core/snapshot"
	"github.com/flowgraph/flowsave/internal/infrastructure/metrics"
)

// Notifier is told that save data has been loaded, before any block resumes.
type Notifier interface {
	SaveDataLoaded(markerKey string)
}

// Report summarises one restore.
type Report struct {
	Flowchart        string
	HandlersCleared  int
	VariablesWritten int
	BlocksResumed    []string
	BlocksMissing    []string
	Notified         bool
}

// Engine restores flowchart snapshots into a live scene. It holds no state
// between calls and takes no locks: callers serialize restores against the
// same flowchart.
type Engine struct {
	lookup   scene.Lookup
	notifier Notifier
	log      zerolog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger for diagnostics.
func WithLogger(l zerolog.Logger) Option {
	return func(e *Engine) { e.log = l }
}

// WithNotifier sets who hears about loaded save data.
func WithNotifier(n Notifier) Option {
	return func(e *Engine) { e.notifier = n }
}

// NewEngine creates an engine resolving flowcharts through lookup.
func NewEngine(lookup scene.Lookup, opts ...Option) *Engine {
	e := &Engine{lookup: lookup, log: zerolog.Nop()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Load applies snap and reports whether it could. marker may be nil. A false
// result means the target flowchart was not found and nothing was changed;
// missing blocks are logged but still count as success.
func (e *Engine) Load(snap *snapshot.Flowchart, marker scene.ProgressMarker) bool {
	_, err := e.Restore(snap, marker)
	return err == nil
}

// Restore is Load with the error and a report of what was done.
func (e *Engine) Restore(snap *snapshot.Flowchart, marker scene.ProgressMarker) (*Report, error) {
	metrics.IncRestores()
	if snap == nil {
		metrics.IncRestoresFailed()
		e.log.Error().Err(ErrNilSnapshot).Msg("restore aborted")
		return nil, ErrNilSnapshot
	}

	fc, err := e.resolve(snap.FlowchartName)
	if err != nil {
		metrics.IncRestoresFailed()
		e.log.Error().Err(err).Str("flowchart", snap.FlowchartName).Msg("restore aborted")
		return nil, err
	}

	report := &Report{Flowchart: fc.Name()}
	report.HandlersCleared = preventInterruptions(fc)
	report.VariablesWritten = loadVariables(fc.Variables(), &snap.Vars)

	// Listeners bound to the marker run before any block steps again.
	if marker != nil && e.notifier != nil {
		e.notifier.SaveDataLoaded(marker.Key())
		report.Notified = true
	}

	e.resumeBlocks(fc, snap.Blocks, report)

	metrics.AddHandlersCleared(report.HandlersCleared)
	metrics.AddBlocksResumed(len(report.BlocksResumed))
	metrics.AddBlocksMissing(len(report.BlocksMissing))

	e.log.Debug().
		Str("flowchart", report.Flowchart).
		Int("variables", report.VariablesWritten).
		Int("handlers_cleared", report.HandlersCleared).
		Strs("resumed", report.BlocksResumed).
		Msg("flowchart restored")
	return report, nil
}

func (e *Engine) resolve(name string) (scene.Flowchart, error) {
	obj, ok := e.lookup.Find(name)
	if !ok || isNil(obj) {
		return nil, fmt.Errorf("%w: %q", ErrTargetNotFound, name)
	}
	fc, ok := obj.Flowchart()
	if !ok || isNil(fc) {
		return nil, fmt.Errorf("%w: %q has no flowchart", ErrTargetNotFound, name)
	}
	return fc, nil
}

// isNil also catches a nil pointer stored in an interface, which a host may
// return despite the scene contract.
func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Interface, reflect.Chan:
		return rv.IsNil()
	}
	return false
}
