// Package scene defines the contracts a live flowchart host must satisfy for
// saved state to be restored into it. The host owns every object; callers
// only hold handles for the duration of one restore.
package scene

import "github.com/flowgraph/flowsave/internal/core/snapshot"

// Lookup resolves scene objects by name. Implementations return an untyped
// nil Object, not a nil pointer wrapped in the interface, when nothing is
// found. Handles returned through Object, Flowchart and Block follow the same
// rule.
type Lookup interface {
	Find(name string) (Object, bool)
}

// Object is a named scene object that may carry a flowchart.
type Object interface {
	Name() string
	// Flowchart returns the object's flowchart capability, if it has one.
	Flowchart() (Flowchart, bool)
}

// Flowchart is a live flowchart: blocks, typed variables and the means to
// stop and start block execution.
type Flowchart interface {
	Name() string
	Blocks() []Block
	FindBlock(name string) (Block, bool)
	StopAllBlocks()
	// ExecuteBlock starts block at commandIndex. It reports false when the
	// block could not be started.
	ExecuteBlock(block Block, commandIndex int) bool
	Variables() VariableStore
}

// Block is a named, independently resumable command sequence.
type Block interface {
	Name() string
	EventHandler() EventHandler
	ClearEventHandler()
}

// EventHandler auto-starts a block when its condition fires.
type EventHandler interface {
	// IsStartupTrigger reports whether the handler fires once when the
	// flowchart starts. Those handlers must not fire again after a restore.
	IsStartupTrigger() bool
}

// ProgressMarker identifies the most recently executed progress point.
type ProgressMarker interface {
	Key() string
}

// Variables reads and writes one kind of variable by key. Set on an absent
// key is defined by the host.
type Variables[T snapshot.Value] interface {
	Get(key string) (T, bool)
	Set(key string, value T)
}

// VariableStore exposes a typed accessor per variable kind.
type VariableStore interface {
	Strings() Variables[string]
	Ints() Variables[int]
	Floats() Variables[float64]
	Bools() Variables[bool]
	Colors() Variables[snapshot.Color]
	Vec2s() Variables[snapshot.Vector2]
	Vec3s() Variables[snapshot.Vector3]
}

// MarkerKey is a ProgressMarker backed by a plain string.
type MarkerKey string

// Key implements ProgressMarker.
func (k MarkerKey) Key() string { return string(k) }
