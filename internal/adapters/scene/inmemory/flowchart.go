package inmemory

import (
	"sort"

	"github.com/flowgraph/flowsave/internal/core/scene"
	"github.com/flowgraph/flowsave/internal/core/snapshot"
)

// Execution records one ExecuteBlock call that started a block.
type Execution struct {
	Block        string
	CommandIndex int
}

// Flowchart is an in-memory flowchart. Like a live flowchart it is owned by
// one goroutine at a time.
type Flowchart struct {
	name       string
	blocks     []*Block
	vars       *VariableStore
	running    map[string]int
	executions []Execution

	// OnExecute, when set, is called after a block is started.
	OnExecute func(Execution)
	// OnStopAll, when set, is called after all blocks are stopped.
	OnStopAll func()
}

// NewFlowchart creates an empty flowchart.
func NewFlowchart(name string) *Flowchart {
	return &Flowchart{
		name:    name,
		vars:    NewVariableStore(),
		running: make(map[string]int),
	}
}

func (f *Flowchart) Name() string { return f.name }

// AddBlock appends a block and returns it.
func (f *Flowchart) AddBlock(name string, handler scene.EventHandler) *Block {
	b := &Block{name: name, handler: handler}
	f.blocks = append(f.blocks, b)
	return b
}

// Blocks implements scene.Flowchart.
func (f *Flowchart) Blocks() []scene.Block {
	out := make([]scene.Block, len(f.blocks))
	for i, b := range f.blocks {
		out[i] = b
	}
	return out
}

// Block returns the concrete block named name.
func (f *Flowchart) Block(name string) (*Block, bool) {
	for _, b := range f.blocks {
		if b.name == name {
			return b, true
		}
	}
	return nil, false
}

// FindBlock implements scene.Flowchart.
func (f *Flowchart) FindBlock(name string) (scene.Block, bool) {
	b, ok := f.Block(name)
	if !ok {
		return nil, false
	}
	return b, true
}

// StopAllBlocks implements scene.Flowchart.
func (f *Flowchart) StopAllBlocks() {
	f.running = make(map[string]int)
	if f.OnStopAll != nil {
		f.OnStopAll()
	}
}

// ExecuteBlock marks block as running from commandIndex. A block that is
// already running, or that belongs to another flowchart, is refused.
func (f *Flowchart) ExecuteBlock(block scene.Block, commandIndex int) bool {
	b, ok := f.Block(block.Name())
	if !ok || scene.Block(b) != block {
		return false
	}
	if _, busy := f.running[b.name]; busy {
		return false
	}

	f.running[b.name] = commandIndex
	exec := Execution{Block: b.name, CommandIndex: commandIndex}
	f.executions = append(f.executions, exec)
	if f.OnExecute != nil {
		f.OnExecute(exec)
	}
	return true
}

// Running returns a copy of running block names mapped to their command index.
func (f *Flowchart) Running() map[string]int {
	out := make(map[string]int, len(f.running))
	for k, v := range f.running {
		out[k] = v
	}
	return out
}

// Executions returns every block start in order.
func (f *Flowchart) Executions() []Execution {
	return append([]Execution(nil), f.executions...)
}

// Variables implements scene.Flowchart.
func (f *Flowchart) Variables() scene.VariableStore { return f.vars }

// Store returns the concrete variable store.
func (f *Flowchart) Store() *VariableStore { return f.vars }

// Snapshot captures the current variables and running blocks. Variables are
// ordered by key and blocks by declaration order.
func (f *Flowchart) Snapshot() *snapshot.Flowchart {
	snap := &snapshot.Flowchart{
		FlowchartName: f.name,
		Vars: snapshot.Variables{
			Strings: f.vars.strings.capture(),
			Ints:    f.vars.ints.capture(),
			Floats:  f.vars.floats.capture(),
			Bools:   f.vars.bools.capture(),
			Colors:  f.vars.colors.capture(),
			Vec2s:   f.vars.vec2s.capture(),
			Vec3s:   f.vars.vec3s.capture(),
		},
	}
	for _, b := range f.blocks {
		idx, running := f.running[b.name]
		snap.Blocks = append(snap.Blocks, snapshot.BlockRecord{
			BlockName:    b.name,
			WasExecuting: running,
			CommandIndex: idx,
		})
	}
	return snap
}

// Block is an in-memory block.
type Block struct {
	name    string
	handler scene.EventHandler
}

func (b *Block) Name() string { return b.name }

// EventHandler implements scene.Block.
func (b *Block) EventHandler() scene.EventHandler { return b.handler }

// ClearEventHandler implements scene.Block.
func (b *Block) ClearEventHandler() { b.handler = nil }

// SetEventHandler replaces the block's handler.
func (b *Block) SetEventHandler(h scene.EventHandler) { b.handler = h }

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
