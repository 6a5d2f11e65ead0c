// Package inmemory is a self-contained live scene: named objects, flowcharts
// with blocks and typed variables, and a record of block executions. It
// backs the CLI and tests, and serves hosts that have no scene of their own.
package inmemory

import (
	"sort"
	"sync"

	"github.com/flowgraph/flowsave/internal/core/scene"
)

// Scene is a thread-safe set of named objects.
type Scene struct {
	mu      sync.RWMutex
	objects map[string]*Object
}

// NewScene returns an empty scene.
func NewScene() *Scene {
	return &Scene{objects: make(map[string]*Object)}
}

// Add places obj in the scene, replacing any object with the same name.
func (s *Scene) Add(obj *Object) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[obj.name] = obj
}

// AddFlowchart creates an object named after fc and attaches fc to it.
func (s *Scene) AddFlowchart(fc *Flowchart) *Object {
	obj := &Object{name: fc.name, flowchart: fc}
	s.Add(obj)
	return obj
}

// Find implements scene.Lookup.
func (s *Scene) Find(name string) (scene.Object, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	obj, ok := s.objects[name]
	if !ok {
		return nil, false
	}
	return obj, true
}

// Flowchart returns the concrete flowchart on the named object.
func (s *Scene) Flowchart(name string) (*Flowchart, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	obj, ok := s.objects[name]
	if !ok || obj.flowchart == nil {
		return nil, false
	}
	return obj.flowchart, true
}

// Flowcharts returns every flowchart in the scene, sorted by name.
func (s *Scene) Flowcharts() []*Flowchart {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*Flowchart
	for _, obj := range s.objects {
		if obj.flowchart != nil {
			out = append(out, obj.flowchart)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].name < out[j].name })
	return out
}

// Object is a named scene object, optionally carrying a flowchart.
type Object struct {
	name      string
	flowchart *Flowchart
}

// NewObject creates an object with no flowchart.
func NewObject(name string) *Object {
	return &Object{name: name}
}

func (o *Object) Name() string { return o.name }

// Flowchart implements scene.Object.
func (o *Object) Flowchart() (scene.Flowchart, bool) {
	if o.flowchart == nil {
		return nil, false
	}
	return o.flowchart, true
}
