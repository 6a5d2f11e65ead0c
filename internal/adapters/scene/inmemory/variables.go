package inmemory

import (
	"github.com/flowgraph/flowsave/internal/core/scene"
	"github.com/flowgraph/flowsave/internal/core/snapshot"
)

// vars holds one kind of variable. Set creates absent keys.
type vars[T snapshot.Value] struct {
	values map[string]T
}

func newVars[T snapshot.Value]() *vars[T] {
	return &vars[T]{values: make(map[string]T)}
}

func (v *vars[T]) Get(key string) (T, bool) {
	val, ok := v.values[key]
	return val, ok
}

func (v *vars[T]) Set(key string, value T) {
	v.values[key] = value
}

// Keys returns variable keys in sorted order.
func (v *vars[T]) Keys() []string {
	return sortedKeys(v.values)
}

func (v *vars[T]) capture() []snapshot.Var[T] {
	var out []snapshot.Var[T]
	for _, k := range v.Keys() {
		out = append(out, snapshot.NewVar(k, v.values[k]))
	}
	return out
}

// VariableStore is the in-memory scene.VariableStore.
type VariableStore struct {
	strings *vars[string]
	ints    *vars[int]
	floats  *vars[float64]
	bools   *vars[bool]
	colors  *vars[snapshot.Color]
	vec2s   *vars[snapshot.Vector2]
	vec3s   *vars[snapshot.Vector3]
}

// NewVariableStore returns an empty store.
func NewVariableStore() *VariableStore {
	return &VariableStore{
		strings: newVars[string](),
		ints:    newVars[int](),
		floats:  newVars[float64](),
		bools:   newVars[bool](),
		colors:  newVars[snapshot.Color](),
		vec2s:   newVars[snapshot.Vector2](),
		vec3s:   newVars[snapshot.Vector3](),
	}
}

func (s *VariableStore) Strings() scene.Variables[string]         { return s.strings }
func (s *VariableStore) Ints() scene.Variables[int]               { return s.ints }
func (s *VariableStore) Floats() scene.Variables[float64]         { return s.floats }
func (s *VariableStore) Bools() scene.Variables[bool]             { return s.bools }
func (s *VariableStore) Colors() scene.Variables[snapshot.Color]  { return s.colors }
func (s *VariableStore) Vec2s() scene.Variables[snapshot.Vector2] { return s.vec2s }
func (s *VariableStore) Vec3s() scene.Variables[snapshot.Vector3] { return s.vec3s }
