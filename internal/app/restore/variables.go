package restore

import (
	"github.com/flowgraph/flowsave/internal/core/scene"
	"github.com/flowgraph/flowsave/internal/core/snapshot"
	"github.com/flowgraph/flowsave/internal/infrastructure/metrics"
)

// loadVariables writes every saved variable into store and returns the
// number of writes.
func loadVariables(store scene.VariableStore, vars *snapshot.Variables) int {
	return loadVars("string", store.Strings(), vars.Strings) +
		loadVars("int", store.Ints(), vars.Ints) +
		loadVars("float", store.Floats(), vars.Floats) +
		loadVars("bool", store.Bools(), vars.Bools) +
		loadVars("color", store.Colors(), vars.Colors) +
		loadVars("vec2", store.Vec2s(), vars.Vec2s) +
		loadVars("vec3", store.Vec3s(), vars.Vec3s)
}

// loadVars overwrites each keyed variable in save order. Whether a write to
// an absent key creates the variable is up to the store.
func loadVars[T snapshot.Value](kind string, store scene.Variables[T], vars []snapshot.Var[T]) int {
	for _, v := range vars {
		store.Set(v.Key, v.Value)
	}
	metrics.AddVariablesWritten(kind, len(vars))
	return len(vars)
}
