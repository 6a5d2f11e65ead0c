package inmemory

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v2"

	"github.com/flowgraph/flowsave/internal/core/snapshot"
)

// Definition describes a scene in YAML.
//
//	flowcharts:
//	  - name: Main
//	    blocks:
//	      - {name: Start, handler: game_started}
//	      - {name: Intro}
//	    variables:
//	      ints: {score: 0}
//	      strings: {name: ""}
//	objects: [Camera]
type Definition struct {
	Flowcharts []FlowchartDefinition `yaml:"flowcharts"`
	Objects    []string              `yaml:"objects"`
}

// FlowchartDefinition describes one flowchart.
type FlowchartDefinition struct {
	Name      string              `yaml:"name"`
	Blocks    []BlockDefinition   `yaml:"blocks"`
	Variables VariablesDefinition `yaml:"variables"`
	Running   map[string]int      `yaml:"running"`
}

// BlockDefinition describes one block and its optional handler.
type BlockDefinition struct {
	Name    string `yaml:"name"`
	Handler string `yaml:"handler"`
	Message string `yaml:"message"`
}

// VariablesDefinition gives initial variable values per kind.
type VariablesDefinition struct {
	Strings map[string]string           `yaml:"strings"`
	Ints    map[string]int              `yaml:"ints"`
	Floats  map[string]float64          `yaml:"floats"`
	Bools   map[string]bool             `yaml:"bools"`
	Colors  map[string]snapshot.Color   `yaml:"colors"`
	Vec2s   map[string]snapshot.Vector2 `yaml:"vec2s"`
	Vec3s   map[string]snapshot.Vector3 `yaml:"vec3s"`
}

// LoadFile reads a YAML scene definition from path and builds the scene.
func LoadFile(path string) (*Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading scene file: %w", err)
	}
	return Load(data)
}

// Load builds a scene from YAML.
func Load(data []byte) (*Scene, error) {
	var def Definition
	if err := yaml.UnmarshalStrict(data, &def); err != nil {
		return nil, fmt.Errorf("error parsing scene YAML: %w", err)
	}
	return def.Build()
}

// Build creates a scene from the definition.
func (d *Definition) Build() (*Scene, error) {
	s := NewScene()
	for _, name := range d.Objects {
		if name == "" {
			return nil, fmt.Errorf("%w: object without a name", ErrInvalidDefinition)
		}
		s.Add(NewObject(name))
	}
	for _, fd := range d.Flowcharts {
		fc, err := fd.build()
		if err != nil {
			return nil, err
		}
		s.AddFlowchart(fc)
	}
	return s, nil
}

func (fd *FlowchartDefinition) build() (*Flowchart, error) {
	if fd.Name == "" {
		return nil, fmt.Errorf("%w: flowchart without a name", ErrInvalidDefinition)
	}
	fc := NewFlowchart(fd.Name)

	for _, bd := range fd.Blocks {
		if bd.Name == "" {
			return nil, fmt.Errorf("%w: block without a name in %s", ErrInvalidDefinition, fd.Name)
		}
		if _, dup := fc.Block(bd.Name); dup {
			return nil, fmt.Errorf("%w: %s in %s", ErrDuplicateBlock, bd.Name, fd.Name)
		}
		h, err := ParseHandler(bd.Handler, bd.Message)
		if err != nil {
			return nil, fmt.Errorf("block %s: %w", bd.Name, err)
		}
		b := fc.AddBlock(bd.Name, nil)
		if h != nil {
			b.SetEventHandler(h)
		}
	}

	v := fd.Variables
	seed(fc.vars.strings, v.Strings)
	seed(fc.vars.ints, v.Ints)
	seed(fc.vars.floats, v.Floats)
	seed(fc.vars.bools, v.Bools)
	seed(fc.vars.colors, v.Colors)
	seed(fc.vars.vec2s, v.Vec2s)
	seed(fc.vars.vec3s, v.Vec3s)

	for _, name := range sortedKeys(fd.Running) {
		b, ok := fc.Block(name)
		if !ok {
			return nil, fmt.Errorf("%w: running block %s not in %s", ErrInvalidDefinition, name, fd.Name)
		}
		fc.ExecuteBlock(b, fd.Running[name])
	}
	return fc, nil
}

func seed[T snapshot.Value](dst *vars[T], src map[string]T) {
	for k, v := range src {
		dst.Set(k, v)
	}
}
