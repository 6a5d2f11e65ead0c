// Package snapshot holds the saved state of a single flowchart: its typed
// variables and the execution cursor of every block that was running.
package snapshot

// FlowchartDataType is the container type tag for Flowchart snapshots.
const FlowchartDataType = "FlowchartData"

// Variables groups saved variables by kind. Each group keeps save order.
type Variables struct {
	Strings []Var[string]  `json:"strings" msgpack:"strings" validate:"dive"`
	Ints    []Var[int]     `json:"ints" msgpack:"ints" validate:"dive"`
	Floats  []Var[float64] `json:"floats" msgpack:"floats" validate:"dive"`
	Bools   []Var[bool]    `json:"bools" msgpack:"bools" validate:"dive"`
	Colors  []Var[Color]   `json:"colors" msgpack:"colors" validate:"dive"`
	Vec2s   []Var[Vector2] `json:"vec2s" msgpack:"vec2s" validate:"dive"`
	Vec3s   []Var[Vector3] `json:"vec3s" msgpack:"vec3s" validate:"dive"`
}

// Len returns the number of variables across all groups.
func (v *Variables) Len() int {
	return len(v.Strings) + len(v.Ints) + len(v.Floats) + len(v.Bools) +
		len(v.Colors) + len(v.Vec2s) + len(v.Vec3s)
}

// BlockRecord is the saved execution state of one block. CommandIndex is the
// zero-based command the block was paused at and only means something when
// WasExecuting is set.
type BlockRecord struct {
	BlockName    string `json:"blockName" msgpack:"blockName" validate:"required,block_name"`
	WasExecuting bool   `json:"wasExecuting" msgpack:"wasExecuting"`
	CommandIndex int    `json:"commandIndex" msgpack:"commandIndex"`
}

// Flowchart is the saved state of one named flowchart.
type Flowchart struct {
	FlowchartName string        `json:"flowchartName" msgpack:"flowchartName" validate:"required"`
	Vars          Variables     `json:"vars" msgpack:"vars"`
	Blocks        []BlockRecord `json:"blocks" msgpack:"blocks" validate:"dive"`
}

// DataType implements savedata.Typed.
func (f *Flowchart) DataType() string {
	return FlowchartDataType
}

// Executing returns the records of blocks that were running at save time,
// in save order.
func (f *Flowchart) Executing() []BlockRecord {
	var out []BlockRecord
	for _, b := range f.Blocks {
		if b.WasExecuting {
			out = append(out, b)
		}
	}
	return out
}

// Validate checks structural integrity: a target name, non-empty keys unique
// within each group, named blocks and non-negative cursors.
func (f *Flowchart) Validate() error {
	if f.FlowchartName == "" {
		return ErrEmptyFlowchartName
	}
	if err := validateGroups(&f.Vars); err != nil {
		return err
	}
	for _, b := range f.Blocks {
		if b.BlockName == "" {
			return ErrEmptyBlockName
		}
		if b.WasExecuting && b.CommandIndex < 0 {
			return ErrNegativeCommandIndex
		}
	}
	return nil
}

func validateGroups(v *Variables) error {
	checks := []func() error{
		func() error { return uniqueKeys(v.Strings) },
		func() error { return uniqueKeys(v.Ints) },
		func() error { return uniqueKeys(v.Floats) },
		func() error { return uniqueKeys(v.Bools) },
		func() error { return uniqueKeys(v.Colors) },
		func() error { return uniqueKeys(v.Vec2s) },
		func() error { return uniqueKeys(v.Vec3s) },
	}
	for _, check := range checks {
		if err := check(); err != nil {
			return err
		}
	}
	return nil
}

func uniqueKeys[T Value](vars []Var[T]) error {
	seen := make(map[string]struct{}, len(vars))
	for _, v := range vars {
		if v.Key == "" {
			return ErrEmptyVarKey
		}
		if _, dup := seen[v.Key]; dup {
			return ErrDuplicateVarKey
		}
		seen[v.Key] = struct{}{}
	}
	return nil
}
