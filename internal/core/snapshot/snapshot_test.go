package snapshot

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFlowchart_Validate(t *testing.T) {
	tests := []struct {
		name    string
		snap    *Flowchart
		wantErr error
	}{
		{
			name: "valid snapshot",
			snap: &Flowchart{
				FlowchartName: "Main",
				Vars: Variables{
					Strings: []Var[string]{NewVar("name", "Hero")},
					Ints:    []Var[int]{NewVar("score", 42)},
				},
				Blocks: []BlockRecord{{BlockName: "Intro", WasExecuting: true, CommandIndex: 3}},
			},
		},
		{
			name:    "missing flowchart name",
			snap:    &Flowchart{},
			wantErr: ErrEmptyFlowchartName,
		},
		{
			name: "same key in different groups",
			snap: &Flowchart{
				FlowchartName: "Main",
				Vars: Variables{
					Strings: []Var[string]{NewVar("x", "a")},
					Floats:  []Var[float64]{NewVar("x", 1.5)},
				},
			},
		},
		{
			name: "duplicate key within a group",
			snap: &Flowchart{
				FlowchartName: "Main",
				Vars: Variables{
					Vec3s: []Var[Vector3]{NewVar("pos", Vector3{}), NewVar("pos", Vector3{X: 1})},
				},
			},
			wantErr: ErrDuplicateVarKey,
		},
		{
			name: "empty key",
			snap: &Flowchart{
				FlowchartName: "Main",
				Vars:          Variables{Bools: []Var[bool]{NewVar("", true)}},
			},
			wantErr: ErrEmptyVarKey,
		},
		{
			name: "empty block name",
			snap: &Flowchart{
				FlowchartName: "Main",
				Blocks:        []BlockRecord{{WasExecuting: true}},
			},
			wantErr: ErrEmptyBlockName,
		},
		{
			name: "negative cursor on executing block",
			snap: &Flowchart{
				FlowchartName: "Main",
				Blocks:        []BlockRecord{{BlockName: "Intro", WasExecuting: true, CommandIndex: -1}},
			},
			wantErr: ErrNegativeCommandIndex,
		},
		{
			name: "negative cursor ignored when idle",
			snap: &Flowchart{
				FlowchartName: "Main",
				Blocks:        []BlockRecord{{BlockName: "Intro", CommandIndex: -1}},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.snap.Validate()
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestFlowchart_Executing(t *testing.T) {
	snap := &Flowchart{
		FlowchartName: "Main",
		Blocks: []BlockRecord{
			{BlockName: "A", WasExecuting: true, CommandIndex: 2},
			{BlockName: "B"},
			{BlockName: "C", WasExecuting: true},
		},
	}

	running := snap.Executing()
	assert.Len(t, running, 2)
	assert.Equal(t, "A", running[0].BlockName)
	assert.Equal(t, "C", running[1].BlockName)
	assert.Equal(t, FlowchartDataType, snap.DataType())
}

func TestVariables_Len(t *testing.T) {
	v := Variables{
		Strings: []Var[string]{NewVar("a", "x")},
		Colors:  []Var[Color]{NewVar("tint", Color{R: 1, A: 1})},
		Vec2s:   []Var[Vector2]{NewVar("p", Vector2{X: 1, Y: 2})},
	}
	assert.Equal(t, 3, v.Len())
}
