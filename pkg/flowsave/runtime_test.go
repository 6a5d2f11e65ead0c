package flowsave

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flowgraph/flowsave/internal/adapters/repository/memory"
	"github.com/flowgraph/flowsave/internal/adapters/scene/inmemory"
)

const sceneYAML = `
flowcharts:
  - name: Main
    blocks:
      - name: Start
        handler: game_started
      - name: Intro
    variables:
      ints:
        score: 0
      colors:
        tint: {r: 1, g: 1, b: 1, a: 1}
`

func TestRuntime_SaveRestore(t *testing.T) {
	ctx := context.Background()
	s, err := inmemory.Load([]byte(sceneYAML))
	require.NoError(t, err)
	main, ok := s.Flowchart("Main")
	require.True(t, ok)

	rt := NewRuntime(s)

	var notified int
	unsubscribe := rt.Subscribe("checkpoint", func(string) { notified++ })

	snap := &Flowchart{
		FlowchartName: "Main",
		Vars: Variables{
			Ints:   []Var[int]{NewVar("score", 99)},
			Colors: []Var[Color]{NewVar("tint", Color{R: 1, G: 0, B: 0, A: 1})},
		},
		Blocks: []BlockRecord{{BlockName: "Intro", WasExecuting: true, CommandIndex: 4}},
	}
	sp, err := rt.Save(ctx, "auto", "", MarkerKey("checkpoint"), snap)
	require.NoError(t, err)

	result, err := rt.Restore(ctx, sp.ID, nil)
	require.NoError(t, err)
	assert.True(t, result.OK())
	assert.Equal(t, 1, notified)

	score, _ := main.Variables().Ints().Get("score")
	assert.Equal(t, 99, score)
	tint, _ := main.Variables().Colors().Get("tint")
	assert.Equal(t, Color{R: 1, G: 0, B: 0, A: 1}, tint)
	assert.Equal(t, map[string]int{"Intro": 4}, main.Running())

	unsubscribe()
	assert.True(t, rt.Load(snap, MarkerKey("checkpoint")))
	assert.Equal(t, 1, notified)

	list, err := rt.List(ctx, Filter{Slot: "auto"})
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.NoError(t, rt.Delete(ctx, sp.ID))
	list, err = rt.List(ctx, Filter{})
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestRuntime_LoadUnknownFlowchart(t *testing.T) {
	rt := NewRuntime(inmemory.NewScene())
	assert.False(t, rt.Load(&Flowchart{FlowchartName: "Nowhere"}, nil))
}

func TestRuntime_WithSaver(t *testing.T) {
	saver := memory.NewSaver(nil)
	rt := NewRuntime(inmemory.NewScene(), WithSaver(saver, "memory"))

	_, err := rt.Save(context.Background(), "s", "", nil, &Flowchart{FlowchartName: "Main"})
	require.NoError(t, err)
	assert.Equal(t, 1, saver.Len())
}
