package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flowgraph/flowsave/internal/adapters/repository/memory"
	"github.com/flowgraph/flowsave/internal/adapters/scene/inmemory"
	"github.com/flowgraph/flowsave/internal/app/events"
	"github.com/flowgraph/flowsave/internal/app/restore"
	"github.com/flowgraph/flowsave/internal/core/savedata"
	"github.com/flowgraph/flowsave/internal/core/savepoint"
	"github.com/flowgraph/flowsave/internal/core/scene"
	"github.com/flowgraph/flowsave/internal/core/snapshot"
)

type fixture struct {
	scene      *inmemory.Scene
	main       *inmemory.Flowchart
	saver      *memory.Saver
	dispatcher *events.Dispatcher
	service    *SaveService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	s := inmemory.NewScene()
	main := inmemory.NewFlowchart("Main")
	main.AddBlock("Start", &inmemory.Handler{Kind: inmemory.HandlerGameStarted})
	main.AddBlock("Intro", nil)
	main.Variables().Ints().Set("score", 0)
	s.AddFlowchart(main)

	saver := memory.NewSaver(nil)
	dispatcher := events.NewDispatcher()
	engine := restore.NewEngine(s, restore.WithNotifier(dispatcher))
	clock := func() time.Time { return time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC) }

	return &fixture{
		scene:      s,
		main:       main,
		saver:      saver,
		dispatcher: dispatcher,
		service:    NewSaveService(saver, nil, engine, WithDriver("memory"), WithClock(clock)),
	}
}

func mainSnapshot(score int) *snapshot.Flowchart {
	return &snapshot.Flowchart{
		FlowchartName: "Main",
		Vars: snapshot.Variables{
			Ints: []snapshot.Var[int]{snapshot.NewVar("score", score)},
		},
		Blocks: []snapshot.BlockRecord{
			{BlockName: "Intro", WasExecuting: true, CommandIndex: 2},
		},
	}
}

func TestSaveService_Save(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	sp, err := f.service.Save(ctx, "slot-1", "before the boss", scene.MarkerKey("chapter2"), mainSnapshot(42))
	require.NoError(t, err)

	assert.NotEmpty(t, sp.ID)
	assert.Equal(t, "slot-1", sp.Slot)
	assert.Equal(t, "chapter2", sp.ProgressMarkerKey)
	assert.Equal(t, savepoint.CurrentVersion, sp.Version)
	assert.Equal(t, time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC), sp.Timestamp)
	require.Len(t, sp.Items, 1)
	assert.Equal(t, snapshot.FlowchartDataType, sp.Items[0].DataType)
	assert.Equal(t, 1, f.saver.Len())
}

func TestSaveService_SaveErrors(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.service.Save(ctx, "slot-1", "", nil)
	assert.ErrorIs(t, err, ErrNoSnapshots)

	bad := mainSnapshot(1)
	bad.Vars.Ints = append(bad.Vars.Ints, snapshot.NewVar("score", 2))
	_, err = f.service.Save(ctx, "slot-1", "", nil, bad)
	assert.ErrorIs(t, err, ErrInvalidSnapshot)
	assert.ErrorIs(t, err, snapshot.ErrDuplicateVarKey)

	_, err = f.service.Save(ctx, "", "", nil, mainSnapshot(1))
	assert.ErrorIs(t, err, savepoint.ErrInvalidSlot)
	assert.Zero(t, f.saver.Len())
}

func TestSaveService_RestoreRoundTrip(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	var heard []string
	f.dispatcher.Subscribe("chapter2", func(key string) {
		heard = append(heard, key)
		// Listeners run before the saved block resumes.
		assert.Empty(t, f.main.Running())
	})

	sp, err := f.service.Save(ctx, "slot-1", "", scene.MarkerKey("chapter2"), mainSnapshot(42))
	require.NoError(t, err)

	// The recorded marker is used when none is passed.
	result, err := f.service.Restore(ctx, sp.ID, nil)
	require.NoError(t, err)
	assert.True(t, result.OK())
	assert.Equal(t, "chapter2", result.MarkerKey)
	assert.Equal(t, []string{"chapter2"}, heard)

	require.Len(t, result.Reports, 1)
	assert.Equal(t, []string{"Intro"}, result.Reports[0].BlocksResumed)

	score, ok := f.main.Variables().Ints().Get("score")
	require.True(t, ok)
	assert.Equal(t, 42, score)
	assert.Equal(t, map[string]int{"Intro": 2}, f.main.Running())

	start, _ := f.main.Block("Start")
	assert.Nil(t, start.EventHandler())
}

func TestSaveService_RestoreMissingTarget(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	ghost := &snapshot.Flowchart{FlowchartName: "Elsewhere"}
	sp, err := f.service.Save(ctx, "slot-1", "", nil, ghost, mainSnapshot(7))
	require.NoError(t, err)

	result, err := f.service.Restore(ctx, sp.ID, scene.MarkerKey("m"))
	require.NoError(t, err)
	assert.False(t, result.OK())
	require.Len(t, result.Failed, 1)
	assert.Equal(t, "Elsewhere", result.Failed[0].Name)
	assert.ErrorIs(t, result.Failed[0].Err, restore.ErrTargetNotFound)

	// The other flowchart still loaded.
	require.Len(t, result.Reports, 1)
	score, _ := f.main.Variables().Ints().Get("score")
	assert.Equal(t, 7, score)
}

func TestSaveService_RestoreDecodeErrors(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.saver.Save(ctx, &savepoint.SavePoint{
		ID:        "unknown-tag",
		Slot:      "s",
		Items:     []savedata.Item{savedata.Create("InventoryData", "{}")},
		Timestamp: time.Now(),
		Version:   savepoint.CurrentVersion,
	}))
	_, err := f.service.Restore(ctx, "unknown-tag", nil)
	assert.ErrorIs(t, err, savedata.ErrUnknownTypeTag)

	require.NoError(t, f.saver.Save(ctx, &savepoint.SavePoint{
		ID:        "broken",
		Slot:      "s",
		Items:     []savedata.Item{savedata.Create(snapshot.FlowchartDataType, "{not json")},
		Timestamp: time.Now(),
		Version:   savepoint.CurrentVersion,
	}))
	_, err = f.service.Restore(ctx, "broken", nil)
	assert.ErrorIs(t, err, savedata.ErrDecodeFailed)

	_, err = f.service.Restore(ctx, "absent", nil)
	assert.ErrorIs(t, err, savepoint.ErrSavePointNotFound)

	score, _ := f.main.Variables().Ints().Get("score")
	assert.Equal(t, 0, score)
}
