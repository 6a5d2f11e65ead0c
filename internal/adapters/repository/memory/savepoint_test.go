package memory

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flowgraph/flowsave/internal/core/savedata"
	"github.com/flowgraph/flowsave/internal/core/savepoint"
	"github.com/flowgraph/flowsave/pkg/serialization"
)

func newSavePoint(id, slot string, ts time.Time) *savepoint.SavePoint {
	return &savepoint.SavePoint{
		ID:        id,
		Slot:      slot,
		Items:     []savedata.Item{savedata.Create("FlowchartData", `{"flowchartName":"Main"}`)},
		Timestamp: ts,
		Version:   savepoint.CurrentVersion,
	}
}

func TestSaver_BasicOperations(t *testing.T) {
	ctx := context.Background()
	saver := NewSaver(nil)
	sp := newSavePoint("sp-1", "slot-1", time.Now())

	t.Run("Save", func(t *testing.T) {
		require.NoError(t, saver.Save(ctx, sp))
	})

	t.Run("Load", func(t *testing.T) {
		loaded, err := saver.Load(ctx, "sp-1")
		require.NoError(t, err)
		assert.Equal(t, sp.Slot, loaded.Slot)
		assert.Equal(t, sp.Items, loaded.Items)
		assert.True(t, sp.Timestamp.Equal(loaded.Timestamp))
	})

	t.Run("Stored copy is isolated", func(t *testing.T) {
		sp.Items[0].Data = "mutated"
		loaded, err := saver.Load(ctx, "sp-1")
		require.NoError(t, err)
		assert.NotEqual(t, "mutated", loaded.Items[0].Data)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, saver.Delete(ctx, "sp-1"))
		_, err := saver.Load(ctx, "sp-1")
		assert.ErrorIs(t, err, savepoint.ErrSavePointNotFound)
		assert.ErrorIs(t, saver.Delete(ctx, "sp-1"), savepoint.ErrSavePointNotFound)
	})
}

func TestSaver_Errors(t *testing.T) {
	ctx := context.Background()
	saver := NewSaver(nil)

	assert.ErrorIs(t, saver.Save(ctx, nil), savepoint.ErrInvalidSavePointID)
	assert.ErrorIs(t, saver.Save(ctx, &savepoint.SavePoint{ID: "x"}), savepoint.ErrInvalidSlot)
	_, err := saver.Load(ctx, "")
	assert.ErrorIs(t, err, savepoint.ErrInvalidSavePointID)
	_, err = saver.List(ctx, savepoint.Filter{Limit: -1})
	assert.ErrorIs(t, err, savepoint.ErrInvalidLimit)
}

func TestSaver_ListNewestFirstWithPaging(t *testing.T) {
	ctx := context.Background()
	saver := NewSaver(serialization.NewSerializer(serialization.SerializationConfig{Codec: serialization.NewJSONCodec()}))
	base := time.Now()

	for i := 0; i < 5; i++ {
		slot := "a"
		if i%2 == 1 {
			slot = "b"
		}
		require.NoError(t, saver.Save(ctx, newSavePoint(fmt.Sprintf("sp-%d", i), slot, base.Add(time.Duration(i)*time.Minute))))
	}

	all, err := saver.List(ctx, savepoint.Filter{})
	require.NoError(t, err)
	require.Len(t, all, 5)
	assert.Equal(t, "sp-4", all[0].ID)
	assert.Equal(t, "sp-0", all[4].ID)

	slotA, err := saver.List(ctx, savepoint.Filter{Slot: "a", Offset: 1, Limit: 1})
	require.NoError(t, err)
	require.Len(t, slotA, 1)
	assert.Equal(t, "sp-2", slotA[0].ID)

	none, err := saver.List(ctx, savepoint.Filter{Offset: 10})
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestSaver_ConcurrentOperations(t *testing.T) {
	ctx := context.Background()
	saver := NewSaver(nil)

	const workers = 10
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func(n int) {
			defer wg.Done()
			id := fmt.Sprintf("sp-%d", n)
			assert.NoError(t, saver.Save(ctx, newSavePoint(id, "slot", time.Now())))
			_, err := saver.Load(ctx, id)
			assert.NoError(t, err)
			_, err = saver.List(ctx, savepoint.Filter{Slot: "slot"})
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	assert.Equal(t, workers, saver.Len())
}
