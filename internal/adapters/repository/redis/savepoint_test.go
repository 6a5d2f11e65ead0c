package redis

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flowgraph/flowsave/internal/core/savedata"
	"github.com/flowgraph/flowsave/internal/core/savepoint"
)

func TestRedisSaver(t *testing.T) {
	url := os.Getenv("REDIS_URL")
	if url == "" {
		t.Skip("Integration test requires Redis (set REDIS_URL)")
	}

	ctx := context.Background()
	saver, err := Open(ctx, url, nil)
	require.NoError(t, err)
	defer saver.Close()
	saver.WithPrefix("flowsave-test:" + uuid.NewString() + ":")

	base := time.Now()
	for i, slot := range []string{"a", "a", "b"} {
		require.NoError(t, saver.Save(ctx, &savepoint.SavePoint{
			ID:        string(rune('x' + i)),
			Slot:      slot,
			Items:     []savedata.Item{savedata.Create("FlowchartData", "{}")},
			Timestamp: base.Add(time.Duration(i) * time.Second),
			Version:   savepoint.CurrentVersion,
		}))
	}

	list, err := saver.List(ctx, savepoint.Filter{Slot: "a"})
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "y", list[0].ID)

	// Moving a save point to another slot removes it from the old one.
	moved, err := saver.Load(ctx, "x")
	require.NoError(t, err)
	moved.Slot = "b"
	require.NoError(t, saver.Save(ctx, moved))
	list, err = saver.List(ctx, savepoint.Filter{Slot: "a"})
	require.NoError(t, err)
	assert.Len(t, list, 1)

	all, err := saver.List(ctx, savepoint.Filter{Offset: 1})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	// Saves 100ns apart share a score but still list newest first.
	for i, id := range []string{"p", "q"} {
		require.NoError(t, saver.Save(ctx, &savepoint.SavePoint{
			ID:        id,
			Slot:      "c",
			Items:     []savedata.Item{savedata.Create("FlowchartData", "{}")},
			Timestamp: base.Add(time.Duration(i) * 100 * time.Nanosecond),
			Version:   savepoint.CurrentVersion,
		}))
	}
	before := base.Add(100 * time.Nanosecond)
	list, err = saver.List(ctx, savepoint.Filter{Slot: "c"})
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "q", list[0].ID)
	list, err = saver.List(ctx, savepoint.Filter{Slot: "c", Before: &before})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "p", list[0].ID)

	for _, id := range []string{"x", "y", "z", "p", "q"} {
		require.NoError(t, saver.Delete(ctx, id))
	}
	_, err = saver.Load(ctx, "x")
	assert.ErrorIs(t, err, savepoint.ErrSavePointNotFound)
	assert.ErrorIs(t, saver.Delete(ctx, "x"), savepoint.ErrSavePointNotFound)
}

func TestRangeArgs(t *testing.T) {
	s := NewSaver(nil, nil)
	since := time.Unix(0, 100_400_000)
	before := time.Unix(0, 200_900_000)

	args := s.rangeArgs(savepoint.Filter{Slot: "a", Since: &since, Before: &before, Offset: 2, Limit: 1})
	assert.Equal(t, "flowsave:slot:a", args.Key)
	assert.Equal(t, "100", args.Start)
	assert.Equal(t, "200", args.Stop)
	assert.True(t, args.Rev)
	assert.Zero(t, args.Offset)
	assert.Zero(t, args.Count)

	args = s.rangeArgs(savepoint.Filter{})
	assert.Equal(t, "flowsave:savepoints", args.Key)
	assert.Equal(t, "-inf", args.Start)
	assert.Equal(t, "+inf", args.Stop)
}

func TestSortAndPage_SubMillisecondOrder(t *testing.T) {
	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	points := []*savepoint.SavePoint{
		{ID: "a", Timestamp: base.Add(100 * time.Nanosecond)},
		{ID: "b", Timestamp: base.Add(300 * time.Nanosecond)},
		{ID: "c", Timestamp: base.Add(200 * time.Nanosecond)},
		{ID: "d", Timestamp: base.Add(300 * time.Nanosecond)},
	}

	sortNewestFirst(points)
	ids := make([]string, len(points))
	for i, sp := range points {
		ids[i] = sp.ID
	}
	assert.Equal(t, []string{"b", "d", "c", "a"}, ids)

	paged := page(points, 1, 2)
	require.Len(t, paged, 2)
	assert.Equal(t, "d", paged[0].ID)
	assert.Equal(t, "c", paged[1].ID)
	assert.Nil(t, page(points, 4, 0))
}

func TestNarrow_NanosecondWindow(t *testing.T) {
	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	// All three share one millisecond score.
	candidates := []*savepoint.SavePoint{
		{ID: "early", Timestamp: base.Add(100 * time.Nanosecond)},
		{ID: "edge", Timestamp: base.Add(500 * time.Nanosecond)},
		{ID: "late", Timestamp: base.Add(900 * time.Nanosecond)},
	}
	since := base.Add(100 * time.Nanosecond)
	before := base.Add(500 * time.Nanosecond)

	got := narrow(candidates, savepoint.Filter{Since: &since, Before: &before})
	require.Len(t, got, 1)
	assert.Equal(t, "early", got[0].ID)
}

func TestSaver_ArgumentErrors(t *testing.T) {
	ctx := context.Background()
	s := NewSaver(nil, nil)

	assert.Equal(t, savepoint.ErrInvalidSavePointID, s.Save(ctx, nil))
	_, err := s.Load(ctx, "")
	assert.Equal(t, savepoint.ErrInvalidSavePointID, err)
	assert.Equal(t, savepoint.ErrInvalidSavePointID, s.Delete(ctx, ""))
}
