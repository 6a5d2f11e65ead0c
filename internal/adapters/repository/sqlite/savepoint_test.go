package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flowgraph/flowsave/internal/core/savedata"
	"github.com/flowgraph/flowsave/internal/core/savepoint"
	"github.com/flowgraph/flowsave/pkg/serialization"
)

func newTestSaver(t *testing.T) *Saver {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	// A second connection would see a different :memory: database.
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	saver := NewSaver(db, serialization.DefaultSerializer())
	require.NoError(t, saver.CreateTables(context.Background()))
	return saver
}

func TestSQLiteSaver(t *testing.T) {
	ctx := context.Background()
	saver := newTestSaver(t)

	sp := &savepoint.SavePoint{
		ID:                "sp-1",
		Slot:              "slot-1",
		Description:       "before the bridge",
		ProgressMarkerKey: "chapter-2",
		Items: []savedata.Item{
			savedata.Create("FlowchartData", `{"flowchartName":"Main"}`),
		},
		Timestamp: time.Now(),
		Version:   savepoint.CurrentVersion,
	}

	require.NoError(t, saver.Save(ctx, sp))

	loaded, err := saver.Load(ctx, "sp-1")
	require.NoError(t, err)
	assert.Equal(t, sp.Slot, loaded.Slot)
	assert.Equal(t, sp.Description, loaded.Description)
	assert.Equal(t, sp.ProgressMarkerKey, loaded.ProgressMarkerKey)
	assert.Equal(t, sp.Items, loaded.Items)
	assert.Equal(t, sp.Timestamp.UnixNano(), loaded.Timestamp.UnixNano())

	// Saving again replaces.
	sp.Description = "after the bridge"
	require.NoError(t, saver.Save(ctx, sp))
	loaded, err = saver.Load(ctx, "sp-1")
	require.NoError(t, err)
	assert.Equal(t, "after the bridge", loaded.Description)

	list, err := saver.List(ctx, savepoint.Filter{Slot: "slot-1", Limit: 10})
	require.NoError(t, err)
	assert.Len(t, list, 1)

	require.NoError(t, saver.Delete(ctx, "sp-1"))
	_, err = saver.Load(ctx, "sp-1")
	assert.Equal(t, savepoint.ErrSavePointNotFound, err)
	assert.Equal(t, savepoint.ErrSavePointNotFound, saver.Delete(ctx, "sp-1"))
}

func TestSQLiteSaver_ListOrderingAndPaging(t *testing.T) {
	ctx := context.Background()
	saver := newTestSaver(t)
	base := time.Now()

	for i := 0; i < 4; i++ {
		require.NoError(t, saver.Save(ctx, &savepoint.SavePoint{
			ID:        fmt.Sprintf("sp-%d", i),
			Slot:      "slot",
			Items:     []savedata.Item{},
			Timestamp: base.Add(time.Duration(i) * time.Second),
			Version:   savepoint.CurrentVersion,
		}))
	}

	all, err := saver.List(ctx, savepoint.Filter{})
	require.NoError(t, err)
	require.Len(t, all, 4)
	assert.Equal(t, "sp-3", all[0].ID)

	paged, err := saver.List(ctx, savepoint.Filter{Offset: 1})
	require.NoError(t, err)
	require.Len(t, paged, 3)
	assert.Equal(t, "sp-2", paged[0].ID)

	since := base.Add(2 * time.Second)
	recent, err := saver.List(ctx, savepoint.Filter{Since: &since})
	require.NoError(t, err)
	assert.Len(t, recent, 2)
}

func TestSQLiteSaver_Errors(t *testing.T) {
	ctx := context.Background()
	saver := NewSaver(nil, nil)

	assert.Equal(t, savepoint.ErrInvalidSavePointID, saver.Save(ctx, nil))
	_, err := saver.Load(ctx, "")
	assert.Equal(t, savepoint.ErrInvalidSavePointID, err)
	assert.Equal(t, savepoint.ErrInvalidSavePointID, saver.Delete(ctx, ""))
}

func TestWithTableName(t *testing.T) {
	saver := NewSaver(nil, nil)
	assert.Equal(t, "slots_v2", saver.WithTableName("slots_v2").tableName)
	assert.Equal(t, "slots_v2", saver.WithTableName("x; DROP TABLE y").tableName)
}
