package store

import (
	"context"
	"path/filepath"
	"testing"

	"geosync/core/database"
	"geosync/core/reconcile"
	"geosync/core/table"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testDB(t *testing.T) *DBStore {
	t.Helper()
	db, err := database.Connect(database.Config{
		Driver: "sqlite",
		Name:   filepath.Join(t.TempDir(), "store.db"),
	})
	require.NoError(t, err)
	return NewDBStore(db, "accidents", zap.NewNop())
}

func batch(columns []string, rows ...table.Record) table.Table {
	t := table.New("id", columns...)
	for _, r := range rows {
		t.Append(r)
	}
	return t
}

func TestDBStore_InitialCommitAndReload(t *testing.T) {
	s := testDB(t)
	ctx := context.Background()

	persisted, err := s.LoadAll(ctx, "id")
	require.NoError(t, err)
	assert.True(t, persisted.IsEmpty())

	incoming := batch([]string{"id", "severity"},
		table.Record{"id": int64(1), "severity": int64(2)},
		table.Record{"id": int64(2), "severity": int64(3)},
	)

	plan, err := reconcile.Reconcile(persisted, incoming, "id")
	require.NoError(t, err)
	assert.Equal(t, 2, plan.Summary.Inserts)

	require.NoError(t, s.Commit(ctx, plan))

	reloaded, err := s.LoadAll(ctx, "id")
	require.NoError(t, err)
	assert.Equal(t, 2, reloaded.Len())
	assert.ElementsMatch(t, []string{"id", "severity"}, reloaded.Columns)
}

func TestDBStore_UpdateAndNewColumn(t *testing.T) {
	s := testDB(t)
	ctx := context.Background()

	first := batch([]string{"id", "severity"},
		table.Record{"id": int64(1), "severity": int64(2)},
		table.Record{"id": int64(2), "severity": int64(3)},
	)
	persisted, err := s.LoadAll(ctx, "id")
	require.NoError(t, err)
	plan, err := reconcile.Reconcile(persisted, first, "id")
	require.NoError(t, err)
	require.NoError(t, s.Commit(ctx, plan))

	second := batch([]string{"id", "severity", "cause"},
		table.Record{"id": int64(1), "severity": int64(5), "cause": "ice"},
		table.Record{"id": int64(3), "severity": int64(1), "cause": "fog"},
	)
	persisted, err = s.LoadAll(ctx, "id")
	require.NoError(t, err)
	plan, err = reconcile.Reconcile(persisted, second, "id")
	require.NoError(t, err)
	assert.Equal(t, 1, plan.Summary.Updates)
	assert.Equal(t, 1, plan.Summary.Inserts)
	require.NoError(t, s.Commit(ctx, plan))

	final, err := s.LoadAll(ctx, "id")
	require.NoError(t, err)
	assert.Equal(t, 3, final.Len())
	assert.True(t, final.HasColumn("cause"))

	byID := make(map[string]table.Record)
	for _, row := range final.Rows {
		byID[final.Key(row)] = row
	}
	assert.Equal(t, int64(5), byID["1"]["severity"])
	assert.Equal(t, "ice", byID["1"]["cause"])
	assert.Equal(t, int64(3), byID["2"]["severity"])
	assert.Nil(t, byID["2"]["cause"])
	assert.Equal(t, "fog", byID["3"]["cause"])
}

func TestDBStore_NullNeverOverwrites(t *testing.T) {
	s := testDB(t)
	ctx := context.Background()

	first := batch([]string{"id", "street"},
		table.Record{"id": int64(1), "street": "Masarykova"},
	)
	persisted, err := s.LoadAll(ctx, "id")
	require.NoError(t, err)
	plan, err := reconcile.Reconcile(persisted, first, "id")
	require.NoError(t, err)
	require.NoError(t, s.Commit(ctx, plan))

	second := batch([]string{"id", "street"},
		table.Record{"id": int64(1), "street": nil},
	)
	persisted, err = s.LoadAll(ctx, "id")
	require.NoError(t, err)
	plan, err = reconcile.Reconcile(persisted, second, "id")
	require.NoError(t, err)
	require.NoError(t, s.Commit(ctx, plan))

	final, err := s.LoadAll(ctx, "id")
	require.NoError(t, err)
	require.Equal(t, 1, final.Len())
	assert.Equal(t, "Masarykova", final.Rows[0]["street"])
}

func TestDBStore_StalePlanRejected(t *testing.T) {
	s := testDB(t)
	ctx := context.Background()

	plan := &reconcile.Plan{
		KeyColumn:  "id",
		UpdateMask: []bool{true},
		Merged:     batch([]string{"id"}, table.Record{"id": int64(1)}),
	}

	err := s.Commit(ctx, plan)
	require.Error(t, err)
	var commitErr *reconcile.StoreCommitError
	assert.ErrorAs(t, err, &commitErr)
}

func TestInferColumnType(t *testing.T) {
	tbl := batch([]string{"id", "x", "street", "blank"},
		table.Record{"id": "104", "x": "1023,5", "street": "Husova", "blank": nil},
		table.Record{"id": "105", "x": "-58.25", "street": nil, "blank": nil},
	)

	assert.Equal(t, "BIGINT", inferColumnType(tbl, "id"))
	assert.Equal(t, "DOUBLE", inferColumnType(tbl, "x"))
	assert.Equal(t, "TEXT", inferColumnType(tbl, "street"))
	assert.Equal(t, "TEXT", inferColumnType(tbl, "blank"))
}
