package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnsureColumns(t *testing.T) {
	cfg := Config{
		Driver: "sqlite",
		Name:   ":memory:",
	}
	db, err := Connect(cfg)
	require.NoError(t, err)

	err = db.Exec("CREATE TABLE accidents (id INTEGER PRIMARY KEY, severity INTEGER)").Error
	require.NoError(t, err)

	changes, err := EnsureColumns(db, "accidents", []ColumnSpec{
		{Name: "severity", Type: "INTEGER"},            // already present
		{Name: "road_class", Type: "TEXT"},             // new
		{Name: "last_modify", Type: "INTEGER", Default: "0"}, // new with default
	})
	require.NoError(t, err)
	assert.Len(t, changes, 2)

	columns, err := GetTableColumns(db, "accidents")
	require.NoError(t, err)

	names := make([]string, 0, len(columns))
	for _, col := range columns {
		names = append(names, col.Field)
	}
	assert.Contains(t, names, "road_class")
	assert.Contains(t, names, "last_modify")

	// Re-running is a no-op
	changes, err = EnsureColumns(db, "accidents", []ColumnSpec{
		{Name: "road_class", Type: "TEXT"},
	})
	require.NoError(t, err)
	assert.Empty(t, changes)
}

// A column whose name is a suffix of an existing column must still be
// added. The sqlite migrator matches names as substrings of the table
// DDL, so "oid" would shadow "id" on a freshly created table.
func TestEnsureColumnsSuffixShadowing(t *testing.T) {
	cfg := Config{
		Driver: "sqlite",
		Name:   ":memory:",
	}
	db, err := Connect(cfg)
	require.NoError(t, err)

	err = db.Exec("CREATE TABLE events (oid INTEGER PRIMARY KEY AUTOINCREMENT)").Error
	require.NoError(t, err)

	changes, err := EnsureColumns(db, "events", []ColumnSpec{
		{Name: "id", Type: "BIGINT"},
		{Name: "name", Type: "TEXT"},
	})
	require.NoError(t, err)
	assert.Len(t, changes, 2)

	err = db.Exec("INSERT INTO events (id, name) VALUES (1, 'crossing')").Error
	require.NoError(t, err)
}
