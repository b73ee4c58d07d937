package reconcile

import (
	"testing"

	"geosync/core/table"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildTable(keyColumn string, columns []string, rows ...table.Record) table.Table {
	t := table.New(keyColumn, columns...)
	for _, r := range rows {
		t.Append(r)
	}
	return t
}

func TestReconcile_EndToEnd(t *testing.T) {
	persisted := buildTable("id", []string{"id", "name"},
		table.Record{"id": 1, "name": "A"},
		table.Record{"id": 2, "name": "B"},
	)
	incoming := buildTable("id", []string{"id", "name"},
		table.Record{"id": 2, "name": "B2"},
		table.Record{"id": 3, "name": "C"},
	)

	plan, err := Reconcile(persisted, incoming, "id")
	require.NoError(t, err)

	assert.Equal(t, 1, plan.UpdateSet.Len())
	assert.Equal(t, "B2", plan.UpdateSet.Rows[0]["name"])
	assert.Equal(t, []bool{false, true}, plan.UpdateMask)
	assert.Equal(t, 1, plan.InsertSet.Len())
	assert.Equal(t, "C", plan.InsertSet.Rows[0]["name"])

	// Merged is the full replacement: row 0 untouched, row 1 updated.
	require.Equal(t, 2, plan.Merged.Len())
	assert.Equal(t, "A", plan.Merged.Rows[0]["name"])
	assert.Equal(t, "B2", plan.Merged.Rows[1]["name"])
}

func TestReconcile_PartitionTotality(t *testing.T) {
	persisted := buildTable("id", []string{"id", "v"},
		table.Record{"id": 1, "v": "a"},
		table.Record{"id": 1, "v": "b"},
		table.Record{"id": 2, "v": "c"},
	)
	incoming := buildTable("id", []string{"id", "v"},
		table.Record{"id": 1, "v": "a2"},
		table.Record{"id": 1, "v": "b2"},
		table.Record{"id": 1, "v": "extra"}, // promoted
		table.Record{"id": 2, "v": "c2"},
		table.Record{"id": 9, "v": "new"},
	)

	plan, err := Reconcile(persisted, incoming, "id")
	require.NoError(t, err)

	assert.Equal(t, incoming.Len(), plan.InsertSet.Len()+plan.UpdateSet.Len())
	assert.Equal(t, incoming.Len(), plan.Summary.Inserts+plan.Summary.Updates)
}

func TestReconcile_MaskAlignment(t *testing.T) {
	persisted := buildTable("id", []string{"id", "v"},
		table.Record{"id": 1, "v": "a"},
		table.Record{"id": 2, "v": "b"},
		table.Record{"id": 3, "v": "c"},
		table.Record{"id": 4, "v": "d"},
	)
	incoming := buildTable("id", []string{"id", "v"},
		table.Record{"id": 2, "v": "b2"},
		table.Record{"id": 4, "v": "d2"},
	)

	plan, err := Reconcile(persisted, incoming, "id")
	require.NoError(t, err)

	require.Len(t, plan.UpdateMask, persisted.Len())
	assert.Equal(t, []bool{false, true, false, true}, plan.UpdateMask)
	assert.Equal(t, 2, plan.Summary.MaskedRows)
}

func TestReconcile_OccurrenceFidelity(t *testing.T) {
	persisted := buildTable("id", []string{"id", "v"},
		table.Record{"id": 1, "v": "a"},
		table.Record{"id": 1, "v": "b"},
	)
	incoming := buildTable("id", []string{"id", "v"},
		table.Record{"id": 1, "v": "a2"},
	)

	plan, err := Reconcile(persisted, incoming, "id")
	require.NoError(t, err)

	// Only occurrence 0 is updated; occurrence 1 stays untouched.
	assert.Equal(t, "a2", plan.Merged.Rows[0]["v"])
	assert.Equal(t, "b", plan.Merged.Rows[1]["v"])
	assert.Equal(t, 0, plan.InsertSet.Len())
	assert.False(t, plan.Summary.KeyOnly)
}

func TestReconcile_UnmatchedOccurrencePromotion(t *testing.T) {
	persisted := buildTable("id", []string{"id", "v"},
		table.Record{"id": 5, "v": "old"},
	)
	incoming := buildTable("id", []string{"id", "v"},
		table.Record{"id": 5, "v": "updated"},
		table.Record{"id": 5, "v": "second"},
	)

	plan, err := Reconcile(persisted, incoming, "id")
	require.NoError(t, err)

	assert.Equal(t, 1, plan.UpdateSet.Len())
	assert.Equal(t, "updated", plan.UpdateSet.Rows[0]["v"])
	require.Equal(t, 1, plan.InsertSet.Len())
	assert.Equal(t, "second", plan.InsertSet.Rows[0]["v"])
	assert.Equal(t, 1, plan.Summary.Promoted)
	assert.Equal(t, "updated", plan.Merged.Rows[0]["v"])
}

func TestReconcile_Idempotence(t *testing.T) {
	persisted := table.Table{}
	incoming := buildTable("id", []string{"id", "v"},
		table.Record{"id": 1, "v": "a"},
		table.Record{"id": 2, "v": "b"},
	)

	// First run against an empty store: everything inserts.
	first, err := Reconcile(persisted, incoming, "id")
	require.NoError(t, err)
	assert.Equal(t, 2, first.InsertSet.Len())
	assert.Equal(t, 0, first.UpdateSet.Len())
	assert.Empty(t, first.UpdateMask)

	// Second run against the committed result: no inserts, updates are
	// value-identical no-ops.
	second, err := Reconcile(first.InsertSet, incoming, "id")
	require.NoError(t, err)
	assert.Equal(t, 0, second.InsertSet.Len())
	assert.Equal(t, 2, second.UpdateSet.Len())
	for i, row := range second.Merged.Rows {
		assert.Equal(t, first.InsertSet.Rows[i]["v"], row["v"])
	}
}

func TestReconcile_SchemaError(t *testing.T) {
	persisted := buildTable("id", []string{"id", "v"}, table.Record{"id": 1, "v": "a"})
	incoming := buildTable("id", []string{"code", "v"}, table.Record{"code": 1, "v": "a"})

	_, err := Reconcile(persisted, incoming, "id")

	var schemaErr *SchemaError
	require.ErrorAs(t, err, &schemaErr)
	assert.Equal(t, "incoming", schemaErr.Table)
	assert.Equal(t, "id", schemaErr.Column)
}

func TestReconcile_SchemaErrorPersistedSide(t *testing.T) {
	persisted := buildTable("code", []string{"code", "v"}, table.Record{"code": 1, "v": "a"})
	incoming := buildTable("id", []string{"id", "v"}, table.Record{"id": 1, "v": "a"})

	_, err := Reconcile(persisted, incoming, "id")

	var schemaErr *SchemaError
	require.ErrorAs(t, err, &schemaErr)
	assert.Equal(t, "persisted", schemaErr.Table)
}

func TestReconcile_NewColumns(t *testing.T) {
	persisted := buildTable("id", []string{"id", "name"},
		table.Record{"id": 1, "name": "A"},
		table.Record{"id": 2, "name": "B"},
	)
	incoming := buildTable("id", []string{"id", "name", "severity"},
		table.Record{"id": 2, "name": "B2", "severity": 3},
		table.Record{"id": 7, "name": "G", "severity": 1},
	)

	plan, err := Reconcile(persisted, incoming, "id")
	require.NoError(t, err)

	assert.Equal(t, []string{"severity"}, plan.Summary.NewColumns)
	assert.Equal(t, []string{"id", "name", "severity"}, plan.Merged.Columns)

	// Persisted row without a candidate match stays null in new columns.
	assert.Nil(t, plan.Merged.Rows[0]["severity"])
	assert.Equal(t, 3, plan.Merged.Rows[1]["severity"])

	// Insert rows align to the merged schema.
	assert.Equal(t, []string{"id", "name", "severity"}, plan.InsertSet.Columns)
	assert.Equal(t, 1, plan.InsertSet.Rows[0]["severity"])
}

func TestReconcile_NullsNeverOverwrite(t *testing.T) {
	persisted := buildTable("id", []string{"id", "name", "note"},
		table.Record{"id": 1, "name": "A", "note": "keep"},
	)
	incoming := buildTable("id", []string{"id", "name", "note"},
		table.Record{"id": 1, "name": "A2", "note": ""},
	)

	plan, err := Reconcile(persisted, incoming, "id")
	require.NoError(t, err)

	assert.Equal(t, "A2", plan.Merged.Rows[0]["name"])
	assert.Equal(t, "keep", plan.Merged.Rows[0]["note"])
}

func TestReconcile_CrossTypeKeys(t *testing.T) {
	// Database keys come back as int64, CSV keys as strings.
	persisted := buildTable("id", []string{"id", "v"},
		table.Record{"id": int64(100), "v": "a"},
	)
	incoming := buildTable("id", []string{"id", "v"},
		table.Record{"id": "100", "v": "a2"},
	)

	plan, err := Reconcile(persisted, incoming, "id")
	require.NoError(t, err)

	assert.Equal(t, 0, plan.InsertSet.Len())
	assert.Equal(t, 1, plan.UpdateSet.Len())
	assert.Equal(t, "a2", plan.Merged.Rows[0]["v"])
}

func TestReconcile_EmptyIncoming(t *testing.T) {
	persisted := buildTable("id", []string{"id", "v"}, table.Record{"id": 1, "v": "a"})
	incoming := table.New("id", "id", "v")

	plan, err := Reconcile(persisted, incoming, "id")
	require.NoError(t, err)

	assert.True(t, plan.IsNoop())
	assert.Equal(t, []bool{false}, plan.UpdateMask)
}

func TestReconcile_EmptyPersisted(t *testing.T) {
	persisted := table.New("id")
	incoming := buildTable("id", []string{"id", "v"},
		table.Record{"id": 1, "v": "a"},
		table.Record{"id": 2, "v": "b"})

	plan, err := Reconcile(persisted, incoming, "id")
	require.NoError(t, err)

	assert.Equal(t, 2, plan.InsertSet.Len())
	assert.Equal(t, 0, plan.UpdateSet.Len())
	assert.True(t, plan.InsertSet.HasColumn("id"))
	assert.True(t, plan.InsertSet.HasColumn("v"))
	assert.Equal(t, "1", plan.InsertSet.Key(plan.InsertSet.Rows[0]))
}
