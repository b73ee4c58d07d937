package table

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOccurrenceIndex(t *testing.T) {
	tbl := New("id", "id", "v")
	tbl.Append(Record{"id": 1, "v": "a"})
	tbl.Append(Record{"id": 1, "v": "b"})
	tbl.Append(Record{"id": 2, "v": "c"})
	tbl.Append(Record{"id": 1, "v": "d"})

	assert.Equal(t, []int{0, 1, 0, 2}, tbl.OccurrenceIndex())
	assert.True(t, tbl.HasDuplicateKeys())
}

func TestKeyString_CrossTypeEquality(t *testing.T) {
	// Keys arrive as int64 from the database and as strings from CSV.
	tests := []struct {
		name string
		val  any
		want string
	}{
		{"int", 42, "42"},
		{"int64", int64(42), "42"},
		{"float64", float64(42), "42"},
		{"string", "42", "42"},
		{"nil", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, KeyString(tt.val))
		})
	}
}

func TestNormalizeValue(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want any
	}{
		{"nil", nil, nil},
		{"empty string", "", nil},
		{"whitespace", "  ", nil},
		{"nan string", "NaN", nil},
		{"null string", "NULL", nil},
		{"nan float", math.NaN(), nil},
		{"plain string", "hello", "hello"},
		{"zero", 0, 0},
		{"float", 3.5, 3.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeValue(tt.in))
		})
	}
}

func TestNormalize_DoesNotMutateInput(t *testing.T) {
	tbl := New("id", "id", "v")
	tbl.Append(Record{"id": 1, "v": ""})

	norm := Normalize(tbl)

	assert.Nil(t, norm.Rows[0]["v"])
	assert.Equal(t, "", tbl.Rows[0]["v"])
}

func TestAddColumn_BackfillsNull(t *testing.T) {
	tbl := New("id", "id")
	tbl.Append(Record{"id": 1})
	tbl.AddColumn("severity")
	tbl.AddColumn("severity") // idempotent

	assert.Equal(t, []string{"id", "severity"}, tbl.Columns)
	v, ok := tbl.Rows[0]["severity"]
	assert.True(t, ok)
	assert.Nil(t, v)
}

func TestKeySet(t *testing.T) {
	tbl := New("id", "id")
	tbl.Append(Record{"id": 1})
	tbl.Append(Record{"id": "2"})
	tbl.Append(Record{"id": 1})

	set := tbl.KeySet()
	assert.Len(t, set, 2)
	assert.Contains(t, set, "1")
	assert.Contains(t, set, "2")
}
