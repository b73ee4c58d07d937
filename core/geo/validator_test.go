package geo

import (
	"testing"

	"geosync/core/table"

	"github.com/stretchr/testify/assert"
)

func newBatch(rows ...table.Record) table.Table {
	t := table.New("id", "id", "x", "y")
	for _, r := range rows {
		t.Append(r)
	}
	return t
}

func TestValidate_SplitsOnEastingNorthing(t *testing.T) {
	v := NewValidator(NewFactory(SJTSK), "x", "y")

	batch := newBatch(
		table.Record{"id": 1, "x": -600000.0, "y": -1100000.0}, // valid: x > y
		table.Record{"id": 2, "x": 10.0, "y": 50.0},            // swapped at source
	)

	valid, invalid := v.Validate(batch)

	assert.Equal(t, 1, valid.Len())
	assert.Equal(t, 1, invalid.Len())
	assert.Equal(t, 1, valid.Rows[0]["id"])
	assert.Equal(t, 2, invalid.Rows[0]["id"])
}

func TestValidate_ExcludesEmptyGeometry(t *testing.T) {
	v := NewValidator(NewFactory(SJTSK), "x", "y")

	batch := newBatch(
		table.Record{"id": 1, "x": nil, "y": -1100000.0},
		table.Record{"id": 2, "x": "", "y": ""},
		table.Record{"id": 3, "x": "not-a-number", "y": "5"},
	)

	valid, invalid := v.Validate(batch)

	// Missing geometry is a deliberate exclusion, not a failure:
	// the rows appear in neither list.
	assert.Equal(t, 0, valid.Len())
	assert.Equal(t, 0, invalid.Len())
}

func TestSwapXY_RoundTrip(t *testing.T) {
	v := NewValidator(NewFactory(SJTSK), "x", "y")

	batch := newBatch(table.Record{"id": 1, "x": 10.0, "y": 50.0})

	_, invalid := v.Validate(batch)
	assert.Equal(t, 1, invalid.Len())

	swapped := v.SwapXY(invalid)
	valid, stillInvalid := v.Validate(swapped)

	assert.Equal(t, 1, valid.Len())
	assert.Equal(t, 0, stillInvalid.Len())
	assert.Equal(t, 50.0, valid.Rows[0]["x"])
	assert.Equal(t, 10.0, valid.Rows[0]["y"])

	// Input must not be mutated
	assert.Equal(t, 10.0, invalid.Rows[0]["x"])
}

func TestSwapXY_StillInvalidAfterOneSwap(t *testing.T) {
	v := NewValidator(NewFactory(SJTSK), "x", "y")

	// Degenerate point: equal coordinates stay invalid after a swap.
	batch := newBatch(table.Record{"id": 1, "x": 5.0, "y": 5.0})

	_, invalid := v.Validate(batch)
	swapped := v.SwapXY(invalid)
	_, stillInvalid := v.Validate(swapped)

	assert.Equal(t, 1, stillInvalid.Len())
}

func TestValidate_DecimalCommaCoordinates(t *testing.T) {
	v := NewValidator(NewFactory(SJTSK), "x", "y")

	batch := newBatch(table.Record{"id": 1, "x": "-601234,5", "y": "-1101234,5"})

	valid, invalid := v.Validate(batch)

	assert.Equal(t, 1, valid.Len())
	assert.Equal(t, 0, invalid.Len())
}
