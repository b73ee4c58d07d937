package events

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadUnits(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sources.yaml")
	content := `units:
  - name: accidents
    object: exports/accidents.csv
    table: accidents
    key_column: id
    spatial: true
    encoding: windows-1250
    renames:
      p1: id
      souradnice_x: x
    drops:
      - internal_note
  - name: vehicles
    object: exports/vehicles.csv
    table: vehicles
    key_column: id
    order: 2
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	units, err := LoadUnits(path)
	require.NoError(t, err)
	require.Len(t, units, 2)

	accidents := units[0]
	assert.Equal(t, "accidents", accidents.Name)
	assert.True(t, accidents.Spatial)
	assert.Equal(t, "windows-1250", accidents.Encoding)
	assert.Equal(t, "id", accidents.Renames["p1"])
	assert.Equal(t, []string{"internal_note"}, accidents.Drops)

	assert.Equal(t, 2, units[1].Order)
}

func TestLoadUnits_MissingFile(t *testing.T) {
	_, err := LoadUnits(filepath.Join(t.TempDir(), "nosuch.yaml"))
	assert.Error(t, err)
}

func TestLoadUnits_InvalidUnit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sources.yaml")
	content := `units:
  - name: accidents
    object: exports/accidents.csv
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	_, err := LoadUnits(path)
	assert.ErrorContains(t, err, "no target table")
}

func TestSortUnits(t *testing.T) {
	units := []UnitConfig{
		{Name: "pedestrians", Order: 3},
		{Name: "vehicles", Order: 1},
		{Name: "accidents", Spatial: true},
		{Name: "casualties", Order: 1},
	}

	sorted := SortUnits(units)

	names := make([]string, 0, len(sorted))
	for _, u := range sorted {
		names = append(names, u.Name)
	}
	assert.Equal(t, []string{"accidents", "casualties", "vehicles", "pedestrians"}, names)

	// Input order preserved.
	assert.Equal(t, "pedestrians", units[0].Name)
}
