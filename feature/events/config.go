package events

import (
	"fmt"
	"sort"

	"geosync/feature/events/extract"

	"github.com/spf13/viper"
)

// Config holds workflow-level configuration for the events feature.
type Config struct {
	// UnitsFile is the path of the source unit definition file.
	UnitsFile string `mapstructure:"units_file" default:"sources.yaml"`
	// LastModifyFlag is the marker column set on the final row of the
	// terminal batch; downstream database triggers key off it. Empty
	// disables the flag.
	LastModifyFlag string `mapstructure:"last_modify_flag" default:"last_modify"`
}

// UnitConfig describes one source unit: a CSV export object in storage
// and the persisted table it synchronizes into.
type UnitConfig struct {
	// Name is the unique unit name, used in logs and reports.
	Name string `mapstructure:"name"`
	// Object is the storage object holding the CSV export.
	Object string `mapstructure:"object"`
	// Table is the persisted table (or file object) the unit targets.
	Table string `mapstructure:"table"`
	// KeyColumn is the primary-key column of the unit's records.
	KeyColumn string `mapstructure:"key_column"`
	// Spatial marks units whose records carry coordinates; only those
	// pass through validation and polygon filtering.
	Spatial bool `mapstructure:"spatial"`
	// Delimiter is the CSV field separator (default ";").
	Delimiter string `mapstructure:"delimiter"`
	// Encoding is the source character encoding (utf-8, windows-1250).
	Encoding string `mapstructure:"encoding"`
	// Order is the processing priority among non-spatial units.
	Order int `mapstructure:"order"`
	// Renames maps source column names to persisted column names.
	Renames map[string]string `mapstructure:"renames"`
	// Drops lists source columns excluded from the persisted table.
	Drops []string `mapstructure:"drops"`
}

// Source maps the unit onto the extractor's input.
func (u UnitConfig) Source() extract.Source {
	return extract.Source{
		Name:      u.Name,
		Object:    u.Object,
		KeyColumn: u.KeyColumn,
		Delimiter: u.Delimiter,
		Encoding:  u.Encoding,
		Renames:   u.Renames,
		Drops:     u.Drops,
	}
}

// Validate checks that the unit definition is complete.
func (u UnitConfig) Validate() error {
	if u.Name == "" {
		return fmt.Errorf("unit has no name")
	}
	if u.Object == "" {
		return fmt.Errorf("unit %s has no source object", u.Name)
	}
	if u.Table == "" {
		return fmt.Errorf("unit %s has no target table", u.Name)
	}
	if u.KeyColumn == "" {
		return fmt.Errorf("unit %s has no key column", u.Name)
	}
	return nil
}

// LoadUnits reads the source unit definitions from a YAML file.
func LoadUnits(path string) ([]UnitConfig, error) {
	v := viper.New()
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read units file %s: %w", path, err)
	}

	var units []UnitConfig
	if err := v.UnmarshalKey("units", &units); err != nil {
		return nil, fmt.Errorf("failed to parse units file %s: %w", path, err)
	}

	for _, u := range units {
		if err := u.Validate(); err != nil {
			return nil, err
		}
	}

	return units, nil
}

// SortUnits orders units for processing: spatial units first (their
// keys establish the entity set the remaining units attach to), then
// by configured order, then by name for stability.
func SortUnits(units []UnitConfig) []UnitConfig {
	sorted := append([]UnitConfig(nil), units...)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Spatial != sorted[j].Spatial {
			return sorted[i].Spatial
		}
		if sorted[i].Order != sorted[j].Order {
			return sorted[i].Order < sorted[j].Order
		}
		return sorted[i].Name < sorted[j].Name
	})
	return sorted
}
