package database

import (
	"fmt"
	"strings"

	"gorm.io/gorm"
)

// ColumnSpec describes a column to ensure on a table.
type ColumnSpec struct {
	// Name is the column name.
	Name string
	// Type is the SQL column type (e.g. "DOUBLE", "BIGINT", "TEXT").
	Type string
	// Default is the SQL default clause value, empty for none.
	Default string
}

// EnsureColumns adds the given columns to the table when they are not
// present yet. Incoming batches may carry columns the persisted table
// has never seen; those are added before the batch commits. Returns a
// description of every change applied.
func EnsureColumns(db *gorm.DB, tableName string, specs []ColumnSpec) ([]string, error) {
	// Existing columns come from the schema inspector rather than the
	// migrator: the sqlite migrator's HasColumn matches the name as a
	// substring of the CREATE TABLE text, so a column like "oid" makes
	// it misreport "id" as present.
	existing, err := GetTableColumns(db, tableName)
	if err != nil {
		return nil, err
	}
	present := make(map[string]bool, len(existing))
	for _, col := range existing {
		present[col.Field] = true
	}

	var changes []string

	for _, spec := range specs {
		// The ALTER itself needs raw SQL because the column comes from
		// data, not a model.
		if present[strings.ToLower(spec.Name)] {
			continue
		}

		defaultClause := ""
		if spec.Default != "" {
			defaultClause = fmt.Sprintf(" DEFAULT %s", spec.Default)
		}

		alterSQL := fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s %s%s",
			tableName, spec.Name, spec.Type, defaultClause)

		if err := db.Exec(alterSQL).Error; err != nil {
			return changes, fmt.Errorf("failed to add column %s: %w", spec.Name, err)
		}

		present[strings.ToLower(spec.Name)] = true
		changes = append(changes, fmt.Sprintf("Added column: %s (%s)", spec.Name, spec.Type))
	}

	return changes, nil
}
