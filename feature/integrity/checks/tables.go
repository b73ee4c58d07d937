package checks

import (
	"geosync/core/database"
	"geosync/feature/events"

	"gorm.io/gorm"
)

// TableReport describes the persisted table of one source unit.
type TableReport struct {
	Status    string `json:"status"` // "ok", "missing", "no_key", "error"
	Columns   int    `json:"columns,omitempty"`
	KeyColumn string `json:"key_column"`
	Error     string `json:"error,omitempty"`
}

// CheckTables inspects each unit's persisted table: does it exist and
// does it carry the unit's key column. A missing table is reported but
// is not an error; the first committed run creates it.
func CheckTables(db *gorm.DB, units []events.UnitConfig) map[string]TableReport {
	report := make(map[string]TableReport, len(units))

	for _, unit := range units {
		tr := TableReport{KeyColumn: unit.KeyColumn}

		columns, err := database.GetTableColumns(db, unit.Table)
		switch {
		case err != nil:
			// MySQL errors on a missing table where SQLite returns an
			// empty set; both read as not created yet.
			tr.Status = "missing"
			tr.Error = err.Error()
		case len(columns) == 0:
			tr.Status = "missing"
		default:
			tr.Columns = len(columns)
			tr.Status = "no_key"
			for _, col := range columns {
				if col.Field == unit.KeyColumn {
					tr.Status = "ok"
					break
				}
			}
		}

		report[unit.Table] = tr
	}

	return report
}
