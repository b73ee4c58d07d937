package checks

import (
	"testing"

	"geosync/feature/events"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("Failed to open mock sql db: %v", err)
	}

	dialector := mysql.New(mysql.Config{
		Conn:                      db,
		SkipInitializeWithVersion: true,
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to open gorm db: %v", err)
	}

	return gormDB, mock
}

func TestCheckTables(t *testing.T) {
	db, mock := setupMockDB(t)

	rows := sqlmock.NewRows([]string{"Field", "Type", "Null", "Key", "Default", "Extra"})
	rows.AddRow("oid", "bigint", "NO", "PRI", nil, "auto_increment")
	rows.AddRow("id", "bigint", "YES", "", nil, "")
	rows.AddRow("severity", "bigint", "YES", "", nil, "")

	mock.ExpectQuery("SHOW COLUMNS FROM `accidents`").WillReturnRows(rows)

	units := []events.UnitConfig{
		{Name: "accidents", Table: "accidents", KeyColumn: "id"},
	}

	report := CheckTables(db, units)
	assert.Equal(t, "ok", report["accidents"].Status)
	assert.Equal(t, 3, report["accidents"].Columns)
}

func TestCheckTables_KeyMissing(t *testing.T) {
	db, mock := setupMockDB(t)

	rows := sqlmock.NewRows([]string{"Field", "Type", "Null", "Key", "Default", "Extra"})
	rows.AddRow("oid", "bigint", "NO", "PRI", nil, "auto_increment")
	rows.AddRow("severity", "bigint", "YES", "", nil, "")

	mock.ExpectQuery("SHOW COLUMNS FROM `accidents`").WillReturnRows(rows)

	units := []events.UnitConfig{
		{Name: "accidents", Table: "accidents", KeyColumn: "id"},
	}

	report := CheckTables(db, units)
	assert.Equal(t, "no_key", report["accidents"].Status)
}

func TestCheckTables_TableMissing(t *testing.T) {
	db, mock := setupMockDB(t)

	mock.ExpectQuery("SHOW COLUMNS FROM `vehicles`").WillReturnError(assert.AnError)

	units := []events.UnitConfig{
		{Name: "vehicles", Table: "vehicles", KeyColumn: "id"},
	}

	report := CheckTables(db, units)
	assert.Equal(t, "missing", report["vehicles"].Status)
}
