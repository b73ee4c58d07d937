// Package database handles database connections, schema inspection and
// schema evolution.
//
// It provides a wrapper around GORM (Go Object Relational Mapping) to properly
// configure MySQL and SQLite connections based on the application's configuration.
//
// # Connect
//
// The generic Connect function establishes a connection for the configured
// driver. The same store code runs against both dialects; the inspector hides
// their introspection differences (SHOW COLUMNS vs PRAGMA table_info).
//
// # Schema Inspection and Evolution
//
// GetTableColumns retrieves the live column definitions of a persisted table,
// which the reconciliation workflow compares against incoming batch schemas.
// EnsureColumns adds columns the persisted table has never seen, so batches
// carrying new attributes commit without manual DDL.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	if err != nil {
//	    log.Fatal("Database connection failed", err)
//	}
//
//	columns, err := database.GetTableColumns(db, "accidents")
package database
