package store

import (
	"fmt"

	"geosync/core/geo"
	"geosync/core/reconcile"
	"geosync/core/server"
	"geosync/core/storage"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Factory builds the record store matching the configured backend.
type Factory struct {
	Backend string
	DB      *gorm.DB
	Client  storage.Client
	Bucket  string
	Factory geo.Factory
	XColumn string
	YColumn string
	Logger  *zap.Logger
}

// ForTable returns the store that persists the given table on the
// configured backend.
func (f Factory) ForTable(tableName string) (reconcile.RecordStore, error) {
	switch f.Backend {
	case server.BackendDatabase:
		return NewDBStore(f.DB, tableName, f.Logger), nil
	case server.BackendFile:
		return NewFileStore(f.Client, f.Bucket, tableName, f.Factory, f.XColumn, f.YColumn, f.Logger), nil
	default:
		return nil, fmt.Errorf("unknown storage backend: %s", f.Backend)
	}
}
