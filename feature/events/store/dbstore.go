package store

import (
	"context"
	"fmt"

	"geosync/core/database"
	"geosync/core/reconcile"
	"geosync/core/table"
	"geosync/core/utils"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// oidColumn is the surrogate row identifier the database store adds to
// every persisted table. Update plans address persisted rows
// positionally; the oid pins each loaded row to its physical identity
// so masked updates hit exactly the row they were computed for, even
// when key values repeat.
const oidColumn = "oid"

// DBStore persists reconciled tables in a relational database.
//
// LoadAll and Commit form one session: Commit translates the plan's
// positional update mask through the row identities captured by the
// preceding LoadAll. The whole plan applies in a single transaction.
type DBStore struct {
	db        *gorm.DB
	tableName string
	logger    *zap.Logger

	// rowIDs pins persisted row positions to oids, aligned with the
	// table returned by the last LoadAll.
	rowIDs []int64
}

// NewDBStore creates a database-backed record store for one table.
func NewDBStore(db *gorm.DB, tableName string, logger *zap.Logger) *DBStore {
	return &DBStore{
		db:        db,
		tableName: tableName,
		logger:    logger,
	}
}

// LoadAll implements reconcile.RecordStore. A table that does not exist
// yet loads as an empty table.
func (s *DBStore) LoadAll(ctx context.Context, keyColumn string) (table.Table, error) {
	s.rowIDs = nil

	if !s.db.Migrator().HasTable(s.tableName) {
		return table.New(keyColumn), nil
	}

	columns, err := database.GetTableColumns(s.db, s.tableName)
	if err != nil {
		return table.Table{}, err
	}

	names := make([]string, 0, len(columns))
	for _, col := range columns {
		if col.Field == oidColumn {
			continue
		}
		names = append(names, col.Field)
	}

	var rows []map[string]any
	if err := s.db.WithContext(ctx).Table(s.tableName).Order(oidColumn).Find(&rows).Error; err != nil {
		return table.Table{}, fmt.Errorf("failed to load table %s: %w", s.tableName, err)
	}

	out := table.New(keyColumn, names...)
	s.rowIDs = make([]int64, 0, len(rows))
	for _, raw := range rows {
		rec := make(table.Record, len(names))
		for _, name := range names {
			rec[name] = raw[name]
		}
		out.Append(rec)
		s.rowIDs = append(s.rowIDs, int64(utils.ToInt(raw[oidColumn])))
	}

	return out, nil
}

// Commit implements reconcile.RecordStore. The insert set and the
// masked updates apply inside one transaction; on any failure the
// transaction rolls back and the table is left untouched.
func (s *DBStore) Commit(ctx context.Context, plan *reconcile.Plan) error {
	if len(plan.UpdateMask) != len(s.rowIDs) {
		return &reconcile.StoreCommitError{
			Store: s.tableName,
			Err:   fmt.Errorf("plan was built against a different table state (mask %d rows, loaded %d)", len(plan.UpdateMask), len(s.rowIDs)),
		}
	}

	if !s.db.Migrator().HasTable(s.tableName) {
		if err := s.createTable(); err != nil {
			return &reconcile.StoreCommitError{Store: s.tableName, Err: err}
		}
	}

	tx := s.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return &reconcile.StoreCommitError{Store: s.tableName, Err: tx.Error}
	}
	defer tx.Rollback()

	// New columns first, so both update and insert rows fit the table.
	specs := commitSpecs(plan.Merged, plan.InsertSet)
	if changes, err := database.EnsureColumns(tx, s.tableName, specs); err != nil {
		return &reconcile.StoreCommitError{Store: s.tableName, Err: err}
	} else if len(changes) > 0 {
		s.logger.Info("Extended persisted schema",
			zap.String("table", s.tableName),
			zap.Strings("changes", changes))
	}

	for i, masked := range plan.UpdateMask {
		if !masked {
			continue
		}
		values := map[string]any(plan.Merged.Rows[i])
		if err := tx.Table(s.tableName).Where(oidColumn+" = ?", s.rowIDs[i]).Updates(values).Error; err != nil {
			return &reconcile.StoreCommitError{Store: s.tableName, Err: err}
		}
	}

	if plan.InsertSet.Len() > 0 {
		inserts := make([]map[string]any, 0, plan.InsertSet.Len())
		for _, row := range plan.InsertSet.Rows {
			inserts = append(inserts, map[string]any(row))
		}
		if err := tx.Table(s.tableName).Create(inserts).Error; err != nil {
			return &reconcile.StoreCommitError{Store: s.tableName, Err: err}
		}
	}

	if err := tx.Commit().Error; err != nil {
		return &reconcile.StoreCommitError{Store: s.tableName, Err: err}
	}

	// Row identities are stale after a successful commit.
	s.rowIDs = nil
	return nil
}

// createTable creates the persisted table with only the surrogate row
// identifier; data columns follow through EnsureColumns.
func (s *DBStore) createTable() error {
	var ddl string
	if s.db.Dialector.Name() == "sqlite" {
		ddl = fmt.Sprintf("CREATE TABLE %s (%s INTEGER PRIMARY KEY AUTOINCREMENT)", s.tableName, oidColumn)
	} else {
		ddl = fmt.Sprintf("CREATE TABLE %s (%s BIGINT PRIMARY KEY AUTO_INCREMENT)", s.tableName, oidColumn)
	}
	if err := s.db.Exec(ddl).Error; err != nil {
		return fmt.Errorf("failed to create table %s: %w", s.tableName, err)
	}
	return nil
}
