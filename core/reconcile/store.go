package reconcile

import (
	"context"

	"geosync/core/table"
)

// RecordStore is the persistence boundary of the reconciliation core.
// The engine only reads committed state through LoadAll and hands the
// resulting plan back through Commit; it never touches store state
// directly.
//
// Commit must be atomic: the insert set and the update set (with its
// mask) of one plan apply as a single all-or-nothing transaction, so a
// partial crash can never leave some updated rows and some un-updated
// rows from the same batch. Implementations that cannot apply the plan
// return a *StoreCommitError and leave the store unchanged.
type RecordStore interface {
	// LoadAll returns the current committed state keyed on the given
	// column, or an empty table if nothing has been committed yet.
	LoadAll(ctx context.Context, keyColumn string) (table.Table, error)

	// Commit applies the plan atomically.
	Commit(ctx context.Context, plan *Plan) error
}
