package reconcile

import "fmt"

// SchemaError reports a table that is missing its key column. It is
// fatal to the current batch; the caller skips the unit and logs it.
type SchemaError struct {
	// Table names the side the column is missing from
	// ("persisted" or "incoming").
	Table string

	// Column is the missing column name.
	Column string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("key column %q missing from %s table", e.Column, e.Table)
}

// StoreCommitError reports a failed atomic commit. The store guarantees
// that nothing was applied; the caller may retry the whole batch or
// abort the unit, but must never apply partial results itself.
type StoreCommitError struct {
	// Store identifies the backing store (table name or object name).
	Store string

	// Err is the underlying failure.
	Err error
}

func (e *StoreCommitError) Error() string {
	return fmt.Sprintf("commit to %s failed: %v", e.Store, e.Err)
}

func (e *StoreCommitError) Unwrap() error {
	return e.Err
}
