// Package reconcile implements the incremental reconciliation engine
// that sits between freshly extracted record batches and persisted
// store state.
//
// Reconcile classifies an incoming batch against a persisted table into
// an insert set and an update set, produces a boolean update mask
// aligned with the persisted rows, and computes the merged replacement
// table through the column merger. Repeated runs over the same input
// converge: the second run's insert set is empty and its updates are
// no-ops.
//
// # Column merging
//
// Candidate columns are split into shared and new relative to the
// persisted schema. Shared values overwrite by key, or by
// (key, occurrence index) when key values repeat: multiple physical
// rows may describe the same logical entity, e.g. repeated sub-events
// of one accident. A candidate occurrence without a persisted
// counterpart is promoted to the insert set rather than dropped. New
// columns join on key alone and extend the persisted schema.
//
// # Boundaries
//
// The engine is single-threaded, synchronous and batch-oriented: it
// operates on fully materialized in-memory tables and performs no I/O.
// Loading and committing are delegated to a RecordStore, whose Commit
// is required to be atomic. Failures surface as typed errors
// (SchemaError, StoreCommitError); the engine performs no recovery.
package reconcile
