package reconcile

import "geosync/core/table"

// Plan is the output of one reconciliation call: the complete,
// side-effect-free description of how a persisted table must change to
// absorb an incoming batch. The core never mutates store state itself;
// it only produces the plan that the caller commits.
type Plan struct {
	// KeyColumn is the primary-key column the plan was built on.
	KeyColumn string `json:"key_column"`

	// InsertSet holds the incoming rows with no persisted counterpart,
	// plus any update candidates promoted because no matching persisted
	// occurrence existed. Rows are aligned to the merged schema.
	InsertSet table.Table `json:"insert_set"`

	// UpdateSet holds the incoming rows classified as updates, after
	// unmatched occurrences were moved to InsertSet. Every incoming row
	// ends in exactly one of InsertSet/UpdateSet.
	UpdateSet table.Table `json:"update_set"`

	// Merged is the full replacement for the persisted table: one row
	// per persisted row, with shared-column values overwritten from the
	// update set and new columns joined in. Rows not flagged by
	// UpdateMask are carried through unchanged.
	Merged table.Table `json:"merged"`

	// UpdateMask has one entry per persisted row, true iff that row's
	// key value appears among the update candidates.
	UpdateMask []bool `json:"update_mask"`

	// Summary provides aggregate counts for reporting.
	Summary Summary `json:"summary"`
}

// Summary provides aggregate statistics for a reconciliation plan.
type Summary struct {
	// Incoming is the size of the incoming batch.
	Incoming int `json:"incoming"`

	// Inserts is the size of the insert set (promotions included).
	Inserts int `json:"inserts"`

	// Updates is the size of the update set.
	Updates int `json:"updates"`

	// Promoted counts update candidates moved to the insert set
	// because no persisted occurrence matched.
	Promoted int `json:"promoted"`

	// MaskedRows counts persisted rows flagged for update.
	MaskedRows int `json:"masked_rows"`

	// SharedColumns lists the columns present on both sides
	// (key column excluded).
	SharedColumns []string `json:"shared_columns"`

	// NewColumns lists the columns only the incoming batch carries.
	NewColumns []string `json:"new_columns"`

	// KeyOnly is true when key values were unique on both sides and
	// the occurrence index was not needed.
	KeyOnly bool `json:"key_only"`
}

// IsNoop reports whether committing the plan would change nothing.
func (p *Plan) IsNoop() bool {
	return p.InsertSet.IsEmpty() && p.UpdateSet.IsEmpty() && len(p.Summary.NewColumns) == 0
}
