package reconcile

import "geosync/core/table"

// MergeResult is the output of one column merge.
type MergeResult struct {
	// Merged is the persisted table with candidate values applied and
	// new columns joined in, one row per persisted row.
	Merged table.Table

	// PromotedIdx indexes candidate rows that matched no persisted
	// (key, occurrence) pair. They are not part of the merge and must
	// be routed to the insert path so no data is lost.
	PromotedIdx []int

	// SharedColumns are the candidate columns also present in the
	// persisted schema, key column excluded.
	SharedColumns []string

	// NewColumns are the candidate columns absent from the persisted
	// schema, key column excluded, in candidate schema order.
	NewColumns []string

	// KeyOnly is true when keys were unique on both sides.
	KeyOnly bool
}

type occKey struct {
	key string
	occ int
}

// Merge applies an update-candidate batch onto a copy of the persisted
// table.
//
// Candidate columns are partitioned into shared and new relative to the
// persisted schema; the key column is implicitly shared for join
// purposes and belongs to neither set.
//
// Shared-column values overwrite persisted values where the candidate's
// (key, occurrence index) matches a persisted row exactly. With unique
// keys on both sides every occurrence index is zero and this degrades
// to a plain merge by key. Null candidate values never overwrite
// persisted values. A candidate occurrence with no persisted
// counterpart is reported in PromotedIdx rather than silently dropped.
//
// New columns are joined on key alone: occurrence indices are not
// stable across independent extraction runs, so new attributes are
// treated as entity-level, not occurrence-level. Persisted rows without
// a candidate match stay null in the new columns.
//
// Both inputs are expected to be null-normalized; neither is mutated.
func Merge(persisted, candidates table.Table, keyColumn string) MergeResult {
	res := MergeResult{
		KeyOnly: !persisted.HasDuplicateKeys() && !candidates.HasDuplicateKeys(),
	}

	for _, col := range candidates.Columns {
		if col == keyColumn {
			continue
		}
		if persisted.HasColumn(col) {
			res.SharedColumns = append(res.SharedColumns, col)
		} else {
			res.NewColumns = append(res.NewColumns, col)
		}
	}

	res.Merged = persisted.Clone()
	res.Merged.KeyColumn = keyColumn
	for _, col := range res.NewColumns {
		res.Merged.AddColumn(col)
	}

	// Index persisted rows by (key, occurrence)
	persistedOcc := persisted.OccurrenceIndex()
	rowIdx := make(map[occKey]int, persisted.Len())
	for i, row := range persisted.Rows {
		rowIdx[occKey{key: table.KeyString(row[keyColumn]), occ: persistedOcc[i]}] = i
	}

	// Overwrite shared columns on exact (key, occurrence) matches
	candidateOcc := candidates.OccurrenceIndex()
	for i, cand := range candidates.Rows {
		key := table.KeyString(cand[keyColumn])
		target, ok := rowIdx[occKey{key: key, occ: candidateOcc[i]}]
		if !ok {
			res.PromotedIdx = append(res.PromotedIdx, i)
			continue
		}
		for _, col := range res.SharedColumns {
			if v := cand[col]; v != nil {
				res.Merged.Rows[target][col] = v
			}
		}
	}

	// Join new columns on key alone, first candidate per key wins
	if len(res.NewColumns) > 0 {
		firstByKey := make(map[string]table.Record, candidates.Len())
		for _, cand := range candidates.Rows {
			key := table.KeyString(cand[keyColumn])
			if _, ok := firstByKey[key]; !ok {
				firstByKey[key] = cand
			}
		}
		for _, row := range res.Merged.Rows {
			cand, ok := firstByKey[table.KeyString(row[keyColumn])]
			if !ok {
				continue
			}
			for _, col := range res.NewColumns {
				row[col] = cand[col]
			}
		}
	}

	return res
}
