package reconcile

import "geosync/core/table"

// Reconcile classifies an incoming batch against the persisted table
// and produces the full change plan.
//
// The algorithm is a fixed pipeline: classify by key membership, merge
// update candidates through the column merger, reclassify candidates
// whose occurrence had no persisted counterpart, emit. There are no
// retries inside the engine; retries, if any, belong to the caller
// around the commit step.
//
// Correctness guarantee: every incoming row ends in exactly one of
// InsertSet/UpdateSet, and the update mask is aligned positionally with
// the persisted table.
func Reconcile(persisted, incoming table.Table, keyColumn string) (*Plan, error) {
	if !incoming.HasColumn(keyColumn) {
		return nil, &SchemaError{Table: "incoming", Column: keyColumn}
	}
	// A store with no committed state yet presents as a table with no
	// schema at all; only a non-empty schema is checked for the key.
	if len(persisted.Columns) > 0 && !persisted.HasColumn(keyColumn) {
		return nil, &SchemaError{Table: "persisted", Column: keyColumn}
	}

	persisted = table.Normalize(persisted)
	persisted.KeyColumn = keyColumn
	incoming = table.Normalize(incoming)
	incoming.KeyColumn = keyColumn

	// Classify: a candidate row updates iff its key exists in the
	// persisted table.
	persistedKeys := persisted.KeySet()
	candidates := table.New(keyColumn, incoming.Columns...)
	inserts := table.New(keyColumn, incoming.Columns...)
	for _, row := range incoming.Rows {
		if _, ok := persistedKeys[incoming.Key(row)]; ok {
			candidates.Append(row)
		} else {
			inserts.Append(row)
		}
	}

	// Mask over persisted rows, aligned positionally.
	candidateKeys := candidates.KeySet()
	mask := make([]bool, persisted.Len())
	masked := 0
	for i, row := range persisted.Rows {
		if _, ok := candidateKeys[persisted.Key(row)]; ok {
			mask[i] = true
			masked++
		}
	}

	merge := Merge(persisted, candidates, keyColumn)

	// Reclassify: candidates with no matching persisted occurrence move
	// to the insert path.
	if len(merge.PromotedIdx) > 0 {
		promoted := make(map[int]struct{}, len(merge.PromotedIdx))
		for _, i := range merge.PromotedIdx {
			promoted[i] = struct{}{}
		}
		kept := table.New(keyColumn, candidates.Columns...)
		for i, row := range candidates.Rows {
			if _, ok := promoted[i]; ok {
				inserts.Append(row)
			} else {
				kept.Append(row)
			}
		}
		candidates = kept
	}

	// Align insert rows to the merged schema; columns the batch never
	// carried stay null. The key column is not part of the shared/new
	// partition, so against an empty store the merged schema would not
	// carry it; it is always restored here.
	schema := merge.Merged.Columns
	if len(schema) == 0 {
		schema = incoming.Columns
	}
	hasKey := false
	for _, col := range schema {
		if col == keyColumn {
			hasKey = true
			break
		}
	}
	if !hasKey {
		schema = append([]string{keyColumn}, schema...)
	}
	insertSet := table.New(keyColumn, schema...)
	for _, row := range inserts.Rows {
		aligned := make(table.Record, len(schema))
		for _, col := range schema {
			aligned[col] = row[col]
		}
		insertSet.Append(aligned)
	}

	return &Plan{
		KeyColumn:  keyColumn,
		InsertSet:  insertSet,
		UpdateSet:  candidates,
		Merged:     merge.Merged,
		UpdateMask: mask,
		Summary: Summary{
			Incoming:      incoming.Len(),
			Inserts:       insertSet.Len(),
			Updates:       candidates.Len(),
			Promoted:      len(merge.PromotedIdx),
			MaskedRows:    masked,
			SharedColumns: merge.SharedColumns,
			NewColumns:    merge.NewColumns,
			KeyOnly:       merge.KeyOnly,
		},
	}, nil
}
