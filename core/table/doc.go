// Package table defines the in-memory tabular data model shared by the
// extraction, geofiltering and reconciliation layers.
//
// A Table is a fully materialized, ordered batch of Records with a
// designated primary-key column. Keys are not required to be unique;
// repeated keys are disambiguated by their occurrence index, which is
// recomputed per reconciliation pass and never persisted.
package table
