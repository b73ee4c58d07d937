// Package store provides the persisted backends for reconciled traffic
// event tables. Two backend families exist behind the same contract: a
// relational store that applies plans transactionally, and a GeoJSON
// object store that replaces the persisted object whole. Both are
// atomic per commit.
package store
