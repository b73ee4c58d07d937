// Package server holds configuration for the HTTP surface and the
// persisted-store backend selection.
//
// The Backend field selects one of two parallel store families at
// construction time: "database" (relational tables via GORM) or "file"
// (GeoJSON objects in storage). The factory in feature/events/store
// dispatches on this value.
package server
