// Package events implements the traffic event synchronization
// workflow. Each configured source unit is extracted from storage,
// spatial units pass through coordinate validation and polygon
// filtering, and the resulting batch reconciles into its persisted
// table. Units are isolated: one failing unit leaves the rest of the
// run intact.
package events
