// Package models defines the persistence and report models of the
// events feature.
package models

import "time"

// SyncRun is the persisted log row of one synchronization run.
type SyncRun struct {
	// ID is the run UUID.
	ID string `gorm:"primaryKey;size:36" json:"id"`

	// StartedAt is the run start timestamp.
	StartedAt time.Time `json:"started_at"`

	// FinishedAt is the run end timestamp.
	FinishedAt time.Time `json:"finished_at"`

	// Units is the number of units processed.
	Units int `json:"units"`

	// Failed is the number of units that failed.
	Failed int `json:"failed"`

	// Inserted is the total number of inserted rows.
	Inserted int `json:"inserted"`

	// Updated is the total number of updated rows.
	Updated int `json:"updated"`

	// Dropped is the number of records dropped for invalid coordinates.
	Dropped int `json:"dropped"`

	// Filtered is the number of records outside the region polygon.
	Filtered int `json:"filtered"`

	// Status summarizes the run (ok, partial, failed).
	Status string `gorm:"size:16" json:"status"`
}

// TableName returns the table name for GORM.
func (SyncRun) TableName() string {
	return "sync_runs"
}

// Run status values.
const (
	StatusOK      = "ok"
	StatusPartial = "partial"
	StatusFailed  = "failed"
)

// UnitReport describes the outcome of one source unit within a run.
type UnitReport struct {
	// Unit is the unit name.
	Unit string `json:"unit"`

	// Table is the persisted table the unit targets.
	Table string `json:"table"`

	// Extracted is the number of records read from the source.
	Extracted int `json:"extracted"`

	// Corrected is the number of records fixed by a coordinate swap.
	Corrected int `json:"corrected"`

	// Dropped is the number of records still invalid after one swap.
	Dropped int `json:"dropped"`

	// Filtered is the number of records outside the region polygon.
	Filtered int `json:"filtered"`

	// Inserted is the insert set size committed for this unit.
	Inserted int `json:"inserted"`

	// Updated is the update set size committed for this unit.
	Updated int `json:"updated"`

	// Promoted counts update candidates rerouted to the insert set.
	Promoted int `json:"promoted"`

	// NewColumns lists columns added to the persisted schema.
	NewColumns []string `json:"new_columns,omitempty"`

	// Error is the failure description, empty on success.
	Error string `json:"error,omitempty"`

	// Duration is the unit processing time.
	Duration time.Duration `json:"duration"`
}

// Failed reports whether the unit failed.
func (r UnitReport) Failed() bool {
	return r.Error != ""
}

// RunReport aggregates the unit reports of one run.
type RunReport struct {
	// ID is the run UUID.
	ID string `json:"id"`

	// StartedAt is the run start timestamp.
	StartedAt time.Time `json:"started_at"`

	// FinishedAt is the run end timestamp.
	FinishedAt time.Time `json:"finished_at"`

	// DryRun marks plan-only runs that committed nothing.
	DryRun bool `json:"dry_run"`

	// Units holds the per-unit outcomes in processing order.
	Units []UnitReport `json:"units"`
}

// Status derives the overall run status from the unit outcomes.
func (r RunReport) Status() string {
	failed := 0
	for _, u := range r.Units {
		if u.Failed() {
			failed++
		}
	}
	switch {
	case failed == 0:
		return StatusOK
	case failed == len(r.Units):
		return StatusFailed
	default:
		return StatusPartial
	}
}

// Totals sums the unit counters.
func (r RunReport) Totals() (inserted, updated, dropped, filtered, failed int) {
	for _, u := range r.Units {
		inserted += u.Inserted
		updated += u.Updated
		dropped += u.Dropped
		filtered += u.Filtered
		if u.Failed() {
			failed++
		}
	}
	return inserted, updated, dropped, filtered, failed
}
