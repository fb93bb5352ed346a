package reconciler

import (
	"fmt"
	"strings"
	"time"
)

// Result is the outcome of one import run.
type Result struct {
	// RunID identifies the run in logs.
	RunID string

	// Source names the input that was imported.
	Source string

	// DryRun reports whether store writes were suppressed.
	DryRun bool

	// Row counters.
	RowsRead int
	Skipped  int

	// Record counters. A row resolving to an existing key counts as an
	// update even when it changes nothing.
	Inserted int
	Updated  int

	// Owner mutation counters.
	ContactsMerged int // existing entry gained contact numbers
	OwnersNewDate  int // entry appended for a known owner's new registration date
	OwnersNew      int // entry appended for a brand-new owner

	// Timing.
	StartTime time.Time
	EndTime   time.Time
	Duration  time.Duration
}

// NewResult creates a result with the clock started.
func NewResult(runID, source string, dryRun bool) *Result {
	return &Result{
		RunID:     runID,
		Source:    source,
		DryRun:    dryRun,
		StartTime: time.Now(),
	}
}

// Finalize stamps the end time and duration.
func (r *Result) Finalize() {
	r.EndTime = time.Now()
	r.Duration = r.EndTime.Sub(r.StartTime)
}

// Summary renders the human-readable end-of-run report.
func (r *Result) Summary() string {
	var b strings.Builder

	title := "Import Summary"
	if r.DryRun {
		title = "Import Summary (dry run)"
	}
	fmt.Fprintf(&b, "=== %s ===\n", title)
	fmt.Fprintf(&b, "Source: %s\n", r.Source)
	fmt.Fprintf(&b, "Total rows read: %d\n", r.RowsRead)
	fmt.Fprintf(&b, "Rows skipped (missing identifiers): %d\n", r.Skipped)
	fmt.Fprintf(&b, "Records inserted: %d\n", r.Inserted)
	fmt.Fprintf(&b, "Records updated:  %d\n", r.Updated)
	fmt.Fprintf(&b, "Owners merged (contacts only): %d\n", r.ContactsMerged)
	fmt.Fprintf(&b, "Owners added (same owner, new date): %d\n", r.OwnersNewDate)
	fmt.Fprintf(&b, "Owners added (new owner): %d", r.OwnersNew)

	return b.String()
}
