// Package importer runs the three-stage migration pipeline that moves the
// legacy export into the live warranty database: users first, then vehicles,
// then warranty applications, each stage resolving ownership through rows
// written by the one before it. Stages return explicit result values; the
// pipeline merges them, so no mutable statistics state is shared across
// runs.
package importer

import (
	"fmt"
	"time"
)

// Mode selects between the initial import and the reconciliation pass.
type Mode int

const (
	// ModeFirstPass imports everything not yet present. Users dedup by
	// email or tax id, catching people who registered twice on the legacy
	// platform under different emails.
	ModeFirstPass Mode = iota
	// ModeFixUp is the idempotent second pass: users dedup strictly by
	// email, and rows matched by natural key that lack a legacy id get it
	// backfilled instead of being skipped silently.
	ModeFixUp
)

func (m Mode) String() string {
	if m == ModeFixUp {
		return "fixup"
	}
	return "import"
}

// StageCount holds the per-entity counters of one run.
type StageCount struct {
	Imported   int `json:"imported"`
	Skipped    int `json:"skipped"`
	Backfilled int `json:"backfilled"`
}

// StageResult is what a single stage hands back to the pipeline. Errors
// holds one entry per row-level failure, formatted
// "<entity> <legacy-id-or-context>: <reason>". Dedup skips are counted but
// are not failures and produce no entry.
type StageResult struct {
	StageCount
	Errors []string
}

// fail records a row-level failure: the row is skipped and the reason kept.
func (r *StageResult) fail(entity, rowCtx, reason string) {
	r.Skipped++
	r.Errors = append(r.Errors, fmt.Sprintf("%s %s: %s", entity, rowCtx, reason))
}

// Statistics is the merged outcome of a full run, returned to the caller.
// On a fatal store error it still carries everything collected up to the
// point of failure.
type Statistics struct {
	RunID      string     `json:"run_id"`
	Mode       string     `json:"mode"`
	Users      StageCount `json:"users"`
	Vehicles   StageCount `json:"vehicles"`
	Warranties StageCount `json:"warranties"`
	Errors     []string   `json:"errors,omitempty"`
	StartedAt  time.Time  `json:"started_at"`
	FinishedAt time.Time  `json:"finished_at"`
}

func (s *Statistics) merge(entity *StageCount, res StageResult) {
	*entity = res.StageCount
	s.Errors = append(s.Errors, res.Errors...)
}

// TotalImported sums the imported counters across entities.
func (s *Statistics) TotalImported() int {
	return s.Users.Imported + s.Vehicles.Imported + s.Warranties.Imported
}
