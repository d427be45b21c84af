// Package billing reconciles tracked cycle work against an external list of
// billed manuscript codes.
package billing

import (
	"github.com/rpggio/folio/internal/domain/cycle"
	"github.com/rpggio/folio/internal/domain/manuscript"
	"github.com/rpggio/folio/internal/domain/settings"
)

// ExtraKind classifies a pasted code with no match in the cycle.
type ExtraKind string

const (
	// ExtraOtherCycle means the code is tracked but belongs to another cycle
	// or has not been completed yet.
	ExtraOtherCycle ExtraKind = "OTHER_CYCLE"
	// ExtraUnknown means the code is not tracked at all.
	ExtraUnknown ExtraKind = "UNKNOWN"
)

// Extra is a pasted code that did not match any cycle file.
type Extra struct {
	// Code is the pasted text in its original casing.
	Code string
	Kind ExtraKind
	// ManuscriptID and Status are set for OTHER_CYCLE.
	ManuscriptID string
	Status       manuscript.Status
	// CycleID is the cycle the record currently belongs to. It is empty when
	// the record has no resolvable cycle.
	CycleID string
}

// Result partitions the cycle files and the pasted codes.
type Result struct {
	Matched []manuscript.Manuscript
	Missing []manuscript.Manuscript
	Extra   []Extra
}

// Summary holds derived counts and earnings for a Result.
type Summary struct {
	Tracked    int
	Matched    int
	Missing    int
	OtherCycle int
	Unknown    int
	// Billed counts matched records already in BILLED. Unbilled is the rest
	// of the tracked files.
	Billed        int
	Unbilled      int
	PercentBilled float64
	Rate          settings.RateProfile
	ConfirmedUSD  float64
	ConfirmedPHP  float64
	ProjectedUSD  float64
	ProjectedPHP  float64
}

// Report is a reconciliation of one cycle.
type Report struct {
	Cycle   cycle.Cycle
	Result  Result
	Summary Summary
}

// CycleCount describes a cycle that has tracked files.
type CycleCount struct {
	Cycle  cycle.Cycle
	Files  int
	Worked int
	Billed int
}
