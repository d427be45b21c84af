package manuscript

import (
	"time"

	"github.com/google/uuid"
)

type statusPair struct {
	from Status
	to   Status
}

// anyStatus matches every source status.
const anyStatus Status = "*"

var remarks = map[statusPair]string{
	{StatusUntouched, StatusWorked}:  "Marked as worked",
	{StatusWorked, StatusBilled}:     "Billed",
	{StatusUntouched, StatusBilled}:  "Worked and billed",
	{StatusBilled, StatusWorked}:     "Billing reverted",
	{StatusPendingJM, StatusWorked}:  "JM query resolved, marked as worked",
	{StatusPendingTL, StatusWorked}:  "TL query resolved, marked as worked",
	{StatusPendingCED, StatusWorked}: "CED query resolved, marked as worked",
	{anyStatus, StatusPendingJM}:     "Query raised to JM",
	{anyStatus, StatusPendingTL}:     "Query raised to TL",
	{anyStatus, StatusPendingCED}:    "Query raised to CED",
	{anyStatus, StatusUntouched}:     "Reset to untouched",
}

// AutoRemark returns the note synthesized for a status transition. Exact
// pairs win over wildcard pairs; unchanged statuses never produce a remark.
func AutoRemark(from, to Status) (string, bool) {
	if from == to {
		return "", false
	}
	if text, ok := remarks[statusPair{from, to}]; ok {
		return text, true
	}
	if text, ok := remarks[statusPair{anyStatus, to}]; ok {
		return text, true
	}
	return "", false
}

// ApplyStatus moves m to status at time at, stamping the dates that the
// transition implies and prepending the auto-remark. Leaving BILLED clears
// the billed date. It returns false when
// the status is unchanged.
func ApplyStatus(m *Manuscript, to Status, at time.Time) bool {
	from := m.Status
	if from == to {
		return false
	}

	m.Status = to
	m.DateStatusChanged = timePtr(at)
	m.DateUpdated = timePtr(at)

	if to.Done() && m.CompletedDate == nil {
		m.CompletedDate = timePtr(at)
	}
	switch {
	case to == StatusBilled && m.BilledDate == nil:
		m.BilledDate = timePtr(at)
	case from == StatusBilled:
		// Reverted billing: a later re-bill gets a fresh date.
		m.BilledDate = nil
	}
	if to.Pending() {
		m.DateQueried = timePtr(at)
	}

	if text, ok := AutoRemark(from, to); ok {
		m.Notes = append([]Note{{ID: uuid.NewString(), Text: text, CreatedAt: at}}, m.Notes...)
	}
	return true
}

func timePtr(t time.Time) *time.Time {
	return &t
}
