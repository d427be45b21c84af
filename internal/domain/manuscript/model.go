package manuscript

import "time"

// Status represents the workflow state of a manuscript
type Status string

const (
	StatusUntouched  Status = "UNTOUCHED"
	StatusWorked     Status = "WORKED"
	StatusBilled     Status = "BILLED"
	StatusPendingJM  Status = "PENDING_JM"
	StatusPendingTL  Status = "PENDING_TL"
	StatusPendingCED Status = "PENDING_CED"
)

// Statuses lists every valid status.
var Statuses = []Status{StatusUntouched, StatusWorked, StatusBilled, StatusPendingJM, StatusPendingTL, StatusPendingCED}

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	for _, known := range Statuses {
		if s == known {
			return true
		}
	}
	return false
}

// Done reports whether s counts as completed work.
func (s Status) Done() bool {
	return s == StatusWorked || s == StatusBilled
}

// Pending reports whether s is a query/blocked state.
func (s Status) Pending() bool {
	return s == StatusPendingJM || s == StatusPendingTL || s == StatusPendingCED
}

// Priority affects coaching emphasis only
type Priority string

const (
	PriorityNormal Priority = "Normal"
	PriorityHigh   Priority = "High"
	PriorityUrgent Priority = "Urgent"
)

// Valid reports whether p is a known priority.
func (p Priority) Valid() bool {
	return p == PriorityNormal || p == PriorityHigh || p == PriorityUrgent
}

// Note is a timestamped free-text remark
type Note struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

// Manuscript is a unit of tracked typesetting work
type Manuscript struct {
	ID                string     `json:"id"`
	UserID            string     `json:"user_id"`
	Code              string     `json:"code"`
	Status            Status     `json:"status"`
	Priority          Priority   `json:"priority"`
	DateReceived      time.Time  `json:"date_received"`
	DueDate           *time.Time `json:"due_date,omitempty"`
	DateStatusChanged *time.Time `json:"date_status_changed,omitempty"`
	CompletedDate     *time.Time `json:"completed_date,omitempty"`
	BilledDate        *time.Time `json:"billed_date,omitempty"`
	DateQueried       *time.Time `json:"date_queried,omitempty"`
	DateEmailed       *time.Time `json:"date_emailed,omitempty"`
	DateUpdated       *time.Time `json:"date_updated,omitempty"`
	ClaimedCycleID    string     `json:"claimed_cycle_id,omitempty"`
	Notes             []Note     `json:"notes,omitempty"`
}

// CompletionDate returns the effective completion time using the precedence
// completedDate, dateStatusChanged, dateUpdated, dateReceived. It reports
// false only when every candidate is unset.
func (m Manuscript) CompletionDate() (time.Time, bool) {
	for _, t := range []*time.Time{m.CompletedDate, m.DateStatusChanged, m.DateUpdated} {
		if t != nil && !t.IsZero() {
			return *t, true
		}
	}
	if !m.DateReceived.IsZero() {
		return m.DateReceived, true
	}
	return time.Time{}, false
}
