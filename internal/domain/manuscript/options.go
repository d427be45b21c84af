package manuscript

import "time"

// ListOptions provides filtering options for listing manuscripts.
type ListOptions struct {
	Statuses     []Status
	Priorities   []Priority
	CodeContains string
	ReceivedFrom *time.Time
	ReceivedTo   *time.Time
	Limit        int
	Offset       int
}
