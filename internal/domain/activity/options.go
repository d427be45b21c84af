package activity

import "time"

// ListActivityOptions provides filtering options for listing activity.
type ListActivityOptions struct {
	ManuscriptID *string
	CycleID      *string
	Types        []ActivityType
	Since        *time.Time
	Limit        int
	Offset       int
}
