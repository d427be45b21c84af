package activity

import "time"

// ActivityType represents the type of activity event
type ActivityType string

const (
	TypeManuscriptCreated ActivityType = "manuscript_created"
	TypeManuscriptUpdated ActivityType = "manuscript_updated"
	TypeManuscriptDeleted ActivityType = "manuscript_deleted"
	TypeStatusChanged     ActivityType = "status_changed"
	TypeNoteAdded         ActivityType = "note_added"
	TypeBulkStatusChanged ActivityType = "bulk_status_changed"
	TypeCycleBilled       ActivityType = "cycle_billed"
	TypeCycleClaimed      ActivityType = "cycle_claimed"
	TypeSettingsUpdated   ActivityType = "settings_updated"
)

// ActivityEntry represents an event in the activity log
type ActivityEntry struct {
	ID           int64        `json:"id"`
	UserID       string       `json:"user_id"`
	ManuscriptID *string      `json:"manuscript_id,omitempty"`
	CycleID      *string      `json:"cycle_id,omitempty"`
	ActivityType ActivityType `json:"type"`
	Summary      string       `json:"summary"`
	Details      string       `json:"details,omitempty"` // JSON string
	CreatedAt    time.Time    `json:"created_at"`
}
