package settings

import (
	"time"

	"github.com/rpggio/folio/internal/domain/schedule"
)

// Settings holds a user's productivity configuration
type Settings struct {
	UserID    string            `json:"user_id"`
	Target    int               `json:"target"`
	Schedule  schedule.Schedule `json:"schedule"`
	UpdatedAt time.Time         `json:"updated_at"`
}

// RateProfile is the per-manuscript pay rate for a cycle
type RateProfile struct {
	USD float64 `json:"usd"`
	PHP float64 `json:"php"`
}

// Defaults apply to users that have never saved settings.
type Defaults struct {
	Target int
}
