package manuscript

import (
	"context"

	"github.com/rpggio/folio/internal/domain/activity"
)

// Repository provides persistence for manuscripts.
type Repository interface {
	Create(ctx context.Context, userID string, m *Manuscript) error
	Get(ctx context.Context, userID, id string) (*Manuscript, error)
	List(ctx context.Context, userID string, opts ListOptions) ([]Manuscript, error)
	Update(ctx context.Context, userID string, m *Manuscript) error
	UpdateMany(ctx context.Context, userID string, ms []Manuscript) error
	Delete(ctx context.Context, userID, id string) error
	AddNote(ctx context.Context, manuscriptID string, note *Note) error
}

// ActivityRepository logs manuscript activities.
type ActivityRepository interface {
	Log(ctx context.Context, userID string, entry *activity.ActivityEntry) error
}
