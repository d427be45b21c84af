package manuscript

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rpggio/folio/internal/domain/activity"
	"github.com/rpggio/folio/internal/repository"
)

// Service handles manuscript business logic.
type Service struct {
	manuscripts Repository
	activities  ActivityRepository
	logger      *slog.Logger
	now         func() time.Time
}

// NewService creates a new manuscript service.
func NewService(manuscripts Repository, activities ActivityRepository, logger *slog.Logger) *Service {
	return &Service{
		manuscripts: manuscripts,
		activities:  activities,
		logger:      logger,
		now:         time.Now,
	}
}

// SetClock replaces the clock used to stamp dates and notes.
func (s *Service) SetClock(now func() time.Time) {
	if now != nil {
		s.now = now
	}
}

// CreateRequest describes a manuscript creation request.
type CreateRequest struct {
	Code         string
	Priority     Priority
	DateReceived time.Time
	DueDate      *time.Time
	Note         string
}

// UpdateRequest describes a partial manuscript update.
type UpdateRequest struct {
	ID          string
	Status      *Status
	Priority    *Priority
	DueDate     *time.Time
	DateEmailed *time.Time
	Note        *string
}

// Create registers a new manuscript in UNTOUCHED.
func (s *Service) Create(ctx context.Context, userID string, req CreateRequest) (*Manuscript, error) {
	if err := ValidateCreateInput(req); err != nil {
		return nil, err
	}

	priority := req.Priority
	if priority == "" {
		priority = PriorityNormal
	}

	now := s.now()
	m := &Manuscript{
		ID:           uuid.NewString(),
		UserID:       userID,
		Code:         strings.TrimSpace(req.Code),
		Status:       StatusUntouched,
		Priority:     priority,
		DateReceived: req.DateReceived,
		DueDate:      req.DueDate,
		DateUpdated:  &now,
	}
	if text := strings.TrimSpace(req.Note); text != "" {
		m.Notes = []Note{{ID: uuid.NewString(), Text: text, CreatedAt: now}}
	}

	if err := s.manuscripts.Create(ctx, userID, m); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, ErrDuplicateCode
		}
		return nil, fmt.Errorf("creating manuscript: %w", err)
	}

	s.logActivity(ctx, userID, &m.ID, activity.TypeManuscriptCreated, fmt.Sprintf("created manuscript %s", m.Code))
	return m, nil
}

// Get returns a manuscript with its notes.
func (s *Service) Get(ctx context.Context, userID, id string) (*Manuscript, error) {
	m, err := s.manuscripts.Get(ctx, userID, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrManuscriptNotFound
		}
		return nil, fmt.Errorf("getting manuscript: %w", err)
	}
	return m, nil
}

// List returns manuscripts matching opts. Notes are not loaded.
func (s *Service) List(ctx context.Context, userID string, opts ListOptions) ([]Manuscript, error) {
	for _, st := range opts.Statuses {
		if !st.Valid() {
			return nil, ErrInvalidStatus
		}
	}
	list, err := s.manuscripts.List(ctx, userID, opts)
	if err != nil {
		return nil, fmt.Errorf("listing manuscripts: %w", err)
	}
	return list, nil
}

// Update applies a partial update. A status change stamps its dates and
// appends the auto-remark for the transition.
func (s *Service) Update(ctx context.Context, userID string, req UpdateRequest) (*Manuscript, error) {
	if err := ValidateUpdateInput(req); err != nil {
		return nil, err
	}

	current, err := s.Get(ctx, userID, req.ID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	updated := *current
	updated.Notes = append([]Note(nil), current.Notes...)

	statusChanged := false
	if req.Status != nil {
		statusChanged = ApplyStatus(&updated, *req.Status, now)
	}
	if req.Priority != nil {
		updated.Priority = *req.Priority
	}
	if req.DueDate != nil {
		updated.DueDate = req.DueDate
	}
	if req.DateEmailed != nil {
		updated.DateEmailed = req.DateEmailed
	}
	if req.Note != nil {
		if text := strings.TrimSpace(*req.Note); text != "" {
			updated.Notes = append([]Note{{ID: uuid.NewString(), Text: text, CreatedAt: now}}, updated.Notes...)
		}
	}
	updated.DateUpdated = &now

	if err := s.manuscripts.Update(ctx, userID, &updated); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrManuscriptNotFound
		}
		return nil, fmt.Errorf("updating manuscript: %w", err)
	}

	if statusChanged {
		s.logActivity(ctx, userID, &updated.ID, activity.TypeStatusChanged,
			fmt.Sprintf("%s moved from %s to %s", updated.Code, current.Status, updated.Status))
	} else {
		s.logActivity(ctx, userID, &updated.ID, activity.TypeManuscriptUpdated, fmt.Sprintf("updated manuscript %s", updated.Code))
	}

	return &updated, nil
}

// AddNote prepends a free-text remark.
func (s *Service) AddNote(ctx context.Context, userID, id, text string) (*Note, error) {
	text = strings.TrimSpace(text)
	if id == "" || text == "" {
		return nil, ErrInvalidInput
	}
	if _, err := s.Get(ctx, userID, id); err != nil {
		return nil, err
	}

	note := &Note{ID: uuid.NewString(), Text: text, CreatedAt: s.now()}
	if err := s.manuscripts.AddNote(ctx, id, note); err != nil {
		return nil, fmt.Errorf("adding note: %w", err)
	}

	s.logActivity(ctx, userID, &id, activity.TypeNoteAdded, "added note")
	return note, nil
}

// BulkUpdateStatus moves every listed manuscript to status in a single
// repository write. Either all records change or none do. Records already
// in status are returned unchanged and not rewritten.
func (s *Service) BulkUpdateStatus(ctx context.Context, userID string, ids []string, status Status, at time.Time) ([]Manuscript, error) {
	if !status.Valid() {
		return nil, ErrInvalidStatus
	}
	if at.IsZero() {
		at = s.now()
	}

	changed, err := s.bulkApply(ctx, userID, ids, func(m *Manuscript) bool {
		return ApplyStatus(m, status, at)
	})
	if err != nil || len(changed) == 0 {
		return changed, err
	}

	s.logActivity(ctx, userID, nil, activity.TypeBulkStatusChanged,
		fmt.Sprintf("moved %d manuscripts to %s", len(changed), status))
	return changed, nil
}

// BillIntoCycle marks the listed manuscripts BILLED and pins them to cycleID
// so a billed date stamped after the cycle closed does not move them.
func (s *Service) BillIntoCycle(ctx context.Context, userID string, ids []string, cycleID string, at time.Time) ([]Manuscript, error) {
	if at.IsZero() {
		at = s.now()
	}

	return s.bulkApply(ctx, userID, ids, func(m *Manuscript) bool {
		if !ApplyStatus(m, StatusBilled, at) {
			return false
		}
		m.ClaimedCycleID = cycleID
		return true
	})
}

func (s *Service) bulkApply(ctx context.Context, userID string, ids []string, apply func(m *Manuscript) bool) ([]Manuscript, error) {
	if len(ids) == 0 {
		return []Manuscript{}, nil
	}

	changed := make([]Manuscript, 0, len(ids))
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true

		m, err := s.Get(ctx, userID, id)
		if err != nil {
			return nil, err
		}
		if apply(m) {
			changed = append(changed, *m)
		}
	}
	if len(changed) == 0 {
		return changed, nil
	}

	if err := s.manuscripts.UpdateMany(ctx, userID, changed); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrManuscriptNotFound
		}
		return nil, fmt.Errorf("bulk updating manuscripts: %w", err)
	}
	return changed, nil
}

// Claim assigns the manuscript to cycleID for billing purposes.
func (s *Service) Claim(ctx context.Context, userID, id, cycleID string) (*Manuscript, error) {
	m, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	now := s.now()
	m.ClaimedCycleID = cycleID
	m.DateUpdated = &now
	if err := s.manuscripts.Update(ctx, userID, m); err != nil {
		return nil, fmt.Errorf("claiming manuscript: %w", err)
	}

	s.recordActivity(ctx, userID, &activity.ActivityEntry{
		ManuscriptID: &m.ID,
		CycleID:      &cycleID,
		ActivityType: activity.TypeCycleClaimed,
		Summary:      fmt.Sprintf("claimed %s into %s", m.Code, cycleID),
	})
	return m, nil
}

// Delete removes a manuscript.
func (s *Service) Delete(ctx context.Context, userID, id string) error {
	m, err := s.Get(ctx, userID, id)
	if err != nil {
		return err
	}
	if err := s.manuscripts.Delete(ctx, userID, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrManuscriptNotFound
		}
		return fmt.Errorf("deleting manuscript: %w", err)
	}

	s.logActivity(ctx, userID, nil, activity.TypeManuscriptDeleted, fmt.Sprintf("deleted manuscript %s", m.Code))
	return nil
}

func (s *Service) logActivity(ctx context.Context, userID string, manuscriptID *string, typ activity.ActivityType, summary string) {
	s.recordActivity(ctx, userID, &activity.ActivityEntry{
		ManuscriptID: manuscriptID,
		ActivityType: typ,
		Summary:      summary,
	})
}

// recordActivity writes entry to the activity log. Failures are logged and
// never fail the calling operation.
func (s *Service) recordActivity(ctx context.Context, userID string, entry *activity.ActivityEntry) {
	if s.activities == nil {
		return
	}
	if err := s.activities.Log(ctx, userID, entry); err != nil && s.logger != nil {
		s.logger.Warn("failed to log activity", "type", entry.ActivityType, "error", err)
	}
}
