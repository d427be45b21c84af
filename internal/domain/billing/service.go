package billing

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/rpggio/folio/internal/domain/activity"
	"github.com/rpggio/folio/internal/domain/cycle"
	"github.com/rpggio/folio/internal/domain/manuscript"
	"github.com/rpggio/folio/internal/domain/settings"
)

// ManuscriptStore is the manuscript surface billing needs.
type ManuscriptStore interface {
	Get(ctx context.Context, userID, id string) (*manuscript.Manuscript, error)
	List(ctx context.Context, userID string, opts manuscript.ListOptions) ([]manuscript.Manuscript, error)
	BillIntoCycle(ctx context.Context, userID string, ids []string, cycleID string, at time.Time) ([]manuscript.Manuscript, error)
	Claim(ctx context.Context, userID, id, cycleID string) (*manuscript.Manuscript, error)
}

// RateProvider looks up per-cycle rates.
type RateProvider interface {
	GetRate(ctx context.Context, userID, cycleID string) (settings.RateProfile, error)
}

// ActivityRepository records billing events.
type ActivityRepository interface {
	Log(ctx context.Context, userID string, entry *activity.ActivityEntry) error
}

// Recorder receives reconciliation metrics. It may be nil.
type Recorder interface {
	ReconciliationItems(kind string, n int)
	ManuscriptsBilled(n int)
}

// Service runs reconciliations against stored manuscripts.
type Service struct {
	manuscripts ManuscriptStore
	rates       RateProvider
	activities  ActivityRepository
	recorder    Recorder
	loc         *time.Location
	logger      *slog.Logger
}

// NewService creates a new billing service. A nil loc means time.Local.
func NewService(manuscripts ManuscriptStore, rates RateProvider, activities ActivityRepository, recorder Recorder, loc *time.Location, logger *slog.Logger) *Service {
	if loc == nil {
		loc = time.Local
	}
	return &Service{
		manuscripts: manuscripts,
		rates:       rates,
		activities:  activities,
		recorder:    recorder,
		loc:         loc,
		logger:      logger,
	}
}

// FinishResult is a completed reconciliation.
type FinishResult struct {
	Report Report
	Billed []manuscript.Manuscript
}

// Preview reconciles pasted against cycleID without changing anything.
func (s *Service) Preview(ctx context.Context, userID, cycleID, pasted string) (*Report, error) {
	c, err := s.parseCycle(cycleID)
	if err != nil {
		return nil, err
	}

	all, err := s.manuscripts.List(ctx, userID, manuscript.ListOptions{})
	if err != nil {
		return nil, fmt.Errorf("loading manuscripts: %w", err)
	}

	rate := settings.RateProfile{}
	if s.rates != nil {
		rate, err = s.rates.GetRate(ctx, userID, c.ID)
		if err != nil {
			return nil, fmt.Errorf("loading rate: %w", err)
		}
	}

	files := CycleFiles(all, c, s.loc)
	res := Reconcile(files, all, ParsePasted(pasted), s.loc)
	return &Report{Cycle: c, Result: res, Summary: Summarize(res, rate)}, nil
}

// Finish reconciles and bills the matched WORKED records. Missing and extra
// records are never touched.
func (s *Service) Finish(ctx context.Context, userID, cycleID, pasted string, at time.Time) (*FinishResult, error) {
	report, err := s.Preview(ctx, userID, cycleID, pasted)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(report.Result.Matched))
	for _, m := range report.Result.Matched {
		if m.Status == manuscript.StatusWorked {
			ids = append(ids, m.ID)
		}
	}

	billed, err := s.manuscripts.BillIntoCycle(ctx, userID, ids, report.Cycle.ID, at)
	if err != nil {
		return nil, fmt.Errorf("billing cycle %s: %w", report.Cycle.ID, err)
	}

	if s.recorder != nil {
		s.recorder.ReconciliationItems("matched", report.Summary.Matched)
		s.recorder.ReconciliationItems("missing", report.Summary.Missing)
		s.recorder.ReconciliationItems("other_cycle", report.Summary.OtherCycle)
		s.recorder.ReconciliationItems("unknown", report.Summary.Unknown)
		s.recorder.ManuscriptsBilled(len(billed))
	}
	if s.activities != nil && len(billed) > 0 {
		cycleID := report.Cycle.ID
		if err := s.activities.Log(ctx, userID, &activity.ActivityEntry{
			CycleID:      &cycleID,
			ActivityType: activity.TypeCycleBilled,
			Summary:      fmt.Sprintf("billed %d manuscripts in %s", len(billed), cycleID),
		}); err != nil && s.logger != nil {
			s.logger.Warn("failed to log activity", "type", activity.TypeCycleBilled, "error", err)
		}
	}
	if s.logger != nil {
		s.logger.Info("reconciliation finished",
			"user_id", userID,
			"cycle_id", report.Cycle.ID,
			"matched", report.Summary.Matched,
			"billed", len(billed),
		)
	}

	return &FinishResult{Report: *report, Billed: billed}, nil
}

// Claim pins a done manuscript to cycleID.
func (s *Service) Claim(ctx context.Context, userID, manuscriptID, cycleID string) (*manuscript.Manuscript, error) {
	c, err := s.parseCycle(cycleID)
	if err != nil {
		return nil, err
	}
	m, err := s.manuscripts.Get(ctx, userID, manuscriptID)
	if err != nil {
		return nil, err
	}
	if !m.Status.Done() {
		return nil, ErrNotInCycle
	}
	return s.manuscripts.Claim(ctx, userID, manuscriptID, c.ID)
}

// Cycles lists cycles with tracked files, most recent first. A limit of 0
// returns every cycle.
func (s *Service) Cycles(ctx context.Context, userID string, limit int) ([]CycleCount, error) {
	done, err := s.manuscripts.List(ctx, userID, manuscript.ListOptions{
		Statuses: []manuscript.Status{manuscript.StatusWorked, manuscript.StatusBilled},
	})
	if err != nil {
		return nil, fmt.Errorf("loading manuscripts: %w", err)
	}

	counts, skipped := GroupByCycle(done, s.loc)
	if skipped > 0 && s.logger != nil {
		s.logger.Warn("manuscripts without a resolvable cycle", "user_id", userID, "count", skipped)
	}
	if limit > 0 && len(counts) > limit {
		counts = counts[:limit]
	}
	return counts, nil
}

func (s *Service) parseCycle(id string) (cycle.Cycle, error) {
	c, err := cycle.ParseID(id, s.loc)
	if err != nil {
		return cycle.Cycle{}, fmt.Errorf("%w: %w", ErrInvalidCycle, err)
	}
	return c, nil
}
