package mcp

import (
	"context"
	"log/slog"
	"strings"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/rpggio/folio/internal/domain/activity"
	"github.com/rpggio/folio/internal/domain/billing"
	"github.com/rpggio/folio/internal/domain/cycle"
	"github.com/rpggio/folio/internal/domain/manuscript"
	"github.com/rpggio/folio/internal/domain/pacing"
	"github.com/rpggio/folio/internal/domain/schedule"
	"github.com/rpggio/folio/internal/domain/settings"
	"github.com/rpggio/folio/internal/metrics"
)

const defaultActivityLimit = 20

// toolset carries what every tool handler needs.
type toolset struct {
	services Services
	loc      *time.Location
	now      func() time.Time
	metrics  *metrics.Metrics
	logger   *slog.Logger
}

func newToolset(cfg Config) *toolset {
	loc := cfg.Location
	if loc == nil {
		loc = time.Local
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &toolset{
		services: cfg.Services,
		loc:      loc,
		now:      now,
		metrics:  cfg.Metrics,
		logger:   logger,
	}
}

// addTool registers fn under name with call metrics and error mapping.
func addTool[In, Out any](server *sdkmcp.Server, ts *toolset, name, description string, fn func(ctx context.Context, userID string, in In) (Out, error)) {
	sdkmcp.AddTool(server, &sdkmcp.Tool{Name: name, Description: description},
		func(ctx context.Context, _ *sdkmcp.CallToolRequest, in In) (*sdkmcp.CallToolResult, Out, error) {
			start := time.Now()
			out, err := fn(ctx, getUserID(ctx), in)
			elapsed := time.Since(start)
			ts.metrics.ObserveTool(name, elapsed, err)
			if err != nil {
				ts.logger.Warn("tool failed",
					"tool", name,
					"session_id", getSessionID(ctx),
					"elapsed", elapsed,
					"error", err,
				)
				var zero Out
				return nil, zero, toolError(err)
			}
			ts.logger.Debug("tool call", "tool", name, "session_id", getSessionID(ctx), "elapsed", elapsed)
			return nil, out, nil
		})
}

func registerTools(server *sdkmcp.Server, ts *toolset) {
	// Cycles and pacing
	addTool(server, ts, "get_cycle", "Resolve the pay cycle containing a date (default today) with its neighbours", ts.getCycle)
	addTool(server, ts, "list_cycles", "List cycles that have completed manuscripts, most recent first, with file counts", ts.listCycles)
	addTool(server, ts, "get_pacing", "Today's quota, remaining work and coaching state for the current cycle", ts.getPacing)

	// Billing
	addTool(server, ts, "reconcile_billing", "Compare pasted billed codes against a cycle's tracked files without changing anything", ts.reconcileBilling)
	addTool(server, ts, "finish_reconciliation", "Reconcile and mark every matched WORKED manuscript BILLED in the cycle", ts.finishReconciliation)
	addTool(server, ts, "claim_into_cycle", "Pin a WORKED or BILLED manuscript to a specific cycle", ts.claimIntoCycle)

	// Manuscripts
	addTool(server, ts, "create_manuscript", "Register a new manuscript in UNTOUCHED", ts.createManuscript)
	addTool(server, ts, "get_manuscript", "Get a manuscript with its notes", ts.getManuscript)
	addTool(server, ts, "list_manuscripts", "List manuscripts newest first, filtered by status, priority, code or receipt date", ts.listManuscripts)
	addTool(server, ts, "update_manuscript", "Change status, priority, dates or add a remark; status changes add an automatic note", ts.updateManuscript)
	addTool(server, ts, "add_note", "Prepend a note to a manuscript", ts.addNote)
	addTool(server, ts, "bulk_update_status", "Move several manuscripts to one status; nothing changes if any id is unknown", ts.bulkUpdateStatus)
	addTool(server, ts, "delete_manuscript", "Delete a manuscript and its notes", ts.deleteManuscript)

	// Settings
	addTool(server, ts, "get_settings", "Get the cycle target, weekly weights and days off", ts.getSettings)
	addTool(server, ts, "update_target", "Set the completions goal per cycle", ts.updateTarget)
	addTool(server, ts, "update_schedule", "Replace the weekly weights and days off", ts.updateSchedule)
	addTool(server, ts, "set_cycle_rate", "Set the per-manuscript pay rate for a cycle", ts.setCycleRate)

	// Activity
	addTool(server, ts, "get_recent_activity", "Recent changes, newest first", ts.getRecentActivity)
}

func (ts *toolset) today() time.Time {
	return ts.now().In(ts.loc)
}

// dateOr parses value as a date, falling back to today when empty.
func (ts *toolset) dateOr(field, value string) (time.Time, error) {
	if strings.TrimSpace(value) == "" {
		return ts.today(), nil
	}
	t, ok := cycle.ParseDate(value, ts.loc)
	if !ok {
		return time.Time{}, invalidDate(field, value)
	}
	return t, nil
}

// optionalDate parses value when set. A bare date with endOfDay extends to
// the last instant of that day.
func (ts *toolset) optionalDate(field, value string, endOfDay bool) (*time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	t, ok := cycle.ParseDate(value, ts.loc)
	if !ok {
		return nil, invalidDate(field, value)
	}
	if endOfDay && len(value) == len(cycle.DateLayout) {
		t = cycle.NextDay(t).Add(-time.Nanosecond)
	}
	return &t, nil
}

func (ts *toolset) getCycle(_ context.Context, _ string, in GetCycleParams) (GetCycleResponse, error) {
	day, err := ts.dateOr("date", in.Date)
	if err != nil {
		return GetCycleResponse{}, err
	}
	c := cycle.Resolve(day)
	return GetCycleResponse{
		Cycle:      ts.cycleResponse(c),
		PreviousID: c.Prev().ID,
		NextID:     c.Next().ID,
	}, nil
}

func (ts *toolset) listCycles(ctx context.Context, userID string, in ListCyclesParams) (ListCyclesResponse, error) {
	if in.Limit < 0 {
		return ListCyclesResponse{}, &APIError{Code: "INVALID_INPUT", Message: "limit must not be negative"}
	}
	counts, err := ts.services.Billing.Cycles(ctx, userID, in.Limit)
	if err != nil {
		return ListCyclesResponse{}, err
	}
	out := ListCyclesResponse{Cycles: make([]CycleSummaryResponse, 0, len(counts))}
	for _, c := range counts {
		out.Cycles = append(out.Cycles, CycleSummaryResponse{
			ID:     c.Cycle.ID,
			Label:  c.Cycle.Label(),
			Files:  c.Files,
			Worked: c.Worked,
			Billed: c.Billed,
		})
	}
	return out, nil
}

func (ts *toolset) getPacing(ctx context.Context, userID string, in GetPacingParams) (PacingResponse, error) {
	day, err := ts.dateOr("date", in.Date)
	if err != nil {
		return PacingResponse{}, err
	}
	f, err := ts.services.Pacing.Today(ctx, userID, day)
	if err != nil {
		return PacingResponse{}, err
	}
	return ts.pacingResponse(f), nil
}

func (ts *toolset) reconcileBilling(ctx context.Context, userID string, in ReconcileParams) (ReconcileResponse, error) {
	report, err := ts.services.Billing.Preview(ctx, userID, in.CycleID, in.Pasted)
	if err != nil {
		return ReconcileResponse{}, err
	}
	return reconcileResponse(ts, report), nil
}

func (ts *toolset) finishReconciliation(ctx context.Context, userID string, in ReconcileParams) (FinishReconciliationResponse, error) {
	res, err := ts.services.Billing.Finish(ctx, userID, in.CycleID, in.Pasted, ts.now())
	if err != nil {
		return FinishReconciliationResponse{}, err
	}
	return FinishReconciliationResponse{
		Reconciliation: reconcileResponse(ts, &res.Report),
		Billed:         refs(res.Billed),
	}, nil
}

func (ts *toolset) claimIntoCycle(ctx context.Context, userID string, in ClaimIntoCycleParams) (ManuscriptResponse, error) {
	m, err := ts.services.Billing.Claim(ctx, userID, in.ManuscriptID, in.CycleID)
	if err != nil {
		return ManuscriptResponse{}, err
	}
	return ts.manuscriptResponse(m), nil
}

func (ts *toolset) createManuscript(ctx context.Context, userID string, in CreateManuscriptParams) (ManuscriptResponse, error) {
	received := ts.now()
	if in.DateReceived != "" {
		t, ok := cycle.ParseDate(in.DateReceived, ts.loc)
		if !ok {
			return ManuscriptResponse{}, invalidDate("date_received", in.DateReceived)
		}
		received = t
	}
	due, err := ts.optionalDate("due_date", in.DueDate, false)
	if err != nil {
		return ManuscriptResponse{}, err
	}
	m, err := ts.services.Manuscripts.Create(ctx, userID, manuscript.CreateRequest{
		Code:         in.Code,
		Priority:     manuscript.Priority(in.Priority),
		DateReceived: received,
		DueDate:      due,
		Note:         in.Note,
	})
	if err != nil {
		return ManuscriptResponse{}, err
	}
	return ts.manuscriptResponse(m), nil
}

func (ts *toolset) getManuscript(ctx context.Context, userID string, in GetManuscriptParams) (ManuscriptResponse, error) {
	m, err := ts.services.Manuscripts.Get(ctx, userID, in.ID)
	if err != nil {
		return ManuscriptResponse{}, err
	}
	return ts.manuscriptResponse(m), nil
}

func (ts *toolset) listManuscripts(ctx context.Context, userID string, in ListManuscriptsParams) (ListManuscriptsResponse, error) {
	from, err := ts.optionalDate("received_from", in.ReceivedFrom, false)
	if err != nil {
		return ListManuscriptsResponse{}, err
	}
	to, err := ts.optionalDate("received_to", in.ReceivedTo, true)
	if err != nil {
		return ListManuscriptsResponse{}, err
	}
	opts := manuscript.ListOptions{
		CodeContains: in.CodeContains,
		ReceivedFrom: from,
		ReceivedTo:   to,
		Limit:        in.Limit,
		Offset:       in.Offset,
	}
	for _, s := range in.Statuses {
		opts.Statuses = append(opts.Statuses, manuscript.Status(s))
	}
	for _, p := range in.Priorities {
		opts.Priorities = append(opts.Priorities, manuscript.Priority(p))
	}

	ms, err := ts.services.Manuscripts.List(ctx, userID, opts)
	if err != nil {
		return ListManuscriptsResponse{}, err
	}
	out := ListManuscriptsResponse{Manuscripts: make([]ManuscriptResponse, 0, len(ms))}
	for i := range ms {
		out.Manuscripts = append(out.Manuscripts, ts.manuscriptResponse(&ms[i]))
	}
	return out, nil
}

func (ts *toolset) updateManuscript(ctx context.Context, userID string, in UpdateManuscriptParams) (ManuscriptResponse, error) {
	req := manuscript.UpdateRequest{ID: in.ID}
	if in.Status != "" {
		status := manuscript.Status(in.Status)
		req.Status = &status
	}
	if in.Priority != "" {
		priority := manuscript.Priority(in.Priority)
		req.Priority = &priority
	}
	var err error
	if req.DueDate, err = ts.optionalDate("due_date", in.DueDate, false); err != nil {
		return ManuscriptResponse{}, err
	}
	if req.DateEmailed, err = ts.optionalDate("date_emailed", in.DateEmailed, false); err != nil {
		return ManuscriptResponse{}, err
	}
	if in.Note != "" {
		req.Note = &in.Note
	}

	m, err := ts.services.Manuscripts.Update(ctx, userID, req)
	if err != nil {
		return ManuscriptResponse{}, err
	}
	return ts.manuscriptResponse(m), nil
}

func (ts *toolset) addNote(ctx context.Context, userID string, in AddNoteParams) (NoteResponse, error) {
	note, err := ts.services.Manuscripts.AddNote(ctx, userID, in.ID, in.Text)
	if err != nil {
		return NoteResponse{}, err
	}
	return ts.noteResponse(*note), nil
}

func (ts *toolset) bulkUpdateStatus(ctx context.Context, userID string, in BulkUpdateStatusParams) (BulkUpdateStatusResponse, error) {
	changed, err := ts.services.Manuscripts.BulkUpdateStatus(ctx, userID, in.IDs, manuscript.Status(in.Status), ts.now())
	if err != nil {
		return BulkUpdateStatusResponse{}, err
	}
	return BulkUpdateStatusResponse{Updated: refs(changed)}, nil
}

func (ts *toolset) deleteManuscript(ctx context.Context, userID string, in DeleteManuscriptParams) (DeleteManuscriptResponse, error) {
	if err := ts.services.Manuscripts.Delete(ctx, userID, in.ID); err != nil {
		return DeleteManuscriptResponse{}, err
	}
	return DeleteManuscriptResponse{ID: in.ID, Deleted: true}, nil
}

func (ts *toolset) getSettings(ctx context.Context, userID string, _ GetSettingsParams) (SettingsResponse, error) {
	s, err := ts.services.Settings.Get(ctx, userID)
	if err != nil {
		return SettingsResponse{}, err
	}
	return settingsResponse(s), nil
}

func (ts *toolset) updateTarget(ctx context.Context, userID string, in UpdateTargetParams) (SettingsResponse, error) {
	s, err := ts.services.Settings.UpdateTarget(ctx, userID, in.Target)
	if err != nil {
		return SettingsResponse{}, err
	}
	return settingsResponse(s), nil
}

func (ts *toolset) updateSchedule(ctx context.Context, userID string, in UpdateScheduleParams) (SettingsResponse, error) {
	for _, day := range in.DaysOff {
		if _, err := time.ParseInLocation(cycle.DateLayout, day, ts.loc); err != nil {
			return SettingsResponse{}, invalidDate("days_off", day)
		}
	}
	s, err := ts.services.Settings.UpdateSchedule(ctx, userID, schedule.New(in.WeeklyWeights, in.DaysOff))
	if err != nil {
		return SettingsResponse{}, err
	}
	return settingsResponse(s), nil
}

func (ts *toolset) setCycleRate(ctx context.Context, userID string, in SetCycleRateParams) (RateResponse, error) {
	rate := settings.RateProfile{USD: in.USD, PHP: in.PHP}
	if err := ts.services.Settings.SetRate(ctx, userID, in.CycleID, rate); err != nil {
		return RateResponse{}, err
	}
	return RateResponse{CycleID: in.CycleID, USD: rate.USD, PHP: rate.PHP}, nil
}

func (ts *toolset) getRecentActivity(ctx context.Context, userID string, in GetRecentActivityParams) (GetRecentActivityResponse, error) {
	opts := activity.ListActivityOptions{Limit: in.Limit}
	if opts.Limit <= 0 {
		opts.Limit = defaultActivityLimit
	}
	if in.ManuscriptID != "" {
		opts.ManuscriptID = &in.ManuscriptID
	}
	if in.CycleID != "" {
		opts.CycleID = &in.CycleID
	}
	for _, t := range in.Types {
		opts.Types = append(opts.Types, activity.ActivityType(t))
	}

	entries, err := ts.services.Activity.GetRecentActivity(ctx, userID, opts)
	if err != nil {
		return GetRecentActivityResponse{}, err
	}
	out := GetRecentActivityResponse{Entries: make([]ActivityEntryResponse, 0, len(entries))}
	for _, e := range entries {
		out.Entries = append(out.Entries, ActivityEntryResponse{
			ID:           e.ID,
			Type:         string(e.ActivityType),
			Summary:      e.Summary,
			ManuscriptID: stringValue(e.ManuscriptID),
			CycleID:      stringValue(e.CycleID),
			CreatedAt:    ts.timestamp(e.CreatedAt),
		})
	}
	return out, nil
}

func (ts *toolset) date(t time.Time) string {
	return t.In(ts.loc).Format(cycle.DateLayout)
}

func (ts *toolset) timestamp(t time.Time) string {
	return t.In(ts.loc).Format(time.RFC3339)
}

func (ts *toolset) optionalTimestamp(t *time.Time) string {
	if t == nil || t.IsZero() {
		return ""
	}
	return ts.timestamp(*t)
}

func (ts *toolset) cycleResponse(c cycle.Cycle) CycleResponse {
	return CycleResponse{
		ID:    c.ID,
		Label: c.Label(),
		Start: ts.date(c.Start),
		End:   ts.date(c.End),
		Days:  c.Days(),
	}
}

func (ts *toolset) pacingResponse(f *pacing.Forecast) PacingResponse {
	days := make([]DayQuotaResponse, 0, len(f.Days))
	for _, d := range f.Days {
		days = append(days, DayQuotaResponse{Date: ts.date(d.Date), Weight: d.Weight, Quota: d.Quota})
	}
	return PacingResponse{
		Cycle:              ts.cycleResponse(f.Cycle),
		Today:              ts.date(f.Today),
		Target:             f.Target,
		CompletedInCycle:   f.CompletedInCycle,
		CompletedToday:     f.CompletedToday,
		RemainingToTarget:  f.RemainingToTarget,
		RemainingWorkUnits: f.RemainingWorkUnits,
		BaseDailyTarget:    f.BaseDailyTarget,
		TodayWeight:        f.TodayWeight,
		TodayQuota:         f.TodayQuota,
		RemainingToday:     f.RemainingToday,
		RequiredPace:       f.RequiredPace,
		BaselinePace:       f.BaselinePace,
		State:              string(f.State),
		Days:               days,
	}
}

func (ts *toolset) manuscriptResponse(m *manuscript.Manuscript) ManuscriptResponse {
	out := ManuscriptResponse{
		ID:                m.ID,
		Code:              m.Code,
		Status:            string(m.Status),
		Priority:          string(m.Priority),
		DateReceived:      ts.timestamp(m.DateReceived),
		DueDate:           ts.optionalTimestamp(m.DueDate),
		DateStatusChanged: ts.optionalTimestamp(m.DateStatusChanged),
		CompletedDate:     ts.optionalTimestamp(m.CompletedDate),
		BilledDate:        ts.optionalTimestamp(m.BilledDate),
		DateQueried:       ts.optionalTimestamp(m.DateQueried),
		DateEmailed:       ts.optionalTimestamp(m.DateEmailed),
		DateUpdated:       ts.optionalTimestamp(m.DateUpdated),
		ClaimedCycleID:    m.ClaimedCycleID,
	}
	if c, ok := billing.MembershipCycle(*m, ts.loc); ok && m.Status.Done() {
		out.CycleID = c.ID
	}
	for _, n := range m.Notes {
		out.Notes = append(out.Notes, ts.noteResponse(n))
	}
	return out
}

func (ts *toolset) noteResponse(n manuscript.Note) NoteResponse {
	return NoteResponse{ID: n.ID, Text: n.Text, CreatedAt: ts.timestamp(n.CreatedAt)}
}

func reconcileResponse(ts *toolset, r *billing.Report) ReconcileResponse {
	extra := make([]ExtraResponse, 0, len(r.Result.Extra))
	for _, e := range r.Result.Extra {
		extra = append(extra, ExtraResponse{
			Code:         e.Code,
			Kind:         string(e.Kind),
			ManuscriptID: e.ManuscriptID,
			Status:       string(e.Status),
			CycleID:      e.CycleID,
		})
	}
	s := r.Summary
	return ReconcileResponse{
		Cycle:   ts.cycleResponse(r.Cycle),
		Matched: refs(r.Result.Matched),
		Missing: refs(r.Result.Missing),
		Extra:   extra,
		Summary: SummaryResponse{
			Tracked:       s.Tracked,
			Matched:       s.Matched,
			Missing:       s.Missing,
			OtherCycle:    s.OtherCycle,
			Unknown:       s.Unknown,
			Billed:        s.Billed,
			Unbilled:      s.Unbilled,
			PercentBilled: s.PercentBilled,
			RateUSD:       s.Rate.USD,
			RatePHP:       s.Rate.PHP,
			ConfirmedUSD:  s.ConfirmedUSD,
			ConfirmedPHP:  s.ConfirmedPHP,
			ProjectedUSD:  s.ProjectedUSD,
			ProjectedPHP:  s.ProjectedPHP,
		},
	}
}

func refs(ms []manuscript.Manuscript) []ManuscriptRef {
	out := make([]ManuscriptRef, 0, len(ms))
	for _, m := range ms {
		out = append(out, ManuscriptRef{ID: m.ID, Code: m.Code, Status: string(m.Status)})
	}
	return out
}

func settingsResponse(s *settings.Settings) SettingsResponse {
	weights := s.Schedule.WeeklyWeights
	if weights == nil {
		weights = []float64{}
	}
	return SettingsResponse{
		Target:        s.Target,
		WeeklyWeights: weights,
		DaysOff:       s.Schedule.DaysOffList(),
	}
}

func stringValue(val *string) string {
	if val == nil {
		return ""
	}
	return *val
}
