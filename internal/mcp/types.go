package mcp

// Tool inputs. Fields tagged omitempty are optional.

type GetCycleParams struct {
	Date string `json:"date,omitempty" jsonschema:"Any day inside the cycle as YYYY-MM-DD; defaults to today"`
}

type ListCyclesParams struct {
	Limit int `json:"limit,omitempty" jsonschema:"Maximum number of cycles, most recent first"`
}

type GetPacingParams struct {
	Date string `json:"date,omitempty" jsonschema:"Day to forecast as YYYY-MM-DD; defaults to today"`
}

type ReconcileParams struct {
	CycleID string `json:"cycle_id" jsonschema:"Cycle id such as 2026-01-C1"`
	Pasted  string `json:"pasted" jsonschema:"Billed manuscript codes, one per line"`
}

type ClaimIntoCycleParams struct {
	ManuscriptID string `json:"manuscript_id"`
	CycleID      string `json:"cycle_id" jsonschema:"Cycle the manuscript should be billed under"`
}

type CreateManuscriptParams struct {
	Code         string `json:"code" jsonschema:"External manuscript code"`
	Priority     string `json:"priority,omitempty" jsonschema:"Normal, High or Urgent"`
	DateReceived string `json:"date_received,omitempty" jsonschema:"Receipt date; defaults to now"`
	DueDate      string `json:"due_date,omitempty"`
	Note         string `json:"note,omitempty"`
}

type GetManuscriptParams struct {
	ID string `json:"id"`
}

type ListManuscriptsParams struct {
	Statuses     []string `json:"statuses,omitempty" jsonschema:"Filter by status"`
	Priorities   []string `json:"priorities,omitempty" jsonschema:"Filter by priority"`
	CodeContains string   `json:"code_contains,omitempty"`
	ReceivedFrom string   `json:"received_from,omitempty"`
	ReceivedTo   string   `json:"received_to,omitempty"`
	Limit        int      `json:"limit,omitempty"`
	Offset       int      `json:"offset,omitempty"`
}

type UpdateManuscriptParams struct {
	ID          string `json:"id"`
	Status      string `json:"status,omitempty"`
	Priority    string `json:"priority,omitempty"`
	DueDate     string `json:"due_date,omitempty"`
	DateEmailed string `json:"date_emailed,omitempty"`
	Note        string `json:"note,omitempty" jsonschema:"Remark prepended to the notes"`
}

type AddNoteParams struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

type BulkUpdateStatusParams struct {
	IDs    []string `json:"ids"`
	Status string   `json:"status"`
}

type DeleteManuscriptParams struct {
	ID string `json:"id"`
}

type GetSettingsParams struct{}

type UpdateTargetParams struct {
	Target int `json:"target" jsonschema:"Completions goal per cycle"`
}

type UpdateScheduleParams struct {
	WeeklyWeights []float64 `json:"weekly_weights" jsonschema:"Seven weights, Sunday first, each 0, 0.5 or 1"`
	DaysOff       []string  `json:"days_off,omitempty" jsonschema:"Days off as YYYY-MM-DD"`
}

type SetCycleRateParams struct {
	CycleID string  `json:"cycle_id"`
	USD     float64 `json:"usd"`
	PHP     float64 `json:"php"`
}

type GetRecentActivityParams struct {
	ManuscriptID string   `json:"manuscript_id,omitempty"`
	CycleID      string   `json:"cycle_id,omitempty"`
	Types        []string `json:"types,omitempty"`
	Limit        int      `json:"limit,omitempty"`
}

// Tool outputs. Dates are YYYY-MM-DD, timestamps RFC 3339, both in the
// configured timezone.

type CycleResponse struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Start string `json:"start"`
	End   string `json:"end"`
	Days  int    `json:"days"`
}

type GetCycleResponse struct {
	Cycle      CycleResponse `json:"cycle"`
	PreviousID string        `json:"previous_id"`
	NextID     string        `json:"next_id"`
}

type CycleSummaryResponse struct {
	ID     string `json:"id"`
	Label  string `json:"label"`
	Files  int    `json:"files"`
	Worked int    `json:"worked"`
	Billed int    `json:"billed"`
}

type ListCyclesResponse struct {
	Cycles []CycleSummaryResponse `json:"cycles"`
}

type DayQuotaResponse struct {
	Date   string  `json:"date"`
	Weight float64 `json:"weight"`
	Quota  int     `json:"quota"`
}

type PacingResponse struct {
	Cycle              CycleResponse      `json:"cycle"`
	Today              string             `json:"today"`
	Target             int                `json:"target"`
	CompletedInCycle   int                `json:"completed_in_cycle"`
	CompletedToday     int                `json:"completed_today"`
	RemainingToTarget  int                `json:"remaining_to_target"`
	RemainingWorkUnits float64            `json:"remaining_work_units"`
	BaseDailyTarget    float64            `json:"base_daily_target"`
	TodayWeight        float64            `json:"today_weight"`
	TodayQuota         int                `json:"today_quota"`
	RemainingToday     int                `json:"remaining_today"`
	RequiredPace       float64            `json:"required_pace"`
	BaselinePace       float64            `json:"baseline_pace"`
	State              string             `json:"state"`
	Days               []DayQuotaResponse `json:"days"`
}

type NoteResponse struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	CreatedAt string `json:"created_at"`
}

type ManuscriptResponse struct {
	ID                string         `json:"id"`
	Code              string         `json:"code"`
	Status            string         `json:"status"`
	Priority          string         `json:"priority"`
	DateReceived      string         `json:"date_received"`
	DueDate           string         `json:"due_date,omitempty"`
	DateStatusChanged string         `json:"date_status_changed,omitempty"`
	CompletedDate     string         `json:"completed_date,omitempty"`
	BilledDate        string         `json:"billed_date,omitempty"`
	DateQueried       string         `json:"date_queried,omitempty"`
	DateEmailed       string         `json:"date_emailed,omitempty"`
	DateUpdated       string         `json:"date_updated,omitempty"`
	CycleID           string         `json:"cycle_id,omitempty"`
	ClaimedCycleID    string         `json:"claimed_cycle_id,omitempty"`
	Notes             []NoteResponse `json:"notes,omitempty"`
}

type ListManuscriptsResponse struct {
	Manuscripts []ManuscriptResponse `json:"manuscripts"`
}

type ManuscriptRef struct {
	ID     string `json:"id"`
	Code   string `json:"code"`
	Status string `json:"status"`
}

type BulkUpdateStatusResponse struct {
	Updated []ManuscriptRef `json:"updated"`
}

type DeleteManuscriptResponse struct {
	ID      string `json:"id"`
	Deleted bool   `json:"deleted"`
}

type ExtraResponse struct {
	Code         string `json:"code"`
	Kind         string `json:"kind"`
	ManuscriptID string `json:"manuscript_id,omitempty"`
	Status       string `json:"status,omitempty"`
	CycleID      string `json:"cycle_id,omitempty"`
}

type SummaryResponse struct {
	Tracked       int     `json:"tracked"`
	Matched       int     `json:"matched"`
	Missing       int     `json:"missing"`
	OtherCycle    int     `json:"other_cycle"`
	Unknown       int     `json:"unknown"`
	Billed        int     `json:"billed"`
	Unbilled      int     `json:"unbilled"`
	PercentBilled float64 `json:"percent_billed"`
	RateUSD       float64 `json:"rate_usd"`
	RatePHP       float64 `json:"rate_php"`
	ConfirmedUSD  float64 `json:"confirmed_usd"`
	ConfirmedPHP  float64 `json:"confirmed_php"`
	ProjectedUSD  float64 `json:"projected_usd"`
	ProjectedPHP  float64 `json:"projected_php"`
}

type ReconcileResponse struct {
	Cycle   CycleResponse   `json:"cycle"`
	Matched []ManuscriptRef `json:"matched"`
	Missing []ManuscriptRef `json:"missing"`
	Extra   []ExtraResponse `json:"extra"`
	Summary SummaryResponse `json:"summary"`
}

type FinishReconciliationResponse struct {
	Reconciliation ReconcileResponse `json:"reconciliation"`
	Billed         []ManuscriptRef   `json:"billed"`
}

type SettingsResponse struct {
	Target        int       `json:"target"`
	WeeklyWeights []float64 `json:"weekly_weights"`
	DaysOff       []string  `json:"days_off"`
}

type RateResponse struct {
	CycleID string  `json:"cycle_id"`
	USD     float64 `json:"usd"`
	PHP     float64 `json:"php"`
}

type ActivityEntryResponse struct {
	ID           int64  `json:"id"`
	Type         string `json:"type"`
	Summary      string `json:"summary"`
	ManuscriptID string `json:"manuscript_id,omitempty"`
	CycleID      string `json:"cycle_id,omitempty"`
	CreatedAt    string `json:"created_at"`
}

type GetRecentActivityResponse struct {
	Entries []ActivityEntryResponse `json:"entries"`
}
