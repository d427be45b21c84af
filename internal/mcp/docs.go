package mcp

import (
	"context"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

const serverInstructions = `folio tracks typesetting manuscripts, paces daily work against a per-cycle
target and reconciles billed codes at the end of each pay cycle.

Core concepts:
- Cycle: a semi-monthly pay period. C1 runs 11th-25th; C2 runs 26th-10th and is
  keyed by the month it starts in (2026-01-C2 is Jan 26 - Feb 10). Ids look like 2026-01-C1.
- Manuscript: one unit of work identified by its code (unique ignoring case).
  WORKED and BILLED count as done; PENDING_* are query states.
- Target: completions wanted per cycle. Weekly weights (Sunday first) and days off
  spread it over the cycle.

Default workflow:
1) get_pacing to see today's quota and coaching state.
2) create_manuscript as files arrive; update_manuscript when status changes.
3) At cycle end, paste the billed codes into reconcile_billing, review, then
   finish_reconciliation to mark matched files BILLED.

Docs:
- folio://docs/index
- folio://docs/cycles
- folio://docs/pacing
- folio://docs/reconciliation
`

type docResource struct {
	URI         string
	Name        string
	Title       string
	Description string
	Content     string
}

var docResources = []docResource{
	{
		URI:         "folio://docs/index",
		Name:        "docs_index",
		Title:       "folio docs index",
		Description: "Entry point: which tool to use for what.",
		Content: `# folio

## Tools

- ` + "`get_cycle`" + `, ` + "`list_cycles`" + ` - pay cycle lookup and per-cycle counts.
- ` + "`get_pacing`" + ` - today's quota, the plan for the rest of the cycle and the coaching state.
- ` + "`create_manuscript`" + `, ` + "`get_manuscript`" + `, ` + "`list_manuscripts`" + `, ` + "`update_manuscript`" + `, ` + "`add_note`" + `, ` + "`bulk_update_status`" + `, ` + "`delete_manuscript`" + `.
- ` + "`reconcile_billing`" + `, ` + "`finish_reconciliation`" + `, ` + "`claim_into_cycle`" + ` - end-of-cycle billing.
- ` + "`get_settings`" + `, ` + "`update_target`" + `, ` + "`update_schedule`" + `, ` + "`set_cycle_rate`" + `.
- ` + "`get_recent_activity`" + ` - audit trail of changes.

## Errors

Failed calls return a code such as MANUSCRIPT_NOT_FOUND, DUPLICATE_CODE,
INVALID_STATUS, INVALID_SCHEDULE, INVALID_CYCLE or INVALID_DATE with a recovery hint.

Dates are YYYY-MM-DD or RFC 3339 and are read in the server's timezone.
`,
	},
	{
		URI:         "folio://docs/cycles",
		Name:        "docs_cycles",
		Title:       "Pay cycles",
		Description: "How dates map to cycles and how a manuscript lands in one.",
		Content: `# Pay cycles

| Day of month | Cycle |
|---|---|
| 1-10 | previous month's C2 |
| 11-25 | this month's C1 |
| 26-31 | this month's C2 |

A done manuscript belongs to one cycle, chosen in this order:

1. the cycle it was claimed into (claim_into_cycle, or finish_reconciliation),
2. the cycle of its billed date,
3. the cycle of its completion date (completed, else status changed, else updated, else received).

Undone manuscripts never count as cycle files.
`,
	},
	{
		URI:         "folio://docs/pacing",
		Name:        "docs_pacing",
		Title:       "Pacing and coaching",
		Description: "How the daily quota is computed and what each coaching state means.",
		Content: `# Pacing

- remaining = target - completions before today
- work units = sum of day weights from today to cycle end (days off weigh 0)
- base = remaining / max(work units, 0.1)
- today's quota = ceil(base x today's weight), capped at remaining

Completions logged today do not change today's quota. The plan for later days
assumes today's quota gets done.

## States

- AHEAD: target already met.
- REST: today is a day off or weighs 0.
- ON_TRACK: today's quota is done, or the required pace is near the baseline.
- CATCHING_UP: only a few files left for today.
- BEHIND: required pace above 1.2x baseline.
- CRITICAL: required pace above 1.6x baseline.
`,
	},
	{
		URI:         "folio://docs/reconciliation",
		Name:        "docs_reconciliation",
		Title:       "Billing reconciliation",
		Description: "Comparing the billed list against tracked work.",
		Content: `# Reconciliation

Paste the billed codes, one per line. Matching ignores case and surrounding space;
repeated codes count once.

- matched: tracked in the cycle and pasted.
- missing: tracked in the cycle, not pasted. Follow up with the client.
- extra OTHER_CYCLE: tracked, but in another cycle or not done yet. Consider claim_into_cycle.
- extra UNKNOWN: never tracked. Consider create_manuscript.

reconcile_billing changes nothing. finish_reconciliation marks matched WORKED
files BILLED and pins them to the cycle so a late billing date cannot move them.
Earnings use the cycle's rate from set_cycle_rate (zero when unset).
`,
	},
}

func registerDocResources(server *sdkmcp.Server) {
	for _, doc := range docResources {
		doc := doc

		server.AddResource(&sdkmcp.Resource{
			URI:         doc.URI,
			Name:        doc.Name,
			Title:       doc.Title,
			Description: doc.Description,
			MIMEType:    "text/markdown",
			Size:        int64(len(doc.Content)),
		}, func(_ context.Context, req *sdkmcp.ReadResourceRequest) (*sdkmcp.ReadResourceResult, error) {
			uri := doc.URI
			if req != nil && req.Params != nil && req.Params.URI != "" {
				uri = req.Params.URI
			}
			return &sdkmcp.ReadResourceResult{
				Contents: []*sdkmcp.ResourceContents{{
					URI:      uri,
					MIMEType: "text/markdown",
					Text:     doc.Content,
				}},
			}, nil
		})
	}
}
