// Package metrics provides Prometheus metrics for the MCP server and billing.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the collectors registered for one process.
type Metrics struct {
	// toolCalls counts MCP tool invocations.
	// Labels:
	//   - tool: tool name (e.g., "get_pacing")
	//   - status: "ok" or "error"
	toolCalls *prometheus.CounterVec

	// toolDuration records tool handler latency by tool name.
	toolDuration *prometheus.HistogramVec

	// reconciliationItems counts records and codes seen by finished
	// reconciliations. Labels:
	//   - kind: matched, missing, other_cycle, unknown
	reconciliationItems *prometheus.CounterVec

	manuscriptsBilled prometheus.Counter

	// authFailures counts rejected HTTP requests by reason.
	authFailures *prometheus.CounterVec
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		toolCalls: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "folio_mcp_tool_calls_total",
				Help: "Total number of MCP tool calls",
			},
			[]string{"tool", "status"},
		),
		toolDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "folio_mcp_tool_duration_seconds",
				Help:    "Duration of MCP tool calls in seconds",
				Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
			},
			[]string{"tool"},
		),
		reconciliationItems: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "folio_reconciliation_items_total",
				Help: "Total number of items classified by finished reconciliations",
			},
			[]string{"kind"},
		),
		manuscriptsBilled: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "folio_manuscripts_billed_total",
				Help: "Total number of manuscripts moved to BILLED by reconciliation",
			},
		),
		authFailures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "folio_mcp_auth_failures_total",
				Help: "Total number of MCP requests rejected by API key auth",
			},
			[]string{"reason"},
		),
	}

	reg.MustRegister(m.toolCalls, m.toolDuration, m.reconciliationItems, m.manuscriptsBilled, m.authFailures)
	return m
}

// ObserveTool records one tool call.
func (m *Metrics) ObserveTool(tool string, d time.Duration, err error) {
	if m == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.toolCalls.WithLabelValues(tool, status).Inc()
	m.toolDuration.WithLabelValues(tool).Observe(d.Seconds())
}

// ReconciliationItems adds n items of kind.
func (m *Metrics) ReconciliationItems(kind string, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.reconciliationItems.WithLabelValues(kind).Add(float64(n))
}

// ManuscriptsBilled adds n billed manuscripts.
func (m *Metrics) ManuscriptsBilled(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.manuscriptsBilled.Add(float64(n))
}

// AuthFailure counts one rejected request.
func (m *Metrics) AuthFailure(reason string) {
	if m == nil {
		return
	}
	m.authFailures.WithLabelValues(reason).Inc()
}
