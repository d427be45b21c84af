package mcp

import (
	"context"
	"log/slog"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/rpggio/folio/internal/domain/activity"
	"github.com/rpggio/folio/internal/domain/billing"
	"github.com/rpggio/folio/internal/domain/manuscript"
	"github.com/rpggio/folio/internal/domain/pacing"
	"github.com/rpggio/folio/internal/domain/schedule"
	"github.com/rpggio/folio/internal/domain/settings"
	"github.com/rpggio/folio/internal/metrics"
)

// DefaultUser is the user id for stdio and unauthenticated HTTP sessions.
const DefaultUser = "default"

// ManuscriptService defines manuscript operations needed by MCP.
type ManuscriptService interface {
	Create(ctx context.Context, userID string, req manuscript.CreateRequest) (*manuscript.Manuscript, error)
	Get(ctx context.Context, userID, id string) (*manuscript.Manuscript, error)
	List(ctx context.Context, userID string, opts manuscript.ListOptions) ([]manuscript.Manuscript, error)
	Update(ctx context.Context, userID string, req manuscript.UpdateRequest) (*manuscript.Manuscript, error)
	AddNote(ctx context.Context, userID, id, text string) (*manuscript.Note, error)
	BulkUpdateStatus(ctx context.Context, userID string, ids []string, status manuscript.Status, at time.Time) ([]manuscript.Manuscript, error)
	Delete(ctx context.Context, userID, id string) error
}

// SettingsService defines settings operations needed by MCP.
type SettingsService interface {
	Get(ctx context.Context, userID string) (*settings.Settings, error)
	UpdateTarget(ctx context.Context, userID string, target int) (*settings.Settings, error)
	UpdateSchedule(ctx context.Context, userID string, sched schedule.Schedule) (*settings.Settings, error)
	GetRate(ctx context.Context, userID, cycleID string) (settings.RateProfile, error)
	SetRate(ctx context.Context, userID, cycleID string, rate settings.RateProfile) error
}

// PacingService defines forecast operations needed by MCP.
type PacingService interface {
	Today(ctx context.Context, userID string, now time.Time) (*pacing.Forecast, error)
}

// BillingService defines reconciliation operations needed by MCP.
type BillingService interface {
	Preview(ctx context.Context, userID, cycleID, pasted string) (*billing.Report, error)
	Finish(ctx context.Context, userID, cycleID, pasted string, at time.Time) (*billing.FinishResult, error)
	Claim(ctx context.Context, userID, manuscriptID, cycleID string) (*manuscript.Manuscript, error)
	Cycles(ctx context.Context, userID string, limit int) ([]billing.CycleCount, error)
}

// ActivityService defines activity operations needed by MCP.
type ActivityService interface {
	GetRecentActivity(ctx context.Context, userID string, opts activity.ListActivityOptions) ([]activity.ActivityEntry, error)
}

// Services contains all domain services needed by MCP.
type Services struct {
	Manuscripts ManuscriptService
	Settings    SettingsService
	Pacing      PacingService
	Billing     BillingService
	Activity    ActivityService
}

// Config contains server configuration.
type Config struct {
	Services      Services
	Resolver      UserResolver
	AuthEnabled   bool
	TransportMode string // "stdio" or "http"
	// Location is the calendar used for cycle math and date parameters.
	Location *time.Location
	Metrics  *metrics.Metrics
	// Now overrides the clock, for tests.
	Now    func() time.Time
	Logger *slog.Logger
}

// NewServer creates and configures an MCP server with all tools and middleware.
func NewServer(cfg Config) *sdkmcp.Server {
	server := sdkmcp.NewServer(&sdkmcp.Implementation{
		Name:    "folio",
		Version: "0.1.0",
	}, &sdkmcp.ServerOptions{
		Instructions: serverInstructions,
		Logger:       cfg.Logger,
	})

	registerDocResources(server)

	// Stdio is local only and always runs as the default user.
	if cfg.TransportMode == "stdio" || !cfg.AuthEnabled {
		server.AddReceivingMiddleware(fixedUserMiddleware(DefaultUser))
	} else {
		server.AddReceivingMiddleware(authMiddleware(cfg.Resolver, cfg.Metrics))
	}
	server.AddReceivingMiddleware(sessionMiddleware())
	server.AddReceivingMiddleware(trafficLoggingMiddleware(cfg.Logger, "inbound"))
	server.AddSendingMiddleware(trafficLoggingMiddleware(cfg.Logger, "outbound"))

	registerTools(server, newToolset(cfg))

	return server
}
