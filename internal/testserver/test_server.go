// Package testserver runs a folio MCP server over an in-memory sqlite
// database for end-to-end tests.
package testserver

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/require"

	"github.com/rpggio/folio/internal/app"
	"github.com/rpggio/folio/internal/config"
	"github.com/rpggio/folio/internal/mcp"
	"github.com/rpggio/folio/internal/sqlite"
)

// Options tune the server under test.
type Options struct {
	// Now fixes the server clock.
	Now func() time.Time
	// Timezone defaults to UTC.
	Timezone      string
	DefaultTarget int
}

type TestServer struct {
	App     *app.App
	DB      *sqlite.DB
	Session *sdkmcp.ClientSession
}

// New connects a client to a server over in-memory transports.
func New(t *testing.T, opts Options) *TestServer {
	t.Helper()

	a := newApp(t, opts)
	server := mcp.NewServer(mcp.Config{
		Services:      a.Services(),
		TransportMode: "stdio",
		Location:      a.Location,
		Now:           opts.Now,
	})

	ctx := context.Background()
	serverTransport, clientTransport := sdkmcp.NewInMemoryTransports()
	serverSession, err := server.Connect(ctx, serverTransport, nil)
	require.NoError(t, err)

	client := sdkmcp.NewClient(&sdkmcp.Implementation{Name: "test-client", Version: "1.0.0"}, nil)
	session, err := client.Connect(ctx, clientTransport, nil)
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = session.Close()
		_ = serverSession.Wait()
	})

	return &TestServer{App: a, DB: a.DB, Session: session}
}

// HTTPServer is a streamable HTTP server with bearer auth enabled.
type HTTPServer struct {
	Server *httptest.Server
	App    *app.App
}

// NewHTTP starts an authenticated HTTP server with one API key.
func NewHTTP(t *testing.T, token, userID string, opts Options) *HTTPServer {
	t.Helper()

	a := newApp(t, opts)
	require.NoError(t, a.APIKeys.Create(context.Background(), userID, token, "test"))

	server := mcp.NewServer(mcp.Config{
		Services:      a.Services(),
		Resolver:      a.APIKeys,
		AuthEnabled:   true,
		TransportMode: "http",
		Location:      a.Location,
		Now:           opts.Now,
	})
	handler := sdkmcp.NewStreamableHTTPHandler(func(*http.Request) *sdkmcp.Server { return server }, nil)

	mux := http.NewServeMux()
	mux.Handle("/mcp", handler)
	httpServer := httptest.NewServer(mux)
	t.Cleanup(httpServer.Close)

	return &HTTPServer{Server: httpServer, App: a}
}

// Connect opens a client session that sends token as a bearer credential.
func (s *HTTPServer) Connect(t *testing.T, token string) (*sdkmcp.ClientSession, error) {
	t.Helper()

	transport := &sdkmcp.StreamableClientTransport{
		Endpoint: s.Server.URL + "/mcp",
		HTTPClient: &http.Client{Transport: &bearerTransport{
			token: token,
			base:  http.DefaultTransport,
		}},
	}
	client := sdkmcp.NewClient(&sdkmcp.Implementation{Name: "test-client", Version: "1.0.0"}, nil)
	session, err := client.Connect(context.Background(), transport, nil)
	if err != nil {
		return nil, err
	}
	t.Cleanup(func() { _ = session.Close() })
	return session, nil
}

type bearerTransport struct {
	token string
	base  http.RoundTripper
}

func (b *bearerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	if b.token != "" {
		req.Header.Set("Authorization", "Bearer "+b.token)
	}
	return b.base.RoundTrip(req)
}

func newApp(t *testing.T, opts Options) *app.App {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := sqlite.New(dsn)
	require.NoError(t, err)
	require.NoError(t, db.RunMigrations())
	t.Cleanup(func() { _ = db.Close() })

	cfg := config.Default()
	cfg.Tracker.Timezone = opts.Timezone
	if cfg.Tracker.Timezone == "" {
		cfg.Tracker.Timezone = "UTC"
	}
	cfg.Tracker.DefaultTarget = opts.DefaultTarget

	a, err := app.New(db, cfg, nil, nil)
	require.NoError(t, err)
	a.Manuscripts.SetClock(opts.Now)
	return a
}

// Call invokes a tool and decodes its structured result into out. It fails
// the test on transport errors and returns tool errors as text.
func Call(t *testing.T, session *sdkmcp.ClientSession, name string, args any, out any) (toolErr string) {
	t.Helper()

	res, err := session.CallTool(context.Background(), &sdkmcp.CallToolParams{
		Name:      name,
		Arguments: args,
	})
	require.NoError(t, err)
	require.NotEmpty(t, res.Content)

	text, ok := res.Content[0].(*sdkmcp.TextContent)
	require.True(t, ok, "expected text content, got %T", res.Content[0])
	if res.IsError {
		return text.Text
	}
	if out != nil {
		require.NoError(t, json.Unmarshal([]byte(text.Text), out), text.Text)
	}
	return ""
}

// MustCall is Call that fails the test on tool errors.
func MustCall(t *testing.T, session *sdkmcp.ClientSession, name string, args any, out any) {
	t.Helper()
	if msg := Call(t, session, name, args, out); msg != "" {
		t.Fatalf("%s failed: %s", name, msg)
	}
}
