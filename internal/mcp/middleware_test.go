package mcp

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"github.com/rpggio/folio/internal/metrics"
)

type staticResolver map[string]string

func (r staticResolver) ResolveUser(_ context.Context, token string) (string, error) {
	if user, ok := r[token]; ok {
		return user, nil
	}
	return "", errors.New("unknown token")
}

func captureUser(got *string) sdkmcp.MethodHandler {
	return func(ctx context.Context, method string, req sdkmcp.Request) (sdkmcp.Result, error) {
		*got = getUserID(ctx)
		return nil, nil
	}
}

func toolRequest(header http.Header) *sdkmcp.CallToolRequest {
	return &sdkmcp.CallToolRequest{
		Params: &sdkmcp.CallToolParamsRaw{Name: "get_pacing"},
		Extra:  &sdkmcp.RequestExtra{Header: header},
	}
}

func TestAuthMiddleware(t *testing.T) {
	var user string
	handler := authMiddleware(staticResolver{"tok": "alice"}, nil)(captureUser(&user))
	ctx := context.Background()

	_, err := handler(ctx, "tools/call", toolRequest(http.Header{"Authorization": []string{"Bearer tok"}}))
	require.NoError(t, err)
	require.Equal(t, "alice", user)

	user = ""
	_, err = handler(ctx, "tools/call", toolRequest(http.Header{"Authorization": []string{"bearer  tok "}}))
	require.NoError(t, err)
	require.Equal(t, "alice", user)

	_, err = handler(ctx, "tools/call", toolRequest(http.Header{"Authorization": []string{"Bearer nope"}}))
	require.ErrorIs(t, err, ErrUnauthorized)
	require.ErrorContains(t, err, "invalid bearer token")

	_, err = handler(ctx, "tools/call", toolRequest(http.Header{}))
	require.ErrorContains(t, err, "missing bearer token")

	_, err = handler(ctx, "tools/call", toolRequest(http.Header{"Authorization": []string{"Bearer "}}))
	require.ErrorContains(t, err, "missing bearer token")

	_, err = handler(ctx, "tools/call", toolRequest(nil))
	require.ErrorContains(t, err, "missing headers")
}

func TestAuthMiddleware_RejectsOtherSchemes(t *testing.T) {
	var user string
	handler := authMiddleware(staticResolver{"Basic tok": "alice", "tok": "alice"}, nil)(captureUser(&user))

	_, err := handler(context.Background(), "tools/call", toolRequest(http.Header{"Authorization": []string{"Basic tok"}}))
	require.ErrorIs(t, err, ErrUnauthorized)
	require.ErrorContains(t, err, "scheme must be Bearer")
	require.Empty(t, user)
}

func TestAuthMiddleware_CountsFailures(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	handler := authMiddleware(staticResolver{"tok": "alice"}, m)(captureUser(new(string)))
	ctx := context.Background()

	_, _ = handler(ctx, "tools/call", toolRequest(http.Header{"Authorization": []string{"Bearer nope"}}))
	_, _ = handler(ctx, "tools/call", toolRequest(http.Header{"Authorization": []string{"Bearer nope"}}))
	_, _ = handler(ctx, "tools/call", toolRequest(http.Header{}))
	_, err := handler(ctx, "tools/call", toolRequest(http.Header{"Authorization": []string{"Bearer tok"}}))
	require.NoError(t, err)

	require.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(`
# HELP folio_mcp_auth_failures_total Total number of MCP requests rejected by API key auth
# TYPE folio_mcp_auth_failures_total counter
folio_mcp_auth_failures_total{reason="invalid_token"} 2
folio_mcp_auth_failures_total{reason="missing_token"} 1
`), "folio_mcp_auth_failures_total"))
}

func TestAuthMiddleware_NoResolver(t *testing.T) {
	handler := authMiddleware(nil, nil)(captureUser(new(string)))
	_, err := handler(context.Background(), "tools/call", toolRequest(http.Header{"Authorization": []string{"Bearer tok"}}))
	require.ErrorIs(t, err, ErrUnauthorized)
}

func TestAuthMiddleware_SkipsProtocolMethods(t *testing.T) {
	var user string
	handler := authMiddleware(staticResolver{}, nil)(captureUser(&user))

	for _, method := range []string{"initialize", "ping", "notifications/initialized"} {
		_, err := handler(context.Background(), method, toolRequest(nil))
		require.NoError(t, err, method)
	}
	require.Empty(t, user)
}

func TestFixedUserMiddleware(t *testing.T) {
	var user string
	handler := fixedUserMiddleware(DefaultUser)(captureUser(&user))

	_, err := handler(context.Background(), "tools/call", toolRequest(nil))
	require.NoError(t, err)
	require.Equal(t, DefaultUser, user)
}

func TestSessionMiddleware(t *testing.T) {
	var session string
	handler := sessionMiddleware()(func(ctx context.Context, method string, req sdkmcp.Request) (sdkmcp.Result, error) {
		session = getSessionID(ctx)
		return nil, nil
	})
	ctx := context.Background()

	_, err := handler(ctx, "tools/call", toolRequest(http.Header{"Mcp-Session-Id": []string{"s-1"}}))
	require.NoError(t, err)
	require.Equal(t, "s-1", session)

	req := toolRequest(nil)
	req.Params.Meta = sdkmcp.Meta{"session_id": "stdio-7"}
	_, err = handler(ctx, "tools/call", req)
	require.NoError(t, err)
	require.Equal(t, "stdio-7", session)

	_, err = handler(ctx, "tools/call", &sdkmcp.CallToolRequest{})
	require.NoError(t, err)
	require.Empty(t, session)
}
