package mcp

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/rpggio/folio/internal/metrics"
)

type contextKey int

const (
	userIDKey contextKey = iota
	sessionIDKey
)

// ErrUnauthorized is returned for requests that carry no usable API key.
var ErrUnauthorized = errors.New("unauthorized")

// Auth failure reasons, also used as metric labels.
const (
	authMissingHeaders    = "missing_headers"
	authMissingToken      = "missing_token"
	authUnsupportedScheme = "unsupported_scheme"
	authInvalidToken      = "invalid_token"
)

func getUserID(ctx context.Context) string {
	v, _ := ctx.Value(userIDKey).(string)
	return v
}

func getSessionID(ctx context.Context) string {
	v, _ := ctx.Value(sessionIDKey).(string)
	return v
}

func withUser(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// UserResolver maps an API key to the user that owns it.
type UserResolver interface {
	ResolveUser(ctx context.Context, token string) (string, error)
}

// skipsAuth reports whether method is part of the protocol handshake and
// carries no user data.
func skipsAuth(method string) bool {
	return method == "initialize" || method == "ping" || strings.HasPrefix(method, "notifications/")
}

// bearerToken extracts the API key from an Authorization header. The scheme
// name is case-insensitive.
func bearerToken(h http.Header) (string, string) {
	auth := strings.TrimSpace(h.Get("Authorization"))
	if auth == "" {
		return "", authMissingToken
	}
	scheme, token, found := strings.Cut(auth, " ")
	if !strings.EqualFold(scheme, "Bearer") {
		return "", authUnsupportedScheme
	}
	token = strings.TrimSpace(token)
	if !found || token == "" {
		return "", authMissingToken
	}
	return token, ""
}

// authMiddleware resolves the calling user from the request's API key.
// Every failure is reported as ErrUnauthorized and counted in m.
func authMiddleware(resolver UserResolver, m *metrics.Metrics) sdkmcp.Middleware {
	deny := func(reason, detail string) error {
		m.AuthFailure(reason)
		return fmt.Errorf("%w: %s", ErrUnauthorized, detail)
	}

	return func(next sdkmcp.MethodHandler) sdkmcp.MethodHandler {
		return func(ctx context.Context, method string, req sdkmcp.Request) (sdkmcp.Result, error) {
			if skipsAuth(method) {
				return next(ctx, method, req)
			}

			extra := req.GetExtra()
			if extra == nil || extra.Header == nil {
				return nil, deny(authMissingHeaders, "missing headers")
			}

			token, reason := bearerToken(extra.Header)
			switch reason {
			case "":
			case authUnsupportedScheme:
				return nil, deny(reason, "authorization scheme must be Bearer")
			default:
				return nil, deny(reason, "missing bearer token")
			}

			if resolver == nil {
				return nil, deny(authInvalidToken, "no key store configured")
			}
			userID, err := resolver.ResolveUser(ctx, token)
			if err != nil || userID == "" {
				return nil, deny(authInvalidToken, "invalid bearer token")
			}

			return next(withUser(ctx, userID), method, req)
		}
	}
}

// fixedUserMiddleware runs every request as userID. Used for stdio and for
// HTTP with auth disabled.
func fixedUserMiddleware(userID string) sdkmcp.Middleware {
	return func(next sdkmcp.MethodHandler) sdkmcp.MethodHandler {
		return func(ctx context.Context, method string, req sdkmcp.Request) (sdkmcp.Result, error) {
			return next(withUser(ctx, userID), method, req)
		}
	}
}

// sessionMiddleware tags the context with the client session id, taken from
// the Mcp-Session-Id header over HTTP or the session_id meta key of a tool
// call over stdio.
func sessionMiddleware() sdkmcp.Middleware {
	return func(next sdkmcp.MethodHandler) sdkmcp.MethodHandler {
		return func(ctx context.Context, method string, req sdkmcp.Request) (sdkmcp.Result, error) {
			if id := requestSessionID(req); id != "" {
				ctx = context.WithValue(ctx, sessionIDKey, id)
			}
			return next(ctx, method, req)
		}
	}
}

func requestSessionID(req sdkmcp.Request) string {
	if extra := req.GetExtra(); extra != nil && extra.Header != nil {
		if id := extra.Header.Get("Mcp-Session-Id"); id != "" {
			return id
		}
	}
	call, ok := req.(*sdkmcp.CallToolRequest)
	if !ok || call.Params == nil {
		return ""
	}
	id, _ := call.Params.GetMeta()["session_id"].(string)
	return id
}
