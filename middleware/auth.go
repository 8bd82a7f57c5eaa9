package middleware

import (
	"context"
	"strings"

	"github.com/modelctx/linemcp/protocol"
)

// Identity represents an authenticated identity.
type Identity struct {
	// ID is a unique identifier for the identity, such as a user or API key ID.
	ID string
	// Name is a human-readable name for the identity.
	Name string
	// Metadata contains additional identity information.
	Metadata map[string]any
}

// identityContextKey is the context key for storing the identity.
type identityContextKey struct{}

// IdentityFromContext returns the authenticated identity from the context,
// or nil if none is present.
func IdentityFromContext(ctx context.Context) *Identity {
	if id, ok := ctx.Value(identityContextKey{}).(*Identity); ok {
		return id
	}
	return nil
}

// ContextWithIdentity returns a new context with the identity attached.
func ContextWithIdentity(ctx context.Context, identity *Identity) context.Context {
	return context.WithValue(ctx, identityContextKey{}, identity)
}

// AuthOption configures the authentication middleware.
type AuthOption func(*authConfig)

type authConfig struct {
	logger       Logger
	skipMethods  map[string]bool
	errorMessage string
}

// WithAuthLogger sets the logger for auth events.
func WithAuthLogger(l Logger) AuthOption {
	return func(c *authConfig) {
		c.logger = l
	}
}

// WithAuthSkipMethods specifies additional methods that don't require
// authentication. "initialize" and "ping" are always skipped.
func WithAuthSkipMethods(methods ...string) AuthOption {
	return func(c *authConfig) {
		for _, m := range methods {
			c.skipMethods[m] = true
		}
	}
}

// WithAuthErrorMessage sets a custom error message for auth failures.
func WithAuthErrorMessage(msg string) AuthOption {
	return func(c *authConfig) {
		c.errorMessage = msg
	}
}

// Authenticator validates credentials and returns an identity. A nil
// identity without an error means no usable credentials were found.
type Authenticator func(ctx context.Context, req *protocol.Request) (*Identity, error)

// Auth returns middleware that authenticates requests using the provided
// authenticator. Failed authentication rejects the request with an
// unauthorized error; the transport still turns that into a response line.
func Auth(authenticator Authenticator, opts ...AuthOption) Middleware {
	cfg := &authConfig{
		skipMethods: map[string]bool{
			protocol.MethodInitialize: true,
			protocol.MethodPing:       true,
		},
		errorMessage: "authentication required",
	}
	for _, opt := range opts {
		opt(cfg)
	}

	return func(next HandlerFunc) HandlerFunc {
		return func(ctx context.Context, req *protocol.Request) (*protocol.Response, error) {
			if cfg.skipMethods[req.Method] {
				return next(ctx, req)
			}

			identity, err := authenticator(ctx, req)
			if err != nil || identity == nil {
				if cfg.logger != nil {
					fields := []Field{F("method", req.Method)}
					if err != nil {
						fields = append(fields, F("error", err.Error()))
					}
					cfg.logger.Warn("authentication failed", fields...)
				}
				return nil, &protocol.Error{
					Code:    protocol.CodeUnauthorized,
					Message: cfg.errorMessage,
				}
			}

			if cfg.logger != nil {
				cfg.logger.Debug("authenticated",
					F("method", req.Method),
					F("identity", identity.ID),
				)
			}

			return next(ContextWithIdentity(ctx, identity), req)
		}
	}
}

// APIKeyAuthenticator creates an authenticator that validates API keys taken
// from request metadata. On stdio there is no metadata, so stdio deployments
// normally run without Auth; the WebSocket transport exposes the upgrade
// request headers as metadata.
func APIKeyAuthenticator(headerName string, keyValidator func(key string) *Identity) Authenticator {
	return func(ctx context.Context, req *protocol.Request) (*Identity, error) {
		key := protocol.GetRequestMeta(ctx, headerName)
		if key == "" {
			key = protocol.GetRequestMeta(ctx, strings.ToLower(headerName))
		}
		if key == "" {
			return nil, nil
		}
		return keyValidator(key), nil
	}
}

// BearerTokenAuthenticator creates an authenticator that validates bearer
// tokens from the Authorization metadata entry.
func BearerTokenAuthenticator(tokenValidator func(token string) *Identity) Authenticator {
	return func(ctx context.Context, req *protocol.Request) (*Identity, error) {
		token := bearerToken(ctx)
		if token == "" {
			return nil, nil
		}
		return tokenValidator(token), nil
	}
}

// bearerToken extracts the token from an "Authorization: Bearer <token>"
// metadata entry, or returns the empty string.
func bearerToken(ctx context.Context) string {
	auth := protocol.GetRequestMeta(ctx, "Authorization")
	if auth == "" {
		auth = protocol.GetRequestMeta(ctx, "authorization")
	}

	const prefix = "Bearer "
	if !strings.HasPrefix(auth, prefix) {
		return ""
	}
	return strings.TrimPrefix(auth, prefix)
}

// StaticAPIKeys creates a simple key validator from a map of key -> identity.
func StaticAPIKeys(keys map[string]*Identity) func(string) *Identity {
	return func(key string) *Identity {
		return keys[key]
	}
}

// StaticTokens creates a simple token validator from a map of token -> identity.
func StaticTokens(tokens map[string]*Identity) func(string) *Identity {
	return func(token string) *Identity {
		return tokens[token]
	}
}

// ChainAuthenticators chains multiple authenticators, returning the first
// successful identity.
func ChainAuthenticators(authenticators ...Authenticator) Authenticator {
	return func(ctx context.Context, req *protocol.Request) (*Identity, error) {
		for _, auth := range authenticators {
			identity, err := auth(ctx, req)
			if err != nil {
				return nil, err
			}
			if identity != nil {
				return identity, nil
			}
		}
		return nil, nil
	}
}
