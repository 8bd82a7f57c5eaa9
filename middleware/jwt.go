package middleware

import (
	"context"
	"fmt"

	"github.com/golang-jwt/jwt/v5"

	"github.com/modelctx/linemcp/protocol"
)

// JWTOption configures the JWT authenticator.
type JWTOption func(*jwtConfig)

type jwtConfig struct {
	issuer   string
	audience string
	methods  []string
}

// WithJWTIssuer requires tokens to carry the given issuer claim.
func WithJWTIssuer(issuer string) JWTOption {
	return func(c *jwtConfig) {
		c.issuer = issuer
	}
}

// WithJWTAudience requires tokens to carry the given audience claim.
func WithJWTAudience(audience string) JWTOption {
	return func(c *jwtConfig) {
		c.audience = audience
	}
}

// WithJWTSigningMethods restricts the accepted signing algorithms.
// Defaults to HS256 only.
func WithJWTSigningMethods(methods ...string) JWTOption {
	return func(c *jwtConfig) {
		c.methods = methods
	}
}

// JWTAuthenticator creates an authenticator that validates JWT bearer tokens
// from the Authorization metadata entry. The identity ID is taken from the
// subject claim; all registered claims are exposed in Identity.Metadata.
func JWTAuthenticator(key []byte, opts ...JWTOption) Authenticator {
	cfg := &jwtConfig{
		methods: []string{jwt.SigningMethodHS256.Alg()},
	}
	for _, opt := range opts {
		opt(cfg)
	}

	parserOpts := []jwt.ParserOption{
		jwt.WithValidMethods(cfg.methods),
		jwt.WithExpirationRequired(),
	}
	if cfg.issuer != "" {
		parserOpts = append(parserOpts, jwt.WithIssuer(cfg.issuer))
	}
	if cfg.audience != "" {
		parserOpts = append(parserOpts, jwt.WithAudience(cfg.audience))
	}

	return func(ctx context.Context, req *protocol.Request) (*Identity, error) {
		tokenStr := bearerToken(ctx)
		if tokenStr == "" {
			return nil, nil
		}

		claims := jwt.MapClaims{}
		token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (any, error) {
			return key, nil
		}, parserOpts...)
		if err != nil {
			return nil, fmt.Errorf("invalid token: %w", err)
		}
		if !token.Valid {
			return nil, fmt.Errorf("invalid token")
		}

		subject, _ := claims.GetSubject()
		if subject == "" {
			return nil, fmt.Errorf("token missing subject claim")
		}

		metadata := make(map[string]any, len(claims))
		for k, v := range claims {
			metadata[k] = v
		}

		name := subject
		if n, ok := claims["name"].(string); ok {
			name = n
		}

		return &Identity{
			ID:       subject,
			Name:     name,
			Metadata: metadata,
		}, nil
	}
}
