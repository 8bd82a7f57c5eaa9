package middleware

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/modelctx/linemcp/protocol"
)

// CacheOption configures the cache middleware.
type CacheOption func(*cacheConfig)

type cacheConfig struct {
	size    int
	ttl     time.Duration
	methods map[string]bool
}

// WithCacheSize sets the maximum number of cached results. Defaults to 128.
func WithCacheSize(size int) CacheOption {
	return func(c *cacheConfig) {
		c.size = size
	}
}

// WithCacheTTL sets how long a cached result stays valid. Defaults to one
// minute. Zero disables expiry.
func WithCacheTTL(ttl time.Duration) CacheOption {
	return func(c *cacheConfig) {
		c.ttl = ttl
	}
}

// WithCacheMethods sets the methods whose results are cached, replacing the
// default set.
func WithCacheMethods(methods ...string) CacheOption {
	return func(c *cacheConfig) {
		c.methods = make(map[string]bool, len(methods))
		for _, m := range methods {
			c.methods[m] = true
		}
	}
}

// Cache returns middleware that caches successful results of catalog
// methods in an LRU with expiry. Catalog methods depend only on the
// registries, which are fixed after startup, so their results are safe to
// replay. A cache hit still echoes the id of the request being answered.
// By default tools/list, resources/list and resources/templates/list are
// cached; tools/call never is.
func Cache(opts ...CacheOption) Middleware {
	cfg := &cacheConfig{
		size: 128,
		ttl:  time.Minute,
		methods: map[string]bool{
			protocol.MethodToolsList:              true,
			protocol.MethodResourcesList:          true,
			protocol.MethodResourcesTemplatesList: true,
		},
	}
	for _, opt := range opts {
		opt(cfg)
	}

	cache := expirable.NewLRU[string, any](cfg.size, nil, cfg.ttl)

	return func(next HandlerFunc) HandlerFunc {
		return func(ctx context.Context, req *protocol.Request) (*protocol.Response, error) {
			if !cfg.methods[req.Method] {
				return next(ctx, req)
			}

			key := req.Method + "\x00" + string(req.Params)
			if result, ok := cache.Get(key); ok {
				return protocol.NewResponse(req.ID, result), nil
			}

			resp, err := next(ctx, req)
			if err == nil && resp != nil && resp.Error == nil {
				cache.Add(key, resp.Result)
			}
			return resp, err
		}
	}
}
