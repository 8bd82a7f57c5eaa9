package protocol

import "context"

// requestMetaKey is the context key for request metadata.
type requestMetaKey struct{}

// RequestMeta carries transport-level metadata for a request, such as HTTP
// headers on a WebSocket upgrade. Stdio transports have none.
type RequestMeta map[string]string

// Get returns the value for key, or the empty string if absent.
func (m RequestMeta) Get(key string) string {
	if m == nil {
		return ""
	}
	return m[key]
}

// ContextWithRequestMeta returns a new context with the request metadata attached.
func ContextWithRequestMeta(ctx context.Context, meta RequestMeta) context.Context {
	return context.WithValue(ctx, requestMetaKey{}, meta)
}

// RequestMetaFromContext returns the request metadata from the context, or nil
// if none is present.
func RequestMetaFromContext(ctx context.Context) RequestMeta {
	meta, _ := ctx.Value(requestMetaKey{}).(RequestMeta)
	return meta
}

// GetRequestMeta returns a specific metadata value from the context. Returns
// the empty string if the key is not found or no metadata is present.
func GetRequestMeta(ctx context.Context, key string) string {
	return RequestMetaFromContext(ctx).Get(key)
}
