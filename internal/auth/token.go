package auth

import (
	"context"
	"errors"
)

// TokenSource yields bearer tokens for upstream API calls. Implementations
// may take time to become ready after process start; callers that cannot
// tolerate that use WaitForToken.
type TokenSource interface {
	// Token returns a bearer token, or ErrNotReady while the underlying
	// provider is still initializing.
	Token(ctx context.Context) (string, error)
}

// ErrNotReady signals the identity provider has not finished initializing.
var ErrNotReady = errors.New("token source not ready")

// StaticSource returns a fixed token. Used for service credentials and tests.
type StaticSource string

func (s StaticSource) Token(ctx context.Context) (string, error) {
	if s == "" {
		return "", ErrNotReady
	}
	return string(s), nil
}

type ctxKey struct{}

// WithToken stores a request-scoped bearer token in ctx. The upstream client
// prefers this over its configured TokenSource, so each gateway request is
// made with the caller's own identity.
func WithToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, ctxKey{}, token)
}

// FromContext returns the request-scoped token, if any.
func FromContext(ctx context.Context) (string, bool) {
	tok, ok := ctx.Value(ctxKey{}).(string)
	return tok, ok && tok != ""
}
