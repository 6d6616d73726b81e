// Package auth implements password hashing, session token issuance and
// verification, and the request-scoped identity carried between them.
package auth

import "context"

// SessionClaims is the identity recovered from a verified token.
type SessionClaims struct {
	UserID   int64
	Username string
}

type ctxKey struct{}

// WithClaims returns a copy of ctx carrying c.
func WithClaims(ctx context.Context, c SessionClaims) context.Context {
	return context.WithValue(ctx, ctxKey{}, c)
}

// ClaimsFromContext returns the claims stored by WithClaims, if any.
func ClaimsFromContext(ctx context.Context) (SessionClaims, bool) {
	c, ok := ctx.Value(ctxKey{}).(SessionClaims)
	return c, ok
}
