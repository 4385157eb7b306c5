// Package principal carries the authenticated caller through a context.Context.
//
// Resource servers store the Principal once, in their auth middleware, and
// read it back wherever authorization decisions are made. Nothing here is
// process-global.
package principal

import (
	"context"
	"time"
)

// Principal is the identity proven by a validated token.
type Principal struct {
	Subject     string
	Authorities []string
	TokenID     string
	IssuedAt    time.Time
	ExpiresAt   time.Time
}

// HasAuthority reports whether the principal was granted authority.
func (p *Principal) HasAuthority(authority string) bool {
	if p == nil {
		return false
	}
	for _, a := range p.Authorities {
		if a == authority {
			return true
		}
	}
	return false
}

// HasAnyAuthority reports whether the principal holds at least one of authorities.
func (p *Principal) HasAnyAuthority(authorities ...string) bool {
	for _, a := range authorities {
		if p.HasAuthority(a) {
			return true
		}
	}
	return false
}

type ctxKey struct{}

// WithPrincipal returns a copy of ctx carrying p.
func WithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, ctxKey{}, p)
}

// FromContext returns the principal stored in ctx, if any.
func FromContext(ctx context.Context) (*Principal, bool) {
	p, ok := ctx.Value(ctxKey{}).(*Principal)
	return p, ok && p != nil
}
