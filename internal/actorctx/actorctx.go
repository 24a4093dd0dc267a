// Package actorctx carries the authenticated caller on a context.Context so
// code below the HTTP layer can attribute work without importing gin.
package actorctx

import (
	"context"

	"github.com/geocoder89/cityevents/internal/authz"
)

type principalKey struct{}

func WithPrincipal(ctx context.Context, p *authz.Principal) context.Context {
	if p == nil {
		return ctx
	}
	return context.WithValue(ctx, principalKey{}, p)
}

func PrincipalFrom(ctx context.Context) (*authz.Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(*authz.Principal)
	return p, ok && p != nil
}

// SubjectFrom returns the caller's subject, or "anonymous".
func SubjectFrom(ctx context.Context) string {
	if p, ok := PrincipalFrom(ctx); ok && p.Subject != "" {
		return p.Subject
	}
	return "anonymous"
}
