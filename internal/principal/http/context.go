// Package http provides HTTP handlers and authentication middleware for
// principal management.
package http

import (
	"context"

	principalDomain "github.com/allisson/warden/internal/principal/domain"
)

// actorKey is a context key type for storing the authenticated principal.
type actorKey struct{}

// WithActor stores the authenticated principal in the context.
// This is called by the authentication middleware after successful token validation.
func WithActor(ctx context.Context, actor *principalDomain.Principal) context.Context {
	return context.WithValue(ctx, actorKey{}, actor)
}

// GetActor retrieves the authenticated principal from the context.
// Returns (actor, true) if an actor is present, or (nil, false) if none was set.
// This is typically called by handlers that need the acting principal.
func GetActor(ctx context.Context) (*principalDomain.Principal, bool) {
	actor, ok := ctx.Value(actorKey{}).(*principalDomain.Principal)
	return actor, ok
}
