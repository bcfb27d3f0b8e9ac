// Package shared holds request-scoped helpers used across modules.
package shared

import (
	"context"

	"github.com/google/uuid"
)

type userContextKey struct{}

// ContextWithUserID stores the authenticated user id in context.
func ContextWithUserID(ctx context.Context, id uuid.UUID) context.Context {
	return context.WithValue(ctx, userContextKey{}, id)
}

// UserIDFromContext extracts the authenticated user id from context.
// The second return is false on requests that never passed the auth guard.
func UserIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(userContextKey{}).(uuid.UUID)
	return id, ok
}
