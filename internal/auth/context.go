package auth

import (
	"context"

	"github.com/google/uuid"
	"github.com/josh-kwaku/learning-backend/internal/domain"
)

type identityKey struct{}

// Identity is the authenticated caller as resolved from the bearer token.
type Identity struct {
	UserID uuid.UUID
	Role   domain.UserRole
}

func ContextWithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

func IdentityFromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(Identity)
	return id, ok
}

func UserIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	id, ok := IdentityFromContext(ctx)
	return id.UserID, ok
}
