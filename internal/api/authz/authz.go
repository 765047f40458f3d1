package authz

import (
	"context"
	"errors"
	"time"
)

var (
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrForbidden       = errors.New("forbidden")
)

const RoleAdmin = "admin"

// Identity is the signed-in Clerk user.
type Identity struct {
	UserID string `json:"id"`
	Email  string `json:"email"`
	Name   string `json:"name"`
}

// Admin is a Clerk user granted access to the dashboard.
type Admin struct {
	UserID    string    `json:"userId"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

type identityContextKey struct{}
type adminContextKey struct{}

func ContextWithIdentity(ctx context.Context, identity *Identity) context.Context {
	return context.WithValue(ctx, identityContextKey{}, identity)
}

// IdentityFromContext returns nil if ctx is nil or carries no identity.
func IdentityFromContext(ctx context.Context) *Identity {
	if ctx == nil {
		return nil
	}
	identity, ok := ctx.Value(identityContextKey{}).(*Identity)
	if !ok {
		return nil
	}
	return identity
}

func ContextWithAdmin(ctx context.Context, admin *Admin) context.Context {
	return context.WithValue(ctx, adminContextKey{}, admin)
}

func AdminFromContext(ctx context.Context) *Admin {
	if ctx == nil {
		return nil
	}
	admin, ok := ctx.Value(adminContextKey{}).(*Admin)
	if !ok {
		return nil
	}
	return admin
}

// RequireAdmin returns ErrUnauthenticated when nobody is signed in and
// ErrForbidden when the signed-in user is not an admin.
func RequireAdmin(ctx context.Context) error {
	identity := IdentityFromContext(ctx)
	if identity == nil {
		return ErrUnauthenticated
	}
	admin := AdminFromContext(ctx)
	if admin == nil || admin.UserID != identity.UserID {
		return ErrForbidden
	}
	return nil
}
