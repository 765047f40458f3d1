package authz

import (
	"context"
	"errors"
	"testing"
)

func TestRequireAdminUnauthenticated(t *testing.T) {
	err := RequireAdmin(context.Background())
	if !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
}

func TestRequireAdminSignedInNonAdminForbidden(t *testing.T) {
	ctx := ContextWithIdentity(context.Background(), &Identity{UserID: "user_1"})

	err := RequireAdmin(ctx)
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestRequireAdminMismatchedAdminForbidden(t *testing.T) {
	ctx := ContextWithIdentity(context.Background(), &Identity{UserID: "user_1"})
	ctx = ContextWithAdmin(ctx, &Admin{UserID: "user_2", Role: RoleAdmin})

	err := RequireAdmin(ctx)
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestRequireAdminAllowed(t *testing.T) {
	ctx := ContextWithIdentity(context.Background(), &Identity{UserID: "user_1"})
	ctx = ContextWithAdmin(ctx, &Admin{UserID: "user_1", Role: RoleAdmin})

	if err := RequireAdmin(ctx); err != nil {
		t.Fatalf("expected nil, got %v", err)
	}
}

func TestFromContextNil(t *testing.T) {
	var ctx context.Context
	if IdentityFromContext(ctx) != nil {
		t.Fatalf("expected nil identity")
	}
	if AdminFromContext(context.Background()) != nil {
		t.Fatalf("expected nil admin")
	}
}
