package authz

import (
	"testing"

	"github.com/google/uuid"

	pkgerrors "github.com/davidmreyes/pricewatch-backend/pkg/errors"
)

func TestEnsureOwner(t *testing.T) {
	owner := uuid.New()
	other := uuid.New()

	t.Run("sameUser", func(t *testing.T) {
		if err := EnsureOwner(&owner, &owner); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
	})

	t.Run("differentUser", func(t *testing.T) {
		err := EnsureOwner(&other, &owner)
		if err == nil {
			t.Fatal("expected forbidden error")
		}
		typed := pkgerrors.As(err)
		if typed == nil || typed.Code() != pkgerrors.CodeForbidden {
			t.Fatalf("expected forbidden code, got %v", err)
		}
	})

	t.Run("nilRequesterIsSystemCall", func(t *testing.T) {
		if err := EnsureOwner(nil, &owner); err != nil {
			t.Fatalf("nil requester must pass, got %v", err)
		}
	})

	t.Run("nilOwnerDenied", func(t *testing.T) {
		if err := EnsureOwner(&other, nil); err == nil {
			t.Fatal("expected forbidden error for unowned resource")
		}
	})
}

func TestEnsureOwnerOrAdmin(t *testing.T) {
	owner := uuid.New()
	other := uuid.New()

	if err := EnsureOwnerOrAdmin(&other, &owner, true); err != nil {
		t.Fatalf("admin must bypass ownership, got %v", err)
	}
	if err := EnsureOwnerOrAdmin(&other, &owner, false); err == nil {
		t.Fatal("non-admin must not bypass ownership")
	}
}
