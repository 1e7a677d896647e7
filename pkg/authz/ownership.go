// Package authz holds the ownership predicate applied before every read of a
// single owned resource and before any mutation.
package authz

import (
	"github.com/google/uuid"

	pkgerrors "github.com/davidmreyes/pricewatch-backend/pkg/errors"
)

// EnsureOwner fails with a forbidden error when the requester differs from the
// resource owner. A nil requester is treated as an internal/system call and is
// allowed through.
func EnsureOwner(requester, owner *uuid.UUID) error {
	if requester == nil {
		return nil
	}
	if owner == nil || *requester != *owner {
		return pkgerrors.New(pkgerrors.CodeForbidden, "resource belongs to another user")
	}
	return nil
}

// EnsureOwnerOrAdmin allows admins to bypass the ownership check.
func EnsureOwnerOrAdmin(requester, owner *uuid.UUID, isAdmin bool) error {
	if isAdmin {
		return nil
	}
	return EnsureOwner(requester, owner)
}
