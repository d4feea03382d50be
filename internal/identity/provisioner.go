// Package identity exposes the user-directory contract the purchase and claim
// workflows depend on: lookup, creation, credential update and profile upsert.
// Failures cross this boundary as tagged errors so callers never branch on
// opaque backend codes.
package identity

import (
	"context"
	"errors"
	"fmt"

	"github.com/hpenglish/course-portal/internal/domain"
)

// Kind classifies a provisioner failure.
type Kind string

const (
	KindNotFound       Kind = "not_found"
	KindAlreadyExists  Kind = "already_exists"
	KindWeakCredential Kind = "weak_credential"
	KindUnavailable    Kind = "unavailable"
)

// Error is the tagged error returned by every Provisioner implementation.
type Error struct {
	Kind  Kind
	cause error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("identity: %s: %v", e.Kind, e.cause)
	}
	return fmt.Sprintf("identity: %s", e.Kind)
}

func (e *Error) Unwrap() error {
	return e.cause
}

// NewError wraps a backend failure with its classification.
func NewError(kind Kind, cause error) *Error {
	return &Error{Kind: kind, cause: cause}
}

// KindOf extracts the classification from an error chain. Unrecognized errors
// report KindUnavailable.
func KindOf(err error) Kind {
	var identityErr *Error
	if errors.As(err, &identityErr) {
		return identityErr.Kind
	}
	return KindUnavailable
}

// Identity is the directory view of an account: who it is plus the flags the
// pre-checkout guard needs.
type Identity struct {
	ID              string
	Email           string
	Name            string
	IsActive        bool
	PurchasedCourse bool
}

// Provisioner is the user-directory service contract.
type Provisioner interface {
	// FindByEmail looks up an identity by normalized email.
	FindByEmail(ctx context.Context, email string) (*Identity, error)

	// Create registers a new identity without a credential. The buyer sets
	// the credential later through a claim token.
	Create(ctx context.Context, email, displayName string) (*Identity, error)

	// UpdateCredential replaces the stored credential for an identity.
	UpdateCredential(ctx context.Context, identityID, newCredential string) error

	// UpsertProfile merges profile fields into the document keyed by
	// identity id, preserving fields the update does not carry.
	UpsertProfile(ctx context.Context, identityID string, profile domain.AccountProfile) error

	// TouchCredentialChanged records credential-change bookkeeping. It is a
	// secondary write: callers log failures and move on.
	TouchCredentialChanged(ctx context.Context, identityID string) error

	// GetProfile returns the full profile document for an identity.
	GetProfile(ctx context.Context, identityID string) (*domain.Account, error)

	// VerifyCredential checks an email/credential pair for portal login.
	VerifyCredential(ctx context.Context, email, credential string) (*Identity, error)
}
