package repository

import (
	"context"
	"time"

	"github.com/hpenglish/course-portal/internal/domain"
)

// AccountRepository defines methods for account operations
type AccountRepository interface {
	Create(ctx context.Context, account *domain.Account) error
	GetByEmail(ctx context.Context, email string) (*domain.Account, error)
	GetByID(ctx context.Context, id string) (*domain.Account, error)
	UpsertProfile(ctx context.Context, accountID string, profile domain.AccountProfile) error
	UpdatePasswordHash(ctx context.Context, accountID, passwordHash string) error
	TouchPasswordUpdated(ctx context.Context, accountID string, at time.Time) error
}

// ClaimTokenRepository defines methods for claim token operations
type ClaimTokenRepository interface {
	Create(ctx context.Context, token *domain.ClaimToken) error
	GetByToken(ctx context.Context, token string) (*domain.ClaimToken, error)
	// MarkUsed flips the used flag exactly once. It returns ErrTokenAlreadyUsed
	// when the token was consumed before and ErrNotFound when it does not exist.
	MarkUsed(ctx context.Context, token string, usedAt time.Time) error
}

// PaymentRepository defines methods for payment record operations
type PaymentRepository interface {
	// CreateIfAbsent writes the record only when no record exists for its
	// session id. The write is a single conditional insert so concurrent
	// deliveries of the same session race safely; it returns
	// ErrDuplicatePayment for the loser.
	CreateIfAbsent(ctx context.Context, record *domain.PaymentRecord) error
	GetBySessionID(ctx context.Context, sessionID string) (*domain.PaymentRecord, error)
}
