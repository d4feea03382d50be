package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hpenglish/course-portal/internal/domain"
	"github.com/hpenglish/course-portal/pkg/database"
	"github.com/lib/pq"
)

// accountRepository implements AccountRepository interface
type accountRepository struct {
	db *database.Postgres
}

// NewAccountRepository creates a new account repository
func NewAccountRepository(db *database.Postgres) AccountRepository {
	return &accountRepository{db: db}
}

// Create creates a new account in the database
func (r *accountRepository) Create(ctx context.Context, account *domain.Account) error {
	query := `
		INSERT INTO accounts (id, email, name, cpf, phone, password_hash, is_active, purchased_course, stripe_session_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	if account.ID == "" {
		account.ID = uuid.New().String()
	}

	now := time.Now()
	if account.CreatedAt.IsZero() {
		account.CreatedAt = now
	}
	if account.UpdatedAt.IsZero() {
		account.UpdatedAt = now
	}

	_, err := r.db.DB.ExecContext(ctx, query,
		account.ID,
		account.Email,
		account.Name,
		account.CPF,
		account.Phone,
		account.PasswordHash,
		account.IsActive,
		account.PurchasedCourse,
		account.StripeSessionID,
		account.CreatedAt,
		account.UpdatedAt,
	)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			if pqErr.Code == "23505" { // unique_violation
				return fmt.Errorf("account with email %s already exists: %w", account.Email, ErrDuplicateEmail)
			}
		}
		return fmt.Errorf("failed to create account: %w", err)
	}

	return nil
}

const accountColumns = `id, email, name, cpf, phone, password_hash, is_active, purchased_course, stripe_session_id, created_at, updated_at, password_updated_at`

// GetByEmail retrieves an account by normalized email
func (r *accountRepository) GetByEmail(ctx context.Context, email string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE email = $1`

	account, err := r.scanAccount(r.db.DB.QueryRowContext(ctx, query, email))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("account with email %s not found: %w", email, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get account by email: %w", err)
	}

	return account, nil
}

// GetByID retrieves an account by ID
func (r *accountRepository) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1`

	account, err := r.scanAccount(r.db.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("account with id %s not found: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get account by id: %w", err)
	}

	return account, nil
}

// UpsertProfile merges profile fields into an existing account. Empty strings
// and nil flags keep the stored values (merge semantics).
func (r *accountRepository) UpsertProfile(ctx context.Context, accountID string, profile domain.AccountProfile) error {
	query := `
		UPDATE accounts
		SET name = COALESCE(NULLIF($2, ''), name),
		    cpf = COALESCE(NULLIF($3, ''), cpf),
		    phone = COALESCE(NULLIF($4, ''), phone),
		    is_active = COALESCE($5, is_active),
		    purchased_course = COALESCE($6, purchased_course),
		    stripe_session_id = COALESCE(NULLIF($7, ''), stripe_session_id),
		    updated_at = $8
		WHERE id = $1
	`

	result, err := r.db.DB.ExecContext(ctx, query,
		accountID,
		profile.Name,
		profile.CPF,
		profile.Phone,
		profile.IsActive,
		profile.PurchasedCourse,
		profile.StripeSessionID,
		time.Now(),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert account profile: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("account with id %s not found: %w", accountID, ErrNotFound)
	}

	return nil
}

// UpdatePasswordHash replaces the stored credential for an account
func (r *accountRepository) UpdatePasswordHash(ctx context.Context, accountID, passwordHash string) error {
	query := `
		UPDATE accounts
		SET password_hash = $2, updated_at = $3
		WHERE id = $1
	`

	result, err := r.db.DB.ExecContext(ctx, query, accountID, passwordHash, time.Now())
	if err != nil {
		return fmt.Errorf("failed to update password hash: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("account with id %s not found: %w", accountID, ErrNotFound)
	}

	return nil
}

// TouchPasswordUpdated records the credential-changed bookkeeping timestamps
func (r *accountRepository) TouchPasswordUpdated(ctx context.Context, accountID string, at time.Time) error {
	query := `
		UPDATE accounts
		SET updated_at = $2, password_updated_at = $2
		WHERE id = $1
	`

	result, err := r.db.DB.ExecContext(ctx, query, accountID, at)
	if err != nil {
		return fmt.Errorf("failed to touch password updated: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("account with id %s not found: %w", accountID, ErrNotFound)
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *accountRepository) scanAccount(row rowScanner) (*domain.Account, error) {
	account := &domain.Account{}
	var passwordHash sql.NullString
	var passwordUpdatedAt sql.NullTime

	err := row.Scan(
		&account.ID,
		&account.Email,
		&account.Name,
		&account.CPF,
		&account.Phone,
		&passwordHash,
		&account.IsActive,
		&account.PurchasedCourse,
		&account.StripeSessionID,
		&account.CreatedAt,
		&account.UpdatedAt,
		&passwordUpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if passwordHash.Valid {
		account.PasswordHash = passwordHash.String
	}
	if passwordUpdatedAt.Valid {
		account.PasswordUpdatedAt = &passwordUpdatedAt.Time
	}

	return account, nil
}
