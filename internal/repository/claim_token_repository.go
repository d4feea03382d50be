package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/hpenglish/course-portal/internal/domain"
	"github.com/hpenglish/course-portal/pkg/database"
)

// claimTokenRepository implements ClaimTokenRepository interface
type claimTokenRepository struct {
	db *database.Postgres
}

// NewClaimTokenRepository creates a new claim token repository
func NewClaimTokenRepository(db *database.Postgres) ClaimTokenRepository {
	return &claimTokenRepository{db: db}
}

// Create persists a freshly issued claim token
func (r *claimTokenRepository) Create(ctx context.Context, token *domain.ClaimToken) error {
	query := `
		INSERT INTO claim_tokens (token, account_id, email, purpose, used, created_at, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	if token.CreatedAt.IsZero() {
		token.CreatedAt = time.Now()
	}

	_, err := r.db.DB.ExecContext(ctx, query,
		token.Token,
		token.AccountID,
		token.Email,
		token.Purpose,
		token.Used,
		token.CreatedAt,
		token.ExpiresAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create claim token: %w", err)
	}

	return nil
}

// GetByToken retrieves a claim token by its value
func (r *claimTokenRepository) GetByToken(ctx context.Context, tokenValue string) (*domain.ClaimToken, error) {
	query := `
		SELECT token, account_id, email, purpose, used, created_at, expires_at, used_at
		FROM claim_tokens
		WHERE token = $1
	`

	token := &domain.ClaimToken{}
	var usedAt sql.NullTime

	err := r.db.DB.QueryRowContext(ctx, query, tokenValue).Scan(
		&token.Token,
		&token.AccountID,
		&token.Email,
		&token.Purpose,
		&token.Used,
		&token.CreatedAt,
		&token.ExpiresAt,
		&usedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("claim token not found: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get claim token: %w", err)
	}

	if usedAt.Valid {
		token.UsedAt = &usedAt.Time
	}

	return token, nil
}

// MarkUsed consumes a token. The conditional UPDATE makes the false→true
// transition happen at most once even under concurrent claims.
func (r *claimTokenRepository) MarkUsed(ctx context.Context, tokenValue string, usedAt time.Time) error {
	query := `
		UPDATE claim_tokens
		SET used = TRUE, used_at = $2
		WHERE token = $1 AND used = FALSE
	`

	result, err := r.db.DB.ExecContext(ctx, query, tokenValue, usedAt)
	if err != nil {
		return fmt.Errorf("failed to mark claim token used: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		// Either the token never existed or it was already consumed.
		if _, getErr := r.GetByToken(ctx, tokenValue); getErr != nil {
			return getErr
		}
		return fmt.Errorf("claim token %s: %w", tokenValue, ErrTokenAlreadyUsed)
	}

	return nil
}
