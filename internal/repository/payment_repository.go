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

// paymentRepository implements PaymentRepository interface
type paymentRepository struct {
	db *database.Postgres
}

// NewPaymentRepository creates a new payment repository
func NewPaymentRepository(db *database.Postgres) PaymentRepository {
	return &paymentRepository{db: db}
}

// CreateIfAbsent records a payment unless one already exists for the session.
// ON CONFLICT DO NOTHING keeps the existence check and the write in a single
// statement, so two concurrent webhook deliveries cannot both win.
func (r *paymentRepository) CreateIfAbsent(ctx context.Context, record *domain.PaymentRecord) error {
	query := `
		INSERT INTO payments (session_id, payment_intent_id, status, email, created_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (session_id) DO NOTHING
	`

	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now()
	}

	result, err := r.db.DB.ExecContext(ctx, query,
		record.SessionID,
		record.PaymentIntentID,
		record.Status,
		record.Email,
		record.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create payment record: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("payment for session %s: %w", record.SessionID, ErrDuplicatePayment)
	}

	return nil
}

// GetBySessionID retrieves a payment record by its session id
func (r *paymentRepository) GetBySessionID(ctx context.Context, sessionID string) (*domain.PaymentRecord, error) {
	query := `
		SELECT session_id, payment_intent_id, status, email, created_at
		FROM payments
		WHERE session_id = $1
	`

	record := &domain.PaymentRecord{}
	var paymentIntentID sql.NullString

	err := r.db.DB.QueryRowContext(ctx, query, sessionID).Scan(
		&record.SessionID,
		&paymentIntentID,
		&record.Status,
		&record.Email,
		&record.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("payment for session %s not found: %w", sessionID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get payment record: %w", err)
	}

	if paymentIntentID.Valid {
		record.PaymentIntentID = &paymentIntentID.String
	}

	return record, nil
}
