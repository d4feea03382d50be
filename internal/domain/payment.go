package domain

import "time"

// PaymentRecord is the durable trace of one confirmed checkout session.
// Its existence for a given session id is the sole idempotency guard against
// at-least-once webhook delivery.
type PaymentRecord struct {
	SessionID       string    `json:"session_id" db:"session_id"`
	PaymentIntentID *string   `json:"payment_intent_id" db:"payment_intent_id"`
	Status          string    `json:"status" db:"status"`
	Email           string    `json:"email" db:"email"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
}
