package domain

import "time"

// Account represents a student account in the system. The credential hash is
// owned by the identity adapter and never leaves the repository layer.
type Account struct {
	ID                string     `json:"id" db:"id"`
	Email             string     `json:"email" db:"email"`
	Name              string     `json:"name" db:"name"`
	CPF               string     `json:"cpf" db:"cpf"`
	Phone             string     `json:"phone" db:"phone"`
	PasswordHash      string     `json:"-" db:"password_hash"`
	IsActive          bool       `json:"is_active" db:"is_active"`
	PurchasedCourse   bool       `json:"purchased_course" db:"purchased_course"`
	StripeSessionID   string     `json:"stripe_session_id" db:"stripe_session_id"`
	CreatedAt         time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at" db:"updated_at"`
	PasswordUpdatedAt *time.Time `json:"password_updated_at" db:"password_updated_at"`
}

// AccountProfile carries the profile fields written by provisioning. Empty
// string fields and nil flags are left untouched on merge.
type AccountProfile struct {
	Name            string
	CPF             string
	Phone           string
	IsActive        *bool
	PurchasedCourse *bool
	StripeSessionID string
}
