package domain

import "time"

// TokenPurpose identifies what a claim token grants the right to do.
type TokenPurpose string

const (
	// PurposeInitialSetup is issued after a confirmed purchase so the buyer
	// can set their first password.
	PurposeInitialSetup TokenPurpose = "initial_setup"

	// PurposePasswordReset is issued through the forgot-password flow.
	PurposePasswordReset TokenPurpose = "password_reset"
)

// ClaimToken is a single-use, time-bounded secret granting the right to set
// or reset an account credential. The token value itself is the lookup key.
type ClaimToken struct {
	Token     string       `json:"-" db:"token"`
	AccountID string       `json:"account_id" db:"account_id"`
	Email     string       `json:"email" db:"email"`
	Purpose   TokenPurpose `json:"purpose" db:"purpose"`
	Used      bool         `json:"used" db:"used"`
	CreatedAt time.Time    `json:"created_at" db:"created_at"`
	ExpiresAt time.Time    `json:"expires_at" db:"expires_at"`
	UsedAt    *time.Time   `json:"used_at" db:"used_at"`
}

// IsExpired reports whether the token deadline has passed at the given instant.
func (t ClaimToken) IsExpired(now time.Time) bool {
	return now.After(t.ExpiresAt)
}

// TokenClaims represents portal session JWT claims
type TokenClaims struct {
	AccountID string `json:"account_id"`
	Email     string `json:"email"`
	Exp       int64  `json:"exp"`
	Iat       int64  `json:"iat"`
}

// IsExpired checks if the session token is expired
func (tc TokenClaims) IsExpired() bool {
	return time.Now().Unix() > tc.Exp
}
