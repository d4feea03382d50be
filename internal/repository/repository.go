package repository

import (
	"github.com/hpenglish/course-portal/pkg/database"
)

// Repositories holds all repository interfaces
type Repositories struct {
	Account AccountRepository
	Token   ClaimTokenRepository
	Payment PaymentRepository
}

// NewRepositories creates all repositories
func NewRepositories(db *database.Postgres) *Repositories {
	return &Repositories{
		Account: NewAccountRepository(db),
		Token:   NewClaimTokenRepository(db),
		Payment: NewPaymentRepository(db),
	}
}
