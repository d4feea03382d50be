package repository

import "errors"

// Common repository errors
var (
	// ErrNotFound is returned when a record is not found
	ErrNotFound = errors.New("record not found")

	// ErrDuplicateEmail is returned when trying to create an account with an existing email
	ErrDuplicateEmail = errors.New("account with this email already exists")

	// ErrTokenAlreadyUsed is returned when consuming a claim token a second time
	ErrTokenAlreadyUsed = errors.New("claim token already used")

	// ErrDuplicatePayment is returned when a payment record already exists for a session
	ErrDuplicatePayment = errors.New("payment record already exists for this session")
)
