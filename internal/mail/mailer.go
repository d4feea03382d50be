// Package mail delivers the transactional email for the purchase and
// password-reset flows.
package mail

import "context"

// CourseAccessEmail carries the post-purchase message: the one-time claim URL
// plus the login URL for after the password is set.
type CourseAccessEmail struct {
	To             string
	Name           string
	SetPasswordURL string
	LoginURL       string
}

// PasswordResetEmail carries the reset message with its one-time claim URL.
type PasswordResetEmail struct {
	To       string
	Name     string
	ResetURL string
}

// Mailer is the outbound email contract.
type Mailer interface {
	SendCourseAccess(ctx context.Context, email CourseAccessEmail) error
	SendPasswordReset(ctx context.Context, email PasswordResetEmail) error
}
