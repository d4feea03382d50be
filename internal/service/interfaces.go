package service

import (
	"context"

	"github.com/hpenglish/course-portal/internal/domain"
	"github.com/hpenglish/course-portal/internal/dto"
)

// CheckoutService validates purchase input and opens hosted checkout sessions
type CheckoutService interface {
	CreateSession(ctx context.Context, req *dto.CheckoutRequest) (*dto.CheckoutResponse, error)
}

// WebhookService authenticates and processes payment processor events
type WebhookService interface {
	HandleEvent(ctx context.Context, payload []byte, signatureHeader string) error
}

// ClaimService redeems claim tokens and drives the forgot-password flow
type ClaimService interface {
	// SetPassword applies a new credential for the identity a token points
	// at. The returned request id correlates logs with the HTTP response,
	// on both success and failure.
	SetPassword(ctx context.Context, req *dto.SetPasswordRequest) (string, error)
	ForgotPassword(ctx context.Context, email string) error
}

// AuthService backs the thin student portal
type AuthService interface {
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error)
	GetProfile(ctx context.Context, accountID string) (*dto.ProfileResponse, error)
	ValidateToken(ctx context.Context, token string) (*domain.TokenClaims, error)
}
