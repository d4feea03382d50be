// Package payment wraps the Stripe API behind a small client interface so
// services can be exercised without network access.
package payment

import (
	"context"
	"errors"
)

// Event types recognized by the webhook handler.
const (
	EventCheckoutCompleted     = "checkout.session.completed"
	EventAsyncPaymentSucceeded = "checkout.session.async_payment_succeeded"
	PaymentStatusPaid          = "paid"
)

// ErrInvalidSignature is returned when an inbound event fails authentication.
var ErrInvalidSignature = errors.New("invalid webhook signature")

// CheckoutParams carries everything needed to open a hosted checkout session.
// The buyer metadata travels with the session and comes back on the webhook.
type CheckoutParams struct {
	PriceID    string
	Email      string
	SuccessURL string
	CancelURL  string
	Metadata   map[string]string
}

// CheckoutSession is the processor's view of one checkout attempt.
type CheckoutSession struct {
	ID                   string
	URL                  string
	PaymentIntentID      string
	PaymentStatus        string
	CustomerEmail        string
	CustomerDetailsEmail string
	Metadata             map[string]string
}

// Event is a verified inbound processor event.
type Event struct {
	ID      string
	Type    string
	Session CheckoutSession
}

// Client is the payment processor contract.
type Client interface {
	// CreateCheckoutSession opens a hosted checkout and returns the redirect
	// target along with the session id.
	CreateCheckoutSession(ctx context.Context, params CheckoutParams) (*CheckoutSession, error)

	// VerifyEvent authenticates a raw webhook payload against its signature
	// header and decodes the embedded checkout session. It returns
	// ErrInvalidSignature when authentication fails.
	VerifyEvent(payload []byte, signatureHeader string) (*Event, error)
}
