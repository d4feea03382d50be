package payment

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/checkout/session"
	"github.com/stripe/stripe-go/v82/webhook"
)

// stripeClient implements Client against the Stripe API
type stripeClient struct {
	webhookSecret string
}

// NewStripeClient configures the Stripe SDK and returns the default client
func NewStripeClient(secretKey, webhookSecret string) Client {
	stripe.Key = secretKey
	return &stripeClient{webhookSecret: webhookSecret}
}

func (c *stripeClient) CreateCheckoutSession(ctx context.Context, params CheckoutParams) (*CheckoutSession, error) {
	sessionParams := &stripe.CheckoutSessionParams{
		Mode: stripe.String(string(stripe.CheckoutSessionModePayment)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				Price:    stripe.String(params.PriceID),
				Quantity: stripe.Int64(1),
			},
		},
		CustomerEmail: stripe.String(params.Email),
		SuccessURL:    stripe.String(params.SuccessURL),
		CancelURL:     stripe.String(params.CancelURL),
	}
	sessionParams.Context = ctx

	for key, value := range params.Metadata {
		sessionParams.AddMetadata(key, value)
	}

	s, err := session.New(sessionParams)
	if err != nil {
		return nil, fmt.Errorf("failed to create checkout session: %w", err)
	}

	if s.URL == "" {
		return nil, fmt.Errorf("checkout session %s has no redirect URL", s.ID)
	}

	return &CheckoutSession{
		ID:  s.ID,
		URL: s.URL,
	}, nil
}

// checkoutSessionPayload mirrors the fields of the checkout.session object the
// webhook handler needs; the raw event carries much more.
type checkoutSessionPayload struct {
	ID              string            `json:"id"`
	PaymentIntent   json.RawMessage   `json:"payment_intent"`
	PaymentStatus   string            `json:"payment_status"`
	CustomerEmail   string            `json:"customer_email"`
	CustomerDetails *customerDetails  `json:"customer_details"`
	Metadata        map[string]string `json:"metadata"`
}

type customerDetails struct {
	Email string `json:"email"`
}

func (c *stripeClient) VerifyEvent(payload []byte, signatureHeader string) (*Event, error) {
	event, err := webhook.ConstructEventWithOptions(payload, signatureHeader, c.webhookSecret, webhook.ConstructEventOptions{
		IgnoreAPIVersionMismatch: true,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}

	verified := &Event{
		ID:   event.ID,
		Type: string(event.Type),
	}

	switch verified.Type {
	case EventCheckoutCompleted, EventAsyncPaymentSucceeded:
		var s checkoutSessionPayload
		if err := json.Unmarshal(event.Data.Raw, &s); err != nil {
			return nil, fmt.Errorf("failed to decode checkout session: %w", err)
		}

		verified.Session = CheckoutSession{
			ID:              s.ID,
			PaymentIntentID: decodePaymentIntent(s.PaymentIntent),
			PaymentStatus:   s.PaymentStatus,
			CustomerEmail:   s.CustomerEmail,
			Metadata:        s.Metadata,
		}
		if s.CustomerDetails != nil {
			verified.Session.CustomerDetailsEmail = s.CustomerDetails.Email
		}
	}

	return verified, nil
}

// decodePaymentIntent handles payment_intent arriving either as a bare id or
// as an expanded object.
func decodePaymentIntent(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}

	var id string
	if err := json.Unmarshal(raw, &id); err == nil {
		return id
	}

	var obj struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(raw, &obj); err == nil {
		return obj.ID
	}

	return ""
}
