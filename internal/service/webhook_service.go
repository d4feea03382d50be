package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/hpenglish/course-portal/internal/domain"
	"github.com/hpenglish/course-portal/internal/identity"
	"github.com/hpenglish/course-portal/internal/mail"
	"github.com/hpenglish/course-portal/internal/payment"
	"github.com/hpenglish/course-portal/internal/repository"
	"github.com/hpenglish/course-portal/internal/utils"
	"go.uber.org/zap"
)

// ErrInvalidSignature marks an event that failed webhook authentication.
var ErrInvalidSignature = payment.ErrInvalidSignature

// webhookService implements WebhookService interface
type webhookService struct {
	payments    payment.Client
	paymentRepo repository.PaymentRepository
	tokenRepo   repository.ClaimTokenRepository
	provisioner identity.Provisioner
	mailer      mail.Mailer
	tokenTTL    time.Duration
	baseURL     string
	logger      *zap.Logger
	now         func() time.Time
}

// NewWebhookService creates a new webhook service
func NewWebhookService(
	payments payment.Client,
	paymentRepo repository.PaymentRepository,
	tokenRepo repository.ClaimTokenRepository,
	provisioner identity.Provisioner,
	mailer mail.Mailer,
	tokenTTL time.Duration,
	baseURL string,
	logger *zap.Logger,
) WebhookService {
	return &webhookService{
		payments:    payments,
		paymentRepo: paymentRepo,
		tokenRepo:   tokenRepo,
		provisioner: provisioner,
		mailer:      mailer,
		tokenTTL:    tokenTTL,
		baseURL:     baseURL,
		logger:      logger,
		now:         time.Now,
	}
}

// HandleEvent authenticates an inbound processor event and, for paid checkout
// sessions, provisions the buyer account exactly once per session.
func (s *webhookService) HandleEvent(ctx context.Context, payload []byte, signatureHeader string) error {
	event, err := s.payments.VerifyEvent(payload, signatureHeader)
	if err != nil {
		if errors.Is(err, payment.ErrInvalidSignature) {
			return err
		}
		return fmt.Errorf("failed to decode webhook event: %w", err)
	}

	switch event.Type {
	case payment.EventCheckoutCompleted, payment.EventAsyncPaymentSucceeded:
	default:
		// Unrecognized types are acknowledged without side effects.
		return nil
	}

	isPaid := event.Session.PaymentStatus == payment.PaymentStatusPaid ||
		event.Type == payment.EventAsyncPaymentSucceeded
	if !isPaid {
		return nil
	}

	return s.handlePaidSession(ctx, &event.Session)
}

func (s *webhookService) handlePaidSession(ctx context.Context, session *payment.CheckoutSession) error {
	email := buyerEmail(session)
	if email == "" {
		// No address to notify; nothing to provision.
		s.logger.Warn("Paid session has no buyer email, skipping provisioning",
			zap.String("session_id", session.ID),
		)
		return nil
	}

	name := strings.TrimSpace(session.Metadata["name"])
	if name == "" {
		name = email
	}
	cpf := utils.NormalizeDigits(session.Metadata["cpf"])
	phone := utils.NormalizeDigits(session.Metadata["phone"])

	// Record the payment before provisioning. A retried delivery for the
	// same session short-circuits here even if a later step failed; a crash
	// between this write and provisioning completion leaves an orphaned
	// payment record, which is accepted and not auto-recovered.
	record := &domain.PaymentRecord{
		SessionID: session.ID,
		Status:    session.PaymentStatus,
		Email:     email,
	}
	if session.PaymentIntentID != "" {
		record.PaymentIntentID = &session.PaymentIntentID
	}

	if err := s.paymentRepo.CreateIfAbsent(ctx, record); err != nil {
		if errors.Is(err, repository.ErrDuplicatePayment) {
			s.logger.Info("Duplicate webhook delivery, already processed",
				zap.String("session_id", session.ID),
			)
			return nil
		}
		return fmt.Errorf("failed to record payment: %w", err)
	}

	buyer, err := s.provisioner.FindByEmail(ctx, email)
	if err != nil {
		if identity.KindOf(err) != identity.KindNotFound {
			return fmt.Errorf("failed to look up buyer identity: %w", err)
		}
		buyer, err = s.provisioner.Create(ctx, email, name)
		if err != nil {
			return fmt.Errorf("failed to create buyer identity: %w", err)
		}
	}

	active := true
	purchased := true
	profile := domain.AccountProfile{
		Name:            name,
		CPF:             cpf,
		Phone:           phone,
		IsActive:        &active,
		PurchasedCourse: &purchased,
		StripeSessionID: session.ID,
	}
	if err := s.provisioner.UpsertProfile(ctx, buyer.ID, profile); err != nil {
		return fmt.Errorf("failed to upsert buyer profile: %w", err)
	}

	tokenValue, err := s.issueToken(ctx, buyer.ID, email, domain.PurposeInitialSetup)
	if err != nil {
		return err
	}

	// Payment acknowledgment must not depend on mail delivery.
	accessEmail := mail.CourseAccessEmail{
		To:             email,
		Name:           name,
		SetPasswordURL: fmt.Sprintf("%s/criar-senha?token=%s", s.baseURL, tokenValue),
		LoginURL:       s.baseURL + "/login",
	}
	if err := s.mailer.SendCourseAccess(ctx, accessEmail); err != nil {
		s.logger.Error("Failed to send course access email",
			zap.String("session_id", session.ID),
			zap.Error(err),
		)
	}

	s.logger.Info("Buyer provisioned",
		zap.String("session_id", session.ID),
		zap.String("account_id", buyer.ID),
	)

	return nil
}

func (s *webhookService) issueToken(ctx context.Context, accountID, email string, purpose domain.TokenPurpose) (string, error) {
	tokenValue, err := utils.GenerateClaimToken()
	if err != nil {
		return "", err
	}

	now := s.now()
	token := &domain.ClaimToken{
		Token:     tokenValue,
		AccountID: accountID,
		Email:     email,
		Purpose:   purpose,
		CreatedAt: now,
		ExpiresAt: now.Add(s.tokenTTL),
	}

	if err := s.tokenRepo.Create(ctx, token); err != nil {
		return "", fmt.Errorf("failed to store claim token: %w", err)
	}

	return tokenValue, nil
}

// buyerEmail prefers the processor-confirmed address, then the session email,
// then the metadata echo of the checkout form.
func buyerEmail(session *payment.CheckoutSession) string {
	for _, candidate := range []string{
		session.CustomerDetailsEmail,
		session.CustomerEmail,
		session.Metadata["email"],
	} {
		if email := utils.NormalizeEmail(candidate); email != "" {
			return email
		}
	}
	return ""
}
