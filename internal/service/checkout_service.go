package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/hpenglish/course-portal/internal/config"
	"github.com/hpenglish/course-portal/internal/dto"
	"github.com/hpenglish/course-portal/internal/identity"
	"github.com/hpenglish/course-portal/internal/payment"
	"github.com/hpenglish/course-portal/internal/utils"
	"go.uber.org/zap"
)

// Price tiers selected by the time-based cutoff rule.
const (
	TierLote1 = "lote1"
	TierFinal = "final"
)

// checkoutService implements CheckoutService interface
type checkoutService struct {
	provisioner identity.Provisioner
	payments    payment.Client
	stripeCfg   config.StripeConfig
	checkoutCfg config.CheckoutConfig
	baseURL     string
	logger      *zap.Logger
	now         func() time.Time
}

// NewCheckoutService creates a new checkout service
func NewCheckoutService(
	provisioner identity.Provisioner,
	payments payment.Client,
	stripeCfg config.StripeConfig,
	checkoutCfg config.CheckoutConfig,
	baseURL string,
	logger *zap.Logger,
) CheckoutService {
	return &checkoutService{
		provisioner: provisioner,
		payments:    payments,
		stripeCfg:   stripeCfg,
		checkoutCfg: checkoutCfg,
		baseURL:     baseURL,
		logger:      logger,
		now:         time.Now,
	}
}

// purchaseInput holds the normalized buyer fields after validation
type purchaseInput struct {
	Name  string
	Email string
	CPF   string
	Phone string
}

// CreateSession validates the purchase input, rejects duplicate purchases and
// opens a hosted checkout session for the current price tier.
func (s *checkoutService) CreateSession(ctx context.Context, req *dto.CheckoutRequest) (*dto.CheckoutResponse, error) {
	input, err := validatePurchaseInput(req)
	if err != nil {
		return nil, err
	}

	// Pre-checkout guard: one active purchase per email.
	existing, err := s.provisioner.FindByEmail(ctx, input.Email)
	if err != nil && identity.KindOf(err) != identity.KindNotFound {
		return nil, fmt.Errorf("failed to look up buyer identity: %w", err)
	}
	if existing != nil && (existing.IsActive || existing.PurchasedCourse) {
		return nil, &ConflictError{
			Message: "Já existe um cadastro ativo com este e-mail. Faça login para acessar o curso.",
		}
	}

	priceID, tier := s.resolveTier(s.now())
	if priceID == "" || s.baseURL == "" {
		return nil, errors.New("checkout is not configured")
	}

	session, err := s.payments.CreateCheckoutSession(ctx, payment.CheckoutParams{
		PriceID:    priceID,
		Email:      input.Email,
		SuccessURL: s.baseURL + "/checkout/sucesso?session_id={CHECKOUT_SESSION_ID}",
		CancelURL:  s.baseURL + "/#catalogo",
		Metadata: map[string]string{
			"name":      input.Name,
			"cpf":       input.CPF,
			"phone":     input.Phone,
			"email":     input.Email,
			"priceTier": tier,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create payment session: %w", err)
	}

	s.logger.Info("Checkout session created",
		zap.String("session_id", session.ID),
		zap.String("tier", tier),
	)

	return &dto.CheckoutResponse{URL: session.URL}, nil
}

// resolveTier picks the price for the given instant. The cutoff instant
// itself still belongs to lote 1.
func (s *checkoutService) resolveTier(now time.Time) (string, string) {
	if !now.After(s.checkoutCfg.Lote1End) {
		return s.stripeCfg.PriceLote1, TierLote1
	}
	return s.stripeCfg.PriceFinal, TierFinal
}

// validatePurchaseInput normalizes and checks all buyer fields. The first
// failing rule wins.
func validatePurchaseInput(req *dto.CheckoutRequest) (*purchaseInput, error) {
	input := &purchaseInput{
		Name:  strings.TrimSpace(req.Name),
		Email: utils.NormalizeEmail(req.Email),
		CPF:   utils.NormalizeDigits(req.CPF),
		Phone: utils.NormalizeDigits(req.Phone),
	}

	if !utils.ValidateName(input.Name) {
		return nil, &ValidationError{Message: "Informe seu nome completo."}
	}

	if !utils.ValidateEmail(input.Email) {
		return nil, &ValidationError{Message: "Informe um e-mail válido."}
	}

	if !utils.ValidateCPF(input.CPF) {
		return nil, &ValidationError{Message: "Informe um CPF com 11 dígitos."}
	}

	if !utils.ValidatePhone(input.Phone) {
		return nil, &ValidationError{Message: "Informe um telefone com DDD (10 ou 11 dígitos)."}
	}

	return input, nil
}
