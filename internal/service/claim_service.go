package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/hpenglish/course-portal/internal/domain"
	"github.com/hpenglish/course-portal/internal/dto"
	"github.com/hpenglish/course-portal/internal/identity"
	"github.com/hpenglish/course-portal/internal/mail"
	"github.com/hpenglish/course-portal/internal/repository"
	"github.com/hpenglish/course-portal/internal/utils"
	"go.uber.org/zap"
)

// claimService implements ClaimService interface
type claimService struct {
	tokenRepo   repository.ClaimTokenRepository
	provisioner identity.Provisioner
	mailer      mail.Mailer
	tokenTTL    time.Duration
	baseURL     string
	logger      *zap.Logger
	now         func() time.Time
}

// NewClaimService creates a new claim service
func NewClaimService(
	tokenRepo repository.ClaimTokenRepository,
	provisioner identity.Provisioner,
	mailer mail.Mailer,
	tokenTTL time.Duration,
	baseURL string,
	logger *zap.Logger,
) ClaimService {
	return &claimService{
		tokenRepo:   tokenRepo,
		provisioner: provisioner,
		mailer:      mailer,
		tokenTTL:    tokenTTL,
		baseURL:     baseURL,
		logger:      logger,
		now:         time.Now,
	}
}

// SetPassword redeems a claim token. Checks run in order, first failure wins;
// wall-clock time is read once up front.
func (s *claimService) SetPassword(ctx context.Context, req *dto.SetPasswordRequest) (string, error) {
	requestID := uuid.New().String()
	now := s.now()

	s.logger.Info("Set password request received", zap.String("request_id", requestID))

	tokenValue := strings.TrimSpace(req.Token)
	if tokenValue == "" {
		return requestID, &ValidationError{Message: "Token inválido."}
	}

	if !utils.ValidatePassword(req.Password) {
		return requestID, &ValidationError{
			Message: "A senha deve ter ao menos 8 caracteres, incluindo letras e números.",
		}
	}

	token, err := s.tokenRepo.GetByToken(ctx, tokenValue)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return requestID, &ValidationError{Message: "Token não encontrado."}
		}
		return requestID, fmt.Errorf("failed to load claim token: %w", err)
	}

	if token.Used {
		return requestID, &ValidationError{Message: "Token já utilizado."}
	}

	if token.IsExpired(now) {
		return requestID, &ValidationError{Message: "Token expirado."}
	}

	if err := s.provisioner.UpdateCredential(ctx, token.AccountID, req.Password); err != nil {
		switch identity.KindOf(err) {
		case identity.KindNotFound:
			return requestID, &ValidationError{Message: "Usuário não encontrado para este token."}
		case identity.KindWeakCredential:
			return requestID, &ValidationError{
				Message: "A senha não atende aos requisitos de segurança.",
			}
		default:
			return requestID, fmt.Errorf("failed to update credential: %w", err)
		}
	}

	// The credential change is the source of truth. Token consumption and
	// account bookkeeping are independent writes; either failing is logged
	// and never rolls the credential back.
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		if err := s.tokenRepo.MarkUsed(ctx, tokenValue, now); err != nil {
			s.logger.Error("Failed to mark claim token used",
				zap.String("request_id", requestID),
				zap.Error(err),
			)
		}
	}()

	go func() {
		defer wg.Done()
		if err := s.provisioner.TouchCredentialChanged(ctx, token.AccountID); err != nil {
			s.logger.Error("Failed to touch credential bookkeeping",
				zap.String("request_id", requestID),
				zap.Error(err),
			)
		}
	}()

	wg.Wait()

	s.logger.Info("Password updated successfully", zap.String("request_id", requestID))
	return requestID, nil
}

// ForgotPassword issues a password_reset token for an existing account and
// mails the claim URL.
func (s *claimService) ForgotPassword(ctx context.Context, email string) error {
	normalized := utils.NormalizeEmail(email)
	if !utils.ValidateEmail(normalized) {
		return &ValidationError{Message: "Informe um e-mail válido."}
	}

	account, err := s.provisioner.FindByEmail(ctx, normalized)
	if err != nil {
		if identity.KindOf(err) == identity.KindNotFound {
			return &NotFoundError{Message: "Não encontramos cadastro com este e-mail."}
		}
		return fmt.Errorf("failed to look up account: %w", err)
	}

	name := account.Name
	if name == "" {
		name = normalized
	}

	tokenValue, err := utils.GenerateClaimToken()
	if err != nil {
		return err
	}

	now := s.now()
	token := &domain.ClaimToken{
		Token:     tokenValue,
		AccountID: account.ID,
		Email:     normalized,
		Purpose:   domain.PurposePasswordReset,
		CreatedAt: now,
		ExpiresAt: now.Add(s.tokenTTL),
	}
	if err := s.tokenRepo.Create(ctx, token); err != nil {
		return fmt.Errorf("failed to store claim token: %w", err)
	}

	resetEmail := mail.PasswordResetEmail{
		To:       normalized,
		Name:     name,
		ResetURL: fmt.Sprintf("%s/criar-senha?token=%s", s.baseURL, tokenValue),
	}
	if err := s.mailer.SendPasswordReset(ctx, resetEmail); err != nil {
		return fmt.Errorf("failed to send password reset email: %w", err)
	}

	return nil
}
