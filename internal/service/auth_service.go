package service

import (
	"context"
	"fmt"
	"time"

	"github.com/hpenglish/course-portal/internal/domain"
	"github.com/hpenglish/course-portal/internal/dto"
	"github.com/hpenglish/course-portal/internal/identity"
	"github.com/hpenglish/course-portal/internal/utils"
)

// authService implements AuthService interface
type authService struct {
	provisioner identity.Provisioner
	jwtManager  *utils.JWTManager
}

// NewAuthService creates a new auth service
func NewAuthService(provisioner identity.Provisioner, jwtManager *utils.JWTManager) AuthService {
	return &authService{
		provisioner: provisioner,
		jwtManager:  jwtManager,
	}
}

// Login authenticates a student and issues a portal access token
func (s *authService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error) {
	ident, err := s.provisioner.VerifyCredential(ctx, req.Email, req.Password)
	if err != nil {
		if identity.KindOf(err) == identity.KindNotFound {
			return nil, &UnauthorizedError{Message: "E-mail ou senha inválidos."}
		}
		return nil, fmt.Errorf("failed to verify credential: %w", err)
	}

	if !ident.IsActive {
		return nil, &UnauthorizedError{Message: "Conta inativa."}
	}

	accessToken, err := s.jwtManager.GenerateAccessToken(ident.ID, ident.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	return &dto.LoginResponse{
		AccessToken: accessToken,
		TokenType:   "Bearer",
		ExpiresIn:   s.jwtManager.GetAccessTokenExpiry(),
		User: dto.UserInfo{
			ID:    ident.ID,
			Email: ident.Email,
			Name:  ident.Name,
		},
	}, nil
}

// GetProfile returns the profile document for the authenticated student
func (s *authService) GetProfile(ctx context.Context, accountID string) (*dto.ProfileResponse, error) {
	account, err := s.provisioner.GetProfile(ctx, accountID)
	if err != nil {
		if identity.KindOf(err) == identity.KindNotFound {
			return nil, &NotFoundError{Message: "Conta não encontrada."}
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}

	return &dto.ProfileResponse{
		ID:              account.ID,
		Email:           account.Email,
		Name:            account.Name,
		CPF:             account.CPF,
		Phone:           account.Phone,
		IsActive:        account.IsActive,
		PurchasedCourse: account.PurchasedCourse,
		CreatedAt:       account.CreatedAt.Format(time.RFC3339),
		UpdatedAt:       account.UpdatedAt.Format(time.RFC3339),
	}, nil
}

// ValidateToken validates a portal access token
func (s *authService) ValidateToken(ctx context.Context, token string) (*domain.TokenClaims, error) {
	claims, err := s.jwtManager.ValidateToken(token)
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}
	return claims, nil
}
