package identity

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hpenglish/course-portal/internal/domain"
	"github.com/hpenglish/course-portal/internal/repository"
	"github.com/hpenglish/course-portal/internal/utils"
)

// postgresProvisioner implements Provisioner on top of the accounts table.
// All backend errors are translated to tagged identity errors here, once.
type postgresProvisioner struct {
	accounts   repository.AccountRepository
	bcryptCost int
}

// NewPostgresProvisioner creates the default directory adapter
func NewPostgresProvisioner(accounts repository.AccountRepository, bcryptCost int) Provisioner {
	return &postgresProvisioner{
		accounts:   accounts,
		bcryptCost: bcryptCost,
	}
}

func (p *postgresProvisioner) FindByEmail(ctx context.Context, email string) (*Identity, error) {
	account, err := p.accounts.GetByEmail(ctx, utils.NormalizeEmail(email))
	if err != nil {
		return nil, translate(err)
	}
	return toIdentity(account), nil
}

func (p *postgresProvisioner) Create(ctx context.Context, email, displayName string) (*Identity, error) {
	account := &domain.Account{
		Email: utils.NormalizeEmail(email),
		Name:  displayName,
	}

	if err := p.accounts.Create(ctx, account); err != nil {
		return nil, translate(err)
	}

	return toIdentity(account), nil
}

func (p *postgresProvisioner) UpdateCredential(ctx context.Context, identityID, newCredential string) error {
	// The directory enforces its own minimum independently of the claim
	// handler policy, mirroring backend-side credential rejections.
	if len(newCredential) < 8 {
		return NewError(KindWeakCredential, errors.New("credential shorter than 8 characters"))
	}

	hash, err := utils.HashPassword(newCredential, p.bcryptCost)
	if err != nil {
		return NewError(KindUnavailable, fmt.Errorf("failed to hash credential: %w", err))
	}

	if err := p.accounts.UpdatePasswordHash(ctx, identityID, hash); err != nil {
		return translate(err)
	}

	return nil
}

func (p *postgresProvisioner) UpsertProfile(ctx context.Context, identityID string, profile domain.AccountProfile) error {
	if err := p.accounts.UpsertProfile(ctx, identityID, profile); err != nil {
		return translate(err)
	}
	return nil
}

func (p *postgresProvisioner) TouchCredentialChanged(ctx context.Context, identityID string) error {
	if err := p.accounts.TouchPasswordUpdated(ctx, identityID, time.Now()); err != nil {
		return translate(err)
	}
	return nil
}

func (p *postgresProvisioner) GetProfile(ctx context.Context, identityID string) (*domain.Account, error) {
	account, err := p.accounts.GetByID(ctx, identityID)
	if err != nil {
		return nil, translate(err)
	}
	return account, nil
}

func (p *postgresProvisioner) VerifyCredential(ctx context.Context, email, credential string) (*Identity, error) {
	account, err := p.accounts.GetByEmail(ctx, utils.NormalizeEmail(email))
	if err != nil {
		return nil, translate(err)
	}

	if account.PasswordHash == "" || !utils.CheckPasswordHash(credential, account.PasswordHash) {
		return nil, NewError(KindNotFound, errors.New("credential mismatch"))
	}

	return toIdentity(account), nil
}

func toIdentity(account *domain.Account) *Identity {
	return &Identity{
		ID:              account.ID,
		Email:           account.Email,
		Name:            account.Name,
		IsActive:        account.IsActive,
		PurchasedCourse: account.PurchasedCourse,
	}
}

func translate(err error) error {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return NewError(KindNotFound, err)
	case errors.Is(err, repository.ErrDuplicateEmail):
		return NewError(KindAlreadyExists, err)
	default:
		return NewError(KindUnavailable, err)
	}
}
