package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/hpenglish/course-portal/internal/domain"
	"github.com/hpenglish/course-portal/internal/identity"
	"github.com/hpenglish/course-portal/internal/mail"
	"github.com/hpenglish/course-portal/internal/payment"
	"github.com/hpenglish/course-portal/internal/repository"
)

// fakeProvisioner is an in-memory identity directory.
type fakeProvisioner struct {
	mu      sync.Mutex
	nextID  int
	byEmail map[string]*identity.Identity
	byID    map[string]*identity.Identity
	creds   map[string]string
	touched map[string]int
	findErr error
}

func newFakeProvisioner() *fakeProvisioner {
	return &fakeProvisioner{
		byEmail: make(map[string]*identity.Identity),
		byID:    make(map[string]*identity.Identity),
		creds:   make(map[string]string),
		touched: make(map[string]int),
	}
}

func (f *fakeProvisioner) add(id, email, name string, active, purchased bool) *identity.Identity {
	f.mu.Lock()
	defer f.mu.Unlock()

	ident := &identity.Identity{ID: id, Email: email, Name: name, IsActive: active, PurchasedCourse: purchased}
	f.byEmail[email] = ident
	f.byID[id] = ident
	return ident
}

func (f *fakeProvisioner) FindByEmail(ctx context.Context, email string) (*identity.Identity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.findErr != nil {
		return nil, f.findErr
	}

	ident, ok := f.byEmail[email]
	if !ok {
		return nil, identity.NewError(identity.KindNotFound, nil)
	}
	return ident, nil
}

func (f *fakeProvisioner) Create(ctx context.Context, email, displayName string) (*identity.Identity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.byEmail[email]; ok {
		return nil, identity.NewError(identity.KindAlreadyExists, nil)
	}

	f.nextID++
	ident := &identity.Identity{
		ID:    fmt.Sprintf("acc-%d", f.nextID),
		Email: email,
		Name:  displayName,
	}
	f.byEmail[email] = ident
	f.byID[ident.ID] = ident
	return ident, nil
}

func (f *fakeProvisioner) UpdateCredential(ctx context.Context, identityID, newCredential string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.byID[identityID]; !ok {
		return identity.NewError(identity.KindNotFound, nil)
	}
	if len(newCredential) < 8 {
		return identity.NewError(identity.KindWeakCredential, nil)
	}
	f.creds[identityID] = newCredential
	return nil
}

func (f *fakeProvisioner) UpsertProfile(ctx context.Context, identityID string, profile domain.AccountProfile) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	ident, ok := f.byID[identityID]
	if !ok {
		return identity.NewError(identity.KindNotFound, nil)
	}
	if profile.Name != "" {
		ident.Name = profile.Name
	}
	if profile.IsActive != nil {
		ident.IsActive = *profile.IsActive
	}
	if profile.PurchasedCourse != nil {
		ident.PurchasedCourse = *profile.PurchasedCourse
	}
	return nil
}

func (f *fakeProvisioner) TouchCredentialChanged(ctx context.Context, identityID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.touched[identityID]++
	return nil
}

func (f *fakeProvisioner) GetProfile(ctx context.Context, identityID string) (*domain.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	ident, ok := f.byID[identityID]
	if !ok {
		return nil, identity.NewError(identity.KindNotFound, nil)
	}
	return &domain.Account{
		ID:              ident.ID,
		Email:           ident.Email,
		Name:            ident.Name,
		IsActive:        ident.IsActive,
		PurchasedCourse: ident.PurchasedCourse,
	}, nil
}

func (f *fakeProvisioner) VerifyCredential(ctx context.Context, email, credential string) (*identity.Identity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	ident, ok := f.byEmail[email]
	if !ok {
		return nil, identity.NewError(identity.KindNotFound, nil)
	}
	if f.creds[ident.ID] != credential {
		return nil, identity.NewError(identity.KindNotFound, nil)
	}
	return ident, nil
}

func (f *fakeProvisioner) credential(identityID string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.creds[identityID]
}

func (f *fakeProvisioner) touchCount(identityID string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.touched[identityID]
}

// fakeTokenRepo stores claim tokens in memory with the same single-use
// semantics as the SQL implementation.
type fakeTokenRepo struct {
	mu     sync.Mutex
	tokens map[string]*domain.ClaimToken
}

func newFakeTokenRepo() *fakeTokenRepo {
	return &fakeTokenRepo{tokens: make(map[string]*domain.ClaimToken)}
}

func (f *fakeTokenRepo) Create(ctx context.Context, token *domain.ClaimToken) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	copied := *token
	f.tokens[token.Token] = &copied
	return nil
}

func (f *fakeTokenRepo) GetByToken(ctx context.Context, tokenValue string) (*domain.ClaimToken, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	token, ok := f.tokens[tokenValue]
	if !ok {
		return nil, fmt.Errorf("claim token not found: %w", repository.ErrNotFound)
	}
	copied := *token
	return &copied, nil
}

func (f *fakeTokenRepo) MarkUsed(ctx context.Context, tokenValue string, usedAt time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	token, ok := f.tokens[tokenValue]
	if !ok {
		return fmt.Errorf("claim token not found: %w", repository.ErrNotFound)
	}
	if token.Used {
		return fmt.Errorf("claim token %s: %w", tokenValue, repository.ErrTokenAlreadyUsed)
	}
	token.Used = true
	token.UsedAt = &usedAt
	return nil
}

func (f *fakeTokenRepo) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.tokens)
}

func (f *fakeTokenRepo) single() *domain.ClaimToken {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, token := range f.tokens {
		copied := *token
		return &copied
	}
	return nil
}

// fakePaymentRepo mirrors the ON CONFLICT DO NOTHING behavior of the SQL
// payment store.
type fakePaymentRepo struct {
	mu      sync.Mutex
	records map[string]*domain.PaymentRecord
}

func newFakePaymentRepo() *fakePaymentRepo {
	return &fakePaymentRepo{records: make(map[string]*domain.PaymentRecord)}
}

func (f *fakePaymentRepo) CreateIfAbsent(ctx context.Context, record *domain.PaymentRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.records[record.SessionID]; ok {
		return fmt.Errorf("payment for session %s: %w", record.SessionID, repository.ErrDuplicatePayment)
	}
	copied := *record
	f.records[record.SessionID] = &copied
	return nil
}

func (f *fakePaymentRepo) GetBySessionID(ctx context.Context, sessionID string) (*domain.PaymentRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	record, ok := f.records[sessionID]
	if !ok {
		return nil, fmt.Errorf("payment for session %s not found: %w", sessionID, repository.ErrNotFound)
	}
	copied := *record
	return &copied, nil
}

func (f *fakePaymentRepo) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.records)
}

// fakeMailer records outbound email instead of sending it.
type fakeMailer struct {
	mu         sync.Mutex
	accessSent []mail.CourseAccessEmail
	resetSent  []mail.PasswordResetEmail
	accessErr  error
	resetErr   error
}

func newFakeMailer() *fakeMailer {
	return &fakeMailer{}
}

func (f *fakeMailer) SendCourseAccess(ctx context.Context, email mail.CourseAccessEmail) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.accessErr != nil {
		return f.accessErr
	}
	f.accessSent = append(f.accessSent, email)
	return nil
}

func (f *fakeMailer) SendPasswordReset(ctx context.Context, email mail.PasswordResetEmail) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.resetErr != nil {
		return f.resetErr
	}
	f.resetSent = append(f.resetSent, email)
	return nil
}

func (f *fakeMailer) accessCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.accessSent)
}

// fakePaymentClient returns canned sessions and events.
type fakePaymentClient struct {
	mu         sync.Mutex
	session    *payment.CheckoutSession
	createErr  error
	lastParams payment.CheckoutParams
	event      *payment.Event
	verifyErr  error
}

func (f *fakePaymentClient) CreateCheckoutSession(ctx context.Context, params payment.CheckoutParams) (*payment.CheckoutSession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.lastParams = params
	if f.createErr != nil {
		return nil, f.createErr
	}
	return f.session, nil
}

func (f *fakePaymentClient) VerifyEvent(payload []byte, signatureHeader string) (*payment.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.verifyErr != nil {
		return nil, f.verifyErr
	}
	return f.event, nil
}
