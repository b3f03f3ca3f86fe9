package identity

import (
	"context"
	"fmt"
	"net/mail"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/platefront/platefront/backend/admin-console/pkg/logger"
)

// Service authenticates console administrators against the account store.
type Service struct {
	repo Repository
}

func NewService(r Repository) *Service {
	return &Service{repo: r}
}

// SignIn verifies the email/password pair. Failures are classified:
// ErrMalformedEmail, ErrUnknownAccount, ErrWrongPassword, or a wrapped
// store error for everything else.
func (s *Service) SignIn(ctx context.Context, email, password string) (*Account, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, ErrMalformedEmail
	}
	a, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("account lookup: %w", err)
	}
	if a == nil {
		return nil, ErrUnknownAccount
	}
	if err := bcrypt.CompareHashAndPassword(a.PasswordHash, []byte(password)); err != nil {
		return nil, ErrWrongPassword
	}
	return a, nil
}

// CreateAccount hashes the password and stores a new admin account.
func (s *Service) CreateAccount(ctx context.Context, email, name, password string) (*Account, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, ErrMalformedEmail
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	a := &Account{Email: email, Name: name, PasswordHash: hash}
	if err := s.repo.Create(ctx, a); err != nil {
		return nil, fmt.Errorf("create account: %w", err)
	}
	return a, nil
}

// EnsureBootstrapAdmin creates the initial admin account when the store
// is empty and credentials were configured. Safe to call on every start.
func (s *Service) EnsureBootstrapAdmin(ctx context.Context, email, password string) error {
	if email == "" || password == "" {
		return nil
	}
	n, err := s.repo.Count(ctx)
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	if _, err := s.CreateAccount(ctx, email, "Administrator", password); err != nil {
		return err
	}
	logger.Infof("created bootstrap admin account %s", email)
	return nil
}
