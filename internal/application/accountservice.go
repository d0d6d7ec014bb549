package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/im7mortal/kmutex"

	"github.com/ericfisherdev/accountvault/internal/domain/model"
	"github.com/ericfisherdev/accountvault/internal/domain/port/driven"
)

// ErrEmptySecret is returned when a secret write carries no material.
var ErrEmptySecret = fmt.Errorf("%w: secret is empty", driven.ErrInvalidPayload)

// AccountService owns the account lifecycle: metadata goes to the
// AccountStore, secret material goes to the SecretStore, and the two are never
// mixed. Errors from either store are returned unchanged.
//
// Concurrent secret writes to the same account are not serialized unless the
// service is built WithSecretLocking.
type AccountService struct {
	accounts driven.AccountStore
	secrets  driven.SecretStore
	logger   *slog.Logger
	locks    *kmutex.Kmutex // nil when locking is off
}

// AccountServiceOption configures an AccountService.
type AccountServiceOption func(*AccountService)

// WithSecretLocking serializes CreateSecret, UpdateSecret and Delete per
// account ID within this process.
func WithSecretLocking() AccountServiceOption {
	return func(s *AccountService) {
		s.locks = kmutex.New()
	}
}

// NewAccountService creates a new AccountService. secrets is the store resolved
// once at startup by the registry.
func NewAccountService(
	accounts driven.AccountStore,
	secrets driven.SecretStore,
	logger *slog.Logger,
	opts ...AccountServiceOption,
) *AccountService {
	if logger == nil {
		logger = slog.Default()
	}
	s := &AccountService{
		accounts: accounts,
		secrets:  secrets,
		logger:   logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SecretBackend returns the type of the active SecretStore.
func (s *AccountService) SecretBackend() string {
	return s.secrets.Type()
}

// Create validates acct, assigns it a new ID and persists its metadata. Any
// value in acct.Secret is discarded; push material with CreateSecret.
func (s *AccountService) Create(ctx context.Context, acct *model.Account) error {
	if err := acct.Validate(); err != nil {
		return err
	}
	acct.ID = uuid.NewString()
	acct.Secret = ""

	if err := s.accounts.Insert(ctx, acct); err != nil {
		return err
	}
	s.logger.Info("account created", "account", acct.ID, "org", acct.OrgID, "secret_type", acct.SecretType)
	return nil
}

// Save validates acct and overwrites its metadata. acct.Secret is cleared
// first, whatever the caller put there.
func (s *AccountService) Save(ctx context.Context, acct *model.Account) error {
	acct.Secret = ""
	if err := acct.Validate(); err != nil {
		return err
	}
	return s.accounts.Update(ctx, acct)
}

// Get returns the account's metadata. Secret is always empty.
func (s *AccountService) Get(ctx context.Context, id string) (*model.Account, error) {
	return s.accounts.GetByID(ctx, id)
}

// List returns every account in the caller's organization.
func (s *AccountService) List(ctx context.Context) ([]model.Account, error) {
	return s.accounts.ListAll(ctx)
}

// SaveExtraProps replaces the account's extra properties and saves it. The
// SecretStore is not touched.
func (s *AccountService) SaveExtraProps(ctx context.Context, acct *model.Account, props model.ExtraProps) error {
	if props == nil {
		props = model.ExtraProps{}
	}
	acct.ExtraProps = props
	return s.Save(ctx, acct)
}

// CreateSecret stores the account's initial secret material.
func (s *AccountService) CreateSecret(ctx context.Context, acct *model.Account, secret string) error {
	if secret == "" {
		return ErrEmptySecret
	}
	unlock := s.lock(acct.ID)
	defer unlock()

	if err := s.secrets.CreateSecret(ctx, acct.ID, model.NewSecretPayload(s.secrets.Key(), secret)); err != nil {
		return err
	}
	s.logger.Info("secret created", "account", acct.ID, "backend", s.secrets.Type())
	return nil
}

// UpdateSecret replaces the account's secret material.
func (s *AccountService) UpdateSecret(ctx context.Context, acct *model.Account, secret string) error {
	if secret == "" {
		return ErrEmptySecret
	}
	unlock := s.lock(acct.ID)
	defer unlock()

	if err := s.secrets.UpdateSecret(ctx, acct.ID, model.NewSecretPayload(s.secrets.Key(), secret)); err != nil {
		return err
	}
	s.logger.Info("secret updated", "account", acct.ID, "backend", s.secrets.Type())
	return nil
}

// GetSecret reads the account's secret from the store. The value is not
// cached on acct.
func (s *AccountService) GetSecret(ctx context.Context, acct *model.Account) (string, error) {
	return s.secrets.GetSecret(ctx, acct.ID)
}

// Delete removes the account's secret and then its metadata. If the secret
// delete fails the metadata is left in place and the call can be retried. A
// metadata failure after the secret is gone is logged and returned.
func (s *AccountService) Delete(ctx context.Context, acct *model.Account) error {
	unlock := s.lock(acct.ID)
	defer unlock()

	if err := s.secrets.DeleteSecret(ctx, acct.ID); err != nil {
		return err
	}

	if err := s.accounts.Delete(ctx, acct.ID); err != nil {
		if !errors.Is(err, driven.ErrAccountNotFound) {
			s.logger.Error("account metadata left without secret",
				"account", acct.ID, "backend", s.secrets.Type(), "error", err)
		}
		return err
	}
	s.logger.Info("account deleted", "account", acct.ID)
	return nil
}

func (s *AccountService) lock(id string) func() {
	if s.locks == nil {
		return func() {}
	}
	s.locks.Lock(id)
	return func() { s.locks.Unlock(id) }
}
