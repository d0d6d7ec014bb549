// Package keyring implements the SecretStore port on a 99designs/keyring
// backend. Production uses the encrypted file backend, one JWE file per
// account, so the service runs headless without an OS keychain.
package keyring

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"sync"

	"github.com/99designs/keyring"

	"github.com/ericfisherdev/accountvault/internal/domain/model"
	"github.com/ericfisherdev/accountvault/internal/domain/port/driven"
)

// SecretStoreType is the configuration name of the keyring secret backend.
const SecretStoreType = "keyring"

const (
	secretKey   = "secret"
	serviceName = "accountvault"
	itemPrefix  = "account-"
)

// Compile-time interface satisfaction check.
var _ driven.SecretStore = (*Store)(nil)

// Config holds the file backend settings.
type Config struct {
	Dir      string
	Password string
}

// Store keeps each account's payload as one keyring item keyed account-{id}.
//
// Policy: CreateSecret returns ErrSecretAlreadyExists when an item exists,
// UpdateSecret returns ErrSecretNotFound when it does not, and DeleteSecret
// ignores missing items. The keyring API has no conditional write, so the
// existence check and the write run under mu.
type Store struct {
	ring keyring.Keyring
	mu   sync.Mutex
}

// Open opens the encrypted file keyring described by cfg.
func Open(cfg Config) (*Store, error) {
	if cfg.Dir == "" {
		return nil, fmt.Errorf("%w: keyring directory is required", driven.ErrStoreMisconfigured)
	}
	if cfg.Password == "" {
		return nil, fmt.Errorf("%w: keyring password is required", driven.ErrStoreMisconfigured)
	}

	ring, err := keyring.Open(keyring.Config{
		ServiceName:      serviceName,
		AllowedBackends:  []keyring.BackendType{keyring.FileBackend},
		FileDir:          cfg.Dir,
		FilePasswordFunc: keyring.FixedStringPrompt(cfg.Password),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: open keyring: %w", driven.ErrStoreMisconfigured, err)
	}
	return New(ring), nil
}

// New wraps an already opened keyring.
func New(ring keyring.Keyring) *Store {
	return &Store{ring: ring}
}

// Type implements driven.SecretStore.
func (s *Store) Type() string { return SecretStoreType }

// Key implements driven.SecretStore.
func (s *Store) Key() string { return secretKey }

// CreateSecret stores the payload for an account that has no secret yet.
func (s *Store) CreateSecret(_ context.Context, accountID string, payload model.SecretPayload) error {
	item, err := newItem(accountID, payload)
	if err != nil {
		return fmt.Errorf("create secret %s: %w", accountID, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	exists, err := s.exists(item.Key)
	if err != nil {
		return fmt.Errorf("create secret %s: %w", accountID, err)
	}
	if exists {
		return fmt.Errorf("create secret %s: %w", accountID, driven.ErrSecretAlreadyExists)
	}

	if err := s.ring.Set(item); err != nil {
		return fmt.Errorf("create secret %s: %w: %w", accountID, driven.ErrStoreUnavailable, err)
	}
	return nil
}

// UpdateSecret replaces the payload of an existing secret.
func (s *Store) UpdateSecret(_ context.Context, accountID string, payload model.SecretPayload) error {
	item, err := newItem(accountID, payload)
	if err != nil {
		return fmt.Errorf("update secret %s: %w", accountID, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	exists, err := s.exists(item.Key)
	if err != nil {
		return fmt.Errorf("update secret %s: %w", accountID, err)
	}
	if !exists {
		return fmt.Errorf("update secret %s: %w", accountID, driven.ErrSecretNotFound)
	}

	if err := s.ring.Set(item); err != nil {
		return fmt.Errorf("update secret %s: %w: %w", accountID, driven.ErrStoreUnavailable, err)
	}
	return nil
}

// GetSecret returns the stored secret string.
func (s *Store) GetSecret(_ context.Context, accountID string) (string, error) {
	item, err := s.ring.Get(itemKey(accountID))
	if err != nil {
		if errors.Is(err, keyring.ErrKeyNotFound) {
			return "", fmt.Errorf("get secret %s: %w", accountID, driven.ErrSecretNotFound)
		}
		return "", fmt.Errorf("get secret %s: %w: %w", accountID, driven.ErrStoreUnavailable, err)
	}

	var payload model.SecretPayload
	if err := json.Unmarshal(item.Data, &payload); err != nil {
		return "", fmt.Errorf("get secret %s: %w: decode item: %w", accountID, driven.ErrInvalidPayload, err)
	}
	value, ok := payload.Value(secretKey)
	if !ok {
		return "", fmt.Errorf("get secret %s: %w: no %q entry", accountID, driven.ErrInvalidPayload, secretKey)
	}
	return value, nil
}

// DeleteSecret removes the account's item. A missing item is not an error.
func (s *Store) DeleteSecret(_ context.Context, accountID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.ring.Remove(itemKey(accountID))
	if err != nil && !errors.Is(err, keyring.ErrKeyNotFound) && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("delete secret %s: %w: %w", accountID, driven.ErrStoreUnavailable, err)
	}
	return nil
}

func (s *Store) exists(key string) (bool, error) {
	_, err := s.ring.Get(key)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, keyring.ErrKeyNotFound):
		return false, nil
	default:
		return false, fmt.Errorf("%w: %w", driven.ErrStoreUnavailable, err)
	}
}

func itemKey(accountID string) string {
	return itemPrefix + accountID
}

func newItem(accountID string, payload model.SecretPayload) (keyring.Item, error) {
	if _, ok := payload.Value(secretKey); !ok {
		return keyring.Item{}, fmt.Errorf("%w: missing string entry %q", driven.ErrInvalidPayload, secretKey)
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return keyring.Item{}, fmt.Errorf("%w: encode payload: %w", driven.ErrInvalidPayload, err)
	}
	return keyring.Item{
		Key:   itemKey(accountID),
		Data:  data,
		Label: "accountvault secret for " + accountID,
	}, nil
}
