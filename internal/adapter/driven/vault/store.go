// Package vault implements the SecretStore port on a HashiCorp Vault (or
// OpenBao) KV version 2 secrets engine.
package vault

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/hashicorp/vault/api"

	"github.com/ericfisherdev/accountvault/internal/domain/model"
	"github.com/ericfisherdev/accountvault/internal/domain/port/driven"
)

// SecretStoreType is the configuration name of the Vault secret backend.
const SecretStoreType = "vault"

// secretKey is the payload discriminator, matching the conventional KV field name.
const secretKey = "value"

// Compile-time interface satisfaction check.
var _ driven.SecretStore = (*Store)(nil)

// Config holds the settings needed to reach a KV v2 mount.
type Config struct {
	Address    string
	Token      string
	Mount      string        // KV v2 mount path; defaults to "secret".
	Prefix     string        // path segment under the mount; defaults to "accounts".
	Timeout    time.Duration // per-request timeout; zero keeps the client default.
	MaxRetries int           // client retries on 5xx and 412; negative keeps the client default.
}

// Store keeps each account's payload as one KV v2 secret at
// {mount}/data/{prefix}/{accountID}.
//
// Policy: CreateSecret writes with check-and-set 0 and returns
// ErrSecretAlreadyExists if any version exists. UpdateSecret uses a JSON
// merge patch, which Vault rejects with 404 when the secret does not exist,
// surfaced as ErrSecretNotFound. DeleteSecret removes the metadata and every
// version; a missing secret is not an error.
type Store struct {
	kv     *api.KVv2
	prefix string
}

// New builds a Store from cfg. It does not contact Vault; missing address or
// token is reported as ErrStoreMisconfigured.
func New(cfg Config) (*Store, error) {
	if cfg.Address == "" {
		return nil, fmt.Errorf("%w: vault address is required", driven.ErrStoreMisconfigured)
	}
	if cfg.Token == "" {
		return nil, fmt.Errorf("%w: vault token is required", driven.ErrStoreMisconfigured)
	}

	mount := strings.Trim(cfg.Mount, "/")
	if mount == "" {
		mount = "secret"
	}
	prefix := strings.Trim(cfg.Prefix, "/")
	if prefix == "" {
		prefix = "accounts"
	}

	apiCfg := api.DefaultConfig()
	if apiCfg.Error != nil {
		return nil, fmt.Errorf("%w: vault client config: %w", driven.ErrStoreMisconfigured, apiCfg.Error)
	}
	apiCfg.Address = strings.TrimRight(cfg.Address, "/")
	if cfg.Timeout > 0 {
		apiCfg.Timeout = cfg.Timeout
	}
	if cfg.MaxRetries >= 0 {
		apiCfg.MaxRetries = cfg.MaxRetries
	}

	client, err := api.NewClient(apiCfg)
	if err != nil {
		return nil, fmt.Errorf("%w: vault client: %w", driven.ErrStoreMisconfigured, err)
	}
	client.SetToken(cfg.Token)

	return &Store{
		kv:     client.KVv2(mount),
		prefix: prefix,
	}, nil
}

// Type implements driven.SecretStore.
func (s *Store) Type() string { return SecretStoreType }

// Key implements driven.SecretStore.
func (s *Store) Key() string { return secretKey }

// CreateSecret writes the first version of the account's secret.
func (s *Store) CreateSecret(ctx context.Context, accountID string, payload model.SecretPayload) error {
	if err := validate(payload); err != nil {
		return fmt.Errorf("create secret %s: %w", accountID, err)
	}

	_, err := s.kv.Put(ctx, s.path(accountID), payload, api.WithCheckAndSet(0))
	if err != nil {
		if isCheckAndSetMismatch(err) {
			return fmt.Errorf("create secret %s: %w", accountID, driven.ErrSecretAlreadyExists)
		}
		return unavailable("create secret", accountID, err)
	}
	return nil
}

// UpdateSecret merges payload into the existing secret, creating a new version.
func (s *Store) UpdateSecret(ctx context.Context, accountID string, payload model.SecretPayload) error {
	if err := validate(payload); err != nil {
		return fmt.Errorf("update secret %s: %w", accountID, err)
	}

	_, err := s.kv.Patch(ctx, s.path(accountID), payload)
	if err != nil {
		if isNotFound(err) {
			return fmt.Errorf("update secret %s: %w", accountID, driven.ErrSecretNotFound)
		}
		return unavailable("update secret", accountID, err)
	}
	return nil
}

// GetSecret reads the latest version. A soft-deleted latest version counts as missing.
func (s *Store) GetSecret(ctx context.Context, accountID string) (string, error) {
	secret, err := s.kv.Get(ctx, s.path(accountID))
	if err != nil {
		if isNotFound(err) {
			return "", fmt.Errorf("get secret %s: %w", accountID, driven.ErrSecretNotFound)
		}
		return "", unavailable("get secret", accountID, err)
	}
	if secret == nil || secret.Data == nil {
		return "", fmt.Errorf("get secret %s: %w", accountID, driven.ErrSecretNotFound)
	}

	value, ok := model.SecretPayload(secret.Data).Value(secretKey)
	if !ok {
		return "", fmt.Errorf("get secret %s: %w: no %q field", accountID, driven.ErrInvalidPayload, secretKey)
	}
	return value, nil
}

// DeleteSecret permanently removes every version of the account's secret.
func (s *Store) DeleteSecret(ctx context.Context, accountID string) error {
	err := s.kv.DeleteMetadata(ctx, s.path(accountID))
	if err != nil && !isNotFound(err) {
		return unavailable("delete secret", accountID, err)
	}
	return nil
}

func (s *Store) path(accountID string) string {
	return s.prefix + "/" + accountID
}

func validate(payload model.SecretPayload) error {
	if _, ok := payload.Value(secretKey); !ok {
		return fmt.Errorf("%w: missing string entry %q", driven.ErrInvalidPayload, secretKey)
	}
	return nil
}
