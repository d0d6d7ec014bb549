// Package registry resolves the SecretStore named by configuration once at
// startup and hands the same instance to every caller.
package registry

import (
	"fmt"

	"github.com/ericfisherdev/accountvault/internal/adapter/driven/keyring"
	"github.com/ericfisherdev/accountvault/internal/adapter/driven/sqlite"
	"github.com/ericfisherdev/accountvault/internal/adapter/driven/vault"
	"github.com/ericfisherdev/accountvault/internal/config"
	"github.com/ericfisherdev/accountvault/internal/domain/port/driven"
)

// Registry holds the process-wide SecretStore. It is immutable after New.
type Registry struct {
	store driven.SecretStore
}

// New builds the backend selected by cfg.SecretBackend. db is only used by the
// sqlite backend. Unknown names and missing backend settings return an error
// wrapping driven.ErrStoreMisconfigured.
func New(cfg *config.Config, db *sqlite.DB) (*Registry, error) {
	store, err := build(cfg, db)
	if err != nil {
		return nil, err
	}
	return &Registry{store: store}, nil
}

// AccountStorage returns the active SecretStore.
func (r *Registry) AccountStorage() driven.SecretStore {
	return r.store
}

// Type returns the active backend name.
func (r *Registry) Type() string {
	return r.store.Type()
}

func build(cfg *config.Config, db *sqlite.DB) (driven.SecretStore, error) {
	switch cfg.SecretBackend {
	case "", config.BackendSQLite:
		if len(cfg.SecretKey) != 32 {
			return nil, fmt.Errorf("%w: sqlite backend needs ACCOUNTVAULT_SECRET_KEY", driven.ErrStoreMisconfigured)
		}
		if db == nil {
			return nil, fmt.Errorf("%w: sqlite backend needs a database", driven.ErrStoreMisconfigured)
		}
		return sqlite.NewSecretRepo(db, cfg.SecretKey), nil

	case config.BackendVault:
		store, err := vault.New(vault.Config{
			Address:    cfg.Vault.Address,
			Token:      cfg.Vault.Token,
			Mount:      cfg.Vault.Mount,
			Prefix:     cfg.Vault.Prefix,
			MaxRetries: -1,
		})
		if err != nil {
			return nil, fmt.Errorf("vault backend: %w", err)
		}
		return store, nil

	case config.BackendKeyring:
		store, err := keyring.Open(keyring.Config{
			Dir:      cfg.Keyring.Dir,
			Password: cfg.Keyring.Password,
		})
		if err != nil {
			return nil, fmt.Errorf("keyring backend: %w", err)
		}
		return store, nil

	default:
		return nil, fmt.Errorf("%w: unknown secret backend %q", driven.ErrStoreMisconfigured, cfg.SecretBackend)
	}
}
