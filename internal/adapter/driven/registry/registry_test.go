package registry

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericfisherdev/accountvault/internal/adapter/driven/sqlite"
	"github.com/ericfisherdev/accountvault/internal/config"
	"github.com/ericfisherdev/accountvault/internal/domain/port/driven"
)

var testKey = []byte("0123456789abcdef0123456789abcdef")

func openDB(t *testing.T) *sqlite.DB {
	t.Helper()
	db, err := sqlite.NewDB(context.Background(), filepath.Join(t.TempDir(), "registry.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestNew_ResolvesBackend(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.Config
		want string
	}{
		{
			name: "sqlite",
			cfg:  config.Config{SecretBackend: config.BackendSQLite, SecretKey: testKey},
			want: "sqlite",
		},
		{
			name: "empty name defaults to sqlite",
			cfg:  config.Config{SecretKey: testKey},
			want: "sqlite",
		},
		{
			name: "vault",
			cfg: config.Config{
				SecretBackend: config.BackendVault,
				Vault:         config.VaultConfig{Address: "http://127.0.0.1:8200", Token: "t"},
			},
			want: "vault",
		},
		{
			name: "keyring",
			cfg: config.Config{
				SecretBackend: config.BackendKeyring,
				Keyring:       config.KeyringConfig{Dir: t.TempDir(), Password: "pw"},
			},
			want: "keyring",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg, err := New(&tt.cfg, openDB(t))
			require.NoError(t, err)
			assert.Equal(t, tt.want, reg.Type())
			assert.Equal(t, tt.want, reg.AccountStorage().Type())
		})
	}
}

func TestNew_SameInstance(t *testing.T) {
	reg, err := New(&config.Config{SecretBackend: config.BackendSQLite, SecretKey: testKey}, openDB(t))
	require.NoError(t, err)

	assert.Same(t, reg.AccountStorage(), reg.AccountStorage())
}

func TestNew_Misconfigured(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.Config
	}{
		{name: "unknown backend", cfg: config.Config{SecretBackend: "etcd"}},
		{name: "sqlite without key", cfg: config.Config{SecretBackend: config.BackendSQLite}},
		{name: "vault without address", cfg: config.Config{
			SecretBackend: config.BackendVault,
			Vault:         config.VaultConfig{Token: "t"},
		}},
		{name: "keyring without password", cfg: config.Config{
			SecretBackend: config.BackendKeyring,
			Keyring:       config.KeyringConfig{Dir: "/tmp"},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg, err := New(&tt.cfg, openDB(t))
			require.ErrorIs(t, err, driven.ErrStoreMisconfigured)
			assert.Nil(t, reg)
		})
	}
}

func TestNew_SQLiteNeedsDatabase(t *testing.T) {
	_, err := New(&config.Config{SecretBackend: config.BackendSQLite, SecretKey: testKey}, nil)
	require.ErrorIs(t, err, driven.ErrStoreMisconfigured)
}
