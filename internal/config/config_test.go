package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// allConfigKeys lists every ACCOUNTVAULT_ env var that Load() reads.
var allConfigKeys = []string{
	"ACCOUNTVAULT_LISTEN_ADDR",
	"ACCOUNTVAULT_DB_PATH",
	"ACCOUNTVAULT_SECRET_BACKEND",
	"ACCOUNTVAULT_SECRET_KEY",
	"ACCOUNTVAULT_VAULT_ADDR",
	"ACCOUNTVAULT_VAULT_TOKEN",
	"ACCOUNTVAULT_VAULT_MOUNT",
	"ACCOUNTVAULT_VAULT_PREFIX",
	"ACCOUNTVAULT_KEYRING_DIR",
	"ACCOUNTVAULT_KEYRING_PASSWORD",
	"ACCOUNTVAULT_SERIALIZE_SECRET_WRITES",
}

// isolateConfigEnv saves and unsets all ACCOUNTVAULT_ env vars so tests don't
// inherit values from the host environment (e.g. a running dev server).
// t.Cleanup restores original values after the test.
func isolateConfigEnv(t *testing.T) {
	t.Helper()
	for _, key := range allConfigKeys {
		if orig, ok := os.LookupEnv(key); ok {
			t.Cleanup(func() { os.Setenv(key, orig) })
		} else {
			t.Cleanup(func() { os.Unsetenv(key) })
		}
		os.Unsetenv(key)
	}
}

func TestLoad_Success(t *testing.T) {
	isolateConfigEnv(t)
	t.Setenv("ACCOUNTVAULT_LISTEN_ADDR", "0.0.0.0:9090")
	t.Setenv("ACCOUNTVAULT_DB_PATH", "/tmp/test.db")
	t.Setenv("ACCOUNTVAULT_SECRET_BACKEND", "Vault")
	t.Setenv("ACCOUNTVAULT_VAULT_ADDR", "https://vault.internal:8200")
	t.Setenv("ACCOUNTVAULT_VAULT_TOKEN", "s.abc")
	t.Setenv("ACCOUNTVAULT_VAULT_MOUNT", "kv")
	t.Setenv("ACCOUNTVAULT_VAULT_PREFIX", "pam/accounts")
	t.Setenv("ACCOUNTVAULT_SERIALIZE_SECRET_WRITES", "true")

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, "0.0.0.0:9090", cfg.ListenAddr)
	assert.Equal(t, "/tmp/test.db", cfg.DBPath)
	assert.Equal(t, BackendVault, cfg.SecretBackend)
	assert.Equal(t, VaultConfig{
		Address: "https://vault.internal:8200",
		Token:   "s.abc",
		Mount:   "kv",
		Prefix:  "pam/accounts",
	}, cfg.Vault)
	assert.True(t, cfg.SerializeSecretWrites)
}

func TestLoad_Defaults(t *testing.T) {
	isolateConfigEnv(t)

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:8080", cfg.ListenAddr)
	assert.Equal(t, "accountvault.db", cfg.DBPath)
	assert.Equal(t, BackendSQLite, cfg.SecretBackend)
	assert.Equal(t, "secret", cfg.Vault.Mount)
	assert.Equal(t, "accounts", cfg.Vault.Prefix)
	assert.False(t, cfg.SerializeSecretWrites)
	assert.Nil(t, cfg.SecretKey)
}

func TestLoad_KeyringSettings(t *testing.T) {
	isolateConfigEnv(t)
	t.Setenv("ACCOUNTVAULT_SECRET_BACKEND", "keyring")
	t.Setenv("ACCOUNTVAULT_KEYRING_DIR", "/var/lib/accountvault/keyring")
	t.Setenv("ACCOUNTVAULT_KEYRING_PASSWORD", "pw")

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, BackendKeyring, cfg.SecretBackend)
	assert.Equal(t, KeyringConfig{Dir: "/var/lib/accountvault/keyring", Password: "pw"}, cfg.Keyring)
}

func TestLoad_UnknownBackend(t *testing.T) {
	isolateConfigEnv(t)
	t.Setenv("ACCOUNTVAULT_SECRET_BACKEND", "etcd")

	cfg, err := Load()

	assert.Nil(t, cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ACCOUNTVAULT_SECRET_BACKEND")
}

func TestLoad_InvalidSerializeFlag(t *testing.T) {
	isolateConfigEnv(t)
	t.Setenv("ACCOUNTVAULT_SERIALIZE_SECRET_WRITES", "sometimes")

	cfg, err := Load()

	assert.Nil(t, cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ACCOUNTVAULT_SERIALIZE_SECRET_WRITES")
}

func TestLoad_SecretKey_Valid(t *testing.T) {
	isolateConfigEnv(t)
	// 64 hex chars = 32 bytes
	t.Setenv("ACCOUNTVAULT_SECRET_KEY", "0102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f20")

	cfg, err := Load()

	require.NoError(t, err)
	assert.Len(t, cfg.SecretKey, 32)
}

func TestLoad_SecretKey_TooShort(t *testing.T) {
	isolateConfigEnv(t)
	t.Setenv("ACCOUNTVAULT_SECRET_KEY", "deadbeef")

	cfg, err := Load()

	assert.Nil(t, cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ACCOUNTVAULT_SECRET_KEY")
}

func TestLoad_SecretKey_NotHex(t *testing.T) {
	isolateConfigEnv(t)
	// 64 chars but not valid hex
	t.Setenv("ACCOUNTVAULT_SECRET_KEY", "zzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzz")

	cfg, err := Load()

	assert.Nil(t, cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ACCOUNTVAULT_SECRET_KEY")
}
