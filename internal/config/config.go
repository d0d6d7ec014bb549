// Package config loads application configuration from environment variables.
package config

import (
	"encoding/hex"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Secret backend names accepted by ACCOUNTVAULT_SECRET_BACKEND.
const (
	BackendSQLite  = "sqlite"
	BackendVault   = "vault"
	BackendKeyring = "keyring"
)

// Config holds the application configuration loaded from environment variables.
type Config struct {
	ListenAddr string
	DBPath     string

	// SecretBackend selects the SecretStore built at startup.
	SecretBackend string

	// SecretKey is the 32-byte AES-256 key for the sqlite secret backend.
	// Nil when ACCOUNTVAULT_SECRET_KEY is unset.
	SecretKey []byte

	Vault   VaultConfig
	Keyring KeyringConfig

	// SerializeSecretWrites enables per-account locking around secret writes.
	SerializeSecretWrites bool
}

// VaultConfig holds the settings of the vault secret backend.
type VaultConfig struct {
	Address string
	Token   string
	Mount   string
	Prefix  string
}

// KeyringConfig holds the settings of the keyring secret backend.
type KeyringConfig struct {
	Dir      string
	Password string
}

// Load reads configuration from environment variables and returns a validated Config.
// Optional variables with defaults: ACCOUNTVAULT_LISTEN_ADDR (127.0.0.1:8080),
// ACCOUNTVAULT_DB_PATH (accountvault.db), ACCOUNTVAULT_SECRET_BACKEND (sqlite),
// ACCOUNTVAULT_VAULT_MOUNT (secret), ACCOUNTVAULT_VAULT_PREFIX (accounts),
// ACCOUNTVAULT_SERIALIZE_SECRET_WRITES (false).
// Backend-specific settings are checked when the secret store is built, not here.
func Load() (*Config, error) {
	listenAddr := "127.0.0.1:8080"
	if v, ok := os.LookupEnv("ACCOUNTVAULT_LISTEN_ADDR"); ok {
		listenAddr = v
	}

	dbPath := "accountvault.db"
	if v, ok := os.LookupEnv("ACCOUNTVAULT_DB_PATH"); ok {
		dbPath = v
	}

	backend := BackendSQLite
	if v, ok := os.LookupEnv("ACCOUNTVAULT_SECRET_BACKEND"); ok && v != "" {
		backend = strings.ToLower(strings.TrimSpace(v))
	}
	switch backend {
	case BackendSQLite, BackendVault, BackendKeyring:
	default:
		return nil, fmt.Errorf("ACCOUNTVAULT_SECRET_BACKEND has unknown value %q (want %s, %s or %s)",
			backend, BackendSQLite, BackendVault, BackendKeyring)
	}

	var secretKey []byte
	if v, ok := os.LookupEnv("ACCOUNTVAULT_SECRET_KEY"); ok && v != "" {
		key, err := hex.DecodeString(v)
		if err != nil {
			return nil, fmt.Errorf("ACCOUNTVAULT_SECRET_KEY must be hex-encoded: %w", err)
		}
		if len(key) != 32 {
			return nil, fmt.Errorf("ACCOUNTVAULT_SECRET_KEY must be 64 hex characters (32 bytes), got %d bytes", len(key))
		}
		secretKey = key
	}

	serialize := false
	if v, ok := os.LookupEnv("ACCOUNTVAULT_SERIALIZE_SECRET_WRITES"); ok && v != "" {
		parsed, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("ACCOUNTVAULT_SERIALIZE_SECRET_WRITES has invalid boolean %q: %w", v, err)
		}
		serialize = parsed
	}

	vaultMount := "secret"
	if v, ok := os.LookupEnv("ACCOUNTVAULT_VAULT_MOUNT"); ok && v != "" {
		vaultMount = v
	}
	vaultPrefix := "accounts"
	if v, ok := os.LookupEnv("ACCOUNTVAULT_VAULT_PREFIX"); ok && v != "" {
		vaultPrefix = v
	}

	return &Config{
		ListenAddr:    listenAddr,
		DBPath:        dbPath,
		SecretBackend: backend,
		SecretKey:     secretKey,
		Vault: VaultConfig{
			Address: os.Getenv("ACCOUNTVAULT_VAULT_ADDR"),
			Token:   os.Getenv("ACCOUNTVAULT_VAULT_TOKEN"),
			Mount:   vaultMount,
			Prefix:  vaultPrefix,
		},
		Keyring: KeyringConfig{
			Dir:      os.Getenv("ACCOUNTVAULT_KEYRING_DIR"),
			Password: os.Getenv("ACCOUNTVAULT_KEYRING_PASSWORD"),
		},
		SerializeSecretWrites: serialize,
	}, nil
}
