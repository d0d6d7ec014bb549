package sqlite

import (
	"context"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"database/sql"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/ericfisherdev/accountvault/internal/domain/model"
	"github.com/ericfisherdev/accountvault/internal/domain/port/driven"
)

// SecretStoreType is the configuration name of the SQLite secret backend.
const SecretStoreType = "sqlite"

// secretKey is the payload discriminator for this backend.
const secretKey = "secret"

// Compile-time interface satisfaction check.
var _ driven.SecretStore = (*SecretRepo)(nil)

// SecretRepo is the SQLite implementation of the SecretStore port interface.
// Payloads are JSON-encoded and sealed with AES-256-GCM before write, using the
// account ID as additional authenticated data so a ciphertext cannot be moved
// to another account's row. Secrets live in account_secrets, separate from the
// account metadata table.
//
// Policy: CreateSecret returns ErrSecretAlreadyExists when a row exists,
// UpdateSecret returns ErrSecretNotFound when none does, DeleteSecret of a
// missing row succeeds.
type SecretRepo struct {
	db  *DB
	key []byte // 32-byte AES-256 key; nil leaves the store unusable.
}

// NewSecretRepo creates a new SecretRepo. key must be 32 bytes for AES-256-GCM.
// A nil key makes every operation return ErrStoreMisconfigured.
func NewSecretRepo(db *DB, key []byte) *SecretRepo {
	return &SecretRepo{db: db, key: key}
}

// Type implements driven.SecretStore.
func (r *SecretRepo) Type() string { return SecretStoreType }

// Key implements driven.SecretStore.
func (r *SecretRepo) Key() string { return secretKey }

// CreateSecret inserts new secret material for accountID.
func (r *SecretRepo) CreateSecret(ctx context.Context, accountID string, payload model.SecretPayload) error {
	sealed, err := r.seal(accountID, payload)
	if err != nil {
		return fmt.Errorf("create secret %s: %w", accountID, err)
	}

	const query = `INSERT INTO account_secrets (account_id, payload, created_at, updated_at) VALUES (?, ?, ?, ?)`

	now := formatTime(time.Now())
	_, err = r.db.Writer.ExecContext(ctx, query, accountID, sealed, now, now)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("create secret %s: %w", accountID, driven.ErrSecretAlreadyExists)
		}
		return fmt.Errorf("create secret %s: %w: %w", accountID, driven.ErrStoreUnavailable, err)
	}
	return nil
}

// UpdateSecret replaces existing secret material for accountID.
func (r *SecretRepo) UpdateSecret(ctx context.Context, accountID string, payload model.SecretPayload) error {
	sealed, err := r.seal(accountID, payload)
	if err != nil {
		return fmt.Errorf("update secret %s: %w", accountID, err)
	}

	const query = `UPDATE account_secrets SET payload = ?, updated_at = ? WHERE account_id = ?`

	result, err := r.db.Writer.ExecContext(ctx, query, sealed, formatTime(time.Now()), accountID)
	if err != nil {
		return fmt.Errorf("update secret %s: %w: %w", accountID, driven.ErrStoreUnavailable, err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check rows affected: %w: %w", driven.ErrStoreUnavailable, err)
	}
	if rows == 0 {
		return fmt.Errorf("update secret %s: %w", accountID, driven.ErrSecretNotFound)
	}
	return nil
}

// GetSecret returns the plaintext stored under Key for accountID.
func (r *SecretRepo) GetSecret(ctx context.Context, accountID string) (string, error) {
	if r.key == nil {
		return "", fmt.Errorf("get secret %s: %w: encryption key not set", accountID, driven.ErrStoreMisconfigured)
	}

	const query = `SELECT payload FROM account_secrets WHERE account_id = ?`
	var sealed string
	err := r.db.Reader.QueryRowContext(ctx, query, accountID).Scan(&sealed)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("get secret %s: %w", accountID, driven.ErrSecretNotFound)
	}
	if err != nil {
		return "", fmt.Errorf("get secret %s: %w: %w", accountID, driven.ErrStoreUnavailable, err)
	}

	payload, err := r.open(accountID, sealed)
	if err != nil {
		return "", fmt.Errorf("decrypt secret %s: %w", accountID, err)
	}

	value, ok := payload.Value(secretKey)
	if !ok {
		return "", fmt.Errorf("get secret %s: %w: stored payload has no %q entry", accountID, driven.ErrInvalidPayload, secretKey)
	}
	return value, nil
}

// DeleteSecret removes secret material for accountID. Missing rows are not an error.
func (r *SecretRepo) DeleteSecret(ctx context.Context, accountID string) error {
	const query = `DELETE FROM account_secrets WHERE account_id = ?`
	_, err := r.db.Writer.ExecContext(ctx, query, accountID)
	if err != nil {
		return fmt.Errorf("delete secret %s: %w: %w", accountID, driven.ErrStoreUnavailable, err)
	}
	return nil
}

// seal validates payload, JSON-encodes it and encrypts it with AES-256-GCM.
// The result is base64(nonce || ciphertext || tag).
func (r *SecretRepo) seal(accountID string, payload model.SecretPayload) (string, error) {
	if r.key == nil {
		return "", fmt.Errorf("%w: encryption key not set", driven.ErrStoreMisconfigured)
	}
	if _, ok := payload.Value(secretKey); !ok {
		return "", fmt.Errorf("%w: missing string entry %q", driven.ErrInvalidPayload, secretKey)
	}

	plaintext, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("%w: %w", driven.ErrInvalidPayload, err)
	}

	gcm, err := r.aead()
	if err != nil {
		return "", err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("rand nonce: %w", err)
	}

	ciphertext := gcm.Seal(nonce, nonce, plaintext, []byte(accountID))
	return base64.StdEncoding.EncodeToString(ciphertext), nil
}

// open reverses seal.
func (r *SecretRepo) open(accountID, encoded string) (model.SecretPayload, error) {
	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("base64 decode: %w", err)
	}

	gcm, err := r.aead()
	if err != nil {
		return nil, err
	}

	nonceSize := gcm.NonceSize()
	if len(data) < nonceSize {
		return nil, errors.New("ciphertext too short")
	}

	nonce, ciphertext := data[:nonceSize], data[nonceSize:]
	plaintext, err := gcm.Open(nil, nonce, ciphertext, []byte(accountID))
	if err != nil {
		return nil, fmt.Errorf("gcm.Open: %w", err)
	}

	var payload model.SecretPayload
	if err := json.Unmarshal(plaintext, &payload); err != nil {
		return nil, fmt.Errorf("decode payload: %w", err)
	}
	return payload, nil
}

func (r *SecretRepo) aead() (cipher.AEAD, error) {
	block, err := aes.NewCipher(r.key)
	if err != nil {
		return nil, fmt.Errorf("%w: aes.NewCipher: %w", driven.ErrStoreMisconfigured, err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("cipher.NewGCM: %w", err)
	}
	return gcm, nil
}
