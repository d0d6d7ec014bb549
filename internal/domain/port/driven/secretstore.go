package driven

import (
	"context"
	"errors"

	"github.com/ericfisherdev/accountvault/internal/domain/model"
)

// Sentinel errors returned by SecretStore implementations. Adapters wrap them
// with context; callers classify with errors.Is.
var (
	// ErrSecretNotFound indicates no secret material exists for the account.
	ErrSecretNotFound = errors.New("secret not found")

	// ErrSecretAlreadyExists indicates secret material already exists for the account.
	ErrSecretAlreadyExists = errors.New("secret already exists")

	// ErrStoreUnavailable indicates the backing medium failed (network, disk,
	// permission). Transient; the caller may retry.
	ErrStoreUnavailable = errors.New("secret store unavailable")

	// ErrStoreMisconfigured indicates no valid backend could be resolved from
	// configuration. Not retryable without operator intervention.
	ErrStoreMisconfigured = errors.New("secret store misconfigured")

	// ErrInvalidPayload indicates the payload has no string value under the
	// store's key.
	ErrInvalidPayload = errors.New("invalid secret payload")
)

// SecretStore defines the driven port for secret material, keyed by account
// identity (model.Account.ID). Metadata stores never see secret values.
//
// Whether CreateSecret rejects existing material and whether UpdateSecret
// rejects missing material is a per-backend policy, fixed and documented on
// each implementation. DeleteSecret is always idempotent.
//
// Implementations own their internal concurrency control. No implementation
// serializes concurrent writers to the same account; callers needing that use
// application.WithSecretLocking.
type SecretStore interface {
	// Type returns the backend name as used in configuration.
	Type() string

	// Key returns the discriminator callers place the secret under in a payload.
	Key() string

	// CreateSecret establishes new secret material for accountID.
	CreateSecret(ctx context.Context, accountID string, payload model.SecretPayload) error

	// UpdateSecret replaces existing secret material for accountID.
	UpdateSecret(ctx context.Context, accountID string, payload model.SecretPayload) error

	// GetSecret returns the secret stored under Key for accountID, or
	// ErrSecretNotFound.
	GetSecret(ctx context.Context, accountID string) (string, error)

	// DeleteSecret removes secret material for accountID. Deleting absent
	// material is not an error.
	DeleteSecret(ctx context.Context, accountID string) error
}
