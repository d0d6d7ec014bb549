package model

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidAccount is returned by Account.Validate. The wrapped message names
// the offending field.
var ErrInvalidAccount = errors.New("invalid account")

// Account is a managed credential record: an identity (username/address) on a
// remote asset plus the metadata needed to classify and scope it. The secret
// material itself never lives here; see Secret.
//
// Username and Address are deliberately not unique as a pair. Two accounts may
// share both and are told apart only by ID.
type Account struct {
	ID          string
	OrgID       string
	Name        string
	Username    string
	Address     string
	SecretType  SecretType
	TypeID      int64
	NamespaceID int64
	ExtraProps  ExtraProps
	IsActive    bool
	Comment     string
	CreatedAt   time.Time
	UpdatedAt   time.Time

	// Secret is transient. It is cleared before every metadata write, so the
	// persisted value is always "". Use the secret operations on
	// application.AccountService to move material in and out of the SecretStore.
	Secret string
}

// Validate checks the fields a metadata write needs. Username and Comment are
// optional.
func (a *Account) Validate() error {
	switch {
	case a.Name == "":
		return fmt.Errorf("%w: name is required", ErrInvalidAccount)
	case len(a.Name) > 256:
		return fmt.Errorf("%w: name exceeds 256 characters", ErrInvalidAccount)
	case len(a.Username) > 256:
		return fmt.Errorf("%w: username exceeds 256 characters", ErrInvalidAccount)
	case a.Address == "":
		return fmt.Errorf("%w: address is required", ErrInvalidAccount)
	case len(a.Address) > 1024:
		return fmt.Errorf("%w: address exceeds 1024 characters", ErrInvalidAccount)
	case !a.SecretType.Valid():
		return fmt.Errorf("%w: unknown secret type %q", ErrInvalidAccount, a.SecretType)
	case a.TypeID == 0:
		return fmt.Errorf("%w: account type is required", ErrInvalidAccount)
	case a.NamespaceID == 0:
		return fmt.Errorf("%w: namespace is required", ErrInvalidAccount)
	}
	return nil
}

// ExtraProps is a schema-less bag of backend-specific metadata. Values must be
// JSON-compatible; consumers validate the keys they read.
type ExtraProps map[string]any
