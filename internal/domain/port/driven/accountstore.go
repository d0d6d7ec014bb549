package driven

import (
	"context"
	"errors"

	"github.com/ericfisherdev/accountvault/internal/domain/model"
)

// Sentinel errors returned by the metadata store implementations.
var (
	// ErrAccountNotFound indicates no account with the given ID exists in the
	// caller's organization.
	ErrAccountNotFound = errors.New("account not found")

	// ErrAccountTypeNotFound indicates the referenced account type does not exist.
	ErrAccountTypeNotFound = errors.New("account type not found")

	// ErrNamespaceNotFound indicates the referenced namespace does not exist.
	ErrNamespaceNotFound = errors.New("namespace not found")

	// ErrReferenced indicates a delete was rejected because other records still
	// point at the target (protect-on-delete).
	ErrReferenced = errors.New("still referenced")

	// ErrAlreadyExists indicates a uniquely named collaborator already exists.
	ErrAlreadyExists = errors.New("already exists")
)

// AccountStore defines the driven port for account metadata persistence. Every
// method is scoped to the organization carried by ctx (model.OrgFromContext).
// Implementations persist Account.Secret as the empty string regardless of its
// in-memory value.
type AccountStore interface {
	// Insert persists a new account. acct.ID must already be assigned.
	Insert(ctx context.Context, acct *model.Account) error

	// Update overwrites the metadata of an existing account. Returns
	// ErrAccountNotFound if no row matched.
	Update(ctx context.Context, acct *model.Account) error

	// GetByID returns the account or ErrAccountNotFound.
	GetByID(ctx context.Context, id string) (*model.Account, error)

	// ListAll returns the organization's accounts ordered by name.
	ListAll(ctx context.Context) ([]model.Account, error)

	// Delete removes the account row. Returns ErrAccountNotFound if no row matched.
	Delete(ctx context.Context, id string) error
}

// AccountTypeStore defines the driven port for the account classification
// collaborator. Remove returns ErrReferenced while accounts use the type.
type AccountTypeStore interface {
	Add(ctx context.Context, t model.AccountType) (model.AccountType, error)
	GetByID(ctx context.Context, id int64) (*model.AccountType, error)
	ListAll(ctx context.Context) ([]model.AccountType, error)
	Remove(ctx context.Context, id int64) error
}

// NamespaceStore defines the driven port for the namespace collaborator,
// scoped to the organization in ctx. Remove returns ErrReferenced while
// accounts use the namespace.
type NamespaceStore interface {
	Add(ctx context.Context, ns model.Namespace) (model.Namespace, error)
	GetByID(ctx context.Context, id int64) (*model.Namespace, error)
	ListAll(ctx context.Context) ([]model.Namespace, error)
	Remove(ctx context.Context, id int64) error
}

// HealthChecker is implemented by stores that can verify their connection.
type HealthChecker interface {
	Ping(ctx context.Context) error
}
