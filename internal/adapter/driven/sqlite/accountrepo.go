package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/ericfisherdev/accountvault/internal/domain/model"
	"github.com/ericfisherdev/accountvault/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.AccountStore = (*AccountRepo)(nil)

// AccountRepo is the SQLite implementation of the AccountStore port interface.
// All statements filter or tag rows with the organization carried by ctx. The
// secret column is always written as ''; a CHECK constraint rejects anything else.
type AccountRepo struct {
	db *DB
}

// NewAccountRepo creates a new AccountRepo backed by the given DB.
func NewAccountRepo(db *DB) *AccountRepo {
	return &AccountRepo{db: db}
}

const accountColumns = `id, org_id, name, username, address, secret_type, type_id, namespace_id,
	extra_props, is_active, comment, created_at, updated_at`

// Insert persists a new account in the caller's organization. OrgID, CreatedAt
// and UpdatedAt are set on acct.
func (r *AccountRepo) Insert(ctx context.Context, acct *model.Account) error {
	const query = `
		INSERT INTO accounts (id, org_id, name, username, address, secret_type, secret,
			type_id, namespace_id, extra_props, is_active, comment, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, '', ?, ?, ?, ?, ?, ?, ?)
	`

	extra, err := encodeExtraProps(acct.ExtraProps)
	if err != nil {
		return fmt.Errorf("insert account %s: %w", acct.ID, err)
	}

	now := time.Now().UTC()
	orgID := model.OrgFromContext(ctx)

	_, err = r.db.Writer.ExecContext(ctx, query,
		acct.ID, orgID, acct.Name, nullableString(acct.Username), acct.Address,
		string(acct.SecretType), acct.TypeID, acct.NamespaceID, extra, acct.IsActive,
		acct.Comment, formatTime(now), formatTime(now),
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("insert account %s: %w: account type or namespace does not exist in this organization", acct.ID, model.ErrInvalidAccount)
		}
		return fmt.Errorf("insert account %s: %w", acct.ID, err)
	}

	acct.OrgID = orgID
	acct.CreatedAt = now
	acct.UpdatedAt = now
	return nil
}

// Update overwrites the mutable metadata of an existing account in the
// caller's organization.
func (r *AccountRepo) Update(ctx context.Context, acct *model.Account) error {
	const query = `
		UPDATE accounts SET
			name = ?, username = ?, address = ?, secret_type = ?, secret = '',
			type_id = ?, namespace_id = ?, extra_props = ?, is_active = ?, comment = ?,
			updated_at = ?
		WHERE id = ? AND org_id = ?
	`

	extra, err := encodeExtraProps(acct.ExtraProps)
	if err != nil {
		return fmt.Errorf("update account %s: %w", acct.ID, err)
	}

	now := time.Now().UTC()

	result, err := r.db.Writer.ExecContext(ctx, query,
		acct.Name, nullableString(acct.Username), acct.Address, string(acct.SecretType),
		acct.TypeID, acct.NamespaceID, extra, acct.IsActive, acct.Comment, formatTime(now),
		acct.ID, model.OrgFromContext(ctx),
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("update account %s: %w: account type or namespace does not exist in this organization", acct.ID, model.ErrInvalidAccount)
		}
		return fmt.Errorf("update account %s: %w", acct.ID, err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("update account %s: %w", acct.ID, driven.ErrAccountNotFound)
	}

	acct.UpdatedAt = now
	return nil
}

// GetByID returns the account with the given ID in the caller's organization.
func (r *AccountRepo) GetByID(ctx context.Context, id string) (*model.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id = ? AND org_id = ?`

	acct, err := scanAccount(r.db.Reader.QueryRowContext(ctx, query, id, model.OrgFromContext(ctx)))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get account %s: %w", id, driven.ErrAccountNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get account %s: %w", id, err)
	}

	return acct, nil
}

// ListAll returns the organization's accounts ordered by name, then ID.
func (r *AccountRepo) ListAll(ctx context.Context) ([]model.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE org_id = ? ORDER BY name, id`

	rows, err := r.db.Reader.QueryContext(ctx, query, model.OrgFromContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	defer rows.Close()

	var accounts []model.Account
	for rows.Next() {
		acct, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("scan account: %w", err)
		}
		accounts = append(accounts, *acct)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate accounts: %w", err)
	}

	return accounts, nil
}

// Delete removes the account row. It does not touch secret material; callers
// delete the secret first.
func (r *AccountRepo) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM accounts WHERE id = ? AND org_id = ?`

	result, err := r.db.Writer.ExecContext(ctx, query, id, model.OrgFromContext(ctx))
	if err != nil {
		return fmt.Errorf("delete account %s: %w", id, err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("delete account %s: %w", id, driven.ErrAccountNotFound)
	}

	return nil
}

func scanAccount(s scanner) (*model.Account, error) {
	var (
		acct       model.Account
		username   sql.NullString
		secretType string
		extra      string
		createdAt  string
		updatedAt  string
	)

	err := s.Scan(
		&acct.ID, &acct.OrgID, &acct.Name, &username, &acct.Address, &secretType,
		&acct.TypeID, &acct.NamespaceID, &extra, &acct.IsActive, &acct.Comment,
		&createdAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}

	acct.Username = username.String
	acct.SecretType = model.SecretType(secretType)

	if err := json.Unmarshal([]byte(extra), &acct.ExtraProps); err != nil {
		return nil, fmt.Errorf("decode extra_props: %w", err)
	}
	if acct.ExtraProps == nil {
		acct.ExtraProps = model.ExtraProps{}
	}

	acct.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, fmt.Errorf("parse created_at: %w", err)
	}
	acct.UpdatedAt, err = parseTime(updatedAt)
	if err != nil {
		return nil, fmt.Errorf("parse updated_at: %w", err)
	}

	return &acct, nil
}

func encodeExtraProps(props model.ExtraProps) (string, error) {
	if props == nil {
		return "{}", nil
	}
	data, err := json.Marshal(props)
	if err != nil {
		return "", fmt.Errorf("encode extra_props: %w", err)
	}
	return string(data), nil
}

func nullableString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
