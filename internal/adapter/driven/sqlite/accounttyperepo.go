package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/ericfisherdev/accountvault/internal/domain/model"
	"github.com/ericfisherdev/accountvault/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.AccountTypeStore = (*AccountTypeRepo)(nil)

// AccountTypeRepo is the SQLite implementation of the AccountTypeStore port interface.
// Account types are global, not organization scoped.
type AccountTypeRepo struct {
	db *DB
}

// NewAccountTypeRepo creates a new AccountTypeRepo backed by the given DB.
func NewAccountTypeRepo(db *DB) *AccountTypeRepo {
	return &AccountTypeRepo{db: db}
}

// Add inserts a new account type and returns it with its assigned ID.
func (r *AccountTypeRepo) Add(ctx context.Context, t model.AccountType) (model.AccountType, error) {
	const query = `INSERT INTO account_types (name, comment, created_at) VALUES (?, ?, ?)`

	createdAt := t.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	result, err := r.db.Writer.ExecContext(ctx, query, t.Name, t.Comment, formatTime(createdAt))
	if err != nil {
		if isUniqueViolation(err) {
			return model.AccountType{}, fmt.Errorf("add account type %q: %w", t.Name, driven.ErrAlreadyExists)
		}
		return model.AccountType{}, fmt.Errorf("add account type %q: %w", t.Name, err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return model.AccountType{}, fmt.Errorf("get account type id: %w", err)
	}

	t.ID = id
	t.CreatedAt = createdAt
	return t, nil
}

// GetByID returns the account type or ErrAccountTypeNotFound.
func (r *AccountTypeRepo) GetByID(ctx context.Context, id int64) (*model.AccountType, error) {
	const query = `SELECT id, name, comment, created_at FROM account_types WHERE id = ?`

	t, err := scanAccountType(r.db.Reader.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get account type %d: %w", id, driven.ErrAccountTypeNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get account type %d: %w", id, err)
	}
	return t, nil
}

// ListAll returns all account types ordered by name.
func (r *AccountTypeRepo) ListAll(ctx context.Context) ([]model.AccountType, error) {
	const query = `SELECT id, name, comment, created_at FROM account_types ORDER BY name`

	rows, err := r.db.Reader.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list account types: %w", err)
	}
	defer rows.Close()

	var types []model.AccountType
	for rows.Next() {
		t, err := scanAccountType(rows)
		if err != nil {
			return nil, fmt.Errorf("scan account type: %w", err)
		}
		types = append(types, *t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate account types: %w", err)
	}

	return types, nil
}

// Remove deletes an account type. Returns ErrReferenced while any account
// (in any organization) still uses it.
func (r *AccountTypeRepo) Remove(ctx context.Context, id int64) error {
	const query = `DELETE FROM account_types WHERE id = ?`

	result, err := r.db.Writer.ExecContext(ctx, query, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("remove account type %d: %w", id, driven.ErrReferenced)
		}
		return fmt.Errorf("remove account type %d: %w", id, err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("remove account type %d: %w", id, driven.ErrAccountTypeNotFound)
	}

	return nil
}

func scanAccountType(s scanner) (*model.AccountType, error) {
	var t model.AccountType
	var createdAt string

	if err := s.Scan(&t.ID, &t.Name, &t.Comment, &createdAt); err != nil {
		return nil, err
	}

	var err error
	t.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, fmt.Errorf("parse created_at: %w", err)
	}

	return &t, nil
}
