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
var _ driven.NamespaceStore = (*NamespaceRepo)(nil)

// NamespaceRepo is the SQLite implementation of the NamespaceStore port interface.
type NamespaceRepo struct {
	db *DB
}

// NewNamespaceRepo creates a new NamespaceRepo backed by the given DB.
func NewNamespaceRepo(db *DB) *NamespaceRepo {
	return &NamespaceRepo{db: db}
}

// Add inserts a namespace into the caller's organization and returns it with
// its assigned ID. Names are unique per organization.
func (r *NamespaceRepo) Add(ctx context.Context, ns model.Namespace) (model.Namespace, error) {
	const query = `INSERT INTO namespaces (org_id, name, comment, created_at) VALUES (?, ?, ?, ?)`

	createdAt := ns.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	orgID := model.OrgFromContext(ctx)

	result, err := r.db.Writer.ExecContext(ctx, query, orgID, ns.Name, ns.Comment, formatTime(createdAt))
	if err != nil {
		if isUniqueViolation(err) {
			return model.Namespace{}, fmt.Errorf("add namespace %q: %w", ns.Name, driven.ErrAlreadyExists)
		}
		return model.Namespace{}, fmt.Errorf("add namespace %q: %w", ns.Name, err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return model.Namespace{}, fmt.Errorf("get namespace id: %w", err)
	}

	ns.ID = id
	ns.OrgID = orgID
	ns.CreatedAt = createdAt
	return ns, nil
}

// GetByID returns the namespace in the caller's organization or ErrNamespaceNotFound.
func (r *NamespaceRepo) GetByID(ctx context.Context, id int64) (*model.Namespace, error) {
	const query = `SELECT id, org_id, name, comment, created_at FROM namespaces WHERE id = ? AND org_id = ?`

	ns, err := scanNamespace(r.db.Reader.QueryRowContext(ctx, query, id, model.OrgFromContext(ctx)))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get namespace %d: %w", id, driven.ErrNamespaceNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get namespace %d: %w", id, err)
	}
	return ns, nil
}

// ListAll returns the organization's namespaces ordered by name.
func (r *NamespaceRepo) ListAll(ctx context.Context) ([]model.Namespace, error) {
	const query = `SELECT id, org_id, name, comment, created_at FROM namespaces WHERE org_id = ? ORDER BY name`

	rows, err := r.db.Reader.QueryContext(ctx, query, model.OrgFromContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("list namespaces: %w", err)
	}
	defer rows.Close()

	var namespaces []model.Namespace
	for rows.Next() {
		ns, err := scanNamespace(rows)
		if err != nil {
			return nil, fmt.Errorf("scan namespace: %w", err)
		}
		namespaces = append(namespaces, *ns)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate namespaces: %w", err)
	}

	return namespaces, nil
}

// Remove deletes a namespace from the caller's organization. Returns
// ErrReferenced while any account still uses it.
func (r *NamespaceRepo) Remove(ctx context.Context, id int64) error {
	const query = `DELETE FROM namespaces WHERE id = ? AND org_id = ?`

	result, err := r.db.Writer.ExecContext(ctx, query, id, model.OrgFromContext(ctx))
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("remove namespace %d: %w", id, driven.ErrReferenced)
		}
		return fmt.Errorf("remove namespace %d: %w", id, err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("remove namespace %d: %w", id, driven.ErrNamespaceNotFound)
	}

	return nil
}

func scanNamespace(s scanner) (*model.Namespace, error) {
	var ns model.Namespace
	var createdAt string

	if err := s.Scan(&ns.ID, &ns.OrgID, &ns.Name, &ns.Comment, &createdAt); err != nil {
		return nil, err
	}

	var err error
	ns.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, fmt.Errorf("parse created_at: %w", err)
	}

	return &ns, nil
}
