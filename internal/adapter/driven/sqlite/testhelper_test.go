package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"testing"

	"github.com/ericfisherdev/accountvault/internal/domain/model"
)

// setupTestDB creates a named shared in-memory SQLite database for testing.
// Writer and reader connections share the same in-memory database via cache=shared.
// A unique name derived from t.Name() ensures isolation between parallel tests.
func setupTestDB(t *testing.T) *DB {
	t.Helper()

	// Percent-encode the test name so it's a safe SQLite URI filename component
	// and cannot be misinterpreted as query parameters in the "file:%s?..." DSN.
	safeName := url.PathEscape(t.Name())
	// WAL mode is not applicable to in-memory databases; omit journal_mode pragma.
	dsn := fmt.Sprintf(
		"file:%s?mode=memory&cache=shared&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)&_pragma=foreign_keys(ON)&_pragma=cache_size(-64000)",
		safeName,
	)

	writer, err := sql.Open("sqlite", dsn)
	if err != nil {
		t.Fatalf("create test db writer: %v", err)
	}
	writer.SetMaxOpenConns(1)
	if err := writer.PingContext(context.Background()); err != nil {
		_ = writer.Close()
		t.Fatalf("ping test db writer: %v", err)
	}

	reader, err := sql.Open("sqlite", dsn)
	if err != nil {
		_ = writer.Close()
		t.Fatalf("create test db reader: %v", err)
	}
	reader.SetMaxOpenConns(4)
	if err := reader.PingContext(context.Background()); err != nil {
		_ = reader.Close()
		_ = writer.Close()
		t.Fatalf("ping test db reader: %v", err)
	}

	db := &DB{Writer: writer, Reader: reader, path: dsn}

	if err := RunMigrations(db.Writer); err != nil {
		_ = db.Close()
		t.Fatalf("run migrations: %v", err)
	}

	t.Cleanup(func() { _ = db.Close() })

	return db
}

// seedReferences inserts one account type and one namespace in ctx's
// organization and returns their IDs.
func seedReferences(t *testing.T, ctx context.Context, db *DB) (typeID, namespaceID int64) {
	t.Helper()

	accountType, err := NewAccountTypeRepo(db).Add(ctx, model.AccountType{Name: "database"})
	if err != nil {
		t.Fatalf("seed account type: %v", err)
	}

	ns, err := NewNamespaceRepo(db).Add(ctx, model.Namespace{Name: "default"})
	if err != nil {
		t.Fatalf("seed namespace: %v", err)
	}

	return accountType.ID, ns.ID
}

// newTestAccount returns a valid, not yet persisted account.
func newTestAccount(id string, typeID, namespaceID int64) *model.Account {
	return &model.Account{
		ID:          id,
		Name:        "svc-db@10.0.0.5",
		Username:    "svc-db",
		Address:     "10.0.0.5",
		SecretType:  model.SecretTypePassword,
		TypeID:      typeID,
		NamespaceID: namespaceID,
		IsActive:    true,
	}
}
