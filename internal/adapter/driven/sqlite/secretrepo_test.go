package sqlite

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericfisherdev/accountvault/internal/adapter/driven/secretstoretest"
	"github.com/ericfisherdev/accountvault/internal/domain/model"
	"github.com/ericfisherdev/accountvault/internal/domain/port/driven"
)

var testKey = bytes.Repeat([]byte{0x42}, 32)

func TestSecretRepo_Contract(t *testing.T) {
	secretstoretest.Run(t, secretstoretest.Policy{
		CreateRejectsExisting: true,
		UpdateRejectsMissing:  true,
	}, func(t *testing.T) driven.SecretStore {
		return NewSecretRepo(setupTestDB(t), testKey)
	})
}

func TestSecretRepo_StoresCiphertextOnly(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSecretRepo(db, testKey)
	ctx := context.Background()

	require.NoError(t, repo.CreateSecret(ctx, "a1", model.NewSecretPayload(repo.Key(), "p@ssw0rd")))

	var stored string
	err := db.Reader.QueryRowContext(ctx, `SELECT payload FROM account_secrets WHERE account_id = ?`, "a1").Scan(&stored)
	require.NoError(t, err)
	assert.NotContains(t, stored, "p@ssw0rd")
}

func TestSecretRepo_CiphertextBoundToAccount(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSecretRepo(db, testKey)
	ctx := context.Background()

	require.NoError(t, repo.CreateSecret(ctx, "a1", model.NewSecretPayload(repo.Key(), "alpha")))
	require.NoError(t, repo.CreateSecret(ctx, "a2", model.NewSecretPayload(repo.Key(), "bravo")))

	// Copy a1's sealed payload onto a2's row.
	_, err := db.Writer.ExecContext(ctx,
		`UPDATE account_secrets SET payload = (SELECT payload FROM account_secrets WHERE account_id = 'a1') WHERE account_id = 'a2'`)
	require.NoError(t, err)

	_, err = repo.GetSecret(ctx, "a2")
	require.Error(t, err)
}

func TestSecretRepo_WrongKeyCannotDecrypt(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	writer := NewSecretRepo(db, testKey)
	require.NoError(t, writer.CreateSecret(ctx, "a1", model.NewSecretPayload(writer.Key(), "p@ssw0rd")))

	reader := NewSecretRepo(db, bytes.Repeat([]byte{0x24}, 32))
	_, err := reader.GetSecret(ctx, "a1")
	require.Error(t, err)
}

func TestSecretRepo_NilKey(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSecretRepo(db, nil)
	ctx := context.Background()

	err := repo.CreateSecret(ctx, "a1", model.NewSecretPayload(repo.Key(), "x"))
	require.ErrorIs(t, err, driven.ErrStoreMisconfigured)

	_, err = repo.GetSecret(ctx, "a1")
	require.ErrorIs(t, err, driven.ErrStoreMisconfigured)
}

func TestSecretRepo_ClosedDatabaseIsUnavailable(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSecretRepo(db, testKey)
	ctx := context.Background()

	require.NoError(t, db.Close())

	err := repo.DeleteSecret(ctx, "a1")
	require.ErrorIs(t, err, driven.ErrStoreUnavailable)

	_, err = repo.GetSecret(ctx, "a1")
	require.ErrorIs(t, err, driven.ErrStoreUnavailable)
}
