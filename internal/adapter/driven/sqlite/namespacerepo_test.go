package sqlite

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericfisherdev/accountvault/internal/domain/model"
	"github.com/ericfisherdev/accountvault/internal/domain/port/driven"
)

func TestNamespaceRepo_AddAndGet(t *testing.T) {
	db := setupTestDB(t)
	repo := NewNamespaceRepo(db)
	ctx := model.WithOrg(context.Background(), "org-a")

	ns, err := repo.Add(ctx, model.Namespace{Name: "payments", Comment: "PCI scope"})
	require.NoError(t, err)
	assert.Equal(t, "org-a", ns.OrgID)

	got, err := repo.GetByID(ctx, ns.ID)
	require.NoError(t, err)
	assert.Equal(t, "payments", got.Name)
	assert.Equal(t, "PCI scope", got.Comment)
}

func TestNamespaceRepo_NameUniquePerOrg(t *testing.T) {
	db := setupTestDB(t)
	repo := NewNamespaceRepo(db)
	ctxA := model.WithOrg(context.Background(), "org-a")
	ctxB := model.WithOrg(context.Background(), "org-b")

	_, err := repo.Add(ctxA, model.Namespace{Name: "default"})
	require.NoError(t, err)

	_, err = repo.Add(ctxA, model.Namespace{Name: "default"})
	require.ErrorIs(t, err, driven.ErrAlreadyExists)

	_, err = repo.Add(ctxB, model.Namespace{Name: "default"})
	require.NoError(t, err, "same name in another org is allowed")
}

func TestNamespaceRepo_OrgScoping(t *testing.T) {
	db := setupTestDB(t)
	repo := NewNamespaceRepo(db)
	ctxA := model.WithOrg(context.Background(), "org-a")
	ctxB := model.WithOrg(context.Background(), "org-b")

	ns, err := repo.Add(ctxA, model.Namespace{Name: "default"})
	require.NoError(t, err)

	_, err = repo.GetByID(ctxB, ns.ID)
	require.ErrorIs(t, err, driven.ErrNamespaceNotFound)

	list, err := repo.ListAll(ctxB)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestNamespaceRepo_RemoveReferencedIsRejected(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	typeID, nsID := seedReferences(t, ctx, db)

	require.NoError(t, NewAccountRepo(db).Insert(ctx, newTestAccount("a1", typeID, nsID)))

	repo := NewNamespaceRepo(db)
	err := repo.Remove(ctx, nsID)
	require.ErrorIs(t, err, driven.ErrReferenced)

	require.NoError(t, NewAccountRepo(db).Delete(ctx, "a1"))
	require.NoError(t, repo.Remove(ctx, nsID))
}
