package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	internaldb "lakegate/internal/db"
	"lakegate/internal/domain"
)

func newGrantRepo(t *testing.T) *GrantRepo {
	t.Helper()
	writeDB, _ := internaldb.OpenTest(t)
	return NewGrantRepo(writeDB)
}

func TestGrantIsIdempotent(t *testing.T) {
	ctx := context.Background()
	repo := newGrantRepo(t)
	ref := domain.Ref(domain.SecurableCatalog, "cat-1")

	g := &domain.PrivilegeGrant{
		PrincipalID:   "p-1",
		PrincipalType: "user",
		Securable:     ref,
		Privilege:     domain.PrivUseCatalog,
	}
	first, err := repo.Grant(ctx, g)
	require.NoError(t, err)
	second, err := repo.Grant(ctx, g)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	grants, total, err := repo.ListForSecurable(ctx, ref, domain.PageRequest{})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, grants, 1)
	assert.Equal(t, domain.PrivUseCatalog, grants[0].Privilege)
}

func TestHasPrivilegeAfterGrantAndRevoke(t *testing.T) {
	ctx := context.Background()
	repo := newGrantRepo(t)
	ref := domain.Ref(domain.SecurableTable, "tbl-1")

	ok, err := repo.HasPrivilege(ctx, "p-1", "user", ref, domain.PrivSelect)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = repo.Grant(ctx, &domain.PrivilegeGrant{
		PrincipalID: "p-1", PrincipalType: "user",
		Securable: ref, Privilege: domain.PrivSelect,
	})
	require.NoError(t, err)

	ok, err = repo.HasPrivilege(ctx, "p-1", "user", ref, domain.PrivSelect)
	require.NoError(t, err)
	assert.True(t, ok)

	// Same privilege held as a group must not leak to the user identity.
	ok, err = repo.HasPrivilege(ctx, "p-1", "group", ref, domain.PrivSelect)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, repo.Revoke(ctx, "p-1", "user", ref, domain.PrivSelect))
	ok, err = repo.HasPrivilege(ctx, "p-1", "user", ref, domain.PrivSelect)
	require.NoError(t, err)
	assert.False(t, ok)

	// Revoking again is a no-op.
	require.NoError(t, repo.Revoke(ctx, "p-1", "user", ref, domain.PrivSelect))
}

func TestOwnershipIsExclusive(t *testing.T) {
	ctx := context.Background()
	repo := newGrantRepo(t)
	ref := domain.Ref(domain.SecurableSchema, "sch-1")

	require.NoError(t, repo.SetOwner(ctx, ref, "p-1"))
	ok, err := repo.IsOwner(ctx, "p-1", ref)
	require.NoError(t, err)
	assert.True(t, ok)

	// Transferring ownership removes it from the previous owner.
	require.NoError(t, repo.SetOwner(ctx, ref, "p-2"))

	ok, err = repo.IsOwner(ctx, "p-1", ref)
	require.NoError(t, err)
	assert.False(t, ok)
	ok, err = repo.IsOwner(ctx, "p-2", ref)
	require.NoError(t, err)
	assert.True(t, ok)

	owner, err := repo.Owner(ctx, ref)
	require.NoError(t, err)
	assert.Equal(t, "p-2", owner.PrincipalID)
}

func TestOwnerNotFoundWhenUnset(t *testing.T) {
	ctx := context.Background()
	repo := newGrantRepo(t)

	_, err := repo.Owner(ctx, domain.Ref(domain.SecurableCatalog, "nope"))
	var nf *domain.NotFoundError
	assert.ErrorAs(t, err, &nf)
}

func TestHasPrivilegeWithOwnerRoutesToOwners(t *testing.T) {
	ctx := context.Background()
	repo := newGrantRepo(t)
	ref := domain.Ref(domain.SecurableCatalog, "cat-1")

	require.NoError(t, repo.SetOwner(ctx, ref, "p-1"))
	ok, err := repo.HasPrivilege(ctx, "p-1", "user", ref, domain.PrivOwner)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRevokeAllClearsGrantsAndOwner(t *testing.T) {
	ctx := context.Background()
	repo := newGrantRepo(t)
	ref := domain.Ref(domain.SecurableCatalog, "cat-1")
	other := domain.Ref(domain.SecurableCatalog, "cat-2")

	for _, priv := range []domain.Privilege{domain.PrivUseCatalog, domain.PrivCreateSchema} {
		_, err := repo.Grant(ctx, &domain.PrivilegeGrant{
			PrincipalID: "p-1", PrincipalType: "user", Securable: ref, Privilege: priv,
		})
		require.NoError(t, err)
	}
	_, err := repo.Grant(ctx, &domain.PrivilegeGrant{
		PrincipalID: "p-1", PrincipalType: "user", Securable: other, Privilege: domain.PrivUseCatalog,
	})
	require.NoError(t, err)
	require.NoError(t, repo.SetOwner(ctx, ref, "p-1"))

	require.NoError(t, repo.RevokeAll(ctx, ref))

	_, total, err := repo.ListForSecurable(ctx, ref, domain.PageRequest{})
	require.NoError(t, err)
	assert.EqualValues(t, 0, total)

	ok, err := repo.IsOwner(ctx, "p-1", ref)
	require.NoError(t, err)
	assert.False(t, ok)

	// Grants on other securables survive.
	_, total, err = repo.ListForSecurable(ctx, other, domain.PageRequest{})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
}

func TestListForPrincipalPaginates(t *testing.T) {
	ctx := context.Background()
	repo := newGrantRepo(t)

	for i := 0; i < 5; i++ {
		_, err := repo.Grant(ctx, &domain.PrivilegeGrant{
			PrincipalID:   "p-1",
			PrincipalType: "user",
			Securable:     domain.Ref(domain.SecurableCatalog, domain.NewID()),
			Privilege:     domain.PrivUseCatalog,
		})
		require.NoError(t, err)
	}

	page, total, err := repo.ListForPrincipal(ctx, "p-1", "user", domain.PageRequest{MaxResults: 2})
	require.NoError(t, err)
	assert.EqualValues(t, 5, total)
	assert.Len(t, page, 2)
}
