package authz

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lakegate/internal/domain"
)

// listFilterExpr mirrors the per-entry rule used by catalog listing:
// metastore owners see everything, everyone else needs OWNER or
// USE_CATALOG on the entry itself.
func listFilterExpr() Expression {
	return Or(
		Authorize(domain.SecurableMetastore, domain.PrivOwner),
		AuthorizeAny(domain.SecurableCatalog, domain.PrivOwner, domain.PrivUseCatalog),
	)
}

type catalogEntry struct {
	ID   string
	Name string
}

func catalogKeyFn(e catalogEntry) Bindings {
	return Bindings{domain.SecurableCatalog: e.ID}
}

func TestFilterKeepsOnlyAuthorizedEntriesInOrder(t *testing.T) {
	store := newFakeStore()
	ev := NewEvaluator(store, nil)
	alice := user("alice")
	ctx := context.Background()

	entries := []catalogEntry{
		{ID: "c-1", Name: "C1"}, {ID: "c-2", Name: "C2"}, {ID: "c-3", Name: "C3"},
		{ID: "c-4", Name: "C4"}, {ID: "c-5", Name: "C5"},
	}
	store.grant("alice", "user", domain.Ref(domain.SecurableCatalog, "c-2"), domain.PrivUseCatalog)
	store.grant("alice", "user", domain.Ref(domain.SecurableCatalog, "c-4"), domain.PrivUseCatalog)

	ambient := Bindings{domain.SecurableMetastore: "m-1"}
	got, err := Filter(ctx, ev, alice, listFilterExpr(), ambient, entries, catalogKeyFn)
	require.NoError(t, err)

	require.Len(t, got, 2)
	assert.Equal(t, "C2", got[0].Name)
	assert.Equal(t, "C4", got[1].Name)
}

func TestFilterMetastoreOwnerSeesAll(t *testing.T) {
	store := newFakeStore()
	ev := NewEvaluator(store, nil)
	root := user("root")
	ctx := context.Background()
	require.NoError(t, store.SetOwner(ctx, domain.Ref(domain.SecurableMetastore, "m-1"), "root"))

	entries := []catalogEntry{{ID: "c-1"}, {ID: "c-2"}}
	ambient := Bindings{domain.SecurableMetastore: "m-1"}
	got, err := Filter(ctx, ev, root, listFilterExpr(), ambient, entries, catalogKeyFn)
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

// A page cut by a pre-filter cursor may legitimately come back short even
// though more authorized entries exist beyond the cursor. This is accepted
// behavior, asserted rather than assumed.
func TestFilterShortPageUnderPagination(t *testing.T) {
	store := newFakeStore()
	ev := NewEvaluator(store, nil)
	alice := user("alice")
	ctx := context.Background()

	all := []catalogEntry{
		{ID: "c-1"}, {ID: "c-2"}, {ID: "c-3"}, {ID: "c-4"}, {ID: "c-5"}, {ID: "c-6"},
	}
	// Authorized on c-3 and c-5 only.
	store.grant("alice", "user", domain.Ref(domain.SecurableCatalog, "c-3"), domain.PrivUseCatalog)
	store.grant("alice", "user", domain.Ref(domain.SecurableCatalog, "c-5"), domain.PrivUseCatalog)

	ambient := Bindings{domain.SecurableMetastore: "m-1"}

	// First pre-filter page of size 3 holds c-1..c-3: only one survives,
	// although another authorized entry (c-5) exists past the cursor.
	page1, err := Filter(ctx, ev, alice, listFilterExpr(), ambient, all[:3], catalogKeyFn)
	require.NoError(t, err)
	assert.Len(t, page1, 1)
	assert.Equal(t, "c-3", page1[0].ID)

	page2, err := Filter(ctx, ev, alice, listFilterExpr(), ambient, all[3:], catalogKeyFn)
	require.NoError(t, err)
	assert.Len(t, page2, 1)
	assert.Equal(t, "c-5", page2[0].ID)
}

func TestFilterPropagatesStoreErrors(t *testing.T) {
	store := newFakeStore()
	store.failNext = domain.ErrUnavailable("grant store down")
	ev := NewEvaluator(store, nil)

	_, err := Filter(context.Background(), ev, user("alice"), listFilterExpr(),
		Bindings{domain.SecurableMetastore: "m-1"},
		[]catalogEntry{{ID: "c-1"}}, catalogKeyFn)
	require.Error(t, err)
	assert.ErrorAs(t, err, new(*domain.UnavailableError))
}
