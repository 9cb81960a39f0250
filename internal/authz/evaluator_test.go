package authz

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lakegate/internal/domain"
)

var (
	metaRef = domain.Ref(domain.SecurableMetastore, "m-1")
	catRef  = domain.Ref(domain.SecurableCatalog, "c-1")
)

func metaCatBindings() Bindings {
	return Bindings{
		domain.SecurableMetastore: metaRef.ID,
		domain.SecurableCatalog:   catRef.ID,
	}
}

func TestEvaluateAuthorizeAllOf(t *testing.T) {
	store := newFakeStore()
	ev := NewEvaluator(store, nil)
	alice := user("alice")
	ctx := context.Background()

	expr := Authorize(domain.SecurableCatalog, domain.PrivUseCatalog, domain.PrivCreateSchema)

	// Holding only one of two privileges is not enough.
	store.grant("alice", "user", catRef, domain.PrivUseCatalog)
	ok, err := ev.Evaluate(ctx, alice, expr, metaCatBindings())
	require.NoError(t, err)
	assert.False(t, ok)

	store.grant("alice", "user", catRef, domain.PrivCreateSchema)
	ok, err = ev.Evaluate(ctx, alice, expr, metaCatBindings())
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestEvaluateAuthorizeAny(t *testing.T) {
	store := newFakeStore()
	ev := NewEvaluator(store, nil)
	bob := user("bob")
	ctx := context.Background()

	expr := AuthorizeAny(domain.SecurableCatalog, domain.PrivUseCatalog, domain.PrivCreateSchema)

	// Neither privilege held.
	ok, err := ev.Evaluate(ctx, bob, expr, metaCatBindings())
	require.NoError(t, err)
	assert.False(t, ok)

	// One of the two suffices.
	store.grant("bob", "user", catRef, domain.PrivCreateSchema)
	ok, err = ev.Evaluate(ctx, bob, expr, metaCatBindings())
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestEvaluateOwnerSubsumesEverything(t *testing.T) {
	store := newFakeStore()
	ev := NewEvaluator(store, nil)
	owner := user("carol")
	ctx := context.Background()
	require.NoError(t, store.SetOwner(ctx, catRef, "carol"))

	exprs := []Expression{
		Authorize(domain.SecurableCatalog, domain.PrivOwner),
		Authorize(domain.SecurableCatalog, domain.PrivUseCatalog),
		Authorize(domain.SecurableCatalog, domain.PrivUseCatalog, domain.PrivCreateSchema),
		AuthorizeAny(domain.SecurableCatalog, domain.PrivOwner, domain.PrivUseCatalog),
	}
	for _, expr := range exprs {
		ok, err := ev.Evaluate(ctx, owner, expr, metaCatBindings())
		require.NoError(t, err)
		assert.True(t, ok)
	}
}

func TestEvaluateNoGrantsDenies(t *testing.T) {
	store := newFakeStore()
	ev := NewEvaluator(store, nil)
	nobody := user("nobody")
	ctx := context.Background()

	exprs := []Expression{
		Authorize(domain.SecurableCatalog, domain.PrivUseCatalog),
		Authorize(domain.SecurableCatalog, domain.PrivOwner),
		AuthorizeAny(domain.SecurableCatalog, domain.PrivOwner, domain.PrivUseCatalog),
	}
	for _, expr := range exprs {
		ok, err := ev.Evaluate(ctx, nobody, expr, metaCatBindings())
		require.NoError(t, err)
		assert.False(t, ok)
	}
}

func TestEvaluateMissingBindingDenies(t *testing.T) {
	store := newFakeStore()
	ev := NewEvaluator(store, nil)
	alice := user("alice")
	ctx := context.Background()

	// Grants exist, but the expression references a type with no binding.
	store.grant("alice", "user", catRef, domain.PrivUseCatalog)
	expr := Authorize(domain.SecurableCatalog, domain.PrivUseCatalog)

	ok, err := ev.Evaluate(ctx, alice, expr, Bindings{domain.SecurableMetastore: metaRef.ID})
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestEvaluateShortCircuit(t *testing.T) {
	boom := errors.New("right branch must not be evaluated")
	store := newFakeStore()
	ev := NewEvaluator(store, nil)
	alice := user("alice")
	ctx := context.Background()

	// The right branch references a binding over a store that fails on
	// every lookup. If evaluated it would raise.
	right := Authorize(domain.SecurableCatalog, domain.PrivUseCatalog)

	// Or: left true, right skipped.
	store.SetOwner(ctx, metaRef, "alice")
	leftTrue := Authorize(domain.SecurableMetastore, domain.PrivOwner)
	lookupsBefore := len(store.lookups)
	ok, err := ev.Evaluate(ctx, alice, Or(leftTrue, right), metaCatBindings())
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, lookupsBefore, len(store.lookups), "Or right branch was evaluated")

	// And: left false, right skipped even though it would error.
	failing := newFakeStore()
	failing.failNext = boom
	evFail := NewEvaluator(failing, nil)
	leftFalse := Authorize(domain.SecurableSchema, domain.PrivUseSchema) // unbound -> false without store access
	ok, err = evFail.Evaluate(ctx, alice, And(leftFalse, right), metaCatBindings())
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestEvaluateDeferIsTrueAtGate(t *testing.T) {
	ev := NewEvaluator(newFakeStore(), nil)
	ok, err := ev.Evaluate(context.Background(), user("anyone"), Defer(), Bindings{})
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestEvaluateStoreErrorPropagates(t *testing.T) {
	store := newFakeStore()
	store.failNext = domain.ErrUnavailable("grant store down")
	ev := NewEvaluator(store, nil)

	_, err := ev.Evaluate(context.Background(), user("alice"),
		Authorize(domain.SecurableCatalog, domain.PrivUseCatalog), metaCatBindings())
	require.Error(t, err)
	assert.ErrorAs(t, err, new(*domain.UnavailableError))
}

func TestEvaluateGroupGrants(t *testing.T) {
	store := newFakeStore()
	groups := &fakeGroups{byMember: map[string][]domain.Group{
		"user|alice":     {{ID: "g-analysts"}},
		"group|g-analysts": {{ID: "g-staff"}},
	}}
	ev := NewEvaluator(store, groups)
	ctx := context.Background()

	// Grant held by a nested group two levels up.
	store.grant("g-staff", "group", catRef, domain.PrivUseCatalog)

	ok, err := ev.Evaluate(ctx, user("alice"),
		Authorize(domain.SecurableCatalog, domain.PrivUseCatalog), metaCatBindings())
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestEvaluateAdminBypass(t *testing.T) {
	ev := NewEvaluator(newFakeStore(), nil)
	admin := &domain.Principal{ID: "root", Name: "root", Type: "user", IsAdmin: true}

	ok, err := ev.Evaluate(context.Background(), admin,
		Authorize(domain.SecurableCatalog, domain.PrivUseCatalog), Bindings{})
	require.NoError(t, err)
	assert.True(t, ok)
}
