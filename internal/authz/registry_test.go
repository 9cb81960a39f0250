package authz

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lakegate/internal/domain"
)

func TestRegistryRejectsDeferOnMutations(t *testing.T) {
	r := NewRegistry()

	err := r.Register(Operation{
		Name:       "catalogs.delete",
		Kind:       OpMutation,
		Expression: Defer(),
	})
	require.Error(t, err)
	assert.ErrorAs(t, err, new(*domain.ValidationError))

	// Defer buried inside a combinator is rejected too.
	err = r.Register(Operation{
		Name: "catalogs.update",
		Kind: OpMutation,
		Expression: Or(
			Authorize(domain.SecurableCatalog, domain.PrivOwner),
			Defer(),
		),
	})
	require.Error(t, err)

	// Defer on a list operation is fine.
	err = r.Register(Operation{
		Name:             "catalogs.list",
		Kind:             OpList,
		Expression:       Defer(),
		FilterExpression: AuthorizeAny(domain.SecurableCatalog, domain.PrivOwner, domain.PrivUseCatalog),
	})
	require.NoError(t, err)
}

func TestRegistryRejectsInvalidPrivilegePlacement(t *testing.T) {
	r := NewRegistry()

	// SELECT is a table privilege, not a catalog privilege.
	err := r.Register(Operation{
		Name:       "catalogs.read",
		Kind:       OpRead,
		Expression: Authorize(domain.SecurableCatalog, domain.PrivSelect),
	})
	require.Error(t, err)
	assert.ErrorAs(t, err, new(*domain.ValidationError))
}

func TestRegistryRejectsDuplicatesAndFilterMisuse(t *testing.T) {
	r := NewRegistry()
	op := Operation{
		Name:       "catalogs.get",
		Kind:       OpRead,
		Expression: Authorize(domain.SecurableCatalog, domain.PrivUseCatalog),
	}
	require.NoError(t, r.Register(op))
	assert.Error(t, r.Register(op), "duplicate name")

	err := r.Register(Operation{
		Name:             "catalogs.get2",
		Kind:             OpRead,
		Expression:       Authorize(domain.SecurableCatalog, domain.PrivUseCatalog),
		FilterExpression: Authorize(domain.SecurableCatalog, domain.PrivUseCatalog),
	})
	assert.Error(t, err, "filter expression on a non-list operation")
}

func TestRegistryValidateAgainstBinder(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(Operation{
		Name:       "schemas.get",
		Kind:       OpRead,
		Expression: Authorize(domain.SecurableSchema, domain.PrivUseSchema),
	}))

	b := NewBinder("m-1")
	err := r.Validate(b)
	require.Error(t, err, "schema type has no resolver")

	require.NoError(t, b.RegisterResolver(domain.SecurableSchema,
		func(context.Context, string) (string, error) { return "s-1", nil }))
	assert.NoError(t, r.Validate(b))
}

func TestRegistryGet(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(Operation{
		Name:       "catalogs.get",
		Kind:       OpRead,
		Expression: Authorize(domain.SecurableCatalog, domain.PrivUseCatalog),
	}))

	op, err := r.Get("catalogs.get")
	require.NoError(t, err)
	assert.Equal(t, OpRead, op.Kind)

	_, err = r.Get("nope")
	assert.Error(t, err)
}
