package catalog

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lakegate/internal/domain"
)

func seedHierarchy(t *testing.T, f *fixture, root context.Context) {
	t.Helper()
	_, err := f.catalogs.Create(root, domain.CreateCatalogRequest{Name: "sales"})
	require.NoError(t, err)
	_, err = f.schemas.Create(root, domain.CreateSchemaRequest{CatalogName: "sales", Name: "q1"})
	require.NoError(t, err)
	_, err = f.tables.Create(root, domain.CreateTableRequest{CatalogName: "sales", SchemaName: "q1", Name: "orders"})
	require.NoError(t, err)
	_, err = f.functions.Create(root, domain.CreateFunctionRequest{CatalogName: "sales", SchemaName: "q1", Name: "total", Definition: "SELECT 1"})
	require.NoError(t, err)
}

func TestCreateSchemaRequiresUseAndCreateOnCatalog(t *testing.T) {
	f := newFixture(t)
	root := f.as(t, "root", true)
	created, err := f.catalogs.Create(root, domain.CreateCatalogRequest{Name: "sales"})
	require.NoError(t, err)

	ctx := f.as(t, "alice", false)
	catRef := domain.Ref(domain.SecurableCatalog, created.ID)

	// USE_CATALOG alone is not enough.
	f.grantTo(t, "alice", catRef, domain.PrivUseCatalog)
	_, err = f.schemas.Create(ctx, domain.CreateSchemaRequest{CatalogName: "sales", Name: "q1"})
	var denied *domain.AccessDeniedError
	require.ErrorAs(t, err, &denied)

	f.grantTo(t, "alice", catRef, domain.PrivCreateSchema)
	sc, err := f.schemas.Create(ctx, domain.CreateSchemaRequest{CatalogName: "sales", Name: "q1"})
	require.NoError(t, err)

	// The creator owns the schema and may manage it without further grants.
	comment := "mine"
	_, err = f.schemas.Update(ctx, "sales", "q1", domain.UpdateSchemaRequest{Comment: &comment})
	require.NoError(t, err)

	p, err := f.principals.GetByName(context.Background(), "alice")
	require.NoError(t, err)
	isOwner, err := f.grants.IsOwner(context.Background(), p.ID, domain.Ref(domain.SecurableSchema, sc.ID))
	require.NoError(t, err)
	assert.True(t, isOwner)
}

func TestGetTableRequiresFullTraversal(t *testing.T) {
	f := newFixture(t)
	root := f.as(t, "root", true)
	seedHierarchy(t, f, root)

	ctx := f.as(t, "bob", false)
	cat, err := f.catalogs.Get(root, "sales")
	require.NoError(t, err)
	sch, err := f.schemas.Get(root, "sales", "q1")
	require.NoError(t, err)
	tbl, err := f.tables.Get(root, "sales", "q1", "orders")
	require.NoError(t, err)

	// SELECT on the table alone does not grant traversal.
	f.grantTo(t, "bob", domain.Ref(domain.SecurableTable, tbl.ID), domain.PrivSelect)
	_, err = f.tables.Get(ctx, "sales", "q1", "orders")
	var denied *domain.AccessDeniedError
	require.ErrorAs(t, err, &denied)

	f.grantTo(t, "bob", domain.Ref(domain.SecurableCatalog, cat.ID), domain.PrivUseCatalog)
	_, err = f.tables.Get(ctx, "sales", "q1", "orders")
	require.ErrorAs(t, err, &denied)

	f.grantTo(t, "bob", domain.Ref(domain.SecurableSchema, sch.ID), domain.PrivUseSchema)
	got, err := f.tables.Get(ctx, "sales", "q1", "orders")
	require.NoError(t, err)
	assert.Equal(t, tbl.ID, got.ID)
}

func TestListTablesFiltersBySelect(t *testing.T) {
	f := newFixture(t)
	root := f.as(t, "root", true)
	seedHierarchy(t, f, root)
	for _, name := range []string{"returns", "shipments"} {
		_, err := f.tables.Create(root, domain.CreateTableRequest{CatalogName: "sales", SchemaName: "q1", Name: name})
		require.NoError(t, err)
	}

	ctx := f.as(t, "bob", false)
	cat, err := f.catalogs.Get(root, "sales")
	require.NoError(t, err)
	sch, err := f.schemas.Get(root, "sales", "q1")
	require.NoError(t, err)
	f.grantTo(t, "bob", domain.Ref(domain.SecurableCatalog, cat.ID), domain.PrivUseCatalog)
	f.grantTo(t, "bob", domain.Ref(domain.SecurableSchema, sch.ID), domain.PrivUseSchema)

	// Traversal alone lists nothing.
	visible, _, err := f.tables.List(ctx, "sales", "q1", domain.PageRequest{})
	require.NoError(t, err)
	assert.Empty(t, visible)

	tbl, err := f.tables.Get(root, "sales", "q1", "shipments")
	require.NoError(t, err)
	f.grantTo(t, "bob", domain.Ref(domain.SecurableTable, tbl.ID), domain.PrivSelect)

	visible, _, err = f.tables.List(ctx, "sales", "q1", domain.PageRequest{})
	require.NoError(t, err)
	require.Len(t, visible, 1)
	assert.Equal(t, "shipments", visible[0].Name)
}

func TestListSchemasGateDeniesWithoutUseCatalog(t *testing.T) {
	f := newFixture(t)
	root := f.as(t, "root", true)
	seedHierarchy(t, f, root)

	ctx := f.as(t, "carol", false)
	_, _, err := f.schemas.List(ctx, "sales", domain.PageRequest{})
	var denied *domain.AccessDeniedError
	assert.ErrorAs(t, err, &denied)
}

func TestShortPageUnderFilteredPagination(t *testing.T) {
	f := newFixture(t)
	root := f.as(t, "root", true)
	for _, name := range []string{"c1", "c2", "c3", "c4"} {
		_, err := f.catalogs.Create(root, domain.CreateCatalogRequest{Name: name})
		require.NoError(t, err)
	}

	ctx := f.as(t, "dave", false)
	c3, err := f.catalogs.Get(root, "c3")
	require.NoError(t, err)
	f.grantTo(t, "dave", domain.Ref(domain.SecurableCatalog, c3.ID), domain.PrivUseCatalog)

	// Page one covers c1..c2 pre-filter: nothing visible, but the token
	// says there is more. The short page is correct behavior.
	page1, token, err := f.catalogs.List(ctx, domain.PageRequest{MaxResults: 2})
	require.NoError(t, err)
	assert.Empty(t, page1)
	require.NotEmpty(t, token)

	page2, _, err := f.catalogs.List(ctx, domain.PageRequest{MaxResults: 2, PageToken: token})
	require.NoError(t, err)
	require.Len(t, page2, 1)
	assert.Equal(t, "c3", page2[0].Name)
}

func TestExecuteGatesFunctionRead(t *testing.T) {
	f := newFixture(t)
	root := f.as(t, "root", true)
	seedHierarchy(t, f, root)

	ctx := f.as(t, "erin", false)
	cat, err := f.catalogs.Get(root, "sales")
	require.NoError(t, err)
	sch, err := f.schemas.Get(root, "sales", "q1")
	require.NoError(t, err)
	fn, err := f.functions.Get(root, "sales", "q1", "total")
	require.NoError(t, err)

	f.grantTo(t, "erin", domain.Ref(domain.SecurableCatalog, cat.ID), domain.PrivUseCatalog)
	f.grantTo(t, "erin", domain.Ref(domain.SecurableSchema, sch.ID), domain.PrivUseSchema)

	_, err = f.functions.Get(ctx, "sales", "q1", "total")
	var denied *domain.AccessDeniedError
	require.ErrorAs(t, err, &denied)

	f.grantTo(t, "erin", domain.Ref(domain.SecurableFunction, fn.ID), domain.PrivExecute)
	got, err := f.functions.Get(ctx, "sales", "q1", "total")
	require.NoError(t, err)
	assert.Equal(t, fn.ID, got.ID)
}

func TestGroupGrantReachesMembersTransitively(t *testing.T) {
	f := newFixture(t)
	root := f.as(t, "root", true)
	seedHierarchy(t, f, root)

	ctx := f.as(t, "frank", false)
	p, err := f.principals.GetByName(context.Background(), "frank")
	require.NoError(t, err)

	outer, err := f.groups.Create(context.Background(), &domain.Group{Name: "analysts"})
	require.NoError(t, err)
	inner, err := f.groups.Create(context.Background(), &domain.Group{Name: "interns"})
	require.NoError(t, err)
	require.NoError(t, f.groups.AddMember(context.Background(), &domain.GroupMember{
		GroupID: outer.ID, MemberType: "group", MemberID: inner.ID,
	}))
	require.NoError(t, f.groups.AddMember(context.Background(), &domain.GroupMember{
		GroupID: inner.ID, MemberType: "user", MemberID: p.ID,
	}))

	cat, err := f.catalogs.Get(root, "sales")
	require.NoError(t, err)
	_, err = f.grants.Grant(context.Background(), &domain.PrivilegeGrant{
		PrincipalID: outer.ID, PrincipalType: "group",
		Securable: domain.Ref(domain.SecurableCatalog, cat.ID),
		Privilege: domain.PrivUseCatalog,
	})
	require.NoError(t, err)

	got, err := f.catalogs.Get(ctx, "sales")
	require.NoError(t, err)
	assert.Equal(t, cat.ID, got.ID)
}
