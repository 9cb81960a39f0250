// Package catalog implements the governed metadata services: catalogs,
// schemas, tables, and functions, each operation gated by a statically
// registered authorization rule.
package catalog

import (
	"context"

	"lakegate/internal/authz"
	"lakegate/internal/domain"
)

// Operation names, one per registry entry. Handlers and services refer to
// operations by these names only.
const (
	OpGetMetastore = "metastore.get"

	OpCreateCatalog = "catalogs.create"
	OpGetCatalog    = "catalogs.get"
	OpListCatalogs  = "catalogs.list"
	OpUpdateCatalog = "catalogs.update"
	OpDeleteCatalog = "catalogs.delete"

	OpCreateSchema = "schemas.create"
	OpGetSchema    = "schemas.get"
	OpListSchemas  = "schemas.list"
	OpUpdateSchema = "schemas.update"
	OpDeleteSchema = "schemas.delete"

	OpCreateTable = "tables.create"
	OpGetTable    = "tables.get"
	OpListTables  = "tables.list"
	OpUpdateTable = "tables.update"
	OpDeleteTable = "tables.delete"

	OpCreateFunction = "functions.create"
	OpGetFunction    = "functions.get"
	OpListFunctions  = "functions.list"
	OpDeleteFunction = "functions.delete"
)

// RegisterOperations adds the catalog domain's operations to the static
// table. Rules follow the hierarchy: the metastore owner may do anything, a
// securable's owner may manage it, and USE_* privileges gate traversal into
// containers. The table is validated against the binder before the server
// starts serving.
func RegisterOperations(registry *authz.Registry) error {
	metastoreOwner := authz.Authorize(domain.SecurableMetastore, domain.PrivOwner)
	catalogOwner := authz.Authorize(domain.SecurableCatalog, domain.PrivOwner)
	schemaOwner := authz.Authorize(domain.SecurableSchema, domain.PrivOwner)

	useCatalog := authz.Authorize(domain.SecurableCatalog, domain.PrivUseCatalog)
	useSchema := authz.Authorize(domain.SecurableSchema, domain.PrivUseSchema)

	// Visibility of a catalog: metastore owner, catalog owner, or USE_CATALOG.
	catalogVisible := authz.Or(metastoreOwner,
		authz.AuthorizeAny(domain.SecurableCatalog, domain.PrivOwner, domain.PrivUseCatalog))

	// Visibility of a schema additionally requires traversal of its catalog.
	schemaVisible := authz.Or(metastoreOwner,
		authz.Or(catalogOwner,
			authz.And(useCatalog,
				authz.AuthorizeAny(domain.SecurableSchema, domain.PrivOwner, domain.PrivUseSchema))))

	// Traversal into a schema for leaf securables.
	schemaTraversal := authz.Or(metastoreOwner,
		authz.Or(catalogOwner,
			authz.Or(schemaOwner, authz.And(useCatalog, useSchema))))

	ops := []authz.Operation{
		{
			// Any authenticated principal may read the metastore summary.
			Name: OpGetMetastore, Kind: authz.OpRead,
			Expression: authz.Defer(),
		},
		{
			Name: OpCreateCatalog, Kind: authz.OpMutation,
			Expression: authz.AuthorizeAny(domain.SecurableMetastore, domain.PrivOwner, domain.PrivCreateCatalog),
		},
		{
			Name: OpGetCatalog, Kind: authz.OpRead,
			Expression: catalogVisible,
		},
		{
			Name: OpListCatalogs, Kind: authz.OpList,
			Expression:       authz.Defer(),
			FilterExpression: catalogVisible,
		},
		{
			Name: OpUpdateCatalog, Kind: authz.OpMutation,
			Expression: catalogOwner,
		},
		{
			Name: OpDeleteCatalog, Kind: authz.OpMutation,
			Expression: authz.Or(metastoreOwner, catalogOwner),
		},

		{
			Name: OpCreateSchema, Kind: authz.OpMutation,
			Expression: authz.Or(metastoreOwner,
				authz.Or(catalogOwner,
					authz.Authorize(domain.SecurableCatalog, domain.PrivUseCatalog, domain.PrivCreateSchema))),
		},
		{
			Name: OpGetSchema, Kind: authz.OpRead,
			Expression: schemaVisible,
		},
		{
			Name: OpListSchemas, Kind: authz.OpList,
			Expression: authz.Or(metastoreOwner,
				authz.Or(catalogOwner, authz.And(useCatalog, authz.Defer()))),
			FilterExpression: schemaVisible,
		},
		{
			Name: OpUpdateSchema, Kind: authz.OpMutation,
			Expression: authz.Or(metastoreOwner, authz.Or(catalogOwner, schemaOwner)),
		},
		{
			Name: OpDeleteSchema, Kind: authz.OpMutation,
			Expression: authz.Or(metastoreOwner, authz.Or(catalogOwner, schemaOwner)),
		},

		{
			Name: OpCreateTable, Kind: authz.OpMutation,
			Expression: authz.Or(metastoreOwner,
				authz.Or(catalogOwner,
					authz.Or(schemaOwner,
						authz.And(useCatalog,
							authz.Authorize(domain.SecurableSchema, domain.PrivUseSchema, domain.PrivCreateTable))))),
		},
		{
			Name: OpGetTable, Kind: authz.OpRead,
			Expression: authz.Or(schemaTraversal,
				authz.And(useCatalog, authz.And(useSchema,
					authz.AuthorizeAny(domain.SecurableTable, domain.PrivOwner, domain.PrivSelect, domain.PrivModify)))),
		},
		{
			Name: OpListTables, Kind: authz.OpList,
			Expression: authz.Or(metastoreOwner,
				authz.Or(catalogOwner,
					authz.Or(schemaOwner, authz.And(useCatalog, authz.And(useSchema, authz.Defer()))))),
			FilterExpression: authz.Or(schemaTraversal,
				authz.AuthorizeAny(domain.SecurableTable, domain.PrivOwner, domain.PrivSelect, domain.PrivModify)),
		},
		{
			Name: OpUpdateTable, Kind: authz.OpMutation,
			Expression: authz.Or(schemaTraversal,
				authz.And(useCatalog, authz.And(useSchema,
					authz.AuthorizeAny(domain.SecurableTable, domain.PrivOwner, domain.PrivModify)))),
		},
		{
			Name: OpDeleteTable, Kind: authz.OpMutation,
			Expression: authz.Or(schemaTraversal,
				authz.Authorize(domain.SecurableTable, domain.PrivOwner)),
		},

		{
			Name: OpCreateFunction, Kind: authz.OpMutation,
			Expression: authz.Or(metastoreOwner,
				authz.Or(catalogOwner,
					authz.Or(schemaOwner,
						authz.And(useCatalog,
							authz.Authorize(domain.SecurableSchema, domain.PrivUseSchema, domain.PrivCreateFunction))))),
		},
		{
			Name: OpGetFunction, Kind: authz.OpRead,
			Expression: authz.Or(schemaTraversal,
				authz.And(useCatalog, authz.And(useSchema,
					authz.AuthorizeAny(domain.SecurableFunction, domain.PrivOwner, domain.PrivExecute)))),
		},
		{
			Name: OpListFunctions, Kind: authz.OpList,
			Expression: authz.Or(metastoreOwner,
				authz.Or(catalogOwner,
					authz.Or(schemaOwner, authz.And(useCatalog, authz.And(useSchema, authz.Defer()))))),
			FilterExpression: authz.Or(schemaTraversal,
				authz.AuthorizeAny(domain.SecurableFunction, domain.PrivOwner, domain.PrivExecute)),
		},
		{
			Name: OpDeleteFunction, Kind: authz.OpMutation,
			Expression: authz.Or(schemaTraversal,
				authz.Authorize(domain.SecurableFunction, domain.PrivOwner)),
		},
	}

	for _, op := range ops {
		if err := registry.Register(op); err != nil {
			return err
		}
	}
	return nil
}

// Resolvers groups the name lookups the binder needs. Schema, table, and
// function names are only unique within their parents, so resolvers close
// over the request's path scope.
type Resolvers struct {
	Catalogs  domain.CatalogRepository
	Schemas   domain.SchemaRepository
	Tables    domain.TableRepository
	Functions domain.FunctionRepository
}

// RegisterResolvers installs one resolver per securable type. Nested
// securables use qualified keys ("catalog.schema", "catalog.schema.table")
// produced by the services from the request path.
func RegisterResolvers(b *authz.Binder, r Resolvers) error {
	if err := b.RegisterResolver(domain.SecurableCatalog, func(ctx context.Context, name string) (string, error) {
		c, err := r.Catalogs.GetByName(ctx, name)
		if err != nil {
			return "", err
		}
		return c.ID, nil
	}); err != nil {
		return err
	}
	if err := b.RegisterResolver(domain.SecurableSchema, func(ctx context.Context, key string) (string, error) {
		parents, name, err := splitQualified(key, 2)
		if err != nil {
			return "", err
		}
		s, err := r.Schemas.GetByName(ctx, parents[0], name)
		if err != nil {
			return "", err
		}
		return s.ID, nil
	}); err != nil {
		return err
	}
	if err := b.RegisterResolver(domain.SecurableTable, func(ctx context.Context, key string) (string, error) {
		parents, name, err := splitQualified(key, 3)
		if err != nil {
			return "", err
		}
		t, err := r.Tables.GetByName(ctx, parents[0], parents[1], name)
		if err != nil {
			return "", err
		}
		return t.ID, nil
	}); err != nil {
		return err
	}
	return b.RegisterResolver(domain.SecurableFunction, func(ctx context.Context, key string) (string, error) {
		parents, name, err := splitQualified(key, 3)
		if err != nil {
			return "", err
		}
		f, err := r.Functions.GetByName(ctx, parents[0], parents[1], name)
		if err != nil {
			return "", err
		}
		return f.ID, nil
	})
}
