package domain

import "context"

// GrantStore is the durable mapping of (principal, securable, privilege) to
// authorization facts. It also owns OWNER bookkeeping: at most one owner
// per securable, replaced atomically by SetOwner.
//
// HasPrivilege with PrivOwner is equivalent to IsOwner. RevokeAll is atomic
// with respect to concurrent readers: they observe either all grants for
// the ref or none.
type GrantStore interface {
	Grant(ctx context.Context, g *PrivilegeGrant) (*PrivilegeGrant, error)
	Revoke(ctx context.Context, principalID, principalType string, ref SecurableRef, priv Privilege) error
	HasPrivilege(ctx context.Context, principalID, principalType string, ref SecurableRef, priv Privilege) (bool, error)
	IsOwner(ctx context.Context, principalID string, ref SecurableRef) (bool, error)
	SetOwner(ctx context.Context, ref SecurableRef, principalID string) error
	Owner(ctx context.Context, ref SecurableRef) (*Owner, error)
	RevokeAll(ctx context.Context, ref SecurableRef) error
	ListForSecurable(ctx context.Context, ref SecurableRef, page PageRequest) ([]PrivilegeGrant, int64, error)
	ListForPrincipal(ctx context.Context, principalID, principalType string, page PageRequest) ([]PrivilegeGrant, int64, error)
}

// PrincipalRepository stores users and service principals.
type PrincipalRepository interface {
	Create(ctx context.Context, p *Principal) (*Principal, error)
	GetByName(ctx context.Context, name string) (*Principal, error)
	List(ctx context.Context, page PageRequest) ([]Principal, int64, error)
	Delete(ctx context.Context, name string) error
}

// GroupRepository stores groups and their memberships.
type GroupRepository interface {
	Create(ctx context.Context, g *Group) (*Group, error)
	GetByName(ctx context.Context, name string) (*Group, error)
	List(ctx context.Context, page PageRequest) ([]Group, int64, error)
	Delete(ctx context.Context, name string) error
	AddMember(ctx context.Context, m *GroupMember) error
	RemoveMember(ctx context.Context, m *GroupMember) error
	ListMembers(ctx context.Context, groupID string) ([]GroupMember, error)
	GetGroupsForMember(ctx context.Context, memberType, memberID string) ([]Group, error)
}

// MetastoreRepository reads the singleton metastore record.
type MetastoreRepository interface {
	Get(ctx context.Context) (*Metastore, error)
}

// CatalogRepository stores catalog records.
type CatalogRepository interface {
	Create(ctx context.Context, c *Catalog) (*Catalog, error)
	GetByName(ctx context.Context, name string) (*Catalog, error)
	List(ctx context.Context, page PageRequest) ([]Catalog, int64, error)
	Update(ctx context.Context, name string, req UpdateCatalogRequest) (*Catalog, error)
	Delete(ctx context.Context, name string) error
}

// SchemaRepository stores schema records, namespaced by catalog.
type SchemaRepository interface {
	Create(ctx context.Context, s *Schema) (*Schema, error)
	GetByName(ctx context.Context, catalogName, name string) (*Schema, error)
	List(ctx context.Context, catalogName string, page PageRequest) ([]Schema, int64, error)
	Update(ctx context.Context, catalogName, name string, req UpdateSchemaRequest) (*Schema, error)
	Delete(ctx context.Context, catalogName, name string) error
}

// TableRepository stores table records, namespaced by catalog and schema.
type TableRepository interface {
	Create(ctx context.Context, t *Table) (*Table, error)
	GetByName(ctx context.Context, catalogName, schemaName, name string) (*Table, error)
	List(ctx context.Context, catalogName, schemaName string, page PageRequest) ([]Table, int64, error)
	Update(ctx context.Context, catalogName, schemaName, name string, req UpdateTableRequest) (*Table, error)
	Delete(ctx context.Context, catalogName, schemaName, name string) error
}

// FunctionRepository stores function records, namespaced by catalog and schema.
type FunctionRepository interface {
	Create(ctx context.Context, f *Function) (*Function, error)
	GetByName(ctx context.Context, catalogName, schemaName, name string) (*Function, error)
	List(ctx context.Context, catalogName, schemaName string, page PageRequest) ([]Function, int64, error)
	Delete(ctx context.Context, catalogName, schemaName, name string) error
}

// AuditRepository appends and reads audit entries. Insert failures are
// logged but never fail the guarded operation.
type AuditRepository interface {
	Insert(ctx context.Context, e *AuditEntry) error
	List(ctx context.Context, page PageRequest) ([]AuditEntry, int64, error)
}

// APIKeyRepository looks up API keys by their SHA-256 hash.
type APIKeyRepository interface {
	Create(ctx context.Context, k *APIKey) (*APIKey, error)
	GetByHash(ctx context.Context, keyHash string) (*APIKey, error)
}
