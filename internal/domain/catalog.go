package domain

import "time"

// Metastore is the root securable. Exactly one row exists per deployment.
type Metastore struct {
	ID        string
	Name      string
	CreatedAt time.Time
}

// Catalog is a top-level container of schemas.
type Catalog struct {
	ID        string
	Name      string
	Comment   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Schema is a namespace of tables and functions within a catalog.
type Schema struct {
	ID          string
	CatalogID   string
	CatalogName string
	Name        string
	Comment     string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Table is a leaf securable within a schema.
type Table struct {
	ID          string
	SchemaID    string
	SchemaName  string
	CatalogName string
	Name        string
	TableType   string // "MANAGED" or "EXTERNAL"
	Comment     string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Function is a leaf securable within a schema.
type Function struct {
	ID          string
	SchemaID    string
	SchemaName  string
	CatalogName string
	Name        string
	Definition  string
	Comment     string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// CreateCatalogRequest carries the fields for creating a catalog.
type CreateCatalogRequest struct {
	Name    string
	Comment string
}

// UpdateCatalogRequest carries the mutable fields of a catalog. Nil fields
// are left unchanged.
type UpdateCatalogRequest struct {
	Comment *string
}

// CreateSchemaRequest carries the fields for creating a schema.
type CreateSchemaRequest struct {
	CatalogName string
	Name        string
	Comment     string
}

// UpdateSchemaRequest carries the mutable fields of a schema.
type UpdateSchemaRequest struct {
	Comment *string
}

// CreateTableRequest carries the fields for creating a table.
type CreateTableRequest struct {
	CatalogName string
	SchemaName  string
	Name        string
	TableType   string
	Comment     string
}

// UpdateTableRequest carries the mutable fields of a table.
type UpdateTableRequest struct {
	Comment *string
}

// CreateFunctionRequest carries the fields for creating a function.
type CreateFunctionRequest struct {
	CatalogName string
	SchemaName  string
	Name        string
	Definition  string
	Comment     string
}
