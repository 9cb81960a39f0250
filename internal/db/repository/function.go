package repository

import (
	"context"
	"database/sql"

	"lakegate/internal/domain"
)

var _ domain.FunctionRepository = (*FunctionRepo)(nil)

// FunctionRepo stores function records, namespaced by catalog and schema.
type FunctionRepo struct {
	db *sql.DB
}

// NewFunctionRepo creates a FunctionRepo.
func NewFunctionRepo(db *sql.DB) *FunctionRepo {
	return &FunctionRepo{db: db}
}

const functionSelect = `
	SELECT f.id, f.schema_id, s.name, c.name, f.name, f.definition, f.comment, f.created_at, f.updated_at
	FROM functions f
	JOIN schemas s ON s.id = f.schema_id
	JOIN catalogs c ON c.id = s.catalog_id`

func scanFunctionRow(scan func(dest ...any) error) (*domain.Function, error) {
	var f domain.Function
	if err := scan(&f.ID, &f.SchemaID, &f.SchemaName, &f.CatalogName, &f.Name, &f.Definition, &f.Comment, &f.CreatedAt, &f.UpdatedAt); err != nil {
		return nil, mapDBError(err)
	}
	return &f, nil
}

// Create inserts a function record under its schema.
func (r *FunctionRepo) Create(ctx context.Context, f *domain.Function) (*domain.Function, error) {
	if err := validateIdentifier(f.Name); err != nil {
		return nil, err
	}
	id := domain.NewID()
	if _, err := r.db.ExecContext(ctx,
		`INSERT INTO functions (id, schema_id, name, definition, comment)
		 SELECT ?, s.id, ?, ?, ?
		 FROM schemas s JOIN catalogs c ON c.id = s.catalog_id
		 WHERE c.name = ? AND s.name = ?`,
		id, f.Name, f.Definition, f.Comment, f.CatalogName, f.SchemaName); err != nil {
		return nil, mapDBError(err)
	}
	out, err := scanFunctionRow(r.db.QueryRowContext(ctx, functionSelect+` WHERE f.id = ?`, id).Scan)
	if err != nil {
		if _, nf := err.(*domain.NotFoundError); nf {
			return nil, domain.ErrNotFound("schema %q not found in catalog %q", f.SchemaName, f.CatalogName)
		}
		return nil, err
	}
	return out, nil
}

// GetByName returns the function with the given name within a schema.
func (r *FunctionRepo) GetByName(ctx context.Context, catalogName, schemaName, name string) (*domain.Function, error) {
	return scanFunctionRow(r.db.QueryRowContext(ctx,
		functionSelect+` WHERE c.name = ? AND s.name = ? AND f.name = ?`,
		catalogName, schemaName, name).Scan)
}

// List returns a page of a schema's functions ordered by name.
func (r *FunctionRepo) List(ctx context.Context, catalogName, schemaName string, page domain.PageRequest) ([]domain.Function, int64, error) {
	var total int64
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*)
		 FROM functions f
		 JOIN schemas s ON s.id = f.schema_id
		 JOIN catalogs c ON c.id = s.catalog_id
		 WHERE c.name = ? AND s.name = ?`,
		catalogName, schemaName).Scan(&total); err != nil {
		return nil, 0, mapDBError(err)
	}

	rows, err := r.db.QueryContext(ctx,
		functionSelect+` WHERE c.name = ? AND s.name = ? ORDER BY f.name LIMIT ? OFFSET ?`,
		catalogName, schemaName, page.Limit(), page.Offset())
	if err != nil {
		return nil, 0, mapDBError(err)
	}
	defer rows.Close() //nolint:errcheck

	var out []domain.Function
	for rows.Next() {
		f, err := scanFunctionRow(rows.Scan)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, *f)
	}
	return out, total, rows.Err()
}

// Delete removes the function.
func (r *FunctionRepo) Delete(ctx context.Context, catalogName, schemaName, name string) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM functions
		 WHERE name = ? AND schema_id = (
		 	SELECT s.id FROM schemas s JOIN catalogs c ON c.id = s.catalog_id
		 	WHERE c.name = ? AND s.name = ?)`,
		name, catalogName, schemaName)
	if err != nil {
		return mapDBError(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound("function %q not found in %s.%s", name, catalogName, schemaName)
	}
	return nil
}
