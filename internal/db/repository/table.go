package repository

import (
	"context"
	"database/sql"

	"lakegate/internal/domain"
)

var _ domain.TableRepository = (*TableRepo)(nil)

// TableRepo stores table records, namespaced by catalog and schema.
type TableRepo struct {
	db *sql.DB
}

// NewTableRepo creates a TableRepo.
func NewTableRepo(db *sql.DB) *TableRepo {
	return &TableRepo{db: db}
}

const tableSelect = `
	SELECT t.id, t.schema_id, s.name, c.name, t.name, t.table_type, t.comment, t.created_at, t.updated_at
	FROM tables t
	JOIN schemas s ON s.id = t.schema_id
	JOIN catalogs c ON c.id = s.catalog_id`

func scanTableRow(scan func(dest ...any) error) (*domain.Table, error) {
	var t domain.Table
	if err := scan(&t.ID, &t.SchemaID, &t.SchemaName, &t.CatalogName, &t.Name, &t.TableType, &t.Comment, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return nil, mapDBError(err)
	}
	return &t, nil
}

// Create inserts a table record under its schema.
func (r *TableRepo) Create(ctx context.Context, t *domain.Table) (*domain.Table, error) {
	if err := validateIdentifier(t.Name); err != nil {
		return nil, err
	}
	id := domain.NewID()
	if _, err := r.db.ExecContext(ctx,
		`INSERT INTO tables (id, schema_id, name, table_type, comment)
		 SELECT ?, s.id, ?, ?, ?
		 FROM schemas s JOIN catalogs c ON c.id = s.catalog_id
		 WHERE c.name = ? AND s.name = ?`,
		id, t.Name, t.TableType, t.Comment, t.CatalogName, t.SchemaName); err != nil {
		return nil, mapDBError(err)
	}
	out, err := scanTableRow(r.db.QueryRowContext(ctx, tableSelect+` WHERE t.id = ?`, id).Scan)
	if err != nil {
		if _, nf := err.(*domain.NotFoundError); nf {
			return nil, domain.ErrNotFound("schema %q not found in catalog %q", t.SchemaName, t.CatalogName)
		}
		return nil, err
	}
	return out, nil
}

// GetByName returns the table with the given name within a schema.
func (r *TableRepo) GetByName(ctx context.Context, catalogName, schemaName, name string) (*domain.Table, error) {
	return scanTableRow(r.db.QueryRowContext(ctx,
		tableSelect+` WHERE c.name = ? AND s.name = ? AND t.name = ?`,
		catalogName, schemaName, name).Scan)
}

// List returns a page of a schema's tables ordered by name.
func (r *TableRepo) List(ctx context.Context, catalogName, schemaName string, page domain.PageRequest) ([]domain.Table, int64, error) {
	var total int64
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*)
		 FROM tables t
		 JOIN schemas s ON s.id = t.schema_id
		 JOIN catalogs c ON c.id = s.catalog_id
		 WHERE c.name = ? AND s.name = ?`,
		catalogName, schemaName).Scan(&total); err != nil {
		return nil, 0, mapDBError(err)
	}

	rows, err := r.db.QueryContext(ctx,
		tableSelect+` WHERE c.name = ? AND s.name = ? ORDER BY t.name LIMIT ? OFFSET ?`,
		catalogName, schemaName, page.Limit(), page.Offset())
	if err != nil {
		return nil, 0, mapDBError(err)
	}
	defer rows.Close() //nolint:errcheck

	var out []domain.Table
	for rows.Next() {
		t, err := scanTableRow(rows.Scan)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, *t)
	}
	return out, total, rows.Err()
}

// Update applies the non-nil fields of req to the table.
func (r *TableRepo) Update(ctx context.Context, catalogName, schemaName, name string, req domain.UpdateTableRequest) (*domain.Table, error) {
	if req.Comment != nil {
		res, err := r.db.ExecContext(ctx,
			`UPDATE tables SET comment = ?, updated_at = CURRENT_TIMESTAMP
			 WHERE name = ? AND schema_id = (
			 	SELECT s.id FROM schemas s JOIN catalogs c ON c.id = s.catalog_id
			 	WHERE c.name = ? AND s.name = ?)`,
			*req.Comment, name, catalogName, schemaName)
		if err != nil {
			return nil, mapDBError(err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return nil, domain.ErrNotFound("table %q not found in %s.%s", name, catalogName, schemaName)
		}
	}
	return r.GetByName(ctx, catalogName, schemaName, name)
}

// Delete removes the table.
func (r *TableRepo) Delete(ctx context.Context, catalogName, schemaName, name string) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM tables
		 WHERE name = ? AND schema_id = (
		 	SELECT s.id FROM schemas s JOIN catalogs c ON c.id = s.catalog_id
		 	WHERE c.name = ? AND s.name = ?)`,
		name, catalogName, schemaName)
	if err != nil {
		return mapDBError(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound("table %q not found in %s.%s", name, catalogName, schemaName)
	}
	return nil
}
