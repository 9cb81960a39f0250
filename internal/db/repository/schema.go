package repository

import (
	"context"
	"database/sql"

	"lakegate/internal/domain"
)

var _ domain.SchemaRepository = (*SchemaRepo)(nil)

// SchemaRepo stores schema records, namespaced by catalog.
type SchemaRepo struct {
	db *sql.DB
}

// NewSchemaRepo creates a SchemaRepo.
func NewSchemaRepo(db *sql.DB) *SchemaRepo {
	return &SchemaRepo{db: db}
}

const schemaSelect = `
	SELECT s.id, s.catalog_id, c.name, s.name, s.comment, s.created_at, s.updated_at
	FROM schemas s JOIN catalogs c ON c.id = s.catalog_id`

func scanSchemaRow(scan func(dest ...any) error) (*domain.Schema, error) {
	var s domain.Schema
	if err := scan(&s.ID, &s.CatalogID, &s.CatalogName, &s.Name, &s.Comment, &s.CreatedAt, &s.UpdatedAt); err != nil {
		return nil, mapDBError(err)
	}
	return &s, nil
}

// Create inserts a schema record under its catalog.
func (r *SchemaRepo) Create(ctx context.Context, s *domain.Schema) (*domain.Schema, error) {
	if err := validateIdentifier(s.Name); err != nil {
		return nil, err
	}
	id := domain.NewID()
	if _, err := r.db.ExecContext(ctx,
		`INSERT INTO schemas (id, catalog_id, name, comment)
		 SELECT ?, c.id, ?, ? FROM catalogs c WHERE c.name = ?`,
		id, s.Name, s.Comment, s.CatalogName); err != nil {
		return nil, mapDBError(err)
	}
	out, err := scanSchemaRow(r.db.QueryRowContext(ctx, schemaSelect+` WHERE s.id = ?`, id).Scan)
	if err != nil {
		// The INSERT..SELECT inserts nothing when the catalog is missing.
		if _, nf := err.(*domain.NotFoundError); nf {
			return nil, domain.ErrNotFound("catalog %q not found", s.CatalogName)
		}
		return nil, err
	}
	return out, nil
}

// GetByName returns the schema with the given name within a catalog.
func (r *SchemaRepo) GetByName(ctx context.Context, catalogName, name string) (*domain.Schema, error) {
	return scanSchemaRow(r.db.QueryRowContext(ctx,
		schemaSelect+` WHERE c.name = ? AND s.name = ?`, catalogName, name).Scan)
}

// List returns a page of a catalog's schemas ordered by name.
func (r *SchemaRepo) List(ctx context.Context, catalogName string, page domain.PageRequest) ([]domain.Schema, int64, error) {
	var total int64
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM schemas s JOIN catalogs c ON c.id = s.catalog_id WHERE c.name = ?`,
		catalogName).Scan(&total); err != nil {
		return nil, 0, mapDBError(err)
	}

	rows, err := r.db.QueryContext(ctx,
		schemaSelect+` WHERE c.name = ? ORDER BY s.name LIMIT ? OFFSET ?`,
		catalogName, page.Limit(), page.Offset())
	if err != nil {
		return nil, 0, mapDBError(err)
	}
	defer rows.Close() //nolint:errcheck

	var out []domain.Schema
	for rows.Next() {
		s, err := scanSchemaRow(rows.Scan)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, *s)
	}
	return out, total, rows.Err()
}

// Update applies the non-nil fields of req to the schema.
func (r *SchemaRepo) Update(ctx context.Context, catalogName, name string, req domain.UpdateSchemaRequest) (*domain.Schema, error) {
	if req.Comment != nil {
		res, err := r.db.ExecContext(ctx,
			`UPDATE schemas SET comment = ?, updated_at = CURRENT_TIMESTAMP
			 WHERE name = ? AND catalog_id = (SELECT id FROM catalogs WHERE name = ?)`,
			*req.Comment, name, catalogName)
		if err != nil {
			return nil, mapDBError(err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return nil, domain.ErrNotFound("schema %q not found in catalog %q", name, catalogName)
		}
	}
	return r.GetByName(ctx, catalogName, name)
}

// Delete removes the schema.
func (r *SchemaRepo) Delete(ctx context.Context, catalogName, name string) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM schemas
		 WHERE name = ? AND catalog_id = (SELECT id FROM catalogs WHERE name = ?)`,
		name, catalogName)
	if err != nil {
		return mapDBError(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound("schema %q not found in catalog %q", name, catalogName)
	}
	return nil
}
