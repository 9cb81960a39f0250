package repository

import (
	"context"
	"database/sql"

	"lakegate/internal/domain"
)

var _ domain.CatalogRepository = (*CatalogRepo)(nil)

// CatalogRepo stores catalog records in the SQLite metastore.
type CatalogRepo struct {
	db *sql.DB
}

// NewCatalogRepo creates a CatalogRepo.
func NewCatalogRepo(db *sql.DB) *CatalogRepo {
	return &CatalogRepo{db: db}
}

const catalogCols = `id, name, comment, created_at, updated_at`

func scanCatalog(row *sql.Row) (*domain.Catalog, error) {
	var c domain.Catalog
	if err := row.Scan(&c.ID, &c.Name, &c.Comment, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, mapDBError(err)
	}
	return &c, nil
}

// Create inserts a catalog record.
func (r *CatalogRepo) Create(ctx context.Context, c *domain.Catalog) (*domain.Catalog, error) {
	if err := validateIdentifier(c.Name); err != nil {
		return nil, err
	}
	id := domain.NewID()
	if _, err := r.db.ExecContext(ctx,
		`INSERT INTO catalogs (id, name, comment) VALUES (?, ?, ?)`,
		id, c.Name, c.Comment); err != nil {
		return nil, mapDBError(err)
	}
	return r.getByID(ctx, id)
}

func (r *CatalogRepo) getByID(ctx context.Context, id string) (*domain.Catalog, error) {
	return scanCatalog(r.db.QueryRowContext(ctx,
		`SELECT `+catalogCols+` FROM catalogs WHERE id = ?`, id))
}

// GetByName returns the catalog with the given name.
func (r *CatalogRepo) GetByName(ctx context.Context, name string) (*domain.Catalog, error) {
	return scanCatalog(r.db.QueryRowContext(ctx,
		`SELECT `+catalogCols+` FROM catalogs WHERE name = ?`, name))
}

// List returns a page of catalogs ordered by name.
func (r *CatalogRepo) List(ctx context.Context, page domain.PageRequest) ([]domain.Catalog, int64, error) {
	var total int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM catalogs`).Scan(&total); err != nil {
		return nil, 0, mapDBError(err)
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT `+catalogCols+` FROM catalogs ORDER BY name LIMIT ? OFFSET ?`,
		page.Limit(), page.Offset())
	if err != nil {
		return nil, 0, mapDBError(err)
	}
	defer rows.Close() //nolint:errcheck

	var out []domain.Catalog
	for rows.Next() {
		var c domain.Catalog
		if err := rows.Scan(&c.ID, &c.Name, &c.Comment, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, 0, mapDBError(err)
		}
		out = append(out, c)
	}
	return out, total, rows.Err()
}

// Update applies the non-nil fields of req to the named catalog.
func (r *CatalogRepo) Update(ctx context.Context, name string, req domain.UpdateCatalogRequest) (*domain.Catalog, error) {
	if req.Comment != nil {
		res, err := r.db.ExecContext(ctx,
			`UPDATE catalogs SET comment = ?, updated_at = CURRENT_TIMESTAMP WHERE name = ?`,
			*req.Comment, name)
		if err != nil {
			return nil, mapDBError(err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return nil, domain.ErrNotFound("catalog %q not found", name)
		}
	}
	return r.GetByName(ctx, name)
}

// Delete removes the named catalog.
func (r *CatalogRepo) Delete(ctx context.Context, name string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM catalogs WHERE name = ?`, name)
	if err != nil {
		return mapDBError(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound("catalog %q not found", name)
	}
	return nil
}
