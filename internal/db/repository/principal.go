package repository

import (
	"context"
	"database/sql"

	"lakegate/internal/domain"
)

var _ domain.PrincipalRepository = (*PrincipalRepo)(nil)

// PrincipalRepo stores users and service principals.
type PrincipalRepo struct {
	db *sql.DB
}

// NewPrincipalRepo creates a PrincipalRepo.
func NewPrincipalRepo(db *sql.DB) *PrincipalRepo {
	return &PrincipalRepo{db: db}
}

const principalCols = `id, name, type, is_admin, created_at`

func scanPrincipalRow(scan func(dest ...any) error) (*domain.Principal, error) {
	var p domain.Principal
	if err := scan(&p.ID, &p.Name, &p.Type, &p.IsAdmin, &p.CreatedAt); err != nil {
		return nil, mapDBError(err)
	}
	return &p, nil
}

// Create inserts a principal record.
func (r *PrincipalRepo) Create(ctx context.Context, p *domain.Principal) (*domain.Principal, error) {
	id := domain.NewID()
	if _, err := r.db.ExecContext(ctx,
		`INSERT INTO principals (id, name, type, is_admin) VALUES (?, ?, ?, ?)`,
		id, p.Name, p.Type, p.IsAdmin); err != nil {
		return nil, mapDBError(err)
	}
	return scanPrincipalRow(r.db.QueryRowContext(ctx,
		`SELECT `+principalCols+` FROM principals WHERE id = ?`, id).Scan)
}

// GetByName returns the principal with the given name.
func (r *PrincipalRepo) GetByName(ctx context.Context, name string) (*domain.Principal, error) {
	return scanPrincipalRow(r.db.QueryRowContext(ctx,
		`SELECT `+principalCols+` FROM principals WHERE name = ?`, name).Scan)
}

// List returns a page of principals ordered by name.
func (r *PrincipalRepo) List(ctx context.Context, page domain.PageRequest) ([]domain.Principal, int64, error) {
	var total int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM principals`).Scan(&total); err != nil {
		return nil, 0, mapDBError(err)
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT `+principalCols+` FROM principals ORDER BY name LIMIT ? OFFSET ?`,
		page.Limit(), page.Offset())
	if err != nil {
		return nil, 0, mapDBError(err)
	}
	defer rows.Close() //nolint:errcheck

	var out []domain.Principal
	for rows.Next() {
		p, err := scanPrincipalRow(rows.Scan)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, *p)
	}
	return out, total, rows.Err()
}

// Delete removes the principal.
func (r *PrincipalRepo) Delete(ctx context.Context, name string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM principals WHERE name = ?`, name)
	if err != nil {
		return mapDBError(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound("principal %q not found", name)
	}
	return nil
}
