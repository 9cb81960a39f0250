package repository

import (
	"context"
	"database/sql"

	"lakegate/internal/domain"
)

var _ domain.AuditRepository = (*AuditRepo)(nil)

// AuditRepo appends and reads audit log entries.
type AuditRepo struct {
	db *sql.DB
}

// NewAuditRepo creates an AuditRepo.
func NewAuditRepo(db *sql.DB) *AuditRepo {
	return &AuditRepo{db: db}
}

// Insert appends an audit entry.
func (r *AuditRepo) Insert(ctx context.Context, e *domain.AuditEntry) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO audit_log (id, principal_name, action, securable_type, securable_name, status)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		domain.NewID(), e.PrincipalName, e.Action, e.SecurableType, e.SecurableName, e.Status)
	return mapDBError(err)
}

// List returns a page of audit entries, newest first.
func (r *AuditRepo) List(ctx context.Context, page domain.PageRequest) ([]domain.AuditEntry, int64, error) {
	var total int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM audit_log`).Scan(&total); err != nil {
		return nil, 0, mapDBError(err)
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT id, principal_name, action, securable_type, securable_name, status, created_at
		 FROM audit_log ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`,
		page.Limit(), page.Offset())
	if err != nil {
		return nil, 0, mapDBError(err)
	}
	defer rows.Close() //nolint:errcheck

	var out []domain.AuditEntry
	for rows.Next() {
		var e domain.AuditEntry
		if err := rows.Scan(&e.ID, &e.PrincipalName, &e.Action, &e.SecurableType, &e.SecurableName, &e.Status, &e.CreatedAt); err != nil {
			return nil, 0, mapDBError(err)
		}
		out = append(out, e)
	}
	return out, total, rows.Err()
}
