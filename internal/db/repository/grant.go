package repository

import (
	"context"
	"database/sql"
	"fmt"

	"lakegate/internal/domain"
)

var _ domain.GrantStore = (*GrantRepo)(nil)

// GrantRepo implements domain.GrantStore on SQLite. Non-owner grants live
// in the grants table with a uniqueness constraint giving them set
// semantics; ownership lives in the owners table keyed by securable ref,
// so at most one owner row can exist per securable.
type GrantRepo struct {
	db *sql.DB
}

// NewGrantRepo creates a GrantRepo. Pass the write pool: grant mutations
// must serialize through the single write connection.
func NewGrantRepo(db *sql.DB) *GrantRepo {
	return &GrantRepo{db: db}
}

// Grant inserts an authorization fact. Granting an existing fact is a
// no-op: the stored row is returned unchanged.
func (r *GrantRepo) Grant(ctx context.Context, g *domain.PrivilegeGrant) (*domain.PrivilegeGrant, error) {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO grants (id, principal_id, principal_type, securable_type, securable_id, privilege, granted_by)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (principal_id, principal_type, securable_type, securable_id, privilege) DO NOTHING`,
		domain.NewID(), g.PrincipalID, g.PrincipalType,
		string(g.Securable.Type), g.Securable.ID, string(g.Privilege), nullStr(g.GrantedBy))
	if err != nil {
		return nil, mapDBError(err)
	}

	var out domain.PrivilegeGrant
	var grantedBy sql.NullString
	var securableType, privilege string
	err = r.db.QueryRowContext(ctx,
		`SELECT id, principal_id, principal_type, securable_type, securable_id, privilege, granted_by, granted_at
		 FROM grants
		 WHERE principal_id = ? AND principal_type = ? AND securable_type = ? AND securable_id = ? AND privilege = ?`,
		g.PrincipalID, g.PrincipalType, string(g.Securable.Type), g.Securable.ID, string(g.Privilege)).
		Scan(&out.ID, &out.PrincipalID, &out.PrincipalType,
			&securableType, &out.Securable.ID, &privilege, &grantedBy, &out.GrantedAt)
	if err != nil {
		return nil, mapDBError(err)
	}
	out.Securable.Type = domain.SecurableType(securableType)
	out.Privilege = domain.Privilege(privilege)
	out.GrantedBy = strPtr(grantedBy)
	return &out, nil
}

// Revoke removes a single authorization fact. Revoking a fact that does
// not exist is a no-op.
func (r *GrantRepo) Revoke(ctx context.Context, principalID, principalType string, ref domain.SecurableRef, priv domain.Privilege) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM grants
		 WHERE principal_id = ? AND principal_type = ? AND securable_type = ? AND securable_id = ? AND privilege = ?`,
		principalID, principalType, string(ref.Type), ref.ID, string(priv))
	return mapDBError(err)
}

// HasPrivilege reports whether the principal holds a direct grant. OWNER is
// answered from the owners table.
func (r *GrantRepo) HasPrivilege(ctx context.Context, principalID, principalType string, ref domain.SecurableRef, priv domain.Privilege) (bool, error) {
	if priv == domain.PrivOwner {
		return r.IsOwner(ctx, principalID, ref)
	}
	var cnt int64
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM grants
		 WHERE principal_id = ? AND principal_type = ? AND securable_type = ? AND securable_id = ? AND privilege = ?`,
		principalID, principalType, string(ref.Type), ref.ID, string(priv)).Scan(&cnt)
	if err != nil {
		return false, mapDBError(err)
	}
	return cnt > 0, nil
}

// IsOwner reports whether the principal is the securable's owner.
func (r *GrantRepo) IsOwner(ctx context.Context, principalID string, ref domain.SecurableRef) (bool, error) {
	var cnt int64
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM owners
		 WHERE securable_type = ? AND securable_id = ? AND principal_id = ?`,
		string(ref.Type), ref.ID, principalID).Scan(&cnt)
	if err != nil {
		return false, mapDBError(err)
	}
	return cnt > 0, nil
}

// SetOwner makes the principal the securable's owner, replacing any prior
// owner atomically: the primary key on (securable_type, securable_id)
// guarantees two simultaneous owners can never be observed.
func (r *GrantRepo) SetOwner(ctx context.Context, ref domain.SecurableRef, principalID string) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO owners (securable_type, securable_id, principal_id)
		 VALUES (?, ?, ?)
		 ON CONFLICT (securable_type, securable_id)
		 DO UPDATE SET principal_id = excluded.principal_id, set_at = CURRENT_TIMESTAMP`,
		string(ref.Type), ref.ID, principalID)
	return mapDBError(err)
}

// Owner returns the securable's owner, or NotFoundError when it has none.
func (r *GrantRepo) Owner(ctx context.Context, ref domain.SecurableRef) (*domain.Owner, error) {
	o := domain.Owner{Securable: ref}
	err := r.db.QueryRowContext(ctx,
		`SELECT principal_id, set_at FROM owners WHERE securable_type = ? AND securable_id = ?`,
		string(ref.Type), ref.ID).Scan(&o.PrincipalID, &o.SetAt)
	if err != nil {
		return nil, mapDBError(err)
	}
	return &o, nil
}

// RevokeAll removes every grant and the owner record for the securable in
// one transaction, so concurrent readers see all of the ref's grants or
// none of them, never a partial set.
func (r *GrantRepo) RevokeAll(ctx context.Context, ref domain.SecurableRef) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return mapDBError(err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM grants WHERE securable_type = ? AND securable_id = ?`,
		string(ref.Type), ref.ID); err != nil {
		return mapDBError(err)
	}
	if _, err := tx.ExecContext(ctx,
		`DELETE FROM owners WHERE securable_type = ? AND securable_id = ?`,
		string(ref.Type), ref.ID); err != nil {
		return mapDBError(err)
	}
	if err := tx.Commit(); err != nil {
		return mapDBError(err)
	}
	return nil
}

// ListForSecurable returns a page of the grants on one securable.
func (r *GrantRepo) ListForSecurable(ctx context.Context, ref domain.SecurableRef, page domain.PageRequest) ([]domain.PrivilegeGrant, int64, error) {
	var total int64
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM grants WHERE securable_type = ? AND securable_id = ?`,
		string(ref.Type), ref.ID).Scan(&total)
	if err != nil {
		return nil, 0, mapDBError(err)
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT id, principal_id, principal_type, securable_type, securable_id, privilege, granted_by, granted_at
		 FROM grants
		 WHERE securable_type = ? AND securable_id = ?
		 ORDER BY granted_at, id
		 LIMIT ? OFFSET ?`,
		string(ref.Type), ref.ID, page.Limit(), page.Offset())
	if err != nil {
		return nil, 0, mapDBError(err)
	}
	defer rows.Close() //nolint:errcheck

	grants, err := scanGrants(rows)
	if err != nil {
		return nil, 0, err
	}
	return grants, total, nil
}

// ListForPrincipal returns a page of the grants held by one principal.
func (r *GrantRepo) ListForPrincipal(ctx context.Context, principalID, principalType string, page domain.PageRequest) ([]domain.PrivilegeGrant, int64, error) {
	var total int64
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM grants WHERE principal_id = ? AND principal_type = ?`,
		principalID, principalType).Scan(&total)
	if err != nil {
		return nil, 0, mapDBError(err)
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT id, principal_id, principal_type, securable_type, securable_id, privilege, granted_by, granted_at
		 FROM grants
		 WHERE principal_id = ? AND principal_type = ?
		 ORDER BY granted_at, id
		 LIMIT ? OFFSET ?`,
		principalID, principalType, page.Limit(), page.Offset())
	if err != nil {
		return nil, 0, mapDBError(err)
	}
	defer rows.Close() //nolint:errcheck

	grants, err := scanGrants(rows)
	if err != nil {
		return nil, 0, err
	}
	return grants, total, nil
}

func scanGrants(rows *sql.Rows) ([]domain.PrivilegeGrant, error) {
	var out []domain.PrivilegeGrant
	for rows.Next() {
		var g domain.PrivilegeGrant
		var grantedBy sql.NullString
		var securableType, privilege string
		if err := rows.Scan(&g.ID, &g.PrincipalID, &g.PrincipalType,
			&securableType, &g.Securable.ID, &privilege, &grantedBy, &g.GrantedAt); err != nil {
			return nil, fmt.Errorf("scan grant: %w", err)
		}
		g.Securable.Type = domain.SecurableType(securableType)
		g.Privilege = domain.Privilege(privilege)
		g.GrantedBy = strPtr(grantedBy)
		out = append(out, g)
	}
	return out, rows.Err()
}
