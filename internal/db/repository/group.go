package repository

import (
	"context"
	"database/sql"

	"lakegate/internal/domain"
)

var _ domain.GroupRepository = (*GroupRepo)(nil)

// GroupRepo stores groups and their memberships.
type GroupRepo struct {
	db *sql.DB
}

// NewGroupRepo creates a GroupRepo.
func NewGroupRepo(db *sql.DB) *GroupRepo {
	return &GroupRepo{db: db}
}

const groupCols = `id, name, description, created_at`

func scanGroupRow(scan func(dest ...any) error) (*domain.Group, error) {
	var g domain.Group
	if err := scan(&g.ID, &g.Name, &g.Description, &g.CreatedAt); err != nil {
		return nil, mapDBError(err)
	}
	return &g, nil
}

// Create inserts a group record.
func (r *GroupRepo) Create(ctx context.Context, g *domain.Group) (*domain.Group, error) {
	id := domain.NewID()
	if _, err := r.db.ExecContext(ctx,
		`INSERT INTO groups (id, name, description) VALUES (?, ?, ?)`,
		id, g.Name, g.Description); err != nil {
		return nil, mapDBError(err)
	}
	return scanGroupRow(r.db.QueryRowContext(ctx,
		`SELECT `+groupCols+` FROM groups WHERE id = ?`, id).Scan)
}

// GetByName returns the group with the given name.
func (r *GroupRepo) GetByName(ctx context.Context, name string) (*domain.Group, error) {
	return scanGroupRow(r.db.QueryRowContext(ctx,
		`SELECT `+groupCols+` FROM groups WHERE name = ?`, name).Scan)
}

// List returns a page of groups ordered by name.
func (r *GroupRepo) List(ctx context.Context, page domain.PageRequest) ([]domain.Group, int64, error) {
	var total int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM groups`).Scan(&total); err != nil {
		return nil, 0, mapDBError(err)
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT `+groupCols+` FROM groups ORDER BY name LIMIT ? OFFSET ?`,
		page.Limit(), page.Offset())
	if err != nil {
		return nil, 0, mapDBError(err)
	}
	defer rows.Close() //nolint:errcheck

	var out []domain.Group
	for rows.Next() {
		g, err := scanGroupRow(rows.Scan)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, *g)
	}
	return out, total, rows.Err()
}

// Delete removes the group. Memberships cascade.
func (r *GroupRepo) Delete(ctx context.Context, name string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM groups WHERE name = ?`, name)
	if err != nil {
		return mapDBError(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound("group %q not found", name)
	}
	return nil
}

// AddMember records a membership. Re-adding an existing member is a no-op.
func (r *GroupRepo) AddMember(ctx context.Context, m *domain.GroupMember) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO group_members (group_id, member_type, member_id)
		 VALUES (?, ?, ?)
		 ON CONFLICT (group_id, member_type, member_id) DO NOTHING`,
		m.GroupID, m.MemberType, m.MemberID)
	return mapDBError(err)
}

// RemoveMember deletes a membership.
func (r *GroupRepo) RemoveMember(ctx context.Context, m *domain.GroupMember) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM group_members WHERE group_id = ? AND member_type = ? AND member_id = ?`,
		m.GroupID, m.MemberType, m.MemberID)
	if err != nil {
		return mapDBError(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound("member not found in group")
	}
	return nil
}

// ListMembers returns the direct members of a group.
func (r *GroupRepo) ListMembers(ctx context.Context, groupID string) ([]domain.GroupMember, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT group_id, member_type, member_id
		 FROM group_members WHERE group_id = ?
		 ORDER BY member_type, member_id`, groupID)
	if err != nil {
		return nil, mapDBError(err)
	}
	defer rows.Close() //nolint:errcheck

	var out []domain.GroupMember
	for rows.Next() {
		var m domain.GroupMember
		if err := rows.Scan(&m.GroupID, &m.MemberType, &m.MemberID); err != nil {
			return nil, mapDBError(err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// GetGroupsForMember returns the groups a member directly belongs to.
// Transitive expansion happens in the evaluator, one hop per call.
func (r *GroupRepo) GetGroupsForMember(ctx context.Context, memberType, memberID string) ([]domain.Group, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT g.id, g.name, g.description, g.created_at
		 FROM groups g
		 JOIN group_members gm ON gm.group_id = g.id
		 WHERE gm.member_type = ? AND gm.member_id = ?`,
		memberType, memberID)
	if err != nil {
		return nil, mapDBError(err)
	}
	defer rows.Close() //nolint:errcheck

	var out []domain.Group
	for rows.Next() {
		g, err := scanGroupRow(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, *g)
	}
	return out, rows.Err()
}
