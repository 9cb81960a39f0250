package authz

import (
	"context"
	"fmt"

	"lakegate/internal/domain"
)

// identity is one grant-holding id the evaluator checks on behalf of a
// principal: the principal itself plus every group it belongs to.
type identity struct {
	id  string
	typ string // "user" or "group"
}

// GrantChecker is the read side of the grant store the evaluator needs.
// domain.GrantStore satisfies it.
type GrantChecker interface {
	HasPrivilege(ctx context.Context, principalID, principalType string, ref domain.SecurableRef, priv domain.Privilege) (bool, error)
	IsOwner(ctx context.Context, principalID string, ref domain.SecurableRef) (bool, error)
}

// GroupResolver expands a member into the groups it belongs to.
// domain.GroupRepository satisfies it.
type GroupResolver interface {
	GetGroupsForMember(ctx context.Context, memberType, memberID string) ([]domain.Group, error)
}

// Evaluator walks an expression against a principal and a binding map,
// querying the grant store. The store and group resolver are injected
// explicitly; the evaluator holds no process-wide state.
type Evaluator struct {
	store  GrantChecker
	groups GroupResolver // nil disables group expansion
}

// NewEvaluator creates an Evaluator over the given grant store.
func NewEvaluator(store GrantChecker, groups GroupResolver) *Evaluator {
	return &Evaluator{store: store, groups: groups}
}

// Evaluate decides whether the principal satisfies the expression under the
// given bindings. Missing bindings deny (fail-closed); store errors
// propagate and must never be collapsed into a decision. Admin principals
// pass every gate.
func (e *Evaluator) Evaluate(ctx context.Context, principal *domain.Principal, expr Expression, b Bindings) (bool, error) {
	if principal == nil {
		return false, nil
	}
	if principal.IsAdmin {
		return true, nil
	}
	ids, err := e.identities(ctx, principal)
	if err != nil {
		return false, err
	}
	return e.eval(ctx, ids, expr, b)
}

// identities returns the principal plus the transitive closure of its
// group memberships.
func (e *Evaluator) identities(ctx context.Context, principal *domain.Principal) ([]identity, error) {
	ids := []identity{{id: principal.ID, typ: "user"}}
	if e.groups == nil {
		return ids, nil
	}

	visited := map[string]bool{}
	queue := []identity{ids[0]}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		groups, err := e.groups.GetGroupsForMember(ctx, current.typ, current.id)
		if err != nil {
			return nil, fmt.Errorf("resolve groups for %s %s: %w", current.typ, current.id, err)
		}
		for _, g := range groups {
			if !visited[g.ID] {
				visited[g.ID] = true
				member := identity{id: g.ID, typ: "group"}
				ids = append(ids, member)
				queue = append(queue, member)
			}
		}
	}
	return ids, nil
}

func (e *Evaluator) eval(ctx context.Context, ids []identity, expr Expression, b Bindings) (bool, error) {
	switch n := expr.(type) {
	case *authorizeExpr:
		id, ok := b[n.typ]
		if !ok {
			// No binding for the referenced type: deny. Missing context is
			// never treated as "doesn't apply".
			return false, nil
		}
		return e.evalPrivileges(ctx, ids, domain.Ref(n.typ, id), n.privs, n.any)
	case *andExpr:
		left, err := e.eval(ctx, ids, n.left, b)
		if err != nil || !left {
			return false, err
		}
		return e.eval(ctx, ids, n.right, b)
	case *orExpr:
		left, err := e.eval(ctx, ids, n.left, b)
		if err != nil || left {
			return left, err
		}
		return e.eval(ctx, ids, n.right, b)
	case deferExpr:
		return true, nil
	default:
		return false, domain.ErrValidation("unknown expression node %T", expr)
	}
}

func (e *Evaluator) evalPrivileges(ctx context.Context, ids []identity, ref domain.SecurableRef, privs []domain.Privilege, anyOf bool) (bool, error) {
	// Ownership subsumes every privilege on the securable, so one owner
	// lookup settles the whole node.
	owner, err := e.isOwner(ctx, ids, ref)
	if err != nil {
		return false, err
	}
	if owner {
		return true, nil
	}

	for _, p := range privs {
		if p == domain.PrivOwner {
			// Already checked above.
			if anyOf {
				continue
			}
			return false, nil
		}
		held, err := e.holds(ctx, ids, ref, p)
		if err != nil {
			return false, err
		}
		if anyOf && held {
			return true, nil
		}
		if !anyOf && !held {
			return false, nil
		}
	}
	return !anyOf, nil
}

// isOwner reports whether any of the identities owns the securable.
func (e *Evaluator) isOwner(ctx context.Context, ids []identity, ref domain.SecurableRef) (bool, error) {
	for _, id := range ids {
		ok, err := e.store.IsOwner(ctx, id.id, ref)
		if err != nil {
			return false, err
		}
		if ok {
			return true, nil
		}
	}
	return false, nil
}

// holds reports whether any of the identities has a direct grant.
func (e *Evaluator) holds(ctx context.Context, ids []identity, ref domain.SecurableRef, priv domain.Privilege) (bool, error) {
	for _, id := range ids {
		ok, err := e.store.HasPrivilege(ctx, id.id, id.typ, ref, priv)
		if err != nil {
			return false, err
		}
		if ok {
			return true, nil
		}
	}
	return false, nil
}
