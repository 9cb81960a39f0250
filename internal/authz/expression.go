// Package authz implements the expression-based authorization engine that
// gates access to the metadata catalog: a small combinator AST attached
// statically to each operation, a binder resolving securable ids from
// request context, a short-circuiting evaluator over the grant store, a
// post-fetch collection filter, and the lifecycle hooks that keep grants
// consistent with resource creation and deletion.
package authz

import (
	"lakegate/internal/domain"
)

// Bindings is the per-request resolution of securable types to concrete
// instance ids. It is built before evaluation and never persisted.
type Bindings map[domain.SecurableType]string

// Merge returns a new binding map with entries from other overriding b.
func (b Bindings) Merge(other Bindings) Bindings {
	out := make(Bindings, len(b)+len(other))
	for t, id := range b {
		out[t] = id
	}
	for t, id := range other {
		out[t] = id
	}
	return out
}

// Expression is an immutable authorization rule. Expressions are built once
// at operation-registration time from the fixed combinator set below; there
// are no user-defined predicates.
type Expression interface {
	// collectTypes adds every securable type the expression references.
	collectTypes(set map[domain.SecurableType]struct{})
	// hasDefer reports whether the expression contains a Defer marker.
	hasDefer() bool
	// check validates privilege placement against the securable model.
	check() error
}

type authorizeExpr struct {
	typ   domain.SecurableType
	privs []domain.Privilege
	any   bool // any-of instead of all-of
}

type andExpr struct{ left, right Expression }

type orExpr struct{ left, right Expression }

type deferExpr struct{}

// Authorize requires every listed privilege on the securable bound for typ.
func Authorize(typ domain.SecurableType, privs ...domain.Privilege) Expression {
	return &authorizeExpr{typ: typ, privs: privs}
}

// AuthorizeAny requires at least one of the listed privileges on the
// securable bound for typ.
func AuthorizeAny(typ domain.SecurableType, privs ...domain.Privilege) Expression {
	return &authorizeExpr{typ: typ, privs: privs, any: true}
}

// And is true iff both sides are true. The right side is not evaluated when
// the left is already false.
func And(left, right Expression) Expression { return &andExpr{left: left, right: right} }

// Or is true iff either side is true. The right side is not evaluated when
// the left is already true.
func Or(left, right Expression) Expression { return &orExpr{left: left, right: right} }

// Defer always evaluates true at the gate stage. It marks operations whose
// real decision is made after data is fetched, via the collection filter,
// and is only legal on read and list operations.
func Defer() Expression { return deferExpr{} }

func (e *authorizeExpr) collectTypes(set map[domain.SecurableType]struct{}) {
	set[e.typ] = struct{}{}
}
func (e *authorizeExpr) hasDefer() bool { return false }
func (e *authorizeExpr) check() error {
	if !e.typ.Valid() {
		return domain.ErrValidation("authorize: unknown securable type %q", string(e.typ))
	}
	if len(e.privs) == 0 {
		return domain.ErrValidation("authorize on %s: at least one privilege is required", e.typ)
	}
	for _, p := range e.privs {
		if !p.ValidFor(e.typ) {
			return domain.ErrValidation("privilege %s is not valid on securable type %s", p, e.typ)
		}
	}
	return nil
}

func (e *andExpr) collectTypes(set map[domain.SecurableType]struct{}) {
	e.left.collectTypes(set)
	e.right.collectTypes(set)
}
func (e *andExpr) hasDefer() bool { return e.left.hasDefer() || e.right.hasDefer() }
func (e *andExpr) check() error {
	if err := e.left.check(); err != nil {
		return err
	}
	return e.right.check()
}

func (e *orExpr) collectTypes(set map[domain.SecurableType]struct{}) {
	e.left.collectTypes(set)
	e.right.collectTypes(set)
}
func (e *orExpr) hasDefer() bool { return e.left.hasDefer() || e.right.hasDefer() }
func (e *orExpr) check() error {
	if err := e.left.check(); err != nil {
		return err
	}
	return e.right.check()
}

func (deferExpr) collectTypes(map[domain.SecurableType]struct{}) {}
func (deferExpr) hasDefer() bool                                 { return true }
func (deferExpr) check() error                                   { return nil }

// ReferencedTypes returns the securable types an expression mentions.
func ReferencedTypes(expr Expression) []domain.SecurableType {
	set := map[domain.SecurableType]struct{}{}
	expr.collectTypes(set)
	out := make([]domain.SecurableType, 0, len(set))
	for _, t := range domain.SecurableTypes {
		if _, ok := set[t]; ok {
			out = append(out, t)
		}
	}
	return out
}
