package authz

import (
	"context"
	"errors"
	"fmt"

	"lakegate/internal/domain"
)

// ResolverFunc resolves a request-supplied lookup key (typically a resource
// name from the path) to the securable's id. It must be read-only and
// side-effect free. A NotFoundError means the name does not resolve; any
// other error is a store failure.
type ResolverFunc func(ctx context.Context, name string) (string, error)

// Binder produces the per-request binding map for an operation: every
// securable type referenced by the operation's expression is resolved to a
// concrete id. One resolver is registered per securable type, at startup,
// so the fail-closed rule is enforced in exactly one place.
type Binder struct {
	metastoreID string
	resolvers   map[domain.SecurableType]ResolverFunc
}

// NewBinder creates a Binder. metastoreID is the singleton metastore id all
// METASTORE references resolve to.
func NewBinder(metastoreID string) *Binder {
	return &Binder{
		metastoreID: metastoreID,
		resolvers:   map[domain.SecurableType]ResolverFunc{},
	}
}

// RegisterResolver installs the resolver for a securable type. Registering
// a resolver for the metastore is a configuration error: it is a singleton.
func (b *Binder) RegisterResolver(t domain.SecurableType, fn ResolverFunc) error {
	if t == domain.SecurableMetastore {
		return domain.ErrValidation("the metastore is a singleton and needs no resolver")
	}
	if !t.Valid() {
		return domain.ErrValidation("unknown securable type %q", string(t))
	}
	if _, ok := b.resolvers[t]; ok {
		return domain.ErrValidation("resolver for %s already registered", t)
	}
	b.resolvers[t] = fn
	return nil
}

// CanResolve reports whether references to t can be bound.
func (b *Binder) CanResolve(t domain.SecurableType) bool {
	if t == domain.SecurableMetastore {
		return true
	}
	_, ok := b.resolvers[t]
	return ok
}

// Bind resolves every securable type referenced by the operation's gate
// and filter expressions. params carries the lookup key per type (e.g. the
// catalog name from the request path). A type whose key is absent or whose
// name does not resolve yields no binding, which the evaluator treats as
// deny; resolver failures other than not-found propagate as errors.
//
// Filter types are bound here too so a deferring list gate still carries
// the ambient bindings (the metastore singleton, the parent catalog) that
// its per-entry filter needs.
func (b *Binder) Bind(ctx context.Context, op *Operation, params map[domain.SecurableType]string) (Bindings, error) {
	bindings := Bindings{}
	for _, t := range op.referencedTypes() {
		if t == domain.SecurableMetastore {
			bindings[t] = b.metastoreID
			continue
		}
		name, ok := params[t]
		if !ok || name == "" {
			continue
		}
		resolve, ok := b.resolvers[t]
		if !ok {
			// Registry validation rejects this at startup; reaching it at
			// request time means the operation bypassed registration.
			return nil, domain.ErrValidation("no resolver registered for securable type %s", t)
		}
		id, err := resolve(ctx, name)
		if err != nil {
			if errors.As(err, new(*domain.NotFoundError)) {
				continue
			}
			return nil, fmt.Errorf("resolve %s %q: %w", t, name, err)
		}
		bindings[t] = id
	}
	return bindings, nil
}
