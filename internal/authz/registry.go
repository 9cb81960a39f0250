package authz

import (
	"fmt"

	"lakegate/internal/domain"
)

// OperationKind classifies an operation for registration-time validation.
type OperationKind int

const (
	// OpRead is a single-resource read.
	OpRead OperationKind = iota
	// OpList is a collection read; its gate may defer to post-fetch filtering.
	OpList
	// OpMutation creates, updates, or deletes state. Mutations must decide
	// at the gate: Defer is rejected on them.
	OpMutation
)

func (k OperationKind) String() string {
	switch k {
	case OpRead:
		return "read"
	case OpList:
		return "list"
	case OpMutation:
		return "mutation"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Operation binds a name to its authorization rule. FilterExpression is the
// per-entry rule applied after fetching, for list operations that defer.
type Operation struct {
	Name             string
	Kind             OperationKind
	Expression       Expression
	FilterExpression Expression
}

// referencedTypes returns the securable types mentioned by the gate and
// filter expressions combined.
func (op *Operation) referencedTypes() []domain.SecurableType {
	set := map[domain.SecurableType]struct{}{}
	op.Expression.collectTypes(set)
	if op.FilterExpression != nil {
		op.FilterExpression.collectTypes(set)
	}
	out := make([]domain.SecurableType, 0, len(set))
	for _, t := range domain.SecurableTypes {
		if _, ok := set[t]; ok {
			out = append(out, t)
		}
	}
	return out
}

// Registry is the static table of operation → authorization rule, built
// once at startup and validated before any request is served.
type Registry struct {
	ops map[string]*Operation
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{ops: map[string]*Operation{}}
}

// Register adds an operation. It rejects duplicate names, invalid privilege
// placement, Defer on mutations, and filter expressions on non-list
// operations. Registration errors are fatal configuration errors, never
// per-request conditions.
func (r *Registry) Register(op Operation) error {
	if op.Name == "" {
		return domain.ErrValidation("operation name is required")
	}
	if _, ok := r.ops[op.Name]; ok {
		return domain.ErrValidation("operation %q already registered", op.Name)
	}
	if op.Expression == nil {
		return domain.ErrValidation("operation %q has no expression", op.Name)
	}
	if err := op.Expression.check(); err != nil {
		return fmt.Errorf("operation %q: %w", op.Name, err)
	}
	if op.Kind == OpMutation && op.Expression.hasDefer() {
		return domain.ErrValidation("operation %q: defer is not allowed on mutations", op.Name)
	}
	if op.FilterExpression != nil {
		if op.Kind != OpList {
			return domain.ErrValidation("operation %q: filter expressions are only valid on list operations", op.Name)
		}
		if op.FilterExpression.hasDefer() {
			return domain.ErrValidation("operation %q: filter expression may not defer", op.Name)
		}
		if err := op.FilterExpression.check(); err != nil {
			return fmt.Errorf("operation %q filter: %w", op.Name, err)
		}
	}
	stored := op
	r.ops[op.Name] = &stored
	return nil
}

// MustRegister is Register for static tables built in wiring code.
func (r *Registry) MustRegister(op Operation) {
	if err := r.Register(op); err != nil {
		panic(err)
	}
}

// Get returns a registered operation.
func (r *Registry) Get(name string) (*Operation, error) {
	op, ok := r.ops[name]
	if !ok {
		return nil, domain.ErrValidation("operation %q is not registered", name)
	}
	return op, nil
}

// Validate checks that every securable type referenced by a registered
// gate or filter expression can be bound by the binder. Called once at
// startup, after all resolvers are registered.
func (r *Registry) Validate(b *Binder) error {
	for name, op := range r.ops {
		for _, t := range op.referencedTypes() {
			if !b.CanResolve(t) {
				return domain.ErrValidation("operation %q references securable type %s with no registered resolver", name, t)
			}
		}
	}
	return nil
}
