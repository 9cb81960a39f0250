package authz

import (
	"context"
	"errors"
	"log/slog"

	"lakegate/internal/domain"
)

// Decision is the result of a successful gate check: the resolved principal
// and the bindings that were in effect. List operations reuse the bindings
// as the ambient map for post-fetch filtering.
type Decision struct {
	Principal *domain.Principal
	Bindings  Bindings
}

// PrincipalResolver turns an authenticated name into a stored principal.
// domain.PrincipalRepository satisfies it.
type PrincipalResolver interface {
	GetByName(ctx context.Context, name string) (*domain.Principal, error)
}

// Authorizer is the synchronous entry point operation handlers call. It
// ties together the registry, binder, and evaluator; all collaborators are
// injected, never looked up globally.
type Authorizer struct {
	registry   *Registry
	binder     *Binder
	evaluator  *Evaluator
	principals PrincipalResolver
	logger     *slog.Logger
}

// NewAuthorizer wires the authorization engine's request-time facade.
func NewAuthorizer(registry *Registry, binder *Binder, evaluator *Evaluator, principals PrincipalResolver, logger *slog.Logger) *Authorizer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Authorizer{
		registry:   registry,
		binder:     binder,
		evaluator:  evaluator,
		principals: principals,
		logger:     logger,
	}
}

// Authorize gates the named operation for the context's principal. params
// carries the lookup key per securable type (typically names from the
// request path). All denial causes (no authenticated principal, unknown
// principal, unresolvable securable, missing grant) collapse into the same
// generic AccessDeniedError so that grant topology is not leaked. Store
// failures surface as distinct errors and never default to a decision.
func (a *Authorizer) Authorize(ctx context.Context, operation string, params map[domain.SecurableType]string) (*Decision, error) {
	op, err := a.registry.Get(operation)
	if err != nil {
		return nil, err
	}

	cp, ok := domain.PrincipalFromContext(ctx)
	if !ok {
		return nil, domain.ErrAccessDenied("permission denied")
	}
	principal, err := a.principals.GetByName(ctx, cp.Name)
	if err != nil {
		if errors.As(err, new(*domain.NotFoundError)) {
			return nil, domain.ErrAccessDenied("permission denied")
		}
		return nil, err
	}

	bindings, err := a.binder.Bind(ctx, op, params)
	if err != nil {
		return nil, err
	}

	allowed, err := a.evaluator.Evaluate(ctx, principal, op.Expression, bindings)
	if err != nil {
		return nil, err
	}
	if !allowed {
		a.logger.Debug("authorization denied",
			"operation", operation, "principal", principal.Name)
		return nil, domain.ErrAccessDenied("permission denied")
	}
	return &Decision{Principal: principal, Bindings: bindings}, nil
}

// FilterAuthorized narrows a fetched result set to the entries the decision
// principal may see, using the operation's filter expression.
func FilterAuthorized[E any](ctx context.Context, a *Authorizer, operation string, d *Decision, entries []E, keyFn KeyFunc[E]) ([]E, error) {
	op, err := a.registry.Get(operation)
	if err != nil {
		return nil, err
	}
	if op.FilterExpression == nil {
		return entries, nil
	}
	return Filter(ctx, a.evaluator, d.Principal, op.FilterExpression, d.Bindings, entries, keyFn)
}
