package authz

import (
	"context"
	"fmt"
	"log/slog"

	"lakegate/internal/domain"
)

// OwnershipStore is the write side of the grant store the lifecycle
// coordinator needs. domain.GrantStore satisfies it.
type OwnershipStore interface {
	SetOwner(ctx context.Context, ref domain.SecurableRef, principalID string) error
	RevokeAll(ctx context.Context, ref domain.SecurableRef) error
}

// Lifecycle keeps the grant store consistent with resource lifecycles:
// default ownership on creation, full revocation on deletion.
type Lifecycle struct {
	store  OwnershipStore
	logger *slog.Logger
}

// NewLifecycle creates a Lifecycle coordinator over the grant store.
func NewLifecycle(store OwnershipStore, logger *slog.Logger) *Lifecycle {
	if logger == nil {
		logger = slog.Default()
	}
	return &Lifecycle{store: store, logger: logger}
}

// ResourceCreated sets the creating principal as OWNER of the new
// securable. Callers must treat a failure as fatal to the creation itself
// and roll the resource back: a resource without an owner must not exist.
func (l *Lifecycle) ResourceCreated(ctx context.Context, ref domain.SecurableRef, principalID string) error {
	if err := l.store.SetOwner(ctx, ref, principalID); err != nil {
		return fmt.Errorf("set owner of %s: %w", ref, err)
	}
	l.logger.Debug("ownership assigned", "securable", ref.String(), "principal_id", principalID)
	return nil
}

// ResourceDeleted purges every grant and the owner record for the
// securable, after the resource itself is confirmed deleted. Grants must
// never outlive the resource they reference.
func (l *Lifecycle) ResourceDeleted(ctx context.Context, ref domain.SecurableRef) error {
	if err := l.store.RevokeAll(ctx, ref); err != nil {
		return fmt.Errorf("revoke grants of %s: %w", ref, err)
	}
	l.logger.Debug("grants revoked", "securable", ref.String())
	return nil
}
