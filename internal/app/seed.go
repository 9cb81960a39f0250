package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"lakegate/internal/db/repository"
	"lakegate/internal/domain"
)

// seedBootstrapAdmin ensures the configured bootstrap principal exists, is
// an admin, and owns the metastore. Idempotent: reruns on every start.
func seedBootstrapAdmin(
	ctx context.Context,
	principals *repository.PrincipalRepo,
	grants *repository.GrantRepo,
	ms *domain.Metastore,
	name string,
	logger *slog.Logger,
) error {
	p, err := principals.GetByName(ctx, name)
	var nf *domain.NotFoundError
	switch {
	case err == nil:
	case errors.As(err, &nf):
		p, err = principals.Create(ctx, &domain.Principal{
			Name:    name,
			Type:    "user",
			IsAdmin: true,
		})
		if err != nil {
			return fmt.Errorf("create bootstrap admin %q: %w", name, err)
		}
		logger.Info("created bootstrap admin", "principal", name)
	default:
		return fmt.Errorf("lookup bootstrap admin %q: %w", name, err)
	}

	msRef := domain.Ref(domain.SecurableMetastore, ms.ID)
	owner, err := grants.Owner(ctx, msRef)
	if err != nil && !errors.As(err, &nf) {
		return fmt.Errorf("lookup metastore owner: %w", err)
	}
	// Never steal ownership from an already-assigned owner.
	if owner != nil {
		return nil
	}
	if err := grants.SetOwner(ctx, msRef, p.ID); err != nil {
		return fmt.Errorf("set metastore owner: %w", err)
	}
	logger.Info("assigned metastore owner", "principal", name)
	return nil
}
