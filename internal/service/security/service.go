package security

import (
	"context"
	"errors"
	"log/slog"

	"lakegate/internal/authz"
	"lakegate/internal/domain"
)

// deps bundles the collaborators every security service shares.
type deps struct {
	authorizer *authz.Authorizer
	audit      domain.AuditRepository
	logger     *slog.Logger
}

// recordAudit appends an outcome to the audit log. Audit failures are
// logged and swallowed: auditing must never fail the operation itself.
func (d *deps) recordAudit(ctx context.Context, action, securableType, name, status string) {
	cp, _ := domain.PrincipalFromContext(ctx)
	entry := &domain.AuditEntry{
		PrincipalName: cp.Name,
		Action:        action,
		SecurableType: securableType,
		SecurableName: name,
		Status:        status,
	}
	if err := d.audit.Insert(ctx, entry); err != nil {
		d.logger.Warn("audit insert failed", "action", action, "error", err)
	}
}

func (d *deps) auditOutcome(ctx context.Context, err error, action, securableType, name string) {
	switch {
	case err == nil:
		d.recordAudit(ctx, action, securableType, name, "ALLOWED")
	case errors.As(err, new(*domain.AccessDeniedError)):
		d.recordAudit(ctx, action, securableType, name, "DENIED")
	}
}
