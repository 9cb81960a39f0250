package catalog

import (
	"context"
	"errors"
	"log/slog"

	"lakegate/internal/authz"
	"lakegate/internal/domain"
)

// deps bundles the collaborators every resource service shares.
type deps struct {
	authorizer *authz.Authorizer
	lifecycle  *authz.Lifecycle
	audit      domain.AuditRepository
	logger     *slog.Logger
}

// recordAudit appends a mutation outcome to the audit log. Audit failures
// are logged and swallowed: auditing must never fail the operation itself.
func (d *deps) recordAudit(ctx context.Context, action string, ref domain.SecurableType, name, status string) {
	cp, _ := domain.PrincipalFromContext(ctx)
	entry := &domain.AuditEntry{
		PrincipalName: cp.Name,
		Action:        action,
		SecurableType: string(ref),
		SecurableName: name,
		Status:        status,
	}
	if err := d.audit.Insert(ctx, entry); err != nil {
		d.logger.Warn("audit insert failed", "action", action, "error", err)
	}
}

// auditOutcome translates an authorization result into an audit status and
// records it for mutations. Only denials and allowed mutations are recorded;
// store failures are not decisions and do not produce audit entries.
func (d *deps) auditOutcome(ctx context.Context, err error, action string, ref domain.SecurableType, name string) {
	switch {
	case err == nil:
		d.recordAudit(ctx, action, ref, name, "ALLOWED")
	case errors.As(err, new(*domain.AccessDeniedError)):
		d.recordAudit(ctx, action, ref, name, "DENIED")
	}
}
