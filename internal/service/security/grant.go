package security

import (
	"context"
	"log/slog"

	"lakegate/internal/authz"
	"lakegate/internal/domain"
)

// GrantService manages privilege grants and ownership transfers.
type GrantService struct {
	deps
	store      domain.GrantStore
	principals domain.PrincipalRepository
	groups     domain.GroupRepository
}

// NewGrantService creates a GrantService.
func NewGrantService(store domain.GrantStore, principals domain.PrincipalRepository, groups domain.GroupRepository, authorizer *authz.Authorizer, audit domain.AuditRepository, logger *slog.Logger) *GrantService {
	return &GrantService{
		deps:       deps{authorizer: authorizer, audit: audit, logger: logger},
		store:      store,
		principals: principals,
		groups:     groups,
	}
}

// GrantRequest names a privilege to grant or revoke. SecurableKey is the
// dotted name of the target, e.g. "sales" or "sales.q1.orders"; it is empty
// for the metastore.
type GrantRequest struct {
	PrincipalName string
	PrincipalType string // "user" or "group"
	SecurableType domain.SecurableType
	SecurableKey  string
	Privilege     string
}

// resolveGrantee returns the stored id of the grant's holder.
func (s *GrantService) resolveGrantee(ctx context.Context, name, typ string) (string, error) {
	switch typ {
	case "user":
		p, err := s.principals.GetByName(ctx, name)
		if err != nil {
			return "", err
		}
		return p.ID, nil
	case "group":
		g, err := s.groups.GetByName(ctx, name)
		if err != nil {
			return "", err
		}
		return g.ID, nil
	default:
		return "", domain.ErrValidation("principal type must be user or group")
	}
}

// authorizeOnSecurable gates a grant operation and returns the resolved
// securable ref. Authorization runs before existence: a caller without
// access to the target never learns whether it exists.
func (s *GrantService) authorizeOnSecurable(ctx context.Context, operation string, t domain.SecurableType, key string) (*authz.Decision, domain.SecurableRef, error) {
	if !t.Valid() {
		return nil, domain.SecurableRef{}, domain.ErrValidation("unknown securable type %q", string(t))
	}
	params := map[domain.SecurableType]string{}
	if t != domain.SecurableMetastore {
		params[t] = key
	}
	decision, err := s.authorizer.Authorize(ctx, operation, params)
	if err != nil {
		return nil, domain.SecurableRef{}, err
	}
	id, ok := decision.Bindings[t]
	if !ok {
		// The gate passed without a binding (admin bypass or metastore
		// owner), so revealing absence is safe.
		return nil, domain.SecurableRef{}, domain.ErrNotFound("securable %q not found", key)
	}
	return decision, domain.Ref(t, id), nil
}

// Grant records a privilege grant. OWNER is never granted: ownership moves
// only through TransferOwnership, keeping it exclusive.
func (s *GrantService) Grant(ctx context.Context, req GrantRequest) (*domain.PrivilegeGrant, error) {
	priv, err := domain.ParsePrivilege(req.Privilege)
	if err != nil {
		return nil, err
	}
	if priv == domain.PrivOwner {
		return nil, domain.ErrValidation("OWNER cannot be granted; transfer ownership instead")
	}
	if !priv.ValidFor(req.SecurableType) {
		return nil, domain.ErrValidation("privilege %s is not valid on securable type %s", priv, req.SecurableType)
	}

	decision, ref, err := s.authorizeOnSecurable(ctx, manageGrantsOp(req.SecurableType), req.SecurableType, req.SecurableKey)
	s.auditOutcome(ctx, err, "GRANT", string(req.SecurableType), req.SecurableKey)
	if err != nil {
		return nil, err
	}

	granteeID, err := s.resolveGrantee(ctx, req.PrincipalName, req.PrincipalType)
	if err != nil {
		return nil, err
	}
	grantedBy := decision.Principal.Name
	return s.store.Grant(ctx, &domain.PrivilegeGrant{
		PrincipalID:   granteeID,
		PrincipalType: req.PrincipalType,
		Securable:     ref,
		Privilege:     priv,
		GrantedBy:     &grantedBy,
	})
}

// Revoke removes a privilege grant. Revoking a grant that does not exist is
// a no-op.
func (s *GrantService) Revoke(ctx context.Context, req GrantRequest) error {
	priv, err := domain.ParsePrivilege(req.Privilege)
	if err != nil {
		return err
	}
	if priv == domain.PrivOwner {
		return domain.ErrValidation("OWNER cannot be revoked; transfer ownership instead")
	}

	_, ref, err := s.authorizeOnSecurable(ctx, manageGrantsOp(req.SecurableType), req.SecurableType, req.SecurableKey)
	s.auditOutcome(ctx, err, "REVOKE", string(req.SecurableType), req.SecurableKey)
	if err != nil {
		return err
	}

	granteeID, err := s.resolveGrantee(ctx, req.PrincipalName, req.PrincipalType)
	if err != nil {
		return err
	}
	return s.store.Revoke(ctx, granteeID, req.PrincipalType, ref, priv)
}

// TransferOwnership replaces the securable's owner with the named
// principal. The replacement is atomic: at no point are two owners visible.
func (s *GrantService) TransferOwnership(ctx context.Context, t domain.SecurableType, key, newOwnerName string) error {
	_, ref, err := s.authorizeOnSecurable(ctx, manageGrantsOp(t), t, key)
	s.auditOutcome(ctx, err, "TRANSFER_OWNER", string(t), key)
	if err != nil {
		return err
	}
	p, err := s.principals.GetByName(ctx, newOwnerName)
	if err != nil {
		return err
	}
	return s.store.SetOwner(ctx, ref, p.ID)
}

// ListForSecurable returns a page of the grants on one securable, plus its
// owner if set.
func (s *GrantService) ListForSecurable(ctx context.Context, t domain.SecurableType, key string, page domain.PageRequest) ([]domain.PrivilegeGrant, *domain.Owner, string, error) {
	_, ref, err := s.authorizeOnSecurable(ctx, listGrantsOp(t), t, key)
	if err != nil {
		return nil, nil, "", err
	}
	grants, total, err := s.store.ListForSecurable(ctx, ref, page)
	if err != nil {
		return nil, nil, "", err
	}
	owner, err := s.store.Owner(ctx, ref)
	if err != nil {
		if _, nf := err.(*domain.NotFoundError); !nf {
			return nil, nil, "", err
		}
		owner = nil
	}
	return grants, owner, domain.NextPageToken(page.Offset(), page.Limit(), total), nil
}

// ListForPrincipal returns a page of the grants a principal holds. A
// principal may always list its own grants; listing another's requires the
// metastore owner gate.
func (s *GrantService) ListForPrincipal(ctx context.Context, principalName string, page domain.PageRequest) ([]domain.PrivilegeGrant, string, error) {
	cp, ok := domain.PrincipalFromContext(ctx)
	if !ok {
		return nil, "", domain.ErrAccessDenied("permission denied")
	}
	if cp.Name != principalName {
		if _, err := s.authorizer.Authorize(ctx, OpListPrincipalGrants, nil); err != nil {
			return nil, "", err
		}
	}
	p, err := s.principals.GetByName(ctx, principalName)
	if err != nil {
		return nil, "", err
	}
	grants, total, err := s.store.ListForPrincipal(ctx, p.ID, "user", page)
	if err != nil {
		return nil, "", err
	}
	return grants, domain.NextPageToken(page.Offset(), page.Limit(), total), nil
}
