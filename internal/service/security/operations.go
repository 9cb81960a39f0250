// Package security implements principal, group, and grant administration.
// These operations shape who can access what, so they are gated tighter
// than the catalog surface: the metastore owner (or the target securable's
// owner, for grants) decides.
package security

import (
	"fmt"

	"lakegate/internal/authz"
	"lakegate/internal/domain"
)

// Operation names for the security surface.
const (
	OpCreatePrincipal = "principals.create"
	OpGetPrincipal    = "principals.get"
	OpListPrincipals  = "principals.list"
	OpDeletePrincipal = "principals.delete"

	OpCreateGroup  = "groups.create"
	OpGetGroup     = "groups.get"
	OpListGroups   = "groups.list"
	OpDeleteGroup  = "groups.delete"
	OpGroupMembers = "groups.members"

	OpListPrincipalGrants = "grants.list_for_principal"
	OpListAudit           = "audit.list"
	OpCreateAPIKey        = "apikeys.create"
)

// manageGrantsOp returns the operation name gating grant administration on
// securables of type t.
func manageGrantsOp(t domain.SecurableType) string {
	return fmt.Sprintf("grants.%s.manage", t)
}

// listGrantsOp returns the operation name gating grant listing on
// securables of type t.
func listGrantsOp(t domain.SecurableType) string {
	return fmt.Sprintf("grants.%s.list", t)
}

// RegisterOperations adds the security operations to the static table.
func RegisterOperations(registry *authz.Registry) error {
	metastoreOwner := authz.Authorize(domain.SecurableMetastore, domain.PrivOwner)

	ops := []authz.Operation{
		{Name: OpCreatePrincipal, Kind: authz.OpMutation, Expression: metastoreOwner},
		{Name: OpGetPrincipal, Kind: authz.OpRead, Expression: metastoreOwner},
		{Name: OpListPrincipals, Kind: authz.OpList, Expression: metastoreOwner},
		{Name: OpDeletePrincipal, Kind: authz.OpMutation, Expression: metastoreOwner},

		{Name: OpCreateGroup, Kind: authz.OpMutation, Expression: metastoreOwner},
		{Name: OpGetGroup, Kind: authz.OpRead, Expression: metastoreOwner},
		{Name: OpListGroups, Kind: authz.OpList, Expression: metastoreOwner},
		{Name: OpDeleteGroup, Kind: authz.OpMutation, Expression: metastoreOwner},
		{Name: OpGroupMembers, Kind: authz.OpMutation, Expression: metastoreOwner},

		{Name: OpListPrincipalGrants, Kind: authz.OpList, Expression: metastoreOwner},
		{Name: OpListAudit, Kind: authz.OpList, Expression: metastoreOwner},
		{Name: OpCreateAPIKey, Kind: authz.OpMutation, Expression: metastoreOwner},
	}

	// Grant administration on a securable: the metastore owner or the
	// securable's own owner.
	for _, t := range domain.SecurableTypes {
		manage := metastoreOwner
		list := metastoreOwner
		if t != domain.SecurableMetastore {
			manage = authz.Or(metastoreOwner, authz.Authorize(t, domain.PrivOwner))
			list = manage
		}
		ops = append(ops,
			authz.Operation{Name: manageGrantsOp(t), Kind: authz.OpMutation, Expression: manage},
			authz.Operation{Name: listGrantsOp(t), Kind: authz.OpList, Expression: list},
		)
	}

	for _, op := range ops {
		if err := registry.Register(op); err != nil {
			return err
		}
	}
	return nil
}
