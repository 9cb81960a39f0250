package domain

import "time"

// PrivilegeGrant is a durable authorization fact: the principal holds the
// privilege on the securable. Grants have set semantics: inserting an
// existing grant is a no-op.
type PrivilegeGrant struct {
	ID            string
	PrincipalID   string
	PrincipalType string // "user" or "group"
	Securable     SecurableRef
	Privilege     Privilege
	GrantedBy     *string
	GrantedAt     time.Time
}

// Owner records the single owning principal of a securable.
type Owner struct {
	Securable   SecurableRef
	PrincipalID string
	SetAt       time.Time
}
