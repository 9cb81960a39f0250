package domain

import "time"

// AuditEntry records an authorization-relevant event.
type AuditEntry struct {
	ID            string
	PrincipalName string
	Action        string // e.g. "CREATE_CATALOG", "GRANT", "REVOKE_ALL"
	SecurableType string
	SecurableName string
	Status        string // "ALLOWED" or "DENIED"
	CreatedAt     time.Time
}
