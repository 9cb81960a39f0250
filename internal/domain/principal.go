package domain

import "time"

// Principal represents a user or service principal in the system.
type Principal struct {
	ID        string
	Name      string
	Type      string // "user" or "service_principal"
	IsAdmin   bool
	CreatedAt time.Time
}

// Group represents a named collection of principals. Groups can hold grants
// exactly like users.
type Group struct {
	ID          string
	Name        string
	Description string
	CreatedAt   time.Time
}

// GroupMember represents the membership of a principal (or nested group)
// in a group.
type GroupMember struct {
	GroupID    string
	MemberType string // "user" or "group"
	MemberID   string
}

// APIKey is a stored, hashed API key tied to a principal.
type APIKey struct {
	ID            string
	Name          string
	PrincipalName string
	KeyHash       string // hex-encoded SHA-256 of the raw key
	CreatedAt     time.Time
}
