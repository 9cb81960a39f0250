package api

import (
	"time"

	"lakegate/internal/domain"
	svccatalog "lakegate/internal/service/catalog"
)

// Wire representations. Fields mirror the domain entities; timestamps are
// RFC 3339 via encoding/json.

type catalogResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Comment   string    `json:"comment,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type schemaResponse struct {
	ID          string    `json:"id"`
	CatalogName string    `json:"catalog_name"`
	Name        string    `json:"name"`
	Comment     string    `json:"comment,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type tableResponse struct {
	ID          string    `json:"id"`
	CatalogName string    `json:"catalog_name"`
	SchemaName  string    `json:"schema_name"`
	Name        string    `json:"name"`
	TableType   string    `json:"table_type"`
	Comment     string    `json:"comment,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type functionResponse struct {
	ID          string    `json:"id"`
	CatalogName string    `json:"catalog_name"`
	SchemaName  string    `json:"schema_name"`
	Name        string    `json:"name"`
	Definition  string    `json:"definition,omitempty"`
	Comment     string    `json:"comment,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type principalResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Type      string    `json:"type"`
	IsAdmin   bool      `json:"is_admin"`
	CreatedAt time.Time `json:"created_at"`
}

type groupResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

type groupMemberResponse struct {
	GroupID    string `json:"group_id"`
	MemberType string `json:"member_type"`
	MemberID   string `json:"member_id"`
}

type grantResponse struct {
	ID            string    `json:"id"`
	PrincipalID   string    `json:"principal_id"`
	PrincipalType string    `json:"principal_type"`
	SecurableType string    `json:"securable_type"`
	SecurableID   string    `json:"securable_id"`
	Privilege     string    `json:"privilege"`
	GrantedBy     *string   `json:"granted_by,omitempty"`
	GrantedAt     time.Time `json:"granted_at"`
}

type ownerResponse struct {
	PrincipalID string    `json:"principal_id"`
	SetAt       time.Time `json:"set_at"`
}

type auditEntryResponse struct {
	ID            string    `json:"id"`
	PrincipalName string    `json:"principal_name"`
	Action        string    `json:"action"`
	SecurableType string    `json:"securable_type,omitempty"`
	SecurableName string    `json:"securable_name,omitempty"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"created_at"`
}

type metastoreSummaryResponse struct {
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	CreatedAt time.Time      `json:"created_at"`
	Owner     *ownerResponse `json:"owner,omitempty"`
}

type apiKeyResponse struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	PrincipalName string    `json:"principal_name"`
	RawKey        string    `json:"raw_key,omitempty"` // returned once at creation
	CreatedAt     time.Time `json:"created_at"`
}

type listResponse[T any] struct {
	Items         []T    `json:"items"`
	NextPageToken string `json:"next_page_token,omitempty"`
}

func catalogToAPI(c domain.Catalog) catalogResponse {
	return catalogResponse{
		ID: c.ID, Name: c.Name, Comment: c.Comment,
		CreatedAt: c.CreatedAt, UpdatedAt: c.UpdatedAt,
	}
}

func schemaToAPI(s domain.Schema) schemaResponse {
	return schemaResponse{
		ID: s.ID, CatalogName: s.CatalogName, Name: s.Name, Comment: s.Comment,
		CreatedAt: s.CreatedAt, UpdatedAt: s.UpdatedAt,
	}
}

func tableToAPI(t domain.Table) tableResponse {
	return tableResponse{
		ID: t.ID, CatalogName: t.CatalogName, SchemaName: t.SchemaName,
		Name: t.Name, TableType: t.TableType, Comment: t.Comment,
		CreatedAt: t.CreatedAt, UpdatedAt: t.UpdatedAt,
	}
}

func functionToAPI(f domain.Function) functionResponse {
	return functionResponse{
		ID: f.ID, CatalogName: f.CatalogName, SchemaName: f.SchemaName,
		Name: f.Name, Definition: f.Definition, Comment: f.Comment,
		CreatedAt: f.CreatedAt, UpdatedAt: f.UpdatedAt,
	}
}

func principalToAPI(p domain.Principal) principalResponse {
	return principalResponse{
		ID: p.ID, Name: p.Name, Type: p.Type, IsAdmin: p.IsAdmin, CreatedAt: p.CreatedAt,
	}
}

func groupToAPI(g domain.Group) groupResponse {
	return groupResponse{
		ID: g.ID, Name: g.Name, Description: g.Description, CreatedAt: g.CreatedAt,
	}
}

func grantToAPI(g domain.PrivilegeGrant) grantResponse {
	return grantResponse{
		ID:            g.ID,
		PrincipalID:   g.PrincipalID,
		PrincipalType: g.PrincipalType,
		SecurableType: string(g.Securable.Type),
		SecurableID:   g.Securable.ID,
		Privilege:     string(g.Privilege),
		GrantedBy:     g.GrantedBy,
		GrantedAt:     g.GrantedAt,
	}
}

func auditEntryToAPI(e domain.AuditEntry) auditEntryResponse {
	return auditEntryResponse{
		ID:            e.ID,
		PrincipalName: e.PrincipalName,
		Action:        e.Action,
		SecurableType: e.SecurableType,
		SecurableName: e.SecurableName,
		Status:        e.Status,
		CreatedAt:     e.CreatedAt,
	}
}

func metastoreSummaryToAPI(s svccatalog.MetastoreSummary) metastoreSummaryResponse {
	out := metastoreSummaryResponse{
		ID:        s.Metastore.ID,
		Name:      s.Metastore.Name,
		CreatedAt: s.Metastore.CreatedAt,
	}
	if s.Owner != nil {
		out.Owner = &ownerResponse{PrincipalID: s.Owner.PrincipalID, SetAt: s.Owner.SetAt}
	}
	return out
}

func mapSlice[D, A any](in []D, f func(D) A) []A {
	out := make([]A, len(in))
	for i, v := range in {
		out[i] = f(v)
	}
	return out
}
