package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"lakegate/internal/domain"
	"lakegate/internal/service/security"
)

type createPrincipalRequest struct {
	Name    string `json:"name"`
	Type    string `json:"type"`
	IsAdmin bool   `json:"is_admin"`
}

func (h *Handler) createPrincipal(w http.ResponseWriter, r *http.Request) {
	var req createPrincipalRequest
	if err := h.decode(r, &req); err != nil {
		h.writeError(w, err)
		return
	}
	created, err := h.principals.Create(r.Context(), security.CreatePrincipalRequest{
		Name: req.Name, Type: req.Type, IsAdmin: req.IsAdmin,
	})
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, principalToAPI(*created))
}

func (h *Handler) getPrincipal(w http.ResponseWriter, r *http.Request) {
	p, err := h.principals.Get(r.Context(), chi.URLParam(r, "principal"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, principalToAPI(*p))
}

func (h *Handler) getMe(w http.ResponseWriter, r *http.Request) {
	p, err := h.principals.Me(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, principalToAPI(*p))
}

func (h *Handler) listPrincipals(w http.ResponseWriter, r *http.Request) {
	items, next, err := h.principals.List(r.Context(), pageFromQuery(r))
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, listResponse[principalResponse]{
		Items:         mapSlice(items, principalToAPI),
		NextPageToken: next,
	})
}

func (h *Handler) deletePrincipal(w http.ResponseWriter, r *http.Request) {
	if err := h.principals.Delete(r.Context(), chi.URLParam(r, "principal")); err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusNoContent, nil)
}

type createGroupRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (h *Handler) createGroup(w http.ResponseWriter, r *http.Request) {
	var req createGroupRequest
	if err := h.decode(r, &req); err != nil {
		h.writeError(w, err)
		return
	}
	created, err := h.groups.Create(r.Context(), req.Name, req.Description)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, groupToAPI(*created))
}

func (h *Handler) getGroup(w http.ResponseWriter, r *http.Request) {
	g, err := h.groups.Get(r.Context(), chi.URLParam(r, "group"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, groupToAPI(*g))
}

func (h *Handler) listGroups(w http.ResponseWriter, r *http.Request) {
	items, next, err := h.groups.List(r.Context(), pageFromQuery(r))
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, listResponse[groupResponse]{
		Items:         mapSlice(items, groupToAPI),
		NextPageToken: next,
	})
}

func (h *Handler) deleteGroup(w http.ResponseWriter, r *http.Request) {
	if err := h.groups.Delete(r.Context(), chi.URLParam(r, "group")); err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusNoContent, nil)
}

type groupMemberRequest struct {
	MemberType string `json:"member_type"`
	MemberName string `json:"member_name"`
}

func (h *Handler) addGroupMember(w http.ResponseWriter, r *http.Request) {
	var req groupMemberRequest
	if err := h.decode(r, &req); err != nil {
		h.writeError(w, err)
		return
	}
	if err := h.groups.AddMember(r.Context(), chi.URLParam(r, "group"), req.MemberType, req.MemberName); err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusNoContent, nil)
}

func (h *Handler) removeGroupMember(w http.ResponseWriter, r *http.Request) {
	var req groupMemberRequest
	if err := h.decode(r, &req); err != nil {
		h.writeError(w, err)
		return
	}
	if err := h.groups.RemoveMember(r.Context(), chi.URLParam(r, "group"), req.MemberType, req.MemberName); err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusNoContent, nil)
}

func (h *Handler) listGroupMembers(w http.ResponseWriter, r *http.Request) {
	members, err := h.groups.ListMembers(r.Context(), chi.URLParam(r, "group"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	out := make([]groupMemberResponse, len(members))
	for i, m := range members {
		out[i] = groupMemberResponse{GroupID: m.GroupID, MemberType: m.MemberType, MemberID: m.MemberID}
	}
	h.writeJSON(w, http.StatusOK, listResponse[groupMemberResponse]{Items: out})
}

type grantRequest struct {
	PrincipalName string `json:"principal_name"`
	PrincipalType string `json:"principal_type"`
	SecurableType string `json:"securable_type"`
	SecurableKey  string `json:"securable_key"`
	Privilege     string `json:"privilege"`
}

func (r grantRequest) toService() (security.GrantRequest, error) {
	t, err := domain.ParseSecurableType(r.SecurableType)
	if err != nil {
		return security.GrantRequest{}, err
	}
	pt := r.PrincipalType
	if pt == "" {
		pt = "user"
	}
	return security.GrantRequest{
		PrincipalName: r.PrincipalName,
		PrincipalType: pt,
		SecurableType: t,
		SecurableKey:  r.SecurableKey,
		Privilege:     r.Privilege,
	}, nil
}

func (h *Handler) createGrant(w http.ResponseWriter, r *http.Request) {
	var req grantRequest
	if err := h.decode(r, &req); err != nil {
		h.writeError(w, err)
		return
	}
	svcReq, err := req.toService()
	if err != nil {
		h.writeError(w, err)
		return
	}
	g, err := h.grants.Grant(r.Context(), svcReq)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, grantToAPI(*g))
}

func (h *Handler) revokeGrant(w http.ResponseWriter, r *http.Request) {
	var req grantRequest
	if err := h.decode(r, &req); err != nil {
		h.writeError(w, err)
		return
	}
	svcReq, err := req.toService()
	if err != nil {
		h.writeError(w, err)
		return
	}
	if err := h.grants.Revoke(r.Context(), svcReq); err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusNoContent, nil)
}

type securableGrantsResponse struct {
	Items         []grantResponse `json:"items"`
	Owner         *ownerResponse  `json:"owner,omitempty"`
	NextPageToken string          `json:"next_page_token,omitempty"`
}

func (h *Handler) listGrantsForSecurable(w http.ResponseWriter, r *http.Request) {
	t, err := domain.ParseSecurableType(r.URL.Query().Get("securable_type"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	key := r.URL.Query().Get("securable_key")
	grants, owner, next, err := h.grants.ListForSecurable(r.Context(), t, key, pageFromQuery(r))
	if err != nil {
		h.writeError(w, err)
		return
	}
	resp := securableGrantsResponse{
		Items:         mapSlice(grants, grantToAPI),
		NextPageToken: next,
	}
	if owner != nil {
		resp.Owner = &ownerResponse{PrincipalID: owner.PrincipalID, SetAt: owner.SetAt}
	}
	h.writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) listGrantsForPrincipal(w http.ResponseWriter, r *http.Request) {
	items, next, err := h.grants.ListForPrincipal(r.Context(), chi.URLParam(r, "principal"), pageFromQuery(r))
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, listResponse[grantResponse]{
		Items:         mapSlice(items, grantToAPI),
		NextPageToken: next,
	})
}

type transferOwnershipRequest struct {
	SecurableType string `json:"securable_type"`
	SecurableKey  string `json:"securable_key"`
	NewOwner      string `json:"new_owner"`
}

func (h *Handler) transferOwnership(w http.ResponseWriter, r *http.Request) {
	var req transferOwnershipRequest
	if err := h.decode(r, &req); err != nil {
		h.writeError(w, err)
		return
	}
	t, err := domain.ParseSecurableType(req.SecurableType)
	if err != nil {
		h.writeError(w, err)
		return
	}
	if err := h.grants.TransferOwnership(r.Context(), t, req.SecurableKey, req.NewOwner); err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusNoContent, nil)
}

func (h *Handler) listAudit(w http.ResponseWriter, r *http.Request) {
	items, next, err := h.audit.List(r.Context(), pageFromQuery(r))
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, listResponse[auditEntryResponse]{
		Items:         mapSlice(items, auditEntryToAPI),
		NextPageToken: next,
	})
}

type createAPIKeyRequest struct {
	PrincipalName string `json:"principal_name"`
	Name          string `json:"name"`
}

func (h *Handler) createAPIKey(w http.ResponseWriter, r *http.Request) {
	var req createAPIKeyRequest
	if err := h.decode(r, &req); err != nil {
		h.writeError(w, err)
		return
	}
	raw, key, err := h.apiKeys.Create(r.Context(), req.PrincipalName, req.Name)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, apiKeyResponse{
		ID:            key.ID,
		Name:          key.Name,
		PrincipalName: key.PrincipalName,
		RawKey:        raw,
		CreatedAt:     key.CreatedAt,
	})
}
