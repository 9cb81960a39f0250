package authz

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"lakegate/internal/domain"
)

// fakeStore is an in-memory GrantChecker/OwnershipStore that records every
// lookup so tests can assert on short-circuiting.
type fakeStore struct {
	mu     sync.Mutex
	grants map[string]bool   // principalID|principalType|ref|priv
	owners map[string]string // ref -> principalID

	// failNext, when set, makes every call return this error.
	failNext error

	lookups []string
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		grants: map[string]bool{},
		owners: map[string]string{},
	}
}

func grantKey(principalID, principalType string, ref domain.SecurableRef, priv domain.Privilege) string {
	return fmt.Sprintf("%s|%s|%s|%s", principalID, principalType, ref, priv)
}

func (s *fakeStore) grant(principalID, principalType string, ref domain.SecurableRef, priv domain.Privilege) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.grants[grantKey(principalID, principalType, ref, priv)] = true
}

func (s *fakeStore) HasPrivilege(_ context.Context, principalID, principalType string, ref domain.SecurableRef, priv domain.Privilege) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lookups = append(s.lookups, grantKey(principalID, principalType, ref, priv))
	if s.failNext != nil {
		return false, s.failNext
	}
	return s.grants[grantKey(principalID, principalType, ref, priv)], nil
}

func (s *fakeStore) IsOwner(_ context.Context, principalID string, ref domain.SecurableRef) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failNext != nil {
		return false, s.failNext
	}
	return s.owners[ref.String()] == principalID, nil
}

func (s *fakeStore) SetOwner(_ context.Context, ref domain.SecurableRef, principalID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failNext != nil {
		return s.failNext
	}
	s.owners[ref.String()] = principalID
	return nil
}

func (s *fakeStore) RevokeAll(_ context.Context, ref domain.SecurableRef) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failNext != nil {
		return s.failNext
	}
	delete(s.owners, ref.String())
	for k := range s.grants {
		if strings.Contains(k, "|"+ref.String()+"|") {
			delete(s.grants, k)
		}
	}
	return nil
}

// fakeGroups is a flat member -> groups mapping.
type fakeGroups struct {
	byMember map[string][]domain.Group // key memberType|memberID
}

func (g *fakeGroups) GetGroupsForMember(_ context.Context, memberType, memberID string) ([]domain.Group, error) {
	if g.byMember == nil {
		return nil, nil
	}
	return g.byMember[memberType+"|"+memberID], nil
}

func user(id string) *domain.Principal {
	return &domain.Principal{ID: id, Name: id, Type: "user"}
}
