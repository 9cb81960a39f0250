package security

import (
	"context"
	"log/slog"

	"lakegate/internal/authz"
	"lakegate/internal/domain"
)

// GroupService manages groups and their memberships.
type GroupService struct {
	deps
	groups     domain.GroupRepository
	principals domain.PrincipalRepository
}

// NewGroupService creates a GroupService.
func NewGroupService(groups domain.GroupRepository, principals domain.PrincipalRepository, authorizer *authz.Authorizer, audit domain.AuditRepository, logger *slog.Logger) *GroupService {
	return &GroupService{
		deps:       deps{authorizer: authorizer, audit: audit, logger: logger},
		groups:     groups,
		principals: principals,
	}
}

// Create registers a new group.
func (s *GroupService) Create(ctx context.Context, name, description string) (*domain.Group, error) {
	_, err := s.authorizer.Authorize(ctx, OpCreateGroup, nil)
	s.auditOutcome(ctx, err, "CREATE_GROUP", "", name)
	if err != nil {
		return nil, err
	}
	if name == "" {
		return nil, domain.ErrValidation("group name is required")
	}
	return s.groups.Create(ctx, &domain.Group{Name: name, Description: description})
}

// Get returns a group by name.
func (s *GroupService) Get(ctx context.Context, name string) (*domain.Group, error) {
	if _, err := s.authorizer.Authorize(ctx, OpGetGroup, nil); err != nil {
		return nil, err
	}
	return s.groups.GetByName(ctx, name)
}

// List returns a page of groups.
func (s *GroupService) List(ctx context.Context, page domain.PageRequest) ([]domain.Group, string, error) {
	if _, err := s.authorizer.Authorize(ctx, OpListGroups, nil); err != nil {
		return nil, "", err
	}
	items, total, err := s.groups.List(ctx, page)
	if err != nil {
		return nil, "", err
	}
	return items, domain.NextPageToken(page.Offset(), page.Limit(), total), nil
}

// Delete removes a group and its memberships.
func (s *GroupService) Delete(ctx context.Context, name string) error {
	_, err := s.authorizer.Authorize(ctx, OpDeleteGroup, nil)
	s.auditOutcome(ctx, err, "DELETE_GROUP", "", name)
	if err != nil {
		return err
	}
	return s.groups.Delete(ctx, name)
}

// resolveMember turns (memberType, memberName) into the stored member id.
// Users resolve through the principal repository, nested groups through the
// group repository.
func (s *GroupService) resolveMember(ctx context.Context, memberType, memberName string) (string, error) {
	switch memberType {
	case "user":
		p, err := s.principals.GetByName(ctx, memberName)
		if err != nil {
			return "", err
		}
		return p.ID, nil
	case "group":
		g, err := s.groups.GetByName(ctx, memberName)
		if err != nil {
			return "", err
		}
		return g.ID, nil
	default:
		return "", domain.ErrValidation("member type must be user or group")
	}
}

// AddMember adds a principal or nested group to a group.
func (s *GroupService) AddMember(ctx context.Context, groupName, memberType, memberName string) error {
	_, err := s.authorizer.Authorize(ctx, OpGroupMembers, nil)
	s.auditOutcome(ctx, err, "ADD_GROUP_MEMBER", "", groupName)
	if err != nil {
		return err
	}
	g, err := s.groups.GetByName(ctx, groupName)
	if err != nil {
		return err
	}
	memberID, err := s.resolveMember(ctx, memberType, memberName)
	if err != nil {
		return err
	}
	if memberType == "group" && memberID == g.ID {
		return domain.ErrValidation("a group cannot be a member of itself")
	}
	return s.groups.AddMember(ctx, &domain.GroupMember{
		GroupID:    g.ID,
		MemberType: memberType,
		MemberID:   memberID,
	})
}

// RemoveMember removes a member from a group.
func (s *GroupService) RemoveMember(ctx context.Context, groupName, memberType, memberName string) error {
	_, err := s.authorizer.Authorize(ctx, OpGroupMembers, nil)
	s.auditOutcome(ctx, err, "REMOVE_GROUP_MEMBER", "", groupName)
	if err != nil {
		return err
	}
	g, err := s.groups.GetByName(ctx, groupName)
	if err != nil {
		return err
	}
	memberID, err := s.resolveMember(ctx, memberType, memberName)
	if err != nil {
		return err
	}
	return s.groups.RemoveMember(ctx, &domain.GroupMember{
		GroupID:    g.ID,
		MemberType: memberType,
		MemberID:   memberID,
	})
}

// ListMembers returns the direct members of a group.
func (s *GroupService) ListMembers(ctx context.Context, groupName string) ([]domain.GroupMember, error) {
	if _, err := s.authorizer.Authorize(ctx, OpGetGroup, nil); err != nil {
		return nil, err
	}
	g, err := s.groups.GetByName(ctx, groupName)
	if err != nil {
		return nil, err
	}
	return s.groups.ListMembers(ctx, g.ID)
}
