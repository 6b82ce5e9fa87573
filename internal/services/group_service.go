package services

import (
	"fmt"

	"github.com/SZL741023/Restaurant-API/internal/models"
	"github.com/SZL741023/Restaurant-API/internal/repositories"
)

// GroupService manages Manager and Delivery Crew group membership.
// Every operation requires the acting principal to already be Manager;
// the role check runs before any lookup of the target user.
type GroupService struct {
	userRepo repositories.UserRepository
}

// NewGroupService creates a new GroupService.
func NewGroupService(userRepo repositories.UserRepository) *GroupService {
	return &GroupService{
		userRepo: userRepo,
	}
}

// GroupResource maps a group name to its policy resource.
func GroupResource(group string) Resource {
	if group == GroupDeliveryCrew {
		return ResourceDeliveryCrewGroup
	}
	return ResourceManagerGroup
}

// ListMembers returns every member of the group.
func (s *GroupService) ListMembers(actor Principal, group string) ([]models.User, error) {
	if !Authorize(actor.Role, GroupResource(group), OpRead) {
		return nil, fmt.Errorf("%w: only managers may view group membership", ErrForbidden)
	}
	return s.userRepo.ListGroupMembers(group)
}

// AddMember adds the user with the given username to the group.
func (s *GroupService) AddMember(actor Principal, group, username string) error {
	if !Authorize(actor.Role, GroupResource(group), OpWrite) {
		return fmt.Errorf("%w: only managers may change group membership", ErrForbidden)
	}
	if username == "" {
		return fmt.Errorf("%w: username is required", ErrValidation)
	}
	user, err := s.userRepo.GetByUsername(username)
	if err != nil {
		return translateNotFound(err)
	}
	return translateNotFound(s.userRepo.AddToGroup(user.ID, group))
}

// GetMember returns the member with the given user ID, or NotFound when
// the user is not in the group.
func (s *GroupService) GetMember(actor Principal, group, userID string) (*models.User, error) {
	if !Authorize(actor.Role, GroupResource(group), OpRead) {
		return nil, fmt.Errorf("%w: only managers may view group membership", ErrForbidden)
	}
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, translateNotFound(err)
	}
	member, err := s.userRepo.IsInGroup(userID, group)
	if err != nil {
		return nil, err
	}
	if !member {
		return nil, fmt.Errorf("%w: user %s is not in group %s", ErrNotFound, userID, group)
	}
	return user, nil
}

// RemoveMember removes the user with the given ID from the group.
func (s *GroupService) RemoveMember(actor Principal, group, userID string) error {
	if !Authorize(actor.Role, GroupResource(group), OpWrite) {
		return fmt.Errorf("%w: only managers may change group membership", ErrForbidden)
	}
	if _, err := s.userRepo.GetByID(userID); err != nil {
		return translateNotFound(err)
	}
	return translateNotFound(s.userRepo.RemoveFromGroup(userID, group))
}
