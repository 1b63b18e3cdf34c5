package group

import (
	"context"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"worktrack/services/messaging/domain/identity"
	"worktrack/services/messaging/domain/user"
	"worktrack/services/messaging/utils/platformerrors"
)

// Repository defines the backend operations the membership service needs.
type Repository interface {
	GetGroup(ctx context.Context, groupID int64) (*Group, error)
	CreateGroup(ctx context.Context, params CreateParams) (*Group, error)
	UpdateGroup(ctx context.Context, groupID int64, params UpdateParams) (*Group, error)
	AddMember(ctx context.Context, groupID, userID int64) (*Group, error)
	RemoveMember(ctx context.Context, groupID, userID int64) (*Group, error)
	ListAvailableUsers(ctx context.Context, groupID int64) ([]user.User, error)
}

// Refresher invalidates cached views after a membership mutation. The
// synchronizer implements it; every mutation must leave the group detail
// view, the conversation list and any open member list current without a
// manual reload.
type Refresher interface {
	ForceRefresh()
}

// Service defines the interface for group membership logic.
type Service interface {
	Create(ctx context.Context, id identity.Identity, params CreateParams) (*Group, error)
	Update(ctx context.Context, id identity.Identity, groupID int64, params UpdateParams) (*Group, error)
	AddMember(ctx context.Context, id identity.Identity, groupID, userID int64) (*Group, error)
	RemoveMember(ctx context.Context, id identity.Identity, groupID, userID int64) (*Group, error)
	AvailableUsers(ctx context.Context, id identity.Identity, groupID int64) ([]user.User, error)
}

// DefaultService implements Service on top of the backend repository.
type DefaultService struct {
	repo      Repository
	refresher Refresher
	validate  *validator.Validate
	log       zerolog.Logger
}

// NewService creates a new membership service.
func NewService(repo Repository, refresher Refresher, log zerolog.Logger) *DefaultService {
	return &DefaultService{
		repo:      repo,
		refresher: refresher,
		validate:  validator.New(),
		log:       log.With().Str("component", "group-service").Logger(),
	}
}

// Create creates a group owned by the requester. The requester is
// implicitly part of the member set; the backend records them as creator.
func (s *DefaultService) Create(ctx context.Context, id identity.Identity, params CreateParams) (*Group, error) {
	if err := s.validate.Struct(params); err != nil {
		return nil, platformerrors.Validation("group needs a name and at least one member").WithContext("cause", err.Error())
	}

	if !containsID(params.MemberIDs, id.UserID) {
		params.MemberIDs = append(params.MemberIDs, id.UserID)
	}

	created, err := s.repo.CreateGroup(ctx, params)
	if err != nil {
		return nil, err
	}

	s.log.Info().Int64("group_id", created.ID).Int("members", len(created.Members)).Msg("group created")
	s.forceRefresh()
	return created, nil
}

// Update applies a partial name/description edit.
func (s *DefaultService) Update(ctx context.Context, id identity.Identity, groupID int64, params UpdateParams) (*Group, error) {
	if err := s.validate.Struct(params); err != nil {
		return nil, platformerrors.Validation("group name must not be empty").WithContext("cause", err.Error())
	}
	if params.Name == nil && params.Description == nil {
		return nil, platformerrors.Validation("nothing to update")
	}

	updated, err := s.repo.UpdateGroup(ctx, groupID, params)
	if err != nil {
		return nil, err
	}

	s.forceRefresh()
	return updated, nil
}

// AddMember invites a user into the group. Adding an existing member is a
// conflict, reported before the request goes out when the local snapshot
// already shows them.
func (s *DefaultService) AddMember(ctx context.Context, id identity.Identity, groupID, userID int64) (*Group, error) {
	current, err := s.repo.GetGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if current.HasMember(userID) {
		return nil, platformerrors.Conflict("user is already a member").
			WithContext("group_id", groupID).
			WithContext("user_id", userID)
	}

	updated, err := s.repo.AddMember(ctx, groupID, userID)
	if err != nil {
		return nil, err
	}

	s.forceRefresh()
	return updated, nil
}

// RemoveMember removes a user from the group. The creator can never be
// removed, and only an admin-role user or the creator may remove anyone.
// Both checks run before any network call; a denied removal never mutates
// the membership set.
func (s *DefaultService) RemoveMember(ctx context.Context, id identity.Identity, groupID, userID int64) (*Group, error) {
	current, err := s.repo.GetGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}

	if userID == current.CreatedBy {
		return nil, platformerrors.Permission("the group creator cannot be removed").
			WithContext("group_id", groupID).
			WithContext("user_id", userID)
	}
	if !id.IsAdmin() && id.UserID != current.CreatedBy {
		return nil, platformerrors.Permission("only an admin or the group creator may remove members").
			WithContext("group_id", groupID).
			WithContext("requester_id", id.UserID)
	}

	updated, err := s.repo.RemoveMember(ctx, groupID, userID)
	if err != nil {
		return nil, err
	}

	s.log.Info().Int64("group_id", groupID).Int64("user_id", userID).Msg("member removed")
	s.forceRefresh()
	return updated, nil
}

// AvailableUsers returns invitation candidates: the directory complement of
// the member set. The requester is excluded only when they are already a
// member; a non-member requester remains a candidate.
func (s *DefaultService) AvailableUsers(ctx context.Context, id identity.Identity, groupID int64) ([]user.User, error) {
	current, err := s.repo.GetGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}

	candidates, err := s.repo.ListAvailableUsers(ctx, groupID)
	if err != nil {
		return nil, err
	}

	requesterIsMember := current.HasMember(id.UserID)
	filtered := make([]user.User, 0, len(candidates))
	for _, u := range candidates {
		if current.HasMember(u.ID) {
			continue
		}
		if requesterIsMember && u.ID == id.UserID {
			continue
		}
		filtered = append(filtered, u)
	}
	return filtered, nil
}

func (s *DefaultService) forceRefresh() {
	if s.refresher != nil {
		s.refresher.ForceRefresh()
	}
}

func containsID(ids []int64, id int64) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
