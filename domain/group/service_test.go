package group_test

import (
	"context"
	"testing"

	"github.com/rs/zerolog"

	"worktrack/services/messaging/domain/group"
	"worktrack/services/messaging/domain/identity"
	"worktrack/services/messaging/domain/user"
	"worktrack/services/messaging/utils/platformerrors"
)

// MockRepository is a func-field fake for the backend repository.
type MockRepository struct {
	GetGroupFunc           func(ctx context.Context, groupID int64) (*group.Group, error)
	CreateGroupFunc        func(ctx context.Context, params group.CreateParams) (*group.Group, error)
	UpdateGroupFunc        func(ctx context.Context, groupID int64, params group.UpdateParams) (*group.Group, error)
	AddMemberFunc          func(ctx context.Context, groupID, userID int64) (*group.Group, error)
	RemoveMemberFunc       func(ctx context.Context, groupID, userID int64) (*group.Group, error)
	ListAvailableUsersFunc func(ctx context.Context, groupID int64) ([]user.User, error)
}

func (m *MockRepository) GetGroup(ctx context.Context, groupID int64) (*group.Group, error) {
	return m.GetGroupFunc(ctx, groupID)
}

func (m *MockRepository) CreateGroup(ctx context.Context, params group.CreateParams) (*group.Group, error) {
	return m.CreateGroupFunc(ctx, params)
}

func (m *MockRepository) UpdateGroup(ctx context.Context, groupID int64, params group.UpdateParams) (*group.Group, error) {
	return m.UpdateGroupFunc(ctx, groupID, params)
}

func (m *MockRepository) AddMember(ctx context.Context, groupID, userID int64) (*group.Group, error) {
	return m.AddMemberFunc(ctx, groupID, userID)
}

func (m *MockRepository) RemoveMember(ctx context.Context, groupID, userID int64) (*group.Group, error) {
	return m.RemoveMemberFunc(ctx, groupID, userID)
}

func (m *MockRepository) ListAvailableUsers(ctx context.Context, groupID int64) ([]user.User, error) {
	return m.ListAvailableUsersFunc(ctx, groupID)
}

type countingRefresher struct {
	calls int
}

func (r *countingRefresher) ForceRefresh() { r.calls++ }

func newService(repo *MockRepository, refresher group.Refresher) group.Service {
	return group.NewService(repo, refresher, zerolog.Nop())
}

func timIT() *group.Group {
	return &group.Group{
		ID:        10,
		Name:      "Tim IT",
		CreatedBy: 1,
		Members:   []int64{1, 2, 3},
	}
}

func TestCreate_AddsCreatorToMembers(t *testing.T) {
	var captured group.CreateParams
	repo := &MockRepository{
		CreateGroupFunc: func(ctx context.Context, params group.CreateParams) (*group.Group, error) {
			captured = params
			return &group.Group{ID: 10, Name: params.Name, CreatedBy: 1, Members: params.MemberIDs}, nil
		},
	}
	refresher := &countingRefresher{}
	svc := newService(repo, refresher)

	created, err := svc.Create(context.Background(), identity.Identity{UserID: 1}, group.CreateParams{
		Name:      "Tim IT",
		MemberIDs: []int64{2, 3},
	})
	if err != nil {
		t.Fatalf("Create() unexpected error: %v", err)
	}

	if len(captured.MemberIDs) != 3 || !created.HasMember(1) {
		t.Errorf("creator must be implicitly added, got members %v", captured.MemberIDs)
	}
	if created.CreatedBy != 1 {
		t.Errorf("CreatedBy = %d, want 1", created.CreatedBy)
	}
	if refresher.calls != 1 {
		t.Errorf("Create must force one refresh, got %d", refresher.calls)
	}
}

func TestCreate_CreatorAlreadyListed(t *testing.T) {
	repo := &MockRepository{
		CreateGroupFunc: func(ctx context.Context, params group.CreateParams) (*group.Group, error) {
			seen := map[int64]int{}
			for _, id := range params.MemberIDs {
				seen[id]++
			}
			if seen[1] != 1 {
				t.Errorf("creator must appear exactly once, got %v", params.MemberIDs)
			}
			return &group.Group{ID: 11, CreatedBy: 1, Members: params.MemberIDs}, nil
		},
	}
	svc := newService(repo, nil)

	if _, err := svc.Create(context.Background(), identity.Identity{UserID: 1}, group.CreateParams{
		Name:      "Tim IT",
		MemberIDs: []int64{1, 2},
	}); err != nil {
		t.Fatalf("Create() unexpected error: %v", err)
	}
}

func TestCreate_Validation(t *testing.T) {
	svc := newService(&MockRepository{}, nil)

	tests := []struct {
		name   string
		params group.CreateParams
	}{
		{"empty name", group.CreateParams{Name: "", MemberIDs: []int64{2}}},
		{"empty members", group.CreateParams{Name: "Tim IT", MemberIDs: nil}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), identity.Identity{UserID: 1}, tt.params)
			if !platformerrors.IsType(err, platformerrors.ErrorTypeValidation) {
				t.Errorf("Create() error = %v, want VALIDATION", err)
			}
		})
	}
}

func TestAddMember_ConflictOnExistingMember(t *testing.T) {
	backendCalled := false
	repo := &MockRepository{
		GetGroupFunc: func(ctx context.Context, groupID int64) (*group.Group, error) {
			return timIT(), nil
		},
		AddMemberFunc: func(ctx context.Context, groupID, userID int64) (*group.Group, error) {
			backendCalled = true
			return timIT(), nil
		},
	}
	svc := newService(repo, &countingRefresher{})

	_, err := svc.AddMember(context.Background(), identity.Identity{UserID: 1}, 10, 2)
	if !platformerrors.IsType(err, platformerrors.ErrorTypeConflict) {
		t.Errorf("AddMember() error = %v, want CONFLICT", err)
	}
	if backendCalled {
		t.Errorf("conflict must be detected before the backend call")
	}
}

func TestAddMember_Success(t *testing.T) {
	repo := &MockRepository{
		GetGroupFunc: func(ctx context.Context, groupID int64) (*group.Group, error) {
			return timIT(), nil
		},
		AddMemberFunc: func(ctx context.Context, groupID, userID int64) (*group.Group, error) {
			g := timIT()
			g.Members = append(g.Members, userID)
			return g, nil
		},
	}
	refresher := &countingRefresher{}
	svc := newService(repo, refresher)

	updated, err := svc.AddMember(context.Background(), identity.Identity{UserID: 1}, 10, 4)
	if err != nil {
		t.Fatalf("AddMember() unexpected error: %v", err)
	}
	if !updated.HasMember(4) {
		t.Errorf("member 4 missing after add")
	}
	if refresher.calls != 1 {
		t.Errorf("AddMember must force one refresh, got %d", refresher.calls)
	}
}

func TestRemoveMember_Permissions(t *testing.T) {
	tests := []struct {
		name      string
		requester identity.Identity
		target    int64
		wantType  platformerrors.ErrorType
		wantOK    bool
	}{
		{"creator removes a member", identity.Identity{UserID: 1}, 3, "", true},
		{"admin removes a member", identity.Identity{UserID: 9, Role: "admin"}, 3, "", true},
		{"plain member removes someone", identity.Identity{UserID: 2}, 3, platformerrors.ErrorTypePermission, false},
		{"creator removes themselves", identity.Identity{UserID: 1}, 1, platformerrors.ErrorTypePermission, false},
		{"admin removes the creator", identity.Identity{UserID: 9, Role: "admin"}, 1, platformerrors.ErrorTypePermission, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			backendCalled := false
			repo := &MockRepository{
				GetGroupFunc: func(ctx context.Context, groupID int64) (*group.Group, error) {
					return timIT(), nil
				},
				RemoveMemberFunc: func(ctx context.Context, groupID, userID int64) (*group.Group, error) {
					backendCalled = true
					g := timIT()
					kept := g.Members[:0]
					for _, id := range g.Members {
						if id != userID {
							kept = append(kept, id)
						}
					}
					g.Members = kept
					return g, nil
				},
			}
			svc := newService(repo, &countingRefresher{})

			updated, err := svc.RemoveMember(context.Background(), tt.requester, 10, tt.target)
			if tt.wantOK {
				if err != nil {
					t.Fatalf("RemoveMember() unexpected error: %v", err)
				}
				if updated.HasMember(tt.target) {
					t.Errorf("target %d still a member after removal", tt.target)
				}
				if !updated.HasMember(1) {
					t.Errorf("creator must survive every removal")
				}
				return
			}
			if !platformerrors.IsType(err, tt.wantType) {
				t.Errorf("RemoveMember() error = %v, want %v", err, tt.wantType)
			}
			if backendCalled {
				t.Errorf("denied removal must not reach the backend")
			}
		})
	}
}

func TestUpdate_Validation(t *testing.T) {
	svc := newService(&MockRepository{}, nil)
	empty := ""

	_, err := svc.Update(context.Background(), identity.Identity{UserID: 1}, 10, group.UpdateParams{Name: &empty})
	if !platformerrors.IsType(err, platformerrors.ErrorTypeValidation) {
		t.Errorf("Update() error = %v, want VALIDATION for empty name", err)
	}

	_, err = svc.Update(context.Background(), identity.Identity{UserID: 1}, 10, group.UpdateParams{})
	if !platformerrors.IsType(err, platformerrors.ErrorTypeValidation) {
		t.Errorf("Update() error = %v, want VALIDATION for empty update", err)
	}
}

func TestUpdate_PartialDescriptionOnly(t *testing.T) {
	desc := "infra and helpdesk"
	repo := &MockRepository{
		UpdateGroupFunc: func(ctx context.Context, groupID int64, params group.UpdateParams) (*group.Group, error) {
			if params.Name != nil {
				t.Errorf("name must stay untouched on description-only update")
			}
			g := timIT()
			g.Description = *params.Description
			return g, nil
		},
	}
	svc := newService(repo, &countingRefresher{})

	updated, err := svc.Update(context.Background(), identity.Identity{UserID: 1}, 10, group.UpdateParams{Description: &desc})
	if err != nil {
		t.Fatalf("Update() unexpected error: %v", err)
	}
	if updated.Description != desc {
		t.Errorf("Description = %q, want %q", updated.Description, desc)
	}
}

func TestAvailableUsers_ComplementRules(t *testing.T) {
	directory := []user.User{
		{ID: 1, Name: "Creator"},
		{ID: 4, Name: "Outsider A"},
		{ID: 5, Name: "Outsider B"},
	}
	repo := &MockRepository{
		GetGroupFunc: func(ctx context.Context, groupID int64) (*group.Group, error) {
			return timIT(), nil
		},
		ListAvailableUsersFunc: func(ctx context.Context, groupID int64) ([]user.User, error) {
			return directory, nil
		},
	}
	svc := newService(repo, nil)

	t.Run("member requester excluded, members filtered out", func(t *testing.T) {
		got, err := svc.AvailableUsers(context.Background(), identity.Identity{UserID: 1}, 10)
		if err != nil {
			t.Fatalf("AvailableUsers() unexpected error: %v", err)
		}
		if len(got) != 2 || got[0].ID != 4 || got[1].ID != 5 {
			t.Errorf("AvailableUsers() = %v, want outsiders 4 and 5", got)
		}
	})

	t.Run("non-member requester stays a candidate", func(t *testing.T) {
		got, err := svc.AvailableUsers(context.Background(), identity.Identity{UserID: 4}, 10)
		if err != nil {
			t.Fatalf("AvailableUsers() unexpected error: %v", err)
		}
		found := false
		for _, u := range got {
			if u.ID == 4 {
				found = true
			}
		}
		if !found {
			t.Errorf("a non-member requester must remain an invitation candidate")
		}
	})
}
