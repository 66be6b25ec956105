package service

import (
	"context"
	"strings"
	"sync"

	"github.com/Fenner314/chop-list-sub000/internal/adapter"
	"github.com/Fenner314/chop-list-sub000/models"
)

// fakeSpaceRepo is an in-memory SpaceRepository that records every write and
// exposes the subscription callbacks so tests can inject inbound snapshots.
type fakeSpaceRepo struct {
	mu sync.Mutex

	token   string
	spaces  map[string]models.Space
	invites map[string]models.Invite

	setItems     []models.Item
	deletedItems []string
	batchItems   [][]models.Item
	clearedItems []string

	setRecipes     []models.Recipe
	deletedRecipes []string
	batchRecipes   [][]models.Recipe
	clearedRecipes []string

	addedMembers   []models.Member
	removedMembers []string
	pausedSpaces   []string
	resumedSpaces  []string

	spacesCB  func([]models.Space)
	itemsCB   func([]models.Item)
	recipesCB func([]models.Recipe)

	spacesSubs   int
	itemsSubs    int
	recipesSubs  int
	spacesUnsubs int
	itemsUnsubs  int
	recipeUnsubs int

	getSpaceErr  error
	subscribeErr error
	addMemberErr error
}

func newFakeSpaceRepo() *fakeSpaceRepo {
	return &fakeSpaceRepo{
		spaces:  make(map[string]models.Space),
		invites: make(map[string]models.Invite),
	}
}

func (f *fakeSpaceRepo) SetToken(token string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.token = token
}

func (f *fakeSpaceRepo) ClientID() string { return "fake-client" }

func (f *fakeSpaceRepo) GetSpace(_ context.Context, spaceID string) (models.Space, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getSpaceErr != nil {
		return models.Space{}, f.getSpaceErr
	}
	space, ok := f.spaces[spaceID]
	if !ok {
		return models.Space{}, adapter.ErrNotFound
	}
	return space, nil
}

func (f *fakeSpaceRepo) EnsureSpace(_ context.Context, space models.Space) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if existing, ok := f.spaces[space.ID]; ok {
		space.SharingPaused = existing.SharingPaused
	}
	f.spaces[space.ID] = space
	return nil
}

func (f *fakeSpaceRepo) SubscribeToSpace(context.Context, string, func(models.Space)) (adapter.Unsubscribe, error) {
	return func() {}, nil
}

func (f *fakeSpaceRepo) GetUserSpaces(context.Context, string) ([]models.Space, error) {
	return nil, nil
}

func (f *fakeSpaceRepo) SubscribeToUserSpaces(_ context.Context, _ string, cb func([]models.Space)) (adapter.Unsubscribe, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.subscribeErr != nil {
		return nil, f.subscribeErr
	}
	f.spacesCB = cb
	f.spacesSubs++
	return func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		f.spacesUnsubs++
	}, nil
}

func (f *fakeSpaceRepo) SubscribeToItems(_ context.Context, _ string, cb func([]models.Item)) (adapter.Unsubscribe, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.subscribeErr != nil {
		return nil, f.subscribeErr
	}
	f.itemsCB = cb
	f.itemsSubs++
	return func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		f.itemsUnsubs++
	}, nil
}

func (f *fakeSpaceRepo) SubscribeToRecipes(_ context.Context, _ string, cb func([]models.Recipe)) (adapter.Unsubscribe, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.subscribeErr != nil {
		return nil, f.subscribeErr
	}
	f.recipesCB = cb
	f.recipesSubs++
	return func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		f.recipeUnsubs++
	}, nil
}

func (f *fakeSpaceRepo) SubscribeToMembers(context.Context, string, func([]models.Member)) (adapter.Unsubscribe, error) {
	return func() {}, nil
}

func (f *fakeSpaceRepo) SetItem(_ context.Context, _ string, item models.Item, _ string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.setItems = append(f.setItems, item)
	return nil
}

func (f *fakeSpaceRepo) DeleteItem(_ context.Context, _ string, itemID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deletedItems = append(f.deletedItems, itemID)
	return nil
}

func (f *fakeSpaceRepo) BatchSetItems(_ context.Context, _ string, items []models.Item, _ string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.batchItems = append(f.batchItems, items)
	return nil
}

func (f *fakeSpaceRepo) ClearAllItems(_ context.Context, spaceID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.clearedItems = append(f.clearedItems, spaceID)
	return nil
}

func (f *fakeSpaceRepo) SetRecipe(_ context.Context, _ string, recipe models.Recipe, _ string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.setRecipes = append(f.setRecipes, recipe)
	return nil
}

func (f *fakeSpaceRepo) DeleteRecipe(_ context.Context, _ string, recipeID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deletedRecipes = append(f.deletedRecipes, recipeID)
	return nil
}

func (f *fakeSpaceRepo) BatchSetRecipes(_ context.Context, _ string, recipes []models.Recipe, _ string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.batchRecipes = append(f.batchRecipes, recipes)
	return nil
}

func (f *fakeSpaceRepo) ClearAllRecipes(_ context.Context, spaceID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.clearedRecipes = append(f.clearedRecipes, spaceID)
	return nil
}

// AddMember mirrors the server's admission rule: a joiner who is not the
// space owner is only let in on the strength of an accepted invite to that
// space addressed to them.
func (f *fakeSpaceRepo) AddMember(_ context.Context, member models.Member) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.addMemberErr != nil {
		return f.addMemberErr
	}
	if member.UserID != member.SpaceID && !f.acceptedInviteLocked(member.SpaceID, member.Email) {
		return adapter.ErrForbidden
	}
	f.addedMembers = append(f.addedMembers, member)
	return nil
}

func (f *fakeSpaceRepo) acceptedInviteLocked(spaceID, email string) bool {
	for _, inv := range f.invites {
		if inv.SpaceID == spaceID && inv.Status == models.InviteAccepted && strings.EqualFold(inv.InviteeEmail, email) {
			return true
		}
	}
	return false
}

func (f *fakeSpaceRepo) RemoveMember(_ context.Context, spaceID, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.removedMembers = append(f.removedMembers, spaceID+"/"+userID)
	return nil
}

func (f *fakeSpaceRepo) PauseSharing(_ context.Context, spaceID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pausedSpaces = append(f.pausedSpaces, spaceID)
	if space, ok := f.spaces[spaceID]; ok {
		space.SharingPaused = true
		f.spaces[spaceID] = space
	}
	return nil
}

func (f *fakeSpaceRepo) ResumeSharing(_ context.Context, spaceID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.resumedSpaces = append(f.resumedSpaces, spaceID)
	if space, ok := f.spaces[spaceID]; ok {
		space.SharingPaused = false
		f.spaces[spaceID] = space
	}
	return nil
}

func (f *fakeSpaceRepo) CreateInvite(_ context.Context, invite models.Invite) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.invites[invite.ID] = invite
	return nil
}

func (f *fakeSpaceRepo) Invite(_ context.Context, inviteID string) (models.Invite, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	invite, ok := f.invites[inviteID]
	if !ok {
		return models.Invite{}, adapter.ErrNotFound
	}
	return invite, nil
}

func (f *fakeSpaceRepo) InvitesBySpace(_ context.Context, spaceID string, status models.InviteStatus) ([]models.Invite, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Invite
	for _, inv := range f.invites {
		if inv.SpaceID == spaceID && inv.Status == status {
			out = append(out, inv)
		}
	}
	return out, nil
}

func (f *fakeSpaceRepo) InvitesByEmail(_ context.Context, email string, status models.InviteStatus) ([]models.Invite, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Invite
	for _, inv := range f.invites {
		if inv.InviteeEmail == email && inv.Status == status {
			out = append(out, inv)
		}
	}
	return out, nil
}

func (f *fakeSpaceRepo) SetInviteStatus(_ context.Context, inviteID string, status models.InviteStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	invite, ok := f.invites[inviteID]
	if !ok {
		return adapter.ErrNotFound
	}
	invite.Status = status
	f.invites[inviteID] = invite
	return nil
}

func (f *fakeSpaceRepo) DeleteInvite(_ context.Context, inviteID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.invites, inviteID)
	return nil
}

func (f *fakeSpaceRepo) pushedItems() []models.Item {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.Item, len(f.setItems))
	copy(out, f.setItems)
	return out
}

func (f *fakeSpaceRepo) pushedDeletes() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.deletedItems))
	copy(out, f.deletedItems)
	return out
}
