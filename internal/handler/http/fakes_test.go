package http

import (
	"context"
	"encoding/json"
	"slices"
	"strings"
	"sync"

	"github.com/Fenner314/chop-list-sub000/internal/store"
	"github.com/Fenner314/chop-list-sub000/models"
)

// In-memory stand-ins for the SQLite repositories. They mirror the schema
// semantics the handlers rely on: case-insensitive emails, owner membership
// on space upsert, preserved paused flag.

type fakeUsers struct {
	mu      sync.Mutex
	records []store.UserRecord
}

func (f *fakeUsers) CreateUser(_ context.Context, user store.UserRecord) (store.UserRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.records {
		if strings.EqualFold(r.Email, user.Email) {
			return store.UserRecord{}, store.ErrEmailAlreadyExists
		}
	}
	f.records = append(f.records, user)
	return user, nil
}

func (f *fakeUsers) FindUserByEmail(_ context.Context, email string) (store.UserRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.records {
		if strings.EqualFold(r.Email, email) {
			return r, nil
		}
	}
	return store.UserRecord{}, store.ErrNoUserWasFound
}

func (f *fakeUsers) UpdatePassword(_ context.Context, email, passwordHash string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, r := range f.records {
		if strings.EqualFold(r.Email, email) {
			f.records[i].PasswordHash = passwordHash
			return nil
		}
	}
	return store.ErrNoUserWasFound
}

type fakeSpaces struct {
	mu      sync.Mutex
	spaces  map[string]models.Space
	members map[string][]models.Member
}

func newFakeSpaces() *fakeSpaces {
	return &fakeSpaces{
		spaces:  make(map[string]models.Space),
		members: make(map[string][]models.Member),
	}
}

func (f *fakeSpaces) UpsertSpace(ctx context.Context, space models.Space) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if existing, ok := f.spaces[space.ID]; ok {
		space.SharingPaused = existing.SharingPaused
	}
	space.MemberIDs = nil
	f.spaces[space.ID] = space

	for _, m := range f.members[space.ID] {
		if m.UserID == space.OwnerID {
			return nil
		}
	}
	f.members[space.ID] = append(f.members[space.ID], models.Member{
		SpaceID: space.ID, UserID: space.OwnerID, Role: models.RoleOwner, Email: space.OwnerEmail,
	})
	return nil
}

func (f *fakeSpaces) GetSpace(_ context.Context, spaceID string) (models.Space, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	space, ok := f.spaces[spaceID]
	if !ok {
		return models.Space{}, store.ErrSpaceNotFound
	}
	for _, m := range f.members[spaceID] {
		space.MemberIDs = append(space.MemberIDs, m.UserID)
	}
	return space, nil
}

func (f *fakeSpaces) SpacesForUser(ctx context.Context, userID string) ([]models.Space, error) {
	f.mu.Lock()
	ids := make([]string, 0)
	for spaceID, members := range f.members {
		for _, m := range members {
			if m.UserID == userID {
				ids = append(ids, spaceID)
			}
		}
	}
	f.mu.Unlock()

	slices.Sort(ids)
	out := make([]models.Space, 0, len(ids))
	for _, id := range ids {
		space, err := f.GetSpace(ctx, id)
		if err != nil {
			return nil, err
		}
		out = append(out, space)
	}
	return out, nil
}

func (f *fakeSpaces) SetPaused(_ context.Context, spaceID string, paused bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	space, ok := f.spaces[spaceID]
	if !ok {
		return store.ErrSpaceNotFound
	}
	space.SharingPaused = paused
	f.spaces[spaceID] = space
	return nil
}

func (f *fakeSpaces) AddMember(_ context.Context, member models.Member) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, m := range f.members[member.SpaceID] {
		if m.UserID == member.UserID {
			return nil
		}
	}
	f.members[member.SpaceID] = append(f.members[member.SpaceID], member)
	return nil
}

func (f *fakeSpaces) RemoveMember(_ context.Context, spaceID, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.members[spaceID] = slices.DeleteFunc(f.members[spaceID], func(m models.Member) bool {
		return m.UserID == userID
	})
	return nil
}

func (f *fakeSpaces) Members(_ context.Context, spaceID string) ([]models.Member, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.members[spaceID]), nil
}

type fakeDocs struct {
	mu   sync.Mutex
	docs map[string]map[string]json.RawMessage
}

func newFakeDocs() *fakeDocs {
	return &fakeDocs{docs: make(map[string]map[string]json.RawMessage)}
}

func (f *fakeDocs) Upsert(_ context.Context, spaceID, docID string, doc json.RawMessage) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.docs[spaceID] == nil {
		f.docs[spaceID] = make(map[string]json.RawMessage)
	}
	f.docs[spaceID][docID] = doc
	return nil
}

func (f *fakeDocs) UpsertBatch(ctx context.Context, spaceID string, docs map[string]json.RawMessage) error {
	for id, doc := range docs {
		if err := f.Upsert(ctx, spaceID, id, doc); err != nil {
			return err
		}
	}
	return nil
}

func (f *fakeDocs) Delete(_ context.Context, spaceID, docID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.docs[spaceID], docID)
	return nil
}

func (f *fakeDocs) DeleteAll(_ context.Context, spaceID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.docs, spaceID)
	return nil
}

func (f *fakeDocs) List(_ context.Context, spaceID string) ([]json.RawMessage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	ids := make([]string, 0, len(f.docs[spaceID]))
	for id := range f.docs[spaceID] {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	out := make([]json.RawMessage, 0, len(ids))
	for _, id := range ids {
		out = append(out, f.docs[spaceID][id])
	}
	return out, nil
}

type fakeInvites struct {
	mu      sync.Mutex
	invites map[string]models.Invite
}

func newFakeInvites() *fakeInvites {
	return &fakeInvites{invites: make(map[string]models.Invite)}
}

func (f *fakeInvites) Create(_ context.Context, invite models.Invite) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.invites[invite.ID] = invite
	return nil
}

func (f *fakeInvites) Get(_ context.Context, inviteID string) (models.Invite, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	invite, ok := f.invites[inviteID]
	if !ok {
		return models.Invite{}, store.ErrInviteNotFound
	}
	return invite, nil
}

func (f *fakeInvites) Find(_ context.Context, filter store.InviteFilter) ([]models.Invite, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Invite
	for _, invite := range f.invites {
		if filter.SpaceID != "" && invite.SpaceID != filter.SpaceID {
			continue
		}
		if filter.Email != "" && !strings.EqualFold(invite.InviteeEmail, filter.Email) {
			continue
		}
		if filter.Status != "" && invite.Status != filter.Status {
			continue
		}
		out = append(out, invite)
	}
	return out, nil
}

func (f *fakeInvites) SetStatus(_ context.Context, inviteID string, status models.InviteStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	invite, ok := f.invites[inviteID]
	if !ok {
		return store.ErrInviteNotFound
	}
	invite.Status = status
	f.invites[inviteID] = invite
	return nil
}

func (f *fakeInvites) Delete(_ context.Context, inviteID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.invites[inviteID]; !ok {
		return store.ErrInviteNotFound
	}
	delete(f.invites, inviteID)
	return nil
}
