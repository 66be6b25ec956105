package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/Fenner314/chop-list-sub000/internal/adapter"
	"github.com/Fenner314/chop-list-sub000/internal/identity"
	"github.com/Fenner314/chop-list-sub000/internal/localstore"
	"github.com/Fenner314/chop-list-sub000/internal/logger"
	"github.com/Fenner314/chop-list-sub000/internal/mock"
	"github.com/Fenner314/chop-list-sub000/models"
)

type sharingFixture struct {
	repo        *fakeSpaceRepo
	store       *localstore.Store
	users       *mock.MockProvider
	orch        *Orchestrator
	interceptor *ChangeInterceptor
	manager     *SharingManager
	notices     []string
}

func newSharingFixture(t *testing.T, user *models.User) *sharingFixture {
	t.Helper()

	ctrl := gomock.NewController(t)
	users := mock.NewMockProvider(ctrl)
	users.EXPECT().CurrentUser().Return(user).AnyTimes()
	users.EXPECT().Token().Return("test-token").AnyTimes()

	repo := newFakeSpaceRepo()
	store, err := localstore.Open("", logger.Nop())
	require.NoError(t, err)

	ci := NewChangeInterceptor(repo, logger.Nop())
	store.AddInterceptor(ci)
	orch := NewOrchestrator(repo, store, logger.Nop())

	f := &sharingFixture{
		repo:        repo,
		store:       store,
		users:       users,
		orch:        orch,
		interceptor: ci,
	}
	f.manager = NewSharingManager(repo, store, users, orch, ci, func(msg string) {
		f.notices = append(f.notices, msg)
	}, logger.Nop())

	return f
}

func TestEnableSharing_UploadsLocalDataOnce(t *testing.T) {
	user := &models.User{ID: "owner-1", Email: "owner@example.com", DisplayName: "Owner"}
	f := newSharingFixture(t, user)

	f.store.Dispatch(localstore.AddItem{ID: "i1", Name: "Milk", List: models.ListPantry})
	f.store.Dispatch(localstore.AddItem{ID: "i2", Name: "Bread", List: models.ListShopping})
	f.store.Dispatch(localstore.AddItem{ID: "i3", Name: "Eggs", List: models.ListShopping})
	f.store.Dispatch(localstore.AddRecipe{ID: "r1", Name: "Pancakes", Servings: 4})

	require.NoError(t, f.manager.EnableSharing(context.Background()))
	f.interceptor.Flush()

	// Remote collections are cleared, then each local entity goes up exactly
	// once in a single batch. Local data wins over whatever was there.
	assert.Equal(t, []string{"owner-1"}, f.repo.clearedItems)
	assert.Equal(t, []string{"owner-1"}, f.repo.clearedRecipes)
	require.Len(t, f.repo.batchItems, 1)
	assert.Len(t, f.repo.batchItems[0], 3)
	require.Len(t, f.repo.batchRecipes, 1)
	assert.Len(t, f.repo.batchRecipes[0], 1)
	assert.Equal(t, []string{"owner-1"}, f.repo.resumedSpaces, "own space is unpaused on enable")

	space, ok := f.repo.spaces["owner-1"]
	require.True(t, ok)
	assert.Equal(t, "owner-1", space.OwnerID)
	assert.Equal(t, "owner@example.com", space.OwnerEmail)

	settings := f.store.State().Settings
	assert.True(t, settings.SharingEnabled)
	assert.Equal(t, "owner-1", settings.CurrentSpaceID)
	assert.Equal(t, 1, f.repo.itemsSubs)
	assert.Equal(t, 1, f.repo.recipesSubs)
}

func TestEnableSharing_RequiresSignIn(t *testing.T) {
	f := newSharingFixture(t, nil)
	err := f.manager.EnableSharing(context.Background())
	assert.ErrorIs(t, err, identity.ErrNotSignedIn)
}

func TestDisableSharing_PausesSpaceAndGoesLocal(t *testing.T) {
	user := &models.User{ID: "owner-1", Email: "owner@example.com"}
	f := newSharingFixture(t, user)
	require.NoError(t, f.manager.EnableSharing(context.Background()))

	require.NoError(t, f.manager.DisableSharing(context.Background()))

	assert.Equal(t, []string{"owner-1"}, f.repo.pausedSpaces)
	assert.True(t, f.repo.spaces["owner-1"].SharingPaused)

	settings := f.store.State().Settings
	assert.False(t, settings.SharingEnabled)
	assert.Empty(t, settings.CurrentSpaceID)
	assert.Equal(t, models.SyncLocal, settings.SyncStatus)
	assert.Equal(t, 1, f.repo.itemsUnsubs)
	assert.Equal(t, 1, f.repo.spacesUnsubs)
}

func TestDisableSharing_WhenLocalFails(t *testing.T) {
	user := &models.User{ID: "owner-1"}
	f := newSharingFixture(t, user)

	err := f.manager.DisableSharing(context.Background())
	assert.ErrorIs(t, err, ErrSharingDisabled)
}

func TestSwitchSpace_RefusesPausedForeignSpace(t *testing.T) {
	user := &models.User{ID: "member-1", Email: "member@example.com"}
	f := newSharingFixture(t, user)
	f.repo.spaces["owner-1"] = models.Space{ID: "owner-1", OwnerID: "owner-1", SharingPaused: true}

	err := f.manager.SwitchSpace(context.Background(), "owner-1")
	assert.ErrorIs(t, err, ErrSpacePaused)
}

func TestSwitchSpace_DeletedSpace(t *testing.T) {
	user := &models.User{ID: "member-1"}
	f := newSharingFixture(t, user)

	err := f.manager.SwitchSpace(context.Background(), "vanished")
	assert.ErrorIs(t, err, ErrSpaceGone)
}

func TestSwitchSpace_BindsForeignSpace(t *testing.T) {
	user := &models.User{ID: "member-1", Email: "member@example.com"}
	f := newSharingFixture(t, user)
	f.repo.spaces["owner-1"] = models.Space{ID: "owner-1", OwnerID: "owner-1"}
	f.store.Dispatch(localstore.SetSharingEnabled{Enabled: true})

	require.NoError(t, f.manager.SwitchSpace(context.Background(), "owner-1"))

	assert.Equal(t, "owner-1", f.store.State().Settings.CurrentSpaceID)
	assert.Equal(t, "owner-1", f.orch.BoundSpace())
}

func TestSwitchSpace_EnablesSharingFromLocalMode(t *testing.T) {
	user := &models.User{ID: "member-1", Email: "member@example.com"}
	f := newSharingFixture(t, user)
	f.repo.spaces["owner-1"] = models.Space{ID: "owner-1", OwnerID: "owner-1"}

	// no prior sharing state: the device is in local mode when it binds
	require.NoError(t, f.manager.SwitchSpace(context.Background(), "owner-1"))

	settings := f.store.State().Settings
	assert.True(t, settings.SharingEnabled)
	assert.Equal(t, "owner-1", settings.CurrentSpaceID)

	// edits made after the bind flow out, not just in
	f.store.Dispatch(localstore.AddItem{ID: "i1", Name: "Milk", List: models.ListShopping})
	f.interceptor.Flush()
	assert.Len(t, f.repo.pushedItems(), 1)
}

func TestSendInvite_RejectsDuplicatePending(t *testing.T) {
	user := &models.User{ID: "owner-1", Email: "owner@example.com"}
	f := newSharingFixture(t, user)
	f.store.Dispatch(localstore.SetSharingEnabled{Enabled: true})

	require.NoError(t, f.manager.SendInvite(context.Background(), "friend@example.com"))
	err := f.manager.SendInvite(context.Background(), "Friend@Example.com")
	assert.ErrorIs(t, err, ErrDuplicateInvite)

	require.Len(t, f.repo.invites, 1)
	for _, inv := range f.repo.invites {
		assert.Equal(t, "owner-1", inv.SpaceID)
		assert.Equal(t, models.InvitePending, inv.Status)
	}
}

func TestAcceptInvite_JoinsSpace(t *testing.T) {
	user := &models.User{ID: "member-1", Email: "member@example.com", DisplayName: "Member"}
	f := newSharingFixture(t, user)
	f.repo.spaces["owner-1"] = models.Space{ID: "owner-1", OwnerID: "owner-1"}
	f.repo.invites["inv-1"] = models.Invite{
		ID: "inv-1", SpaceID: "owner-1", InviterID: "owner-1",
		InviteeEmail: "Member@Example.com", Status: models.InvitePending,
	}

	require.NoError(t, f.manager.AcceptInvite(context.Background(), "inv-1"))

	require.Len(t, f.repo.addedMembers, 1)
	member := f.repo.addedMembers[0]
	assert.Equal(t, "owner-1", member.SpaceID)
	assert.Equal(t, "member-1", member.UserID)
	assert.Equal(t, models.RoleEditor, member.Role)
	assert.Equal(t, models.InviteAccepted, f.repo.invites["inv-1"].Status)

	// Joining never switches the device; the member stays on their current
	// space until they pick the new one explicitly.
	assert.Empty(t, f.store.State().Settings.CurrentSpaceID)
}

func TestAcceptInvite_AcceptsBeforeJoining(t *testing.T) {
	user := &models.User{ID: "member-1", Email: "member@example.com"}
	f := newSharingFixture(t, user)
	f.repo.spaces["owner-1"] = models.Space{ID: "owner-1", OwnerID: "owner-1"}
	f.repo.invites["inv-1"] = models.Invite{
		ID: "inv-1", SpaceID: "owner-1", InviteeEmail: "member@example.com",
		Status: models.InvitePending,
	}

	// the fake repo admits a non-owner joiner only against an already
	// accepted invite, exactly like the server
	require.NoError(t, f.manager.AcceptInvite(context.Background(), "inv-1"))

	require.Len(t, f.repo.addedMembers, 1)
	assert.Equal(t, models.InviteAccepted, f.repo.invites["inv-1"].Status)
}

func TestAcceptInvite_FailedJoinRevertsInvite(t *testing.T) {
	user := &models.User{ID: "member-1", Email: "member@example.com"}
	f := newSharingFixture(t, user)
	f.repo.spaces["owner-1"] = models.Space{ID: "owner-1", OwnerID: "owner-1"}
	f.repo.invites["inv-1"] = models.Invite{
		ID: "inv-1", SpaceID: "owner-1", InviteeEmail: "member@example.com",
		Status: models.InvitePending,
	}
	f.repo.addMemberErr = adapter.ErrForbidden

	err := f.manager.AcceptInvite(context.Background(), "inv-1")

	assert.ErrorIs(t, err, adapter.ErrForbidden)
	assert.Empty(t, f.repo.addedMembers)
	assert.Equal(t, models.InvitePending, f.repo.invites["inv-1"].Status,
		"a join that never happened leaves the invite answerable")
}

func TestAcceptInvite_SpaceDeletedMeanwhile(t *testing.T) {
	user := &models.User{ID: "member-1", Email: "member@example.com"}
	f := newSharingFixture(t, user)
	f.repo.invites["inv-1"] = models.Invite{
		ID: "inv-1", SpaceID: "vanished", InviteeEmail: "member@example.com",
		Status: models.InvitePending,
	}

	err := f.manager.AcceptInvite(context.Background(), "inv-1")

	assert.ErrorIs(t, err, ErrSpaceGone)
	assert.Equal(t, models.InviteDeclined, f.repo.invites["inv-1"].Status,
		"an invite to a deleted space is declined on detection")
	assert.Empty(t, f.repo.addedMembers)
}

func TestAcceptInvite_WrongAddressee(t *testing.T) {
	user := &models.User{ID: "member-1", Email: "member@example.com"}
	f := newSharingFixture(t, user)
	f.repo.invites["inv-1"] = models.Invite{
		ID: "inv-1", SpaceID: "owner-1", InviteeEmail: "someone-else@example.com",
		Status: models.InvitePending,
	}

	err := f.manager.AcceptInvite(context.Background(), "inv-1")
	assert.ErrorIs(t, err, ErrInviteNotAddressed)
}

func TestAcceptInvite_AlreadyResolved(t *testing.T) {
	user := &models.User{ID: "member-1", Email: "member@example.com"}
	f := newSharingFixture(t, user)
	f.repo.invites["inv-1"] = models.Invite{
		ID: "inv-1", SpaceID: "owner-1", InviteeEmail: "member@example.com",
		Status: models.InviteAccepted,
	}

	err := f.manager.AcceptInvite(context.Background(), "inv-1")
	assert.ErrorIs(t, err, ErrInviteNotPending)
}

func TestDeclineInvite(t *testing.T) {
	user := &models.User{ID: "member-1", Email: "member@example.com"}
	f := newSharingFixture(t, user)
	f.repo.invites["inv-1"] = models.Invite{
		ID: "inv-1", SpaceID: "owner-1", InviteeEmail: "member@example.com",
		Status: models.InvitePending,
	}

	require.NoError(t, f.manager.DeclineInvite(context.Background(), "inv-1"))
	assert.Equal(t, models.InviteDeclined, f.repo.invites["inv-1"].Status)
}

func TestCancelInvite_DeletesDocument(t *testing.T) {
	user := &models.User{ID: "owner-1", Email: "owner@example.com"}
	f := newSharingFixture(t, user)
	f.repo.invites["inv-1"] = models.Invite{ID: "inv-1", SpaceID: "owner-1", Status: models.InvitePending}

	require.NoError(t, f.manager.CancelInvite(context.Background(), "inv-1"))
	assert.Empty(t, f.repo.invites)
}

func TestPausedSpaceEvictsMember(t *testing.T) {
	user := &models.User{ID: "member-1", Email: "member@example.com"}
	f := newSharingFixture(t, user)
	f.users.EXPECT().OnAuthStateChanged(gomock.Any()).Return(func() {}).AnyTimes()
	f.manager.Attach()
	defer f.manager.Detach()

	f.repo.spaces["owner-1"] = models.Space{ID: "owner-1", OwnerID: "owner-1"}
	f.store.Dispatch(localstore.SetSharingEnabled{Enabled: true})
	require.NoError(t, f.manager.SwitchSpace(context.Background(), "owner-1"))

	// The owner pauses sharing; the member's spaces watch delivers the
	// updated list.
	f.store.Dispatch(localstore.SetAvailableSpaces{Provenance: localstore.Remote, Spaces: []models.Space{
		{ID: "member-1", OwnerID: "member-1"},
		{ID: "owner-1", OwnerID: "owner-1", SharingPaused: true},
	}})

	settings := f.store.State().Settings
	assert.Equal(t, "member-1", settings.CurrentSpaceID, "member falls back to their own space")
	assert.Equal(t, "member-1", f.orch.BoundSpace())
	require.Len(t, f.notices, 1)
	assert.Contains(t, f.notices[0], "paused sharing")
}

func TestPausedOwnSpaceDoesNotEvict(t *testing.T) {
	user := &models.User{ID: "owner-1", Email: "owner@example.com"}
	f := newSharingFixture(t, user)
	f.users.EXPECT().OnAuthStateChanged(gomock.Any()).Return(func() {}).AnyTimes()
	f.manager.Attach()
	defer f.manager.Detach()

	require.NoError(t, f.manager.EnableSharing(context.Background()))

	f.store.Dispatch(localstore.SetAvailableSpaces{Provenance: localstore.Remote, Spaces: []models.Space{
		{ID: "owner-1", OwnerID: "owner-1", SharingPaused: true},
	}})

	assert.Equal(t, "owner-1", f.store.State().Settings.CurrentSpaceID)
	assert.Empty(t, f.notices)
}

func TestSignOutResetsSyncState(t *testing.T) {
	user := &models.User{ID: "owner-1", Email: "owner@example.com"}
	f := newSharingFixture(t, user)

	var authCB func(*models.User)
	f.users.EXPECT().OnAuthStateChanged(gomock.Any()).
		DoAndReturn(func(cb func(*models.User)) func() {
			authCB = cb
			return func() {}
		})
	f.manager.Attach()
	defer f.manager.Detach()

	require.NoError(t, f.manager.EnableSharing(context.Background()))
	require.NotNil(t, authCB)

	authCB(nil)

	settings := f.store.State().Settings
	assert.False(t, settings.SharingEnabled)
	assert.Empty(t, settings.CurrentSpaceID)
	assert.Empty(t, settings.AvailableSpaces)
	assert.Equal(t, models.SyncLocal, settings.SyncStatus)
	assert.Equal(t, 1, f.repo.itemsUnsubs)
	assert.Equal(t, 1, f.repo.spacesUnsubs)
}
