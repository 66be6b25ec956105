package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Fenner314/chop-list-sub000/internal/adapter"
	"github.com/Fenner314/chop-list-sub000/internal/identity"
	"github.com/Fenner314/chop-list-sub000/internal/localstore"
	"github.com/Fenner314/chop-list-sub000/internal/logger"
	"github.com/Fenner314/chop-list-sub000/models"
)

// NoticeFunc surfaces a user-visible notice (dialogs and toasts live outside
// the sync core). A nil NoticeFunc drops notices.
type NoticeFunc func(message string)

// SharingManager is the state machine governing space membership:
//
//	local         — sharing disabled, everything stays on the device
//	owner-active  — sharing enabled, bound to the user's own space
//	paused        — owner disabled sharing; space flagged paused, device local
//	member-active — bound to another user's non-paused space
//
// A member bound to a space that becomes paused is switched back to their
// own space automatically, with a notice; that check runs whenever the
// cached available-spaces list changes.
type SharingManager struct {
	repo        adapter.SpaceRepository
	store       *localstore.Store
	users       identity.Provider
	orch        *Orchestrator
	interceptor *ChangeInterceptor
	notify      NoticeFunc
	log         *logger.Logger

	mu           sync.Mutex
	spacesDigest string
	storeUnsub   func()
	authUnsub    func()
}

// NewSharingManager constructs the manager with injected collaborators.
// Call Attach to start watching store and auth state.
func NewSharingManager(
	repo adapter.SpaceRepository,
	store *localstore.Store,
	users identity.Provider,
	orch *Orchestrator,
	interceptor *ChangeInterceptor,
	notify NoticeFunc,
	log *logger.Logger,
) *SharingManager {
	return &SharingManager{
		repo:        repo,
		store:       store,
		users:       users,
		orch:        orch,
		interceptor: interceptor,
		notify:      notify,
		log:         log,
	}
}

// Attach subscribes the manager to local-store changes (for the paused-space
// eviction check) and to auth-state changes (to reset sync state on
// sign-out). Detach undoes both.
func (m *SharingManager) Attach() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.storeUnsub == nil {
		m.storeUnsub = m.store.Subscribe(m.onStateChange)
	}
	if m.authUnsub == nil {
		m.authUnsub = m.users.OnAuthStateChanged(func(u *models.User) {
			if u == nil {
				m.handleSignOut()
			}
		})
	}
}

// Detach removes the subscriptions registered by Attach.
func (m *SharingManager) Detach() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.storeUnsub != nil {
		m.storeUnsub()
		m.storeUnsub = nil
	}
	if m.authUnsub != nil {
		m.authUnsub()
		m.authUnsub = nil
	}
}

// EnableSharing turns the signed-in user into a space owner: the remote
// space is created (or revived), its stale item/recipe collections are
// cleared, the full local collections are bulk-uploaded — local data wins
// over any stale remote copy — and the space is unpaused. Sync subscriptions
// start afterwards.
func (m *SharingManager) EnableSharing(ctx context.Context) error {
	user := m.users.CurrentUser()
	if user == nil {
		return identity.ErrNotSignedIn
	}

	m.repo.SetToken(m.users.Token())
	m.interceptor.SetActor(user.ID)

	m.store.Dispatch(localstore.SetSharingEnabled{Enabled: true})
	m.store.Dispatch(localstore.SetCurrentSpace{SpaceID: user.ID})
	m.store.Dispatch(localstore.SetSyncStatus{Status: models.SyncSyncing})

	if err := m.uploadLocalData(ctx, *user); err != nil {
		m.store.Dispatch(localstore.SetSyncStatus{Status: models.SyncError})
		return err
	}

	if err := m.orch.SetUser(ctx, user.ID); err != nil {
		return err
	}
	if err := m.orch.StartSync(ctx, user.ID); err != nil {
		return err
	}

	m.log.Info().Str("space", user.ID).Msg("sharing enabled")
	return nil
}

func (m *SharingManager) uploadLocalData(ctx context.Context, user models.User) error {
	space := models.Space{
		ID:         user.ID,
		OwnerID:    user.ID,
		OwnerEmail: user.Email,
		OwnerName:  user.DisplayName,
		MemberIDs:  []string{user.ID},
		CreatedAt:  time.Now().UTC(),
	}
	if err := m.repo.EnsureSpace(ctx, space); err != nil {
		return fmt.Errorf("ensure own space: %w", err)
	}

	if err := m.repo.ClearAllItems(ctx, user.ID); err != nil {
		return fmt.Errorf("clear stale remote items: %w", err)
	}
	if err := m.repo.ClearAllRecipes(ctx, user.ID); err != nil {
		return fmt.Errorf("clear stale remote recipes: %w", err)
	}

	state := m.store.State()
	items := make([]models.Item, 0, len(state.Items))
	for _, item := range state.Items {
		items = append(items, item)
	}
	recipes := make([]models.Recipe, 0, len(state.Recipes))
	for _, r := range state.Recipes {
		recipes = append(recipes, r)
	}

	if len(items) > 0 {
		if err := m.repo.BatchSetItems(ctx, user.ID, items, user.ID); err != nil {
			return fmt.Errorf("upload local items: %w", err)
		}
	}
	if len(recipes) > 0 {
		if err := m.repo.BatchSetRecipes(ctx, user.ID, recipes, user.ID); err != nil {
			return fmt.Errorf("upload local recipes: %w", err)
		}
	}

	if err := m.repo.ResumeSharing(ctx, user.ID); err != nil {
		return fmt.Errorf("unpause own space: %w", err)
	}

	return nil
}

// DisableSharing pauses the owned space — members bound to it are evicted by
// their own paused-space check — then stops all subscriptions, clears the
// user binding, and returns the device to local mode. The caller is
// responsible for confirming the action with the user first.
func (m *SharingManager) DisableSharing(ctx context.Context) error {
	user := m.users.CurrentUser()
	if user == nil {
		return identity.ErrNotSignedIn
	}
	if !m.store.State().Settings.SharingEnabled {
		return ErrSharingDisabled
	}

	if err := m.repo.PauseSharing(ctx, user.ID); err != nil {
		return fmt.Errorf("pause own space: %w", err)
	}

	m.orch.StopSync()
	if err := m.orch.SetUser(ctx, ""); err != nil {
		return err
	}
	m.interceptor.SetActor("")

	// Cascades: current space cleared, sync status back to local.
	m.store.Dispatch(localstore.SetSharingEnabled{Enabled: false})

	m.log.Info().Str("space", user.ID).Msg("sharing disabled")
	return nil
}

// SwitchSpace rebinds the device to spaceID. Binding to another user's
// paused space is refused. Binding implies sharing: a device switching out
// of local mode gets sharingEnabled set as part of the bind, so its local
// edits flow out again.
func (m *SharingManager) SwitchSpace(ctx context.Context, spaceID string) error {
	user := m.users.CurrentUser()
	if user == nil {
		return identity.ErrNotSignedIn
	}

	space, err := m.repo.GetSpace(ctx, spaceID)
	if err != nil {
		if errors.Is(err, adapter.ErrNotFound) {
			return ErrSpaceGone
		}
		return fmt.Errorf("load space %s: %w", spaceID, err)
	}
	if space.SharingPaused && spaceID != user.ID {
		return ErrSpacePaused
	}

	m.repo.SetToken(m.users.Token())
	m.interceptor.SetActor(user.ID)

	m.store.Dispatch(localstore.SetSharingEnabled{Enabled: true})
	m.store.Dispatch(localstore.SetCurrentSpace{SpaceID: spaceID})
	m.store.Dispatch(localstore.SetSyncStatus{Status: models.SyncSyncing})

	if err = m.orch.SetUser(ctx, user.ID); err != nil {
		return err
	}
	return m.orch.StartSync(ctx, spaceID)
}

// SendInvite offers membership of the caller's own space to inviteeEmail.
// A pending invite to the same email for the same space is rejected.
func (m *SharingManager) SendInvite(ctx context.Context, inviteeEmail string) error {
	user := m.users.CurrentUser()
	if user == nil {
		return identity.ErrNotSignedIn
	}
	if !m.store.State().Settings.SharingEnabled {
		return ErrSharingDisabled
	}

	pending, err := m.repo.InvitesBySpace(ctx, user.ID, models.InvitePending)
	if err != nil {
		return fmt.Errorf("list pending invites: %w", err)
	}
	for _, inv := range pending {
		if strings.EqualFold(inv.InviteeEmail, inviteeEmail) {
			return ErrDuplicateInvite
		}
	}

	invite := models.Invite{
		ID:           uuid.NewString(),
		SpaceID:      user.ID,
		InviterID:    user.ID,
		InviteeEmail: inviteeEmail,
		Status:       models.InvitePending,
		CreatedAt:    time.Now().UTC(),
	}
	if err = m.repo.CreateInvite(ctx, invite); err != nil {
		return fmt.Errorf("create invite: %w", err)
	}

	return nil
}

// PendingInvites lists the pending invites addressed to the signed-in user.
func (m *SharingManager) PendingInvites(ctx context.Context) ([]models.Invite, error) {
	user := m.users.CurrentUser()
	if user == nil {
		return nil, identity.ErrNotSignedIn
	}
	return m.repo.InvitesByEmail(ctx, user.Email, models.InvitePending)
}

// AcceptInvite joins the invited space. The invite flips to accepted first,
// because the server admits a self-joining member only on the strength of an
// accepted invite; the join follows, and a failed join flips the invite back
// to pending. If the space has meanwhile been deleted the invite is marked
// declined and ErrSpaceGone is returned.
func (m *SharingManager) AcceptInvite(ctx context.Context, inviteID string) error {
	user := m.users.CurrentUser()
	if user == nil {
		return identity.ErrNotSignedIn
	}

	invite, err := m.repo.Invite(ctx, inviteID)
	if err != nil {
		return fmt.Errorf("load invite %s: %w", inviteID, err)
	}
	if invite.Status != models.InvitePending {
		return ErrInviteNotPending
	}
	if !strings.EqualFold(invite.InviteeEmail, user.Email) {
		return ErrInviteNotAddressed
	}

	if _, err = m.repo.GetSpace(ctx, invite.SpaceID); err != nil {
		if errors.Is(err, adapter.ErrNotFound) {
			if declineErr := m.repo.SetInviteStatus(ctx, inviteID, models.InviteDeclined); declineErr != nil {
				m.log.Warn().Err(declineErr).Str("invite", inviteID).Msg("could not decline orphaned invite")
			}
			return ErrSpaceGone
		}
		return fmt.Errorf("load invited space %s: %w", invite.SpaceID, err)
	}

	if err = m.repo.SetInviteStatus(ctx, inviteID, models.InviteAccepted); err != nil {
		return fmt.Errorf("mark invite accepted: %w", err)
	}

	member := models.Member{
		SpaceID:     invite.SpaceID,
		UserID:      user.ID,
		Role:        models.RoleEditor,
		Email:       user.Email,
		DisplayName: user.DisplayName,
		JoinedAt:    time.Now().UTC(),
	}
	if err = m.repo.AddMember(ctx, member); err != nil {
		if revertErr := m.repo.SetInviteStatus(ctx, inviteID, models.InvitePending); revertErr != nil {
			m.log.Warn().Err(revertErr).Str("invite", inviteID).Msg("could not revert invite after failed join")
		}
		return fmt.Errorf("join space %s: %w", invite.SpaceID, err)
	}

	return nil
}

// DeclineInvite marks the invite declined (invitee-side).
func (m *SharingManager) DeclineInvite(ctx context.Context, inviteID string) error {
	user := m.users.CurrentUser()
	if user == nil {
		return identity.ErrNotSignedIn
	}

	invite, err := m.repo.Invite(ctx, inviteID)
	if err != nil {
		return fmt.Errorf("load invite %s: %w", inviteID, err)
	}
	if invite.Status != models.InvitePending {
		return ErrInviteNotPending
	}
	if !strings.EqualFold(invite.InviteeEmail, user.Email) {
		return ErrInviteNotAddressed
	}

	return m.repo.SetInviteStatus(ctx, inviteID, models.InviteDeclined)
}

// CancelInvite deletes the invite document outright (owner-side).
func (m *SharingManager) CancelInvite(ctx context.Context, inviteID string) error {
	if m.users.CurrentUser() == nil {
		return identity.ErrNotSignedIn
	}
	return m.repo.DeleteInvite(ctx, inviteID)
}

// onStateChange runs after every store dispatch and re-checks the paused
// eviction rule whenever the cached available-spaces list changed.
func (m *SharingManager) onStateChange(state localstore.State) {
	digest := spacesDigest(state.Settings.AvailableSpaces)

	m.mu.Lock()
	unchanged := digest == m.spacesDigest
	m.spacesDigest = digest
	m.mu.Unlock()

	if unchanged {
		return
	}

	m.checkPausedEviction(state)
}

// checkPausedEviction switches a member off a space whose owner paused
// sharing, back to the member's own space, with a notice.
func (m *SharingManager) checkPausedEviction(state localstore.State) {
	user := m.users.CurrentUser()
	if user == nil {
		return
	}

	current := state.Settings.CurrentSpaceID
	if current == "" || current == user.ID {
		return
	}

	for _, space := range state.Settings.AvailableSpaces {
		if space.ID != current || !space.SharingPaused {
			continue
		}

		// Rebinding to the user's own space bypasses the paused-space
		// validation of SwitchSpace: falling back home is always allowed.
		m.store.Dispatch(localstore.SetCurrentSpace{SpaceID: user.ID})
		m.store.Dispatch(localstore.SetSyncStatus{Status: models.SyncSyncing})

		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		err := m.orch.StartSync(ctx, user.ID)
		cancel()
		if err != nil {
			m.log.Error().Err(err).Msg("switch back to own space after pause")
			return
		}

		if m.notify != nil {
			m.notify("The owner paused sharing for this space. You are back on your own lists.")
		}
		return
	}
}

// handleSignOut resets sync state to local defaults when the user signs out.
func (m *SharingManager) handleSignOut() {
	m.orch.StopSync()
	if err := m.orch.SetUser(context.Background(), ""); err != nil {
		m.log.Error().Err(err).Msg("detach sync user on sign-out")
	}
	m.interceptor.SetActor("")
	m.repo.SetToken("")

	m.store.Dispatch(localstore.SetSharingEnabled{Enabled: false})
	m.store.Dispatch(localstore.SetAvailableSpaces{})
}

func spacesDigest(spaces []models.Space) string {
	raw, err := json.Marshal(spaces)
	if err != nil {
		return ""
	}
	return string(raw)
}
