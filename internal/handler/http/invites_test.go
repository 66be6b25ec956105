package http

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Fenner314/chop-list-sub000/models"
)

func seedPendingInvite(t *testing.T, env *testEnv, id, spaceID, email string) {
	t.Helper()
	require.NoError(t, env.invites.Create(context.Background(), models.Invite{
		ID: id, SpaceID: spaceID, InviterID: spaceID,
		InviteeEmail: email, Status: models.InvitePending,
	}))
}

func TestCreateInvite(t *testing.T) {
	env := newTestEnv(t)
	invite := models.Invite{ID: "inv-1", SpaceID: "u1", InviteeEmail: "bob@example.com"}

	resp := env.do(t, http.MethodPost, "/api/invites", env.token(t, "u2"), invite)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = env.do(t, http.MethodPost, "/api/invites", env.token(t, "u1"), invite)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	stored, err := env.invites.Get(context.Background(), "inv-1")
	require.NoError(t, err)
	assert.Equal(t, models.InvitePending, stored.Status)
	assert.Equal(t, "u1", stored.InviterID)
	assert.False(t, stored.CreatedAt.IsZero())
}

func TestFindInvites_BySpace(t *testing.T) {
	env := newTestEnv(t)
	seedPendingInvite(t, env, "inv-1", "u1", "bob@example.com")

	resp := env.do(t, http.MethodGet, "/api/invites?spaceId=u1&status=pending", env.token(t, "u2"), nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = env.do(t, http.MethodGet, "/api/invites?spaceId=u1&status=pending", env.token(t, "u1"), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	invites := decodeBody[[]models.Invite](t, resp)
	require.Len(t, invites, 1)
	assert.Equal(t, "inv-1", invites[0].ID)
}

func TestFindInvites_ByEmailRequiresOwnAddress(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser(t, "u2", "bob@example.com", "secret")
	seedPendingInvite(t, env, "inv-1", "u1", "bob@example.com")

	resp := env.do(t, http.MethodGet, "/api/invites?email=bob@example.com&status=pending", env.token(t, "u3"), nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = env.do(t, http.MethodGet, "/api/invites?email=bob@example.com&status=pending", env.token(t, "u2"), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	invites := decodeBody[[]models.Invite](t, resp)
	assert.Len(t, invites, 1)
}

func TestFindInvites_RequiresAFilter(t *testing.T) {
	env := newTestEnv(t)

	resp := env.do(t, http.MethodGet, "/api/invites?status=pending", env.token(t, "u1"), nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestSetInviteStatus_AddresseeOnly(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser(t, "u2", "bob@example.com", "secret")
	seedPendingInvite(t, env, "inv-1", "u1", "bob@example.com")
	body := map[string]string{"status": "accepted"}

	// the inviter cannot accept on the addressee's behalf
	resp := env.do(t, http.MethodPatch, "/api/invites/inv-1", env.token(t, "u1"), body)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = env.do(t, http.MethodPatch, "/api/invites/inv-1", env.token(t, "u2"), body)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	stored, err := env.invites.Get(context.Background(), "inv-1")
	require.NoError(t, err)
	assert.Equal(t, models.InviteAccepted, stored.Status)
}

func TestSetInviteStatus_ResolvedStaysResolved(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser(t, "u2", "bob@example.com", "secret")
	seedPendingInvite(t, env, "inv-1", "u1", "bob@example.com")
	require.NoError(t, env.invites.SetStatus(context.Background(), "inv-1", models.InviteDeclined))

	resp := env.do(t, http.MethodPatch, "/api/invites/inv-1", env.token(t, "u2"),
		map[string]string{"status": "accepted"})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestSetInviteStatus_RejectsPendingAsTarget(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser(t, "u2", "bob@example.com", "secret")
	seedPendingInvite(t, env, "inv-1", "u1", "bob@example.com")

	resp := env.do(t, http.MethodPatch, "/api/invites/inv-1", env.token(t, "u2"),
		map[string]string{"status": "pending"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestDeleteInvite_InviterOnly(t *testing.T) {
	env := newTestEnv(t)
	seedPendingInvite(t, env, "inv-1", "u1", "bob@example.com")

	resp := env.do(t, http.MethodDelete, "/api/invites/inv-1", env.token(t, "u2"), nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = env.do(t, http.MethodDelete, "/api/invites/inv-1", env.token(t, "u1"), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	_, err := env.invites.Get(context.Background(), "inv-1")
	assert.Error(t, err)
}

func TestGetInvite_NotFound(t *testing.T) {
	env := newTestEnv(t)

	resp := env.do(t, http.MethodGet, "/api/invites/ghost", env.token(t, "u1"), nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
