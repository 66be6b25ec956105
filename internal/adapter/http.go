package adapter

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"

	"github.com/Fenner314/chop-list-sub000/internal/logger"
	"github.com/Fenner314/chop-list-sub000/models"
)

const (
	headerClientID = "X-Client-Id"
	headerActorID  = "X-Actor-Id"
)

// HTTPConfig configures the HTTP/websocket implementation of
// [SpaceRepository].
type HTTPConfig struct {
	BaseURL string
	Timeout time.Duration
}

type httpSpaceRepository struct {
	client   *resty.Client
	baseURL  string
	clientID string
	log      *logger.Logger

	mu    sync.RWMutex
	token string
}

// NewHTTPSpaceRepository constructs the HTTP/REST + websocket implementation
// of [SpaceRepository] against the space server at cfg.BaseURL. Each
// instance gets a fresh client id used for own-echo suppression on
// subscriptions.
//
// Returns an error if cfg.BaseURL is empty or cannot be parsed as a URL.
func NewHTTPSpaceRepository(cfg HTTPConfig, log *logger.Logger) (SpaceRepository, error) {
	baseURL, err := normalizeBaseURL(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid space server address: %w", err)
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}

	cli := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(cfg.Timeout)

	return &httpSpaceRepository{
		client:   cli,
		baseURL:  baseURL,
		clientID: uuid.NewString(),
		log:      log,
	}, nil
}

func normalizeBaseURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("empty address")
	}

	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("address must include host and scheme")
	}

	return strings.TrimRight(u.String(), "/"), nil
}

// SetToken implements [SpaceRepository]. The token (whitespace-trimmed) is
// attached as a bearer credential to every subsequent request.
func (h *httpSpaceRepository) SetToken(token string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.token = strings.TrimSpace(token)
}

// ClientID implements [SpaceRepository].
func (h *httpSpaceRepository) ClientID() string {
	return h.clientID
}

func (h *httpSpaceRepository) bearer() string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.token
}

func (h *httpSpaceRepository) request(ctx context.Context) *resty.Request {
	req := h.client.R().
		SetContext(ctx).
		SetHeader(headerClientID, h.clientID)
	if tok := h.bearer(); tok != "" {
		req.SetAuthToken(tok)
	}
	return req
}

// write prepares an authenticated request whose body has passed through the
// null-stripper required by the space store.
func (h *httpSpaceRepository) write(ctx context.Context, actorID string, body any) (*resty.Request, error) {
	req := h.request(ctx).SetHeader("Content-Type", "application/json")
	if actorID != "" {
		req.SetHeader(headerActorID, actorID)
	}
	if body != nil {
		clean, err := sanitizeBody(body)
		if err != nil {
			return nil, err
		}
		req.SetBody(clean)
	}
	return req, nil
}

func mapHTTPError(resp *resty.Response) error {
	switch {
	case resp.IsSuccess():
		return nil
	case resp.StatusCode() == http.StatusUnauthorized:
		return ErrUnauthorized
	case resp.StatusCode() == http.StatusForbidden:
		return ErrForbidden
	case resp.StatusCode() == http.StatusNotFound:
		return ErrNotFound
	default:
		return fmt.Errorf("space server returned %d: %s", resp.StatusCode(), strings.TrimSpace(resp.String()))
	}
}

// GetSpace implements [SpaceRepository]. Returns ErrNotFound when the space
// document does not exist.
func (h *httpSpaceRepository) GetSpace(ctx context.Context, spaceID string) (models.Space, error) {
	var space models.Space
	resp, err := h.request(ctx).
		SetResult(&space).
		Get("/api/spaces/" + url.PathEscape(spaceID))
	if err != nil {
		return models.Space{}, fmt.Errorf("get space %s: %w", spaceID, err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.Space{}, err
	}
	return space, nil
}

// EnsureSpace implements [SpaceRepository]. It upserts the owner's space
// document; existing member sets and collections are left untouched.
func (h *httpSpaceRepository) EnsureSpace(ctx context.Context, space models.Space) error {
	req, err := h.write(ctx, space.OwnerID, space)
	if err != nil {
		return err
	}
	resp, err := req.Put("/api/spaces/" + url.PathEscape(space.ID))
	if err != nil {
		return fmt.Errorf("ensure space %s: %w", space.ID, err)
	}
	return mapHTTPError(resp)
}

func (h *httpSpaceRepository) GetUserSpaces(ctx context.Context, userID string) ([]models.Space, error) {
	var spaces []models.Space
	resp, err := h.request(ctx).
		SetResult(&spaces).
		Get("/api/users/" + url.PathEscape(userID) + "/spaces")
	if err != nil {
		return nil, fmt.Errorf("get user spaces for %s: %w", userID, err)
	}
	if err = mapHTTPError(resp); err != nil {
		return nil, err
	}
	return spaces, nil
}

func (h *httpSpaceRepository) SetItem(ctx context.Context, spaceID string, item models.Item, actorID string) error {
	req, err := h.write(ctx, actorID, item)
	if err != nil {
		return err
	}
	resp, err := req.Put("/api/spaces/" + url.PathEscape(spaceID) + "/items/" + url.PathEscape(item.ID))
	if err != nil {
		return fmt.Errorf("set item %s: %w", item.ID, err)
	}
	return mapHTTPError(resp)
}

func (h *httpSpaceRepository) DeleteItem(ctx context.Context, spaceID, itemID string) error {
	resp, err := h.request(ctx).
		Delete("/api/spaces/" + url.PathEscape(spaceID) + "/items/" + url.PathEscape(itemID))
	if err != nil {
		return fmt.Errorf("delete item %s: %w", itemID, err)
	}
	return mapHTTPError(resp)
}

func (h *httpSpaceRepository) BatchSetItems(ctx context.Context, spaceID string, items []models.Item, actorID string) error {
	req, err := h.write(ctx, actorID, items)
	if err != nil {
		return err
	}
	resp, err := req.Post("/api/spaces/" + url.PathEscape(spaceID) + "/items/batch")
	if err != nil {
		return fmt.Errorf("batch set %d items: %w", len(items), err)
	}
	return mapHTTPError(resp)
}

func (h *httpSpaceRepository) ClearAllItems(ctx context.Context, spaceID string) error {
	resp, err := h.request(ctx).
		Delete("/api/spaces/" + url.PathEscape(spaceID) + "/items")
	if err != nil {
		return fmt.Errorf("clear items of space %s: %w", spaceID, err)
	}
	return mapHTTPError(resp)
}

func (h *httpSpaceRepository) SetRecipe(ctx context.Context, spaceID string, recipe models.Recipe, actorID string) error {
	req, err := h.write(ctx, actorID, recipe)
	if err != nil {
		return err
	}
	resp, err := req.Put("/api/spaces/" + url.PathEscape(spaceID) + "/recipes/" + url.PathEscape(recipe.ID))
	if err != nil {
		return fmt.Errorf("set recipe %s: %w", recipe.ID, err)
	}
	return mapHTTPError(resp)
}

func (h *httpSpaceRepository) DeleteRecipe(ctx context.Context, spaceID, recipeID string) error {
	resp, err := h.request(ctx).
		Delete("/api/spaces/" + url.PathEscape(spaceID) + "/recipes/" + url.PathEscape(recipeID))
	if err != nil {
		return fmt.Errorf("delete recipe %s: %w", recipeID, err)
	}
	return mapHTTPError(resp)
}

func (h *httpSpaceRepository) BatchSetRecipes(ctx context.Context, spaceID string, recipes []models.Recipe, actorID string) error {
	req, err := h.write(ctx, actorID, recipes)
	if err != nil {
		return err
	}
	resp, err := req.Post("/api/spaces/" + url.PathEscape(spaceID) + "/recipes/batch")
	if err != nil {
		return fmt.Errorf("batch set %d recipes: %w", len(recipes), err)
	}
	return mapHTTPError(resp)
}

func (h *httpSpaceRepository) ClearAllRecipes(ctx context.Context, spaceID string) error {
	resp, err := h.request(ctx).
		Delete("/api/spaces/" + url.PathEscape(spaceID) + "/recipes")
	if err != nil {
		return fmt.Errorf("clear recipes of space %s: %w", spaceID, err)
	}
	return mapHTTPError(resp)
}

func (h *httpSpaceRepository) AddMember(ctx context.Context, member models.Member) error {
	req, err := h.write(ctx, member.UserID, member)
	if err != nil {
		return err
	}
	resp, err := req.Post("/api/spaces/" + url.PathEscape(member.SpaceID) + "/members")
	if err != nil {
		return fmt.Errorf("add member %s to space %s: %w", member.UserID, member.SpaceID, err)
	}
	return mapHTTPError(resp)
}

func (h *httpSpaceRepository) RemoveMember(ctx context.Context, spaceID, userID string) error {
	resp, err := h.request(ctx).
		Delete("/api/spaces/" + url.PathEscape(spaceID) + "/members/" + url.PathEscape(userID))
	if err != nil {
		return fmt.Errorf("remove member %s from space %s: %w", userID, spaceID, err)
	}
	return mapHTTPError(resp)
}

func (h *httpSpaceRepository) PauseSharing(ctx context.Context, spaceID string) error {
	resp, err := h.request(ctx).
		Post("/api/spaces/" + url.PathEscape(spaceID) + "/pause")
	if err != nil {
		return fmt.Errorf("pause sharing of space %s: %w", spaceID, err)
	}
	return mapHTTPError(resp)
}

func (h *httpSpaceRepository) ResumeSharing(ctx context.Context, spaceID string) error {
	resp, err := h.request(ctx).
		Post("/api/spaces/" + url.PathEscape(spaceID) + "/resume")
	if err != nil {
		return fmt.Errorf("resume sharing of space %s: %w", spaceID, err)
	}
	return mapHTTPError(resp)
}

func (h *httpSpaceRepository) CreateInvite(ctx context.Context, invite models.Invite) error {
	req, err := h.write(ctx, invite.InviterID, invite)
	if err != nil {
		return err
	}
	resp, err := req.Post("/api/invites")
	if err != nil {
		return fmt.Errorf("create invite for %s: %w", invite.InviteeEmail, err)
	}
	return mapHTTPError(resp)
}

func (h *httpSpaceRepository) Invite(ctx context.Context, inviteID string) (models.Invite, error) {
	var invite models.Invite
	resp, err := h.request(ctx).
		SetResult(&invite).
		Get("/api/invites/" + url.PathEscape(inviteID))
	if err != nil {
		return models.Invite{}, fmt.Errorf("get invite %s: %w", inviteID, err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.Invite{}, err
	}
	return invite, nil
}

func (h *httpSpaceRepository) InvitesBySpace(ctx context.Context, spaceID string, status models.InviteStatus) ([]models.Invite, error) {
	var invites []models.Invite
	resp, err := h.request(ctx).
		SetQueryParam("spaceId", spaceID).
		SetQueryParam("status", string(status)).
		SetResult(&invites).
		Get("/api/invites")
	if err != nil {
		return nil, fmt.Errorf("list invites of space %s: %w", spaceID, err)
	}
	if err = mapHTTPError(resp); err != nil {
		return nil, err
	}
	return invites, nil
}

func (h *httpSpaceRepository) InvitesByEmail(ctx context.Context, email string, status models.InviteStatus) ([]models.Invite, error) {
	var invites []models.Invite
	resp, err := h.request(ctx).
		SetQueryParam("email", email).
		SetQueryParam("status", string(status)).
		SetResult(&invites).
		Get("/api/invites")
	if err != nil {
		return nil, fmt.Errorf("list invites for %s: %w", email, err)
	}
	if err = mapHTTPError(resp); err != nil {
		return nil, err
	}
	return invites, nil
}

func (h *httpSpaceRepository) SetInviteStatus(ctx context.Context, inviteID string, status models.InviteStatus) error {
	req, err := h.write(ctx, "", map[string]any{"status": status})
	if err != nil {
		return err
	}
	resp, err := req.Patch("/api/invites/" + url.PathEscape(inviteID))
	if err != nil {
		return fmt.Errorf("set invite %s status: %w", inviteID, err)
	}
	return mapHTTPError(resp)
}

func (h *httpSpaceRepository) DeleteInvite(ctx context.Context, inviteID string) error {
	resp, err := h.request(ctx).
		Delete("/api/invites/" + url.PathEscape(inviteID))
	if err != nil {
		return fmt.Errorf("delete invite %s: %w", inviteID, err)
	}
	return mapHTTPError(resp)
}
