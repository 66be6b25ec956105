package identity

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/Fenner314/chop-list-sub000/internal/logger"
	"github.com/Fenner314/chop-list-sub000/models"
)

// HTTPConfig configures the HTTP identity client.
type HTTPConfig struct {
	BaseURL string
	Timeout time.Duration
}

type httpProvider struct {
	client *resty.Client
	log    *logger.Logger

	mu        sync.RWMutex
	user      *models.User
	token     string
	nextSubID int
	listeners map[int]func(*models.User)
}

// NewHTTPProvider constructs a Provider backed by the space server's auth
// endpoints. Sessions live in memory: a restart means signing in again.
func NewHTTPProvider(cfg HTTPConfig, log *logger.Logger) Provider {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}

	cli := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetTimeout(cfg.Timeout)

	return &httpProvider{
		client:    cli,
		log:       log,
		listeners: make(map[int]func(*models.User)),
	}
}

type authRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	DisplayName string `json:"displayName,omitempty"`
}

type authResponse struct {
	User  models.User `json:"user"`
	Token string      `json:"token"`
}

func (p *httpProvider) CurrentUser() *models.User {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.user == nil {
		return nil
	}
	u := *p.user
	return &u
}

func (p *httpProvider) Token() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.token
}

func (p *httpProvider) OnAuthStateChanged(cb func(*models.User)) func() {
	p.mu.Lock()
	id := p.nextSubID
	p.nextSubID++
	p.listeners[id] = cb
	p.mu.Unlock()

	return func() {
		p.mu.Lock()
		defer p.mu.Unlock()
		delete(p.listeners, id)
	}
}

func (p *httpProvider) SignUp(ctx context.Context, email, password, displayName string) (models.User, error) {
	var result authResponse
	resp, err := p.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(authRequest{Email: email, Password: password, DisplayName: displayName}).
		SetResult(&result).
		Post("/api/auth/register")
	if err != nil {
		return models.User{}, fmt.Errorf("sign up request: %w", err)
	}
	if resp.StatusCode() == http.StatusConflict {
		return models.User{}, ErrEmailTaken
	}
	if !resp.IsSuccess() {
		return models.User{}, fmt.Errorf("sign up failed with status %d", resp.StatusCode())
	}

	p.setSession(result.User, result.Token)
	return result.User, nil
}

func (p *httpProvider) SignIn(ctx context.Context, email, password string) (models.User, error) {
	var result authResponse
	resp, err := p.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(authRequest{Email: email, Password: password}).
		SetResult(&result).
		Post("/api/auth/login")
	if err != nil {
		return models.User{}, fmt.Errorf("sign in request: %w", err)
	}
	if resp.StatusCode() == http.StatusUnauthorized {
		return models.User{}, ErrInvalidCredentials
	}
	if !resp.IsSuccess() {
		return models.User{}, fmt.Errorf("sign in failed with status %d", resp.StatusCode())
	}

	p.setSession(result.User, result.Token)
	return result.User, nil
}

// SignOut drops the in-memory session and notifies auth-state listeners.
// The server keeps no session state, so no request is made.
func (p *httpProvider) SignOut(context.Context) error {
	p.mu.Lock()
	p.user = nil
	p.token = ""
	listeners := p.snapshotListenersLocked()
	p.mu.Unlock()

	for _, cb := range listeners {
		cb(nil)
	}
	return nil
}

func (p *httpProvider) ResetPassword(ctx context.Context, email string) error {
	resp, err := p.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(map[string]string{"email": email}).
		Post("/api/auth/reset")
	if err != nil {
		return fmt.Errorf("reset password request: %w", err)
	}
	if !resp.IsSuccess() {
		return fmt.Errorf("reset password failed with status %d", resp.StatusCode())
	}
	return nil
}

func (p *httpProvider) setSession(user models.User, token string) {
	p.mu.Lock()
	u := user
	p.user = &u
	p.token = token
	listeners := p.snapshotListenersLocked()
	p.mu.Unlock()

	for _, cb := range listeners {
		copied := user
		cb(&copied)
	}
}

func (p *httpProvider) snapshotListenersLocked() []func(*models.User) {
	out := make([]func(*models.User), 0, len(p.listeners))
	for _, cb := range p.listeners {
		out = append(out, cb)
	}
	return out
}
