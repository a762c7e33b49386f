// Package session owns the logical session: the current user, login and
// logout, and best-effort restoration at application start.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/kickoffhq/kickoff-client/internal/api"
	"github.com/kickoffhq/kickoff-client/internal/credstore"
	"github.com/kickoffhq/kickoff-client/internal/domain"
	"github.com/kickoffhq/kickoff-client/internal/httpclient"
)

// ErrMissingToken is returned when an OAuth callback arrives without an
// access token, which is a failed authentication.
var ErrMissingToken = errors.New("no access token delivered")

// Manager is the session state machine: logged out (no user, no token) or
// logged in (user and token present). The user is only ever replaced
// wholesale by Login, Logout and Restore.
type Manager struct {
	creds  credstore.Store
	client *httpclient.Client
	auth   *api.AuthAPI
	users  *api.UserAPI
	logger *zap.Logger

	mu   sync.RWMutex
	user *domain.SessionUser
}

// NewManager creates a session manager. A session persisted by a previous
// process is adopted immediately, without network traffic.
func NewManager(
	creds credstore.Store,
	client *httpclient.Client,
	auth *api.AuthAPI,
	users *api.UserAPI,
	logger *zap.Logger,
) *Manager {
	m := &Manager{
		creds:  creds,
		client: client,
		auth:   auth,
		users:  users,
		logger: logger,
	}
	m.seed()
	return m
}

// seed adopts a stored token plus user snapshot as a live session.
func (m *Manager) seed() {
	creds, err := m.creds.Get()
	if err != nil || !creds.HasAccessToken() {
		return
	}
	user, err := m.creds.User()
	if err != nil || user == nil {
		return
	}
	m.user = user
}

// IsLoggedIn reports whether a session user is present.
func (m *Manager) IsLoggedIn() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.user != nil
}

// User returns a copy of the current session user, or nil when logged out.
func (m *Manager) User() *domain.SessionUser {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.user == nil {
		return nil
	}
	u := *m.user
	return &u
}

// ProfileID returns the current user's profile ID, or 0 when none is
// attached yet.
func (m *Manager) ProfileID() int64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.user == nil || m.user.ProfileID == nil {
		return 0
	}
	return *m.user.ProfileID
}

// Login authenticates against the auth service and transitions to logged in.
// The base user is reconstructed from access token claims and then enriched
// by a best-effort profile fetch.
func (m *Manager) Login(ctx context.Context, loginID, password string) (*domain.SessionUser, error) {
	tokens, err := m.auth.Login(ctx, loginID, password)
	if err != nil {
		return nil, err
	}

	user := UserFromClaims(DecodeClaims(tokens.AccessToken))
	if err := m.adopt(tokens.AccessToken, tokens.RefreshToken, user); err != nil {
		return nil, err
	}

	m.attachProfile(ctx)
	return m.User(), nil
}

// LoginWithTokens adopts tokens delivered out of band, typically by an OAuth
// callback. An absent access token is a failed authentication.
func (m *Manager) LoginWithTokens(ctx context.Context, accessToken, refreshToken string) (*domain.SessionUser, error) {
	if accessToken == "" {
		return nil, ErrMissingToken
	}

	user := UserFromClaims(DecodeClaims(accessToken))
	if err := m.adopt(accessToken, refreshToken, user); err != nil {
		return nil, err
	}

	m.attachProfile(ctx)
	return m.User(), nil
}

func (m *Manager) adopt(accessToken, refreshToken string, user *domain.SessionUser) error {
	if err := m.creds.SetTokens(accessToken, refreshToken); err != nil {
		return fmt.Errorf("failed to persist tokens: %w", err)
	}
	if err := m.creds.SetUser(user); err != nil {
		return fmt.Errorf("failed to persist user snapshot: %w", err)
	}

	m.mu.Lock()
	m.user = user
	m.mu.Unlock()
	return nil
}

// Logout clears the credential record and the in-memory user. The
// keep-logged-in flag survives.
func (m *Manager) Logout() {
	if err := m.creds.Clear(); err != nil {
		m.logger.Warn("failed to clear credentials on logout", zap.Error(err))
	}

	m.mu.Lock()
	m.user = nil
	m.mu.Unlock()
}

// SetKeepLoggedIn persists the keep-logged-in preference.
func (m *Manager) SetKeepLoggedIn(on bool) error {
	return m.creds.SetKeepLoggedIn(on)
}

// Restore recovers a session at application start. It is a no-op when an
// access token is already stored, when keep-logged-in is off, or when no
// refresh token is held; in each of those cases no network call is made.
// Failures are silent: this is background recovery, not a user action.
func (m *Manager) Restore(ctx context.Context) {
	creds, err := m.creds.Get()
	if err != nil {
		m.logger.Warn("failed to read credentials during restore", zap.Error(err))
		return
	}

	if creds.HasAccessToken() {
		// Restorable without the network; adopt whatever snapshot exists.
		m.mu.Lock()
		if m.user == nil {
			if user, err := m.creds.User(); err == nil && user != nil {
				m.user = user
			}
		}
		m.mu.Unlock()
		return
	}
	if !creds.KeepLoggedIn || !creds.HasRefreshToken() {
		return
	}

	accessToken := m.client.RefreshToken(ctx)
	if accessToken == "" {
		return
	}

	user := UserFromClaims(DecodeClaims(accessToken))
	if err := m.creds.SetUser(user); err != nil {
		m.logger.Warn("failed to persist restored user snapshot", zap.Error(err))
	}

	m.mu.Lock()
	m.user = user
	m.mu.Unlock()

	m.attachProfile(ctx)
	m.logger.Info("session restored", zap.Int64("account_id", user.ID))
}

// attachProfile enriches the claim-derived user with its profile. Best
// effort: a missing profile or a failed fetch leaves the provisional user in
// place.
func (m *Manager) attachProfile(ctx context.Context) {
	current := m.User()
	if current == nil || current.ID == 0 {
		return
	}

	profile, err := m.users.ProfileByAccount(ctx, current.ID)
	if err != nil {
		m.logger.Debug("profile fetch failed", zap.Error(err))
		return
	}
	if profile == nil {
		return
	}

	next := current.WithProfile(*profile)
	if err := m.creds.SetUser(&next); err != nil {
		m.logger.Warn("failed to persist enriched user snapshot", zap.Error(err))
	}

	m.mu.Lock()
	m.user = &next
	m.mu.Unlock()
}
