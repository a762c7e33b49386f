package session

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/kickoffhq/kickoff-client/internal/api"
	"github.com/kickoffhq/kickoff-client/internal/config"
	"github.com/kickoffhq/kickoff-client/internal/credstore"
	"github.com/kickoffhq/kickoff-client/internal/domain"
	"github.com/kickoffhq/kickoff-client/internal/dto"
	"github.com/kickoffhq/kickoff-client/internal/httpclient"
)

// backend is a minimal auth+user service stub that counts every request.
type backend struct {
	srv      *httptest.Server
	requests int32

	accessToken  string
	refreshToken string
	refreshFails bool
	profile      *domain.Profile
}

func newBackend(t *testing.T) *backend {
	t.Helper()
	b := &backend{}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&b.requests, 1)
		json.NewEncoder(w).Encode(dto.TokenResponse{AccessToken: b.accessToken, RefreshToken: b.refreshToken})
	})
	mux.HandleFunc("/api/auth/token/refresh", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&b.requests, 1)
		if b.refreshFails {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		json.NewEncoder(w).Encode(dto.TokenResponse{AccessToken: b.accessToken})
	})
	mux.HandleFunc("/api/users/profiles/by-account/", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&b.requests, 1)
		if b.profile == nil {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		json.NewEncoder(w).Encode(b.profile)
	})

	b.srv = httptest.NewServer(mux)
	t.Cleanup(b.srv.Close)
	return b
}

func (b *backend) requestCount() int32 {
	return atomic.LoadInt32(&b.requests)
}

func newManager(t *testing.T, b *backend) (*Manager, credstore.Store) {
	t.Helper()

	store, err := credstore.NewFileStore(filepath.Join(t.TempDir(), "credentials.json"), "")
	require.NoError(t, err)

	client := httpclient.NewClient(store, b.srv.URL+"/api/auth/token/refresh",
		5*time.Second, nil, zap.NewNop(), nil)
	apis := api.NewAPIs(client, config.ServicesConfig{
		AuthURL:         b.srv.URL,
		UserURL:         b.srv.URL,
		RecruitURL:      b.srv.URL,
		TeamURL:         b.srv.URL,
		NotificationURL: b.srv.URL,
	})

	return NewManager(store, client, apis.Auth, apis.Users, zap.NewNop()), store
}

func testToken(t *testing.T, accountID int64, email, role string) string {
	t.Helper()
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"accountId": accountID,
		"email":     email,
		"role":      role,
		"iat":       now.Unix(),
		"exp":       now.Add(15 * time.Minute).Unix(),
	})
	signed, err := token.SignedString([]byte("test-secret-key-that-is-at-least-32-characters-long"))
	require.NoError(t, err)
	return signed
}

func TestLoginBuildsUserFromClaims(t *testing.T) {
	b := newBackend(t)
	b.accessToken = testToken(t, 7, "a@b.com", "USER")
	b.refreshToken = "refresh-1"

	m, store := newManager(t, b)

	user, err := m.Login(context.Background(), "a@b.com", "x")
	require.NoError(t, err)
	require.NotNil(t, user)

	assert.Equal(t, int64(7), user.ID)
	assert.Equal(t, "a", user.Name)
	assert.Equal(t, "a@b.com", user.UserID)
	assert.Equal(t, "USER", user.Role)
	assert.True(t, m.IsLoggedIn())

	creds, err := store.Get()
	require.NoError(t, err)
	assert.Equal(t, b.accessToken, creds.AccessToken)
	assert.Equal(t, "refresh-1", creds.RefreshToken)
}

func TestLoginAttachesProfile(t *testing.T) {
	b := newBackend(t)
	b.accessToken = testToken(t, 7, "a@b.com", "USER")
	b.profile = &domain.Profile{ID: 12, AccountID: 7, Name: "Son Heungmin", Region: "Seoul"}

	m, store := newManager(t, b)

	user, err := m.Login(context.Background(), "a@b.com", "x")
	require.NoError(t, err)

	require.NotNil(t, user.ProfileID)
	assert.Equal(t, int64(12), *user.ProfileID)
	assert.Equal(t, "Son Heungmin", user.Name, "profile is the source of truth for the name")
	assert.Equal(t, "Seoul", user.Region)
	assert.Equal(t, int64(12), m.ProfileID())

	// The enriched snapshot is persisted wholesale.
	snapshot, err := store.User()
	require.NoError(t, err)
	require.NotNil(t, snapshot)
	require.NotNil(t, snapshot.ProfileID)
	assert.Equal(t, int64(12), *snapshot.ProfileID)
}

func TestLoginWithTokensRequiresToken(t *testing.T) {
	b := newBackend(t)
	m, _ := newManager(t, b)

	_, err := m.LoginWithTokens(context.Background(), "", "refresh-1")
	assert.ErrorIs(t, err, ErrMissingToken)
	assert.False(t, m.IsLoggedIn())
}

func TestLogoutClearsSession(t *testing.T) {
	b := newBackend(t)
	b.accessToken = testToken(t, 7, "a@b.com", "USER")
	b.refreshToken = "refresh-1"

	m, store := newManager(t, b)
	_, err := m.Login(context.Background(), "a@b.com", "x")
	require.NoError(t, err)
	require.NoError(t, store.SetKeepLoggedIn(true))

	m.Logout()

	assert.False(t, m.IsLoggedIn())
	assert.Nil(t, m.User())

	creds, err := store.Get()
	require.NoError(t, err)
	assert.False(t, creds.HasAccessToken())
	assert.False(t, creds.HasRefreshToken())
	assert.True(t, creds.KeepLoggedIn, "logout keeps the keep-logged-in preference")
}

func TestRestoreNoopWhenTokenStored(t *testing.T) {
	b := newBackend(t)
	m, store := newManager(t, b)

	require.NoError(t, store.SetTokens("stored-access", "stored-refresh"))
	require.NoError(t, store.SetKeepLoggedIn(true))

	m.Restore(context.Background())

	assert.Equal(t, int32(0), b.requestCount(),
		"a stored access token restores without any network call")
}

func TestRestoreNoopWithoutKeepLoggedIn(t *testing.T) {
	b := newBackend(t)
	m, store := newManager(t, b)

	require.NoError(t, store.SetTokens("", "stored-refresh"))

	m.Restore(context.Background())

	assert.Equal(t, int32(0), b.requestCount(),
		"keep-logged-in off means no network call even with a refresh token")
	assert.False(t, m.IsLoggedIn())
}

func TestRestoreNoopWithoutRefreshToken(t *testing.T) {
	b := newBackend(t)
	m, store := newManager(t, b)

	require.NoError(t, store.SetKeepLoggedIn(true))

	m.Restore(context.Background())

	assert.Equal(t, int32(0), b.requestCount())
	assert.False(t, m.IsLoggedIn())
}

func TestRestoreRefreshesAndRebuildsUser(t *testing.T) {
	b := newBackend(t)
	b.accessToken = testToken(t, 7, "a@b.com", "ADMIN")

	m, store := newManager(t, b)
	require.NoError(t, store.SetTokens("", "stored-refresh"))
	require.NoError(t, store.SetKeepLoggedIn(true))

	m.Restore(context.Background())

	require.True(t, m.IsLoggedIn())
	user := m.User()
	require.NotNil(t, user)
	assert.Equal(t, int64(7), user.ID)
	assert.Equal(t, "a", user.Name)
	assert.Equal(t, "ADMIN", user.Role)

	creds, err := store.Get()
	require.NoError(t, err)
	assert.Equal(t, b.accessToken, creds.AccessToken)
}

func TestRestoreFailsSilently(t *testing.T) {
	b := newBackend(t)
	b.refreshFails = true

	m, store := newManager(t, b)
	require.NoError(t, store.SetTokens("", "dead-refresh"))
	require.NoError(t, store.SetKeepLoggedIn(true))

	m.Restore(context.Background())

	assert.False(t, m.IsLoggedIn(), "a failed restore stays logged out silently")

	creds, err := store.Get()
	require.NoError(t, err)
	assert.False(t, creds.HasRefreshToken(), "a failed refresh clears the dead token")
}

func TestNewManagerSeedsFromSnapshot(t *testing.T) {
	b := newBackend(t)

	store, err := credstore.NewFileStore(filepath.Join(t.TempDir(), "credentials.json"), "")
	require.NoError(t, err)
	require.NoError(t, store.SetTokens("stored-access", ""))
	require.NoError(t, store.SetUser(&domain.SessionUser{ID: 7, Name: "a", UserID: "a@b.com"}))

	client := httpclient.NewClient(store, b.srv.URL+"/api/auth/token/refresh",
		5*time.Second, nil, zap.NewNop(), nil)
	apis := api.NewAPIs(client, config.ServicesConfig{AuthURL: b.srv.URL, UserURL: b.srv.URL})

	m := NewManager(store, client, apis.Auth, apis.Users, zap.NewNop())

	assert.True(t, m.IsLoggedIn())
	user := m.User()
	require.NotNil(t, user)
	assert.Equal(t, int64(7), user.ID)
	assert.Equal(t, int32(0), b.requestCount())
}
