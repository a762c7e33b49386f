package store

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/kickoffhq/kickoff-client/internal/api"
	"github.com/kickoffhq/kickoff-client/internal/domain"
	"github.com/kickoffhq/kickoff-client/internal/httpclient"
)

// staticCreds satisfies the pipeline's credential source with a fixed token
// and no persistence. Store tests never exercise the refresh path.
type staticCreds struct {
	mu    sync.Mutex
	creds domain.Credentials
}

func (c *staticCreds) Get() (domain.Credentials, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.creds, nil
}

func (c *staticCreds) SetTokens(accessToken, refreshToken string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.creds.AccessToken = accessToken
	if refreshToken != "" {
		c.creds.RefreshToken = refreshToken
	}
	return nil
}

func (c *staticCreds) Clear() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.creds = domain.Credentials{KeepLoggedIn: c.creds.KeepLoggedIn}
	return nil
}

func newTestAPIs(baseURL string) (*api.RecruitAPI, *api.UserAPI, *api.NotificationAPI) {
	creds := &staticCreds{creds: domain.Credentials{AccessToken: "test-token"}}
	client := httpclient.NewClient(creds, baseURL+"/api/auth/token/refresh", 5*time.Second, nil, zap.NewNop(), nil)
	return api.NewRecruitAPI(client, baseURL),
		api.NewUserAPI(client, baseURL),
		api.NewNotificationAPI(client, baseURL)
}
