// Package httpclient is the single request pipeline for all platform calls.
// It attaches the stored bearer token on the way out and, on a 401, performs
// one coordinated refresh-and-retry before giving up.
package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/kickoffhq/kickoff-client/internal/domain"
	"github.com/kickoffhq/kickoff-client/internal/dto"
)

// CredentialSource is the slice of the credential store the pipeline needs:
// reading the current tokens, persisting refreshed ones, and clearing them
// when a refresh proves the session dead.
type CredentialSource interface {
	Get() (domain.Credentials, error)
	SetTokens(accessToken, refreshToken string) error
	Clear() error
}

// refreshCall is one in-flight refresh shared by every caller that hits a
// 401 while it runs.
type refreshCall struct {
	done  chan struct{}
	token string
}

// Client funnels every outbound REST call through one refresh policy.
type Client struct {
	http       *http.Client
	creds      CredentialSource
	refreshURL string
	limiter    *rate.Limiter
	logger     *zap.Logger
	metrics    *Metrics

	refreshMu sync.Mutex
	refresh   *refreshCall
}

// NewClient creates the request pipeline. limiter and metrics may be nil.
func NewClient(
	creds CredentialSource,
	refreshURL string,
	timeout time.Duration,
	limiter *rate.Limiter,
	logger *zap.Logger,
	metrics *Metrics,
) *Client {
	return &Client{
		http:       &http.Client{Timeout: timeout},
		creds:      creds,
		refreshURL: refreshURL,
		limiter:    limiter,
		logger:     logger,
		metrics:    metrics,
	}
}

// Get issues a GET request and decodes the JSON response into out.
func (c *Client) Get(ctx context.Context, url string, out any) error {
	return c.Do(ctx, http.MethodGet, url, nil, out)
}

// Post issues a POST request with a JSON body.
func (c *Client) Post(ctx context.Context, url string, body, out any) error {
	return c.Do(ctx, http.MethodPost, url, body, out)
}

// Patch issues a PATCH request with a JSON body.
func (c *Client) Patch(ctx context.Context, url string, body, out any) error {
	return c.Do(ctx, http.MethodPatch, url, body, out)
}

// Delete issues a DELETE request.
func (c *Client) Delete(ctx context.Context, url string) error {
	return c.Do(ctx, http.MethodDelete, url, nil, nil)
}

// Do dispatches one request through the pipeline. On a 401 it refreshes the
// access token (sharing any refresh already in flight) and redispatches the
// request exactly once with the new token; every other failure propagates
// unchanged.
func (c *Client) Do(ctx context.Context, method, url string, body, out any) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("request throttled: %w", err)
		}
	}

	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
	}

	creds, err := c.creds.Get()
	if err != nil {
		return fmt.Errorf("failed to read credentials: %w", err)
	}

	status, respBody, err := c.roundTrip(ctx, method, url, payload, creds.AccessToken)
	if err != nil {
		return err
	}

	if status == http.StatusUnauthorized {
		newToken := c.RefreshToken(ctx)
		if newToken == "" {
			// No recovery available; the original 401 propagates.
			return apiError(status, respBody)
		}

		c.metrics.recordRetry(ctx)
		status, respBody, err = c.roundTrip(ctx, method, url, payload, newToken)
		if err != nil {
			return err
		}
		// A second 401 falls through to the generic handling below.
	}

	if status < 200 || status > 299 {
		return apiError(status, respBody)
	}

	if out != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}

// roundTrip builds and sends one HTTP request. Requests are rebuilt from the
// marshaled payload on every call so a refresh retry never reuses a consumed
// body.
func (c *Client) roundTrip(ctx context.Context, method, url string, payload []byte, token string) (int, []byte, error) {
	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to build request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	req.Header.Set("X-Request-ID", uuid.New().String())

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to read response: %w", err)
	}

	c.metrics.recordRequest(ctx, method, resp.StatusCode)
	return resp.StatusCode, respBody, nil
}

// RefreshToken exchanges the stored refresh token for a new access token and
// returns it, or "" when no new token could be obtained. Concurrent callers
// share a single in-flight exchange; the session manager also calls this
// directly during restoration.
func (c *Client) RefreshToken(ctx context.Context) string {
	c.refreshMu.Lock()
	if c.refresh != nil {
		call := c.refresh
		c.refreshMu.Unlock()
		select {
		case <-call.done:
			return call.token
		case <-ctx.Done():
			return ""
		}
	}

	call := &refreshCall{done: make(chan struct{})}
	c.refresh = call
	c.refreshMu.Unlock()

	call.token = c.doRefresh()
	close(call.done)

	c.refreshMu.Lock()
	c.refresh = nil
	c.refreshMu.Unlock()

	return call.token
}

// doRefresh performs the actual exchange. No refresh token means no network
// call at all. Any failure clears both tokens: a dead refresh token is a
// dead session.
func (c *Client) doRefresh() string {
	creds, err := c.creds.Get()
	if err != nil || !creds.HasRefreshToken() {
		return ""
	}

	// The exchange runs on its own context so cancelling one of the callers
	// that piled onto this refresh does not abort it for the rest.
	ctx, cancel := context.WithTimeout(context.Background(), c.http.Timeout)
	defer cancel()

	payload, err := json.Marshal(dto.RefreshRequest{RefreshToken: creds.RefreshToken})
	if err != nil {
		return ""
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.refreshURL, bytes.NewReader(payload))
	if err != nil {
		return ""
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		c.failRefresh(ctx, err)
		return ""
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil || resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.failRefresh(ctx, apiError(resp.StatusCode, respBody))
		return ""
	}

	var tokens dto.TokenResponse
	if err := json.Unmarshal(respBody, &tokens); err != nil || tokens.AccessToken == "" {
		c.failRefresh(ctx, fmt.Errorf("refresh response carried no access token"))
		return ""
	}

	if err := c.creds.SetTokens(tokens.AccessToken, tokens.RefreshToken); err != nil {
		c.logger.Warn("failed to persist refreshed tokens", zap.Error(err))
	}
	c.metrics.recordRefresh(ctx, true)
	return tokens.AccessToken
}

func (c *Client) failRefresh(ctx context.Context, cause error) {
	c.logger.Info("token refresh failed, clearing credentials", zap.Error(cause))
	if err := c.creds.Clear(); err != nil {
		c.logger.Warn("failed to clear credentials", zap.Error(err))
	}
	c.metrics.recordRefresh(ctx, false)
}

func apiError(status int, body []byte) error {
	var errResp dto.ErrorResponse
	if err := json.Unmarshal(body, &errResp); err == nil && errResp.Message != "" {
		return &APIError{StatusCode: status, Message: errResp.Message}
	}
	return &APIError{StatusCode: status}
}
