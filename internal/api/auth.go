package api

import (
	"context"
	"fmt"

	"github.com/kickoffhq/kickoff-client/internal/dto"
	"github.com/kickoffhq/kickoff-client/internal/httpclient"
)

// AuthAPI talks to the auth service.
type AuthAPI struct {
	client  *httpclient.Client
	baseURL string
}

// NewAuthAPI creates an auth service client
func NewAuthAPI(client *httpclient.Client, baseURL string) *AuthAPI {
	return &AuthAPI{client: client, baseURL: baseURL}
}

// Login exchanges credentials for a token pair.
func (a *AuthAPI) Login(ctx context.Context, loginID, password string) (dto.TokenResponse, error) {
	var tokens dto.TokenResponse
	req := dto.LoginRequest{LoginID: loginID, Password: password}
	if err := a.client.Post(ctx, a.baseURL+"/api/auth/login", req, &tokens); err != nil {
		return dto.TokenResponse{}, fmt.Errorf("login failed: %w", err)
	}
	if tokens.AccessToken == "" {
		return dto.TokenResponse{}, fmt.Errorf("login response carried no access token")
	}
	return tokens, nil
}

// CreateAccount registers a new authentication account.
func (a *AuthAPI) CreateAccount(ctx context.Context, req dto.CreateAccountRequest) (int64, error) {
	var resp dto.CreateAccountResponse
	if err := a.client.Post(ctx, a.baseURL+"/api/auth/accounts", req, &resp); err != nil {
		return 0, fmt.Errorf("failed to create account: %w", err)
	}
	return resp.ID, nil
}
