package api

import (
	"context"
	"fmt"

	"github.com/kickoffhq/kickoff-client/internal/domain"
	"github.com/kickoffhq/kickoff-client/internal/dto"
	"github.com/kickoffhq/kickoff-client/internal/httpclient"
)

// UserAPI talks to the user/profile service.
type UserAPI struct {
	client  *httpclient.Client
	baseURL string
}

// NewUserAPI creates a user service client
func NewUserAPI(client *httpclient.Client, baseURL string) *UserAPI {
	return &UserAPI{client: client, baseURL: baseURL}
}

// CreateProfile creates a domain profile for an account.
func (a *UserAPI) CreateProfile(ctx context.Context, req dto.CreateProfileRequest) (domain.Profile, error) {
	var profile domain.Profile
	if err := a.client.Post(ctx, a.baseURL+"/api/users/profiles", req, &profile); err != nil {
		return domain.Profile{}, fmt.Errorf("failed to create profile: %w", err)
	}
	return profile, nil
}

// ProfileByAccount looks up the profile attached to an account. A missing
// profile is not an error: the account simply has none yet.
func (a *UserAPI) ProfileByAccount(ctx context.Context, accountID int64) (*domain.Profile, error) {
	var profile domain.Profile
	url := fmt.Sprintf("%s/api/users/profiles/by-account/%d", a.baseURL, accountID)
	if err := a.client.Get(ctx, url, &profile); err != nil {
		if httpclient.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	if profile.ID == 0 {
		return nil, nil
	}
	return &profile, nil
}
