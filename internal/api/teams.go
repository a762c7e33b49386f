package api

import (
	"context"
	"fmt"

	"github.com/kickoffhq/kickoff-client/internal/domain"
	"github.com/kickoffhq/kickoff-client/internal/httpclient"
)

// TeamAPI talks to the team service.
type TeamAPI struct {
	client  *httpclient.Client
	baseURL string
}

// NewTeamAPI creates a team service client
func NewTeamAPI(client *httpclient.Client, baseURL string) *TeamAPI {
	return &TeamAPI{client: client, baseURL: baseURL}
}

// MembershipsByProfile lists the teams a profile belongs to.
func (a *TeamAPI) MembershipsByProfile(ctx context.Context, profileID int64) ([]domain.Membership, error) {
	var memberships []domain.Membership
	url := fmt.Sprintf("%s/api/teams/memberships/by-profile/%d", a.baseURL, profileID)
	if err := a.client.Get(ctx, url, &memberships); err != nil {
		if httpclient.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to list memberships: %w", err)
	}
	return memberships, nil
}
