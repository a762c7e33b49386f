// Package api holds the typed clients for the platform backend services.
// Each client wraps the shared request pipeline, so the refresh policy is
// enforced uniformly across services.
package api

import (
	"github.com/kickoffhq/kickoff-client/internal/config"
	"github.com/kickoffhq/kickoff-client/internal/httpclient"
)

// APIs holds all backend service clients
type APIs struct {
	Auth          *AuthAPI
	Users         *UserAPI
	Recruit       *RecruitAPI
	Notifications *NotificationAPI
	Teams         *TeamAPI
}

// NewAPIs creates all service clients on one pipeline
func NewAPIs(client *httpclient.Client, services config.ServicesConfig) *APIs {
	return &APIs{
		Auth:          NewAuthAPI(client, services.AuthURL),
		Users:         NewUserAPI(client, services.UserURL),
		Recruit:       NewRecruitAPI(client, services.RecruitURL),
		Notifications: NewNotificationAPI(client, services.NotificationURL),
		Teams:         NewTeamAPI(client, services.TeamURL),
	}
}
