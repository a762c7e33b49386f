package api

import (
	"context"
	"fmt"

	"github.com/kickoffhq/kickoff-client/internal/domain"
	"github.com/kickoffhq/kickoff-client/internal/dto"
	"github.com/kickoffhq/kickoff-client/internal/httpclient"
)

// NotificationAPI talks to the notification service.
type NotificationAPI struct {
	client  *httpclient.Client
	baseURL string
}

// NewNotificationAPI creates a notification service client
func NewNotificationAPI(client *httpclient.Client, baseURL string) *NotificationAPI {
	return &NotificationAPI{client: client, baseURL: baseURL}
}

// List fetches a profile's notifications. A 404 is an empty inbox.
func (a *NotificationAPI) List(ctx context.Context, receiverProfileID int64) ([]domain.Notification, error) {
	var notifications []domain.Notification
	url := fmt.Sprintf("%s/api/notifications?receiverProfileId=%d", a.baseURL, receiverProfileID)
	if err := a.client.Get(ctx, url, &notifications); err != nil {
		if httpclient.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	return notifications, nil
}

// MarkRead marks one notification as read.
func (a *NotificationAPI) MarkRead(ctx context.Context, notificationID int64) error {
	url := fmt.Sprintf("%s/api/notifications/%d/read", a.baseURL, notificationID)
	if err := a.client.Post(ctx, url, nil, nil); err != nil {
		return fmt.Errorf("failed to mark notification read: %w", err)
	}
	return nil
}

// Delete removes a notification.
func (a *NotificationAPI) Delete(ctx context.Context, notificationID int64) error {
	url := fmt.Sprintf("%s/api/notifications/%d", a.baseURL, notificationID)
	if err := a.client.Delete(ctx, url); err != nil {
		return fmt.Errorf("failed to delete notification: %w", err)
	}
	return nil
}

// Create delivers a notification to another profile's inbox.
func (a *NotificationAPI) Create(ctx context.Context, req dto.CreateNotificationRequest) (domain.Notification, error) {
	var notification domain.Notification
	if err := a.client.Post(ctx, a.baseURL+"/api/notifications", req, &notification); err != nil {
		return domain.Notification{}, fmt.Errorf("failed to create notification: %w", err)
	}
	return notification, nil
}
