package store

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/kickoffhq/kickoff-client/internal/api"
	"github.com/kickoffhq/kickoff-client/internal/domain"
)

// NotificationStore caches a profile's inbox and maintains the unread
// counter. Invariant: UnreadCount always equals the number of cached entries
// with IsRead false, across every mutation path.
type NotificationStore struct {
	api    *api.NotificationAPI
	logger *zap.Logger

	mu            sync.RWMutex
	notifications []domain.Notification
	unread        int
}

// NewNotificationStore creates an empty notification store.
func NewNotificationStore(notificationAPI *api.NotificationAPI, logger *zap.Logger) *NotificationStore {
	return &NotificationStore{api: notificationAPI, logger: logger}
}

// Load replaces the cached inbox with the server's view. A fetch failure
// resets the inbox to empty; the failure is logged, not surfaced.
func (s *NotificationStore) Load(ctx context.Context, profileID int64) {
	notifications, err := s.api.List(ctx, profileID)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.logger.Warn("failed to load notifications", zap.Int64("profile_id", profileID), zap.Error(err))
		s.notifications = nil
		s.unread = 0
		return
	}

	s.notifications = notifications
	s.unread = countUnread(notifications)
}

// MarkAsRead marks one notification read, backend first.
func (s *NotificationStore) MarkAsRead(ctx context.Context, notificationID int64) error {
	if err := s.api.MarkRead(ctx, notificationID); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.notifications {
		if s.notifications[i].ID == notificationID {
			if !s.notifications[i].IsRead {
				s.notifications[i].IsRead = true
				s.unread--
			}
			break
		}
	}
	return nil
}

// MarkAllAsRead marks every unread notification read with one backend call
// per item; the service has no bulk endpoint. The first failure aborts the
// whole operation and is returned: partial success counts as failure, but
// items already confirmed by the server stay read locally, so the cache
// never contradicts server state.
func (s *NotificationStore) MarkAllAsRead(ctx context.Context) error {
	s.mu.RLock()
	var pending []int64
	for _, n := range s.notifications {
		if !n.IsRead {
			pending = append(pending, n.ID)
		}
	}
	s.mu.RUnlock()

	for _, id := range pending {
		if err := s.MarkAsRead(ctx, id); err != nil {
			return err
		}
	}
	return nil
}

// Delete removes a notification, backend first. Deleting an unread entry
// also drops it from the unread counter.
func (s *NotificationStore) Delete(ctx context.Context, notificationID int64) error {
	if err := s.api.Delete(ctx, notificationID); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	filtered := s.notifications[:0:0]
	for _, n := range s.notifications {
		if n.ID == notificationID {
			if !n.IsRead {
				s.unread--
			}
			continue
		}
		filtered = append(filtered, n)
	}
	s.notifications = filtered
	return nil
}

// Add inserts a pushed notification at the head of the inbox. Entries
// already cached are ignored, which makes poll-driven delivery idempotent.
func (s *NotificationStore) Add(notification domain.Notification) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, n := range s.notifications {
		if n.ID == notification.ID {
			return
		}
	}
	s.notifications = append([]domain.Notification{notification}, s.notifications...)
	if !notification.IsRead {
		s.unread++
	}
}

// Notifications returns a copy of the cached inbox.
func (s *NotificationStore) Notifications() []domain.Notification {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Notification, len(s.notifications))
	copy(out, s.notifications)
	return out
}

// UnreadCount returns the maintained unread counter.
func (s *NotificationStore) UnreadCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.unread
}

func countUnread(notifications []domain.Notification) int {
	count := 0
	for _, n := range notifications {
		if !n.IsRead {
			count++
		}
	}
	return count
}
