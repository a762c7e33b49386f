package acceptance

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
)

func (s *Suite) TestInbox_UnreadCountAndReadAll() {
	_, profileID := s.Platform.SeedAccount("son@example.com", "Password123", "sonny", "Son Heungmin")
	s.Platform.AddNotification(profileID, "first", false)
	s.Platform.AddNotification(profileID, "second", true)
	s.Platform.AddNotification(profileID, "third", false)

	s.login("sonny")
	s.App.Notifications().Load(s.ctx, profileID)

	s.Len(s.App.Notifications().Notifications(), 3)
	s.Equal(2, s.App.Notifications().UnreadCount())

	s.Require().NoError(s.App.Notifications().MarkAllAsRead(s.ctx))
	s.Equal(0, s.App.Notifications().UnreadCount())

	for _, n := range s.Platform.NotificationsFor(profileID) {
		s.True(n.IsRead)
	}
}

func (s *Suite) TestInbox_DeleteKeepsCounterConsistent() {
	_, profileID := s.Platform.SeedAccount("son@example.com", "Password123", "sonny", "Son Heungmin")
	unread := s.Platform.AddNotification(profileID, "unread", false)
	read := s.Platform.AddNotification(profileID, "read", true)

	s.login("sonny")
	s.App.Notifications().Load(s.ctx, profileID)
	s.Require().Equal(1, s.App.Notifications().UnreadCount())

	s.Require().NoError(s.App.Notifications().Delete(s.ctx, read.ID))
	s.Equal(1, s.App.Notifications().UnreadCount())

	s.Require().NoError(s.App.Notifications().Delete(s.ctx, unread.ID))
	s.Equal(0, s.App.Notifications().UnreadCount())
	s.Empty(s.App.Notifications().Notifications())
}

func (s *Suite) TestWatchServer_ServesInbox() {
	_, profileID := s.Platform.SeedAccount("son@example.com", "Password123", "sonny", "Son Heungmin")
	s.Platform.AddNotification(profileID, "hello", false)

	s.login("sonny")
	s.App.Notifications().Load(s.ctx, profileID)

	req := httptest.NewRequest(http.MethodGet, "/api/notifications", nil)
	rec := httptest.NewRecorder()
	s.App.Router().ServeHTTP(rec, req)

	s.Require().Equal(http.StatusOK, rec.Code)

	var body struct {
		Notifications []struct {
			Message string `json:"message"`
		} `json:"notifications"`
		UnreadCount int `json:"unreadCount"`
	}
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &body))
	s.Require().Len(body.Notifications, 1)
	s.Equal("hello", body.Notifications[0].Message)
	s.Equal(1, body.UnreadCount)
}

func (s *Suite) TestWatchServer_UnreadCountBadge() {
	_, profileID := s.Platform.SeedAccount("son@example.com", "Password123", "sonny", "Son Heungmin")
	s.Platform.AddNotification(profileID, "hello", false)
	s.Platform.AddNotification(profileID, "again", false)

	s.login("sonny")
	s.App.Notifications().Load(s.ctx, profileID)

	req := httptest.NewRequest(http.MethodGet, "/api/notifications/unread-count", nil)
	rec := httptest.NewRecorder()
	s.App.Router().ServeHTTP(rec, req)

	s.Require().Equal(http.StatusOK, rec.Code)
	s.JSONEq(`{"unreadCount": 2}`, rec.Body.String())
}
