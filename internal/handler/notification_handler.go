package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/kickoffhq/kickoff-client/internal/dto"
	"github.com/kickoffhq/kickoff-client/internal/store"
)

// NotificationHandler exposes the cached inbox over the watch server.
// Reads come from the local store; mark-as-read goes through the store so
// the unread counter stays consistent.
type NotificationHandler struct {
	notifications *store.NotificationStore
}

// NewNotificationHandler creates a new notification handler
func NewNotificationHandler(notifications *store.NotificationStore) *NotificationHandler {
	return &NotificationHandler{
		notifications: notifications,
	}
}

// List returns the cached inbox.
func (h *NotificationHandler) List(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"notifications": h.notifications.Notifications(),
		"unreadCount":   h.notifications.UnreadCount(),
	})
}

// UnreadCount returns only the unread counter, for badge polling.
func (h *NotificationHandler) UnreadCount(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"unreadCount": h.notifications.UnreadCount(),
	})
}

// MarkRead marks one notification as read.
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "Validation failed",
			Message: "notification id must be numeric",
		})
		return
	}

	if err := h.notifications.MarkAsRead(c.Request.Context(), id); err != nil {
		c.JSON(http.StatusBadGateway, dto.ErrorResponse{
			Error:   "Upstream error",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, dto.SuccessResponse{Message: "marked as read"})
}

// MarkAllRead marks every unread notification as read.
func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	if err := h.notifications.MarkAllAsRead(c.Request.Context()); err != nil {
		c.JSON(http.StatusBadGateway, dto.ErrorResponse{
			Error:   "Upstream error",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, dto.SuccessResponse{Message: "all marked as read"})
}
