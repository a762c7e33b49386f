package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kickoffhq/kickoff-client/internal/dto"
	"github.com/kickoffhq/kickoff-client/internal/session"
)

// SessionHandler exposes the local session over the watch server: the OAuth
// redirect target plus a read-only status view.
type SessionHandler struct {
	session *session.Manager
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(manager *session.Manager) *SessionHandler {
	return &SessionHandler{
		session: manager,
	}
}

// Callback handles the OAuth redirect. The identity provider sends the
// browser here with tokens in the query string; an empty access token is a
// failed login, not an anonymous one.
func (h *SessionHandler) Callback(c *gin.Context) {
	accessToken := c.Query("token")
	refreshToken := c.Query("refreshToken")

	user, err := h.session.LoginWithTokens(c.Request.Context(), accessToken, refreshToken)
	if err != nil {
		status := http.StatusBadRequest
		c.JSON(status, dto.ErrorResponse{
			Error:   "Login failed",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, user)
}

// Status reports whether a session is active and who it belongs to.
func (h *SessionHandler) Status(c *gin.Context) {
	user := h.session.User()
	if user == nil {
		c.JSON(http.StatusOK, gin.H{
			"loggedIn": false,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"loggedIn": true,
		"user":     user,
	})
}
