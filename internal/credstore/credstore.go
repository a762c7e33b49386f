// Package credstore owns the durable credential record: access token, refresh
// token, user snapshot and the keep-logged-in flag. All durable access is
// mediated here so the rest of the client never touches storage directly.
package credstore

import (
	"github.com/kickoffhq/kickoff-client/internal/domain"
)

// Durable storage keys, shared by every backend.
const (
	keyToken        = "token"
	keyRefreshToken = "refreshToken"
	keyUser         = "user"
	keyKeepLoggedIn = "keepLoggedIn"
)

// Store is the persisted credential store. Operations are synchronous and
// durable: a successful write is visible to every subsequent read, including
// across a process restart.
type Store interface {
	// Get reconstructs the current credential record. Absent fields come
	// back as zero values, never as an error.
	Get() (domain.Credentials, error)

	// SetTokens writes the fields that are present; an empty refresh token
	// leaves the stored one untouched rather than clearing it.
	SetTokens(accessToken, refreshToken string) error

	// SetKeepLoggedIn persists the keep-logged-in flag.
	SetKeepLoggedIn(on bool) error

	// User returns the persisted session user snapshot, or nil when absent
	// or unusable.
	User() (*domain.SessionUser, error)

	// SetUser replaces the persisted snapshot; nil removes it.
	SetUser(user *domain.SessionUser) error

	// Clear removes the access token, refresh token and user snapshot.
	// The keep-logged-in flag survives a clear.
	Clear() error
}
