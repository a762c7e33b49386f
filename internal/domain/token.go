package domain

import "time"

// Credentials is the durable credential record owned by the credential store.
// Absent tokens are represented by empty strings; no component other than the
// store writes durable storage directly.
type Credentials struct {
	AccessToken  string `json:"accessToken,omitempty"`
	RefreshToken string `json:"refreshToken,omitempty"`
	KeepLoggedIn bool   `json:"keepLoggedIn"`
}

// HasAccessToken reports whether an access token is held.
func (c Credentials) HasAccessToken() bool {
	return c.AccessToken != ""
}

// HasRefreshToken reports whether a refresh token is held.
func (c Credentials) HasRefreshToken() bool {
	return c.RefreshToken != ""
}

// TokenClaims represents the claims carried by a platform access token.
// Every claim is optional; a structurally invalid token decodes to the
// zero value.
type TokenClaims struct {
	AccountID int64  `json:"accountId"`
	Email     string `json:"email"`
	UserID    string `json:"userid"`
	Role      string `json:"role"`
	Exp       int64  `json:"exp"`
	Iat       int64  `json:"iat"`
}

// IsExpired checks if the token is expired
func (tc TokenClaims) IsExpired() bool {
	return tc.Exp != 0 && time.Now().Unix() > tc.Exp
}
