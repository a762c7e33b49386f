package session

import (
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/kickoffhq/kickoff-client/internal/domain"
)

// DecodeClaims extracts the platform claims from an access token without
// verifying its signature; the backend is the verifier, the client only
// mines the payload for identity hints. Decoding is tolerant: a token with
// the wrong segment count, broken base64 or broken JSON yields empty claims
// rather than an error.
func DecodeClaims(token string) domain.TokenClaims {
	parsed, _, err := jwt.NewParser().ParseUnverified(token, jwt.MapClaims{})
	if err != nil {
		return domain.TokenClaims{}
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return domain.TokenClaims{}
	}

	var out domain.TokenClaims
	if v, ok := claims["accountId"].(float64); ok {
		out.AccountID = int64(v)
	}
	if v, ok := claims["email"].(string); ok {
		out.Email = v
	}
	if v, ok := claims["userid"].(string); ok {
		out.UserID = v
	}
	if v, ok := claims["role"].(string); ok {
		out.Role = v
	}
	if v, ok := claims["exp"].(float64); ok {
		out.Exp = int64(v)
	}
	if v, ok := claims["iat"].(float64); ok {
		out.Iat = int64(v)
	}
	return out
}

// UserFromClaims reconstructs a minimal provisional session user from token
// claims. Claim-derived identity is lossy; a later profile fetch is the
// source of truth.
func UserFromClaims(claims domain.TokenClaims) *domain.SessionUser {
	name := "user"
	if i := strings.Index(claims.Email, "@"); i > 0 {
		name = claims.Email[:i]
	}

	userID := claims.UserID
	if userID == "" {
		userID = claims.Email
	}

	role := claims.Role
	if role == "" {
		role = "USER"
	}

	return &domain.SessionUser{
		ID:     claims.AccountID,
		Name:   name,
		UserID: userID,
		Email:  claims.Email,
		Role:   role,
	}
}
