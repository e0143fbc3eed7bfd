// Package session holds the signed-in user's identity and bearer token.
//
// A Store persists the single session record; a Manager owns the in-memory
// copy and is handed explicitly to everything that needs the token. The
// Manager writes storage before memory on sign-in and clears storage before
// memory on sign-out.
package session

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrNoSession      = errors.New("not signed in")
	ErrSessionExpired = errors.New("session expired")
	ErrInvalidSession = errors.New("invalid session")
)

// Session is the authenticated user record returned by login.
type Session struct {
	UserID      string `json:"user_id"`
	Email       string `json:"email"`
	AccessToken string `json:"access_token"`
}

// Validate reports whether s can be used for authenticated requests.
func (s Session) Validate() error {
	if s.AccessToken == "" {
		return ErrInvalidSession
	}
	return nil
}

// ExpiresAt reads the exp claim when the access token is a JWT. The token is
// not verified; the server remains the authority. ok is false for opaque
// tokens and for JWTs without exp.
func (s Session) ExpiresAt() (t time.Time, ok bool) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(s.AccessToken, claims); err != nil {
		return time.Time{}, false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}

// Expired reports whether the token's exp claim is at or before now.
func (s Session) Expired(now time.Time) bool {
	exp, ok := s.ExpiresAt()
	if !ok {
		return false
	}
	return !now.Before(exp)
}
