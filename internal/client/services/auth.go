// Package services contains the application services behind the CLI.
// This file defines the authentication service: login, signup, logout and
// the current identity.
package services

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/skincheck/internal/client/api"
	"github.com/dmitrijs2005/skincheck/internal/client/models"
	"github.com/dmitrijs2005/skincheck/internal/client/session"
)

// Authenticator is the part of the remote client used for auth.
type Authenticator interface {
	Login(ctx context.Context, email, password string) (models.Token, error)
	Signup(ctx context.Context, req api.SignupRequest) (api.SignupResult, error)
}

// Sessions is the part of *session.Manager the services mutate.
type Sessions interface {
	SignIn(ctx context.Context, s session.Session) error
	SignOut(ctx context.Context)
	Current() (session.Session, bool)
}

// AuthService defines authentication operations for the CLI.
//
// Contract:
//   - Login: authenticate remotely, then persist and activate the session.
//   - Signup: create an account; when login is true, sign straight in.
//   - Logout: forget the session locally. There is no server call.
//   - WhoAmI: the active session, if any.
type AuthService interface {
	Login(ctx context.Context, email string, password []byte) (session.Session, error)
	Signup(ctx context.Context, req api.SignupRequest, login bool) (api.SignupResult, error)
	Logout(ctx context.Context)
	WhoAmI() (session.Session, bool)
}

type authService struct {
	client   Authenticator
	sessions Sessions
}

func NewAuthService(client Authenticator, sessions Sessions) AuthService {
	return &authService{client: client, sessions: sessions}
}

// Login returns the session that is now current. If the session cannot be
// saved locally the previous one stays active and the error is returned.
func (a *authService) Login(ctx context.Context, email string, password []byte) (session.Session, error) {
	tok, err := a.client.Login(ctx, email, string(password))
	if err != nil {
		return session.Session{}, err
	}

	s := session.Session{
		UserID:      tok.UserID,
		Email:       tok.Email,
		AccessToken: tok.AccessToken,
	}
	if s.Email == "" {
		s.Email = email
	}

	if err := a.sessions.SignIn(ctx, s); err != nil {
		return session.Session{}, fmt.Errorf("session saving error: %w", err)
	}
	return s, nil
}

func (a *authService) Signup(ctx context.Context, req api.SignupRequest, login bool) (api.SignupResult, error) {
	res, err := a.client.Signup(ctx, req)
	if err != nil {
		return api.SignupResult{}, err
	}
	if !login {
		return res, nil
	}

	norm := req.Normalized()
	if _, err := a.Login(ctx, norm.Email, []byte(norm.Password)); err != nil {
		return res, fmt.Errorf("account created but login failed: %w", err)
	}
	return res, nil
}

func (a *authService) Logout(ctx context.Context) {
	a.sessions.SignOut(ctx)
}

func (a *authService) WhoAmI() (session.Session, bool) {
	return a.sessions.Current()
}
