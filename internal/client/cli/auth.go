package cli

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/dmitrijs2005/skincheck/internal/client/api"
	"github.com/dmitrijs2005/skincheck/internal/client/gateway"
	"github.com/dmitrijs2005/skincheck/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

var errInvalidCredentials = errors.New("invalid email or password")

// Login prompts for whatever credentials were not given and signs in.
// The password byte slice is wiped before returning.
func (a *App) Login(ctx context.Context, email string) error {
	var err error
	if email == "" {
		if email, err = getSimpleText(a.reader, "Enter email", a.out); err != nil {
			return err
		}
	}

	password, err := getPassword(a.reader, "Enter password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	s, err := a.auth.Login(ctx, email, password)
	if err != nil {
		if errors.Is(err, gateway.ErrUnauthorized) {
			return errInvalidCredentials
		}
		return err
	}

	a.printf("Signed in as %s\n", s.Email)
	return nil
}

// Signup walks through the account form. With login set the new account is
// signed in straight away.
func (a *App) Signup(ctx context.Context, login bool) error {
	username, err := getSimpleText(a.reader, "Enter username", a.out)
	if err != nil {
		return err
	}
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	ageText, err := getSimpleText(a.reader, "Enter age", a.out)
	if err != nil {
		return err
	}
	age, _ := strconv.Atoi(ageText)

	password, err := getPassword(a.reader, "Enter password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	confirm, err := getPassword(a.reader, "Confirm password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(confirm)

	res, err := a.auth.Signup(ctx, api.SignupRequest{
		Username: username,
		Email:    email,
		Password: string(password),
		Confirm:  string(confirm),
		Age:      age,
	}, login)
	if err != nil && res.UUID == "" {
		return err
	}

	msg := res.Message
	if msg == "" {
		msg = "Account created"
	}
	a.println(msg)

	if err != nil {
		return err
	}
	if !login {
		a.println("You can now log in.")
	} else if s, ok := a.sessions.Current(); ok {
		a.printf("Signed in as %s\n", s.Email)
	}
	return nil
}

func (a *App) Logout(ctx context.Context) error {
	if !a.isLoggedIn() {
		a.println("Not signed in.")
		return nil
	}
	a.auth.Logout(ctx)
	a.println("Signed out.")
	return nil
}

func (a *App) WhoAmI(ctx context.Context) error {
	s, ok := a.auth.WhoAmI()
	if !ok {
		a.println("Not signed in.")
		return nil
	}

	a.printf("Email:   %s\n", s.Email)
	a.printf("User ID: %s\n", s.UserID)
	if exp, ok := s.ExpiresAt(); ok {
		state := "valid"
		if s.Expired(time.Now()) {
			state = "expired"
		}
		a.printf("Token:   %s until %s\n", state, exp.Local().Format(time.RFC1123))
	}
	return nil
}
