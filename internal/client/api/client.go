// Package api is the typed client of the screening service. Each call
// validates its input locally, then goes through the authenticated gateway.
// Gateway errors are returned unchanged so callers can classify them.
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/skincheck/internal/client/gateway"
	"github.com/dmitrijs2005/skincheck/internal/client/models"
)

const (
	pathAuth    = "/auth/"
	pathSignup  = "/signup/"
	pathPredict = "/predict/"
	pathHistory = "/predict/history"

	MinPasswordLength = 6
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ErrEmptyToken is returned when a 2xx login response carries no token.
var ErrEmptyToken = errors.New("login response has no access token")

// Doer sends one request. *gateway.Gateway implements it.
type Doer interface {
	Do(ctx context.Context, req gateway.Request, out any) error
}

type Client struct {
	doer Doer
}

func New(doer Doer) *Client {
	return &Client{doer: doer}
}

// Login exchanges credentials for an access token. The service expects them
// as query parameters, not as a body.
func (c *Client) Login(ctx context.Context, email, password string) (models.Token, error) {
	if email == "" || password == "" {
		return models.Token{}, invalid("", "email and password are required")
	}

	var tok models.Token
	err := c.doer.Do(ctx, gateway.Request{
		Method: http.MethodPost,
		Path:   pathAuth,
		Query:  url.Values{"email": {email}, "password": {password}},
	}, &tok)
	if err != nil {
		return models.Token{}, err
	}
	if tok.AccessToken == "" {
		return models.Token{}, ErrEmptyToken
	}
	return tok, nil
}

// SignupRequest is the account creation form. Confirm is checked locally and
// never sent.
type SignupRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Confirm  string `json:"-"`
	Age      int    `json:"age"`
}

type SignupResult struct {
	UUID     string `json:"uuid"`
	Username string `json:"username"`
	Message  string `json:"message"`
}

// Validate applies the checks in the order the form reports them: the first
// failure wins.
func (r SignupRequest) Validate() error {
	switch {
	case strings.TrimSpace(r.Username) == "":
		return invalid("username", "username is required")
	case strings.TrimSpace(r.Email) == "":
		return invalid("email", "email is required")
	case r.Password == "":
		return invalid("password", "password is required")
	case r.Password != r.Confirm:
		return invalid("confirm", "passwords do not match")
	case r.Age < 1:
		return invalid("age", "please enter a valid age")
	case !emailPattern.MatchString(strings.TrimSpace(r.Email)):
		return invalid("email", "please enter a valid email address")
	case len(r.Password) < MinPasswordLength:
		return invalid("password", fmt.Sprintf("password must be at least %d characters long", MinPasswordLength))
	}
	return nil
}

// Normalized returns the request as it is sent: username trimmed, email
// trimmed and lower-cased.
func (r SignupRequest) Normalized() SignupRequest {
	r.Username = strings.TrimSpace(r.Username)
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	return r
}

func (c *Client) Signup(ctx context.Context, req SignupRequest) (SignupResult, error) {
	if err := req.Validate(); err != nil {
		return SignupResult{}, err
	}

	body, err := jsonBody(req.Normalized())
	if err != nil {
		return SignupResult{}, err
	}

	var res SignupResult
	err = c.doer.Do(ctx, gateway.Request{
		Method:      http.MethodPost,
		Path:        pathSignup,
		Body:        body,
		ContentType: "application/json",
	}, &res)
	if err != nil {
		return SignupResult{}, err
	}
	return res, nil
}

// ListHistory returns the caller's past submissions in server order.
func (c *Client) ListHistory(ctx context.Context) ([]models.ScanRecord, error) {
	var resp models.HistoryResponse
	err := c.doer.Do(ctx, gateway.Request{
		Method:        http.MethodGet,
		Path:          pathHistory,
		Authenticated: true,
	}, &resp)
	if err != nil {
		return nil, err
	}
	if resp.Uploads == nil {
		return []models.ScanRecord{}, nil
	}
	return resp.Uploads, nil
}

// DeleteScan removes one submission on the server.
func (c *Client) DeleteScan(ctx context.Context, id int64) error {
	return c.doer.Do(ctx, gateway.Request{
		Method:        http.MethodDelete,
		Path:          pathHistory + "/" + strconv.FormatInt(id, 10),
		Authenticated: true,
	}, nil)
}
