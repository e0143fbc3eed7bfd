// Package gateway sends requests to the screening service. It attaches the
// bearer token of the current session, bounds every call with a timeout and
// turns the outcome into one of: success, ErrUnauthorized, *RequestError or
// *NetworkError. It never retries.
package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dmitrijs2005/skincheck/internal/common"
	"github.com/dmitrijs2005/skincheck/internal/logging"
	"github.com/google/uuid"
)

const (
	DefaultTimeout = 30 * time.Second

	maxResponseBytes = 8 << 20
)

// TokenSource yields the bearer token for authenticated requests.
// *session.Manager implements it.
type TokenSource interface {
	AccessToken() (string, error)
}

// Request describes one call. Path is appended to the base URL verbatim, so
// trailing slashes the service expects ("/auth/") are kept.
type Request struct {
	Method        string
	Path          string
	Query         url.Values
	Header        http.Header
	Body          io.Reader
	ContentType   string
	Authenticated bool
}

type Gateway struct {
	baseURL      *url.URL
	httpClient   *http.Client
	tokens       TokenSource
	logger       logging.Logger
	newRequestID func() string
}

type Option func(*Gateway)

// WithHTTPClient replaces the default client. Its Timeout is used as is.
func WithHTTPClient(c *http.Client) Option {
	return func(g *Gateway) { g.httpClient = c }
}

// WithTimeout sets the per-request timeout of the default client.
func WithTimeout(d time.Duration) Option {
	return func(g *Gateway) {
		if d > 0 {
			g.httpClient.Timeout = d
		}
	}
}

func New(baseURL string, tokens TokenSource, logger logging.Logger, opts ...Option) (*Gateway, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("base url %q: scheme must be http or https", baseURL)
	}

	g := &Gateway{
		baseURL:      u,
		httpClient:   &http.Client{Timeout: DefaultTimeout},
		tokens:       tokens,
		logger:       logger,
		newRequestID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g, nil
}

// Do performs req. On a 2xx response a non-empty body is decoded as JSON into
// out, when out is not nil.
func (g *Gateway) Do(ctx context.Context, req Request, out any) error {
	httpReq, err := g.newHTTPRequest(ctx, req)
	if err != nil {
		return err
	}

	requestID := httpReq.Header.Get(common.RequestIDHeaderName)
	op := req.Method + " " + req.Path
	start := time.Now()

	resp, err := g.httpClient.Do(httpReq)
	if err != nil {
		g.logger.Debug(ctx, "api request failed", "op", op, "request_id", requestID, "error", err)
		return &NetworkError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return &NetworkError{Op: op, Err: fmt.Errorf("read response: %w", err)}
	}

	g.logger.Debug(ctx, "api request",
		"op", op,
		"status", resp.StatusCode,
		"duration", time.Since(start),
		"request_id", requestID,
	)

	if err := classify(resp.StatusCode, body); err != nil {
		return err
	}

	if out == nil || len(body) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode %s response: %w", op, err)
	}
	return nil
}

func (g *Gateway) newHTTPRequest(ctx context.Context, req Request) (*http.Request, error) {
	u := *g.baseURL
	u.Path = strings.TrimRight(u.Path, "/") + req.Path
	u.RawPath = ""
	u.RawQuery = req.Query.Encode()

	method := req.Method
	if method == "" {
		method = http.MethodGet
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, u.String(), req.Body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	for k, vs := range req.Header {
		for _, v := range vs {
			httpReq.Header.Add(k, v)
		}
	}
	if httpReq.Header.Get(common.AcceptHeaderName) == "" {
		httpReq.Header.Set(common.AcceptHeaderName, "application/json")
	}
	if req.ContentType != "" {
		httpReq.Header.Set("Content-Type", req.ContentType)
	}
	httpReq.Header.Set(common.RequestIDHeaderName, g.newRequestID())

	if req.Authenticated {
		token, err := g.tokens.AccessToken()
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrUnauthorized, err)
		}
		// Set after the caller's headers so they cannot replace the token.
		httpReq.Header.Set(common.AuthorizationHeaderName, common.BearerPrefix+token)
	}

	return httpReq, nil
}

func classify(status int, body []byte) error {
	switch {
	case status >= 200 && status < 300:
		return nil
	case status == http.StatusUnauthorized:
		if detail := parseDetail(body); detail != "" {
			return fmt.Errorf("%w: %s", ErrUnauthorized, detail)
		}
		return ErrUnauthorized
	default:
		return &RequestError{StatusCode: status, Detail: parseDetail(body)}
	}
}
