package gateway

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/skincheck/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticTokens struct {
	token string
	err   error
}

func (s staticTokens) AccessToken() (string, error) { return s.token, s.err }

func newTestGateway(t *testing.T, srv *httptest.Server, tokens TokenSource, opts ...Option) *Gateway {
	t.Helper()
	g, err := New(srv.URL, tokens, logging.Discard(), opts...)
	require.NoError(t, err)
	return g
}

func TestNew_RejectsBadBaseURL(t *testing.T) {
	_, err := New("ftp://example.com", nil, logging.Discard())
	require.Error(t, err)

	_, err = New("://nope", nil, logging.Discard())
	require.Error(t, err)
}

func TestDo_AuthenticatedAttachesBearerAndAccept(t *testing.T) {
	var got http.Header
	var gotPath, gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	g := newTestGateway(t, srv, staticTokens{token: "T1"})

	var out struct {
		OK bool `json:"ok"`
	}
	err := g.Do(context.Background(), Request{
		Method:        http.MethodGet,
		Path:          "/predict/history",
		Query:         url.Values{"a": {"b"}},
		Authenticated: true,
	}, &out)
	require.NoError(t, err)

	assert.True(t, out.OK)
	assert.Equal(t, "/predict/history", gotPath)
	assert.Equal(t, "a=b", gotQuery)
	assert.Equal(t, "Bearer T1", got.Get("Authorization"))
	assert.Equal(t, "application/json", got.Get("Accept"))
	assert.NotEmpty(t, got.Get("X-Request-ID"))
}

func TestDo_CallerHeadersMergedBearerWins(t *testing.T) {
	var got http.Header
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
	}))
	defer srv.Close()

	g := newTestGateway(t, srv, staticTokens{token: "real"})

	h := http.Header{}
	h.Set("Authorization", "Bearer forged")
	h.Set("Accept", "text/plain")
	h.Set("X-Extra", "1")

	err := g.Do(context.Background(), Request{Path: "/x", Header: h, Authenticated: true}, nil)
	require.NoError(t, err)

	assert.Equal(t, "Bearer real", got.Get("Authorization"))
	assert.Equal(t, "text/plain", got.Get("Accept"))
	assert.Equal(t, "1", got.Get("X-Extra"))
}

func TestDo_UnauthenticatedSkipsBearer(t *testing.T) {
	var got http.Header
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
	}))
	defer srv.Close()

	g := newTestGateway(t, srv, staticTokens{err: errors.New("must not be called")})

	err := g.Do(context.Background(), Request{Method: http.MethodPost, Path: "/auth/"}, nil)
	require.NoError(t, err)
	assert.Empty(t, got.Get("Authorization"))
}

func TestDo_NoSessionIsUnauthorizedWithoutNetwork(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer srv.Close()

	noSession := errors.New("no session")
	g := newTestGateway(t, srv, staticTokens{err: noSession})

	err := g.Do(context.Background(), Request{Path: "/predict/history", Authenticated: true}, nil)
	require.ErrorIs(t, err, ErrUnauthorized)
	require.ErrorIs(t, err, noSession)
	assert.False(t, called)
}

func TestDo_BasePathIsPreserved(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
	}))
	defer srv.Close()

	g, err := New(srv.URL+"/api/", staticTokens{}, logging.Discard())
	require.NoError(t, err)

	require.NoError(t, g.Do(context.Background(), Request{Path: "/auth/"}, nil))
	assert.Equal(t, "/api/auth/", gotPath)
}

func TestDo_StatusClassification(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		wantClass  Class
		wantDetail string
	}{
		{"unauthorized", http.StatusUnauthorized, `{"detail":"Could not validate credentials"}`, ClassUnauthorized, ""},
		{"bad request string detail", http.StatusBadRequest, `{"detail":"Email already registered"}`, ClassClientError, "Email already registered"},
		{"validation list detail", http.StatusUnprocessableEntity,
			`{"detail":[{"loc":["body","email"],"msg":"value is not a valid email address"},{"loc":["query","localization"],"msg":"field required"}]}`,
			ClassClientError, "email: value is not a valid email address; localization: field required"},
		{"server error", http.StatusInternalServerError, `oops`, ClassServerError, ""},
		{"bad gateway empty", http.StatusBadGateway, ``, ClassServerError, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			g := newTestGateway(t, srv, staticTokens{token: "t"})
			err := g.Do(context.Background(), Request{Path: "/p", Authenticated: true}, nil)
			require.Error(t, err)
			assert.Equal(t, tt.wantClass, Classify(err))

			var reqErr *RequestError
			if errors.As(err, &reqErr) {
				assert.Equal(t, tt.status, reqErr.StatusCode)
				assert.Equal(t, tt.wantDetail, reqErr.Detail)
			}
		})
	}
}

func TestDo_NetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	base := srv.URL
	srv.Close()

	g, err := New(base, staticTokens{token: "t"}, logging.Discard())
	require.NoError(t, err)

	err = g.Do(context.Background(), Request{Path: "/predict/history", Authenticated: true}, nil)
	require.Error(t, err)

	var netErr *NetworkError
	require.ErrorAs(t, err, &netErr)
	assert.Equal(t, ClassNetwork, Classify(err))
	assert.Contains(t, netErr.Op, "/predict/history")
}

func TestDo_TimeoutIsNetworkError(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	g := newTestGateway(t, srv, staticTokens{}, WithTimeout(50*time.Millisecond))

	err := g.Do(context.Background(), Request{Path: "/slow"}, nil)
	var netErr *NetworkError
	require.ErrorAs(t, err, &netErr)
	assert.True(t, netErr.Timeout())
}

func TestDo_ContextCanceled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer srv.Close()

	g := newTestGateway(t, srv, staticTokens{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := g.Do(ctx, Request{Path: "/x"}, nil)
	var netErr *NetworkError
	require.ErrorAs(t, err, &netErr)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDo_DecodeFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	}))
	defer srv.Close()

	g := newTestGateway(t, srv, staticTokens{})

	var out map[string]any
	err := g.Do(context.Background(), Request{Path: "/x"}, &out)
	require.Error(t, err)
	assert.Equal(t, ClassOther, Classify(err))
	assert.True(t, strings.Contains(err.Error(), "decode"))
}

func TestRequestError_Message(t *testing.T) {
	e := &RequestError{StatusCode: 404}
	assert.Equal(t, "request failed with status 404 (Not Found)", e.Error())
	assert.False(t, e.IsServerError())

	e = &RequestError{StatusCode: 503, Detail: "model loading"}
	assert.Equal(t, "request failed with status 503: model loading", e.Error())
	assert.True(t, e.IsServerError())
}

func TestParseDetail(t *testing.T) {
	assert.Equal(t, "", parseDetail([]byte(`<html>`)))
	assert.Equal(t, "", parseDetail([]byte(`{}`)))
	assert.Equal(t, "x", parseDetail([]byte(`{"detail":"x"}`)))
	assert.Equal(t, "field required", parseDetail([]byte(`{"detail":[{"loc":[0],"msg":"field required"}]}`)))
	assert.Equal(t, `{"code":7}`, parseDetail([]byte(`{"detail":{"code":7}}`)))
}
