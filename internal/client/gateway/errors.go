package gateway

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
)

// ErrUnauthorized is returned for HTTP 401 and for authenticated requests
// made without a usable session. The caller decides whether to prompt for a
// new sign-in; the gateway never clears the session itself.
var ErrUnauthorized = errors.New("unauthorized")

// RequestError is a non-2xx, non-401 response. Detail carries the server's
// "detail" message when one was sent.
type RequestError struct {
	StatusCode int
	Detail     string
}

func (e *RequestError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("request failed with status %d: %s", e.StatusCode, e.Detail)
	}
	return fmt.Sprintf("request failed with status %d (%s)", e.StatusCode, http.StatusText(e.StatusCode))
}

// IsServerError reports a 5xx status.
func (e *RequestError) IsServerError() bool {
	return e.StatusCode >= http.StatusInternalServerError
}

// NetworkError means no response was obtained: DNS, connect, TLS, timeout or
// cancellation.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s: network error: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// Timeout reports whether the request ran out of time.
func (e *NetworkError) Timeout() bool {
	if errors.Is(e.Err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(e.Err, &ne) && ne.Timeout()
}

// Class is the coarse category of a gateway error.
type Class int

const (
	ClassNone Class = iota
	ClassUnauthorized
	ClassClientError
	ClassServerError
	ClassNetwork
	ClassOther
)

func (c Class) String() string {
	switch c {
	case ClassNone:
		return "none"
	case ClassUnauthorized:
		return "unauthorized"
	case ClassClientError:
		return "client error"
	case ClassServerError:
		return "server error"
	case ClassNetwork:
		return "network error"
	default:
		return "other"
	}
}

// Classify maps err onto a Class. Wrapped errors are unwrapped.
func Classify(err error) Class {
	if err == nil {
		return ClassNone
	}
	if errors.Is(err, ErrUnauthorized) {
		return ClassUnauthorized
	}
	var reqErr *RequestError
	if errors.As(err, &reqErr) {
		if reqErr.IsServerError() {
			return ClassServerError
		}
		return ClassClientError
	}
	var netErr *NetworkError
	if errors.As(err, &netErr) {
		return ClassNetwork
	}
	return ClassOther
}
