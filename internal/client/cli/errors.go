package cli

import (
	"errors"
	"fmt"

	"github.com/dmitrijs2005/skincheck/internal/client/api"
	"github.com/dmitrijs2005/skincheck/internal/client/gateway"
	"github.com/dmitrijs2005/skincheck/internal/client/session"
	"github.com/dmitrijs2005/skincheck/internal/common"
)

// describeError turns an error into the message shown to the user.
func describeError(err error) string {
	var (
		ve     *api.ValidationError
		reqErr *gateway.RequestError
		netErr *gateway.NetworkError
	)

	switch {
	case err == nil:
		return ""
	case errors.Is(err, errInvalidCredentials):
		return "Login failed: invalid email or password."
	case errors.As(err, &ve):
		return "Error: " + ve.Error()
	case errors.Is(err, session.ErrNoSession):
		return "You are not signed in. Use 'login' first."
	case errors.Is(err, session.ErrSessionExpired), errors.Is(err, gateway.ErrUnauthorized):
		return "Session expired. Please log in again."
	case errors.As(err, &reqErr) && reqErr.IsServerError():
		return fmt.Sprintf("The service is unavailable right now (HTTP %d). Please try again later.", reqErr.StatusCode)
	case errors.As(err, &reqErr):
		if reqErr.Detail != "" {
			return "Request failed: " + reqErr.Detail
		}
		return fmt.Sprintf("Request failed (HTTP %d).", reqErr.StatusCode)
	case errors.As(err, &netErr) && netErr.Timeout():
		return "The request timed out. Please check your internet connection and try again."
	case errors.As(err, &netErr):
		return "Network error. Please check your internet connection and try again."
	case errors.Is(err, common.ErrorNotFound):
		return "No such scan in your history."
	default:
		return "Error: " + err.Error()
	}
}

// userError carries the friendly message for cobra while keeping the cause.
type userError struct {
	msg string
	err error
}

func (e *userError) Error() string { return e.msg }
func (e *userError) Unwrap() error { return e.err }

func toUserError(err error) error {
	if err == nil {
		return nil
	}
	return &userError{msg: describeError(err), err: err}
}
