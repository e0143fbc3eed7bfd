// Package common contains shared constants and sentinel errors used across
// skincheck components.
package common

// SessionStorageKey is the metadata key under which the serialized session
// record is persisted.
const SessionStorageKey = "user_data"

// Header names attached by the request gateway.
const (
	AuthorizationHeaderName = "Authorization"
	AcceptHeaderName        = "Accept"
	RequestIDHeaderName     = "X-Request-ID"
)

// BearerPrefix precedes the access token in the Authorization header.
const BearerPrefix = "Bearer "
