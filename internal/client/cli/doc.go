// Package cli implements the skincheck command line: one-shot cobra commands
// and an interactive shell over the same App.
//
// The App owns the local session database, the session manager and the
// services built on top of them. It is the only layer that turns errors
// into messages for the user.
package cli
