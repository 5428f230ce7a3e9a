// Package identity wraps the identity-provider capability: account creation,
// credential verification, sign-out, and auth-state change notifications.
// Callers treat it as an opaque collaborator; the rest of the service never
// sees password hashes or provider storage.
package identity

import "errors"

var (
	// ErrEmailTaken is returned when an account already exists for the email.
	ErrEmailTaken = errors.New("identity: email already registered")
	// ErrWeakPassword is returned when the provider rejects the password.
	ErrWeakPassword = errors.New("identity: password rejected by policy")
	// ErrInvalidCredentials is returned for any failed authentication. It
	// carries no distinction between an unknown account and a wrong password.
	ErrInvalidCredentials = errors.New("identity: invalid credentials")
)

// EventType classifies an auth-state transition.
type EventType string

const (
	EventLogin  EventType = "login"
	EventLogout EventType = "logout"
)

// Event is a single auth-state transition.
type Event struct {
	Type   EventType
	UserID string
}

// Provider is the identity-provider capability the gateways depend on.
type Provider interface {
	// CreateAccount registers credentials and returns the assigned
	// identity identifier.
	CreateAccount(email, password string) (string, error)

	// Authenticate verifies credentials and returns the identity
	// identifier, publishing a login event on success.
	Authenticate(email, password string) (string, error)

	// SignOut publishes a logout event for the identity. It never fails;
	// session invalidation itself happens at the transport layer.
	SignOut(userID string)

	// Subscribe returns a channel of auth-state events and a cancel func.
	// Events are dropped rather than blocking slow consumers.
	Subscribe() (<-chan Event, func())
}
