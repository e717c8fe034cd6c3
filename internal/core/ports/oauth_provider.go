package ports

import "context"

// Identity is the provider-independent shape of an OAuth login.
type Identity struct {
	Provider   string
	ExternalID string
	Username   string
	// Email is empty when the provider exposes no verified primary address.
	Email string
}

// OAuthProvider translates an authorization-code grant into an Identity.
// One implementation exists per provider (GitHub, Discord).
type OAuthProvider interface {
	Name() string
	AuthCodeURL(state string) string
	FetchIdentity(ctx context.Context, code string) (Identity, error)
}

// StateStore holds single-use OAuth anti-forgery state values.
type StateStore interface {
	Save(ctx context.Context, state string) error
	// Consume removes the state and reports whether it was present.
	Consume(ctx context.Context, state string) (bool, error)
}
