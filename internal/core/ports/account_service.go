package ports

import (
	"context"

	"github.com/luminara-systems/platform-api/internal/core/domain"
)

// SignupInput carries the email-flow registration payload.
type SignupInput struct {
	Email    string
	Username string
	Password string
}

// AccountService orchestrates signup, authentication and profile management.
type AccountService interface {
	// Signup registers an unverified email-flow account and sends the
	// verification mail. The account persists even when sending fails; the
	// caller then sees domain.ErrEmailDelivery and recovers via resend.
	Signup(ctx context.Context, in SignupInput) (*domain.User, error)

	// Login returns a bearer token for a verified account.
	Login(ctx context.Context, email, password string) (string, error)

	// VerifyEmail redeems a verification token.
	VerifyEmail(ctx context.Context, token string) error

	// ResendVerification issues a fresh token for an unverified account.
	ResendVerification(ctx context.Context, email string) error

	// AuthorizeURL returns the provider's authorization URL carrying a fresh
	// single-use anti-forgery state.
	AuthorizeURL(ctx context.Context, provider string) (string, error)

	// OAuthCallback consumes the state, exchanges the code, links or creates
	// the account, and returns a bearer token.
	OAuthCallback(ctx context.Context, provider, code, state string) (string, error)

	// Profile returns the account with the given username.
	Profile(ctx context.Context, username string) (*domain.User, error)

	// UpdateEmail changes the caller's address. Email-provider accounts drop
	// back to unverified and receive a new verification mail.
	UpdateEmail(ctx context.Context, user *domain.User, email string) (*domain.User, error)

	// Delete removes the account and everything it owns.
	Delete(ctx context.Context, userID uint) error
}
