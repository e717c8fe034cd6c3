// Package domain defines the platform's entities and domain-level errors.
package domain

import "errors"

// Domain errors. The HTTP layer maps each to a deterministic status code;
// services never return raw storage or transport errors to handlers.
var (
	// ErrEmailTaken indicates the email is already registered to another account.
	ErrEmailTaken = errors.New("email already registered")

	// ErrUsernameTaken indicates the username is already claimed.
	ErrUsernameTaken = errors.New("username already taken")

	// ErrInvalidCredentials covers both unknown email and wrong password so
	// callers cannot enumerate accounts.
	ErrInvalidCredentials = errors.New("incorrect email or password")

	// ErrEmailNotVerified blocks login until the address has been verified.
	ErrEmailNotVerified = errors.New("please verify your email address before logging in")

	// ErrUserNotFound indicates no account matches the given criteria.
	ErrUserNotFound = errors.New("user not found")

	// ErrAlreadyVerified is returned when re-requesting verification for a
	// verified account.
	ErrAlreadyVerified = errors.New("email already verified")

	// ErrVerificationInvalid covers unknown, expired and already-used
	// verification tokens with a single low-information message.
	ErrVerificationInvalid = errors.New("invalid or expired verification token")

	// ErrSubdomainTaken indicates the lowercased name is already claimed.
	ErrSubdomainTaken = errors.New("subdomain already taken")

	// ErrAlreadyHasSubdomain enforces the one-subdomain-per-user invariant.
	ErrAlreadyHasSubdomain = errors.New("you already have a subdomain")

	// ErrSubdomainNotFound indicates the caller has no subdomain.
	ErrSubdomainNotFound = errors.New("you don't have a subdomain yet")

	// ErrNoSubdomain blocks admin-token issuance for users without a claim.
	ErrNoSubdomain = errors.New("you need a subdomain before creating an admin token")

	// ErrEmailDelivery is surfaced when the verification mail cannot be sent.
	// The account and token rows persist; resending is the recovery path.
	ErrEmailDelivery = errors.New("failed to send verification email")

	// ErrOAuthExchange indicates the provider did not return an access token.
	ErrOAuthExchange = errors.New("failed to get access token")

	// ErrOAuthStateInvalid indicates a missing or unrecognised anti-forgery
	// state value on an OAuth callback.
	ErrOAuthStateInvalid = errors.New("invalid oauth state")

	// ErrUnknownProvider indicates an OAuth provider this deployment does not
	// support.
	ErrUnknownProvider = errors.New("unknown oauth provider")
)

// ValidationError reports a malformed input together with the violated rule.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// NewValidationError builds a ValidationError with the given rule description.
func NewValidationError(msg string) *ValidationError {
	return &ValidationError{Message: msg}
}
