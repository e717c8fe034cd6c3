// Package service implements the platform's business logic.
package service

import (
	"context"
	"errors"
	"regexp"
	"time"
	"unicode"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/luminara-systems/platform-api/internal/api/metrics"
	"github.com/luminara-systems/platform-api/internal/core/domain"
	"github.com/luminara-systems/platform-api/internal/core/ports"
)

const verificationTTL = 24 * time.Hour

var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_-]{3,20}$`)

// dummyHash keeps bcrypt comparison on the login path even when the email is
// unknown, so response timing does not reveal account existence.
const dummyHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

// AccountService orchestrates signup, login, verification, OAuth linking and
// profile management over the injected repositories and collaborators.
type AccountService struct {
	users         ports.UserRepository
	verifications ports.VerificationRepository
	tokens        ports.TokenService
	mailer        ports.Mailer
	providers     map[string]ports.OAuthProvider
	states        ports.StateStore
	log           zerolog.Logger
}

func NewAccountService(
	users ports.UserRepository,
	verifications ports.VerificationRepository,
	tokens ports.TokenService,
	mailer ports.Mailer,
	providers []ports.OAuthProvider,
	states ports.StateStore,
	log zerolog.Logger,
) *AccountService {
	byName := make(map[string]ports.OAuthProvider, len(providers))
	for _, p := range providers {
		byName[p.Name()] = p
	}
	return &AccountService{
		users:         users,
		verifications: verifications,
		tokens:        tokens,
		mailer:        mailer,
		providers:     byName,
		states:        states,
		log:           log,
	}
}

func validateUsername(username string) error {
	if !usernamePattern.MatchString(username) {
		return domain.NewValidationError(
			"username must be 3-20 characters long and contain only letters, numbers, underscores, or dashes")
	}
	return nil
}

func validatePassword(password string) error {
	var hasUpper, hasLower, hasDigit bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	if len(password) < 8 || !hasUpper || !hasLower || !hasDigit {
		return domain.NewValidationError(
			"password must be at least 8 characters with uppercase, lowercase, and number")
	}
	return nil
}

// Signup registers an unverified email-flow account, issues a verification
// token and sends the mail. A mail failure is surfaced to the caller, but the
// account and token rows stay; resending is the recovery path.
func (s *AccountService) Signup(ctx context.Context, in ports.SignupInput) (*domain.User, error) {
	if err := validateUsername(in.Username); err != nil {
		return nil, err
	}
	if err := validatePassword(in.Password); err != nil {
		return nil, err
	}

	// One probe for both uniqueness rules; the email check takes precedence
	// when both collide.
	if existing, err := s.users.FindByEmailOrUsername(ctx, in.Email, in.Username); err == nil {
		if existing.Email == in.Email {
			return nil, domain.ErrEmailTaken
		}
		return nil, domain.ErrUsernameTaken
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, err
	}

	hash, err := hashSecret(in.Password)
	if err != nil {
		return nil, err
	}

	user, err := s.users.Create(ctx, &domain.User{
		Email:        in.Email,
		Username:     in.Username,
		Provider:     domain.ProviderEmail,
		PasswordHash: hash,
		IsActive:     true,
	})
	if err != nil {
		return nil, err
	}
	metrics.SignupsTotal.WithLabelValues(domain.ProviderEmail).Inc()

	if err := s.issueVerification(ctx, user); err != nil {
		return user, err
	}
	return user, nil
}

// issueVerification creates a fresh verification token and mails it. Earlier
// outstanding tokens stay valid until they expire.
func (s *AccountService) issueVerification(ctx context.Context, user *domain.User) error {
	token, err := randomToken()
	if err != nil {
		return err
	}
	if err := s.verifications.Create(ctx, &domain.EmailVerification{
		UserID:    user.ID,
		Token:     token,
		ExpiresAt: time.Now().Add(verificationTTL),
	}); err != nil {
		return err
	}

	if err := s.mailer.SendVerification(ctx, user.Email, user.Username, token); err != nil {
		metrics.VerificationMailsTotal.WithLabelValues("failed").Inc()
		s.log.Error().Err(err).Str("email", user.Email).Msg("verification mail failed")
		return domain.ErrEmailDelivery
	}
	metrics.VerificationMailsTotal.WithLabelValues("sent").Inc()
	return nil
}

// Login authenticates an email-flow account and returns a bearer token.
func (s *AccountService) Login(ctx context.Context, email, password string) (string, error) {
	user, err := s.users.FindByEmail(ctx, email)

	hash := dummyHash
	if err == nil && user.PasswordHash != "" {
		hash = user.PasswordHash
	}
	compareErr := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))

	if err != nil || compareErr != nil {
		metrics.LoginsTotal.WithLabelValues("invalid_credentials").Inc()
		return "", domain.ErrInvalidCredentials
	}
	if !user.IsVerified {
		metrics.LoginsTotal.WithLabelValues("unverified").Inc()
		return "", domain.ErrEmailNotVerified
	}

	token, err := s.tokens.Issue(user.Username)
	if err != nil {
		return "", err
	}
	metrics.LoginsTotal.WithLabelValues("success").Inc()
	return token, nil
}

// VerifyEmail redeems a verification token, flipping the owner to verified.
func (s *AccountService) VerifyEmail(ctx context.Context, token string) error {
	if _, err := s.verifications.Redeem(ctx, token, time.Now()); err != nil {
		return err
	}
	metrics.VerificationsRedeemedTotal.Inc()
	return nil
}

// ResendVerification issues a new token for an unverified account.
func (s *AccountService) ResendVerification(ctx context.Context, email string) error {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return err
	}
	if user.IsVerified {
		return domain.ErrAlreadyVerified
	}
	return s.issueVerification(ctx, user)
}

// AuthorizeURL builds the provider's authorization URL around a fresh
// single-use anti-forgery state.
func (s *AccountService) AuthorizeURL(ctx context.Context, provider string) (string, error) {
	p, ok := s.providers[provider]
	if !ok {
		return "", domain.ErrUnknownProvider
	}
	state, err := randomToken()
	if err != nil {
		return "", err
	}
	if err := s.states.Save(ctx, state); err != nil {
		return "", err
	}
	return p.AuthCodeURL(state), nil
}

// OAuthCallback completes an authorization-code login. An existing account is
// matched by email or by provider identity; otherwise a new, already-verified
// account is created. A matching email links the OAuth identity to that
// account without further ownership proof.
func (s *AccountService) OAuthCallback(ctx context.Context, provider, code, state string) (string, error) {
	p, ok := s.providers[provider]
	if !ok {
		return "", domain.ErrUnknownProvider
	}

	consumed, err := s.states.Consume(ctx, state)
	if err != nil {
		return "", err
	}
	if state == "" || !consumed {
		return "", domain.ErrOAuthStateInvalid
	}

	identity, err := p.FetchIdentity(ctx, code)
	if err != nil {
		return "", err
	}

	user, err := s.users.FindByEmailOrProviderIdentity(ctx, identity.Email, identity.Provider, identity.ExternalID)
	switch {
	case errors.Is(err, domain.ErrUserNotFound):
		user, err = s.users.Create(ctx, &domain.User{
			Email:      identity.Email,
			Username:   identity.Username,
			Provider:   identity.Provider,
			ProviderID: identity.ExternalID,
			IsActive:   true,
			IsVerified: true, // ownership proven by the provider
		})
		if err != nil {
			return "", err
		}
		metrics.SignupsTotal.WithLabelValues(identity.Provider).Inc()
	case err != nil:
		return "", err
	}

	return s.tokens.Issue(user.Username)
}

// Profile returns the account with the given username.
func (s *AccountService) Profile(ctx context.Context, username string) (*domain.User, error) {
	return s.users.FindByUsername(ctx, username)
}

// UpdateEmail changes the caller's address. Email-provider accounts fall back
// to unverified and receive a fresh verification mail; OAuth accounts keep
// their verified status.
func (s *AccountService) UpdateEmail(ctx context.Context, user *domain.User, email string) (*domain.User, error) {
	if email == "" || email == user.Email {
		return user, nil
	}

	if existing, err := s.users.FindByEmail(ctx, email); err == nil && existing.ID != user.ID {
		return nil, domain.ErrEmailTaken
	} else if err != nil && !errors.Is(err, domain.ErrUserNotFound) {
		return nil, err
	}

	verified := user.IsVerified
	if user.Provider == domain.ProviderEmail {
		verified = false
	}
	updated, err := s.users.UpdateEmail(ctx, user.ID, email, verified)
	if err != nil {
		return nil, err
	}

	if user.Provider == domain.ProviderEmail {
		// Mail failure is non-fatal here: the address change already
		// committed, and resend covers recovery.
		if err := s.issueVerification(ctx, updated); err != nil {
			s.log.Warn().Err(err).Uint("user_id", user.ID).Msg("re-verification mail not sent")
		}
	}
	return updated, nil
}

// Delete removes the account and everything it owns.
func (s *AccountService) Delete(ctx context.Context, userID uint) error {
	return s.users.Delete(ctx, userID)
}
