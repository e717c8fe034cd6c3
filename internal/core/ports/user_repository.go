package ports

import (
	"context"
	"time"

	"github.com/luminara-systems/platform-api/internal/core/domain"
)

// UserRepository defines the persistence interface for accounts.
type UserRepository interface {
	// Create persists a new user. Uniqueness violations surface as
	// domain.ErrEmailTaken or domain.ErrUsernameTaken.
	Create(ctx context.Context, user *domain.User) (*domain.User, error)

	FindByID(ctx context.Context, id uint) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByUsername(ctx context.Context, username string) (*domain.User, error)

	// FindByEmailOrUsername runs the signup uniqueness probe as a single query.
	FindByEmailOrUsername(ctx context.Context, email, username string) (*domain.User, error)

	// FindByEmailOrProviderIdentity matches an OAuth login to an existing
	// account by email or by (provider, provider id). An empty email matches
	// only on the provider identity.
	FindByEmailOrProviderIdentity(ctx context.Context, email, provider, providerID string) (*domain.User, error)

	// UpdateEmail changes the address and verification flag together.
	UpdateEmail(ctx context.Context, id uint, email string, verified bool) (*domain.User, error)

	// Delete removes the user and everything it owns (verification tokens,
	// subdomain, admin token).
	Delete(ctx context.Context, id uint) error
}

// VerificationRepository persists email-verification tokens.
type VerificationRepository interface {
	Create(ctx context.Context, v *domain.EmailVerification) error

	// Redeem atomically marks the token used and the owning user verified.
	// Unknown, expired and already-used tokens all return
	// domain.ErrVerificationInvalid.
	Redeem(ctx context.Context, token string, now time.Time) (*domain.User, error)
}
