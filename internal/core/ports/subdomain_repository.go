package ports

import (
	"context"

	"github.com/luminara-systems/platform-api/internal/core/domain"
)

// SubdomainRepository persists subdomain claims and admin tokens.
type SubdomainRepository interface {
	// Create persists a claim. Constraint violations surface as
	// domain.ErrSubdomainTaken (name) or domain.ErrAlreadyHasSubdomain (owner).
	Create(ctx context.Context, sub *domain.Subdomain) (*domain.Subdomain, error)

	FindByUserID(ctx context.Context, userID uint) (*domain.Subdomain, error)
	FindByName(ctx context.Context, name string) (*domain.Subdomain, error)

	// Rename updates the caller's claim to the given (already validated,
	// lowercased) name. Returns domain.ErrSubdomainTaken on collision.
	Rename(ctx context.Context, userID uint, name string) (*domain.Subdomain, error)

	Delete(ctx context.Context, userID uint) error

	// ReplaceAdminToken atomically deletes any prior admin token for the user
	// and inserts one holding the given hash.
	ReplaceAdminToken(ctx context.Context, userID uint, tokenHash string) (*domain.AdminToken, error)
}
