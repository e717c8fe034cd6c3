package ports

import (
	"context"
	"time"

	"github.com/luminara-systems/platform-api/internal/core/domain"
)

// Availability is the unauthenticated answer to "is this name claimable?".
type Availability struct {
	Available bool   `json:"available"`
	Reason    string `json:"reason,omitempty"`
}

// AdminTokenResult carries the one-time plaintext of a freshly issued admin
// token. The plaintext is never retrievable again.
type AdminTokenResult struct {
	Token     string
	CreatedAt time.Time
}

// SubdomainService enforces naming rules, the reservation list and the
// one-subdomain-per-user invariant.
type SubdomainService interface {
	Claim(ctx context.Context, userID uint, name string) (*domain.Subdomain, error)
	Mine(ctx context.Context, userID uint) (*domain.Subdomain, error)
	Check(ctx context.Context, name string) (Availability, error)
	Rename(ctx context.Context, userID uint, name string) (*domain.Subdomain, error)
	Delete(ctx context.Context, userID uint) error
	IssueAdminToken(ctx context.Context, userID uint) (*AdminTokenResult, error)

	// FullURL derives the public URL for a claimed name.
	FullURL(name string) string
}
