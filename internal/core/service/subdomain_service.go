package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/rs/zerolog"

	"github.com/luminara-systems/platform-api/internal/api/metrics"
	"github.com/luminara-systems/platform-api/internal/core/domain"
	"github.com/luminara-systems/platform-api/internal/core/ports"
)

// 3-30 chars, alphanumeric ends, internal dashes allowed.
var subdomainPattern = regexp.MustCompile(`^[a-zA-Z0-9]([a-zA-Z0-9-]{1,28}[a-zA-Z0-9])?$`)

// reservedSubdomains are withheld from allocation because they carry (or may
// carry) system-level routing meaning.
var reservedSubdomains = map[string]struct{}{
	"www": {}, "api": {}, "admin": {}, "app": {}, "mail": {}, "ftp": {},
	"blog": {}, "shop": {}, "store": {}, "support": {}, "help": {},
	"about": {}, "contact": {}, "news": {}, "dev": {}, "test": {}, "staging": {},
}

const invalidSubdomainMsg = "invalid subdomain format. Must be 3-30 characters, " +
	"alphanumeric with dashes, cannot start/end with dash, and cannot be a reserved word"

// SubdomainService enforces the namespace rules: grammar, reservation list,
// global uniqueness and one claim per user.
type SubdomainService struct {
	subdomains ports.SubdomainRepository
	rootDomain string
	log        zerolog.Logger
}

func NewSubdomainService(subdomains ports.SubdomainRepository, rootDomain string, log zerolog.Logger) *SubdomainService {
	return &SubdomainService{subdomains: subdomains, rootDomain: rootDomain, log: log}
}

func validateSubdomain(name string) error {
	if !subdomainPattern.MatchString(name) {
		return domain.NewValidationError(invalidSubdomainMsg)
	}
	if _, reserved := reservedSubdomains[strings.ToLower(name)]; reserved {
		return domain.NewValidationError(invalidSubdomainMsg)
	}
	return nil
}

// FullURL derives the public URL for a claimed name.
func (s *SubdomainService) FullURL(name string) string {
	return fmt.Sprintf("https://%s.%s", name, s.rootDomain)
}

// Claim registers name for the given user. Names are case-folded before any
// uniqueness decision; the storage constraints close the race between this
// check and the insert.
func (s *SubdomainService) Claim(ctx context.Context, userID uint, name string) (*domain.Subdomain, error) {
	if err := validateSubdomain(name); err != nil {
		metrics.SubdomainClaimsTotal.WithLabelValues("invalid").Inc()
		return nil, err
	}

	if _, err := s.subdomains.FindByUserID(ctx, userID); err == nil {
		metrics.SubdomainClaimsTotal.WithLabelValues("conflict").Inc()
		return nil, domain.ErrAlreadyHasSubdomain
	} else if !errors.Is(err, domain.ErrSubdomainNotFound) {
		return nil, err
	}

	sub, err := s.subdomains.Create(ctx, &domain.Subdomain{
		UserID: userID,
		Name:   strings.ToLower(name),
	})
	if err != nil {
		if errors.Is(err, domain.ErrSubdomainTaken) || errors.Is(err, domain.ErrAlreadyHasSubdomain) {
			metrics.SubdomainClaimsTotal.WithLabelValues("conflict").Inc()
		}
		return nil, err
	}
	metrics.SubdomainClaimsTotal.WithLabelValues("created").Inc()
	return sub, nil
}

// Mine returns the caller's claim.
func (s *SubdomainService) Mine(ctx context.Context, userID uint) (*domain.Subdomain, error) {
	return s.subdomains.FindByUserID(ctx, userID)
}

// Check answers the unauthenticated availability probe. Unavailability is
// reported with a reason and is never an error.
func (s *SubdomainService) Check(ctx context.Context, name string) (ports.Availability, error) {
	if err := validateSubdomain(name); err != nil {
		return ports.Availability{Available: false, Reason: "Invalid format"}, nil
	}

	_, err := s.subdomains.FindByName(ctx, strings.ToLower(name))
	switch {
	case err == nil:
		return ports.Availability{Available: false, Reason: "Already taken"}, nil
	case errors.Is(err, domain.ErrSubdomainNotFound):
		return ports.Availability{Available: true}, nil
	default:
		return ports.Availability{}, err
	}
}

// Rename changes the caller's claim. Validation and the availability check run
// only when the name actually changes; renaming to the current name is a no-op.
func (s *SubdomainService) Rename(ctx context.Context, userID uint, name string) (*domain.Subdomain, error) {
	current, err := s.subdomains.FindByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if name == "" || strings.ToLower(name) == current.Name {
		return current, nil
	}
	if err := validateSubdomain(name); err != nil {
		return nil, err
	}
	return s.subdomains.Rename(ctx, userID, strings.ToLower(name))
}

// Delete releases the caller's claim.
func (s *SubdomainService) Delete(ctx context.Context, userID uint) error {
	if _, err := s.subdomains.FindByUserID(ctx, userID); err != nil {
		return err
	}
	return s.subdomains.Delete(ctx, userID)
}

// IssueAdminToken generates a fresh admin secret for a subdomain owner. Only
// the bcrypt hash is stored; any prior token is invalidated in the same
// transaction. The returned plaintext is not retrievable again.
func (s *SubdomainService) IssueAdminToken(ctx context.Context, userID uint) (*ports.AdminTokenResult, error) {
	if _, err := s.subdomains.FindByUserID(ctx, userID); err != nil {
		if errors.Is(err, domain.ErrSubdomainNotFound) {
			return nil, domain.ErrNoSubdomain
		}
		return nil, err
	}

	plaintext, err := randomToken()
	if err != nil {
		return nil, err
	}
	hash, err := hashSecret(plaintext)
	if err != nil {
		return nil, err
	}

	token, err := s.subdomains.ReplaceAdminToken(ctx, userID, hash)
	if err != nil {
		return nil, err
	}
	metrics.AdminTokensIssuedTotal.Inc()

	return &ports.AdminTokenResult{Token: plaintext, CreatedAt: token.CreatedAt}, nil
}
