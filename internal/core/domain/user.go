package domain

import "time"

// Authentication providers recognised by the platform.
const (
	ProviderEmail   = "email"
	ProviderGitHub  = "github"
	ProviderDiscord = "discord"
)

// User models an account. PasswordHash is set only for ProviderEmail accounts;
// ProviderID only for OAuth accounts.
type User struct {
	ID           uint      `json:"id"`
	Email        string    `json:"email"`
	Username     string    `json:"username"`
	Provider     string    `json:"provider"`
	ProviderID   string    `json:"-"`
	PasswordHash string    `json:"-"`
	IsActive     bool      `json:"is_active"`
	IsVerified   bool      `json:"is_verified"`
	CreatedAt    time.Time `json:"created_at"`
}

// EmailVerification is a single-use proof of email ownership. A token is
// redeemable iff IsUsed is false and ExpiresAt is in the future.
type EmailVerification struct {
	ID        uint
	UserID    uint
	Token     string
	ExpiresAt time.Time
	IsUsed    bool
	CreatedAt time.Time
}
