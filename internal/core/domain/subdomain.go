package domain

import "time"

// Subdomain is a namespace claim under the shared root domain. Names are
// stored lowercased; a user owns at most one.
type Subdomain struct {
	ID        uint      `json:"id"`
	UserID    uint      `json:"-"`
	Name      string    `json:"subdomain"`
	CreatedAt time.Time `json:"created_at"`
}

// AdminToken is a secondary credential scoped to a subdomain owner. Only the
// bcrypt hash is stored; the plaintext is handed out once at creation.
type AdminToken struct {
	ID        uint
	UserID    uint
	TokenHash string
	CreatedAt time.Time
}
