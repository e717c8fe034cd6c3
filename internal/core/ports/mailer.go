package ports

import "context"

// Mailer sends transactional mail. Implementations must bound their latency;
// a hung SMTP server must not hang signup.
type Mailer interface {
	SendVerification(ctx context.Context, to, username, token string) error
}
