// Package mail sends transactional email over SMTP.
package mail

import (
	"context"
	"fmt"
	"time"

	gomail "github.com/wneessen/go-mail"
)

const sendTimeout = 10 * time.Second

// Config captures the SMTP transport settings.
type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	// BaseURL is the public origin embedded in verification links.
	BaseURL string
}

// Mailer implements ports.Mailer over SMTP with STARTTLS.
type Mailer struct {
	cfg Config
}

func NewMailer(cfg Config) *Mailer {
	return &Mailer{cfg: cfg}
}

// SendVerification mails the verification link for the given token. The
// client dials with a bounded timeout so a hung SMTP server cannot hang the
// signup request indefinitely.
func (m *Mailer) SendVerification(ctx context.Context, to, username, token string) error {
	verifyURL := fmt.Sprintf("%s/auth/verify-email?token=%s", m.cfg.BaseURL, token)

	msg := gomail.NewMsg()
	if err := msg.From(m.cfg.From); err != nil {
		return fmt.Errorf("mail from: %w", err)
	}
	if err := msg.To(to); err != nil {
		return fmt.Errorf("mail to: %w", err)
	}
	msg.Subject("Verify Your Email - Luminara Systems")
	msg.SetBodyString(gomail.TypeTextPlain, verificationText(username, verifyURL))
	msg.AddAlternativeString(gomail.TypeTextHTML, verificationHTML(username, verifyURL))

	client, err := gomail.NewClient(m.cfg.Host,
		gomail.WithPort(m.cfg.Port),
		gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
		gomail.WithUsername(m.cfg.Username),
		gomail.WithPassword(m.cfg.Password),
		gomail.WithTLSPolicy(gomail.TLSOpportunistic),
		gomail.WithTimeout(sendTimeout),
	)
	if err != nil {
		return fmt.Errorf("smtp client: %w", err)
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("send verification mail: %w", err)
	}
	return nil
}

func verificationText(username, verifyURL string) string {
	return fmt.Sprintf(`Welcome to Luminara Systems, %s!

Thank you for signing up. Please verify your email address by visiting:
%s

This verification link will expire in 24 hours.

If you didn't create an account with us, please ignore this email.

Best regards,
The Luminara Systems Team
`, username, verifyURL)
}

func verificationHTML(username, verifyURL string) string {
	return fmt.Sprintf(`<html>
<body>
  <h2>Welcome to Luminara Systems, %s!</h2>
  <p>Thank you for signing up. Please verify your email address by clicking the link below:</p>
  <p><a href="%s" style="background-color: #4CAF50; color: white; padding: 14px 20px; text-decoration: none; border-radius: 4px;">Verify Email Address</a></p>
  <p>If the button doesn't work, copy and paste this link into your browser:</p>
  <p>%s</p>
  <p>This verification link will expire in 24 hours.</p>
  <p>If you didn't create an account with us, please ignore this email.</p>
  <br>
  <p>Best regards,<br>The Luminara Systems Team</p>
</body>
</html>`, username, verifyURL, verifyURL)
}
