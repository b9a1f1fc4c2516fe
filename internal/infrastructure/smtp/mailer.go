package smtp

import (
	"context"
	"fmt"
	"net/smtp"

	"github.com/trustnet-ai/api/internal/config"
)

// Mailer delivers login codes over plain SMTP. Used for local development
// (mailpit) and self-hosted deployments without a Resend key.
type Mailer struct {
	host     string
	port     string
	from     string
	username string
	password string
}

func NewMailer(cfg *config.Config) *Mailer {
	return &Mailer{
		host:     cfg.SMTPHost,
		port:     cfg.SMTPPort,
		from:     cfg.MailFrom,
		username: cfg.SMTPUsername,
		password: cfg.SMTPPassword,
	}
}

// SendCode emails the one-time login code to the given address.
// net/smtp has no context support; ctx is accepted to satisfy the Notifier
// contract and the caller's timeout still bounds the overall request.
func (m *Mailer) SendCode(_ context.Context, to, code string) error {
	subject := "Your TrustNet.Ai Login OTP"
	body := fmt.Sprintf("Your one-time password is: %s\r\n\r\nThis code is valid for 5 minutes. If you did not request it, ignore this email.", code)
	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s", m.from, to, subject, body)
	addr := fmt.Sprintf("%s:%s", m.host, m.port)

	var auth smtp.Auth
	if m.username != "" {
		auth = smtp.PlainAuth("", m.username, m.password, m.host)
	}

	return smtp.SendMail(addr, auth, m.from, []string{to}, []byte(msg))
}
