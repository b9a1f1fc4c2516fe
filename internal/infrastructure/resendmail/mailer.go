package resendmail

import (
	"context"
	"fmt"

	"github.com/resend/resend-go/v2"

	"github.com/trustnet-ai/api/internal/config"
)

// Mailer delivers login codes through the Resend API.
type Mailer struct {
	client *resend.Client
	from   string
}

func NewMailer(cfg *config.Config) *Mailer {
	return &Mailer{
		client: resend.NewClient(cfg.ResendAPIKey),
		from:   cfg.MailFrom,
	}
}

// SendCode emails the one-time login code to the given address.
func (m *Mailer) SendCode(ctx context.Context, to, code string) error {
	html := fmt.Sprintf(`<div style="font-family: Arial, sans-serif; max-width: 600px; margin: auto; padding: 20px;">
  <h2 style="color: #00f2fe; text-align: center;">TrustNet.Ai</h2>
  <p>Your One-Time Password (OTP) for logging into the Cyber Safety Platform is:</p>
  <div style="padding: 20px; text-align: center; font-size: 32px; letter-spacing: 5px; font-weight: bold;">%s</div>
  <p>This OTP is valid for 5 minutes. If you did not request this, please ignore this email.</p>
</div>`, code)

	_, err := m.client.Emails.SendWithContext(ctx, &resend.SendEmailRequest{
		From:    m.from,
		To:      []string{to},
		Subject: "Your TrustNet.Ai Login OTP",
		Text:    fmt.Sprintf("Your one-time password is: %s (valid for 5 minutes)", code),
		Html:    html,
	})
	if err != nil {
		return fmt.Errorf("send otp email: %w", err)
	}
	return nil
}
