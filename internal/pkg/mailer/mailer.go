package mailer

import (
	"context"
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"github.com/lets-assist/api/internal/config"
	"github.com/lets-assist/api/internal/domain"
)

// SendGridMailer sends the confirmation link for anonymous signups.
type SendGridMailer struct {
	conf    *config.MailConfig
	baseURL string
	client  *sendgrid.Client
}

func New(conf *config.MailConfig, baseURL string) *SendGridMailer {
	return &SendGridMailer{
		conf:    conf,
		baseURL: baseURL,
		client:  sendgrid.NewSendClient(conf.SendGridAPIKey),
	}
}

func (m *SendGridMailer) SendConfirmation(ctx context.Context, anon domain.AnonymousSignup, projectTitle string) error {
	confirmURL := fmt.Sprintf("%v/api/v1/anonymous/%v/confirm?token=%v", m.baseURL, anon.ID, anon.Token)

	from := mail.NewEmail(m.conf.FromName, m.conf.FromEmail)
	to := mail.NewEmail(anon.Name, anon.Email)
	subject := fmt.Sprintf("Confirm your signup for %v", projectTitle)
	plain := fmt.Sprintf(
		"Hi %v,\n\nPlease confirm your signup for %v by opening this link:\n\n%v\n\nIf you didn't sign up, you can ignore this email.",
		anon.Name, projectTitle, confirmURL,
	)
	html := fmt.Sprintf(
		`<p>Hi %v,</p><p>Please confirm your signup for <strong>%v</strong> by clicking <a href="%v">this link</a>.</p><p>If you didn't sign up, you can ignore this email.</p>`,
		anon.Name, projectTitle, confirmURL,
	)

	message := mail.NewSingleEmail(from, subject, to, plain, html)
	resp, err := m.client.SendWithContext(ctx, message)
	if err != nil {
		return fmt.Errorf("m.client.SendWithContext -> %w", err)
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("sendgrid returned status %v: %v", resp.StatusCode, resp.Body)
	}

	return nil
}
