package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/resend/resend-go/v2"
)

// EmailService delivers generated packs by email via Resend. In dev
// mode (or without an API key) sends are logged instead of dispatched,
// so the rest of the pipeline behaves identically.
type EmailService struct {
	client     *resend.Client
	fromEmail  string
	audienceID string
	isDev      bool
	appName    string
}

func NewEmailService(apiKey, fromEmail, audienceID, appName string, isDev bool) *EmailService {
	var client *resend.Client
	if apiKey != "" && !isDev {
		client = resend.NewClient(apiKey)
	}

	return &EmailService{
		client:     client,
		fromEmail:  fromEmail,
		audienceID: audienceID,
		isDev:      isDev,
		appName:    appName,
	}
}

// Configured reports whether real sends are possible. Used by the
// /health/email probe; dev mode counts as configured since sends are
// intentionally logged there.
func (s *EmailService) Configured() bool {
	return s.isDev || s.client != nil
}

// SendPackEmail mails the generated PDF as an attachment. Callers treat
// failures as non-fatal: the download link still works without email.
func (s *EmailService) SendPackEmail(ctx context.Context, email, topic, filename string, pdf []byte) error {
	subject, body := packEmailTemplate(topic, s.appName)

	if s.isDev {
		slog.Info("email sent (dev mode)", "type", "content_pack", "to", email, "subject", subject, "attachment", filename)
		return nil
	}

	if s.client == nil {
		return fmt.Errorf("email service not configured (missing RESEND_API_KEY)")
	}

	params := &resend.SendEmailRequest{
		From:    s.fromEmail,
		To:      []string{email},
		Subject: subject,
		Text:    body,
		Attachments: []*resend.Attachment{
			{
				Content:     pdf,
				Filename:    filename,
				ContentType: "application/pdf",
			},
		},
	}

	_, err := s.client.Emails.SendWithContext(ctx, params)
	if err == nil {
		slog.Info("email sent", "type", "content_pack", "to", email, "attachment", filename)
	}
	return err
}

// SubscribeAudience adds the address to the configured Resend audience.
// Errors are swallowed to prevent email enumeration; duplicates are
// expected and fine.
func (s *EmailService) SubscribeAudience(email string) error {
	if s.isDev {
		slog.Info("audience subscription (dev mode)", "email", email)
		return nil
	}

	if s.client == nil {
		return fmt.Errorf("email service not configured (missing RESEND_API_KEY)")
	}

	if s.audienceID == "" {
		slog.Warn("audience subscription requested but no audience configured", "email", email)
		return nil
	}

	params := &resend.CreateContactRequest{
		Email:      email,
		AudienceId: s.audienceID,
	}

	_, err := s.client.Contacts.Create(params)
	if err != nil {
		slog.Warn("audience subscription failed", "error", err, "email", email)
		return nil
	}

	slog.Info("audience subscription successful", "email", email)
	return nil
}
