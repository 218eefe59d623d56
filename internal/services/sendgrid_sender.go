package services

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

type SendGridConfig struct {
	APIKey   string
	From     string
	FromName string
}

type sendGridSender struct {
	cfg    SendGridConfig
	client *sendgrid.Client
}

func NewSendGridSender(cfg SendGridConfig) (MailSender, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("SENDGRID_API_KEY is not set")
	}
	return &sendGridSender{cfg: cfg, client: sendgrid.NewSendClient(cfg.APIKey)}, nil
}

// BuildSendGridMail converts msg to the SendGrid v3 payload.
func BuildSendGridMail(from, fromName string, msg MailMessage) *mail.SGMailV3 {
	m := mail.NewSingleEmail(
		mail.NewEmail(fromName, from),
		msg.Subject,
		mail.NewEmail(msg.ToName, msg.To),
		msg.TextBody,
		msg.HTMLBody,
	)
	for _, a := range msg.Attachments {
		att := mail.NewAttachment()
		att.SetContent(base64.StdEncoding.EncodeToString(a.Content))
		att.SetType(a.MimeType)
		att.SetFilename(a.Filename)
		att.SetDisposition("attachment")
		m.AddAttachment(att)
	}
	return m
}

// Send succeeds only on 202 Accepted.
func (s *sendGridSender) Send(ctx context.Context, msg MailMessage) error {
	resp, err := s.client.SendWithContext(ctx, BuildSendGridMail(s.cfg.From, s.cfg.FromName, msg))
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusAccepted {
		return fmt.Errorf("sendgrid returned status %d: %s", resp.StatusCode, resp.Body)
	}
	return nil
}
