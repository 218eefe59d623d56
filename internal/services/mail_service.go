// services/mail_service.go
package services

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	texttemplate "text/template"
	"time"

	"go.uber.org/zap"

	"recovery/internal/metrics"
	"recovery/pkg/utils"
)

// MaxAttachmentBytes is the largest file attached to an outgoing email.
const MaxAttachmentBytes = 10 << 20

type Attachment struct {
	Filename string
	MimeType string
	Content  []byte
}

type MailMessage struct {
	To          string
	ToName      string
	Subject     string
	HTMLBody    string
	TextBody    string
	Attachments []Attachment
}

// MailSender delivers a fully rendered message.
type MailSender interface {
	Send(ctx context.Context, msg MailMessage) error
}

type IMailService interface {
	SendWelcomeEmail(ctx context.Context, to string, name *string) error
	SendAccountCreated(ctx context.Context, to, name string) error
	SendSubscriptionConfirmed(ctx context.Context, to, name string) error
}

// AttachmentFile names a file under the downloads directory.
type AttachmentFile struct {
	Path     string
	Filename string
	MimeType string
}

var welcomeAttachments = []AttachmentFile{
	{Path: "welcome-guide.md", Filename: "Eyes-of-an-Addict-Welcome-Guide.md", MimeType: "text/markdown"},
	{Path: "daily-affirmations.md", Filename: "Daily-Recovery-Affirmations.md", MimeType: "text/markdown"},
	{Path: "milestone-tracker.md", Filename: "Recovery-Milestone-Tracker.md", MimeType: "text/markdown"},
}

type MailServiceConfig struct {
	AppName      string
	AppBaseURL   string
	DownloadsDir string
}

type mailService struct {
	cfg      MailServiceConfig
	sender   MailSender
	log      *zap.Logger
	htmlTpl  *template.Template
	textTpl  *texttemplate.Template
	maxBytes int64
}

func NewMailService(cfg MailServiceConfig, sender MailSender, log *zap.Logger) IMailService {
	return &mailService{
		cfg:      cfg,
		sender:   sender,
		log:      log,
		htmlTpl:  template.Must(template.New("html").Parse(baseHTMLTemplate)),
		textTpl:  texttemplate.Must(texttemplate.New("text").Parse(plainTextTemplate)),
		maxBytes: MaxAttachmentBytes,
	}
}

// ------------------- Public API -------------------

func (s *mailService) SendWelcomeEmail(ctx context.Context, to string, name *string) error {
	displayName := ""
	if name != nil {
		displayName = *name
	}

	msg, err := s.compose(to, displayName, "Welcome to Eyes of an Addict Recovery Community!", EmailData{
		Greeting: greeting(displayName),
		Title:    "Welcome to Eyes of an Addict!",
		Paragraphs: []string{
			"Thank you for joining the Eyes of an Addict recovery community. Every resource here is created from real recovery experience, by peers, for peers.",
			"Your free welcome package is attached: a welcome guide, thirty daily affirmations and a milestone tracker to celebrate your progress.",
			"Ready to go further? The 30-Day Recovery Journal offers personal progress tracking and a private dashboard for $19.99/month.",
			"Recovery is a journey, not a destination. One day at a time.",
		},
		ButtonURL: s.cfg.AppBaseURL + "/subscription/info",
		ButtonTxt: "Explore the Recovery Journal",
	})
	if err != nil {
		return err
	}
	msg.Attachments = s.loadAttachments(welcomeAttachments)
	return s.deliver(ctx, "welcome", msg)
}

func (s *mailService) SendAccountCreated(ctx context.Context, to, name string) error {
	msg, err := s.compose(to, name, "Your recovery journal account is ready", EmailData{
		Greeting: greeting(name),
		Title:    "Your account is ready",
		Paragraphs: []string{
			"Your account has been created. Start your subscription to unlock the 30-Day Recovery Journal and your personal dashboard.",
		},
		ButtonURL: s.cfg.AppBaseURL + "/subscription/checkout",
		ButtonTxt: "Start my journal",
	})
	if err != nil {
		return err
	}
	return s.deliver(ctx, "account_created", msg)
}

func (s *mailService) SendSubscriptionConfirmed(ctx context.Context, to, name string) error {
	msg, err := s.compose(to, name, "Your Recovery Journal subscription is active", EmailData{
		Greeting: greeting(name),
		Title:    "Welcome to the Recovery Journal",
		Paragraphs: []string{
			"Your payment was confirmed and your journal is unlocked. Day 1 is waiting for you on your dashboard.",
			"You can manage or cancel your subscription at any time from the dashboard.",
		},
		ButtonURL: s.cfg.AppBaseURL + "/dashboard",
		ButtonTxt: "Open my dashboard",
	})
	if err != nil {
		return err
	}
	return s.deliver(ctx, "subscription_confirmed", msg)
}

// ------------------- Rendering -------------------

type EmailData struct {
	Greeting   string
	Title      string
	Paragraphs []string
	ButtonURL  string
	ButtonTxt  string
	AppName    string
	Year       int
}

func greeting(name string) string {
	if name == "" {
		return "Hi there,"
	}
	return fmt.Sprintf("Hi %s,", name)
}

const baseHTMLTemplate = `<!doctype html>
<html>
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width,initial-scale=1">
  <title>{{.Title}}</title>
  <style>
    body { font-family: Arial, sans-serif; line-height: 1.6; color: #2c3e50; max-width: 600px; margin: 0 auto; }
    .header { background: linear-gradient(135deg, #4a90e2 0%, #27ae60 100%); color: white; padding: 20px; text-align: center; }
    .content { padding: 20px; }
    .button { background-color: #27ae60; color: white; padding: 12px 25px; text-decoration: none; border-radius: 5px; display: inline-block; margin: 10px 0; }
    .footer { background-color: #2c3e50; color: white; padding: 15px; text-align: center; font-size: 14px; }
  </style>
</head>
<body>
  <div class="header"><h1>{{.Title}}</h1></div>
  <div class="content">
    <p>{{.Greeting}}</p>
    {{range .Paragraphs}}<p>{{.}}</p>
    {{end}}
    {{if .ButtonURL}}<a class="button" href="{{.ButtonURL}}">{{.ButtonTxt}}</a>{{end}}
  </div>
  <div class="footer">© {{.Year}} {{.AppName}} - Recovery Community</div>
</body>
</html>`

const plainTextTemplate = `{{.Greeting}}

{{.Title}}
{{range .Paragraphs}}
{{.}}
{{end}}
{{if .ButtonURL}}{{.ButtonTxt}}: {{.ButtonURL}}
{{end}}
- {{.AppName}} (c) {{.Year}}
`

func (s *mailService) compose(to, name, subject string, data EmailData) (MailMessage, error) {
	data.AppName = s.cfg.AppName
	data.Year = time.Now().Year()

	var hb, tb bytes.Buffer
	if err := s.htmlTpl.Execute(&hb, data); err != nil {
		return MailMessage{}, err
	}
	if err := s.textTpl.Execute(&tb, data); err != nil {
		return MailMessage{}, err
	}
	return MailMessage{
		To:       to,
		ToName:   name,
		Subject:  subject,
		HTMLBody: hb.String(),
		TextBody: tb.String(),
	}, nil
}

// loadAttachments skips files that are missing, unreadable or too large.
func (s *mailService) loadAttachments(files []AttachmentFile) []Attachment {
	var out []Attachment
	for _, f := range files {
		path := filepath.Join(s.cfg.DownloadsDir, f.Path)
		info, err := os.Stat(path)
		if err != nil {
			s.log.Warn("attachment not found, skipping", zap.String("path", path), zap.Error(err))
			continue
		}
		if info.Size() > s.maxBytes {
			s.log.Warn("attachment too large, skipping", zap.String("path", path), zap.Int64("size", info.Size()))
			continue
		}
		content, err := os.ReadFile(path)
		if err != nil {
			s.log.Warn("attachment unreadable, skipping", zap.String("path", path), zap.Error(err))
			continue
		}
		out = append(out, Attachment{Filename: f.Filename, MimeType: f.MimeType, Content: content})
	}
	return out
}

func (s *mailService) deliver(ctx context.Context, kind string, msg MailMessage) error {
	if s.sender == nil {
		metrics.EmailsSent.WithLabelValues(kind, "failed").Inc()
		return fmt.Errorf("%w: no mail sender configured", utils.ErrNotificationFailed)
	}
	if err := s.sender.Send(ctx, msg); err != nil {
		metrics.EmailsSent.WithLabelValues(kind, "failed").Inc()
		return fmt.Errorf("%w: %v", utils.ErrNotificationFailed, err)
	}
	metrics.EmailsSent.WithLabelValues(kind, "sent").Inc()
	s.log.Info("email sent", zap.String("kind", kind), zap.String("to", msg.To), zap.Int("attachments", len(msg.Attachments)))
	return nil
}
