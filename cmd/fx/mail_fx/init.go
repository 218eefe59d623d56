package mail_fx

import (
	"go.uber.org/fx"
	"go.uber.org/zap"

	"recovery/internal/config"
	"recovery/internal/services"
)

var Module = fx.Provide(provideMailSender, provideMailService)

// provideMailSender returns nil when the provider is not configured; every
// send then fails as a notification error and the triggering action proceeds.
func provideMailSender(cfg *config.Config, log *zap.Logger) services.MailSender {
	m := cfg.Mail
	switch m.Provider {
	case "smtp":
		return services.NewSMTPSender(services.SMTPConfig{
			Host:       m.SMTPHost,
			Port:       m.SMTPPort,
			Username:   m.SMTPUsername,
			Password:   m.SMTPPassword,
			From:       m.FromAddress,
			FromName:   m.FromName,
			UseSSL:     m.SMTPUseSSL,
			RequireTLS: !m.SMTPUseSSL,
		})
	case "sendgrid":
		sender, err := services.NewSendGridSender(services.SendGridConfig{
			APIKey:   m.SendGridAPIKey,
			From:     m.FromAddress,
			FromName: m.FromName,
		})
		if err != nil {
			log.Warn("sendgrid disabled, emails will not be sent", zap.Error(err))
			return nil
		}
		return sender
	default:
		log.Warn("unknown mail provider, emails will not be sent", zap.String("provider", m.Provider))
		return nil
	}
}

func provideMailService(cfg *config.Config, sender services.MailSender, log *zap.Logger) services.IMailService {
	return services.NewMailService(services.MailServiceConfig{
		AppName:      cfg.AppName,
		AppBaseURL:   cfg.AppBaseURL,
		DownloadsDir: cfg.Mail.DownloadsDir,
	}, sender, log)
}
