package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joeshaw/envdecode"
	"github.com/joho/godotenv"
)

type LogConfig struct {
	Level string `env:"LOG_LEVEL,default=info"`
	Dev   bool   `env:"LOG_DEV,default=false"`
}

type StripeConfig struct {
	SecretKey   string `env:"STRIPE_SECRET_KEY"`
	PriceCents  int64  `env:"SUBSCRIPTION_PRICE_CENTS,default=1999"`
	Currency    string `env:"SUBSCRIPTION_CURRENCY,default=usd"`
	Interval    string `env:"SUBSCRIPTION_INTERVAL,default=month"`
	ProductName string `env:"SUBSCRIPTION_PRODUCT_NAME,default=30-Day Recovery Journal - Premium Subscription"`
}

type MailConfig struct {
	// "sendgrid" or "smtp"
	Provider       string `env:"MAIL_PROVIDER,default=sendgrid"`
	SendGridAPIKey string `env:"SENDGRID_API_KEY"`
	FromAddress    string `env:"MAIL_FROM_ADDRESS,default=info@eyesofanaddict.online"`
	FromName       string `env:"MAIL_FROM_NAME,default=D. Bailey - Eyes of an Addict"`

	SMTPHost     string `env:"SMTP_HOST,default=smtp.gmail.com"`
	SMTPPort     int    `env:"SMTP_PORT,default=587"`
	SMTPUsername string `env:"SMTP_USERNAME"`
	SMTPPassword string `env:"SMTP_PASSWORD"`
	SMTPUseSSL   bool   `env:"SMTP_USE_SSL,default=false"`

	DownloadsDir string `env:"DOWNLOADS_DIR,default=static/downloads"`
}

type RateLimitConfig struct {
	RequestsPerSecond float64       `env:"RATE_LIMIT_RPS,default=1"`
	Burst             int           `env:"RATE_LIMIT_BURST,default=5"`
	IdleTTL           time.Duration `env:"RATE_LIMIT_IDLE_TTL,default=10m"`
}

type Config struct {
	Port        string        `env:"PORT,default=8080"`
	DatabaseURL string        `env:"POSTGRES_URL"`
	JWTSecret   string        `env:"JWT_SECRET"`
	TokenTTL    time.Duration `env:"JWT_TTL,default=24h"`
	AppName     string        `env:"APP_NAME,default=Eyes of an Addict"`
	AppBaseURL  string        `env:"APP_BASE_URL,default=http://localhost:8080"`
	CORSOrigins string        `env:"CORS_ORIGINS,default=http://localhost:5000"`

	// comma separated; these addresses get the owner role on registration
	OwnerEmails   string        `env:"OWNER_EMAILS"`
	SecureCookies bool          `env:"SECURE_COOKIES,default=false"`
	LoginPath     string        `env:"LOGIN_PATH,default=/login"`
	ShutdownGrace time.Duration `env:"SHUTDOWN_GRACE,default=10s"`

	SubscriptionSyncSchedule string `env:"SUBSCRIPTION_SYNC_SCHEDULE,default=@every 6h"`

	Log       LogConfig
	Stripe    StripeConfig
	Mail      MailConfig
	RateLimit RateLimitConfig
}

// Load reads .env (if present) and then the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envdecode.Decode(&cfg); err != nil && !errors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
		return nil, fmt.Errorf("decode env: %w", err)
	}

	cfg.AppBaseURL = strings.TrimRight(cfg.AppBaseURL, "/")
	if cfg.DatabaseURL == "" {
		return nil, errors.New("POSTGRES_URL is required")
	}
	if cfg.JWTSecret == "" {
		return nil, errors.New("JWT_SECRET is required")
	}
	return &cfg, nil
}

func (c *Config) AllowedOrigins() []string {
	return splitList(c.CORSOrigins)
}

// Owners lists OWNER_EMAILS; matched against registrations exactly as given.
func (c *Config) Owners() []string {
	return splitList(c.OwnerEmails)
}

func splitList(raw string) []string {
	var out []string
	for _, o := range strings.Split(raw, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}
