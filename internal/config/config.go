package config

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	// Server
	Port string
	Env  string // development, production

	// Database
	DatabaseURL string

	// Security
	SettingsEncryptionKey string
	AdminToken            string
	TrustProxy            bool // honour X-Forwarded-For / X-Real-IP

	// SMTP
	SMTPHost     string
	SMTPPort     int
	SMTPUser     string
	SMTPPassword string
	SMTPStartTLS bool
	SMTPSSL      bool
	SMTPMailFrom string
	EmailDryRun  bool

	// Report emails
	EmailReportsCTA          string
	EmailReportsCTAURL       string
	EmailReportSubjectPrefix string
	AlertTitlePrefix         string

	// Onboarding
	Onboard struct {
		CsightKey             string
		DoraKey               string
		ValueStreamKey        string
		OperationalMetricsKey string
		RatePerMinute         int
	}
}

func Load() (*Config, error) {
	// Load .env file if it exists (don't error if missing)
	_ = godotenv.Load()

	cfg := &Config{}

	flag.StringVar(&cfg.Port, "port", getEnv("PORT", "8080"), "Server port")
	flag.StringVar(&cfg.Env, "env", getEnv("ENV", "development"), "Environment (development, production)")
	flag.StringVar(&cfg.DatabaseURL, "database-url", getEnv("DATABASE_URL", ""), "PostgreSQL connection string")
	flag.BoolVar(&cfg.EmailDryRun, "dry-run", getEnvBool("EMAIL_DRYRUN", false), "Log emails instead of sending them")

	cfg.SettingsEncryptionKey = getEnv("SETTINGS_ENCRYPTION_KEY", "")
	cfg.AdminToken = getEnv("ADMIN_TOKEN", "")
	cfg.TrustProxy = getEnvBool("TRUST_PROXY", false)

	cfg.SMTPHost = getEnv("SMTP_HOST", "localhost")
	cfg.SMTPPort = getEnvInt("SMTP_PORT", 25)
	cfg.SMTPUser = getEnv("SMTP_USER", "")
	cfg.SMTPPassword = getEnv("SMTP_PASSWORD", "")
	cfg.SMTPStartTLS = getEnvBool("SMTP_STARTTLS", true)
	cfg.SMTPSSL = getEnvBool("SMTP_SSL", false)
	cfg.SMTPMailFrom = getEnv("SMTP_MAIL_FROM", "superset@superset.com")

	cfg.EmailReportsCTA = getEnv("EMAIL_REPORTS_CTA", "Explore in Superset")
	cfg.EmailReportsCTAURL = getEnv("EMAIL_REPORTS_CTA_URL", "")
	cfg.EmailReportSubjectPrefix = getEnv("EMAIL_REPORT_SUBJECT_PREFIX", "[Report] ")
	cfg.AlertTitlePrefix = getEnv("ALERT_TITLE_PREFIX", "[Alert] ")

	cfg.Onboard.CsightKey = getEnv("ONBOARD_CSIGHT_KEY", "")
	cfg.Onboard.DoraKey = getEnv("ONBOARD_DORA_KEY", "")
	cfg.Onboard.ValueStreamKey = getEnv("ONBOARD_VALUESTREAM_KEY", "")
	cfg.Onboard.OperationalMetricsKey = getEnv("ONBOARD_OPERATIONALMETRICS_KEY", "")
	cfg.Onboard.RatePerMinute = getEnvInt("ONBOARD_RATE_PER_MINUTE", 10)

	flag.Parse()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.DatabaseURL != "" && len(c.SettingsEncryptionKey) < 32 {
		return fmt.Errorf("SETTINGS_ENCRYPTION_KEY must be at least 32 characters when DATABASE_URL is set")
	}

	if c.SMTPPort <= 0 || c.SMTPPort > 65535 {
		return fmt.Errorf("SMTP_PORT must be between 1 and 65535, got %d", c.SMTPPort)
	}

	if c.SMTPSSL && c.SMTPStartTLS && c.SMTPPort == 465 {
		// Implicit TLS wins; STARTTLS is never offered on 465.
		c.SMTPStartTLS = false
	}

	if !strings.Contains(c.SMTPMailFrom, "@") {
		return fmt.Errorf("SMTP_MAIL_FROM must be an email address, got %q", c.SMTPMailFrom)
	}

	if c.Onboard.RatePerMinute <= 0 {
		return fmt.Errorf("ONBOARD_RATE_PER_MINUTE must be positive")
	}
	return nil
}

func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if val := os.Getenv(key); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			return b
		}
	}
	return fallback
}
