package mailer

import "github.com/csight/reportd/internal/model"

// FromSettings builds a mailer config from stored SMTP settings.
func FromSettings(s model.SMTPSettings) *Config {
	return &Config{
		Host:     s.Host,
		Port:     s.Port,
		User:     s.User,
		Password: s.Password,
		From:     s.FromAddress,
		FromName: s.FromName,
		StartTLS: s.StartTLS && !s.SSL,
		SSL:      s.SSL,
		DryRun:   s.DryRun,
	}
}
