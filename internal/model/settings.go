package model

// SMTPSettings are the operator-editable mail settings persisted by the
// settings store. Fields left empty fall back to environment configuration.
type SMTPSettings struct {
	Host        string `json:"smtpHost"`
	Port        int    `json:"smtpPort"`
	User        string `json:"smtpUser"`
	Password    string `json:"smtpPass"`
	FromAddress string `json:"smtpFromAddress"`
	FromName    string `json:"smtpFromName"`
	StartTLS    bool   `json:"smtpStartTls"`
	SSL         bool   `json:"smtpSsl"`
	DryRun      bool   `json:"dryRun"`
}

// RedactedPassword replaces the password in API responses.
const RedactedPassword = "********"

// Redacted returns a copy safe to hand to API clients.
func (s SMTPSettings) Redacted() SMTPSettings {
	if s.Password != "" {
		s.Password = RedactedPassword
	}
	return s
}
