package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// RecipientType names the channel a report is delivered through.
type RecipientType string

const (
	RecipientEmail RecipientType = "Email"
)

// ErrNoTarget is returned when a recipient config carries no target.
var ErrNoTarget = errors.New("recipient has no target")

// Recipient is a report recipient. Config is the raw recipient_config_json
// document, e.g. {"target": "a@example.org, b@example.org"}.
type Recipient struct {
	ID        int64           `json:"id"`
	Type      RecipientType   `json:"type"`
	Config    json.RawMessage `json:"recipient_config_json"`
	CreatedAt time.Time       `json:"created_at"`
}

// Target returns the address list stored under the config's "target" key.
func (r Recipient) Target() (string, error) {
	if len(r.Config) == 0 {
		return "", ErrNoTarget
	}
	var cfg struct {
		Target string `json:"target"`
	}
	if err := json.Unmarshal(r.Config, &cfg); err != nil {
		return "", fmt.Errorf("parse recipient config: %w", err)
	}
	if strings.TrimSpace(cfg.Target) == "" {
		return "", ErrNoTarget
	}
	return cfg.Target, nil
}
