package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/csight/reportd/internal/mailer"
	"github.com/csight/reportd/internal/model"
)

type settingsStore interface {
	Load(ctx context.Context) (*model.SMTPSettings, error)
	Save(ctx context.Context, settings *model.SMTPSettings) error
}

type liveMailer interface {
	Reconfigure(cfg *mailer.Config)
	Ping(ctx context.Context) error
	Send(ctx context.Context, msg mailer.Message) error
}

// SettingsHandler serves the stored SMTP settings.
type SettingsHandler struct {
	BaseHandler
	settings settingsStore
	mailer   liveMailer
}

func NewSettingsHandler(logger *slog.Logger, settings settingsStore, m liveMailer) *SettingsHandler {
	return &SettingsHandler{BaseHandler: BaseHandler{Logger: logger}, settings: settings, mailer: m}
}

// Get returns the current settings as JSON (with secrets masked).
func (h *SettingsHandler) Get(w http.ResponseWriter, r *http.Request) {
	s, err := h.settings.Load(r.Context())
	if err != nil {
		h.serverErrorResponse(w, r, err)
		return
	}

	if err := h.writeJSON(w, http.StatusOK, s.Redacted(), nil); err != nil {
		h.serverErrorResponse(w, r, err)
	}
}

// Update saves updated settings and applies them to the live mailer. An
// empty or masked password keeps the stored one.
func (h *SettingsHandler) Update(w http.ResponseWriter, r *http.Request) {
	s := &model.SMTPSettings{}
	if err := h.readJSON(w, r, s); err != nil {
		h.badRequestResponse(w, r, err)
		return
	}
	if err := validateSettings(s); err != nil {
		h.badRequestResponse(w, r, err)
		return
	}

	if s.Password == "" || s.Password == model.RedactedPassword {
		current, err := h.settings.Load(r.Context())
		if err != nil {
			h.serverErrorResponse(w, r, err)
			return
		}
		s.Password = current.Password
	}

	if err := h.settings.Save(r.Context(), s); err != nil {
		h.serverErrorResponse(w, r, err)
		return
	}
	h.mailer.Reconfigure(mailer.FromSettings(*s))
	h.Logger.Info("settings: smtp settings updated", "host", s.Host, "port", s.Port)

	if err := h.writeJSON(w, http.StatusOK, s.Redacted(), nil); err != nil {
		h.serverErrorResponse(w, r, err)
	}
}

// Test checks the live SMTP settings. With a "to" address it sends a test
// email; without one it only opens and authenticates a session.
func (h *SettingsHandler) Test(w http.ResponseWriter, r *http.Request) {
	var input struct {
		To string `json:"to"`
	}
	if r.ContentLength != 0 {
		if err := h.readJSON(w, r, &input); err != nil {
			h.badRequestResponse(w, r, err)
			return
		}
	}

	var err error
	if strings.TrimSpace(input.To) == "" {
		err = h.mailer.Ping(r.Context())
	} else {
		err = h.mailer.Send(r.Context(), mailer.Message{
			To:      []string{input.To},
			Subject: "Test Email",
			Body:    "This is a test email from reportd.",
		})
	}
	if err != nil {
		h.Logger.Error("settings: test email failed", "err", err)
		h.errorResponse(w, r, http.StatusBadGateway, "send failed: "+err.Error())
		return
	}

	if err := h.writeJSON(w, http.StatusOK, envelope{"status": "ok"}, nil); err != nil {
		h.logError(r, err)
	}
}

func validateSettings(s *model.SMTPSettings) error {
	if strings.TrimSpace(s.Host) == "" {
		return errors.New("smtpHost is required")
	}
	if s.Port < 1 || s.Port > 65535 {
		return errors.New("smtpPort must be between 1 and 65535")
	}
	if !strings.Contains(s.FromAddress, "@") {
		return errors.New("smtpFromAddress must be an email address")
	}
	return nil
}
