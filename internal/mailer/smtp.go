package mailer

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/mail"
	"net/smtp"
	"strconv"
	"strings"
	"sync"
	"time"
)

const dialTimeout = 30 * time.Second

// ErrNoRecipients is returned when a message has no usable recipient.
var ErrNoRecipients = errors.New("mailer: no recipients")

// Config holds SMTP connection and sender settings.
type Config struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
	FromName string
	StartTLS bool
	SSL      bool
	DryRun   bool
}

func (c Config) fromHeader() string {
	if c.FromName == "" {
		return c.From
	}
	return (&mail.Address{Name: c.FromName, Address: c.From}).String()
}

// Message is a single-part email, used for test and operator messages.
type Message struct {
	To      []string
	Subject string
	Body    string
	IsHTML  bool
}

// Mailer sends emails via SMTP.
type Mailer struct {
	mu  sync.RWMutex
	cfg *Config

	// sendFn replaces SMTP delivery in tests.
	sendFn func(ctx context.Context, from string, to []string, msg []byte) error
	now    func() time.Time
}

// New returns a Mailer using cfg. Call Reconfigure to swap settings at runtime.
func New(cfg *Config) *Mailer {
	return &Mailer{cfg: cfg, now: time.Now}
}

// Reconfigure updates the mailer with new settings.
func (m *Mailer) Reconfigure(cfg *Config) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cfg = cfg
}

// From returns the configured sender address, or "" when unconfigured.
func (m *Mailer) From() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.cfg == nil {
		return ""
	}
	return m.cfg.From
}

func (m *Mailer) config() (Config, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.cfg == nil {
		return Config{}, errors.New("mailer: not configured")
	}
	return *m.cfg, nil
}

// Send sends a single-part message.
func (m *Mailer) Send(ctx context.Context, msg Message) error {
	cfg, err := m.config()
	if err != nil {
		return err
	}
	to, err := splitAddresses(msg.To...)
	if err != nil {
		return err
	}
	msg.To = to
	return m.deliver(ctx, cfg, to, []byte(m.formatMessage(cfg, msg)))
}

// SendReport sends a multipart/related report email with inline images and
// attachments.
func (m *Mailer) SendReport(ctx context.Context, r Report) error {
	cfg, err := m.config()
	if err != nil {
		return err
	}
	to, err := splitAddresses(r.To...)
	if err != nil {
		return err
	}
	r.To = to

	raw, err := buildReport(cfg, r, m.now())
	if err != nil {
		return fmt.Errorf("mailer: build message: %w", err)
	}
	return m.deliver(ctx, cfg, to, raw)
}

// Ping opens an SMTP session, authenticates and quits without sending.
func (m *Mailer) Ping(ctx context.Context) error {
	cfg, err := m.config()
	if err != nil {
		return err
	}
	if cfg.DryRun {
		return nil
	}
	c, err := dial(ctx, cfg)
	if err != nil {
		return err
	}
	defer c.Close()
	if err := c.Noop(); err != nil {
		return fmt.Errorf("mailer: noop: %w", err)
	}
	return c.Quit()
}

func (m *Mailer) formatMessage(cfg Config, msg Message) string {
	contentType := "text/plain; charset=UTF-8"
	if msg.IsHTML {
		contentType = "text/html; charset=UTF-8"
	}
	return fmt.Sprintf(
		"From: %s\r\nTo: %s\r\nSubject: %s\r\nDate: %s\r\nMIME-Version: 1.0\r\nContent-Type: %s\r\n\r\n%s",
		cfg.fromHeader(), strings.Join(msg.To, ", "), encodeHeader(msg.Subject),
		m.now().Format(time.RFC1123Z), contentType, msg.Body,
	)
}

func (m *Mailer) deliver(ctx context.Context, cfg Config, to []string, msg []byte) error {
	if m.sendFn != nil {
		return m.sendFn(ctx, cfg.From, to, msg)
	}
	if cfg.DryRun {
		slog.Info("mailer: dry run, message not sent", "to", to, "bytes", len(msg))
		return nil
	}

	c, err := dial(ctx, cfg)
	if err != nil {
		return err
	}
	defer c.Close()

	if err := c.Mail(cfg.From); err != nil {
		return fmt.Errorf("mailer: MAIL FROM: %w", err)
	}
	var rejected []error
	for _, rcpt := range to {
		if err := c.Rcpt(rcpt); err != nil {
			rejected = append(rejected, fmt.Errorf("mailer: RCPT TO %s: %w", rcpt, err))
		}
	}
	if len(rejected) > 0 {
		_ = c.Reset()
		return errors.Join(rejected...)
	}
	w, err := c.Data()
	if err != nil {
		return fmt.Errorf("mailer: DATA: %w", err)
	}
	if _, err := w.Write(msg); err != nil {
		return fmt.Errorf("mailer: write body: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("mailer: end DATA: %w", err)
	}
	slog.Debug("mailer: message sent", "to", to, "bytes", len(msg))
	return c.Quit()
}

func dial(ctx context.Context, cfg Config) (*smtp.Client, error) {
	addr := net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port))
	d := &net.Dialer{Timeout: dialTimeout}

	var conn net.Conn
	var err error
	if cfg.SSL {
		td := &tls.Dialer{NetDialer: d, Config: &tls.Config{ServerName: cfg.Host}}
		conn, err = td.DialContext(ctx, "tcp", addr)
	} else {
		conn, err = d.DialContext(ctx, "tcp", addr)
	}
	if err != nil {
		return nil, fmt.Errorf("mailer: dial %s: %w", addr, err)
	}
	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}

	c, err := smtp.NewClient(conn, cfg.Host)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("mailer: handshake: %w", err)
	}

	if !cfg.SSL && cfg.StartTLS {
		if ok, _ := c.Extension("STARTTLS"); ok {
			if err := c.StartTLS(&tls.Config{ServerName: cfg.Host}); err != nil {
				c.Close()
				return nil, fmt.Errorf("mailer: starttls: %w", err)
			}
		}
	}

	if cfg.User != "" {
		if ok, _ := c.Extension("AUTH"); ok {
			if err := c.Auth(smtp.PlainAuth("", cfg.User, cfg.Password, cfg.Host)); err != nil {
				c.Close()
				return nil, fmt.Errorf("mailer: auth: %w", err)
			}
		}
	}
	return c, nil
}

// splitAddresses flattens comma or semicolon separated recipient lists and
// validates each address.
func splitAddresses(lists ...string) ([]string, error) {
	var out []string
	for _, list := range lists {
		for _, part := range strings.FieldsFunc(list, func(r rune) bool { return r == ',' || r == ';' }) {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			addr, err := mail.ParseAddress(part)
			if err != nil {
				return nil, fmt.Errorf("mailer: invalid recipient %q: %w", part, err)
			}
			out = append(out, addr.Address)
		}
	}
	if len(out) == 0 {
		return nil, ErrNoRecipients
	}
	return out, nil
}
