package notification

import (
	"context"
	"log/slog"
	"time"

	"github.com/csight/reportd/internal/mailer"
	"github.com/csight/reportd/internal/model"
)

// Transport delivers a rendered report email. *mailer.Mailer satisfies it.
type Transport interface {
	SendReport(ctx context.Context, r mailer.Report) error
}

// Sender reports the live envelope sender. When the transport implements it,
// content ids follow sender changes made after startup.
type Sender interface {
	From() string
}

// Notifier sends report content to an email recipient.
type Notifier struct {
	transport Transport
	composer  *Composer
	opts      Options
	metrics   *Metrics
	logger    *slog.Logger
}

// NewNotifier returns a Notifier. metrics may be nil.
func NewNotifier(transport Transport, opts Options, metrics *Metrics, logger *slog.Logger) *Notifier {
	if logger == nil {
		logger = slog.Default()
	}
	composer := NewComposer(opts)
	if s, ok := transport.(Sender); ok {
		composer.sender = s.From
	}
	return &Notifier{
		transport: transport,
		composer:  composer,
		opts:      opts,
		metrics:   metrics,
		logger:    logger,
	}
}

// Send renders content and delivers it to the recipient's target addresses.
// Any failure is returned as a *NotificationError.
func (n *Notifier) Send(ctx context.Context, content Content, recipient model.Recipient) (err error) {
	start := time.Now()
	defer func() { n.metrics.observe(start, err) }()

	n.logger.Debug("deriving email subject", "name", content.Name)
	subject := Subject(content.Name, n.opts)

	email, err := n.composer.Compose(content)
	if err != nil {
		return wrap(err)
	}
	to, err := recipient.Target()
	if err != nil {
		return wrap(err)
	}

	images := make([]mailer.Inline, len(email.Images))
	for i, img := range email.Images {
		images[i] = mailer.Inline{ContentID: img.ContentID, Data: img.Data}
	}
	report := mailer.Report{
		To:          []string{to},
		Subject:     subject,
		HTMLBody:    email.Body,
		Attachments: email.Data,
		Images:      images,
		Headers:     email.HeaderData.Headers(),
	}
	if err := n.transport.SendReport(ctx, report); err != nil {
		return wrap(err)
	}

	n.logger.Info("report sent to email", "recipient_id", recipient.ID, "header_data", email.HeaderData)
	return nil
}
