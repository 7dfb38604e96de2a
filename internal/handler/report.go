package handler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/csight/reportd/internal/model"
	"github.com/csight/reportd/internal/notification"
	"github.com/csight/reportd/internal/store"
)

// Report bodies carry base64 screenshots and CSV data.
const maxReportBytes = 25 << 20

type recipientGetter interface {
	Get(ctx context.Context, id int64) (model.Recipient, error)
}

type reportSender interface {
	Send(ctx context.Context, content notification.Content, recipient model.Recipient) error
}

// ReportHandler delivers report content to a stored recipient.
type ReportHandler struct {
	BaseHandler
	recipients recipientGetter
	notifier   reportSender
}

func NewReportHandler(logger *slog.Logger, recipients recipientGetter, notifier reportSender) *ReportHandler {
	return &ReportHandler{BaseHandler: BaseHandler{Logger: logger}, recipients: recipients, notifier: notifier}
}

// Email sends the report in the request body to the recipient named in the
// URL.
func (h *ReportHandler) Email(w http.ResponseWriter, r *http.Request) {
	id, err := readIDParam(r)
	if err != nil {
		h.badRequestResponse(w, r, err)
		return
	}

	var content notification.Content
	if err := h.readJSONLimit(w, r, &content, maxReportBytes); err != nil {
		h.badRequestResponse(w, r, err)
		return
	}

	recipient, err := h.recipients.Get(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		h.notFoundResponse(w, r)
		return
	} else if err != nil {
		h.serverErrorResponse(w, r, err)
		return
	}
	if recipient.Type != model.RecipientEmail {
		h.badRequestResponse(w, r, fmt.Errorf("recipient type %q is not supported", recipient.Type))
		return
	}

	if err := h.notifier.Send(r.Context(), content, recipient); err != nil {
		var ne *notification.NotificationError
		if !errors.As(err, &ne) {
			h.serverErrorResponse(w, r, err)
			return
		}
		h.Logger.Error("report: email failed", "recipient_id", id, "err", ne.Message)
		h.errorResponse(w, r, http.StatusBadGateway, ne.Message)
		return
	}

	if err := h.writeJSON(w, http.StatusAccepted, envelope{"status": "sent"}, nil); err != nil {
		h.logError(r, err)
	}
}
