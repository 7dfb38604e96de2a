package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/csight/reportd/internal/model"
	"github.com/csight/reportd/internal/store"
)

type recipientStore interface {
	List(ctx context.Context) ([]model.Recipient, error)
	Get(ctx context.Context, id int64) (model.Recipient, error)
	Create(ctx context.Context, typ model.RecipientType, config json.RawMessage) (model.Recipient, error)
	Delete(ctx context.Context, id int64) error
}

// RecipientHandler manages report recipients.
type RecipientHandler struct {
	BaseHandler
	recipients recipientStore
}

func NewRecipientHandler(logger *slog.Logger, recipients recipientStore) *RecipientHandler {
	return &RecipientHandler{BaseHandler: BaseHandler{Logger: logger}, recipients: recipients}
}

func (h *RecipientHandler) List(w http.ResponseWriter, r *http.Request) {
	recipients, err := h.recipients.List(r.Context())
	if err != nil {
		h.serverErrorResponse(w, r, err)
		return
	}
	if recipients == nil {
		recipients = []model.Recipient{}
	}
	if err := h.writeJSON(w, http.StatusOK, envelope{"recipients": recipients}, nil); err != nil {
		h.serverErrorResponse(w, r, err)
	}
}

func (h *RecipientHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := readIDParam(r)
	if err != nil {
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
	if err := h.writeJSON(w, http.StatusOK, envelope{"recipient": recipient}, nil); err != nil {
		h.serverErrorResponse(w, r, err)
	}
}

func (h *RecipientHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Type   model.RecipientType `json:"type"`
		Config json.RawMessage     `json:"recipient_config_json"`
	}
	if err := h.readJSON(w, r, &input); err != nil {
		h.badRequestResponse(w, r, err)
		return
	}
	if input.Type == "" {
		input.Type = model.RecipientEmail
	}
	if input.Type != model.RecipientEmail {
		h.badRequestResponse(w, r, fmt.Errorf("recipient type %q is not supported", input.Type))
		return
	}
	probe := model.Recipient{Type: input.Type, Config: input.Config}
	if _, err := probe.Target(); err != nil {
		h.badRequestResponse(w, r, err)
		return
	}

	recipient, err := h.recipients.Create(r.Context(), input.Type, input.Config)
	if err != nil {
		h.serverErrorResponse(w, r, err)
		return
	}

	headers := make(http.Header)
	headers.Set("Location", fmt.Sprintf("/api/v1/recipients/%d", recipient.ID))
	if err := h.writeJSON(w, http.StatusCreated, envelope{"recipient": recipient}, headers); err != nil {
		h.serverErrorResponse(w, r, err)
	}
}

func (h *RecipientHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := readIDParam(r)
	if err != nil {
		h.badRequestResponse(w, r, err)
		return
	}
	err = h.recipients.Delete(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		h.notFoundResponse(w, r)
		return
	} else if err != nil {
		h.serverErrorResponse(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
