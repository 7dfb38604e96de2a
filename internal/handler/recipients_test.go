package handler

import (
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func recipientRouter(h *RecipientHandler) http.Handler {
	r := chi.NewRouter()
	r.Get("/api/v1/recipients", h.List)
	r.Post("/api/v1/recipients", h.Create)
	r.Get("/api/v1/recipients/{id}", h.Get)
	r.Delete("/api/v1/recipients/{id}", h.Delete)
	return r
}

func TestRecipientCRUD(t *testing.T) {
	store := newMemRecipients()
	router := recipientRouter(NewRecipientHandler(discardLogger(), store))

	rec := doRequest(t, router, http.MethodGet, "/api/v1/recipients", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []any{}, decode(t, rec)["recipients"])

	rec = doRequest(t, router, http.MethodPost, "/api/v1/recipients",
		`{"type":"Email","recipient_config_json":{"target":"a@example.org"}}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, "/api/v1/recipients/101", rec.Header().Get("Location"))

	rec = doRequest(t, router, http.MethodGet, "/api/v1/recipients/101", "")
	require.Equal(t, http.StatusOK, rec.Code)
	recipient := decode(t, rec)["recipient"].(map[string]any)
	assert.Equal(t, "Email", recipient["type"])
	assert.Equal(t, map[string]any{"target": "a@example.org"}, recipient["recipient_config_json"])

	rec = doRequest(t, router, http.MethodDelete, "/api/v1/recipients/101", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = doRequest(t, router, http.MethodGet, "/api/v1/recipients/101", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	rec = doRequest(t, router, http.MethodDelete, "/api/v1/recipients/101", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRecipientCreateValidation(t *testing.T) {
	router := recipientRouter(NewRecipientHandler(discardLogger(), newMemRecipients()))

	cases := map[string]string{
		"missing target":   `{"type":"Email","recipient_config_json":{}}`,
		"unsupported type": `{"type":"Slack","recipient_config_json":{"target":"#x"}}`,
		"no config":        `{"type":"Email"}`,
		"unknown field":    `{"type":"Email","target":"a@example.org"}`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			rec := doRequest(t, router, http.MethodPost, "/api/v1/recipients", body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestRecipientInvalidID(t *testing.T) {
	router := recipientRouter(NewRecipientHandler(discardLogger(), newMemRecipients()))

	for _, path := range []string{"/api/v1/recipients/0", "/api/v1/recipients/x"} {
		rec := doRequest(t, router, http.MethodGet, path, "")
		assert.Equal(t, http.StatusBadRequest, rec.Code, path)
	}
}
