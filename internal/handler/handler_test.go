package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/csight/reportd/internal/mailer"
	"github.com/csight/reportd/internal/model"
	"github.com/csight/reportd/internal/notification"
	"github.com/csight/reportd/internal/store"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func doRequest(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

type memRecipients struct {
	items  map[int64]model.Recipient
	nextID int64
	err    error
}

func newMemRecipients(rs ...model.Recipient) *memRecipients {
	m := &memRecipients{items: map[int64]model.Recipient{}, nextID: 100}
	for _, r := range rs {
		m.items[r.ID] = r
	}
	return m
}

func (m *memRecipients) List(context.Context) ([]model.Recipient, error) {
	if m.err != nil {
		return nil, m.err
	}
	var out []model.Recipient
	for _, r := range m.items {
		out = append(out, r)
	}
	return out, nil
}

func (m *memRecipients) Get(_ context.Context, id int64) (model.Recipient, error) {
	if m.err != nil {
		return model.Recipient{}, m.err
	}
	r, ok := m.items[id]
	if !ok {
		return model.Recipient{}, store.ErrNotFound
	}
	return r, nil
}

func (m *memRecipients) Create(_ context.Context, typ model.RecipientType, cfg json.RawMessage) (model.Recipient, error) {
	if m.err != nil {
		return model.Recipient{}, m.err
	}
	m.nextID++
	r := model.Recipient{ID: m.nextID, Type: typ, Config: cfg}
	m.items[r.ID] = r
	return r, nil
}

func (m *memRecipients) Delete(_ context.Context, id int64) error {
	if _, ok := m.items[id]; !ok {
		return store.ErrNotFound
	}
	delete(m.items, id)
	return nil
}

func emailRecipient(id int64, target string) model.Recipient {
	cfg, _ := json.Marshal(map[string]string{"target": target})
	return model.Recipient{ID: id, Type: model.RecipientEmail, Config: cfg}
}

type fakeSender struct {
	content   notification.Content
	recipient model.Recipient
	err       error
	calls     int
}

func (f *fakeSender) Send(_ context.Context, c notification.Content, r model.Recipient) error {
	f.calls++
	f.content = c
	f.recipient = r
	return f.err
}

type fakeMailer struct {
	cfg    *mailer.Config
	sent   []mailer.Message
	pinged int
	err    error
}

func (f *fakeMailer) Reconfigure(cfg *mailer.Config) { f.cfg = cfg }

func (f *fakeMailer) Ping(context.Context) error {
	f.pinged++
	return f.err
}

func (f *fakeMailer) Send(_ context.Context, msg mailer.Message) error {
	f.sent = append(f.sent, msg)
	return f.err
}

type memSettings struct {
	current *model.SMTPSettings
	saved   *model.SMTPSettings
}

func (m *memSettings) Load(context.Context) (*model.SMTPSettings, error) {
	s := *m.current
	return &s, nil
}

func (m *memSettings) Save(_ context.Context, s *model.SMTPSettings) error {
	copied := *s
	m.saved = &copied
	m.current = &copied
	return nil
}

type pingFunc func(context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

func TestHealth(t *testing.T) {
	cases := []struct {
		name     string
		db       pinger
		code     int
		status   string
		database string
	}{
		{"no database", nil, http.StatusOK, "ok", "disabled"},
		{"database up", pingFunc(func(context.Context) error { return nil }), http.StatusOK, "ok", "ok"},
		{"database down", pingFunc(func(context.Context) error { return errors.New("down") }), http.StatusServiceUnavailable, "degraded", "unreachable"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := doRequest(t, Health(tc.db), http.MethodGet, "/api/health", "")
			assert.Equal(t, tc.code, rec.Code)
			body := decode(t, rec)
			assert.Equal(t, tc.status, body["status"])
			assert.Equal(t, tc.database, body["database"])
		})
	}
}

func TestReadJSONErrors(t *testing.T) {
	h := &BaseHandler{Logger: discardLogger()}
	cases := []struct {
		body string
		want string
	}{
		{"", "body must not be empty"},
		{`{"a":`, "body contains badly-formed JSON"},
		{`{"a" 1}`, "badly-formed JSON (at character"},
		{`{"to":1}`, `incorrect JSON type for field "to"`},
		{`{"to":"x"}{"to":"y"}`, "single JSON value"},
		{`{"nope":"x"}`, "unknown field"},
	}

	for _, tc := range cases {
		var dst struct {
			To string `json:"to"`
		}
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tc.body))
		err := h.readJSON(httptest.NewRecorder(), req, &dst)
		require.Error(t, err, tc.body)
		assert.Contains(t, err.Error(), tc.want, tc.body)
	}
}

func withID(handler http.HandlerFunc, method, pattern string) http.Handler {
	r := chi.NewRouter()
	r.Method(method, pattern, handler)
	return r
}
