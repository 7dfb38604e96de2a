package store

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/csight/reportd/internal/model"
)

var recipientColumns = []string{"id", "type", "recipient_config_json", "created_at"}

func newMock(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return mock
}

func TestRecipientStoreList(t *testing.T) {
	mock := newMock(t)
	created := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery("SELECT id, type, recipient_config_json, created_at").
		WillReturnRows(mock.NewRows(recipientColumns).
			AddRow(int64(1), "Email", []byte(`{"target":"a@example.org"}`), created).
			AddRow(int64(2), "Email", []byte(`{"target":"b@example.org"}`), created))

	recipients, err := NewRecipientStore(mock).List(context.Background())
	require.NoError(t, err)

	require.Len(t, recipients, 2)
	assert.Equal(t, int64(1), recipients[0].ID)
	assert.Equal(t, model.RecipientEmail, recipients[0].Type)
	assert.JSONEq(t, `{"target":"b@example.org"}`, string(recipients[1].Config))
	assert.Equal(t, created, recipients[1].CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecipientStoreGet(t *testing.T) {
	mock := newMock(t)
	mock.ExpectQuery("FROM report_recipients").
		WithArgs(int64(7)).
		WillReturnRows(mock.NewRows(recipientColumns).
			AddRow(int64(7), "Email", []byte(`{"target":"a@example.org"}`), time.Now()))

	r, err := NewRecipientStore(mock).Get(context.Background(), 7)
	require.NoError(t, err)

	target, err := r.Target()
	require.NoError(t, err)
	assert.Equal(t, "a@example.org", target)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecipientStoreGetNotFound(t *testing.T) {
	mock := newMock(t)
	mock.ExpectQuery("FROM report_recipients").
		WithArgs(int64(9)).
		WillReturnError(pgx.ErrNoRows)

	_, err := NewRecipientStore(mock).Get(context.Background(), 9)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecipientStoreCreate(t *testing.T) {
	mock := newMock(t)
	config := json.RawMessage(`{"target":"a@example.org"}`)
	mock.ExpectQuery("INSERT INTO report_recipients").
		WithArgs("Email", []byte(config)).
		WillReturnRows(mock.NewRows(recipientColumns).
			AddRow(int64(3), "Email", []byte(config), time.Now()))

	r, err := NewRecipientStore(mock).Create(context.Background(), model.RecipientEmail, config)
	require.NoError(t, err)
	assert.Equal(t, int64(3), r.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecipientStoreCreateRejectsNonObject(t *testing.T) {
	mock := newMock(t)
	store := NewRecipientStore(mock)

	for _, raw := range []string{`"a@example.org"`, `[1]`, `null`, `{`} {
		_, err := store.Create(context.Background(), model.RecipientEmail, json.RawMessage(raw))
		assert.Error(t, err, "config %s", raw)
	}
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecipientStoreDelete(t *testing.T) {
	mock := newMock(t)
	mock.ExpectExec("DELETE FROM report_recipients").
		WithArgs(int64(3)).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))
	mock.ExpectExec("DELETE FROM report_recipients").
		WithArgs(int64(4)).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))
	mock.ExpectExec("DELETE FROM report_recipients").
		WithArgs(int64(5)).
		WillReturnError(errors.New("connection reset"))

	store := NewRecipientStore(mock)
	assert.NoError(t, store.Delete(context.Background(), 3))
	assert.ErrorIs(t, store.Delete(context.Background(), 4), ErrNotFound)
	assert.EqualError(t, store.Delete(context.Background(), 5), "connection reset")
	assert.NoError(t, mock.ExpectationsWereMet())
}
