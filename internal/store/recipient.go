package store

import (
	"context"
	"encoding/json"
	"errors"

	dbpkg "github.com/csight/reportd/internal/db"
	"github.com/csight/reportd/internal/model"
)

type RecipientStore struct {
	q *dbpkg.Queries
}

func NewRecipientStore(db dbpkg.DBTX) *RecipientStore {
	return &RecipientStore{q: dbpkg.New(db)}
}

func (s *RecipientStore) List(ctx context.Context) ([]model.Recipient, error) {
	rows, err := s.q.ListRecipients(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]model.Recipient, len(rows))
	for i, row := range rows {
		out[i] = toRecipient(row)
	}
	return out, nil
}

func (s *RecipientStore) Get(ctx context.Context, id int64) (model.Recipient, error) {
	row, err := s.q.GetRecipient(ctx, id)
	if err != nil {
		return model.Recipient{}, notFound(err)
	}
	return toRecipient(row), nil
}

// Create stores a recipient. config must be a JSON object.
func (s *RecipientStore) Create(ctx context.Context, typ model.RecipientType, config json.RawMessage) (model.Recipient, error) {
	var obj map[string]any
	if err := json.Unmarshal(config, &obj); err != nil || obj == nil {
		return model.Recipient{}, errors.New("recipient config must be a JSON object")
	}
	row, err := s.q.CreateRecipient(ctx, dbpkg.CreateRecipientParams{
		Type:                string(typ),
		RecipientConfigJSON: config,
	})
	if err != nil {
		return model.Recipient{}, err
	}
	return toRecipient(row), nil
}

func (s *RecipientStore) Delete(ctx context.Context, id int64) error {
	n, err := s.q.DeleteRecipient(ctx, id)
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func toRecipient(row dbpkg.ReportRecipient) model.Recipient {
	return model.Recipient{
		ID:        row.ID,
		Type:      model.RecipientType(row.Type),
		Config:    json.RawMessage(row.RecipientConfigJSON),
		CreatedAt: row.CreatedAt,
	}
}
