package db

import (
	"context"
	"time"
)

type ReportRecipient struct {
	ID                  int64
	Type                string
	RecipientConfigJSON []byte
	CreatedAt           time.Time
}

const listRecipients = `-- name: ListRecipients :many
SELECT id, type, recipient_config_json, created_at
FROM report_recipients
ORDER BY id
`

func (q *Queries) ListRecipients(ctx context.Context) ([]ReportRecipient, error) {
	rows, err := q.db.Query(ctx, listRecipients)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []ReportRecipient
	for rows.Next() {
		var i ReportRecipient
		if err := rows.Scan(&i.ID, &i.Type, &i.RecipientConfigJSON, &i.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const getRecipient = `-- name: GetRecipient :one
SELECT id, type, recipient_config_json, created_at
FROM report_recipients
WHERE id = $1
`

func (q *Queries) GetRecipient(ctx context.Context, id int64) (ReportRecipient, error) {
	row := q.db.QueryRow(ctx, getRecipient, id)
	var i ReportRecipient
	err := row.Scan(&i.ID, &i.Type, &i.RecipientConfigJSON, &i.CreatedAt)
	return i, err
}

const createRecipient = `-- name: CreateRecipient :one
INSERT INTO report_recipients (type, recipient_config_json)
VALUES ($1, $2)
RETURNING id, type, recipient_config_json, created_at
`

type CreateRecipientParams struct {
	Type                string
	RecipientConfigJSON []byte
}

func (q *Queries) CreateRecipient(ctx context.Context, arg CreateRecipientParams) (ReportRecipient, error) {
	row := q.db.QueryRow(ctx, createRecipient, arg.Type, arg.RecipientConfigJSON)
	var i ReportRecipient
	err := row.Scan(&i.ID, &i.Type, &i.RecipientConfigJSON, &i.CreatedAt)
	return i, err
}

const deleteRecipient = `-- name: DeleteRecipient :execrows
DELETE FROM report_recipients WHERE id = $1
`

func (q *Queries) DeleteRecipient(ctx context.Context, id int64) (int64, error) {
	result, err := q.db.Exec(ctx, deleteRecipient, id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}

const getSettings = `-- name: GetSettings :one
SELECT data FROM app_settings WHERE id = 1
`

func (q *Queries) GetSettings(ctx context.Context) ([]byte, error) {
	row := q.db.QueryRow(ctx, getSettings)
	var data []byte
	err := row.Scan(&data)
	return data, err
}

const upsertSettings = `-- name: UpsertSettings :exec
INSERT INTO app_settings (id, data, updated_at)
VALUES (1, $1, NOW())
ON CONFLICT (id) DO UPDATE SET data = EXCLUDED.data, updated_at = NOW()
`

func (q *Queries) UpsertSettings(ctx context.Context, data []byte) error {
	_, err := q.db.Exec(ctx, upsertSettings, data)
	return err
}
