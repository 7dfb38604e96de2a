package store

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/jackc/pgx/v5"

	"github.com/csight/reportd/internal/crypto"
	dbpkg "github.com/csight/reportd/internal/db"
	"github.com/csight/reportd/internal/model"
)

type SettingsStore struct {
	q        *dbpkg.Queries
	sealer   *crypto.Sealer
	defaults model.SMTPSettings
}

// NewSettingsStore returns a store that seeds itself with defaults the first
// time settings are loaded.
func NewSettingsStore(db dbpkg.DBTX, sealer *crypto.Sealer, defaults model.SMTPSettings) *SettingsStore {
	return &SettingsStore{q: dbpkg.New(db), sealer: sealer, defaults: defaults}
}

// Load decrypts and returns the current settings. Seeds from the defaults if
// no row exists.
func (s *SettingsStore) Load(ctx context.Context) (*model.SMTPSettings, error) {
	data, err := s.q.GetSettings(ctx)
	if errors.Is(err, pgx.ErrNoRows) {
		defaults := s.defaults
		if err := s.Save(ctx, &defaults); err != nil {
			return nil, err
		}
		slog.Info("settings: seeded from environment")
		return &defaults, nil
	} else if err != nil {
		return nil, err
	}

	plaintext, err := s.sealer.Open(data)
	if err != nil {
		slog.Error("settings: decryption failed", "err", err)
		return nil, err
	}
	var settings model.SMTPSettings
	if err := json.Unmarshal(plaintext, &settings); err != nil {
		return nil, err
	}
	return &settings, nil
}

// Save encrypts and persists settings.
func (s *SettingsStore) Save(ctx context.Context, settings *model.SMTPSettings) error {
	raw, err := json.Marshal(settings)
	if err != nil {
		return err
	}
	sealed, err := s.sealer.Seal(raw)
	if err != nil {
		return err
	}
	return s.q.UpsertSettings(ctx, sealed)
}
