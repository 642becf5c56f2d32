// Package sqlite implements the durable local persistence layer on an
// embedded sqlite database. One row exists per (language, context) key and
// holds the full JSON record array for that learner context.
package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"github.com/pressly/goose/v3"

	"github.com/parlons/parlons-api/internal/domain"
	"github.com/parlons/parlons-api/internal/store"
)

//go:embed migrations/*.sql
var migrations embed.FS

// Verify interface compliance at compile time
var _ store.Persister = (*Store)(nil)

// Store persists sentence record snapshots to sqlite.
type Store struct {
	db *sqlx.DB
}

// Open connects to the sqlite database at path, applies pragmas suitable
// for a single-writer embedded store, and runs pending migrations.
func Open(path string) (*Store, error) {
	db, err := sqlx.Connect("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}

	// sqlite does not support multiple writers.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to set journal mode: %w", err)
	}

	if err := migrate(db.DB); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

func migrate(db *sql.DB) error {
	goose.SetBaseFS(migrations)
	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("failed to set migration dialect: %w", err)
	}
	if err := goose.Up(db, "migrations"); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// SaveRecords implements store.Persister. The write replaces the whole
// persisted document for the context, mirroring the whole-snapshot shape
// the rest of the engine works with.
func (s *Store) SaveRecords(
	ctx context.Context,
	language domain.LanguageCode,
	contextKey string,
	records []domain.SentenceRecord,
) error {
	payload, err := json.Marshal(records)
	if err != nil {
		return store.NewStoreError("progress_snapshot", "save", "failed to encode records",
			fmt.Errorf("%w: %w", store.ErrPersistence, err))
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO progress_snapshots (context_key, language, payload, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (context_key) DO UPDATE SET
			language = excluded.language,
			payload = excluded.payload,
			updated_at = excluded.updated_at`,
		snapshotKey(language, contextKey), string(language), string(payload), time.Now().UTC(),
	)
	if err != nil {
		return store.NewStoreError("progress_snapshot", "save", "failed to write snapshot",
			fmt.Errorf("%w: %w", store.ErrPersistence, err))
	}
	return nil
}

// LoadRecords implements store.Persister. A context that was never
// persisted yields an empty slice, not an error.
func (s *Store) LoadRecords(
	ctx context.Context,
	language domain.LanguageCode,
	contextKey string,
) ([]domain.SentenceRecord, error) {
	var payload string
	err := s.db.GetContext(ctx, &payload,
		"SELECT payload FROM progress_snapshots WHERE context_key = $1",
		snapshotKey(language, contextKey),
	)
	if errors.Is(err, sql.ErrNoRows) {
		return []domain.SentenceRecord{}, nil
	}
	if err != nil {
		return nil, store.NewStoreError("progress_snapshot", "load", "failed to read snapshot",
			fmt.Errorf("%w: %w", store.ErrPersistence, err))
	}

	var records []domain.SentenceRecord
	if err := json.Unmarshal([]byte(payload), &records); err != nil {
		return nil, store.NewStoreError("progress_snapshot", "load", "corrupt snapshot payload", err)
	}
	return records, nil
}

func snapshotKey(language domain.LanguageCode, contextKey string) string {
	return fmt.Sprintf("%s:%s", language, contextKey)
}
