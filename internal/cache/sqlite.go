package cache

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

type sqliteStore struct{ db *sql.DB }

// openSQLite connects with the modernc.org/sqlite driver and ensures the
// schema exists.
func openSQLite(ctx context.Context, dsn string) (*sqliteStore, error) {
	path := strings.TrimPrefix(dsn, "sqlite://")
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, path[2:])
		}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, err
	}
	dbh, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	if _, err := dbh.ExecContext(ctx, `PRAGMA journal_mode=WAL;`); err != nil {
		_ = dbh.Close()
		return nil, err
	}
	if err := migrate(ctx, dbh); err != nil {
		_ = dbh.Close()
		return nil, err
	}
	return &sqliteStore{db: dbh}, nil
}

func migrate(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS list_cache (
  key TEXT PRIMARY KEY,
  payload BLOB NOT NULL,
  stored_at INTEGER NOT NULL
);`)
	return err
}

func (s *sqliteStore) Get(ctx context.Context, key string) (Entry, error) {
	var payload []byte
	var storedAt int64
	err := s.db.QueryRowContext(ctx,
		`SELECT payload, stored_at FROM list_cache WHERE key = ?`, key,
	).Scan(&payload, &storedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Entry{}, ErrMiss
	}
	if err != nil {
		return Entry{}, err
	}
	res, err := decodeResult(payload)
	if err != nil {
		return Entry{}, err
	}
	return Entry{Result: res, StoredAt: time.Unix(0, storedAt).UTC()}, nil
}

func (s *sqliteStore) Put(ctx context.Context, key string, e Entry) error {
	payload, err := encodeResult(e.Result)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `
INSERT INTO list_cache(key, payload, stored_at) VALUES(?, ?, ?)
ON CONFLICT(key) DO UPDATE SET payload = excluded.payload, stored_at = excluded.stored_at`,
		key, payload, e.StoredAt.UnixNano())
	return err
}

func (s *sqliteStore) Purge(ctx context.Context, prefix string) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM list_cache WHERE substr(key, 1, ?) = ?`, len(prefix), prefix)
	return err
}

func (s *sqliteStore) Close() error { return s.db.Close() }
