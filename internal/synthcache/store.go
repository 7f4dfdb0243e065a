package synthcache

import (
	"context"
	"crypto/sha256"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schemaSQL string

// schemaVersion is bumped whenever schema.sql changes incompatibly.
const schemaVersion = 1

// ErrSchemaMismatch indicates the database was created by an incompatible version.
var ErrSchemaMismatch = errors.New("schema version mismatch")

// Key identifies one synthesis result.
type Key struct {
	Provider   string
	Voice      string
	Engine     string
	Codec      string
	SampleRate int
	Text       string
}

// Hash returns the hex SHA-256 digest used as the primary key.
func (k Key) Hash() string {
	h := sha256.New()
	fmt.Fprintf(h, "provider=%s\nvoice=%s\nengine=%s\ncodec=%s\nsample_rate=%d\ntext=%s\n",
		k.Provider, k.Voice, k.Engine, k.Codec, k.SampleRate, k.Text)
	return fmt.Sprintf("%x", h.Sum(nil))
}

// Stats summarises cache contents.
type Stats struct {
	Path    string
	Entries int64
	Bytes   int64
	Hits    int64
	Oldest  time.Time
	Newest  time.Time
}

// Store is the SQLite-backed synthesis cache.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the cache database at path.
func Open(path string) (*Store, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("synthesis cache: empty path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create cache directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: path}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Path returns the database location.
func (s *Store) Path() string {
	if s == nil {
		return ""
	}
	return s.path
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) initSchema(ctx context.Context) error {
	var tableExists int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	).Scan(&tableExists)
	if err != nil {
		return fmt.Errorf("check schema_version table: %w", err)
	}
	if tableExists == 0 {
		return s.createSchema(ctx)
	}

	var version int
	if err := s.db.QueryRowContext(ctx, "SELECT version FROM schema_version LIMIT 1").Scan(&version); err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	if version != schemaVersion {
		return fmt.Errorf("%w: database has version %d, expected %d (delete %s to rebuild the cache)",
			ErrSchemaMismatch, version, schemaVersion, s.path)
	}
	return nil
}

func (s *Store) createSchema(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "INSERT INTO schema_version (version) VALUES (?)", schemaVersion); err != nil {
		return fmt.Errorf("record schema version: %w", err)
	}
	return tx.Commit()
}

// Get returns the cached audio for key. A miss returns (nil, false, nil).
func (s *Store) Get(ctx context.Context, key Key) ([]byte, bool, error) {
	hash := key.Hash()
	var audio []byte
	err := s.db.QueryRowContext(ctx, "SELECT audio FROM synthesis WHERE key = ?", hash).Scan(&audio)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("read cache entry: %w", err)
	}
	if _, err := s.db.ExecContext(ctx,
		"UPDATE synthesis SET hits = hits + 1, last_used_at = ? WHERE key = ?",
		timestamp(time.Now()), hash,
	); err != nil {
		return audio, true, fmt.Errorf("touch cache entry: %w", err)
	}
	return audio, true, nil
}

// Put stores audio for key, replacing any previous entry.
func (s *Store) Put(ctx context.Context, key Key, audio []byte) error {
	if len(audio) == 0 {
		return errors.New("refusing to cache empty audio")
	}
	now := timestamp(time.Now())
	_, err := s.db.ExecContext(ctx, `
INSERT INTO synthesis (key, provider, voice, engine, codec, sample_rate, text, audio, created_at, last_used_at, hits)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 0)
ON CONFLICT(key) DO UPDATE SET audio = excluded.audio, last_used_at = excluded.last_used_at`,
		key.Hash(), key.Provider, key.Voice, key.Engine, key.Codec, key.SampleRate, key.Text, audio, now, now,
	)
	if err != nil {
		return fmt.Errorf("write cache entry: %w", err)
	}
	return nil
}

// Stats reports entry count, stored bytes and hit totals.
func (s *Store) Stats(ctx context.Context) (Stats, error) {
	stats := Stats{Path: s.path}
	var oldest, newest sql.NullString
	err := s.db.QueryRowContext(ctx, `
SELECT COUNT(1), COALESCE(SUM(LENGTH(audio)), 0), COALESCE(SUM(hits), 0), MIN(created_at), MAX(last_used_at)
FROM synthesis`).Scan(&stats.Entries, &stats.Bytes, &stats.Hits, &oldest, &newest)
	if err != nil {
		return Stats{}, fmt.Errorf("read cache stats: %w", err)
	}
	stats.Oldest = parseTimestamp(oldest)
	stats.Newest = parseTimestamp(newest)
	return stats, nil
}

// Clear removes every entry and returns how many were deleted.
func (s *Store) Clear(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, "DELETE FROM synthesis")
	if err != nil {
		return 0, fmt.Errorf("clear cache: %w", err)
	}
	removed, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("clear cache: %w", err)
	}
	return removed, nil
}

func timestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTimestamp(value sql.NullString) time.Time {
	if !value.Valid {
		return time.Time{}
	}
	parsed, err := time.Parse(time.RFC3339Nano, value.String)
	if err != nil {
		return time.Time{}
	}
	return parsed
}
