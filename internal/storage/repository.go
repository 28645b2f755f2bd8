package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

const (
	KeyRenderMode = "render_mode"
	KeyCookie     = "cookie"
)

// Settings is the persisted user state: the last render mode and the cookie.
// HasCookie distinguishes a cleared cookie from one that was never saved.
type Settings struct {
	RenderMode string
	Cookie     string
	HasCookie  bool
}

type Repository struct {
	db *sql.DB
}

func NewRepository(path string) (*Repository, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	// sqlite allows a single writer; the TUI saves from tea.Cmd goroutines.
	db.SetMaxOpenConns(1)
	return &Repository{db: db}, nil
}

func (r *Repository) Close() error {
	if r == nil || r.db == nil {
		return nil
	}
	return r.db.Close()
}

func (r *Repository) Init(ctx context.Context) error {
	const schema = `
CREATE TABLE IF NOT EXISTS settings (
  key TEXT PRIMARY KEY,
  value TEXT NOT NULL,
  updated_at TEXT NOT NULL
);
`
	_, err := r.db.ExecContext(ctx, schema)
	if err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// CheckWritable round-trips a probe row so an unwritable database path fails at
// startup instead of on the first save.
func (r *Repository) CheckWritable(ctx context.Context) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `
INSERT INTO settings (key, value, updated_at) VALUES ('__probe', '', ?)
ON CONFLICT(key) DO UPDATE SET updated_at=excluded.updated_at
`, now()); err != nil {
		return fmt.Errorf("write probe: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM settings WHERE key = '__probe'`); err != nil {
		return fmt.Errorf("delete probe: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

func (r *Repository) LoadSettings(ctx context.Context) (Settings, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT key, value FROM settings WHERE key IN (?, ?)`, KeyRenderMode, KeyCookie)
	if err != nil {
		return Settings{}, fmt.Errorf("query settings: %w", err)
	}
	defer rows.Close()

	var settings Settings
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return Settings{}, fmt.Errorf("scan setting: %w", err)
		}
		switch key {
		case KeyRenderMode:
			settings.RenderMode = value
		case KeyCookie:
			settings.Cookie = value
			settings.HasCookie = true
		}
	}
	if err := rows.Err(); err != nil {
		return Settings{}, fmt.Errorf("iterate settings: %w", err)
	}
	return settings, nil
}

// SaveSettings replaces both keys in one transaction. A settings value without
// a cookie deletes the stored one.
func (r *Repository) SaveSettings(ctx context.Context, settings Settings) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
INSERT INTO settings (key, value, updated_at)
VALUES (?, ?, ?)
ON CONFLICT(key) DO UPDATE SET
  value=excluded.value,
  updated_at=excluded.updated_at
`)
	if err != nil {
		return fmt.Errorf("prepare save statement: %w", err)
	}
	defer stmt.Close()

	ts := now()
	if _, err := stmt.ExecContext(ctx, KeyRenderMode, settings.RenderMode, ts); err != nil {
		return fmt.Errorf("save %s: %w", KeyRenderMode, err)
	}
	if settings.HasCookie {
		if _, err := stmt.ExecContext(ctx, KeyCookie, settings.Cookie, ts); err != nil {
			return fmt.Errorf("save %s: %w", KeyCookie, err)
		}
	} else if _, err := tx.ExecContext(ctx, `DELETE FROM settings WHERE key = ?`, KeyCookie); err != nil {
		return fmt.Errorf("delete %s: %w", KeyCookie, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// SettingUpdatedAt reports when key was last written. ok is false if the key
// has never been saved.
func (r *Repository) SettingUpdatedAt(ctx context.Context, key string) (time.Time, bool, error) {
	var raw string
	err := r.db.QueryRowContext(ctx, `SELECT updated_at FROM settings WHERE key = ?`, key).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, fmt.Errorf("query %s: %w", key, err)
	}
	ts, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("parse %s updated_at %q: %w", key, raw, err)
	}
	return ts, true, nil
}

func now() string {
	return time.Now().UTC().Format(time.RFC3339Nano)
}
