package sqlite

import (
	"context"
	"database/sql"
)

func applyMigrations(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, schemaSQL)
	return err
}

// seq keeps insertion order for ListAll; clicks are ordered by their own id.
const schemaSQL = `
CREATE TABLE IF NOT EXISTS links (
  seq              INTEGER PRIMARY KEY AUTOINCREMENT,
  shortcode        TEXT    NOT NULL UNIQUE,
  long_url         TEXT    NOT NULL,
  validity_minutes INTEGER NOT NULL,
  created_at       TEXT    NOT NULL,
  expires_at       TEXT    NOT NULL
);

CREATE TABLE IF NOT EXISTS clicks (
  id         INTEGER PRIMARY KEY AUTOINCREMENT,
  link_seq   INTEGER NOT NULL REFERENCES links(seq),
  clicked_at TEXT    NOT NULL,
  source     TEXT    NOT NULL,
  location   TEXT    NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_clicks_link_seq ON clicks(link_seq, id);
`
