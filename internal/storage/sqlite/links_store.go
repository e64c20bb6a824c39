package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/IgorGrieder/encurtador-links/internal/infrastructure/logger"
	"github.com/IgorGrieder/encurtador-links/internal/processing/links"
	"go.uber.org/zap"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

const timeLayout = time.RFC3339Nano

// LinksStore implements links.Store on a single SQLite connection, so every
// transaction is serialized.
type LinksStore struct {
	db *sql.DB
}

// connPragmas are set by the driver on every new connection.
var connPragmas = []string{
	"busy_timeout(5000)",
	"journal_mode(WAL)",
	"foreign_keys(1)",
}

// Open opens (or creates) the database at dsn and applies migrations. dsn is
// passed to the modernc driver with connPragmas added as _pragma parameters,
// so "file:x?mode=memory&cache=shared" works for tests.
func Open(ctx context.Context, dsn string) (*LinksStore, error) {
	db, err := sql.Open("sqlite", withPragmas(dsn))
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := applyMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply migrations: %w", err)
	}

	logger.Info("SQLite store opened", zap.String("dsn", dsn))
	return &LinksStore{db: db}, nil
}

// withPragmas appends each connPragmas entry the dsn does not already set.
func withPragmas(dsn string) string {
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}

	var b strings.Builder
	b.WriteString(dsn)
	for _, pragma := range connPragmas {
		name, _, _ := strings.Cut(pragma, "(")
		if strings.Contains(dsn, "_pragma="+name) {
			continue
		}
		b.WriteString(sep)
		b.WriteString("_pragma=")
		b.WriteString(pragma)
		sep = "&"
	}
	return b.String()
}

func (s *LinksStore) Close() error { return s.db.Close() }

func (s *LinksStore) ListAll(ctx context.Context) ([]links.LinkRecord, error) {
	const linksQuery = `
SELECT seq, shortcode, long_url, validity_minutes, created_at, expires_at
FROM links
ORDER BY seq;`

	rows, err := s.db.QueryContext(ctx, linksQuery)
	if err != nil {
		return nil, err
	}

	var (
		records []links.LinkRecord
		bySeq   = make(map[int64]int)
	)
	for rows.Next() {
		var seq int64
		rec, err := scanLink(rows, &seq)
		if err != nil {
			_ = rows.Close()
			return nil, err
		}
		bySeq[seq] = len(records)
		records = append(records, rec)
	}
	if err := closeRows(rows); err != nil {
		return nil, err
	}

	// Only one connection is open, so the links cursor must be closed first.
	const clicksQuery = `
SELECT link_seq, clicked_at, source, location
FROM clicks
ORDER BY link_seq, id;`

	rows, err = s.db.QueryContext(ctx, clicksQuery)
	if err != nil {
		return nil, err
	}
	for rows.Next() {
		var seq int64
		click, err := scanClick(rows, &seq)
		if err != nil {
			_ = rows.Close()
			return nil, err
		}
		if i, ok := bySeq[seq]; ok {
			records[i].Clicks = append(records[i].Clicks, click)
		}
	}
	if err := closeRows(rows); err != nil {
		return nil, err
	}

	if records == nil {
		records = []links.LinkRecord{}
	}
	return records, nil
}

func (s *LinksStore) AppendAll(ctx context.Context, records []links.LinkRecord) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	const q = `
INSERT INTO links(shortcode, long_url, validity_minutes, created_at, expires_at)
VALUES (?, ?, ?, ?, ?);`

	for _, rec := range records {
		_, err := tx.ExecContext(ctx, q,
			rec.Shortcode,
			rec.LongURL,
			rec.ValidityMinutes,
			formatTime(rec.CreatedAt),
			formatTime(rec.ExpiresAt),
		)
		if err != nil {
			if isUniqueViolation(err) {
				return links.ErrShortcodeCollision
			}
			return err
		}
	}

	return tx.Commit()
}

// Update loads the record inside a transaction, applies mutate to a copy and
// inserts only the clicks it appended.
func (s *LinksStore) Update(ctx context.Context, shortcode string, mutate links.Mutator) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	current, seq, err := loadLink(ctx, tx, shortcode)
	if err != nil {
		return err
	}

	next := current.Clone()
	if err := mutate(&next); err != nil {
		return err
	}

	added, err := links.AppendedClicks(current, next)
	if err != nil {
		return err
	}
	if len(added) == 0 {
		return tx.Commit()
	}

	const q = `
INSERT INTO clicks(link_seq, clicked_at, source, location)
VALUES (?, ?, ?, ?);`
	for _, click := range added {
		if _, err := tx.ExecContext(ctx, q, seq, formatTime(click.Timestamp), click.Source, click.Location); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func loadLink(ctx context.Context, tx *sql.Tx, shortcode string) (links.LinkRecord, int64, error) {
	const linkQuery = `
SELECT seq, shortcode, long_url, validity_minutes, created_at, expires_at
FROM links
WHERE shortcode = ?
LIMIT 1;`

	var seq int64
	rec, err := scanLink(tx.QueryRowContext(ctx, linkQuery, shortcode), &seq)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return links.LinkRecord{}, 0, links.ErrNotFound
		}
		return links.LinkRecord{}, 0, err
	}

	const clicksQuery = `
SELECT link_seq, clicked_at, source, location
FROM clicks
WHERE link_seq = ?
ORDER BY id;`

	rows, err := tx.QueryContext(ctx, clicksQuery, seq)
	if err != nil {
		return links.LinkRecord{}, 0, err
	}
	for rows.Next() {
		var linkSeq int64
		click, err := scanClick(rows, &linkSeq)
		if err != nil {
			_ = rows.Close()
			return links.LinkRecord{}, 0, err
		}
		rec.Clicks = append(rec.Clicks, click)
	}
	if err := closeRows(rows); err != nil {
		return links.LinkRecord{}, 0, err
	}

	return rec, seq, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanLink(row scanner, seq *int64) (links.LinkRecord, error) {
	var (
		rec                links.LinkRecord
		created, expiresAt string
	)
	if err := row.Scan(seq, &rec.Shortcode, &rec.LongURL, &rec.ValidityMinutes, &created, &expiresAt); err != nil {
		return links.LinkRecord{}, err
	}

	var err error
	if rec.CreatedAt, err = parseTime(created); err != nil {
		return links.LinkRecord{}, err
	}
	if rec.ExpiresAt, err = parseTime(expiresAt); err != nil {
		return links.LinkRecord{}, err
	}
	rec.Clicks = []links.ClickEvent{}
	return rec, nil
}

func scanClick(row scanner, seq *int64) (links.ClickEvent, error) {
	var (
		click     links.ClickEvent
		clickedAt string
	)
	if err := row.Scan(seq, &clickedAt, &click.Source, &click.Location); err != nil {
		return links.ClickEvent{}, err
	}

	ts, err := parseTime(clickedAt)
	if err != nil {
		return links.ClickEvent{}, err
	}
	click.Timestamp = ts
	return click, nil
}

func closeRows(rows *sql.Rows) error {
	if err := rows.Err(); err != nil {
		_ = rows.Close()
		return err
	}
	return rows.Close()
}

func formatTime(t time.Time) string { return t.UTC().Format(timeLayout) }

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse stored time %q: %w", s, err)
	}
	return t.UTC(), nil
}

func isUniqueViolation(err error) bool {
	var serr *sqlite.Error
	if !errors.As(err, &serr) {
		return false
	}
	code := serr.Code()
	return code == sqlite3.SQLITE_CONSTRAINT_UNIQUE || code == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY
}

var _ links.Store = (*LinksStore)(nil)
