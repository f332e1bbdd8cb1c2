// Package journal records every command exchange in a sqlite database.
package journal

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/bft-labs/motionpanel/internal/ports"
)

const schema = `
CREATE TABLE IF NOT EXISTS exchanges (
	exchange_id   INTEGER PRIMARY KEY AUTOINCREMENT,
	at_ns         INTEGER NOT NULL,
	session_id    TEXT    NOT NULL,
	target        TEXT    NOT NULL,
	command       TEXT    NOT NULL,
	reply         TEXT    NOT NULL DEFAULT '',
	replied       INTEGER NOT NULL DEFAULT 0,
	error         TEXT    NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS exchanges_at ON exchanges (at_ns);
`

// SQLiteJournal implements ports.Journal.
type SQLiteJournal struct {
	db *sql.DB
}

// Open opens or creates the journal at path. ":memory:" is accepted.
func Open(path string) (*SQLiteJournal, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
			return nil, err
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// sqlite allows one writer at a time
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create journal schema: %w", err)
	}
	return &SQLiteJournal{db: db}, nil
}

// Record appends one exchange.
func (j *SQLiteJournal) Record(ctx context.Context, ex ports.Exchange) error {
	_, err := j.db.ExecContext(ctx,
		`INSERT INTO exchanges (at_ns, session_id, target, command, reply, replied, error)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		ex.At.UnixNano(), ex.SessionID, ex.Target, ex.Command, ex.Reply, ex.Replied, ex.Error,
	)
	if err != nil {
		return fmt.Errorf("record exchange: %w", err)
	}
	return nil
}

// Recent returns up to limit exchanges, newest first.
func (j *SQLiteJournal) Recent(ctx context.Context, limit int) ([]ports.Exchange, error) {
	if limit <= 0 {
		return nil, nil
	}
	rows, err := j.db.QueryContext(ctx,
		`SELECT at_ns, session_id, target, command, reply, replied, error
		 FROM exchanges ORDER BY exchange_id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query exchanges: %w", err)
	}
	defer rows.Close()

	var out []ports.Exchange
	for rows.Next() {
		var (
			ex   ports.Exchange
			atNs int64
		)
		if err := rows.Scan(&atNs, &ex.SessionID, &ex.Target, &ex.Command, &ex.Reply, &ex.Replied, &ex.Error); err != nil {
			return nil, err
		}
		ex.At = time.Unix(0, atNs).UTC()
		out = append(out, ex)
	}
	return out, rows.Err()
}

// Close closes the database.
func (j *SQLiteJournal) Close() error {
	return j.db.Close()
}

var _ ports.Journal = (*SQLiteJournal)(nil)
