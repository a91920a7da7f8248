// Package sqlite provides a SQLite-backed implementation of submitlog.Repository.
//
// WAL mode is enabled on Open so the audit endpoint can read while a
// submission is writing.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jcmexdev/quick-order/internal/coordinator/submitlog"

	// Pure-Go driver, no CGO.
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS submission_logs (
    id              INTEGER PRIMARY KEY AUTOINCREMENT,
    form_id         TEXT        NOT NULL,
    attempt_id      TEXT        NOT NULL,
    status          TEXT        NOT NULL,
    step            TEXT        NOT NULL DEFAULT '',
    -- JSON line items, only on STARTED rows.
    payload         TEXT,
    cart_id         TEXT        NOT NULL DEFAULT '',
    error_messages  TEXT        NOT NULL DEFAULT '[]',
    trace_id        TEXT        NOT NULL DEFAULT '',
    span_id         TEXT        NOT NULL DEFAULT '',
    updated_at      TEXT        NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_submission_logs_form ON submission_logs(form_id, id);
CREATE INDEX IF NOT EXISTS idx_submission_logs_attempt ON submission_logs(attempt_id);
`

// Repository is the SQLite implementation of submitlog.Repository.
type Repository struct {
	db *sql.DB
}

var _ submitlog.Repository = (*Repository)(nil)

// Open opens (or creates) the database at path and applies the schema.
//
//	repo, err := sqlite.Open("./data/submissions.db")
func Open(path string) (*Repository, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("sqlite: create directory for %q: %w", path, err)
	}
	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)", path)

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open %q: %w", path, err)
	}

	// single writer
	db.SetMaxOpenConns(1)

	if err := applySchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Repository{db: db}, nil
}

func (r *Repository) Close() error {
	return r.db.Close()
}

// Save inserts a new entry. It is safe to call concurrently.
func (r *Repository) Save(ctx context.Context, entry *submitlog.Entry) error {
	const q = `
		INSERT INTO submission_logs
			(form_id, attempt_id, status, step, payload, cart_id, error_messages, trace_id, span_id, updated_at)
		VALUES
			(?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, q,
		entry.FormID,
		entry.AttemptID,
		string(entry.Status),
		entry.Step,
		nullableString(entry.Payload),
		entry.CartID,
		entry.ErrorMessages,
		entry.TraceID,
		entry.SpanID,
		formatTime(entry.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("sqlite: save submission log for %q: %w", entry.AttemptID, err)
	}
	return nil
}

// List returns every entry for formID in insertion order.
func (r *Repository) List(ctx context.Context, formID string) ([]submitlog.Entry, error) {
	const q = `
		SELECT form_id, attempt_id, status, step, COALESCE(payload,''), cart_id,
		       error_messages, trace_id, span_id, updated_at
		FROM   submission_logs
		WHERE  form_id = ?
		ORDER  BY id ASC`

	rows, err := r.db.QueryContext(ctx, q, formID)
	if err != nil {
		return nil, fmt.Errorf("sqlite: list submissions for %q: %w", formID, err)
	}
	defer rows.Close()

	var out []submitlog.Entry
	for rows.Next() {
		var entry submitlog.Entry
		var updatedAt string
		if err := rows.Scan(
			&entry.FormID,
			&entry.AttemptID,
			&entry.Status,
			&entry.Step,
			&entry.Payload,
			&entry.CartID,
			&entry.ErrorMessages,
			&entry.TraceID,
			&entry.SpanID,
			&updatedAt,
		); err != nil {
			return nil, fmt.Errorf("sqlite: scan submission log: %w", err)
		}
		entry.UpdatedAt, err = parseRFC3339(updatedAt)
		if err != nil {
			return nil, err
		}
		out = append(out, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: list submissions for %q: %w", formID, err)
	}
	return out, nil
}

func applySchema(db *sql.DB) error {
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("sqlite: apply schema: %w", err)
	}
	return nil
}

// nullableString stores NULL instead of '' so only STARTED rows carry a payload.
func nullableString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
