package submitlog

import "context"

// Repository persists submission log entries. The coordinator depends on
// this port so tests can swap the SQLite store for an in-memory one.
type Repository interface {
	// Save appends an entry. Entries are never updated.
	Save(ctx context.Context, entry *Entry) error

	// List returns all entries for a form, oldest first.
	List(ctx context.Context, formID string) ([]Entry, error)
}
