package history

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// journalSchema is the DDL for the shared change journal.
const journalSchema = `
CREATE TABLE IF NOT EXISTS meta_changes (
	id TEXT PRIMARY KEY,
	table_name TEXT NOT NULL,
	row_id INTEGER NOT NULL,
	meta_id INTEGER NOT NULL,
	event TEXT NOT NULL,
	field TEXT NOT NULL,
	old_value TEXT,
	new_value TEXT,
	changed_at TEXT NOT NULL,
	actor TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS idx_meta_changes_row ON meta_changes (table_name, row_id);
`

// SQLiteRecorder appends changes to a meta_changes journal table.
//
// The recorder takes an explicit connection handle; it never reaches for
// a shared application-wide one. The journal is provisioned lazily and
// idempotently on first use.
type SQLiteRecorder struct {
	db *sql.DB
}

// NewSQLiteRecorder wraps an externally managed connection.
func NewSQLiteRecorder(db *sql.DB) *SQLiteRecorder {
	return &SQLiteRecorder{db: db}
}

// Ensure creates the journal table if it does not exist. Idempotent.
func (r *SQLiteRecorder) Ensure(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, journalSchema); err != nil {
		return fmt.Errorf("ensure journal: %w", err)
	}
	return nil
}

// Record appends one journal entry. Assigns a UUIDv7 identity and stamps
// the current UTC time when the change carries none.
func (r *SQLiteRecorder) Record(ctx context.Context, change Change) error {
	if err := r.Ensure(ctx); err != nil {
		return err
	}

	if change.ID == "" {
		change.ID = uuid.Must(uuid.NewV7()).String()
	}
	if change.At.IsZero() {
		change.At = time.Now().UTC()
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO meta_changes
		(id, table_name, row_id, meta_id, event, field, old_value, new_value, changed_at, actor)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		change.ID,
		change.TableName,
		change.RowID,
		change.MetaID,
		string(change.Event),
		change.Field,
		change.Old,
		change.New,
		change.At.Format(time.RFC3339Nano),
		change.Actor,
	)
	if err != nil {
		return fmt.Errorf("record change: %w", err)
	}
	return nil
}

// List returns the journal entries for one host row, in append order.
func (r *SQLiteRecorder) List(ctx context.Context, tableName string, rowID int64) ([]Change, error) {
	if err := r.Ensure(ctx); err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, table_name, row_id, meta_id, event, field, old_value, new_value, changed_at, actor
		FROM meta_changes
		WHERE table_name = ? AND row_id = ?
		ORDER BY rowid ASC
	`, tableName, rowID)
	if err != nil {
		return nil, fmt.Errorf("list changes: %w", err)
	}
	defer rows.Close()

	var changes []Change
	for rows.Next() {
		var c Change
		var event, at string
		if err := rows.Scan(&c.ID, &c.TableName, &c.RowID, &c.MetaID, &event, &c.Field, &c.Old, &c.New, &at, &c.Actor); err != nil {
			return nil, fmt.Errorf("scan change: %w", err)
		}
		c.Event = Event(event)
		c.At, err = time.Parse(time.RFC3339Nano, at)
		if err != nil {
			return nil, fmt.Errorf("parse change time: %w", err)
		}
		changes = append(changes, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate changes: %w", err)
	}

	if changes == nil {
		changes = []Change{}
	}
	return changes, nil
}
