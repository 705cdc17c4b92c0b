package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/roach88/metakit/internal/meta"
)

// Entry is one row in a companion table: a single (owner, key) pair with
// its encoded value and type tag.
type Entry struct {
	ID      int64
	OwnerID int64
	Key     string
	Value   string
	Kind    meta.Kind
}

// UpsertResult reports the row identity of an upsert, whether the row was
// newly created, and the prior value for history diffing.
type UpsertResult struct {
	ID      int64
	Created bool

	// PriorValue/PriorKind hold the replaced value when Created is false.
	PriorValue string
	PriorKind  meta.Kind
}

// companionSchema is the DDL template for a companion table.
// %[1]s is the table name, %[2]s the owner-id column.
const companionSchema = `
CREATE TABLE IF NOT EXISTS %[1]s (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	%[2]s INTEGER NOT NULL DEFAULT 0,
	meta_key TEXT,
	meta_value TEXT,
	meta_type TEXT,
	UNIQUE(%[2]s, meta_key)
);
CREATE INDEX IF NOT EXISTS idx_%[1]s_key ON %[1]s (meta_key);
`

// TableExists reports whether the companion table for base exists.
func (s *Store) TableExists(ctx context.Context, base string) (bool, error) {
	table := MetaTable(base)
	var name string
	err := s.db.QueryRowContext(ctx,
		"SELECT name FROM sqlite_master WHERE type='table' AND name=?",
		table,
	).Scan(&name)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, storeErr("exists", table, "", err)
	}
	return true, nil
}

// EnsureTable creates the companion table for base if it does not already
// exist, with the UNIQUE(owner, key) constraint and a meta_key index.
// Idempotent: a no-op when the table is already present.
func (s *Store) EnsureTable(ctx context.Context, base string) error {
	table := MetaTable(base)
	if !validBase(base) {
		return storeErr("ensure", table, "", fmt.Errorf("invalid base name %q", base))
	}
	ddl := fmt.Sprintf(companionSchema, table, OwnerColumn(base))
	if _, err := s.db.ExecContext(ctx, ddl); err != nil {
		return storeErr("ensure", table, "", err)
	}
	return nil
}

// Find returns the entry for (owner, key), or found=false when absent.
func (s *Store) Find(ctx context.Context, base string, ownerID int64, key string) (Entry, bool, error) {
	table := MetaTable(base)
	if !validBase(base) {
		return Entry{}, false, storeErr("find", table, key, fmt.Errorf("invalid base name %q", base))
	}
	key = meta.NormalizeKey(key)

	var e Entry
	var value, kind sql.NullString
	err := s.db.QueryRowContext(ctx, fmt.Sprintf(`
		SELECT id, %[2]s, meta_key, meta_value, meta_type
		FROM %[1]s
		WHERE %[2]s = ? AND meta_key = ?
	`, table, OwnerColumn(base)), ownerID, key).Scan(&e.ID, &e.OwnerID, &e.Key, &value, &kind)
	if errors.Is(err, sql.ErrNoRows) {
		return Entry{}, false, nil
	}
	if err != nil {
		return Entry{}, false, storeErr("find", table, key, err)
	}
	e.Value = value.String
	e.Kind = meta.Kind(kind.String)
	return e, true, nil
}

// LoadAll returns all entries for an owner. Row order carries no contract;
// the query orders by id only to keep results deterministic.
func (s *Store) LoadAll(ctx context.Context, base string, ownerID int64) ([]Entry, error) {
	table := MetaTable(base)
	if !validBase(base) {
		return nil, storeErr("load", table, "", fmt.Errorf("invalid base name %q", base))
	}
	rows, err := s.db.QueryContext(ctx, fmt.Sprintf(`
		SELECT id, %[2]s, meta_key, meta_value, meta_type
		FROM %[1]s
		WHERE %[2]s = ?
		ORDER BY id ASC
	`, table, OwnerColumn(base)), ownerID)
	if err != nil {
		return nil, storeErr("load", table, "", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var value, kind sql.NullString
		if err := rows.Scan(&e.ID, &e.OwnerID, &e.Key, &value, &kind); err != nil {
			return nil, storeErr("load", table, "", err)
		}
		e.Value = value.String
		e.Kind = meta.Kind(kind.String)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("load", table, "", err)
	}

	// Return empty slice instead of nil
	if entries == nil {
		entries = []Entry{}
	}
	return entries, nil
}

// Upsert inserts the entry for (owner, key) or replaces its value and type
// in place, inside a single transaction so the prior value read for history
// diffing and the write itself cannot interleave with another writer on the
// same connection.
func (s *Store) Upsert(ctx context.Context, base string, ownerID int64, key, value string, kind meta.Kind) (UpsertResult, error) {
	table := MetaTable(base)
	if !validBase(base) {
		return UpsertResult{}, storeErr("upsert", table, key, fmt.Errorf("invalid base name %q", base))
	}
	ownerCol := OwnerColumn(base)
	key = meta.NormalizeKey(key)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return UpsertResult{}, storeErr("upsert", table, key, fmt.Errorf("begin tx: %w", err))
	}
	defer tx.Rollback() // No-op if committed

	var res UpsertResult
	var prior, priorKind sql.NullString
	err = tx.QueryRowContext(ctx, fmt.Sprintf(`
		SELECT id, meta_value, meta_type FROM %[1]s
		WHERE %[2]s = ? AND meta_key = ?
	`, table, ownerCol), ownerID, key).Scan(&res.ID, &prior, &priorKind)

	switch {
	case errors.Is(err, sql.ErrNoRows):
		result, err := tx.ExecContext(ctx, fmt.Sprintf(`
			INSERT INTO %[1]s (%[2]s, meta_key, meta_value, meta_type)
			VALUES (?, ?, ?, ?)
		`, table, ownerCol), ownerID, key, value, string(kind))
		if err != nil {
			return UpsertResult{}, storeErr("upsert", table, key, err)
		}
		res.ID, err = result.LastInsertId()
		if err != nil {
			return UpsertResult{}, storeErr("upsert", table, key, fmt.Errorf("last insert id: %w", err))
		}
		res.Created = true

	case err != nil:
		return UpsertResult{}, storeErr("upsert", table, key, err)

	default:
		res.PriorValue = prior.String
		res.PriorKind = meta.Kind(priorKind.String)
		_, err := tx.ExecContext(ctx, fmt.Sprintf(`
			UPDATE %[1]s SET meta_value = ?, meta_type = ? WHERE id = ?
		`, table), value, string(kind), res.ID)
		if err != nil {
			return UpsertResult{}, storeErr("upsert", table, key, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return UpsertResult{}, storeErr("upsert", table, key, fmt.Errorf("commit: %w", err))
	}
	return res, nil
}

// Delete removes the entry for (owner, key). Deleting an absent entry is
// a no-op, not an error.
func (s *Store) Delete(ctx context.Context, base string, ownerID int64, key string) error {
	table := MetaTable(base)
	if !validBase(base) {
		return storeErr("delete", table, key, fmt.Errorf("invalid base name %q", base))
	}
	key = meta.NormalizeKey(key)
	_, err := s.db.ExecContext(ctx, fmt.Sprintf(`
		DELETE FROM %[1]s WHERE %[2]s = ? AND meta_key = ?
	`, table, OwnerColumn(base)), ownerID, key)
	if err != nil {
		return storeErr("delete", table, key, err)
	}
	return nil
}
