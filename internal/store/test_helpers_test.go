package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/roach88/metakit/internal/meta"
)

// createTestStore creates a new file-backed store for testing.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// ensureTestTable creates the companion table for base, failing the test on error.
func ensureTestTable(t *testing.T, s *Store, base string) {
	t.Helper()
	if err := s.EnsureTable(context.Background(), base); err != nil {
		t.Fatalf("EnsureTable(%q) failed: %v", base, err)
	}
}

// mustUpsert writes an entry, failing the test on error.
func mustUpsert(t *testing.T, s *Store, base string, ownerID int64, key, value string, kind meta.Kind) UpsertResult {
	t.Helper()
	res, err := s.Upsert(context.Background(), base, ownerID, key, value, kind)
	if err != nil {
		t.Fatalf("Upsert(%q, %d, %q) failed: %v", base, ownerID, key, err)
	}
	return res
}
