package history

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRecorder(t *testing.T) *SQLiteRecorder {
	t.Helper()
	db, err := sql.Open("sqlite3", filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewSQLiteRecorder(db)
}

func strptr(s string) *string { return &s }

func TestSQLiteRecorder_RecordAndList(t *testing.T) {
	r := newTestRecorder(t)
	ctx := context.Background()

	err := r.Record(ctx, Change{
		TableName: "product",
		RowID:     1,
		MetaID:    10,
		Event:     EventCreated,
		Field:     "color",
		New:       strptr("red"),
		Actor:     "tester",
	})
	require.NoError(t, err)

	err = r.Record(ctx, Change{
		TableName: "product",
		RowID:     1,
		MetaID:    10,
		Event:     EventUpdated,
		Field:     "color",
		Old:       strptr("red"),
		New:       strptr("blue"),
	})
	require.NoError(t, err)

	changes, err := r.List(ctx, "product", 1)
	require.NoError(t, err)
	require.Len(t, changes, 2)

	created := changes[0]
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, EventCreated, created.Event)
	assert.Equal(t, "color", created.Field)
	assert.Nil(t, created.Old, "create entries carry no old value")
	require.NotNil(t, created.New)
	assert.Equal(t, "red", *created.New)
	assert.Equal(t, "tester", created.Actor)
	assert.False(t, created.At.IsZero())

	updated := changes[1]
	assert.Equal(t, EventUpdated, updated.Event)
	require.NotNil(t, updated.Old)
	assert.Equal(t, "red", *updated.Old)
	require.NotNil(t, updated.New)
	assert.Equal(t, "blue", *updated.New)
}

func TestSQLiteRecorder_ListScopedToRow(t *testing.T) {
	r := newTestRecorder(t)
	ctx := context.Background()

	require.NoError(t, r.Record(ctx, Change{TableName: "product", RowID: 1, Event: EventCreated, Field: "a", New: strptr("1")}))
	require.NoError(t, r.Record(ctx, Change{TableName: "product", RowID: 2, Event: EventCreated, Field: "b", New: strptr("2")}))
	require.NoError(t, r.Record(ctx, Change{TableName: "order", RowID: 1, Event: EventCreated, Field: "c", New: strptr("3")}))

	changes, err := r.List(ctx, "product", 1)
	require.NoError(t, err)
	require.Len(t, changes, 1)
	assert.Equal(t, "a", changes[0].Field)
}

func TestSQLiteRecorder_ListEmpty(t *testing.T) {
	r := newTestRecorder(t)

	changes, err := r.List(context.Background(), "product", 99)
	require.NoError(t, err)
	assert.NotNil(t, changes)
	assert.Empty(t, changes)
}

func TestSQLiteRecorder_PreservesExplicitIDAndTime(t *testing.T) {
	r := newTestRecorder(t)
	ctx := context.Background()

	at := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, r.Record(ctx, Change{
		ID:        "fixed-id",
		TableName: "product",
		RowID:     1,
		Event:     EventCreated,
		Field:     "color",
		New:       strptr("red"),
		At:        at,
	}))

	changes, err := r.List(ctx, "product", 1)
	require.NoError(t, err)
	require.Len(t, changes, 1)
	assert.Equal(t, "fixed-id", changes[0].ID)
	assert.True(t, changes[0].At.Equal(at))
}

func TestNop_HonorsContract(t *testing.T) {
	var r Recorder = Nop{}
	err := r.Record(context.Background(), Change{Event: EventCreated, Field: "x"})
	assert.NoError(t, err)
}
