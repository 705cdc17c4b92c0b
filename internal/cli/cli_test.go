package cli

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/roach88/metakit/internal/meta"
)

// runCommand executes the root command with args against a temp database,
// returning the combined stdout.
func runCommand(t *testing.T, dbPath string, args ...string) (string, error) {
	t.Helper()
	buf := &bytes.Buffer{}
	cmd := NewRootCommand()
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs(append([]string{"--db", dbPath}, args...))
	err := cmd.Execute()
	return buf.String(), err
}

func testDB(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "test.db")
}

func TestInit_ProvisionsTable(t *testing.T) {
	db := testDB(t)

	out, err := runCommand(t, db, "init", "product")
	require.NoError(t, err)
	assert.Contains(t, out, "ensured product_meta")

	// Idempotent
	_, err = runCommand(t, db, "init", "product")
	require.NoError(t, err)
}

func TestSetGetRoundTrip(t *testing.T) {
	db := testDB(t)

	_, err := runCommand(t, db, "set", "product", "1", "color", "red")
	require.NoError(t, err)

	out, err := runCommand(t, db, "get", "product", "1", "color")
	require.NoError(t, err)
	assert.Equal(t, "red", strings.TrimSpace(out))
}

func TestBase_PluralAndCamelCaseResolve(t *testing.T) {
	db := testDB(t)

	// All spellings of the base address the same companion table
	out, err := runCommand(t, db, "init", "Products")
	require.NoError(t, err)
	assert.Contains(t, out, "ensured product_meta")

	_, err = runCommand(t, db, "set", "products", "1", "color", "red")
	require.NoError(t, err)

	out, err = runCommand(t, db, "get", "product", "1", "color")
	require.NoError(t, err)
	assert.Equal(t, "red", strings.TrimSpace(out))

	_, err = runCommand(t, db, "get", "a;b", "1", "color")
	require.Error(t, err)
}

func TestSet_InfersScalarKinds(t *testing.T) {
	db := testDB(t)

	tests := []struct {
		literal string
		want    string
	}{
		{"42", "integer"},
		{"2.5", "float"},
		{"true", "boolean"},
		{"hello", "string"},
	}
	for _, tt := range tests {
		out, err := runCommand(t, db, "set", "product", "1", "k", tt.literal)
		require.NoError(t, err)
		assert.Contains(t, out, "("+tt.want+")")
	}
}

func TestSet_ForcedKind(t *testing.T) {
	db := testDB(t)

	// "42" stays a string when forced
	_, err := runCommand(t, db, "set", "product", "1", "rank", "42", "--kind", "string")
	require.NoError(t, err)

	out, err := runCommand(t, db, "--format", "json", "get", "product", "1", "rank")
	require.NoError(t, err)
	assert.Contains(t, out, `"kind": "string"`)
	assert.Contains(t, out, `"value": "42"`)
}

func TestSet_StringsKind(t *testing.T) {
	db := testDB(t)

	_, err := runCommand(t, db, "set", "product", "1", "sizes", `["S","M","L"]`, "--kind", "strings")
	require.NoError(t, err)

	out, err := runCommand(t, db, "--format", "yaml", "list", "product", "1")
	require.NoError(t, err)

	var items []struct {
		Key   string `yaml:"key"`
		Kind  string `yaml:"kind"`
		Value any    `yaml:"value"`
	}
	require.NoError(t, yaml.Unmarshal([]byte(out), &items))
	require.Len(t, items, 1)
	assert.Equal(t, "sizes", items[0].Key)
	assert.Equal(t, "strings", items[0].Kind)
}

func TestDel_RemovesKey(t *testing.T) {
	db := testDB(t)

	_, err := runCommand(t, db, "set", "product", "1", "color", "red")
	require.NoError(t, err)

	_, err = runCommand(t, db, "del", "product", "1", "color")
	require.NoError(t, err)

	out, err := runCommand(t, db, "get", "product", "1", "color")
	require.NoError(t, err)
	assert.Equal(t, "", strings.TrimSpace(out))

	// Absent key: still a no-op
	_, err = runCommand(t, db, "del", "product", "1", "color")
	require.NoError(t, err)
}

func TestGet_AbsentTableIsEmpty(t *testing.T) {
	db := testDB(t)

	out, err := runCommand(t, db, "get", "product", "1", "color")
	require.NoError(t, err)
	assert.Equal(t, "", strings.TrimSpace(out))
}

func TestHistory_RecordsChanges(t *testing.T) {
	db := testDB(t)

	_, err := runCommand(t, db, "set", "product", "1", "size", "10", "--history", "--actor", "ops")
	require.NoError(t, err)
	_, err = runCommand(t, db, "set", "product", "1", "size", "10", "--history")
	require.NoError(t, err)
	_, err = runCommand(t, db, "set", "product", "1", "size", "11", "--history")
	require.NoError(t, err)

	out, err := runCommand(t, db, "history", "product", "1")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2, "identical rewrite must not append a journal entry")
	assert.Contains(t, lines[0], "created")
	assert.Contains(t, lines[1], "updated")
}

func TestRoot_RejectsInvalidFormat(t *testing.T) {
	db := testDB(t)

	_, err := runCommand(t, db, "--format", "xml", "list", "product", "1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid format")
}

func TestRoot_RequiresDB(t *testing.T) {
	buf := &bytes.Buffer{}
	cmd := NewRootCommand()
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"list", "product", "1"})
	err := cmd.Execute()
	require.Error(t, err)
}

func TestParseValue(t *testing.T) {
	v, err := parseValue("42", "")
	require.NoError(t, err)
	assert.Equal(t, meta.Int(42), v)

	v, err = parseValue("42", "string")
	require.NoError(t, err)
	assert.Equal(t, meta.String("42"), v)

	v, err = parseValue(`{"a":1}`, "object")
	require.NoError(t, err)
	assert.Equal(t, meta.KindObject, v.Kind())

	_, err = parseValue("nope", "integer")
	assert.Error(t, err)

	_, err = parseValue("x", "resource")
	assert.Error(t, err)
}
