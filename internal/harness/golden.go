package harness

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/require"

	"github.com/roach88/metakit/internal/history"
	"github.com/roach88/metakit/internal/overlay"
	"github.com/roach88/metakit/internal/store"
)

// Snapshot captures the final state of a scenario run. Serialized as
// indented JSON for golden comparison; map keys sort deterministically.
type Snapshot struct {
	Scenario   string         `json:"scenario"`
	Attributes map[string]any `json:"attributes"`
	Pending    []string       `json:"pending"`
	History    []JournalEntry `json:"history,omitempty"`
}

// JournalEntry is one change-history event, stripped of identities and
// timestamps so snapshots stay deterministic.
type JournalEntry struct {
	Event string  `json:"event"`
	Field string  `json:"field"`
	Old   *string `json:"old"`
	New   *string `json:"new"`
}

// RunWithGolden executes a scenario and compares its final snapshot
// against testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
func RunWithGolden(t *testing.T, scenarioPath string) {
	t.Helper()

	sc, err := LoadScenario(scenarioPath)
	require.NoError(t, err)

	snapshot := Run(t, sc)

	data, err := json.MarshalIndent(snapshot, "", "  ")
	require.NoError(t, err)
	data = append(data, '\n')

	g := goldie.New(t, goldie.WithFixtureDir(filepath.Join("testdata", "golden")))
	g.Assert(t, sc.Name, data)
}

// Run executes a scenario against a fresh temp database and returns the
// final snapshot.
func Run(t *testing.T, sc *Scenario) Snapshot {
	t.Helper()
	ctx := context.Background()

	s, err := store.Open(filepath.Join(t.TempDir(), "scenario.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	var recorder history.Recorder = history.Nop{}
	var journal *history.SQLiteRecorder
	if sc.History {
		journal = history.NewSQLiteRecorder(s.DB())
		recorder = journal
	}

	record := &sc.Record
	o := overlay.New(record, overlay.Options{
		Store:    s,
		Recorder: recorder,
		Eager:    sc.Eager,
	})

	for i, step := range sc.Steps {
		for _, key := range step.sortedKeys() {
			require.NoError(t, o.Set(ctx, key, step.Set[key]), "step %d: set %q", i, key)
		}
		for _, key := range step.Unset {
			require.NoError(t, o.Set(ctx, key, nil), "step %d: unset %q", i, key)
		}
		if step.Save != nil {
			if step.Save.ID != 0 {
				record.ID = step.Save.ID
			}
			record.Durable = true
			require.NoError(t, o.Flush(ctx), "step %d: save", i)
		}
		if step.Load {
			require.NoError(t, o.Load(ctx), "step %d: load", i)
		}
		for key, want := range step.Expect {
			got, err := o.Get(ctx, key)
			require.NoError(t, err, "step %d: get %q", i, key)
			require.EqualValues(t, want, got, "step %d: expect %q", i, key)
		}
	}

	snapshot := Snapshot{
		Scenario:   sc.Name,
		Attributes: o.All(sc.Except...),
		Pending:    o.Pending(),
	}
	if journal != nil {
		changes, err := journal.List(ctx, record.Base, record.ID)
		require.NoError(t, err)
		for _, c := range changes {
			snapshot.History = append(snapshot.History, JournalEntry{
				Event: string(c.Event),
				Field: c.Field,
				Old:   c.Old,
				New:   c.New,
			})
		}
	}
	return snapshot
}
