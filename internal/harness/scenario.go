// Package harness runs YAML-driven overlay scenarios for conformance
// tests. A scenario scripts a host record through attribute writes,
// saves, and reloads, then snapshots the final merged attribute state
// (and change journal) for golden-file comparison.
package harness

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// Scenario defines one overlay conformance scenario.
type Scenario struct {
	// Name uniquely identifies this scenario and its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Record is the scripted host record.
	Record Record `yaml:"record"`

	// Eager enables write-through mode on the overlay.
	Eager bool `yaml:"eager"`

	// History enables the SQLite change journal; journal entries become
	// part of the snapshot.
	History bool `yaml:"history"`

	// Steps is the scripted operation sequence.
	Steps []Step `yaml:"steps"`

	// Except is applied to the final merged view.
	Except []string `yaml:"except,omitempty"`
}

// Record is a scripted host record. It implements the overlay host
// contract directly.
type Record struct {
	// Base is the host base table name.
	Base string `yaml:"base"`

	// ID is the durable identity; zero until the first save step.
	ID int64 `yaml:"id"`

	// Durable marks the record as already persisted at scenario start.
	Durable bool `yaml:"durable"`

	// Fields holds the host's own column values, keyed by column name.
	Fields map[string]any `yaml:"columns"`
}

// PrimaryKey returns the record identity.
func (r *Record) PrimaryKey() int64 { return r.ID }

// TableBase returns the base table name.
func (r *Record) TableBase() string { return r.Base }

// IsColumn reports whether name is a scripted host column.
func (r *Record) IsColumn(name string) bool {
	_, ok := r.Fields[name]
	return ok
}

// IsDurable reports whether the record has been "persisted".
func (r *Record) IsDurable() bool { return r.Durable }

// Columns lists the scripted column names, sorted for determinism.
func (r *Record) Columns() []string {
	names := make([]string, 0, len(r.Fields))
	for name := range r.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ColumnValue returns a scripted column value.
func (r *Record) ColumnValue(name string) (any, bool) {
	v, ok := r.Fields[name]
	return v, ok
}

// SetColumnValue assigns a scripted column.
func (r *Record) SetColumnValue(name string, value any) error {
	if _, ok := r.Fields[name]; !ok {
		return fmt.Errorf("unknown column %q", name)
	}
	r.Fields[name] = value
	return nil
}

// Step is one scripted operation. Within a step, sets run first (in
// sorted key order, so scenarios stay deterministic), then unsets, then
// save, then load.
type Step struct {
	// Set writes attribute values.
	Set map[string]any `yaml:"set,omitempty"`

	// Unset writes nil to keys, deleting their entries.
	Unset []string `yaml:"unset,omitempty"`

	// Save simulates host-record persistence: assigns the durable
	// identity (when given) and triggers the after-save flush.
	Save *SaveStep `yaml:"save,omitempty"`

	// Load triggers the after-fetch wholesale cache load.
	Load bool `yaml:"load,omitempty"`

	// Expect asserts attribute values right after this step.
	Expect map[string]any `yaml:"expect,omitempty"`
}

// SaveStep carries the identity assigned by a save.
type SaveStep struct {
	// ID becomes the record's durable identity; zero keeps the current one.
	ID int64 `yaml:"id"`
}

// sortedKeys returns a step's set keys in deterministic order.
func (s Step) sortedKeys() []string {
	keys := make([]string, 0, len(s.Set))
	for k := range s.Set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// LoadScenario parses a scenario YAML file.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario: %w", err)
	}

	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, fmt.Errorf("parse scenario %s: %w", path, err)
	}
	if sc.Name == "" {
		return nil, fmt.Errorf("scenario %s has no name", path)
	}
	if sc.Record.Base == "" {
		return nil, fmt.Errorf("scenario %s has no record base", path)
	}
	return &sc, nil
}
