package overlay

import (
	"context"
	"fmt"

	"github.com/roach88/metakit/internal/history"
	"github.com/roach88/metakit/internal/meta"
	"github.com/roach88/metakit/internal/store"
)

// Options configures an Overlay.
type Options struct {
	// Store is the companion store handle. Required.
	Store *store.Store

	// Recorder receives change-history entries. Defaults to history.Nop.
	Recorder history.Recorder

	// Eager enables write-through: meta writes on a durable record
	// dispatch immediately instead of queueing until Flush.
	Eager bool

	// Actor attributes history entries, when known.
	Actor string
}

// Overlay extends one host record instance with meta attributes.
type Overlay struct {
	host     Host
	store    *store.Store
	recorder history.Recorder
	eager    bool
	actor    string

	cache  map[string]meta.Value
	loaded bool
	queue  *writeQueue
}

// New binds an overlay to a host record instance. The store handle comes
// in explicitly; the overlay never reaches for a shared global connection.
func New(host Host, opts Options) *Overlay {
	rec := opts.Recorder
	if rec == nil {
		rec = history.Nop{}
	}
	return &Overlay{
		host:     host,
		store:    opts.Store,
		recorder: rec,
		eager:    opts.Eager,
		actor:    opts.Actor,
		queue:    newWriteQueue(),
	}
}

// Get returns the value of an attribute.
//
// Host columns come from the host record itself; a declared column the
// host holds no value for yields nil and never falls through to the
// companion table. Meta attributes come from the cache built by the last
// Load, falling back to a single-key store lookup when no bulk load has
// happened yet. An unknown meta key yields nil, never an error.
func (o *Overlay) Get(ctx context.Context, name string) (any, error) {
	if o.host.IsColumn(name) {
		if v, ok := o.host.ColumnValue(name); ok {
			return v, nil
		}
		return nil, nil
	}

	key := meta.NormalizeKey(name)
	if val, ok := o.cache[key]; ok {
		return val.Any(), nil
	}
	if o.loaded {
		// Cache is authoritative after a wholesale load.
		return nil, nil
	}

	base := o.host.TableBase()
	exists, err := o.store.TableExists(ctx, base)
	if err != nil {
		return nil, fmt.Errorf("get %q: %w", name, err)
	}
	if !exists {
		return nil, nil
	}

	entry, found, err := o.store.Find(ctx, base, o.host.PrimaryKey(), key)
	if err != nil {
		return nil, fmt.Errorf("get %q: %w", name, err)
	}
	if !found {
		return nil, nil
	}

	val, err := meta.Decode(entry.Value, entry.Kind)
	if err != nil {
		return nil, fmt.Errorf("get %q: %w", name, err)
	}
	return val.Any(), nil
}

// Set assigns an attribute.
//
// Host columns delegate to the host record. Meta attributes dispatch to
// the companion store immediately when eager mode is on and the record
// has a durable identity; otherwise they queue until the next Flush,
// last write per key winning. A nil value deletes the entry.
func (o *Overlay) Set(ctx context.Context, name string, value any) error {
	if o.host.IsColumn(name) {
		return o.host.SetColumnValue(name, value)
	}

	key := meta.NormalizeKey(name)
	if o.eager && o.host.IsDurable() {
		return o.dispatch(ctx, key, value)
	}

	o.queue.Put(key, value)
	return nil
}

// Load replaces the cache wholesale with the record's stored meta
// attributes. Attach to the host's after-fetch hook. A decode failure
// leaves the existing cache untouched.
func (o *Overlay) Load(ctx context.Context) error {
	base := o.host.TableBase()

	exists, err := o.store.TableExists(ctx, base)
	if err != nil {
		return fmt.Errorf("load: %w", err)
	}
	if !exists {
		o.cache = map[string]meta.Value{}
		o.loaded = true
		return nil
	}

	entries, err := o.store.LoadAll(ctx, base, o.host.PrimaryKey())
	if err != nil {
		return fmt.Errorf("load: %w", err)
	}

	fresh := make(map[string]meta.Value, len(entries))
	for _, e := range entries {
		val, err := meta.Decode(e.Value, e.Kind)
		if err != nil {
			return fmt.Errorf("load %q: %w", e.Key, err)
		}
		fresh[e.Key] = val
	}

	o.cache = fresh
	o.loaded = true
	return nil
}

// Flush drains the write queue through the dispatch path, then reloads
// the cache so subsequent reads see durable state. Attach to the host's
// after-save hook.
//
// A failed entry is retained in the queue in its original position and
// reported in the returned FlushError; the next Flush retries it.
func (o *Overlay) Flush(ctx context.Context) error {
	if !o.host.IsDurable() {
		return fmt.Errorf("flush: host record has no durable identity")
	}

	var failures []FlushFailure
	for _, entry := range o.queue.Entries() {
		if err := o.dispatch(ctx, entry.Key, entry.Value); err != nil {
			failures = append(failures, FlushFailure{Key: entry.Key, Err: err})
			continue
		}
		o.queue.Remove(entry.Key)
	}

	if len(failures) > 0 {
		return &FlushError{Failures: failures}
	}

	return o.Load(ctx)
}

// dispatch writes one attribute straight through to the companion store,
// diffing against the prior value and recording history on a confirmed
// create or a value-changing update. The companion table is provisioned
// first, so an absent table self-heals here rather than failing.
func (o *Overlay) dispatch(ctx context.Context, key string, value any) error {
	base := o.host.TableBase()
	owner := o.host.PrimaryKey()

	if err := o.store.EnsureTable(ctx, base); err != nil {
		return fmt.Errorf("set %q: %w", key, err)
	}

	if value == nil {
		if err := o.store.Delete(ctx, base, owner, key); err != nil {
			return fmt.Errorf("set %q: %w", key, err)
		}
		delete(o.cache, key)
		return nil
	}

	val, err := meta.FromAny(value)
	if err != nil {
		return fmt.Errorf("set %q: %w", key, err)
	}
	text, kind, err := meta.Encode(val)
	if err != nil {
		return fmt.Errorf("set %q: %w", key, err)
	}

	res, err := o.store.Upsert(ctx, base, owner, key, text, kind)
	if err != nil {
		return fmt.Errorf("set %q: %w", key, err)
	}

	switch {
	case res.Created:
		err = o.recorder.Record(ctx, history.Change{
			TableName: base,
			RowID:     owner,
			MetaID:    res.ID,
			Event:     history.EventCreated,
			Field:     key,
			New:       &text,
			Actor:     o.actor,
		})
	case res.PriorValue != text || res.PriorKind != kind:
		prior := res.PriorValue
		err = o.recorder.Record(ctx, history.Change{
			TableName: base,
			RowID:     owner,
			MetaID:    res.ID,
			Event:     history.EventUpdated,
			Field:     key,
			Old:       &prior,
			New:       &text,
			Actor:     o.actor,
		})
	}
	if err != nil {
		return fmt.Errorf("set %q: record history: %w", key, err)
	}

	if o.cache == nil {
		o.cache = map[string]meta.Value{}
	}
	o.cache[key] = val
	return nil
}

// All returns the merged view of host columns and cached meta attributes.
// The except list suppresses names from either side, applied last.
func (o *Overlay) All(except ...string) map[string]any {
	return o.Attributes(nil, except)
}

// Attributes returns a merged view selecting host columns by name (all of
// them when names is empty); cached meta attributes are always unioned
// in. The except list suppresses both kinds uniformly, applied last; each
// entry suppresses both its literal and its normalized form, since cache
// keys are NFC while host columns carry whatever name the host declares.
func (o *Overlay) Attributes(names, except []string) map[string]any {
	result := make(map[string]any)

	cols := names
	if len(cols) == 0 {
		cols = o.host.Columns()
	}
	for _, col := range cols {
		if !o.host.IsColumn(col) {
			continue
		}
		if v, ok := o.host.ColumnValue(col); ok {
			result[col] = v
		}
	}

	for k, v := range o.cache {
		result[k] = v.Any()
	}

	for _, name := range except {
		delete(result, name)
		delete(result, meta.NormalizeKey(name))
	}
	return result
}

// Loaded reports whether a wholesale cache load has completed.
func (o *Overlay) Loaded() bool {
	return o.loaded
}

// Pending returns the queued meta keys in accumulation order.
func (o *Overlay) Pending() []string {
	return o.queue.Keys()
}
