// Package overlay attaches schema-less meta attributes to host records.
//
// An Overlay wraps one host record instance and intercepts attribute
// access in two tiers: names the host recognizes as columns go straight
// to the host, everything else is a meta attribute backed by the record's
// companion table.
//
// Reads consult an in-memory cache populated wholesale by Load (the
// after-fetch hook), falling back to a single-key store lookup when no
// bulk load has happened yet. Writes either dispatch immediately (eager
// mode, durable record) or queue until the next Flush (the after-save
// hook), last write per key winning. Each confirmed create or
// value-changing update is reported to the change history recorder.
//
// An Overlay is bound to one in-flight operation at a time; it does no
// internal locking.
package overlay
