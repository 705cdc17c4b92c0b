// Package store provides SQLite-backed durable storage for meta attributes.
//
// Every host table gets one companion table, derived by name: a base name
// "product" stores its meta attributes in "product_meta", keyed by the
// owner column "product_id". Each companion row holds one (owner, key)
// pair with an encoded value and its type tag.
//
// # Invariants
//
//   - At most one row exists per (owner id, meta key), enforced by a
//     UNIQUE constraint on the companion table.
//   - Rows are never created with a null value; a nil write deletes.
//   - EnsureTable is idempotent and called before every write path, so a
//     missing companion table is self-healing rather than user-visible.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
//
// Failures from any operation surface as *StoreError wrapping the driver
// error; the store never retries on its own.
package store
