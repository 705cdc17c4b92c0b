// Package history records meta attribute changes as an append-only journal.
//
// The overlay engine invokes a Recorder on every confirmed create and every
// value-changing update of a meta entry, never on delete. The Nop recorder
// keeps the call contract alive while history is policy-disabled, so
// enabling it is a construction-time change, not a call-site change.
package history

import (
	"context"
	"time"
)

// Event distinguishes journal entry kinds.
type Event string

const (
	// EventCreated marks the first write of a meta key.
	EventCreated Event = "created"
	// EventUpdated marks a value-changing rewrite of an existing key.
	EventUpdated Event = "updated"
)

// Change is one immutable journal entry. Entries are appended and never
// mutated or deleted by this engine.
type Change struct {
	// ID is the journal entry identity (UUIDv7, assigned on record).
	ID string

	// TableName is the host base table the change belongs to.
	TableName string

	// RowID is the host record identity.
	RowID int64

	// MetaID is the companion-row identity the change applies to.
	MetaID int64

	// Event is the entry kind.
	Event Event

	// Field is the meta key that changed.
	Field string

	// Old is the replaced encoded value; nil on create.
	Old *string

	// New is the written encoded value.
	New *string

	// At is the change time; the zero value means "now" at record time.
	At time.Time

	// Actor identifies who made the change, when known.
	Actor string
}

// Recorder is the change-history sink contract.
//
// Implementations must treat Record as append-only. The overlay invokes it
// at fixed points regardless of policy; a disabled sink is the Nop type,
// not a skipped call.
type Recorder interface {
	Record(ctx context.Context, change Change) error
}

// Nop is the policy-disabled recorder. It satisfies the Recorder contract
// and discards every change.
type Nop struct{}

// Record discards the change.
func (Nop) Record(ctx context.Context, change Change) error {
	return nil
}
