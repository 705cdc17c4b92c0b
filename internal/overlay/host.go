package overlay

// Host is the boundary with the host record system. The host owns its
// fixed column schema and persistence lifecycle; the overlay only needs
// identity, column introspection, and durability.
//
// Adopters attach the overlay to the host's lifecycle: call Load from the
// after-fetch hook and Flush from the after-save hook.
type Host interface {
	// PrimaryKey returns the durable identity used as the owner id.
	// Only meaningful when IsDurable reports true.
	PrimaryKey() int64

	// TableBase returns the base table name, from which the companion
	// table ("<base>_meta") and owner column ("<base>_id") derive.
	TableBase() string

	// IsColumn reports whether a name is a recognized host column,
	// as opposed to a meta attribute.
	IsColumn(name string) bool

	// IsDurable reports whether the record has been persisted at least
	// once. Gates eager write-through vs. queueing.
	IsDurable() bool

	// Columns lists the host's recognized column names.
	Columns() []string

	// ColumnValue returns the host's own value for a column.
	ColumnValue(name string) (any, bool)

	// SetColumnValue assigns a host column. The overlay delegates here
	// without interpreting the value.
	SetColumnValue(name string, value any) error
}
