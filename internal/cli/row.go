package cli

import (
	"fmt"
	"strconv"
)

// rowHost adapts a bare (table, row id) pair to the overlay's host
// contract. The CLI addresses rows that already exist, so the host is
// always durable and recognizes no columns: every attribute name routes
// to the companion table.
type rowHost struct {
	base string
	id   int64
}

func (h rowHost) PrimaryKey() int64 { return h.id }

func (h rowHost) TableBase() string { return h.base }

func (h rowHost) IsColumn(name string) bool { return false }

func (h rowHost) IsDurable() bool { return true }

func (h rowHost) Columns() []string { return nil }

func (h rowHost) ColumnValue(name string) (any, bool) { return nil, false }

func (h rowHost) SetColumnValue(name string, v any) error {
	return fmt.Errorf("rowHost has no columns")
}

// parseOwnerID parses the <owner-id> positional argument.
func parseOwnerID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid owner id %q: %w", arg, err)
	}
	return id, nil
}
