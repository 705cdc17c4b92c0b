package overlay

import (
	"errors"
	"fmt"
	"strings"
)

// FlushFailure is one pending write that could not be dispatched.
type FlushFailure struct {
	// Key is the meta key whose write failed.
	Key string

	// Err is the dispatch error.
	Err error
}

// FlushError reports a partially failed flush. Failed entries stay in the
// write queue in their original order; a later Flush retries exactly them.
// Nothing is silently dropped.
type FlushError struct {
	// Failures lists the failed writes in queue order.
	Failures []FlushFailure
}

// Error implements the error interface.
func (e *FlushError) Error() string {
	keys := make([]string, len(e.Failures))
	for i, f := range e.Failures {
		keys[i] = f.Key
	}
	return fmt.Sprintf("flush: %d pending write(s) failed and were retained: %s",
		len(e.Failures), strings.Join(keys, ", "))
}

// Unwrap returns the first underlying failure, letting errors.Is/As reach
// the store error that caused it.
func (e *FlushError) Unwrap() error {
	if len(e.Failures) == 0 {
		return nil
	}
	return e.Failures[0].Err
}

// AsFlushError extracts a FlushError from an error chain.
func AsFlushError(err error) (*FlushError, bool) {
	var fe *FlushError
	if errors.As(err, &fe) {
		return fe, true
	}
	return nil, false
}
