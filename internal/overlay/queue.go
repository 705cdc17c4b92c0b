package overlay

// pendingWrite is one queued attribute write. A nil Value is a pending
// delete.
type pendingWrite struct {
	Key   string
	Value any
}

// writeQueue buffers attribute writes until the host record can take
// them: an ordered key-to-value map where rewriting a key keeps its
// original queue position but replaces the value (last write wins).
//
// The queue is drained in accumulation order on flush. No locking: the
// overlay assumes one in-flight operation per record instance.
type writeQueue struct {
	keys    []string
	pending map[string]any
}

// newWriteQueue creates an empty queue.
func newWriteQueue() *writeQueue {
	return &writeQueue{pending: make(map[string]any)}
}

// Put queues a value for a key, overwriting any prior queued value.
func (q *writeQueue) Put(key string, value any) {
	if _, ok := q.pending[key]; !ok {
		q.keys = append(q.keys, key)
	}
	q.pending[key] = value
}

// Entries returns the queued writes in accumulation order.
func (q *writeQueue) Entries() []pendingWrite {
	entries := make([]pendingWrite, 0, len(q.keys))
	for _, k := range q.keys {
		entries = append(entries, pendingWrite{Key: k, Value: q.pending[k]})
	}
	return entries
}

// Remove drops a key from the queue, keeping the order of the rest.
func (q *writeQueue) Remove(key string) {
	if _, ok := q.pending[key]; !ok {
		return
	}
	delete(q.pending, key)
	for i, k := range q.keys {
		if k == key {
			q.keys = append(q.keys[:i], q.keys[i+1:]...)
			break
		}
	}
}

// Keys returns the queued keys in accumulation order.
func (q *writeQueue) Keys() []string {
	keys := make([]string, len(q.keys))
	copy(keys, q.keys)
	return keys
}

// Len returns the number of queued writes.
func (q *writeQueue) Len() int {
	return len(q.keys)
}
